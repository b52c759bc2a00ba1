/*
Package req builds the per-request view of an HTTP request the rest of trailhead works with.

Build determines the effective HTTP method, honoring a method spoofed through the "__spoofer" form field,
collects the input matching that method, and splits the path into segments.
The spoofer field never appears in the collected input.

Handlers get data out of a *Context into their own structs with Context.Bind.
The parade of errors that may propagate from decoding and validating
are translated to trailhead sentinel errors in order to provide a consistent interface.
*/
package req
