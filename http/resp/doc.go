/*
Package resp builds the value an execution context sends back over its transport.

A [Response] holds content, a status code, and headers.
Handlers construct one with [New] or through a [Responder],
which knows how to render views, error pages, and file downloads application-wide:
  - [*Responder.View] renders a named view
  - [*Responder.Error] renders the "error/<code>" view with that status
  - [*Responder.Download] streams a file as an attachment

[*Response.Send] writes the status line and headers, unless the [Transport] already has,
and then the content. A Response can be sent once.
*/
package resp
