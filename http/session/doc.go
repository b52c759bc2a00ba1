/*
Package session loads a request's session payload before dispatch and saves it once after.

A Service holds the stores backing each driver: "cookie", "file", "redis" and "database".
Each execution context drives its own Manager through the Lifecycle:
Start picks the driver, Load reads the payload, Save writes it back.
*/
package session
