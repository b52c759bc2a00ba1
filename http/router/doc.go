/*
Package router holds the route table bundles register their routes on
and the Dispatcher that turns a request context into a response.

Matching itself is left to gorilla/mux.
*/
package router
