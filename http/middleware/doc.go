/*
The middleware package defines what a middleware is in trailhead and the basic middlewares
every execution context served over HTTP passes through before the dispatch pipeline.

The available middlewares are:
- LogRequest
- RequestID

A ranger.Ranger chains them as follows:

	adpts := []middleware.Adapter{
		middleware.RequestID(),
		middleware.LogRequest(log),
	}
*/
package middleware
