// Package request provides the generic request/response pipeline of the client.
//
// Any type implementing the Endpoint interface describes one API call: HTTP method,
// resource path, query parameters and an optional body.
// The Execute function assembles a WireRequest from an Endpoint, sends it by a Sender
// and decodes the response envelope to the generic type T, or to one of the typed errors:
// ClientError, BodyError, APIError and DecodeError.
//
// Endpoints which also implement the Pageable marker can be iterated by the Paginate function.
// Pages are fetched lazily, one by one, when the Pager is advanced.
//
// Sender is a blocking transport, AsyncSender is a non-blocking transport returning a Future.
// Both are served by the same execution core, see Execute/ExecuteAsync and Paginate/PaginateAsync.
// The client.Client and client.AsyncClient are the default implementations.
//
// APIRequest[R Result] binds an Endpoint to a Sender and supports callbacks.
// RunGroup, WaitGroup and ParallelAPIRequests are helpers for concurrent requests.
package request
