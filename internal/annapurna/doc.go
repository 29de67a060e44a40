// Package annapurna provides an HTTP client for the Annapurna food-rescue API.
//
// # Overview
//
// This package defines the typed API client Ladle uses to talk to the
// platform's request/response backend. It handles HTTP communication, JSON
// serialization, bearer-token attachment, and failure normalization.
//
// # Architecture
//
// The package is split into two files:
//
//   - client.go: HTTP client implementation and request/response handling
//   - types.go: Data structures mirroring the Annapurna API schema
//
// # Authentication
//
// The client never caches credentials. Every request consults its TokenSource
// at call time, so a login or logout that happens between two calls is
// honored by the very next request. A nil TokenSource yields an anonymous
// client, which is enough for the public impact and tracking endpoints.
//
// # Error Handling
//
// Any non-2xx response is returned as *APIError carrying the HTTP status and
// the machine-readable detail string from the API's error body. Callers use
// errors.As to inspect it:
//
//	orders, err := client.MyOrders(ctx)
//	var apiErr *annapurna.APIError
//	if errors.As(err, &apiErr) && apiErr.Unauthorized() {
//		// session invalid: log out and prompt re-login
//	}
//
// Transport failures (timeouts, refused connections) come back wrapped with
// "execute request:"; the sync layer treats both kinds as transient unless
// Unauthorized reports true.
//
// # Retry Policy
//
// None. Callers decide whether a failure is fatal or should degrade to
// cached or fallback data; see the viewstate package.
package annapurna
