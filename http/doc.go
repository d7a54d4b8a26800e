// Package http exposes the mirror relay over HTTP.
//
// Every write request carries a JSON body signed with RSA-PSS. The signature
// travels base64 encoded in the Authorization header and is computed over the
// exact body bytes, so the body is read once and never re-serialized before
// verification.
//
// # Routes
//
//   - PUT /     upload a base64 file or mirror a file by URL
//   - DELETE /  delete a batch of files from one category
//   - GET /healthz  liveness check, unauthenticated
//
// Any other method is answered with 405.
//
// # Authentication
//
// AuthMiddleware takes the caller IP from a trusted header set by the fronting
// proxy (CF-Connecting-IP by default) and hands it, the signature, and the body
// to an Authenticator. Rejections only expose the status code:
//
//	handlerCfg := http.HandlerConfig{
//	    Auth: http.AuthMiddlewareConfig{MaxBodySize: 64 << 20},
//	}
//	auth := relay.NewAuthenticator(relay.NewCredentials(authCfg))
//	dispatcher := relay.NewDispatcher(bindings, "example.com")
//	handler := http.NewHandler(&handlerCfg, auth, dispatcher)
//	http.ListenAndServe(":8080", handler.Router())
//
// Successful requests are answered with a plain text confirmation naming the
// public URL of the stored file or the number of deleted files.
package http
