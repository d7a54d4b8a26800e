// Package relay authenticates signed requests and relays file content into
// category buckets (mods, screenshots, rich presence icons).
//
// A request passes through a fixed pipeline:
//
//  1. The raw body is read once and kept verbatim.
//  2. The Authenticator checks the caller IP against the allow-list, then verifies
//     the RSA-PSS (SHA-256, 32-byte salt) signature over the raw body.
//  3. Classify narrows the JSON body to exactly one Payload variant: UploadRequest,
//     DownloadRequest or DeletionRequest.
//  4. The Dispatcher resolves the category binding and calls the Bucket.
//
// # Key Components
//
//   - Credentials / Authenticator: immutable key material and allow-list, built once
//   - Classify: discriminates and validates request bodies
//   - Dispatcher: performs Put / Delete against a Bucket
//   - Bucket: interface implemented by the filesystem and r2 packages
//
// # Example Usage
//
//	creds := relay.NewCredentials(relay.AuthConfig{
//	    Environment:  relay.EnvProduction,
//	    PermittedIPs: []string{"203.0.113.7"},
//	    PublicKey:    publicKeyB64,
//	})
//	auth := relay.NewAuthenticator(creds)
//
//	res := auth.Authenticate(relay.AuthRequest{SourceIP: ip, Signature: sig, HasSignature: true, Body: body})
//	if !res.OK() {
//	    // respond with res.Status
//	}
//
//	payload, err := relay.Classify(body)
//	msg, err := dispatcher.Dispatch(ctx, payload)
//
// See the http package for the HTTP surface.
package relay
