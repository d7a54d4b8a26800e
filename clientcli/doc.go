// Package clientcli is the client side of the relay: it builds request bodies,
// signs them and reports the server's confirmations.
//
// A body is marshalled once and those exact bytes are both signed (RSA-PSS,
// SHA-256, 32-byte salt) and sent; the base64 signature travels in the
// Authorization header. Re-encoding a body after signing would break
// verification, so callers never see the raw request.
//
// # Sending requests
//
//	client, err := clientcli.New(&clientcli.Config{
//		Endpoint:       "https://relay.example.com",
//		PrivateKeyFile: "./keys/private.pem",
//	})
//	if err != nil {
//		return err
//	}
//
//	// One request per file; failures are reported per result.
//	uploads, err := client.Upload(ctx, clientcli.UploadOptions{
//		Category: relay.CategoryMods,
//		Paths:    []string{"./author_mod.zip"},
//	})
//
//	// The server fetches the URL itself.
//	mirrored, err := client.Mirror(ctx, clientcli.MirrorOptions{
//		Category: relay.CategoryScreenshots,
//		URL:      "https://cdn.example.com/a.png",
//	})
//
//	// Split into batches of relay.MaxDeleteBatch names.
//	deleted, err := client.Delete(ctx, clientcli.DeleteOptions{
//		Category:  relay.CategoryScreenshots,
//		FileNames: names,
//	})
//
// Non-200 replies come back as *APIError and match ErrBadRequest,
// ErrUnauthorized or ErrForbidden under errors.Is.
//
// # Profiles
//
// ConfigFile stores named profiles in ~/.relay/config.yaml. The CLI resolves a
// profile, then RELAY_* environment variables, then flags, with MergeConfig.
//
// # Output
//
// NewFormatter picks HumanFormatter or JSONFormatter for command output.
package clientcli
