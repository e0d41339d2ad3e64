// Package youtube implements publish.Platform on the YouTube Data API v3.
//
// Credentials are never minted here: LoadTokenSource reads the OAuth client
// secrets and a token cached by an earlier interactive authorization, refreshes
// the access token when it expires, and writes refreshed tokens back to the
// cache file. Uploads use resumable chunked transfer; progress is logged in
// 10% buckets.
package youtube
