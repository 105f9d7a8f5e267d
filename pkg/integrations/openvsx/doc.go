// Package openvsx provides an HTTP client for the Open VSX registry.
//
// # Overview
//
// Open VSX (https://open-vsx.org) is the vendor-neutral extension registry
// used by VS Code forks. This package performs two kinds of requests:
//
//   - [Client.Lookup]: GET /api/{namespace}/{name}, a live existence check
//   - [Client.FetchSnapshot]: the publish-extensions listing of every
//     extension known to the registry, used to seed the local index
//
// A lookup never fails because the extension is missing. The registry
// answers unknown extensions with an "error" member (or a non-2xx status),
// and [Client.Lookup] turns that into an [Extension] with NotFound set.
// Transport failures are returned alongside a NotFound record so callers
// can degrade without special-casing.
package openvsx
