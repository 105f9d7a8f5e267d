// Package marketplace provides an HTTP client for the Visual Studio
// Marketplace gallery API.
//
// # Overview
//
// The marketplace is the system of record for VS Code extensions. An
// extension is looked up by its "publisher.name" identifier through the
// gallery query endpoint:
//
//	POST {base}/_apis/public/gallery/extensionquery
//
// The last extension of the last result set is taken as the match. Its
// first version entry carries the asset list, from which the
// Microsoft.VisualStudio.Code.Manifest asset (the extension's package.json)
// is fetched to learn the source repository.
//
// # Manifests
//
// [ParseManifest] decodes an extension package.json from any source (the
// marketplace asset, the GitHub contents API, or a local clone). The
// repository field may be either a string or an object with a url member;
// it is normalized once here so nothing downstream has to care.
package marketplace
