// Package github provides an HTTP client for the GitHub REST API.
//
// # Overview
//
// Two endpoints are used while auditing an extension pack:
//
//   - GET /repos/{owner}/{repo}/contents/{path}: raw file content, used to
//     read a pack's package.json from the default branch
//   - GET /repos/{owner}/{repo}: repository metadata, used for the detected
//     license (spdx_id and html_url)
//
// # Usage
//
//	client := github.NewClient(backend, os.Getenv("GITHUB_TOKEN"), 24*time.Hour)
//	lic, err := client.FetchLicense(ctx, "microsoft", "vscode-eslint", false)
//
// # Authentication
//
// A GitHub personal access token is optional but recommended. Without a
// token, the client is limited to 60 requests/hour.
//
// # Caching
//
// Responses are cached through the [cache.Cache] passed to [NewClient].
// Pass refresh=true to bypass the cache.
//
// [cache.Cache]: github.com/matzehuels/vsxpack/pkg/cache.Cache
package github
