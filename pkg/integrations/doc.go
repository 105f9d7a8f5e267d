// Package integrations provides HTTP clients for the services an audit talks to.
//
// # Overview
//
// Each upstream has its own subpackage:
//
//   - [marketplace]: Visual Studio Marketplace gallery search and manifests
//   - [github]: repository licenses and file contents
//   - [openvsx]: Open VSX registry lookups and the extension snapshot
//
// # Client Pattern
//
// All clients embed [Client] and follow the same shape:
//
//	client := openvsx.NewClient(backend, 24*time.Hour)
//	ext, err := client.Lookup(ctx, "redhat", "java", false) // false = use cache
//
// [Client] handles:
//   - response caching through [cache.Cache] with a per-client namespace
//   - retries with exponential backoff for retryable failures
//   - per-host circuit breakers shared between clients ([Breakers])
//
// Missing resources surface as [ErrNotFound], transport failures and 5xx
// responses as [ErrNetwork]. Both are wrapped with context via %w.
//
// [marketplace]: github.com/matzehuels/vsxpack/pkg/integrations/marketplace
// [github]: github.com/matzehuels/vsxpack/pkg/integrations/github
// [openvsx]: github.com/matzehuels/vsxpack/pkg/integrations/openvsx
// [cache.Cache]: github.com/matzehuels/vsxpack/pkg/cache.Cache
package integrations
