package cli

import (
	"context"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vsxpack/internal/config"
	"github.com/matzehuels/vsxpack/pkg/cache"
	"github.com/matzehuels/vsxpack/pkg/git"
	"github.com/matzehuels/vsxpack/pkg/integrations"
	"github.com/matzehuels/vsxpack/pkg/integrations/github"
	"github.com/matzehuels/vsxpack/pkg/integrations/marketplace"
	"github.com/matzehuels/vsxpack/pkg/integrations/openvsx"
	"github.com/matzehuels/vsxpack/pkg/vsx"
)

const (
	memoryCacheSize  = 2048
	breakerThreshold = 5
	breakerWait      = 30 * time.Second
	redisPingTimeout = 2 * time.Second
)

// services is everything a command needs to run an audit.
type services struct {
	cfg        *config.Config
	cache      cache.Cache
	market     *marketplace.Client
	github     *github.Client
	openvsx    *openvsx.Client
	snapshot   *vsx.Snapshot
	classifier *vsx.Classifier
	auditor    *vsx.Auditor
	breakers   *integrations.Breakers
}

// newServices wires clients and pipeline stages from cfg.
func (c *CLI) newServices(cfg *config.Config, noCache bool) (*services, error) {
	backend, err := newCache(cfg, noCache, c.Logger)
	if err != nil {
		return nil, err
	}

	ttl := cfg.CacheTTL.Duration
	breakers := integrations.NewBreakers(breakerThreshold, breakerWait)

	market := marketplace.NewClient(backend, ttl).WithBaseURL(cfg.MarketplaceURL)
	market.WithBreakers(breakers)
	gh := github.NewClient(backend, cfg.GitHubToken, ttl).WithBaseURL(cfg.GitHubAPIURL)
	gh.WithBreakers(breakers)
	ovsx := openvsx.NewClient(backend, ttl).WithBaseURL(cfg.OpenVSXURL)
	ovsx.WithBreakers(breakers)

	snapshot := &vsx.Snapshot{Path: cfg.SnapshotPath, URL: cfg.SnapshotURL, Source: ovsx}
	classifier := vsx.NewClassifier(
		vsx.DefaultDeprecations().Merge(cfg.Deprecated),
		vsx.DefaultIneligible().Merge(cfg.Ineligible...),
		vsx.SPDXLicenses(),
	)
	resolver := vsx.NewResolver(market, gh, c.Logger)

	return &services{
		cfg:        cfg,
		cache:      backend,
		market:     market,
		github:     gh,
		openvsx:    ovsx,
		snapshot:   snapshot,
		classifier: classifier,
		auditor: &vsx.Auditor{
			Resolver:   resolver,
			Checker:    vsx.NewChecker(ovsx, market, cfg.Concurrency, c.Logger),
			Enricher:   vsx.NewEnricher(resolver, gh, cfg.Concurrency, c.Logger),
			Classifier: classifier,
			Snapshot:   snapshot,
			Logger:     c.Logger,
		},
		breakers: breakers,
	}, nil
}

func (s *services) Close() error {
	return s.cache.Close()
}

// reportDegraded names the upstream hosts whose breaker opened during an
// audit that came back with failed lookups.
func reportDegraded(logger *log.Logger, result *vsx.Result, breakers *integrations.Breakers) {
	if result.WarningCount() == 0 {
		return
	}
	states := breakers.States()
	logger.Debug("circuit breakers", "states", states)

	var open []string
	for host, state := range states {
		if state == "open" {
			open = append(open, host)
		}
	}
	slices.Sort(open)
	for _, host := range open {
		logger.Warn("upstream unavailable; results may be incomplete", "host", host)
	}
}

func (c *CLI) git() git.Cloner {
	if c.Git != nil {
		return c.Git
	}
	return git.NewClient()
}

// newCache builds the response cache: an in-process LRU in front of Redis
// when redis_url is set, otherwise in front of the file cache.
func newCache(cfg *config.Config, noCache bool, logger *log.Logger) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}

	var next cache.Cache
	if cfg.RedisURL != "" {
		rc, err := newRedisCache(cfg.RedisURL)
		if err != nil {
			logger.Warn("redis unavailable, using file cache", "err", err)
		} else {
			next = rc
		}
	}
	if next == nil {
		fc, err := cache.NewFileCache(httpCacheDir())
		if err != nil {
			logger.Warn("file cache unavailable, caching in memory only", "err", err)
			next = cache.NewNullCache()
		} else {
			next = fc
		}
	}

	mc, err := cache.NewMemoryCache(memoryCacheSize, next)
	if err != nil {
		next.Close()
		return nil, err
	}
	return mc, nil
}

func newRedisCache(url string) (*cache.RedisCache, error) {
	rc, err := cache.NewRedisCache(url, "vsxpack:")
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		rc.Close()
		return nil, err
	}
	return rc, nil
}

// httpCacheDir is where HTTP responses are cached.
func httpCacheDir() string {
	return filepath.Join(config.CacheDir(), "http")
}
