package preview

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/k3a/html2text"
	"golang.org/x/sync/singleflight"

	"github.com/MrSnakeDoc/vrain/internal/domain"
	"github.com/MrSnakeDoc/vrain/internal/logger"
)

const (
	DefaultTimeout  = 5 * time.Second
	DefaultCacheTTL = 24 * time.Hour
)

// Options configures a Resolver. Zero values pick the defaults.
type Options struct {
	OEmbedEndpoint   string        // oEmbed API for tweets (default publish.x.com)
	Placeholder      string        // fallback image (default DefaultPlaceholderURL)
	Timeout          time.Duration // per outbound request
	CacheTTL         time.Duration // lifetime of cached resolutions
	BreakerThreshold int64         // consecutive oEmbed failures before the breaker opens
	GenericScrape    bool          // look up og:image for generic links
	HTTPClient       *http.Client  // overrides the client built from Timeout
	Shared           Cache         // optional second-tier cache (Redis)
	Metrics          *Metrics      // optional counters
	Logger           logger.Logger
}

// Resolver turns links into previews. It never fails: every error path
// yields a defined fallback. Safe for concurrent use.
type Resolver struct {
	placeholder string
	timeout     time.Duration
	ttl         time.Duration
	scrape      bool

	oembed  *oembedClient
	scraper *imageScraper
	local   *MemoryCache
	shared  Cache
	group   singleflight.Group
	metrics *Metrics
	logger  logger.Logger

	quit      chan struct{}
	pruned    chan struct{}
	closeOnce sync.Once
}

// NewResolver builds a Resolver from opts.
func NewResolver(opts Options) *Resolver {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.Placeholder == "" {
		opts.Placeholder = domain.DefaultPlaceholderURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = newHTTPClient(opts.Timeout)
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}

	r := &Resolver{
		placeholder: opts.Placeholder,
		timeout:     opts.Timeout,
		ttl:         opts.CacheTTL,
		scrape:      opts.GenericScrape,
		oembed:      newOEmbedClient(opts.OEmbedEndpoint, opts.HTTPClient, opts.BreakerThreshold),
		scraper:     &imageScraper{http: newScrapeClient(opts.Timeout)},
		local:       NewMemoryCache(opts.CacheTTL),
		shared:      opts.Shared,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
		quit:        make(chan struct{}),
		pruned:      make(chan struct{}),
	}
	go r.pruneLoop(2 * opts.CacheTTL)
	return r
}

// Close stops the expiry loop of the in-process cache. Fetches already in
// flight finish on their own timeout. Safe to call more than once.
func (r *Resolver) Close() {
	r.closeOnce.Do(func() {
		close(r.quit)
		<-r.pruned
	})
}

func (r *Resolver) pruneLoop(interval time.Duration) {
	defer close(r.pruned)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-r.quit:
			return
		case <-ticker.C:
			r.local.Prune()
		}
	}
}

// Classify exposes the classifier used by Resolve.
func (r *Resolver) Classify(link string) domain.Category {
	return domain.Classify(link)
}

// Placeholder returns the configured fallback image.
func (r *Resolver) Placeholder() string {
	return r.placeholder
}

// BreakerOpen reports whether the oEmbed breaker is tripped.
func (r *Resolver) BreakerOpen() bool {
	return r.oembed.tripped()
}

// CachedCount returns the number of previews held in process memory.
func (r *Resolver) CachedCount() int {
	return r.local.Len()
}

// Forget drops every preview held in process memory.
func (r *Resolver) Forget() {
	r.local.Flush()
}

// Resolve produces a preview for link.
//   - youtube: deterministic thumbnail, no network
//   - twitter: oEmbed html, or the Twitter icon on any failure
//   - generic: the placeholder (og:image lookup only when enabled)
func (r *Resolver) Resolve(ctx context.Context, link string) domain.PreviewResult {
	link = strings.TrimSpace(link)
	category := domain.Classify(link)

	var result domain.PreviewResult
	switch {
	case link == "":
		result = domain.PlaceholderPreview(domain.CategoryGeneric, r.placeholder)
	case category == domain.CategoryYouTube:
		result = r.resolveYouTube(link)
	case category == domain.CategoryGeneric && !r.scrape:
		result = domain.PlaceholderPreview(category, r.placeholder)
	default:
		result = r.resolveRemote(ctx, link, category)
	}

	r.metrics.observe(result)
	return result
}

func (r *Resolver) resolveYouTube(link string) domain.PreviewResult {
	id, ok := domain.ExtractYouTubeID(link)
	if !ok {
		r.logger.Debug("youtube link without video id, using placeholder",
			logger.String("link", link),
			logger.Error(domain.ErrInvalidYouTubeURL))
		return domain.PlaceholderPreview(domain.CategoryYouTube, r.placeholder)
	}
	return domain.ImagePreview(domain.CategoryYouTube, domain.YouTubeThumbnailURL(id))
}

// resolveRemote serves networked categories through the cache tiers and
// collapses concurrent lookups of the same link into one request.
func (r *Resolver) resolveRemote(ctx context.Context, link string, category domain.Category) domain.PreviewResult {
	if p, ok, _ := r.local.GetPreview(ctx, link); ok {
		r.metrics.hit("memory")
		return p
	}

	if r.shared != nil {
		p, ok, err := r.shared.GetPreview(ctx, link)
		if err != nil {
			r.logger.Debug("shared preview cache unavailable", logger.Error(err))
		}
		if ok {
			r.metrics.hit("shared")
			_ = r.local.SavePreview(ctx, link, p, r.ttl)
			return p
		}
	}

	ch := r.group.DoChan(link, func() (interface{}, error) {
		// Detached from the first caller so its cancellation does not
		// leak a fallback to every waiter; bounded by the timeout instead.
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()

		var p domain.PreviewResult
		if category == domain.CategoryTwitter {
			p = r.fetchTweet(fetchCtx, link)
		} else {
			p = r.fetchPageImage(fetchCtx, link, category)
		}

		if !p.Fallback {
			r.store(fetchCtx, link, p)
		}
		return p, nil
	})

	select {
	case res := <-ch:
		return res.Val.(domain.PreviewResult)
	case <-ctx.Done():
		// the shared fetch keeps running for the other waiters
		return r.fallback(category)
	}
}

func (r *Resolver) fallback(category domain.Category) domain.PreviewResult {
	if category == domain.CategoryTwitter {
		return twitterFallback()
	}
	return domain.PlaceholderPreview(category, r.placeholder)
}

func (r *Resolver) fetchTweet(ctx context.Context, link string) domain.PreviewResult {
	resp, err := r.oembed.Fetch(ctx, link)
	if err != nil {
		r.logger.Warn("oembed lookup failed, using twitter icon",
			logger.String("link", link),
			logger.Error(err))
		return twitterFallback()
	}
	if strings.TrimSpace(resp.HTML) == "" {
		r.logger.Debug("oembed response without html, using twitter icon",
			logger.String("link", link))
		return twitterFallback()
	}
	return domain.EmbedPreview(domain.CategoryTwitter, resp.HTML, strings.TrimSpace(html2text.HTML2Text(resp.HTML)))
}

func (r *Resolver) fetchPageImage(ctx context.Context, link string, category domain.Category) domain.PreviewResult {
	img, err := r.scraper.Scrape(ctx, link)
	if err != nil {
		r.logger.Debug("page image lookup failed, using placeholder",
			logger.String("link", link),
			logger.Error(err))
		return domain.PlaceholderPreview(category, r.placeholder)
	}
	return domain.ImagePreview(category, img)
}

func (r *Resolver) store(ctx context.Context, link string, p domain.PreviewResult) {
	_ = r.local.SavePreview(ctx, link, p, r.ttl)
	if r.shared == nil {
		return
	}
	if err := r.shared.SavePreview(ctx, link, p, r.ttl); err != nil {
		r.logger.Debug("failed to share preview", logger.Error(err))
	}
}

func twitterFallback() domain.PreviewResult {
	p := domain.ImagePreview(domain.CategoryTwitter, domain.TwitterFallbackIconURL)
	p.Fallback = true
	return p
}
