package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/MrSnakeDoc/vrain/internal/utils"
)

const maxPageBody = 2 << 20

var (
	errNoImage        = errors.New("page declares no preview image")
	errPrivateAddress = errors.New("refusing to dial a private address")
)

// imageSelectors are checked in order; the first non-empty content wins.
var imageSelectors = []string{
	`meta[property="og:image"]`,
	`meta[property="og:image:url"]`,
	`meta[name="twitter:image"]`,
	`meta[property="twitter:image"]`,
	`link[rel="image_src"]`,
}

// newScrapeClient returns a client that checks every address it connects
// to, after DNS resolution. Redirects and rebinding are covered too.
func newScrapeClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout: timeout,
		Control: publicOnly,
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext:         dialer.DialContext,
			DisableKeepAlives:   true,
			TLSHandshakeTimeout: timeout,
		},
	}
}

func publicOnly(network, address string, _ syscall.RawConn) error {
	if network != "tcp4" && network != "tcp6" {
		return fmt.Errorf("invalid network %q", network)
	}
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return err
	}
	if utils.IsPrivateIP(addr) {
		return fmt.Errorf("%w: %s", errPrivateAddress, addr)
	}
	return nil
}

// imageScraper extracts the preview image a page declares in its head.
type imageScraper struct {
	http *http.Client
}

func (s *imageScraper) Scrape(ctx context.Context, link string) (string, error) {
	page, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("failed to parse link: %w", err)
	}
	if page.Scheme != "http" && page.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", page.Scheme)
	}
	if err := utils.PublicHost(page.Hostname()); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, page.String(), http.NoBody)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected page status: %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") {
		return "", fmt.Errorf("unexpected content type %q", ct)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBody))
	if err != nil {
		return "", fmt.Errorf("failed to parse page: %w", err)
	}

	for _, sel := range imageSelectors {
		node := doc.Find(sel).First()
		raw, ok := node.Attr("content")
		if !ok {
			raw, ok = node.Attr("href")
		}
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		img, err := url.Parse(strings.TrimSpace(raw))
		if err != nil {
			continue
		}
		return page.ResolveReference(img).String(), nil
	}

	return "", errNoImage
}
