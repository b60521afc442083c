package preview

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MrSnakeDoc/vrain/internal/domain"
)

func pageServer(t *testing.T, contentType, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestResolveGenericScrape(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		wantSrc     func(base string) string
		wantFalls   bool
	}{
		{
			name:        "absolute og:image",
			contentType: "text/html; charset=utf-8",
			body:        `<html><head><meta property="og:image" content="https://cdn.example/cover.png"></head></html>`,
			wantSrc:     func(string) string { return "https://cdn.example/cover.png" },
		},
		{
			name:        "relative twitter:image",
			contentType: "text/html",
			body:        `<html><head><meta name="twitter:image" content="/img/card.jpg"></head></html>`,
			wantSrc:     func(base string) string { return base + "/img/card.jpg" },
		},
		{
			name:        "no image",
			contentType: "text/html",
			body:        `<html><head><title>plain</title></head></html>`,
			wantSrc:     func(string) string { return domain.DefaultPlaceholderURL },
			wantFalls:   true,
		},
		{
			name:        "not html",
			contentType: "application/pdf",
			body:        `%PDF-1.4`,
			wantSrc:     func(string) string { return domain.DefaultPlaceholderURL },
			wantFalls:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := pageServer(t, tt.contentType, tt.body)
			r := newTestResolver("", func(o *Options) { o.GenericScrape = true })

			got := r.Resolve(context.Background(), ts.URL+"/article")

			if got.Category != domain.CategoryGeneric {
				t.Errorf("Category = %v, want generic", got.Category)
			}
			if want := tt.wantSrc(ts.URL); got.Src != want {
				t.Errorf("Src = %v, want %v", got.Src, want)
			}
			if got.Fallback != tt.wantFalls {
				t.Errorf("Fallback = %v, want %v", got.Fallback, tt.wantFalls)
			}
		})
	}
}

func TestScrapeRejectsPrivateHosts(t *testing.T) {
	s := &imageScraper{http: http.DefaultClient}
	if _, err := s.Scrape(context.Background(), "http://10.0.0.1/admin"); err == nil {
		t.Error("Scrape() on a private address = nil error, want rejection")
	}
	if _, err := s.Scrape(context.Background(), "ftp://example.com/file"); err == nil {
		t.Error("Scrape() on ftp = nil error, want rejection")
	}
}

func TestScrapeRefusesPrivateRedirect(t *testing.T) {
	ts := httptest.NewServer(http.RedirectHandler("http://10.255.255.1:1/admin", http.StatusFound))
	defer ts.Close()

	s := &imageScraper{http: newScrapeClient(time.Second)}
	if _, err := s.Scrape(context.Background(), ts.URL+"/article"); !errors.Is(err, errPrivateAddress) {
		t.Errorf("Scrape() error = %v, want %v", err, errPrivateAddress)
	}

	r := newTestResolver("", func(o *Options) { o.GenericScrape = true })
	defer r.Close()

	got := r.Resolve(context.Background(), ts.URL+"/article")
	if want := domain.PlaceholderPreview(domain.CategoryGeneric, ""); got != want {
		t.Errorf("Resolve() = %+v, want %+v", got, want)
	}
}

func TestPublicOnly(t *testing.T) {
	tests := []struct {
		network string
		address string
		wantErr bool
	}{
		{"tcp4", "93.184.216.34:443", false},
		{"tcp4", "127.0.0.1:8080", false},
		{"tcp6", "[2606:4700::1111]:443", false},
		{"tcp4", "10.1.2.3:80", true},
		{"tcp4", "192.168.1.1:80", true},
		{"tcp4", "169.254.169.254:80", true},
		{"tcp6", "[fd00::1]:80", true},
		{"tcp6", "[::ffff:10.0.0.1]:80", true},
		{"udp4", "93.184.216.34:53", true},
	}

	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			err := publicOnly(tt.network, tt.address, nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("publicOnly(%s, %s) error = %v, wantErr %v", tt.network, tt.address, err, tt.wantErr)
			}
		})
	}
}
