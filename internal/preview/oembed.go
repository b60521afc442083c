package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	circuit "github.com/rubyist/circuitbreaker"

	"github.com/MrSnakeDoc/vrain/internal/utils"
)

const maxOEmbedBody = 1 << 20

// DefaultOEmbedEndpoint is the X (Twitter) publish oEmbed API.
const DefaultOEmbedEndpoint = "https://publish.x.com/oembed"

var errOEmbedStatus = errors.New("unexpected oembed status")

// oembedResponse holds the oEmbed fields a tweet preview needs.
type oembedResponse struct {
	Type         string `json:"type"`
	HTML         string `json:"html"`
	AuthorName   string `json:"author_name"`
	ProviderName string `json:"provider_name"`
}

// oembedClient fetches oEmbed documents behind a consecutive-failure breaker.
type oembedClient struct {
	endpoint string
	http     *http.Client
	breaker  *circuit.Breaker
}

func newOEmbedClient(endpoint string, client *http.Client, threshold int64) *oembedClient {
	if endpoint == "" {
		endpoint = DefaultOEmbedEndpoint
	}
	if threshold <= 0 {
		threshold = 5
	}
	return &oembedClient{
		endpoint: endpoint,
		http:     client,
		breaker:  circuit.NewConsecutiveBreaker(threshold),
	}
}

// Fetch issues a single GET for link. Non-2xx statuses, transport errors and
// undecodable bodies all count as breaker failures.
func (c *oembedClient) Fetch(ctx context.Context, link string) (oembedResponse, error) {
	var out oembedResponse
	err := c.breaker.CallContext(ctx, func() error {
		resp, err := c.get(ctx, link)
		if err != nil {
			return err
		}
		out = resp
		return nil
	}, 0)
	return out, err
}

func (c *oembedClient) get(ctx context.Context, link string) (oembedResponse, error) {
	target, err := url.Parse(c.endpoint)
	if err != nil {
		return oembedResponse{}, fmt.Errorf("failed to parse oembed endpoint: %w", err)
	}
	q := target.Query()
	q.Set("url", link)
	target.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), http.NoBody)
	if err != nil {
		return oembedResponse{}, fmt.Errorf("failed to create oembed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return oembedResponse{}, fmt.Errorf("failed to fetch oembed: %w", err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return oembedResponse{}, fmt.Errorf("%w: %d", errOEmbedStatus, resp.StatusCode)
	}

	var out oembedResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxOEmbedBody)).Decode(&out); err != nil {
		return oembedResponse{}, fmt.Errorf("failed to decode oembed: %w", err)
	}
	return out, nil
}

func (c *oembedClient) tripped() bool {
	return c.breaker.Tripped()
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
