package ahjregistry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/mapdata/provider"
)

const (
	// PageMax is the maximum number of results per page.
	PageMax = 100

	// The registry throttles aggressively; stay under 5 req/s with small
	// bursts instead of retrying 429s.
	requestsPerSecond = 5
	burstSize         = 5
)

// Client is an HTTP client for the AHJ Registry API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new AHJ Registry API client.
func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burstSize),
	}
}

// FetchAHJsByState fetches every jurisdiction record for a state.
func (c *Client) FetchAHJsByState(ctx context.Context, state string) ([]RegistryAHJ, error) {
	params := url.Values{}
	params.Set("StateProvince", state)
	params.Set("format", "json")
	params.Set("max", strconv.Itoa(PageMax))

	return c.fetchAllPages(ctx, params)
}

// HealthCheck verifies the API key is valid with a minimal request.
func (c *Client) HealthCheck(ctx context.Context) error {
	params := url.Values{}
	params.Set("StateProvince", "UT")
	params.Set("format", "json")
	params.Set("max", "1")

	fullURL := fmt.Sprintf("%s/ahj?%s", c.baseURL, params.Encode())

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "APIToken "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed: status %d", resp.StatusCode)
	}

	return nil
}

// fetchAllPages handles offset pagination for registry requests.
func (c *Client) fetchAllPages(ctx context.Context, baseParams url.Values) ([]RegistryAHJ, error) {
	var all []RegistryAHJ
	offset := 0

	for {
		params := url.Values{}
		for k, vs := range baseParams {
			for _, v := range vs {
				params.Add(k, v)
			}
		}
		params.Set("offset", strconv.Itoa(offset))

		fullURL := fmt.Sprintf("%s/ahj?%s", c.baseURL, params.Encode())

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		start := time.Now()
		provider.LogRequest("ahjregistry", "GET", c.baseURL+"/ahj", map[string]interface{}{
			"state":  baseParams.Get("StateProvince"),
			"offset": offset,
		})

		req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", "APIToken "+c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			provider.LogError("ahjregistry", "fetch", err)
			return nil, fmt.Errorf("registry request: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			err := fmt.Errorf("registry status %d", resp.StatusCode)
			provider.LogError("ahjregistry", "fetch", err)
			return nil, err
		}

		var page RegistryResponse
		if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
			resp.Body.Close()
			provider.LogError("ahjregistry", "decode", err)
			return nil, fmt.Errorf("decode registry: %w", err)
		}
		resp.Body.Close()

		pageCount := len(page.Response.Results.AHJList)
		all = append(all, page.Response.Results.AHJList...)

		provider.LogResponse("ahjregistry", resp.StatusCode, time.Since(start), pageCount)

		// Stop if this page returned less than max (end of results)
		if pageCount < PageMax {
			break
		}

		offset += pageCount
	}

	return all, nil
}
