package storeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"

	"github.com/ljcl79/shophub/internal/domain"
)

type response struct {
	status int
	body   []byte
}

// Client consumes the storefront HTTP contract. All requests go through a
// circuit breaker; an open breaker is reported the same way as a refused
// connection so callers only see the ErrNetwork taxonomy.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*response]
	sfg     singleflight.Group // dedupes concurrent product-by-id fetches
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	breaker := gobreaker.NewCircuitBreaker[*response](gobreaker.Settings{
		Name:    "storeapi",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		breaker: breaker,
	}
}

// FetchProducts retrieves the full product list.
func (c *Client) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	body, err := c.get(ctx, "/products")
	if err != nil {
		return nil, err
	}

	var products []domain.Product
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// FetchCategories retrieves the category list.
func (c *Client) FetchCategories(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, "/products/categories")
	if err != nil {
		return nil, err
	}

	var categories []string
	if err := json.Unmarshal(body, &categories); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return categories, nil
}

// FetchProduct retrieves a single product by id. Concurrent fetches for the
// same id are collapsed into one upstream request.
func (c *Client) FetchProduct(ctx context.Context, id int64) (*domain.Product, error) {
	v, err, _ := c.sfg.Do(strconv.FormatInt(id, 10), func() (interface{}, error) {
		body, err := c.get(ctx, fmt.Sprintf("/products/%d", id))
		if err != nil {
			return nil, err
		}

		var product domain.Product
		if err := json.Unmarshal(body, &product); err != nil {
			return nil, fmt.Errorf("decode product: %w", err)
		}
		return &product, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Product), nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	res, err := c.breaker.Execute(func() (*response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
		}

		// 5xx responses count as breaker failures; anything below is the
		// caller's problem and must not trip the breaker.
		if resp.StatusCode >= 500 {
			return nil, &StatusError{Status: resp.StatusCode}
		}
		return &response{status: resp.StatusCode, body: body}, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: circuit breaker open", ErrNetwork)
		}
		return nil, err
	}

	switch {
	case res.status == http.StatusNotFound:
		return nil, ErrNotFound
	case res.status < 200 || res.status > 299:
		return nil, &StatusError{Status: res.status}
	}
	return res.body, nil
}
