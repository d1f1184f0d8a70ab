package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fashionpos/internal/domain"
)

// Client talks to the back-office API: catalog query, customer list and sale
// submission. Server-side failures surface as retryable errors; the caller's
// local state is never touched here.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger
}

func New(baseURL string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

// FetchVariants runs the catalog query with an optional free-text filter.
func (c *Client) FetchVariants(ctx context.Context, search string) ([]domain.Variant, error) {
	endpoint := c.baseURL + "/v1/variants"
	if search != "" {
		endpoint += "?search=" + url.QueryEscape(search)
	}

	var out struct {
		Variants []domain.Variant `json:"variants"`
	}
	if err := c.getJSON(ctx, endpoint, &out); err != nil {
		return nil, fmt.Errorf("fetch variants: %w", err)
	}
	return out.Variants, nil
}

// ListCustomers fetches the customers used to prefill checkout fields.
func (c *Client) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	var out struct {
		Customers []domain.Customer `json:"customers"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/v1/customers", &out); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return out.Customers, nil
}

// SubmitSale posts the sale and returns the created transaction.
func (c *Client) SubmitSale(ctx context.Context, in domain.SaleRequest) (*domain.Transaction, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("marshal sale: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/sales", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit sale: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("submit sale: %s", apiError(resp))
	}

	var tx domain.Transaction
	if err := json.NewDecoder(resp.Body).Decode(&tx); err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}
	return &tx, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s", apiError(resp))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// apiError extracts the backend's human-readable message, falling back to the
// HTTP status.
func apiError(resp *http.Response) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return resp.Status
}
