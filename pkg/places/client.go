package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/dishcovery-app/dishcovery-backend/pkg/errors"
)

const (
	defaultBaseURL             = "https://maps.googleapis.com/maps/api/place"
	detailsFieldList           = "name,rating,formatted_address,reviews"
	responseBodyReadLimit int64 = 1024
)

var errAPIKeyRequired = errors.New("google places api key is required")

// APIStatusError carries the API-level status returned in a 200 body.
type APIStatusError struct {
	Endpoint string
	Status   string
	Message  string
}

func (e *APIStatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s returned %s", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("%s returned %s: %s", e.Endpoint, e.Status, e.Message)
}

// Client wraps the Google Places Text Search and Details APIs used for cafe discovery.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured Places base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the Google Places client given an API key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}

	client := &Client{
		apiKey:     trimmedKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client, nil
}

// SearchRequest describes a nearby text search for cafes.
type SearchRequest struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters int
}

// SearchResult is a single hit from the text search response.
type SearchResult struct {
	PlaceID          string  `json:"place_id"`
	Name             string  `json:"name"`
	FormattedAddress string  `json:"formatted_address"`
	Rating           float64 `json:"rating"`
}

// Review is a single customer review attached to a place.
type Review struct {
	Text string
}

// UnmarshalJSON accepts both the plain-string and object review text shapes
// that the Places API returns depending on the review language settings.
func (r *Review) UnmarshalJSON(data []byte) error {
	var raw struct {
		Text json.RawMessage `json:"text"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Text) == 0 {
		return nil
	}

	var plain string
	if err := json.Unmarshal(raw.Text, &plain); err == nil {
		r.Text = plain
		return nil
	}

	var nested struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw.Text, &nested); err == nil {
		r.Text = nested.Text
		return nil
	}

	return nil
}

// PlaceDetails holds the fields requested from the Details API.
type PlaceDetails struct {
	Name             string   `json:"name"`
	Rating           *float64 `json:"rating"`
	FormattedAddress string   `json:"formatted_address"`
	Reviews          []Review `json:"reviews"`
}

// SearchCafes runs a text search for cafes near the coordinates.
func (c *Client) SearchCafes(ctx context.Context, req SearchRequest) ([]SearchResult, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "google places client not configured")
	}

	query := url.Values{}
	query.Set("query", fmt.Sprintf("cafes near %v,%v", req.Latitude, req.Longitude))
	query.Set("location", fmt.Sprintf("%v,%v", req.Latitude, req.Longitude))
	query.Set("radius", strconv.Itoa(req.RadiusMeters))
	query.Set("type", "cafe")
	query.Set("key", c.apiKey)

	endpoint := c.buildURL("textsearch/json") + "?" + query.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build text search request")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute text search request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "text search request failed")
	}

	var apiResp struct {
		Status       string         `json:"status"`
		ErrorMessage string         `json:"error_message"`
		Results      []SearchResult `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode text search response")
	}

	if apiResp.Status != "OK" && apiResp.Status != "ZERO_RESULTS" {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, &APIStatusError{
			Endpoint: "text search",
			Status:   apiResp.Status,
			Message:  apiResp.ErrorMessage,
		}, "text search request failed")
	}

	return apiResp.Results, nil
}

// FetchDetails retrieves the name, rating, address, and reviews for a place.
func (c *Client) FetchDetails(ctx context.Context, placeID string) (*PlaceDetails, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "google places client not configured")
	}
	trimmed := strings.TrimSpace(placeID)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "place ID is required")
	}

	query := url.Values{}
	query.Set("place_id", trimmed)
	query.Set("fields", detailsFieldList)
	query.Set("key", c.apiKey)

	endpoint := c.buildURL("details/json") + "?" + query.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build place details request")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute place details request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "place details request failed")
	}

	var apiResp struct {
		Status       string        `json:"status"`
		ErrorMessage string        `json:"error_message"`
		Result       *PlaceDetails `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode place details response")
	}

	if apiResp.Status != "OK" || apiResp.Result == nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, &APIStatusError{
			Endpoint: "place details",
			Status:   apiResp.Status,
			Message:  apiResp.ErrorMessage,
		}, "place details request failed")
	}

	return apiResp.Result, nil
}

func (c *Client) buildURL(path string) string {
	trimmed := strings.TrimRight(c.baseURL, "/")
	path = strings.TrimLeft(path, "/")
	return fmt.Sprintf("%s/%s", trimmed, path)
}
