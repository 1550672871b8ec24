package usda

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/GarrettC14/NutritionRx-sub008/internal/domain"
)

// Default search parameters sent to FDC
const (
	DefaultPageSize   = 25
	MaxPageSize       = 200
	DefaultSortBy     = "dataType.keyword"
	DefaultSortOrder  = "asc"
	defaultBodyLogLen = 512
)

// DefaultDataTypes is the data-type filter used when a search names none
var DefaultDataTypes = []string{"Foundation", "SR Legacy", "Survey (FNDDS)", "Branded"}

// ClientConfig holds FDC connection settings
type ClientConfig struct {
	APIKey    string
	BaseURL   string
	Timeout   time.Duration
	SortBy    string
	SortOrder string
}

// Client handles communication with the USDA FoodData Central API.
// It makes exactly one HTTP exchange per call and reports failures as the
// sentinel errors in domain/errors.go; retry and fallback policy belong to
// the caller.
type Client struct {
	transport Transport
	apiKey    string
	sortBy    string
	sortOrder string
	logger    *zap.Logger
}

// searchRequest is the FDC search body
type searchRequest struct {
	Query      string   `json:"query"`
	DataType   []string `json:"dataType,omitempty"`
	PageSize   int      `json:"pageSize"`
	PageNumber int      `json:"pageNumber"`
	SortBy     string   `json:"sortBy,omitempty"`
	SortOrder  string   `json:"sortOrder,omitempty"`
}

// foodsRequest is the FDC multi-food body
type foodsRequest struct {
	FdcIDs []int `json:"fdcIds"`
}

// NewClient creates a new FDC API client over HTTP
func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	return NewClientWithTransport(NewHTTPTransport(cfg.BaseURL, cfg.Timeout), cfg, logger)
}

// NewClientWithTransport creates a client over an arbitrary transport
func NewClientWithTransport(transport Transport, cfg ClientConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	sortBy := cfg.SortBy
	if sortBy == "" {
		sortBy = DefaultSortBy
	}
	sortOrder := cfg.SortOrder
	if sortOrder == "" {
		sortOrder = DefaultSortOrder
	}
	return &Client{
		transport: transport,
		apiKey:    cfg.APIKey,
		sortBy:    sortBy,
		sortOrder: sortOrder,
		logger:    logger.Named("usda"),
	}
}

// SearchFoods searches for foods in the FDC database
func (c *Client) SearchFoods(ctx context.Context, query string, opts domain.SearchOptions) (*domain.SearchResponse, error) {
	body := searchRequest{
		Query:      query,
		DataType:   opts.DataTypes,
		PageSize:   opts.PageSize,
		PageNumber: opts.PageNumber,
		SortBy:     c.sortBy,
		SortOrder:  c.sortOrder,
	}

	var searchResp domain.SearchResponse
	if err := c.call(ctx, http.MethodPost, "/v1/foods/search", body, &searchResp); err != nil {
		return nil, err
	}
	if searchResp.Foods == nil {
		searchResp.Foods = []domain.FoodRecord{}
	}

	c.logger.Debug("search completed",
		zap.String("query", query),
		zap.Int("foods", len(searchResp.Foods)),
		zap.Int("total_hits", searchResp.TotalHits))
	return &searchResp, nil
}

// GetFood retrieves detailed nutrition information for a specific food by FDC ID
func (c *Client) GetFood(ctx context.Context, fdcID int) (*domain.FoodDetailRecord, error) {
	var food domain.FoodDetailRecord
	if err := c.call(ctx, http.MethodGet, "/v1/food/"+strconv.Itoa(fdcID), nil, &food); err != nil {
		return nil, err
	}
	if food.FdcID == 0 {
		return nil, fmt.Errorf("%w: empty food payload", domain.ErrMalformedResponse)
	}
	return &food, nil
}

// GetFoods retrieves several foods in one exchange. Ids FDC does not know
// are simply missing from the result.
func (c *Client) GetFoods(ctx context.Context, fdcIDs []int) ([]domain.FoodDetailRecord, error) {
	var foods []domain.FoodDetailRecord
	if err := c.call(ctx, http.MethodPost, "/v1/foods", foodsRequest{FdcIDs: fdcIDs}, &foods); err != nil {
		return nil, err
	}
	if foods == nil {
		foods = []domain.FoodDetailRecord{}
	}
	return foods, nil
}

// call performs one exchange, classifies the status and decodes into out
func (c *Client) call(ctx context.Context, method, path string, body any, out any) error {
	query := url.Values{}
	query.Set("api_key", c.apiKey)

	start := time.Now()
	resp, err := c.transport.Do(ctx, &Request{
		Method: method,
		Path:   path,
		Query:  query,
		Body:   body,
	})
	if err != nil {
		c.logger.Warn("request failed", zap.String("path", path), zap.Error(err))
		return err
	}

	c.logger.Debug("request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if err := classifyStatus(resp.StatusCode); err != nil {
		c.logger.Warn("API error",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("body", truncate(resp.Body, defaultBodyLogLen)))
		return err
	}

	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", domain.ErrMalformedResponse, err)
	}
	return nil
}

// classifyStatus maps an FDC status code to a sentinel error
func classifyStatus(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusNotFound:
		return domain.ErrNotFound
	case status == http.StatusTooManyRequests:
		return domain.ErrQuotaExceeded
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return domain.ErrForbidden
	default:
		return fmt.Errorf("%w: status %d", domain.ErrUpstreamFailure, status)
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
