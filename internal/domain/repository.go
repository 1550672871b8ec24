package domain

import (
	"context"
	"time"
)

// FDCClient defines the interface for interacting with the USDA FoodData Central API.
// Implementations return the sentinel errors in errors.go so callers can classify
// failures with ClassifyOutcome.
type FDCClient interface {
	SearchFoods(ctx context.Context, query string, opts SearchOptions) (*SearchResponse, error)
	GetFood(ctx context.Context, fdcID int) (*FoodDetailRecord, error)
	GetFoods(ctx context.Context, fdcIDs []int) ([]FoodDetailRecord, error)
}

// FoodCatalog is the cached, quota-aware view of FDC consumed by the
// presentation layer. None of its lookups fail: degraded results come back
// as stale data, an empty slice, or absent. Returned records are copies;
// mutating them does not touch the cache.
type FoodCatalog interface {
	Search(ctx context.Context, query string, opts SearchOptions) []FoodRecord
	GetDetail(ctx context.Context, fdcID int) (*FoodDetailRecord, bool)
	GetDetailBatch(ctx context.Context, fdcIDs []int) []FoodDetailRecord
	ClearCache()
	Stats() CatalogStats
}

// CatalogStats is a diagnostic snapshot of the catalog's shared state
type CatalogStats struct {
	SearchEntries  int       `json:"searchEntries"`
	DetailEntries  int       `json:"detailEntries"`
	QuotaRemaining int       `json:"quotaRemaining"`
	QuotaLimit     int       `json:"quotaLimit"`
	WindowStart    time.Time `json:"windowStart"`
	InFlight       int       `json:"inFlight"`
}
