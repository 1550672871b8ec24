package usecase

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/GarrettC14/NutritionRx-sub008/internal/domain"
	"github.com/GarrettC14/NutritionRx-sub008/internal/infrastructure/cache"
	"github.com/GarrettC14/NutritionRx-sub008/internal/infrastructure/coalesce"
	"github.com/GarrettC14/NutritionRx-sub008/internal/infrastructure/ratelimit"
	"github.com/GarrettC14/NutritionRx-sub008/internal/infrastructure/usda"
	"github.com/GarrettC14/NutritionRx-sub008/internal/metrics"
)

var multipleSpacesRegex = regexp.MustCompile(`\s+`)

// Operation names used in logs and metrics
const (
	opSearch = "search"
	opDetail = "detail"
	opBatch  = "batch"
)

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	SearchTTL   time.Duration
	DetailTTL   time.Duration
	HourlyQuota int
	// Clock overrides time.Now, for tests
	Clock func() time.Time
}

// CatalogService is the cached, quota-aware front for FDC.
//
// Flow for every lookup: fresh cache hit -> coalesced upstream call (which
// takes one token from the shared hourly quota) -> on success cache and
// return; on not-found return absent; on any other failure serve the stale
// entry, else empty. No lookup ever returns an error.
//
// The service exclusively owns both caches, the quota window and the
// in-flight maps.
type CatalogService struct {
	client      domain.FDCClient
	searchCache *cache.MemoryCache[string, []domain.FoodRecord]
	detailCache *cache.MemoryCache[int, *domain.FoodDetailRecord]
	limiter     *ratelimit.FixedWindow
	searches    *coalesce.Coalescer[[]domain.FoodRecord]
	details     *coalesce.Coalescer[*domain.FoodDetailRecord]
	batches     *coalesce.Coalescer[[]domain.FoodDetailRecord]
	metrics     *metrics.Collector
	logger      *zap.Logger
}

// NewCatalogService creates a new catalog service with dependencies
func NewCatalogService(
	client domain.FDCClient,
	config CatalogServiceConfig,
	collector *metrics.Collector,
	logger *zap.Logger,
) *CatalogService {
	searchTTL := config.SearchTTL
	if searchTTL == 0 {
		searchTTL = 24 * time.Hour
	}
	detailTTL := config.DetailTTL
	if detailTTL == 0 {
		detailTTL = 720 * time.Hour // 30 days
	}
	quota := config.HourlyQuota
	if quota == 0 {
		quota = 1000
	}
	if collector == nil {
		collector = metrics.NewCollector("nutritionrx")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CatalogService{
		client:      client,
		searchCache: cache.NewMemoryCache[string, []domain.FoodRecord](searchTTL, config.Clock),
		detailCache: cache.NewMemoryCache[int, *domain.FoodDetailRecord](detailTTL, config.Clock),
		limiter:     ratelimit.NewFixedWindow(quota, config.Clock),
		searches:    coalesce.New[[]domain.FoodRecord](),
		details:     coalesce.New[*domain.FoodDetailRecord](),
		batches:     coalesce.New[[]domain.FoodDetailRecord](),
		metrics:     collector,
		logger:      logger.Named("catalog"),
	}
}

// Search returns foods matching query. Results are cached per normalized
// query, data-type set, page size and page number.
func (s *CatalogService) Search(ctx context.Context, query string, opts domain.SearchOptions) []domain.FoodRecord {
	query = normalizeQuery(query)
	if query == "" {
		return []domain.FoodRecord{}
	}
	opts = normalizeSearchOptions(opts)
	key := searchCacheKey(query, opts)

	if foods, ok := s.searchCache.Get(key); ok {
		s.metrics.CacheLookup(opSearch, true)
		return domain.CloneFoods(foods)
	}
	s.metrics.CacheLookup(opSearch, false)

	foods, err, _ := s.searches.Do(key, func() ([]domain.FoodRecord, error) {
		if err := s.consumeQuota(opSearch); err != nil {
			return nil, err
		}
		resp, err := s.client.SearchFoods(detach(ctx), query, opts)
		s.metrics.Upstream(opSearch, err)
		if err != nil {
			return nil, err
		}
		s.searchCache.Set(key, resp.Foods)
		return resp.Foods, nil
	})
	if err == nil {
		return domain.CloneFoods(foods)
	}

	if stale, ok := s.searchCache.GetStale(key); ok {
		s.degraded(opSearch, "stale", key, err)
		return domain.CloneFoods(stale)
	}
	s.degraded(opSearch, "empty", key, err)
	return []domain.FoodRecord{}
}

// GetDetail returns the full record for fdcID. The boolean is false when
// FDC reports the id as unknown, or when the fetch failed and nothing was
// ever cached for it.
func (s *CatalogService) GetDetail(ctx context.Context, fdcID int) (*domain.FoodDetailRecord, bool) {
	if fdcID <= 0 {
		return nil, false
	}

	if food, ok := s.detailCache.Get(fdcID); ok {
		s.metrics.CacheLookup(opDetail, true)
		return food.Clone(), true
	}
	s.metrics.CacheLookup(opDetail, false)

	key := detailCacheKey(fdcID)
	food, err, _ := s.details.Do(key, func() (*domain.FoodDetailRecord, error) {
		if err := s.consumeQuota(opDetail); err != nil {
			return nil, err
		}
		food, err := s.client.GetFood(detach(ctx), fdcID)
		s.metrics.Upstream(opDetail, err)
		if err != nil {
			return nil, err
		}
		s.detailCache.Set(fdcID, food)
		return food, nil
	})

	switch domain.ClassifyOutcome(err) {
	case domain.OutcomeSuccess:
		return food.Clone(), true
	case domain.OutcomeNotFound:
		s.logger.Debug("food not found", zap.Int("fdc_id", fdcID))
		return nil, false
	}

	if stale, ok := s.detailCache.GetStale(fdcID); ok {
		s.degraded(opDetail, "stale", key, err)
		return stale.Clone(), true
	}
	s.degraded(opDetail, "empty", key, err)
	return nil, false
}

// GetDetailBatch returns the records for fdcIDs in request order, skipping
// ids that are unknown or could not be fetched. Fresh cached records are
// served directly; the rest are fetched in a single upstream call. If that
// call fails only the cached records are returned.
func (s *CatalogService) GetDetailBatch(ctx context.Context, fdcIDs []int) []domain.FoodDetailRecord {
	ids := uniqueIDs(fdcIDs)
	found := make(map[int]*domain.FoodDetailRecord, len(ids))
	var missing []int

	for _, id := range ids {
		if food, ok := s.detailCache.Get(id); ok {
			found[id] = food
			continue
		}
		missing = append(missing, id)
	}
	s.metrics.CacheLookups.WithLabelValues(opBatch, "hit").Add(float64(len(found)))
	s.metrics.CacheLookups.WithLabelValues(opBatch, "miss").Add(float64(len(missing)))

	if len(missing) > 0 {
		key := batchCacheKey(missing)
		fetched, err, _ := s.batches.Do(key, func() ([]domain.FoodDetailRecord, error) {
			if err := s.consumeQuota(opBatch); err != nil {
				return nil, err
			}
			foods, err := s.client.GetFoods(detach(ctx), missing)
			s.metrics.Upstream(opBatch, err)
			if err != nil {
				return nil, err
			}
			wanted := make(map[int]bool, len(missing))
			for _, id := range missing {
				wanted[id] = true
			}
			kept := make([]domain.FoodDetailRecord, 0, len(foods))
			for i := range foods {
				if !wanted[foods[i].FdcID] {
					continue
				}
				food := foods[i]
				s.detailCache.Set(food.FdcID, &food)
				kept = append(kept, food)
			}
			return kept, nil
		})

		if domain.IsTransient(err) {
			s.degraded(opBatch, "cached_subset", key, err)
		}
		for i := range fetched {
			food := fetched[i]
			found[food.FdcID] = &food
		}
	}

	result := make([]domain.FoodDetailRecord, 0, len(found))
	for _, id := range ids {
		if food, ok := found[id]; ok {
			result = append(result, *food.Clone())
		}
	}
	return result
}

// ClearCache empties both caches. The quota window and in-flight calls are
// left alone.
func (s *CatalogService) ClearCache() {
	s.searchCache.Clear()
	s.detailCache.Clear()
	s.logger.Info("cache cleared")
}

// Reset clears both caches and starts a fresh quota window. It exists for
// diagnostics and tests.
func (s *CatalogService) Reset() {
	s.ClearCache()
	s.limiter.Reset()
}

// Stats returns a snapshot of the service's shared state
func (s *CatalogService) Stats() domain.CatalogStats {
	window := s.limiter.Snapshot()
	return domain.CatalogStats{
		SearchEntries:  s.searchCache.Size(),
		DetailEntries:  s.detailCache.Size(),
		QuotaRemaining: s.limiter.Quota() - window.Count,
		QuotaLimit:     s.limiter.Quota(),
		WindowStart:    window.Start,
		InFlight:       s.searches.InFlight() + s.details.InFlight() + s.batches.InFlight(),
	}
}

// consumeQuota takes one token for an upstream exchange
func (s *CatalogService) consumeQuota(operation string) error {
	if s.limiter.TryConsume() {
		return nil
	}
	s.metrics.Upstream(operation, domain.ErrRateLimited)
	return domain.ErrRateLimited
}

func (s *CatalogService) degraded(operation, fallback, key string, err error) {
	s.metrics.Degradation(operation, fallback)
	s.logger.Warn("serving degraded result",
		zap.String("operation", operation),
		zap.String("fallback", fallback),
		zap.String("key", key),
		zap.Error(err))
}

// detach keeps request-scoped values but drops cancellation: once a fetch
// is shared by several callers it runs until the transport timeout.
func detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

// normalizeQuery lower-cases, trims and collapses whitespace
func normalizeQuery(q string) string {
	q = strings.ToLower(q)
	q = multipleSpacesRegex.ReplaceAllString(q, " ")
	return strings.TrimSpace(q)
}

// normalizeSearchOptions applies defaults and puts the data-type set in
// canonical order
func normalizeSearchOptions(opts domain.SearchOptions) domain.SearchOptions {
	types := make([]string, 0, len(opts.DataTypes))
	for _, t := range opts.DataTypes {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}
	if len(types) == 0 {
		types = append(types, usda.DefaultDataTypes...)
	}
	slices.Sort(types)
	types = slices.Compact(types)

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = usda.DefaultPageSize
	}
	if pageSize > usda.MaxPageSize {
		pageSize = usda.MaxPageSize
	}
	pageNumber := opts.PageNumber
	if pageNumber <= 0 {
		pageNumber = 1
	}

	return domain.SearchOptions{
		DataTypes:  types,
		PageSize:   pageSize,
		PageNumber: pageNumber,
	}
}

// searchCacheKey builds the search key from normalized inputs only. Text
// fields are quoted so separators inside a query or data type cannot make
// two different searches share a key.
// Format: `search:"{query}"|"{type}","{type}"|{pageSize}|{pageNumber}`
func searchCacheKey(query string, opts domain.SearchOptions) string {
	types := make([]string, len(opts.DataTypes))
	for i, t := range opts.DataTypes {
		types[i] = strconv.Quote(t)
	}
	return fmt.Sprintf("search:%s|%s|%d|%d",
		strconv.Quote(query), strings.Join(types, ","), opts.PageSize, opts.PageNumber)
}

func detailCacheKey(fdcID int) string {
	return "detail:" + strconv.Itoa(fdcID)
}

// batchCacheKey identifies a batch by its sorted id set
func batchCacheKey(ids []int) string {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = strconv.Itoa(id)
	}
	return "batch:" + strings.Join(parts, ",")
}

// uniqueIDs drops non-positive and repeated ids, keeping first-seen order
func uniqueIDs(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

var _ domain.FoodCatalog = (*CatalogService)(nil)
