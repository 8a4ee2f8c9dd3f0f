package usecase

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"trendscout-backend/internal/domain"
	"trendscout-backend/internal/infrastructure/fcm"
	"trendscout-backend/internal/infrastructure/marketplace"
	"trendscout-backend/internal/infrastructure/statistics"
	"trendscout-backend/internal/repository"
)

// ListingSource supplies marketplace listings per category.
// Implemented by the real API client and the mock catalog.
type ListingSource interface {
	SearchProducts(ctx context.Context, category string, page, pageSize int) ([]marketplace.Listing, error)
}

// TrackerConfig carries the tunables of the tracking cycle.
type TrackerConfig struct {
	Categories []string
	Interval   time.Duration
	Region     string
	PageSize   int
}

// TrackerUsecase runs the periodic ingest-derive-score cycle and
// holds the scored result set for delivery.
type TrackerUsecase struct {
	cfg TrackerConfig

	source    ListingSource
	products  domain.ProductRepository
	snapshots domain.SnapshotRepository
	stats     domain.StatisticsSource
	cache     *repository.InMemoryProductRepository
	fcmClient *fcm.Client
	tokenRepo *repository.TokenRepository

	notifiedProducts map[string]time.Time
	lastCycle        time.Time
	lastCount        int
	mu               sync.RWMutex
}

// NewTrackerUsecase wires the tracker. products/snapshots are the
// primary store; stats may be nil, in which case population statistics
// are aggregated from the cycle's own observations.
func NewTrackerUsecase(
	cfg TrackerConfig,
	source ListingSource,
	products domain.ProductRepository,
	snapshots domain.SnapshotRepository,
	stats domain.StatisticsSource,
	cache *repository.InMemoryProductRepository,
	fcmClient *fcm.Client,
	tokenRepo *repository.TokenRepository,
) *TrackerUsecase {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	return &TrackerUsecase{
		cfg:              cfg,
		source:           source,
		products:         products,
		snapshots:        snapshots,
		stats:            stats,
		cache:            cache,
		fcmClient:        fcmClient,
		tokenRepo:        tokenRepo,
		notifiedProducts: make(map[string]time.Time),
	}
}

// Run starts the tracking loop. Blocks until ctx is cancelled.
func (uc *TrackerUsecase) Run(ctx context.Context) {
	ticker := time.NewTicker(uc.cfg.Interval)
	defer ticker.Stop()

	// Initial cycle right away
	uc.RunCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			uc.RunCycle(ctx)
		}
	}
}

// RunCycle executes one full ingest-derive-score pass.
func (uc *TrackerUsecase) RunCycle(ctx context.Context) {
	start := time.Now()
	log.Println("Starting tracking cycle...")

	var listings []marketplace.Listing
	for _, category := range uc.cfg.Categories {
		page, err := uc.source.SearchProducts(ctx, category, 1, uc.cfg.PageSize)
		if err != nil {
			log.Printf("Error fetching category %q: %v", category, err)
			continue
		}
		listings = append(listings, page...)
	}

	if len(listings) == 0 {
		log.Println("Cycle aborted: no listings fetched")
		return
	}

	scored := uc.ingestAndScore(ctx, listings, time.Now().UTC())

	uc.mu.Lock()
	uc.lastCycle = time.Now()
	uc.lastCount = len(scored)
	uc.mu.Unlock()

	uc.sendTrendAlerts(ctx, scored)

	log.Printf("Cycle completed in %v. Scored %d products.", time.Since(start), len(scored))
}

// ingestAndScore persists snapshots for the listings, derives features
// from history, scores every product against the population statistics
// and saves the results. Returns the scored set sorted by trend score.
func (uc *TrackerUsecase) ingestAndScore(ctx context.Context, listings []marketplace.Listing, now time.Time) []domain.Product {
	type tracked struct {
		product domain.Product
		obs     domain.FeatureObservation
	}

	var (
		collected []tracked
		wg        sync.WaitGroup
		mu        sync.Mutex
	)
	sem := make(chan struct{}, 10)

	for _, l := range listings {
		wg.Add(1)
		go func(listing marketplace.Listing) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			product := marketplace.ToProduct(listing, uc.cfg.Region, now)

			// Keep first_seen and snapshot count across cycles
			if existing, err := uc.products.GetProduct(ctx, product.ID); err == nil && existing != nil {
				product.FirstSeen = existing.FirstSeen
				product.SnapshotCount = existing.SnapshotCount
			}

			snapshot := marketplace.ToSnapshot(listing, now)
			if err := uc.snapshots.SaveSnapshot(ctx, product.ID, snapshot); err != nil {
				log.Printf("Error saving snapshot for %s: %v", product.ID, err)
			}
			product.SnapshotCount++

			history, err := uc.snapshots.GetSnapshots(ctx, product.ID, 7)
			if err != nil {
				log.Printf("Error loading snapshots for %s: %v", product.ID, err)
				history = []domain.ProductSnapshot{snapshot}
			}

			velocity3d := CalculateVelocity(history, 3, now)
			velocity7d := CalculateVelocity(history, 7, now)

			product.Velocity3d = velocity3d
			product.Acceleration = CalculateAcceleration(velocity3d, velocity7d)
			product.Orders3dDelta = CalculateOrdersDelta(history, 3, now)
			product.Orders7dDelta = CalculateOrdersDelta(history, 7, now)
			product.Reviews3dDelta = CalculateReviewsDelta(history, 3, now)
			product.PriceDiscountRate = CalculateDiscountRate(product.CurrentPrice, product.OriginalPrice)

			daysTracked := CalculateDaysTracked(history)
			product.ConfidenceScore = CalculateConfidence(len(history), daysTracked)

			obs := domain.FeatureObservation{
				Orders3dDelta:     product.Orders3dDelta,
				Acceleration:      product.Acceleration,
				PriceDiscountRate: product.PriceDiscountRate,
				Reviews3dDelta:    product.Reviews3dDelta,
				StockStability:    CalculateStockStability(history),
			}

			mu.Lock()
			collected = append(collected, tracked{product: product, obs: obs})
			mu.Unlock()
		}(l)
	}
	wg.Wait()

	observations := make([]domain.FeatureObservation, 0, len(collected))
	for _, t := range collected {
		observations = append(observations, t.obs)
	}
	stats := uc.populationStats(ctx, observations)

	scored := make([]domain.Product, 0, len(collected))
	for _, t := range collected {
		p := t.product

		p.TrendScore = CalculateTrendScore(t.obs, stats)
		p.TrendCategory = ClassifyTrend(p.Orders3dDelta, p.Acceleration, p.PriceDiscountRate, p.Velocity3d)
		p.ViabilityGrade = CalculateViabilityGrade(p.TrendScore, p.Rating, p.ReviewCount, p.ConfidenceScore)
		p.ViabilitySummary = GenerateViabilitySummary(&p)
		p.OpportunityScore = CalculateOpportunityScore(OpportunityParams{
			TrendScore:     p.TrendScore,
			CommissionRate: p.CommissionRate,
			Acceleration:   p.Acceleration,
			Rating:         p.Rating,
			SoldCount:      p.SoldCount,
			DiscountRate:   p.PriceDiscountRate,
			Velocity:       p.Velocity3d,
		})

		if err := uc.products.SaveProduct(ctx, &p); err != nil {
			log.Printf("Error saving product %s: %v", p.ID, err)
		}
		if uc.cache != nil {
			_ = uc.cache.SaveProduct(ctx, &p)
		}
		scored = append(scored, p)
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].TrendScore > scored[j].TrendScore
	})
	return scored
}

// populationStats prefers the configured statistics source (the stored
// product population) and falls back to aggregating the cycle's own
// observations.
func (uc *TrackerUsecase) populationStats(ctx context.Context, observations []domain.FeatureObservation) domain.PopulationStats {
	if uc.stats != nil {
		stats, err := uc.stats.GetProductStatistics(ctx)
		if err == nil {
			return stats
		}
		log.Printf("Error loading population statistics, falling back to cycle sample: %v", err)
	}
	return statistics.Aggregate(observations)
}

// Populate seeds the store from the mock catalog and scores it.
func (uc *TrackerUsecase) Populate(ctx context.Context, count int) int {
	if count <= 0 {
		count = 50
	}
	listings := marketplace.GenerateMockListings(count, time.Now().UnixNano())
	scored := uc.ingestAndScore(ctx, listings, time.Now().UTC())
	log.Printf("Populated %d mock products", len(scored))
	return len(scored)
}

// Status reports when the last cycle ran and how many products it scored.
func (uc *TrackerUsecase) Status() (time.Time, int) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.lastCycle, uc.lastCount
}
