package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	httpdelivery "trendscout-backend/internal/delivery/http"
	wsdelivery "trendscout-backend/internal/delivery/websocket"
	"trendscout-backend/internal/domain"
	"trendscout-backend/internal/infrastructure/db"
	"trendscout-backend/internal/infrastructure/fcm"
	"trendscout-backend/internal/infrastructure/firebase"
	"trendscout-backend/internal/infrastructure/marketplace"
	"trendscout-backend/internal/repository"
	"trendscout-backend/internal/usecase"
)

func main() {
	// .env is optional; real deployments set env vars directly.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env file")
	}

	ctx := context.Background()

	// 1. Firebase (Firestore + FCM), optional
	var (
		firestoreRepo *repository.FirestoreRepository
		fcmClient     *fcm.Client
	)
	app, err := firebase.NewApp(ctx)
	if err != nil {
		log.Fatalf("Firebase init failed: %v", err)
	}
	if app != nil {
		fsClient, err := app.Firestore(ctx)
		if err != nil {
			log.Fatalf("Firestore init failed: %v", err)
		}
		defer fsClient.Close()
		firestoreRepo = repository.NewFirestoreRepository(fsClient)

		msgClient, err := app.Messaging(ctx)
		if err != nil {
			log.Printf("Messaging init failed, FCM disabled: %v", err)
		} else {
			fcmClient = fcm.NewClient(msgClient)
		}
	}
	if fcmClient == nil {
		fcmClient = fcm.NewClient(nil)
	}

	// 2. Repositories
	cache := repository.NewInMemoryProductRepository()

	var products domain.ProductRepository = cache
	var stats domain.StatisticsSource
	if firestoreRepo != nil {
		products = firestoreRepo
		stats = firestoreRepo
	}

	var snapshots domain.SnapshotRepository
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		pool, err := db.NewPool(ctx, databaseURL, db.PoolConfigFromEnv())
		if err != nil {
			log.Fatalf("Postgres init failed: %v", err)
		}
		defer pool.Close()
		if err := db.Migrate(ctx, pool); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		snapshots = repository.NewPostgresSnapshotRepository(pool)
		log.Println("Snapshot archive: Postgres")
	} else if firestoreRepo != nil {
		snapshots = firestoreRepo
		log.Println("Snapshot archive: Firestore")
	} else {
		snapshots = repository.NewInMemorySnapshotRepository()
		log.Println("Snapshot archive: in-memory")
	}

	tokenRepo := repository.NewTokenRepository()

	// 3. Listing source
	region := getEnv("MARKETPLACE_REGION", "US")
	accessToken := os.Getenv("MARKETPLACE_ACCESS_TOKEN")

	var source usecase.ListingSource
	if getEnv("USE_MOCK_DATA", "false") == "true" || accessToken == "" {
		source = &marketplace.MockSource{}
		log.Println("Listing source: mock catalog")
	} else {
		source = marketplace.NewClient(region, os.Getenv("MARKETPLACE_BASE_URL"), accessToken)
		log.Printf("Listing source: marketplace API (%s)", region)
	}

	// 4. Tracker
	interval := time.Hour
	if v := os.Getenv("TRACK_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			interval = d
		}
	}
	categories := strings.Split(getEnv("TRACK_CATEGORIES", "Beauty & Personal Care,Electronics,Home & Garden"), ",")
	for i := range categories {
		categories[i] = strings.TrimSpace(categories[i])
	}

	tracker := usecase.NewTrackerUsecase(
		usecase.TrackerConfig{
			Categories: categories,
			Interval:   interval,
			Region:     region,
		},
		source, products, snapshots, stats, cache, fcmClient, tokenRepo,
	)
	go tracker.Run(ctx)

	// 5. Delivery
	productHandler := httpdelivery.NewProductHandler(products, snapshots)
	ingestHandler := httpdelivery.NewIngestHandler(tracker)
	tokenHandler := httpdelivery.NewTokenHandler(tokenRepo)
	healthHandler := httpdelivery.NewHealthHandler()
	wsHandler := wsdelivery.NewHandler(cache)

	http.HandleFunc("/api/products/trending", productHandler.HandleTrending)
	http.HandleFunc("/api/products/get", productHandler.HandleGetProduct)
	http.HandleFunc("/api/products/search", productHandler.HandleSearch)
	http.HandleFunc("/api/ingest/run", ingestHandler.HandleRun)
	http.HandleFunc("/api/ingest/populate", ingestHandler.HandlePopulate)
	http.HandleFunc("/api/ingest/status", ingestHandler.HandleStatus)
	http.HandleFunc("/api/tokens/register", tokenHandler.HandleRegisterToken)
	http.HandleFunc("/api/tokens/unregister", tokenHandler.HandleUnregisterToken)
	http.HandleFunc("/api/tokens/count", tokenHandler.HandleGetTokenCount)
	http.HandleFunc("/health", healthHandler.Handle)
	http.HandleFunc("/ws", wsHandler.Handle)

	port := getEnv("PORT", "8080")
	log.Printf("Server executing on :%s", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatal(err)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
