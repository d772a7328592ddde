package router

import (
	"errors"

	mktsvc "sheettochain-backend/internal/application/marketplace"
	"sheettochain-backend/internal/application/minted"
	"sheettochain-backend/internal/config"
	healthsvc "sheettochain-backend/internal/health"
	"sheettochain-backend/internal/infrastructure/database"
	"sheettochain-backend/internal/infrastructure/hedera"
	"sheettochain-backend/internal/infrastructure/kv"
	"sheettochain-backend/internal/infrastructure/mirror"
	csvhandler "sheettochain-backend/internal/interfaces/handlers/csv"
	healthhandler "sheettochain-backend/internal/interfaces/handlers/health"
	listhandler "sheettochain-backend/internal/interfaces/handlers/listings"
	minthandler "sheettochain-backend/internal/interfaces/handlers/mint"
	purchasehandler "sheettochain-backend/internal/interfaces/handlers/purchases"
	"sheettochain-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp wires the full application: slot store backend, marketplace
// ledger, Hedera gateway, and all routes. The returned DB and Redis handles
// may be nil depending on the configured backend.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = redis.NewClient(opt)
	}

	app.Use(middleware.Wallet())
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	// Slot store backend
	var db *gorm.DB
	var store kv.Store
	switch cfg.StoreBackend {
	case "redis":
		if rdb == nil {
			return nil, nil, nil, errors.New("STORE_BACKEND=redis requires REDIS_URL")
		}
		store = kv.NewRedisStore(rdb)
	case "postgres":
		var err error
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, err
		}
		store = kv.NewGormStore(db)
	default:
		store = kv.NewMemoryStore()
	}

	gateway := &hedera.Client{
		Network:        cfg.HederaNetwork,
		AccountID:      cfg.HederaAccountID,
		PrivateKey:     cfg.HederaPrivateKey,
		DatasetTokenID: cfg.DatasetTokenID,
	}
	mirrorClient := &mirror.Client{BaseURL: cfg.MirrorBaseURL}

	marketplace := mktsvc.New(store, mktsvc.Options{
		TreasuryAccount:          cfg.TreasuryAccount,
		DefaultPrice:             cfg.DefaultListingPrice,
		AllowUnconfirmedTransfer: cfg.AllowUnconfirmedPurchase,
	})
	mintedSvc := minted.New(store)

	// Health
	storePinger, _ := store.(kv.Pinger)
	hh := &healthhandler.Handlers{
		Deps: healthsvc.Deps{
			Rdb:           rdb,
			Store:         storePinger,
			HederaReady:   gateway.Configured,
			MirrorBaseURL: cfg.MirrorBaseURL,
		},
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/", hh.Dashboard)
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)

	// Marketplace
	lh := &listhandler.Handlers{Service: marketplace}
	mg := app.Group("/api/v1/marketplace")
	mg.Post("/create-listing", middleware.RequireWallet(), lh.CreateListing)
	mg.Get("/get-all-listings", lh.GetAllListings)
	mg.Get("/get-listing/:listing_id", lh.GetListingByID)
	mg.Get("/search", lh.Search)
	mg.Get("/category/:category", lh.ByCategory)
	mg.Get("/stats", lh.Stats)
	mg.Post("/sync", lh.Sync)
	mg.Put("/update-listing/:listing_id", middleware.RequireWallet(), lh.UpdateListing)
	mg.Delete("/delete-listing/:listing_id", middleware.RequireWallet(), lh.DeleteListing)
	mg.Get("/my-purchases", middleware.RequireWallet(), lh.MyPurchases)
	mg.Get("/my-sales", middleware.RequireWallet(), lh.MySales)

	ph := &purchasehandler.Handlers{Service: marketplace, Gateway: gateway}
	mg.Post("/purchase-data", middleware.RequireWallet(), ph.PurchaseData)

	// Minting
	mh := &minthandler.Handlers{Gateway: gateway, Minted: mintedSvc, Mirror: mirrorClient}
	mintGroup := app.Group("/api/v1/mint")
	mintGroup.Post("/prepare-mint", mh.PrepareMint)
	mintGroup.Post("/submit-signed-mint", mh.SubmitSignedMint)
	mintGroup.Get("/verify-mint/:token_id/:serial", mh.VerifyMint)
	mintGroup.Get("/minted-tokens", mh.MintedTokens)

	// CSV processing
	ch := &csvhandler.Handlers{}
	app.Post("/api/v1/csv/process", ch.Process)

	return app, db, rdb, nil
}
