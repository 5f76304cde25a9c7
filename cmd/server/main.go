package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/kabasele/plate-allocation/internal/config"
	"github.com/kabasele/plate-allocation/internal/database"
	"github.com/kabasele/plate-allocation/internal/engine"
	"github.com/kabasele/plate-allocation/internal/handler"
	"github.com/kabasele/plate-allocation/internal/queue"
	"github.com/kabasele/plate-allocation/internal/repository"
	"github.com/kabasele/plate-allocation/internal/router"
)

func main() {
	// Load .env when present; real environments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.LockWaitTimeout)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	store := repository.NewStore(db)
	registry := engine.NewRegistry(store, engine.CodeScope(cfg.SeriesCodeScope))
	allocator := engine.NewAllocator(store)
	ledger := engine.NewLedger(store)

	// Redis backs the rate limiter and the response cache; when it is
	// unreachable the API still serves, just without either.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable: rate limiting and response cache disabled")
	}

	// Background consumer appends allocation lifecycle events to
	// logs/allocation.log; it reconnects on its own and never stops
	// the server.
	go func() {
		if err := queue.StartAllocationConsumer(); err != nil {
			log.Printf("allocation consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e, router.Handlers{
		Series:   handler.NewSeriesHandler(registry),
		Orders:   handler.NewOrderHandler(allocator),
		Issuance: handler.NewIssuanceHandler(ledger),
		Finance:  handler.NewFinanceHandler(),
		Redis:    rdb,
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, code_scope=%s)", addr, cfg.Env, cfg.SeriesCodeScope)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
