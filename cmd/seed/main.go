package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/geocoder89/campusevents/internal/config"
	"github.com/geocoder89/campusevents/internal/db"
	"github.com/geocoder89/campusevents/internal/repo/postgres"
	"github.com/geocoder89/campusevents/internal/seed"
)

// seed loads a YAML fixture into the postgres event store.
func main() {
	file := flag.String("file", "seed/campus_events.yaml", "fixture to load")
	flag.Parse()

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)

	defer stop()

	pool, err := db.NewPool(ctx, cfg.DBURL, int32(cfg.DBMaxConns))

	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	fx, err := seed.LoadFile(*file)
	if err != nil {
		log.Fatalf("%v", err)
	}

	res, err := seed.Apply(ctx, fx, postgres.NewLocationsRepo(pool, nil), postgres.NewEventsRepo(pool, nil))
	if err != nil {
		log.Fatalf("%v", err)
	}

	log.Printf("seed complete: %d locations, %d events", res.Locations, res.Events)
}
