package main

import (
	"context"
	"database/sql"
	"os"
	"strconv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ProductPanel/internal/catalog"
	"ProductPanel/pkg/kit"
)

func main() {
	service := "catalog"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	port := getenv("PORT", "8082")

	store, err := buildStore(log)
	if err != nil {
		log.Fatal("store init failed", zap.Error(err))
	}

	if getenv("SEED_DEMO", "") == "1" {
		seedDemo(store, log)
	}

	s := &catalog.Server{Store: store, Log: log}

	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:      log,
		Service:  service,
		Registry: prometheus.NewRegistry(),

		MetricsEnabled: getenv("METRICS_ENABLED", "") == "1",
		MetricsToken:   getenv("METRICS_TOKEN", ""),

		WriteLimit:         getenvInt("WRITE_LIMIT", 0),
		WriteWindowSeconds: getenvInt("WRITE_WINDOW_SECONDS", 60),
	})

	if err := kit.RunHTTPServer(":"+port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func buildStore(log *zap.Logger) (catalog.Store, error) {
	dbURL := getenv("DATABASE_URL", "")
	if dbURL == "" {
		log.Info("using in-memory store")
		return catalog.NewStore(), nil
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return nil, err
	}
	log.Info("using postgres store")
	return catalog.NewPostgresStore(db), nil
}

func seedDemo(store catalog.Store, log *zap.Logger) {
	discount := 10.0
	demo := []catalog.Product{
		{ID: "p_demo_keyboard", ProductName: "Keyboard", Category: "Peripherals", Price: 49.90},
		{ID: "p_demo_mouse", ProductName: "Mouse", Category: "Peripherals", Price: 19.90, Discount: &discount},
	}

	for _, p := range demo {
		if err := store.Create(context.Background(), p); err != nil {
			log.Warn("seed skipped", zap.String("id", p.ID), zap.Error(err))
		}
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
