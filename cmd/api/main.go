package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/lpnguyen0310/metro-search/internal/config"
	"github.com/lpnguyen0310/metro-search/internal/handlers"
	"github.com/lpnguyen0310/metro-search/internal/overpass"
	"github.com/lpnguyen0310/metro-search/internal/repository"
	"github.com/lpnguyen0310/metro-search/internal/schedule"
	"github.com/lpnguyen0310/metro-search/internal/stations"
)

func main() {
	// Load base .env first, then .env.local (which overrides for local development)
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	cfg := config.Load()

	// Recents persistence: Postgres when DATABASE_URL is set, SQLite otherwise.
	// Storage is best-effort; if it cannot be opened the service runs with an
	// in-memory list instead of failing.
	recentsRepo := openRecentsRepository(cfg)
	defer recentsRepo.Close()

	store := stations.New(schedule.Lines(), recentsRepo)

	// One-shot geocoded fetch in the background; the API serves placeholder
	// stations until it completes, and keeps serving them if it fails.
	client := overpass.NewClient(cfg)
	go store.Init(context.Background(), client)

	stationsHandler := handlers.NewStationsHandler(store)

	// Setup router
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// Health check endpoint with dataset state
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		state := store.State()
		status := "ok"
		code := http.StatusOK
		if state == stations.StateFailed {
			status = "degraded"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":    status,
			"dataset":   state,
			"timestamp": time.Now().UTC(),
		})
	})

	// Legacy health check endpoint
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Station search API routes
	r.Get("/api/status", stationsHandler.GetStatus)
	r.Get("/api/lines", stationsHandler.GetLines)
	r.Post("/api/lines/{lineId}/expand", stationsHandler.ToggleExpand)
	r.Get("/api/stations", stationsHandler.GetStations)
	r.Get("/api/suggestions", stationsHandler.GetSuggestions)
	r.Post("/api/selection", stationsHandler.ToggleSelection)
	r.Delete("/api/selection", stationsHandler.ClearSelection)
	r.Get("/api/markers", stationsHandler.GetMarkers)
	r.Get("/api/recents", stationsHandler.GetRecents)
	r.Post("/api/recents", stationsHandler.AddRecent)
	r.Delete("/api/recents", stationsHandler.ClearRecents)

	log.Printf("Metro search API starting on :%s", cfg.Port)
	log.Println("Station endpoints:")
	log.Println("  GET    /api/status")
	log.Println("  GET    /api/lines")
	log.Println("  POST   /api/lines/{lineId}/expand")
	log.Println("  GET    /api/stations?q=")
	log.Println("  GET    /api/suggestions?q=")
	log.Println("  POST   /api/selection")
	log.Println("  DELETE /api/selection")
	log.Println("  GET    /api/markers")
	log.Println("  GET    /api/recents")
	log.Println("  POST   /api/recents")
	log.Println("  DELETE /api/recents")
	log.Println("Health:")
	log.Println("  GET    /health")

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

// openRecentsRepository picks the recents backend from config, degrading to
// in-memory storage when the durable one is unavailable.
func openRecentsRepository(cfg *config.Config) repository.RecentsRepository {
	if cfg.DatabaseURL != "" {
		repo, err := repository.NewPostgresRecentsRepository(cfg.DatabaseURL)
		if err == nil {
			log.Println("Recents: using Postgres storage")
			return repo
		}
		log.Printf("Recents: Postgres unavailable, falling back to SQLite: %v", err)
	}

	repo, err := repository.NewSQLiteRecentsRepository(cfg.SQLitePath)
	if err == nil {
		log.Printf("Recents: using SQLite storage at %s", cfg.SQLitePath)
		return repo
	}
	log.Printf("Recents: SQLite unavailable, using in-memory storage: %v", err)
	return repository.NewMemoryRecentsRepository()
}
