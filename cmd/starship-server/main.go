// Package main is the entry point for the starship simulation server.
// It only handles dependency injection and server initialization.
// NO simulation logic belongs here.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/astrocrew/starship-sim/internal/engine"
	"github.com/astrocrew/starship-sim/internal/events"
	"github.com/astrocrew/starship-sim/internal/infra/storage"
	"github.com/astrocrew/starship-sim/internal/network"
	"github.com/astrocrew/starship-sim/internal/platform/config"
	"github.com/astrocrew/starship-sim/internal/platform/logger"
	"github.com/astrocrew/starship-sim/internal/platform/metrics"
)

// sqlitePersister translates drained events into mission log records.
type sqlitePersister struct {
	repo *storage.SQLiteEventRepository
}

func (p *sqlitePersister) HandleEvent(event events.Event) {
	record := storage.EventRecord{
		ID:        event.ID,
		Timestamp: event.Timestamp,
		System:    event.System,
		Resource:  event.ResourceName,
		Status:    string(event.Status),
		Priority:  int(event.Priority),
		Amount:    event.Amount,
	}
	err := p.repo.Append(context.Background(), record)
	metrics.Get().RecordEventPersist(err)
}

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	dbPath := flag.String("db", "mission.db", "SQLite database path")
	stress := flag.Bool("stress", false, "use stress-test tuning")
	flag.Parse()

	log.Println("[STARSHIP-SERVER] Initializing simulation server...")

	appLogger := logger.NewLogger()

	cfg := config.DefaultConfig()
	if *stress {
		cfg = config.StressConfig()
	}

	appLogger.Info("Initializing SQLite database '" + *dbPath + "'...")
	db, err := storage.InitSQLite(*dbPath)
	if err != nil {
		appLogger.Error("Failed to initialize SQLite: " + err.Error())
		os.Exit(1)
	}
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	eventRepo := storage.NewSQLiteEventRepository(db)
	snapRepo := storage.NewSQLiteSnapshotRepository(db)

	appLogger.Info("Bootstrapping event queue and engine...")
	queue := events.NewQueue()
	eng := engine.NewEngine(queue, appLogger, cfg)
	engine.LoadDefaultScenario(eng)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appLogger.Info("Bootstrapping WebSocket Hub...")
	hub := network.NewHub(eng, appLogger, cfg)

	eng.AddSink(&sqlitePersister{repo: eventRepo})
	eng.AddSink(hub)

	eng.Start(ctx)
	go hub.Run(ctx)
	hub.StartSnapshotPoller(ctx)

	// Automated resource snapshot backup routine
	go func() {
		backupTicker := time.NewTicker(cfg.SnapshotInterval)
		defer backupTicker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-backupTicker.C:
				for _, snap := range eng.ResourceSnapshots() {
					_ = snapRepo.Upsert(ctx, storage.ResourceSnapshot{
						Name:        snap.Name,
						Amount:      snap.Amount,
						MaxCapacity: snap.MaxCapacity,
					})
				}
			}
		}
	}()

	// Setup API routes
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r, appLogger)
	})

	http.HandleFunc("/api/resources", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(eng.ResourceSnapshots())
	})

	http.HandleFunc("/api/systems", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(eng.SystemInfos())
	})

	http.HandleFunc("/api/systems/rate", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		type requestParams struct {
			System string `json:"system"`
			Rate   string `json:"rate"`
		}
		var req requestParams
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		status, ok := engine.ParseStatus(req.Rate)
		if !ok || status == engine.StatusTerminate {
			http.Error(w, "Invalid rate", http.StatusBadRequest)
			return
		}
		if err := eng.SetSystemRate(req.System, status); err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	http.HandleFunc("/metrics", metrics.Handler())
	http.HandleFunc("/metrics/prometheus", metrics.PrometheusHandler())

	go func() {
		log.Printf("[STARSHIP-SERVER] HTTP API & WS Server listening on %s", *addr)
		if err := http.ListenAndServe(*addr, nil); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	log.Println("[STARSHIP-SERVER] Simulation running. Press Ctrl+C to exit.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[STARSHIP-SERVER] Shutting down...")
	eng.Stop()
	queue.Clean()
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow cross-origin requests from dashboard dev servers
	},
}

// serveWs handles websocket requests from the peer.
func serveWs(hub *network.Hub, w http.ResponseWriter, r *http.Request, log *logger.Logger) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("Failed to upgrade websocket connection")
		return
	}

	client := network.NewClient(hub, conn)
	client.Register()

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.WritePump()
	go client.ReadPump()
}
