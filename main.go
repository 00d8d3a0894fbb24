package main

import (
	"log"
	"net/http"

	"triday/internal/clock"
	"triday/internal/config"
	"triday/internal/httpmw"
	"triday/internal/lifecycle"
	"triday/internal/server"
	"triday/internal/snapshot"
)

func main() {
	cfg, err := config.Load("triday_config.yml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	store, err := snapshot.NewFileStore(cfg.Server.DataDir)
	if err != nil {
		log.Fatalf("open data dir: %v", err)
	}
	initial, err := store.Load()
	if err != nil {
		log.Fatalf("load snapshot: %v", err)
	}

	mgr := lifecycle.NewManager(initial, lifecycle.Options{
		Clock:            clock.RealClock{},
		Store:            store,
		Logger:           log.Default(),
		Timezone:         cfg.Time.Timezone,
		WeekStartDay:     cfg.Time.WeekStartDay,
		ConcurrentTimers: cfg.Timers.AllowConcurrent,
	})

	mux := http.NewServeMux()
	rr := &server.RouteRegistry{}
	server.RegisterAPIRoutes(mux, rr, &server.App{Manager: mgr, Config: cfg})

	handler := httpmw.Chain(mux,
		httpmw.WithRequestID,
		httpmw.WithRecover(log.Default()),
		httpmw.WithAccessLog(log.Default()),
	)

	addr := ":" + cfg.Server.Port
	log.Printf("triday listening on http://localhost%s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
