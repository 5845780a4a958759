package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bryanwahyu/recon-dashboard/internal/application"
	appai "github.com/bryanwahyu/recon-dashboard/internal/application/ai"
	appreports "github.com/bryanwahyu/recon-dashboard/internal/application/reports"
	"github.com/bryanwahyu/recon-dashboard/internal/config"
	domai "github.com/bryanwahyu/recon-dashboard/internal/domain/ai"
	"github.com/bryanwahyu/recon-dashboard/internal/infra/ai/openrouter"
	"github.com/bryanwahyu/recon-dashboard/internal/infra/httpserver"
	"github.com/bryanwahyu/recon-dashboard/internal/infra/loader"
	"github.com/bryanwahyu/recon-dashboard/internal/infra/watcher"
	"github.com/bryanwahyu/recon-dashboard/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// init reports service
	reportsSvc := &appreports.Service{
		Loader: loader.New(),
		Dir:    cfg.Reports.Dir,
		Clock:  application.SystemClock{},
	}

	// initial load pass; a missing or empty directory is a valid state
	stats, err := reportsSvc.Reload(ctx)
	if err != nil {
		log.Fatalf("initial load error: %v", err)
	}
	middleware.RecordLoad(stats.ReportCount, stats.Skipped)
	if stats.NoInput {
		log.Printf("no report files in %s, waiting for input", cfg.Reports.Dir)
	} else {
		log.Printf("loaded %d reports from %s (%d skipped)", stats.ReportCount, cfg.Reports.Dir, stats.Skipped)
		for _, d := range stats.Diagnostics {
			log.Printf("skipped %s: %s", d.File, d.Reason)
		}
	}

	// watch the reports dir and reload on changes
	go func() {
		err := watcher.Watch(ctx, cfg.Reports.Dir, cfg.WatchDebounce(), func() {
			s, err := reportsSvc.Reload(context.Background())
			if err != nil {
				log.Printf("reload error: %v", err)
				return
			}
			middleware.RecordLoad(s.ReportCount, s.Skipped)
			log.Printf("reloaded %d reports (%d skipped)", s.ReportCount, s.Skipped)
		})
		if err != nil && ctx.Err() == nil {
			log.Printf("watcher disabled: %v", err)
		}
	}()

	// AI client is offered only when the credential is present, read once
	var aiClient domai.Client
	if key := os.Getenv("OPENROUTER_API_KEY"); key != "" {
		aiClient = openrouter.NewClient(key, cfg.AI.BaseURL, cfg.AI.Model, cfg.AITimeout())
		log.Printf("ai summaries enabled (model=%s)", cfg.AI.Model)
	} else {
		log.Printf("ai summaries disabled: OPENROUTER_API_KEY not set")
	}
	aiSvc := appai.NewService(aiClient)

	// init router
	mux := chi.NewRouter()
	mux.Mount("/", httpserver.NewRouter(reportsSvc, aiSvc, cfg.Reports.Dir, cfg.CORS.AllowedOrigins))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")
	cancel()

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
