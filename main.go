package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/samyuktha-jana/SAP-hackathon/internal/app"
	"github.com/samyuktha-jana/SAP-hackathon/internal/config"
	"github.com/samyuktha-jana/SAP-hackathon/internal/database"
	"github.com/samyuktha-jana/SAP-hackathon/internal/logger"
	"github.com/samyuktha-jana/SAP-hackathon/internal/router"
)

func main() {
	cfgPath := flag.String("config", "", "path to config.yaml (default: ./config.yaml if present)")
	flag.Parse()

	// load configuration
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// ensure basic directories exist
	for _, dir := range []string{filepath.Dir(cfg.Database.Path), cfg.Invites.Dir, cfg.Progress.CSVDir} {
		if err := ensureDir(dir); err != nil {
			log.Fatalf("create dir %s: %v", dir, err)
		}
	}

	zl, err := logger.New(cfg.Log.File, cfg.Log.Level, cfg.Log.Production)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync()

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		zl.Error("main", "init database failed", map[string]interface{}{"error": err})
		os.Exit(1)
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		zl.Error("main", "migrate database failed", map[string]interface{}{"error": err})
		os.Exit(1)
	}

	a, err := app.New(cfg, zl, db)
	if err != nil {
		zl.Error("main", "wire services failed", map[string]interface{}{"error": err})
		os.Exit(1)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx); err != nil {
		zl.Error("main", "start background workers failed", map[string]interface{}{"error": err})
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port),
		Handler:           router.SetupRouter(a),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("main", "server listening", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error("main", "server stopped", map[string]interface{}{"error": err})
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Warn("main", "graceful shutdown failed", map[string]interface{}{"error": err})
	}
	zl.Info("main", "server stopped", nil)
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
