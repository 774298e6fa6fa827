package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/nguyentantai21042004/transcript-flow/internal/artifact"
	"github.com/nguyentantai21042004/transcript-flow/internal/blocks"
	"github.com/nguyentantai21042004/transcript-flow/internal/config"
	"github.com/nguyentantai21042004/transcript-flow/internal/intake"
	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/internal/processor"
	"github.com/nguyentantai21042004/transcript-flow/internal/prompts"
	"github.com/nguyentantai21042004/transcript-flow/internal/queue"
	"github.com/nguyentantai21042004/transcript-flow/internal/server"
	"github.com/nguyentantai21042004/transcript-flow/internal/source"
	"github.com/nguyentantai21042004/transcript-flow/internal/store"
	"github.com/nguyentantai21042004/transcript-flow/internal/transform"
	"github.com/nguyentantai21042004/transcript-flow/internal/watcher"
	"github.com/nguyentantai21042004/transcript-flow/internal/worker"
	"github.com/nguyentantai21042004/transcript-flow/pkg/executor"
)

func main() {
	ctx := context.Background()

	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
		os.Exit(1)
	}

	configPath := "config.yaml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewWithFormat(cfg.Logging.Level, cfg.Logging.Format, os.Stdout)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Transcript Pipeline")
	log.Info(ctx, "========================================")
	log.Info(ctx, "Transform: %s (%s), %d key(s)", cfg.Transform.Provider, cfg.Transform.Model, len(cfg.Transform.APIKeys))
	log.Info(ctx, "Configuration loaded successfully")

	// Missing or blank prompt templates stop the process before any job runs
	promptSet, err := prompts.Load(cfg.Pipeline.PromptsPath)
	if err != nil {
		log.Error(ctx, "Failed to load prompts: %v", err)
		os.Exit(1)
	}

	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	// Initialize dependencies
	tr, err := transform.New(transform.Config{
		Provider: cfg.Transform.Provider,
		Model:    cfg.Transform.Model,
		BaseURL:  cfg.Transform.BaseURL,
		APIKeys:  cfg.Transform.APIKeys,
		Timeout:  cfg.Transform.Timeout,
	}, log)
	if err != nil {
		log.Error(ctx, "Failed to create transformer: %v", err)
		os.Exit(1)
	}

	proc := processor.New(tr, promptSet, processor.Options{
		ChunkSize:       cfg.Pipeline.ChunkSize,
		Temperature:     cfg.Pipeline.Temperature,
		TargetLanguage:  cfg.Pipeline.TargetLanguage,
		StructureSource: cfg.Pipeline.StructureSource,
		Detector:        processor.NewDetector(cfg.Pipeline.Languages, cfg.Pipeline.FallbackLanguage),
	}, log)

	q := queue.New(cfg.Queue.Capacity)
	hub := server.NewHub(log)
	limits := intake.Limits{MaxTextBytes: cfg.Intake.MaxTextBytes, MaxTextChars: cfg.Intake.MaxTextChars}

	deps := worker.Deps{
		Resolver:  source.New(source.Config{Command: cfg.Source.Command, Args: cfg.Source.Args}, executor.New(), log),
		Processor: proc,
		Artifacts: artifact.NewWriter(cfg.Paths.Output, log),
		Reporter:  hub,
	}
	docStore, err := newStore(cfg, log)
	if err != nil {
		log.Error(ctx, "Failed to create document store: %v", err)
		os.Exit(1)
	}
	if docStore != nil {
		deps.Uploader = store.NewUploader(docStore, blocks.Options{
			MaxBlockChars: cfg.Store.MaxBlockChars,
			MaxBlocks:     cfg.Store.MaxBlocks,
		}, log)
	}
	w := worker.New(q, deps, worker.Options{JobTimeout: cfg.Queue.JobTimeout}, log)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.Run(gctx)
	})

	if cfg.Intake.WatchDir != "" {
		files := intake.NewFileHandler(q, limits, cfg.Paths.Archived, log)
		fw, err := watcher.New(cfg.Intake.WatchDir, files.Handle, log, watcher.Options{
			SettleDelay: cfg.Intake.SettleDelay,
			Filter:      intake.Supported,
		})
		if err != nil {
			log.Error(ctx, "Failed to create watcher: %v", err)
			os.Exit(1)
		}
		defer fw.Stop()

		g.Go(func() error {
			if err := fw.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	if cfg.Intake.HTTPAddr != "" {
		srv := server.New(cfg.Intake.HTTPAddr, q, hub, limits, log)
		g.Go(func() error {
			return srv.Run(gctx)
		})
	}

	log.Info(ctx, "========================================")
	log.Info(ctx, "Transcript Pipeline is ready!")
	log.Info(ctx, "Queue capacity: %d", cfg.Queue.Capacity)
	log.Info(ctx, "Store: %s", cfg.Store.Kind)
	if cfg.Intake.WatchDir != "" {
		log.Info(ctx, "Monitoring: %s", cfg.Intake.WatchDir)
	}
	if cfg.Intake.HTTPAddr != "" {
		log.Info(ctx, "HTTP: %s", cfg.Intake.HTTPAddr)
	}
	log.Info(ctx, "Output: %s", cfg.Paths.Output)
	log.Info(ctx, "")
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	if err := g.Wait(); err != nil {
		log.Error(ctx, "Pipeline error: %v", err)
		q.Close()
		os.Exit(1)
	}

	q.Close()
	log.Info(ctx, "Transcript Pipeline stopped (%d jobs left in queue)", q.Stats().Queued)
}

// newStore returns the configured document store, or nil when uploads are disabled
func newStore(cfg *config.Config, log logger.Logger) (store.Store, error) {
	switch cfg.Store.Kind {
	case "notion":
		return store.NewNotion(store.NotionConfig{
			BaseURL:       cfg.Store.Notion.BaseURL,
			APIKey:        cfg.Store.Notion.APIKey,
			DatabaseID:    cfg.Store.Notion.DatabaseID,
			TitleProperty: cfg.Store.Notion.TitleProperty,
			LinkProperty:  cfg.Store.Notion.LinkProperty,
		}, &http.Client{Timeout: cfg.Transform.Timeout}, log)
	case "docx":
		return store.NewDocx(cfg.Store.Docx.Dir, log), nil
	default:
		return nil, nil
	}
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Output,
		cfg.Paths.Archived,
	}
	if cfg.Intake.WatchDir != "" {
		dirs = append(dirs, cfg.Intake.WatchDir)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
