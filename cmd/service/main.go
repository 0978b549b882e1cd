package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"journal-service/internal/config"
	"journal-service/internal/content"
	"journal-service/internal/journal"
	"journal-service/internal/memory"
	"journal-service/internal/oauth"
	"journal-service/internal/server"
)

func main() {
	log.SetPrefix("journal-service: ")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("pg: %v", err)
	}
	defer pool.Close()

	if err := oauth.AutoMigrate(ctx, pool); err != nil {
		log.Fatalf("migrate oauth: %v", err)
	}
	if err := journal.AutoMigrate(ctx, pool); err != nil {
		log.Fatalf("migrate journal: %v", err)
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		rdb = redis.NewClient(opt)
		defer rdb.Close()
	}

	httpClient := &http.Client{Timeout: cfg.HTTPClientTimeout}

	oauthSvc := oauth.NewService(oauth.NewPostgresStore(pool), cfg.GatewayURL, map[oauth.Platform]oauth.Credentials{
		oauth.Spotify: {ClientID: cfg.SpotifyClientID, ClientSecret: cfg.SpotifyClientSecret},
		oauth.YouTube: {ClientID: cfg.YouTubeClientID, ClientSecret: cfg.YouTubeClientSecret},
	}, httpClient)
	for _, p := range oauth.Platforms {
		if !oauthSvc.Configured(p) {
			log.Printf("%s oauth not configured; authorize will answer 503", p)
		}
	}

	contentSvc := content.NewService(oauthSvc,
		content.NewSpotifyAdapter(httpClient),
		content.NewYouTubeAdapter(httpClient),
	)

	g, gctx := errgroup.WithContext(ctx)

	// The queue outlives the HTTP server so in-flight requests can still
	// enqueue during shutdown.
	queueCtx, stopQueue := context.WithCancel(context.Background())
	defer stopQueue()

	var enqueuer journal.MemoryEnqueuer
	if cfg.LLMServiceURL != "" {
		memCfg := memory.Config{
			LLMServiceURL: cfg.LLMServiceURL,
			APIKey:        cfg.APIKey,
			Workers:       cfg.MemoryWorkers,
			QueueSize:     cfg.MemoryQueueSize,
			HTTPClient:    httpClient,
		}
		if rdb != nil {
			memCfg.DeadLetter = rdb
		}
		queue := memory.NewQueue(memCfg)
		enqueuer = queue
		g.Go(func() error { return queue.Run(queueCtx) })
	} else {
		log.Printf("LLM_SERVICE_URL not set; semantic memory disabled")
	}

	journalSvc := journal.NewService(journal.NewPostgresStore(pool), enqueuer)

	router := server.NewRouter(server.Deps{
		OAuth:     oauth.NewHandler(oauthSvc),
		Content:   content.NewHandler(contentSvc),
		Journal:   journal.NewHandler(journalSvc),
		JWTSecret: []byte(cfg.JWTSecret),
		APIKey:    cfg.APIKey,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		log.Printf("listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		defer stopQueue()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("%v", err)
	}
	log.Printf("stopped")
}
