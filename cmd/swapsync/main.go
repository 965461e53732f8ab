package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/devlongs/swapsync/internal/api"
	"github.com/devlongs/swapsync/internal/config"
	"github.com/devlongs/swapsync/internal/eth"
	"github.com/devlongs/swapsync/internal/lists"
	"github.com/devlongs/swapsync/internal/listsync"
	"github.com/devlongs/swapsync/internal/output"
	"github.com/devlongs/swapsync/internal/tokenlist"
)

// Service wires the list synchronizer, its provider and the API
type Service struct {
	cfg    *config.Config
	client *eth.Client
	db     *lists.LevelDBPersister
	store  *lists.Store
	sync   *listsync.Synchronizer
	server *api.Server
	logger *output.Logger
}

// NewService opens storage and connects to the provider
func NewService(cfg *config.Config) (*Service, error) {
	lgr := output.NewLogger(cfg.Logging)

	db, err := lists.OpenLevelDB(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}

	initial := append(append([]string(nil), cfg.Lists.DefaultURLs...), cfg.Lists.UnsupportedURLs...)
	store := lists.NewStore(db, initial, cfg.Lists.DefaultActiveURLs)

	blocked := cfg.Lists.UnsupportedURLs
	safety := tokenlist.NewSafetyTable(cfg.Lists.DefaultSafetyURL, cfg.Lists.ExtendedSafetyURL, blocked)

	policy := tokenlist.MinBumpPolicy
	if cfg.Lists.AutoAccept == "always" {
		policy = tokenlist.AlwaysAccept
	}

	fetcher := tokenlist.NewFetcher(cfg.Lists.FetchTimeout, cfg.Lists.IPFSGateway)
	syncer := listsync.New(store, fetcher, lgr, safety, listsync.Config{
		DefaultListURLs: cfg.Lists.DefaultURLs,
		UnsupportedURLs: cfg.Lists.UnsupportedURLs,
		RefreshInterval: cfg.Lists.RefreshInterval,
		Policy:          policy,
	})

	// Refreshes stay disarmed until the provider answers
	client, err := eth.NewClient(cfg.RPC)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	syncer.SetProviderAvailable(client.Available())

	return &Service{
		cfg:    cfg,
		client: client,
		db:     db,
		store:  store,
		sync:   syncer,
		server: api.NewServer(store, syncer, client, safety),
		logger: lgr,
	}, nil
}

// Start rehydrates state and runs every component until ctx is done
func (s *Service) Start(ctx context.Context) error {
	log.Info().Msg("Starting swapsync...")

	if err := s.store.Rehydrate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.client.Watch(ctx, s.cfg.RPC.HealthInterval, s.sync.SetProviderAvailable)
	}()

	if s.cfg.API.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.server.Run(ctx, s.cfg.API.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.LogError(err, "serving API")
				cancel()
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		statsTicker := time.NewTicker(s.cfg.Logging.StatsInterval)
		defer statsTicker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-statsTicker.C:
				s.logger.LogStats()
			}
		}
	}()

	err := s.sync.Run(ctx)
	cancel()
	wg.Wait()
	return err
}

// Close shuts down the service
func (s *Service) Close() {
	s.client.Close()
	if err := s.db.Close(); err != nil {
		s.logger.LogError(err, "closing list database")
	}
}

func main() {
	// .env is optional
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	service, err := NewService(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create service")
	}
	defer service.Close()

	// Setup signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	if err := service.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		service.Close()
		log.Fatal().Err(err).Msg("Swapsync error")
	}

	log.Info().Msg("Swapsync stopped")
}
