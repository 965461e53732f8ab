// Package listsync keeps token lists current: it refreshes them on a timer,
// fetches lists that have never loaded and accepts new versions by bump.
package listsync

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/devlongs/swapsync/internal/lists"
	"github.com/devlongs/swapsync/internal/metrics"
	"github.com/devlongs/swapsync/internal/output"
	"github.com/devlongs/swapsync/internal/tokenlist"
)

// ErrNoVersionBump means a pending update carries the same or an older
// version than current, which the store never produces.
var ErrNoVersionBump = errors.New("unexpected no version bump")

const DefaultRefreshInterval = 10 * time.Minute

// Fetcher downloads a token list
type Fetcher interface {
	Fetch(ctx context.Context, listURL string, skipValidation bool) (*tokenlist.TokenList, error)
}

// Config holds synchronizer settings
type Config struct {
	DefaultListURLs []string
	UnsupportedURLs []string
	RefreshInterval time.Duration
	Policy          tokenlist.AcceptPolicy
}

// Synchronizer drives list refreshes against a store
type Synchronizer struct {
	store       *lists.Store
	fetcher     Fetcher
	logger      *output.Logger
	safety      *tokenlist.SafetyTable
	policy      tokenlist.AcceptPolicy
	defaultURLs []string
	unsupported []string
	interval    time.Duration

	mu                sync.Mutex
	visible           bool
	providerAvailable bool
	conditions        chan struct{}

	// pending versions the policy already turned down, owned by Reconcile
	deferred map[string]tokenlist.Version

	newTicker func(time.Duration) (<-chan time.Time, func())
	fetches   sync.WaitGroup
}

// New creates a synchronizer. safety may be nil.
func New(store *lists.Store, fetcher Fetcher, logger *output.Logger, safety *tokenlist.SafetyTable, cfg Config) *Synchronizer {
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = DefaultRefreshInterval
	}
	if cfg.Policy == nil {
		cfg.Policy = tokenlist.MinBumpPolicy
	}
	return &Synchronizer{
		store:       store,
		fetcher:     fetcher,
		logger:      logger,
		safety:      safety,
		policy:      cfg.Policy,
		defaultURLs: cfg.DefaultListURLs,
		unsupported: cfg.UnsupportedURLs,
		interval:    cfg.RefreshInterval,
		visible:     true,
		conditions:  make(chan struct{}, 1),
		deferred:    make(map[string]tokenlist.Version),
		newTicker: func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		},
	}
}

// SetVisible records whether the host is in the foreground
func (s *Synchronizer) SetVisible(visible bool) {
	s.mu.Lock()
	changed := s.visible != visible
	s.visible = visible
	s.mu.Unlock()
	if changed {
		s.signalConditions()
	}
}

// SetProviderAvailable records whether a chain provider is reachable
func (s *Synchronizer) SetProviderAvailable(available bool) {
	s.mu.Lock()
	changed := s.providerAvailable != available
	s.providerAvailable = available
	s.mu.Unlock()
	if changed {
		s.signalConditions()
	}
}

// RefreshEnabled reports whether the periodic refresh condition holds
func (s *Synchronizer) RefreshEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible && s.providerAvailable
}

func (s *Synchronizer) signalConditions() {
	select {
	case s.conditions <- struct{}{}:
	default:
	}
}

// Run reconciles on every store change and refreshes on the timer until ctx
// is done or a pending update turns out to have no version bump.
func (s *Synchronizer) Run(ctx context.Context) error {
	changes := s.store.Subscribe()

	var tick <-chan time.Time
	var stop func()
	disarm := func() {
		if stop != nil {
			stop()
			stop, tick = nil, nil
		}
	}
	// arm keeps the timer in line with the refresh condition. The timer only
	// starts once the store is rehydrated and is left alone while it holds.
	arm := func() {
		enabled := s.RefreshEnabled() && s.store.Rehydrated()
		if enabled == (stop != nil) {
			return
		}
		if !enabled {
			disarm()
			metrics.RefreshTimerArmed.Set(0)
			log.Debug().Msg("List refresh disarmed")
			return
		}
		tick, stop = s.newTicker(s.interval)
		metrics.RefreshTimerArmed.Set(1)
		log.Debug().Dur("interval", s.interval).Msg("List refresh armed")
		s.FetchAll(ctx)
	}

	defer func() {
		disarm()
		metrics.RefreshTimerArmed.Set(0)
		s.fetches.Wait()
	}()

	arm()
	if err := s.Reconcile(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Shutting down list synchronizer...")
			return ctx.Err()

		case <-changes:
			arm()
			if err := s.Reconcile(ctx); err != nil {
				return err
			}

		case <-tick:
			s.FetchAll(ctx)

		case <-s.conditions:
			arm()
		}
	}
}

// FetchAll fetches every list of the default list-of-lists. It is a no-op
// while the host is hidden or the store is not yet rehydrated.
func (s *Synchronizer) FetchAll(ctx context.Context) {
	s.mu.Lock()
	visible := s.visible
	s.mu.Unlock()
	if !visible || !s.store.Rehydrated() {
		return
	}

	for _, u := range s.defaultURLs {
		s.fetchList(ctx, u, s.isUnsupported(u))
	}
}

// Reconcile runs the fetch-missing and version-acceptance passes once the
// store is rehydrated, then rebuilds the safety table.
func (s *Synchronizer) Reconcile(ctx context.Context) error {
	if !s.store.Rehydrated() {
		return nil
	}

	state := s.store.Snapshot()
	s.fetchMissing(ctx, state)
	if err := s.acceptUpdates(state); err != nil {
		return err
	}

	if s.safety != nil {
		s.safety.Update(s.store.CurrentLists())
	}
	return nil
}

func (s *Synchronizer) fetchMissing(ctx context.Context, state lists.State) {
	for _, u := range sortedURLs(state) {
		if state.ByURL[u].NeedsFetch() {
			s.fetchList(ctx, u, false)
		}
	}

	for _, u := range s.unsupported {
		ls, ok := state.ByURL[u]
		if !ok || ls.NeedsFetch() {
			s.fetchList(ctx, u, true)
		}
	}
}

func (s *Synchronizer) acceptUpdates(state lists.State) error {
	for _, u := range sortedURLs(state) {
		ls := state.ByURL[u]
		if ls.Current == nil || ls.PendingUpdate == nil {
			continue
		}

		bump := tokenlist.GetVersionUpgrade(ls.Current.Version, ls.PendingUpdate.Version)
		accept := false
		switch bump {
		case tokenlist.VersionUpgradeNone:
			return fmt.Errorf("%w: %s", ErrNoVersionBump, u)
		case tokenlist.VersionUpgradePatch, tokenlist.VersionUpgradeMinor:
			if v, ok := s.deferred[u]; ok && v == ls.PendingUpdate.Version {
				continue
			}
			accept = s.policy(u, ls.Current, ls.PendingUpdate, bump)
		case tokenlist.VersionUpgradeMajor:
			accept = true
		}

		if !accept {
			s.deferred[u] = ls.PendingUpdate.Version
			metrics.ListUpdatesTotal.WithLabelValues(bump.String(), "deferred").Inc()
			s.logger.LogUpdateDeferred(u, ls.PendingUpdate.Version, bump)
			continue
		}
		delete(s.deferred, u)

		if err := s.store.Dispatch(lists.AcceptListUpdate{URL: u}); err != nil {
			s.logger.LogError(err, "accepting list update")
			continue
		}
		metrics.ListUpdatesTotal.WithLabelValues(bump.String(), "accepted").Inc()
		s.logger.LogUpdateAccepted(u, ls.Current.Version, ls.PendingUpdate.Version, bump)
	}
	return nil
}

// fetchList marks the list loading and downloads it in the background.
// Failures land in the store and are never returned.
func (s *Synchronizer) fetchList(ctx context.Context, listURL string, skipValidation bool) {
	requestID := uuid.NewString()
	if err := s.store.Dispatch(lists.FetchPending{URL: listURL, RequestID: requestID}); err != nil {
		s.logger.LogError(err, "marking list loading")
		return
	}

	s.fetches.Add(1)
	go func() {
		defer s.fetches.Done()

		list, err := s.fetcher.Fetch(ctx, listURL, skipValidation)
		if err != nil {
			metrics.ListFetchesTotal.WithLabelValues("error").Inc()
			s.logger.LogFetchFailed(listURL, err)
			_ = s.store.Dispatch(lists.FetchRejected{URL: listURL, RequestID: requestID, ErrorMessage: err.Error()})
			return
		}

		metrics.ListFetchesTotal.WithLabelValues("success").Inc()
		s.logger.LogListFetched(listURL, list)
		_ = s.store.Dispatch(lists.FetchFulfilled{URL: listURL, RequestID: requestID, List: list})
	}()
}

func (s *Synchronizer) isUnsupported(listURL string) bool {
	for _, u := range s.unsupported {
		if u == listURL {
			return true
		}
	}
	return false
}

func sortedURLs(state lists.State) []string {
	urls := make([]string, 0, len(state.ByURL))
	for u := range state.ByURL {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls
}
