// Package leaderboardlive pushes standings to websocket clients. Each watched
// tournament gets one feed goroutine that re-ranks on a ticker and whenever a
// round event arrives; subscribers only receive a frame when their view of the
// board changed.
package leaderboardlive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	leaderboardservice "github.com/Black-And-White-Club/golf-tournament/app/modules/leaderboard/application"
	leaderboarddomain "github.com/Black-And-White-Club/golf-tournament/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/attr"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/session"
	tournamenttypes "github.com/Black-And-White-Club/golf-tournament/app/shared/types/tournament"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// DefaultPollInterval re-ranks a watched tournament even when no event arrives.
const DefaultPollInterval = 30 * time.Second

// sendBuffer is how many frames a slow client may fall behind before it is
// dropped.
const sendBuffer = 8

// StandingsSource ranks a tournament for one caller.
type StandingsSource interface {
	GetStandings(ctx context.Context, sess session.Session, tournamentID uuid.UUID, scope leaderboarddomain.Scope, mode *tournamenttypes.ScoringMode) (*leaderboardservice.Standings, error)
}

// Frame is the envelope written to clients.
type Frame struct {
	Type string                        `json:"type"`
	Data *leaderboardservice.Standings `json:"data"`
}

// Subscription is one client's view of a feed.
type Subscription struct {
	TournamentID uuid.UUID
	Session      session.Session
	Scope        leaderboarddomain.Scope
	Mode         *tournamenttypes.ScoringMode

	send chan []byte
	done chan struct{}
	once sync.Once
	// last is only touched by the feed goroutine.
	last []byte
}

// Updates delivers encoded frames.
func (s *Subscription) Updates() <-chan []byte {
	return s.send
}

// Done is closed once the subscription is cancelled.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

func (s *Subscription) stop() {
	s.once.Do(func() { close(s.done) })
}

type feed struct {
	tournamentID uuid.UUID
	subs         map[*Subscription]struct{}
	notify       chan struct{}
	cancel       context.CancelFunc
}

// Hub owns the per-tournament feeds.
type Hub struct {
	source   StandingsSource
	interval time.Duration
	upgrader *websocket.Upgrader
	logger   *slog.Logger

	mu     sync.Mutex
	feeds  map[uuid.UUID]*feed
	base   context.Context
	cancel context.CancelFunc
	closed bool
	wg     sync.WaitGroup
}

// NewHub creates a Hub. A non-positive interval uses DefaultPollInterval;
// allowedOrigins feeds the websocket origin check.
func NewHub(source StandingsSource, interval time.Duration, allowedOrigins []string, logger *slog.Logger) *Hub {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	base, cancel := context.WithCancel(context.Background())
	return &Hub{
		source:   source,
		interval: interval,
		upgrader: NewUpgrader(allowedOrigins),
		logger:   logger,
		feeds:    make(map[uuid.UUID]*feed),
		base:     base,
		cancel:   cancel,
	}
}

// Run blocks until ctx is done and then closes every feed.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.Close()
}

// Close stops all feeds and cancels every subscription.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	for id, f := range h.feeds {
		for s := range f.subs {
			s.stop()
		}
		f.cancel()
		delete(h.feeds, id)
	}
	h.mu.Unlock()

	h.cancel()
	h.wg.Wait()
}

// Subscribe registers a client and schedules an immediate refresh so it gets
// a first frame without waiting for the ticker.
func (h *Hub) Subscribe(tournamentID uuid.UUID, sess session.Session, scope leaderboarddomain.Scope, mode *tournamenttypes.ScoringMode) (*Subscription, error) {
	sub := &Subscription{
		TournamentID: tournamentID,
		Session:      sess,
		Scope:        scope,
		Mode:         mode,
		send:         make(chan []byte, sendBuffer),
		done:         make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, fmt.Errorf("live feed is shut down")
	}
	f, ok := h.feeds[tournamentID]
	if !ok {
		ctx, cancel := context.WithCancel(h.base)
		f = &feed{
			tournamentID: tournamentID,
			subs:         make(map[*Subscription]struct{}),
			notify:       make(chan struct{}, 1),
			cancel:       cancel,
		}
		h.feeds[tournamentID] = f
		h.wg.Add(1)
		go h.runFeed(ctx, f)
		h.logger.Info("Live feed started", attr.UUID("tournament_id", tournamentID))
	}
	f.subs[sub] = struct{}{}
	h.mu.Unlock()

	h.Notify(tournamentID)
	return sub, nil
}

// Unsubscribe removes sub. The feed stops with its last subscriber.
func (h *Hub) Unsubscribe(sub *Subscription) {
	sub.stop()

	h.mu.Lock()
	defer h.mu.Unlock()
	f, ok := h.feeds[sub.TournamentID]
	if !ok {
		return
	}
	delete(f.subs, sub)
	if len(f.subs) == 0 {
		f.cancel()
		delete(h.feeds, sub.TournamentID)
		h.logger.Info("Live feed stopped", attr.UUID("tournament_id", sub.TournamentID))
	}
}

// Notify asks the tournament's feed to re-rank. It never blocks and is a
// no-op for tournaments nobody watches.
func (h *Hub) Notify(tournamentID uuid.UUID) {
	h.mu.Lock()
	f, ok := h.feeds[tournamentID]
	h.mu.Unlock()
	if !ok {
		return
	}
	select {
	case f.notify <- struct{}{}:
	default:
	}
}

// Subscribers counts live subscriptions across all feeds.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, f := range h.feeds {
		n += len(f.subs)
	}
	return n
}

func (h *Hub) runFeed(ctx context.Context, f *feed) {
	defer h.wg.Done()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-f.notify:
		}
		h.refresh(ctx, f)
	}
}

// viewKey groups subscribers that see the same board.
type viewKey struct {
	scope string
	mode  tournamenttypes.ScoringMode
	admin bool
}

type rendered struct {
	fingerprint []byte
	frame       []byte
	err         error
}

func (h *Hub) refresh(ctx context.Context, f *feed) {
	h.mu.Lock()
	subs := make([]*Subscription, 0, len(f.subs))
	for s := range f.subs {
		subs = append(subs, s)
	}
	h.mu.Unlock()

	views := make(map[viewKey]rendered)
	for _, s := range subs {
		key := viewKey{scope: s.Scope.String(), admin: s.Session.IsAdmin()}
		if s.Mode != nil {
			key.mode = *s.Mode
		}

		view, ok := views[key]
		if !ok {
			view = h.render(ctx, s)
			views[key] = view
		}
		if view.err != nil {
			h.logger.WarnContext(ctx, "Live standings refresh failed",
				attr.UUID("tournament_id", f.tournamentID),
				attr.Error(view.err),
			)
			continue
		}
		if bytes.Equal(view.fingerprint, s.last) {
			continue
		}

		select {
		case s.send <- view.frame:
			s.last = view.fingerprint
		case <-s.done:
		default:
			h.logger.Warn("Dropping slow live subscriber", attr.UUID("tournament_id", f.tournamentID))
			h.Unsubscribe(s)
		}
	}
}

func (h *Hub) render(ctx context.Context, s *Subscription) rendered {
	st, err := h.source.GetStandings(ctx, s.Session, s.TournamentID, s.Scope, s.Mode)
	if err != nil {
		return rendered{err: err}
	}

	frame, err := json.Marshal(Frame{Type: "standings", Data: st})
	if err != nil {
		return rendered{err: err}
	}

	// The generation time changes on every refresh and is not part of the board.
	stable := *st
	stable.GeneratedAt = time.Time{}
	fingerprint, err := json.Marshal(stable)
	if err != nil {
		return rendered{err: err}
	}
	return rendered{fingerprint: fingerprint, frame: frame}
}
