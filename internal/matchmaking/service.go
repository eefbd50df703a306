// Package matchmaking bridges connected players to the match registry: it
// owns the waiting queue, periodically forms new matches from connected
// players, and routes each registered player's input/snapshot channels to
// whichever match they are currently assigned to.
package matchmaking

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cruxsyn/shipwar/internal/broadcast"
	"github.com/cruxsyn/shipwar/internal/clock"
	gmatch "github.com/cruxsyn/shipwar/internal/match"
	"github.com/cruxsyn/shipwar/internal/matchqueue"
	"github.com/cruxsyn/shipwar/internal/metrics"
	"github.com/cruxsyn/shipwar/internal/registry"
	"github.com/cruxsyn/shipwar/internal/wire"
)

// Config tunes match formation.
type Config struct {
	MinPlayers int
	MaxPlayers int
	MaxWait    time.Duration
}

// DefaultConfig matches the documented external defaults: a 2-player
// minimum (a smaller match is legal only as an explicit test
// configuration, never the default), a 20-player cap, and a 5s maximum
// queue wait before a match is forced with whoever connected players are
// available.
func DefaultConfig() Config {
	return Config{
		MinPlayers: gmatch.DefaultMinPlayers,
		MaxPlayers: gmatch.DefaultMaxPlayers,
		MaxWait:    5 * time.Second,
	}
}

// connection is a registered player's personal input/snapshot channels.
type connection struct {
	userID        uuid.UUID
	inputCh       chan gmatch.PlayerInput
	matchAssigned chan uuid.UUID // signaled by createMatch each time the player is placed in a new match
}

// Service owns the matchmaking queue and the player-to-match routing
// goroutines spawned for every registered connection.
type Service struct {
	cfg      Config
	registry *registry.Registry

	mu             sync.Mutex
	queue          *matchqueue.Queue
	players        map[uuid.UUID]*connection
	playerMatches  map[uuid.UUID]uuid.UUID
}

// NewService constructs a matchmaking service bound to registry reg.
func NewService(reg *registry.Registry, cfg Config) *Service {
	return &Service{
		cfg:           cfg,
		registry:      reg,
		queue:         matchqueue.New(cfg.MinPlayers, cfg.MaxPlayers, cfg.MaxWait),
		players:       make(map[uuid.UUID]*connection),
		playerMatches: make(map[uuid.UUID]uuid.UUID),
	}
}

// RegisterPlayer registers a newly-connected player and spawns its
// input-router and snapshot-router goroutines. It returns the channels
// the session's reader/writer loops should use.
//
// The snapshot router differs from a naive poll loop: instead of waking
// every 100ms to recheck the player's match assignment, it blocks on
// matchAssigned until createMatch (or a later reassignment) signals a new
// match id, then subscribes to that match's publisher and forwards until
// the match ends or the player disconnects.
func (s *Service) RegisterPlayer(ctx context.Context, userID uuid.UUID) (chan<- gmatch.PlayerInput, <-chan wire.ServerMsg) {
	inputCh := make(chan gmatch.PlayerInput, 64)
	out := make(chan wire.ServerMsg, 64)

	conn := &connection{
		userID:        userID,
		inputCh:       inputCh,
		matchAssigned: make(chan uuid.UUID, 1),
	}

	s.mu.Lock()
	s.players[userID] = conn
	s.mu.Unlock()

	go s.routeInputs(ctx, conn)
	go s.routeSnapshots(ctx, conn, out)

	return inputCh, out
}

func (s *Service) routeInputs(ctx context.Context, conn *connection) {
	for {
		select {
		case <-ctx.Done():
			return
		case in, ok := <-conn.inputCh:
			if !ok {
				return
			}
			s.mu.Lock()
			matchID, hasMatch := s.playerMatches[conn.userID]
			s.mu.Unlock()
			if !hasMatch {
				continue
			}
			handle, ok := s.registry.Get(matchID)
			if !ok {
				continue
			}
			select {
			case handle.InputCh <- in:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (s *Service) routeSnapshots(ctx context.Context, conn *connection, out chan<- wire.ServerMsg) {
	var pub *broadcast.Publisher[wire.ServerMsg]
	var sub *broadcast.Subscriber[wire.ServerMsg]
	var currentMatch uuid.UUID

	subscribeTo := func(matchID uuid.UUID) {
		if pub != nil {
			pub.Unsubscribe(sub)
			pub, sub = nil, nil
		}
		currentMatch = matchID
		if handle, ok := s.registry.Get(matchID); ok {
			pub = handle.Snapshots
			sub = pub.Subscribe()
		}
	}
	defer func() {
		if pub != nil {
			pub.Unsubscribe(sub)
		}
	}()

	for {
		s.mu.Lock()
		matchID, hasMatch := s.playerMatches[conn.userID]
		s.mu.Unlock()

		if hasMatch && matchID != currentMatch {
			subscribeTo(matchID)
		}

		if sub == nil {
			select {
			case <-ctx.Done():
				return
			case newMatch := <-conn.matchAssigned:
				subscribeTo(newMatch)
				continue
			}
		}

		select {
		case <-ctx.Done():
			return
		case newMatch := <-conn.matchAssigned:
			subscribeTo(newMatch)
		case msg, ok := <-sub.C:
			if !ok {
				pub, sub = nil, nil
				continue
			}
			if n := sub.LagCount(); n > 0 {
				log.Printf("matchmaking: player %s lagged by %d snapshots", conn.userID, n)
				metrics.SubscriberLagTotal.Add(float64(n))
			}
			select {
			case out <- msg:
			case <-ctx.Done():
				return
			}
		}
	}
}

// UnregisterPlayer removes a disconnected player's bookkeeping and takes
// them out of the queue if they were waiting in it.
func (s *Service) UnregisterPlayer(userID uuid.UUID) {
	s.mu.Lock()
	delete(s.players, userID)
	delete(s.playerMatches, userID)
	s.queue.Dequeue(userID)
	s.mu.Unlock()
	log.Printf("matchmaking: player %s unregistered", userID)
}

// JoinQueue enqueues an already-registered player. Match formation is left
// entirely to Run's periodic loop so newly queued players get a chance to
// finish connecting before being swept into a match.
func (s *Service) JoinQueue(p matchqueue.QueuedPlayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, inMatch := s.playerMatches[p.UserID]; inMatch {
		return errAlreadyInMatch
	}
	s.queue.Enqueue(p)
	log.Printf("matchmaking: player %s joined queue (size %d)", p.UserID, s.queue.Len())
	return nil
}

// LeaveQueue removes a player from the waiting queue.
func (s *Service) LeaveQueue(userID uuid.UUID) {
	s.mu.Lock()
	s.queue.Dequeue(userID)
	s.mu.Unlock()
}

// QueueSize returns the current queue length.
func (s *Service) QueueSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

// IsInQueue reports whether a player is currently queued.
func (s *Service) IsInQueue(userID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Contains(userID)
}

// PlayerMatch returns the match id a player is currently assigned to.
func (s *Service) PlayerMatch(userID uuid.UUID) (uuid.UUID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.playerMatches[userID]
	return id, ok
}

// createMatch spins up a new match for the given players, registers it,
// and routes each player's already-registered connection into it.
func (s *Service) createMatch(ctx context.Context, players []matchqueue.QueuedPlayer) {
	matchID := uuid.New()
	seed := rand.Uint64()

	m, handle := gmatch.New(matchID, seed, s.cfg.MinPlayers, s.cfg.MaxPlayers)
	s.registry.Insert(handle)

	s.mu.Lock()
	for _, p := range players {
		s.playerMatches[p.UserID] = matchID
	}
	conns := make([]*connection, 0, len(players))
	for _, p := range players {
		if c, ok := s.players[p.UserID]; ok {
			conns = append(conns, c)
		}
	}
	s.mu.Unlock()

	log.Printf("matchmaking: created match %s with %d players", matchID, len(players))

	go func() {
		m.Run(ctx)
		s.registry.Remove(matchID)
		s.mu.Lock()
		for _, p := range players {
			delete(s.playerMatches, p.UserID)
		}
		s.mu.Unlock()
		log.Printf("matchmaking: match %s removed from registry", matchID)
	}()

	for _, c := range conns {
		select {
		case c.matchAssigned <- matchID:
		default:
		}
	}

	for _, p := range players {
		joinMsg := wire.ClientMsg{Type: wire.ClientMsgJoinMatch, ShipType: p.ShipType}
		select {
		case handle.InputCh <- gmatch.PlayerInput{UserID: p.UserID, Msg: joinMsg, ReceivedAt: clock.UnixMillis()}:
		default:
			log.Printf("matchmaking: failed to send join for player %s", p.UserID)
		}
	}
}

// Run drives the periodic queue-to-match formation loop. It must be
// started once per process and runs until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		s.mu.Lock()
		connected := make(map[uuid.UUID]struct{}, len(s.players))
		for id := range s.players {
			connected[id] = struct{}{}
		}

		players := s.queue.TryFormMatch(connected)
		queueLen := s.queue.Len()
		s.mu.Unlock()

		metrics.QueueSize.Set(float64(queueLen))
		metrics.ActiveMatches.Set(float64(s.registry.ActiveMatches()))
		metrics.TotalPlayers.Set(float64(s.registry.TotalPlayers()))

		if len(players) > 0 {
			s.createMatch(ctx, players)
		}
	}
}

type matchmakingError string

func (e matchmakingError) Error() string { return string(e) }

const errAlreadyInMatch = matchmakingError("already in a match")
