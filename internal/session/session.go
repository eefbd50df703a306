// Package session implements the per-connection router: it upgrades an
// HTTP request to a WebSocket, authenticates the caller, resolves a
// display name, registers with matchmaking, and bridges the duplex
// client socket to the personal input/snapshot channels matchmaking
// hands back — spec.md §4.8.
package session

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/cruxsyn/shipwar/internal/authn"
	"github.com/cruxsyn/shipwar/internal/clock"
	gmatch "github.com/cruxsyn/shipwar/internal/match"
	"github.com/cruxsyn/shipwar/internal/matchmaking"
	"github.com/cruxsyn/shipwar/internal/metrics"
	"github.com/cruxsyn/shipwar/internal/profile"
	"github.com/cruxsyn/shipwar/internal/ratelimit"
	"github.com/cruxsyn/shipwar/internal/wire"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = 54 * time.Second
	readBufferSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  readBufferSize,
	WriteBufferSize: readBufferSize,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Router wires the authn/profile/matchmaking collaborators together to
// handle one WebSocket session per accepted upgrade.
type Router struct {
	verifier  authn.Verifier
	profiles  profile.Store
	mm        *matchmaking.Service
	inputRate float64
	inputBurst int
}

// NewRouter constructs a session router. inputRatePerSec/inputBurst tune
// the per-connection input token bucket (spec.md default: 30/s).
func NewRouter(verifier authn.Verifier, profiles profile.Store, mm *matchmaking.Service, inputRatePerSec float64, inputBurst int) *Router {
	return &Router{verifier: verifier, profiles: profiles, mm: mm, inputRate: inputRatePerSec, inputBurst: inputBurst}
}

// ServeHTTP handles one upgrade request: verify token, upgrade, register,
// run the session to completion, then unregister.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	userID, err := rt.verifier.Verify(token)
	if err != nil {
		metrics.ConnectionsRejectedTotal.WithLabelValues("auth").Inc()
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("session: upgrade error for %s: %v", userID, err)
		return
	}

	prof, err := rt.profiles.Resolve(r.Context(), userID)
	if err != nil {
		log.Printf("session: profile resolve failed for %s: %v", userID, err)
		prof = profile.Profile{DisplayName: "Player_" + userID.String()[:8]}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics.WSConnectionsActive.Inc()
	defer metrics.WSConnectionsActive.Dec()

	inputCh, snapshotCh := rt.mm.RegisterPlayer(ctx, userID)

	welcome := wire.ServerMsg{Type: wire.ServerMsgWelcome, UserID: &userID, ServerTime: clock.UnixMillis()}
	if err := writeJSON(conn, welcome); err != nil {
		log.Printf("session: welcome send failed for %s: %v", userID, err)
		conn.Close()
		rt.mm.UnregisterPlayer(userID)
		return
	}

	s := &session{
		userID:      userID,
		displayName: prof.DisplayName,
		conn:        conn,
		inputCh:     inputCh,
		snapshotCh:  snapshotCh,
		limiter:     ratelimit.NewPlayerLimiter(rt.inputRate, rt.inputBurst),
		cancel:      cancel,
	}
	s.run(ctx)

	rt.mm.UnregisterPlayer(userID)
	log.Printf("session: %s closed", userID)
}

// session runs one established connection's reader and writer loops.
type session struct {
	userID      uuid.UUID
	displayName string // carried for future join/logging use; match.handleJoin assigns its own placeholder name today
	conn        *websocket.Conn
	inputCh     chan<- gmatch.PlayerInput
	snapshotCh  <-chan wire.ServerMsg
	limiter     *ratelimit.PlayerLimiter
	cancel      context.CancelFunc
}

func (s *session) run(ctx context.Context) {
	writerDone := make(chan struct{})
	go func() {
		s.writeLoop(ctx)
		close(writerDone)
	}()

	s.readLoop()

	// Reader exited (close frame, error, or socket gone): tell the match
	// we're leaving, then tear down the writer.
	select {
	case s.inputCh <- gmatch.PlayerInput{UserID: s.userID, Msg: wire.ClientMsg{Type: wire.ClientMsgLeaveMatch}, ReceivedAt: clock.UnixMillis()}:
	default:
	}
	s.cancel()
	<-writerDone
	s.conn.Close()
}

func (s *session) writeLoop(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-s.snapshotCh:
			if !ok {
				return
			}
			if err := writeJSON(s.conn, msg); err != nil {
				log.Printf("session: write failed for %s: %v", s.userID, err)
				return
			}
			metrics.MessagesSentTotal.Inc()
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *session) readLoop() {
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("session: read error for %s: %v", s.userID, err)
			}
			return
		}

		if msgType == websocket.BinaryMessage {
			log.Printf("session: dropping binary frame from %s", s.userID)
			continue
		}

		if !s.limiter.Allow() {
			continue
		}

		var msg wire.ClientMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("session: malformed frame from %s: %v", s.userID, err)
			continue
		}
		metrics.MessagesReceivedTotal.Inc()

		in := gmatch.PlayerInput{UserID: s.userID, Msg: msg, ReceivedAt: clock.UnixMillis()}
		select {
		case s.inputCh <- in:
		default:
			log.Printf("session: input channel full for %s, dropping message", s.userID)
		}
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}
