package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/dictaflow/platform/internal/config"
	"github.com/dictaflow/platform/internal/generate"
	"github.com/dictaflow/platform/internal/session"
	"github.com/dictaflow/platform/internal/trace"
)

// Message types.
type Message struct {
	Type string `json:"type"`
}

type TranscriptMessage struct {
	Type    string `json:"type"`
	Text    string `json:"text"`
	Final   bool   `json:"final"`
	TraceID string `json:"trace_id,omitempty"`
}

type ApplyMessage struct {
	Type       string `json:"type"`
	Suggestion string `json:"suggestion"`
}

type SetPauseMessage struct {
	Type    string `json:"type"`
	DelayMs int    `json:"delay_ms"`
}

type SuggestionsMessage struct {
	Type        string   `json:"type"`
	Suggestions []string `json:"suggestions"`
	Source      string   `json:"source"`
	LatencyMs   int64    `json:"latency_ms"`
	Persisted   bool     `json:"persisted"`
}

type ClearedMessage struct {
	Type string `json:"type"`
}

type RateLimitedMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// rateLimiter tracks message timestamps using a sliding window.
type rateLimiter struct {
	timestamps []time.Time
	mu         sync.Mutex
}

// allow checks if a message is allowed and records the timestamp if so.
func (r *rateLimiter) allow() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-RateLimitWindow)

	// Prune old timestamps
	valid := r.timestamps[:0]
	for _, t := range r.timestamps {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	r.timestamps = valid

	if len(r.timestamps) >= RateLimitMessages {
		return false
	}

	r.timestamps = append(r.timestamps, now)
	return true
}

// Server handles HTTP and WebSocket connections. Each WebSocket connection
// owns one suggestion session; nothing is shared between connections.
type Server struct {
	cfg       *config.Config
	generator generate.Generator
	mu        sync.RWMutex
	sessions  map[*websocket.Conn]*session.Session
}

// New creates a new server.
func New(generator generate.Generator, cfg *config.Config) *Server {
	return &Server{
		cfg:       cfg,
		generator: generator,
		sessions:  make(map[*websocket.Conn]*session.Session),
	}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// WebSocket endpoint
	mux.HandleFunc("/ws", s.handleWebSocket)

	// REST API
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/latency", s.handleLatency)

	// Apply middleware: trace -> CORS
	return corsMiddleware(trace.Middleware(mux))
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("websocket accept error", "error", err)
		return
	}
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "") }()

	baseCtx := r.Context()
	log := trace.Logger(baseCtx)
	log.Info("websocket connected", "remote", r.RemoteAddr)

	// Outbound queue: engine callbacks must never block on a slow client.
	outbound := make(chan any, OutboundBuffer)
	send := func(msg any) {
		select {
		case outbound <- msg:
		default:
			log.Warn("outbound queue full, dropping message", "remote", r.RemoteAddr)
		}
	}

	sess := session.New(session.Options{
		Generator:        s.generator,
		PauseDelay:       s.cfg.PauseDelay,
		PrefetchDebounce: s.cfg.PrefetchDebounce,
		CacheTTL:         s.cfg.CacheTTL,
		MaxCacheSize:     s.cfg.MaxCacheSize,
		MinWords:         s.cfg.MinWords,
		LatencyHistory:   s.cfg.MaxLatencyHistory,
		AutoHide:         s.cfg.AutoHideDelay,
		GenerateTimeout:  s.cfg.GenerateTimeout,
		Events: session.Events{
			OnSuggestions: func(d session.Display) {
				send(SuggestionsMessage{
					Type:        "suggestions",
					Suggestions: d.Suggestions,
					Source:      string(d.Source),
					LatencyMs:   d.LatencyMs,
					Persisted:   d.Persisted,
				})
			},
			OnCleared: func() {
				send(ClearedMessage{Type: "suggestions_cleared"})
			},
		},
	})

	s.mu.Lock()
	s.sessions[conn] = sess
	s.mu.Unlock()

	defer func() {
		sess.End()
		s.mu.Lock()
		delete(s.sessions, conn)
		s.mu.Unlock()
	}()

	// Writer goroutine drains the outbound queue for this connection.
	writerDone := make(chan struct{})
	writerCtx, cancelWriter := context.WithCancel(context.Background())
	defer cancelWriter()
	go func() {
		defer close(writerDone)
		for {
			select {
			case msg := <-outbound:
				ctx, cancel := context.WithTimeout(writerCtx, WriteTimeout)
				err := wsjson.Write(ctx, conn, msg)
				cancel()
				if err != nil {
					log.Debug("websocket write error", "error", err)
					return
				}
			case <-writerCtx.Done():
				return
			}
		}
	}()

	rl := &rateLimiter{}

	for {
		var raw json.RawMessage
		if err := wsjson.Read(baseCtx, conn, &raw); err != nil {
			log.Debug("websocket read error", "error", err)
			return
		}

		if !rl.allow() {
			log.Warn("rate limit exceeded", "remote", r.RemoteAddr)
			send(RateLimitedMessage{Type: "error", Message: "rate limit exceeded"})
			continue
		}

		var base Message
		if err := json.Unmarshal(raw, &base); err != nil {
			continue
		}

		switch base.Type {
		case "transcript":
			var msg TranscriptMessage
			if err := json.Unmarshal(raw, &msg); err != nil {
				continue
			}
			ctx := baseCtx
			if tc, ok := trace.ExtractFromJSON(raw); ok {
				ctx = trace.WithContext(ctx, tc)
			}
			trace.Logger(ctx).Debug("transcript event", "final", msg.Final, "len", len(msg.Text))
			sess.HandleTranscript(msg.Text, msg.Final)

		case "apply":
			var msg ApplyMessage
			if err := json.Unmarshal(raw, &msg); err != nil {
				continue
			}
			log.Debug("suggestion applied", "suggestion", msg.Suggestion)
			sess.ApplySuggestion(msg.Suggestion)

		case "clear":
			log.Debug("transcript cleared")
			sess.Clear()

		case "end":
			log.Debug("recognition session ended")
			sess.End()

		case "set_pause":
			var msg SetPauseMessage
			if err := json.Unmarshal(raw, &msg); err != nil {
				continue
			}
			sess.SetPauseDelay(time.Duration(msg.DelayMs) * time.Millisecond)
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleLatency reports the rolling suggestion round-trip average across
// active sessions.
func (s *Server) handleLatency(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	var sum float64
	var n int
	for _, sess := range s.sessions {
		if avg, ok := sess.LatencyAverage(); ok {
			sum += avg
			n++
		}
	}
	active := len(s.sessions)
	s.mu.RUnlock()

	resp := map[string]any{
		"active_sessions": active,
		"average_ms":      nil,
	}
	if n > 0 {
		resp["average_ms"] = sum / float64(n)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
