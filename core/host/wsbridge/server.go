// Package wsbridge hosts scenes for a browser presentation engine over
// websockets.
//
// Each connection gets its own scene. Scene commands arrive as JSON text
// frames named after the command, scene events leave as "event" frames, and
// narration, speech recognition and microphone capture are delegated to the
// client through their own message types. Binary frames carry captured
// audio. The JSON Schema of every message is served at /schema.
package wsbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	orchestration "github.com/koscakluka/ema-rescue/core"
	"github.com/koscakluka/ema-rescue/core/audio"
	"github.com/koscakluka/ema-rescue/core/script"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Server struct {
	sceneOptions    []orchestration.SceneOption
	rewards         *Rewards
	captureEncoding audio.EncodingInfo
	upgrader        websocket.Upgrader

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type ServerOption func(*Server)

// WithSceneOptions applies opts to every scene the server creates. Options
// the bridge owns (character, narration, recognition, capture and event
// handling) are always overridden.
func WithSceneOptions(opts ...orchestration.SceneOption) ServerOption {
	return func(s *Server) {
		s.sceneOptions = append(s.sceneOptions, opts...)
	}
}

func WithRewards(rewards *Rewards) ServerOption {
	return func(s *Server) {
		if rewards != nil {
			s.rewards = rewards
		}
	}
}

// WithCaptureEncoding sets the encoding clients are asked to stream
// microphone audio in.
func WithCaptureEncoding(encoding audio.EncodingInfo) ServerOption {
	return func(s *Server) {
		if !encoding.IsZero() {
			s.captureEncoding = encoding
		}
	}
}

// WithCheckOrigin replaces the same-origin check of the upgrader.
func WithCheckOrigin(check func(r *http.Request) bool) ServerOption {
	return func(s *Server) {
		s.upgrader.CheckOrigin = check
	}
}

func NewServer(opts ...ServerOption) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		rewards:         &Rewards{},
		captureEncoding: audio.GetDefaultEncodingInfo(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Rewards() *Rewards { return s.rewards }

// Handler serves /ws, /schema and /healthz, instrumented with otelhttp.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.serveWS)
	mux.HandleFunc("GET /schema", s.serveSchema)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return otelhttp.NewHandler(mux, "wsbridge",
		otelhttp.WithFilter(func(r *http.Request) bool { return r.URL.Path != "/healthz" }),
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path)
		}),
	)
}

// Close ends every open session and waits for their scenes to tear down.
func (s *Server) Close(ctx context.Context) error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	character := script.DefaultCharacter
	if raw := r.URL.Query().Get("character"); raw != "" {
		parsed, ok := script.ParseCharacter(raw)
		if !ok {
			http.Error(w, fmt.Sprintf("unknown character %q", raw), http.StatusBadRequest)
			return
		}
		character = parsed
	}

	select {
	case <-s.ctx.Done():
		http.Error(w, "server is shutting down", http.StatusServiceUnavailable)
		return
	default:
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		logger.WarnContext(r.Context(), "failed to upgrade connection", "error", err)
		return
	}

	s.wg.Add(1)
	defer s.wg.Done()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	if err := newSession(conn, s, character).run(ctx); err != nil {
		logger.WarnContext(ctx, "session ended with error", "error", err)
	}
}

func (s *Server) serveSchema(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/schema+json")
	if err := json.NewEncoder(w).Encode(Schemas()); err != nil {
		logger.WarnContext(r.Context(), "failed to write schema", "error", err)
	}
}
