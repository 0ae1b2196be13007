package wsbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	orchestration "github.com/koscakluka/ema-rescue/core"
	"github.com/koscakluka/ema-rescue/core/commands"
	"github.com/koscakluka/ema-rescue/core/events"
	"github.com/koscakluka/ema-rescue/core/intent"
	"github.com/koscakluka/ema-rescue/core/outcome"
	"github.com/koscakluka/ema-rescue/core/script"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer. Captured audio frames are the
	// largest messages.
	maxMessageSize = 64 * 1024

	sendBuffer = 256
)

var (
	errSessionClosed = errors.New("session closed")
	errSendOverflow  = errors.New("send buffer full")
	errClientGone    = errors.New("client disconnected")
	errNoOutcome     = errors.New("no outcome to finish")
)

// session bridges one websocket connection to one scene.
type session struct {
	id        uuid.UUID
	character script.Character
	conn      *websocket.Conn
	send      chan []byte
	closed    chan struct{}
	closeOnce sync.Once

	scene      *orchestration.Scene
	player     *RemotePlayer
	recognizer *remoteRecognizer
	capture    *remoteCapture
	rewards    *Rewards

	mu      sync.Mutex
	outcome *outcome.Outcome
}

func newSession(conn *websocket.Conn, server *Server, character script.Character) *session {
	s := &session{
		id:        uuid.New(),
		character: character,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		closed:    make(chan struct{}),
		rewards:   server.rewards,
	}
	s.player = NewRemotePlayer(s.enqueue)
	s.recognizer = newRemoteRecognizer(s.enqueue)
	s.capture = newRemoteCapture(s.enqueue, server.captureEncoding)

	opts := append([]orchestration.SceneOption{}, server.sceneOptions...)
	opts = append(opts,
		orchestration.WithCharacter(character),
		orchestration.WithNarrationPlayer(s.player),
		orchestration.WithRecognizer(s.recognizer),
		orchestration.WithAudioCapture(s.capture),
		orchestration.WithEventHandler(s.onEvent),
	)
	s.scene = orchestration.NewScene(opts...)
	return s
}

// run serves the connection until either side ends the session, then tears
// the scene down.
func (s *session) run(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "wsbridge.session", trace.WithAttributes(
		attribute.String("session.id", s.id.String()),
		attribute.String("scene.character", s.character.String()),
	))
	defer span.End()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger.InfoContext(ctx, "session opened", "session", s.id.String(), "character", s.character.String())
	defer func() {
		teardownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeWait)
		defer cancel()
		if err := s.scene.Teardown(teardownCtx); err != nil {
			logger.WarnContext(ctx, "scene teardown did not finish", "session", s.id.String(), "error", err)
		}
		s.close()
		logger.InfoContext(ctx, "session closed", "session", s.id.String())
	}()

	_ = s.enqueue(Outbound{Type: TypeSession, Payload: SessionPayload{ID: s.id.String(), Character: s.character}})
	if err := s.scene.Start(ctx); err != nil {
		s.conn.Close()
		err = fmt.Errorf("failed to start scene: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.readPump(gctx) })
	g.Go(func() error { return s.writePump(gctx) })

	err := g.Wait()
	if errors.Is(err, errClientGone) || errors.Is(err, errSessionClosed) || errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// enqueue never blocks; it is called from the scene loop.
func (s *session) enqueue(msg Outbound) error {
	msg.Session = s.id.String()
	data, err := encode(msg)
	if err != nil {
		return err
	}

	select {
	case <-s.closed:
		return errSessionClosed
	default:
	}

	select {
	case s.send <- data:
		return nil
	default:
		return errSendOverflow
	}
}

func (s *session) close() {
	s.closeOnce.Do(func() { close(s.closed) })
}

func (s *session) onEvent(event events.Event) {
	switch event := event.(type) {
	case events.OutcomeProduced:
		s.mu.Lock()
		result := event.Outcome
		s.outcome = &result
		s.mu.Unlock()
	case events.PhaseChanged:
		if event.To == script.PhaseIntro {
			s.mu.Lock()
			s.outcome = nil
			s.mu.Unlock()
		}
	}

	payload, err := eventPayload(event)
	if err != nil {
		logger.Warn("failed to encode event", "session", s.id.String(), "error", err)
		return
	}
	if err := s.enqueue(Outbound{Type: TypeEvent, Payload: payload}); err != nil {
		logger.Warn("dropped event", "session", s.id.String(), "event", event.Kind().String(), "error", err)
	}

	if event.Kind() == events.KindSceneTornDown {
		s.close()
	}
}

// readPump pumps messages from the websocket connection to the scene.
func (s *session) readPump(ctx context.Context) error {
	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		kind, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logger.WarnContext(ctx, "unexpected websocket close", "session", s.id.String(), "error", err)
			}
			return errClientGone
		}

		if kind == websocket.BinaryMessage {
			s.capture.feed(message)
			continue
		}

		var msg Inbound
		if err := json.Unmarshal(message, &msg); err != nil {
			s.reject(ctx, fmt.Errorf("malformed message: %w", err))
			continue
		}
		if err := s.handle(msg); err != nil {
			s.reject(ctx, err)
		}
	}
}

// writePump pumps queued messages to the websocket connection.
func (s *session) writePump(ctx context.Context) error {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case message := <-s.send:
			if err := s.write(websocket.TextMessage, message); err != nil {
				return err
			}
		case <-ticker.C:
			if err := s.write(websocket.PingMessage, nil); err != nil {
				return err
			}
		case <-s.closed:
			for {
				select {
				case message := <-s.send:
					if err := s.write(websocket.TextMessage, message); err != nil {
						return err
					}
				default:
					_ = s.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "scene torn down"))
					return errSessionClosed
				}
			}
		case <-ctx.Done():
			_ = s.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
			return ctx.Err()
		}
	}
}

func (s *session) write(kind int, data []byte) error {
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(kind, data)
}

func (s *session) reject(ctx context.Context, err error) {
	logger.DebugContext(ctx, "rejected client message", "session", s.id.String(), "error", err)
	_ = s.enqueue(Outbound{Type: TypeError, Payload: ErrorPayload{Message: err.Error()}})
}

func (s *session) handle(msg Inbound) error {
	switch msg.Type {
	case TypeHello:
		var hello HelloPayload
		if err := decode(msg, &hello); err != nil {
			return err
		}
		s.recognizer.supported.Store(hello.Speech)
		s.capture.supported.Store(hello.Capture)
		return nil

	case TypeRecognitionResult:
		var result AlternativesPayload
		if err := decode(msg, &result); err != nil {
			return err
		}
		if !s.recognizer.result(result.Alternatives) {
			return fmt.Errorf("no recognition in progress")
		}
		return nil

	case TypeRecognitionError:
		var failure RecognitionErrorPayload
		if err := decode(msg, &failure); err != nil {
			return err
		}
		if !s.recognizer.failure(failure) {
			return fmt.Errorf("no recognition in progress")
		}
		return nil

	case TypeNarrationFinished:
		var finished NarrationFinishedPayload
		if err := decode(msg, &finished); err != nil {
			return err
		}
		s.player.Finished(finished.ID)
		return nil

	case TypeFinish:
		return s.finish()
	}

	cmd, err := command(msg)
	if err != nil {
		return err
	}
	return s.scene.Send(cmd)
}

// finish credits the outcome's reward once.
func (s *session) finish() error {
	s.mu.Lock()
	result := s.outcome
	s.outcome = nil
	s.mu.Unlock()

	if result == nil {
		return errNoOutcome
	}
	total := s.rewards.Add(result.RewardTokens)
	return s.enqueue(Outbound{Type: TypeRewards, Payload: RewardsPayload{Added: result.RewardTokens, Total: total}})
}

func command(msg Inbound) (commands.Command, error) {
	name, ok := commands.ParseName(msg.Type)
	if !ok {
		return nil, fmt.Errorf("unknown message type %q", msg.Type)
	}

	switch name {
	case commands.NameAcknowledge:
		return commands.NewAcknowledge(), nil
	case commands.NameSubmitChoice:
		var choice ChoicePayload
		if err := decode(msg, &choice); err != nil {
			return nil, err
		}
		return commands.NewSubmitChoice(intent.ParseChoice(choice.Choice)), nil
	case commands.NameSubmitUtterance:
		var utterance AlternativesPayload
		if err := decode(msg, &utterance); err != nil {
			return nil, err
		}
		return commands.NewSubmitUtterance(intent.TranscriptUtterance(utterance.Alternatives...)), nil
	case commands.NameStartListening:
		return commands.NewStartListening(), nil
	case commands.NameStopListening:
		return commands.NewStopListening(), nil
	case commands.NameRequestHint:
		return commands.NewRequestHint(), nil
	case commands.NameRestart:
		return commands.NewRestart(), nil
	case commands.NameTeardown:
		return commands.NewTeardown(), nil
	}
	return nil, fmt.Errorf("unsupported command %q", name)
}

func decode(msg Inbound, v any) error {
	if len(msg.Payload) == 0 {
		return fmt.Errorf("%s requires a payload", msg.Type)
	}
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("malformed %s payload: %w", msg.Type, err)
	}
	return nil
}
