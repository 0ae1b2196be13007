package orchestration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/koscakluka/ema-rescue/core/audio"
	"github.com/koscakluka/ema-rescue/core/events"
	"github.com/koscakluka/ema-rescue/core/intent"
	"github.com/koscakluka/ema-rescue/core/speechtotext"
	"github.com/koscakluka/ema-rescue/core/timeline"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// listenAttempt is one press of the listen control. Callbacks carry the
// attempt they were issued for and are ignored once it is no longer current.
type listenAttempt struct {
	id     uint64
	mode   events.ListenMode
	ctx    context.Context
	cancel context.CancelFunc
	span   trace.Span

	meter  *audio.Meter
	window *audio.VolumeWindow
}

func (s *Scene) startListening(ctx context.Context) {
	if s.listening != nil {
		logger.DebugContext(ctx, "already listening", "attempt", s.listening.id)
		return
	}
	if !s.inputEnabled {
		logger.DebugContext(ctx, "ignoring listen request while input is disabled", "phase", s.Phase().String())
		return
	}

	s.attempts++
	attemptCtx, cancel := context.WithCancel(s.ctx)
	attemptCtx, span := tracer.Start(attemptCtx, "listener.recognize")
	attempt := &listenAttempt{id: s.attempts, mode: events.ListenSpeech, ctx: attemptCtx, cancel: cancel, span: span}
	s.listening = attempt

	err := s.recognizer.Recognize(attemptCtx,
		speechtotext.WithLanguage(s.language),
		speechtotext.WithMaxAlternatives(s.maxAlternatives),
		speechtotext.WithResultCallback(func(alternatives []string) {
			s.post(func() { s.onRecognized(attempt, alternatives) })
		}),
		speechtotext.WithErrorCallback(func(err error) {
			s.post(func() { s.onRecognitionError(attempt, err) })
		}),
		speechtotext.WithEndCallback(func() {
			s.post(func() { s.onRecognitionEnd(attempt) })
		}),
	)
	switch {
	case errors.Is(err, speechtotext.ErrUnavailable):
		logger.InfoContext(ctx, "speech recognition unavailable, sampling volume instead")
		span.End()
		s.startSampling(ctx, attempt)
	case err != nil:
		err = fmt.Errorf("failed to start recognition: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.endAttempt(ctx, attempt, "start_failed", false)
		s.postStatus(ctx, StatusCannotListen)
	default:
		s.emit(events.NewListeningStarted(events.ListenSpeech))
		s.postStatus(ctx, StatusSpeakNow)
	}
}

func (s *Scene) onRecognized(attempt *listenAttempt, alternatives []string) {
	if s.listening != attempt {
		return
	}
	ctx := attempt.ctx
	s.endAttempt(ctx, attempt, "recognized", true)

	utterance := intent.TranscriptUtterance(alternatives...)
	choice := s.classifier.Classify(utterance)
	logger.DebugContext(ctx, "recognized utterance", "alternatives", alternatives, "choice", choice.String())
	s.emit(events.NewUtteranceClassified(events.ListenSpeech, utterance, choice))
	s.postStatus(ctx, choiceStatus(choice))
	s.submitChoice(s.ctx, choice)
}

func (s *Scene) onRecognitionError(attempt *listenAttempt, err error) {
	if s.listening != attempt {
		return
	}
	ctx := attempt.ctx

	if errors.Is(err, speechtotext.ErrNoSpeech) {
		s.endAttempt(ctx, attempt, "no_speech", true)
		s.postStatus(ctx, StatusNoSpeech)
		return
	}

	attempt.span.RecordError(err)
	attempt.span.SetStatus(codes.Error, err.Error())
	logger.WarnContext(ctx, "speech recognition failed", "error", err)
	s.endAttempt(ctx, attempt, "error", true)
	s.postStatus(ctx, StatusRecognitionError)
}

// onRecognitionEnd handles a recognizer that stopped without reporting
// anything.
func (s *Scene) onRecognitionEnd(attempt *listenAttempt) {
	if s.listening != attempt {
		return
	}
	s.endAttempt(attempt.ctx, attempt, "ended", true)
	if s.status == StatusSpeakNow {
		s.clearStatus()
	}
}

// startSampling runs the volume fallback: one level reading per sample
// interval, then a forced classification when the window closes.
func (s *Scene) startSampling(ctx context.Context, attempt *listenAttempt) {
	attempt.mode = events.ListenVolume
	attemptCtx, span := tracer.Start(attempt.ctx, "listener.sample_volume")
	attempt.ctx = attemptCtx
	attempt.span = span

	if s.capture == nil {
		s.captureDenied(attempt, errors.New("no audio capture configured"))
		return
	}

	meter := &audio.Meter{}
	if err := s.capture.StartCapture(attemptCtx, meter.Write); err != nil {
		s.captureDenied(attempt, err)
		return
	}
	attempt.meter = meter
	attempt.window = &audio.VolumeWindow{}

	s.emit(events.NewListeningStarted(events.ListenVolume))
	s.postStatus(ctx, StatusSpeakNow)

	samples := int(s.listenWindow / s.sampleInterval)
	beats := make([]timeline.Beat, 0, samples+1)
	for i := 1; i <= samples; i++ {
		beats = append(beats, timeline.Beat{
			Delay:  s.sampleInterval * time.Duration(i),
			Name:   "sample",
			Action: func() { s.sample(attempt) },
		})
	}
	beats = append(beats, timeline.Beat{
		Delay:  s.listenWindow,
		Name:   "classify",
		Action: func() { s.finishSampling(attempt) },
	})
	s.listen.Play(beats)
}

func (s *Scene) captureDenied(attempt *listenAttempt, cause error) {
	err := fmt.Errorf("%w: %w", ErrCaptureDenied, cause)
	attempt.span.RecordError(err)
	attempt.span.SetStatus(codes.Error, err.Error())
	logger.WarnContext(attempt.ctx, "failed to open microphone", "error", err)

	s.endAttempt(attempt.ctx, attempt, "capture_denied", false)
	s.postStatus(s.ctx, StatusCaptureDenied)
}

func (s *Scene) sample(attempt *listenAttempt) {
	if s.listening != attempt {
		return
	}
	attempt.window.Add(attempt.meter.Read())
}

// finishSampling classifies whatever was collected. It runs when the window
// closes or early on an explicit stop.
func (s *Scene) finishSampling(attempt *listenAttempt) {
	if s.listening != attempt {
		return
	}
	ctx := attempt.ctx

	summary := attempt.window.Summary()
	attempt.span.SetAttributes(
		attribute.Float64("volume.peak", summary.Peak),
		attribute.Float64("volume.average", summary.Average),
		attribute.Int("volume.samples", summary.Samples),
	)
	s.endAttempt(ctx, attempt, "sampled", true)

	utterance := intent.VolumeUtterance(summary)
	choice := s.classifier.Classify(utterance)
	s.emit(events.NewUtteranceClassified(events.ListenVolume, utterance, choice))
	if s.thresholds.Audible(summary) {
		s.postStatus(ctx, choiceStatus(choice))
	} else {
		s.postStatus(ctx, StatusNoSound)
	}
	s.submitChoice(s.ctx, choice)
}

// stopListening is the host's explicit stop. Recognition is abandoned;
// sampling is classified early with what it has.
func (s *Scene) stopListening(ctx context.Context) {
	attempt := s.listening
	if attempt == nil {
		return
	}

	if attempt.mode == events.ListenVolume {
		s.finishSampling(attempt)
		return
	}
	s.endAttempt(ctx, attempt, "stopped", true)
	if s.status == StatusSpeakNow {
		s.clearStatus()
	}
}

// cancelListening abandons the current attempt without classifying it.
func (s *Scene) cancelListening(ctx context.Context) {
	if attempt := s.listening; attempt != nil {
		s.endAttempt(ctx, attempt, "cancelled", true)
	}
}

// endAttempt releases everything an attempt holds. started reports whether
// ListeningStarted was emitted for it.
func (s *Scene) endAttempt(ctx context.Context, attempt *listenAttempt, result string, started bool) {
	if s.listening == attempt {
		s.listening = nil
	}
	if attempt.mode == events.ListenVolume {
		s.listen.CancelAll()
		if attempt.meter != nil && s.capture != nil {
			if err := s.capture.StopCapture(); err != nil {
				logger.WarnContext(ctx, "failed to release microphone", "error", err)
			}
		}
	}
	attempt.cancel()
	attempt.span.SetAttributes(attribute.String("listener.result", result))
	attempt.span.End()

	count(s.ctx, attemptsCounter, attribute.String("mode", string(attempt.mode)), attribute.String("result", result))
	if started {
		s.emit(events.NewListeningStopped(attempt.mode))
	}
}
