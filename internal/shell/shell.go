// README: Per-session state machine driving the form, the loading screen and the result views.
package shell

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tripgenie/internal/ai"
	"tripgenie/internal/metrics"
	"tripgenie/internal/trip"
)

const (
	DefaultGenerationTimeout = 90 * time.Second
	resolveWriteTimeout      = 5 * time.Second
)

var (
	ErrBusy              = errors.New("a trip is already being planned")
	ErrInvalidTransition = errors.New("invalid state transition")
)

// Planner produces an itinerary for validated preferences.
type Planner interface {
	Plan(ctx context.Context, prefs trip.Preferences) (*trip.Result, error)
}

type Options struct {
	// GenerationTimeout bounds every planner call. Zero means DefaultGenerationTimeout.
	GenerationTimeout time.Duration
	// BaseContext parents background generations; cancelling it fails them.
	BaseContext context.Context
	Logger      *zap.Logger
}

type Shell struct {
	store   SessionStore
	planner Planner
	timeout time.Duration
	baseCtx context.Context
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string
	wg      sync.WaitGroup
}

func New(store SessionStore, planner Planner, opts Options) *Shell {
	if opts.GenerationTimeout <= 0 {
		opts.GenerationTimeout = DefaultGenerationTimeout
	}
	if opts.BaseContext == nil {
		opts.BaseContext = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Shell{
		store:   store,
		planner: planner,
		timeout: opts.GenerationTimeout,
		baseCtx: opts.BaseContext,
		logger:  opts.Logger.Named("shell"),
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Current returns the session state; unknown sessions are Idle with the default form.
func (s *Shell) Current(ctx context.Context, sid string) (State, error) {
	st, err := s.store.Load(ctx, sid)
	if errors.Is(err, ErrSessionNotFound) {
		return NewIdle(), nil
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

// Submit moves an Idle session to Loading and plans in the background.
// Invalid preferences keep the session Idle with the submitted form and return
// the *trip.ValidationError.
func (s *Shell) Submit(ctx context.Context, sid string, prefs trip.Preferences) error {
	loading, err := s.begin(ctx, sid, prefs)
	if err != nil {
		return err
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.generate(s.baseCtx, sid, loading)
	}()
	return nil
}

// SubmitAndWait runs the same transitions as Submit but blocks until the
// planner resolves, returning the final state.
func (s *Shell) SubmitAndWait(ctx context.Context, sid string, prefs trip.Preferences) (State, error) {
	loading, err := s.begin(ctx, sid, prefs)
	if err != nil {
		return nil, err
	}
	s.generate(ctx, sid, loading)
	return s.Current(ctx, sid)
}

// Reset returns a finished session to Idle with the default form.
// It is a no-op from Idle and fails with ErrBusy while Loading.
func (s *Shell) Reset(ctx context.Context, sid string) error {
	reset := false
	err := s.store.Update(ctx, sid, func(cur State) (State, error) {
		reset = false
		switch from := cur.Status(); {
		case from == StatusIdle:
			return nil, nil
		case from == StatusLoading:
			return nil, ErrBusy
		case !CanTransition(from, StatusIdle):
			return nil, fmt.Errorf("%w: reset from %s", ErrInvalidTransition, from)
		}
		reset = true
		return NewIdle(), nil
	})
	if err == nil && reset {
		metrics.ShellTransitions.WithLabelValues(string(StatusIdle)).Inc()
	}
	return err
}

// Wait blocks until background generations have resolved.
func (s *Shell) Wait() {
	s.wg.Wait()
}

func (s *Shell) begin(ctx context.Context, sid string, prefs trip.Preferences) (Loading, error) {
	prefs = prefs.Normalized()
	loading := Loading{RequestID: s.newID(), Preferences: prefs, StartedAt: s.now().UTC()}

	var invalid error
	err := s.store.Update(ctx, sid, func(cur State) (State, error) {
		invalid = nil
		switch from := cur.Status(); {
		case from == StatusLoading:
			return nil, ErrBusy
		case !CanTransition(from, StatusLoading):
			return nil, fmt.Errorf("%w: submit from %s", ErrInvalidTransition, from)
		}
		if verr := prefs.Validate(); verr != nil {
			var ve *trip.ValidationError
			if !errors.As(verr, &ve) {
				return nil, verr
			}
			if !CanTransition(cur.Status(), StatusIdle) {
				return nil, fmt.Errorf("%w: reject from %s", ErrInvalidTransition, cur.Status())
			}
			invalid = verr
			return Idle{Form: prefs, Problems: ve.Problems}, nil
		}
		return loading, nil
	})
	if err != nil {
		return Loading{}, err
	}
	if invalid != nil {
		return Loading{}, invalid
	}
	metrics.ShellTransitions.WithLabelValues(string(StatusLoading)).Inc()
	s.logger.Info("generation started", zap.String("session", sid), zap.String("request_id", loading.RequestID))
	return loading, nil
}

func (s *Shell) generate(parent context.Context, sid string, loading Loading) {
	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()

	res, err := s.planner.Plan(ctx, loading.Preferences)

	var next State
	if err != nil {
		next = Failed{Message: failureMessage(err)}
	} else {
		sources := res.Sources
		if sources == nil {
			sources = []trip.Source{}
		}
		next = Success{Itinerary: res.Itinerary, Sources: sources}
	}

	wctx, wcancel := context.WithTimeout(context.WithoutCancel(parent), resolveWriteTimeout)
	defer wcancel()
	applied, uerr := s.resolve(wctx, sid, loading.RequestID, next)
	switch {
	case uerr != nil:
		s.logger.Error("failed to record generation result", zap.String("session", sid), zap.Error(uerr))
	case !applied:
		s.logger.Info("discarded stale generation result", zap.String("session", sid), zap.String("request_id", loading.RequestID))
	default:
		metrics.ShellTransitions.WithLabelValues(string(next.Status())).Inc()
		s.logger.Info("generation resolved",
			zap.String("session", sid),
			zap.String("request_id", loading.RequestID),
			zap.String("status", string(next.Status())),
			zap.Duration("elapsed", s.now().Sub(loading.StartedAt)),
		)
	}
}

// resolve applies next only if the session is still waiting on requestID.
func (s *Shell) resolve(ctx context.Context, sid, requestID string, next State) (bool, error) {
	applied := false
	err := s.store.Update(ctx, sid, func(cur State) (State, error) {
		applied = false
		l, ok := cur.(Loading)
		if !ok || l.RequestID != requestID {
			return nil, nil
		}
		if !CanTransition(StatusLoading, next.Status()) {
			return nil, fmt.Errorf("%w: resolve to %s", ErrInvalidTransition, next.Status())
		}
		applied = true
		return next, nil
	})
	return applied, err
}

func failureMessage(err error) string {
	var ve *trip.ValidationError
	if errors.As(err, &ve) && len(ve.Problems) > 0 {
		p := ve.Problems[0]
		return fmt.Sprintf("Please check your trip details: %s %s.", p.Field, p.Message)
	}
	return ai.UserMessage
}
