package advanced

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/osuushi/mls/dbg"
	"github.com/pkg/errors"
)

// Session caches phase one results for a sample domain so that phase two can
// run once per destination pin change.
//
// A session is Unprepared until Prepare succeeds, and returns to Unprepared
// when Prepare fails or the strategy changes. Evaluate may be called
// concurrently on a prepared session, but not concurrently with Prepare or
// SetStrategy.
type Session struct {
	kind      Kind
	strategy  Strategy
	weighting Weighting
	workers   int
	logger    *slog.Logger

	closures *ClosureSet
}

// SessionOption configures a Session during creation.
type SessionOption func(*Session)

// WithWeighting replaces DefaultWeighting.
func WithWeighting(w Weighting) SessionOption {
	return func(s *Session) {
		s.weighting = w
	}
}

// WithWorkers bounds the goroutines used by both phases. Values below one
// mean runtime.GOMAXPROCS(0).
func WithWorkers(n int) SessionOption {
	return func(s *Session) {
		s.workers = n
	}
}

// WithLogger sets a logger for this session instead of the package logger.
func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = l
	}
}

func NewSession(kind Kind, opts ...SessionOption) (*Session, error) {
	s := &Session{weighting: DefaultWeighting()}
	for _, opt := range opts {
		opt(s)
	}
	if s.workers < 1 {
		s.workers = runtime.GOMAXPROCS(0)
	}
	if err := s.SetStrategy(kind); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) Kind() Kind { return s.kind }

// SetStrategy switches the fitting model. The cached closures belong to the
// previous model, so the session becomes Unprepared.
func (s *Session) SetStrategy(kind Kind) error {
	strategy, err := NewStrategy(kind, s.weighting)
	if err != nil {
		return err
	}
	s.kind = kind
	s.strategy = strategy
	s.closures = nil
	return nil
}

// Prepared reports whether Evaluate can be called.
func (s *Session) Prepared() bool {
	return s.closures != nil
}

// Closures returns the current closure set, or nil when Unprepared.
func (s *Session) Closures() *ClosureSet {
	return s.closures
}

func (s *Session) Prepare(samples, sourcePins []Point) error {
	return s.PrepareContext(context.Background(), samples, sourcePins)
}

// PrepareContext computes a closure for every sample point against the
// source pins, replacing any previous closure set. Points with a degenerate
// fit get no closure and are not an error.
//
// Fewer than MinPins pins yields ErrInsufficientPins. On any error the session
// is left Unprepared.
func (s *Session) PrepareContext(ctx context.Context, samples, sourcePins []Point) error {
	s.closures = nil
	if len(sourcePins) < MinPins {
		return errors.Wrapf(ErrInsufficientPins, "got %d, need at least %d", len(sourcePins), MinPins)
	}

	samples = clonePoints(samples)
	sourcePins = clonePoints(sourcePins)
	closures := make([]Closure, len(samples))
	err := forEachChunk(ctx, len(samples), s.workers, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			c, err := s.strategy.ComputeClosure(samples[i], sourcePins)
			if errors.Is(err, ErrDegenerateConfiguration) {
				continue
			} else if err != nil {
				return errors.Wrapf(err, "sample %d", i)
			}
			closures[i] = c
		}
		return nil
	})
	if err != nil {
		return err
	}

	cs := newClosureSet(s.kind, samples, len(sourcePins), closures)
	if l := s.log(); l.Enabled(ctx, slog.LevelDebug) {
		l.DebugContext(ctx, "prepared closures",
			slog.String("closures", dbg.Name(cs)),
			slog.String("strategy", s.kind.String()),
			slog.Int("points", len(samples)),
			slog.Int("pins", len(sourcePins)),
			slog.Int("degenerate", len(cs.degenerate)))
	}
	s.closures = cs
	return nil
}

func (s *Session) Evaluate(destPins []Point) ([]Point, error) {
	result, _, err := s.EvaluateContext(context.Background(), destPins)
	return result, err
}

// EvaluateContext maps every sample point for the given destination pins,
// which must line up with the source pins passed to Prepare. Points whose fit
// is degenerate keep their input position and are counted in the stats. The
// closure set is only read.
func (s *Session) EvaluateContext(ctx context.Context, destPins []Point) ([]Point, EvaluationStats, error) {
	cs := s.closures
	if cs == nil {
		return nil, EvaluationStats{}, ErrNotPrepared
	}
	result, stats, err := cs.evaluate(ctx, s.strategy, destPins, s.workers)
	if err != nil {
		return nil, EvaluationStats{}, err
	}
	if l := s.log(); stats.Fallbacks > 0 && l.Enabled(ctx, slog.LevelDebug) {
		l.DebugContext(ctx, "degenerate points kept their position",
			slog.String("closures", dbg.Name(cs)),
			slog.Int("fallbacks", stats.Fallbacks),
			slog.Int("points", stats.Points))
	}
	return result, stats, nil
}

func (s *Session) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return Logger()
}
