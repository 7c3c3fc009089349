package vitals

import (
	"time"

	"github.com/rs/zerolog"
)

// SampleContext carries per-call flags to samplers.
type SampleContext struct {
	// AvoidLocking signals that the call originates from a context where
	// blocking on ordinary synchronization risks a deadlock. Samplers must
	// degrade to best-effort (stale or missing values) instead of blocking.
	AvoidLocking bool
}

// Sampler is a capability provider that declares its columns once at startup
// and fills their slots on every tick. A counter a sampler cannot read is
// left at Invalid; that is never an error.
type Sampler interface {
	Name() string
	Define(r *Registry)
	Sample(s *Sample, ctx SampleContext)
}

// Options configures an Engine.
type Options struct {
	// HistorySize bounds the sample ring; <= 0 means DefaultHistorySize.
	HistorySize int
	// Now supplies timestamps; nil means time.Now.
	Now func() time.Time
	// Logger receives registration and degradation events.
	Logger zerolog.Logger
}

// Engine owns the registry, the sample history, and the registered samplers.
// Construction is an explicit two-phase affair: register all samplers, then
// Freeze. After freezing, the registry and legend are read-only and the only
// mutation left is appending samples under the engine lock.
type Engine struct {
	registry *Registry
	history  *History
	samplers []Sampler
	lock     Lock
	now      func() time.Time
	logger   zerolog.Logger
}

// New returns an engine ready for its sampler registration pass.
func New(opts Options) *Engine {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		registry: NewRegistry(),
		history:  NewHistory(opts.HistorySize),
		now:      now,
		logger:   opts.Logger,
	}
}

// RegisterSampler runs the sampler's column definition pass and keeps it for
// every future tick. Registration after Freeze is ignored.
func (e *Engine) RegisterSampler(s Sampler) {
	if e.registry.Frozen() {
		e.logger.Debug().Str("sampler", s.Name()).Msg("sampler registered after freeze, ignored")
		return
	}
	s.Define(e.registry)
	e.samplers = append(e.samplers, s)
	e.logger.Debug().Str("sampler", s.Name()).Msg("sampler registered")
}

// Freeze ends registration. Must be called before the first SampleNow.
func (e *Engine) Freeze() {
	e.registry.Freeze()
}

// Registry exposes the column registry for report rendering.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// SampleNow takes one sample: it allocates a record sized for the frozen
// column set, runs every sampler under the engine lock, and appends the
// result to the history. With avoidLocking set, a contended lock is not
// waited for; the sample is taken best-effort and returned without being
// retained, so a wedged sampler thread cannot block a diagnostic path.
func (e *Engine) SampleNow(avoidLocking bool) *Sample {
	if !e.registry.Frozen() {
		e.logger.Debug().Msg("sample requested before freeze, ignored")
		return nil
	}
	s := NewSample(e.registry.Len())
	s.SetTimestamp(e.now())
	ctx := SampleContext{AvoidLocking: avoidLocking}

	if avoidLocking {
		if !e.lock.TryAcquire() {
			e.fill(s, ctx)
			return s
		}
		defer e.lock.Release()
		e.fill(s, ctx)
		e.history.Add(s)
		return s
	}

	e.lock.Locked(func() {
		e.fill(s, ctx)
		e.history.Add(s)
	})
	return s
}

func (e *Engine) fill(s *Sample, ctx SampleContext) {
	for _, sampler := range e.samplers {
		sampler.Sample(s, ctx)
	}
}

// Window copies out up to max of the newest samples, oldest first. The copy
// is taken under the lock so a concurrent tick cannot shear the view.
func (e *Engine) Window(max int) []*Sample {
	var out []*Sample
	e.lock.Locked(func() {
		out = e.history.Window(max)
	})
	return out
}

// Newest returns the latest retained sample, or nil before the first tick.
func (e *Engine) Newest() *Sample {
	var s *Sample
	e.lock.Locked(func() {
		s = e.history.Newest()
	})
	return s
}

// HistoryLen returns the number of retained samples.
func (e *Engine) HistoryLen() int {
	var n int
	e.lock.Locked(func() {
		n = e.history.Len()
	})
	return n
}
