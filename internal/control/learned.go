package control

import (
	"fmt"
	"math"
	"sync"

	"github.com/charmbracelet/log"
)

// backendState is either loadedBackend or unavailableBackend.
type backendState interface {
	isBackendState()
}

type loadedBackend struct {
	backend Backend
}

type unavailableBackend struct {
	err error
}

func (loadedBackend) isBackendState()      {}
func (unavailableBackend) isBackendState() {}

// Learned asks an inference backend for per-wheel torques. Failures never
// reach the caller: an unavailable or failing backend falls back to the ramp
// law, a malformed prediction leaves the wheel's torques unchanged.
type Learned struct {
	fallback *Ramp
	maxBrake float64
	maxDrive float64

	loader Loader
	once   sync.Once
	state  backendState

	logger   *log.Logger
	failures int
}

func NewLearned(cfg Config, loader Loader, logger *log.Logger) *Learned {
	if logger == nil {
		logger = log.Default()
	}
	return &Learned{
		fallback: NewRamp(cfg),
		maxBrake: cfg.MaxBrakeTorque,
		maxDrive: cfg.MaxDriveTorque,
		loader:   loader,
		logger:   logger.With("controller", KindLearned),
	}
}

// NewLearnedWithBackend wraps an already loaded backend.
func NewLearnedWithBackend(cfg Config, b Backend, logger *log.Logger) *Learned {
	l := NewLearned(cfg, func() (Backend, error) { return b, nil }, logger)
	l.resolve()
	return l
}

// Available reports whether the backend loaded. The first call triggers the
// load.
func (l *Learned) Available() bool {
	_, ok := l.resolve().(loadedBackend)
	return ok
}

// LoadErr returns why the backend is unavailable, or nil once it loaded.
func (l *Learned) LoadErr() error {
	if s, ok := l.resolve().(unavailableBackend); ok {
		return s.err
	}
	return nil
}

// Failures counts inference errors and malformed outputs seen so far.
func (l *Learned) Failures() int { return l.failures }

func (l *Learned) resolve() backendState {
	l.once.Do(func() {
		if l.loader == nil {
			l.state = unavailableBackend{err: ErrNoLoader}
			l.logger.Warn("no model configured, using ramp law")
			return
		}
		b, err := l.loader()
		if err == nil && b == nil {
			err = ErrBackendUnavailable
		}
		if err != nil {
			l.state = unavailableBackend{err: err}
			l.logger.Error("model load failed, using ramp law", "err", err)
			return
		}
		l.state = loadedBackend{backend: b}
		l.logger.Info("model loaded")
	})
	return l.state
}

func (l *Learned) Update(p Plant, dt float64) {
	switch s := l.resolve().(type) {
	case loadedBackend:
		for i := 0; i < p.WheelCount(); i++ {
			l.predictWheel(s.backend, p, i, dt)
		}
	case unavailableBackend:
		l.fallback.Update(p, dt)
	}
}

func (l *Learned) predictWheel(b Backend, p Plant, i int, dt float64) {
	w, ok := p.Wheel(i)
	if !ok {
		return
	}
	slip := p.SlipRatio(i)
	features := NewFeatures(slip, w.AngularVelocity, p.LinearSpeed(), w.BrakeTorque, w.DriveTorque)

	out, err := b.Predict(features)
	if err != nil {
		l.report("inference failed, using ramp law", i, err)
		l.fallback.updateWheel(p, i, dt)
		return
	}

	drive, brake, err := torques(out)
	if err != nil {
		l.report("ignoring prediction", i, err)
		return
	}

	p.SetBrakeTorque(i, clamp(brake, 0, l.maxBrake))
	p.SetDriveTorque(i, clamp(drive, 0, l.maxDrive))
}

// report logs the first failure loudly and the rest at debug level; a broken
// backend otherwise floods the log at the physics rate.
func (l *Learned) report(msg string, wheel int, err error) {
	l.failures++
	if l.failures == 1 {
		l.logger.Warn(msg, "wheel", wheel, "err", err)
		return
	}
	l.logger.Debug(msg, "wheel", wheel, "err", err, "failures", l.failures)
}

func torques(out Output) (drive, brake float64, err error) {
	switch o := out.(type) {
	case Pair:
		return o.Drive, o.Brake, nil
	case *Pair:
		if o == nil {
			return 0, 0, fmt.Errorf("%w: nil pair", ErrOutputShape)
		}
		return o.Drive, o.Brake, nil
	case Tensor:
		return o.Torques()
	case *Tensor:
		if o == nil {
			return 0, 0, fmt.Errorf("%w: nil tensor", ErrOutputShape)
		}
		return o.Torques()
	case nil:
		return 0, 0, fmt.Errorf("%w: no output", ErrOutputShape)
	default:
		return 0, 0, fmt.Errorf("%w: %T", ErrOutputShape, out)
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
