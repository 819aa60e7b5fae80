package control

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
)

type buildOptions struct {
	loader Loader
	logger *log.Logger
}

type Option func(*buildOptions)

// WithLoader supplies the model loader used by the learned controller.
func WithLoader(l Loader) Option {
	return func(o *buildOptions) { o.loader = l }
}

func WithLogger(l *log.Logger) Option {
	return func(o *buildOptions) { o.logger = l }
}

var factories = map[string]func(Config, buildOptions) (Controller, error){
	KindRamp: func(cfg Config, _ buildOptions) (Controller, error) {
		return NewRamp(cfg), nil
	},
	KindLearned: func(cfg Config, o buildOptions) (Controller, error) {
		return NewLearned(cfg, o.loader, o.logger), nil
	},
	KindNone: func(Config, buildOptions) (Controller, error) {
		return NewNone(), nil
	},
}

// Build returns the controller named by cfg.Kind.
func Build(cfg Config, opts ...Option) (Controller, error) {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}
	fn, ok := factories[cfg.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownKind, cfg.Kind, Kinds())
	}
	return fn(cfg, o)
}

func Kinds() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
