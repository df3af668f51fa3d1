package embeddings

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// LazyConfig holds configuration for a Lazy embedder.
type LazyConfig struct {
	// Model is the model name, used for logging and metrics labels.
	Model string

	// Dimension is the declared output width of the model, known from the
	// static model table. Reported by Dimension() without loading the model.
	Dimension int
}

// Lazy defers provider construction to the first Embed or Preload call.
//
// Construction happens at most once per process: concurrent first calls
// serialize on the mutex and all but one observe the constructed provider.
// A construction failure does not poison the handle; the next caller
// re-attempts construction under the same mutex.
type Lazy struct {
	factory Factory
	config  LazyConfig
	logger  *zap.Logger
	metrics *Metrics

	mu       sync.RWMutex
	provider Provider
}

// NewLazy creates a Lazy embedder around the given factory.
// metrics may be nil to disable instrumentation.
func NewLazy(factory Factory, cfg LazyConfig, logger *zap.Logger, metrics *Metrics) (*Lazy, error) {
	if factory == nil {
		return nil, fmt.Errorf("%w: factory cannot be nil", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Lazy{
		factory: factory,
		config:  cfg,
		logger:  logger,
		metrics: metrics,
	}, nil
}

// get returns the provider, constructing it on first use.
func (l *Lazy) get(ctx context.Context) (Provider, error) {
	l.mu.RLock()
	p := l.provider
	l.mu.RUnlock()
	if p != nil {
		return p, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Another caller may have constructed while we waited for the lock.
	if l.provider != nil {
		return l.provider, nil
	}

	l.logger.Info("loading embedding model", zap.String("model", l.config.Model))
	start := time.Now()
	p, err := l.factory()
	if l.metrics != nil {
		l.metrics.RecordLoad(ctx, l.config.Model, time.Since(start), err)
	}
	if err != nil {
		l.logger.Error("embedding model load failed",
			zap.String("model", l.config.Model),
			zap.Error(err))
		return nil, err
	}

	l.logger.Info("embedding model loaded",
		zap.String("model", l.config.Model),
		zap.Int("dimension", p.Dimension()),
		zap.Duration("duration", time.Since(start)))

	l.provider = p
	return p, nil
}

// Preload eagerly constructs the provider. Called at startup so the first
// request does not pay the model load cost.
func (l *Lazy) Preload(ctx context.Context) error {
	_, err := l.get(ctx)
	return err
}

// Embed generates embeddings for the given texts, constructing the
// underlying provider on first use.
func (l *Lazy) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	p, err := l.get(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	vectors, err := p.Embed(ctx, texts)
	if l.metrics != nil {
		l.metrics.RecordGeneration(ctx, l.config.Model, time.Since(start), len(texts), err)
	}
	return vectors, err
}

// Dimension returns the declared output width from the model table.
// Never triggers model construction.
func (l *Lazy) Dimension() int {
	return l.config.Dimension
}

// Close releases the provider if it was constructed.
func (l *Lazy) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.provider == nil {
		return nil
	}
	err := l.provider.Close()
	l.provider = nil
	return err
}
