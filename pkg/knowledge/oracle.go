package knowledge

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/gbossert/pylstar/pkg/letter"
)

// Oracle answers membership queries: given an input word, what output word
// does the system under learning produce.
type Oracle interface {
	Resolve(ctx context.Context, input letter.Word) (letter.Word, error)
}

// Target is the system under learning. Start and Stop bracket one
// membership query's lifetime — e.g. spawning and tearing down a process,
// or opening and closing a connection — matching pylstar's
// ActiveKnowledgeBase.start_target/stop_target contract. The learner never
// calls these directly; only the ActiveOracle that wraps a Target does.
type Target interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Submit(ctx context.Context, input letter.Word) (letter.Word, error)
}

// ActiveOracle resolves membership queries against a Target, memoizing
// every observation in a Cache so that repeated or overlapping queries
// never re-run the target.
type ActiveOracle struct {
	target Target
	cache  *Cache
	log    *zap.Logger
}

// NewActiveOracle wraps target with a fresh cache. A nil logger defaults
// to a no-op logger.
func NewActiveOracle(target Target, log *zap.Logger) *ActiveOracle {
	if log == nil {
		log = zap.NewNop()
	}
	return &ActiveOracle{target: target, cache: NewCache(), log: log}
}

// Resolve answers an input word from the cache when possible, otherwise
// runs one Start/Submit/Stop cycle against the target and caches the
// result.
func (o *ActiveOracle) Resolve(ctx context.Context, input letter.Word) (letter.Word, error) {
	if out, ok := o.cache.Lookup(input); ok {
		return out, nil
	}
	o.log.Debug("no cached knowledge, querying target", zap.Stringer("input", input))

	if err := o.target.Start(ctx); err != nil {
		return letter.Empty, fmt.Errorf("%w: start target: %w", ErrTransportFailure, err)
	}
	output, submitErr := o.target.Submit(ctx, input)
	if stopErr := o.target.Stop(ctx); stopErr != nil && submitErr == nil {
		submitErr = fmt.Errorf("%w: stop target: %w", ErrTransportFailure, stopErr)
	}
	if submitErr != nil {
		return letter.Empty, fmt.Errorf("%w: submit word: %w", ErrTransportFailure, submitErr)
	}

	if err := o.cache.Store(input, output); err != nil {
		return letter.Empty, err
	}
	return output, nil
}

// Seed pre-populates the cache with a known (input, output) pair, the Go
// analogue of pylstar's KnowledgeBase.add_word — useful for tests and for
// bootstrapping a session from a prior run's recorded traffic.
func (o *ActiveOracle) Seed(input, output letter.Word) error {
	return o.cache.Store(input, output)
}
