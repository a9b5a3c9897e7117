package bridge

import (
	"time"

	"github.com/xraph/bridge/internal/container"
	"github.com/xraph/bridge/logger"
	"github.com/xraph/bridge/observability"
)

// instrumentation forwards native container events to logging, metrics and
// tracing.
type instrumentation struct {
	logger  logger.Logger
	metrics observability.Metrics
	tracer  observability.Tracer
}

func newInstrumentation(l logger.Logger, m observability.Metrics, t observability.Tracer) *instrumentation {
	return &instrumentation{logger: l, metrics: m, tracer: t}
}

func (i *instrumentation) Registered(s *container.Strategy) {
	i.metrics.RecordRegistration(lifetimeOf(s.Lifestyle).String())
}

func (i *instrumentation) Activated(s *container.Strategy, scope *container.Scope, elapsed time.Duration, err error) {
	lifetime := lifetimeOf(s.Lifestyle).String()
	i.metrics.RecordActivation(lifetime, elapsed, err)

	if err != nil {
		i.tracer.ActivationFailed(scope.ID(), s.String(), lifetime, err)
		i.logger.Debug("activation failed",
			logger.String("service", s.String()),
			logger.String("lifetime", lifetime),
			logger.String("scope_id", scope.ID()),
			logger.Error(err),
		)
	}
}

func (i *instrumentation) ScopeCreated(scope *container.Scope) {
	var parentID string
	if parent := scope.Parent(); parent != nil {
		parentID = parent.ID()
	}

	i.metrics.ScopeOpened()
	i.tracer.ScopeStarted(scope.ID(), parentID, scope.Depth())
	i.logger.Debug("scope created",
		logger.String("scope_id", scope.ID()),
		logger.String("parent_id", parentID),
		logger.Int("depth", scope.Depth()),
	)
}

func (i *instrumentation) ScopeDisposed(scope *container.Scope, disposed int, err error) {
	i.metrics.ScopeClosed(disposed, err)
	i.tracer.ScopeEnded(scope.ID(), disposed, err)

	if err != nil {
		i.logger.Error("scope disposal failed",
			logger.String("scope_id", scope.ID()),
			logger.Int("disposed", disposed),
			logger.Error(err),
		)
		return
	}

	i.logger.Debug("scope disposed",
		logger.String("scope_id", scope.ID()),
		logger.Int("disposed", disposed),
	)
}
