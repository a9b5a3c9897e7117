package bridge_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/xraph/bridge"
	"github.com/xraph/bridge/observability"
)

func TestScopeDisposalCascade(t *testing.T) {
	const n = 4
	log := &disposalLog{}

	services := bridge.NewServiceCollection()
	for i := range n {
		name := fmt.Sprintf("conn-%d", i)
		bridge.AddKeyedFactory[*connection](services, name, bridge.Scoped, func(bridge.Provider, any) (*connection, error) {
			return &connection{name: name, log: log}, nil
		})
	}

	root, err := services.BuildServiceProvider()
	require.NoError(t, err)

	scope, err := root.CreateScope()
	require.NoError(t, err)
	for i := range n {
		_, err := bridge.GetRequiredKeyedService[*connection](scope.Provider(), fmt.Sprintf("conn-%d", i))
		require.NoError(t, err)
	}

	require.NoError(t, scope.Dispose())
	assert.Equal(t, []string{"conn-3", "conn-2", "conn-1", "conn-0"}, log.list())
	assert.True(t, scope.IsDisposed())

	require.NoError(t, scope.Dispose(), "second dispose is a no-op")
	assert.Len(t, log.list(), n)
	assert.False(t, root.IsDisposed())
}

func TestScopeDisposalLeavesSingletonsAndInstances(t *testing.T) {
	log := &disposalLog{}
	external := &connection{name: "external", log: log}

	services := bridge.NewServiceCollection()
	bridge.AddFactory[*connection](services, bridge.Singleton, func(bridge.Provider) (*connection, error) {
		return &connection{name: "singleton", log: log}, nil
	})
	bridge.AddKeyedInstance[*connection](services, "external", external)
	bridge.AddFactory[*file](services, bridge.Transient, func(bridge.Provider) (*file, error) {
		return &file{log: log}, nil
	})

	root, err := services.BuildServiceProvider()
	require.NoError(t, err)

	scope, err := root.CreateScope()
	require.NoError(t, err)

	_, err = bridge.GetRequiredService[*connection](scope.Provider())
	require.NoError(t, err)
	_, err = bridge.GetRequiredKeyedService[*connection](scope.Provider(), "external")
	require.NoError(t, err)
	_, err = bridge.GetRequiredService[*file](scope.Provider())
	require.NoError(t, err)

	require.NoError(t, scope.Dispose())
	assert.Equal(t, []string{"file"}, log.list())

	require.NoError(t, root.Close())
	assert.Equal(t, []string{"file", "singleton"}, log.list(), "instances are never disposed")
	require.NoError(t, root.Close())
	assert.Len(t, log.list(), 2)
}

func TestScopeDisposalAggregatesErrors(t *testing.T) {
	log := &disposalLog{}
	errA := errors.New("a failed")
	errB := errors.New("b failed")

	services := bridge.NewServiceCollection()
	for name, failure := range map[string]error{"a": errA, "b": errB} {
		bridge.AddKeyedFactory[*connection](services, name, bridge.Scoped, func(bridge.Provider, any) (*connection, error) {
			return &connection{name: name, log: log, err: failure}, nil
		})
	}

	root, err := services.BuildServiceProvider()
	require.NoError(t, err)
	scope, err := root.CreateScope()
	require.NoError(t, err)

	for _, k := range []string{"a", "b"} {
		_, err := bridge.GetRequiredKeyedService[*connection](scope.Provider(), k)
		require.NoError(t, err)
	}

	err = scope.Dispose()
	require.Error(t, err)
	assert.True(t, bridge.IsDisposalFailed(err))
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Len(t, log.list(), 2)

	assert.NoError(t, scope.Dispose())
}

type ctxKey struct{}

func TestScopeDisposeAsync(t *testing.T) {
	log := &disposalLog{}
	var created []*asyncConnection

	services := bridge.NewServiceCollection()
	bridge.AddFactory[*asyncConnection](services, bridge.Scoped, func(bridge.Provider) (*asyncConnection, error) {
		c := &asyncConnection{name: "async", log: log}
		created = append(created, c)
		return c, nil
	})
	bridge.AddFactory[*connection](services, bridge.Scoped, func(bridge.Provider) (*connection, error) {
		return &connection{name: "sync", log: log}, nil
	})

	root, err := services.BuildServiceProvider()
	require.NoError(t, err)

	asyncScope, err := root.CreateScope()
	require.NoError(t, err)
	_, err = bridge.GetRequiredService[*asyncConnection](asyncScope.Provider())
	require.NoError(t, err)
	_, err = bridge.GetRequiredService[*connection](asyncScope.Provider())
	require.NoError(t, err)

	ctx := context.WithValue(context.Background(), ctxKey{}, "async")
	require.NoError(t, asyncScope.DisposeAsync(ctx))
	assert.Equal(t, []string{"sync", "async"}, log.list())
	assert.Equal(t, "async", created[0].ctx.Value(ctxKey{}))

	syncScope, err := root.CreateScope()
	require.NoError(t, err)
	_, err = bridge.GetRequiredService[*asyncConnection](syncScope.Provider())
	require.NoError(t, err)

	require.NoError(t, syncScope.Dispose())
	assert.Equal(t, context.Background(), created[1].ctx)

	require.NoError(t, syncScope.DisposeAsync(ctx), "async dispose after dispose is a no-op")
	assert.Len(t, log.list(), 3)
}

func TestParentLinkage(t *testing.T) {
	root, _ := buildScenario(t)

	child, err := root.CreateScope()
	require.NoError(t, err)
	grandchild, err := child.Provider().CreateScope()
	require.NoError(t, err)

	assert.Nil(t, root.Parent())
	require.NotNil(t, child.Parent())
	assert.Equal(t, root.ID(), child.Parent().ID())

	require.NotNil(t, grandchild.Parent())
	assert.Equal(t, child.ID(), grandchild.Parent().ID(), "scopes are not flattened")
	assert.NotEqual(t, root.ID(), grandchild.Parent().ID())

	ls, err := bridge.GetRequiredService[bridge.LifetimeScope](grandchild.Provider())
	require.NoError(t, err)
	assert.Equal(t, grandchild.ID(), ls.ID())
	assert.Equal(t, child.ID(), ls.Parent().ID())
	assert.Equal(t, root.ID(), ls.Parent().Parent().ID())
	assert.Nil(t, ls.Parent().Parent().Parent())
}

func TestScopeFactoryCreatesBeneathResolvingScope(t *testing.T) {
	root, _ := buildScenario(t)

	child, err := root.CreateScope()
	require.NoError(t, err)

	factory, err := bridge.GetRequiredService[bridge.ScopeFactory](child.Provider())
	require.NoError(t, err)

	nested, err := factory.CreateScope()
	require.NoError(t, err)
	assert.Equal(t, child.ID(), nested.Parent().ID())
}

func TestOneProviderPerScope(t *testing.T) {
	root, _ := buildScenario(t)

	scope, err := root.CreateScope()
	require.NoError(t, err)

	p1, err := bridge.GetRequiredService[bridge.Provider](scope.Provider())
	require.NoError(t, err)
	p2, err := bridge.GetRequiredService[bridge.Provider](scope.Provider())
	require.NoError(t, err)
	rootProvider, err := bridge.GetRequiredService[bridge.Provider](root)
	require.NoError(t, err)

	assert.Same(t, scope.Provider(), p1)
	assert.Same(t, p1, p2)
	assert.NotSame(t, p1, rootProvider)

	require.NoError(t, scope.Dispose())
	assert.False(t, root.IsDisposed(), "the provider is externally owned")
}

func TestFactoriesReceiveOwningScope(t *testing.T) {
	var singletonScope, scopedScope string

	services := bridge.NewServiceCollection()
	bridge.AddFactory[ILogger](services, bridge.Singleton, func(p bridge.Provider) (ILogger, error) {
		ls, err := bridge.GetRequiredService[bridge.LifetimeScope](p)
		if err != nil {
			return nil, err
		}
		singletonScope = ls.ID()
		return newConsoleLogger(), nil
	})
	bridge.AddFactory[IRequestContext](services, bridge.Scoped, func(p bridge.Provider) (IRequestContext, error) {
		ls, err := bridge.GetRequiredService[bridge.LifetimeScope](p)
		if err != nil {
			return nil, err
		}
		scopedScope = ls.ID()
		return &requestContext{id: 1}, nil
	})

	root, err := services.BuildServiceProvider()
	require.NoError(t, err)
	scope, err := root.CreateScope()
	require.NoError(t, err)

	_, err = bridge.GetRequiredService[ILogger](scope.Provider())
	require.NoError(t, err)
	_, err = bridge.GetRequiredService[IRequestContext](scope.Provider())
	require.NoError(t, err)

	assert.Equal(t, root.ID(), singletonScope)
	assert.Equal(t, scope.ID(), scopedScope)
}

func TestDisposedScopeFailsEveryCall(t *testing.T) {
	root, _ := buildScenario(t)

	scope, err := root.CreateScope()
	require.NoError(t, err)
	p := scope.Provider()
	require.NoError(t, scope.Dispose())

	_, err = p.GetService(bridge.TypeOf[IWidget]())
	assert.True(t, bridge.IsScopeDisposed(err))

	_, err = p.GetService(bridge.TypeOf[*file]())
	assert.True(t, bridge.IsScopeDisposed(err), "unregistered types fail too")

	_, err = p.GetRequiredKeyedService(bridge.TypeOf[IWidget](), "k")
	assert.True(t, bridge.IsScopeDisposed(err))

	_, err = p.GetServices(bridge.TypeOf[IWidget]())
	assert.True(t, bridge.IsScopeDisposed(err))

	_, err = p.CreateScope()
	assert.True(t, bridge.IsScopeDisposed(err))
	assert.ErrorIs(t, err, bridge.ErrScopeDisposedSentinel)

	_, err = root.GetService(bridge.TypeOf[IWidget]())
	assert.NoError(t, err, "the parent scope is unaffected")
}

func TestClosedRootFailsDescendants(t *testing.T) {
	root, _ := buildScenario(t)

	scope, err := root.CreateScope()
	require.NoError(t, err)
	require.NoError(t, root.Close())

	_, err = scope.Provider().GetService(bridge.TypeOf[ILogger]())
	assert.True(t, bridge.IsScopeDisposed(err), "singletons live in the closed root")

	_, err = root.CreateScope()
	assert.True(t, bridge.IsScopeDisposed(err))
}

func TestScopeRegistrations(t *testing.T) {
	log := &disposalLog{}
	seq := &sequence{}

	services := bridge.NewServiceCollection()
	bridge.AddSingleton[ILogger](services, newConsoleLogger)

	root, err := services.BuildServiceProvider(bridge.WithScopeRegistrations(
		bridge.DescribeFactory(bridge.TypeOf[*connection](), func(bridge.Provider) (any, error) {
			return &connection{name: seq.next("tenant"), log: log}, nil
		}, bridge.Singleton),
	))
	require.NoError(t, err)

	v, err := root.GetService(bridge.TypeOf[*connection]())
	require.NoError(t, err)
	assert.Nil(t, v, "scope registrations are not visible from the root")

	s1, err := root.CreateScope()
	require.NoError(t, err)
	s2, err := root.CreateScope()
	require.NoError(t, err)
	nested, err := s1.Provider().CreateScope()
	require.NoError(t, err)

	c1, err := bridge.GetRequiredService[*connection](s1.Provider())
	require.NoError(t, err)
	c1again, err := bridge.GetRequiredService[*connection](s1.Provider())
	require.NoError(t, err)
	c2, err := bridge.GetRequiredService[*connection](s2.Provider())
	require.NoError(t, err)
	cn, err := bridge.GetRequiredService[*connection](nested.Provider())
	require.NoError(t, err)

	assert.Same(t, c1, c1again)
	assert.NotSame(t, c1, c2)
	assert.NotSame(t, c1, cn, "every created scope is its own child container")

	l1, err := bridge.GetRequiredService[ILogger](s1.Provider())
	require.NoError(t, err)
	l2, err := bridge.GetRequiredService[ILogger](s2.Provider())
	require.NoError(t, err)
	assert.Same(t, l1, l2, "root singletons stay shared")

	require.NoError(t, nested.Dispose())
	require.NoError(t, s1.Dispose())
	assert.Equal(t, []string{cn.name, c1.name}, log.list())
	require.NoError(t, s2.Dispose())
	assert.Len(t, log.list(), 3)

	t.Run("wildcard keeps exact keys from the root", func(t *testing.T) {
		services := bridge.NewServiceCollection()
		bridge.AddKeyedInstance[IWidget](services, "a", &widget{name: "exact-a"})

		root, err := services.BuildServiceProvider(bridge.WithScopeRegistrations(
			bridge.DescribeKeyedFactory(bridge.TypeOf[IWidget](), bridge.AnyKey, func(_ bridge.Provider, key any) (any, error) {
				return &widget{name: "wild-" + key.(string)}, nil
			}, bridge.Transient),
		))
		require.NoError(t, err)

		scope, err := root.CreateScope()
		require.NoError(t, err)
		defer scope.Dispose()

		a, err := bridge.GetRequiredKeyedService[IWidget](scope.Provider(), "a")
		require.NoError(t, err)
		assert.Equal(t, "exact-a", a.Name())

		b, err := bridge.GetRequiredKeyedService[IWidget](scope.Provider(), "b")
		require.NoError(t, err)
		assert.Equal(t, "wild-b", b.Name())
	})
}

func TestScopeTracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := trace.NewTracerProvider(trace.WithSpanProcessor(recorder))

	root, _ := buildScenario(t, bridge.WithTracer(observability.NewTracerFromProvider(provider)))

	scope, err := root.CreateScope()
	require.NoError(t, err)
	require.NoError(t, scope.Dispose())

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "bridge.scope", ended[0].Name())

	started := recorder.Started()
	require.Len(t, started, 2, "root and child scope spans")
	assert.Equal(t, started[0].SpanContext().SpanID(), ended[0].Parent().SpanID())
}
