package bridge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/bridge"
)

func buildPresenceScenario(t *testing.T) (*bridge.ServiceProvider, *sequence) {
	t.Helper()

	seq := &sequence{}
	services := bridge.NewServiceCollection()
	bridge.AddFactory[IWidget](services, bridge.Transient, func(bridge.Provider) (IWidget, error) {
		return &widget{name: seq.next("widget")}, nil
	})
	bridge.AddInstance[Repository[int]](services, &intRepository{value: 7})
	bridge.AddKeyedInstance[ILogger](services, "audit", newConsoleLogger())

	root, err := services.BuildServiceProvider()
	require.NoError(t, err)
	t.Cleanup(func() { _ = root.Close() })
	return root, seq
}

func TestServicePresence(t *testing.T) {
	root, seq := buildPresenceScenario(t)

	presence, err := bridge.GetRequiredService[bridge.ServicePresence](root)
	require.NoError(t, err)

	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"registered", presence.IsService(bridge.TypeOf[IWidget]()), true},
		{"unregistered", presence.IsService(bridge.TypeOf[IRequestContext]()), false},
		{"provider built-in", presence.IsService(bridge.TypeOf[bridge.Provider]()), true},
		{"scope factory built-in", presence.IsService(bridge.TypeOf[bridge.ScopeFactory]()), true},
		{"presence built-in", presence.IsService(bridge.TypeOf[bridge.ServicePresence]()), true},
		{"lifetime scope built-in", presence.IsService(bridge.TypeOf[bridge.LifetimeScope]()), true},
		{"closed generic", presence.IsService(bridge.TypeOf[Repository[int]]()), true},
		{"other instantiation", presence.IsService(bridge.TypeOf[Repository[string]]()), false},
		{"generic definition", presence.IsService(bridge.TypeOf[Repository[bridge.Unbound]]()), false},
		{"pointer to generic definition", presence.IsService(bridge.TypeOf[*Repository[bridge.Unbound]]()), false},
		{"nil type", presence.IsService(nil), false},
		{"keyed only", presence.IsService(bridge.TypeOf[ILogger]()), false},
		{"keyed", presence.IsKeyedService(bridge.TypeOf[ILogger](), "audit"), true},
		{"other key", presence.IsKeyedService(bridge.TypeOf[ILogger](), "debug"), false},
		{"any key", presence.IsKeyedService(bridge.TypeOf[ILogger](), bridge.AnyKey), true},
		{"any key without keyed registrations", presence.IsKeyedService(bridge.TypeOf[IWidget](), bridge.AnyKey), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}

	assert.Zero(t, seq.n, "presence checks never activate services")
}

func TestServicePresenceFromScope(t *testing.T) {
	root, _ := buildPresenceScenario(t)

	scope, err := root.CreateScope()
	require.NoError(t, err)

	presence, err := bridge.GetRequiredService[bridge.ServicePresence](scope.Provider())
	require.NoError(t, err)
	assert.True(t, presence.IsService(bridge.TypeOf[IWidget]()))
	assert.Same(t, scope.Provider(), presence, "presence is answered by the scope's provider")
}
