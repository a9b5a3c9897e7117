package container

// Lifestyle decides where an activated instance is cached and which scope
// performs the activation. The set of lifestyles is closed.
type Lifestyle interface {
	// Name identifies the lifestyle in diagnostics and metrics labels.
	Name() string

	// owner returns the scope that caches the instance, or nil when the
	// instance must not be cached.
	owner(requesting, registering *Scope) *Scope
}

var (
	// Transient activates a new instance on every locate.
	Transient Lifestyle = transientLifestyle{}

	// PerScope caches one instance per requesting lifetime scope.
	PerScope Lifestyle = perScopeLifestyle{}

	// Singleton caches one instance in the scope that owns the registration.
	Singleton Lifestyle = singletonLifestyle{}
)

type transientLifestyle struct{}

func (transientLifestyle) Name() string { return "transient" }

func (transientLifestyle) owner(_, _ *Scope) *Scope { return nil }

type perScopeLifestyle struct{}

func (perScopeLifestyle) Name() string { return "per_scope" }

func (perScopeLifestyle) owner(requesting, _ *Scope) *Scope { return requesting }

type singletonLifestyle struct{}

func (singletonLifestyle) Name() string { return "singleton" }

func (singletonLifestyle) owner(_, registering *Scope) *Scope { return registering }
