package container

import (
	"reflect"
	"sync"
)

type registryKey struct {
	serviceType reflect.Type
	key         any
}

// registry indexes strategies by service type and key. A child registry
// layers its own strategies over its parent's.
type registry struct {
	mu       sync.RWMutex
	parent   *registry
	exact    map[registryKey][]*Strategy
	wildcard map[reflect.Type][]*Strategy
	keyed    map[reflect.Type][]*Strategy
	all      []*Strategy
}

func newRegistry(parent *registry) *registry {
	return &registry{
		parent:   parent,
		exact:    make(map[registryKey][]*Strategy),
		wildcard: make(map[reflect.Type][]*Strategy),
		keyed:    make(map[reflect.Type][]*Strategy),
	}
}

func (r *registry) add(strategies []*Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range strategies {
		switch {
		case s.Wildcard():
			r.wildcard[s.ServiceType] = append(r.wildcard[s.ServiceType], s)
		default:
			k := registryKey{serviceType: s.ServiceType, key: s.Key}
			r.exact[k] = append(r.exact[k], s)
			if s.Keyed() {
				r.keyed[s.ServiceType] = append(r.keyed[s.ServiceType], s)
			}
		}
		r.all = append(r.all, s)
	}
}

// find returns the strategy answering a single locate: the last exact match
// in the nearest registry, then, for keyed lookups, the last wildcard in the
// nearest registry. Exact keys registered by a parent beat a child's wildcard.
func (r *registry) find(serviceType reflect.Type, key any) *Strategy {
	if s := r.nearest(func(cur *registry) []*Strategy {
		return cur.exact[registryKey{serviceType: serviceType, key: key}]
	}); s != nil {
		return s
	}
	if key == nil {
		return nil
	}
	return r.nearest(func(cur *registry) []*Strategy { return cur.wildcard[serviceType] })
}

func (r *registry) nearest(pick func(*registry) []*Strategy) *Strategy {
	for cur := r; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		list := pick(cur)
		var found *Strategy
		if len(list) > 0 {
			found = list[len(list)-1]
		}
		cur.mu.RUnlock()

		if found != nil {
			return found
		}
	}
	return nil
}

// findAll returns every strategy for an enumeration in registration order,
// outermost registry first.
func (r *registry) findAll(serviceType reflect.Type, key any) []*Strategy {
	var chain []*registry
	for cur := r; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}

	collect := func(pick func(*registry) []*Strategy) []*Strategy {
		var out []*Strategy
		for i := len(chain) - 1; i >= 0; i-- {
			chain[i].mu.RLock()
			out = append(out, pick(chain[i])...)
			chain[i].mu.RUnlock()
		}
		return out
	}

	if isAnyKey(key) {
		return collect(func(cur *registry) []*Strategy { return cur.keyed[serviceType] })
	}

	out := collect(func(cur *registry) []*Strategy {
		return cur.exact[registryKey{serviceType: serviceType, key: key}]
	})
	if len(out) == 0 && key != nil {
		out = collect(func(cur *registry) []*Strategy { return cur.wildcard[serviceType] })
	}
	return out
}

// hasKeyed reports whether any keyed or wildcard strategy exists for the type.
func (r *registry) hasKeyed(serviceType reflect.Type) bool {
	for cur := r; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		ok := len(cur.keyed[serviceType]) > 0 || len(cur.wildcard[serviceType]) > 0
		cur.mu.RUnlock()
		if ok {
			return true
		}
	}
	return false
}

func (r *registry) strategies() []*Strategy {
	var chain []*registry
	for cur := r; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}

	var out []*Strategy
	for i := len(chain) - 1; i >= 0; i-- {
		chain[i].mu.RLock()
		out = append(out, chain[i].all...)
		chain[i].mu.RUnlock()
	}
	return out
}
