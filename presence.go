package bridge

import (
	"reflect"
	"strings"
)

// ServicePresence answers whether a service can be resolved without
// resolving it.
type ServicePresence interface {
	IsService(serviceType reflect.Type) bool
	IsKeyedService(serviceType reflect.Type, key any) bool
}

// Unbound stands in for a type parameter to name a generic definition, such
// as Repository[bridge.Unbound]. Presence checks report false for such types
// even when a concrete instantiation is registered.
type Unbound struct{}

var unboundName = reflect.TypeOf(Unbound{}).PkgPath() + "." + reflect.TypeOf(Unbound{}).Name()

func (r resolver) IsService(serviceType reflect.Type) bool {
	if serviceType == nil || isUnboundGeneric(serviceType) {
		return false
	}
	return r.scope.CanLocate(serviceType, nil)
}

// IsKeyedService reports whether a registration answers key. With AnyKey it
// reports whether the type has any keyed registration.
func (r resolver) IsKeyedService(serviceType reflect.Type, key any) bool {
	if serviceType == nil || isUnboundGeneric(serviceType) {
		return false
	}
	return r.scope.CanLocate(serviceType, key)
}

// isUnboundGeneric reports whether t, or the type t points to, is a generic
// type instantiated with Unbound.
func isUnboundGeneric(t reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return hasUnboundArgument(t.Name())
}

// hasUnboundArgument reports whether a type name such as
// "Repository[github.com/xraph/bridge.Unbound]" carries Unbound as a whole
// type argument, at any nesting depth.
func hasUnboundArgument(name string) bool {
	for i := strings.IndexByte(name, '['); i >= 0 && i < len(name); {
		j := strings.Index(name[i:], unboundName)
		if j < 0 {
			return false
		}

		start := i + j
		end := start + len(unboundName)
		before := name[start-1]
		if (before == '[' || before == ',') && end < len(name) && (name[end] == ']' || name[end] == ',') {
			return true
		}
		i = end
	}
	return false
}
