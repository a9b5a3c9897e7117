package container

import (
	"fmt"
	"reflect"
)

var (
	errorType      = reflect.TypeOf((*error)(nil)).Elem()
	serviceKeyType = reflect.TypeOf(ServiceKey{})
)

// constructorActivator builds an Activator from a function whose parameters
// are located by type and whose first result is the instance.
func constructorActivator(serviceType reflect.Type, ctor any) (Activator, reflect.Type, error) {
	fn := reflect.ValueOf(ctor)
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return nil, nil, fmt.Errorf("%w: got %T", ErrInvalidConstructor, ctor)
	}

	ft := fn.Type()
	if ft.IsVariadic() {
		return nil, nil, fmt.Errorf("%w: %s is variadic", ErrInvalidConstructor, ft)
	}

	switch ft.NumOut() {
	case 1:
	case 2:
		if ft.Out(1) != errorType {
			return nil, nil, fmt.Errorf("%w: second result of %s must be error", ErrInvalidConstructor, ft)
		}
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidConstructor, ft)
	}

	implType := ft.Out(0)
	if !implType.AssignableTo(serviceType) {
		return nil, nil, fmt.Errorf("%w: %s does not produce %s", ErrInvalidConstructor, ft, serviceType)
	}

	params := make([]reflect.Type, ft.NumIn())
	for i := range params {
		params[i] = ft.In(i)
	}

	activator := func(ctx *ActivationContext) (any, error) {
		args := make([]reflect.Value, len(params))
		for i, p := range params {
			if p == serviceKeyType {
				args[i] = reflect.ValueOf(ServiceKey{Value: ctx.Key()})
				continue
			}

			dep, err := ctx.Locate(p, nil)
			if err != nil {
				return nil, fmt.Errorf("parameter %d (%s): %w", i, p, err)
			}
			if dep == nil {
				args[i] = reflect.Zero(p)
			} else {
				args[i] = reflect.ValueOf(dep)
			}
		}

		out := fn.Call(args)
		if len(out) == 2 && !out[1].IsNil() {
			return nil, out[1].Interface().(error)
		}
		return valueInterface(out[0]), nil
	}

	return activator, implType, nil
}

// valueInterface unwraps v, mapping nil pointers, maps, funcs and interfaces
// to an untyped nil.
func valueInterface(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return nil
		}
	}
	return v.Interface()
}
