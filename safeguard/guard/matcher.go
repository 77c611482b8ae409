package guard

import (
	"errors"
	"reflect"
)

// Matcher decides whether a panic value belongs to the set of failure kinds a
// guard intercepts.
type Matcher func(value any) bool

var errorInterface = reflect.TypeOf((*error)(nil)).Elem()

// ErrorIs matches panic values that are errors in target's chain, following
// errors.Is semantics.
func ErrorIs(target error) Matcher {
	return func(value any) bool {
		err, ok := value.(error)
		if !ok {
			return false
		}

		return errors.Is(err, target)
	}
}

// OfType matches panic values whose dynamic type is T. When T is an error
// type (or an interface), wrapped errors in the panic value's chain are also
// matched, following errors.As semantics.
func OfType[T any]() Matcher {
	t := reflect.TypeOf((*T)(nil)).Elem()
	asCompatible := t.Kind() == reflect.Interface || t.Implements(errorInterface)

	return func(value any) bool {
		if _, ok := value.(T); ok {
			return true
		}

		if !asCompatible {
			return false
		}

		err, ok := value.(error)
		if !ok {
			return false
		}

		var target T

		return errors.As(err, &target)
	}
}

// MatchFunc adapts an arbitrary predicate into a Matcher.
func MatchFunc(fn func(value any) bool) Matcher {
	return Matcher(fn)
}

// matches reports whether the panic value is in the guard's intercept set.
// An empty matcher set means "match any".
func (g *Guard) matches(value any) bool {
	if len(g.matchers) == 0 {
		return true
	}

	for _, m := range g.matchers {
		if m(value) {
			return true
		}
	}

	return false
}
