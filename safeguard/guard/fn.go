package guard

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

var contextInterface = reflect.TypeOf((*context.Context)(nil)).Elem()

// Fn returns a guarded version of fn with the exact same signature, as an
// untyped value to be asserted back by the caller. Prefer the typed Wrap
// helpers when the arity allows.
//
// Fn panics if fn is not a function; like option validation, applying a guard
// to a non-callable is a decoration-time failure.
func (g *Guard) Fn(fn any) any {
	return g.fnNamed(fn, "")
}

// fnNamed wraps fn under the given entity name, deriving one from the runtime
// when empty.
func (g *Guard) fnNamed(fn any, entity string) any {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		panic(fmt.Sprintf("guard: Fn requires a function, got %T", fn))
	}

	if entity == "" {
		entity = funcName(v)
	}

	if entity == "" {
		entity = g.name + "/func"
	}

	t := v.Type()

	wrapped := reflect.MakeFunc(t, func(in []reflect.Value) (out []reflect.Value) {
		ctx := contextFromValues(in)

		defer func() {
			r := recover()
			if r == nil {
				return
			}

			if !g.matches(r) {
				panic(r)
			}

			g.capture(ctx, r, entity, renderValues(in))

			if !g.suppress {
				panic(r)
			}

			out = g.fallbackResults(t)
		}()

		if t.IsVariadic() {
			return v.CallSlice(in)
		}

		return v.Call(in)
	})

	return wrapped.Interface()
}

// fallbackResults builds the result set of a suppressed call: the configured
// fallback for the first result when assignable, zero values everywhere else.
func (g *Guard) fallbackResults(t reflect.Type) []reflect.Value {
	out := make([]reflect.Value, t.NumOut())
	for i := range out {
		out[i] = reflect.Zero(t.Out(i))
	}

	if g.hasFallback && t.NumOut() > 0 {
		fb := reflect.ValueOf(g.fallback)
		if g.fallback != nil && fb.Type().AssignableTo(t.Out(0)) {
			out[0] = fb
		}
	}

	return out
}

// Wrap0 returns a guarded version of a no-argument function.
func Wrap0[R any](g *Guard, fn func() R) func() R {
	entity := entityName(g, fn)

	return func() (r R) {
		defer func() {
			if v := recover(); v != nil {
				r = handleTyped[R](g, nil, v, entity, nil)
			}
		}()

		return fn()
	}
}

// Wrap1 returns a guarded version of a one-argument function. If the argument
// is a context.Context it is used for log correlation and observability.
func Wrap1[A, R any](g *Guard, fn func(A) R) func(A) R {
	entity := entityName(g, fn)

	return func(a A) (r R) {
		ctx, _ := any(a).(context.Context)

		defer func() {
			if v := recover(); v != nil {
				r = handleTyped[R](g, ctx, v, entity, []string{renderArg(a)})
			}
		}()

		return fn(a)
	}
}

// Wrap2 returns a guarded version of a two-argument function. If the first
// argument is a context.Context it is used for log correlation and
// observability.
func Wrap2[A, B, R any](g *Guard, fn func(A, B) R) func(A, B) R {
	entity := entityName(g, fn)

	return func(a A, b B) (r R) {
		ctx, _ := any(a).(context.Context)

		defer func() {
			if v := recover(); v != nil {
				r = handleTyped[R](g, ctx, v, entity, []string{renderArg(a), renderArg(b)})
			}
		}()

		return fn(a, b)
	}
}

// handleTyped runs the interception algorithm for the typed wrappers and
// returns the suppressed call's result value.
func handleTyped[R any](g *Guard, ctx context.Context, value any, entity string, args []string) R {
	if !g.matches(value) {
		panic(value)
	}

	g.capture(ctx, value, entity, args)

	if !g.suppress {
		panic(value)
	}

	if g.hasFallback {
		if fb, ok := g.fallback.(R); ok {
			return fb
		}
	}

	var zero R

	return zero
}

// entityName derives the guarded entity identifier for a typed wrapper.
func entityName(g *Guard, fn any) string {
	if name := funcName(reflect.ValueOf(fn)); name != "" {
		return name
	}

	return g.name + "/func"
}

// funcName resolves a function value's name via the runtime, trimmed to
// "pkg.Func" form. Returns "" for anonymous or unresolvable functions.
func funcName(v reflect.Value) string {
	fn := runtime.FuncForPC(v.Pointer())
	if fn == nil {
		return ""
	}

	name := fn.Name()
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}

	// Method values carry a -fm suffix.
	name = strings.TrimSuffix(name, "-fm")

	return name
}

// contextFromValues returns the first argument when it is a context.Context.
func contextFromValues(in []reflect.Value) context.Context {
	if len(in) == 0 {
		return nil
	}

	if !in[0].Type().Implements(contextInterface) {
		return nil
	}

	ctx, _ := in[0].Interface().(context.Context)

	return ctx
}

// renderValues renders call arguments as text, in order. Contexts are
// abbreviated since their string form is noise.
func renderValues(in []reflect.Value) []string {
	if len(in) == 0 {
		return nil
	}

	out := make([]string, len(in))
	for i, v := range in {
		if v.Type().Implements(contextInterface) {
			out[i] = "ctx"
			continue
		}

		out[i] = renderArg(v.Interface())
	}

	return out
}

// renderArg renders one argument as text. Strings are quoted so empty and
// whitespace-only values remain visible.
func renderArg(arg any) string {
	if _, ok := arg.(context.Context); ok {
		return "ctx"
	}

	if s, ok := arg.(string); ok {
		return fmt.Sprintf("%q", s)
	}

	return fmt.Sprintf("%v", arg)
}
