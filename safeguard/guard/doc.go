// Package guard provides panic interception for functions, structs of
// callables, and scoped blocks.
//
// A Guard is configured once and then applied to a target: Fn and the typed
// Wrap helpers produce a guarded function with the same signature, Struct
// rewrites a struct's exported func fields in place, and Scope covers an
// inline block. An intercepted panic is captured as an immutable Record,
// appended to the guard's local history (and optionally the process-wide
// Registry), logged once at the configured level, and then either suppressed
// or re-panicked with the original value.
//
// Panic values outside the guard's matcher set always propagate untouched and
// leave no trace.
package guard
