package guard

import (
	"errors"
	"reflect"
)

// ErrNotStructPointer is returned by Struct when the target is not a pointer
// to a struct.
var ErrNotStructPointer = errors.New("target must be a non-nil pointer to a struct")

// Struct wraps, in place, every exported func-typed field of the struct that
// ptr points to, preserving the struct's external shape. Unexported fields,
// non-func fields, and nil func fields are left untouched.
//
// Each wrapped field is guarded individually with this guard's configuration;
// its record context is "TypeName.FieldName" unless the guard carries a
// configured message.
func (g *Guard) Struct(ptr any) error {
	v := reflect.ValueOf(ptr)
	if !v.IsValid() || v.Kind() != reflect.Pointer || v.IsNil() {
		return ErrNotStructPointer
	}

	elem := v.Elem()
	if elem.Kind() != reflect.Struct {
		return ErrNotStructPointer
	}

	t := elem.Type()

	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() || field.Type.Kind() != reflect.Func {
			continue
		}

		value := elem.Field(i)
		if value.IsNil() {
			continue
		}

		entity := t.Name() + "." + field.Name
		wrapped := g.fnNamed(value.Interface(), entity)
		value.Set(reflect.ValueOf(wrapped))
	}

	return nil
}
