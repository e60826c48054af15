package note

import (
	"errors"
	"fmt"
)

// ErrFieldNotFound is returned by Set when the record has no field with the
// given name.
var ErrFieldNotFound = errors.New("field not found")

// Record is a mutable set of named text fields.
type Record interface {
	// Get returns the value of field and whether the field exists.
	Get(field string) (string, bool)
	// Set replaces the value of an existing field.
	Set(field, value string) error
}

// Fields is an in-memory Record that keeps its field order.
type Fields struct {
	names  []string
	values map[string]string
}

// NewFields creates a record with the given fields, all empty. Duplicate
// names are kept once.
func NewFields(names ...string) *Fields {
	f := &Fields{values: make(map[string]string, len(names))}
	for _, name := range names {
		if _, ok := f.values[name]; ok {
			continue
		}
		f.names = append(f.names, name)
		f.values[name] = ""
	}
	return f
}

// NewFieldsFromConfig creates an empty record holding every configured
// field, in role order.
func NewFieldsFromConfig(cfg FieldConfig) *Fields {
	names := make([]string, 0, len(Roles()))
	for _, role := range Roles() {
		names = append(names, cfg.Name(role))
	}
	return NewFields(names...)
}

func (f *Fields) Get(field string) (string, bool) {
	v, ok := f.values[field]
	return v, ok
}

func (f *Fields) Set(field, value string) error {
	if _, ok := f.values[field]; !ok {
		return fmt.Errorf("%w: %q", ErrFieldNotFound, field)
	}
	f.values[field] = value
	return nil
}

// Names returns the field names in order.
func (f *Fields) Names() []string {
	return append([]string(nil), f.names...)
}

// Values returns the field values in name order.
func (f *Fields) Values() []string {
	values := make([]string, len(f.names))
	for i, name := range f.names {
		values[i] = f.values[name]
	}
	return values
}
