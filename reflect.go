package serial

import (
	"reflect"
	"sort"
	"strings"
)

// category is the closed vocabulary of the dispatch protocol. A value's
// category is resolved from its declared Go type; it is never written to
// the wire.
type category int

const (
	catScalar category = iota
	catText
	catPair
	catSequence
	catSet
	catMap
	catRecord
)

var (
	pairMarkerType = reflect.TypeOf((*interface{ pairMarker() })(nil)).Elem()
	setMarkerType  = reflect.TypeOf((*interface{ setMarker() })(nil)).Elem()
)

// categorize maps a Go type onto the value model. Pair and Set are
// recognized by their marker methods, so the check is a capability of the
// declared type rather than a name match.
func categorize(t reflect.Type) (category, error) {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return catScalar, nil
	case reflect.String:
		return catText, nil
	case reflect.Slice:
		return catSequence, nil
	case reflect.Map:
		if t.Implements(setMarkerType) {
			return catSet, nil
		}
		return catMap, nil
	case reflect.Struct:
		if t.Implements(pairMarkerType) {
			return catPair, nil
		}
		return catRecord, nil
	}
	return 0, errUnsupportedf("type %s is outside the value model", t)
}

// recordFields returns t's exported fields in declaration order. The
// declaration order is the record's wire order; unexported fields are not
// part of the record.
func recordFields(t reflect.Type) []reflect.StructField {
	fields := make([]reflect.StructField, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		fields = append(fields, f)
	}
	return fields
}

// sortedKeys returns v's map keys in ascending natural order. Both codecs
// share this rule, so Set and Map encodings are deterministic.
func sortedKeys(v reflect.Value) []reflect.Value {
	keys := v.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return compareValues(keys[i], keys[j]) < 0
	})
	return keys
}

// compareValues orders two values of the same type: scalars numerically,
// strings lexicographically, structs (pairs and records) field-wise. Go
// map keys are always comparable, so anything reachable here bottoms out
// at a scalar or string.
func compareValues(a, b reflect.Value) int {
	switch a.Kind() {
	case reflect.Bool:
		av, bv := a.Bool(), b.Bool()
		switch {
		case av == bv:
			return 0
		case bv:
			return -1
		}
		return 1
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		av, bv := a.Int(), b.Int()
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		av, bv := a.Uint(), b.Uint()
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case reflect.Float32, reflect.Float64:
		av, bv := a.Float(), b.Float()
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case reflect.String:
		return strings.Compare(a.String(), b.String())
	case reflect.Struct:
		for i := 0; i < a.NumField(); i++ {
			if c := compareValues(a.Field(i), b.Field(i)); c != 0 {
				return c
			}
		}
		return 0
	}
	return 0
}

// sourceValue validates a value handed to an encoder.
func sourceValue(data any) (reflect.Value, error) {
	v := reflect.ValueOf(data)
	if !v.IsValid() {
		return reflect.Value{}, errUnsupportedf("cannot serialize untyped nil")
	}
	return v, nil
}

// targetValue validates a destination handed to a decoder and returns the
// settable value it points to.
func targetValue(data any) (reflect.Value, error) {
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return reflect.Value{}, errUnsupportedf("decode target must be a non-nil pointer, got %T", data)
	}
	return v.Elem(), nil
}
