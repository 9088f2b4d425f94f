package sql

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindText
	KindNumber
	KindBool
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a formatter argument. The zero Value is Null, which is also what
// a placeholder without a matching argument receives.
type Value struct {
	kind Kind
	text string
	list []Value
}

// Null returns the null value.
func Null() Value { return Value{} }

// Text returns a text value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Number returns a numeric value from its textual form.
func Number(repr string) Value { return Value{kind: KindNumber, text: repr} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, text: strconv.FormatBool(b)} }

// List returns a sequence value. Elements keep their own kinds.
func List(vs ...Value) Value {
	list := make([]Value, len(vs))
	copy(list, vs)
	return Value{kind: KindList, list: list}
}

// Kind returns the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is Null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Elems returns the elements of a list value, or nil for other kinds.
func (v Value) Elems() []Value { return v.list }

// String returns the plain text form of v: Null is empty, lists join their
// elements' text with commas.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindList:
		parts := make([]string, len(v.list))
		for i, e := range v.list {
			parts[i] = e.String()
		}
		return strings.Join(parts, ",")
	default:
		return v.text
	}
}

// ValueOf converts a Go value into a Value.
//
// Conversion rules:
//   - nil, nil pointers and nil interfaces become Null
//   - driver.Valuer implementations (pgtype, uuid.UUID, ...) are converted
//     through their driver value
//   - strings and byte slices become Text
//   - bools become Bool; integers, floats and json.Number become Number
//   - time.Time becomes Text in RFC 3339 with nanoseconds
//   - fmt.Stringer and error values become Text
//   - other slices and arrays become List
//   - anything else becomes Text via fmt.Sprint
func ValueOf(arg any) Value {
	switch a := arg.(type) {
	case nil:
		return Null()
	case Value:
		return a
	case string:
		return Text(a)
	case []byte:
		if a == nil {
			return Null()
		}
		return Text(string(a))
	case bool:
		return Bool(a)
	case int:
		return Number(strconv.FormatInt(int64(a), 10))
	case int8:
		return Number(strconv.FormatInt(int64(a), 10))
	case int16:
		return Number(strconv.FormatInt(int64(a), 10))
	case int32:
		return Number(strconv.FormatInt(int64(a), 10))
	case int64:
		return Number(strconv.FormatInt(a, 10))
	case uint:
		return Number(strconv.FormatUint(uint64(a), 10))
	case uint8:
		return Number(strconv.FormatUint(uint64(a), 10))
	case uint16:
		return Number(strconv.FormatUint(uint64(a), 10))
	case uint32:
		return Number(strconv.FormatUint(uint64(a), 10))
	case uint64:
		return Number(strconv.FormatUint(a, 10))
	case float32:
		return Number(strconv.FormatFloat(float64(a), 'f', -1, 32))
	case float64:
		return Number(strconv.FormatFloat(a, 'f', -1, 64))
	case json.Number:
		return Number(a.String())
	case time.Time:
		return Text(a.Format(time.RFC3339Nano))
	case []Value:
		return List(a...)
	case []any:
		if a == nil {
			return Null()
		}
		list := make([]Value, len(a))
		for i, e := range a {
			list[i] = ValueOf(e)
		}
		return Value{kind: KindList, list: list}
	case []string:
		if a == nil {
			return Null()
		}
		list := make([]Value, len(a))
		for i, e := range a {
			list[i] = Text(e)
		}
		return Value{kind: KindList, list: list}
	}

	rv := reflect.ValueOf(arg)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return Null()
		}
		// Pointers convert like the value they point to unless only the
		// pointer carries the conversion method.
		if elem := rv.Elem().Interface(); !pointerOnlyConversion(arg, elem) {
			return ValueOf(elem)
		}
	}

	switch a := arg.(type) {
	case driver.Valuer:
		dv, err := a.Value()
		if err != nil {
			return Text(fmt.Sprint(arg))
		}
		return ValueOf(dv)
	case fmt.Stringer:
		return Text(a.String())
	case error:
		return Text(a.Error())
	}

	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return Null()
		}
		return listOf(rv)
	case reflect.Array:
		return listOf(rv)
	case reflect.String:
		return Text(rv.String())
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Number(strconv.FormatUint(rv.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		return Number(strconv.FormatFloat(rv.Float(), 'f', -1, rv.Type().Bits()))
	case reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		if rv.IsNil() {
			return Null()
		}
	}
	return Text(fmt.Sprint(arg))
}

func listOf(rv reflect.Value) Value {
	list := make([]Value, rv.Len())
	for i := range list {
		list[i] = ValueOf(rv.Index(i).Interface())
	}
	return Value{kind: KindList, list: list}
}

// pointerOnlyConversion reports whether ptr implements a conversion
// interface that its dereferenced value elem does not.
func pointerOnlyConversion(ptr, elem any) bool {
	return implementsConversion(ptr) && !implementsConversion(elem)
}

func implementsConversion(v any) bool {
	switch v.(type) {
	case driver.Valuer, fmt.Stringer, error:
		return true
	}
	return false
}
