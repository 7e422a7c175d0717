package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/vektah/gqlparser/v2/ast"
)

// LiteralKind tags the kind of a scalar literal written inline in a query.
type LiteralKind int

const (
	// LiteralOther covers every literal that is neither an integer nor a string
	// (floats, booleans, enums, lists, objects).
	LiteralOther LiteralKind = iota
	// LiteralInt is an integer literal such as 700000.
	LiteralInt
	// LiteralString is a quoted or block string literal.
	LiteralString
)

// Literal is an inline scalar value as written in the query text.
type Literal struct {
	Kind LiteralKind
	Raw  string
}

func literalOf(v *ast.Value) Literal {
	switch v.Kind {
	case ast.IntValue:
		return Literal{Kind: LiteralInt, Raw: v.Raw}
	case ast.StringValue, ast.BlockValue:
		return Literal{Kind: LiteralString, Raw: v.Raw}
	default:
		return Literal{Kind: LiteralOther, Raw: v.Raw}
	}
}

// ScalarCodec converts a custom scalar between its wire and internal forms.
type ScalarCodec interface {
	// ParseValue converts a value supplied through request variables.
	ParseValue(v any) (any, error)
	// Serialize converts an internal value for the response.
	Serialize(v any) (any, error)
	// ParseLiteral converts an inline literal. A nil result is a null value.
	ParseLiteral(lit Literal) any
}

// deref follows pointers and interfaces down to a concrete value.
func deref(v any) (reflect.Value, bool) {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && (rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}, false
		}
		rv = rv.Elem()
	}
	return rv, rv.IsValid()
}

// isNil reports whether v is nil or a nil pointer, slice, map or interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func (e *Engine) serializeScalar(name string, v any) (any, error) {
	if codec, ok := e.scalars[name]; ok {
		return codec.Serialize(v)
	}

	rv, ok := deref(v)
	if !ok {
		return nil, nil
	}

	switch name {
	case "Int":
		return toInt(rv)
	case "Float":
		return toFloat(rv)
	case "String":
		if rv.Kind() == reflect.String {
			return rv.String(), nil
		}
		if s, ok := rv.Interface().(fmt.Stringer); ok {
			return s.String(), nil
		}
		return nil, fmt.Errorf("String cannot represent value: %v", rv.Interface())
	case "Boolean":
		if rv.Kind() == reflect.Bool {
			return rv.Bool(), nil
		}
		return nil, fmt.Errorf("Boolean cannot represent value: %v", rv.Interface())
	case "ID":
		switch rv.Kind() {
		case reflect.String:
			return rv.String(), nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return strconv.FormatInt(rv.Int(), 10), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return strconv.FormatUint(rv.Uint(), 10), nil
		}
		return nil, fmt.Errorf("ID cannot represent value: %v", rv.Interface())
	default:
		return rv.Interface(), nil
	}
}

func (e *Engine) serializeEnum(def *ast.Definition, v any) (any, error) {
	rv, ok := deref(v)
	if !ok {
		return nil, nil
	}

	var name string
	switch {
	case rv.Kind() == reflect.String:
		name = rv.String()
	default:
		s, ok := rv.Interface().(fmt.Stringer)
		if !ok {
			return nil, fmt.Errorf("enum %s cannot represent value: %v", def.Name, rv.Interface())
		}
		name = s.String()
	}

	if def.EnumValues.ForName(name) == nil {
		return nil, fmt.Errorf("enum %s cannot represent value: %q", def.Name, name)
	}
	return name, nil
}

func toInt(rv reflect.Value) (any, error) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) {
			return nil, fmt.Errorf("Int cannot represent non-integer value: %v", f)
		}
		return int(f), nil
	}
	if n, ok := rv.Interface().(json.Number); ok {
		i, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("Int cannot represent value: %s", n)
		}
		return int(i), nil
	}
	return nil, fmt.Errorf("Int cannot represent value: %v", rv.Interface())
}

func toFloat(rv reflect.Value) (any, error) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	}
	if n, ok := rv.Interface().(json.Number); ok {
		return n.Float64()
	}
	return nil, fmt.Errorf("Float cannot represent value: %v", rv.Interface())
}
