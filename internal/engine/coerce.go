package engine

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/vektah/gqlparser/v2/ast"
)

// coerceArguments builds the argument map for a field. Arguments that are
// neither given nor defaulted are left out of the map.
func (e *Engine) coerceArguments(defs ast.ArgumentDefinitionList, args ast.ArgumentList, vars map[string]any) (map[string]any, error) {
	result := make(map[string]any, len(defs))

	for _, def := range defs {
		arg := args.ForName(def.Name)

		var value *ast.Value
		if arg != nil {
			value = arg.Value
		}

		v, present, err := e.coerceInputValue(def.Type, value, def.DefaultValue, vars)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", def.Name, err)
		}
		if present {
			result[def.Name] = v
		}
	}

	return result, nil
}

// coerceInputValue coerces an optional literal with a fallback default. The
// boolean reports whether a value (possibly null) was provided at all.
func (e *Engine) coerceInputValue(typ *ast.Type, value, defaultValue *ast.Value, vars map[string]any) (any, bool, error) {
	if value != nil && value.Kind == ast.Variable {
		raw, ok := vars[value.Raw]
		if ok {
			v, err := e.coerceVariable(typ, raw)
			return v, true, err
		}
		value = nil
	}

	if value == nil {
		if defaultValue == nil {
			return nil, false, nil
		}
		value = defaultValue
	}

	v, err := e.coerceLiteral(typ, value, vars)
	return v, true, err
}

// coerceLiteral converts an inline AST value into its internal form.
func (e *Engine) coerceLiteral(typ *ast.Type, value *ast.Value, vars map[string]any) (any, error) {
	if value == nil {
		return nil, nil
	}

	switch value.Kind {
	case ast.Variable:
		raw, ok := vars[value.Raw]
		if !ok {
			return nil, nil
		}
		return e.coerceVariable(typ, raw)
	case ast.NullValue:
		return nil, nil
	}

	if typ.Elem != nil {
		if value.Kind != ast.ListValue {
			item, err := e.coerceLiteral(typ.Elem, value, vars)
			if err != nil {
				return nil, err
			}
			return []any{item}, nil
		}
		items := make([]any, 0, len(value.Children))
		for i, child := range value.Children {
			item, err := e.coerceLiteral(typ.Elem, child.Value, vars)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			items = append(items, item)
		}
		return items, nil
	}

	def, ok := e.schema.Types[typ.Name()]
	if !ok {
		return nil, fmt.Errorf("unknown type %s", typ.Name())
	}

	switch def.Kind {
	case ast.InputObject:
		if value.Kind != ast.ObjectValue {
			return nil, fmt.Errorf("expected %s object", def.Name)
		}
		obj := make(map[string]any, len(def.Fields))
		for _, field := range def.Fields {
			v, present, err := e.coerceInputValue(field.Type, value.Children.ForName(field.Name), field.DefaultValue, vars)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", def.Name, field.Name, err)
			}
			if present {
				obj[field.Name] = v
			}
		}
		return obj, nil

	case ast.Enum:
		return value.Raw, nil

	case ast.Scalar:
		if codec, ok := e.scalars[def.Name]; ok {
			return codec.ParseLiteral(literalOf(value)), nil
		}
		return builtinLiteral(def.Name, value)
	}

	return nil, fmt.Errorf("%s is not an input type", def.Name)
}

func builtinLiteral(name string, value *ast.Value) (any, error) {
	switch name {
	case "Int":
		i, err := strconv.Atoi(value.Raw)
		if err != nil {
			return nil, fmt.Errorf("Int cannot represent %q", value.Raw)
		}
		return i, nil
	case "Float":
		f, err := strconv.ParseFloat(value.Raw, 64)
		if err != nil {
			return nil, fmt.Errorf("Float cannot represent %q", value.Raw)
		}
		return f, nil
	case "Boolean":
		return value.Raw == "true", nil
	default:
		return value.Raw, nil
	}
}

// coerceVariable converts a variable value (already checked against its
// declared type by the validator) into its internal form.
func (e *Engine) coerceVariable(typ *ast.Type, raw any) (any, error) {
	if isNil(raw) {
		return nil, nil
	}

	if typ.Elem != nil {
		rv := reflect.ValueOf(raw)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			item, err := e.coerceVariable(typ.Elem, raw)
			if err != nil {
				return nil, err
			}
			return []any{item}, nil
		}
		items := make([]any, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			item, err := e.coerceVariable(typ.Elem, rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			items = append(items, item)
		}
		return items, nil
	}

	def, ok := e.schema.Types[typ.Name()]
	if !ok {
		return nil, fmt.Errorf("unknown type %s", typ.Name())
	}

	switch def.Kind {
	case ast.InputObject:
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("expected %s object, got %T", def.Name, raw)
		}
		obj := make(map[string]any, len(def.Fields))
		for _, field := range def.Fields {
			fv, present := m[field.Name]
			if !present {
				if field.DefaultValue != nil {
					v, err := e.coerceLiteral(field.Type, field.DefaultValue, nil)
					if err != nil {
						return nil, err
					}
					obj[field.Name] = v
				}
				continue
			}
			v, err := e.coerceVariable(field.Type, fv)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", def.Name, field.Name, err)
			}
			obj[field.Name] = v
		}
		return obj, nil

	case ast.Enum:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("enum %s expects a string, got %T", def.Name, raw)
		}
		return s, nil

	case ast.Scalar:
		if codec, ok := e.scalars[def.Name]; ok {
			return codec.ParseValue(raw)
		}
		return builtinVariable(def.Name, raw)
	}

	return nil, fmt.Errorf("%s is not an input type", def.Name)
}

func builtinVariable(name string, raw any) (any, error) {
	rv, ok := deref(raw)
	if !ok {
		return nil, nil
	}

	switch name {
	case "Int":
		return toInt(rv)
	case "Float":
		return toFloat(rv)
	case "Boolean":
		if rv.Kind() != reflect.Bool {
			return nil, fmt.Errorf("Boolean cannot represent %v", raw)
		}
		return rv.Bool(), nil
	case "ID":
		if rv.Kind() == reflect.String {
			return rv.String(), nil
		}
		i, err := toInt(rv)
		if err != nil {
			return nil, fmt.Errorf("ID cannot represent %v", raw)
		}
		return strconv.Itoa(i.(int)), nil
	case "String":
		if rv.Kind() != reflect.String {
			return nil, fmt.Errorf("String cannot represent %v", raw)
		}
		return rv.String(), nil
	default:
		return raw, nil
	}
}
