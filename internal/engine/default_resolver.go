package engine

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/vektah/gqlparser/v2/ast"
)

// defaultResolve reads a field from parent without an explicit resolver.
// It looks at, in order: map keys, methods named after the field in
// CamelCase, and struct fields matched by json tag or CamelCase name.
// Methods may take no arguments or a single bool argument, which receives
// the field's first argument; they return a value and optionally an error.
func defaultResolve(parent any, fieldDef *ast.FieldDefinition, args map[string]any) (any, error) {
	value := reflect.ValueOf(parent)
	if !value.IsValid() {
		return nil, nil
	}

	if value.Kind() == reflect.Map && value.Type().Key().Kind() == reflect.String {
		v := value.MapIndex(reflect.ValueOf(fieldDef.Name).Convert(value.Type().Key()))
		if !v.IsValid() {
			return nil, nil
		}
		return v.Interface(), nil
	}

	name := camelCase(fieldDef.Name)

	if method := value.MethodByName(name); method.IsValid() {
		return callMethod(method, fieldDef, args)
	}

	for value.Kind() == reflect.Ptr || value.Kind() == reflect.Interface {
		if value.IsNil() {
			return nil, nil
		}
		value = value.Elem()
	}

	if value.Kind() == reflect.Struct {
		if field, ok := structField(value, fieldDef.Name, name); ok {
			return field.Interface(), nil
		}
	}

	return nil, fmt.Errorf("default resolver cannot resolve %q on %T", fieldDef.Name, parent)
}

func structField(value reflect.Value, fieldName, camelName string) (reflect.Value, bool) {
	t := value.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := strings.Split(f.Tag.Get("json"), ",")[0]
		if tag == fieldName {
			return value.Field(i), true
		}
	}

	if f := value.FieldByName(camelName); f.IsValid() {
		return f, true
	}
	return reflect.Value{}, false
}

func callMethod(method reflect.Value, fieldDef *ast.FieldDefinition, args map[string]any) (any, error) {
	mt := method.Type()

	var in []reflect.Value
	switch {
	case mt.NumIn() == 0:
	case mt.NumIn() == 1 && mt.In(0).Kind() == reflect.Bool && len(fieldDef.Arguments) > 0:
		b, _ := args[fieldDef.Arguments[0].Name].(bool)
		in = []reflect.Value{reflect.ValueOf(b).Convert(mt.In(0))}
	default:
		return nil, fmt.Errorf("default resolver cannot call %s for field %q", mt, fieldDef.Name)
	}

	out := method.Call(in)
	switch len(out) {
	case 1:
		return out[0].Interface(), nil
	case 2:
		if err, ok := out[1].Interface().(error); ok && err != nil {
			return nil, err
		}
		return out[0].Interface(), nil
	}
	return nil, fmt.Errorf("default resolver cannot use %s for field %q", mt, fieldDef.Name)
}

func camelCase(name string) string {
	if name == "" {
		return name
	}
	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
