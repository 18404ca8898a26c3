package request

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/spf13/cast"
)

// EncodeQuery converts a struct to URL encoded query string.
// An error is wrapped to the *BodyError.
//
// Field name is read from `query` tag or from "json" tag as fallback.
// Field with tag name "-" is ignored.
// Nil pointers and empty slices are skipped, other values are skipped only with the "omitempty" option.
// Slices are encoded as a comma separated list.
func EncodeQuery(in any) (string, error) {
	values, err := StructToValues(in)
	if err != nil {
		return "", &BodyError{Err: err}
	}
	return values.Encode(), nil
}

// StructToValues converts a struct to URL values, see EncodeQuery.
func StructToValues(in any) (out url.Values, err error) {
	out = make(url.Values)
	if err := structToValues(reflect.ValueOf(in), out); err != nil {
		return nil, err
	}
	return out, nil
}

func structToValues(in reflect.Value, out url.Values) error {
	// Initialize
	for in.Kind() == reflect.Ptr || in.Kind() == reflect.Interface {
		if in.IsNil() {
			return nil
		}
		in = in.Elem()
	}
	if in.Kind() != reflect.Struct {
		return fmt.Errorf(`expected struct, found %s`, in.Kind())
	}
	t := in.Type()

	// Iterate over fields
	for i := range t.NumField() {
		field := t.Field(i)
		fieldValue := in.Field(i)

		// Process embedded type
		if field.Anonymous {
			if err := structToValues(fieldValue, out); err != nil {
				return err
			}
			continue
		}

		// Skip unexported fields
		if !field.IsExported() {
			continue
		}

		// Get field name and options
		tag := field.Tag.Get("query")
		if tag == "" {
			tag = field.Tag.Get("json")
		}
		parts := strings.Split(tag, ",")
		fieldName := parts[0]
		omitEmpty := false
		for _, opt := range parts[1:] {
			if opt == "omitempty" {
				omitEmpty = true
			}
		}
		if fieldName == "" {
			return fmt.Errorf(`field "%s" of %s has no query name`, field.Name, t.String())
		}

		// Skip ignored fields
		if fieldName == "-" {
			continue
		}

		// Skip empty values
		if isNilValue(fieldValue) || (omitEmpty && fieldValue.IsZero()) {
			continue
		}
		if fieldValue.Kind() == reflect.Slice && fieldValue.Len() == 0 {
			continue
		}

		// Ok, add to values
		str, err := valueToString(fieldValue)
		if err != nil {
			return fmt.Errorf(`field "%s" of %s: %w`, field.Name, t.String(), err)
		}
		out.Set(fieldName, str)
	}
	return nil
}

func isNilValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}

func valueToString(v reflect.Value) (string, error) {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		v = v.Elem()
	}

	// Value implements fmt.Stringer or it is a named string type
	if s, ok := v.Interface().(fmt.Stringer); ok {
		return s.String(), nil
	}
	if v.Kind() == reflect.String {
		return v.String(), nil
	}

	// Comma separated list
	if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		items := make([]string, 0, v.Len())
		for i := range v.Len() {
			item, err := valueToString(v.Index(i))
			if err != nil {
				return "", err
			}
			items = append(items, item)
		}
		return strings.Join(items, ","), nil
	}

	// Other types
	return cast.ToStringE(v.Interface())
}
