package dsl

import (
	"context"
	"reflect"

	"github.com/cockroachdb/apd/v3"
	"github.com/go-viper/mapstructure/v2"

	wirebind "github.com/reoring/wirebind"
)

// TagName is the struct tag Decode reads internal keys from.
const TagName = "bind"

var decimalType = reflect.TypeOf((*apd.Decimal)(nil))

// Decode binds v with r and decodes the internal mapping into T. Struct
// fields are matched by their `bind` tag (or case-insensitive name). Decimal
// values decode into float64, string and integer fields.
func Decode[T any](ctx context.Context, r wirebind.Binder[map[string]any], v any) (T, error) {
	var out T
	rec, err := r.Bind(ctx, v)
	if err != nil {
		return out, err
	}
	if err := DecodeInto(rec, &out); err != nil {
		return out, err
	}
	return out, nil
}

// DecodeInto decodes an internal mapping into the struct pointed to by dst.
func DecodeInto(rec map[string]any, dst any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    TagName,
		Result:     dst,
		DecodeHook: decimalHook,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(rec); err != nil {
		return wirebind.Issues{{Path: "/", Code: wirebind.CodeInvalidType, Message: err.Error(), Cause: err}}
	}
	return nil
}

func decimalHook(from, to reflect.Type, data any) (any, error) {
	if from != decimalType || to == decimalType {
		return data, nil
	}
	d, ok := data.(*apd.Decimal)
	if !ok || d == nil {
		return data, nil
	}
	switch to.Kind() {
	case reflect.Float32, reflect.Float64:
		return d.Float64()
	case reflect.String:
		return d.Text('f'), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return d.Int64()
	}
	return data, nil
}
