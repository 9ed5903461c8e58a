package database

import (
	"fmt"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/google/uuid"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.9999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Decode maps query rows onto out, a pointer to a slice or struct. Keys are
// matched to field names case-insensitively and scalar types are converted
// the way the drivers return them: uuids as strings or byte arrays, times as
// strings, booleans as integers.
func Decode(input any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			uuidHook,
			timeHook,
		),
		WeaklyTypedInput: true,
		Squash:           true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("create decoder: %w", err)
	}
	return dec.Decode(input)
}

var (
	uuidType = reflect.TypeOf(uuid.UUID{})
	timeType = reflect.TypeOf(time.Time{})
)

func uuidHook(from, to reflect.Type, data any) (any, error) {
	if to != uuidType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return uuid.Parse(v)
	case []byte:
		if len(v) == 16 {
			return uuid.FromBytes(v)
		}
		return uuid.ParseBytes(v)
	case [16]byte:
		return uuid.UUID(v), nil
	}
	return data, nil
}

func timeHook(from, to reflect.Type, data any) (any, error) {
	if to != timeType {
		return data, nil
	}
	var s string
	switch v := data.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return data, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized time %q", s)
}
