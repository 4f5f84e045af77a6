package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/golobby/cast"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

var durationType = reflect.TypeOf(time.Duration(0))

// ApplyEnv overrides fields tagged `env:"NAME"` from EnvPrefix_NAME variables.
// Unset and empty variables leave the field alone.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	return feedStruct(reflect.ValueOf(cfg).Elem(), lookup)
}

func feedStruct(rv reflect.Value, lookup LookupFunc) error {
	rt := rv.Type()
	for i := 0; i < rv.NumField(); i++ {
		field, meta := rv.Field(i), rt.Field(i)
		if field.Kind() == reflect.Struct && field.Type() != durationType {
			if err := feedStruct(field, lookup); err != nil {
				return err
			}
			continue
		}
		tag, ok := meta.Tag.Lookup("env")
		if !ok {
			continue
		}
		name := EnvPrefix + "_" + strings.ToUpper(tag)
		raw, ok := lookup(name)
		if !ok || raw == "" {
			continue
		}
		if err := setField(field, raw); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func setField(field reflect.Value, raw string) error {
	if field.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}
	v, err := cast.FromType(raw, field.Type())
	if err != nil {
		return fmt.Errorf("cannot convert %q to %v: %w", raw, field.Type(), err)
	}
	field.Set(reflect.ValueOf(v).Convert(field.Type()))
	return nil
}
