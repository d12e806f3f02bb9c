package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
)

// EnvPrefix namespaces overrides so the service can share an environment with others.
// HEADTA_JWT_SECRET wins over JWT_SECRET.
const EnvPrefix = "HEADTA_"

// lookupEnv resolves an env tag. A <NAME>_FILE variable points at a file holding the
// value, which is how container secrets are mounted for the JWT secret and passwords.
func lookupEnv(name string) (string, bool, error) {
	for _, key := range []string{EnvPrefix + name, name} {
		if value, ok := os.LookupEnv(key); ok {
			return value, true, nil
		}
	}

	for _, key := range []string{EnvPrefix + name + "_FILE", name + "_FILE"} {
		path, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return "", false, fmt.Errorf("reading %s: %w", key, err)
		}
		return strings.TrimSpace(string(content)), true, nil
	}

	return "", false, nil
}

// applyEnvOverrides walks the config sections and replaces every field whose env tag
// is set in the environment
func applyEnvOverrides(section reflect.Value) error {
	if section.Kind() == reflect.Ptr {
		section = section.Elem()
	}
	if section.Kind() != reflect.Struct {
		return nil
	}

	typ := section.Type()
	for i := 0; i < section.NumField(); i++ {
		field := section.Field(i)
		meta := typ.Field(i)

		if field.Kind() == reflect.Struct {
			if err := applyEnvOverrides(field); err != nil {
				return err
			}
			continue
		}

		name := meta.Tag.Get("env")
		if name == "" {
			continue
		}

		value, ok, err := lookupEnv(name)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		if err := setField(field, value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	return nil
}

func setField(field reflect.Value, value string) error {
	if !field.CanSet() {
		return fmt.Errorf("field cannot be set")
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(strings.TrimSpace(value))
	case reflect.Int:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		field.SetInt(int64(n))
	case reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid boolean %q", value)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported field type %s", field.Kind())
	}

	return nil
}
