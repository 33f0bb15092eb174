package router

import (
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"time"

	"github.com/stakepoint-labs/backend/pkg/reflectutil"
)

// bindQuery fills a request struct from url query parameters. Parameter names
// are the snake_case form of the field names.
func bindQuery(r *http.Request, req any) error {
	values := r.URL.Query()
	val := reflect.ValueOf(req).Elem()

	for i := 0; i < val.NumField(); i++ {
		name := reflectutil.ToSnakeCase(val.Type().Field(i).Name)
		if !values.Has(name) {
			continue
		}

		raw := values.Get(name)
		field := val.Field(i)

		if field.Type() == reflect.TypeOf(time.Time{}) {
			t, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return fmt.Errorf("invalid time parameter %s: %w", name, err)
			}

			field.Set(reflect.ValueOf(t))
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(raw)

		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer parameter %s: %w", name, err)
			}
			field.SetInt(n)

		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			n, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid unsigned parameter %s: %w", name, err)
			}
			field.SetUint(n)

		case reflect.Float32, reflect.Float64:
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return fmt.Errorf("invalid float parameter %s: %w", name, err)
			}
			field.SetFloat(f)

		case reflect.Bool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return fmt.Errorf("invalid boolean parameter %s: %w", name, err)
			}
			field.SetBool(b)

		default:
			return fmt.Errorf("unsupported parameter type %s", field.Kind())
		}
	}

	return nil
}
