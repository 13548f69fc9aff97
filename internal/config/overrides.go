package config

import (
	"fmt"
	"math"
	"reflect"

	"github.com/aretw0/viability/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// ApplyOverrides decodes a loosely typed map (e.g. a JSON request body or MCP
// tool arguments) onto a copy of base. Keys use the snake_case field names
// ("rho", "trials", "max_steps", "gamma_min", ...). Numeric strings are
// accepted. Unknown keys are rejected.
func ApplyOverrides(base domain.Config, overrides map[string]any) (domain.Config, error) {
	out := base
	if len(overrides) == 0 {
		return out, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		TagName:          "mapstructure",
		DecodeHook:       mapstructure.DecodeHookFuncType(wholeNumberHook),
	})
	if err != nil {
		return base, fmt.Errorf("creating decoder: %w", err)
	}
	if err := dec.Decode(overrides); err != nil {
		return base, fmt.Errorf("%w: %v", domain.ErrInvalidConfiguration, err)
	}
	return out, nil
}

// ExtractGrid removes the grid selection keys from overrides and returns the
// grid they describe. "grid" lists explicit rho values; "grid_points" asks for
// that many evenly spaced values over [0, 1] and wins when both are present.
// Without either key def is returned.
func ExtractGrid(overrides map[string]any, def domain.Grid) (domain.Grid, error) {
	grid := def
	if raw, ok := overrides["grid"]; ok {
		delete(overrides, "grid")
		var values []float64
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &values,
			WeaklyTypedInput: true,
		})
		if err != nil {
			return nil, fmt.Errorf("creating decoder: %w", err)
		}
		if err := dec.Decode(raw); err != nil {
			return nil, fmt.Errorf("%w: grid must be a list of numbers: %v", domain.ErrInvalidConfiguration, err)
		}
		grid = values
	}
	if raw, ok := overrides["grid_points"]; ok {
		delete(overrides, "grid_points")
		var n int
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &n,
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.DecodeHookFuncType(wholeNumberHook),
		})
		if err != nil {
			return nil, fmt.Errorf("creating decoder: %w", err)
		}
		if err := dec.Decode(raw); err != nil || n < 1 {
			return nil, fmt.Errorf("%w: grid_points must be a positive integer", domain.ErrInvalidConfiguration)
		}
		grid = domain.Linspace(0, 1, n)
	}
	return grid, nil
}

// wholeNumberHook rejects floats with a fractional part when the target is an
// integer. JSON numbers arrive as float64 and mapstructure would truncate them.
func wholeNumberHook(from, to reflect.Type, data any) (any, error) {
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return data, nil
	}
	var f float64
	switch from.Kind() {
	case reflect.Float32, reflect.Float64:
		f = reflect.ValueOf(data).Float()
	default:
		return data, nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, fmt.Errorf("%v is not a whole number", data)
	}
	return data, nil
}
