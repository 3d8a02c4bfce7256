package place

import (
	"slices"
	"strconv"
)

// Strategy names accepted by [ParseStrategy].
const (
	StrategyPack       = "pack"
	StrategyDistribute = "distribute"
	StrategyForce      = "force"
)

// Strategies lists the supported strategy names.
var Strategies = []string{StrategyPack, StrategyDistribute, StrategyForce}

// ValidStrategy reports whether name is a supported strategy.
func ValidStrategy(name string) bool {
	return slices.Contains(Strategies, name)
}

// setter applies one option value and reports whether the value had a usable type.
type setter func(v any) bool

// merge applies every allow-listed key in opts and returns the keys that
// were ignored, sorted. A recognized key with an unusable value is ignored too.
func merge(opts map[string]any, allowed map[string]setter) []string {
	var ignored []string
	for k, v := range opts {
		set, ok := allowed[k]
		if !ok || !set(v) {
			ignored = append(ignored, k)
		}
	}
	slices.Sort(ignored)
	return ignored
}

func floatSetter(dst *float64) setter {
	return func(v any) bool {
		f, ok := toFloat(v)
		if ok {
			*dst = f
		}
		return ok
	}
}

func intSetter(dst *int) setter {
	return func(v any) bool {
		f, ok := toFloat(v)
		if ok {
			*dst = int(f)
		}
		return ok
	}
}

func uintSetter(dst *uint64) setter {
	return func(v any) bool {
		f, ok := toFloat(v)
		if ok && f >= 0 {
			*dst = uint64(f)
			return true
		}
		return false
	}
}

func boolSetter(dst *bool) setter {
	return func(v any) bool {
		switch b := v.(type) {
		case bool:
			*dst = b
			return true
		case string:
			parsed, err := strconv.ParseBool(b)
			if err != nil {
				return false
			}
			*dst = parsed
			return true
		}
		return false
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}
