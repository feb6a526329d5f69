package templating

import (
	"reflect"
)

// repeat returns a slice of integers from 0 to count-1, capped at MaxRepeat.
func (tm *TemplateManager) repeat(count int) []int {
	if count < 0 {
		return []int{}
	}
	count = min(count, tm.config.MaxRepeat)
	s := make([]int, count)
	for i := range count {
		s[i] = i
	}
	return s
}

// list returns a slice containing all the arguments passed to it.
func list(args ...any) []any {
	return args
}

// randomChoice selects and returns a single random element from a slice.
func (tm *TemplateManager) randomChoice(slice any) any {
	if slice == nil {
		return nil
	}

	val := reflect.ValueOf(slice)
	if val.Kind() != reflect.Slice {
		tm.logger.Debug("randomChoice called with a non-slice", "kind", val.Kind().String())
		return nil
	}
	if val.Len() == 0 {
		return nil
	}
	return val.Index(tm.rng.IntN(val.Len())).Interface()
}

// randomInt returns a random integer within the range [lo, hi).
func (tm *TemplateManager) randomInt(lo, hi int) int {
	if lo >= hi {
		return lo
	}
	return tm.rng.IntN(hi-lo) + lo
}
