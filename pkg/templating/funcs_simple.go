package templating

import (
	"reflect"
	"strings"
)

func add(a, b int) int  { return a + b }
func sub(a, b int) int  { return a - b }
func mult(a, b int) int { return a * b }
func inc(i int) int     { return i + 1 }
func dec(i int) int     { return i - 1 }

// div is integer division that yields 0 for a zero divisor.
func div(a, b int) int {
	if b == 0 {
		return 0
	}
	return a / b
}

// mod yields 0 for a zero divisor.
func mod(a, b int) int {
	if b == 0 {
		return 0
	}
	return a % b
}

// orDefault returns val, or def when val is its type's zero value.
func orDefault(def, val any) any {
	v := reflect.ValueOf(val)
	if !v.IsValid() || v.IsZero() {
		return def
	}
	return val
}

// indent prefixes every non-empty line of s with n spaces.
func indent(n int, s string) string {
	if n <= 0 {
		return s
	}
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = pad + l
		}
	}
	return strings.Join(lines, "\n")
}
