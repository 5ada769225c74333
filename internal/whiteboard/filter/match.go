package filter

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

type node interface {
	match(attrs map[string]any) bool
}

type operator int

const (
	opEqual operator = iota
	opApprox
	opGreaterEqual
	opLessEqual
)

type andNode []node

func (n andNode) match(attrs map[string]any) bool {
	for _, c := range n {
		if !c.match(attrs) {
			return false
		}
	}
	return true
}

type orNode []node

func (n orNode) match(attrs map[string]any) bool {
	for _, c := range n {
		if c.match(attrs) {
			return true
		}
	}
	return false
}

type notNode struct {
	inner node
}

func (n notNode) match(attrs map[string]any) bool {
	return !n.inner.match(attrs)
}

type presentNode struct {
	key string
}

func (n presentNode) match(attrs map[string]any) bool {
	_, ok := lookup(attrs, n.key)
	return ok
}

type compareNode struct {
	key   string
	op    operator
	value string
}

func (n compareNode) match(attrs map[string]any) bool {
	v, ok := lookup(attrs, n.key)
	if !ok {
		return false
	}
	return anyElement(v, func(elem any) bool {
		return compare(n.op, elem, n.value)
	})
}

type substringNode struct {
	key   string
	parts []string
}

func (n substringNode) match(attrs map[string]any) bool {
	v, ok := lookup(attrs, n.key)
	if !ok {
		return false
	}
	return anyElement(v, func(elem any) bool {
		return matchSubstring(fmt.Sprint(elem), n.parts)
	})
}

func lookup(attrs map[string]any, key string) (any, bool) {
	if v, ok := attrs[key]; ok {
		return v, true
	}
	for k, v := range attrs {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

// anyElement applies fn to v, or to each element when v is a slice or array.
func anyElement(v any, fn func(any) bool) bool {
	switch vv := v.(type) {
	case string:
		return fn(vv)
	case []string:
		for _, e := range vv {
			if fn(e) {
				return true
			}
		}
		return false
	case []any:
		for _, e := range vv {
			if fn(e) {
				return true
			}
		}
		return false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		for i := 0; i < rv.Len(); i++ {
			if fn(rv.Index(i).Interface()) {
				return true
			}
		}
		return false
	}
	return fn(v)
}

// compare evaluates attr against the filter value. Both sides compare as
// numbers when both parse as numbers, otherwise as strings.
func compare(op operator, attr any, value string) bool {
	switch a := attr.(type) {
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(a), 64); err == nil {
			if want, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
				return compareNumbers(op, f, want)
			}
		}
		return compareStrings(op, a, value)
	case bool:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return false
		}
		return (op == opEqual || op == opApprox) && a == b
	}
	if f, ok := toFloat(attr); ok {
		want, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return false
		}
		return compareNumbers(op, f, want)
	}
	return compareStrings(op, fmt.Sprint(attr), value)
}

func compareNumbers(op operator, f, want float64) bool {
	switch op {
	case opEqual, opApprox:
		return f == want
	case opGreaterEqual:
		return f >= want
	case opLessEqual:
		return f <= want
	}
	return false
}

func compareStrings(op operator, a, value string) bool {
	switch op {
	case opEqual:
		return a == value
	case opApprox:
		return normalize(a) == normalize(value)
	case opGreaterEqual:
		return a >= value
	case opLessEqual:
		return a <= value
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

func matchSubstring(s string, parts []string) bool {
	first, last := parts[0], parts[len(parts)-1]
	if !strings.HasPrefix(s, first) {
		return false
	}
	s = s[len(first):]
	for _, mid := range parts[1 : len(parts)-1] {
		i := strings.Index(s, mid)
		if i < 0 {
			return false
		}
		s = s[i+len(mid):]
	}
	return strings.HasSuffix(s, last)
}
