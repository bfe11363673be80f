package httpx

import "strings"

// QueryParam holds the value(s) seen for one query key. A key seen once
// is single-valued; a second occurrence promotes it to multi-valued.
type QueryParam struct {
	values []string
}

// Single returns the value when the key was seen exactly once.
func (p QueryParam) Single() (string, bool) {
	if len(p.values) == 1 {
		return p.values[0], true
	}
	return "", false
}

// Multiple returns the values in arrival order when the key repeated.
func (p QueryParam) Multiple() ([]string, bool) {
	if len(p.values) > 1 {
		return p.values, true
	}
	return nil, false
}

// First returns the first value regardless of shape.
func (p QueryParam) First() string {
	if len(p.values) == 0 {
		return ""
	}
	return p.values[0]
}

func (p QueryParam) Values() []string { return p.values }

// Query is a decoded query string. Values are not percent-decoded.
type Query struct {
	raw   string
	items map[string]*QueryParam
	order []string
}

// ParseQuery decodes "k=v&k2=v2". An item without "=" maps to "", and an
// empty item is stored under the key "".
func ParseQuery(s string) *Query {
	q := &Query{raw: s, items: make(map[string]*QueryParam)}
	for _, item := range strings.Split(s, "&") {
		key, value, _ := strings.Cut(item, "=")
		q.add(key, value)
	}
	return q
}

func (q *Query) add(key, value string) {
	if p, ok := q.items[key]; ok {
		p.values = append(p.values, value)
		return
	}
	q.items[key] = &QueryParam{values: []string{value}}
	q.order = append(q.order, key)
}

func (q *Query) Get(key string) (QueryParam, bool) {
	if q == nil {
		return QueryParam{}, false
	}
	p, ok := q.items[key]
	if !ok {
		return QueryParam{}, false
	}
	return *p, true
}

func (q *Query) Len() int {
	if q == nil {
		return 0
	}
	return len(q.order)
}

// Keys returns keys in first-seen order.
func (q *Query) Keys() []string {
	if q == nil {
		return nil
	}
	return append([]string(nil), q.order...)
}

// String returns the query exactly as it was parsed.
func (q *Query) String() string {
	if q == nil {
		return ""
	}
	return q.raw
}
