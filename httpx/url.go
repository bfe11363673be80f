package httpx

import "strings"

// URL is a request target split at the first "?". Path is kept as sent.
type URL struct {
	Path     string
	RawQuery string // text after the "?", as sent
	Query    *Query // nil when the target has no "?"
}

func ParseURL(target string) URL {
	path, raw, ok := strings.Cut(target, "?")
	u := URL{Path: path}
	if ok {
		u.RawQuery = raw
		u.Query = ParseQuery(raw)
	}
	return u
}

// String rebuilds the request target. RawQuery wins over Query so a
// parsed target is written back unchanged.
func (u URL) String() string {
	switch {
	case u.RawQuery != "":
		return u.Path + "?" + u.RawQuery
	case u.Query != nil:
		return u.Path + "?" + u.Query.String()
	default:
		return u.Path
	}
}
