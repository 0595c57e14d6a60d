package cache

import (
	"net/url"
	"sort"
	"strings"
)

// Key identifies one cached query: the resource family plus its parameters.
// Every key of a resource shares the "resource:" prefix, which is what
// Invalidate drops.
type Key struct {
	Resource string
	Params   string
}

// NewKey joins parts with "/" (e.g. NewKey("ingredients", "id", "42")).
func NewKey(resource string, parts ...string) Key {
	return Key{Resource: resource, Params: strings.Join(parts, "/")}
}

// KeyFromQuery builds a key from list filters. Values are sorted so the same
// filters in a different order hit the same entry.
func KeyFromQuery(resource string, q url.Values) Key {
	if len(q) == 0 {
		return Key{Resource: resource, Params: "list"}
	}
	names := make([]string, 0, len(q))
	for k := range q {
		names = append(names, k)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("list?")
	for i, k := range names {
		vals := append([]string(nil), q[k]...)
		sort.Strings(vals)
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		for j, v := range vals {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(url.QueryEscape(v))
		}
	}
	return Key{Resource: resource, Params: b.String()}
}

func (k Key) String() string { return k.Resource + ":" + k.Params }

func prefixOf(resource string) string { return resource + ":" }
