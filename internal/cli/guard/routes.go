package guard

import (
	"net/url"
	"strings"
)

// RouteAnnotation is the cobra annotation key holding a command's route pattern
const RouteAnnotation = "lexicon/route"

// Route is a location pattern and the guard protecting it
type Route struct {
	Pattern string
	Policy  Policy
}

// Routes lists every location of the client
var Routes = []Route{
	{Pattern: HomePath, Policy: Protected},
	{Pattern: LoginPath, Policy: GuestOnly},
	{Pattern: "/logout", Policy: Public},
	{Pattern: "/user", Policy: Protected},
	{Pattern: "/book/{id}", Policy: Protected},
	{Pattern: "/daily-plan/{bookName}/word", Policy: Protected},
	{Pattern: "/config", Policy: Public},
}

// Resolve returns the route a concrete path belongs to. Paths that match
// no route are public.
func Resolve(path string) Route {
	for _, r := range Routes {
		if _, ok := Match(r.Pattern, path); ok {
			return r
		}
	}
	return Route{Pattern: path, Policy: Public}
}

// Fill substitutes {placeholders} in order, path-escaping each value.
// Placeholders without a value are kept.
func Fill(pattern string, values ...string) string {
	segments := strings.Split(pattern, "/")
	next := 0
	for i, seg := range segments {
		if !strings.HasPrefix(seg, "{") || !strings.HasSuffix(seg, "}") {
			continue
		}
		if next >= len(values) {
			break
		}
		segments[i] = url.PathEscape(values[next])
		next++
	}
	return strings.Join(segments, "/")
}

// Match reports whether path matches pattern, returning placeholder values
func Match(pattern, path string) (map[string]string, bool) {
	want := strings.Split(pattern, "/")
	got := strings.Split(path, "/")
	if len(want) != len(got) {
		return nil, false
	}

	params := make(map[string]string)
	for i := range want {
		if strings.HasPrefix(want[i], "{") && strings.HasSuffix(want[i], "}") {
			if got[i] == "" {
				return nil, false
			}
			params[strings.Trim(want[i], "{}")] = got[i]
			continue
		}
		if want[i] != got[i] {
			return nil, false
		}
	}
	return params, true
}

// History is the navigation trail of one run
type History struct {
	entries []string
}

// Push appends a location
func (h *History) Push(path string) {
	h.entries = append(h.entries, path)
}

// Replace swaps the current location
func (h *History) Replace(path string) {
	if len(h.entries) == 0 {
		h.Push(path)
		return
	}
	h.entries[len(h.entries)-1] = path
}

// Follow applies a redirect
func (h *History) Follow(r *Redirect) {
	if r.Replace {
		h.Replace(r.To)
		return
	}
	h.Push(r.To)
}

// Current returns the current location, or "" before any navigation
func (h *History) Current() string {
	if len(h.entries) == 0 {
		return ""
	}
	return h.entries[len(h.entries)-1]
}

// Entries returns a copy of the trail
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}
