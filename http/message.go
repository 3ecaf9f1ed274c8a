// Package http implements the request-dispatch engine: incremental message
// parsing, longest-prefix resource routing, bounded redirect resolution, an
// authentication/rate-limit gate, and the default error responders. It sits
// on top of package tcp for the transport primitives.
package http

import "strings"

// Header is a single key/value pair, case preserved as received.
type Header struct {
	Key   string
	Value string
}

// Headers is an ordered, repeatable header list. HTTP headers are
// case-insensitive by spec but emission order and original casing are
// preserved, matching the data model's "case-insensitive keys, ordered for
// emission".
type Headers []Header

// Get returns the first value for key (case-insensitive), or "" if absent.
func (h Headers) Get(key string) string {
	for _, hdr := range h {
		if strings.EqualFold(hdr.Key, key) {
			return hdr.Value
		}
	}
	return ""
}

// Values returns every value for key (case-insensitive), in order.
func (h Headers) Values(key string) []string {
	var vals []string
	for _, hdr := range h {
		if strings.EqualFold(hdr.Key, key) {
			vals = append(vals, hdr.Value)
		}
	}
	return vals
}

// Set replaces the first header matching key (case-insensitive) and drops
// any further duplicates, or appends if key was not present.
func (h *Headers) Set(key, value string) {
	for i, hdr := range *h {
		if strings.EqualFold(hdr.Key, key) {
			(*h)[i].Value = value
			j := i + 1
			for j < len(*h) {
				if strings.EqualFold((*h)[j].Key, key) {
					*h = append((*h)[:j], (*h)[j+1:]...)
				} else {
					j++
				}
			}
			return
		}
	}
	*h = append(*h, Header{Key: key, Value: value})
}

// Add appends a header without replacing any existing ones with the same
// key, used for genuinely repeatable headers (e.g. Set-Cookie).
func (h *Headers) Add(key, value string) {
	*h = append(*h, Header{Key: key, Value: value})
}

// Del removes every header matching key (case-insensitive).
func (h *Headers) Del(key string) {
	j := 0
	for _, hdr := range *h {
		if !strings.EqualFold(hdr.Key, key) {
			(*h)[j] = hdr
			j++
		}
	}
	*h = (*h)[:j]
}

// ContentLength parses the Content-Length header, returning -1 if it is
// absent or malformed.
func (h Headers) ContentLength() int64 {
	v := strings.TrimSpace(h.Get("Content-Length"))
	if v == "" {
		return -1
	}
	n, err := parseNonNegativeInt(v)
	if err != nil {
		return -1
	}
	return n
}

// IsChunked reports whether Transfer-Encoding names "chunked".
func (h Headers) IsChunked() bool {
	v := strings.ToLower(h.Get("Transfer-Encoding"))
	return strings.Contains(v, "chunked")
}

// WantsClose reports whether the Connection header explicitly asks for the
// transport to be closed after this message.
func (h Headers) WantsClose() bool {
	return strings.Contains(strings.ToLower(h.Get("Connection")), "close")
}

// WantsKeepAlive reports whether the Connection header explicitly asks for
// the transport to be kept open.
func (h Headers) WantsKeepAlive() bool {
	return strings.Contains(strings.ToLower(h.Get("Connection")), "keep-alive")
}

// Message is a request or a response. The same type serves both directions,
// matching the data model: the fields status code/message are only
// meaningful on responses, and method/resource only on requests.
//
// Invariant: OriginalResource is set once, at parse completion, and never
// changes afterwards. Resource may be rewritten by redirect resolution.
type Message struct {
	Method           string
	Resource         string
	OriginalResource string
	Version          string

	Headers Headers
	Body    []byte

	StatusCode    int
	StatusMessage string

	Valid bool
}

// ChangeResource rewrites the current resource, e.g. during redirect
// resolution, leaving OriginalResource untouched.
func (m *Message) ChangeResource(resource string) {
	m.Resource = resource
}

// StripTrailingSlash normalizes a resource the way the Registry and
// Redirect Table store their keys: a single trailing '/' removed, the
// empty string and "/" both collapsing to "".
func StripTrailingSlash(resource string) string {
	if len(resource) > 0 && resource[len(resource)-1] == '/' {
		return resource[:len(resource)-1]
	}
	return resource
}

func parseNonNegativeInt(s string) (int64, error) {
	var n int64
	if s == "" {
		return 0, errEmptyInt
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, errEmptyInt
		}
		n = n*10 + int64(c-'0')
	}
	return n, nil
}
