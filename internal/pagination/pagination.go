// Package pagination implements page-number pagination with absolute next/previous links.
package pagination

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// PageSize is the fixed number of items per page.
const PageSize = 10

// ErrInvalidPage is returned for a malformed or out-of-range page number.
var ErrInvalidPage = errors.New("invalid page")

// Page is one page of results. Next and Previous are filled by Link.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`

	Number int `json:"-"`
	Size   int `json:"-"`
}

// ParsePage reads a 1-based page number. Empty means the first page and "last" yields -1.
func ParsePage(raw string) (int, error) {
	switch raw = strings.TrimSpace(raw); raw {
	case "":
		return 1, nil
	case "last":
		return -1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, ErrInvalidPage
	}
	return n, nil
}

// LastPage returns the number of the last page; an empty set still has page 1.
func LastPage(count int64, size int) int {
	if count <= 0 {
		return 1
	}
	return int((count + int64(size) - 1) / int64(size))
}

// Resolve validates page against count and returns the page number and row offset.
// A page of -1 selects the last page.
func Resolve(page int, count int64, size int) (number, offset int, err error) {
	last := LastPage(count, size)
	if page == -1 {
		page = last
	}
	if page < 1 || page > last {
		return 0, 0, ErrInvalidPage
	}
	return page, (page - 1) * size, nil
}

// Link fills Next and Previous relative to the request URL. The link to the first page omits
// the page parameter; all other query parameters are kept.
func (p *Page[T]) Link(base *url.URL) {
	p.Next, p.Previous = nil, nil
	last := LastPage(p.Count, p.Size)
	if p.Number < last {
		next := withPage(base, p.Number+1)
		p.Next = &next
	}
	if p.Number > 1 {
		prev := withPage(base, p.Number-1)
		p.Previous = &prev
	}
}

func withPage(base *url.URL, page int) string {
	u := *base
	q := u.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// RequestURL rebuilds the absolute URL of r, honouring X-Forwarded-Proto and X-Forwarded-Host.
func RequestURL(r *http.Request) *url.URL {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p != "" {
		scheme = strings.TrimSpace(strings.Split(p, ",")[0])
	}
	host := r.Host
	if h := r.Header.Get("X-Forwarded-Host"); h != "" {
		host = strings.TrimSpace(strings.Split(h, ",")[0])
	}
	return &url.URL{Scheme: scheme, Host: host, Path: r.URL.Path, RawQuery: r.URL.RawQuery}
}
