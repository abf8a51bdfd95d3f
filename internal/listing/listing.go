package listing

import (
	"context"
	"net/url"
	"strings"
)

// Entry is a hyperlink found on a directory listing page
type Entry struct {
	// Href is the raw attribute value
	Href string

	// URL is Href resolved against the listing page
	URL string
}

// Lister interface for reading directory listings
type Lister interface {
	// List returns the links of a listing page in document order
	List(ctx context.Context, pageURL string) ([]Entry, error)
}

// ListerFunc adapts a function to the Lister interface
type ListerFunc func(ctx context.Context, pageURL string) ([]Entry, error)

// List calls f
func (f ListerFunc) List(ctx context.Context, pageURL string) ([]Entry, error) {
	return f(ctx, pageURL)
}

// Resolve resolves href against the page it was found on.
// Hrefs that cannot be parsed are returned as-is.
func Resolve(pageURL, href string) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// RelativeName returns the entry's name below parentURL with all slashes removed.
// When the resolved URL does not live under parentURL the raw href is used.
func RelativeName(e Entry, parentURL string) string {
	name := e.Href
	if parentURL != "" && strings.HasPrefix(e.URL, parentURL) {
		name = e.URL[len(parentURL):]
	}
	return strings.ReplaceAll(name, "/", "")
}

// DirURL returns u with a trailing slash, so relative hrefs resolve below it
func DirURL(u string) string {
	if strings.HasSuffix(u, "/") {
		return u
	}
	return u + "/"
}
