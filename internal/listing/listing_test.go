package listing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const preIndex = `<html><body><h1>Index of /archetype</h1>
<pre><a href="../">../</a>
<a href="com.liferay.faces.archetype.alloy.portlet/">com.liferay.faces.archetype.alloy.portlet/</a>   2016-01-01 00:00  -
<a href="http://other.example/abs/">abs</a>
</pre>
<a href="outside.html">not in a listing container</a>
</body></html>`

const tableIndex = `<html><body><table>
<tr><td><a href="https://repo.example/archetype/x.portlet/1.0/">1.0/</a></td></tr>
<tr><td><a name="no-href">anchor</a></td></tr>
</table></body></html>`

func TestParsePreListing(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(preIndex))
	require.NoError(t, err)

	entries := Parse(doc, "https://repo.example/archetype/")

	require.Len(t, entries, 3)
	assert.Equal(t, "../", entries[0].Href)
	assert.Equal(t, "https://repo.example/", entries[0].URL)
	assert.Equal(t, "https://repo.example/archetype/com.liferay.faces.archetype.alloy.portlet/", entries[1].URL)
	assert.Equal(t, "http://other.example/abs/", entries[2].URL)
}

func TestParseTableListing(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(tableIndex))
	require.NoError(t, err)

	entries := Parse(doc, "https://repo.example/archetype/x.portlet/")

	require.Len(t, entries, 1)
	assert.Equal(t, "https://repo.example/archetype/x.portlet/1.0/", entries[0].Href)
	assert.Equal(t, entries[0].Href, entries[0].URL)
}

func TestRelativeName(t *testing.T) {
	parent := "https://repo.example/archetype/x.portlet/"

	relative := Entry{Href: "2.1.0/", URL: parent + "2.1.0/"}
	assert.Equal(t, "2.1.0", RelativeName(relative, parent))

	absolute := Entry{Href: parent + "2.1.0/", URL: parent + "2.1.0/"}
	assert.Equal(t, "2.1.0", RelativeName(absolute, parent))

	rooted := Entry{Href: "/archetype/x.portlet/2.1.0/", URL: parent + "2.1.0/"}
	assert.Equal(t, "2.1.0", RelativeName(rooted, parent))

	elsewhere := Entry{Href: "../y/", URL: "https://repo.example/archetype/y/"}
	assert.Equal(t, "..y", RelativeName(elsewhere, parent))
}

func TestDirURL(t *testing.T) {
	assert.Equal(t, "http://h/a/", DirURL("http://h/a"))
	assert.Equal(t, "http://h/a/", DirURL("http://h/a/"))
}

func TestHTTPListerCachesPages(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "archcat-test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(preIndex))
	}))
	defer server.Close()

	lister, err := NewHTTPLister(server.Client(), "archcat-test", 8)
	require.NoError(t, err)

	first, err := lister.List(context.Background(), server.URL+"/")
	require.NoError(t, err)
	second, err := lister.List(context.Background(), server.URL+"/")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestHTTPListerWithoutCache(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(preIndex))
	}))
	defer server.Close()

	lister, err := NewHTTPLister(server.Client(), "", 0)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := lister.List(context.Background(), server.URL+"/")
		require.NoError(t, err)
	}

	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestHTTPListerStatusError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	lister, err := NewHTTPLister(server.Client(), "", 8)
	require.NoError(t, err)

	_, err = lister.List(context.Background(), server.URL+"/missing/")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestHTTPListerConnectionError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	lister, err := NewHTTPLister(nil, "", 0)
	require.NoError(t, err)

	_, err = lister.List(context.Background(), url+"/")
	assert.Error(t, err)
}
