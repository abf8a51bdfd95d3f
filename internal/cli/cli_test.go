package cli

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/lfsite/archcat/internal/artifact"
	"github.com/lfsite/archcat/internal/catalog"
	"github.com/lfsite/archcat/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPOM = "<project>\n" +
	"\t<dependencies>\n" +
	"\t\t<dependency>\n" +
	"\t\t\t<artifactId>com.liferay.faces.alloy</artifactId>\n" +
	"\t\t</dependency>\n" +
	"\t</dependencies>\n" +
	"</project>\n"

func testJar(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create(artifact.DescriptorEntry)
	require.NoError(t, err)
	_, err = f.Write([]byte(testPOM))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func link(href string) string {
	return fmt.Sprintf("<html><body><pre><a href=%q>%s</a></pre></body></html>", href, href)
}

// newRepo serves a single alloy 2.0.0 archetype under /archetype/
func newRepo(t *testing.T) *httptest.Server {
	t.Helper()

	suite := catalog.GroupID + ".alloy.portlet/"
	jarName := catalog.GroupID + ".alloy.portlet-2.0.0.jar"
	jarData := testJar(t)

	mux := http.NewServeMux()
	mux.HandleFunc("/archetype/", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/archetype/":
			fmt.Fprint(w, link(suite))
		case "/archetype/" + suite:
			fmt.Fprint(w, link("2.0.0/"))
		case "/archetype/" + suite + "2.0.0/":
			fmt.Fprint(w, link(jarName))
		case "/archetype/" + suite + "2.0.0/" + jarName:
			_, _ = w.Write(jarData)
		default:
			http.NotFound(w, r)
		}
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestBuildCommand(t *testing.T) {
	server := newRepo(t)
	output := filepath.Join(t.TempDir(), "catalog.json")

	out, err := execute(t, "build",
		"--release-url", server.URL+"/archetype/",
		"--param", "liferay-7.0 2.2=2.0.0",
		"--temp-dir", t.TempDir(),
		"--output", output,
		"--compress", "gzip",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "7.0")
	assert.Contains(t, out, "alloy")
	assert.Contains(t, out, "1 archetypes, 1 suites, 0 skipped")

	assert.FileExists(t, output+".gz")
	assert.FileExists(t, output+".gz.sha256")
}

func TestBuildCommandTopLevelFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := execute(t, "build", "--release-url", server.URL+"/archetype/")
	require.Error(t, err)

	var catErr *models.CatalogError
	require.True(t, errors.As(err, &catErr))
	assert.Equal(t, models.ErrListing, catErr.Type)
}

func TestBuildCommandRejectsBadFormat(t *testing.T) {
	_, err := execute(t, "build", "--format", "xml")
	require.Error(t, err)

	var catErr *models.CatalogError
	require.True(t, errors.As(err, &catErr))
	assert.Equal(t, models.ErrInvalidConfig, catErr.Type)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archcat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
params:
  liferay-7.0 2.2: 2.0.0
  snapshot: "false"
release_url: https://repo.example/archetype/
timeout: 5s
suites: "{alloy,metal}"
format: yaml
compress: xz
`), 0644))

	config, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "2.0.0", config.Params["liferay-7.0 2.2"])
	assert.Equal(t, "https://repo.example/archetype/", config.ReleaseURL)
	assert.Equal(t, models.DefaultSnapshotURL, config.SnapshotURL)
	assert.Equal(t, 5*time.Second, config.Timeout)
	assert.Equal(t, "{alloy,metal}", config.SuitePattern)
	assert.Equal(t, "yaml", config.Format)
	assert.Equal(t, "xz", config.Compression)
	assert.Equal(t, defaultCacheSize, config.CacheSize)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("params: [unclosed"), 0644))
	_, err = loadConfig(path)
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	config, err := loadConfig("")
	require.NoError(t, err)

	config.Snapshot = true
	require.NoError(t, validateConfig(config))
	assert.Equal(t, "true", config.Params["snapshot"])

	config.ReleaseURL = "not a url"
	assert.Error(t, validateConfig(config))

	config.ReleaseURL = models.DefaultReleaseURL
	config.Compression = "lz4"
	assert.Error(t, validateConfig(config))

	config.Compression = ""
	config.GPGKeyPath = "/keys/signing.asc"
	err = validateConfig(config)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "gpg-key requires output"))
}

func TestValidateConfigPassphraseFromEnv(t *testing.T) {
	t.Setenv(EnvGPGPassphrase, "s3cret")

	config, err := loadConfig("")
	require.NoError(t, err)
	require.NoError(t, validateConfig(config))

	assert.Equal(t, "s3cret", config.GPGPassphrase)
}

func TestURLsCommand(t *testing.T) {
	t.Setenv("INTEGRATION_URL", "http://portal:8080")
	t.Setenv("INTEGRATION_DEMO_CONTEXT", "")

	out, err := execute(t, "urls", "demo", "button", "input-text")
	require.NoError(t, err)
	assert.Equal(t,
		"http://portal:8080/group/portal-demos/button\nhttp://portal:8080/group/portal-demos/input-text\n",
		out)

	_, err = execute(t, "urls", "admin", "button")
	assert.Error(t, err)

	_, err = execute(t, "urls", "issue")
	assert.Error(t, err)
}

func TestUnknownLogFormat(t *testing.T) {
	_, err := execute(t, "--log-format", "xml", "urls", "demo", "button")
	assert.Error(t, err)
}
