package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adeokamate/smart-sytem/internal/testenv"
)

func releaseServer(t *testing.T, tag string, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.Equal(t, "/repos/"+DefaultRepo+"/releases/latest", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"tag_name": "` + tag + `", "html_url": "https://example.test/releases/` + tag + `"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckReportsNewerRelease(t *testing.T) {
	var hits int32
	srv := releaseServer(t, "v1.4.0", &hits)

	c := &Checker{StatePath: filepath.Join(t.TempDir(), "state.json"), BaseURL: srv.URL, Client: srv.Client()}

	result, err := c.Check(context.Background(), "v1.2.3")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.UpdateAvailable)
	assert.Equal(t, "1.2.3", result.CurrentVersion)
	assert.Equal(t, "1.4.0", result.LatestVersion)

	// second call inside the interval is served from the state file
	again, err := c.Check(context.Background(), "1.2.3")
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestCheckUpToDate(t *testing.T) {
	var hits int32
	srv := releaseServer(t, "1.2.3", &hits)

	c := &Checker{StatePath: filepath.Join(t.TempDir(), "state.json"), BaseURL: srv.URL, Client: srv.Client()}

	result, err := c.Check(context.Background(), "1.2.3")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestCheckSkipsDevBuilds(t *testing.T) {
	c := &Checker{BaseURL: "http://127.0.0.1:0"}

	for _, v := range []string{"", "DEV", "not-a-version"} {
		result, err := c.Check(context.Background(), v)
		require.NoError(t, err)
		assert.Nil(t, result)
	}
}

func TestCheckServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	c := &Checker{StatePath: filepath.Join(t.TempDir(), "state.json"), BaseURL: srv.URL, Client: srv.Client()}
	_, err := c.Check(context.Background(), "1.0.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestDefaultStatePathHonorsCacheDir(t *testing.T) {
	env := testenv.New(t)

	path, err := DefaultStatePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.Dirs.Cache, "update-state.json"), path)
}

func TestDisabled(t *testing.T) {
	t.Setenv("BUILDPLAN_NO_UPDATE_CHECK", "1")
	assert.True(t, Disabled())
	t.Setenv("BUILDPLAN_NO_UPDATE_CHECK", "false")
	assert.False(t, Disabled())
}
