package reloader

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicHandler(t *testing.T) {
	hr := NewAtomicHandler(nil)
	require.NotNil(t, hr)

	// nil handler serves 503
	w := httptest.NewRecorder()
	hr.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	hr.Store(ok)

	w = httptest.NewRecorder()
	hr.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestReloadDueAt(t *testing.T) {
	rl := NewReloader("testdata/lodge.env")
	now := time.Now()

	assert.False(t, rl.reloadDueAt(now, time.Time{}))
	assert.False(t, rl.reloadDueAt(now, now.Add(-rl.reloadIval/2)))
	assert.True(t, rl.reloadDueAt(now, now.Add(-rl.reloadIval)))
	assert.True(t, rl.reloadDueAt(now, now.Add(-rl.reloadIval*2)))
}
