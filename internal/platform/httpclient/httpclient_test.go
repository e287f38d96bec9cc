package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoJSON_RelativePathAndDecode(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/ping", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "yes", r.Header.Get("X-Extra"))
		b, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"a":1}`, string(b))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer ts.Close()

	c, err := NewWithBaseURL(ts.URL+"/", 0)
	require.NoError(t, err)

	var out struct {
		OK bool `json:"ok"`
	}
	err = c.DoJSON(context.Background(), http.MethodPost, "v1/ping", map[string]string{"X-Extra": "yes", "": "x"}, map[string]int{"a": 1}, &out)
	require.NoError(t, err)
	assert.True(t, out.OK)
}

func TestDoJSON_Non2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer ts.Close()

	err := New(0).DoJSON(context.Background(), http.MethodGet, ts.URL, nil, nil, nil)
	var he *HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusForbidden, he.StatusCode)
	assert.Equal(t, "nope", he.Body)
}

func TestDoJSON_Misuse(t *testing.T) {
	var nilClient *Client
	assert.ErrorIs(t, nilClient.DoJSON(context.Background(), http.MethodGet, "/x", nil, nil, nil), ErrNilClient)
	assert.Error(t, New(0).DoJSON(context.Background(), http.MethodGet, "/x", nil, nil, nil))

	_, err := NewWithBaseURL("::bad", 0)
	assert.Error(t, err)
}
