package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte(`{"name":"GOGO #1"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFetcher(5 * time.Second)

	body, err := f.GetBytes(context.Background(), srv.URL+"/ok")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"GOGO #1"}`, string(body))

	_, err = f.GetBytes(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadStatus)
}

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			_, _ = w.Write([]byte(`{not json`))
			return
		}
		_, _ = w.Write([]byte(`{"name":"GOGO #7"}`))
	}))
	defer srv.Close()

	f := NewFetcher(5 * time.Second)

	var doc struct {
		Name string `json:"name"`
	}
	require.NoError(t, f.GetJSON(context.Background(), srv.URL+"/good", &doc))
	assert.Equal(t, "GOGO #7", doc.Name)

	assert.Error(t, f.GetJSON(context.Background(), srv.URL+"/bad", &doc))
}

func TestGetBytes_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewFetcher(time.Second).GetBytes(context.Background(), url)
	assert.Error(t, err)
}
