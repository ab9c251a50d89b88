package search

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexExists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		switch r.URL.Path {
		case "/papers":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	exists, err := client.IndexExists(context.Background(), "papers")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = client.IndexExists(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDeleteIndexRefusesSystemIndexes(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	err = client.DeleteIndex(context.Background(), ".kibana")
	assert.ErrorIs(t, err, ErrSystemIndex)
	assert.False(t, called, "guard must trip before any request is sent")
}

func TestDeleteIndexNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	err = client.DeleteIndex(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrIndexNotFound)
}

func TestSearchEngineErrorCarriesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":{"type":"parsing_exception","reason":"unknown field"}}`)
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	_, err = client.Search(context.Background(), "papers", &SearchBody{Size: 10})
	require.Error(t, err)

	var engineErr *EngineError
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, http.StatusBadRequest, engineErr.StatusCode)
	assert.Contains(t, string(engineErr.Body), "parsing_exception")
	assert.Contains(t, engineErr.Error(), "400")
}

func TestCreateIndexSendsMapping(t *testing.T) {
	var received []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/papers", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		received, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	require.NoError(t, client.CreateIndex(context.Background(), "papers", PaperIndexMapping()))
	assert.Contains(t, string(received), `"knn_vector"`)
	assert.Contains(t, string(received), `"dimension": 768`)
}

func TestBasicAuthHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "admin", user)
		assert.Equal(t, "secret", pass)
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, `{"status":"green","number_of_nodes":1,"active_shards":3}`)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, WithBasicAuth("admin", "secret"))
	require.NoError(t, err)

	health, err := client.ClusterHealth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "green", health.Status)
	assert.Equal(t, 1, health.NumberOfNodes)
}

func TestStats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/papers/_stats", r.URL.Path)
		io.WriteString(w, `{"_all":{"primaries":{"docs":{"count":42},"store":{"size_in_bytes":1024}}}}`)
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	stats, err := client.Stats(context.Background(), "papers")
	require.NoError(t, err)
	assert.Equal(t, int64(42), stats.Docs)
	assert.Equal(t, int64(1024), stats.SizeInBytes)
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient("")
	assert.Error(t, err)
}
