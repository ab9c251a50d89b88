package search

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivanbaha/opensearch-demo/core"
)

func TestBulkIndexPapersClassifiesOutcomes(t *testing.T) {
	var payload []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/papers/_bulk", r.URL.Path)
		assert.Equal(t, "application/x-ndjson", r.Header.Get("Content-Type"))
		payload, _ = io.ReadAll(r.Body)
		io.WriteString(w, `{
			"took": 5,
			"errors": true,
			"items": [
				{"index": {"_id": "W001", "result": "created", "status": 201}},
				{"index": {"_id": "W002", "result": "updated", "status": 200}},
				{"index": {"_id": "W003", "status": 400, "error": {"type": "mapper_parsing_exception", "reason": "bad field"}}}
			]
		}`)
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	papers := []*core.IndexedPaper{
		{Id: "W001", Title: "First"},
		{Id: "W002", Title: "Second"},
		{Id: "W003", Title: "Third"},
	}
	result, err := client.BulkIndexPapers(context.Background(), "papers", papers)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated, "re-indexing an existing document is not an error")
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "W003", result.Failed[0].ID)
	assert.Equal(t, "bad field", result.Failed[0].Reason)

	// Two NDJSON lines per document: action then source.
	scanner := bufio.NewScanner(bytes.NewReader(payload))
	lines := 0
	for scanner.Scan() {
		if len(bytes.TrimSpace(scanner.Bytes())) > 0 {
			lines++
		}
	}
	assert.Equal(t, 6, lines)
	assert.Contains(t, string(payload), `{"index":{"_id":"W001"}}`)
}

func TestBulkIndexPapersEmptyBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty batch")
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	result, err := client.BulkIndexPapers(context.Background(), "papers", nil)
	require.NoError(t, err)
	assert.Zero(t, result.Created)
	assert.Zero(t, result.Updated)
	assert.Empty(t, result.Failed)
}

func TestBulkIndexPapersRejectsMissingID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	_, err = client.BulkIndexPapers(context.Background(), "papers", []*core.IndexedPaper{{Title: "no id"}})
	assert.ErrorIs(t, err, core.ErrEmptyKey)
}

func TestEnsureIndexSkipsExisting(t *testing.T) {
	creates := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusOK)
		case http.MethodPut:
			creates++
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	require.NoError(t, client.EnsureIndex(context.Background(), "papers"))
	assert.Zero(t, creates)
}

func TestEnsureIndexCreatesMissing(t *testing.T) {
	creates := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			creates++
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	require.NoError(t, client.EnsureIndex(context.Background(), "papers"))
	assert.Equal(t, 1, creates)
}
