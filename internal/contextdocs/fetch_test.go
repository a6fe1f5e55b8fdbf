package contextdocs

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("company handbook text"))
	}))
	defer srv.Close()

	doc, err := FetchDocument(srv.URL + "/docs/handbook.txt")
	require.NoError(t, err)
	assert.Equal(t, "handbook.txt", doc.FileName)
	assert.Equal(t, "company handbook text", doc.ExtractedText)
	assert.Equal(t, len("company handbook text"), doc.SizeBytes)
}

func TestFetchDocumentRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("eventually fine"))
	}))
	defer srv.Close()

	doc, err := FetchDocument(srv.URL + "/values.txt")
	require.NoError(t, err)
	assert.Equal(t, "eventually fine", doc.ExtractedText)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(3))
}

func TestFetchDocumentClientErrorIsPermanent(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := FetchDocument(srv.URL + "/missing.txt")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "4xx must not be retried")
}
