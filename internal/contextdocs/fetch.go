package contextdocs

import (
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"team-insights-go/internal/logger"
	"team-insights-go/internal/types"
)

var httpClient = &http.Client{
	Timeout: 12 * time.Second,
}

// FetchDocument downloads a plain-text organizational document and runs it
// through the same ingestion cap as inline documents. Server errors and
// transport failures are retried with exponential backoff; client errors
// are permanent.
func FetchDocument(url string) (types.ContextDocument, error) {
	log := logger.Component("contextdocs").WithField("url", url)

	var body []byte
	operation := func() error {
		resp, err := httpClient.Get(url)
		if err != nil {
			log.WithError(err).Warn("document fetch failed")
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode >= 500 {
			return fmt.Errorf("document server error: status=%d", resp.StatusCode)
		}
		if resp.StatusCode >= 300 {
			return backoff.Permanent(fmt.Errorf("document fetch rejected: status=%d", resp.StatusCode))
		}
		body = data
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 20 * time.Second
	if err := backoff.Retry(operation, bo); err != nil {
		return types.ContextDocument{}, fmt.Errorf("fetch document: %w", err)
	}

	name := path.Base(strings.SplitN(url, "?", 2)[0])
	if name == "" || name == "." || name == "/" {
		name = "document.txt"
	}
	doc := NewDocument(name, string(body))
	log.WithField("file_name", doc.FileName).
		WithField("size_bytes", doc.SizeBytes).Info("document fetched")
	return doc, nil
}
