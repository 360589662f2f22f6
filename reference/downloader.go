package reference

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/giygas/pedcalc-api/logging"
	"golang.org/x/text/encoding/charmap"
)

// maxDownloadSize bounds the body read from a formulary URL.
const maxDownloadSize = 32 << 20

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 5 * time.Minute,
	}
}

// download fetches url and returns its body as UTF-8.
func download(ctx context.Context, client *http.Client, url string) (io.Reader, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}

	response, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer func() {
		if err = response.Body.Close(); err != nil {
			logging.Warn("Failed to close response body", "error", err)
		}
	}()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download %s: status %d", url, response.StatusCode)
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(response.Body, maxDownloadSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	logging.Debug("Formulary downloaded", "url", url, "bytes", len(bodyBytes))
	return decodeText(bodyBytes), nil
}

// decodeText returns a UTF-8 reader over b. Spreadsheet exports are often
// ISO-8859-1, so anything that is not valid UTF-8 is decoded as Latin-1.
func decodeText(b []byte) io.Reader {
	if utf8.Valid(b) {
		return bytes.NewReader(b)
	}
	return charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(b))
}
