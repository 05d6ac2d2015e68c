package download

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/vfaronov/httpheader"
)

const (
	// maxRedirects bounds redirect chasing; podcast CDNs love chains.
	maxRedirects = 20

	// transferChunkSize is how much is read between progress callbacks.
	// Cancellation is therefore observed at least once per chunk.
	transferChunkSize = 32 * 1024
)

// Meta describes the server's response to a transfer request before any
// body bytes arrive.
type Meta struct {
	// Total is the reported byte count, 0 when the server sent none.
	Total int64
	// SuggestedName is the Content-Disposition filename, if any.
	SuggestedName string
	// ContentType is the reported media type.
	ContentType string
}

// ProgressFunc receives (bytes_total, bytes_so_far) after every chunk.
// Returning a non-nil error aborts the transfer promptly; the in-flight
// chunk still completes before the transfer unwinds.
type ProgressFunc func(total, current int64) error

// MetaFunc receives the response metadata once, before the body streams.
type MetaFunc func(Meta)

// Transferer is the capability the controller depends on: stream a URL
// into a sink with progress reporting and cooperative abort. Any
// transport can satisfy it.
type Transferer interface {
	Transfer(ctx context.Context, url string, sink io.Writer, meta MetaFunc, progress ProgressFunc) error
}

// HTTPTransferer streams over HTTP, following up to maxRedirects
// redirects.
type HTTPTransferer struct {
	client *http.Client
}

func NewHTTPTransferer() *HTTPTransferer {
	return &HTTPTransferer{
		client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
	}
}

// Transfer streams url into sink in fixed-size chunks, invoking
// progress after each chunk with the server-reported total and the
// bytes written so far. An error returned by progress aborts the
// transfer and is returned unchanged.
func (t *HTTPTransferer) Transfer(ctx context.Context, url string, sink io.Writer, meta MetaFunc, progress ProgressFunc) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	total := resp.ContentLength
	if total < 0 {
		total = 0
	}

	if meta != nil {
		m := Meta{Total: total, ContentType: resp.Header.Get("Content-Type")}
		if _, name, err := httpheader.ContentDisposition(resp.Header); err == nil {
			m.SuggestedName = name
		}
		meta(m)
	}

	var written int64
	buf := make([]byte, transferChunkSize)
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := sink.Write(buf[:n]); werr != nil {
				return fmt.Errorf("write failed: %w", werr)
			}
			written += int64(n)
			if progress != nil {
				if perr := progress(total, written); perr != nil {
					return perr
				}
			}
		}
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			return fmt.Errorf("transfer failed: %w", rerr)
		}
	}
}
