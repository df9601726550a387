package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"

	"github.com/saarzint/bolgenie/domain"
)

// ProgressFunc receives upload progress at integer percentage granularity
type ProgressFunc func(percent int)

// Upload sends file as a multipart request through the pipeline, reporting
// progress as the body is written to the wire. The body is buffered so the
// auth-recovery path can replay it.
func (c *Client) Upload(ctx context.Context, path, filename string, file io.Reader, onProgress ProgressFunc, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return domain.Normalize(fmt.Errorf("failed to build multipart body: %w", err))
	}
	if _, err := io.Copy(part, file); err != nil {
		return domain.Normalize(fmt.Errorf("failed to read upload file: %w", err))
	}
	if err := writer.Close(); err != nil {
		return domain.Normalize(fmt.Errorf("failed to finalize multipart body: %w", err))
	}

	req := &request{
		method:      http.MethodPost,
		path:        path,
		body:        buf.Bytes(),
		contentType: writer.FormDataContentType(),
		out:         out,
		onProgress:  onProgress,
	}
	return c.send(ctx, req, false)
}

// progressReader reports read progress over a known total as rounded integer
// percentages, skipping repeats.
type progressReader struct {
	r          *bytes.Reader
	total      int
	read       int
	lastPct    int
	onProgress ProgressFunc
}

func newProgressReader(body []byte, onProgress ProgressFunc) *progressReader {
	return &progressReader{
		r:          bytes.NewReader(body),
		total:      len(body),
		lastPct:    -1,
		onProgress: onProgress,
	}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.total > 0 {
		p.read += n
		pct := int(math.Round(float64(p.read) * 100 / float64(p.total)))
		if pct != p.lastPct {
			p.lastPct = pct
			p.onProgress(pct)
		}
	}
	return n, err
}
