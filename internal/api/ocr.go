package api

import (
	"context"
	"io"

	"github.com/saarzint/bolgenie/domain"
	"github.com/saarzint/bolgenie/internal/transport"
)

// OCRClient consumes the document extraction endpoint
type OCRClient struct {
	pipeline *transport.Client
}

// NewOCRClient creates an OCR endpoint client
func NewOCRClient(pipeline *transport.Client) *OCRClient {
	return &OCRClient{pipeline: pipeline}
}

// Extract uploads a shipping document and returns the structured Bill of
// Lading data the backend extracted from it. onProgress may be nil.
func (c *OCRClient) Extract(ctx context.Context, filename string, file io.Reader, onProgress transport.ProgressFunc) (*domain.OCRExtractResponse, error) {
	var result domain.OCRExtractResponse
	if err := c.pipeline.Upload(ctx, "/ocr/extract", filename, file, onProgress, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
