package api

import (
	"context"
	"fmt"
	"os"

	"github.com/saarzint/bolgenie/domain"
	"github.com/saarzint/bolgenie/internal/transport"
)

// PDFClient consumes the Bill of Lading PDF endpoint
type PDFClient struct {
	pipeline *transport.Client
}

// NewPDFClient creates a PDF endpoint client
func NewPDFClient(pipeline *transport.Client) *PDFClient {
	return &PDFClient{pipeline: pipeline}
}

// Generate renders a Bill of Lading PDF for the shipment
func (c *PDFClient) Generate(ctx context.Context, shipment domain.Shipment) ([]byte, error) {
	var blob []byte
	if err := c.pipeline.Post(ctx, "/pdf/generate", shipment, &blob); err != nil {
		return nil, err
	}
	return blob, nil
}

// Download generates the PDF and writes it to path. An empty path derives
// BOL_<id-prefix>.pdf from the shipment. Returns the path written.
func (c *PDFClient) Download(ctx context.Context, shipment domain.Shipment, path string) (string, error) {
	blob, err := c.Generate(ctx, shipment)
	if err != nil {
		return "", err
	}

	if path == "" {
		id := shipment.ID
		if len(id) > 8 {
			id = id[:8]
		}
		path = fmt.Sprintf("BOL_%s.pdf", id)
	}
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		return "", domain.Normalize(fmt.Errorf("failed to write PDF: %w", err))
	}
	return path, nil
}
