package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/saarzint/bolgenie/domain"
	"github.com/saarzint/bolgenie/internal/transport"
)

// ShipmentsClient consumes the shipment endpoints through the pipeline
type ShipmentsClient struct {
	pipeline *transport.Client
}

// NewShipmentsClient creates a shipments endpoint client
func NewShipmentsClient(pipeline *transport.Client) *ShipmentsClient {
	return &ShipmentsClient{pipeline: pipeline}
}

// List fetches a page of the user's shipments
func (c *ShipmentsClient) List(ctx context.Context, page, pageSize int) (*domain.ShipmentPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	query := url.Values{}
	query.Set("page", fmt.Sprintf("%d", page))
	query.Set("pageSize", fmt.Sprintf("%d", pageSize))

	var result domain.ShipmentPage
	if err := c.pipeline.Get(ctx, "/shipments?"+query.Encode(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Get fetches a single shipment
func (c *ShipmentsClient) Get(ctx context.Context, id string) (*domain.Shipment, error) {
	var shipment domain.Shipment
	if err := c.pipeline.Get(ctx, "/shipments/"+url.PathEscape(id), &shipment); err != nil {
		return nil, err
	}
	return &shipment, nil
}

// Create stores a new shipment from Bill of Lading data
func (c *ShipmentsClient) Create(ctx context.Context, data domain.BillOfLadingData) (*domain.Shipment, error) {
	var shipment domain.Shipment
	if err := c.pipeline.Post(ctx, "/shipments", data, &shipment); err != nil {
		return nil, err
	}
	return &shipment, nil
}

// Update replaces a shipment's data and returns the stored result
func (c *ShipmentsClient) Update(ctx context.Context, id string, update domain.Shipment) (*domain.Shipment, error) {
	var shipment domain.Shipment
	if err := c.pipeline.Put(ctx, "/shipments/"+url.PathEscape(id), update, &shipment); err != nil {
		return nil, err
	}
	return &shipment, nil
}

// Delete removes a shipment
func (c *ShipmentsClient) Delete(ctx context.Context, id string) error {
	return c.pipeline.Delete(ctx, "/shipments/"+url.PathEscape(id), nil)
}
