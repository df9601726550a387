package api

import (
	"context"
	"net/url"

	"github.com/saarzint/bolgenie/domain"
	"github.com/saarzint/bolgenie/internal/transport"
)

// AdminClient consumes the admin endpoints. The backend enforces the admin
// role; non-admin calls come back as PERMISSION_DENIED.
type AdminClient struct {
	pipeline *transport.Client
}

// NewAdminClient creates an admin endpoint client
func NewAdminClient(pipeline *transport.Client) *AdminClient {
	return &AdminClient{pipeline: pipeline}
}

// Stats fetches platform-wide activity numbers
func (c *AdminClient) Stats(ctx context.Context) (*domain.AdminStats, error) {
	var stats domain.AdminStats
	if err := c.pipeline.Get(ctx, "/admin/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Shipments lists all shipments across users
func (c *AdminClient) Shipments(ctx context.Context) (*domain.ShipmentPage, error) {
	var page domain.ShipmentPage
	if err := c.pipeline.Get(ctx, "/admin/shipments", &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Users lists all registered users
func (c *AdminClient) Users(ctx context.Context) (*domain.AdminUserPage, error) {
	var page domain.AdminUserPage
	if err := c.pipeline.Get(ctx, "/admin/users", &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// DeleteShipment removes any user's shipment
func (c *AdminClient) DeleteShipment(ctx context.Context, id string) error {
	return c.pipeline.Delete(ctx, "/admin/shipments/"+url.PathEscape(id), nil)
}

// SetAdmin grants the admin role to a user
func (c *AdminClient) SetAdmin(ctx context.Context, userID string) error {
	return c.pipeline.Post(ctx, "/admin/users/"+url.PathEscape(userID)+"/set-admin", nil, nil)
}

// RemoveAdmin revokes the admin role from a user
func (c *AdminClient) RemoveAdmin(ctx context.Context, userID string) error {
	return c.pipeline.Post(ctx, "/admin/users/"+url.PathEscape(userID)+"/remove-admin", nil, nil)
}

// SetAdminsByEmail grants the admin role to every listed email, returning
// how many users were updated
func (c *AdminClient) SetAdminsByEmail(ctx context.Context, emails []string) (int, error) {
	var resp struct {
		Message string `json:"message"`
		Updated int    `json:"updated"`
	}
	if err := c.pipeline.Post(ctx, "/admin/set-admins", map[string][]string{"emails": emails}, &resp); err != nil {
		return 0, err
	}
	return resp.Updated, nil
}
