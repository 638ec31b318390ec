package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/felixgeelhaar/feedfort/internal/domain"
)

// ListSectors returns every sector
func (c *Client) ListSectors(ctx context.Context) ([]domain.Sector, error) {
	var sectors []domain.Sector
	if err := c.do(ctx, request{method: http.MethodGet, path: "/setores"}, &sectors); err != nil {
		return nil, err
	}
	return sectors, nil
}

// CreateSector adds a sector
func (c *Client) CreateSector(ctx context.Context, in domain.SectorInput) (*domain.Sector, error) {
	var sector domain.Sector
	if err := c.do(ctx, request{method: http.MethodPost, path: "/setores", body: in}, &sector); err != nil {
		return nil, err
	}
	return &sector, nil
}

// UpdateSector replaces a sector's fields
func (c *Client) UpdateSector(ctx context.Context, id int, in domain.SectorInput) (*domain.Sector, error) {
	var sector domain.Sector
	if err := c.do(ctx, request{method: http.MethodPut, path: idPath("/setores", id), body: in}, &sector); err != nil {
		return nil, err
	}
	return &sector, nil
}

// DeleteSector removes a sector
func (c *Client) DeleteSector(ctx context.Context, id int) error {
	return c.do(ctx, request{method: http.MethodDelete, path: idPath("/setores", id)}, nil)
}

// ListAttributes returns the rating attributes of a sector
func (c *Client) ListAttributes(ctx context.Context, sectorID int) (*domain.AttributeList, error) {
	var list domain.AttributeList
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/atributos",
		query:  url.Values{"setor_id": {strconv.Itoa(sectorID)}},
	}, &list)
	if err != nil {
		return nil, err
	}
	if list.Atributos == nil {
		list.Atributos = []string{}
	}
	return &list, nil
}

type attributeRequest struct {
	Atributo string `json:"atributo"`
}

// AddAttribute appends name to the sector's attributes
func (c *Client) AddAttribute(ctx context.Context, sectorID int, name string) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   idPath("/setores", sectorID) + "/atributos",
		body:   attributeRequest{Atributo: name},
	}, nil)
}

// RemoveAttribute removes the attribute whose name matches exactly
func (c *Client) RemoveAttribute(ctx context.Context, sectorID int, name string) error {
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   idPath("/setores", sectorID) + "/atributos",
		body:   attributeRequest{Atributo: name},
	}, nil)
}
