// Package netinfra implements catalog.PlantService against the plant
// catalog HTTP API. Responses are JSON; every request is bounded by the
// configured client timeout and the caller's context.
package netinfra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goliatone/go-plant-catalog/catalog"
)

// Interface assertion to ensure Client implements catalog.PlantService
var _ catalog.PlantService = (*Client)(nil)

// Client is an HTTP client for the remote plant service.
type Client struct {
	base string
	http *http.Client
}

// NewClient validates cfg and returns a ready-to-use client.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("netinfra: invalid config: %w", err)
	}
	return &Client{
		base: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// AllPlants fetches the full plant catalog.
func (c *Client) AllPlants(ctx context.Context) ([]catalog.Plant, error) {
	var plants []catalog.Plant
	if err := c.getJSON(ctx, "/plants", &plants); err != nil {
		return nil, err
	}
	return plants, nil
}

// PlantsByZone fetches the plants for one grow zone. The NoGrowZone
// sentinel fetches the full catalog.
func (c *Client) PlantsByZone(ctx context.Context, zone catalog.GrowZone) ([]catalog.Plant, error) {
	path := "/plants"
	if !zone.IsNoFilter() {
		path += "?zone=" + strconv.Itoa(zone.Number)
	}

	var plants []catalog.Plant
	if err := c.getJSON(ctx, path, &plants); err != nil {
		return nil, err
	}
	return plants, nil
}

// CustomSortOrder fetches the curated plant ordering as a list of plant IDs.
func (c *Client) CustomSortOrder(ctx context.Context) ([]string, error) {
	var order []string
	if err := c.getJSON(ctx, "/custom-plant-sort-order", &order); err != nil {
		return nil, err
	}
	return order, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return fmt.Errorf("netinfra: build request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("netinfra: get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("netinfra: get %s: %s", path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("netinfra: decode %s response: %w", path, err)
	}
	return nil
}
