package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jengzang/ecorisk-backend-go/internal/observability"
)

// DefaultNominatimURL is the public OpenStreetMap Nominatim endpoint.
const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// NominatimConfig configures the Nominatim client.
type NominatimConfig struct {
	BaseURL    string
	UserAgent  string
	CitySuffix string // Appended to every query, e.g. ", Санкт-Петербург"
	Timeout    time.Duration
}

// Client implements Geocoder against a Nominatim search API.
type Client struct {
	baseURL    string
	userAgent  string
	citySuffix string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Nominatim geocoding client.
func NewClient(cfg NominatimConfig, metrics *observability.Metrics, logger *slog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  cfg.UserAgent,
		citySuffix: cfg.CitySuffix,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		metrics:    metrics,
		logger:     logger,
	}
}

// Geocode resolves the address within the configured city.
func (c *Client) Geocode(ctx context.Context, address string) (Result, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Result{}, fmt.Errorf("%w: empty address", ErrNotFound)
	}

	params := url.Values{
		"q":      {address + c.citySuffix},
		"format": {"jsonv2"},
		"limit":  {"1"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("%w: create request: %v", ErrUnavailable, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.GeocodeAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return Result{}, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, body)
	}

	var places []place
	if err := json.NewDecoder(io.LimitReader(resp.Body, 2<<20)).Decode(&places); err != nil {
		return Result{}, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if len(places) == 0 {
		return Result{}, fmt.Errorf("%w: %q", ErrNotFound, address)
	}

	p := places[0]
	lat, errLat := strconv.ParseFloat(p.Lat, 64)
	lon, errLon := strconv.ParseFloat(p.Lon, 64)
	if errLat != nil || errLon != nil {
		return Result{}, fmt.Errorf("%w: malformed coordinates %q,%q", ErrUnavailable, p.Lat, p.Lon)
	}

	c.logger.Debug("nominatim match", "address", address, "display_name", p.DisplayName)
	return Result{Lat: lat, Lon: lon, DisplayName: p.DisplayName}, nil
}

// Nominatim API response types.

type place struct {
	Lat         string `json:"lat"` // Decimal degrees as a string
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}
