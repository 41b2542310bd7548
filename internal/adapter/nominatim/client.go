package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rentadriver/ride-booking-system/internal/domain/types"
	wrap "github.com/rentadriver/ride-booking-system/pkg/logger/wrapper"
)

var ErrLocationNotFound = fmt.Errorf("location not found")

// Client talks to the Nominatim search API. The public instance requires a
// descriptive User-Agent and tolerates at most one request per second, so
// callers treat geocoding as best-effort.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

func New(baseURL, userAgent string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		http:      &http.Client{Timeout: timeout},
	}
}

// GetLocation resolves a free-form address into latitude and longitude
// using the first search result.
func (c *Client) GetLocation(ctx context.Context, address string) (float64, float64, error) {
	const op = "nominatim.GetLocation"
	ctx = wrap.WithAction(ctx, "nominatim_get_location")

	reqURL := fmt.Sprintf("%s/search?q=%s&format=json&limit=1", c.baseURL, url.QueryEscape(address))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, 0, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return 0, 0, wrap.Error(ctx, fmt.Errorf("%s: request failed: %w", op, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return 0, 0, wrap.Error(ctx, fmt.Errorf("%s: unexpected response status %d", op, resp.StatusCode))
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return 0, 0, wrap.Error(ctx, fmt.Errorf("%s: failed to decode response: %w", op, err))
	}

	if len(results) == 0 {
		return 0, 0, wrap.Error(ctx, ErrLocationNotFound)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, wrap.Error(ctx, fmt.Errorf("%s: failed to parse latitude: %w", op, err))
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, wrap.Error(ctx, fmt.Errorf("%s: failed to parse longitude: %w", op, err))
	}

	return lat, lon, nil
}
