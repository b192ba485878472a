package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultNominatimURL is the public OpenStreetMap reverse geocoding endpoint
const DefaultNominatimURL = "https://nominatim.openstreetmap.org/reverse"

// Nominatim resolves countries with the Nominatim reverse geocoding API
type Nominatim struct {
	endpoint   string
	userAgent  string
	httpClient *http.Client
}

// NewNominatim creates a Nominatim client. Nominatim's usage policy requires
// an identifying user agent.
func NewNominatim(endpoint, userAgent string, timeout time.Duration) *Nominatim {
	if endpoint == "" {
		endpoint = DefaultNominatimURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Nominatim{
		endpoint:  endpoint,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type reverseResponse struct {
	Address struct {
		Country string `json:"country"`
	} `json:"address"`
	Error string `json:"error"`
}

// ReverseCountry returns the country at the given position, "" when the
// position is not inside any country (open sea)
func (n *Nominatim) ReverseCountry(ctx context.Context, lat, lon float64) (string, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("zoom", "3")
	q.Set("accept-language", "fr")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build reverse request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("reverse request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("nominatim returned %d: %s", resp.StatusCode, body)
	}

	var payload reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode reverse response: %w", err)
	}

	// "Unable to geocode" is Nominatim's answer for points outside any country.
	if payload.Error != "" {
		return "", nil
	}
	return payload.Address.Country, nil
}
