package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"maya-backend/internal/domain/entities"
	"maya-backend/internal/infra/logger"
)

const nominatimReverseURL = "https://nominatim.openstreetmap.org/reverse"

// NominatimGeocoder resolves coordinates through the public Nominatim
// reverse-geocoding API.
type NominatimGeocoder struct {
	Logger     *logger.Logger
	HttpClient *http.Client
	BaseURL    string
	UserAgent  string
}

func NewNominatimGeocoder(logger *logger.Logger, httpClient *http.Client) *NominatimGeocoder {
	return &NominatimGeocoder{
		Logger:     logger,
		HttpClient: httpClient,
		BaseURL:    nominatimReverseURL,
		UserAgent:  "maya-backend",
	}
}

// Reverse returns the country and state for the given coordinates. State
// falls back to province, then county, mirroring the address fields
// Nominatim populates in different regions.
func (ng *NominatimGeocoder) Reverse(ctx context.Context, lat, lon float64) (entities.Address, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("accept-language", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ng.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return entities.Address{}, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("User-Agent", ng.UserAgent)

	res, err := ng.HttpClient.Do(req)
	if err != nil {
		return entities.Address{}, fmt.Errorf("nominatim request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return entities.Address{}, fmt.Errorf("failed to read nominatim response: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return entities.Address{}, fmt.Errorf("unexpected nominatim status %d: %s", res.StatusCode, truncate(string(body), 300))
	}

	var parsed struct {
		Address struct {
			Country  string `json:"country"`
			State    string `json:"state"`
			Province string `json:"province"`
			County   string `json:"county"`
		} `json:"address"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return entities.Address{}, fmt.Errorf("failed to unmarshal nominatim response: %w", err)
	}
	if parsed.Address.Country == "" {
		return entities.Address{}, fmt.Errorf("could not retrieve location data")
	}

	state := parsed.Address.State
	if state == "" {
		state = parsed.Address.Province
	}
	if state == "" {
		state = parsed.Address.County
	}

	return entities.Address{Country: parsed.Address.Country, State: state}, nil
}
