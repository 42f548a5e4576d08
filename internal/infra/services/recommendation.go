package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	Iservices "maya-backend/internal/domain/interfaces/services"
	"maya-backend/internal/infra/logger"
)

var (
	ErrPersonaIncomplete = errors.New("persona is missing name, languages or location")
	ErrLocationLookup    = errors.New("could not retrieve location data")
)

// RecommendationService builds a localized service recommendation from the
// persona document. The persona must carry a name, at least one language and
// a device-reported location before a recommendation can be produced.
type RecommendationService struct {
	Logger   *logger.Logger
	Chat     Iservices.IChatService
	Geocoder Iservices.IGeocoder
	Persona  PersonaStore
}

func NewRecommendationService(log *logger.Logger, chat Iservices.IChatService, geocoder Iservices.IGeocoder, persona PersonaStore) *RecommendationService {
	return &RecommendationService{Logger: log, Chat: chat, Geocoder: geocoder, Persona: persona}
}

// Recommend resolves the persona's coordinates to a country and state, swaps
// the raw coordinates for the resolved place and asks the model for local
// services matching the persona.
func (rs *RecommendationService) Recommend(ctx context.Context) (string, error) {
	doc, err := rs.Persona.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load persona: %w", err)
	}

	lat, latOK := asFloat(doc["Latitude"])
	lon, lonOK := asFloat(doc["Longitude"])
	name, _ := doc["Name"].(string)
	languages, _ := doc["Languages"].([]any)

	if !latOK || !lonOK || name == "" || len(languages) == 0 {
		return "", ErrPersonaIncomplete
	}

	address, err := rs.Geocoder.Reverse(ctx, lat, lon)
	if err != nil {
		rs.Logger.Error(fmt.Sprintf("Reverse geocoding failed: %v", err), logrus.Fields{"lat": lat, "lon": lon})
		return "", ErrLocationLookup
	}

	// The model receives the resolved place, never the raw coordinates.
	enriched := make(map[string]any, len(doc))
	for k, v := range doc {
		if k == "Latitude" || k == "Longitude" {
			continue
		}
		enriched[k] = v
	}
	enriched["Country"] = address.Country
	enriched["State"] = address.State

	return rs.Chat.Recommend(ctx, enriched)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
