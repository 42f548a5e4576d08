package Iservices

import (
	"context"

	"maya-backend/internal/domain/entities"
)

// IGeocoder resolves coordinates into a country/state pair.
type IGeocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (entities.Address, error)
}
