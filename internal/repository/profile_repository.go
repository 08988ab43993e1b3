package repository

import (
	"context"

	"github.com/quickinvoice/invoice-builder-service/internal/domain"
)

// ProfileRepository defines storage operations for business profiles.
// Profiles are keyed uniquely by user; a missing profile is reported as
// domain.ErrNotFound, which callers treat as absent data rather than failure.
type ProfileRepository interface {
	// GetByUserID retrieves the profile for a user
	GetByUserID(ctx context.Context, userID string) (*domain.BusinessProfile, error)

	// Upsert inserts or overwrites the profile keyed by its user
	Upsert(ctx context.Context, profile *domain.BusinessProfile) error
}
