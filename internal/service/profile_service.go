package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/quickinvoice/invoice-builder-service/internal/domain"
	"github.com/quickinvoice/invoice-builder-service/internal/imageutil"
	"github.com/quickinvoice/invoice-builder-service/internal/repository"
	"github.com/quickinvoice/invoice-builder-service/internal/storage"
)

// ImageStore abstracts where validated profile/signature images end up.
// storage.S3Uploader satisfies it; when nil, images stay inline as data URLs.
type ImageStore interface {
	UploadImage(imageData []byte, filename, contentType string) (string, error)
}

var _ ImageStore = (*storage.S3Uploader)(nil)

// ProfileService handles business profile operations: load/save of the
// profile document and attaching validated images to it.
type ProfileService interface {
	Get(ctx context.Context, userID string) (*domain.BusinessProfile, error)
	Save(ctx context.Context, profile *domain.BusinessProfile) error

	// PrepareImage validates an upload and returns the URL to store: either
	// a storage bucket URL or an inline data URL.
	PrepareImage(ctx context.Context, userID string, imageData []byte) (string, error)

	AttachImage(ctx context.Context, userID string, kind domain.ProfileImageKind, imageData []byte) (*domain.BusinessProfile, error)
	RemoveImage(ctx context.Context, userID string, kind domain.ProfileImageKind) (*domain.BusinessProfile, error)
}

// ProfileServiceImpl implements ProfileService
type ProfileServiceImpl struct {
	profiles repository.ProfileRepository
	images   ImageStore
}

// NewProfileService creates a new ProfileService. images may be nil, in
// which case uploads are kept inline.
func NewProfileService(profiles repository.ProfileRepository, images ImageStore) *ProfileServiceImpl {
	return &ProfileServiceImpl{
		profiles: profiles,
		images:   images,
	}
}

// Get loads the user's profile. domain.ErrNotFound means no profile has been
// saved yet and is not a failure.
func (s *ProfileServiceImpl) Get(ctx context.Context, userID string) (*domain.BusinessProfile, error) {
	return s.profiles.GetByUserID(ctx, userID)
}

// Save upserts the profile keyed by its user
func (s *ProfileServiceImpl) Save(ctx context.Context, profile *domain.BusinessProfile) error {
	if profile.UserID == "" {
		return fmt.Errorf("profile user id is required")
	}
	return s.profiles.Upsert(ctx, profile)
}

// PrepareImage validates and normalizes an uploaded image, returning the URL
// that should be persisted. Validation failures reject the upload before any
// state changes.
func (s *ProfileServiceImpl) PrepareImage(ctx context.Context, userID string, imageData []byte) (string, error) {
	contentType, err := imageutil.Validate(imageData)
	if err != nil {
		return "", err
	}

	resized, err := imageutil.Resize(imageData, imageutil.DefaultMaxDimension)
	if err != nil {
		// A decodable-type sniff with an undecodable body; keep the original
		resized = imageData
	}

	if s.images != nil {
		ext := "png"
		if contentType == "image/jpeg" {
			ext = "jpg"
		}
		filename := fmt.Sprintf("%s/%s.%s", userID, uuid.NewString(), ext)
		url, err := s.images.UploadImage(resized, filename, contentType)
		if err == nil {
			return url, nil
		}
		// Bucket upload is best-effort; fall back to the inline form
		log.Printf("image upload failed, storing inline: %v", err)
	}

	return imageutil.EncodeDataURL(resized, contentType), nil
}

// AttachImage validates an upload and stores it into the named profile slot,
// creating the profile when it does not exist yet.
func (s *ProfileServiceImpl) AttachImage(ctx context.Context, userID string, kind domain.ProfileImageKind, imageData []byte) (*domain.BusinessProfile, error) {
	url, err := s.PrepareImage(ctx, userID, imageData)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if err != domain.ErrNotFound {
			return nil, err
		}
		profile = &domain.BusinessProfile{UserID: userID}
	}

	profile.SetImage(kind, url)
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// RemoveImage clears the named image slot on the profile. A missing profile
// is a no-op result rather than an error.
func (s *ProfileServiceImpl) RemoveImage(ctx context.Context, userID string, kind domain.ProfileImageKind) (*domain.BusinessProfile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.SetImage(kind, "")
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
