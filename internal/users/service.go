package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/prabhata303-del/Dd/internal/models"
	"github.com/prabhata303-del/Dd/internal/store"
)

// Custom errors for the users service.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrMissingUID      = errors.New("profile uid is required")
)

// Service manages customer profiles under users/{uid} and answers delivery
// partner membership probes. Profile writes patch only the profile fields;
// sibling subtrees like the wishlist stay untouched.
type Service struct {
	store  store.RecordStore
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a users service.
func NewService(rs store.RecordStore, logger *zap.Logger) *Service {
	return &Service{store: rs, logger: logger, now: time.Now}
}

// Fetch loads a profile. Returns ErrProfileNotFound when no record exists.
func (s *Service) Fetch(ctx context.Context, uid string) (*models.User, error) {
	if uid == "" {
		return nil, ErrMissingUID
	}

	var raw json.RawMessage
	if err := s.store.Get(ctx, store.UserPath(uid), &raw); err != nil {
		return nil, fmt.Errorf("fetch profile %s: %w", uid, err)
	}
	if store.IsNull(raw) {
		return nil, ErrProfileNotFound
	}

	var profile models.User
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", uid, err)
	}
	profile.UID = uid
	return &profile, nil
}

// Save upserts a profile. CreatedAt is kept from the stored record when the
// profile already exists.
func (s *Service) Save(ctx context.Context, profile *models.User) error {
	if profile == nil || profile.UID == "" {
		return ErrMissingUID
	}

	now := s.now().UnixMilli()
	createdAt := now
	if existing, err := s.Fetch(ctx, profile.UID); err == nil && existing.CreatedAt != 0 {
		createdAt = existing.CreatedAt
	} else if err != nil && !errors.Is(err, ErrProfileNotFound) {
		return err
	}

	fields := map[string]interface{}{
		"uid":       profile.UID,
		"name":      profile.Name,
		"email":     profile.Email,
		"phone":     profile.Phone,
		"address":   profile.Address,
		"pincode":   profile.Pincode,
		"photoURL":  profile.PhotoURL,
		"createdAt": createdAt,
		"updatedAt": now,
	}
	if err := s.store.Update(ctx, store.UserPath(profile.UID), fields); err != nil {
		return fmt.Errorf("save profile %s: %w", profile.UID, err)
	}
	profile.CreatedAt = createdAt
	profile.UpdatedAt = now
	return nil
}

// Ensure creates a minimal profile from a session on first sign-in. An
// existing profile is returned unchanged.
func (s *Service) Ensure(ctx context.Context, sess *models.Session) (*models.User, error) {
	if sess == nil || sess.UID == "" {
		return nil, ErrMissingUID
	}

	profile, err := s.Fetch(ctx, sess.UID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}

	profile = &models.User{
		UID:      sess.UID,
		Name:     sess.DisplayName,
		Email:    sess.Email,
		PhotoURL: sess.PhotoURL,
	}
	if err := s.Save(ctx, profile); err != nil {
		return nil, err
	}
	s.logger.Info("created profile on first sign-in", zap.String("uid", sess.UID))
	return profile, nil
}

// Apply patches the provided fields onto an existing profile and returns
// the updated record.
func (s *Service) Apply(ctx context.Context, uid string, req models.UpdateProfileRequest) (*models.User, error) {
	if uid == "" {
		return nil, ErrMissingUID
	}
	if _, err := s.Fetch(ctx, uid); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{"updatedAt": s.now().UnixMilli()}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.Pincode != nil {
		fields["pincode"] = *req.Pincode
	}
	if err := s.store.Update(ctx, store.UserPath(uid), fields); err != nil {
		return nil, fmt.Errorf("update profile %s: %w", uid, err)
	}
	return s.Fetch(ctx, uid)
}

// IsDeliveryPartner reports whether a delivery partner record exists for
// the uid.
func (s *Service) IsDeliveryPartner(ctx context.Context, uid string) (bool, error) {
	if uid == "" {
		return false, ErrMissingUID
	}
	var raw json.RawMessage
	if err := s.store.Get(ctx, store.DriverPath(uid), &raw); err != nil {
		return false, fmt.Errorf("check delivery partner %s: %w", uid, err)
	}
	return !store.IsNull(raw), nil
}
