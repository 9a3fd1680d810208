package friend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// Common errors
var (
	ErrFriendNotFound = errors.New("friend not found")
	ErrInvalidPhoto   = errors.New("photo must be an image file")
	ErrUnknownFriends = errors.New("friends not found or not owned by user")
)

// PhotoStore abstracts the object store used for friend photos
type PhotoStore interface {
	Upload(ctx context.Context, reader io.Reader, size int64, contentType string) (string, error)
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// Service handles friend business logic
type Service struct {
	repo   *Repository
	photos PhotoStore
}

// NewService creates a new friend service with dependencies injected
func NewService(repo *Repository, photos PhotoStore) *Service {
	return &Service{repo: repo, photos: photos}
}

// Create creates a new friend for the user
func (s *Service) Create(ctx context.Context, userID int64, req *CreateFriendRequest) (*Friend, error) {
	return s.repo.Create(ctx, userID, req)
}

// GetByID retrieves a friend owned by the user
func (s *Service) GetByID(ctx context.Context, id, userID int64) (*Friend, error) {
	f, err := s.repo.GetByIDAndUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrFriendNotFound
	}
	return f, nil
}

// List retrieves all of the user's friends
func (s *Service) List(ctx context.Context, userID int64) ([]*Friend, error) {
	return s.repo.ListByUser(ctx, userID)
}

// VerifyOwnership checks that every given friend ID belongs to the user
// and returns the friends. Missing or foreign IDs fail the whole call.
func (s *Service) VerifyOwnership(ctx context.Context, ids []int64, userID int64) ([]*Friend, error) {
	friends, err := s.repo.GetByIDsAndUser(ctx, ids, userID)
	if err != nil {
		return nil, err
	}

	if len(friends) != len(distinct(ids)) {
		found := make(map[int64]bool, len(friends))
		for _, f := range friends {
			found[f.ID] = true
		}
		var missing []int64
		for _, id := range ids {
			if !found[id] {
				missing = append(missing, id)
			}
		}
		return nil, fmt.Errorf("%w: %v", ErrUnknownFriends, missing)
	}

	return friends, nil
}

// Update modifies an existing friend
func (s *Service) Update(ctx context.Context, id, userID int64, req *UpdateFriendRequest) (*Friend, error) {
	f, err := s.repo.Update(ctx, id, userID, req)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrFriendNotFound
	}
	return f, nil
}

// UploadPhoto stores a photo for the friend and records its URL
func (s *Service) UploadPhoto(ctx context.Context, id, userID int64, reader io.Reader, size int64, contentType string) (*Friend, error) {
	f, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	key, err := s.photos.Upload(ctx, reader, size, contentType)
	if err != nil {
		return nil, err
	}

	photoURL, err := s.photos.PresignedURL(ctx, key, 7*24*time.Hour)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetPhotoURL(ctx, id, userID, photoURL); err != nil {
		return nil, err
	}

	f.PhotoURL = photoURL
	return f, nil
}

// Delete removes a friend
func (s *Service) Delete(ctx context.Context, id, userID int64) error {
	return s.repo.Delete(ctx, id, userID)
}

func distinct(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
