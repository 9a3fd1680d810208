package friend

import "time"

// CreateFriendRequest represents the request body for creating a friend
type CreateFriendRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=50"`
	PhotoURL string `json:"photo_url,omitempty"`
}

// UpdateFriendRequest represents the request body for updating a friend
type UpdateFriendRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=50"`
	PhotoURL *string `json:"photo_url,omitempty"`
}

// FriendResponse represents the response for a single friend
type FriendResponse struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Name      string `json:"name"`
	PhotoURL  string `json:"photo_url,omitempty"`
	CreatedAt string `json:"created_at"`
}

// ToResponse converts a Friend model to a FriendResponse DTO
func (f *Friend) ToResponse() *FriendResponse {
	return &FriendResponse{
		ID:        f.ID,
		UserID:    f.UserID,
		Name:      f.Name,
		PhotoURL:  f.PhotoURL,
		CreatedAt: f.CreatedAt.UTC().Format(time.RFC3339),
	}
}
