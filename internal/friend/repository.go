package friend

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// Repository handles friend data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new friend repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new friend into the database
func (r *Repository) Create(ctx context.Context, userID int64, req *CreateFriendRequest) (*Friend, error) {
	query := `
		INSERT INTO friends (user_id, name, photo_url)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, name, photo_url, created_at
	`

	f := &Friend{}
	err := r.db.QueryRowContext(ctx, query, userID, req.Name, req.PhotoURL).Scan(
		&f.ID,
		&f.UserID,
		&f.Name,
		&f.PhotoURL,
		&f.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create friend: %w", err)
	}

	return f, nil
}

// GetByIDAndUser retrieves a friend owned by the given user
func (r *Repository) GetByIDAndUser(ctx context.Context, id, userID int64) (*Friend, error) {
	query := `
		SELECT id, user_id, name, photo_url, created_at
		FROM friends
		WHERE id = $1 AND user_id = $2
	`

	f := &Friend{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&f.ID,
		&f.UserID,
		&f.Name,
		&f.PhotoURL,
		&f.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get friend: %w", err)
	}

	return f, nil
}

// ListByUser retrieves all friends owned by the given user
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]*Friend, error) {
	query := `
		SELECT id, user_id, name, photo_url, created_at
		FROM friends
		WHERE user_id = $1
		ORDER BY name, id
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	var friends []*Friend
	for rows.Next() {
		f := &Friend{}
		if err := rows.Scan(&f.ID, &f.UserID, &f.Name, &f.PhotoURL, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		friends = append(friends, f)
	}

	return friends, nil
}

// GetByIDsAndUser retrieves the subset of the given friend IDs owned by the user
func (r *Repository) GetByIDsAndUser(ctx context.Context, ids []int64, userID int64) ([]*Friend, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, user_id, name, photo_url, created_at
		FROM friends
		WHERE id = ANY($1) AND user_id = $2
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get friends by ids: %w", err)
	}
	defer rows.Close()

	var friends []*Friend
	for rows.Next() {
		f := &Friend{}
		if err := rows.Scan(&f.ID, &f.UserID, &f.Name, &f.PhotoURL, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		friends = append(friends, f)
	}

	return friends, nil
}

// Update modifies an existing friend
func (r *Repository) Update(ctx context.Context, id, userID int64, req *UpdateFriendRequest) (*Friend, error) {
	query := `
		UPDATE friends
		SET name = COALESCE($3, name), photo_url = COALESCE($4, photo_url)
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, name, photo_url, created_at
	`

	f := &Friend{}
	err := r.db.QueryRowContext(ctx, query, id, userID, req.Name, req.PhotoURL).Scan(
		&f.ID,
		&f.UserID,
		&f.Name,
		&f.PhotoURL,
		&f.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update friend: %w", err)
	}

	return f, nil
}

// SetPhotoURL stores the photo URL for a friend
func (r *Repository) SetPhotoURL(ctx context.Context, id, userID int64, photoURL string) error {
	query := `UPDATE friends SET photo_url = $3 WHERE id = $1 AND user_id = $2`
	if _, err := r.db.ExecContext(ctx, query, id, userID, photoURL); err != nil {
		return fmt.Errorf("failed to set friend photo: %w", err)
	}
	return nil
}

// Delete removes a friend and all their item/receipt associations
func (r *Repository) Delete(ctx context.Context, id, userID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM friends WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete friend: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrFriendNotFound
	}

	return nil
}
