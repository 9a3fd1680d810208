package receipt

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// Repository handles receipt data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new receipt repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a receipt with its items, variations and friend
// associations in a single transaction.
func (r *Repository) Create(ctx context.Context, userID int64, req *CreateReceiptRequest) (*Receipt, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	receipt := &Receipt{}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO receipts (user_id, restaurant_name, total_amount, tax, service_charge, currency, receipt_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, user_id, restaurant_name, total_amount, tax, service_charge, currency, receipt_url, created_at, updated_at
	`, userID, req.RestaurantName, req.TotalAmount, req.Tax, req.ServiceCharge, req.Currency, req.ReceiptURL).Scan(
		&receipt.ID,
		&receipt.UserID,
		&receipt.RestaurantName,
		&receipt.TotalAmount,
		&receipt.Tax,
		&receipt.ServiceCharge,
		&receipt.Currency,
		&receipt.ReceiptURL,
		&receipt.CreatedAt,
		&receipt.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create receipt: %w", err)
	}

	for _, itemReq := range req.Items {
		item := &Item{ReceiptID: receipt.ID}
		err = tx.QueryRowContext(ctx, `
			INSERT INTO items (receipt_id, item_name, quantity, unit_price)
			VALUES ($1, $2, $3, $4)
			RETURNING id, item_name, quantity, unit_price
		`, receipt.ID, itemReq.ItemName, itemReq.Quantity, itemReq.UnitPrice).Scan(
			&item.ID,
			&item.ItemName,
			&item.Quantity,
			&item.UnitPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create item: %w", err)
		}

		for _, varReq := range itemReq.Variations {
			variation := &Variation{ItemID: item.ID}
			err = tx.QueryRowContext(ctx, `
				INSERT INTO variations (item_id, variation_name, price)
				VALUES ($1, $2, $3)
				RETURNING id, variation_name, price
			`, item.ID, varReq.VariationName, varReq.Price).Scan(
				&variation.ID,
				&variation.VariationName,
				&variation.Price,
			)
			if err != nil {
				return nil, fmt.Errorf("failed to create variation: %w", err)
			}
			item.Variations = append(item.Variations, variation)
		}

		receipt.Items = append(receipt.Items, item)
	}

	for _, friendID := range req.FriendIDs {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO receipt_friends (receipt_id, friend_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, receipt.ID, friendID)
		if err != nil {
			return nil, fmt.Errorf("failed to associate friend with receipt: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return receipt, nil
}

// GetByIDAndUser retrieves a receipt with its items, variations and
// friend associations. Returns nil when not found.
func (r *Repository) GetByIDAndUser(ctx context.Context, id, userID int64) (*Receipt, error) {
	receipt := &Receipt{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, restaurant_name, total_amount, tax, service_charge, currency, receipt_url, created_at, updated_at
		FROM receipts
		WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(
		&receipt.ID,
		&receipt.UserID,
		&receipt.RestaurantName,
		&receipt.TotalAmount,
		&receipt.Tax,
		&receipt.ServiceCharge,
		&receipt.Currency,
		&receipt.ReceiptURL,
		&receipt.CreatedAt,
		&receipt.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}

	if err := r.loadItems(ctx, receipt); err != nil {
		return nil, err
	}
	if err := r.loadFriends(ctx, receipt); err != nil {
		return nil, err
	}

	return receipt, nil
}

// ListByUser retrieves the user's receipts ordered by newest first,
// with items and friends loaded. Returns the page plus the total count.
func (r *Repository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*Receipt, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM receipts WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count receipts: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, restaurant_name, total_amount, tax, service_charge, currency, receipt_url, created_at, updated_at
		FROM receipts
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list receipts: %w", err)
	}
	defer rows.Close()

	var receipts []*Receipt
	for rows.Next() {
		receipt := &Receipt{}
		if err := rows.Scan(
			&receipt.ID,
			&receipt.UserID,
			&receipt.RestaurantName,
			&receipt.TotalAmount,
			&receipt.Tax,
			&receipt.ServiceCharge,
			&receipt.Currency,
			&receipt.ReceiptURL,
			&receipt.CreatedAt,
			&receipt.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan receipt: %w", err)
		}
		receipts = append(receipts, receipt)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate receipts: %w", err)
	}

	for _, receipt := range receipts {
		if err := r.loadItems(ctx, receipt); err != nil {
			return nil, 0, err
		}
		if err := r.loadFriends(ctx, receipt); err != nil {
			return nil, 0, err
		}
	}

	return receipts, total, nil
}

// Delete removes a receipt; items, variations and associations cascade
func (r *Repository) Delete(ctx context.Context, id, userID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM receipts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete receipt: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0, nil
}

// GetItemReceiptID returns the ID of the user's receipt the item sits on,
// or 0 when the item does not exist or belongs to another user.
func (r *Repository) GetItemReceiptID(ctx context.Context, itemID, userID int64) (int64, error) {
	var receiptID int64
	err := r.db.QueryRowContext(ctx, `
		SELECT i.receipt_id
		FROM items i
		JOIN receipts rc ON rc.id = i.receipt_id
		WHERE i.id = $1 AND rc.user_id = $2
	`, itemID, userID).Scan(&receiptID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to check item ownership: %w", err)
	}
	return receiptID, nil
}

// ReplaceItemFriends replaces the friends assigned to an item. An empty
// friendIDs list clears all assignments.
func (r *Repository) ReplaceItemFriends(ctx context.Context, itemID int64, friendIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM item_friends WHERE item_id = $1`, itemID); err != nil {
		return fmt.Errorf("failed to clear item friends: %w", err)
	}

	for _, friendID := range friendIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO item_friends (item_id, friend_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, itemID, friendID); err != nil {
			return fmt.Errorf("failed to assign friend to item: %w", err)
		}
	}

	return tx.Commit()
}

// AddReceiptFriends associates friends with a receipt
func (r *Repository) AddReceiptFriends(ctx context.Context, receiptID int64, friendIDs []int64) error {
	for _, friendID := range friendIDs {
		if _, err := r.db.ExecContext(ctx, `
			INSERT INTO receipt_friends (receipt_id, friend_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, receiptID, friendID); err != nil {
			return fmt.Errorf("failed to associate friend with receipt: %w", err)
		}
	}
	return nil
}

// RemoveReceiptFriend drops a friend from a receipt and from all of the
// receipt's item assignments.
func (r *Repository) RemoveReceiptFriend(ctx context.Context, receiptID, friendID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM item_friends
		WHERE friend_id = $1 AND item_id IN (SELECT id FROM items WHERE receipt_id = $2)
	`, friendID, receiptID); err != nil {
		return fmt.Errorf("failed to clear item assignments: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM receipt_friends WHERE receipt_id = $1 AND friend_id = $2
	`, receiptID, friendID); err != nil {
		return fmt.Errorf("failed to remove friend from receipt: %w", err)
	}

	return tx.Commit()
}

// loadItems populates the receipt's items, their variations and their
// assigned friend IDs.
func (r *Repository) loadItems(ctx context.Context, receipt *Receipt) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, receipt_id, item_name, quantity, unit_price
		FROM items
		WHERE receipt_id = $1
		ORDER BY id
	`, receipt.ID)
	if err != nil {
		return fmt.Errorf("failed to load items: %w", err)
	}
	defer rows.Close()

	itemsByID := make(map[int64]*Item)
	var itemIDs []int64
	for rows.Next() {
		item := &Item{}
		if err := rows.Scan(&item.ID, &item.ReceiptID, &item.ItemName, &item.Quantity, &item.UnitPrice); err != nil {
			return fmt.Errorf("failed to scan item: %w", err)
		}
		receipt.Items = append(receipt.Items, item)
		itemsByID[item.ID] = item
		itemIDs = append(itemIDs, item.ID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate items: %w", err)
	}

	if len(itemIDs) == 0 {
		return nil
	}

	varRows, err := r.db.QueryContext(ctx, `
		SELECT id, item_id, variation_name, price
		FROM variations
		WHERE item_id = ANY($1)
		ORDER BY id
	`, pq.Array(itemIDs))
	if err != nil {
		return fmt.Errorf("failed to load variations: %w", err)
	}
	defer varRows.Close()

	for varRows.Next() {
		variation := &Variation{}
		if err := varRows.Scan(&variation.ID, &variation.ItemID, &variation.VariationName, &variation.Price); err != nil {
			return fmt.Errorf("failed to scan variation: %w", err)
		}
		if item, ok := itemsByID[variation.ItemID]; ok {
			item.Variations = append(item.Variations, variation)
		}
	}
	if err := varRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate variations: %w", err)
	}

	assignRows, err := r.db.QueryContext(ctx, `
		SELECT item_id, friend_id
		FROM item_friends
		WHERE item_id = ANY($1)
		ORDER BY item_id, friend_id
	`, pq.Array(itemIDs))
	if err != nil {
		return fmt.Errorf("failed to load item friends: %w", err)
	}
	defer assignRows.Close()

	for assignRows.Next() {
		var itemID, friendID int64
		if err := assignRows.Scan(&itemID, &friendID); err != nil {
			return fmt.Errorf("failed to scan item friend: %w", err)
		}
		if item, ok := itemsByID[itemID]; ok {
			item.FriendIDs = append(item.FriendIDs, friendID)
		}
	}
	return assignRows.Err()
}

// loadFriends populates the receipt's associated friends
func (r *Repository) loadFriends(ctx context.Context, receipt *Receipt) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT f.id, f.name, f.photo_url
		FROM receipt_friends rf
		JOIN friends f ON f.id = rf.friend_id
		WHERE rf.receipt_id = $1
		ORDER BY f.id
	`, receipt.ID)
	if err != nil {
		return fmt.Errorf("failed to load receipt friends: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		friend := &ReceiptFriend{}
		if err := rows.Scan(&friend.ID, &friend.Name, &friend.PhotoURL); err != nil {
			return fmt.Errorf("failed to scan receipt friend: %w", err)
		}
		receipt.Friends = append(receipt.Friends, friend)
	}
	return rows.Err()
}
