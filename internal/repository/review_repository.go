package repository

import (
	"database/sql"
	"time"

	"github.com/reviewloop/reviewloop-backend/internal/model"
)

type ReviewRepositoryInterface interface {
	GetByID(id string) (*model.Review, error)
	ListRecentByUser(userID int, since time.Time) ([]*model.Review, error)
}

type ReviewRepository struct {
	DB *sql.DB
}

const reviewColumns = `id, user_id, customer_id, customer_name, customer_email, rating, created_at`

func (r *ReviewRepository) GetByID(id string) (*model.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id=$1`
	var rev model.Review
	err := r.DB.QueryRow(query, id).Scan(
		&rev.ID, &rev.UserID, &rev.CustomerID, &rev.CustomerName,
		&rev.CustomerEmail, &rev.Rating, &rev.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rev, nil
}

// ListRecentByUser feeds the template-saved backfill pass.
func (r *ReviewRepository) ListRecentByUser(userID int, since time.Time) ([]*model.Review, error) {
	query := `
        SELECT ` + reviewColumns + `
        FROM reviews
        WHERE user_id=$1 AND created_at >= $2
        ORDER BY created_at DESC
    `
	rows, err := r.DB.Query(query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []*model.Review{}
	for rows.Next() {
		rev := &model.Review{}
		if err := rows.Scan(
			&rev.ID, &rev.UserID, &rev.CustomerID, &rev.CustomerName,
			&rev.CustomerEmail, &rev.Rating, &rev.CreatedAt,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}

var _ ReviewRepositoryInterface = (*ReviewRepository)(nil)
