package repository

import (
	"database/sql"

	"github.com/reviewloop/reviewloop-backend/internal/model"
)

// CustomerRepositoryInterface defines the narrow read surface the
// scheduler needs; customer records are owned elsewhere.
type CustomerRepositoryInterface interface {
	GetByID(id string, userID int) (*model.Customer, error)
}

type CustomerRepository struct {
	DB *sql.DB
}

// GetByID fetches a customer scoped to its owning business. Returns
// nil, nil when not found.
func (r *CustomerRepository) GetByID(id string, userID int) (*model.Customer, error) {
	query := `
        SELECT id, user_id, name, email, phone, created_at
        FROM customers
        WHERE id = $1 AND user_id = $2
    `
	row := r.DB.QueryRow(query, id, userID)

	var c model.Customer
	var email, phone sql.NullString
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &email, &phone, &c.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	c.Email = email.String
	c.Phone = phone.String
	return &c, nil
}

var _ CustomerRepositoryInterface = (*CustomerRepository)(nil)
