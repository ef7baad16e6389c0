package repository

import (
	"database/sql"

	"github.com/reviewloop/reviewloop-backend/internal/model"
)

type UserRepositoryInterface interface {
	GetByID(id int) (*model.User, error)
}

type UserRepository struct {
	DB *sql.DB
}

func (r *UserRepository) GetByID(id int) (*model.User, error) {
	query := `SELECT id, email, company_name, review_url, plan, created_at FROM users WHERE id=$1`
	var u model.User
	err := r.DB.QueryRow(query, id).Scan(
		&u.ID, &u.Email, &u.CompanyName, &u.ReviewURL, &u.Plan, &u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

var _ UserRepositoryInterface = (*UserRepository)(nil)
