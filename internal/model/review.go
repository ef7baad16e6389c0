// internal/model/review.go
package model

import (
	"strings"
	"time"
)

// AnonymousPrefix marks customer identifiers that do not map to a stored
// customer record. Anonymous reviews carry their contact data inline.
const AnonymousPrefix = "anonymous"

// Review is a consumed record: the core reads reviews, it never writes them.
type Review struct {
	ID            string    `db:"id" json:"id"`
	UserID        int       `db:"user_id" json:"user_id"`
	CustomerID    string    `db:"customer_id" json:"customer_id"`
	CustomerName  string    `db:"customer_name" json:"customer_name"`
	CustomerEmail string    `db:"customer_email" json:"customer_email"`
	Rating        int       `db:"rating" json:"rating"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// IsAnonymous reports whether the review's customer identifier is the
// anonymous sentinel rather than a real customer record id.
func (r *Review) IsAnonymous() bool {
	return strings.HasPrefix(r.CustomerID, AnonymousPrefix)
}
