// internal/model/user.go
package model

import "time"

// Plan values. Automation is gated to paid plans.
const (
	PlanFree     = "free"
	PlanPro      = "pro"
	PlanBusiness = "business"
)

// User is the business profile: the sender identity and review link used
// when personalizing outbound messages.
type User struct {
	ID          int       `db:"id" json:"id"`
	Email       string    `db:"email" json:"email"`
	CompanyName string    `db:"company_name" json:"company_name"`
	ReviewURL   string    `db:"review_url" json:"review_url"`
	Plan        string    `db:"plan" json:"plan"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
