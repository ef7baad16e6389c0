// internal/auth/entitlement.go
package auth

import (
	"fmt"

	"github.com/reviewloop/reviewloop-backend/internal/model"
	"github.com/reviewloop/reviewloop-backend/internal/repository"
)

// Entitlement is the result of a plan check: either access, or a
// human-readable reason for the 403.
type Entitlement struct {
	HasAccess bool   `json:"has_access"`
	Reason    string `json:"reason,omitempty"`
}

type EntitlementChecker interface {
	Check(userID int) (Entitlement, error)
}

// PlanEntitlementChecker gates automation to paid plans.
type PlanEntitlementChecker struct {
	Users repository.UserRepositoryInterface
}

func (c *PlanEntitlementChecker) Check(userID int) (Entitlement, error) {
	user, err := c.Users.GetByID(userID)
	if err != nil {
		return Entitlement{}, err
	}
	if user == nil {
		return Entitlement{Reason: fmt.Sprintf("user %d not found", userID)}, nil
	}

	switch user.Plan {
	case model.PlanPro, model.PlanBusiness:
		return Entitlement{HasAccess: true}, nil
	default:
		return Entitlement{
			Reason: "automation requires a Pro or Business subscription",
		}, nil
	}
}

var _ EntitlementChecker = (*PlanEntitlementChecker)(nil)
