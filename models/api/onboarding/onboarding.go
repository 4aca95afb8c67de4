package onboardingapimodels

import (
	"strings"

	"github.com/pkg/errors"
	"hr-agent-backend/lib/onboarding"
)

type CreateRequest struct {
	onboarding.CreateRequest
}

func (r CreateRequest) Validate() error {
	if strings.TrimSpace(r.EmployeeID) == "" {
		return errors.New("employee_id is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if r.Email != "" && !strings.Contains(r.Email, "@") {
		return errors.New("email is not valid")
	}
	return nil
}

type TaskUpdate struct {
	Status onboarding.TaskStatus `json:"status"`
}

type BuddyRequest struct {
	BuddyID string `json:"buddy_id"`
}

func (r BuddyRequest) Validate() error {
	if strings.TrimSpace(r.BuddyID) == "" {
		return errors.New("buddy_id is required")
	}
	return nil
}

type OrientationRequest struct {
	PreferredDate string `json:"preferred_date"`
	PreferredTime string `json:"preferred_time"`
}

type DocumentUpdate struct {
	Status onboarding.DocStatus `json:"status"`
}

type ListFilter struct {
	EmployeeID string `query:"employee_id"`
	Status     string `query:"status"`
}
