package settings

import (
	"github.com/go-playground/validator/v10"

	"github.com/academykit/kiosk/core"
)

// Settings is the singleton configuration record owned by the backend.
// It drives the check-in eligibility rules.
type Settings struct {
	ID                     string   `json:"id,omitempty"`
	BlockedStatuses        []string `json:"blockedStatuses"`
	EnforceClassEndDate    bool     `json:"enforceClassEndDate"`
	EnforcePracticeEndDate bool     `json:"enforcePracticeEndDate"`
}

// Default is the safe fallback used whenever the backend copy cannot be
// fetched: suspended students stay blocked, date rules stay off. A
// settings outage must neither allow-all nor break kiosk login.
func Default() Settings {
	return Settings{BlockedStatuses: []string{"Suspended"}}
}

// Blocks reports whether status is on the blocked list (exact match).
func (s Settings) Blocks(status string) bool {
	for _, blocked := range s.BlockedStatuses {
		if blocked == status {
			return true
		}
	}
	return false
}

// UpdateSettings is the back-office payload for saving the singleton.
type UpdateSettings struct {
	BlockedStatuses        []string `json:"blockedStatuses" validate:"omitempty,dive,required"`
	EnforceClassEndDate    bool     `json:"enforceClassEndDate"`
	EnforcePracticeEndDate bool     `json:"enforcePracticeEndDate"`
}

func (us *UpdateSettings) Validate(validate *validator.Validate) error {
	cleaned := make([]string, 0, len(us.BlockedStatuses))
	for _, status := range us.BlockedStatuses {
		if status = core.CleanString(status); status != "" {
			cleaned = append(cleaned, status)
		}
	}
	us.BlockedStatuses = cleaned
	return validate.Struct(us)
}

func (us UpdateSettings) Settings(id string) Settings {
	return Settings{
		ID:                     id,
		BlockedStatuses:        us.BlockedStatuses,
		EnforceClassEndDate:    us.EnforceClassEndDate,
		EnforcePracticeEndDate: us.EnforcePracticeEndDate,
	}
}
