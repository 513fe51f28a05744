package candidate

import "github.com/talentgrid/hiring-management/internal"

type UpdateStatusDTO struct {
	Status string `json:"status"`
}

func (d UpdateStatusDTO) Validate() error {
	if d.Status == "" {
		return internal.NewValidationFieldError("status", "status is required", internal.ErrCodeValidationFailed)
	}
	if !Status(d.Status).Valid() {
		return internal.NewValidationFieldError("status", "unknown candidate status", internal.ErrCodeValidationFailed)
	}
	return nil
}

// PoolEntry is the admin-facing row for a candidate account available
// for delivery.
type PoolEntry struct {
	UserID      int64  `json:"user_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	LinkedinURL string `json:"linkedin_url,omitempty"`
	ResumeURL   string `json:"resume_url,omitempty"`
}
