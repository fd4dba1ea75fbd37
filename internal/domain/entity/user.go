package entity

import "time"

// User representa un usuario de una empresa, con rol y consentimientos LGPD.
// El email es único en todo el sistema (índice único local + constraint remoto).
type User struct {
	ID              string     `json:"id"`
	CompanyID       string     `json:"companyId"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Role            string     `json:"role"`
	Status          string     `json:"status"` // active, inactive
	FirstAccessDone bool       `json:"firstAccessDone"`
	LGPDConsent     bool       `json:"lgpdConsent"`
	LGPDConsentDate *time.Time `json:"lgpdConsentDate,omitempty"` // nil = sin consentimiento registrado
	CreatedAt       time.Time  `json:"createdAt"`
}

// Estados posibles de un usuario.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)
