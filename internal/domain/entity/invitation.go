package entity

import "time"

// Invitation representa una autorización pendiente acotada a una empresa y un
// email. Autoritativa en la nube: un fallo remoto se propaga al llamador.
type Invitation struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CompanyID string    `json:"companyId"`
	Role      string    `json:"role"`
	InvitedBy string    `json:"invitedBy"`
	Status    string    `json:"status"` // pending, accepted, revoked
	CreatedAt time.Time `json:"createdAt"`
}

// Estados posibles de una invitación.
const (
	InvitationStatusPending  = "pending"
	InvitationStatusAccepted = "accepted"
	InvitationStatusRevoked  = "revoked"
)
