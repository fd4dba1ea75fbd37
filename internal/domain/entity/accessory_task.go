package entity

import "time"

// AccessoryTask representa una entrada de calendario, opcionalmente ligada a un
// proyecto. ProjectID vacío = sin proyecto (NULL en remoto).
type AccessoryTask struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"companyId"`
	ProjectID   string    `json:"projectId,omitempty"`
	Date        time.Time `json:"date"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}
