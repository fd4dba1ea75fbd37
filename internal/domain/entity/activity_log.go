package entity

import "time"

// ActivityLog representa un registro de auditoría inmutable, acotado a una
// empresa y un usuario. Nunca se muta después de escribirse (append-only).
type ActivityLog struct {
	ID         string    `json:"id"`
	CompanyID  string    `json:"companyId"`
	UserID     string    `json:"userId"`
	UserName   string    `json:"userName"`
	UserEmail  string    `json:"userEmail"`
	Action     string    `json:"action"` // ver constantes Action*
	Details    string    `json:"details"`
	IPAddress  string    `json:"ipAddress"`
	DeviceInfo string    `json:"deviceInfo"`
	Timestamp  time.Time `json:"timestamp"`
}

// Categorías de acción registradas en los logs de auditoría.
const (
	ActionLogin         = "LOGIN"
	ActionTaskCreate    = "TASK_CREATE"
	ActionTaskUpdate    = "TASK_UPDATE"
	ActionTaskDelete    = "TASK_DELETE"
	ActionProjectCreate = "PROJECT_CREATE"
	ActionProjectUpdate = "PROJECT_UPDATE"
	ActionProjectDelete = "PROJECT_DELETE"
	ActionUserCreate    = "USER_CREATE"
	ActionUserUpdate    = "USER_UPDATE"
)
