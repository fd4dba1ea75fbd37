package entity

// UserRole representa un conjunto global de permisos (no acotado a empresa).
// Los cambios de rol son autoritativos en la nube: un fallo remoto se propaga.
type UserRole struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"` // jsonb en remoto
}
