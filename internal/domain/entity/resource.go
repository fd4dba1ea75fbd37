package entity

import "time"

// HelpResource representa material de ayuda global (no acotado a empresa).
// Autoritativo en la nube: un fallo remoto se propaga al llamador.
type HelpResource struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Content   string    `json:"content"`
	VideoURL  string    `json:"videoUrl"`
	CreatedAt time.Time `json:"createdAt"`
}
