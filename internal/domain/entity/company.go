package entity

import "time"

// Company representa una organización/tenant del sistema (multi-tenant, marca blanca).
// Es dueña del branding, del texto de la persona IA y de los documentos legales.
type Company struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	CNPJ            string    `json:"cnpj"` // CNPJ brasileño (con o sin formato)
	Email           string    `json:"email"`
	LogoData        string    `json:"logoData"`        // imagen en data-URL
	LoginBgData     string    `json:"loginBgData"`     // fondo de la pantalla de login
	ChatbotIconData string    `json:"chatbotIconData"` // icono del asistente
	PrimaryColor    string    `json:"primaryColor"`
	AppName         string    `json:"appName"`
	PrivacyPolicy   string    `json:"privacyPolicy"`
	TermsOfUse      string    `json:"termsOfUse"`
	AIPersona       string    `json:"aiPersona"`
	AIDefinitions   string    `json:"aiDefinitions"`
	Status          string    `json:"status"` // active, suspended, inactive
	ContractActive  bool      `json:"contractActive"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Estados posibles de una empresa.
const (
	CompanyStatusActive    = "active"
	CompanyStatusSuspended = "suspended"
	CompanyStatusInactive  = "inactive"
)
