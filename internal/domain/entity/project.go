package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project representa un proyecto de una empresa, con presupuesto, rango de
// fechas y objetivos. Pertenece a exactamente una Company.
type Project struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"companyId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	TotalBudget decimal.Decimal `json:"totalBudget"`
	Objectives  []string        `json:"objectives"` // jsonb en remoto
	StartDate   time.Time       `json:"startDate"`
	EndDate     time.Time       `json:"endDate"`
	Status      string          `json:"status"` // planning, active, paused, completed
	CreatedAt   time.Time       `json:"createdAt"`
	LogoData    string          `json:"logoData"`
}

// Estados posibles de un proyecto.
const (
	ProjectStatusPlanning  = "planning"
	ProjectStatusActive    = "active"
	ProjectStatusPaused    = "paused"
	ProjectStatusCompleted = "completed"
)
