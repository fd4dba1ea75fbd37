package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Task representa una tarea de un proyecto. Lleva companyId desnormalizado
// para poder filtrar por tenant sin resolver el proyecto.
type Task struct {
	ID               string          `json:"id"`
	ProjectID        string          `json:"projectId"`
	CompanyID        string          `json:"companyId"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	StartDate        time.Time       `json:"startDate"`
	EndDate          time.Time       `json:"endDate"`
	Goal             string          `json:"goal"`
	LinkedObjectives []string        `json:"linkedObjectives"` // jsonb en remoto
	Budget           decimal.Decimal `json:"budget"`
	Involved         string          `json:"involved"`
	TargetAudience   string          `json:"targetAudience"`
	Status           string          `json:"status"` // pending, in_progress, done
	Attachments      []string        `json:"attachments"` // jsonb en remoto
	CreatedAt        time.Time       `json:"createdAt"`
}

// Estados posibles de una tarea.
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)
