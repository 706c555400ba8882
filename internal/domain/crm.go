package domain

import (
	"strings"
	"time"
)

const (
	DealStatusWon  = "won"
	DealStatusLost = "lost"

	TaskStatusCompleted = "completed"

	VisitStatusCompleted = "completed"
)

// Lead representa um contato captado ainda não convertido em cliente
type Lead struct {
	Record       `mapstructure:",squash"`
	Name         string  `json:"name" mapstructure:"name"`
	Source       string  `json:"source" mapstructure:"source"`
	InterestType string  `json:"interestType" mapstructure:"interestType"`
	Budget       float64 `json:"budget" mapstructure:"budget"`
	Interactions int     `json:"interactions" mapstructure:"interactions"`
	Status       string  `json:"status" mapstructure:"status"`
}

type Client struct {
	Record     `mapstructure:",squash"`
	Name       string  `json:"name" mapstructure:"name"`
	LeadID     string  `json:"leadId,omitempty" mapstructure:"leadId"`
	Value      float64 `json:"value" mapstructure:"value"`
	Engagement string  `json:"engagement" mapstructure:"engagement"`
}

type Visit struct {
	Record        `mapstructure:",squash"`
	ClientID      string     `json:"clientId" mapstructure:"clientId"`
	ScheduledDate *time.Time `json:"scheduledDate,omitempty" mapstructure:"scheduledDate"`
	Status        string     `json:"status" mapstructure:"status"`
	Completed     bool       `json:"completed" mapstructure:"completed"`
}

// IsCompleted considera tanto o status quanto a flag de conclusão
func (v *Visit) IsCompleted() bool {
	return v.Completed || strings.EqualFold(v.Status, VisitStatusCompleted)
}

type Opportunity struct {
	Record            `mapstructure:",squash"`
	Title             string     `json:"title" mapstructure:"title"`
	EstimatedValue    float64    `json:"estimatedValue" mapstructure:"estimatedValue"`
	Probability       float64    `json:"probability" mapstructure:"probability"`
	Status            string     `json:"status" mapstructure:"status"`
	ExpectedCloseDate *time.Time `json:"expectedCloseDate,omitempty" mapstructure:"expectedCloseDate"`
	ActualCloseDate   *time.Time `json:"actualCloseDate,omitempty" mapstructure:"actualCloseDate"`
}

type Deal struct {
	Record               `mapstructure:",squash"`
	Title                string     `json:"title" mapstructure:"title"`
	TotalValue           float64    `json:"totalValue" mapstructure:"totalValue"`
	CommissionPercentage *float64   `json:"commissionPercentage,omitempty" mapstructure:"commissionPercentage"`
	Status               string     `json:"status" mapstructure:"status"`
	ClosedAt             *time.Time `json:"closedAt,omitempty" mapstructure:"closedAt"`
}

func (d *Deal) IsWon() bool {
	return strings.EqualFold(d.Status, DealStatusWon)
}

func (d *Deal) IsLost() bool {
	return strings.EqualFold(d.Status, DealStatusLost)
}

type Task struct {
	Record     `mapstructure:",squash"`
	Title      string     `json:"title" mapstructure:"title"`
	Status     string     `json:"status" mapstructure:"status"`
	DueDate    *time.Time `json:"dueDate,omitempty" mapstructure:"dueDate"`
	AssignedTo string     `json:"assignedTo" mapstructure:"assignedTo"`
}

func (t *Task) IsCompleted() bool {
	return strings.EqualFold(t.Status, TaskStatusCompleted)
}

// IsOverdue indica tarefa aberta com vencimento anterior a now
func (t *Task) IsOverdue(now time.Time) bool {
	return !t.IsCompleted() && HasTime(t.DueDate) && t.DueDate.Before(now)
}

// HasTime indica data presente e preenchida
func HasTime(t *time.Time) bool {
	return t != nil && !t.IsZero()
}
