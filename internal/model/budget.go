package model

import (
	"time"

	"github.com/google/uuid"
)

type BudgetStatus string

const (
	BudgetStatusDraft    BudgetStatus = "em_orcamento"
	BudgetStatusApproved BudgetStatus = "aprovado"
)

type PlanType string

const (
	PlanTypeParticular PlanType = "Particular"
	PlanTypeConvenio   PlanType = "Convênio"
)

func (t PlanType) Valid() bool {
	return t == PlanTypeParticular || t == PlanTypeConvenio
}

// TreatmentItem is one committed line of a treatment plan: a procedure, its
// value and the teeth it applies to. Teeth are stored sorted.
type TreatmentItem struct {
	Procedure string    `json:"procedure"`
	Value     float64   `json:"value"`
	Teeth     []int     `json:"teeth"`
	Dentition Dentition `json:"dentition"`
}

type Budget struct {
	Base
	PatientID        uuid.UUID       `db:"patient_id" json:"patient_id"`
	Description      string          `db:"description" json:"description"`
	PlanType         PlanType        `db:"plan_type" json:"plan_type"`
	ResponsibleParty string          `db:"responsible_party" json:"responsible_party,omitempty"`
	Date             time.Time       `db:"date" json:"date"`
	Items            []TreatmentItem `db:"-" json:"items"`
	ItemsJSON        string          `db:"items" json:"-"`
	Installments     int             `db:"installments" json:"installments"`
	DueDay           int             `db:"due_day" json:"due_day"`
	Status           BudgetStatus    `db:"status" json:"status"`
	ApprovedAt       *time.Time      `db:"approved_at" json:"approved_at,omitempty"`
	Total            float64         `db:"total" json:"total"`
}

// ComputeTotal sums the current items. The stored total column is a
// convenience copy; this derivation is authoritative.
func (b *Budget) ComputeTotal() float64 {
	var total float64
	for _, item := range b.Items {
		total += item.Value
	}
	return total
}

type BudgetFilters struct {
	PatientID uuid.UUID
	Status    BudgetStatus
}
