package model

import (
	"github.com/google/uuid"
)

type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

func (s InvoiceStatus) Valid() bool {
	return s == InvoiceStatusPending || s == InvoiceStatusPaid || s == InvoiceStatusOverdue
}

// PaymentMethod is recorded independently of status: a paid invoice still
// records which method settled it.
type PaymentMethod string

const (
	PaymentMethodCash        PaymentMethod = "cash"
	PaymentMethodCard        PaymentMethod = "card"
	PaymentMethodOnline      PaymentMethod = "online"
	PaymentMethodUnspecified PaymentMethod = "unspecified"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodOnline, PaymentMethodUnspecified:
		return true
	}
	return false
}

type InvoiceItem struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type Invoice struct {
	Base
	Number        string          `db:"number" json:"number"`
	PatientID     uuid.UUID       `db:"patient_id" json:"patient_id"`
	Patient       PatientSnapshot `db:"patient" json:"patient"`
	Items         []InvoiceItem   `db:"-" json:"items"`
	ItemsJSON     string          `db:"items" json:"-"`
	Total         float64         `db:"total" json:"total"`
	Status        InvoiceStatus   `db:"status" json:"status"`
	PaymentMethod PaymentMethod   `db:"payment_method" json:"payment_method"`
}

type InvoiceFilters struct {
	PatientID uuid.UUID
	Status    InvoiceStatus
}
