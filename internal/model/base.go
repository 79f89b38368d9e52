package model

import (
	"time"

	"github.com/google/uuid"
)

// Base contains common fields for all stored records. Every row carries an
// opaque store-assigned id, creation/update timestamps and the identity that
// created it.
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
	CreatedBy uuid.UUID `json:"created_by,omitempty" db:"created_by"`
}

// PatientSnapshot is a denormalized copy of patient fields embedded at write
// time into appointments, prescriptions and invoices. It is never kept in
// sync with later edits to the canonical patient record.
type PatientSnapshot struct {
	Name   string `json:"name" db:"name"`
	Age    int    `json:"age,omitempty" db:"age"`
	Gender string `json:"gender,omitempty" db:"gender"`
	Phone  string `json:"phone" db:"phone"`
	Email  string `json:"email,omitempty" db:"email"`
}

// Pagination represents common pagination parameters
type Pagination struct {
	Page     int `json:"page" form:"page"`
	PageSize int `json:"page_size" form:"page_size"`
}
