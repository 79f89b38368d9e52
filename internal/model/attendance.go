package model

import (
	"time"

	"github.com/google/uuid"
)

// Attendance is the visit register entry written when an appointment is
// carried out.
type Attendance struct {
	Base
	PatientID     uuid.UUID `db:"patient_id" json:"patient_id"`
	AppointmentID uuid.UUID `db:"appointment_id" json:"appointment_id"`
	DoctorID      uuid.UUID `db:"doctor_id" json:"doctor_id"`
	Date          time.Time `db:"date" json:"date"`
	Procedures    string    `db:"procedures" json:"procedures,omitempty"`
	Notes         string    `db:"notes" json:"notes,omitempty"`
}

// Document is stored document metadata; the content itself lives in external
// storage under StorageKey.
type Document struct {
	Base
	PatientID   uuid.UUID `db:"patient_id" json:"patient_id"`
	Name        string    `db:"name" json:"name"`
	Category    string    `db:"category" json:"category,omitempty"`
	ContentType string    `db:"content_type" json:"content_type"`
	StorageKey  string    `db:"storage_key" json:"storage_key"`
}

// StockMovement records an adjustment of a medicine's stock quantity.
type StockMovement struct {
	Base
	MedicineID uuid.UUID `db:"medicine_id" json:"medicine_id"`
	Delta      int       `db:"delta" json:"delta"`
	Reason     string    `db:"reason" json:"reason"`
}
