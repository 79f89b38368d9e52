package model

import (
	"time"

	"github.com/google/uuid"
)

type PrescriptionStatus string

const (
	PrescriptionStatusActive       PrescriptionStatus = "active"
	PrescriptionStatusCompleted    PrescriptionStatus = "completed"
	PrescriptionStatusDiscontinued PrescriptionStatus = "discontinued"
	PrescriptionStatusPending      PrescriptionStatus = "pending"
)

// Status changes are not constrained to a transition graph: the authoring
// doctor may set any status from any other. Only enum membership is checked.
func (s PrescriptionStatus) Valid() bool {
	switch s {
	case PrescriptionStatusActive, PrescriptionStatusCompleted,
		PrescriptionStatusDiscontinued, PrescriptionStatusPending:
		return true
	}
	return false
}

type MedicineTiming string

const (
	TimingAfterMeal    MedicineTiming = "after_meal"
	TimingBeforeMeal   MedicineTiming = "before_meal"
	TimingEmptyStomach MedicineTiming = "empty_stomach"
	TimingBedtime      MedicineTiming = "bedtime"
	TimingAsNeeded     MedicineTiming = "as_needed"
)

func (t MedicineTiming) Valid() bool {
	switch t {
	case TimingAfterMeal, TimingBeforeMeal, TimingEmptyStomach,
		TimingBedtime, TimingAsNeeded:
		return true
	}
	return false
}

// MedicineLine is one prescribed medicine within a prescription. It
// references a catalog entry by id and carries the prescription-specific
// dosage fields. Lines keep their insertion order; that order is the
// display and print order.
type MedicineLine struct {
	LineID       uuid.UUID      `json:"line_id"`
	MedicineID   uuid.UUID      `json:"medicine_id"`
	Name         string         `json:"name"`
	Category     string         `json:"category"`
	Dosage       string         `json:"dosage"`
	Frequency    string         `json:"frequency"`
	Duration     string         `json:"duration"`
	Timing       MedicineTiming `json:"timing"`
	Instructions string         `json:"instructions,omitempty"`
}

type Prescription struct {
	Base
	PatientID    uuid.UUID          `db:"patient_id" json:"patient_id"`
	Patient      PatientSnapshot    `db:"patient" json:"patient"`
	Diagnosis    string             `db:"diagnosis" json:"diagnosis"`
	Symptoms     string             `db:"symptoms" json:"symptoms,omitempty"`
	Lines        []MedicineLine     `db:"-" json:"lines"`
	LinesJSON    string             `db:"lines" json:"-"`
	Instructions string             `db:"instructions" json:"instructions,omitempty"`
	FollowUpDate *time.Time         `db:"follow_up_date" json:"follow_up_date,omitempty"`
	Status       PrescriptionStatus `db:"status" json:"status"`
	DoctorID     uuid.UUID          `db:"doctor_id" json:"doctor_id"`
	DoctorName   string             `db:"doctor_name" json:"doctor_name"`
}

// HasMedicine reports whether the catalog entry already appears in the lines.
func (p *Prescription) HasMedicine(medicineID uuid.UUID) bool {
	for _, line := range p.Lines {
		if line.MedicineID == medicineID {
			return true
		}
	}
	return false
}

type PrescriptionFilters struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	Status    PrescriptionStatus
}
