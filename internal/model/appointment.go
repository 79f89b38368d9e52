package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled   AppointmentStatus = "scheduled"
	AppointmentStatusCompleted   AppointmentStatus = "completed"
	AppointmentStatusCancelled   AppointmentStatus = "cancelled"
	AppointmentStatusRescheduled AppointmentStatus = "rescheduled"
)

type AppointmentType string

const (
	AppointmentTypeConsultation AppointmentType = "consultation"
	AppointmentTypeCheckup      AppointmentType = "checkup"
	AppointmentTypeFollowup     AppointmentType = "followup"
	AppointmentTypeEmergency    AppointmentType = "emergency"
)

// Slot grid bounds: hourly slots starting 08:00, last slot 17:00 ending 18:00.
const (
	SlotGridOpenHour  = 8
	SlotGridCloseHour = 18
)

// VitalSigns is the clinical sub-record captured at the visit.
type VitalSigns struct {
	BloodPressure string  `json:"blood_pressure,omitempty"`
	HeartRate     int     `json:"heart_rate,omitempty"`
	Temperature   float64 `json:"temperature,omitempty"`
	Weight        float64 `json:"weight,omitempty"`
}

type Appointment struct {
	Base
	PatientID    uuid.UUID         `db:"patient_id" json:"patient_id"`
	Patient      PatientSnapshot   `db:"patient" json:"patient"`
	DoctorID     uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	Date         time.Time         `db:"date" json:"date"`
	Slot         string            `db:"slot" json:"slot"`
	Type         AppointmentType   `db:"type" json:"type"`
	Status       AppointmentStatus `db:"status" json:"status"`
	Notes        string            `db:"notes" json:"notes,omitempty"`
	Symptoms     string            `db:"symptoms" json:"symptoms,omitempty"`
	Vitals       *VitalSigns       `db:"-" json:"vitals,omitempty"`
	VitalsJSON   string            `db:"vitals" json:"-"`
	PreviousSlot string            `db:"previous_slot" json:"previous_slot,omitempty"`
}

// SlotGrid returns the hourly time slots bookable in one day, "08:00"
// through "17:00".
func SlotGrid() []string {
	slots := make([]string, 0, SlotGridCloseHour-SlotGridOpenHour)
	for h := SlotGridOpenHour; h < SlotGridCloseHour; h++ {
		slots = append(slots, fmt.Sprintf("%02d:00", h))
	}
	return slots
}

// ValidSlot reports whether s falls on the hourly grid.
func ValidSlot(s string) bool {
	for _, slot := range SlotGrid() {
		if s == slot {
			return true
		}
	}
	return false
}

// CanTransition reports whether an appointment status change is allowed.
// Transitions are one-directional: completed and cancelled are terminal.
func (s AppointmentStatus) CanTransition(to AppointmentStatus) bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusRescheduled:
		return to == AppointmentStatusCompleted ||
			to == AppointmentStatusCancelled ||
			to == AppointmentStatusRescheduled
	default:
		return false
	}
}

func (t AppointmentType) Valid() bool {
	switch t {
	case AppointmentTypeConsultation, AppointmentTypeCheckup,
		AppointmentTypeFollowup, AppointmentTypeEmergency:
		return true
	}
	return false
}

type CreateAppointmentRequest struct {
	PatientID uuid.UUID   `json:"patient_id" binding:"required"`
	DoctorID  uuid.UUID   `json:"doctor_id"`
	Date      time.Time   `json:"date" binding:"required"`
	Slot      string      `json:"slot" binding:"required,slot"`
	Type      string      `json:"type" binding:"required,oneof=consultation checkup followup emergency"`
	Notes     string      `json:"notes" binding:"max=1000"`
	Symptoms  string      `json:"symptoms"`
	Vitals    *VitalSigns `json:"vitals"`
}

type UpdateAppointmentRequest struct {
	Status   *AppointmentStatus `json:"status"`
	Notes    *string            `json:"notes"`
	Symptoms *string            `json:"symptoms"`
	Vitals   *VitalSigns        `json:"vitals"`
}

type RescheduleAppointmentRequest struct {
	Date time.Time `json:"date" binding:"required"`
	Slot string    `json:"slot" binding:"required,slot"`
}

type AppointmentFilters struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	Status    AppointmentStatus
	StartDate time.Time
	EndDate   time.Time
}
