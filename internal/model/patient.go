package model

import (
	"time"
)

type Patient struct {
	Base
	Name             string     `db:"name" json:"name"`
	Email            string     `db:"email" json:"email,omitempty"`
	Phone            string     `db:"phone" json:"phone"`
	CPF              string     `db:"cpf" json:"cpf,omitempty"`
	BirthDate        *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Address          string     `db:"address" json:"address,omitempty"`
	MedicalHistory   string     `db:"medical_history" json:"medical_history,omitempty"`
	Allergies        string     `db:"allergies" json:"allergies,omitempty"`
	BloodType        string     `db:"blood_type" json:"blood_type,omitempty"`
	EmergencyContact string     `db:"emergency_contact" json:"emergency_contact,omitempty"`
}

// Age derives the patient's age in full years at the given instant.
func (p *Patient) Age(now time.Time) int {
	if p.BirthDate == nil {
		return 0
	}
	years := now.Year() - p.BirthDate.Year()
	if now.YearDay() < p.BirthDate.YearDay() {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// Snapshot copies the fields that downstream records embed at write time.
func (p *Patient) Snapshot(now time.Time) PatientSnapshot {
	return PatientSnapshot{
		Name:  p.Name,
		Age:   p.Age(now),
		Phone: p.Phone,
		Email: p.Email,
	}
}

type CreatePatientRequest struct {
	Name             string     `json:"name" binding:"required"`
	Phone            string     `json:"phone" binding:"required"`
	Email            string     `json:"email" binding:"omitempty,email"`
	CPF              string     `json:"cpf"`
	BirthDate        *time.Time `json:"birth_date"`
	Address          string     `json:"address"`
	MedicalHistory   string     `json:"medical_history"`
	Allergies        string     `json:"allergies"`
	BloodType        string     `json:"blood_type"`
	EmergencyContact string     `json:"emergency_contact"`
}

type UpdatePatientRequest struct {
	Name             *string    `json:"name"`
	Phone            *string    `json:"phone"`
	Email            *string    `json:"email" binding:"omitempty,email"`
	CPF              *string    `json:"cpf"`
	BirthDate        *time.Time `json:"birth_date"`
	Address          *string    `json:"address"`
	MedicalHistory   *string    `json:"medical_history"`
	Allergies        *string    `json:"allergies"`
	BloodType        *string    `json:"blood_type"`
	EmergencyContact *string    `json:"emergency_contact"`
}

type PatientFilters struct {
	SearchTerm string
	Status     string
}
