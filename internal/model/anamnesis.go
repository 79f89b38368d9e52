package model

import (
	"time"

	"github.com/google/uuid"
)

type AnamnesisAnswer string

const (
	AnswerYes    AnamnesisAnswer = "yes"
	AnswerNo     AnamnesisAnswer = "no"
	AnswerUnsure AnamnesisAnswer = "unsure"
)

func (a AnamnesisAnswer) Valid() bool {
	return a == AnswerYes || a == AnswerNo || a == AnswerUnsure
}

// The questionnaire key set is fixed; it is not user-extensible.
var anamnesisQuestions = []string{
	"under_treatment",
	"taking_medication",
	"allergy_medication",
	"heart_condition",
	"diabetes",
	"hypertension",
	"bleeding_disorder",
	"pregnant_or_nursing",
	"smoker",
	"previous_anesthesia_reaction",
	"rheumatic_fever",
	"hepatitis",
	"respiratory_problems",
	"gum_bleeding",
	"teeth_grinding",
}

// Alarm questions require a free-text elaboration when answered yes.
var anamnesisAlarmQuestions = map[string]bool{
	"allergy_medication":           true,
	"heart_condition":              true,
	"bleeding_disorder":            true,
	"previous_anesthesia_reaction": true,
	"hepatitis":                    true,
}

// AnamnesisQuestions returns the fixed questionnaire key set.
func AnamnesisQuestions() []string {
	out := make([]string, len(anamnesisQuestions))
	copy(out, anamnesisQuestions)
	return out
}

// KnownAnamnesisQuestion reports whether key belongs to the fixed set.
func KnownAnamnesisQuestion(key string) bool {
	for _, q := range anamnesisQuestions {
		if q == key {
			return true
		}
	}
	return false
}

// AlarmQuestion reports whether an affirmative answer to key requires an
// elaboration.
func AlarmQuestion(key string) bool {
	return anamnesisAlarmQuestions[key]
}

type Anamnesis struct {
	Base
	PatientID        uuid.UUID                  `db:"patient_id" json:"patient_id"`
	ModelName        string                     `db:"model_name" json:"model_name"`
	Date             time.Time                  `db:"date" json:"date"`
	Answers          map[string]AnamnesisAnswer `db:"-" json:"answers"`
	AnswersJSON      string                     `db:"answers" json:"-"`
	Elaborations     map[string]string          `db:"-" json:"elaborations,omitempty"`
	ElaborationsJSON string                     `db:"elaborations" json:"-"`
	Observations     string                     `db:"observations" json:"observations,omitempty"`
}
