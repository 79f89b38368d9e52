package prescription

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/odontocare/clinic-api/internal/form"
	"github.com/odontocare/clinic-api/internal/model"
	apperrors "github.com/odontocare/clinic-api/pkg/errors"
)

// Draft builds a prescription line by line before anything is written. The
// draft holds full medicine lines in insertion order; that order is the
// display and print order of the finished prescription.
type Draft struct {
	guard form.Guard

	patient    *model.Patient
	existing   *model.Prescription
	doctorID   uuid.UUID
	doctorName string

	Diagnosis    string
	Symptoms     string
	Instructions string
	FollowUpDate *time.Time
	Status       model.PrescriptionStatus

	lines []model.MedicineLine
}

func NewDraft(patient *model.Patient, doctorID uuid.UUID, doctorName string) *Draft {
	return &Draft{
		patient:    patient,
		doctorID:   doctorID,
		doctorName: doctorName,
		Status:     model.PrescriptionStatusActive,
	}
}

// EditDraft reopens a stored prescription so its fields and lines can be
// changed under the same rules as a fresh draft. The stored patient snapshot
// and authoring doctor are preserved; submitting writes back under the same
// id.
func EditDraft(p *model.Prescription) *Draft {
	return &Draft{
		existing:     p,
		doctorID:     p.DoctorID,
		doctorName:   p.DoctorName,
		Diagnosis:    p.Diagnosis,
		Symptoms:     p.Symptoms,
		Instructions: p.Instructions,
		FollowUpDate: p.FollowUpDate,
		Status:       p.Status,
		lines:        append([]model.MedicineLine(nil), p.Lines...),
	}
}

// Lines returns the current lines in insertion order.
func (d *Draft) Lines() []model.MedicineLine {
	out := make([]model.MedicineLine, len(d.lines))
	copy(out, d.lines)
	return out
}

// AddMedicine appends a new line for the catalog entry. Each medicine may
// appear once per prescription; adding one already present is a duplicate
// error and leaves the lines untouched.
func (d *Draft) AddMedicine(m *model.Medicine) (*model.MedicineLine, error) {
	for _, line := range d.lines {
		if line.MedicineID == m.ID {
			return nil, apperrors.NewDuplicate("medicine")
		}
	}

	line := model.MedicineLine{
		LineID:     uuid.New(),
		MedicineID: m.ID,
		Name:       m.Name,
		Category:   m.Category,
		Timing:     model.TimingAfterMeal,
	}
	d.lines = append(d.lines, line)
	return &d.lines[len(d.lines)-1], nil
}

// RemoveLine drops the line with the given id. Removing a line that is not
// present is a no-op, so repeated removals are safe.
func (d *Draft) RemoveLine(lineID uuid.UUID) {
	for i, line := range d.lines {
		if line.LineID == lineID {
			d.lines = append(d.lines[:i], d.lines[i+1:]...)
			return
		}
	}
}

// UpdateLine applies fn to the line with the given id and reports whether the
// line was found.
func (d *Draft) UpdateLine(lineID uuid.UUID, fn func(*model.MedicineLine)) bool {
	for i := range d.lines {
		if d.lines[i].LineID == lineID {
			fn(&d.lines[i])
			return true
		}
	}
	return false
}

func (d *Draft) validate() form.Violations {
	var v form.Violations
	if strings.TrimSpace(d.Diagnosis) == "" {
		v.Add("diagnosis", "diagnosis is required")
	}
	if len(d.lines) == 0 {
		v.Add("lines", "at least one medicine is required")
	}
	for _, line := range d.lines {
		if strings.TrimSpace(line.Dosage) == "" {
			v.Add("dosage", "dosage is required for "+line.Name)
		}
		if strings.TrimSpace(line.Frequency) == "" {
			v.Add("frequency", "frequency is required for "+line.Name)
		}
		if strings.TrimSpace(line.Duration) == "" {
			v.Add("duration", "duration is required for "+line.Name)
		}
	}
	return v
}

// Submit validates the draft and writes it through the service. A submit
// while another is in flight returns ErrSubmitInFlight and performs no I/O;
// once the store call resolves, failed or not, the draft can be submitted
// again. Validation failures also perform no I/O.
func (d *Draft) Submit(ctx context.Context, svc *Service) (*model.Prescription, error) {
	if !d.guard.Begin() {
		return nil, form.ErrSubmitInFlight
	}
	defer d.guard.End()

	if err := d.validate().Err(); err != nil {
		svc.metrics.ValidationFailures.WithLabelValues("prescription").Inc()
		return nil, err
	}

	if d.existing != nil {
		p := d.existing
		p.Diagnosis = strings.TrimSpace(d.Diagnosis)
		p.Symptoms = d.Symptoms
		p.Lines = d.Lines()
		p.Instructions = d.Instructions
		p.FollowUpDate = d.FollowUpDate
		p.Status = d.Status
		return svc.update(ctx, p)
	}

	p := &model.Prescription{
		Base: model.Base{
			ID: uuid.New(),
		},
		PatientID:    d.patient.ID,
		Patient:      d.patient.Snapshot(time.Now()),
		Diagnosis:    strings.TrimSpace(d.Diagnosis),
		Symptoms:     d.Symptoms,
		Lines:        d.Lines(),
		Instructions: d.Instructions,
		FollowUpDate: d.FollowUpDate,
		Status:       d.Status,
		DoctorID:     d.doctorID,
		DoctorName:   d.doctorName,
	}
	return svc.create(ctx, p)
}
