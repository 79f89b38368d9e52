package budget

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/odontocare/clinic-api/internal/form"
	"github.com/odontocare/clinic-api/internal/model"
)

// Draft builds a treatment plan against the odontogram. Teeth are selected
// on the chart, then committed together with a procedure and value as one
// treatment item; committing resets the selection so the next item starts
// from a clean chart.
type Draft struct {
	guard form.Guard

	patient *model.Patient

	Description      string
	PlanType         model.PlanType
	ResponsibleParty string
	Date             time.Time
	Installments     int
	DueDay           int

	dentition model.Dentition
	selected  map[int]bool
	items     []model.TreatmentItem
}

func NewDraft(patient *model.Patient) *Draft {
	return &Draft{
		patient:   patient,
		PlanType:  model.PlanTypeParticular,
		Date:      time.Now(),
		dentition: model.DentitionPermanent,
		selected:  map[int]bool{},
	}
}

func (d *Draft) Dentition() model.Dentition {
	return d.dentition
}

// SetDentition switches the numbering layout. The current selection is
// cleared because numbers are not comparable across dentitions; committed
// items keep the dentition they were built under.
func (d *Draft) SetDentition(dentition model.Dentition) error {
	var v form.Violations
	if !dentition.Valid() {
		v.Add("dentition", "unknown dentition")
		return v.Err()
	}
	if dentition != d.dentition {
		d.dentition = dentition
		d.selected = map[int]bool{}
	}
	return nil
}

// ToggleTooth flips the selection state of one tooth on the chart.
func (d *Draft) ToggleTooth(n int) error {
	var v form.Violations
	if !model.ValidTooth(d.dentition, n) {
		v.Add("tooth", "tooth "+strconv.Itoa(n)+" does not exist in this dentition")
		return v.Err()
	}
	if d.selected[n] {
		delete(d.selected, n)
	} else {
		d.selected[n] = true
	}
	return nil
}

// SelectedTeeth returns the current selection in ascending order.
func (d *Draft) SelectedTeeth() []int {
	teeth := make([]int, 0, len(d.selected))
	for n := range d.selected {
		teeth = append(teeth, n)
	}
	sort.Ints(teeth)
	return teeth
}

// AddTreatmentItem commits the current selection as one plan line. The value
// arrives as the raw input string; "R$", thousands separators and a comma
// decimal are accepted. On success the selection is reset.
func (d *Draft) AddTreatmentItem(procedure, rawValue string) error {
	var v form.Violations
	if strings.TrimSpace(procedure) == "" {
		v.Add("procedure", "procedure is required")
	}
	value, err := parseValue(rawValue)
	if err != nil {
		v.Add("value", "value must be a positive amount")
	}
	if err := v.Err(); err != nil {
		return err
	}

	d.items = append(d.items, model.TreatmentItem{
		Procedure: strings.TrimSpace(procedure),
		Value:     value,
		Teeth:     d.SelectedTeeth(),
		Dentition: d.dentition,
	})
	d.selected = map[int]bool{}
	return nil
}

// RemoveTreatmentItem drops the item at the given position. Out-of-range
// positions are a no-op.
func (d *Draft) RemoveTreatmentItem(i int) {
	if i < 0 || i >= len(d.items) {
		return
	}
	d.items = append(d.items[:i], d.items[i+1:]...)
}

func (d *Draft) Items() []model.TreatmentItem {
	out := make([]model.TreatmentItem, len(d.items))
	copy(out, d.items)
	return out
}

// Total derives the plan total from the committed items.
func (d *Draft) Total() float64 {
	var total float64
	for _, item := range d.items {
		total += item.Value
	}
	return total
}

func (d *Draft) validate() form.Violations {
	var v form.Violations
	if strings.TrimSpace(d.Description) == "" {
		v.Add("description", "description is required")
	}
	if !d.PlanType.Valid() {
		v.Add("plan_type", "unknown plan type")
	}
	if len(d.items) == 0 {
		v.Add("items", "at least one treatment item is required")
	}
	if d.Installments < 0 {
		v.Add("installments", "installments cannot be negative")
	}
	if d.DueDay < 0 || d.DueDay > 31 {
		v.Add("due_day", "due day must fall within a month")
	}
	return v
}

// Submit validates the draft and writes it through the service. Overlapping
// submissions of one draft are a no-op, and validation failures perform no
// I/O.
func (d *Draft) Submit(ctx context.Context, svc *Service) (*model.Budget, error) {
	if !d.guard.Begin() {
		return nil, form.ErrSubmitInFlight
	}
	defer d.guard.End()

	if err := d.validate().Err(); err != nil {
		svc.metrics.ValidationFailures.WithLabelValues("budget").Inc()
		return nil, err
	}

	b := &model.Budget{
		Base: model.Base{
			ID: uuid.New(),
		},
		PatientID:        d.patient.ID,
		Description:      strings.TrimSpace(d.Description),
		PlanType:         d.PlanType,
		ResponsibleParty: d.ResponsibleParty,
		Date:             d.Date,
		Items:            d.Items(),
		Installments:     d.Installments,
		DueDay:           d.DueDay,
		Status:           model.BudgetStatusDraft,
	}
	b.Total = b.ComputeTotal()
	return svc.create(ctx, b)
}

// parseValue turns raw money input into a float. "300", "300.50", "300,50"
// and "R$ 1.300,50" all parse.
func parseValue(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if value <= 0 {
		return 0, strconv.ErrRange
	}
	return value, nil
}
