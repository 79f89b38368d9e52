package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/odontocare/clinic-api/internal/model"
)

func appointmentOn(date time.Time, name string, status model.AppointmentStatus) *model.Appointment {
	return &model.Appointment{
		Patient: model.PatientSnapshot{Name: name},
		Date:    date,
		Status:  status,
	}
}

func TestProjectDateToday(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)
	today := appointmentOn(now.Add(-2*time.Hour), "Maria", model.AppointmentStatusScheduled)
	yesterday := appointmentOn(now.AddDate(0, 0, -1), "João", model.AppointmentStatusScheduled)

	// result must not depend on input order
	for _, items := range [][]*model.Appointment{
		{today, yesterday},
		{yesterday, today},
	} {
		got := Project(items, AppointmentFields(), Options{DateRange: DateToday, Now: now})
		assert.Len(t, got, 1)
		assert.Equal(t, "Maria", got[0].Patient.Name)
	}
}

func TestProjectDateRollingWindows(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	items := []*model.Appointment{
		appointmentOn(now.AddDate(0, 0, -3), "week", model.AppointmentStatusScheduled),
		appointmentOn(now.AddDate(0, 0, -20), "month", model.AppointmentStatusScheduled),
		appointmentOn(now.AddDate(0, 0, -40), "old", model.AppointmentStatusScheduled),
	}

	week := Project(items, AppointmentFields(), Options{DateRange: DateWeek, Now: now})
	assert.Len(t, week, 1)
	assert.Equal(t, "week", week[0].Patient.Name)

	// rolling 30 days, not calendar month
	month := Project(items, AppointmentFields(), Options{DateRange: DateMonth, Now: now})
	assert.Len(t, month, 2)
}

func TestProjectSearchCaseInsensitive(t *testing.T) {
	patients := []*model.Patient{
		{Name: "Ana Souza", Phone: "1199998888"},
		{Name: "Bruno Lima", CPF: "123.456.789-00"},
	}

	got := Project(patients, PatientFields(), Options{SearchTerm: "ana"})
	assert.Len(t, got, 1)
	assert.Equal(t, "Ana Souza", got[0].Name)

	got = Project(patients, PatientFields(), Options{SearchTerm: "456.789"})
	assert.Len(t, got, 1)
	assert.Equal(t, "Bruno Lima", got[0].Name)

	got = Project(patients, PatientFields(), Options{SearchTerm: "nobody"})
	assert.Empty(t, got)
}

func TestProjectStatusAndCategoryFacets(t *testing.T) {
	now := time.Now()
	items := []*model.Appointment{
		appointmentOn(now, "a", model.AppointmentStatusScheduled),
		appointmentOn(now, "b", model.AppointmentStatusCancelled),
	}
	items[0].Type = model.AppointmentTypeCheckup
	items[1].Type = model.AppointmentTypeEmergency

	got := Project(items, AppointmentFields(), Options{Status: "cancelled"})
	assert.Len(t, got, 1)
	assert.Equal(t, "b", got[0].Patient.Name)

	got = Project(items, AppointmentFields(), Options{Category: "checkup"})
	assert.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Patient.Name)
}

func TestProjectDefaultSortNewestFirst(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	older := &model.Patient{Name: "older"}
	older.CreatedAt = base
	newer := &model.Patient{Name: "newer"}
	newer.CreatedAt = base.AddDate(0, 0, 2)

	got := Project([]*model.Patient{older, newer}, PatientFields(), Options{})
	assert.Equal(t, "newer", got[0].Name)
	assert.Equal(t, "older", got[1].Name)
}

func TestProjectStableSortForTies(t *testing.T) {
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	var items []*model.Patient
	for _, n := range []string{"first", "second", "third"} {
		p := &model.Patient{Name: n}
		p.CreatedAt = created
		items = append(items, p)
	}

	got := Project(items, PatientFields(), Options{})
	assert.Equal(t, []string{"first", "second", "third"},
		[]string{got[0].Name, got[1].Name, got[2].Name})
}

func TestProjectReferentialTransparency(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	items := []*model.Appointment{
		appointmentOn(now, "a", model.AppointmentStatusScheduled),
		appointmentOn(now.AddDate(0, 0, -1), "b", model.AppointmentStatusScheduled),
	}
	opts := Options{DateRange: DateToday, Now: now}

	first := Project(items, AppointmentFields(), opts)
	second := Project(items, AppointmentFields(), opts)
	assert.Equal(t, first, second)
	// input untouched
	assert.Len(t, items, 2)
	assert.Equal(t, "a", items[0].Patient.Name)
}

func TestProjectNamedSortField(t *testing.T) {
	a := &model.Medicine{Name: "Amoxicilina", Price: 30}
	b := &model.Medicine{Name: "Dipirona", Price: 10}

	got := Project([]*model.Medicine{a, b}, MedicineFields(), Options{SortBy: "price"})
	assert.Equal(t, "Dipirona", got[0].Name)

	got = Project([]*model.Medicine{a, b}, MedicineFields(), Options{SortBy: "price", SortOrder: SortDesc})
	assert.Equal(t, "Amoxicilina", got[0].Name)
}
