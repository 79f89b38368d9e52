package projection

import (
	"time"

	"github.com/odontocare/clinic-api/internal/model"
)

// PatientFields matches search against name, email, phone and CPF.
func PatientFields() Fields[*model.Patient] {
	return Fields[*model.Patient]{
		SearchText: func(p *model.Patient) []string {
			return []string{p.Name, p.Email, p.Phone, p.CPF}
		},
		CreatedAt: func(p *model.Patient) time.Time { return p.CreatedAt },
		SortLess: map[string]func(a, b *model.Patient) bool{
			"name": func(a, b *model.Patient) bool { return a.Name < b.Name },
		},
	}
}

func AppointmentFields() Fields[*model.Appointment] {
	return Fields[*model.Appointment]{
		SearchText: func(a *model.Appointment) []string {
			return []string{a.Patient.Name, a.Patient.Phone, a.Notes}
		},
		Status:    func(a *model.Appointment) string { return string(a.Status) },
		Category:  func(a *model.Appointment) string { return string(a.Type) },
		CreatedAt: func(a *model.Appointment) time.Time { return a.Date },
		SortLess: map[string]func(a, b *model.Appointment) bool{
			"date": func(a, b *model.Appointment) bool {
				if a.Date.Equal(b.Date) {
					return a.Slot < b.Slot
				}
				return a.Date.Before(b.Date)
			},
		},
	}
}

func PrescriptionFields() Fields[*model.Prescription] {
	return Fields[*model.Prescription]{
		SearchText: func(p *model.Prescription) []string {
			return []string{p.Patient.Name, p.Diagnosis, p.DoctorName}
		},
		Status:    func(p *model.Prescription) string { return string(p.Status) },
		CreatedAt: func(p *model.Prescription) time.Time { return p.CreatedAt },
	}
}

func MedicineFields() Fields[*model.Medicine] {
	return Fields[*model.Medicine]{
		SearchText: func(m *model.Medicine) []string {
			return []string{m.Name, m.Category, m.Manufacturer}
		},
		Status:    func(m *model.Medicine) string { return string(m.StockStatus()) },
		Category:  func(m *model.Medicine) string { return m.Category },
		CreatedAt: func(m *model.Medicine) time.Time { return m.CreatedAt },
		SortLess: map[string]func(a, b *model.Medicine) bool{
			"name":  func(a, b *model.Medicine) bool { return a.Name < b.Name },
			"price": func(a, b *model.Medicine) bool { return a.Price < b.Price },
			"stock": func(a, b *model.Medicine) bool { return a.StockQuantity < b.StockQuantity },
		},
	}
}

func BudgetFields() Fields[*model.Budget] {
	return Fields[*model.Budget]{
		SearchText: func(b *model.Budget) []string {
			return []string{b.Description, b.ResponsibleParty}
		},
		Status:    func(b *model.Budget) string { return string(b.Status) },
		Category:  func(b *model.Budget) string { return string(b.PlanType) },
		CreatedAt: func(b *model.Budget) time.Time { return b.Date },
	}
}

func InvoiceFields() Fields[*model.Invoice] {
	return Fields[*model.Invoice]{
		SearchText: func(i *model.Invoice) []string {
			return []string{i.Number, i.Patient.Name, i.Patient.Phone}
		},
		Status:    func(i *model.Invoice) string { return string(i.Status) },
		Category:  func(i *model.Invoice) string { return string(i.PaymentMethod) },
		CreatedAt: func(i *model.Invoice) time.Time { return i.CreatedAt },
	}
}
