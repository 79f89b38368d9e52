package invoice

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/odontocare/clinic-api/internal/form"
	"github.com/odontocare/clinic-api/internal/identity"
	"github.com/odontocare/clinic-api/internal/model"
	"github.com/odontocare/clinic-api/internal/repository"
	"github.com/odontocare/clinic-api/internal/service/audit"
	"github.com/odontocare/clinic-api/internal/service/changefeed"
	apperrors "github.com/odontocare/clinic-api/pkg/errors"
)

type CreateInvoiceRequest struct {
	PatientID uuid.UUID           `json:"patient_id" binding:"required"`
	Items     []model.InvoiceItem `json:"items" binding:"required,min=1"`
}

type Service struct {
	repo        repository.InvoiceRepository
	patientRepo repository.PatientRepository
	feed        *changefeed.Service
	auditor     *audit.Service
}

func NewService(
	repo repository.InvoiceRepository,
	patientRepo repository.PatientRepository,
	feed *changefeed.Service,
	auditor *audit.Service,
) *Service {
	return &Service{repo: repo, patientRepo: patientRepo, feed: feed, auditor: auditor}
}

// CreateInvoice issues a numbered invoice for the patient. The total is the
// sum of the item amounts; new invoices start pending with no payment method.
func (s *Service) CreateInvoice(ctx context.Context, req *CreateInvoiceRequest) (*model.Invoice, error) {
	var v form.Violations
	if len(req.Items) == 0 {
		v.Add("items", "at least one item is required")
	}
	for _, item := range req.Items {
		if item.Description == "" {
			v.Add("items", "every item needs a description")
		}
		if item.Amount < 0 {
			v.Add("items", "item amounts cannot be negative")
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	pat, err := s.patientRepo.Get(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}

	number, err := s.repo.NextNumber(ctx)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, item := range req.Items {
		total += item.Amount
	}

	inv := &model.Invoice{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedBy: identity.ActorID(ctx),
		},
		Number:        number,
		PatientID:     pat.ID,
		Patient:       pat.Snapshot(time.Now()),
		Items:         req.Items,
		Total:         total,
		Status:        model.InvoiceStatusPending,
		PaymentMethod: model.PaymentMethodUnspecified,
	}
	if err := marshalItems(inv); err != nil {
		return nil, apperrors.NewInternal(err)
	}

	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.feed.Record(ctx, "invoices", changefeed.ActionCreate, inv.ID, inv)
	s.auditor.Log(ctx, identity.ActorID(ctx), "create", "invoice", inv.ID, inv)
	return inv, nil
}

func (s *Service) GetInvoice(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	inv, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := unmarshalItems(inv); err != nil {
		return nil, apperrors.NewInternal(err)
	}
	return inv, nil
}

// MarkPaid settles the invoice with the given method. Status and method are
// independent axes; the method stays on record after settlement.
func (s *Service) MarkPaid(ctx context.Context, id uuid.UUID, method model.PaymentMethod) (*model.Invoice, error) {
	if !method.Valid() {
		return nil, apperrors.NewValidation([]apperrors.Violation{{
			Field:   "payment_method",
			Message: "unknown payment method",
		}})
	}

	inv, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	inv.Status = model.InvoiceStatusPaid
	inv.PaymentMethod = method
	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, err
	}

	s.feed.Record(ctx, "invoices", changefeed.ActionUpdate, inv.ID, inv)
	s.auditor.Log(ctx, identity.ActorID(ctx), "mark_paid", "invoice", inv.ID, inv)
	return inv, nil
}

// MarkOverdue flags an unpaid invoice past its due date.
func (s *Service) MarkOverdue(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	inv, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status == model.InvoiceStatusPaid {
		return nil, apperrors.NewValidation([]apperrors.Violation{{
			Field:   "status",
			Message: "a paid invoice cannot become overdue",
		}})
	}

	inv.Status = model.InvoiceStatusOverdue
	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, err
	}

	s.feed.Record(ctx, "invoices", changefeed.ActionUpdate, inv.ID, inv)
	s.auditor.Log(ctx, identity.ActorID(ctx), "mark_overdue", "invoice", inv.ID, inv)
	return inv, nil
}

func (s *Service) ListInvoices(ctx context.Context, filters *model.InvoiceFilters) ([]*model.Invoice, error) {
	invoices, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, err
	}
	for _, inv := range invoices {
		if err := unmarshalItems(inv); err != nil {
			return nil, apperrors.NewInternal(err)
		}
	}
	return invoices, nil
}

func marshalItems(inv *model.Invoice) error {
	b, err := json.Marshal(inv.Items)
	if err != nil {
		return err
	}
	inv.ItemsJSON = string(b)
	return nil
}

func unmarshalItems(inv *model.Invoice) error {
	if inv.ItemsJSON == "" {
		return nil
	}
	return json.Unmarshal([]byte(inv.ItemsJSON), &inv.Items)
}
