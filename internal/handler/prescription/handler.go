package prescription

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/odontocare/clinic-api/internal/handler"
	"github.com/odontocare/clinic-api/internal/identity"
	"github.com/odontocare/clinic-api/internal/model"
	"github.com/odontocare/clinic-api/internal/projection"
	"github.com/odontocare/clinic-api/internal/repository"
	"github.com/odontocare/clinic-api/internal/service/medicine"
	"github.com/odontocare/clinic-api/internal/service/prescription"
)

type LineRequest struct {
	MedicineID   uuid.UUID `json:"medicine_id" binding:"required"`
	Dosage       string    `json:"dosage"`
	Frequency    string    `json:"frequency"`
	Duration     string    `json:"duration"`
	Timing       string    `json:"timing"`
	Instructions string    `json:"instructions"`
}

type CreatePrescriptionRequest struct {
	PatientID    uuid.UUID     `json:"patient_id" binding:"required"`
	Diagnosis    string        `json:"diagnosis"`
	Symptoms     string        `json:"symptoms"`
	Instructions string        `json:"instructions"`
	FollowUpDate *time.Time    `json:"follow_up_date"`
	Lines        []LineRequest `json:"lines"`
}

type UpdatePrescriptionRequest struct {
	Diagnosis    string        `json:"diagnosis"`
	Symptoms     string        `json:"symptoms"`
	Instructions string        `json:"instructions"`
	FollowUpDate *time.Time    `json:"follow_up_date"`
	Lines        []LineRequest `json:"lines"`
}

type SetStatusRequest struct {
	Status model.PrescriptionStatus `json:"status" binding:"required"`
}

type Handler struct {
	service     *prescription.Service
	medicineSvc *medicine.Service
	patientRepo repository.PatientRepository
}

func NewHandler(service *prescription.Service, medicineSvc *medicine.Service, patientRepo repository.PatientRepository) *Handler {
	return &Handler{service: service, medicineSvc: medicineSvc, patientRepo: patientRepo}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	prescriptions := r.Group("/prescriptions")
	{
		prescriptions.POST("", h.CreatePrescription)
		prescriptions.GET("", h.ListPrescriptions)
		prescriptions.GET("/:id", h.GetPrescription)
		prescriptions.PUT("/:id", h.UpdatePrescription)
		prescriptions.PUT("/:id/status", h.SetStatus)
		prescriptions.DELETE("/:id", h.DeletePrescription)
	}
}

// CreatePrescription replays the request through a draft: each line resolves
// its medicine against the catalog and is added in order, so a medicine
// repeated in the request fails the same way it would in the builder.
func (h *Handler) CreatePrescription(c *gin.Context) {
	var req CreatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	ctx := c.Request.Context()

	pat, err := h.patientRepo.Get(ctx, req.PatientID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	id, _ := identity.FromContext(ctx)
	doctorID := uuid.Nil
	doctorName := ""
	if id != nil {
		doctorID = id.ID
		doctorName = id.DisplayName
	}

	draft := prescription.NewDraft(pat, doctorID, doctorName)
	draft.Diagnosis = req.Diagnosis
	draft.Symptoms = req.Symptoms
	draft.Instructions = req.Instructions
	draft.FollowUpDate = req.FollowUpDate

	if !h.applyLines(c, draft, req.Lines) {
		return
	}

	p, err := draft.Submit(ctx, h.service)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(p))
}

// UpdatePrescription reopens the stored prescription as a draft and replaces
// its fields and lines with the request, so line edits pass through the same
// duplicate and ordering rules as a fresh draft. The stored patient snapshot
// and authoring doctor are untouched.
func (h *Handler) UpdatePrescription(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid prescription id"))
		return
	}

	var req UpdatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	ctx := c.Request.Context()

	stored, err := h.service.GetPrescription(ctx, id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	draft := prescription.EditDraft(stored)
	draft.Diagnosis = req.Diagnosis
	draft.Symptoms = req.Symptoms
	draft.Instructions = req.Instructions
	draft.FollowUpDate = req.FollowUpDate

	// The request carries the full line list.
	for _, line := range draft.Lines() {
		draft.RemoveLine(line.LineID)
	}
	if !h.applyLines(c, draft, req.Lines) {
		return
	}

	p, err := draft.Submit(ctx, h.service)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}

func (h *Handler) applyLines(c *gin.Context, draft *prescription.Draft, lines []LineRequest) bool {
	for _, lr := range lines {
		med, err := h.medicineSvc.GetMedicine(c.Request.Context(), lr.MedicineID)
		if err != nil {
			handler.Error(c, err)
			return false
		}
		line, err := draft.AddMedicine(med)
		if err != nil {
			handler.Error(c, err)
			return false
		}
		line.Dosage = lr.Dosage
		line.Frequency = lr.Frequency
		line.Duration = lr.Duration
		if lr.Timing != "" {
			line.Timing = model.MedicineTiming(lr.Timing)
		}
		line.Instructions = lr.Instructions
	}
	return true
}

func (h *Handler) GetPrescription(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid prescription id"))
		return
	}

	p, err := h.service.GetPrescription(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}

func (h *Handler) SetStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid prescription id"))
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	p, err := h.service.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}

func (h *Handler) DeletePrescription(c *gin.Context) {
	if !handler.ConfirmedDelete(c) {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid prescription id"))
		return
	}

	if err := h.service.DeletePrescription(c.Request.Context(), id); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListPrescriptions(c *gin.Context) {
	prescriptions, err := h.service.ListPrescriptions(c.Request.Context(), &model.PrescriptionFilters{})
	if err != nil {
		handler.Error(c, err)
		return
	}

	view := projection.Project(prescriptions, projection.PrescriptionFields(), handler.ProjectionOptions(c))
	c.JSON(http.StatusOK, handler.NewSuccessResponse(view))
}
