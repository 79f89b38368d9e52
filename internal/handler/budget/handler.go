package budget

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/odontocare/clinic-api/internal/handler"
	"github.com/odontocare/clinic-api/internal/model"
	"github.com/odontocare/clinic-api/internal/projection"
	"github.com/odontocare/clinic-api/internal/repository"
	"github.com/odontocare/clinic-api/internal/service/budget"
)

type ItemRequest struct {
	Procedure string `json:"procedure" binding:"required"`
	Value     string `json:"value" binding:"required"`
	Teeth     []int  `json:"teeth"`
	Dentition string `json:"dentition"`
}

type CreateBudgetRequest struct {
	PatientID        uuid.UUID     `json:"patient_id" binding:"required"`
	Description      string        `json:"description"`
	PlanType         string        `json:"plan_type"`
	ResponsibleParty string        `json:"responsible_party"`
	Date             *time.Time    `json:"date"`
	Installments     int           `json:"installments"`
	DueDay           int           `json:"due_day"`
	Items            []ItemRequest `json:"items"`
}

type Handler struct {
	service     *budget.Service
	patientRepo repository.PatientRepository
}

func NewHandler(service *budget.Service, patientRepo repository.PatientRepository) *Handler {
	return &Handler{service: service, patientRepo: patientRepo}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, approveOnly ...gin.HandlerFunc) {
	budgets := r.Group("/budgets")
	{
		budgets.POST("", h.CreateBudget)
		budgets.GET("", h.ListBudgets)
		budgets.GET("/:id", h.GetBudget)
		budgets.DELETE("/:id", h.DeleteBudget)

		approve := append(approveOnly, h.ApproveBudget)
		budgets.POST("/:id/approve", approve...)
	}
}

// CreateBudget replays the request through the odontogram draft: for each
// item it selects the teeth under the item's dentition, then commits the
// procedure and raw value, so the request fails exactly where the chart
// would.
func (h *Handler) CreateBudget(c *gin.Context) {
	var req CreateBudgetRequest
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

	draft := budget.NewDraft(pat)
	draft.Description = req.Description
	if req.PlanType != "" {
		draft.PlanType = model.PlanType(req.PlanType)
	}
	draft.ResponsibleParty = req.ResponsibleParty
	if req.Date != nil {
		draft.Date = *req.Date
	}
	draft.Installments = req.Installments
	draft.DueDay = req.DueDay

	for _, item := range req.Items {
		if item.Dentition != "" {
			if err := draft.SetDentition(model.Dentition(item.Dentition)); err != nil {
				handler.Error(c, err)
				return
			}
		}
		for _, tooth := range item.Teeth {
			if err := draft.ToggleTooth(tooth); err != nil {
				handler.Error(c, err)
				return
			}
		}
		if err := draft.AddTreatmentItem(item.Procedure, item.Value); err != nil {
			handler.Error(c, err)
			return
		}
	}

	b, err := draft.Submit(ctx, h.service)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(b))
}

func (h *Handler) GetBudget(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid budget id"))
		return
	}

	b, err := h.service.GetBudget(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(b))
}

func (h *Handler) ApproveBudget(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid budget id"))
		return
	}

	b, err := h.service.Approve(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(b))
}

func (h *Handler) DeleteBudget(c *gin.Context) {
	if !handler.ConfirmedDelete(c) {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid budget id"))
		return
	}

	if err := h.service.DeleteBudget(c.Request.Context(), id); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListBudgets(c *gin.Context) {
	budgets, err := h.service.ListBudgets(c.Request.Context(), &model.BudgetFilters{})
	if err != nil {
		handler.Error(c, err)
		return
	}

	view := projection.Project(budgets, projection.BudgetFields(), handler.ProjectionOptions(c))
	c.JSON(http.StatusOK, handler.NewSuccessResponse(view))
}
