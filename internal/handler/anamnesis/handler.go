package anamnesis

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/odontocare/clinic-api/internal/handler"
	"github.com/odontocare/clinic-api/internal/model"
	"github.com/odontocare/clinic-api/internal/service/anamnesis"
)

type Handler struct {
	service *anamnesis.Service
}

func NewHandler(service *anamnesis.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	anamneses := r.Group("/anamneses")
	{
		anamneses.POST("", h.CreateAnamnesis)
		anamneses.GET("/questions", h.ListQuestions)
		anamneses.GET("/:id", h.GetAnamnesis)
		anamneses.DELETE("/:id", h.DeleteAnamnesis)
	}
	r.GET("/patients/:id/anamneses", h.ListByPatient)
}

func (h *Handler) CreateAnamnesis(c *gin.Context) {
	var req anamnesis.CreateAnamnesisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	a, err := h.service.CreateAnamnesis(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(a))
}

// ListQuestions exposes the fixed questionnaire so forms render from the
// server's key set.
func (h *Handler) ListQuestions(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(model.AnamnesisQuestions()))
}

func (h *Handler) GetAnamnesis(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid anamnesis id"))
		return
	}

	a, err := h.service.GetAnamnesis(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(a))
}

func (h *Handler) DeleteAnamnesis(c *gin.Context) {
	if !handler.ConfirmedDelete(c) {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid anamnesis id"))
		return
	}

	if err := h.service.DeleteAnamnesis(c.Request.Context(), id); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListByPatient(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient id"))
		return
	}

	records, err := h.service.ListByPatient(c.Request.Context(), patientID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(records))
}
