package changefeed

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/odontocare/clinic-api/internal/handler"
	"github.com/odontocare/clinic-api/internal/service/changefeed"
)

type Handler struct {
	follower *changefeed.Follower
}

func NewHandler(follower *changefeed.Follower) *Handler {
	return &Handler{follower: follower}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/changes/:collection/:id", h.Latest)
}

// Latest serves the newest version of a record as observed on the change
// feed. The mirror may trail the store briefly; clients that need the stored
// row use the entity's own endpoint.
func (h *Handler) Latest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid record id"))
		return
	}

	row, ok := h.follower.Latest(c.Param("collection"), id)
	if !ok {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("record not observed on the change feed"))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(row))
}
