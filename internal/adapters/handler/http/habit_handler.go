package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/services"
)

type HabitHandler struct {
	svc *services.HabitService
}

func NewHabitHandler(svc *services.HabitService) *HabitHandler {
	return &HabitHandler{
		svc: svc,
	}
}

type createHabitRequest struct {
	Name string `json:"name"`
}

func (h *HabitHandler) RegisterRoutes(router gin.IRoutes) {
	router.POST("/habits", h.Create)
	router.GET("/habits", h.List)
	router.DELETE("/habits/:id", h.Delete)
	router.POST("/habits/:id/toggle", h.Toggle)
}

func (h *HabitHandler) Create(c *gin.Context) {
	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	habit, err := h.svc.Create(c.Request.Context(), req.Name)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if habit == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusCreated, domain.NewHabitCard(habit, h.svc.Today()))
}

func (h *HabitHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Cards(c.Request.Context()))
}

func (h *HabitHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HabitHandler) Toggle(c *gin.Context) {
	habit, err := h.svc.ToggleToday(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if habit == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, domain.NewHabitCard(habit, h.svc.Today()))
}
