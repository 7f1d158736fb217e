package handlers

import (
	"net/http"

	"github.com/ArowuTest/pointhub-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// PointHandler handles balance queries and admin point adjustments
type PointHandler struct {
	pointService services.PointService
}

func NewPointHandler(pointService services.PointService) *PointHandler {
	return &PointHandler{pointService: pointService}
}

type adjustPointsRequest struct {
	Email  string   `json:"email"`
	Points *float64 `json:"points"`
}

// GetPoint handles GET /user/point
func (h *PointHandler) GetPoint(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	balance, err := h.pointService.GetBalance(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "point": balance})
}

// History handles GET /user/point/history
func (h *PointHandler) History(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	history, err := h.pointService.History(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": history})
}

// AddPoints handles POST /admin/points/add
func (h *PointHandler) AddPoints(c *gin.Context) {
	var req adjustPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Email and points are required")
		return
	}
	user, err := h.pointService.AddPoints(c.Request.Context(), req.Email, req.Points)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Points added successfully", "data": gin.H{"email": user.Email, "point": user.Point}})
}

// RemovePoints handles POST /admin/points/remove
func (h *PointHandler) RemovePoints(c *gin.Context) {
	var req adjustPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Email and points are required")
		return
	}
	user, err := h.pointService.RemovePoints(c.Request.Context(), req.Email, req.Points)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Points removed successfully", "data": gin.H{"email": user.Email, "point": user.Point}})
}
