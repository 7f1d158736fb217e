package handlers

import (
	"net/http"

	"github.com/ArowuTest/pointhub-backend/internal/apperrors"
	"github.com/ArowuTest/pointhub-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// SubscriptionHandler handles subscription activation and code administration
type SubscriptionHandler struct {
	subscriptionService services.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

type applyCodeRequest struct {
	Code string `json:"code"`
}

// ApplyCode handles POST /subscription/apply-code
func (h *SubscriptionHandler) ApplyCode(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req applyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Code is required")
		return
	}
	if err := h.subscriptionService.ActivateByCode(c.Request.Context(), req.Code, user.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Subscription activated successfully with the code!"})
}

// ActivateWithPoints handles POST /subscription/activate-with-points
func (h *SubscriptionHandler) ActivateWithPoints(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	result, err := h.subscriptionService.ActivateByPoints(c.Request.Context(), user.ID)
	if err != nil {
		if result != nil && apperrors.Is(err, apperrors.KindInsufficientFunds) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success":         false,
				"message":         apperrors.PublicMessage(err),
				"pointsAvailable": result.PointsAvailable,
				"subscription":    result.Subscription,
			})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"message":         "Subscription activated successfully! You can now access all features.",
		"pointsAvailable": result.PointsAvailable,
		"subscription":    result.Subscription,
	})
}

// AddCode handles POST /subscription/add-code
func (h *SubscriptionHandler) AddCode(c *gin.Context) {
	code, err := h.subscriptionService.GenerateCode(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Code generated successfully", "data": code})
}

// AllCodes handles GET /subscription/all-codes
func (h *SubscriptionHandler) AllCodes(c *gin.Context) {
	codes, err := h.subscriptionService.ListCodes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": codes})
}
