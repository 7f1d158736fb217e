package handlers

import (
	"net/http"

	"github.com/ArowuTest/pointhub-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// TransferHandler handles point transfers between users
type TransferHandler struct {
	transferService services.TransferService
}

func NewTransferHandler(transferService services.TransferService) *TransferHandler {
	return &TransferHandler{transferService: transferService}
}

type transferRequest struct {
	RecipientEmail string   `json:"recipientEmail"`
	Points         *float64 `json:"points"`
}

// Transfer handles POST /transfer
func (h *TransferHandler) Transfer(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Both recipientEmail and points are required")
		return
	}

	result, err := h.transferService.Transfer(c.Request.Context(), user.Email, services.TransferRequest{
		RecipientEmail: req.RecipientEmail,
		Points:         req.Points,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Points transferred successfully",
		"data": gin.H{
			"reference": result.Reference,
			"sender":    result.Sender,
			"recipient": result.Recipient,
		},
	})
}

// StuckTransfers handles GET /admin/transfers/stuck
func (h *TransferHandler) StuckTransfers(c *gin.Context) {
	transfers, err := h.transferService.StuckTransfers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": transfers})
}
