package handlers

import (
	"net/http"

	"github.com/ArowuTest/pointhub-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// RewardHandler handles video watch reward requests
type RewardHandler struct {
	rewardService services.RewardService
}

func NewRewardHandler(rewardService services.RewardService) *RewardHandler {
	return &RewardHandler{rewardService: rewardService}
}

type settleRequest struct {
	VideoID   string   `json:"videoId"`
	Point     *float64 `json:"point"`
	Milestone int      `json:"milestone"`
}

// Settle handles POST /reward/settle
func (h *RewardHandler) Settle(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req settleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Video ID and point are required")
		return
	}

	result, err := h.rewardService.SettleWatchReward(c.Request.Context(), user.ID, services.SettleRequest{
		VideoID:   req.VideoID,
		Point:     req.Point,
		Milestone: req.Milestone,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     result.Awarded,
		"message":     result.Message,
		"totalPoints": result.TotalPoints,
	})
}
