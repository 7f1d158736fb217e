package handlers

import (
	"net/http"

	"github.com/ArowuTest/pointhub-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// VideoHandler handles the video catalogue
type VideoHandler struct {
	videoService services.VideoService
}

func NewVideoHandler(videoService services.VideoService) *VideoHandler {
	return &VideoHandler{videoService: videoService}
}

type createVideoRequest struct {
	Link  string   `json:"link"`
	Point *float64 `json:"point"`
	Time  int      `json:"time"`
}

// List handles GET /videos
func (h *VideoHandler) List(c *gin.Context) {
	videos, err := h.videoService.ListVideos(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": videos})
}

// Get handles GET /videos/:id
func (h *VideoHandler) Get(c *gin.Context) {
	video, err := h.videoService.GetVideo(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": video})
}

// Create handles POST /videos
func (h *VideoHandler) Create(c *gin.Context) {
	var req createVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Link and point are required")
		return
	}
	video, err := h.videoService.CreateVideo(c.Request.Context(), services.CreateVideoRequest{
		Link:  req.Link,
		Point: req.Point,
		Time:  req.Time,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Video created successfully", "data": video})
}
