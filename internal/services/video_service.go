package services

import (
	"context"
	"strings"

	"github.com/ArowuTest/pointhub-backend/internal/apperrors"
	"github.com/ArowuTest/pointhub-backend/internal/models"
	"github.com/ArowuTest/pointhub-backend/internal/repositories"
	"golang.org/x/exp/slog"
)

var _ VideoService = (*VideoServiceImpl)(nil)

// CreateVideoRequest describes a new catalogue entry.
type CreateVideoRequest struct {
	Link  string
	Point *float64
	Time  int
}

type VideoServiceImpl struct {
	videoRepo repositories.VideoRepository
}

func NewVideoService(videoRepo repositories.VideoRepository) *VideoServiceImpl {
	return &VideoServiceImpl{videoRepo: videoRepo}
}

func (s *VideoServiceImpl) CreateVideo(ctx context.Context, req CreateVideoRequest) (*models.Video, error) {
	link := strings.TrimSpace(req.Link)
	if link == "" || req.Point == nil {
		return nil, apperrors.InvalidInput("Link and point are required")
	}
	if !validPoints(*req.Point) {
		return nil, apperrors.InvalidInput("Point must be a positive number")
	}
	if req.Time < 0 {
		return nil, apperrors.InvalidInput("Time cannot be negative")
	}
	video := &models.Video{Link: link, Point: *req.Point, Time: req.Time}
	if err := s.videoRepo.Create(ctx, video); err != nil {
		return nil, apperrors.Internal("Failed to create video", err)
	}
	slog.Info("Video created", "videoId", video.ID, "point", video.Point)
	return video, nil
}

func (s *VideoServiceImpl) GetVideo(ctx context.Context, id string) (*models.Video, error) {
	vid, err := parseID(id, "Video not found")
	if err != nil {
		return nil, err
	}
	video, err := s.videoRepo.FindByID(ctx, vid)
	if err != nil {
		return nil, lookupErr(err, "Video not found", "Failed to retrieve video")
	}
	return video, nil
}

func (s *VideoServiceImpl) ListVideos(ctx context.Context) ([]*models.Video, error) {
	videos, err := s.videoRepo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve videos", err)
	}
	return videos, nil
}
