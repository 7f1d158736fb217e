package utils

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ArowuTest/pointhub-backend/internal/models"
	"github.com/ArowuTest/pointhub-backend/internal/repositories"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// ImportResult summarises one CSV import
type ImportResult struct {
	TotalRows         int      `json:"totalRows"`
	Created           int      `json:"created"`
	Skipped           int      `json:"skipped"`
	ReferralsResolved int      `json:"referralsResolved"`
	Errors            []string `json:"errors"`
}

func (r *ImportResult) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// CSVImporter loads users and videos from CSV files
type CSVImporter struct {
	userRepo   repositories.UserRepository
	videoRepo  repositories.VideoRepository
	bcryptCost int
}

// NewCSVImporter creates a new CSVImporter
func NewCSVImporter(userRepo repositories.UserRepository, videoRepo repositories.VideoRepository) *CSVImporter {
	return &CSVImporter{userRepo: userRepo, videoRepo: videoRepo, bcryptCost: bcrypt.DefaultCost}
}

// ImportUsers reads rows of email,password,point,referredBy[,role]. Existing emails are
// skipped. Once all rows are in, every referredBy value is resolved to a user id.
func (i *CSVImporter) ImportUsers(ctx context.Context, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	emailIdx := findColumnIndex(header, []string{"email", "Email", "E-mail"})
	passwordIdx := findColumnIndex(header, []string{"password", "Password"})
	pointIdx := findColumnIndex(header, []string{"point", "points", "Point", "Points"})
	referredIdx := findColumnIndex(header, []string{"referredBy", "referred_by", "Referred By"})
	roleIdx := findColumnIndex(header, []string{"role", "Role"})
	if emailIdx == -1 {
		return nil, errors.New("email column not found in CSV")
	}

	result := &ImportResult{Errors: []string{}}
	var referred []*models.User
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		result.TotalRows++
		if err != nil {
			result.addError("Row %d: %v", result.TotalRows, err)
			continue
		}

		email := strings.ToLower(strings.TrimSpace(cell(row, emailIdx)))
		if email == "" || !strings.Contains(email, "@") {
			result.addError("Row %d: invalid email %q", result.TotalRows, cell(row, emailIdx))
			continue
		}

		var point float64
		if raw := strings.TrimSpace(cell(row, pointIdx)); raw != "" {
			point, err = strconv.ParseFloat(raw, 64)
			if err != nil || point < 0 {
				result.addError("Row %d: invalid point %q", result.TotalRows, raw)
				continue
			}
		}

		user := &models.User{
			Email:      email,
			Role:       models.RoleUser,
			Point:      point,
			ReferredBy: strings.TrimSpace(cell(row, referredIdx)),
		}
		if role := strings.ToUpper(strings.TrimSpace(cell(row, roleIdx))); role != "" {
			user.Role = role
		}
		if password := cell(row, passwordIdx); password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(password), i.bcryptCost)
			if err != nil {
				result.addError("Row %d: failed to hash password: %v", result.TotalRows, err)
				continue
			}
			user.Password = string(hash)
		}

		if err := i.userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, repositories.ErrDuplicateKey) {
				result.Skipped++
				continue
			}
			result.addError("Row %d: failed to create user: %v", result.TotalRows, err)
			continue
		}
		result.Created++
		if user.ReferredBy != "" {
			referred = append(referred, user)
		}
	}

	for _, u := range referred {
		referrer, err := i.userRepo.FindByEmailPrefix(ctx, u.ReferredBy)
		if err != nil {
			if !errors.Is(err, repositories.ErrNotFound) {
				result.addError("Referral for %s: %v", u.Email, err)
			}
			continue
		}
		if referrer.ID == u.ID {
			continue
		}
		if err := i.userRepo.SetReferrerIfUnset(ctx, u.ID, referrer.ID); err != nil {
			result.addError("Referral for %s: %v", u.Email, err)
			continue
		}
		result.ReferralsResolved++
	}

	slog.Info("Users imported", "rows", result.TotalRows, "created", result.Created, "skipped", result.Skipped, "referrals", result.ReferralsResolved, "errors", len(result.Errors))
	return result, nil
}

// ImportVideos reads rows of link,point,time.
func (i *CSVImporter) ImportVideos(ctx context.Context, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	linkIdx := findColumnIndex(header, []string{"link", "Link", "url", "URL"})
	pointIdx := findColumnIndex(header, []string{"point", "points", "Point", "Points"})
	timeIdx := findColumnIndex(header, []string{"time", "Time", "duration", "Duration"})
	if linkIdx == -1 || pointIdx == -1 {
		return nil, errors.New("link and point columns are required")
	}

	result := &ImportResult{Errors: []string{}}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		result.TotalRows++
		if err != nil {
			result.addError("Row %d: %v", result.TotalRows, err)
			continue
		}

		link := strings.TrimSpace(cell(row, linkIdx))
		point, err := strconv.ParseFloat(strings.TrimSpace(cell(row, pointIdx)), 64)
		if link == "" || err != nil || point <= 0 {
			result.addError("Row %d: link and a positive point are required", result.TotalRows)
			continue
		}
		var seconds int
		if raw := strings.TrimSpace(cell(row, timeIdx)); raw != "" {
			seconds, err = strconv.Atoi(raw)
			if err != nil || seconds < 0 {
				result.addError("Row %d: invalid time %q", result.TotalRows, raw)
				continue
			}
		}

		if err := i.videoRepo.Create(ctx, &models.Video{Link: link, Point: point, Time: seconds}); err != nil {
			result.addError("Row %d: failed to create video: %v", result.TotalRows, err)
			continue
		}
		result.Created++
	}

	slog.Info("Videos imported", "rows", result.TotalRows, "created", result.Created, "errors", len(result.Errors))
	return result, nil
}

// findColumnIndex returns the index of the first header matching any name, or -1
func findColumnIndex(header []string, names []string) int {
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		for _, name := range names {
			if strings.EqualFold(h, name) {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
