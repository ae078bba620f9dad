package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"kaliroot-admin/internal/common/errors"
	"kaliroot-admin/internal/common/logger"
	"kaliroot-admin/internal/common/validation"
	"kaliroot-admin/internal/features/resource/models"
	"kaliroot-admin/internal/features/resource/repository"
	"kaliroot-admin/internal/platform/backend"
)

type ResourceService interface {
	List(ctx context.Context) (*models.ResourceList, error)
	// Save inserts when input.ID is 0 and updates otherwise. It reports
	// whether a row was created.
	Save(ctx context.Context, input models.ResourceInput) (bool, error)
	Delete(ctx context.Context, id int64) error
	Link(driveID string) (string, error)
}

type resourceService struct {
	repo repository.ResourceRepository
	log  zerolog.Logger
}

func NewResourceService(repo repository.ResourceRepository) ResourceService {
	return &resourceService{
		repo: repo,
		log:  logger.Component("resources"),
	}
}

// List returns resources newest first. A missing table is not an error,
// the view carries a notice instead.
func (s *resourceService) List(ctx context.Context) (*models.ResourceList, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		if backend.IsUndefinedTable(err) {
			return &models.ResourceList{
				Resources:    []models.ResourceResponse{},
				TableMissing: true,
				Notice:       "The table download_resources does not exist, create it in the backend first",
			}, nil
		}
		return nil, errors.FromBackend("list resources", backend.TableResources, err)
	}
	out := make([]models.ResourceResponse, len(rows))
	for i, r := range rows {
		if r.Icon == "" {
			r.Icon = models.DefaultIcon
		}
		if r.FileSize == "" {
			r.FileSize = models.DefaultFileSize
		}
		out[i] = models.ResourceResponse{
			Resource:     r,
			Active:       r.Active(),
			DownloadLink: models.DownloadLink(r.DriveFileID),
		}
	}
	return &models.ResourceList{Resources: out}, nil
}

// ResourceValues checks the two required fields and applies the form
// defaults. Nothing is sent to the backend when it fails.
func ResourceValues(input models.ResourceInput) (map[string]any, error) {
	title := strings.TrimSpace(input.Title)
	driveID := validation.ExtractDriveID(input.DriveFileID)

	if title == "" || driveID == "" {
		return nil, errors.New(errors.ErrCodeValidation, "Title and Drive ID are required").
			WithDetail("fields", []string{"title", "drive_file_id"})
	}

	icon := strings.TrimSpace(input.Icon)
	if icon == "" {
		icon = models.DefaultIcon
	}
	size := strings.TrimSpace(input.FileSize)
	if size == "" {
		size = models.DefaultFileSize
	}
	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = models.DefaultCategory
	}
	var image any
	if u := strings.TrimSpace(input.ImageURL); u != "" {
		image = u
	}
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	return map[string]any{
		"title":         title,
		"icon":          icon,
		"description":   input.Description,
		"drive_file_id": driveID,
		"file_size":     size,
		"image_url":     image,
		"category":      category,
		"is_active":     active,
	}, nil
}

func (s *resourceService) Save(ctx context.Context, input models.ResourceInput) (bool, error) {
	values, err := ResourceValues(input)
	if err != nil {
		return false, err
	}

	if input.ID == 0 {
		if err := s.repo.Create(ctx, values); err != nil {
			return false, errors.FromBackend("create resource", backend.TableResources, err)
		}
		s.log.Info().Str("title", values["title"].(string)).Msg("resource created")
		return true, nil
	}

	if input.ID < 0 {
		return false, errors.NewValidationError("id", "must be positive")
	}
	if err := s.repo.Update(ctx, input.ID, values); err != nil {
		return false, errors.FromBackend("update resource", backend.TableResources, err)
	}
	s.log.Info().Int64("resource_id", input.ID).Msg("resource updated")
	return false, nil
}

func (s *resourceService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.NewValidationError("id", "must be positive")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return errors.FromBackend("delete resource", backend.TableResources, err)
	}
	s.log.Info().Int64("resource_id", id).Msg("resource deleted")
	return nil
}

func (s *resourceService) Link(driveID string) (string, error) {
	id := validation.ExtractDriveID(driveID)
	if err := validation.ValidateRequired(id, "drive file id"); err != nil {
		return "", errors.NewValidationError("drive_file_id", err.Error())
	}
	return models.DownloadLink(id), nil
}
