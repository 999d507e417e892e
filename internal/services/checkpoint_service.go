package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	apperrors "marketpulse/internal/errors"
	"marketpulse/internal/logger"
	"marketpulse/internal/market"
	"marketpulse/internal/models"
	"marketpulse/internal/pagination"
)

// checkpointService stores the update history with GORM.
type checkpointService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewCheckpointService creates a new CheckpointServicer.
func NewCheckpointService(db *gorm.DB) CheckpointServicer {
	return &checkpointService{db: db, now: time.Now}
}

// GetLatest returns the most recent checkpoint by run time.
func (s *checkpointService) GetLatest(ctx context.Context) (*models.UpdateCheckpoint, error) {
	var rows []models.UpdateCheckpoint
	err := s.db.WithContext(ctx).Order("last_update_time DESC").Limit(1).Find(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// Save appends a checkpoint for the given trading dates.
func (s *checkpointService) Save(ctx context.Context, currentDate, monthlyDate time.Time) {
	cp := &models.UpdateCheckpoint{
		LastUpdateDate:  market.FormatDate(currentDate),
		LastMonthlyDate: market.FormatDate(monthlyDate),
		LastUpdateTime:  s.now().UTC(),
		TotalUpdates:    1,
	}
	if err := s.db.WithContext(ctx).Create(cp).Error; err != nil {
		logger.Get().Errorw("failed to save update checkpoint",
			"last_update_date", cp.LastUpdateDate,
			"last_monthly_date", cp.LastMonthlyDate,
			"error", err,
		)
		return
	}
	logger.Get().Infow("update checkpoint saved",
		"id", cp.ID,
		"last_update_date", cp.LastUpdateDate,
		"last_monthly_date", cp.LastMonthlyDate,
	)
}

// ListHistory returns checkpoints newest first.
func (s *checkpointService) ListHistory(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.UpdateCheckpoint], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.WithContext(ctx).Model(&models.UpdateCheckpoint{})
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var rows []models.UpdateCheckpoint
	if err := base.Order("last_update_time DESC").Scopes(pagination.Paginate(page)).Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(rows, page.Page, page.PageSize, totalItems)
	return &result, nil
}
