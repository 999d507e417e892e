package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "marketpulse/internal/errors"
	"marketpulse/internal/ingest"
	"marketpulse/internal/models"
	"marketpulse/internal/pagination"
	"marketpulse/internal/services"
)

// StockUpdater is the ingestion entry point used by UpdateHandler.
type StockUpdater interface {
	UpdateStocks(ctx context.Context, req ingest.UpdateRequest) (*ingest.UpdateResult, error)
	Status() ingest.Status
}

// UpdateHandler triggers ingestion batches and reports on them.
type UpdateHandler struct {
	updater           StockUpdater
	checkpointService services.CheckpointServicer
}

// NewUpdateHandler creates a new UpdateHandler.
func NewUpdateHandler(updater StockUpdater, checkpointService services.CheckpointServicer) *UpdateHandler {
	return &UpdateHandler{updater: updater, checkpointService: checkpointService}
}

// UpdateStatusResponse describes the ingestion state.
type UpdateStatusResponse struct {
	LatestCheckpoint *models.UpdateCheckpoint `json:"latest_checkpoint"`
	InFlight         []int                    `json:"in_flight"`
	UniverseSize     int                      `json:"universe_size"`
}

// UpdateStocks handles running one ingestion batch.
// @Summary     Run update batch
// @Description Fetch provider data for one batch of the symbol universe and upsert the results.
// @Description A batch that is already running returns success with processed=0.
// @Tags        updates
// @Accept      json
// @Produce     json
// @Param       request body ingest.UpdateRequest true "Batch to run"
// @Success     200 {object} ingest.UpdateResult "Batch result, possibly with per-symbol errors"
// @Failure     400 {object} ErrorResponse "Invalid batch parameters"
// @Failure     500 {object} ingest.UpdateResult "Batch could not run"
// @Router      /stocks/update [post]
func (h *UpdateHandler) UpdateStocks(c *gin.Context) {
	var req ingest.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidBatch, err.Error()))
		return
	}

	// A batch runs to completion even if the caller hangs up.
	result, err := h.updater.UpdateStocks(context.WithoutCancel(c.Request.Context()), req)
	if err != nil {
		if result == nil {
			respondWithError(c, err)
			return
		}
		c.JSON(statusFor(err), result)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetUpdateStatus handles reporting ingestion state.
// @Summary     Get update status
// @Description Get the latest checkpoint, the batches currently running and the universe size
// @Tags        updates
// @Produce     json
// @Success     200 {object} UpdateStatusResponse "Update status"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /update-status [get]
func (h *UpdateHandler) GetUpdateStatus(c *gin.Context) {
	latest, err := h.checkpointService.GetLatest(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	status := h.updater.Status()
	c.JSON(http.StatusOK, UpdateStatusResponse{
		LatestCheckpoint: latest,
		InFlight:         status.InFlight,
		UniverseSize:     status.UniverseSize,
	})
}

// ListUpdateHistory handles listing past checkpoints.
// @Summary     List update history
// @Description Get a paginated list of update checkpoints, newest first
// @Tags        updates
// @Produce     json
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.UpdateCheckpoint] "Paginated checkpoints"
// @Failure     400 {object} ErrorResponse "Invalid query"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /update-history [get]
func (h *UpdateHandler) ListUpdateHistory(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.checkpointService.ListHistory(c.Request.Context(), page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
