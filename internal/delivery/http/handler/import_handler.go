package handler

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/sells-group/taxengine/internal/pkg/errors"
	"github.com/sells-group/taxengine/internal/pkg/utils"
	"github.com/sells-group/taxengine/internal/usecase"
	"github.com/sells-group/taxengine/internal/usecase/dto"
)

// ImportHandler exposes the bulk-import boundary adapters: submit and
// status lookup.
type ImportHandler struct {
	importUC *usecase.ImportUseCase
	logger   *zap.Logger
}

// NewImportHandler constructs an ImportHandler.
func NewImportHandler(importUC *usecase.ImportUseCase, logger *zap.Logger) *ImportHandler {
	return &ImportHandler{importUC: importUC, logger: logger}
}

// SubmitImport accepts a multipart CSV upload and enqueues it for
// background processing.
func (h *ImportHandler) SubmitImport(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, apperrors.ErrImportFileMissing)
	}

	f, err := fileHeader.Open()
	if err != nil {
		return utils.SendError(c, apperrors.ErrImportFileMissing)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		h.logger.Error("failed to read uploaded import file", zap.Error(err))
		return utils.SendError(c, apperrors.ErrImportFileMissing)
	}

	job, err := h.importUC.SubmitImport(c.Context(), dto.SubmitImportRequest{
		FileName: fileHeader.Filename,
		Content:  content,
	})
	if err != nil {
		return utils.SendError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(utils.SuccessResponse{Data: job})
}

// GetImportStatus returns the full status of an import job, including
// progress counters and any per-row error report.
func (h *ImportHandler) GetImportStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, apperrors.ErrJobNotFound)
	}

	job, err := h.importUC.GetImportStatus(c.Context(), id)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, job, nil)
}
