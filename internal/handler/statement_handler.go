package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"insight-engine/internal/domain"
	"insight-engine/internal/service"
	"insight-engine/pkg/logger"
	"insight-engine/pkg/response"
)

type StatementHandler struct {
	ingestion service.IngestionService
	insights  service.InsightService
}

func NewStatementHandler(ingestion service.IngestionService, insights service.InsightService) *StatementHandler {
	return &StatementHandler{ingestion: ingestion, insights: insights}
}

// UploadStatement godoc
// @Summary Upload a bank statement
// @Description Ingest a delimited statement file, normalizing and categorizing each row
// @Tags statements
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Statement file (CSV with header row)"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 422 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/statements [post]
func (h *StatementHandler) UploadStatement(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Missing statement file", "Attach the statement as multipart field 'file'")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to open uploaded file")
		response.InternalError(c, "Failed to read upload", err.Error())
		return
	}
	defer file.Close()

	result, err := h.ingestion.Ingest(fileHeader.Filename, file)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("file_name", fileHeader.Filename).Error("Statement ingestion failed")
		if result != nil {
			// Parsed but terminally rejected (e.g. no valid rows)
			response.UnprocessableBatch(c, "Statement could not be processed", err.Error())
			return
		}
		response.BadRequest(c, "Statement could not be read", err.Error())
		return
	}

	response.Success(c, http.StatusCreated, "Statement ingested successfully", result)
}

// GetStatement godoc
// @Summary Get statement status
// @Description Get one statement's processing status and row counts
// @Tags statements
// @Produce json
// @Param statement_id path string true "Statement ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/statements/{statement_id} [get]
func (h *StatementHandler) GetStatement(c *gin.Context) {
	statementID, err := uuid.Parse(c.Param("statement_id"))
	if err != nil {
		response.BadRequest(c, "Invalid statement ID", "Statement IDs are UUIDs")
		return
	}

	statement, err := h.ingestion.GetStatement(statementID)
	if err != nil {
		response.NotFound(c, "Statement not found")
		return
	}

	response.Success(c, http.StatusOK, "Statement retrieved successfully", statement)
}

// GetInsights godoc
// @Summary Get statement insights
// @Description Get the computed financial-health aggregates for a processed statement. Computed once per statement; repeated requests return the stored result.
// @Tags insights
// @Produce json
// @Param statement_id path string true "Statement ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /api/v1/statements/{statement_id}/insights [get]
func (h *StatementHandler) GetInsights(c *gin.Context) {
	statementID, err := uuid.Parse(c.Param("statement_id"))
	if err != nil {
		response.BadRequest(c, "Invalid statement ID", "Statement IDs are UUIDs")
		return
	}

	insights, err := h.insights.GetOrCompute(statementID)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("statement_id", statementID).Error("Failed to get insights")
		if errors.Is(err, domain.ErrEmptyInput) {
			response.UnprocessableBatch(c, "No transactions to analyze", err.Error())
			return
		}
		response.Error(c, http.StatusConflict, "STATEMENT_NOT_READY", "Insights unavailable for this statement", err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Insights retrieved successfully", insights)
}
