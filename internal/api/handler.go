package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/guttosm/tradewindow/internal/domain/dto"
	"github.com/guttosm/tradewindow/internal/domain/models"
	"github.com/guttosm/tradewindow/internal/ingestion"
	"github.com/guttosm/tradewindow/internal/metrics"
	"github.com/guttosm/tradewindow/internal/middleware"
	"github.com/guttosm/tradewindow/internal/service"
	"github.com/guttosm/tradewindow/internal/trade"
)

// Handler provides HTTP handlers for the trade analysis endpoints.
//
// Responsibilities:
//   - Decode uploads and JSON bodies into a price series
//   - Run the analysis through the service layer
//   - Translate results into response DTOs
//   - Map domain errors to HTTP status codes
type Handler struct {
	svc     service.TradeService
	metrics *metrics.Registry
}

// NewHandler constructs a new Handler instance.
func NewHandler(svc service.TradeService) *Handler {
	return &Handler{svc: svc}
}

// WithMetrics makes the handler count inputs rejected before analysis.
func (h *Handler) WithMetrics(m *metrics.Registry) *Handler {
	h.metrics = m
	return h
}

// ProcessCSV handles POST /api/process_csv.
//
// ProcessCSV godoc
// @Summary      Best trade from an uploaded file
// @Description  Parses a CSV (date,price; header optional) or .xlsx upload and returns the single buy/sell pair with maximum profit
// @Tags         trade
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "CSV or XLSX price series"
// @Success      200   {object}  dto.TradeResponse  "Success"
// @Failure      400   {object}  dto.ErrorResponse  "Bad Request"
// @Failure      413   {object}  dto.ErrorResponse  "Upload too large"
// @Failure      500   {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/process_csv [post]
func (h *Handler) ProcessCSV(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.AbortWithError(c, http.StatusRequestEntityTooLarge, "upload too large", err)
			return
		}
		middleware.AbortWithError(c, http.StatusBadRequest, "Missing 'file'", nil)
		return
	}

	f, err := fh.Open()
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "could not read uploaded file", err)
		return
	}
	defer func() { _ = f.Close() }()

	source := "csv"
	if strings.HasSuffix(strings.ToLower(fh.Filename), ".xlsx") {
		source = "xlsx"
	}

	series, err := ingestion.ParseUpload(fh.Filename, f)
	if err != nil {
		h.rejectInput(source, err)
		h.fail(c, err)
		return
	}
	h.analyze(c, source, series)
}

// ProcessJSON handles POST /api/process_json.
//
// ProcessJSON godoc
// @Summary      Best trade from a JSON series
// @Description  Accepts {"series":[{"date","price"}]} with at least two entries; price may be a number or numeric string
// @Tags         trade
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ProcessJSONRequest  true  "Price series"
// @Success      200   {object}  dto.TradeResponse  "Success"
// @Failure      400   {object}  dto.ErrorResponse  "Bad Request"
// @Failure      500   {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/process_json [post]
func (h *Handler) ProcessJSON(c *gin.Context) {
	series, err := ingestion.DecodeJSON(c.Request.Body)
	if err != nil {
		h.rejectInput("json", err)
		h.fail(c, err)
		return
	}
	h.analyze(c, "json", series)
}

// ListAnalyses handles GET /api/analyses.
//
// ListAnalyses godoc
// @Summary      Recent analyses
// @Description  Lists stored analyses, newest first
// @Tags         history
// @Produce      json
// @Param        limit  query     int  false  "Max rows (1-100, default 20)"
// @Success      200    {object}  dto.AnalysisListResponse  "Success"
// @Failure      400    {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404    {object}  dto.ErrorResponse  "History disabled"
// @Failure      500    {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/analyses [get]
func (h *Handler) ListAnalyses(c *gin.Context) {
	limit := 0
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			middleware.AbortWithError(c, http.StatusBadRequest, "limit must be a positive integer", nil)
			return
		}
		limit = n
	}

	list, err := h.svc.ListAnalyses(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	items := dto.NewAnalysisSummaries(list)
	c.JSON(http.StatusOK, dto.AnalysisListResponse{Analyses: items, Count: len(items)})
}

// GetAnalysis handles GET /api/analyses/:id.
//
// GetAnalysis godoc
// @Summary      Stored analysis
// @Description  Returns a stored analysis with its full series
// @Tags         history
// @Produce      json
// @Param        id   path      string  true  "Analysis ID (UUID)"
// @Success      200  {object}  dto.TradeResponse  "Success"
// @Failure      400  {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404  {object}  dto.ErrorResponse  "Not Found"
// @Failure      500  {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/analyses/{id} [get]
func (h *Handler) GetAnalysis(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid analysis id", err)
		return
	}

	a, err := h.svc.GetAnalysis(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if a == nil {
		middleware.AbortWithError(c, http.StatusNotFound, "analysis not found", nil)
		return
	}
	c.JSON(http.StatusOK, dto.NewTradeResponse(a))
}

func (h *Handler) analyze(c *gin.Context, source string, series models.Series) {
	a, err := h.svc.Analyze(c.Request.Context(), source, series)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTradeResponse(a))
}

func (h *Handler) rejectInput(source string, err error) {
	var ve *ingestion.ValidationError
	if h.metrics != nil && errors.As(err, &ve) {
		h.metrics.ObserveRejected(source, "invalid_input")
	}
}

// fail maps an error to its status code and writes the error body.
func (h *Handler) fail(c *gin.Context, err error) {
	var ve *ingestion.ValidationError
	var ide *trade.InsufficientDataError

	switch {
	case errors.As(err, &ve):
		middleware.AbortWithError(c, http.StatusBadRequest, ve.Message, nil)
	case errors.As(err, &ide):
		middleware.AbortWithError(c, http.StatusBadRequest, ide.Error(), nil)
	case errors.Is(err, service.ErrHistoryDisabled):
		middleware.AbortWithError(c, http.StatusNotFound, "analysis history is disabled", nil)
	case errors.Is(err, context.DeadlineExceeded):
		middleware.AbortWithError(c, http.StatusGatewayTimeout, "request timed out", err)
	default:
		middleware.AbortWithError(c, http.StatusInternalServerError, "failed to process request", err)
	}
}
