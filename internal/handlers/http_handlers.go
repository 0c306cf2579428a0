package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"lottoapi/internal/models"
	"lottoapi/internal/repository"
	"lottoapi/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"
)

// HTTPHandler holds the dependencies for the HTTP handlers: the
// lottery service and the api-key store.
type HTTPHandler struct {
	service *services.LotteryService
	keys    repository.APIKeyRepository
}

// NewHTTPHandler creates a new HTTPHandler.
func NewHTTPHandler(service *services.LotteryService, keys repository.APIKeyRepository) *HTTPHandler {
	return &HTTPHandler{
		service: service,
		keys:    keys,
	}
}

// RegisterPublicRoutes registers the routes that skip api-key checks.
func (h *HTTPHandler) RegisterPublicRoutes(router *gin.Engine) {
	router.GET("/api/th/v1/lottery/health", h.Health)
}

// RegisterLotteryRoutes registers the api-key-protected lottery routes
// on the given group.
func (h *HTTPHandler) RegisterLotteryRoutes(group *gin.RouterGroup) {
	group.GET("/draws", h.GetAllDraws)
	group.GET("/draws/latest", h.GetLatestDraw)
	group.GET("/draws/:date", h.GetDrawByDate)
	group.POST("/draws/upload-csv", h.UploadDrawsCSV)
	group.POST("/check", h.CheckNumbers)
	group.GET("/search", h.SearchDraws)
}

// APIKeyMiddleware validates the x-api-key header against the key
// store on every request and stores the resolved client name on the
// context.
func (h *HTTPHandler) APIKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("x-api-key")
		if key == "" {
			respondError(c, http.StatusUnauthorized, "Missing API Key")
			c.Abort()
			return
		}

		clientName, err := h.keys.Validate(c.Request.Context(), key)
		switch {
		case errors.Is(err, repository.ErrAPIKeyNotFound):
			respondError(c, http.StatusUnauthorized, "Invalid API Key")
			c.Abort()
			return
		case errors.Is(err, repository.ErrAPIKeyInactive):
			respondError(c, http.StatusForbidden, "You don't have access to the api")
			c.Abort()
			return
		case err != nil:
			logger.Errorf("API key validation failed: %v", err)
			respondError(c, http.StatusInternalServerError, "Error validating API key")
			c.Abort()
			return
		}

		c.Set("client_name", clientName)
		c.Next()
	}
}

// Health reports liveness.
func (h *HTTPHandler) Health(c *gin.Context) {
	respondOK(c, "OK", nil)
}

// GetAllDraws handles GET /draws with pagination.
func (h *HTTPHandler) GetAllDraws(c *gin.Context) {
	page, size, ok := paginationParams(c)
	if !ok {
		return
	}

	result, err := h.service.GetAllDraws(c.Request.Context(), page, size)
	if err != nil {
		logger.Errorf("Error retrieving lottery draws: %v", err)
		respondError(c, http.StatusInternalServerError, "Error retrieving lottery draws")
		return
	}

	respondOK(c, fmt.Sprintf("Retrieved %d lottery draws", len(result.Items)), gin.H{
		"draws": result.Items,
		"pagination": gin.H{
			"total": result.Total,
			"page":  result.Page,
			"size":  result.Size,
			"pages": result.Pages,
		},
	})
}

// GetLatestDraw handles GET /draws/latest.
func (h *HTTPHandler) GetLatestDraw(c *gin.Context) {
	draw, err := h.service.GetLatestDraw(c.Request.Context())
	if errors.Is(err, repository.ErrDrawNotFound) {
		respondError(c, http.StatusNotFound, "No lottery draws found")
		return
	}
	if err != nil {
		logger.Errorf("Error retrieving latest lottery draw: %v", err)
		respondError(c, http.StatusInternalServerError, "Error retrieving latest lottery draw")
		return
	}
	respondOK(c, "Latest lottery draw retrieved", gin.H{"draw": draw})
}

// GetDrawByDate handles GET /draws/:date.
func (h *HTTPHandler) GetDrawByDate(c *gin.Context) {
	date, err := models.ParseDate(c.Param("date"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	draw, err := h.service.GetDrawByDate(c.Request.Context(), date)
	if errors.Is(err, repository.ErrDrawNotFound) {
		respondError(c, http.StatusNotFound, fmt.Sprintf("No lottery draw found for date %s", date))
		return
	}
	if err != nil {
		logger.Errorf("Error retrieving lottery draw for %s: %v", date, err)
		respondError(c, http.StatusInternalServerError, "Error retrieving lottery draw")
		return
	}
	respondOK(c, fmt.Sprintf("Lottery draw found for %s", date), gin.H{"draw": draw})
}

// CheckNumbers handles POST /check: validates the submitted numbers,
// runs them through the match engine and returns per-number results
// with an aggregate summary.
func (h *HTTPHandler) CheckNumbers(c *gin.Context) {
	var req models.CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Request must contain 1 to 10 lottery numbers")
		return
	}

	for _, number := range req.Numbers {
		if !isValidNumber(number) {
			respondError(c, http.StatusBadRequest, fmt.Sprintf(
				"Invalid lottery number format: %s. Numbers must contain only digits and be at least 2 digits long.", number))
			return
		}
	}

	var date *models.Date
	if req.Date != "" {
		parsed, err := models.ParseDate(req.Date)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		date = &parsed
	}

	results, err := h.service.CheckNumbers(c.Request.Context(), req.Numbers, date)
	if err != nil {
		logger.Errorf("Error checking lottery numbers: %v", err)
		respondError(c, http.StatusInternalServerError, "Error checking lottery numbers")
		return
	}

	summary := services.Summarize(results)
	respondOK(c,
		fmt.Sprintf("Checked %d numbers. Found %d winners.", summary.CheckedCount, summary.WinningCount),
		models.CheckResponse{Results: results, CheckSummary: summary})
}

// SearchDraws handles GET /search with optional date-range filters.
func (h *HTTPHandler) SearchDraws(c *gin.Context) {
	page, size, ok := paginationParams(c)
	if !ok {
		return
	}

	var start, end *models.Date
	if raw := c.Query("start_date"); raw != "" {
		parsed, err := models.ParseDate(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		start = &parsed
	}
	if raw := c.Query("end_date"); raw != "" {
		parsed, err := models.ParseDate(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		end = &parsed
	}

	result, err := h.service.SearchDraws(c.Request.Context(), start, end, page, size)
	if err != nil {
		logger.Errorf("Error searching lottery draws: %v", err)
		respondError(c, http.StatusInternalServerError, "Error searching lottery draws")
		return
	}

	respondOK(c, fmt.Sprintf("Found %d lottery draws", result.Total), gin.H{
		"draws": result.Items,
		"filters": gin.H{
			"start_date": dateOrNil(start),
			"end_date":   dateOrNil(end),
		},
		"pagination": gin.H{
			"total": result.Total,
			"page":  result.Page,
			"size":  result.Size,
			"pages": result.Pages,
		},
	})
}

// UploadDrawsCSV handles the bulk CSV ingestion of draw records. Rows
// whose date already exists are skipped; malformed rows are counted
// and reported but do not abort the upload.
func (h *HTTPHandler) UploadDrawsCSV(c *gin.Context) {
	file, _, err := c.Request.FormFile("drawsCSV")
	if err != nil {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("Error retrieving file: %v", err))
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		respondError(c, http.StatusBadRequest, "CSV file is empty or has no header row")
		return
	}

	var uploaded, skipped, failed int
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			respondError(c, http.StatusBadRequest, fmt.Sprintf("Error reading CSV: %v", err))
			return
		}

		draw, err := models.ParseDrawRow(header, record)
		if err != nil {
			logger.Infof("Skipping malformed draw CSV record: %v", err)
			failed++
			continue
		}

		switch err := h.service.CreateDraw(c.Request.Context(), draw); {
		case errors.Is(err, repository.ErrDrawExists):
			skipped++
		case err != nil:
			logger.Errorf("Error inserting draw for %s: %v", draw.Date, err)
			failed++
		default:
			uploaded++
		}
	}

	respondOK(c, fmt.Sprintf("Uploaded %d draws (%d skipped, %d failed)", uploaded, skipped, failed), gin.H{
		"uploaded": uploaded,
		"skipped":  skipped,
		"failed":   failed,
	})
}

// paginationParams reads and bounds the page/size query parameters.
func paginationParams(c *gin.Context) (page, size int, ok bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		respondError(c, http.StatusBadRequest, "page must be a positive integer")
		return 0, 0, false
	}
	size, err = strconv.Atoi(c.DefaultQuery("size", "50"))
	if err != nil || size < 1 || size > 100 {
		respondError(c, http.StatusBadRequest, "size must be between 1 and 100")
		return 0, 0, false
	}
	return page, size, true
}

// isValidNumber enforces the caller-facing ticket contract: digits
// only, at least 2 characters.
func isValidNumber(number string) bool {
	if len(number) < 2 {
		return false
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func dateOrNil(d *models.Date) interface{} {
	if d == nil {
		return nil
	}
	return d.String()
}

func respondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, models.APIResponse{
		Success: false,
		Message: "error",
		Error:   msg,
	})
}
