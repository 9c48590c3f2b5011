package server

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/minwooahn/newslens/internal/interfaces"
	"github.com/minwooahn/newslens/internal/models"
	"github.com/minwooahn/newslens/internal/services/analysis"
	"github.com/minwooahn/newslens/internal/storage/badger"
)

var validate = validator.New()

// ValidateRequest checks struct validation tags and writes a 400 on failure.
func ValidateRequest(w http.ResponseWriter, v interface{}) bool {
	if err := validate.Struct(v); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return false
	}
	return true
}

// analyzeRequest is the optional body for POST /api/analyze.
type analyzeRequest struct {
	Date        string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	WindowHours int    `json:"window_hours" validate:"omitempty,min=1,max=168"`
	MaxRetries  int    `json:"max_retries" validate:"omitempty,min=1,max=10"`
}

// handleAnalyze handles POST /api/analyze: run the pipeline over the news
// window and persist the report.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req analyzeRequest
	if r.ContentLength > 0 {
		if !DecodeJSON(w, r, &req) {
			return
		}
		if !ValidateRequest(w, &req) {
			return
		}
	}

	date := time.Now().UTC()
	opts := interfaces.ReportOptions{
		Window:     time.Duration(req.WindowHours) * time.Hour,
		MaxRetries: req.MaxRetries,
	}
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid 'date', expected YYYY-MM-DD")
			return
		}
		// The report is labeled with the requested day; the news window
		// still covers that whole day.
		date = parsed
		opts.WindowEnd = parsed.Add(24 * time.Hour)
	}
	report, err := s.app.ReportService.GenerateReport(r.Context(), date, opts)
	if err != nil {
		if errors.Is(err, analysis.ErrNoNews) {
			WriteError(w, http.StatusUnprocessableEntity, "No news in the requested window")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Report generation failed: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, report)
}

// handleReportList handles GET /api/reports?limit=.
func (s *Server) handleReportList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			WriteError(w, http.StatusBadRequest, "Invalid 'limit'")
			return
		}
		limit = n
	}

	reports, err := s.app.ReportService.ListReports(r.Context(), limit)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to list reports: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(reports),
		"reports": reports,
	})
}

var datePathPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// routeReport dispatches /api/reports/{id} and /api/reports/{date}.
func (s *Server) routeReport(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/api/reports/")
	if key == "" || strings.Contains(key, "/") {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getReport(w, r, key)
	case http.MethodDelete:
		s.deleteReport(w, r, key)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodDelete)
	}
}

func (s *Server) getReport(w http.ResponseWriter, r *http.Request, key string) {
	report, err := s.lookupReport(r, key)
	if err != nil {
		if errors.Is(err, badger.ErrReportNotFound) {
			WriteError(w, http.StatusNotFound, "Report not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to get report: "+err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, report)
}

func (s *Server) lookupReport(r *http.Request, key string) (*models.Report, error) {
	if datePathPattern.MatchString(key) {
		return s.app.ReportService.GetReportByDate(r.Context(), key)
	}
	return s.app.ReportService.GetReport(r.Context(), key)
}

func (s *Server) deleteReport(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.app.ReportService.DeleteReport(r.Context(), id); err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to delete report: "+err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"deleted": id})
}
