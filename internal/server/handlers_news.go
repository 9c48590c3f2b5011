package server

import (
	"net/http"
	"time"
)

// collectRequest is the optional body for POST /api/news/collect.
type collectRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit" validate:"omitempty,min=1,max=100"`
}

// handleNewsCollect handles POST /api/news/collect.
func (s *Server) handleNewsCollect(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	req := collectRequest{
		Query: s.app.Config.Pipeline.NewsQuery,
		Limit: s.app.Config.Pipeline.NewsLimit,
	}
	if r.ContentLength > 0 {
		if !DecodeJSON(w, r, &req) {
			return
		}
		if !ValidateRequest(w, &req) {
			return
		}
	}

	saved, err := s.app.NewsService.CollectNews(r.Context(), req.Query, req.Limit)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "News collection failed: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"saved": saved,
		"query": req.Query,
	})
}

// handleNewsList handles GET /api/news?from=&to= (RFC3339, default last 24h).
func (s *Server) handleNewsList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	to := time.Now().UTC()
	from := to.Add(-24 * time.Hour)

	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid 'from' timestamp, expected RFC3339")
			return
		}
		from = t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid 'to' timestamp, expected RFC3339")
			return
		}
		to = t
	}

	items, err := s.app.NewsService.GetNewsByRange(r.Context(), from, to)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to query news: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(items),
		"items": items,
	})
}
