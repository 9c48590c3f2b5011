package server

import "net/http"

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// News
	mux.HandleFunc("/api/news/collect", s.handleNewsCollect)
	mux.HandleFunc("/api/news", s.handleNewsList)

	// Reports
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/reports/", s.routeReport)
	mux.HandleFunc("/api/reports", s.handleReportList)
}
