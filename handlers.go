package main

import (
	"net/http"

	reasoning "github.com/AgroMind-AI/AgroMind-Go/services/Reasoning"
)

// handleIndex returns basic service information and the route map
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"service": "AgroMind AI",
		"version": serviceVersion,
		"endpoints": map[string]string{
			"health":             "GET /api/health",
			"crops":              "GET /api/crops",
			"feature_importance": "GET /api/feature-importance",
			"history":            "GET /api/history?limit=20",
			"predict":            "POST /api/predict",
			"explain":            "POST /api/explain",
			"soil_impact":        "POST /api/soil-impact",
			"ai_advice":          "POST /api/ai-advice",
		},
	})
}

// handleHealth returns service health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "AgroMind AI",
		"version": serviceVersion,
	})
}

// handleCrops returns the full crop label set of the model
func (s *Server) handleCrops(w http.ResponseWriter, r *http.Request) {
	crops := s.model.Classes()

	writeJSONResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"crops":   crops,
		"count":   len(crops),
	})
}

// handleFeatureImportance returns the model-global importance chart
func (s *Server) handleFeatureImportance(w http.ResponseWriter, r *http.Request) {
	importance := s.model.Importance()

	writeJSONResponse(w, http.StatusOK, map[string]any{
		"success":            true,
		"feature_importance": importance,
		"importance_chart":   reasoning.ImportanceChart(importance),
	})
}

// handleHistory returns recent prediction records, newest first
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeServiceUnavailableResponse(w, "Prediction history is not enabled")
		return
	}

	limit := parseLimit(r, 20)
	records, err := s.history.Recent(limit)
	if err != nil {
		writeInternalServerErrorResponse(w, "Failed to load prediction history: "+err.Error())
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"history": records,
		"count":   len(records),
	})
}
