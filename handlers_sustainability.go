package main

import (
	"net/http"

	sustainability "github.com/AgroMind-AI/AgroMind-Go/services/Sustainability"
)

// handleSoilImpact analyzes the sustainability impact of growing a crop
// under the submitted soil conditions
func (s *Server) handleSoilImpact(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := decodeJSONBody(r, &payload); err != nil {
		writeBadRequestResponse(w, err.Error())
		return
	}
	if len(payload) == 0 {
		writeBadRequestResponse(w, "No data provided")
		return
	}

	crop, _ := payload["crop"].(string)
	if crop == "" {
		writeBadRequestResponse(w, "Crop name is required")
		return
	}

	soil := sustainability.SoilParams{}
	if v, ok := numericValue(payload["N"]); ok {
		soil.N = v
	}
	if v, ok := numericValue(payload["P"]); ok {
		soil.P = v
	}
	if v, ok := numericValue(payload["K"]); ok {
		soil.K = v
	}
	if v, ok := numericValue(payload["pH"]); ok {
		soil.PH = v
	}
	if v, ok := numericValue(payload["rainfall"]); ok {
		soil.Rainfall = v
	}

	duration := 4
	if v, ok := numericValue(payload["duration_months"]); ok && v > 0 {
		duration = int(v)
	}

	analysis := s.analyzer.Analyze(crop, soil, duration)

	writeJSONResponse(w, http.StatusOK, map[string]any{
		"success":  true,
		"analysis": analysis,
	})
}
