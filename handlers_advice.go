package main

import (
	"net/http"

	ai "github.com/AgroMind-AI/AgroMind-Go/services/AI"
)

// handleAIAdvice returns LLM-backed farming guidance for a crop
func (s *Server) handleAIAdvice(w http.ResponseWriter, r *http.Request) {
	if !s.agronomist.Available() {
		writeServiceUnavailableResponse(w, "AI Agronomist not available. Please configure an advisor API key.")
		return
	}

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

	location, _ := payload["location"].(string)

	soil := ai.SoilConditions{}
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

	climate := ai.ClimateConditions{}
	if v, ok := numericValue(payload["temperature"]); ok {
		climate.Temperature = v
	}
	if v, ok := numericValue(payload["humidity"]); ok {
		climate.Humidity = v
	}
	if v, ok := numericValue(payload["rainfall"]); ok {
		climate.Rainfall = v
	}

	advice, err := s.agronomist.Advise(r.Context(), crop, soil, climate, location)
	if err != nil {
		writeInternalServerErrorResponse(w, "AI advice error: "+err.Error())
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"crop":    advice.Crop,
		"advice":  advice.Advice,
		"model":   advice.Model,
	})
}
