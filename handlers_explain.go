package main

import (
	"net/http"

	"github.com/AgroMind-AI/AgroMind-Go/utils"
)

// handleExplain explains why a specific crop suits the submitted conditions
func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
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
	if err := utils.ValidateCropName(crop, s.model.Classes()); err != nil {
		writeBadRequestResponse(w, err.Error())
		return
	}

	features := extractFeatures(payload)
	if err := utils.ValidateSoilClimateInput(features); err != nil {
		writeBadRequestResponse(w, err.Error())
		return
	}

	explanation := s.attributor.Explain(featureVector(features), crop, s.model.Importance())

	writeJSONResponse(w, http.StatusOK, map[string]any{
		"success":     true,
		"explanation": explanation,
	})
}
