package main

import (
	"net/http"
	"strconv"

	reasoning "github.com/AgroMind-AI/AgroMind-Go/services/Reasoning"
	"github.com/AgroMind-AI/AgroMind-Go/utils"
)

// handlePredict ranks the best crop candidates for the submitted soil and
// climate measurements
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := decodeJSONBody(r, &payload); err != nil {
		writeBadRequestResponse(w, err.Error())
		return
	}
	if len(payload) == 0 {
		writeBadRequestResponse(w, "No data provided")
		return
	}

	features := extractFeatures(payload)
	if err := utils.ValidateSoilClimateInput(features); err != nil {
		writeBadRequestResponse(w, err.Error())
		return
	}

	topN := s.config.GetConfig().Model.TopN
	if n, ok := numericValue(payload["top_n"]); ok {
		topN = int(n)
	}

	fv := featureVector(features)
	proba, err := s.model.PredictProba(fv.Values())
	if err != nil {
		writeInternalServerErrorResponse(w, "Prediction error: "+err.Error())
		return
	}

	predictions, err := reasoning.Rank(proba, s.model.Classes(), topN)
	if err != nil {
		writeInternalServerErrorResponse(w, "Prediction error: "+err.Error())
		return
	}

	if s.history != nil && len(predictions) > 0 {
		if _, err := s.history.SavePrediction(features, predictions[0].Crop, predictions[0].Confidence, predictions); err != nil {
			utils.GetLogger().Error("Failed to record prediction", err,
				utils.Component("predict"))
		}
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{
		"success":     true,
		"predictions": predictions,
		"input":       features,
	})
}

// extractFeatures pulls the known numeric feature fields out of a request
// payload. Numeric strings are accepted and converted.
func extractFeatures(payload map[string]any) map[string]float64 {
	features := make(map[string]float64)
	for _, name := range utils.RequiredFeatures {
		if v, ok := numericValue(payload[name]); ok {
			features[name] = v
		}
	}
	return features
}

// numericValue converts a decoded JSON value to float64 where possible
func numericValue(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case string:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// featureVector maps validated request features into canonical order
func featureVector(features map[string]float64) reasoning.FeatureVector {
	return reasoning.FeatureVector{
		N:           features["N"],
		P:           features["P"],
		K:           features["K"],
		PH:          features["pH"],
		Temperature: features["temperature"],
		Humidity:    features["humidity"],
		Rainfall:    features["rainfall"],
	}
}
