package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	ai "github.com/AgroMind-AI/AgroMind-Go/services/AI"
	ml "github.com/AgroMind-AI/AgroMind-Go/services/ML"
	sustainability "github.com/AgroMind-AI/AgroMind-Go/services/Sustainability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestServer builds a server around a small forest trained on cleanly
// separable rice/maize samples
func setupTestServer(t *testing.T) *Server {
	t.Helper()

	X := [][]float64{
		{10, 10, 10, 5.0, 15, 30, 50},
		{12, 11, 10, 5.2, 16, 32, 55},
		{11, 12, 12, 5.1, 14, 31, 52},
		{13, 10, 11, 5.3, 15, 33, 51},
		{120, 120, 150, 8.5, 40, 90, 250},
		{118, 122, 148, 8.4, 39, 91, 248},
		{121, 119, 152, 8.6, 41, 89, 251},
		{119, 121, 149, 8.5, 40, 90, 249},
	}
	y := []string{"rice", "rice", "rice", "rice", "maize", "maize", "maize", "maize"}
	names := []string{"N", "P", "K", "pH", "temperature", "humidity", "rainfall"}

	forest := ml.NewCropForest(15, 5, 2, 1)
	forest.SetSeed(42)
	require.NoError(t, forest.Train(X, y, names))

	return newTestServer(ml.NewCropModel(forest), sustainability.NewProfileRegistry(), ai.NewAgronomist(nil))
}

func doJSONRequest(t *testing.T, server *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func validPredictionRequest() map[string]any {
	return map[string]any{
		"N": 11, "P": 11, "K": 11, "pH": 5.1,
		"temperature": 15, "humidity": 31, "rainfall": 52,
	}
}

func TestHealthEndpoint(t *testing.T) {
	server := setupTestServer(t)

	rr := doJSONRequest(t, server, "GET", "/api/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	body := decodeBody(t, rr)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "AgroMind AI", body["service"])
}

func TestIndexEndpoint(t *testing.T) {
	server := setupTestServer(t)

	rr := doJSONRequest(t, server, "GET", "/", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	body := decodeBody(t, rr)
	assert.Equal(t, "AgroMind AI", body["service"])
	assert.NotEmpty(t, body["endpoints"])
}

func TestCropsEndpoint(t *testing.T) {
	server := setupTestServer(t)

	rr := doJSONRequest(t, server, "GET", "/api/crops", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	body := decodeBody(t, rr)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["count"])

	crops, ok := body["crops"].([]any)
	require.True(t, ok)
	assert.Equal(t, []any{"maize", "rice"}, crops)
}

func TestFeatureImportanceEndpoint(t *testing.T) {
	server := setupTestServer(t)

	rr := doJSONRequest(t, server, "GET", "/api/feature-importance", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	body := decodeBody(t, rr)
	assert.Equal(t, true, body["success"])

	chart, ok := body["importance_chart"].([]any)
	require.True(t, ok)
	assert.Len(t, chart, 7)
}

func TestPredictEndpoint(t *testing.T) {
	server := setupTestServer(t)

	rr := doJSONRequest(t, server, "POST", "/api/predict", validPredictionRequest())
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	body := decodeBody(t, rr)
	assert.Equal(t, true, body["success"])

	predictions, ok := body["predictions"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, predictions)

	top := predictions[0].(map[string]any)
	assert.Equal(t, "rice", top["crop"])
	assert.Greater(t, top["confidence"].(float64), 0.9)
	assert.NotEmpty(t, top["confidence_percent"])

	input, ok := body["input"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(11), input["N"])
}

func TestPredictEndpointTopN(t *testing.T) {
	server := setupTestServer(t)

	request := validPredictionRequest()
	request["top_n"] = 1

	rr := doJSONRequest(t, server, "POST", "/api/predict", request)
	require.Equal(t, http.StatusOK, rr.Code)

	body := decodeBody(t, rr)
	predictions := body["predictions"].([]any)
	assert.Len(t, predictions, 1)
}

func TestPredictEndpointValidation(t *testing.T) {
	server := setupTestServer(t)

	tests := []struct {
		name    string
		request map[string]any
	}{
		{"empty body", map[string]any{}},
		{"missing fields", map[string]any{"N": 90, "P": 42}},
		{"out of range", func() map[string]any {
			r := validPredictionRequest()
			r["rainfall"] = 500
			return r
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doJSONRequest(t, server, "POST", "/api/predict", tt.request)
			assert.Equal(t, http.StatusBadRequest, rr.Code)

			body := decodeBody(t, rr)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestExplainEndpoint(t *testing.T) {
	server := setupTestServer(t)

	request := validPredictionRequest()
	request["crop"] = "rice"

	rr := doJSONRequest(t, server, "POST", "/api/explain", request)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	body := decodeBody(t, rr)
	assert.Equal(t, true, body["success"])

	explanation, ok := body["explanation"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "rice", explanation["crop"])
	assert.NotEmpty(t, explanation["explanation"])
	assert.NotEmpty(t, explanation["importance_chart"])
	assert.NotNil(t, explanation["shap_values"])
}

func TestExplainEndpointValidation(t *testing.T) {
	server := setupTestServer(t)

	// Missing crop
	rr := doJSONRequest(t, server, "POST", "/api/explain", validPredictionRequest())
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Unknown crop
	request := validPredictionRequest()
	request["crop"] = "dragonfruit"
	rr = doJSONRequest(t, server, "POST", "/api/explain", request)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSoilImpactEndpoint(t *testing.T) {
	server := setupTestServer(t)

	request := map[string]any{
		"crop": "rice",
		"N":    90, "P": 42, "K": 43, "pH": 6.5, "rainfall": 202,
	}

	rr := doJSONRequest(t, server, "POST", "/api/soil-impact", request)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	body := decodeBody(t, rr)
	assert.Equal(t, true, body["success"])

	analysis, ok := body["analysis"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "rice", analysis["crop"])
	assert.Equal(t, float64(65), analysis["sustainability_score"])

	waterRisk, ok := analysis["water_risk"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "medium", waterRisk["risk_level"])
	assert.Equal(t, float64(808), waterRisk["available_water"])

	rotation, ok := analysis["crop_rotation"].(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, rotation["suggestions"])
	assert.NotEmpty(t, analysis["recommendations"])
}

func TestSoilImpactEndpointRequiresCrop(t *testing.T) {
	server := setupTestServer(t)

	rr := doJSONRequest(t, server, "POST", "/api/soil-impact", map[string]any{"N": 90})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAIAdviceUnavailable(t *testing.T) {
	server := setupTestServer(t)

	request := validPredictionRequest()
	request["crop"] = "rice"

	rr := doJSONRequest(t, server, "POST", "/api/ai-advice", request)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	body := decodeBody(t, rr)
	assert.Contains(t, body["error"], "AI Agronomist not available")
}

func TestHistoryUnavailable(t *testing.T) {
	server := setupTestServer(t)

	rr := doJSONRequest(t, server, "GET", "/api/history", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	server := setupTestServer(t)

	rr := doJSONRequest(t, server, "GET", "/api/predict", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
