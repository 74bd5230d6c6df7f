package main

import (
	"context"
	"log"

	ai "github.com/AgroMind-AI/AgroMind-Go/services/AI"
	ml "github.com/AgroMind-AI/AgroMind-Go/services/ML"
	reasoning "github.com/AgroMind-AI/AgroMind-Go/services/Reasoning"
	sustainability "github.com/AgroMind-AI/AgroMind-Go/services/Sustainability"
	"github.com/AgroMind-AI/AgroMind-Go/utils"
	"github.com/gorilla/mux"
)

const serviceVersion = "1.0.0"

// Server wires the prediction model and the reasoning services behind the
// HTTP API
type Server struct {
	router     *mux.Router
	config     *utils.ConfigManager
	model      *ml.CropModel
	attributor *reasoning.Attributor
	analyzer   *sustainability.Analyzer
	agronomist *ai.Agronomist
	history    *utils.HistoryStore
}

// NewServer builds a fully wired server from the global configuration.
// The trained model is required; the advisor and the prediction history
// are optional and degrade to unavailable when not configured.
func NewServer() (*Server, error) {
	if err := utils.LoadGlobalConfig(); err != nil {
		return nil, err
	}

	config := utils.GetConfigManager()
	cfg := config.GetConfig()

	if err := utils.InitLogger(cfg.Logging); err != nil {
		log.Printf("Failed to initialize logger: %v", err)
	}

	model, err := ml.LoadCropModel(cfg.Model.Path)
	if err != nil {
		return nil, err
	}

	registry := sustainability.NewProfileRegistry()
	if cfg.Model.ProfilesPath != "" {
		if err := registry.LoadProfiles(cfg.Model.ProfilesPath); err != nil {
			utils.GetLogger().Warn("Using built-in crop profiles",
				utils.String("path", cfg.Model.ProfilesPath),
				utils.String("reason", err.Error()),
				utils.Component("server"))
		}
	}

	s := &Server{
		router:     mux.NewRouter(),
		config:     config,
		model:      model,
		attributor: reasoning.NewAttributor(model),
		analyzer:   sustainability.NewAnalyzer(registry),
		agronomist: ai.NewAgronomist(nil),
	}

	if cfg.Advisor.Enabled && cfg.Advisor.APIKey != "" {
		client, err := ai.NewChatClient(ai.ChatClientConfig{
			APIKey:      cfg.Advisor.APIKey,
			BaseURL:     cfg.Advisor.BaseURL,
			Model:       cfg.Advisor.ModelName,
			Temperature: cfg.Advisor.Temperature,
			MaxTokens:   cfg.Advisor.MaxTokens,
			Timeout:     cfg.Advisor.Timeout,
		})
		if err != nil {
			utils.GetLogger().Warn("Advisor disabled",
				utils.String("reason", err.Error()),
				utils.Component("server"))
		} else {
			s.agronomist = ai.NewAgronomist(client)
		}
	}

	if cfg.Persistence.Enabled {
		history, err := utils.NewHistoryStore(cfg.Persistence.DatabasePath)
		if err != nil {
			utils.GetLogger().Error("Failed to initialize prediction history", err,
				utils.Component("server"))
		} else {
			s.history = history
			if err := history.StartRetentionJob(cfg.Persistence.CleanupCron, cfg.Persistence.RetentionDays); err != nil {
				utils.GetLogger().Error("Failed to start history retention job", err,
					utils.Component("server"))
			}
			utils.GetLogger().Info("Prediction history enabled",
				utils.String("path", cfg.Persistence.DatabasePath),
				utils.Int("retention_days", cfg.Persistence.RetentionDays),
				utils.Component("server"))
		}
	}

	s.setupRoutes()

	return s, nil
}

// newTestServer wires a server around pre-built collaborators, without
// touching the filesystem or global configuration
func newTestServer(model *ml.CropModel, registry *sustainability.ProfileRegistry, agronomist *ai.Agronomist) *Server {
	s := &Server{
		router:     mux.NewRouter(),
		config:     utils.NewConfigManager(),
		model:      model,
		attributor: reasoning.NewAttributor(model),
		analyzer:   sustainability.NewAnalyzer(registry),
		agronomist: agronomist,
	}
	s.setupRoutes()
	return s
}

// Router returns the configured HTTP handler
func (s *Server) Router() *mux.Router {
	return s.router
}

// Shutdown releases server resources
func (s *Server) Shutdown(ctx context.Context) error {
	if s.history != nil {
		if err := s.history.Close(); err != nil {
			return err
		}
	}
	return nil
}
