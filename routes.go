package main

// setupRoutes registers all HTTP routes
func (s *Server) setupRoutes() {
	s.router.Use(s.errorRecoveryMiddleware)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.versionMiddleware(serviceVersion))

	s.router.HandleFunc("/", s.handleIndex).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/crops", s.handleCrops).Methods("GET")
	api.HandleFunc("/feature-importance", s.handleFeatureImportance).Methods("GET")
	api.HandleFunc("/history", s.handleHistory).Methods("GET")

	api.HandleFunc("/predict", s.handlePredict).Methods("POST")
	api.HandleFunc("/explain", s.handleExplain).Methods("POST")
	api.HandleFunc("/soil-impact", s.handleSoilImpact).Methods("POST")
	api.HandleFunc("/ai-advice", s.handleAIAdvice).Methods("POST")
}
