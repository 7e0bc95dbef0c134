package http

// registerV1Routes sets up the v1 API
// Groups: /api/v1/traces, /api/v1/overlay
func (s *Server) registerV1Routes() {
	v1 := s.engine.Group("/api/v1")
	v1.Use(apiVersionMiddleware()) // Add X-API-Version: v1 header

	// Trace endpoints - metadata, points and uploads
	traces := v1.Group("/traces")
	{
		traces.GET("", s.handleV1ListTraces)
		traces.POST("", s.handleV1UploadTrace)
		traces.GET("/:id", s.handleV1GetTrace)
		traces.GET("/:id/points", s.handleV1TracePoints)
		traces.DELETE("/:id", s.handleV1DeleteTrace)
	}

	// Overlay endpoint - several traces aligned on the first one's time axis
	v1.GET("/overlay", s.handleV1Overlay)
}
