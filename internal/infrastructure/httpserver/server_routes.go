package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)
	s.echo.GET("/ws", s.serveWebSocket)

	api := s.echo.Group("/api/v1")

	disasters := api.Group("/disasters")
	disasters.GET("", s.listDisasters)
	disasters.GET("/nearby", s.nearbyDisasters)
	disasters.GET("/:id", s.getDisaster)
	disasters.GET("/:id/social", s.disasterSocialPosts)
	disasters.POST("", s.createDisaster, s.middleware.Auth.RequireUser())
	disasters.PUT("/:id", s.updateDisaster, s.middleware.Auth.RequireUser())
	disasters.DELETE("/:id", s.deleteDisaster, s.middleware.Auth.RequireUser())

	resources := api.Group("/resources")
	resources.GET("", s.listResources)
	resources.GET("/nearby", s.nearbyResources)
	resources.GET("/:id", s.getResource)
	resources.POST("", s.createResource, s.middleware.Auth.RequireUser())
	resources.PUT("/:id", s.updateResource, s.middleware.Auth.RequireUser())
	resources.DELETE("/:id", s.deleteResource, s.middleware.Auth.RequireUser())

	reports := api.Group("/reports")
	reports.GET("", s.listReports)
	reports.GET("/:id", s.getReport)
	reports.POST("", s.createReport, s.middleware.Auth.RequireUser())
	reports.PUT("/:id", s.updateReport, s.middleware.Auth.RequireUser())
	reports.DELETE("/:id", s.deleteReport, s.middleware.Auth.RequireUser())
	reports.POST("/:id/verify", s.verifyReport, s.middleware.Auth.RequireUser())

	feeds := api.Group("/feeds")
	feeds.GET("/social", s.socialFeed)
	feeds.GET("/updates", s.officialUpdates)

	geo := api.Group("/geo")
	geo.POST("/locate", s.locate)
	geo.GET("/reverse", s.reverseGeocode)
}
