package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	api := s.echo.Group("/api/v1")

	products := api.Group("/products")
	products.GET("/search", s.searchProducts)
	products.GET("/:id", s.getProduct)
	products.PUT("/:id", s.updateProduct)

	api.GET("/brands", s.listBrands)
	api.GET("/categories", s.listCategories)

	api.POST("/questionnaires", s.createQuestionnaire)
	api.GET("/questionnaires/:id/recommendations", s.getRecommendations)

	affiliate := api.Group("/affiliate")
	affiliate.POST("/generate", s.generateAffiliateLink)
	affiliate.GET("/generate", s.generateAffiliateLinkBatch)
	affiliate.GET("/track", s.trackClick)
	affiliate.POST("/track", s.trackConversion)
	affiliate.POST("/validate", s.validateLinks)
	affiliate.POST("/products/:id/revalidate", s.revalidateProductLinks)

	analytics := api.Group("/analytics")
	analytics.GET("/revenue", s.getRevenue)
	analytics.GET("/revenue/forecast", s.getRevenueForecast)
	analytics.GET("/funnel", s.getConversionFunnel)
	analytics.POST("/interactions", s.trackInteraction)
	analytics.GET("/products/:id/stats", s.getProductStats)
	analytics.GET("/top-products", s.getTopProducts)
	analytics.GET("/cache", s.getCacheHitRates)
}
