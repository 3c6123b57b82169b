package main

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rivermin01/personal-study-guide/internal/apierror"
	"github.com/rivermin01/personal-study-guide/internal/config"
	"github.com/rivermin01/personal-study-guide/internal/handlers"
	"github.com/rivermin01/personal-study-guide/internal/logger"
	"github.com/rivermin01/personal-study-guide/internal/middleware"
	"github.com/rivermin01/personal-study-guide/internal/repository"
	"github.com/rivermin01/personal-study-guide/internal/service"
)

// routerDeps are the collaborators the HTTP layer is built from
type routerDeps struct {
	cfg         *config.Config
	log         logger.Logger
	store       repository.SessionStore
	idempotency repository.IdempotencyRepository
	limiter     *middleware.RateLimiter // nil disables rate limiting
	clock       service.Clock
}

func newRouter(deps routerDeps) *gin.Engine {
	cfg := deps.cfg

	// Initialize services
	predictionService := service.NewPredictionService(deps.clock)
	feedbackService := service.NewFeedbackService()
	sessionService := service.NewSessionService(deps.store, deps.clock)

	// Initialize handlers
	predictionHandler := handlers.NewPredictionHandler(predictionService, cfg.Server.MaxBodyBytes)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService, cfg.Server.MaxBodyBytes)
	sessionHandler := handlers.NewSessionHandler(sessionService, cfg.Server.MaxBodyBytes)

	router := gin.New()
	router.HandleMethodNotAllowed = true

	// Middleware
	router.Use(middleware.Logger(deps.log))
	router.Use(middleware.Recovery())
	router.Use(middleware.SecurityHeaders(cfg.Server.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	router.NoRoute(func(c *gin.Context) {
		apierror.WriteProblem(c, apierror.NewRouteNotFoundError(apierror.GetRequestID(c), c.Request.Method, c.Request.URL.Path))
	})
	router.NoMethod(func(c *gin.Context) {
		apierror.WriteProblem(c, apierror.NewMethodNotAllowedError(apierror.GetRequestID(c), c.Request.Method, c.Request.URL.Path))
	})

	// Operational endpoints are exempt from rate limiting
	router.GET("/health", handlers.Health(cfg.Server.Env))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("")
	if deps.limiter != nil {
		api.Use(middleware.RateLimit(deps.limiter))
	}
	api.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))
	{
		api.POST("/predict", predictionHandler.Predict)
		api.POST("/feedback", feedbackHandler.Feedback)
		api.POST("/save-session", middleware.Idempotency(deps.idempotency), sessionHandler.SaveSession)
		api.GET("/sessions/:id", sessionHandler.GetSession)
	}

	return router
}
