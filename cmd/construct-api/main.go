package main

import (
	"fmt"
	"os"

	"github.com/buildledger/construct-api/internal/handler"
	"github.com/buildledger/construct-api/internal/middleware"
	"github.com/buildledger/construct-api/internal/model"
	"github.com/buildledger/construct-api/pkg/config"
	"github.com/buildledger/construct-api/pkg/database"
	"github.com/buildledger/construct-api/pkg/jwtutil"
	"github.com/buildledger/construct-api/pkg/logger"
	"github.com/buildledger/construct-api/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	conf, err := config.Load("construct-api")
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.InitLogger(&logger.LogConfig{
		Level:       conf.Log.Level,
		Environment: conf.Server.Env,
		ServiceName: conf.ServiceName,
	})
	if err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.GetLogger()
	log.Info("Configuration loaded", conf.LogConfig()...)

	// The handle is owned here and injected everywhere; teardown is the
	// deferred drain-and-close.
	db, err := database.Open(&conf.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(model.AllModels()...); err != nil {
		log.Fatal("Failed to migrate database models", zap.Error(err))
	}

	jwt := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      conf.JWT.SigningKey,
		ExpirationHours: conf.JWT.ExpirationHours,
	})

	prometheus.InitMetrics(conf.Metrics.Prefix)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.Middleware())
	e.Use(prometheus.Middleware())

	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))

	auth := middleware.AuthMiddleware(jwt, &conf.Auth)
	handler.RegisterRoutes(e, db, conf.IsDevelopment(), auth)

	log.Info("Starting construct-api on port " + conf.Server.Port)
	e.Logger.Fatal(e.Start(":" + conf.Server.Port))
}
