package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/ougirez/crimestat/internal/api/controller"
	"github.com/ougirez/crimestat/internal/domain"
	"github.com/ougirez/crimestat/internal/pkg/config"
	"github.com/ougirez/crimestat/internal/service/ingest"
	"github.com/ougirez/crimestat/internal/service/report"
)

type APIService struct {
	router        *echo.Echo
	ingestService *ingest.Service
	reportService *report.Service
}

// Serve blocks until the server stops. A graceful shutdown is not an error.
func (svc *APIService) Serve(addr string) error {
	if err := svc.router.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

func (svc *APIService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	svc.router.ServeHTTP(w, r)
}

func NewAPIService(cfg *config.Config, ingestService *ingest.Service, reportService *report.Service) (*APIService, error) {
	svc := &APIService{
		router:        echo.New(),
		ingestService: ingestService,
		reportService: reportService,
	}

	svc.router.HideBanner = true
	svc.router.Logger.SetLevel(echoLogLevel(cfg.Log.Level))
	svc.router.JSONSerializer = NewJSONSerializer()
	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.HTTPErrorHandler = httpErrorHandler
	svc.router.Use(middleware.Recover())
	svc.router.Use(svc.RequestContextMiddleware)
	svc.router.Use(middleware.Logger())
	svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowMethods: []string{echo.GET, echo.POST},
		AllowHeaders: []string{echo.HeaderContentType},
	}))

	probe := domain.ConfigCheckResponse{
		ServiceKeySet: strings.TrimSpace(cfg.OpenData.ServiceKey) != "",
		CyberBaseURL:  cfg.OpenData.Cyber.BaseURL,
		VoiceBaseURL:  cfg.OpenData.Voice.BaseURL,
		Regions:       len(cfg.Travel.Regions),
		DBDriver:      cfg.DB.Driver,
	}
	cntrl := controller.NewController(svc.ingestService, svc.reportService, probe)

	api := svc.router.Group("/api/v1")

	sync := api.Group("/sync")
	sync.POST("/cyber", cntrl.SyncCyberScam)
	sync.POST("/voice", cntrl.SyncVoicePhishing)
	sync.POST("/travel", cntrl.SyncTravel)

	api.GET("/voice/yearly", cntrl.GetVoiceYearly)

	analysis := api.Group("/analysis")
	analysis.GET("/data", cntrl.GetAnalysisData)
	analysis.GET("/radial", cntrl.GetRadialData)

	travel := api.Group("/travel")
	travel.GET("/stats", cntrl.GetTravelStats)
	travel.GET("/preview", cntrl.GetTravelPreview)

	api.GET("/config/check", cntrl.CheckConfig)

	return svc, nil
}

func echoLogLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}
