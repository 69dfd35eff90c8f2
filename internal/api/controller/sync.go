package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/crimestat/internal/domain"
)

func (c *Controller) SyncCyberScam(ctx echo.Context) error {
	res, err := c.ingest.SyncCyberScam(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, domain.StatusResponse{Status: "cyber_scam_sync_ok", Result: res})
}

func (c *Controller) SyncVoicePhishing(ctx echo.Context) error {
	res, err := c.ingest.SyncVoicePhishing(ctx.Request().Context())
	if err != nil {
		return err
	}

	status := "ok"
	if len(res.Yearly) == 0 {
		status = "no_voice_data"
	}

	return ctx.JSON(http.StatusOK, domain.StatusResponse{Status: status, Result: res})
}

func (c *Controller) SyncTravel(ctx echo.Context) error {
	res, err := c.ingest.SyncTravel(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, domain.StatusResponse{Status: "ok", Result: res})
}
