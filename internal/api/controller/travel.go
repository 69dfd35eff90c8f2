package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/crimestat/internal/domain"
)

func (c *Controller) GetTravelStats(ctx echo.Context) error {
	var req domain.TravelStatsRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	debug, err := c.report.TravelDebug(ctx.Request().Context(), req.Limit)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, debug)
}

func (c *Controller) GetTravelPreview(ctx echo.Context) error {
	preview, err := c.ingest.PreviewTravel(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, preview)
}

func (c *Controller) CheckConfig(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.probe)
}
