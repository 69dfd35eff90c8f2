package controller

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/crimestat/internal/domain"
	"github.com/ougirez/crimestat/internal/pkg/constants"
	"github.com/ougirez/crimestat/internal/service/report"
)

// GetAnalysisData serves the year-aligned report. from and to default to
// the configured window.
func (c *Controller) GetAnalysisData(ctx echo.Context) error {
	var req domain.AnalysisDataRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	years := c.report.DefaultYears()
	if req.From != 0 || req.To != 0 {
		from, to := req.From, req.To
		if from == 0 && len(years) > 0 {
			from = years[0]
		}
		if to == 0 && len(years) > 0 {
			to = years[len(years)-1]
		}
		if to < from {
			return fmt.Errorf("from %d is after to %d: %w", from, to, constants.ErrBadRequest)
		}
		years = report.YearRange(from, to)
	}

	data, err := c.report.BuildYearAlignedReport(ctx.Request().Context(), years)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, data)
}

func (c *Controller) GetRadialData(ctx echo.Context) error {
	data, err := c.report.BuildRadial(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, data)
}

func (c *Controller) GetVoiceYearly(ctx echo.Context) error {
	yearly, err := c.report.VoiceYearly(ctx.Request().Context())
	if err != nil {
		return err
	}

	type response struct {
		Status string             `json:"status"`
		Yearly []domain.YearTotal `json:"yearly_voice_stats"`
	}

	resp := response{Status: "ok", Yearly: yearly}
	if len(yearly) == 0 {
		resp.Status = "no_voice_data"
	}

	return ctx.JSON(http.StatusOK, resp)
}
