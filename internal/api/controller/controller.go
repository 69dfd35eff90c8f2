package controller

import (
	"github.com/ougirez/crimestat/internal/domain"
	"github.com/ougirez/crimestat/internal/service/ingest"
	"github.com/ougirez/crimestat/internal/service/report"
)

type Controller struct {
	ingest *ingest.Service
	report *report.Service
	probe  domain.ConfigCheckResponse
}

func NewController(ingestService *ingest.Service, reportService *report.Service, probe domain.ConfigCheckResponse) *Controller {
	return &Controller{ingest: ingestService, report: reportService, probe: probe}
}
