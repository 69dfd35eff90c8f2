package tabular

import (
	"context"
	"fmt"

	"github.com/ougirez/crimestat/internal/domain"
	"github.com/ougirez/crimestat/internal/pkg/constants"
	"github.com/ougirez/crimestat/internal/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const maxParallelRegions = 4

type Source struct {
	Region   string
	Path     string
	Encoding string
}

// RegionReport is the outcome for one region file. Err is set when the
// file could not be read; Result is nil in that case.
type RegionReport struct {
	Region string  `json:"region"`
	Result *Result `json:"-"`
	Rows   int     `json:"rows"`
	Err    error   `json:"-"`
	Error  string  `json:"error,omitempty"`
}

func (r RegionReport) Failed() bool {
	return r.Err != nil
}

// LoadRegions reads and parses every source. A failing region is logged and
// reported, the others still load. Reports keep the order of sources.
func LoadRegions(ctx context.Context, sources []Source) []RegionReport {
	reports := make([]RegionReport, len(sources))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxParallelRegions)
	for i, src := range sources {
		i, src := i, src
		eg.Go(func() error {
			reports[i] = loadRegion(egCtx, src)
			return nil
		})
	}
	_ = eg.Wait()

	return reports
}

func loadRegion(ctx context.Context, src Source) RegionReport {
	ctx = logger.WithFields(ctx, constants.LogFieldRegion, src.Region)
	report := RegionReport{Region: src.Region}

	if err := ctx.Err(); err != nil {
		report.Err = err
		report.Error = err.Error()
		return report
	}

	grid, err := ReadFile(src.Path, src.Encoding)
	if err != nil {
		logger.Errorf(ctx, "tabular: region %s load failed: %s", src.Region, err.Error())
		report.Err = fmt.Errorf("region %s: %w", src.Region, err)
		report.Error = report.Err.Error()
		return report
	}

	report.Result = Parse(grid, src.Region)
	report.Rows = len(report.Result.Records)
	logger.Infof(ctx, "tabular: region %s parsed, columns=%d rows=%d skipped=%d",
		src.Region, len(report.Result.Columns), report.Rows, report.Result.Skipped.Total())

	return report
}

// Combine concatenates the records of every successful region and merges
// their skip counts.
func Combine(reports []RegionReport) ([]domain.MonthlyDeparture, domain.Tally) {
	var (
		records []domain.MonthlyDeparture
		skipped = domain.Tally{}
	)
	for _, r := range reports {
		if r.Failed() || r.Result == nil {
			continue
		}
		records = append(records, r.Result.Records...)
		skipped.Merge(r.Result.Skipped)
	}
	return records, skipped
}
