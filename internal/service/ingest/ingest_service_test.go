package ingest

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ougirez/crimestat/internal/domain"
	"github.com/ougirez/crimestat/internal/pkg/constants"
	"github.com/ougirez/crimestat/internal/pkg/opendata"
	"github.com/ougirez/crimestat/internal/pkg/store"
	"github.com/ougirez/crimestat/internal/pkg/store/xdb"
	"github.com/ougirez/crimestat/internal/pkg/tabular"
)

type fakeFetcher struct {
	cyber      *opendata.Batch
	voice      *opendata.Batch
	errs       []error
	voiceCalls int
}

func (f *fakeFetcher) FetchCyberScam(context.Context) (*opendata.Batch, error) {
	return f.cyber, nil
}

func (f *fakeFetcher) FetchVoicePhishing(context.Context) (*opendata.Batch, error) {
	f.voiceCalls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return nil, err
	}
	return f.voice, nil
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	ctx := context.Background()
	pool, err := xdb.Open(ctx, xdb.DriverSQLite, filepath.Join(t.TempDir(), "ingest.db"))
	if err != nil {
		t.Fatalf("xdb.Open: %v", err)
	}
	st := store.NewStore(pool)
	t.Cleanup(func() { _ = st.Close() })

	if err = st.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return st
}

const asiaCSV = "출국자,,,,,,\n" +
	",,,중국,China,일본,Japan\n" +
	",,,명수,전년대비,명수,전년대비\n" +
	"2019년,,,,,,\n" +
	",1월,,100,1.0,300,2.0\n" +
	",2월,,200,1.0,400,2.0\n"

func writeRegion(t *testing.T, name, content string) tabular.Source {
	t.Helper()
	path := filepath.Join(t.TempDir(), name+".csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return tabular.Source{Region: name, Path: path}
}

func TestSyncCyberScam_SkipsRowsWithoutKey(t *testing.T) {
	st := newTestStore(t)
	fetcher := &fakeFetcher{cyber: &opendata.Batch{
		Rows: []opendata.RawRow{
			{opendata.FieldCyberYear: "2020", opendata.FieldCyberCategory: "발생건수", opendata.FieldCyberGame: "5"},
			{opendata.FieldCyberYear: "2020"},
		},
		Skipped: domain.Tally{opendata.SkipNotObject: 1},
		Pages:   1,
	}}
	svc := NewIngestService(st, fetcher, Options{})

	res, err := svc.SyncCyberScam(context.Background())
	if err != nil {
		t.Fatalf("SyncCyberScam: %v", err)
	}
	if res.Fetched != 2 || res.Saved != 1 || res.RunID == "" {
		t.Errorf("unexpected result: %+v", res)
	}
	wantSkipped := domain.Tally{opendata.SkipNotObject: 1, opendata.SkipMissingField: 1}
	if diff := cmp.Diff(wantSkipped, res.Skipped); diff != "" {
		t.Errorf("Skipped mismatch (-want +got):\n%s", diff)
	}

	rows, err := st.ListCyberScam(context.Background(), store.ListCyberScamOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Game != 5 {
		t.Errorf("stored rows = %+v", rows)
	}
}

func TestSyncVoicePhishing_RetriesTransientErrors(t *testing.T) {
	st := newTestStore(t)
	fetcher := &fakeFetcher{
		errs: []error{&opendata.StatusError{StatusCode: http.StatusServiceUnavailable, Status: "503"}},
		voice: &opendata.Batch{Rows: []opendata.RawRow{
			{opendata.FieldVoiceYear: "2019", opendata.FieldVoiceMonth: "1", opendata.FieldVoiceCases: "10"},
			{opendata.FieldVoiceYear: "2019", opendata.FieldVoiceMonth: "2", opendata.FieldVoiceCases: "15"},
			{opendata.FieldVoiceYear: "2020", opendata.FieldVoiceMonth: "1", opendata.FieldVoiceCases: ""},
		}},
	}
	svc := NewIngestService(st, fetcher, Options{Retries: 2})

	res, err := svc.SyncVoicePhishing(context.Background())
	if err != nil {
		t.Fatalf("SyncVoicePhishing: %v", err)
	}
	if fetcher.voiceCalls != 2 {
		t.Errorf("voiceCalls = %d, want 2", fetcher.voiceCalls)
	}
	if diff := cmp.Diff([]domain.YearTotal{{Year: 2019, Total: 25}}, res.Yearly); diff != "" {
		t.Errorf("Yearly mismatch (-want +got):\n%s", diff)
	}
	if res.Skipped[opendata.SkipMissingField] != 1 {
		t.Errorf("Skipped = %v", res.Skipped)
	}
}

func TestSyncVoicePhishing_ClientErrorIsNotRetried(t *testing.T) {
	fetcher := &fakeFetcher{errs: []error{
		&opendata.StatusError{StatusCode: http.StatusUnauthorized, Status: "401"},
		&opendata.StatusError{StatusCode: http.StatusUnauthorized, Status: "401"},
	}}
	svc := NewIngestService(newTestStore(t), fetcher, Options{Retries: 3})

	_, err := svc.SyncVoicePhishing(context.Background())
	if !errors.Is(err, constants.ErrUpstreamUnavailable) {
		t.Fatalf("err = %v, want ErrUpstreamUnavailable", err)
	}
	var statusErr *opendata.StatusError
	if !errors.As(err, &statusErr) {
		t.Errorf("status error lost from chain: %v", err)
	}
	if fetcher.voiceCalls != 1 {
		t.Errorf("voiceCalls = %d, want 1", fetcher.voiceCalls)
	}
}

func TestSyncTravel_PartialRegions(t *testing.T) {
	st := newTestStore(t)
	svc := NewIngestService(st, &fakeFetcher{}, Options{
		Regions: []tabular.Source{
			writeRegion(t, "asia", asiaCSV),
			{Region: "europe", Path: filepath.Join(t.TempDir(), "missing.csv")},
		},
		Watchlist: []string{"중국"},
		FromYear:  2018,
		ToYear:    2024,
	})

	res, err := svc.SyncTravel(context.Background())
	if err != nil {
		t.Fatalf("SyncTravel: %v", err)
	}

	if res.Parsed != 4 || res.Saved != 2 {
		t.Errorf("Parsed = %d Saved = %d, want 4 and 2", res.Parsed, res.Saved)
	}
	if !res.Regions[1].Failed() {
		t.Errorf("europe should be reported as failed: %+v", res.Regions[1])
	}
	if diff := cmp.Diff([]domain.YearTotal{{Year: 2019, Total: 1000}}, res.YearTotals); diff != "" {
		t.Errorf("YearTotals mismatch (-want +got):\n%s", diff)
	}
	wantRatios := []domain.YearRatio{{Year: 2019, WatchlistTotal: 300, YearTotal: 1000, WatchlistPercent: 30}}
	if diff := cmp.Diff(wantRatios, res.Ratios); diff != "" {
		t.Errorf("Ratios mismatch (-want +got):\n%s", diff)
	}
	if res.TotalInRange != 1000 {
		t.Errorf("TotalInRange = %d, want 1000", res.TotalInRange)
	}

	// a second run with the same files leaves the row count unchanged
	if _, err = svc.SyncTravel(context.Background()); err != nil {
		t.Fatal(err)
	}
	count, err := st.CountDepartures(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("CountDepartures = %d, want 2", count)
	}
}

func TestSyncTravel_AllRegionsFail(t *testing.T) {
	svc := NewIngestService(newTestStore(t), &fakeFetcher{}, Options{
		Regions: []tabular.Source{{Region: "asia", Path: filepath.Join(t.TempDir(), "nope.csv")}},
	})

	if _, err := svc.SyncTravel(context.Background()); !errors.Is(err, constants.ErrNoSources) {
		t.Fatalf("err = %v, want ErrNoSources", err)
	}
}

func TestPreviewTravel_DoesNotPersist(t *testing.T) {
	st := newTestStore(t)
	svc := NewIngestService(st, &fakeFetcher{}, Options{Regions: []tabular.Source{writeRegion(t, "asia", asiaCSV)}})

	preview, err := svc.PreviewTravel(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if preview.Rows != 2 || len(preview.Sample) != 2 {
		t.Errorf("unexpected preview: %+v", preview)
	}
	if diff := cmp.Diff(map[string]map[domain.Year]int{"중국": {2019: 300}, "일본": {2019: 700}}, preview.CountryYearly); diff != "" {
		t.Errorf("CountryYearly mismatch (-want +got):\n%s", diff)
	}

	count, err := st.CountDepartures(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("preview persisted %d rows", count)
	}
}
