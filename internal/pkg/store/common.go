package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/ougirez/crimestat/internal/pkg/constants"
)

const (
	tableTravelStats        = "travel_stats"
	tableVoicePhishingStats = "voice_phishing_stats"
	tableCyberScamStats     = "cyber_scam_stats"
)

var mapping = map[error]error{sql.ErrNoRows: constants.ErrDBNotFound}

func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	if sqlscan.NotFound(err) {
		return constants.ErrDBNotFound
	}
	for k, v := range mapping {
		if errors.Is(err, k) {
			return v
		}
	}
	return err
}

// entity describes a persisted kind by its table and natural key columns.
type entity struct {
	table string
	key   []string
}

var (
	travelStats        = entity{table: tableTravelStats, key: []string{"year", "country", "region"}}
	voicePhishingStats = entity{table: tableVoicePhishingStats, key: []string{"year", "month"}}
	cyberScamStats     = entity{table: tableCyberScamStats, key: []string{"year", "category"}}
)

// upsert keeps at most one row per natural key: a new key is inserted, an
// existing one has its attribute columns replaced.
func upsert(ctx context.Context, pool Pool, e entity, key, attrs map[string]any) error {
	values := make(map[string]any, len(key)+len(attrs)+1)
	for _, col := range e.key {
		v, ok := key[col]
		if !ok {
			return fmt.Errorf("upsert %s: missing key column %s", e.table, col)
		}
		values[col] = v
	}

	setCols := make([]string, 0, len(attrs)+1)
	for col, v := range attrs {
		values[col] = v
		setCols = append(setCols, col)
	}
	values["updated_at"] = time.Now().UTC()
	setCols = append(setCols, "updated_at")
	sort.Strings(setCols)

	assignments := make([]string, 0, len(setCols))
	for _, col := range setCols {
		assignments = append(assignments, fmt.Sprintf("%s = excluded.%s", col, col))
	}

	query := pool.Builder().Insert(e.table).
		SetMap(values).
		Suffix(fmt.Sprintf("on conflict (%s) do update set %s",
			strings.Join(e.key, ", "), strings.Join(assignments, ", ")))

	if _, err := pool.Execx(ctx, query); err != nil {
		return fmt.Errorf("upsert %s: %w", e.table, err)
	}

	return nil
}
