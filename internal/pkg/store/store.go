package store

import (
	"context"
	"fmt"

	"github.com/ougirez/crimestat/internal/domain"
	"github.com/ougirez/crimestat/internal/pkg/store/xdb"
)

type Pool = xdb.Pool

type Store interface {
	DepartureStore
	VoicePhishingStore
	CyberScamStore
	Migrate(ctx context.Context) error
	Close() error
}

type DepartureStore interface {
	UpsertDepartures(ctx context.Context, records []domain.YearlyDeparture) (int, error)
	ListDepartures(ctx context.Context, opts ListDeparturesOpts) ([]domain.YearlyDeparture, error)
	CountDepartures(ctx context.Context) (int, error)
	CountDeparturesByRegion(ctx context.Context) ([]domain.RegionCount, error)
}

type VoicePhishingStore interface {
	UpsertVoicePhishing(ctx context.Context, records []domain.VoicePhishingMonthly) (int, error)
	ListVoicePhishing(ctx context.Context) ([]domain.VoicePhishingMonthly, error)
}

type CyberScamStore interface {
	UpsertCyberScam(ctx context.Context, records []domain.CyberScamYearly) (int, error)
	ListCyberScam(ctx context.Context, opts ListCyberScamOpts) ([]domain.CyberScamYearly, error)
}

type store struct {
	pool Pool
}

func NewStore(pool Pool) Store {
	return &store{pool}
}

func (s *store) Close() error {
	return s.pool.Close()
}

// Migrate creates the tables. The DDL is shared by postgres and sqlite.
func (s *store) Migrate(ctx context.Context) error {
	statements := []string{
		`create table if not exists travel_stats (
			year integer not null,
			country text not null,
			region text not null,
			departures bigint not null,
			updated_at timestamp not null,
			primary key (year, country, region)
		)`,
		`create table if not exists voice_phishing_stats (
			year integer not null,
			month integer not null,
			cases bigint not null,
			updated_at timestamp not null,
			primary key (year, month)
		)`,
		`create table if not exists cyber_scam_stats (
			year integer not null,
			category text not null,
			direct_trade bigint not null,
			shopping_mall bigint not null,
			game bigint not null,
			email_trade bigint not null,
			romance bigint not null,
			investment bigint not null,
			etc bigint not null,
			updated_at timestamp not null,
			primary key (year, category)
		)`,
	}

	for _, statement := range statements {
		if _, err := s.pool.Exec(ctx, statement); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	return nil
}
