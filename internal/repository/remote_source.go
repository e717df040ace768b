package repository

import (
	"context"
	"fmt"

	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/domain"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/pkg/logger"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// RemoteSource удаленный MySQL источник ленты подписок.
// Соединение живет только на время одной выборки: открыть, прочитать,
// закрыть (в том числе при ошибке). Ретраев нет — неудачная выборка
// отдается вызывающему как есть.
type RemoteSource struct {
	dsn   string
	table string
	log   *logger.Logger
}

// NewRemoteSource создает описание удаленного источника; соединение
// откладывается до FetchAll
func NewRemoteSource(dsn, table string, log *logger.Logger) *RemoteSource {
	return &RemoteSource{dsn: dsn, table: table, log: log}
}

// Source имя источника для метаданных снапшота
func (r *RemoteSource) Source() string {
	return "remote:" + r.table
}

// FetchAll подключается к удаленному MySQL и забирает все строки с
// непустой датой события. Имена колонок остаются как в источнике.
func (r *RemoteSource) FetchAll(ctx context.Context) ([]domain.RawRow, error) {
	db, err := sqlx.ConnectContext(ctx, "mysql", r.dsn)
	if err != nil {
		r.log.Errorw("Failed to connect to remote source", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer db.Close()

	query := fmt.Sprintf("SELECT * FROM %s WHERE `dateUTC` IS NOT NULL", r.table)
	rows, err := db.QueryxContext(ctx, query)
	if err != nil {
		r.log.Errorw("Failed to fetch from remote source", "table", r.table, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer rows.Close()

	raw, err := scanRows(rows, false)
	if err != nil {
		return nil, err
	}

	if len(raw) == 0 {
		r.log.Warnw("Remote query returned an empty dataset", "table", r.table)
	} else {
		r.log.Infow("Fetched rows from remote source", "table", r.table, "rows", len(raw))
	}
	return raw, nil
}
