package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/domain"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// insertColumns порядок колонок при вставке в локальный кэш
var insertColumns = []string{
	"userID", "dateUTC", "type", "userStatus", "country", "companyName",
	"recruitMode", "customerCreatedTimeUTC", "currentPackageName",
	"initialSubsStartDate", "lastPaymentReceivedOn", "lastAmountPaidEUR",
	"subscriptionCanceledAt", "cancellationReason", "convertedFromTrial",
}

// LocalStore локальный SQL-кэш ленты подписок (таблица graph_subscription).
// Дашборд читает снапшот отсюда; ETL перезаписывает таблицу целиком.
type LocalStore struct {
	db    *sqlx.DB
	table string
	log   *logger.Logger
}

// NewLocalStore открывает соединение с локальной базой данных
func NewLocalStore(dsn, table string, log *logger.Logger) (*LocalStore, error) {
	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		log.Errorw("Failed to connect to local database", "error", err)
		return nil, fmt.Errorf("failed to connect to local database: %w", err)
	}

	log.Infow("Connected to local database", "table", table)
	return &LocalStore{db: db, table: table, log: log}, nil
}

// Close закрывает соединение с базой данных
func (s *LocalStore) Close() error {
	return s.db.Close()
}

// Source имя источника для метаданных снапшота
func (s *LocalStore) Source() string {
	return "local:" + s.table
}

// FetchAll читает всю таблицу кэша и отдает строки в дружественной схеме
// (колонки источника переименованы, см. columnMapping)
func (s *LocalStore) FetchAll(ctx context.Context) ([]domain.RawRow, error) {
	query := fmt.Sprintf(`SELECT * FROM %s WHERE "dateUTC" IS NOT NULL`, s.table)

	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		s.log.Errorw("Failed to fetch from local store", "table", s.table, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer rows.Close()

	raw, err := scanRows(rows, true)
	if err != nil {
		return nil, err
	}

	s.log.Infow("Fetched rows from local store", "table", s.table, "rows", len(raw))
	return raw, nil
}

// Replace очищает таблицу кэша и вставляет свежие строки одной транзакцией.
// Строки приходят в схеме источника (без переименования).
func (s *LocalStore) Replace(ctx context.Context, rows []domain.RawRow) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE %s", s.table)); err != nil {
		s.log.Errorw("Failed to truncate local table", "table", s.table, "error", err)
		return fmt.Errorf("failed to truncate table: %w", err)
	}

	insert := buildInsert(s.table)
	for _, row := range rows {
		args := make([]interface{}, 0, len(insertColumns))
		for _, col := range insertColumns {
			if v, ok := row[col]; ok && v != "" {
				args = append(args, v)
			} else {
				args = append(args, nil)
			}
		}
		if _, err := tx.ExecContext(ctx, insert, args...); err != nil {
			return fmt.Errorf("failed to insert row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit replace: %w", err)
	}

	s.log.Infow("Replaced local store contents", "table", s.table, "rows", len(rows))
	return nil
}

// Ping проверяет доступность базы
func (s *LocalStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// buildInsert собирает INSERT с плейсхолдерами под insertColumns
func buildInsert(table string) string {
	quoted := make([]string, len(insertColumns))
	placeholders := make([]string, len(insertColumns))
	for i, col := range insertColumns {
		quoted[i] = `"` + col + `"`
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(quoted, ", "), strings.Join(placeholders, ", "),
	)
}
