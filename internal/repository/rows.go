package repository

import (
	"fmt"
	"time"

	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/domain"
	"github.com/jmoiron/sqlx"
)

// columnMapping переименование колонок источника в дружественную схему
// локального кэша: {'Имя_в_SQL': 'Дружественное_имя'}
var columnMapping = map[string]string{
	"dateUTC":                domain.ColDate,
	"type":                   domain.ColSubscriptionType,
	"companyName":            domain.ColCompany,
	"country":                domain.ColLocation,
	"userStatus":             domain.ColUserStatus,
	"recruitMode":            domain.ColRecruitMode,
	"currentPackageName":     domain.ColPackageName,
	"cancellationReason":     domain.ColCancellationRsn,
	"userID":                 domain.ColUserID,
	"lastAmountPaidEUR":      domain.ColAmountPaid,
	"lastPaymentReceivedOn":  domain.ColPaymentReceived,
	"initialSubsStartDate":   domain.ColInitialSubsStart,
	"subscriptionCanceledAt": domain.ColCancelledAt,
	"customerCreatedTimeUTC": domain.ColCustomerCreated,
	"convertedFromTrial":     domain.ColConvertedTrial,
}

// scanRows читает все строки выборки в сырые строки. rename=true применяет
// переименование колонок (чтение локального кэша отдает дружественную
// схему, ETL оставляет имена источника как есть).
func scanRows(rows *sqlx.Rows, rename bool) ([]domain.RawRow, error) {
	var out []domain.RawRow
	for rows.Next() {
		scanned := make(map[string]interface{})
		if err := rows.MapScan(scanned); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		raw := make(domain.RawRow, len(scanned))
		for col, val := range scanned {
			key := col
			if rename {
				if friendly, ok := columnMapping[col]; ok {
					key = friendly
				}
			}
			raw[key] = stringifyValue(val)
		}
		out = append(out, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return out, nil
}

// stringifyValue приводит значение драйвера к строке; NULL становится
// пустой строкой (нормализатор превращает ее в нулевой маркер)
func stringifyValue(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return ""
	case []byte:
		return string(v)
	case string:
		return v
	case time.Time:
		return v.UTC().Format("2006-01-02 15:04:05")
	case bool:
		if v {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprintf("%v", v)
	}
}
