package pipeline

import (
	"strconv"
	"strings"
	"time"

	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/domain"
)

// dateLayouts форматы дат, встречающиеся в выгрузках источника
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006-01-02 15:04:05.999999",
}

// NormalizeResult результат нормализации сырой таблицы
type NormalizeResult struct {
	Records []domain.SubscriptionRecord
	Dropped int // строки без обязательной даты события
}

// Normalize приводит сырые строки к типизированным записям:
// даты парсятся в UTC (непарсимые становятся нулевым маркером),
// деньги приводятся к float с дефолтом 0, категориальные поля обрезаются,
// тип подписки проходит через таблицу синонимов.
// Строки без даты события отбрасываются молча; вызывающий при
// необходимости сравнивает входной и выходной размер через Dropped.
func Normalize(rows []domain.RawRow) (NormalizeResult, error) {
	if err := domain.CheckColumns(rows, domain.ColDate, domain.ColSubscriptionType); err != nil {
		return NormalizeResult{}, err
	}

	result := NormalizeResult{
		Records: make([]domain.SubscriptionRecord, 0, len(rows)),
	}

	for _, row := range rows {
		eventDate, ok := parseDate(row[domain.ColDate])
		if !ok {
			result.Dropped++
			continue
		}

		rec := domain.SubscriptionRecord{
			UserID:             strings.TrimSpace(row[domain.ColUserID]),
			Company:            strings.TrimSpace(row[domain.ColCompany]),
			Location:           strings.TrimSpace(row[domain.ColLocation]),
			PackageName:        strings.TrimSpace(row[domain.ColPackageName]),
			EventDate:          eventDate,
			SubscriptionType:   domain.NormalizeType(row[domain.ColSubscriptionType]),
			AmountPaid:         parseMoney(row[domain.ColAmountPaid]),
			RecruitMode:        strings.TrimSpace(row[domain.ColRecruitMode]),
			UserStatus:         strings.TrimSpace(row[domain.ColUserStatus]),
			CancellationReason: strings.TrimSpace(row[domain.ColCancellationRsn]),
			ConvertedFromTrial: parseBool(row[domain.ColConvertedTrial]),
		}

		rec.PaymentReceived, rec.HasPaymentReceived = parseDate(row[domain.ColPaymentReceived])
		rec.InitialSubsStart, rec.HasInitialStart = parseDate(row[domain.ColInitialSubsStart])
		rec.CancellationDate, rec.HasCancellation = parseDate(row[domain.ColCancelledAt])
		rec.CustomerCreated, rec.HasCustomerCreated = parseDate(row[domain.ColCustomerCreated])

		result.Records = append(result.Records, rec)
	}

	return result, nil
}

// parseDate пробует известные форматы, всегда возвращает UTC
func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "null") || strings.EqualFold(raw, "nan") {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseMoney приводит денежное поле к float64. Непарсимые и пустые значения
// становятся 0, а не null: суммирование ниже по конвейеру не должно
// искажаться распространением пропусков.
func parseMoney(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseBool распознает флаги вида 1/0 и true/false
func parseBool(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "1" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return v
}
