package pipeline

import (
	"sort"
	"time"

	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/domain"
)

// TimeGrain гранулярность временной корзины
type TimeGrain int

const (
	GrainDay TimeGrain = iota
	GrainMonth
)

// Aggregation агрегатная функция корзины
type Aggregation int

const (
	AggCount Aggregation = iota
	AggSumAmount
)

// DateField какая дата записи попадает в корзину
type DateField int

const (
	FieldEventDate DateField = iota
	FieldPaymentReceived
)

// GroupKey категориальный ключ группировки
type GroupKey int

const (
	KeyLocation GroupKey = iota
	KeyType
	KeyPackage
)

// Query конфигурация группировки: страницы отчетов различаются только ей
type Query struct {
	Grain       TimeGrain
	Aggregation Aggregation
	DateField   DateField
}

// TimeBucket одна временная корзина
type TimeBucket struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// CategoryTotal агрегат по одной категории
type CategoryTotal struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
}

// CategorySeries временной ряд одной категории
type CategorySeries struct {
	Category string       `json:"category"`
	Buckets  []TimeBucket `json:"buckets"`
}

// Truncate обрезает момент времени до начала корзины: календарный день
// либо первое число месяца, в UTC.
func (g TimeGrain) Truncate(t time.Time) time.Time {
	t = t.UTC()
	if g == GrainMonth {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Next возвращает начало следующей корзины
func (g TimeGrain) Next(t time.Time) time.Time {
	if g == GrainMonth {
		return t.AddDate(0, 1, 0)
	}
	return t.AddDate(0, 0, 1)
}

// bucketDate извлекает дату корзины из записи; вторым значением сообщает,
// участвует ли запись в группировке вообще
func (q Query) bucketDate(rec domain.SubscriptionRecord) (time.Time, bool) {
	switch q.DateField {
	case FieldPaymentReceived:
		if !rec.HasPaymentReceived {
			return time.Time{}, false
		}
		return q.Grain.Truncate(rec.PaymentReceived), true
	default:
		return q.Grain.Truncate(rec.EventDate), true
	}
}

// bucketValue вклад записи в значение корзины
func (q Query) bucketValue(rec domain.SubscriptionRecord) float64 {
	if q.Aggregation == AggSumAmount {
		return rec.AmountPaid
	}
	return 1
}

// Bucketize группирует записи по временным корзинам. Результат отсортирован
// по дате по возрастанию и содержит только активные корзины; нулевые
// появляются после гап-филла.
func Bucketize(records []domain.SubscriptionRecord, q Query) []TimeBucket {
	acc := make(map[time.Time]float64)
	for _, rec := range records {
		date, ok := q.bucketDate(rec)
		if !ok {
			continue
		}
		acc[date] += q.bucketValue(rec)
	}

	buckets := make([]TimeBucket, 0, len(acc))
	for date, value := range acc {
		buckets = append(buckets, TimeBucket{Date: date, Value: value})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Date.Before(buckets[j].Date) })
	return buckets
}

// BucketizeByCategory группирует по паре (категория, временная корзина).
// Ряды отсортированы по имени категории, корзины внутри ряда — по дате.
func BucketizeByCategory(records []domain.SubscriptionRecord, q Query, key GroupKey) []CategorySeries {
	byCategory := make(map[string][]domain.SubscriptionRecord)
	for _, rec := range records {
		byCategory[categoryOf(rec, key)] = append(byCategory[categoryOf(rec, key)], rec)
	}

	series := make([]CategorySeries, 0, len(byCategory))
	for category, group := range byCategory {
		series = append(series, CategorySeries{
			Category: category,
			Buckets:  Bucketize(group, q),
		})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Category < series[j].Category })
	return series
}

// TotalsByCategory считает агрегат по каждой категории без временной оси.
// Результат отсортирован по имени категории.
func TotalsByCategory(records []domain.SubscriptionRecord, q Query, key GroupKey) []CategoryTotal {
	acc := make(map[string]float64)
	for _, rec := range records {
		acc[categoryOf(rec, key)] += q.bucketValue(rec)
	}

	totals := make([]CategoryTotal, 0, len(acc))
	for category, value := range acc {
		totals = append(totals, CategoryTotal{Category: category, Value: value})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Category < totals[j].Category })
	return totals
}

// CountByType счетчики записей по каноническим типам (карточки KPI)
func CountByType(records []domain.SubscriptionRecord) map[domain.SubscriptionType]int {
	counts := make(map[domain.SubscriptionType]int)
	for _, rec := range records {
		counts[rec.SubscriptionType]++
	}
	return counts
}

// categoryOf извлекает значение категориального ключа из записи.
// Пустые значения схлопываются в Unknown, как и в исходных выборках.
func categoryOf(rec domain.SubscriptionRecord, key GroupKey) string {
	var v string
	switch key {
	case KeyType:
		v = string(rec.SubscriptionType)
	case KeyPackage:
		v = rec.PackageName
	default:
		v = rec.Location
	}
	if v == "" {
		return "Unknown"
	}
	return v
}
