package pipeline

import (
	"time"
)

// FillGaps переиндексирует корзины на полный календарный диапазон
// [start, end]: отсутствующие корзины получают значение 0, а не пропадают.
// Графики обязаны показывать дни без активности нулевыми столбцами.
// Дубликатов на входе быть не может (Bucketize агрегирует по ключу).
func FillGaps(buckets []TimeBucket, start, end time.Time, grain TimeGrain) []TimeBucket {
	start = grain.Truncate(start)
	end = grain.Truncate(end)
	if end.Before(start) {
		return nil
	}

	values := make(map[time.Time]float64, len(buckets))
	for _, b := range buckets {
		values[grain.Truncate(b.Date)] += b.Value
	}

	var out []TimeBucket
	for cursor := start; !cursor.After(end); cursor = grain.Next(cursor) {
		out = append(out, TimeBucket{Date: cursor, Value: values[cursor]})
	}
	return out
}

// FillSeriesGaps выравнивает набор категориальных рядов на общий домен:
// полный календарный диапазон, пересеченный с полным набором категорий.
// Ряды серийных/сгруппированных столбцов обязаны иметь одинаковую ось X,
// иначе они не рендерятся корректно.
func FillSeriesGaps(series []CategorySeries, categories []string, start, end time.Time, grain TimeGrain) []CategorySeries {
	existing := make(map[string][]TimeBucket, len(series))
	for _, s := range series {
		existing[s.Category] = s.Buckets
	}

	out := make([]CategorySeries, 0, len(categories))
	for _, category := range categories {
		out = append(out, CategorySeries{
			Category: category,
			Buckets:  FillGaps(existing[category], start, end, grain),
		})
	}
	return out
}

// SeriesBounds возвращает минимальную и максимальную даты по корзинам.
// ok=false для пустого входа.
func SeriesBounds(buckets []TimeBucket) (min, max time.Time, ok bool) {
	if len(buckets) == 0 {
		return time.Time{}, time.Time{}, false
	}
	min, max = buckets[0].Date, buckets[0].Date
	for _, b := range buckets[1:] {
		if b.Date.Before(min) {
			min = b.Date
		}
		if b.Date.After(max) {
			max = b.Date
		}
	}
	return min, max, true
}
