package pipeline

import (
	"math"
	"sort"
	"time"
)

// BucketStat корзина-экстремум; OK=false, когда экстремум не определен
// (пустой или полностью нулевой ряд).
type BucketStat struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
	OK    bool      `json:"ok"`
}

// Summary сводные показатели по ряду корзин.
// Две средние принципиально различны и отдаются рядом, никогда не
// смешиваются: AvgAllDays — деление на длину календарного периода
// (финансово корректная средняя), AvgActiveDays — деление на число
// активных корзин (метрика интенсивности).
type Summary struct {
	Total         float64    `json:"total"`
	PeriodDays    int        `json:"period_days"`
	ActiveDays    int        `json:"active_days"`
	AvgAllDays    float64    `json:"avg_all_days"`
	AvgActiveDays float64    `json:"avg_active_days"`
	Max           BucketStat `json:"max"`
	Min           BucketStat `json:"min"`
}

// Summarize считает сводку по ряду. periodDays — длина отчетного периода в
// календарных днях (включительно); при periodDays < 1 используется 1.
// Экстремумы берутся по активным (ненулевым) корзинам; равенство значений
// разрешается в пользу более ранней даты. Пустой ряд дает нулевую сводку,
// а не панику.
func Summarize(buckets []TimeBucket, periodDays int) Summary {
	if periodDays < 1 {
		periodDays = 1
	}

	s := Summary{PeriodDays: periodDays}
	for _, b := range buckets {
		s.Total += b.Value
		if b.Value == 0 {
			continue
		}
		s.ActiveDays++

		if !s.Max.OK || b.Value > s.Max.Value || (b.Value == s.Max.Value && b.Date.Before(s.Max.Date)) {
			s.Max = BucketStat{Date: b.Date, Value: b.Value, OK: true}
		}
		if !s.Min.OK || b.Value < s.Min.Value || (b.Value == s.Min.Value && b.Date.Before(s.Min.Date)) {
			s.Min = BucketStat{Date: b.Date, Value: b.Value, OK: true}
		}
	}

	s.AvgAllDays = s.Total / float64(s.PeriodDays)
	if s.ActiveDays > 0 {
		s.AvgActiveDays = s.Total / float64(s.ActiveDays)
	}
	return s
}

// MonthlySummary помесячная детализация дневного ряда
type MonthlySummary struct {
	Month         string     `json:"month"` // YYYY-MM
	Total         float64    `json:"total"`
	AvgAllDays    float64    `json:"avg_all_days"` // деление на число дней месяца
	AvgActiveDays float64    `json:"avg_active_days"`
	Max           BucketStat `json:"max"`
	Min           BucketStat `json:"min"`
}

// MonthlyBreakdown раскладывает дневной ряд по месяцам и считает сводку
// каждого месяца. Средняя по всем дням использует календарную длину
// конкретного месяца (январь 31, февраль 28/29).
func MonthlyBreakdown(daily []TimeBucket) []MonthlySummary {
	byMonth := make(map[string][]TimeBucket)
	var order []string
	for _, b := range daily {
		month := b.Date.Format("2006-01")
		if _, seen := byMonth[month]; !seen {
			order = append(order, month)
		}
		byMonth[month] = append(byMonth[month], b)
	}
	sort.Strings(order)

	out := make([]MonthlySummary, 0, len(order))
	for _, month := range order {
		group := byMonth[month]
		s := Summarize(group, DaysInMonth(group[0].Date))
		out = append(out, MonthlySummary{
			Month:         month,
			Total:         s.Total,
			AvgAllDays:    s.AvgAllDays,
			AvgActiveDays: s.AvgActiveDays,
			Max:           s.Max,
			Min:           s.Min,
		})
	}
	return out
}

// DaysInMonth число календарных дней в месяце данной даты
func DaysInMonth(t time.Time) int {
	t = t.UTC()
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, -1).Day()
}

// PeriodDays длина периода [start, end] в календарных днях, включительно
func PeriodDays(start, end time.Time) int {
	days := int(end.Sub(start).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

// Rate процентная доля part от total; нулевой знаменатель дает 0
func Rate(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}

// ModeEntry одно модальное значение распределения
type ModeEntry struct {
	Value int `json:"value"` // округленные дни
	Count int `json:"count"`
}

// DistributionStats сводка распределения (сроки подписки и т.п.)
type DistributionStats struct {
	Count  int         `json:"count"`
	Mean   float64     `json:"mean"`
	Median float64     `json:"median"`
	Min    float64     `json:"min"`
	Max    float64     `json:"max"`
	P25    float64     `json:"p25"`
	P75    float64     `json:"p75"`
	Modes  []ModeEntry `json:"modes"`
}

// Distribution считает статистики распределения. Пустой вход дает нулевую
// сводку без паники.
func Distribution(values []float64) DistributionStats {
	if len(values) == 0 {
		return DistributionStats{}
	}

	stats := DistributionStats{
		Count:  len(values),
		Mean:   mean(values),
		Median: Percentile(values, 0.5),
		P25:    Percentile(values, 0.25),
		P75:    Percentile(values, 0.75),
		Min:    values[0],
		Max:    values[0],
		Modes:  TopModes(values, 3),
	}
	for _, v := range values {
		if v < stats.Min {
			stats.Min = v
		}
		if v > stats.Max {
			stats.Max = v
		}
	}
	return stats
}

// Percentile стандартный квантиль с линейной интерполяцией.
// p в диапазоне [0, 1]; пустой вход дает 0.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}

	pos := p * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// TopModes возвращает n самых частых округленных значений с числом
// вхождений. Равные частоты разрешаются порядком первого появления
// во входном срезе.
func TopModes(values []float64, n int) []ModeEntry {
	counts := make(map[int]int)
	var order []int
	for _, v := range values {
		rounded := int(math.Round(v))
		if _, seen := counts[rounded]; !seen {
			order = append(order, rounded)
		}
		counts[rounded]++
	}

	// Стабильная сортировка: равные частоты сохраняют порядок первого появления
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > n {
		order = order[:n]
	}
	out := make([]ModeEntry, 0, len(order))
	for _, v := range order {
		out = append(out, ModeEntry{Value: v, Count: counts[v]})
	}
	return out
}

// mean арифметическое среднее
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
