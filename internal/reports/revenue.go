package reports

import (
	"time"

	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/domain"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/pipeline"
)

// RevenueReport страница выручки. Считаются только записи, прошедшие оба
// условия платности; корзины строятся по дате получения платежа.
type RevenueReport struct {
	SnapshotID string                    `json:"snapshot_id"`
	Summary    pipeline.Summary          `json:"summary"`
	Daily      []pipeline.TimeBucket     `json:"daily"`
	Monthly    []pipeline.MonthlySummary `json:"monthly"`
	PaidCount  int                       `json:"paid_count"`
	Message    string                    `json:"message,omitempty"`
}

// RevenueSeriesReport ряд выручки одной гранулярности
type RevenueSeriesReport struct {
	SnapshotID string                `json:"snapshot_id"`
	Summary    pipeline.Summary      `json:"summary"`
	Buckets    []pipeline.TimeBucket `json:"buckets"`
	Message    string                `json:"message,omitempty"`
}

var revenueQuery = pipeline.Query{
	Grain:       pipeline.GrainDay,
	Aggregation: pipeline.AggSumAmount,
	DateField:   pipeline.FieldPaymentReceived,
}

// Revenue сводная страница выручки: KPI, дневной ряд, разбивка по месяцам
func (s *Service) Revenue(req Request) RevenueReport {
	records, snap := s.filtered(req)
	report := RevenueReport{SnapshotID: snap.ID}

	paid := paidOnly(records)
	report.PaidCount = len(paid)
	daily := pipeline.Bucketize(paid, revenueQuery)
	start, end, ok := reportRange(req, daily)
	if !ok {
		report.Message = emptyMessage(snap)
		return report
	}

	filled := pipeline.FillGaps(daily, start, end, pipeline.GrainDay)
	report.Daily = filled
	report.Summary = pipeline.Summarize(filled, pipeline.PeriodDays(start, end))
	report.Monthly = pipeline.MonthlyBreakdown(filled)
	return report
}

// DailyRevenue дневной ряд выручки
func (s *Service) DailyRevenue(req Request) RevenueSeriesReport {
	return s.revenueSeries(req, pipeline.GrainDay)
}

// MonthlyRevenue месячный ряд выручки
func (s *Service) MonthlyRevenue(req Request) RevenueSeriesReport {
	return s.revenueSeries(req, pipeline.GrainMonth)
}

func (s *Service) revenueSeries(req Request, grain pipeline.TimeGrain) RevenueSeriesReport {
	records, snap := s.filtered(req)
	report := RevenueSeriesReport{SnapshotID: snap.ID}

	paid := paidOnly(records)
	q := revenueQuery
	q.Grain = grain
	buckets := pipeline.Bucketize(paid, q)
	start, end, ok := reportRange(req, buckets)
	if !ok {
		report.Message = emptyMessage(snap)
		return report
	}

	filled := pipeline.FillGaps(buckets, grain.Truncate(start), grain.Truncate(end), grain)
	report.Buckets = filled
	report.Summary = pipeline.Summarize(filled, periodLength(grain, start, end, filled))
	return report
}

// PeriodStats показатели одного сравниваемого периода
type PeriodStats struct {
	Month   string                `json:"month"`
	Summary pipeline.Summary      `json:"summary"`
	Buckets []pipeline.TimeBucket `json:"buckets"`
}

// ComparisonReport сравнение двух календарных месяцев. Дневные ряды
// выравниваются по номеру дня в месяце, изменение считается по итогам.
type ComparisonReport struct {
	SnapshotID string      `json:"snapshot_id"`
	PeriodA    PeriodStats `json:"period_a"`
	PeriodB    PeriodStats `json:"period_b"`
	ChangePct  float64     `json:"change_pct"`
	Message    string      `json:"message,omitempty"`
}

// RevenueComparison сравнивает выручку двух месяцев по дням. Выручка
// относится к дате события: окно месяца и корзины считаются по одному
// и тому же полю, платеж в соседнем месяце не выпадает из обоих периодов.
func (s *Service) RevenueComparison(req Request) ComparisonReport {
	q := pipeline.Query{Grain: pipeline.GrainDay, Aggregation: pipeline.AggSumAmount, DateField: pipeline.FieldEventDate}
	return s.comparison(req, q)
}

// VolumeComparison сравнивает количество событий двух месяцев по дням
func (s *Service) VolumeComparison(req Request) ComparisonReport {
	q := pipeline.Query{Grain: pipeline.GrainDay, Aggregation: pipeline.AggCount, DateField: pipeline.FieldEventDate}
	return s.comparison(req, q)
}

func (s *Service) comparison(req Request, q pipeline.Query) ComparisonReport {
	records, snap := s.filtered(req)
	report := ComparisonReport{SnapshotID: snap.ID}

	if q.Aggregation == pipeline.AggSumAmount {
		records = paidOnly(records)
	}
	a, okA := parseMonth(req.MonthA)
	b, okB := parseMonth(req.MonthB)
	if !okA || !okB {
		report.Message = "Both comparison months are required."
		return report
	}

	report.PeriodA = monthStats(records, q, a)
	report.PeriodB = monthStats(records, q, b)
	report.ChangePct = changePct(report.PeriodA.Summary.Total, report.PeriodB.Summary.Total)
	if report.PeriodA.Summary.Total == 0 && report.PeriodB.Summary.Total == 0 {
		report.Message = emptyMessage(snap)
	}
	return report
}

func monthStats(records []domain.SubscriptionRecord, q pipeline.Query, month time.Time) PeriodStats {
	start := month
	end := pipeline.GrainMonth.Next(month).AddDate(0, 0, -1)
	monthly := pipeline.Filters{Start: &start, End: &end}.Apply(records)

	filled := pipeline.FillGaps(pipeline.Bucketize(monthly, q), start, end, pipeline.GrainDay)
	return PeriodStats{
		Month:   month.Format("2006-01"),
		Summary: pipeline.Summarize(filled, pipeline.PeriodDays(start, end)),
		Buckets: filled,
	}
}

func parseMonth(raw string) (time.Time, bool) {
	t, err := time.Parse("2006-01", raw)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// changePct процент изменения от a к b; при нулевой базе возвращает 0
func changePct(a, b float64) float64 {
	if a == 0 {
		return 0
	}
	return (b - a) / a * 100
}
