package reports

import (
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/domain"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/pipeline"
)

// CancellationReport страница анализа оттока
type CancellationReport struct {
	SnapshotID string                    `json:"snapshot_id"`
	Summary    pipeline.Summary          `json:"summary"`
	Daily      []pipeline.TimeBucket     `json:"daily"`
	Monthly    []pipeline.MonthlySummary `json:"monthly"`
	ByReason   []pipeline.CategoryTotal  `json:"by_reason"`
	ChurnRate  float64                   `json:"churn_rate"`
	Message    string                    `json:"message,omitempty"`
}

// Cancellations сводка отмен: ряды, разбивка по причинам, доля оттока
// от всех событий выборки
func (s *Service) Cancellations(req Request) CancellationReport {
	records, snap := s.filtered(req)
	report := CancellationReport{SnapshotID: snap.ID}

	cancelled := cancelledOnly(records)
	report.ChurnRate = pipeline.Rate(float64(len(cancelled)), float64(len(records)))

	q := pipeline.Query{Grain: pipeline.GrainDay, Aggregation: pipeline.AggCount, DateField: pipeline.FieldEventDate}
	daily := pipeline.Bucketize(cancelled, q)
	start, end, ok := reportRange(req, daily)
	if !ok {
		report.Message = emptyMessage(snap)
		return report
	}

	filled := pipeline.FillGaps(daily, start, end, pipeline.GrainDay)
	report.Daily = filled
	report.Summary = pipeline.Summarize(filled, pipeline.PeriodDays(start, end))
	report.Monthly = pipeline.MonthlyBreakdown(filled)
	report.ByReason = cancellationReasons(cancelled)
	return report
}

func cancellationReasons(records []domain.SubscriptionRecord) []pipeline.CategoryTotal {
	counts := make(map[string]int)
	for _, rec := range records {
		reason := rec.CancellationReason
		if reason == "" {
			reason = "Unknown"
		}
		counts[reason]++
	}
	out := make([]pipeline.CategoryTotal, 0, len(counts))
	for reason, n := range counts {
		out = append(out, pipeline.CategoryTotal{Category: reason, Value: float64(n)})
	}
	sortTotals(out)
	return out
}

// PaidReport страница платных подписок
type PaidReport struct {
	SnapshotID     string                    `json:"snapshot_id"`
	Summary        pipeline.Summary          `json:"summary"`
	Daily          []pipeline.TimeBucket     `json:"daily"`
	Monthly        []pipeline.MonthlySummary `json:"monthly"`
	ByType         []pipeline.CategoryTotal  `json:"by_type"`
	PaidCount      int                       `json:"paid_count"`
	ConversionRate float64                   `json:"conversion_rate"`
	Message        string                    `json:"message,omitempty"`
}

// PaidSubscriptions сводка фактически оплаченных событий и доля конверсии
// от всех событий выборки
func (s *Service) PaidSubscriptions(req Request) PaidReport {
	records, snap := s.filtered(req)
	report := PaidReport{SnapshotID: snap.ID}

	paid := paidOnly(records)
	report.PaidCount = len(paid)
	report.ConversionRate = pipeline.Rate(float64(len(paid)), float64(len(records)))

	q := pipeline.Query{Grain: pipeline.GrainDay, Aggregation: pipeline.AggCount, DateField: pipeline.FieldEventDate}
	daily := pipeline.Bucketize(paid, q)
	start, end, ok := reportRange(req, daily)
	if !ok {
		report.Message = emptyMessage(snap)
		return report
	}

	filled := pipeline.FillGaps(daily, start, end, pipeline.GrainDay)
	report.Daily = filled
	report.Summary = pipeline.Summarize(filled, pipeline.PeriodDays(start, end))
	report.Monthly = pipeline.MonthlyBreakdown(filled)
	report.ByType = pipeline.TotalsByCategory(paid, q, pipeline.KeyType)
	return report
}
