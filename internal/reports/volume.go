package reports

import (
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/pipeline"
)

// VolumeReport страница объема событий
type VolumeReport struct {
	SnapshotID string                    `json:"snapshot_id"`
	Summary    pipeline.Summary          `json:"summary"`
	Daily      []pipeline.TimeBucket     `json:"daily"`
	Monthly    []pipeline.MonthlySummary `json:"monthly"`
	Message    string                    `json:"message,omitempty"`
}

// Volume общий объем событий по дням с месячной разбивкой
func (s *Service) Volume(req Request) VolumeReport {
	records, snap := s.filtered(req)
	report := VolumeReport{SnapshotID: snap.ID}

	q := pipeline.Query{Grain: pipeline.GrainDay, Aggregation: pipeline.AggCount, DateField: pipeline.FieldEventDate}
	daily := pipeline.Bucketize(records, q)
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

// BreakdownReport распределение событий по категориальному ключу
type BreakdownReport struct {
	SnapshotID string                   `json:"snapshot_id"`
	Totals     []pipeline.CategoryTotal `json:"totals"`
	Shares     []pipeline.CategoryTotal `json:"shares"`
	Message    string                   `json:"message,omitempty"`
}

// TypeBreakdown распределение событий по типам подписки
func (s *Service) TypeBreakdown(req Request) BreakdownReport {
	return s.breakdown(req, pipeline.KeyType)
}

func (s *Service) breakdown(req Request, key pipeline.GroupKey) BreakdownReport {
	records, snap := s.filtered(req)
	report := BreakdownReport{SnapshotID: snap.ID}
	if len(records) == 0 {
		report.Message = emptyMessage(snap)
		return report
	}

	q := pipeline.Query{Aggregation: pipeline.AggCount}
	report.Totals = pipeline.TotalsByCategory(records, q, key)
	sortTotals(report.Totals)

	total := float64(len(records))
	report.Shares = make([]pipeline.CategoryTotal, len(report.Totals))
	for i, t := range report.Totals {
		report.Shares[i] = pipeline.CategoryTotal{
			Category: t.Category,
			Value:    pipeline.Rate(t.Value, total),
		}
	}
	return report
}

// PackageReport срез по тарифным пакетам: количество событий и выручка
type PackageReport struct {
	SnapshotID string                   `json:"snapshot_id"`
	Counts     []pipeline.CategoryTotal `json:"counts"`
	Revenue    []pipeline.CategoryTotal `json:"revenue"`
	TopPackage string                   `json:"top_package,omitempty"`
	Message    string                   `json:"message,omitempty"`
}

// Packages распределение по пакетам. Выручка считается по платным записям.
func (s *Service) Packages(req Request) PackageReport {
	records, snap := s.filtered(req)
	report := PackageReport{SnapshotID: snap.ID}
	if len(records) == 0 {
		report.Message = emptyMessage(snap)
		return report
	}

	report.Counts = pipeline.TotalsByCategory(records,
		pipeline.Query{Aggregation: pipeline.AggCount}, pipeline.KeyPackage)
	sortTotals(report.Counts)

	report.Revenue = pipeline.TotalsByCategory(paidOnly(records),
		pipeline.Query{Aggregation: pipeline.AggSumAmount, DateField: pipeline.FieldPaymentReceived},
		pipeline.KeyPackage)
	sortTotals(report.Revenue)

	if len(report.Revenue) > 0 && report.Revenue[0].Value > 0 {
		report.TopPackage = report.Revenue[0].Category
	} else if len(report.Counts) > 0 {
		report.TopPackage = report.Counts[0].Category
	}
	return report
}
