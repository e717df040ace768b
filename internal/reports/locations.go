package reports

import (
	"sort"

	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/pipeline"
)

// LocationStats показатели одной локации. Обе средние делят на длину
// общего отчетного периода и на число активных дней самой локации.
type LocationStats struct {
	Location string           `json:"location"`
	Summary  pipeline.Summary `json:"summary"`
	Share    float64          `json:"share"`
}

// LocationReport страница разреза по локациям
type LocationReport struct {
	SnapshotID string                    `json:"snapshot_id"`
	Metric     string                    `json:"metric"`
	Locations  []LocationStats           `json:"locations"`
	Series     []pipeline.CategorySeries `json:"series"`
	Top        string                    `json:"top,omitempty"`
	Message    string                    `json:"message,omitempty"`
}

// LocationVolume количество событий по локациям
func (s *Service) LocationVolume(req Request) LocationReport {
	return s.byLocation(req, "volume", locationSelect{})
}

// LocationRevenue выручка по локациям
func (s *Service) LocationRevenue(req Request) LocationReport {
	return s.byLocation(req, "revenue", locationSelect{paid: true, revenue: true})
}

// LocationCancellations отмены по локациям
func (s *Service) LocationCancellations(req Request) LocationReport {
	return s.byLocation(req, "cancellations", locationSelect{cancelled: true})
}

// LocationPaid оплаченные события по локациям
func (s *Service) LocationPaid(req Request) LocationReport {
	return s.byLocation(req, "paid", locationSelect{paid: true})
}

type locationSelect struct {
	paid      bool
	cancelled bool
	revenue   bool
}

func (s *Service) byLocation(req Request, metric string, sel locationSelect) LocationReport {
	records, snap := s.filtered(req)
	report := LocationReport{SnapshotID: snap.ID, Metric: metric}

	subset := records
	if sel.paid {
		subset = paidOnly(subset)
	}
	if sel.cancelled {
		subset = cancelledOnly(subset)
	}
	q := pipeline.Query{Grain: pipeline.GrainDay, Aggregation: pipeline.AggCount, DateField: pipeline.FieldEventDate}
	if sel.revenue {
		q.Aggregation = pipeline.AggSumAmount
		q.DateField = pipeline.FieldPaymentReceived
	}

	all := pipeline.Bucketize(subset, q)
	start, end, ok := reportRange(req, all)
	if !ok {
		report.Message = emptyMessage(snap)
		return report
	}
	periodDays := pipeline.PeriodDays(start, end)

	series := pipeline.BucketizeByCategory(subset, q, pipeline.KeyLocation)
	report.Series = pipeline.FillSeriesGaps(series, presentCategories(subset, pipeline.KeyLocation),
		start, end, pipeline.GrainDay)

	grandTotal := pipeline.Summarize(pipeline.FillGaps(all, start, end, pipeline.GrainDay), periodDays).Total
	for _, loc := range series {
		filled := pipeline.FillGaps(loc.Buckets, start, end, pipeline.GrainDay)
		summary := pipeline.Summarize(filled, periodDays)
		report.Locations = append(report.Locations, LocationStats{
			Location: loc.Category,
			Summary:  summary,
			Share:    pipeline.Rate(summary.Total, grandTotal),
		})
	}
	sortLocationStats(report.Locations)
	if len(report.Locations) > 0 {
		report.Top = report.Locations[0].Location
	}
	return report
}

// sortLocationStats по убыванию итога, равные — по имени локации
func sortLocationStats(stats []LocationStats) {
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Summary.Total != stats[j].Summary.Total {
			return stats[i].Summary.Total > stats[j].Summary.Total
		}
		return stats[i].Location < stats[j].Location
	})
}
