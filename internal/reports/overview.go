package reports

import (
	"time"

	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/domain"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/pipeline"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/snapshot"
)

// OverviewReport сводная страница: карточки KPI + ряды по типам подписки
type OverviewReport struct {
	SnapshotID string                    `json:"snapshot_id"`
	KPI        OverviewKPI               `json:"kpi"`
	Summary    pipeline.Summary          `json:"summary"`
	Series     []pipeline.CategorySeries `json:"series"`
	Message    string                    `json:"message,omitempty"`
}

// OverviewKPI карточки по каноническим типам. Записи с нераспознанным
// типом входят в Total, но не имеют собственной карточки.
type OverviewKPI struct {
	Total     int `json:"total"`
	New       int `json:"new"`
	Trial     int `json:"trial"`
	Renewed   int `json:"renewed"`
	Upgraded  int `json:"upgraded"`
	Cancelled int `json:"cancelled"`
}

// DailyOverview сводка активности по дням
func (s *Service) DailyOverview(req Request) OverviewReport {
	return s.overview(req, pipeline.GrainDay)
}

// MonthlyOverview сводка активности по месяцам
func (s *Service) MonthlyOverview(req Request) OverviewReport {
	return s.overview(req, pipeline.GrainMonth)
}

func (s *Service) overview(req Request, grain pipeline.TimeGrain) OverviewReport {
	records, snap := s.filtered(req)
	report := OverviewReport{SnapshotID: snap.ID}
	if len(records) == 0 {
		report.Message = emptyMessage(snap)
		return report
	}

	counts := pipeline.CountByType(records)
	report.KPI = OverviewKPI{
		Total:     len(records),
		New:       counts[domain.TypeNew],
		Trial:     counts[domain.TypeTrial],
		Renewed:   counts[domain.TypeRenewed],
		Upgraded:  counts[domain.TypeUpgraded],
		Cancelled: counts[domain.TypeCancelled],
	}

	q := pipeline.Query{Grain: grain, Aggregation: pipeline.AggCount, DateField: pipeline.FieldEventDate}
	buckets := pipeline.Bucketize(records, q)
	start, end, ok := reportRange(req, buckets)
	if ok {
		series := pipeline.BucketizeByCategory(records, q, pipeline.KeyType)
		report.Series = pipeline.FillSeriesGaps(series, presentTypes(req, records),
			grain.Truncate(start), grain.Truncate(end), grain)
		filled := pipeline.FillGaps(buckets, grain.Truncate(start), grain.Truncate(end), grain)
		report.Summary = pipeline.Summarize(filled, periodLength(grain, start, end, filled))
	}
	return report
}

// periodLength длина периода в корзинах: календарные дни для дневной
// гранулярности, число месячных корзин для месячной
func periodLength(grain pipeline.TimeGrain, start, end time.Time, filled []pipeline.TimeBucket) int {
	if grain == pipeline.GrainDay {
		return pipeline.PeriodDays(start, end)
	}
	return len(filled)
}

// emptyMessage различает деградировавший снапшот, пустой снапшот и пустую
// выборку после фильтров
func emptyMessage(snap *snapshot.Snapshot) string {
	if snap.Warning != "" {
		return snap.Warning
	}
	if snap.Empty() {
		return MsgNoData
	}
	return MsgNoDataForFilter
}
