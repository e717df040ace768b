package reports

import (
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/pipeline"
)

// TimeToFirstReport время от регистрации клиента до первой подписки.
// Пользователь дедуплицируется до самой ранней записи по дате начала
// подписки; отрицательные интервалы обнуляются.
type TimeToFirstReport struct {
	SnapshotID string                     `json:"snapshot_id"`
	Users      int                        `json:"users"`
	Stats      pipeline.DistributionStats `json:"stats"`
	Histogram  []HistogramBin             `json:"histogram"`
	SameDay    int                        `json:"same_day"`
	Message    string                     `json:"message,omitempty"`
}

// TimeToFirst распределение времени до первой подписки
func (s *Service) TimeToFirst(req Request) TimeToFirstReport {
	records, snap := s.filtered(req)
	report := TimeToFirstReport{SnapshotID: snap.ID}

	deduped := pipeline.EarliestPerUser(pipeline.WithInitialStart(records), pipeline.ByInitialStart)
	var samples []durationSample
	for _, rec := range deduped {
		days, ok := rec.DaysToFirstSubscription()
		if !ok {
			continue
		}
		if req.MinDays != nil && days < *req.MinDays {
			continue
		}
		if req.MaxDays != nil && days > *req.MaxDays {
			continue
		}
		samples = append(samples, durationSample{days: days, active: true})
		if days == 0 {
			report.SameDay++
		}
	}
	if len(samples) == 0 {
		report.Message = emptyMessage(snap)
		return report
	}

	values := make([]float64, len(samples))
	for i, sm := range samples {
		values[i] = sm.days
	}
	report.Users = len(samples)
	report.Stats = pipeline.Distribution(values)
	report.Histogram = durationHistogram(samples, report.Stats.Min, report.Stats.Max)
	return report
}
