package reports

import (
	"math"

	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/pipeline"
)

const histogramBins = 40

// HistogramBin корзина гистограммы; интервал [From, To)
type HistogramBin struct {
	From      float64 `json:"from"`
	To        float64 `json:"to"`
	Active    int     `json:"active"`
	Cancelled int     `json:"cancelled"`
}

// DurationReport страница длительности подписок. Считается по одной записи
// на пользователя (последней по дате события); отрицательные длительности
// обнуляются.
type DurationReport struct {
	SnapshotID string                     `json:"snapshot_id"`
	Users      int                        `json:"users"`
	Active     pipeline.DistributionStats `json:"active"`
	Cancelled  pipeline.DistributionStats `json:"cancelled"`
	All        pipeline.DistributionStats `json:"all"`
	Histogram  []HistogramBin             `json:"histogram"`
	Message    string                     `json:"message,omitempty"`
}

// Duration распределение длительности подписок с фильтром диапазона дней
func (s *Service) Duration(req Request) DurationReport {
	records, snap := s.filtered(req)
	report := DurationReport{SnapshotID: snap.ID}

	deduped := pipeline.LatestPerUser(pipeline.WithInitialStart(records), pipeline.ByEventDate)
	now := s.now()

	var samples []durationSample
	for _, rec := range deduped {
		days, active := rec.DurationDays(now)
		if req.MinDays != nil && days < *req.MinDays {
			continue
		}
		if req.MaxDays != nil && days > *req.MaxDays {
			continue
		}
		samples = append(samples, durationSample{days: days, active: active})
	}
	if len(samples) == 0 {
		report.Message = emptyMessage(snap)
		return report
	}

	var activeDays, cancelledDays, allDays []float64
	for _, sm := range samples {
		allDays = append(allDays, sm.days)
		if sm.active {
			activeDays = append(activeDays, sm.days)
		} else {
			cancelledDays = append(cancelledDays, sm.days)
		}
	}

	report.Users = len(samples)
	report.Active = pipeline.Distribution(activeDays)
	report.Cancelled = pipeline.Distribution(cancelledDays)
	report.All = pipeline.Distribution(allDays)
	report.Histogram = durationHistogram(samples, report.All.Min, report.All.Max)
	return report
}

type durationSample struct {
	days   float64
	active bool
}

func durationHistogram(samples []durationSample, min, max float64) []HistogramBin {
	width := (max - min) / histogramBins
	if width <= 0 {
		width = 1
	}

	bins := make([]HistogramBin, histogramBins)
	for i := range bins {
		bins[i].From = min + float64(i)*width
		bins[i].To = min + float64(i+1)*width
	}
	for _, sm := range samples {
		idx := int(math.Floor((sm.days - min) / width))
		if idx >= histogramBins {
			idx = histogramBins - 1
		}
		if idx < 0 {
			idx = 0
		}
		if sm.active {
			bins[idx].Active++
		} else {
			bins[idx].Cancelled++
		}
	}
	return bins
}
