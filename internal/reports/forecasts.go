package reports

import (
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/forecast"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/pipeline"
)

// ForecastReport прогноз дневного ряда
type ForecastReport struct {
	SnapshotID string          `json:"snapshot_id"`
	Result     forecast.Result `json:"result"`
	Message    string          `json:"message,omitempty"`
}

// RevenueForecast прогноз дневной выручки по платным записям
func (s *Service) RevenueForecast(req Request) ForecastReport {
	records, snap := s.filtered(req)
	report := ForecastReport{SnapshotID: snap.ID}

	paid := paidOnly(records)
	daily := pipeline.Bucketize(paid, revenueQuery)
	start, end, ok := reportRange(req, daily)
	if !ok {
		report.Message = emptyMessage(snap)
		return report
	}

	filled := pipeline.FillGaps(daily, start, end, pipeline.GrainDay)
	report.Result = forecast.Series(filled, req.Horizon)
	return report
}

// VolumeForecast прогноз количества событий в день
func (s *Service) VolumeForecast(req Request) ForecastReport {
	records, snap := s.filtered(req)
	report := ForecastReport{SnapshotID: snap.ID}

	q := pipeline.Query{Grain: pipeline.GrainDay, Aggregation: pipeline.AggCount, DateField: pipeline.FieldEventDate}
	daily := pipeline.Bucketize(records, q)
	start, end, ok := reportRange(req, daily)
	if !ok {
		report.Message = emptyMessage(snap)
		return report
	}

	filled := pipeline.FillGaps(daily, start, end, pipeline.GrainDay)
	report.Result = forecast.Series(filled, req.Horizon)
	return report
}

// ChurnForecastReport профиль риска оттока
type ChurnForecastReport struct {
	SnapshotID string                `json:"snapshot_id"`
	Profile    forecast.ChurnProfile `json:"profile"`
	Message    string                `json:"message,omitempty"`
}

// ChurnForecast сегменты риска оттока по стажу, локации и пакету
func (s *Service) ChurnForecast(req Request) ChurnForecastReport {
	records, snap := s.filtered(req)
	report := ChurnForecastReport{SnapshotID: snap.ID}
	if len(records) == 0 {
		report.Message = emptyMessage(snap)
		return report
	}

	report.Profile = forecast.Churn(records, s.now())
	return report
}
