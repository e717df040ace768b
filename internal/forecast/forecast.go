// Package forecast содержит численные процедуры прогнозирования рядов:
// отсечение выбросов, регрессию по календарным признакам и скользящее
// среднее. Пакет чистый, входом служат готовые корзины конвейера.
package forecast

import (
	"time"

	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/pipeline"
)

const (
	MinHorizon     = 7
	MaxHorizon     = 365
	DefaultHorizon = 30

	iqrMultiplier = 1.5
	movingWindow  = 7
	// регрессия требует заметно больше точек, чем признаков
	minRegressionPoints = 14
)

// Method способ построения прогноза
type Method string

const (
	MethodRegression Method = "regression"
	MethodMoving     Method = "moving_average"
)

// Point один прогнозный день
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Result прогноз ряда вместе с очищенной историей
type Result struct {
	History  []pipeline.TimeBucket `json:"history"`
	Forecast []Point               `json:"forecast"`
	Method   Method                `json:"method"`
	Horizon  int                   `json:"horizon"`
	Trimmed  int                   `json:"trimmed"`
	Total    float64               `json:"total"`
}

// ClampHorizon приводит горизонт к допустимому диапазону,
// ноль означает горизонт по умолчанию
func ClampHorizon(h int) int {
	if h == 0 {
		return DefaultHorizon
	}
	if h < MinHorizon {
		return MinHorizon
	}
	if h > MaxHorizon {
		return MaxHorizon
	}
	return h
}

// Series строит прогноз дневного ряда. История сперва очищается от
// выбросов по межквартильному размаху; при недостатке точек для регрессии
// используется скользящее среднее. Отрицательные предсказания обнуляются.
func Series(history []pipeline.TimeBucket, horizon int) Result {
	horizon = ClampHorizon(horizon)
	trimmed, dropped := TrimOutliersIQR(history)

	result := Result{
		History: trimmed,
		Horizon: horizon,
		Trimmed: dropped,
	}
	if len(trimmed) == 0 {
		return result
	}

	last := trimmed[len(trimmed)-1].Date
	result.Method = MethodMoving
	if len(trimmed) >= minRegressionPoints {
		if points, ok := regressionForecast(trimmed, last, horizon); ok {
			result.Method = MethodRegression
			result.Forecast = points
		}
	}
	if result.Forecast == nil {
		result.Forecast = movingForecast(trimmed, last, horizon)
	}

	for i := range result.Forecast {
		if result.Forecast[i].Value < 0 {
			result.Forecast[i].Value = 0
		}
		result.Total += result.Forecast[i].Value
	}
	return result
}

// TrimOutliersIQR убирает корзины вне полутора межквартильных размахов.
// Короткие ряды (меньше четырех точек) возвращаются как есть.
func TrimOutliersIQR(buckets []pipeline.TimeBucket) ([]pipeline.TimeBucket, int) {
	if len(buckets) < 4 {
		return buckets, 0
	}

	values := make([]float64, len(buckets))
	for i, b := range buckets {
		values[i] = b.Value
	}
	q1 := pipeline.Percentile(values, 0.25)
	q3 := pipeline.Percentile(values, 0.75)
	iqr := q3 - q1
	lo := q1 - iqrMultiplier*iqr
	hi := q3 + iqrMultiplier*iqr

	kept := make([]pipeline.TimeBucket, 0, len(buckets))
	for _, b := range buckets {
		if b.Value < lo || b.Value > hi {
			continue
		}
		kept = append(kept, b)
	}
	return kept, len(buckets) - len(kept)
}

// movingForecast проецирует среднее последнего окна, окно скользит по
// уже предсказанным значениям
func movingForecast(history []pipeline.TimeBucket, last time.Time, horizon int) []Point {
	window := make([]float64, 0, movingWindow)
	start := len(history) - movingWindow
	if start < 0 {
		start = 0
	}
	for _, b := range history[start:] {
		window = append(window, b.Value)
	}

	out := make([]Point, 0, horizon)
	for i := 1; i <= horizon; i++ {
		next := meanOf(window)
		out = append(out, Point{Date: last.AddDate(0, 0, i), Value: next})
		window = append(window, next)
		if len(window) > movingWindow {
			window = window[1:]
		}
	}
	return out
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
