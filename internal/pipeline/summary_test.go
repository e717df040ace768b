package pipeline

import (
	"math"
	"testing"
)

func TestSummarize_TwoAverages(t *testing.T) {
	// Два платежа в один день, второй день периода пустой:
	// Avg(all-days) = 120/2 = 60, Avg(active-days) = 120/1 = 120
	buckets := []TimeBucket{
		{Date: day(2024, 1, 1), Value: 120},
		{Date: day(2024, 1, 2), Value: 0},
	}

	s := Summarize(buckets, 2)
	if s.Total != 120 {
		t.Errorf("expected total 120, got %v", s.Total)
	}
	if s.AvgAllDays != 60 {
		t.Errorf("expected avg(all-days) 60, got %v", s.AvgAllDays)
	}
	if s.AvgActiveDays != 120 {
		t.Errorf("expected avg(active-days) 120, got %v", s.AvgActiveDays)
	}
}

func TestSummarize_AverageInvariant(t *testing.T) {
	cases := [][]TimeBucket{
		{{Date: day(2024, 1, 1), Value: 10}},
		{{Date: day(2024, 1, 1), Value: 10}, {Date: day(2024, 1, 2), Value: 20}},
		{{Date: day(2024, 1, 1), Value: 5}, {Date: day(2024, 1, 2), Value: 0}, {Date: day(2024, 1, 3), Value: 7}},
	}

	for i, buckets := range cases {
		s := Summarize(buckets, len(buckets))
		if s.AvgAllDays > s.AvgActiveDays+1e-9 {
			t.Errorf("case %d: avg(all-days)=%v must not exceed avg(active-days)=%v", i, s.AvgAllDays, s.AvgActiveDays)
		}
		if s.ActiveDays == s.PeriodDays && math.Abs(s.AvgAllDays-s.AvgActiveDays) > 1e-9 {
			t.Errorf("case %d: averages must coincide when every day is active", i)
		}
	}
}

func TestSummarize_SingleDayScenario(t *testing.T) {
	// Сценарий из набора примеров: одна платная запись на 100 за 1 день
	s := Summarize([]TimeBucket{{Date: day(2024, 1, 1), Value: 100}}, 1)
	if s.Total != 100 || s.AvgAllDays != 100 || s.AvgActiveDays != 100 {
		t.Errorf("expected 100/100/100, got %v/%v/%v", s.Total, s.AvgAllDays, s.AvgActiveDays)
	}
}

func TestSummarize_EmptyInput(t *testing.T) {
	s := Summarize(nil, 0)
	if s.Total != 0 || s.AvgAllDays != 0 || s.AvgActiveDays != 0 {
		t.Errorf("empty input must yield zero KPIs, got %+v", s)
	}
	if s.Max.OK || s.Min.OK {
		t.Error("max/min must be undefined for empty input")
	}
}

func TestSummarize_MaxMinTieBreakEarliestDate(t *testing.T) {
	buckets := []TimeBucket{
		{Date: day(2024, 1, 3), Value: 50},
		{Date: day(2024, 1, 1), Value: 50},
		{Date: day(2024, 1, 2), Value: 50},
	}

	s := Summarize(buckets, 3)
	if !s.Max.Date.Equal(day(2024, 1, 1)) {
		t.Errorf("max tie must break to earliest date, got %v", s.Max.Date)
	}
	if !s.Min.Date.Equal(day(2024, 1, 1)) {
		t.Errorf("min tie must break to earliest date, got %v", s.Min.Date)
	}
}

func TestSummarize_MinIgnoresGapFilledZeroes(t *testing.T) {
	buckets := []TimeBucket{
		{Date: day(2024, 1, 1), Value: 0},
		{Date: day(2024, 1, 2), Value: 30},
		{Date: day(2024, 1, 3), Value: 10},
	}

	s := Summarize(buckets, 3)
	if !s.Min.OK || s.Min.Value != 10 {
		t.Errorf("min must come from active days only, got %+v", s.Min)
	}
	if s.ActiveDays != 2 {
		t.Errorf("expected 2 active days, got %d", s.ActiveDays)
	}
}

func TestMonthlyBreakdown(t *testing.T) {
	daily := []TimeBucket{
		{Date: day(2024, 1, 10), Value: 31},
		{Date: day(2024, 1, 20), Value: 31},
		{Date: day(2024, 2, 1), Value: 29},
	}

	months := MonthlyBreakdown(daily)
	if len(months) != 2 {
		t.Fatalf("expected 2 months, got %d", len(months))
	}

	jan := months[0]
	if jan.Month != "2024-01" {
		t.Errorf("expected 2024-01 first, got %q", jan.Month)
	}
	if jan.Total != 62 {
		t.Errorf("expected January total 62, got %v", jan.Total)
	}
	// 62 за 31 календарный день января
	if jan.AvgAllDays != 2 {
		t.Errorf("expected avg(all-days) 2, got %v", jan.AvgAllDays)
	}
	if jan.AvgActiveDays != 31 {
		t.Errorf("expected avg(active-days) 31, got %v", jan.AvgActiveDays)
	}

	feb := months[1]
	// 2024 високосный: 29 за 29 дней
	if feb.AvgAllDays != 1 {
		t.Errorf("expected leap February avg 1, got %v", feb.AvgAllDays)
	}
}

func TestRate_ZeroDenominator(t *testing.T) {
	if got := Rate(5, 0); got != 0 {
		t.Errorf("zero denominator must report 0, got %v", got)
	}
	if got := Rate(25, 100); got != 25 {
		t.Errorf("expected 25%%, got %v", got)
	}
}

func TestPercentile_LinearInterpolation(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	if got := Percentile(values, 0.25); got != 1.75 {
		t.Errorf("expected P25 1.75, got %v", got)
	}
	if got := Percentile(values, 0.5); got != 2.5 {
		t.Errorf("expected median 2.5, got %v", got)
	}
	if got := Percentile(nil, 0.5); got != 0 {
		t.Errorf("empty input must yield 0, got %v", got)
	}
}

func TestTopModes_TieByFirstEncountered(t *testing.T) {
	values := []float64{8, 2, 8, 2, 5}

	modes := TopModes(values, 3)
	if len(modes) != 3 {
		t.Fatalf("expected 3 modes, got %d", len(modes))
	}
	if modes[0].Value != 8 || modes[1].Value != 2 {
		t.Errorf("equal frequencies must keep first-encountered order, got %+v", modes)
	}
}

func TestTopModes(t *testing.T) {
	values := []float64{7.2, 3.1, 6.8, 3.4, 5.0, 2.9}

	modes := TopModes(values, 3)
	if len(modes) != 3 {
		t.Fatalf("expected 3 modes, got %d", len(modes))
	}
	// 7.2 и 6.8 округляются до 7 (2 вхождения), 3.1 и 2.9 до 3 (2 вхождения),
	// 3.4 до 3 — итого 3 встречается трижды
	if modes[0].Value != 3 || modes[0].Count != 3 {
		t.Errorf("expected mode 3x3 first, got %+v", modes[0])
	}
	if modes[1].Value != 7 || modes[1].Count != 2 {
		t.Errorf("expected mode 7x2 second, got %+v", modes[1])
	}
}

func TestDistribution_Empty(t *testing.T) {
	stats := Distribution(nil)
	if stats.Count != 0 || stats.Mean != 0 || len(stats.Modes) != 0 {
		t.Errorf("empty distribution must be all-zero, got %+v", stats)
	}
}

func TestDistribution(t *testing.T) {
	stats := Distribution([]float64{10, 20, 30, 40})
	if stats.Count != 4 || stats.Mean != 25 || stats.Min != 10 || stats.Max != 40 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.Median != 25 {
		t.Errorf("expected median 25, got %v", stats.Median)
	}
}

func TestDaysInMonth(t *testing.T) {
	if got := DaysInMonth(day(2024, 2, 15)); got != 29 {
		t.Errorf("expected leap February 29, got %d", got)
	}
	if got := DaysInMonth(day(2023, 2, 1)); got != 28 {
		t.Errorf("expected February 28, got %d", got)
	}
	if got := DaysInMonth(day(2024, 1, 31)); got != 31 {
		t.Errorf("expected January 31, got %d", got)
	}
}

func TestPeriodDays(t *testing.T) {
	if got := PeriodDays(day(2024, 1, 1), day(2024, 1, 1)); got != 1 {
		t.Errorf("same-day period is 1 day, got %d", got)
	}
	if got := PeriodDays(day(2024, 1, 1), day(2024, 1, 7)); got != 7 {
		t.Errorf("expected 7, got %d", got)
	}
	if got := PeriodDays(day(2024, 1, 7), day(2024, 1, 1)); got != 1 {
		t.Errorf("inverted period clamps to 1, got %d", got)
	}
}
