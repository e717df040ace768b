package pipeline

import (
	"testing"
	"time"
)

func TestFillGaps_Completeness(t *testing.T) {
	buckets := []TimeBucket{
		{Date: day(2024, 1, 2), Value: 3},
		{Date: day(2024, 1, 5), Value: 1},
	}

	filled := FillGaps(buckets, day(2024, 1, 1), day(2024, 1, 7), GrainDay)
	if len(filled) != 7 {
		t.Fatalf("expected exactly 7 buckets for a 7-day range, got %d", len(filled))
	}

	// Каждый день диапазона присутствует ровно один раз
	seen := make(map[time.Time]int)
	for _, b := range filled {
		seen[b.Date]++
	}
	for cursor := day(2024, 1, 1); !cursor.After(day(2024, 1, 7)); cursor = cursor.AddDate(0, 0, 1) {
		if seen[cursor] != 1 {
			t.Errorf("date %v appears %d times, expected 1", cursor, seen[cursor])
		}
	}

	if filled[1].Value != 3 {
		t.Errorf("existing bucket value lost: got %v", filled[1].Value)
	}
	if filled[0].Value != 0 || filled[2].Value != 0 {
		t.Errorf("missing buckets must report zero, got %v and %v", filled[0].Value, filled[2].Value)
	}
}

func TestFillGaps_Monthly(t *testing.T) {
	buckets := []TimeBucket{{Date: day(2024, 1, 1), Value: 10}}

	filled := FillGaps(buckets, day(2024, 1, 15), day(2024, 4, 2), GrainMonth)
	if len(filled) != 4 {
		t.Fatalf("expected 4 month buckets Jan..Apr, got %d", len(filled))
	}
	if filled[0].Value != 10 {
		t.Errorf("January value lost: %v", filled[0].Value)
	}
	for i, b := range filled {
		if b.Date.Day() != 1 {
			t.Errorf("bucket %d not aligned to first of month: %v", i, b.Date)
		}
	}
}

func TestFillGaps_InvertedRange(t *testing.T) {
	filled := FillGaps(nil, day(2024, 2, 1), day(2024, 1, 1), GrainDay)
	if filled != nil {
		t.Errorf("inverted range should yield no buckets, got %d", len(filled))
	}
}

func TestFillSeriesGaps_CartesianDomain(t *testing.T) {
	series := []CategorySeries{
		{Category: "new", Buckets: []TimeBucket{{Date: day(2024, 1, 1), Value: 2}}},
	}
	categories := []string{"new", "trial", "cancelled"}

	filled := FillSeriesGaps(series, categories, day(2024, 1, 1), day(2024, 1, 3), GrainDay)
	if len(filled) != 3 {
		t.Fatalf("expected one series per category, got %d", len(filled))
	}
	for _, s := range filled {
		if len(s.Buckets) != 3 {
			t.Errorf("series %q must span the full 3-day domain, got %d buckets", s.Category, len(s.Buckets))
		}
	}
	if filled[0].Buckets[0].Value != 2 {
		t.Errorf("existing value lost in series fill: %v", filled[0].Buckets[0].Value)
	}
	if filled[1].Buckets[0].Value != 0 {
		t.Errorf("absent category must be all-zero, got %v", filled[1].Buckets[0].Value)
	}
}

func TestSeriesBounds(t *testing.T) {
	_, _, ok := SeriesBounds(nil)
	if ok {
		t.Error("empty series should report ok=false")
	}

	min, max, ok := SeriesBounds([]TimeBucket{
		{Date: day(2024, 1, 5)},
		{Date: day(2024, 1, 2)},
		{Date: day(2024, 1, 9)},
	})
	if !ok || !min.Equal(day(2024, 1, 2)) || !max.Equal(day(2024, 1, 9)) {
		t.Errorf("unexpected bounds: %v %v %v", min, max, ok)
	}
}
