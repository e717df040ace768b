package pipeline

import (
	"testing"
	"time"

	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/domain"
)

func TestBucketize_DailyCounts(t *testing.T) {
	records := []domain.SubscriptionRecord{
		record("1", time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC), domain.TypeNew, "DE", 0),
		record("2", time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC), domain.TypeTrial, "DE", 0),
		record("3", day(2024, 1, 3), domain.TypeNew, "FR", 0),
	}

	buckets := Bucketize(records, Query{Grain: GrainDay, Aggregation: AggCount})
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	if !buckets[0].Date.Equal(day(2024, 1, 1)) || buckets[0].Value != 2 {
		t.Errorf("expected 2024-01-01 count 2, got %v=%v", buckets[0].Date, buckets[0].Value)
	}
	if !buckets[1].Date.Equal(day(2024, 1, 3)) || buckets[1].Value != 1 {
		t.Errorf("expected 2024-01-03 count 1, got %v=%v", buckets[1].Date, buckets[1].Value)
	}
}

func TestBucketize_MonthlySum(t *testing.T) {
	records := []domain.SubscriptionRecord{
		record("1", day(2024, 1, 1), domain.TypeNew, "DE", 100),
		record("2", day(2024, 1, 20), domain.TypeRenewed, "DE", 50),
		record("3", day(2024, 2, 5), domain.TypeNew, "DE", 30),
	}

	buckets := Bucketize(records, Query{Grain: GrainMonth, Aggregation: AggSumAmount})
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	if buckets[0].Value != 150 {
		t.Errorf("expected January sum 150, got %v", buckets[0].Value)
	}
	if !buckets[0].Date.Equal(day(2024, 1, 1)) {
		t.Errorf("month bucket should truncate to first of month, got %v", buckets[0].Date)
	}
}

func TestBucketize_PaymentDateSkipsUnpaid(t *testing.T) {
	paid := record("1", day(2024, 1, 1), domain.TypeNew, "DE", 100)
	paid.PaymentReceived = day(2024, 1, 2)
	paid.HasPaymentReceived = true
	unpaid := record("2", day(2024, 1, 1), domain.TypeTrial, "DE", 0)

	buckets := Bucketize([]domain.SubscriptionRecord{paid, unpaid},
		Query{Grain: GrainDay, Aggregation: AggSumAmount, DateField: FieldPaymentReceived})

	if len(buckets) != 1 {
		t.Fatalf("record without payment date must not produce a bucket, got %d buckets", len(buckets))
	}
	if !buckets[0].Date.Equal(day(2024, 1, 2)) {
		t.Errorf("bucket keyed by payment date, got %v", buckets[0].Date)
	}
}

func TestBucketizeByCategory_SortedSeries(t *testing.T) {
	records := []domain.SubscriptionRecord{
		record("1", day(2024, 1, 1), domain.TypeNew, "FR", 0),
		record("2", day(2024, 1, 1), domain.TypeNew, "DE", 0),
		record("3", day(2024, 1, 2), domain.TypeNew, "DE", 0),
	}

	series := BucketizeByCategory(records, Query{Grain: GrainDay, Aggregation: AggCount}, KeyLocation)
	if len(series) != 2 {
		t.Fatalf("expected 2 series, got %d", len(series))
	}
	if series[0].Category != "DE" || series[1].Category != "FR" {
		t.Errorf("series must be sorted by category, got %q %q", series[0].Category, series[1].Category)
	}
	if len(series[0].Buckets) != 2 {
		t.Errorf("DE should have 2 day buckets, got %d", len(series[0].Buckets))
	}
}

func TestTotalsByCategory_EmptyBecomesUnknown(t *testing.T) {
	records := []domain.SubscriptionRecord{
		record("1", day(2024, 1, 1), domain.TypeNew, "", 0),
		record("2", day(2024, 1, 1), domain.TypeNew, "DE", 0),
	}

	totals := TotalsByCategory(records, Query{Aggregation: AggCount}, KeyLocation)
	if len(totals) != 2 {
		t.Fatalf("expected 2 totals, got %d", len(totals))
	}
	found := false
	for _, tot := range totals {
		if tot.Category == "Unknown" && tot.Value == 1 {
			found = true
		}
	}
	if !found {
		t.Errorf("empty location should aggregate under Unknown, got %+v", totals)
	}
}

func TestCountByType(t *testing.T) {
	records := []domain.SubscriptionRecord{
		record("1", day(2024, 1, 1), domain.TypeNew, "DE", 0),
		record("2", day(2024, 1, 1), domain.TypeNew, "DE", 0),
		record("3", day(2024, 1, 1), domain.TypeCancelled, "DE", 0),
	}

	counts := CountByType(records)
	if counts[domain.TypeNew] != 2 || counts[domain.TypeCancelled] != 1 {
		t.Errorf("unexpected counts: %+v", counts)
	}
}
