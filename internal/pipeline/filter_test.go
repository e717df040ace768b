package pipeline

import (
	"reflect"
	"testing"
	"time"

	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func record(userID string, eventDate time.Time, subType domain.SubscriptionType, location string, amount float64) domain.SubscriptionRecord {
	return domain.SubscriptionRecord{
		UserID:           userID,
		EventDate:        eventDate,
		SubscriptionType: subType,
		Location:         location,
		AmountPaid:       amount,
	}
}

func TestFilters_Conjunction(t *testing.T) {
	records := []domain.SubscriptionRecord{
		record("1", day(2024, 1, 1), domain.TypeNew, "DE", 100),
		record("2", day(2024, 1, 5), domain.TypeTrial, "DE", 0),
		record("3", day(2024, 1, 5), domain.TypeNew, "FR", 50),
		record("4", day(2024, 2, 1), domain.TypeNew, "DE", 70),
	}

	start := day(2024, 1, 1)
	end := day(2024, 1, 31)
	f := Filters{
		Start:     &start,
		End:       &end,
		Locations: []string{"DE"},
		Types:     []domain.SubscriptionType{domain.TypeNew},
	}

	got := f.Apply(records)
	if len(got) != 1 || got[0].UserID != "1" {
		t.Fatalf("expected only record 1, got %+v", got)
	}
}

func TestFilters_UnsuppliedPredicatePassesAll(t *testing.T) {
	records := []domain.SubscriptionRecord{
		record("1", day(2024, 1, 1), domain.TypeNew, "DE", 100),
		record("2", day(2024, 3, 1), domain.TypeCancelled, "FR", 0),
	}

	got := Filters{}.Apply(records)
	if len(got) != len(records) {
		t.Errorf("expected all %d records, got %d", len(records), len(got))
	}
}

func TestFilters_InclusiveBounds(t *testing.T) {
	records := []domain.SubscriptionRecord{
		record("1", day(2024, 1, 1), domain.TypeNew, "DE", 0),
		record("2", day(2024, 1, 31), domain.TypeNew, "DE", 0),
	}

	start := day(2024, 1, 1)
	end := day(2024, 1, 31)
	got := Filters{Start: &start, End: &end}.Apply(records)
	if len(got) != 2 {
		t.Errorf("both boundary records should pass, got %d", len(got))
	}
}

func TestFilters_EmptyResultIsValid(t *testing.T) {
	records := []domain.SubscriptionRecord{
		record("1", day(2024, 1, 1), domain.TypeNew, "DE", 0),
	}

	got := Filters{Locations: []string{"JP"}}.Apply(records)
	if len(got) != 0 {
		t.Errorf("expected empty result, got %d records", len(got))
	}
}

func TestFilters_Idempotence(t *testing.T) {
	records := []domain.SubscriptionRecord{
		record("1", day(2024, 1, 1), domain.TypeNew, "DE", 100),
		record("2", day(2024, 1, 2), domain.TypeTrial, "FR", 0),
		record("3", day(2024, 1, 3), domain.TypeCancelled, "DE", 0),
	}

	start := day(2024, 1, 1)
	f := Filters{Start: &start, Locations: []string{"DE", "FR"}}

	first := f.Apply(records)
	second := f.Apply(records)
	if !reflect.DeepEqual(first, second) {
		t.Error("identical predicates over the same input must yield identical output")
	}
}
