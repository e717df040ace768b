package pipeline

import (
	"testing"
	"time"

	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/domain"
)

func startedRecord(userID string, eventDate, start time.Time) domain.SubscriptionRecord {
	return domain.SubscriptionRecord{
		UserID:           userID,
		EventDate:        eventDate,
		InitialSubsStart: start,
		HasInitialStart:  true,
	}
}

func TestLatestPerUser(t *testing.T) {
	records := []domain.SubscriptionRecord{
		record("u1", day(2024, 1, 1), domain.TypeNew, "DE", 100),
		record("u1", day(2024, 2, 1), domain.TypeRenewed, "DE", 100),
		record("u2", day(2024, 1, 5), domain.TypeNew, "FR", 50),
	}

	out := LatestPerUser(records, ByEventDate)
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0].UserID != "u1" || out[0].SubscriptionType != domain.TypeRenewed {
		t.Fatalf("u1 row = %+v, want the later renewed row", out[0])
	}
}

func TestEarliestPerUser(t *testing.T) {
	records := []domain.SubscriptionRecord{
		startedRecord("u1", day(2024, 2, 1), day(2024, 2, 1)),
		startedRecord("u1", day(2024, 1, 1), day(2024, 1, 1)),
	}

	out := EarliestPerUser(records, ByInitialStart)
	if len(out) != 1 {
		t.Fatalf("len = %d, want 1", len(out))
	}
	if !out[0].InitialSubsStart.Equal(day(2024, 1, 1)) {
		t.Fatalf("start = %v, want 2024-01-01", out[0].InitialSubsStart)
	}
}

func TestWithInitialStart_FiltersBeforeDedupe(t *testing.T) {
	// строка без даты начала несет нулевое время: без предварительной
	// фильтрации она выиграла бы дедупликацию по самой ранней дате
	records := []domain.SubscriptionRecord{
		startedRecord("u1", day(2024, 1, 1), day(2024, 1, 1)),
		record("u1", day(2024, 2, 1), domain.TypeRenewed, "DE", 0),
	}

	out := EarliestPerUser(WithInitialStart(records), ByInitialStart)
	if len(out) != 1 {
		t.Fatalf("len = %d, want 1", len(out))
	}
	if !out[0].HasInitialStart {
		t.Fatal("surviving row must carry the initial start date")
	}
}
