package domain

import (
	"testing"
	"time"
)

func ts(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsPaid_BothConjunctsRequired(t *testing.T) {
	base := SubscriptionRecord{
		SubscriptionType:   TypeNew,
		EventDate:          ts(2024, 1, 1),
		PaymentReceived:    ts(2024, 1, 2),
		HasPaymentReceived: true,
	}
	if !base.IsPaid() {
		t.Fatal("paid type with payment after event must classify as paid")
	}

	// Инвертируем первое условие: платный тип -> trial
	wrongType := base
	wrongType.SubscriptionType = TypeTrial
	if wrongType.IsPaid() {
		t.Error("trial must not classify as paid even with a valid payment date")
	}

	// Инвертируем второе условие: платеж раньше события
	earlyPayment := base
	earlyPayment.PaymentReceived = ts(2023, 12, 31)
	if earlyPayment.IsPaid() {
		t.Error("payment before event date must not classify as paid")
	}

	// Платеж в день события проходит (>=)
	sameDay := base
	sameDay.PaymentReceived = base.EventDate
	if !sameDay.IsPaid() {
		t.Error("payment on the event date must classify as paid")
	}

	// Нет даты платежа вовсе
	noPayment := base
	noPayment.HasPaymentReceived = false
	if noPayment.IsPaid() {
		t.Error("missing payment date must not classify as paid")
	}
}

func TestIsPaid_AllPaidTypes(t *testing.T) {
	for _, subType := range []SubscriptionType{TypeNew, TypeRenewed, TypeUpgraded} {
		rec := SubscriptionRecord{
			SubscriptionType:   subType,
			EventDate:          ts(2024, 1, 1),
			PaymentReceived:    ts(2024, 1, 1),
			HasPaymentReceived: true,
		}
		if !rec.IsPaid() {
			t.Errorf("type %q must be eligible for paid classification", subType)
		}
	}
	for _, subType := range []SubscriptionType{TypeTrial, TypeCancelled, TypeUnknown} {
		rec := SubscriptionRecord{
			SubscriptionType:   subType,
			EventDate:          ts(2024, 1, 1),
			PaymentReceived:    ts(2024, 1, 1),
			HasPaymentReceived: true,
		}
		if rec.IsPaid() {
			t.Errorf("type %q must never classify as paid", subType)
		}
	}
}

func TestDurationDays_ClampsNegative(t *testing.T) {
	rec := SubscriptionRecord{
		InitialSubsStart: ts(2024, 5, 1),
		HasInitialStart:  true,
		CancellationDate: ts(2024, 4, 1), // раньше старта: грязные данные
		HasCancellation:  true,
	}

	days, active := rec.DurationDays(ts(2024, 6, 1))
	if days != 0 {
		t.Errorf("negative duration must clamp to 0, got %v", days)
	}
	if active {
		t.Error("cancelled record must not report active")
	}
}

func TestDurationDays_ActiveUsesNow(t *testing.T) {
	rec := SubscriptionRecord{
		InitialSubsStart: ts(2024, 1, 1),
		HasInitialStart:  true,
	}

	days, active := rec.DurationDays(ts(2024, 1, 11))
	if !active {
		t.Error("record without cancellation must report active")
	}
	if days != 10 {
		t.Errorf("expected 10 days, got %v", days)
	}
}

func TestDaysToFirstSubscription(t *testing.T) {
	rec := SubscriptionRecord{
		CustomerCreated:    ts(2024, 1, 1),
		HasCustomerCreated: true,
		InitialSubsStart:   ts(2024, 1, 8),
		HasInitialStart:    true,
	}
	days, ok := rec.DaysToFirstSubscription()
	if !ok || days != 7 {
		t.Errorf("expected 7 days, got %v (ok=%v)", days, ok)
	}

	// Подписка раньше создания аккаунта обрезается до нуля
	rec.InitialSubsStart = ts(2023, 12, 1)
	days, ok = rec.DaysToFirstSubscription()
	if !ok || days != 0 {
		t.Errorf("negative gap must clamp to 0, got %v", days)
	}

	rec.HasCustomerCreated = false
	if _, ok := rec.DaysToFirstSubscription(); ok {
		t.Error("missing customer creation date must report ok=false")
	}
}

func TestNormalizeType(t *testing.T) {
	cases := map[string]SubscriptionType{
		"new":          TypeNew,
		"New":          TypeNew,
		" CANCELED ":   TypeCancelled,
		"cancellation": TypeCancelled,
		"renew":        TypeRenewed,
		"upgrade":      TypeUpgraded,
		"trial":        TypeTrial,
		"gibberish":    TypeUnknown,
		"":             TypeUnknown,
	}
	for raw, want := range cases {
		if got := NormalizeType(raw); got != want {
			t.Errorf("NormalizeType(%q) = %q, want %q", raw, got, want)
		}
	}
}
