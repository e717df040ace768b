package domain

import (
	"strings"
	"time"
)

// SubscriptionType каноническое значение типа подписки
type SubscriptionType string

const (
	TypeNew       SubscriptionType = "new"
	TypeRenewed   SubscriptionType = "renewed"
	TypeUpgraded  SubscriptionType = "upgraded"
	TypeTrial     SubscriptionType = "trial"
	TypeCancelled SubscriptionType = "cancelled"
	TypeUnknown   SubscriptionType = "unknown"
)

// CanonicalTypes все канонические типы подписки в порядке отображения
var CanonicalTypes = []SubscriptionType{
	TypeNew, TypeTrial, TypeRenewed, TypeUpgraded, TypeCancelled,
}

// typeSynonyms декларативная таблица синонимов: каноническое значение -> принимаемые формы.
// Нормализатор сверяется с ней один раз вместо цепочек replace по страницам.
var typeSynonyms = map[SubscriptionType][]string{
	TypeNew:       {"new"},
	TypeRenewed:   {"renewed", "renewal", "renew"},
	TypeUpgraded:  {"upgraded", "upgrade"},
	TypeTrial:     {"trial"},
	TypeCancelled: {"cancelled", "canceled", "cancellation"},
}

// synonymIndex обратный индекс, построенный из typeSynonyms
var synonymIndex = func() map[string]SubscriptionType {
	idx := make(map[string]SubscriptionType)
	for canonical, forms := range typeSynonyms {
		for _, form := range forms {
			idx[form] = canonical
		}
	}
	return idx
}()

// paidTypes типы подписки, которые могут приносить выручку
var paidTypes = map[SubscriptionType]bool{
	TypeNew:      true,
	TypeRenewed:  true,
	TypeUpgraded: true,
}

// SubscriptionRecord одна строка жизненного цикла подписки.
// Записи неизменяемы после загрузки снапшота.
type SubscriptionRecord struct {
	UserID             string           `json:"user_id"`
	Company            string           `json:"company"`
	Location           string           `json:"location"`
	PackageName        string           `json:"package_name"`
	EventDate          time.Time        `json:"event_date"`
	SubscriptionType   SubscriptionType `json:"subscription_type"`
	AmountPaid         float64          `json:"amount_paid"`
	PaymentReceived    time.Time        `json:"payment_received_date"`
	HasPaymentReceived bool             `json:"has_payment_received"`
	InitialSubsStart   time.Time        `json:"initial_subscription_start_date"`
	HasInitialStart    bool             `json:"has_initial_start"`
	CancellationDate   time.Time        `json:"cancellation_date"`
	HasCancellation    bool             `json:"has_cancellation"`
	CustomerCreated    time.Time        `json:"customer_created_date"`
	HasCustomerCreated bool             `json:"has_customer_created"`
	RecruitMode        string           `json:"recruit_mode"`
	UserStatus         string           `json:"user_status"`
	CancellationReason string           `json:"cancellation_reason"`
	ConvertedFromTrial bool             `json:"converted_from_trial"`
}

// IsPaid сообщает, принесла ли запись фактическую выручку:
// тип входит в платные И дата получения платежа >= даты события.
// Оба условия обязательны.
func (r SubscriptionRecord) IsPaid() bool {
	if !paidTypes[r.SubscriptionType] {
		return false
	}
	if !r.HasPaymentReceived {
		return false
	}
	return !r.PaymentReceived.Before(r.EventDate)
}

// IsCancelled сообщает, является ли запись отменой
func (r SubscriptionRecord) IsCancelled() bool {
	return r.SubscriptionType == TypeCancelled
}

// DurationDays возвращает срок жизни подписки в днях: от начала до отмены,
// либо до now для еще активных. Отрицательные значения обрезаются до нуля.
func (r SubscriptionRecord) DurationDays(now time.Time) (days float64, active bool) {
	if !r.HasInitialStart {
		return 0, false
	}
	end := now
	active = true
	if r.HasCancellation {
		end = r.CancellationDate
		active = false
	}
	days = end.Sub(r.InitialSubsStart).Seconds() / 86400
	if days < 0 {
		days = 0
	}
	return days, active
}

// DaysToFirstSubscription возвращает число дней от создания аккаунта до
// первой подписки, обрезанное до нуля снизу.
func (r SubscriptionRecord) DaysToFirstSubscription() (float64, bool) {
	if !r.HasInitialStart || !r.HasCustomerCreated {
		return 0, false
	}
	days := r.InitialSubsStart.Sub(r.CustomerCreated).Seconds() / 86400
	if days < 0 {
		days = 0
	}
	return days, true
}

// NormalizeType приводит сырое значение типа к каноническому через таблицу
// синонимов. Неопознанные значения становятся TypeUnknown.
func NormalizeType(raw string) SubscriptionType {
	key := normalizeToken(raw)
	if key == "" {
		return TypeUnknown
	}
	if canonical, ok := synonymIndex[key]; ok {
		return canonical
	}
	return TypeUnknown
}

// normalizeToken обрезает пробелы и приводит к нижнему регистру
func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
