package pipeline

import (
	"sort"
	"time"

	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/domain"
)

// SortDate извлекает дату сортировки дедупликации из записи
type SortDate func(domain.SubscriptionRecord) time.Time

// ByEventDate сортировочная дата = дата события
func ByEventDate(rec domain.SubscriptionRecord) time.Time { return rec.EventDate }

// ByInitialStart сортировочная дата = начало первой подписки
func ByInitialStart(rec domain.SubscriptionRecord) time.Time { return rec.InitialSubsStart }

// WithInitialStart отбрасывает записи без даты начала первой подписки.
// Вызывается до дедупликации: строка без даты не должна вытеснять
// валидную строку того же пользователя.
func WithInitialStart(records []domain.SubscriptionRecord) []domain.SubscriptionRecord {
	out := make([]domain.SubscriptionRecord, 0, len(records))
	for _, rec := range records {
		if rec.HasInitialStart {
			out = append(out, rec)
		}
	}
	return out
}

// LatestPerUser оставляет по каждому User_ID самую позднюю запись по
// заданной дате сортировки. Представления уникальных подписчиков строятся
// именно так: каждый переход жизненного цикла — отдельная строка.
func LatestPerUser(records []domain.SubscriptionRecord, at SortDate) []domain.SubscriptionRecord {
	return dedupe(records, at, func(candidate, current time.Time) bool {
		return candidate.After(current)
	})
}

// EarliestPerUser оставляет по каждому User_ID самую раннюю запись
// (метрики времени до первой подписки).
func EarliestPerUser(records []domain.SubscriptionRecord, at SortDate) []domain.SubscriptionRecord {
	return dedupe(records, at, func(candidate, current time.Time) bool {
		return candidate.Before(current)
	})
}

// dedupe общий проход дедупликации; результат отсортирован по User_ID
// для детерминизма
func dedupe(records []domain.SubscriptionRecord, at SortDate, better func(candidate, current time.Time) bool) []domain.SubscriptionRecord {
	best := make(map[string]domain.SubscriptionRecord)
	for _, rec := range records {
		current, seen := best[rec.UserID]
		if !seen || better(at(rec), at(current)) {
			best[rec.UserID] = rec
		}
	}

	out := make([]domain.SubscriptionRecord, 0, len(best))
	for _, rec := range best {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}
