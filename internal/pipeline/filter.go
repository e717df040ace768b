package pipeline

import (
	"time"

	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/domain"
)

// Filters набор необязательных предикатов страницы отчета.
// Неуказанный предикат пропускает все строки. Пустой результат — валидный
// исход, а не ошибка.
type Filters struct {
	Start     *time.Time                // включительно
	End       *time.Time                // включительно
	Locations []string                  // множество допустимых стран
	Types     []domain.SubscriptionType // множество допустимых типов
}

// Apply возвращает подмножество записей, удовлетворяющее конъюнкции всех
// заданных предикатов. Чистая функция: одинаковые фильтры над одним
// снапшотом дают одинаковый результат.
func (f Filters) Apply(records []domain.SubscriptionRecord) []domain.SubscriptionRecord {
	locations := toSet(f.Locations)
	types := make(map[domain.SubscriptionType]bool, len(f.Types))
	for _, t := range f.Types {
		types[t] = true
	}

	out := make([]domain.SubscriptionRecord, 0, len(records))
	for _, rec := range records {
		if f.Start != nil && rec.EventDate.Before(*f.Start) {
			continue
		}
		if f.End != nil && rec.EventDate.After(*f.End) {
			continue
		}
		if len(locations) > 0 && !locations[rec.Location] {
			continue
		}
		if len(types) > 0 && !types[rec.SubscriptionType] {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// toSet строит множество из среза строк
func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
