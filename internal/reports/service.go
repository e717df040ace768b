package reports

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/domain"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/pipeline"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/snapshot"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/pkg/logger"
)

// Сообщения деградации страниц
const (
	MsgNoData          = "No data available."
	MsgNoDataForFilter = "No data found for selected filters."
)

// Service собирает отчеты над текущим снапшотом. Каждая страница — это
// конфигурация одного и того же конвейера: фильтры, ключи группировки,
// агрегат, сводка.
type Service struct {
	store *snapshot.Store
	log   *logger.Logger
	now   func() time.Time
}

// NewService создает сервис отчетов
func NewService(store *snapshot.Store, log *logger.Logger) *Service {
	return &Service{
		store: store,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Request параметры страницы отчета из запроса UI
type Request struct {
	Start     *time.Time
	End       *time.Time
	Locations []string
	Types     []string
	MinDays   *float64
	MaxDays   *float64
	MonthA    string // YYYY-MM, страницы сравнения периодов
	MonthB    string
	Horizon   int // дни прогноза
}

// Filters переводит параметры запроса в предикаты конвейера.
// Сырые типы из запроса проходят таблицу синонимов.
func (r Request) Filters() pipeline.Filters {
	f := pipeline.Filters{
		Start:     r.Start,
		End:       r.End,
		Locations: r.Locations,
	}
	for _, t := range r.Types {
		f.Types = append(f.Types, domain.NormalizeType(t))
	}
	return f
}

// Fingerprint стабильный отпечаток параметров для ключа кэша отчетов
func (r Request) Fingerprint() string {
	var sb strings.Builder
	if r.Start != nil {
		sb.WriteString(r.Start.Format("2006-01-02"))
	}
	sb.WriteByte('|')
	if r.End != nil {
		sb.WriteString(r.End.Format("2006-01-02"))
	}
	locs := append([]string(nil), r.Locations...)
	sort.Strings(locs)
	types := append([]string(nil), r.Types...)
	sort.Strings(types)
	fmt.Fprintf(&sb, "|%s|%s", strings.Join(locs, ","), strings.Join(types, ","))
	if r.MinDays != nil {
		fmt.Fprintf(&sb, "|min=%v", *r.MinDays)
	}
	if r.MaxDays != nil {
		fmt.Fprintf(&sb, "|max=%v", *r.MaxDays)
	}
	fmt.Fprintf(&sb, "|%s|%s|%d", r.MonthA, r.MonthB, r.Horizon)

	sum := sha1.Sum([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// FilterOptions значения для выпадающих фильтров UI
type FilterOptions struct {
	Locations []string `json:"locations"`
	Types     []string `json:"types"`
	Packages  []string `json:"packages"`
}

// Options возвращает уникальные значения фильтров текущего снапшота
func (s *Service) Options() FilterOptions {
	snap := s.store.Current()
	return FilterOptions{
		Locations: snap.Locations,
		Types:     snap.Types,
		Packages:  snap.Packages,
	}
}

// SnapshotInfo метаданные опубликованного снапшота
type SnapshotInfo struct {
	ID       string    `json:"id"`
	Records  int       `json:"records"`
	RawRows  int       `json:"raw_rows"`
	Dropped  int       `json:"dropped"`
	LoadedAt time.Time `json:"loaded_at"`
	Source   string    `json:"source"`
	Warning  string    `json:"warning,omitempty"`
}

// Snapshot возвращает метаданные текущего снапшота
func (s *Service) Snapshot() SnapshotInfo {
	snap := s.store.Current()
	return SnapshotInfo{
		ID:       snap.ID,
		Records:  len(snap.Records),
		RawRows:  snap.RawRows,
		Dropped:  snap.Dropped,
		LoadedAt: snap.LoadedAt,
		Source:   snap.Source,
		Warning:  snap.Warning,
	}
}

// filtered применяет фильтры запроса к текущему снапшоту
func (s *Service) filtered(req Request) ([]domain.SubscriptionRecord, *snapshot.Snapshot) {
	snap := s.store.Current()
	return req.Filters().Apply(snap.Records), snap
}

// reportRange определяет границы отчетного периода: явные границы запроса
// либо минимальная и максимальная даты отфильтрованных корзин
func reportRange(req Request, buckets []pipeline.TimeBucket) (start, end time.Time, ok bool) {
	min, max, has := pipeline.SeriesBounds(buckets)
	if !has && (req.Start == nil || req.End == nil) {
		return time.Time{}, time.Time{}, false
	}

	start, end = min, max
	if req.Start != nil {
		start = *req.Start
	}
	if req.End != nil {
		end = *req.End
	}
	return pipeline.GrainDay.Truncate(start), pipeline.GrainDay.Truncate(end), true
}

// presentTypes список типов для оси категорий: выбранные в фильтре либо
// фактически присутствующие в выборке
func presentTypes(req Request, records []domain.SubscriptionRecord) []string {
	if len(req.Types) > 0 {
		out := make([]string, 0, len(req.Types))
		for _, t := range req.Types {
			out = append(out, string(domain.NormalizeType(t)))
		}
		return out
	}

	seen := make(map[string]bool)
	var out []string
	for _, rec := range records {
		key := string(rec.SubscriptionType)
		if !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

// presentCategories уникальные значения категориального ключа в выборке
func presentCategories(records []domain.SubscriptionRecord, key pipeline.GroupKey) []string {
	totals := pipeline.TotalsByCategory(records, pipeline.Query{Aggregation: pipeline.AggCount}, key)
	out := make([]string, 0, len(totals))
	for _, t := range totals {
		out = append(out, t.Category)
	}
	return out
}

// sortTotals упорядочивает категории по убыванию значения; равные значения
// идут в алфавитном порядке
func sortTotals(totals []pipeline.CategoryTotal) {
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Value != totals[j].Value {
			return totals[i].Value > totals[j].Value
		}
		return totals[i].Category < totals[j].Category
	})
}

// paidOnly записи, фактически принесшие выручку (оба условия платности)
func paidOnly(records []domain.SubscriptionRecord) []domain.SubscriptionRecord {
	out := make([]domain.SubscriptionRecord, 0, len(records))
	for _, rec := range records {
		if rec.IsPaid() {
			out = append(out, rec)
		}
	}
	return out
}

// cancelledOnly записи отмен
func cancelledOnly(records []domain.SubscriptionRecord) []domain.SubscriptionRecord {
	out := make([]domain.SubscriptionRecord, 0, len(records))
	for _, rec := range records {
		if rec.IsCancelled() {
			out = append(out, rec)
		}
	}
	return out
}
