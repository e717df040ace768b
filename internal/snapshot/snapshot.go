package snapshot

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/domain"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/pipeline"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/pkg/logger"
	"github.com/google/uuid"
)

// Loader источник сырых строк для снапшота
type Loader interface {
	FetchAll(ctx context.Context) ([]domain.RawRow, error)
	Source() string
}

// Snapshot неизменяемый срез ленты подписок. Все страницы отчетов читают
// один опубликованный снапшот; обновление подменяет его целиком.
type Snapshot struct {
	ID        string
	Records   []domain.SubscriptionRecord
	Locations []string
	Types     []string
	Packages  []string
	LoadedAt  time.Time
	Source    string
	RawRows   int
	Dropped   int
	// Warning заполнено, когда загрузка завершилась деградацией
	// (например, во входной таблице нет обязательных колонок)
	Warning string
}

// Empty сообщает, пуст ли снапшот
func (s *Snapshot) Empty() bool {
	return len(s.Records) == 0
}

// Store владеет текущим снапшотом. Писатель один (Reload), читатели
// получают ссылку на замороженную копию — блокировки не нужны.
type Store struct {
	current atomic.Pointer[Snapshot]
	loader  Loader
	log     *logger.Logger
}

// NewStore создает хранилище с пустым начальным снапшотом
func NewStore(loader Loader, log *logger.Logger) *Store {
	s := &Store{loader: loader, log: log}
	s.current.Store(&Snapshot{
		ID:       uuid.NewString(),
		LoadedAt: time.Now().UTC(),
		Source:   "empty",
	})
	return s
}

// Current возвращает опубликованный снапшот; никогда не nil
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Reload загружает данные заново и атомарно публикует новый снапшот.
// Неудачная выборка дает пустой снапшот и предупреждение в логе, без
// ретраев: зависимые страницы деградируют до "нет данных", процесс живет.
func (s *Store) Reload(ctx context.Context) (*Snapshot, error) {
	rows, err := s.loader.FetchAll(ctx)
	if err != nil {
		s.log.Warnw("Snapshot fetch failed, publishing empty snapshot", "source", s.loader.Source(), "error", err)
		snap := &Snapshot{
			ID:       uuid.NewString(),
			LoadedAt: time.Now().UTC(),
			Source:   s.loader.Source(),
		}
		s.current.Store(snap)
		return snap, err
	}

	normalized, err := pipeline.Normalize(rows)
	if err != nil {
		s.log.Warnw("Snapshot normalization failed", "source", s.loader.Source(), "error", err)
		snap := &Snapshot{
			ID:       uuid.NewString(),
			LoadedAt: time.Now().UTC(),
			Source:   s.loader.Source(),
			RawRows:  len(rows),
			Warning:  err.Error(),
		}
		s.current.Store(snap)
		return snap, err
	}

	snap := &Snapshot{
		ID:       uuid.NewString(),
		Records:  normalized.Records,
		LoadedAt: time.Now().UTC(),
		Source:   s.loader.Source(),
		RawRows:  len(rows),
		Dropped:  normalized.Dropped,
	}
	snap.Locations, snap.Types, snap.Packages = distinctValues(normalized.Records)

	s.current.Store(snap)
	s.log.Infow("Snapshot published", "id", snap.ID, "records", len(snap.Records), "dropped", snap.Dropped, "source", snap.Source)
	return snap, nil
}

// distinctValues собирает отсортированные уникальные значения для
// выпадающих фильтров UI
func distinctValues(records []domain.SubscriptionRecord) (locations, types, packages []string) {
	locSet := make(map[string]bool)
	typeSet := make(map[string]bool)
	pkgSet := make(map[string]bool)
	for _, rec := range records {
		if rec.Location != "" {
			locSet[rec.Location] = true
		}
		typeSet[string(rec.SubscriptionType)] = true
		if rec.PackageName != "" {
			pkgSet[rec.PackageName] = true
		}
	}
	return sortedKeys(locSet), sortedKeys(typeSet), sortedKeys(pkgSet)
}

// sortedKeys ключи множества по возрастанию
func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
