package reports

import (
	"sort"
	"time"

	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/domain"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/pipeline"
)

// survivalThresholds пороги воронки удержания в днях
var survivalThresholds = []float64{0, 10, 30, 60, 365}

// FunnelStep ступень воронки: доля пользователей, продержавшихся дольше порога
type FunnelStep struct {
	Days  float64 `json:"days"`
	Users int     `json:"users"`
	Share float64 `json:"share"`
}

// CohortRow строка когортной матрицы: винтаж (месяц первой подписки),
// размер когорты и процент удержания по месяцам жизни
type CohortRow struct {
	Vintage   string    `json:"vintage"`
	Size      int       `json:"size"`
	Retention []float64 `json:"retention"`
}

// RetentionReport страница удержания
type RetentionReport struct {
	SnapshotID string                     `json:"snapshot_id"`
	Users      int                        `json:"users"`
	Funnel     []FunnelStep               `json:"funnel"`
	Churned    pipeline.DistributionStats `json:"churned"`
	Cohorts    []CohortRow                `json:"cohorts"`
	MaxMonths  int                        `json:"max_months"`
	Message    string                     `json:"message,omitempty"`
}

// Retention воронка выживаемости, статистика по ушедшим и когортная матрица.
// Пользователь дедуплицируется до последней записи по дате события.
func (s *Service) Retention(req Request) RetentionReport {
	records, snap := s.filtered(req)
	report := RetentionReport{SnapshotID: snap.ID}

	deduped := pipeline.LatestPerUser(pipeline.WithInitialStart(records), pipeline.ByEventDate)
	if len(deduped) == 0 {
		report.Message = emptyMessage(snap)
		return report
	}

	now := s.now()
	var churned []float64
	durations := make([]float64, 0, len(deduped))
	for _, rec := range deduped {
		days, active := rec.DurationDays(now)
		durations = append(durations, days)
		if !active {
			churned = append(churned, days)
		}
	}

	report.Users = len(durations)
	total := float64(len(durations))
	for _, threshold := range survivalThresholds {
		n := 0
		for _, d := range durations {
			if d > threshold {
				n++
			}
		}
		report.Funnel = append(report.Funnel, FunnelStep{
			Days:  threshold,
			Users: n,
			Share: pipeline.Rate(float64(n), total),
		})
	}

	report.Churned = pipeline.Distribution(churned)
	report.Cohorts, report.MaxMonths = cohortMatrix(deduped)
	return report
}

// cohortMatrix строит матрицу удержания: для каждого винтажа — процент
// когорты, еще не отменившей подписку, по числу месяцев с первой подписки.
// Месяцы без отмен наследуют предыдущее значение, начальное значение 100.
// Записи уже дедуплицированы и имеют дату начала подписки.
func cohortMatrix(records []domain.SubscriptionRecord) ([]CohortRow, int) {
	sizes := make(map[string]int)
	cancels := make(map[string]map[int]int)
	maxMOB := 0

	for _, rec := range records {
		vintage := rec.InitialSubsStart.Format("2006-01")
		sizes[vintage]++

		if rec.HasCancellation {
			mob := monthsBetween(rec.InitialSubsStart, rec.CancellationDate)
			if mob < 0 {
				mob = 0
			}
			if cancels[vintage] == nil {
				cancels[vintage] = make(map[int]int)
			}
			cancels[vintage][mob]++
			if mob > maxMOB {
				maxMOB = mob
			}
		}
	}
	if len(sizes) == 0 {
		return nil, 0
	}

	vintages := make([]string, 0, len(sizes))
	for v := range sizes {
		vintages = append(vintages, v)
	}
	sort.Strings(vintages)

	rows := make([]CohortRow, 0, len(vintages))
	for _, vintage := range vintages {
		size := sizes[vintage]
		row := CohortRow{Vintage: vintage, Size: size, Retention: make([]float64, maxMOB+1)}
		cum := 0
		for mob := 0; mob <= maxMOB; mob++ {
			cum += cancels[vintage][mob]
			row.Retention[mob] = 100 - pipeline.Rate(float64(cum), float64(size))
		}
		rows = append(rows, row)
	}
	return rows, maxMOB
}

// monthsBetween количество полных календарных месяцев между месяцами дат
func monthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}
