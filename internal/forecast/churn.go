package forecast

import (
	"math"
	"sort"
	"time"

	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/domain"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/pipeline"
)

// tenureBands верхние границы полос стажа подписки в днях
var tenureBands = []struct {
	name string
	to   float64
}{
	{"0-30", 30},
	{"31-90", 90},
	{"91-365", 365},
	{"365+", math.MaxFloat64},
}

// RiskSegment доля оттока внутри одного сегмента
type RiskSegment struct {
	Segment string  `json:"segment"`
	Users   int     `json:"users"`
	Churned int     `json:"churned"`
	Rate    float64 `json:"rate"`
}

// ChurnProfile профиль риска оттока: доля уже отменивших в разрезе стажа,
// локации и пакета. Пользователь дедуплицируется до последней записи.
type ChurnProfile struct {
	Users      int           `json:"users"`
	Churned    int           `json:"churned"`
	Rate       float64       `json:"rate"`
	ByTenure   []RiskSegment `json:"by_tenure"`
	ByLocation []RiskSegment `json:"by_location"`
	ByPackage  []RiskSegment `json:"by_package"`
}

// Churn строит профиль риска оттока по записям снапшота
func Churn(records []domain.SubscriptionRecord, now time.Time) ChurnProfile {
	deduped := pipeline.LatestPerUser(pipeline.WithInitialStart(records), pipeline.ByEventDate)

	profile := ChurnProfile{}
	tenure := make(map[string]*RiskSegment)
	location := make(map[string]*RiskSegment)
	pkg := make(map[string]*RiskSegment)

	for _, rec := range deduped {
		days, active := rec.DurationDays(now)
		churned := !active

		profile.Users++
		if churned {
			profile.Churned++
		}
		bump(tenure, bandOf(days), churned)
		bump(location, orUnknown(rec.Location), churned)
		bump(pkg, orUnknown(rec.PackageName), churned)
	}

	profile.Rate = pipeline.Rate(float64(profile.Churned), float64(profile.Users))
	profile.ByTenure = orderedByBand(tenure)
	profile.ByLocation = orderedByRate(location)
	profile.ByPackage = orderedByRate(pkg)
	return profile
}

func bandOf(days float64) string {
	for _, b := range tenureBands {
		if days <= b.to {
			return b.name
		}
	}
	return tenureBands[len(tenureBands)-1].name
}

func orUnknown(v string) string {
	if v == "" {
		return "Unknown"
	}
	return v
}

func bump(m map[string]*RiskSegment, key string, churned bool) {
	seg := m[key]
	if seg == nil {
		seg = &RiskSegment{Segment: key}
		m[key] = seg
	}
	seg.Users++
	if churned {
		seg.Churned++
	}
}

// orderedByBand сохраняет естественный порядок полос стажа
func orderedByBand(m map[string]*RiskSegment) []RiskSegment {
	out := make([]RiskSegment, 0, len(m))
	for _, b := range tenureBands {
		if seg, ok := m[b.name]; ok {
			seg.Rate = pipeline.Rate(float64(seg.Churned), float64(seg.Users))
			out = append(out, *seg)
		}
	}
	return out
}

// orderedByRate сортирует сегменты по убыванию доли оттока
func orderedByRate(m map[string]*RiskSegment) []RiskSegment {
	out := make([]RiskSegment, 0, len(m))
	for _, seg := range m {
		seg.Rate = pipeline.Rate(float64(seg.Churned), float64(seg.Users))
		out = append(out, *seg)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rate != out[j].Rate {
			return out[i].Rate > out[j].Rate
		}
		return out[i].Segment < out[j].Segment
	})
	return out
}
