package calendar

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/Dan9191/spend-calendar/internal/models"
)

const (
	fixedOtherDay  = 5
	maxClusterDays = 4
	pcgStreamSalt  = 0x9e3779b97f4a7c15
)

// SelectDays returns the zero-based day indexes of the month that receive a
// share of the category's amount. The result is sorted and depends only on
// its arguments.
func SelectDays(category string, policy models.BehaviorPolicy, year int, month time.Month) []int {
	n := models.DaysIn(year, month)
	switch policy {
	case models.PolicyFixed:
		return []int{fixedDay(category, n)}
	case models.PolicyClustered:
		return clusteredDays(category, year, month)
	default:
		return spreadDays(year, month)
	}
}

func fixedDay(category string, daysInMonth int) int {
	if IsAnchor(category) {
		return 0
	}
	if daysInMonth < fixedOtherDay {
		return daysInMonth - 1
	}
	return fixedOtherDay - 1
}

// spreadDays keeps every other weekday of the month
func spreadDays(year int, month time.Month) []int {
	weekdays, _ := splitWeek(year, month)
	selected := make([]int, 0, len(weekdays)/2+1)
	for i, day := range weekdays {
		if i%2 == 0 {
			selected = append(selected, day)
		}
	}
	if len(selected) == 0 {
		return allDays(models.DaysIn(year, month))
	}
	return selected
}

// clusteredDays picks up to four days, preferring weekends
func clusteredDays(category string, year int, month time.Month) []int {
	weekdays, weekends := splitWeek(year, month)
	picked := pickCluster(newRand(category, year, month), weekdays, weekends)
	if len(picked) == 0 {
		return allDays(models.DaysIn(year, month))
	}
	return picked
}

// pickCluster tops the weekend pool up with shuffled weekdays when it holds
// fewer than maxClusterDays entries, then keeps up to maxClusterDays of it.
func pickCluster(rng *rand.PCG, weekdays, weekends []int) []int {
	pool := append([]int(nil), weekends...)
	if len(pool) < maxClusterDays {
		extra := append([]int(nil), weekdays...)
		shuffle(rng, extra)
		for _, day := range extra {
			if len(pool) >= maxClusterDays {
				break
			}
			pool = append(pool, day)
		}
	}

	shuffle(rng, pool)
	if len(pool) > maxClusterDays {
		pool = pool[:maxClusterDays]
	}
	sort.Ints(pool)
	return pool
}

func splitWeek(year int, month time.Month) (weekdays, weekends []int) {
	start := models.MonthStart(year, month)
	for i := 0; i < models.DaysIn(year, month); i++ {
		switch start.AddDate(0, 0, i).Weekday() {
		case time.Saturday, time.Sunday:
			weekends = append(weekends, i)
		default:
			weekdays = append(weekdays, i)
		}
	}
	return weekdays, weekends
}

func allDays(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// newRand seeds a PCG generator from (category, year, month) so that the same
// inputs always produce the same selection.
func newRand(category string, year int, month time.Month) *rand.PCG {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%04d|%02d", normalize(category), year, int(month))
	seed := h.Sum64()
	return rand.NewPCG(seed, seed^pcgStreamSalt)
}

// shuffle is a Fisher-Yates shuffle driven only by PCG output, which keeps the
// order stable across Go releases.
func shuffle(rng *rand.PCG, s []int) {
	for i := len(s) - 1; i > 0; i-- {
		j := int(rng.Uint64() % uint64(i+1))
		s[i], s[j] = s[j], s[i]
	}
}
