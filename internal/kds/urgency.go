package kds

import (
	"sort"
	"time"
)

// Urgency is the wait-time tier of a ticket.
type Urgency string

const (
	UrgencyNormal  Urgency = "normal"
	UrgencyWarning Urgency = "warning"
	UrgencyUrgent  Urgency = "urgent"
)

// urgencyPolicy classifies tickets by elapsed wait and orders the display
// columns. Thresholds come from configuration; the defaults are 5 and 10
// minutes.
type urgencyPolicy struct {
	warningAfter time.Duration
	urgentAfter  time.Duration
}

func (p urgencyPolicy) level(createdAt, now time.Time) Urgency {
	elapsed := now.Sub(createdAt)
	switch {
	case elapsed >= p.urgentAfter:
		return UrgencyUrgent
	case elapsed >= p.warningAfter:
		return UrgencyWarning
	default:
		return UrgencyNormal
	}
}

func urgencyRank(u Urgency) int {
	switch u {
	case UrgencyUrgent:
		return 2
	case UrgencyWarning:
		return 1
	default:
		return 0
	}
}

// sortPending orders the NEW column: urgency tier descending, then oldest
// first within a tier.
func sortPending(views []OrderView) {
	sort.SliceStable(views, func(i, j int) bool {
		ri, rj := urgencyRank(views[i].Urgency), urgencyRank(views[j].Urgency)
		if ri != rj {
			return ri > rj
		}
		return views[i].CreatedAt.Before(views[j].CreatedAt)
	})
}

// sortFIFO orders a column oldest first.
func sortFIFO(views []OrderView) {
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].CreatedAt.Before(views[j].CreatedAt)
	})
}

// sortReady orders the READY column FIFO, except tickets still inside their
// staging window stay pinned to the top to draw attention.
func sortReady(views []OrderView) {
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].Staged != views[j].Staged {
			return views[i].Staged
		}
		return views[i].CreatedAt.Before(views[j].CreatedAt)
	})
}

// assignPriorities numbers the urgent tickets of a column 1..N by creation
// order. Tickets below the urgent tier get no number. The numbering is
// relative to the given, already station-filtered set; switching stations
// renumbers.
func assignPriorities(views []OrderView) {
	idx := make([]int, 0, len(views))
	for i := range views {
		if views[i].Urgency == UrgencyUrgent {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return views[idx[a]].CreatedAt.Before(views[idx[b]].CreatedAt)
	})
	for n, i := range idx {
		views[i].Priority = n + 1
	}
}
