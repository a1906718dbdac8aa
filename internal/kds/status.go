package kds

import "expediter/internal/models"

// DeriveStatus reduces an order's per-station statuses to its single overall
// status. Evaluated in precedence order:
//
//  1. every station ready            -> ready
//  2. any station preparing          -> preparing
//  3. every station pending          -> pending
//  4. mixed pending/ready, none preparing -> preparing
//
// Case 4 replaces the retain-previous behavior of earlier display builds: a
// partially served ticket with no station actively working is still mid-flight,
// so it reads as preparing. This keeps the overall status a pure function of
// the station map.
func DeriveStatus(statuses map[string]models.StationStatus) models.StationStatus {
	if len(statuses) == 0 {
		return models.StatusPending
	}

	allReady := true
	allPending := true
	anyPreparing := false
	for _, s := range statuses {
		if s != models.StatusReady {
			allReady = false
		}
		if s != models.StatusPending {
			allPending = false
		}
		if s == models.StatusPreparing {
			anyPreparing = true
		}
	}

	switch {
	case allReady:
		return models.StatusReady
	case anyPreparing:
		return models.StatusPreparing
	case allPending:
		return models.StatusPending
	default:
		return models.StatusPreparing
	}
}

// allStationsReady reports whether every station entry is ready.
func allStationsReady(statuses map[string]models.StationStatus) bool {
	if len(statuses) == 0 {
		return false
	}
	for _, s := range statuses {
		if s != models.StatusReady {
			return false
		}
	}
	return true
}
