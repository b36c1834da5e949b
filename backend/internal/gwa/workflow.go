package gwa

import "honors_gwa/backend/internal/shared"

// transitions is the honor application state machine. Rejection is possible
// from any non-final review state.
var transitions = map[shared.ApplicationStatus][]shared.ApplicationStatus{
	shared.StatusNone:        {shared.StatusSubmitted},
	shared.StatusSubmitted:   {shared.StatusUnderReview, shared.StatusRejected},
	shared.StatusUnderReview: {shared.StatusApproved, shared.StatusRejected},
	shared.StatusApproved:    {shared.StatusFinalApproved, shared.StatusRejected},
}

// CanTransition reports whether an application may move from one status to another.
func CanTransition(from, to shared.ApplicationStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
