package models

import (
	"errors"
	"fmt"
	"time"

	"standup/src/types"
)

var (
	ErrInviteNotPending = errors.New("invite is no longer valid")
	ErrInviteNotYours   = errors.New("this invite is not for you")
	ErrAlreadyMember    = errors.New("user is already a member of this team")

	ErrNotAssigned      = errors.New("user is not assigned to this reminder")
	ErrStatusNotForward = errors.New("assignment status can only move forward")
	ErrReminderInactive = errors.New("reminder is no longer active")
)

// Accept validates the pending→accepted transition for the caller identified
// by email. alreadyMember is the caller's membership in the invite's team at
// the time of the call; the database write happens in the handler transaction.
func (i *Invite) Accept(email string, alreadyMember bool) error {
	if i.Status != types.INVITE_PENDING {
		return ErrInviteNotPending
	}
	if i.Email != email {
		return ErrInviteNotYours
	}
	if alreadyMember {
		return ErrAlreadyMember
	}
	i.Status = types.INVITE_ACCEPTED
	return nil
}

func rank(s types.AssignmentStatus) int {
	switch s {
	case types.ASSIGNMENT_PENDING:
		return 0
	case types.ASSIGNMENT_ACKNOWLEDGED:
		return 1
	case types.ASSIGNMENT_COMPLETED:
		return 2
	}
	return -1
}

// Advance moves the assignment to status, stamping the matching timestamp.
// Transitions are forward-only; skipping pending→completed is allowed, in
// which case only CompletedAt is stamped. Timestamps already set are never
// overwritten.
func (a *ReminderAssignment) Advance(status types.AssignmentStatus, now time.Time) error {
	next := rank(status)
	if next < 0 {
		return fmt.Errorf("invalid assignment status: %s", status)
	}
	if next <= rank(a.Status) {
		return ErrStatusNotForward
	}
	a.Status = status
	switch status {
	case types.ASSIGNMENT_ACKNOWLEDGED:
		if a.AcknowledgedAt == nil {
			a.AcknowledgedAt = &now
		}
	case types.ASSIGNMENT_COMPLETED:
		if a.CompletedAt == nil {
			a.CompletedAt = &now
		}
	}
	return nil
}
