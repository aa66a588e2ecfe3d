package models

import (
	"testing"
	"time"

	"standup/src/types"

	"github.com/stretchr/testify/assert"
)

func TestInviteAccept(t *testing.T) {
	t.Run("Should accept a pending invite for the invited email", func(t *testing.T) {
		invite := Invite{Email: "dev@example.com", Status: types.INVITE_PENDING}
		err := invite.Accept("dev@example.com", false)
		assert.Nil(t, err)
		assert.Equal(t, types.INVITE_ACCEPTED, invite.Status)
	})

	t.Run("Should reject an invite that was already accepted", func(t *testing.T) {
		invite := Invite{Email: "dev@example.com", Status: types.INVITE_ACCEPTED}
		err := invite.Accept("dev@example.com", false)
		assert.ErrorIs(t, err, ErrInviteNotPending)
	})

	t.Run("Should reject a caller with a different email", func(t *testing.T) {
		invite := Invite{Email: "dev@example.com", Status: types.INVITE_PENDING}
		err := invite.Accept("other@example.com", false)
		assert.ErrorIs(t, err, ErrInviteNotYours)
		assert.Equal(t, types.INVITE_PENDING, invite.Status)
	})

	t.Run("Should reject a caller already on the team", func(t *testing.T) {
		invite := Invite{Email: "dev@example.com", Status: types.INVITE_PENDING}
		err := invite.Accept("dev@example.com", true)
		assert.ErrorIs(t, err, ErrAlreadyMember)
	})
}

func TestAssignmentAdvance(t *testing.T) {
	now := time.Date(2026, 8, 29, 9, 30, 0, 0, time.UTC)

	t.Run("Should move pending to acknowledged and stamp the time", func(t *testing.T) {
		a := ReminderAssignment{Status: types.ASSIGNMENT_PENDING}
		err := a.Advance(types.ASSIGNMENT_ACKNOWLEDGED, now)
		assert.Nil(t, err)
		assert.Equal(t, types.ASSIGNMENT_ACKNOWLEDGED, a.Status)
		assert.NotNil(t, a.AcknowledgedAt)
		assert.Equal(t, now, *a.AcknowledgedAt)
		assert.Nil(t, a.CompletedAt)
	})

	t.Run("Should allow skipping straight to completed", func(t *testing.T) {
		a := ReminderAssignment{Status: types.ASSIGNMENT_PENDING}
		err := a.Advance(types.ASSIGNMENT_COMPLETED, now)
		assert.Nil(t, err)
		assert.Equal(t, types.ASSIGNMENT_COMPLETED, a.Status)
		assert.Nil(t, a.AcknowledgedAt)
		assert.NotNil(t, a.CompletedAt)
	})

	t.Run("Should reject moving backwards", func(t *testing.T) {
		a := ReminderAssignment{Status: types.ASSIGNMENT_COMPLETED}
		err := a.Advance(types.ASSIGNMENT_ACKNOWLEDGED, now)
		assert.ErrorIs(t, err, ErrStatusNotForward)
	})

	t.Run("Should reject repeating the same status", func(t *testing.T) {
		a := ReminderAssignment{Status: types.ASSIGNMENT_ACKNOWLEDGED}
		err := a.Advance(types.ASSIGNMENT_ACKNOWLEDGED, now)
		assert.ErrorIs(t, err, ErrStatusNotForward)
	})

	t.Run("Should not overwrite an existing timestamp", func(t *testing.T) {
		earlier := now.Add(-time.Hour)
		a := ReminderAssignment{Status: types.ASSIGNMENT_ACKNOWLEDGED, AcknowledgedAt: &earlier}
		err := a.Advance(types.ASSIGNMENT_COMPLETED, now)
		assert.Nil(t, err)
		assert.Equal(t, earlier, *a.AcknowledgedAt)
		assert.Equal(t, now, *a.CompletedAt)
	})

	t.Run("Should reject an unknown status", func(t *testing.T) {
		a := ReminderAssignment{Status: types.ASSIGNMENT_PENDING}
		err := a.Advance(types.AssignmentStatus("archived"), now)
		assert.NotNil(t, err)
	})
}

func TestReminderDueAt(t *testing.T) {
	t.Run("Should resolve date and time in the given location", func(t *testing.T) {
		r := Reminder{DueDate: "2026-09-01", DueTime: "14:30"}
		due, err := r.DueAt(time.UTC)
		assert.Nil(t, err)
		assert.Equal(t, time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC), due)
	})

	t.Run("Should reject a malformed date", func(t *testing.T) {
		r := Reminder{DueDate: "01/09/2026", DueTime: "14:30"}
		_, err := r.DueAt(time.UTC)
		assert.NotNil(t, err)
	})
}
