package moderation

import (
	"testing"
	"time"

	"sentinel-bot/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInfractions(t *testing.T) *InfractionService {
	t.Helper()
	return NewInfractionService(openTestDB(t), nil)
}

func TestAddSynthesizesPlaceholderReason(t *testing.T) {
	svc := newTestInfractions(t)

	inf, result := svc.Add(model.InfractionWarn, "user-1", "staff-1", "", "target", "Staff")
	require.True(t, result.Successful, result.Message)
	assert.Equal(t, "Responsible moderator please update case #1", inf.Reason)

	inf, result = svc.Add(model.InfractionWarn, "user-1", "staff-1", "   ", "target", "Staff")
	require.True(t, result.Successful, result.Message)
	assert.Equal(t, "Responsible moderator please update case #2", inf.Reason)
}

func TestAddRejectsMissingIdentifiers(t *testing.T) {
	svc := newTestInfractions(t)

	_, result := svc.Add(model.InfractionWarn, "", "staff-1", "reason", "", "Staff")
	assert.False(t, result.Successful)

	_, result = svc.Add(model.InfractionWarn, "user-1", "", "reason", "target", "")
	assert.False(t, result.Successful)
}

func TestAddBackfillsUserName(t *testing.T) {
	svc := newTestInfractions(t)

	_, result := svc.Add(model.InfractionWarn, "user-1", "staff-1", "first", "KnownName", "Staff")
	require.True(t, result.Successful)

	inf, result := svc.Add(model.InfractionBan, "user-1", "staff-1", "second", "", "Staff")
	require.True(t, result.Successful)
	assert.Equal(t, "KnownName", inf.UserName)
}

func TestGetByIDNotFound(t *testing.T) {
	svc := newTestInfractions(t)

	_, result := svc.GetByID(7)
	assert.False(t, result.Successful)
	assert.Equal(t, "Could not find any infraction with id #7.", result.Message)
}

func TestUpdateReasonStampsLastUpdated(t *testing.T) {
	svc := newTestInfractions(t)
	inf, result := svc.Add(model.InfractionWarn, "user-1", "staff-1", "original", "target", "Staff")
	require.True(t, result.Successful)
	assert.False(t, inf.LastUpdatedAt.Valid)

	result = svc.UpdateReason(inf.ID, "corrected")
	require.True(t, result.Successful, result.Message)

	updated, result := svc.GetByID(inf.ID)
	require.True(t, result.Successful)
	assert.Equal(t, "corrected", updated.Reason)
	require.True(t, updated.LastUpdatedAt.Valid)
	assert.WithinDuration(t, time.Now(), updated.LastUpdatedAt.Time, time.Minute)
}

func TestUpdateReasonRejectsEmpty(t *testing.T) {
	svc := newTestInfractions(t)
	inf, _ := svc.Add(model.InfractionWarn, "user-1", "staff-1", "original", "target", "Staff")

	result := svc.UpdateReason(inf.ID, "   ")
	assert.False(t, result.Successful)
	assert.Equal(t, "Please provide a valid reason.", result.Message)
}

func TestUpdateReasonNotFound(t *testing.T) {
	svc := newTestInfractions(t)

	result := svc.UpdateReason(99, "whatever")
	assert.False(t, result.Successful)
	assert.Equal(t, "Could not find any infraction with id #99.", result.Message)
}

func TestRemoveNotFound(t *testing.T) {
	svc := newTestInfractions(t)

	result := svc.Remove(5)
	assert.False(t, result.Successful)
	assert.Equal(t, "Could not find any infraction with id #5.", result.Message)
}

func TestRemoveCascadesOngoingModeration(t *testing.T) {
	db := openTestDB(t)
	infractions := NewInfractionService(db, nil)
	svc := NewModerationsService(db, newTestPlatform(), newTestConfig(), infractions)

	inf, result := infractions.Add(model.InfractionMute, "user-1", "staff-1", "muted", "target", "Staff")
	require.True(t, result.Successful)
	result = svc.AddModeration(inf, time.Now().Add(time.Hour))
	require.True(t, result.Successful)
	require.Len(t, remainingModerations(t, svc), 1)

	result = infractions.Remove(inf.ID)
	require.True(t, result.Successful, result.Message)

	assert.Empty(t, remainingModerations(t, svc))
}
