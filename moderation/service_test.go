package moderation

import (
	"testing"
	"time"

	"sentinel-bot/model"
	moderations_db "sentinel-bot/utils/database/moderations"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlatform struct {
	connected bool
	selfID    string
	selfName  string

	bans    []*discordgo.GuildBan
	bansErr error

	unbanErr error
	unbanned []string

	members   map[string]*discordgo.Member
	memberErr error

	grantErr error
	granted  []string

	revokeErr error
	revoked   []string

	auditEntries []*discordgo.AuditLogEntry
	auditErr     error

	users map[string]*discordgo.User
}

func (f *fakePlatform) IsConnected() bool       { return f.connected }
func (f *fakePlatform) CurrentUserID() string   { return f.selfID }
func (f *fakePlatform) CurrentUserName() string { return f.selfName }

func (f *fakePlatform) User(userID string) (*discordgo.User, error) {
	if u, ok := f.users[userID]; ok {
		return u, nil
	}
	return nil, assert.AnError
}

func (f *fakePlatform) Bans(guildID string) ([]*discordgo.GuildBan, error) {
	return f.bans, f.bansErr
}

func (f *fakePlatform) Unban(guildID, userID string) error {
	if f.unbanErr != nil {
		return f.unbanErr
	}
	f.unbanned = append(f.unbanned, userID)
	return nil
}

func (f *fakePlatform) Member(guildID, userID string) (*discordgo.Member, error) {
	if f.memberErr != nil {
		return nil, f.memberErr
	}
	if m, ok := f.members[userID]; ok {
		return m, nil
	}
	return nil, assert.AnError
}

func (f *fakePlatform) GrantRole(guildID, userID, roleID string) error {
	if f.grantErr != nil {
		return f.grantErr
	}
	f.granted = append(f.granted, userID+":"+roleID)
	return nil
}

func (f *fakePlatform) RevokeRole(guildID, userID, roleID string) error {
	if f.revokeErr != nil {
		return f.revokeErr
	}
	f.revoked = append(f.revoked, userID+":"+roleID)
	return nil
}

func (f *fakePlatform) AuditLog(guildID string, actionType, limit int) ([]*discordgo.AuditLogEntry, error) {
	return f.auditEntries, f.auditErr
}

type stubConfig struct {
	cfg model.ModerationConfig
}

func (s *stubConfig) ModerationConfig() model.ModerationConfig { return s.cfg }

func newTestPlatform() *fakePlatform {
	return &fakePlatform{
		connected: true,
		selfID:    "1000",
		selfName:  "Sentinel",
		members:   map[string]*discordgo.Member{},
		users:     map[string]*discordgo.User{},
	}
}

func newTestConfig() *stubConfig {
	return &stubConfig{cfg: model.ModerationConfig{
		MainGuildID: "guild-1",
		MutedRoleID: "role-muted",
	}}
}

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := moderations_db.Init(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestService(t *testing.T) (*ModerationsService, *InfractionService, *fakePlatform, *sqlx.DB) {
	t.Helper()
	db := openTestDB(t)
	platform := newTestPlatform()
	infractions := NewInfractionService(db, nil)
	svc := NewModerationsService(db, platform, newTestConfig(), infractions)
	return svc, infractions, platform, db
}

func addSanction(t *testing.T, svc *ModerationsService, infractions *InfractionService, infType model.InfractionType, userID string, endTime time.Time) *model.Infraction {
	t.Helper()
	inf, result := infractions.Add(infType, userID, "staff-1", "test sanction", "target", "Staff")
	require.True(t, result.Successful, result.Message)
	result = svc.AddModeration(inf, endTime)
	require.True(t, result.Successful, result.Message)
	return inf
}

func infractionsOfType(t *testing.T, infractions *InfractionService, userID string, infType model.InfractionType) []model.Infraction {
	t.Helper()
	records, result := infractions.GetForUser(userID)
	require.True(t, result.Successful, result.Message)
	var matched []model.Infraction
	for _, r := range records {
		if r.Type == infType {
			matched = append(matched, r)
		}
	}
	return matched
}

func remainingModerations(t *testing.T, svc *ModerationsService) []model.OngoingModeration {
	t.Helper()
	records, result := svc.GetModerations()
	require.True(t, result.Successful, result.Message)
	return records
}

func TestTickSkipsWhileDisconnected(t *testing.T) {
	svc, infractions, platform, _ := newTestService(t)
	platform.connected = false
	platform.bans = []*discordgo.GuildBan{{User: &discordgo.User{ID: "user-1", Username: "target"}}}
	addSanction(t, svc, infractions, model.InfractionBan, "user-1", time.Now().Add(-time.Minute))

	svc.Tick()

	assert.Empty(t, platform.unbanned)
	assert.Len(t, remainingModerations(t, svc), 1)
	assert.Empty(t, infractionsOfType(t, infractions, "user-1", model.InfractionUnban))
}

func TestTickReversesDueBan(t *testing.T) {
	svc, infractions, platform, _ := newTestService(t)
	platform.bans = []*discordgo.GuildBan{{User: &discordgo.User{ID: "user-1", Username: "target"}}}
	addSanction(t, svc, infractions, model.InfractionBan, "user-1", time.Now().Add(-time.Minute))

	svc.Tick()

	assert.Equal(t, []string{"user-1"}, platform.unbanned)
	assert.Empty(t, remainingModerations(t, svc))

	reversals := infractionsOfType(t, infractions, "user-1", model.InfractionUnban)
	require.Len(t, reversals, 1)
	assert.Equal(t, "1000", reversals[0].StaffID)
	assert.Equal(t, "Sentinel", reversals[0].StaffName)
	assert.Equal(t, "Automatic", reversals[0].Reason)
}

func TestTickAlreadyUnbannedStillLogsReversal(t *testing.T) {
	svc, infractions, platform, _ := newTestService(t)
	addSanction(t, svc, infractions, model.InfractionBan, "user-1", time.Now().Add(-time.Minute))

	svc.Tick()

	assert.Empty(t, platform.unbanned)
	assert.Empty(t, remainingModerations(t, svc))
	assert.Len(t, infractionsOfType(t, infractions, "user-1", model.InfractionUnban), 1)
}

func TestTickReversesOnlyDueRecords(t *testing.T) {
	svc, infractions, platform, _ := newTestService(t)
	platform.members["user-1"] = &discordgo.Member{
		User:  &discordgo.User{ID: "user-1", Username: "first"},
		Roles: []string{"role-muted"},
	}
	platform.members["user-2"] = &discordgo.Member{
		User:  &discordgo.User{ID: "user-2", Username: "second"},
		Roles: []string{"role-muted"},
	}
	addSanction(t, svc, infractions, model.InfractionMute, "user-1", time.Now().Add(-time.Hour))
	addSanction(t, svc, infractions, model.InfractionMute, "user-2", time.Now().Add(-time.Minute))
	addSanction(t, svc, infractions, model.InfractionBan, "user-3", time.Now().Add(time.Hour))

	svc.Tick()

	assert.ElementsMatch(t, []string{"user-1:role-muted", "user-2:role-muted"}, platform.revoked)
	assert.Len(t, infractionsOfType(t, infractions, "user-1", model.InfractionUnmute), 1)
	assert.Len(t, infractionsOfType(t, infractions, "user-2", model.InfractionUnmute), 1)

	remaining := remainingModerations(t, svc)
	require.Len(t, remaining, 1)
	assert.Equal(t, "user-3", remaining[0].UserID)
	assert.Equal(t, model.InfractionBan, remaining[0].Type)
}

func TestTickRetainsFailedUnban(t *testing.T) {
	svc, infractions, platform, _ := newTestService(t)
	platform.bans = []*discordgo.GuildBan{{User: &discordgo.User{ID: "user-1", Username: "target"}}}
	platform.unbanErr = assert.AnError
	addSanction(t, svc, infractions, model.InfractionBan, "user-1", time.Now().Add(-time.Minute))

	svc.Tick()

	assert.Len(t, remainingModerations(t, svc), 1)
	assert.Empty(t, infractionsOfType(t, infractions, "user-1", model.InfractionUnban))
}

func TestTickMuteMemberGoneStillLogsReversal(t *testing.T) {
	svc, infractions, platform, _ := newTestService(t)
	platform.memberErr = assert.AnError
	addSanction(t, svc, infractions, model.InfractionMute, "user-1", time.Now().Add(-time.Minute))

	svc.Tick()

	assert.Empty(t, platform.revoked)
	assert.Empty(t, remainingModerations(t, svc))
	assert.Len(t, infractionsOfType(t, infractions, "user-1", model.InfractionUnmute), 1)
}

func TestTickRetainsFailedUnmute(t *testing.T) {
	svc, infractions, platform, _ := newTestService(t)
	platform.members["user-1"] = &discordgo.Member{
		User:  &discordgo.User{ID: "user-1", Username: "target"},
		Roles: []string{"role-muted"},
	}
	platform.revokeErr = assert.AnError
	addSanction(t, svc, infractions, model.InfractionMute, "user-1", time.Now().Add(-time.Minute))

	svc.Tick()

	assert.Len(t, remainingModerations(t, svc), 1)
	assert.Empty(t, infractionsOfType(t, infractions, "user-1", model.InfractionUnmute))
}

func TestTickDropsInvalidModerationType(t *testing.T) {
	svc, infractions, _, db := newTestService(t)
	inf, result := infractions.Add(model.InfractionWarn, "user-1", "staff-1", "test", "target", "Staff")
	require.True(t, result.Successful)
	_, err := moderations_db.AddOngoingModeration(db, model.OngoingModeration{
		UserID:             "user-1",
		EndTime:            time.Now().Add(-time.Minute),
		Type:               model.InfractionWarn,
		LinkedInfractionID: inf.ID,
	})
	require.NoError(t, err)

	svc.Tick()

	assert.Empty(t, remainingModerations(t, svc))
	records, _ := infractions.GetForUser("user-1")
	assert.Len(t, records, 1)
}

func TestAddModerationRejectsNonReversible(t *testing.T) {
	svc, infractions, _, _ := newTestService(t)
	inf, result := infractions.Add(model.InfractionWarn, "user-1", "staff-1", "test", "target", "Staff")
	require.True(t, result.Successful)

	result = svc.AddModeration(inf, time.Now().Add(time.Hour))
	assert.False(t, result.Successful)
	assert.Empty(t, remainingModerations(t, svc))
}

func TestRemoveModerationByCaseNotFound(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	result := svc.RemoveModerationByCase(42)
	assert.False(t, result.Successful)
	assert.Contains(t, result.Message, "#42")
}

func TestRemoveModerationsForUser(t *testing.T) {
	svc, infractions, _, _ := newTestService(t)
	addSanction(t, svc, infractions, model.InfractionMute, "user-1", time.Now().Add(time.Hour))
	addSanction(t, svc, infractions, model.InfractionBan, "user-1", time.Now().Add(time.Hour))

	result := svc.RemoveModerationsForUser("user-1", model.InfractionMute)
	require.True(t, result.Successful, result.Message)

	remaining := remainingModerations(t, svc)
	require.Len(t, remaining, 1)
	assert.Equal(t, model.InfractionBan, remaining[0].Type)
}

func TestHandleMemberJoinRegrantsMute(t *testing.T) {
	svc, infractions, platform, _ := newTestService(t)
	addSanction(t, svc, infractions, model.InfractionMute, "user-1", time.Now().Add(time.Hour))

	svc.HandleMemberJoin("guild-1", "user-1")

	assert.Equal(t, []string{"user-1:role-muted"}, platform.granted)
}

func TestHandleMemberJoinIgnoresOtherGuilds(t *testing.T) {
	svc, infractions, platform, _ := newTestService(t)
	addSanction(t, svc, infractions, model.InfractionMute, "user-1", time.Now().Add(time.Hour))

	svc.HandleMemberJoin("guild-other", "user-1")

	assert.Empty(t, platform.granted)
}

func TestHandleMemberJoinNoOngoingMute(t *testing.T) {
	svc, infractions, platform, _ := newTestService(t)
	addSanction(t, svc, infractions, model.InfractionBan, "user-1", time.Now().Add(time.Hour))

	svc.HandleMemberJoin("guild-1", "user-1")

	assert.Empty(t, platform.granted)
}
