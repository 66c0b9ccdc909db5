package repository

import (
	"context"
	"testing"

	"github.com/faturaflow/faturaflow-api/internal/models"
	"github.com/faturaflow/faturaflow-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepository_ReadFlow(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &models.Notification{UserID: f.Operator.ID, Type: models.NotificationInfo, Message: "m"}))
	}
	other := &models.Notification{UserID: f.Leader.ID, Type: models.NotificationInfo, Message: "x"}
	require.NoError(t, repo.Create(ctx, other))

	latest, err := repo.FindLatestByUser(ctx, f.Operator.ID, 2)
	require.NoError(t, err)
	assert.Len(t, latest, 2)

	unread, err := repo.CountUnread(ctx, f.Operator.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), unread)

	require.NoError(t, repo.MarkAsRead(ctx, f.Operator.ID, latest[0].ID))
	// Someone else's notification is invisible
	assert.True(t, IsNotFound(repo.MarkAsRead(ctx, f.Operator.ID, other.ID)))

	n, err := repo.MarkAllAsRead(ctx, f.Operator.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	unread, err = repo.CountUnread(ctx, f.Operator.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)

	leaderUnread, err := repo.CountUnread(ctx, f.Leader.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), leaderUnread)
}

func TestRejectReasonRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRejectReasonRepository(db)
	ctx := context.Background()

	reason := &models.RejectReason{Description: "Wrong Currency"}
	require.NoError(t, repo.Create(ctx, reason))
	assert.ErrorIs(t, repo.Create(ctx, &models.RejectReason{Description: "Wrong Currency"}), ErrDuplicate)

	reasons, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, reasons, 1)

	require.NoError(t, repo.Delete(ctx, reason.ID))
	assert.True(t, IsNotFound(repo.Delete(ctx, reason.ID)))
}

func TestUserRepository_FindByProjectAndRoles(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	repo := NewUserRepository(db)

	users, err := repo.FindByProjectAndRoles(context.Background(), f.Project.ID, models.RoleOperasyon, models.RoleOpLeader)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, f.Operator.ID, users[0].ID)
	assert.Equal(t, f.Leader.ID, users[1].ID)
}

func TestUserRepository_UpsertAndList(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &models.User{Name: "Ali", Email: "Ali@Example.com", Role: models.RoleMuhasebe}
	require.NoError(t, repo.Upsert(ctx, u))
	require.NotZero(t, u.ID)

	again := &models.User{Name: "Ali Veli", Email: "ali@example.com", Role: models.RoleAdmin}
	require.NoError(t, repo.Upsert(ctx, again))
	assert.Equal(t, u.ID, again.ID)

	found, err := repo.FindByEmail(ctx, "ALI@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, found.Role)

	users, err := repo.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
