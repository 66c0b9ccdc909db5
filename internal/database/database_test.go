package database

import (
	"context"
	"testing"

	"github.com/faturaflow/faturaflow-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_SQLiteMigrateAndSeed(t *testing.T) {
	db, err := Connect("sqlite://file:seedtest?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, Migrate(db))

	ctx := context.Background()
	require.NoError(t, Seed(ctx, db))
	// Seeding twice must not duplicate rows
	require.NoError(t, Seed(ctx, db))

	var departments int64
	require.NoError(t, db.Model(&models.Department{}).Count(&departments).Error)
	assert.Equal(t, int64(len(models.DefaultDepartments)), departments)

	var reasons []models.RejectReason
	require.NoError(t, db.Order("id").Find(&reasons).Error)
	require.Len(t, reasons, len(models.DefaultRejectReasons))
	assert.Equal(t, "Incorrect Amount", reasons[0].Description)
}
