package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/and161185/assetdesk/internal/limiter"
	"github.com/and161185/assetdesk/internal/model"
	"github.com/and161185/assetdesk/internal/repository/memory"
	"github.com/and161185/assetdesk/internal/service"
)

func TestSeed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := memory.New()
	auth := service.NewAuthService(db, []byte("k"), time.Minute, limiter.NewMemory(time.Minute, 5, time.Minute))
	inv := service.NewInventoryService(db, db, db, db)

	require.NoError(t, seedAdmin(ctx, auth, "admin@example.com", "secret1"))
	require.NoError(t, seedAdmin(ctx, auth, "admin@example.com", "secret1"), "seeding twice is a no-op")
	require.NoError(t, seedDemo(ctx, auth, inv))

	users, err := auth.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1+len(demoUsers))

	assets, err := inv.ListAssets(ctx, model.AssetFilters{})
	require.NoError(t, err)
	require.Len(t, assets, 3)
	require.Equal(t, model.AssetAssigned, assets[0].Status)
	require.NotNil(t, assets[0].AssetTag)

	m, err := inv.InventoryMetrics(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, m.ActiveAssignments)
	require.Equal(t, 2, m.PendingMaintenances)
}
