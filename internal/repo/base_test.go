package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type widget struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, conn.AutoMigrate(&widget{}))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

func TestNewBaseStoresConnection(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)

	require.Same(t, db, base.db)
}

func TestBaseDB_BindsContext(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	withCtx := base.DB(ctx)
	require.NotNil(t, withCtx)
	require.NotNil(t, withCtx.Statement)
	require.Equal(t, ctx, withCtx.Statement.Context)

	require.Same(t, db, base.DB(nil))
}

func TestBaseExists(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)
	ctx := context.Background()

	found, err := base.Exists(ctx, &widget{}, "name = ?", "bolt")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, db.Create(&widget{Name: "bolt"}).Error)

	found, err = base.Exists(ctx, &widget{}, "name = ?", "bolt")
	require.NoError(t, err)
	require.True(t, found)
}

func TestBaseLockingQueriesStillRead(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)
	ctx := context.Background()
	require.NoError(t, db.Create(&widget{Name: "nut"}).Error)

	var locked widget
	require.NoError(t, base.ForUpdate(ctx).First(&locked, "name = ?", "nut").Error)
	require.Equal(t, "nut", locked.Name)

	var shared widget
	require.NoError(t, base.ForShare(ctx).First(&shared, locked.ID).Error)
	require.Equal(t, locked.ID, shared.ID)
}

func TestBaseQueryLockModes(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)
	ctx := context.Background()
	require.NoError(t, db.Create(&widget{Name: "washer"}).Error)

	for _, mode := range []LockMode{NoLock, ShareLock, UpdateLock} {
		var row widget
		require.NoError(t, base.Query(ctx, mode).First(&row, "name = ?", "washer").Error)
		require.Equal(t, "washer", row.Name)
	}
}
