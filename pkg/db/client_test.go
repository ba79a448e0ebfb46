package db

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/dulcismaison/dulcis-backend/pkg/errors"
)

type testModel struct {
	ID   uint
	Name string `gorm:"uniqueIndex"`
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:db_"+uuid.NewString()+"?mode=memory&cache=shared"), gormConfig())
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&testModel{}))
	return conn
}

func TestWithTx_CommitsAndRollbacks(t *testing.T) {
	db := newTestDB(t)
	client := NewFromConn(db)

	ctx := context.Background()
	require.NoError(t, client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&testModel{Name: "committed"}).Error
	}))

	var count int64
	require.NoError(t, db.Model(&testModel{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&testModel{Name: "rolled"}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	require.EqualError(t, err, "boom")

	require.NoError(t, db.Model(&testModel{}).Count(&count).Error)
	require.EqualValues(t, 1, count, "rollback should leave a single record")
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	db := newTestDB(t)
	client := NewFromConn(db)

	require.Panics(t, func() {
		_ = client.WithTx(context.Background(), func(tx *gorm.DB) error {
			if err := tx.Create(&testModel{Name: "panic"}).Error; err != nil {
				return err
			}
			panic("kaboom")
		})
	})

	var count int64
	require.NoError(t, db.Model(&testModel{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestPing(t *testing.T) {
	client := NewFromConn(newTestDB(t))
	require.NoError(t, client.Ping(context.Background()))
}

func TestClassify_SQLiteUniqueViolation(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&testModel{Name: "dup"}).Error)

	err := db.Create(&testModel{Name: "dup"}).Error
	require.Error(t, err)
	require.True(t, IsUniqueViolation(err, ""))

	classified := Classify(err, "create test model")
	require.True(t, pkgerrors.Is(classified, pkgerrors.CodeConflict))
}

func TestClassify_RecordNotFound(t *testing.T) {
	db := newTestDB(t)
	var row testModel
	err := db.First(&row, 999).Error

	classified := Classify(err, "load test model")
	require.True(t, pkgerrors.Is(classified, pkgerrors.CodeNotFound))
	require.ErrorIs(t, classified, gorm.ErrRecordNotFound)
}

func TestClassify_ClosedConnectionIsUnavailable(t *testing.T) {
	db := newTestDB(t)
	client := NewFromConn(db)
	require.NoError(t, client.Close())

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error { return nil })
	require.Error(t, err)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeUnavailable))
	require.True(t, pkgerrors.MetadataFor(pkgerrors.CodeOf(err)).Retryable)
}

func TestClassify_PassesTypedErrorsThrough(t *testing.T) {
	typed := pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough flour")
	require.Same(t, typed, Classify(typed, "consume").(*pkgerrors.Error))
	require.Nil(t, Classify(nil, "noop"))
}
