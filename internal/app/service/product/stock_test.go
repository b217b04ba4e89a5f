package product

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB, PreferSimpleProtocol: true}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return NewService(gdb, zap.NewNop().Sugar(), nil), mock
}

func TestAdjustStock_ClampsAtZeroInSQL(t *testing.T) {
	svc, mock := newMockService(t)

	// The clamp lives in the statement itself, so a return larger than the
	// remaining stock can never drive the count negative.
	mock.ExpectExec(`UPDATE "product" SET "stock"=GREATEST\(stock \+ \$1, 0\) WHERE id = \$2`).
		WithArgs(int64(-100), "prod-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.AdjustStock(context.Background(), "prod-1", -100))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustStock_PositiveDeltaUsesSameClamp(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectExec(`UPDATE "product" SET "stock"=GREATEST\(stock \+ \$1, 0\) WHERE id = \$2`).
		WithArgs(int64(3), "prod-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.AdjustStock(context.Background(), "prod-1", 3))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustStock_UnknownProductIsNotFound(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectExec(`UPDATE "product" SET "stock"=GREATEST\(stock \+ \$1, 0\) WHERE id = \$2`).
		WithArgs(int64(1), "prod-missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := svc.AdjustStock(context.Background(), "prod-missing", 1)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
