package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/shopswift/storefront/models"
	"github.com/shopswift/storefront/repository"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

var orderColumns = []string{
	"id", "order_number", "session_id", "user_id", "email", "shipping_method",
	"subtotal", "shipping", "tax", "total", "placed_at", "created_at", "updated_at",
}

func TestCreate_WithLines(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	order := &models.OrderRecord{
		OrderNumber:    "ORD-123456",
		SessionID:      "sess-1",
		Email:          "ana@example.com",
		ShippingMethod: "standard",
		Subtotal:       decimal.RequireFromString("50"),
		Shipping:       decimal.RequireFromString("4.99"),
		Tax:            decimal.RequireFromString("10.50"),
		Total:          decimal.RequireFromString("65.49"),
		PlacedAt:       time.Now(),
		Lines: []models.OrderLineRecord{
			{ProductID: "1", Name: "Tee", Quantity: 2, UnitPrice: decimal.RequireFromString("20")},
		},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "order_lines"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), order)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_RollsBackOnError(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "orders"`)).
		WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.OrderRecord{OrderNumber: "ORD-1", PlacedAt: time.Now()})
	assert.Error(t, err)
}

func TestFindByOrderNumber_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders"`)).
		WillReturnRows(sqlmock.NewRows(orderColumns))

	o, err := repo.FindByOrderNumber(context.Background(), "sess-1", "ORD-000000")
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
	assert.Nil(t, o)
}

func TestFindByOrderNumber_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	id := uuid.New()
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders"`)).
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow(id, "ORD-123456", "sess-1", "", "ana@example.com", "express", "50.00", "9.99", "10.50", "70.49", now, now, now))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "order_lines"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "name", "quantity", "unit_price"}).
			AddRow(uuid.New(), id, "1", "Tee", 2, "20.00"))

	o, err := repo.FindByOrderNumber(context.Background(), "sess-1", "ORD-123456")
	require.NoError(t, err)
	assert.Equal(t, "ORD-123456", o.OrderNumber)
	assert.True(t, decimal.RequireFromString("70.49").Equal(o.Total))
	require.Len(t, o.Lines, 1)
	assert.Equal(t, 2, o.Lines[0].Quantity)
}

func TestFindBySession_Empty(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders"`)).
		WillReturnRows(sqlmock.NewRows(orderColumns))

	orders, err := repo.FindBySession(context.Background(), "sess-9", 0)
	assert.NoError(t, err)
	assert.Empty(t, orders)
}

func TestFindBySession_QueryError(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders"`)).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.FindBySession(context.Background(), "sess-9", 5)
	assert.Error(t, err)
}
