package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruzaikr/screencloud-takehome/internal/domain"
	"github.com/ruzaikr/screencloud-takehome/pkg/database"
	apperrors "github.com/ruzaikr/screencloud-takehome/pkg/errors"
)

func setupInventoryRepo(t *testing.T) (*InventoryRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return NewInventoryRepository(), mock
}

var inventoryColumns = []string{"product_id", "warehouse_id", "quantity"}

// ---------------------------------------------------------------------------
// GetForUpdate
// ---------------------------------------------------------------------------

func TestInventoryRepository_GetForUpdate_Success(t *testing.T) {
	repo, mock := setupInventoryRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM inventory WHERE .+ FOR UPDATE").
		WithArgs([]string{"prod-1", "prod-2"}).
		WillReturnRows(
			pgxmock.NewRows(inventoryColumns).
				AddRow("prod-1", "wh-1", 40).
				AddRow("prod-2", "wh-1", 5).
				AddRow("prod-1", "wh-2", 100),
		)

	snapshot, err := repo.GetForUpdate(context.Background(), mock, []string{"prod-1", "prod-2"})
	require.NoError(t, err)
	assert.Equal(t, 40, snapshot.Quantity("wh-1", "prod-1"))
	assert.Equal(t, 5, snapshot.Quantity("wh-1", "prod-2"))
	assert.Equal(t, 100, snapshot.Quantity("wh-2", "prod-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryRepository_GetForUpdate_MissingPairsReadZero(t *testing.T) {
	repo, mock := setupInventoryRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM inventory WHERE .+ FOR UPDATE").
		WithArgs([]string{"prod-1"}).
		WillReturnRows(pgxmock.NewRows(inventoryColumns))

	snapshot, err := repo.GetForUpdate(context.Background(), mock, []string{"prod-1"})
	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.Quantity("wh-1", "prod-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryRepository_GetForUpdate_Error(t *testing.T) {
	repo, mock := setupInventoryRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM inventory WHERE .+ FOR UPDATE").
		WithArgs([]string{"prod-1"}).
		WillReturnError(errors.New("db read error"))

	snapshot, err := repo.GetForUpdate(context.Background(), mock, []string{"prod-1"})
	assert.Nil(t, snapshot)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "lock inventory rows")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// DecrementAndLog
// ---------------------------------------------------------------------------

func TestInventoryRepository_DecrementAndLog_Success(t *testing.T) {
	repo, mock := setupInventoryRepo(t)
	defer mock.Close()

	mock.ExpectQuery("UPDATE inventory SET quantity = quantity -").
		WithArgs("prod-1", "wh-1", 8).
		WillReturnRows(pgxmock.NewRows([]string{"quantity"}).AddRow(32))
	mock.ExpectExec("INSERT INTO inventory_log").
		WithArgs(pgxmock.AnyArg(), "prod-1", "wh-1", -8, 32,
			domain.ChangeTypeOrderFulfillment, "order-1").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	decrements := []domain.StockDecrement{{ProductID: "prod-1", WarehouseID: "wh-1", Quantity: 8}}
	err := repo.DecrementAndLog(context.Background(), mock, decrements, "order-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryRepository_DecrementAndLog_MultipleDecrements(t *testing.T) {
	repo, mock := setupInventoryRepo(t)
	defer mock.Close()

	mock.ExpectQuery("UPDATE inventory SET quantity = quantity -").
		WithArgs("prod-1", "wh-1", 10).
		WillReturnRows(pgxmock.NewRows([]string{"quantity"}).AddRow(0))
	mock.ExpectExec("INSERT INTO inventory_log").
		WithArgs(pgxmock.AnyArg(), "prod-1", "wh-1", -10, 0,
			domain.ChangeTypeOrderFulfillment, "order-1").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("UPDATE inventory SET quantity = quantity -").
		WithArgs("prod-1", "wh-2", 5).
		WillReturnRows(pgxmock.NewRows([]string{"quantity"}).AddRow(95))
	mock.ExpectExec("INSERT INTO inventory_log").
		WithArgs(pgxmock.AnyArg(), "prod-1", "wh-2", -5, 95,
			domain.ChangeTypeOrderFulfillment, "order-1").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	decrements := []domain.StockDecrement{
		{ProductID: "prod-1", WarehouseID: "wh-1", Quantity: 10},
		{ProductID: "prod-1", WarehouseID: "wh-2", Quantity: 5},
	}
	err := repo.DecrementAndLog(context.Background(), mock, decrements, "order-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryRepository_DecrementAndLog_NoMatchingRowIsInternal(t *testing.T) {
	repo, mock := setupInventoryRepo(t)
	defer mock.Close()

	mock.ExpectQuery("UPDATE inventory SET quantity = quantity -").
		WithArgs("prod-1", "wh-1", 50).
		WillReturnError(pgx.ErrNoRows)

	decrements := []domain.StockDecrement{{ProductID: "prod-1", WarehouseID: "wh-1", Quantity: 50}}
	err := repo.DecrementAndLog(context.Background(), mock, decrements, "order-1")
	assert.ErrorIs(t, err, apperrors.ErrInternal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryRepository_DecrementAndLog_RejectsNonPositiveQuantity(t *testing.T) {
	repo, mock := setupInventoryRepo(t)
	defer mock.Close()

	decrements := []domain.StockDecrement{{ProductID: "prod-1", WarehouseID: "wh-1", Quantity: 0}}
	err := repo.DecrementAndLog(context.Background(), mock, decrements, "order-1")
	assert.ErrorIs(t, err, apperrors.ErrInternal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryRepository_DecrementAndLog_LogInsertError(t *testing.T) {
	repo, mock := setupInventoryRepo(t)
	defer mock.Close()

	mock.ExpectQuery("UPDATE inventory SET quantity = quantity -").
		WithArgs("prod-1", "wh-1", 8).
		WillReturnRows(pgxmock.NewRows([]string{"quantity"}).AddRow(32))
	mock.ExpectExec("INSERT INTO inventory_log").
		WithArgs(pgxmock.AnyArg(), "prod-1", "wh-1", -8, 32,
			domain.ChangeTypeOrderFulfillment, "order-1").
		WillReturnError(errors.New("db write error"))

	decrements := []domain.StockDecrement{{ProductID: "prod-1", WarehouseID: "wh-1", Quantity: 8}}
	err := repo.DecrementAndLog(context.Background(), mock, decrements, "order-1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insert inventory log")
	assert.NoError(t, mock.ExpectationsWereMet())
}
