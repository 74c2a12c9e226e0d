package postgres

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruzaikr/screencloud-takehome/pkg/database"
)

func setupReservationRepo(t *testing.T) (*ReservationRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return NewReservationRepository(), mock
}

var reservedColumns = []string{"product_id", "warehouse_id", "sum"}

func TestReservationRepository_GetReservedQuantities_Success(t *testing.T) {
	repo, mock := setupReservationRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM reservation_lines .+ JOIN reservations").
		WithArgs([]string{"prod-1", "prod-2"}).
		WillReturnRows(
			pgxmock.NewRows(reservedColumns).
				AddRow("prod-1", "wh-1", 12).
				AddRow("prod-2", "wh-2", 3),
		)

	snapshot, err := repo.GetReservedQuantities(context.Background(), mock, []string{"prod-1", "prod-2"})
	require.NoError(t, err)
	assert.Equal(t, 12, snapshot.Quantity("wh-1", "prod-1"))
	assert.Equal(t, 3, snapshot.Quantity("wh-2", "prod-2"))
	assert.Equal(t, 0, snapshot.Quantity("wh-1", "prod-2"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepository_GetReservedQuantities_NoHolds(t *testing.T) {
	repo, mock := setupReservationRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM reservation_lines .+ JOIN reservations").
		WithArgs([]string{"prod-1"}).
		WillReturnRows(pgxmock.NewRows(reservedColumns))

	snapshot, err := repo.GetReservedQuantities(context.Background(), mock, []string{"prod-1"})
	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.Quantity("wh-1", "prod-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepository_GetReservedQuantities_Error(t *testing.T) {
	repo, mock := setupReservationRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM reservation_lines .+ JOIN reservations").
		WithArgs([]string{"prod-1"}).
		WillReturnError(errors.New("db read error"))

	snapshot, err := repo.GetReservedQuantities(context.Background(), mock, []string{"prod-1"})
	assert.Nil(t, snapshot)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "get reserved quantities")
	assert.NoError(t, mock.ExpectationsWereMet())
}
