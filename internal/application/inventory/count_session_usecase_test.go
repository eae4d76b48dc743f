package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almacen-pro/almacen-api/internal/application/dto"
	"github.com/almacen-pro/almacen-api/internal/application/inventory"
	"github.com/almacen-pro/almacen-api/internal/domain"
	"github.com/almacen-pro/almacen-api/internal/domain/entity"
)

func newCountFixture(t *testing.T) (*memStore, *inventory.CountSessionUseCase) {
	t.Helper()
	store := newMemStore()
	store.seedProduct("prod-1", "company-1", "SKU-001")
	store.seedLocation("loc-1", "company-1", "Bodega Central")
	uc := inventory.NewCountSessionUseCase(
		&memSessionRepo{s: store},
		&memStockRepo{s: store},
		&memProductRepo{s: store},
		&memLocationRepo{s: store},
	)
	return store, uc
}

func TestCreateSession_BodegaValida(t *testing.T) {
	store, uc := newCountFixture(t)

	s, err := uc.CreateSession(context.Background(), "company-1", "user-1", "loc-1")
	require.NoError(t, err)
	assert.Equal(t, entity.CountStatusInProgress, s.Status)
	assert.True(t, s.Synced, "una sesión creada en línea nace sincronizada")
	assert.NotNil(t, store.sessions[s.ID])
}

func TestCreateSession_BodegaInexistente(t *testing.T) {
	_, uc := newCountFixture(t)
	_, err := uc.CreateSession(context.Background(), "company-1", "user-1", "loc-999")
	assert.ErrorIs(t, err, domain.ErrLocationNotFound)
}

func TestCreateSession_GlobalSinBodega(t *testing.T) {
	_, uc := newCountFixture(t)
	s, err := uc.CreateSession(context.Background(), "company-1", "user-1", "")
	require.NoError(t, err)
	assert.Empty(t, s.LocationID)
}

// Expected se captura del stock vigente al registrar la línea, no al concluir:
// movimientos posteriores no cambian lo que el contador vio.
func TestRecordLine_CapturaEsperadoAlRegistrar(t *testing.T) {
	store, uc := newCountFixture(t)
	store.seedStock("prod-1", "loc-1", "10")
	s, err := uc.CreateSession(context.Background(), "company-1", "user-1", "loc-1")
	require.NoError(t, err)

	s, err = uc.RecordLine(context.Background(), "company-1", s.ID, dto.RecordCountLineRequest{
		ProductID: "prod-1", LocationID: "loc-1", Counted: dec("8"),
	})
	require.NoError(t, err)

	// El stock cambia después de registrar.
	store.seedStock("prod-1", "loc-1", "12")

	stored := store.sessions[s.ID]
	require.Len(t, stored.Lines, 1)
	assert.True(t, stored.Lines[0].Expected.Equal(dec("10")),
		"expected quedó congelado al momento del registro")
	assert.True(t, stored.Lines[0].Counted.Equal(dec("8")))
}

// Volver a contar el mismo producto corrige Counted sin duplicar la línea ni
// recapturar Expected.
func TestRecordLine_CorreccionNoRecapturaEsperado(t *testing.T) {
	store, uc := newCountFixture(t)
	store.seedStock("prod-1", "loc-1", "10")
	s, err := uc.CreateSession(context.Background(), "company-1", "user-1", "loc-1")
	require.NoError(t, err)

	_, err = uc.RecordLine(context.Background(), "company-1", s.ID, dto.RecordCountLineRequest{
		ProductID: "prod-1", LocationID: "loc-1", Counted: dec("8"),
	})
	require.NoError(t, err)

	store.seedStock("prod-1", "loc-1", "11")
	_, err = uc.RecordLine(context.Background(), "company-1", s.ID, dto.RecordCountLineRequest{
		ProductID: "prod-1", LocationID: "loc-1", Counted: dec("9"),
	})
	require.NoError(t, err)

	stored := store.sessions[s.ID]
	require.Len(t, stored.Lines, 1)
	assert.True(t, stored.Lines[0].Expected.Equal(dec("10")))
	assert.True(t, stored.Lines[0].Counted.Equal(dec("9")))
}

func TestRecordLine_ProductoSinStockPrevio_EsperadoCero(t *testing.T) {
	store, uc := newCountFixture(t)
	s, err := uc.CreateSession(context.Background(), "company-1", "user-1", "loc-1")
	require.NoError(t, err)

	_, err = uc.RecordLine(context.Background(), "company-1", s.ID, dto.RecordCountLineRequest{
		ProductID: "prod-1", LocationID: "loc-1", Counted: dec("3"),
	})
	require.NoError(t, err)

	stored := store.sessions[s.ID]
	assert.True(t, stored.Lines[0].Expected.IsZero(),
		"un producto nunca movido en la bodega cuenta como esperado cero")
}

func TestRecordLine_ProductoInactivo(t *testing.T) {
	store, uc := newCountFixture(t)
	store.products["prod-1"].IsActive = false
	s, err := uc.CreateSession(context.Background(), "company-1", "user-1", "loc-1")
	require.NoError(t, err)

	_, err = uc.RecordLine(context.Background(), "company-1", s.ID, dto.RecordCountLineRequest{
		ProductID: "prod-1", LocationID: "loc-1", Counted: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestConclude_CierraLaCaptura(t *testing.T) {
	_, uc := newCountFixture(t)
	s, err := uc.CreateSession(context.Background(), "company-1", "user-1", "loc-1")
	require.NoError(t, err)
	_, err = uc.RecordLine(context.Background(), "company-1", s.ID, dto.RecordCountLineRequest{
		ProductID: "prod-1", LocationID: "loc-1", Counted: dec("5"),
	})
	require.NoError(t, err)

	s, err = uc.Conclude(context.Background(), "company-1", s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CountStatusConcluded, s.Status)
	require.NotNil(t, s.ConcludedAt)

	// La sesión concluida ya no acepta líneas.
	_, err = uc.RecordLine(context.Background(), "company-1", s.ID, dto.RecordCountLineRequest{
		ProductID: "prod-1", LocationID: "loc-1", Counted: dec("6"),
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestGet_SesionDeOtraEmpresa(t *testing.T) {
	_, uc := newCountFixture(t)
	s, err := uc.CreateSession(context.Background(), "company-1", "user-1", "loc-1")
	require.NoError(t, err)

	_, err = uc.Get(context.Background(), "company-2", s.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestList_FiltraPorEstado(t *testing.T) {
	_, uc := newCountFixture(t)
	s1, err := uc.CreateSession(context.Background(), "company-1", "user-1", "loc-1")
	require.NoError(t, err)
	_, err = uc.RecordLine(context.Background(), "company-1", s1.ID, dto.RecordCountLineRequest{
		ProductID: "prod-1", LocationID: "loc-1", Counted: dec("5"),
	})
	require.NoError(t, err)
	_, err = uc.Conclude(context.Background(), "company-1", s1.ID)
	require.NoError(t, err)
	_, err = uc.CreateSession(context.Background(), "company-1", "user-1", "loc-1")
	require.NoError(t, err)

	concluded, err := uc.List(context.Background(), "company-1", entity.CountStatusConcluded, 50, 0)
	require.NoError(t, err)
	require.Len(t, concluded, 1)
	assert.Equal(t, s1.ID, concluded[0].ID)

	all, err := uc.List(context.Background(), "company-1", "", 50, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
