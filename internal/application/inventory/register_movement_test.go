package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almacen-pro/almacen-api/internal/application/inventory"
	"github.com/almacen-pro/almacen-api/internal/domain"
	"github.com/almacen-pro/almacen-api/internal/domain/entity"
)

func newRegisterFixture(t *testing.T) (*memStore, *inventory.RegisterMovementUseCase) {
	t.Helper()
	store := newMemStore()
	store.seedProduct("prod-1", "company-1", "SKU-001")
	store.seedLocation("loc-1", "company-1", "Bodega Central")
	store.seedLocation("loc-2", "company-1", "Bodega Norte")
	uc := inventory.NewRegisterMovementUseCase(
		&memTxRunner{s: store},
		&memProductRepo{s: store},
		&memLocationRepo{s: store},
	)
	return store, uc
}

func TestRegisterMovement_Entrada(t *testing.T) {
	store, uc := newRegisterFixture(t)
	store.seedStock("prod-1", "loc-1", "10")

	err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		CompanyID: "company-1", UserID: "user-1",
		ProductID: "prod-1", LocationID: "loc-1",
		Type: entity.MovementTypeIN, Quantity: dec("5"),
		Reference: "compra 42",
	})
	require.NoError(t, err)

	assert.True(t, store.stockAt("prod-1", "loc-1").Equal(dec("15")))
	require.Len(t, store.movements, 1)
	m := store.movements[0]
	assert.True(t, m.QuantityBefore.Equal(dec("10")))
	assert.True(t, m.QuantityAfter.Equal(dec("15")))
	assert.Equal(t, "compra 42", m.Reference)
}

func TestRegisterMovement_SalidaStockInsuficiente(t *testing.T) {
	store, uc := newRegisterFixture(t)
	store.seedStock("prod-1", "loc-1", "3")

	err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		CompanyID: "company-1", UserID: "user-1",
		ProductID: "prod-1", LocationID: "loc-1",
		Type: entity.MovementTypeOUT, Quantity: dec("5"),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Rollback completo: ni stock ni log cambiaron.
	assert.True(t, store.stockAt("prod-1", "loc-1").Equal(dec("3")))
	assert.Empty(t, store.movements)
}

func TestRegisterMovement_SalidaDejaStockEnCero(t *testing.T) {
	store, uc := newRegisterFixture(t)
	store.seedStock("prod-1", "loc-1", "5")

	err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		CompanyID: "company-1", UserID: "user-1",
		ProductID: "prod-1", LocationID: "loc-1",
		Type: entity.MovementTypeOUT, Quantity: dec("5"),
	})
	require.NoError(t, err, "sacar exactamente el stock disponible es válido")
	assert.True(t, store.stockAt("prod-1", "loc-1").IsZero())
}

func TestRegisterMovement_Traslado(t *testing.T) {
	store, uc := newRegisterFixture(t)
	store.seedStock("prod-1", "loc-1", "10")

	err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		CompanyID: "company-1", UserID: "user-1",
		ProductID:      "prod-1",
		FromLocationID: "loc-1", ToLocationID: "loc-2",
		Type: entity.MovementTypeTRANSFER, Quantity: dec("4"),
	})
	require.NoError(t, err)

	assert.True(t, store.stockAt("prod-1", "loc-1").Equal(dec("6")))
	assert.True(t, store.stockAt("prod-1", "loc-2").Equal(dec("4")))

	// Dos registros con el mismo TransactionID: salida en origen, entrada en destino.
	require.Len(t, store.movements, 2)
	assert.Equal(t, store.movements[0].TransactionID, store.movements[1].TransactionID)
	assert.True(t, store.movements[0].Quantity.Equal(dec("-4")))
	assert.Equal(t, "loc-1", store.movements[0].LocationID)
	assert.True(t, store.movements[1].Quantity.Equal(dec("4")))
	assert.Equal(t, "loc-2", store.movements[1].LocationID)
}

func TestRegisterMovement_TrasladoSinStock_NoTocaDestino(t *testing.T) {
	store, uc := newRegisterFixture(t)
	store.seedStock("prod-1", "loc-1", "2")
	store.seedStock("prod-1", "loc-2", "7")

	err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		CompanyID: "company-1", UserID: "user-1",
		ProductID:      "prod-1",
		FromLocationID: "loc-1", ToLocationID: "loc-2",
		Type: entity.MovementTypeTRANSFER, Quantity: dec("5"),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Atómico: ninguna de las dos bodegas cambió.
	assert.True(t, store.stockAt("prod-1", "loc-1").Equal(dec("2")))
	assert.True(t, store.stockAt("prod-1", "loc-2").Equal(dec("7")))
	assert.Empty(t, store.movements)
}

// Dos salidas concurrentes de 6 unidades sobre un stock de 10: exactamente una
// gana, la otra relee el valor fresco y falla; el stock nunca queda negativo
// ni se descuenta dos veces.
func TestRegisterMovement_SalidasConcurrentes_SoloUnaGana(t *testing.T) {
	store, uc := newRegisterFixture(t)
	store.seedStock("prod-1", "loc-1", "10")

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- uc.RegisterMovement(context.Background(), inventory.MovementInput{
				CompanyID: "company-1", UserID: "user-1",
				ProductID: "prod-1", LocationID: "loc-1",
				Type: entity.MovementTypeOUT, Quantity: dec("6"),
			})
		}()
	}
	wg.Wait()
	close(results)

	var wins, rejected int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domain.ErrInsufficientStock):
			rejected++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, rejected)
	assert.True(t, store.stockAt("prod-1", "loc-1").Equal(dec("4")),
		"nunca negativo, nunca doble descuento")
	assert.Len(t, store.movements, 1, "solo la salida ganadora dejó auditoría")
}

func TestRegisterMovement_TrasladoMismaBodega_Rechazado(t *testing.T) {
	_, uc := newRegisterFixture(t)
	err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		CompanyID: "company-1", UserID: "user-1",
		ProductID:      "prod-1",
		FromLocationID: "loc-1", ToLocationID: "loc-1",
		Type: entity.MovementTypeTRANSFER, Quantity: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterMovement_AjusteConSigno(t *testing.T) {
	store, uc := newRegisterFixture(t)
	store.seedStock("prod-1", "loc-1", "10")

	err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		CompanyID: "company-1", UserID: "user-1",
		ProductID: "prod-1", LocationID: "loc-1",
		Type: entity.MovementTypeADJUSTMENT, Quantity: dec("-2.5"),
		Reference: "merma",
	})
	require.NoError(t, err)
	assert.True(t, store.stockAt("prod-1", "loc-1").Equal(dec("7.5")))
}

func TestRegisterMovement_AjusteCero_Rechazado(t *testing.T) {
	_, uc := newRegisterFixture(t)
	err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		CompanyID: "company-1", UserID: "user-1",
		ProductID: "prod-1", LocationID: "loc-1",
		Type: entity.MovementTypeADJUSTMENT, Quantity: dec("0"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterMovement_CantidadNegativaEnEntrada_Rechazada(t *testing.T) {
	_, uc := newRegisterFixture(t)
	err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		CompanyID: "company-1", UserID: "user-1",
		ProductID: "prod-1", LocationID: "loc-1",
		Type: entity.MovementTypeIN, Quantity: dec("-5"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterMovement_ProductoInactivo_Rechazado(t *testing.T) {
	store, uc := newRegisterFixture(t)
	store.products["prod-1"].IsActive = false

	err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		CompanyID: "company-1", UserID: "user-1",
		ProductID: "prod-1", LocationID: "loc-1",
		Type: entity.MovementTypeIN, Quantity: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestRegisterMovement_ProductoDeOtraEmpresa_Prohibido(t *testing.T) {
	_, uc := newRegisterFixture(t)
	err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		CompanyID: "company-2", UserID: "user-1",
		ProductID: "prod-1", LocationID: "loc-1",
		Type: entity.MovementTypeIN, Quantity: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRegisterMovement_BodegaInexistente_Rechazada(t *testing.T) {
	_, uc := newRegisterFixture(t)
	err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		CompanyID: "company-1", UserID: "user-1",
		ProductID: "prod-1", LocationID: "loc-999",
		Type: entity.MovementTypeIN, Quantity: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrLocationNotFound)
}
