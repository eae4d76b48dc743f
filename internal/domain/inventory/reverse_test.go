package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almacen-pro/almacen-api/internal/domain"
	"github.com/almacen-pro/almacen-api/internal/domain/entity"
	"github.com/almacen-pro/almacen-api/internal/domain/inventory"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func mov(t *testing.T, movType string, qty, before, after string) *entity.Movement {
	t.Helper()
	m, err := entity.NewMovement(
		"company-1", "prod-1", "loc-1", movType,
		dec(qty), dec(before), dec(after),
		"", "user-1", time.Now(), "tx-1",
	)
	require.NoError(t, err)
	return m
}

func TestReverse_Entrada(t *testing.T) {
	delta, err := inventory.Reverse(mov(t, entity.MovementTypeIN, "5", "10", "15"))
	require.NoError(t, err)
	assert.Equal(t, "prod-1", delta.ProductID)
	assert.Equal(t, "loc-1", delta.LocationID)
	assert.True(t, delta.Quantity.Equal(dec("-5")), "deshacer una entrada resta")
}

func TestReverse_Salida(t *testing.T) {
	delta, err := inventory.Reverse(mov(t, entity.MovementTypeOUT, "-3", "10", "7"))
	require.NoError(t, err)
	assert.True(t, delta.Quantity.Equal(dec("3")), "deshacer una salida suma")
}

func TestReverse_Ajuste(t *testing.T) {
	delta, err := inventory.Reverse(mov(t, entity.MovementTypeADJUSTMENT, "-2.5", "10", "7.5"))
	require.NoError(t, err)
	assert.True(t, delta.Quantity.Equal(dec("2.5")))
}

// Un traslado son dos filas con el mismo TransactionID; cada fila se revierte
// sobre su propia bodega.
func TestReverse_TrasladoPorFila(t *testing.T) {
	salida := mov(t, entity.MovementTypeTRANSFER, "-4", "10", "6")
	entrada := mov(t, entity.MovementTypeTRANSFER, "4", "0", "4")
	entrada.LocationID = "loc-2"

	dOut, err := inventory.Reverse(salida)
	require.NoError(t, err)
	dIn, err := inventory.Reverse(entrada)
	require.NoError(t, err)

	assert.True(t, dOut.Quantity.Equal(dec("4")))
	assert.Equal(t, "loc-1", dOut.LocationID)
	assert.True(t, dIn.Quantity.Equal(dec("-4")))
	assert.Equal(t, "loc-2", dIn.LocationID)
}

func TestReverse_TipoDesconocido_Rechazado(t *testing.T) {
	m := mov(t, entity.MovementTypeIN, "1", "0", "1")
	m.Type = "MERMA"
	_, err := inventory.Reverse(m)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Reverse es pura: aplicar el delta inverso sobre el after reproduce el before.
func TestReverse_RoundTrip(t *testing.T) {
	m := mov(t, entity.MovementTypeIN, "7", "3", "10")
	delta, err := inventory.Reverse(m)
	require.NoError(t, err)
	assert.True(t, m.QuantityAfter.Add(delta.Quantity).Equal(m.QuantityBefore))
}
