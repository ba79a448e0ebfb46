package enums

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCivilStatus(t *testing.T) {
	status, err := ParseCivilStatus(" Married ")
	require.NoError(t, err)
	require.Equal(t, CivilStatusMarried, status)
	require.True(t, status.IsValid())

	_, err = ParseCivilStatus("engaged")
	require.Error(t, err)
	require.False(t, CivilStatus("engaged").IsValid())
}

func TestStockMovementType(t *testing.T) {
	require.True(t, StockMovementReceipt.IsIncrement())
	require.False(t, StockMovementConsumption.IsIncrement())
	require.False(t, StockMovementVoid.IsIncrement())

	parsed, err := ParseStockMovementType("consumption")
	require.NoError(t, err)
	require.Equal(t, StockMovementConsumption, parsed)

	_, err = ParseStockMovementType("adjustment")
	require.Error(t, err)
}

func TestOutboxEnums(t *testing.T) {
	for _, event := range validOutboxEventTypes {
		parsed, err := ParseOutboxEventType(event.String())
		require.NoError(t, err)
		require.Equal(t, event, parsed)
	}
	_, err := ParseOutboxEventType("order_paid")
	require.Error(t, err)

	require.True(t, AggregateIngredient.IsValid())
	_, err = ParseOutboxAggregateType("vendor_order")
	require.Error(t, err)
}
