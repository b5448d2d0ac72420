package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestFormatMoney(t *testing.T) {
	t.Parallel()
	require.Equal(t, "$1,250,000.00", FormatMoney(ptr[int64](1_250_000_00), "$"))
	require.Equal(t, "$245.50", FormatMoney(ptr[int64](245_50), "$"))
	require.Equal(t, "-€12.05", FormatMoney(ptr[int64](-12_05), "€"))
	require.Equal(t, "$0.00", FormatMoney(ptr[int64](0), "$"))
	require.Empty(t, FormatMoney(nil, "$"))
}

func TestFormatPercent(t *testing.T) {
	t.Parallel()
	require.Equal(t, "87.5%", FormatPercent(ptr(87.5)))
	require.Equal(t, "85.0%", FormatPercent(ptr(85.0)))
	require.Empty(t, FormatPercent(nil))
}

func TestDollars(t *testing.T) {
	t.Parallel()
	require.Nil(t, Dollars(nil))
	require.Equal(t, 245.5, Dollars(ptr[int64](245_50)))
}
