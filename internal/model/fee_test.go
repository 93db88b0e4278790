package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFeeStatus(t *testing.T) {
	t.Parallel()

	require.Equal(t, FeeStatusUnpaid, FeeStatus(0, 50000))
	require.Equal(t, FeeStatusPartial, FeeStatus(20000, 50000))
	require.Equal(t, FeeStatusPaid, FeeStatus(50000, 50000))
	require.Equal(t, FeeStatusPaid, FeeStatus(60000, 50000))
	require.Equal(t, FeeStatusPaid, FeeStatus(0, 0))
}
