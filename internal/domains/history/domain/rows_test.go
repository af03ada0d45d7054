package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRows_UnknownProductRendersBlank(t *testing.T) {
	resolve := func(id int64) (ProductRef, bool) {
		if id == 1 {
			return ProductRef{Name: "Red", Category: "Tee", Image: "red.png"}, true
		}
		return ProductRef{}, false
	}

	rows := Rows([]Purchase{purchase(200, 1), purchase(100, 99)}, resolve)
	require.Len(t, rows, 2)
	require.True(t, rows[0].Known)
	require.Equal(t, "Red", rows[0].Product.Name)
	require.False(t, rows[1].Known)
	require.Equal(t, ProductRef{}, rows[1].Product)

	require.NotPanics(t, func() { Rows([]Purchase{purchase(1, 1)}, nil) })
}
