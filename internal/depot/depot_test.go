package depot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_KnownCity(t *testing.T) {
	d, err := Get("Casablanca")
	require.NoError(t, err)

	assert.Equal(t, "Casablanca Hub", d.Name)
	assert.InDelta(t, 33.6091, d.Coordinate.Lat, 1e-6)
	assert.InDelta(t, -7.5372, d.Coordinate.Lon, 1e-6)
	assert.Equal(t, 5000, d.Capacity)
}

func TestGet_UnknownCity(t *testing.T) {
	_, err := Get("Essaouira")
	assert.ErrorIs(t, err, ErrUnknownCity)
}

func TestAll_SortedAndComplete(t *testing.T) {
	all := All()
	require.Len(t, all, 6)

	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].City, all[i].City)
	}

	for _, d := range all {
		assert.NotEmpty(t, d.Name)
		assert.Greater(t, d.Capacity, 0)
		assert.NotZero(t, d.Coordinate.Lat)
	}
}
