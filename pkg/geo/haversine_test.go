package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	tests := []struct {
		name       string
		lat1, lon1 float64
		lat2, lon2 float64
		want       float64
		delta      float64
	}{
		{
			name: "same point",
			lat1: 42.3486, lon1: -83.0567,
			lat2: 42.3486, lon2: -83.0567,
			want: 0, delta: 0.001,
		},
		{
			name: "one degree of latitude",
			lat1: 42, lon1: -83,
			lat2: 43, lon2: -83,
			want: 111195, delta: 50,
		},
		{
			name: "woodward and warren to campus martius",
			lat1: 42.3559, lon1: -83.0634,
			lat2: 42.3314, lon2: -83.0466,
			want: 3054, delta: 40,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineDistance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.want, got, tt.delta)
		})
	}
}

func TestHaversineDistance_Symmetric(t *testing.T) {
	a := HaversineDistance(42.33, -83.04, 42.40, -83.10)
	b := HaversineDistance(42.40, -83.10, 42.33, -83.04)
	assert.InDelta(t, a, b, 1e-6)
}
