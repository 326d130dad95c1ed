package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBandContains(t *testing.T) {
	b := UpTo("Moderate ARDS", 100, 200)
	assert.False(t, b.Contains(100))
	assert.True(t, b.Contains(100.1))
	assert.True(t, b.Contains(200))
	assert.False(t, b.Contains(200.1))

	f := From("Low Risk", 0, 2)
	assert.True(t, f.Contains(0))
	assert.True(t, f.Contains(1))
	assert.False(t, f.Contains(2))

	a := Above("Normal", 300)
	assert.False(t, a.Contains(300))
	assert.True(t, a.Contains(1e9))
}

func TestBandString(t *testing.T) {
	assert.Equal(t, "(100, 200]", UpTo("x", 100, 200).String())
	assert.Equal(t, "[0, 2)", From("x", 0, 2).String())
	assert.Equal(t, "[3, 5]", Closed("x", 3, 5).String())
	assert.Equal(t, "(300, +inf)", Above("x", 300).String())
}

func TestClassify(t *testing.T) {
	bs := Bands{
		From("Low Risk", 0, 2),
		From("Moderate Risk", 2, 3),
		Closed("High Risk", 3, 5),
	}
	for v, want := range map[float64]string{0: "Low Risk", 1: "Low Risk", 2: "Moderate Risk", 3: "High Risk", 5: "High Risk"} {
		got, ok := bs.Classify(v)
		require.True(t, ok, "value %g", v)
		assert.Equal(t, want, got, "value %g", v)
	}
	_, ok := bs.Classify(6)
	assert.False(t, ok)
	assert.Equal(t, []string{"Low Risk", "Moderate Risk", "High Risk"}, bs.Stages())
}

func TestPartition(t *testing.T) {
	r := Range{Min: 0, Max: 5}
	cases := []struct {
		name string
		bs   Bands
		ok   bool
	}{
		{"contiguous", Bands{From("a", 0, 2), From("b", 2, 3), Closed("c", 3, 5)}, true},
		{"open below", Bands{UpTo("a", 0, 2), Closed("b", 2, 5)}, false},
		{"gap", Bands{From("a", 0, 2), Closed("b", 2.5, 5)}, false},
		{"overlap", Bands{Closed("a", 0, 2), Closed("b", 2, 5)}, false},
		{"neither owns cut", Bands{From("a", 0, 2), UpTo("b", 2, 5)}, false},
		{"short", Bands{From("a", 0, 2), From("b", 2, 4)}, false},
		{"empty", nil, false},
		{"unbounded tail", Bands{Closed("a", 0, 3), Above("b", 3)}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.bs.Partition(r)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestRangeContains(t *testing.T) {
	r := Range{Min: 0, Max: 23}
	assert.True(t, r.Contains(0))
	assert.True(t, r.Contains(23))
	assert.False(t, r.Contains(-0.5))
	assert.False(t, r.Contains(23.5))
}
