package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFootprintSortsDescending(t *testing.T) {
	t.Parallel()

	it := Item{ID: "a", Length: 30, Width: 48.2}
	fp := it.Footprint()
	assert.Equal(t, 48.2, fp.LongSide)
	assert.Equal(t, 30.0, fp.ShortSide)
}

func TestRoundedDimensionsUseCeiling(t *testing.T) {
	t.Parallel()

	long, short := Item{Length: 24.1, Width: 36.0}.RoundedDimensions()
	assert.Equal(t, 36, long)
	assert.Equal(t, 25, short)
}

func TestSplitConservesQuantity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		qty   int
		max   int
		sizes []int
	}{
		{name: "EvenGroups", qty: 12, max: 6, sizes: []int{6, 6}},
		{name: "Remainder", qty: 11, max: 6, sizes: []int{6, 5}},
		{name: "SmallerThanMax", qty: 2, max: 6, sizes: []int{2}},
		{name: "ZeroMaxTreatedAsOne", qty: 3, max: 0, sizes: []int{1, 1, 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			it := Item{ID: "p1", Category: CategoryPaperPrint, Length: 20, Width: 16, Quantity: tc.qty, Flags: []HandlingFlag{FlagTactile}}
			parts := Split(it, tc.max)

			require.Len(t, parts, len(tc.sizes))
			for i, part := range parts {
				assert.Equal(t, tc.sizes[i], part.Quantity)
				assert.Equal(t, SplitID("p1", i+1), part.ID)
				assert.Equal(t, it.Category, part.Category)
				assert.True(t, part.HasFlag(FlagTactile))
			}
			assert.Equal(t, tc.qty, TotalQuantity(parts))
			assert.Equal(t, tc.qty, it.Quantity, "original must not be mutated")
		})
	}
}

func TestSplitDoesNotShareFlags(t *testing.T) {
	t.Parallel()

	it := Item{ID: "p1", Quantity: 4, Flags: []HandlingFlag{FlagFragile}}
	parts := Split(it, 2)
	parts[0].Flags[0] = FlagHighValue

	assert.Equal(t, FlagFragile, it.Flags[0])
	assert.Equal(t, FlagFragile, parts[1].Flags[0])
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := Item{ID: "a", Category: CategoryMirror, Material: MaterialMirror, Length: 10, Width: 10, Quantity: 1}
	require.NoError(t, valid.Validate())

	bad := valid
	bad.Category = "sculpture"
	assert.True(t, errors.Is(bad.Validate(), ErrUnknownCategory))

	bad = valid
	bad.Quantity = 0
	assert.True(t, errors.Is(bad.Validate(), ErrInvalidItem))

	bad = valid
	bad.Width = -1
	assert.True(t, errors.Is(bad.Validate(), ErrInvalidItem))
}

func TestDimensionsString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "55x37x36", Dimensions{Length: 54.5, Width: 37, Height: 36}.String())
}

func TestParseMaterial(t *testing.T) {
	t.Parallel()

	cases := map[string]Material{
		"Glass":          MaterialGlass,
		" acoustic foam": MaterialAcousticFoam,
		"patient-board":  MaterialPatientBoard,
		"":               MaterialNoGlazing,
		"unknown":        MaterialNoGlazing,
		"granite":        "granite",
	}
	for raw, want := range cases {
		assert.Equal(t, want, ParseMaterial(raw), raw)
	}
}
