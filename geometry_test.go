package asciimg

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitToBounds(t *testing.T) {
	tests := []struct {
		name           string
		srcW, srcH     int
		boundW, boundH int
		want           Geometry
	}{
		{
			name: "Already fits",
			srcW: 40, srcH: 10,
			boundW: 80, boundH: 24,
			want: Geometry{Width: 40, Height: 10},
		},
		{
			name: "Width bound",
			srcW: 100, srcH: 50,
			boundW: 50, boundH: 100,
			want: Geometry{Width: 50, Height: 25},
		},
		{
			name: "Height bound",
			srcW: 50, srcH: 100,
			boundW: 80, boundH: 20,
			want: Geometry{Width: 10, Height: 20},
		},
		{
			name: "Both passes",
			srcW: 1920, srcH: 1080,
			boundW: 80, boundH: 24,
			want: Geometry{Width: 42, Height: 24},
		},
		{
			name: "Very wide clamps height",
			srcW: 1000, srcH: 1,
			boundW: 10, boundH: 10,
			want: Geometry{Width: 10, Height: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FitToBounds(tt.srcW, tt.srcH, tt.boundW, tt.boundH)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFitToBoundsNeverExceeds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 2000; i++ {
		srcW, srcH := rng.Intn(4000)+1, rng.Intn(4000)+1
		boundW, boundH := rng.Intn(300)+1, rng.Intn(100)+1

		g, err := FitToBounds(srcW, srcH, boundW, boundH)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, g.Width, 1)
		assert.GreaterOrEqual(t, g.Height, 1)
		assert.LessOrEqual(t, g.Width, max(boundW, 1), "%dx%d in %dx%d", srcW, srcH, boundW, boundH)
		assert.LessOrEqual(t, g.Height, max(boundH, 1), "%dx%d in %dx%d", srcW, srcH, boundW, boundH)
		assert.LessOrEqual(t, g.Width, srcW)
		assert.LessOrEqual(t, g.Height, srcH)
	}
}

func TestFitToBoundsErrors(t *testing.T) {
	_, err := FitToBounds(0, 10, 80, 24)
	assert.Equal(t, KindInput, KindOf(err))

	_, err = FitToBounds(10, 10, 0, 24)
	assert.Equal(t, KindEnvironment, KindOf(err))

	_, err = FitToBounds(10, 10, 80, -1)
	assert.Equal(t, KindEnvironment, KindOf(err))
}

func TestComputeGeometry(t *testing.T) {
	tests := []struct {
		name       string
		srcW, srcH int
		req        SizeRequest
		want       Geometry
	}{
		{
			name: "Terminal fit halves height",
			srcW: 100, srcH: 100,
			req:  SizeRequest{Columns: 50, Rows: 100},
			want: Geometry{Width: 50, Height: 25},
		},
		{
			name: "Terminal fit both passes",
			srcW: 100, srcH: 100,
			req:  SizeRequest{Columns: 80, Rows: 24},
			want: Geometry{Width: 48, Height: 24},
		},
		{
			name: "Small image is not enlarged",
			srcW: 10, srcH: 4,
			req:  SizeRequest{Columns: 80, Rows: 24},
			want: Geometry{Width: 10, Height: 2},
		},
		{
			name: "Single pixel",
			srcW: 1, srcH: 1,
			req:  SizeRequest{Columns: 80, Rows: 24},
			want: Geometry{Width: 1, Height: 1},
		},
		{
			name: "Width only keeps the source ratio",
			srcW: 100, srcH: 100,
			req:  SizeRequest{Width: 40},
			want: Geometry{Width: 40, Height: 40},
		},
		{
			name: "Width only may enlarge",
			srcW: 10, srcH: 10,
			req:  SizeRequest{Width: 40, Columns: 20, Rows: 5},
			want: Geometry{Width: 40, Height: 40},
		},
		{
			name: "Height only keeps the source ratio",
			srcW: 100, srcH: 100,
			req:  SizeRequest{Height: 10},
			want: Geometry{Width: 10, Height: 10},
		},
		{
			name: "Width only on a wide source",
			srcW: 200, srcH: 50,
			req:  SizeRequest{Width: 80},
			want: Geometry{Width: 80, Height: 20},
		},
		{
			name: "Height only on a tall source",
			srcW: 30, srcH: 90,
			req:  SizeRequest{Height: 45},
			want: Geometry{Width: 15, Height: 45},
		},
		{
			name: "Width and height used as is",
			srcW: 100, srcH: 100,
			req:  SizeRequest{Width: 7, Height: 3},
			want: Geometry{Width: 7, Height: 3},
		},
		{
			name: "Derived side clamps to one",
			srcW: 1000, srcH: 2,
			req:  SizeRequest{Width: 10},
			want: Geometry{Width: 10, Height: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeGeometry(tt.srcW, tt.srcH, tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeGeometryErrors(t *testing.T) {
	tests := []struct {
		name       string
		srcW, srcH int
		req        SizeRequest
		want       Kind
	}{
		{name: "Empty source", srcW: 0, srcH: 10, req: SizeRequest{Columns: 80, Rows: 24}, want: KindInput},
		{name: "Negative width", srcW: 10, srcH: 10, req: SizeRequest{Width: -1}, want: KindArgument},
		{name: "Negative height", srcW: 10, srcH: 10, req: SizeRequest{Height: -5}, want: KindArgument},
		{name: "No terminal", srcW: 10, srcH: 10, req: SizeRequest{}, want: KindEnvironment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeGeometry(tt.srcW, tt.srcH, tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.want, KindOf(err))
		})
	}
}

func TestGeometryString(t *testing.T) {
	assert.Equal(t, "80x24", Geometry{Width: 80, Height: 24}.String())
}
