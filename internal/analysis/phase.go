package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmcastelo/SIRview/internal/compartment"
	"github.com/jmcastelo/SIRview/internal/dynamo"
)

// Point is one (x, y) sample in a phase plane.
type Point struct{ X, Y float64 }

// PhasePortrait holds one curve per initial condition, projected onto two
// compartments.
type PhasePortrait struct {
	XIndex, YIndex int
	Curves         [][]Point
}

// PortraitSpec selects what to draw. Zero values fall back to the S-I plane,
// a 10x10 grid and t in [0, 50].
type PortraitSpec struct {
	Variant        compartment.Variant
	Params         []float64
	XIndex, YIndex int
	GridDim        int
	TimeEnd        float64
}

// gridOffset keeps grid states off the invariant axes, where nothing moves.
const gridOffset = 1e-7

// TriangularGrid lays initial conditions over the simplex x + y <= 1 of a
// three-compartment model, the third compartment taking the remainder.
func TriangularGrid(dim, xIndex, yIndex int) []dynamo.State {
	if dim < 2 {
		dim = 2
	}
	zIndex := 3 - xIndex - yIndex
	var out []dynamo.State
	for ix := 0; ix < dim; ix++ {
		for iy := 0; iy < dim-ix; iy++ {
			x := float64(ix) / float64(dim-1)
			y := float64(iy) / float64(dim-1)
			if x == 0 {
				x = gridOffset
			}
			if y == 0 {
				y = gridOffset
			}
			z := 1 - x - y
			if z < 0 {
				z = 0
			}
			s := make(dynamo.State, 3)
			s[xIndex], s[yIndex], s[zIndex] = x, y, z
			out = append(out, s)
		}
	}
	return out
}

// GeneratePhasePortrait integrates every grid state concurrently.
func GeneratePhasePortrait(ctx context.Context, ens *dynamo.Ensemble, spec PortraitSpec) (*PhasePortrait, error) {
	if spec.Variant.Dim() != 3 {
		return nil, fmt.Errorf("phase portraits need a 3-compartment model, %s has %d: %w", spec.Variant, spec.Variant.Dim(), dynamo.ErrDimensionMismatch)
	}
	if spec.XIndex == spec.YIndex && spec.XIndex == 0 {
		spec.XIndex, spec.YIndex = 0, 1
	}
	if spec.XIndex == spec.YIndex || spec.XIndex < 0 || spec.YIndex < 0 || spec.XIndex > 2 || spec.YIndex > 2 {
		return nil, fmt.Errorf("axes %d, %d: %w", spec.XIndex, spec.YIndex, dynamo.ErrDimensionMismatch)
	}
	if spec.GridDim == 0 {
		spec.GridDim = 10
	}
	if spec.TimeEnd == 0 {
		spec.TimeEnd = 50
	}
	if spec.Params == nil {
		spec.Params = spec.Variant.DefaultParams()
	}

	field, err := compartment.NewField(spec.Variant, spec.Params)
	if err != nil {
		return nil, err
	}

	grid := TriangularGrid(spec.GridDim, spec.XIndex, spec.YIndex)
	runs := make([]dynamo.Run, len(grid))
	for i, x0 := range grid {
		runs[i] = dynamo.Run{System: field, X0: x0, T0: 0, T1: spec.TimeEnd}
	}

	trs, err := ens.Run(ctx, runs)
	if err != nil {
		return nil, err
	}

	portrait := &PhasePortrait{XIndex: spec.XIndex, YIndex: spec.YIndex, Curves: make([][]Point, len(trs))}
	for i, tr := range trs {
		curve := make([]Point, tr.Len())
		for j, x := range tr.States {
			curve[j] = Point{X: x[spec.XIndex], Y: x[spec.YIndex]}
		}
		portrait.Curves[i] = curve
	}
	return portrait, nil
}

// PhasePortraitToASCII draws every curve on a unit square, with curve
// starts marked 'o'.
func PhasePortraitToASCII(portrait *PhasePortrait, width, height int) string {
	if portrait == nil || len(portrait.Curves) == 0 || width < 2 || height < 2 {
		return ""
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	cell := func(p Point) (int, int, bool) {
		col := int(p.X * float64(width-1))
		row := height - 1 - int(p.Y*float64(height-1))
		return row, col, row >= 0 && row < height && col >= 0 && col < width
	}

	// Axes along x = 0 and y = 0.
	for row := 0; row < height; row++ {
		canvas[row][0] = '│'
	}
	for col := 0; col < width; col++ {
		canvas[height-1][col] = '─'
	}
	canvas[height-1][0] = '└'

	for _, curve := range portrait.Curves {
		for _, p := range curve {
			if row, col, ok := cell(p); ok {
				canvas[row][col] = '•'
			}
		}
	}
	for _, curve := range portrait.Curves {
		if len(curve) == 0 {
			continue
		}
		if row, col, ok := cell(curve[0]); ok {
			canvas[row][col] = 'o'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
