package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

func TestExportDXF_Lines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "floor.dxf")
	plan := buildTestPlan()
	require.NoError(t, ExportDXF(path, plan))

	d, err := dxf.Open(path)
	require.NoError(t, err)

	var lines []*entity.Line
	for _, e := range d.Entities() {
		if l, ok := e.(*entity.Line); ok {
			lines = append(lines, l)
		}
	}
	// Four edges for the container plus four per placement.
	assert.Len(t, lines, 4*(1+len(plan.Result.Placements)))

	var maxX, maxY float64
	for _, l := range lines {
		for _, p := range [][]float64{l.Start[:], l.End[:]} {
			assert.Zero(t, p[2])
			if p[0] > maxX {
				maxX = p[0]
			}
			if p[1] > maxY {
				maxY = p[1]
			}
		}
	}
	ct := plan.Inputs.Container
	assert.Equal(t, ct.Length, maxX)
	assert.Equal(t, ct.Width, maxY)
}

func TestExportDXF_NoPlan(t *testing.T) {
	assert.ErrorIs(t, ExportDXF(filepath.Join(t.TempDir(), "x.dxf"), nil), ErrNoPlan)
}

func TestDrawRect(t *testing.T) {
	d := dxf.NewDrawing()
	require.NoError(t, drawRect(d, 10, 20, 30, 40))

	lines := d.Entities()
	require.Len(t, lines, 4)
	first, ok := lines[0].(*entity.Line)
	require.True(t, ok)
	assert.Equal(t, []float64{10, 20, 0}, first.Start[:3])
	assert.Equal(t, []float64{40, 20, 0}, first.End[:3])
}
