// Package diagnostics renders APU sample traces to PNG, useful for
// eyeballing channel output while debugging a misbehaving sound register.
package diagnostics

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/halcyon-systems/dmgcore/internal/apu"
)

// PlotWaveform renders a sequence of captured samples as two traces (left
// and right channel) and saves them to a PNG at the given path.
func PlotWaveform(samples []apu.Sample, path string) error {
	p := plot.New()
	p.Title.Text = "APU output"
	p.X.Label.Text = "sample"
	p.Y.Label.Text = "amplitude"

	left := make(plotter.XYs, len(samples))
	right := make(plotter.XYs, len(samples))
	for i, s := range samples {
		left[i].X, left[i].Y = float64(i), float64(s.Left)
		right[i].X, right[i].Y = float64(i), float64(s.Right)
	}

	leftLine, err := plotter.NewLine(left)
	if err != nil {
		return fmt.Errorf("diagnostics: build left trace: %w", err)
	}
	rightLine, err := plotter.NewLine(right)
	if err != nil {
		return fmt.Errorf("diagnostics: build right trace: %w", err)
	}
	p.Add(leftLine, rightLine)
	p.Legend.Add("left", leftLine)
	p.Legend.Add("right", rightLine)

	if err := p.Save(8*vg.Inch, 3*vg.Inch, path); err != nil {
		return fmt.Errorf("diagnostics: save %s: %w", path, err)
	}
	return nil
}
