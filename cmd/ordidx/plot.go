package main

import (
	"slices"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// plotLatency draws mean latency per operation, one bar group per op and
// one colored bar per engine.
func plotLatency(stats []opStat, path string) error {
	var names, ops []string
	mean := map[[2]string]float64{}
	for _, st := range stats {
		if !slices.Contains(names, st.Engine) {
			names = append(names, st.Engine)
		}
		if !slices.Contains(ops, st.Op) {
			ops = append(ops, st.Op)
		}
		mean[[2]string{st.Engine, st.Op}] = float64(st.Mean.Nanoseconds())
	}
	if len(ops) == 0 {
		return errors.New("plot: no latency samples")
	}

	p := plot.New()
	p.Title.Text = "Mean operation latency"
	p.Y.Label.Text = "ns/op"
	p.Legend.Top = true

	width := vg.Points(12)
	for i, engine := range names {
		vals := make(plotter.Values, len(ops))
		for j, op := range ops {
			vals[j] = mean[[2]string{engine, op}]
		}
		bars, err := plotter.NewBarChart(vals, width)
		if err != nil {
			return errors.Wrapf(err, "plot: bars for %s", engine)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(i)
		bars.Offset = width * vg.Length(i-len(names)/2)
		p.Add(bars)
		p.Legend.Add(engine, bars)
	}
	p.NominalX(ops...)

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return errors.Wrap(err, "plot: save")
	}
	return nil
}
