package main

import (
	"cmp"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const opDurationName = "ordidx_op_duration_seconds"

// recorder collects per-operation latencies on a private registry.
type recorder struct {
	reg        *prometheus.Registry
	opDuration *prometheus.HistogramVec
}

func newRecorder() *recorder {
	h := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ordidx",
		Name:      "op_duration_seconds",
		Help:      "Latency of single index operations, by engine and operation.",
		Buckets:   prometheus.ExponentialBuckets(25e-9, 2, 24),
	}, []string{"engine", "op"})
	reg := prometheus.NewRegistry()
	reg.MustRegister(h)
	return &recorder{reg: reg, opDuration: h}
}

func (r *recorder) observe(engine, op string, d time.Duration) {
	r.opDuration.WithLabelValues(engine, op).Observe(d.Seconds())
}

type opStat struct {
	Engine string
	Op     string
	Count  uint64
	Mean   time.Duration
}

// summary reads the histograms back through Gather, sorted by engine then
// operation.
func (r *recorder) summary() ([]opStat, error) {
	mfs, err := r.reg.Gather()
	if err != nil {
		return nil, errors.Wrap(err, "gather metrics")
	}
	var out []opStat
	for _, mf := range mfs {
		if mf.GetName() != opDurationName {
			continue
		}
		for _, m := range mf.GetMetric() {
			h := m.GetHistogram()
			st := opStat{
				Engine: labelValue(m, "engine"),
				Op:     labelValue(m, "op"),
				Count:  h.GetSampleCount(),
			}
			if st.Count > 0 {
				st.Mean = time.Duration(h.GetSampleSum() / float64(st.Count) * float64(time.Second))
			}
			out = append(out, st)
		}
	}
	slices.SortFunc(out, func(a, b opStat) int {
		return cmp.Or(cmp.Compare(a.Engine, b.Engine), cmp.Compare(a.Op, b.Op))
	})
	return out, nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}
