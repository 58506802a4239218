package bir_nav

import (
	"expvar"
	"fmt"
	"net/http"
)

// VizConfig controls the optional expvar endpoint used for live plotting.
type VizConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
}

// VizMetrics exposes live cycle values via expvar.
type VizMetrics struct {
	input  *expvar.Map
	output *expvar.Map
	flat   map[string]*expvar.Float
}

// StartViz starts an HTTP server exposing /debug/vars for plotting.
func StartViz(cfg VizConfig) (*VizMetrics, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:7070"
	}

	metrics := newVizMetrics(expvar.NewMap("input"), expvar.NewMap("output"), expvar.NewFloat)

	server := &http.Server{Addr: cfg.Addr, Handler: http.DefaultServeMux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			Logf("viz server error: %v", err)
		}
	}()

	return metrics, nil
}

// newVizMetrics builds the metric set. expvar names are process-global, so
// the constructors are injected.
func newVizMetrics(input, output *expvar.Map, newFlat func(string) *expvar.Float) *VizMetrics {
	metrics := &VizMetrics{input: input, output: output, flat: map[string]*expvar.Float{}}
	for _, key := range vizFlatKeys() {
		metrics.flat[key] = newFlat(key)
	}
	return metrics
}

func vizFlatKeys() []string {
	keys := make([]string, 0, SensorCount+8)
	for i := 0; i < SensorCount; i++ {
		keys = append(keys, fmt.Sprintf("input_s%d", i))
	}
	return append(keys,
		"input_x", "input_z",
		"output_pressure_left", "output_pressure_right",
		"output_left", "output_right",
		"output_state", "output_goal_distance",
	)
}

// ObserveCycle publishes the latest cycle input and output values.
func (v *VizMetrics) ObserveCycle(in CycleInput, res CycleResult) {
	if v == nil {
		return
	}
	for i, r := range in.Readings {
		v.publish(v.input, "input", fmt.Sprintf("s%d", i), r)
	}
	v.publish(v.input, "input", "x", in.Position.X)
	v.publish(v.input, "input", "z", in.Position.Z)

	v.publish(v.output, "output", "pressure_left", res.Pressure.Left)
	v.publish(v.output, "output", "pressure_right", res.Pressure.Right)
	v.publish(v.output, "output", "left", res.Command.Left)
	v.publish(v.output, "output", "right", res.Command.Right)
	v.publish(v.output, "output", "state", float64(res.State))
	v.publish(v.output, "output", "goal_distance", res.GoalDistance)
}

// publish sets key in the nested map and its "<prefix>_<key>" flat twin.
func (v *VizMetrics) publish(m *expvar.Map, prefix, key string, value float64) {
	if f, ok := m.Get(key).(*expvar.Float); ok {
		f.Set(value)
	} else {
		f := new(expvar.Float)
		f.Set(value)
		m.Set(key, f)
	}
	if f, ok := v.flat[prefix+"_"+key]; ok {
		f.Set(value)
	}
}
