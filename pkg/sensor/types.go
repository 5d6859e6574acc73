// Package sensor defines the inertial recording model consumed by the
// tremor pipeline: timestamped tri-axial accelerometer samples with an
// optional gyroscope channel, loaded from flat CSV files produced by the
// recording rig.
package sensor

// Axis identifies one spatial axis of a tri-axial sensor
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	}
	return "?"
}

// SensorKind selects which sensor channel of a recording to analyze
type SensorKind string

const (
	SensorAccel SensorKind = "accel"
	SensorGyro  SensorKind = "gyro"
)

// Sample holds one inertial measurement
type Sample struct {
	TimestampMS int64      `json:"timestamp_ms"`
	Accel       [3]float64 `json:"accel"` // m/s²
	Gyro        [3]float64 `json:"gyro"`  // deg/s
}

// Recording is an ordered sequence of samples from one capture session.
// Timestamps are strictly increasing with a nominal 10 ms spacing.
type Recording struct {
	Samples     []Sample `json:"samples"`
	Source      string   `json:"source,omitempty"`
	HasGyro     bool     `json:"has_gyro"`
	SkippedRows int      `json:"skipped_rows"`
}

// Len returns the number of samples
func (r *Recording) Len() int {
	return len(r.Samples)
}

// DurationSeconds returns the recording span between first and last sample
func (r *Recording) DurationSeconds() float64 {
	if len(r.Samples) < 2 {
		return 0
	}
	first := r.Samples[0].TimestampMS
	last := r.Samples[len(r.Samples)-1].TimestampMS
	return float64(last-first) / 1000.0
}

// EffectiveRate computes the actual sampling rate from timestamp deltas.
// Recorders in the field drift between 98 and 100 Hz, so the nominal rate
// is not trusted when precision matters.
func (r *Recording) EffectiveRate() float64 {
	d := r.DurationSeconds()
	if d <= 0 {
		return 0
	}
	return float64(len(r.Samples)-1) / d
}

// Timestamps returns the sample timestamps in seconds relative to the start
func (r *Recording) Timestamps() []float64 {
	if len(r.Samples) == 0 {
		return nil
	}
	t0 := r.Samples[0].TimestampMS
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = float64(s.TimestampMS-t0) / 1000.0
	}
	return out
}

// Intervals returns successive timestamp deltas in milliseconds
func (r *Recording) Intervals() []float64 {
	if len(r.Samples) < 2 {
		return nil
	}
	out := make([]float64, len(r.Samples)-1)
	for i := 1; i < len(r.Samples); i++ {
		out[i-1] = float64(r.Samples[i].TimestampMS - r.Samples[i-1].TimestampMS)
	}
	return out
}

// AccelAxis extracts one accelerometer axis as a new array
func (r *Recording) AccelAxis(a Axis) []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Accel[a]
	}
	return out
}

// GyroAxis extracts one gyroscope axis as a new array
func (r *Recording) GyroAxis(a Axis) []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Gyro[a]
	}
	return out
}

// Axes extracts all three axes of the requested sensor
func (r *Recording) Axes(kind SensorKind) (x, y, z []float64) {
	if kind == SensorGyro {
		return r.GyroAxis(AxisX), r.GyroAxis(AxisY), r.GyroAxis(AxisZ)
	}
	return r.AccelAxis(AxisX), r.AccelAxis(AxisY), r.AccelAxis(AxisZ)
}
