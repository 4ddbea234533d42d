package models

// Sample is a single timestamped measurement
type Sample struct {
	Time  float64 `json:"time" doc:"Time in seconds"`
	Value float64 `json:"value" doc:"Measured value (e.g. torque in Nm)"`
}

// TimeSeries is a uniformly sampled scalar signal stored column-wise
type TimeSeries struct {
	Time  []float64 `json:"time" doc:"Sample timestamps in seconds"`
	Value []float64 `json:"value" doc:"Sample values"`
}

// Len returns the number of samples
func (ts *TimeSeries) Len() int {
	return len(ts.Time)
}

// Samples returns the series as time/value pairs
func (ts *TimeSeries) Samples() []Sample {
	samples := make([]Sample, 0, len(ts.Time))
	for i := range ts.Time {
		if i >= len(ts.Value) {
			break
		}
		samples = append(samples, Sample{Time: ts.Time[i], Value: ts.Value[i]})
	}
	return samples
}

// Append adds a sample to the end of the series
func (ts *TimeSeries) Append(s Sample) {
	ts.Time = append(ts.Time, s.Time)
	ts.Value = append(ts.Value, s.Value)
}
