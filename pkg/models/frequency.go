package models

// FrequencyPoint represents a single point of a one-sided amplitude spectrum
type FrequencyPoint struct {
	Frequency float64 `json:"frequency" doc:"Frequency in Hz"`
	Amplitude float64 `json:"amplitude" doc:"Amplitude in the unit of the measured signal"`
}

// DominantFrequency is the strongest spectral peak inside the search band.
// The zero value is the "no peak found" sentinel.
type DominantFrequency struct {
	Frequency float64 `json:"frequency" doc:"Dominant frequency in Hz"`
	Amplitude float64 `json:"amplitude" doc:"Amplitude at the dominant frequency"`
}

// Found reports whether a peak was located in the search band
func (d DominantFrequency) Found() bool {
	return d.Frequency > 0
}
