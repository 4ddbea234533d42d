package models

// RiskLevel classifies how close a forcing frequency is to a natural frequency
type RiskLevel string

const (
	RiskHigh RiskLevel = "HIGH"
	RiskLow  RiskLevel = "LOW"
)

// Description returns the human-readable risk line used in reports
func (r RiskLevel) Description() string {
	switch r {
	case RiskHigh:
		return "HIGH - forcing frequency close to natural frequency"
	case RiskLow:
		return "LOW - sufficient separation"
	default:
		return string(r)
	}
}

// ModeSeparation describes the distance between the forcing frequency and one natural frequency
type ModeSeparation struct {
	Mode       int       `json:"mode" doc:"1-based mode number"`
	Frequency  float64   `json:"frequency" doc:"Natural frequency in Hz"`
	Separation float64   `json:"separation" doc:"Absolute distance to the forcing frequency in Hz"`
	Risk       RiskLevel `json:"risk" enum:"HIGH,LOW" doc:"Risk level for this mode"`
}

// ResonanceAssessment is the result of comparing a forcing frequency to a modal set
type ResonanceAssessment struct {
	ForcingFrequency float64          `json:"forcing_frequency" doc:"Forcing frequency in Hz"`
	ClosestNatural   float64          `json:"closest_natural_frequency" doc:"Natural frequency closest to the forcing frequency in Hz"`
	ClosestMode      int              `json:"closest_mode" doc:"1-based mode number of the closest natural frequency"`
	Separation       float64          `json:"separation" doc:"Absolute separation in Hz"`
	Threshold        float64          `json:"threshold" doc:"Relative separation below which risk is HIGH"`
	Risk             RiskLevel        `json:"risk" enum:"HIGH,LOW" doc:"Resonance risk level"`
	Modes            []ModeSeparation `json:"modes" doc:"Separation from every natural frequency"`
}
