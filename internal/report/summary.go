// Package report renders the human-readable pipeline summaries.
package report

import (
	"fmt"
	"io"
	"text/template"

	"github.com/RMahshie/resonara/pkg/models"
)

// TorqueSummary is the outcome of the torque spectrum stage
type TorqueSummary struct {
	SampleRate  float64
	SampleCount int
	Dominant    models.DominantFrequency
}

// ResonanceSummary is the outcome of the resonance post-processing stage
type ResonanceSummary struct {
	Assessment *models.ResonanceAssessment
	// ForcingFromFallback is set when no upstream dominant frequency was available
	ForcingFromFallback bool
}

var funcs = template.FuncMap{
	"f1": func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"f2": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"pct": func(v float64) string { return fmt.Sprintf("%.0f%%", v*100) },
}

var torqueTmpl = template.Must(template.New("torque").Funcs(funcs).Parse(
	`Sampling frequency: {{f1 .SampleRate}} Hz
Number of samples: {{.SampleCount}}
Dominant forcing frequency: {{f2 .Dominant.Frequency}} Hz (amplitude {{f2 .Dominant.Amplitude}} Nm)
`))

var resonanceTmpl = template.Must(template.New("resonance").Funcs(funcs).Parse(
	`FEA Results Summary
===================
Dominant forcing frequency from torque measurement: {{f2 .Assessment.ForcingFrequency}} Hz{{if .ForcingFromFallback}} (default, no measurement available){{end}}

Natural frequencies (modes):
{{range .Assessment.Modes}}Mode {{.Mode}}: {{f1 .Frequency}} Hz
{{end}}
Closest natural frequency: {{f1 .Assessment.ClosestNatural}} Hz
Separation from forcing frequency: {{f1 .Assessment.Separation}} Hz
Resonance risk assessment: {{.Assessment.Risk.Description}}

Recommendations:
- If separation < {{pct .Assessment.Threshold}} of natural frequency, consider design modifications.
- Potential modifications: increase stiffness, add damping, change pulley geometry.
`))

// RenderTorqueSummary writes the spectrum stage summary
func RenderTorqueSummary(w io.Writer, s TorqueSummary) error {
	return torqueTmpl.Execute(w, s)
}

// RenderResonanceSummary writes the resonance assessment report
func RenderResonanceSummary(w io.Writer, s ResonanceSummary) error {
	if s.Assessment == nil {
		return fmt.Errorf("resonance summary requires an assessment")
	}
	return resonanceTmpl.Execute(w, s)
}
