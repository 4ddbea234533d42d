package models

import (
	"time"
)

// Analysis statuses
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// CreateAnalysisRequestBody is the body of a create analysis request
type CreateAnalysisRequestBody struct {
	SessionID        string    `json:"session_id" minLength:"10" maxLength:"50" required:"true" doc:"Client session identifier"`
	Label            string    `json:"label,omitempty" maxLength:"200" doc:"Free text label, e.g. the pulley or test rig name"`
	FileSize         int64     `json:"file_size" minimum:"32" maximum:"20971520" required:"true" doc:"Torque CSV size in bytes"`
	MimeType         string    `json:"mime_type" enum:"text/csv,text/plain" required:"true" doc:"Torque file MIME type"`
	ValueColumn      string    `json:"value_column,omitempty" doc:"Name of the measurement column, defaults to 'Torque (Nm)'"`
	ModalFrequencies []float64 `json:"modal_frequencies,omitempty" doc:"Natural frequencies in Hz to assess against, defaults to the configured modal set"`
}

// CreateAnalysisRequest represents a request to create a new analysis
type CreateAnalysisRequest struct {
	Body CreateAnalysisRequestBody
}

// CreateAnalysisResponseBody is the body of the create analysis response
type CreateAnalysisResponseBody struct {
	ID        string `json:"id" doc:"Analysis unique identifier"`
	UploadURL string `json:"upload_url" doc:"Pre-signed URL for the torque CSV upload"`
	ExpiresIn int    `json:"expires_in" doc:"URL expiration time in seconds"`
}

// CreateAnalysisResponse represents the response from creating an analysis
type CreateAnalysisResponse struct {
	Body CreateAnalysisResponseBody
}

// GetAnalysisStatusRequest represents a request to get analysis status
type GetAnalysisStatusRequest struct {
	ID string `path:"id" doc:"Analysis ID"`
}

// GetAnalysisStatusResponseBody is the body of the status response
type GetAnalysisStatusResponseBody struct {
	ID        string  `json:"id" doc:"Analysis ID"`
	Status    string  `json:"status" enum:"pending,processing,completed,failed" doc:"Analysis status"`
	Progress  int     `json:"progress" minimum:"0" maximum:"100" doc:"Analysis progress percentage"`
	Message   string  `json:"message,omitempty" doc:"Human-readable status message"`
	Error     *string `json:"error,omitempty" doc:"Failure reason when the analysis failed"`
	ResultsID *string `json:"results_id,omitempty" doc:"Results ID when analysis completes"`
}

// GetAnalysisStatusResponse represents the current status of an analysis
type GetAnalysisStatusResponse struct {
	Body GetAnalysisStatusResponseBody
}

// GetAnalysisResultsRequest represents a request to get analysis results
type GetAnalysisResultsRequest struct {
	ID string `path:"id" doc:"Analysis ID"`
}

// GetAnalysisResultsResponseBody is the body of the results response
type GetAnalysisResultsResponseBody struct {
	ID          string               `json:"id" doc:"Results ID"`
	AnalysisID  string               `json:"analysis_id" doc:"Analysis ID"`
	SampleRate  float64              `json:"sample_rate" doc:"Sampling frequency in Hz"`
	SampleCount int                  `json:"sample_count" doc:"Number of samples analyzed"`
	Dominant    DominantFrequency    `json:"dominant" doc:"Dominant forcing frequency"`
	Spectrum    []FrequencyPoint     `json:"spectrum" doc:"One-sided amplitude spectrum"`
	Assessment  *ResonanceAssessment `json:"assessment,omitempty" doc:"Resonance risk assessment"`
	ReportURL   string               `json:"report_url,omitempty" doc:"Pre-signed URL of the text report"`
	CreatedAt   time.Time            `json:"created_at" doc:"Results creation timestamp"`
}

// GetAnalysisResultsResponse represents the complete analysis results
type GetAnalysisResultsResponse struct {
	Body GetAnalysisResultsResponseBody
}

// ListSessionAnalysesRequest lists the analyses created by one client session
type ListSessionAnalysesRequest struct {
	SessionID string `path:"session_id" doc:"Client session identifier"`
}

// ListSessionAnalysesResponse holds the status of every analysis in a session, newest first
type ListSessionAnalysesResponse struct {
	Body struct {
		Analyses []GetAnalysisStatusResponseBody `json:"analyses" doc:"Analyses in the session"`
	}
}

// StartProcessingRequest represents a request to start processing an uploaded file
type StartProcessingRequest struct {
	ID string `path:"id" doc:"Analysis ID"`
}

// StartProcessingResponse represents the response from starting processing
type StartProcessingResponse struct {
	Body struct {
		Message string `json:"message" doc:"Confirmation message"`
	}
}

// AnalyzeSpectrumRequest runs the spectral analyzer on an inline signal
type AnalyzeSpectrumRequest struct {
	Body struct {
		Time  []float64 `json:"time" minItems:"2" required:"true" doc:"Uniformly spaced timestamps in seconds"`
		Value []float64 `json:"value" minItems:"2" required:"true" doc:"Signal values"`
	}
}

// AnalyzeSpectrumResponseBody is the body of the spectrum response
type AnalyzeSpectrumResponseBody struct {
	SampleRate  float64           `json:"sample_rate" doc:"Sampling frequency in Hz"`
	Nyquist     float64           `json:"nyquist" doc:"Nyquist frequency in Hz"`
	Resolution  float64           `json:"resolution" doc:"Frequency bin width in Hz"`
	SampleCount int               `json:"sample_count" doc:"Number of samples"`
	Dominant    DominantFrequency `json:"dominant" doc:"Dominant frequency, zero when no peak was found"`
	Spectrum    []FrequencyPoint  `json:"spectrum" doc:"One-sided amplitude spectrum"`
}

// AnalyzeSpectrumResponse is the spectrum analysis response
type AnalyzeSpectrumResponse struct {
	Body AnalyzeSpectrumResponseBody
}

// AssessResonanceRequest runs the resonance assessor on inline values
type AssessResonanceRequest struct {
	Body struct {
		ForcingFrequency float64   `json:"forcing_frequency" required:"true" doc:"Forcing frequency in Hz"`
		ModalFrequencies []float64 `json:"modal_frequencies,omitempty" doc:"Natural frequencies in Hz, defaults to the configured modal set"`
	}
}

// AssessResonanceResponse is the resonance assessment response
type AssessResonanceResponse struct {
	Body *ResonanceAssessment
}

// Analysis represents the core analysis entity (for internal use)
type Analysis struct {
	ID               string     `json:"id"`
	SessionID        string     `json:"session_id"`
	Label            string     `json:"label"`
	Status           string     `json:"status"`
	Progress         int        `json:"progress"`
	DataS3Key        *string    `json:"data_s3_key,omitempty"`
	ValueColumn      string     `json:"value_column"`
	ModalFrequencies []float64  `json:"modal_frequencies,omitempty"`
	ErrorMsg         *string    `json:"error_message,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

// AnalysisResults represents the stored analysis results
type AnalysisResults struct {
	ID          string               `json:"id"`
	AnalysisID  string               `json:"analysis_id"`
	SampleRate  float64              `json:"sample_rate"`
	SampleCount int                  `json:"sample_count"`
	Dominant    DominantFrequency    `json:"dominant"`
	Spectrum    []FrequencyPoint     `json:"spectrum"`
	Assessment  *ResonanceAssessment `json:"assessment,omitempty"`
	ReportS3Key *string              `json:"report_s3_key,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}
