package handlers

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Detail string `json:"detail"`
}

func NewErrorResponse(detail string) *ErrorResponse {
	return &ErrorResponse{Detail: detail}
}

type TranscriptionsResponse struct {
	Transcriptions []string `json:"transcriptions"`
}

type DatesResponse struct {
	Dates []string `json:"dates"`
}

type SummariesResponse struct {
	Summaries []string `json:"summaries"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	App     string `json:"app"`
	Version string `json:"version"`
}
