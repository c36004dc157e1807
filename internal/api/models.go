package api

// Common request/response structures

// CreateTaskRequest defines the payload for the task creation endpoint.
// Title is validated as required-after-trim by the domain layer; the
// validator tag catches the outright-missing case early.
type CreateTaskRequest struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description"`
}

// SummaryResponse defines the response for the summarize endpoint.
type SummaryResponse struct {
	Summary string `json:"summary"`
}
