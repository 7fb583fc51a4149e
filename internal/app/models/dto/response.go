package dto

// APIResponse is the standard response envelope. Exactly one of Data and
// Error is set.
type APIResponse struct {
	Data  interface{}  `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// SuccessResponse represents a standard success response for API endpoints
type SuccessResponse struct {
	Message string `json:"message"`
}

// AssessmentListResponse carries a best-effort assessment listing; Skipped
// counts referenced assessments that could not be resolved.
type AssessmentListResponse struct {
	Assessments interface{} `json:"assessments"`
	Skipped     int         `json:"skipped,omitempty"`
}

// AverageScoreResponse carries a course's running review average.
type AverageScoreResponse struct {
	CourseID     string  `json:"courseId"`
	AverageScore float64 `json:"averageScore"`
	ReviewCount  int     `json:"reviewCount"`
}

// CourseFilesResponse lists the blob IDs attached to a course.
type CourseFilesResponse struct {
	Documents []string `json:"documents"`
}
