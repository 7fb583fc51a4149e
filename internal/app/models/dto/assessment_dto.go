package dto

// CreateAssessmentRequest creates an assessment. Assignment material files
// are uploaded as multipart alongside this form.
type CreateAssessmentRequest struct {
	Name       string `form:"name" json:"name" binding:"required"`
	Visibility bool   `form:"visibility" json:"visibility"`
}

// AttachAssessmentRequest links an existing assessment to a course.
type AttachAssessmentRequest struct {
	CourseID     string `json:"courseId" binding:"required"`
	AssessmentID string `json:"assessmentId" binding:"required"`
}

// SubmitRequest accompanies the multipart form of a student submission
// upload.
type SubmitRequest struct {
	AssessmentID string `form:"assessmentId" binding:"required"`
	StudentID    string `form:"studentId" binding:"required"`
}
