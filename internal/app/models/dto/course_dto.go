package dto

// CreateCourseRequest is the payload for creating a course.
type CreateCourseRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Tags        string   `json:"tags"`
	Level       string   `json:"level"`
	Students    []string `json:"students"`
	Teachers    []string `json:"teachers"`
}

// UpdateCourseRequest updates a course's descriptive fields. Membership and
// file collections are mutated through their own endpoints only.
type UpdateCourseRequest struct {
	ID          string  `json:"id" binding:"required"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Tags        *string `json:"tags"`
	Level       *string `json:"level"`
}

// EnrollRequest enrolls a user in a course (or assigns them as teacher on
// the teaching endpoint).
type EnrollRequest struct {
	UserID   string `json:"userId" binding:"required"`
	CourseID string `json:"courseId" binding:"required"`
}

// AddReviewRequest appends a review to a course.
type AddReviewRequest struct {
	CourseID string `json:"courseId" binding:"required"`
	AuthorID string `json:"authorId" binding:"required"`
	Text     string `json:"courseReview"`
	Score    int    `json:"score" binding:"required"`
	Anon     bool   `json:"anon"`
}
