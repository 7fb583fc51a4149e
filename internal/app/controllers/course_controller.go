package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/happysmilecode/yumenosite/internal/app/models/dto"
	"github.com/happysmilecode/yumenosite/internal/app/services"
	"github.com/happysmilecode/yumenosite/internal/middleware"
)

// CourseController handles course CRUD, search, membership and review
// operations.
type CourseController struct {
	courseService     services.CourseService
	membershipService services.MembershipService
	reviewService     services.ReviewService
}

// NewCourseController creates a new CourseController
func NewCourseController(
	courseService services.CourseService,
	membershipService services.MembershipService,
	reviewService services.ReviewService,
) *CourseController {
	return &CourseController{
		courseService:     courseService,
		membershipService: membershipService,
		reviewService:     reviewService,
	}
}

// CreateCourse handles creating a new course
// @Summary Create a course
// @Description Creates a course document, optionally seeded with students and teachers
// @Tags courses
// @Accept json
// @Produce json
// @Param request body dto.CreateCourseRequest true "Course data"
// @Success 201 {object} dto.APIResponse{data=models.Course} "Course created"
// @Failure 400 {object} dto.APIResponse "Invalid request"
// @Router /course [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	course, err := c.courseService.CreateCourse(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: course})
}

// GetCourse handles retrieving a course by ID
// @Summary Get course by ID
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Course retrieved"
// @Failure 404 {object} dto.APIResponse "Course not found"
// @Router /course/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	course, err := c.courseService.GetCourse(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: course})
}

// GetAllCourses handles retrieving every course
// @Summary Get all courses
// @Tags courses
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Course} "Courses retrieved"
// @Router /course [get]
func (c *CourseController) GetAllCourses(ctx *gin.Context) {
	courses, err := c.courseService.GetAllCourses(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: courses})
}

// SearchCourses handles course search
// @Summary Search courses
// @Description Case-insensitive substring match over title, teachers, level and tags
// @Tags courses
// @Produce json
// @Param query path string true "Search query"
// @Success 200 {object} dto.APIResponse{data=[]models.Course} "Matching courses"
// @Router /course/search/{query} [get]
func (c *CourseController) SearchCourses(ctx *gin.Context) {
	courses, err := c.courseService.SearchCourses(ctx, ctx.Param("query"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: courses})
}

// UpdateCourse handles updating a course's descriptive fields
// @Summary Update a course
// @Description Updates title, description, tags or level; absent fields are left untouched
// @Tags courses
// @Accept json
// @Produce json
// @Param request body dto.UpdateCourseRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Course updated"
// @Failure 404 {object} dto.APIResponse "Course not found"
// @Router /course/update [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	var req dto.UpdateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	course, err := c.courseService.UpdateCourse(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: course})
}

// Enroll handles enrolling a user in a course
// @Summary Enroll a user
// @Description Adds the user to the course's students set and mirrors the ref on the user
// @Tags courses
// @Accept json
// @Produce json
// @Param request body dto.EnrollRequest true "User and course"
// @Success 200 {object} dto.APIResponse{data=models.Course} "User enrolled"
// @Failure 404 {object} dto.APIResponse "Course or user not found"
// @Failure 502 {object} dto.APIResponse "Course updated but user document failed"
// @Router /course/enroll [put]
func (c *CourseController) Enroll(ctx *gin.Context) {
	var req dto.EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	course, err := c.membershipService.Enroll(ctx, req.UserID, req.CourseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: course})
}

// AssignTeaching handles assigning a user as a course teacher
// @Summary Assign a teacher
// @Tags courses
// @Accept json
// @Produce json
// @Param request body dto.EnrollRequest true "User and course"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Teacher assigned"
// @Failure 404 {object} dto.APIResponse "Course or user not found"
// @Router /course/assignTeaching [put]
func (c *CourseController) AssignTeaching(ctx *gin.Context) {
	var req dto.EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	course, err := c.membershipService.AssignTeaching(ctx, req.UserID, req.CourseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: course})
}

// DropCourse handles dropping a user from a course
// @Summary Drop a user from a course
// @Tags courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Param userId path string true "User ID"
// @Success 200 {object} dto.APIResponse{data=models.Course} "User dropped"
// @Failure 404 {object} dto.APIResponse "Course or user not found"
// @Router /course/dropCourse/{courseId}/{userId} [delete]
func (c *CourseController) DropCourse(ctx *gin.Context) {
	course, err := c.membershipService.Drop(ctx, ctx.Param("userId"), ctx.Param("courseId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: course})
}

// AddReview handles appending a review to a course
// @Summary Add a course review
// @Description Appends an immutable review; the score must be between 1 and 5
// @Tags courses
// @Accept json
// @Produce json
// @Param request body dto.AddReviewRequest true "Review data"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Review added"
// @Failure 400 {object} dto.APIResponse "Score out of range"
// @Failure 404 {object} dto.APIResponse "Course not found"
// @Router /course/addReview [put]
func (c *CourseController) AddReview(ctx *gin.Context) {
	var req dto.AddReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	course, err := c.reviewService.AddReview(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: course})
}

// AverageScore handles computing a course's average review score
// @Summary Get a course's average review score
// @Description Mean of all review scores; a course with no reviews averages 0
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.AverageScoreResponse} "Average computed"
// @Failure 404 {object} dto.APIResponse "Course not found"
// @Router /course/{id}/averageScore [get]
func (c *CourseController) AverageScore(ctx *gin.Context) {
	courseID := ctx.Param("id")
	avg, count, err := c.reviewService.AverageScore(ctx, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.AverageScoreResponse{
		CourseID:     courseID,
		AverageScore: avg,
		ReviewCount:  count,
	}})
}
