package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/happysmilecode/yumenosite/internal/app/models/dto"
	"github.com/happysmilecode/yumenosite/internal/app/services"
	"github.com/happysmilecode/yumenosite/internal/middleware"
	"github.com/happysmilecode/yumenosite/internal/pkg/apperrors"
	"github.com/happysmilecode/yumenosite/internal/pkg/blobstore"
)

// AssessmentController handles assessment and submission operations.
type AssessmentController struct {
	assessmentService services.AssessmentService
	blobStore         blobstore.Store
}

// NewAssessmentController creates a new AssessmentController
func NewAssessmentController(assessmentService services.AssessmentService, blobStore blobstore.Store) *AssessmentController {
	return &AssessmentController{
		assessmentService: assessmentService,
		blobStore:         blobStore,
	}
}

// collectUploads stores every multipart file from the named field and
// returns the blob IDs in upload order.
func (c *AssessmentController) collectUploads(ctx *gin.Context, field string) ([]string, error) {
	form, err := ctx.MultipartForm()
	if err != nil {
		return nil, apperrors.NewValidationError("invalid multipart form")
	}
	files := form.File[field]
	if len(files) > maxUploadFiles {
		return nil, apperrors.NewValidationError(fmt.Sprintf("at most %d files per upload", maxUploadFiles))
	}

	blobIDs := make([]string, 0, len(files))
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			return nil, apperrors.NewStoreError(err, "opening uploaded file")
		}
		info, err := c.blobStore.Put(ctx, blobstore.BucketCourseUploads, fh.Filename, fh.Header.Get("Content-Type"), src)
		src.Close()
		if err != nil {
			return nil, err
		}
		blobIDs = append(blobIDs, info.ID)
	}
	return blobIDs, nil
}

// CreateAssessment handles creating an assessment with optional material files
// @Summary Create an assessment
// @Description Creates an assessment; material files arrive in the "documents" multipart field
// @Tags assessments
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Assessment name"
// @Param visibility formData bool false "Student visibility"
// @Param documents formData file false "Material files"
// @Success 201 {object} dto.APIResponse{data=models.Assessment} "Assessment created"
// @Failure 400 {object} dto.APIResponse "Missing name or too many files"
// @Router /course/assessment [post]
func (c *AssessmentController) CreateAssessment(ctx *gin.Context) {
	var req dto.CreateAssessmentRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	blobIDs, err := c.collectUploads(ctx, "documents")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	assessment, err := c.assessmentService.CreateAssessment(ctx, req.Name, blobIDs, req.Visibility)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: assessment})
}

// AttachAssessment handles linking an assessment to a course
// @Summary Attach an assessment to a course
// @Tags assessments
// @Accept json
// @Produce json
// @Param request body dto.AttachAssessmentRequest true "Course and assessment"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Assessment attached"
// @Failure 404 {object} dto.APIResponse "Course or assessment not found"
// @Router /course/assessment/addAssessment [put]
func (c *AssessmentController) AttachAssessment(ctx *gin.Context) {
	var req dto.AttachAssessmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	course, err := c.assessmentService.AttachToCourse(ctx, req.CourseID, req.AssessmentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: course})
}

// DeleteAssessment handles detaching an assessment from a course and deleting it
// @Summary Delete an assessment
// @Description Detaches the assessment from the course, then deletes the assessment document
// @Tags assessments
// @Produce json
// @Param courseId path string true "Course ID"
// @Param assessmentId path string true "Assessment ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Assessment deleted"
// @Failure 404 {object} dto.APIResponse "Course not found"
// @Failure 502 {object} dto.APIResponse "Detached but delete failed"
// @Router /course/assessment/deleteAssessment/{courseId}/{assessmentId} [delete]
func (c *AssessmentController) DeleteAssessment(ctx *gin.Context) {
	err := c.assessmentService.DetachAndDelete(ctx, ctx.Param("courseId"), ctx.Param("assessmentId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Assessment deleted"}})
}

// SubmitFiles handles a student submission upload
// @Summary Submit files for an assessment
// @Description Appends up to 10 "documents" files to the student's submission entry
// @Tags assessments
// @Accept multipart/form-data
// @Produce json
// @Param assessmentId formData string true "Assessment ID"
// @Param studentId formData string true "Student ID"
// @Param documents formData file true "Submission files"
// @Success 200 {object} dto.APIResponse{data=models.Assessment} "Submission recorded"
// @Failure 400 {object} dto.APIResponse "Missing fields or files"
// @Failure 404 {object} dto.APIResponse "Assessment not found"
// @Router /course/assessment/addStudentSubmission [post]
func (c *AssessmentController) SubmitFiles(ctx *gin.Context) {
	var req dto.SubmitRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	// The assessment must resolve before any bytes are persisted.
	if _, err := c.assessmentService.GetAssessment(ctx, req.AssessmentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	blobIDs, err := c.collectUploads(ctx, "documents")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	assessment, err := c.assessmentService.Submit(ctx, req.AssessmentID, req.StudentID, blobIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: assessment})
}

// GetAssessment handles retrieving an assessment by ID
// @Summary Get assessment by ID
// @Tags assessments
// @Produce json
// @Param assessmentId path string true "Assessment ID"
// @Success 200 {object} dto.APIResponse{data=models.Assessment} "Assessment retrieved"
// @Failure 404 {object} dto.APIResponse "Assessment not found"
// @Router /course/assessment/getAssessment/{assessmentId} [get]
func (c *AssessmentController) GetAssessment(ctx *gin.Context) {
	assessment, err := c.assessmentService.GetAssessment(ctx, ctx.Param("assessmentId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: assessment})
}

// GetAllAssessments handles listing a course's assessments
// @Summary Get all assessments of a course
// @Description Resolves the course's assessment references, skipping dangling IDs
// @Tags assessments
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.AssessmentListResponse} "Assessments retrieved"
// @Failure 404 {object} dto.APIResponse "Course not found"
// @Router /course/assessment/getAllAssessments/{courseId} [get]
func (c *AssessmentController) GetAllAssessments(ctx *gin.Context) {
	assessments, skipped, err := c.assessmentService.ListAllAssessments(ctx, ctx.Param("courseId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.AssessmentListResponse{
		Assessments: assessments,
		Skipped:     skipped,
	}})
}

// GetStudentSubmission handles retrieving one student's submission
// @Summary Get a student's submission
// @Tags assessments
// @Produce json
// @Param assessmentId path string true "Assessment ID"
// @Param studentId path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.Submission} "Submission retrieved"
// @Failure 404 {object} dto.APIResponse "Assessment or submission not found"
// @Router /course/assessment/getstudentSubmission/{assessmentId}/{studentId} [get]
func (c *AssessmentController) GetStudentSubmission(ctx *gin.Context) {
	submission, err := c.assessmentService.GetSubmission(ctx, ctx.Param("assessmentId"), ctx.Param("studentId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: submission})
}

// GetAllStudentSubmissions handles listing every submission of an assessment
// @Summary Get all submissions of an assessment
// @Tags assessments
// @Produce json
// @Param assessmentId path string true "Assessment ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Submission} "Submissions retrieved"
// @Failure 404 {object} dto.APIResponse "Assessment not found or no submissions"
// @Router /course/assessment/getAllStudentSubmissions/{assessmentId} [get]
func (c *AssessmentController) GetAllStudentSubmissions(ctx *gin.Context) {
	submissions, err := c.assessmentService.GetAllSubmissions(ctx, ctx.Param("assessmentId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: submissions})
}
