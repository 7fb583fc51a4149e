package controllers

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/happysmilecode/yumenosite/internal/app/models/dto"
	"github.com/happysmilecode/yumenosite/internal/app/services"
	"github.com/happysmilecode/yumenosite/internal/middleware"
	"github.com/happysmilecode/yumenosite/internal/pkg/apperrors"
	"github.com/happysmilecode/yumenosite/internal/pkg/blobstore"
	"github.com/happysmilecode/yumenosite/internal/pkg/logger"
)

// maxUploadFiles caps the number of files accepted by a single multipart
// upload request.
const maxUploadFiles = 10

// DocumentController handles blob upload, download and deletion together
// with the course references that point at the blobs. Blobs are always
// persisted before being linked; references are always removed before the
// blob is deleted.
type DocumentController struct {
	courseService services.CourseService
	blobStore     blobstore.Store
}

// NewDocumentController creates a new DocumentController
func NewDocumentController(courseService services.CourseService, blobStore blobstore.Store) *DocumentController {
	return &DocumentController{
		courseService: courseService,
		blobStore:     blobStore,
	}
}

// storeUpload streams one multipart file into the blob store.
func (c *DocumentController) storeUpload(ctx *gin.Context, bucket string, fh *multipart.FileHeader) (blobstore.Info, error) {
	src, err := fh.Open()
	if err != nil {
		return blobstore.Info{}, apperrors.NewStoreError(err, "opening uploaded file")
	}
	defer src.Close()

	return c.blobStore.Put(ctx, bucket, fh.Filename, fh.Header.Get("Content-Type"), src)
}

// UploadDocuments handles attaching uploaded files to a course
// @Summary Upload course documents
// @Description Accepts up to 10 files in the "documents" field, stores them and appends the blob IDs to the course
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Course ID"
// @Param documents formData file true "Files to upload"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Files attached"
// @Failure 400 {object} dto.APIResponse "No files or too many files"
// @Failure 404 {object} dto.APIResponse "Course not found"
// @Router /course/{id}/upload [post]
func (c *DocumentController) UploadDocuments(ctx *gin.Context) {
	courseID := ctx.Param("id")

	// The course must exist before any bytes are persisted.
	if _, err := c.courseService.GetCourse(ctx, courseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("invalid multipart form"))
		return
	}
	files := form.File["documents"]
	if len(files) == 0 {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("at least one file is required in the documents field"))
		return
	}
	if len(files) > maxUploadFiles {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError(fmt.Sprintf("at most %d files per upload", maxUploadFiles)))
		return
	}

	// Store first, link second. Blob IDs only enter the course document
	// once every byte is on disk.
	blobIDs := make([]string, 0, len(files))
	for _, fh := range files {
		info, err := c.storeUpload(ctx, blobstore.BucketCourseUploads, fh)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		blobIDs = append(blobIDs, info.ID)
	}

	course, err := c.courseService.AttachFiles(ctx, courseID, blobIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: course})
}

// UploadCourseImage handles replacing a course's image
// @Summary Upload a course image
// @Description Accepts exactly one file in the "document" field and replaces the course image reference
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Course ID"
// @Param document formData file true "Image file"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Image replaced"
// @Failure 404 {object} dto.APIResponse "Course not found"
// @Router /course/{id}/uploadCourseImage [post]
func (c *DocumentController) UploadCourseImage(ctx *gin.Context) {
	courseID := ctx.Param("id")

	if _, err := c.courseService.GetCourse(ctx, courseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	fh, err := ctx.FormFile("document")
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("an image file is required in the document field"))
		return
	}

	info, err := c.storeUpload(ctx, blobstore.BucketCourseImages, fh)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	course, previous, err := c.courseService.SetImage(ctx, courseID, info.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	// The replaced image is unreferenced now; deleting it is best-effort.
	if previous != "" {
		if err := c.blobStore.Delete(ctx, previous); err != nil {
			logger.Warn().Err(err).Str("blobId", previous).Msg("Failed to delete replaced course image")
		}
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: course})
}

// GetCourseImage handles streaming a course's image
// @Summary Download a course image
// @Tags documents
// @Produce octet-stream
// @Param id path string true "Course ID"
// @Success 200 {file} binary "Image content"
// @Failure 404 {object} dto.APIResponse "Course or image not found"
// @Router /course/{id}/getCourseImage [get]
func (c *DocumentController) GetCourseImage(ctx *gin.Context) {
	course, err := c.courseService.GetCourse(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if course.Image == "" {
		middleware.HandleAPIError(ctx, apperrors.ErrBlobNotFound)
		return
	}

	c.streamBlob(ctx, course.Image)
}

// GetAllFiles handles listing the blob IDs attached to a course
// @Summary List course files
// @Tags documents
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.CourseFilesResponse} "File list"
// @Failure 404 {object} dto.APIResponse "Course not found"
// @Router /course/getAllFiles/{id} [get]
func (c *DocumentController) GetAllFiles(ctx *gin.Context) {
	course, err := c.courseService.GetCourse(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.CourseFilesResponse{Documents: course.Files}})
}

// DownloadDocument handles streaming a blob's content
// @Summary Download a document
// @Tags documents
// @Produce octet-stream
// @Param blobId path string true "Blob ID"
// @Success 200 {file} binary "File content"
// @Failure 404 {object} dto.APIResponse "Blob not found"
// @Router /course/documents/{blobId} [get]
func (c *DocumentController) DownloadDocument(ctx *gin.Context) {
	c.streamBlob(ctx, ctx.Param("blobId"))
}

func (c *DocumentController) streamBlob(ctx *gin.Context, blobID string) {
	reader, info, err := c.blobStore.Open(ctx, blobID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer reader.Close()

	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	ctx.DataFromReader(http.StatusOK, info.Size, contentType, reader, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", info.Filename),
	})
}

// DeleteDocument handles removing a blob and every course reference to it
// @Summary Delete a document
// @Description Removes the blob from all course file lists and image slots, then deletes the content
// @Tags documents
// @Produce json
// @Param blobId path string true "Blob ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Blob deleted"
// @Failure 404 {object} dto.APIResponse "Blob not found"
// @Router /course/documents/del/{blobId} [post]
func (c *DocumentController) DeleteDocument(ctx *gin.Context) {
	blobID := ctx.Param("blobId")

	if _, err := c.blobStore.Stat(ctx, blobID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	// References go first so a crash between the two steps can orphan the
	// blob but never leave a course pointing at deleted content.
	detached, err := c.courseService.DetachBlob(ctx, blobID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.blobStore.Delete(ctx, blobID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	logger.Info().Str("blobId", blobID).Int("detachedCourses", detached).Msg("Document deleted")
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Document deleted"}})
}
