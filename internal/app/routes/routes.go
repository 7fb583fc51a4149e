package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/happysmilecode/yumenosite/internal/app/controllers"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	courseController *controllers.CourseController,
	documentController *controllers.DocumentController,
	assessmentController *controllers.AssessmentController,
	userController *controllers.UserController,
) {
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	course := router.Group("/course")
	{
		course.POST("", courseController.CreateCourse)
		course.GET("", courseController.GetAllCourses)
		course.GET("/:id", courseController.GetCourse)
		course.GET("/search/:query", courseController.SearchCourses)
		course.PUT("/update", courseController.UpdateCourse)

		// Membership
		course.PUT("/enroll", courseController.Enroll)
		course.PUT("/assignTeaching", courseController.AssignTeaching)
		course.DELETE("/dropCourse/:courseId/:userId", courseController.DropCourse)

		// Reviews
		course.PUT("/addReview", courseController.AddReview)
		course.GET("/:id/averageScore", courseController.AverageScore)

		// Documents and images
		course.POST("/:id/upload", documentController.UploadDocuments)
		course.POST("/:id/uploadCourseImage", documentController.UploadCourseImage)
		course.GET("/:id/getCourseImage", documentController.GetCourseImage)
		course.GET("/getAllFiles/:id", documentController.GetAllFiles)
		course.GET("/documents/:blobId", documentController.DownloadDocument)
		course.POST("/documents/del/:blobId", documentController.DeleteDocument)

		// Assessments and submissions
		assessment := course.Group("/assessment")
		{
			assessment.POST("", assessmentController.CreateAssessment)
			assessment.PUT("/addAssessment", assessmentController.AttachAssessment)
			assessment.DELETE("/deleteAssessment/:courseId/:assessmentId", assessmentController.DeleteAssessment)
			assessment.POST("/addStudentSubmission", assessmentController.SubmitFiles)
			assessment.GET("/getAssessment/:assessmentId", assessmentController.GetAssessment)
			assessment.GET("/getAllAssessments/:courseId", assessmentController.GetAllAssessments)
			assessment.GET("/getstudentSubmission/:assessmentId/:studentId", assessmentController.GetStudentSubmission)
			assessment.GET("/getAllStudentSubmissions/:assessmentId", assessmentController.GetAllStudentSubmissions)
		}
	}

	user := router.Group("/user")
	{
		user.POST("", userController.CreateUser)
		user.GET("/:id", userController.GetUser)
		user.PUT("/addQuestionaire", userController.AddQuestionnaire)
		user.PUT("/password", userController.UpdatePassword)
		user.PUT("/addSocialInitiativeProfile", userController.AddSocialInitiativeProfile)
		user.DELETE("/deleteUser/:userId", userController.DeleteUser)
	}
}
