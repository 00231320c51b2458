package api

import (
	"course_catalog/internal/catalog"    // Catalog services
	"course_catalog/internal/flash"      // Flash messages
	"course_catalog/internal/middleware" // Custom middleware

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// Deps are the collaborators the handlers need
type Deps struct {
	DB        *gorm.DB               // Database handle
	Courses   *catalog.CourseService // Course listing and creation
	Reviews   *catalog.ReviewService // Reviews and aggregates
	Images    *catalog.ImageSaver    // Uploaded images
	Flashes   *flash.Store           // Flash message sessions
	JWTSecret string                 // Token signing key
}

// RegisterRoutes mounts every endpoint on r
func RegisterRoutes(r *gin.Engine, d Deps) {
	r.POST("/auth/login", LoginHandler(d.DB, d.JWTSecret)) // Login endpoint
	r.GET("/categories", ListCategoriesHandler(d.Courses)) // Category list
	r.GET("/images/:id", ImageHandler(d.Images))           // Stored images

	courses := r.Group("/courses")

	// Public pages, personalised when a token is presented
	public := courses.Group("", middleware.OptionalJWTMiddleware(d.JWTSecret))
	public.GET("/", ListCoursesHandler(d.Courses, d.Flashes))            // Course list
	public.GET("/:id", ShowCourseHandler(d.Reviews, d.Flashes))          // Course page
	public.GET("/:id/reviews", ListReviewsHandler(d.Reviews, d.Flashes)) // Review list

	// Authenticated actions
	authed := courses.Group("", middleware.JWTAuthMiddleware(d.JWTSecret), middleware.ExistingUserMiddleware(d.DB))
	authed.GET("/new", NewCourseHandler(d.Courses, d.Flashes))             // Creation form
	authed.POST("/create", CreateCourseHandler(d.Courses, d.Flashes))      // Create course
	authed.POST("/:id/add_review", AddReviewHandler(d.Reviews, d.Flashes)) // Submit review
}
