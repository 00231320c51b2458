package api

import (
	"course_catalog/internal/catalog"    // Catalog services
	"course_catalog/internal/flash"      // Flash messages
	"course_catalog/internal/middleware" // Current user lookup
	"errors"                             // Error matching
	"net/http"                           // HTTP status codes
	"strconv"                            // String conversion
	"strings"                            // String manipulation

	"github.com/gin-gonic/gin" // Gin web framework
)

// SearchParams echoes the active course filter back to the client
type SearchParams struct {
	Name        string `json:"name"`         // Name substring
	CategoryIDs []uint `json:"category_ids"` // Selected categories
}

// searchParams reads the course filter from the query string; blank and
// non-numeric category ids are ignored
func searchParams(c *gin.Context) SearchParams {
	params := SearchParams{Name: strings.TrimSpace(c.Query("name")), CategoryIDs: []uint{}}
	for _, raw := range c.QueryArray("category_ids") {
		if id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64); err == nil && id > 0 {
			params.CategoryIDs = append(params.CategoryIDs, uint(id))
		}
	}
	return params
}

// ListCoursesHandler returns a filtered, paginated page of courses
func ListCoursesHandler(courses *catalog.CourseService, flashes *flash.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context() // Request-scoped context
		params := searchParams(c)  // Filter from the query string
		filter := catalog.CourseFilter{Name: params.Name, CategoryIDs: params.CategoryIDs}
		page, err := courses.Search(ctx, filter, queryInt(c, "page"), queryInt(c, "per_page"))
		if err != nil {
			abortWithError(c, err) // Storage failure
			return
		}
		categories, err := courses.Categories(ctx) // Filter sidebar
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"courses":       page,                             // Courses with pagination info
			"categories":    categories,                       // All categories
			"search_params": params,                           // Active filter
			"flashes":       flashes.Pop(c.Writer, c.Request), // Pending notifications
		})
	}
}

// ListCategoriesHandler returns every category
func ListCategoriesHandler(courses *catalog.CourseService) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := courses.Categories(c.Request.Context())
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": categories})
	}
}

// CourseFormRequest is the multipart course creation form
type CourseFormRequest struct {
	AuthorID   string `form:"author_id" json:"author_id"`     // Author, defaults to the current user
	Name       string `form:"name" json:"name"`               // Course name
	CategoryID string `form:"category_id" json:"category_id"` // Required category
	ShortDesc  string `form:"short_desc" json:"short_desc"`   // Short description
	FullDesc   string `form:"full_desc" json:"full_desc"`     // Full description
}

// NewCourseHandler returns what the creation form needs
func NewCourseHandler(courses *catalog.CourseService, flashes *flash.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := courses.FormContext(c.Request.Context())
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"categories": form.Categories,                  // Category select
			"users":      form.Users,                       // Author select
			"course":     CourseFormRequest{},              // Empty form
			"flashes":    flashes.Pop(c.Writer, c.Request), // Pending notifications
		})
	}
}

// CreateCourseHandler creates a course from the multipart form
func CreateCourseHandler(courses *catalog.CourseService, flashes *flash.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context() // Request-scoped context
		var req CourseFormRequest  // Raw form values, echoed back on failure
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form"})
			return
		}
		in := catalog.CreateCourseInput{
			AuthorID:   parseID(req.AuthorID),   // Selected author
			Name:       req.Name,                // Course name
			CategoryID: parseID(req.CategoryID), // Selected category
			ShortDesc:  req.ShortDesc,           // Short description
			FullDesc:   req.FullDesc,            // Full description
		}
		// Without an explicit author the current user authors the course
		if strings.TrimSpace(req.AuthorID) == "" {
			in.AuthorID = middleware.CurrentUserID(c)
		}
		// Optional background image
		fh, err := c.FormFile("background_img")
		switch {
		case err == nil && fh.Filename != "":
			file, err := fh.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read the uploaded file"})
				return
			}
			defer file.Close() // Released at the end of the request
			in.Image = &catalog.Upload{FileName: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Body: file}
		case err != nil && !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid upload"})
			return
		}

		res, course := courses.Create(ctx, in)
		if !res.Success {
			// Re-present the form with the submitted values and the error
			form, ferr := courses.FormContext(ctx)
			if ferr != nil {
				abortWithError(c, ferr)
				return
			}
			c.JSON(statusFor(res.Err), gin.H{
				"result":     res,                           // Failure details
				"course":     req,                           // Submitted values
				"categories": form.Categories,               // Category select
				"users":      form.Users,                    // Author select
				"flashes":    []flash.Message{toFlash(res)}, // Shown with this view
			})
			return
		}
		flashes.Add(c.Writer, c.Request, toFlash(res)) // Shown on the redirect target
		c.JSON(http.StatusCreated, gin.H{"result": res, "course": course})
	}
}

// ShowCourseHandler returns the course page
func ShowCourseHandler(reviews *catalog.ReviewService, flashes *flash.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		courseID, ok := pathID(c, "id")
		if !ok {
			abortWithError(c, catalog.ErrCourseNotFound)
			return
		}
		detail, err := reviews.CourseDetail(c.Request.Context(), courseID, middleware.CurrentUserID(c))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"course":         detail.Course,                    // Course with relations
			"rating":         detail.Rating,                    // Average rating
			"latest_reviews": detail.LatestReviews,             // Five newest reviews
			"user_review":    detail.UserReview,                // Viewer's own review
			"flashes":        flashes.Pop(c.Writer, c.Request), // Pending notifications
		})
	}
}

// parseID parses a form id, 0 when blank or invalid
func parseID(s string) uint {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
