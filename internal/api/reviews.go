package api

import (
	"course_catalog/internal/catalog"    // Catalog services
	"course_catalog/internal/flash"      // Flash messages
	"course_catalog/internal/middleware" // Current user lookup
	"net/http"                           // HTTP status codes
	"strings"                            // String manipulation

	"github.com/gin-gonic/gin" // Gin web framework
)

// AddReviewRequest is the review form
type AddReviewRequest struct {
	Rating int    `form:"rating,default=5" json:"rating"` // Rating, 5 when omitted
	Text   string `form:"text" json:"text"`               // Review body
}

// ListReviewsHandler returns a sorted page of a course's reviews
func ListReviewsHandler(reviews *catalog.ReviewService, flashes *flash.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		courseID, ok := pathID(c, "id")
		if !ok {
			abortWithError(c, catalog.ErrCourseNotFound)
			return
		}
		sort := catalog.ParseSortMode(c.DefaultQuery("sort", string(catalog.SortNewest))) // Sort mode
		list, err := reviews.ListReviews(c.Request.Context(), courseID, sort, queryInt(c, "page"), middleware.CurrentUserID(c))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"course":      list.Course,                      // Course header
			"reviews":     list.Reviews,                     // Reviews with pagination info
			"sort_order":  list.Sort,                        // Applied sort
			"user_review": list.UserReview,                  // Viewer's own review
			"flashes":     flashes.Pop(c.Writer, c.Request), // Pending notifications
		})
	}
}

// AddReviewHandler submits the current user's review of a course
func AddReviewHandler(reviews *catalog.ReviewService, flashes *flash.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		courseID, ok := pathID(c, "id")
		if !ok {
			abortWithError(c, catalog.ErrCourseNotFound)
			return
		}
		var req AddReviewRequest // Bind form to struct
		if err := c.ShouldBind(&req); err != nil {
			// Non-numeric rating
			c.JSON(http.StatusBadRequest, gin.H{"error": catalog.ErrInvalidRating.Error()})
			return
		}
		origin := catalog.FromCourse // Where the form was submitted from
		if strings.Contains(c.Request.Referer(), "reviews") {
			origin = catalog.FromReviews
		}
		res := reviews.AddReview(c.Request.Context(), catalog.AddReviewInput{
			CourseID: courseID,                    // Reviewed course
			UserID:   middleware.CurrentUserID(c), // Acting user
			Rating:   req.Rating,                  // Submitted rating
			Text:     req.Text,                    // Submitted text
			Origin:   origin,                      // Redirect target selector
		})
		flashes.Add(c.Writer, c.Request, toFlash(res)) // Shown on the redirect target
		c.JSON(statusFor(res.Err), gin.H{"result": res})
	}
}
