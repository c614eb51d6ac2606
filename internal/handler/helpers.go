package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/linkstash/server/internal/listing"
	"github.com/linkstash/server/internal/pkg/errcode"
	appErr "github.com/linkstash/server/internal/pkg/errors"
	"github.com/linkstash/server/internal/pkg/response"
)

func getUserID(c *gin.Context) int64 {
	value, _ := c.Get("user_id")
	userID, _ := value.(int64)
	return userID
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID, _ := c.Get("request_id")
	logutil.GetLogger(c.Request.Context()).Warn("request failed",
		zap.Any("request_id", requestID),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int64("user_id", getUserID(c)),
		zap.Error(err),
	)
	switch {
	case appErr.IsNotFound(err):
		response.Error(c, errcode.ErrNotFound, "not found")
	case appErr.IsInvalid(err):
		response.Error(c, errcode.ErrInvalid, "invalid request")
	case appErr.IsConflict(err):
		response.Error(c, errcode.ErrConflict, "conflict")
	case err == appErr.ErrUnauthorized:
		response.Error(c, errcode.ErrUnauthorized, "unauthorized")
	case err == appErr.ErrForbidden:
		response.Error(c, errcode.ErrForbidden, "forbidden")
	default:
		response.Error(c, errcode.ErrInternal, "internal error")
	}
}

func paramID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErr.ErrInvalid
	}
	return id, nil
}

const dateLayout = "2006-01-02"

// parseListQuery reads the listing query parameters: the cursor triple
// (id/order/take) plus every optional filter criterion.
func parseListQuery(c *gin.Context) (listing.Filters, listing.Cursor, error) {
	var filters listing.Filters

	var cursorID *int64
	if value := c.Query("id"); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return filters, listing.Cursor{}, appErr.ErrInvalid
		}
		cursorID = &parsed
	}
	order, err := listing.ParseOrder(c.Query("order"))
	if err != nil {
		return filters, listing.Cursor{}, err
	}
	take := 0
	if value := c.Query("take"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return filters, listing.Cursor{}, appErr.ErrInvalid
		}
		take = parsed
	}
	cursor, err := listing.NewCursor(cursorID, order, take)
	if err != nil {
		return filters, listing.Cursor{}, err
	}

	filters.Keyword = c.Query("keyword")
	filters.TagKeyword = c.Query("tagKeyword")
	if value := c.Query("startDate"); value != "" {
		parsed, err := time.Parse(dateLayout, value)
		if err != nil {
			return filters, listing.Cursor{}, appErr.ErrInvalid
		}
		filters.StartDate = &parsed
	}
	if value := c.Query("endDate"); value != "" {
		parsed, err := time.Parse(dateLayout, value)
		if err != nil {
			return filters, listing.Cursor{}, appErr.ErrInvalid
		}
		filters.EndDate = &parsed
	}
	if filters.IsBookmarked, err = queryBool(c, "isBookmarked"); err != nil {
		return filters, listing.Cursor{}, err
	}
	if filters.HasThumbnail, err = queryBool(c, "hasThumbnail"); err != nil {
		return filters, listing.Cursor{}, err
	}
	if filters.CreatedByMe, err = queryBool(c, "createdByMe"); err != nil {
		return filters, listing.Cursor{}, err
	}
	return filters, cursor, nil
}

func queryBool(c *gin.Context, name string) (*bool, error) {
	value := c.Query(name)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return nil, appErr.ErrInvalid
	}
	return &parsed, nil
}
