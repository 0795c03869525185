package constants

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Standard Response Field Keys
const (
	ResponseFieldTotal     = "total"
	ResponseFieldPage      = "page"
	ResponseFieldPageTotal = "page_total"
	ResponseFieldData      = "data"

	ResponseFieldMessage = "message"
	ResponseFieldDetails = "details"
	ResponseFieldError   = "error"
	ResponseFieldSuccess = "success"
)

// Pagination query parameters and bounds
const (
	QueryParamPage   = "page"
	QueryParamLimit  = "limit"
	QueryParamSearch = "search"

	DefaultPage   = "1"
	DefaultLimit  = "10"
	DefaultSearch = ""

	MinPage  = 1
	MinLimit = 1
	MaxLimit = 100
)

// PaginationParams carries the parsed, bounded pagination inputs.
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
	Search string
}

// ParsePaginationParams parses and bounds page/limit/search query parameters.
func ParsePaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery(QueryParamPage, DefaultPage))
	limit, _ := strconv.Atoi(c.DefaultQuery(QueryParamLimit, DefaultLimit))

	if page < MinPage {
		page = MinPage
	}
	if limit < MinLimit {
		limit = MinLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
		Search: c.DefaultQuery(QueryParamSearch, DefaultSearch),
	}
}

// BuildErrorResponse builds the standard error body {message, details?}.
func BuildErrorResponse(message string, details string) gin.H {
	resp := gin.H{ResponseFieldMessage: message}
	if details != "" {
		resp[ResponseFieldDetails] = details
	}
	return resp
}

// BuildSuccessResponse builds the standard success body {message}.
func BuildSuccessResponse(message string) gin.H {
	return gin.H{ResponseFieldMessage: message}
}

// BuildPageResponse builds the standard paginated list body.
func BuildPageResponse(data any, total int64, page, pageTotal int) gin.H {
	return gin.H{
		ResponseFieldData:      data,
		ResponseFieldTotal:     total,
		ResponseFieldPage:      page,
		ResponseFieldPageTotal: pageTotal,
	}
}
