package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Success bool `json:"success"`
	Code    int  `json:"code"`
	Extras  any  `json:"extras"`
}

func NewResponse(success bool, code int, extras any) Response {
	return Response{
		Success: success,
		Code:    code,
		Extras:  extras,
	}
}

// SuccessResponseList returns a JSON response with a list of items
func SuccessResponseList[T any](c *gin.Context, list []T) {
	if list == nil {
		list = []T{}
	}
	c.JSON(
		http.StatusOK,
		NewResponse(
			true,
			http.StatusOK,
			map[string]any{
				"list": list,
			},
		))
}

// SuccessResponse returns a JSON response with a success message with no type limitation
func SuccessResponse(c *gin.Context, extras any) {
	c.JSON(
		http.StatusOK,
		NewResponse(
			true,
			http.StatusOK,
			extras,
		))
}

// CreatedResponse returns a 201 JSON response for a newly created resource
func CreatedResponse(c *gin.Context, extras any) {
	c.JSON(
		http.StatusCreated,
		NewResponse(
			true,
			http.StatusCreated,
			extras,
		))
}

// NoContent acknowledges a successful mutation with an empty body
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func ErrorResponse(c *gin.Context, code int, message string) {
	c.JSON(
		code,
		NewResponse(
			false,
			code,
			map[string]any{
				"message": message,
			},
		))
}
