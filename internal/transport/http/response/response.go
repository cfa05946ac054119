package response

import "github.com/gin-gonic/gin"

// ErrorBody mirrors the {"detail": "..."} error shape the browser client
// expects on every non-2xx response.
type ErrorBody struct {
	Detail string `json:"detail"`
}

func Error(c *gin.Context, httpStatus int, detail string) {
	c.JSON(httpStatus, ErrorBody{Detail: detail})
}
