package httpresp

import "github.com/gin-gonic/gin"

// ListResponse is the envelope for every collection endpoint: the rows
// plus a total so clients can render counts without a second call.
type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

// OK writes a bare 200 payload.
func OK(c *gin.Context, data any) {
	c.JSON(200, data)
}

// List wraps a slice in the ListResponse envelope.
func List[T any](c *gin.Context, data []T) {
	c.JSON(200, ListResponse[T]{
		Data:  data,
		Total: len(data),
	})
}
