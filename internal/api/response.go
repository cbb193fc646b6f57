package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apperrors "github.com/wfunc/battle-slot/internal/errors"
	"github.com/wfunc/battle-slot/internal/repository"
)

const (
	headerRequestID = "X-Request-ID"
	ctxRequestID    = "requestID"
)

// SuccessResponse 成功响应
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse 分页响应
type PageResponse struct {
	Success    bool                   `json:"success"`
	Data       interface{}            `json:"data"`
	Pagination *repository.Pagination `json:"pagination"`
}

// requestID 为每个请求分配ID
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(ctxRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, SuccessResponse{Success: true, Data: data})
}

func respondPage(c *gin.Context, data interface{}, pagination *repository.Pagination) {
	c.JSON(http.StatusOK, PageResponse{Success: true, Data: data, Pagination: pagination})
}

// respondError 应用错误转换为HTTP响应，内部错误不带调用栈
func respondError(c *gin.Context, err error) {
	appErr := apperrors.As(err)
	body := *appErr
	body.Stack = nil
	c.JSON(appErr.HTTPStatus(), apperrors.NewErrorResponse(&body, c.GetString(ctxRequestID)))
}

// bindError 请求体校验失败
func bindError(c *gin.Context, err error) {
	respondError(c, apperrors.Wrap(err, apperrors.ErrInvalidParam))
}

// paginationFrom 读取 page、page_size 查询参数
func paginationFrom(c *gin.Context) *repository.Pagination {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	return repository.NewPagination(page, size)
}
