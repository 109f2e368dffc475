/*
Package response - API 层统一响应处理

1. HTTP 状态码由 pkg/errors 的错误码决定，领域层和应用层不感知 HTTP
2. 错误响应不暴露内部细节，内部错误统一返回 "internal server error"
3. 所有响应携带 RequestID 用于日志追踪

响应格式:

	成功: { success: true, data: {...}, message: "...", code: 200, request_id: "..." }
	失败: { success: false, error: "ERROR_CODE", message: "用户可见消息", code: 4xx/5xx, request_id: "..." }
*/
package response

import "github.com/gin-gonic/gin"

// RequestIDKey 是 gin context 中保存请求 ID 的键。
const RequestIDKey = "request_id"

// Response 是统一响应结构。
type Response struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"` // 错误码，不是错误详情
	Code      int    `json:"code"`            // HTTP 状态码
	Message   string `json:"message"`         // 用户可见消息
	RequestID string `json:"request_id,omitempty"`
}

// GetRequestID 从 gin 上下文读取请求 ID
func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}
