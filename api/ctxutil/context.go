// Package ctxutil 从 gin 请求中取出下游需要的 context 与调用方身份
package ctxutil

import (
	"context"

	"storefront/domain/identity"
	"storefront/infrastructure/persistence"

	"github.com/gin-gonic/gin"
)

// Context 返回请求 context；RequestID 中间件已把请求 ID 放进去
func Context(c *gin.Context) context.Context {
	return c.Request.Context()
}

// Caller 返回 Authenticate 中间件写入的身份，未认证时返回 ErrUnauthenticated
func Caller(c *gin.Context) (identity.Identity, error) {
	return identity.FromContext(c.Request.Context())
}

func RequestIDFromContext(ctx context.Context) string {
	return persistence.RequestIDFromContext(ctx)
}
