package middleware

import (
	"quizmaster_backend/internal/config"
	"quizmaster_backend/internal/model"
	"quizmaster_backend/internal/session"
	"quizmaster_backend/internal/util"
	"quizmaster_backend/pkg/logger"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware 解析 Bearer 令牌并加载对应会话；会话不存在或已过期返回 401
func AuthMiddleware(cfg *config.Config, sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			logger.Log.Debug("JWT解析错误", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		sess, err := sessions.Resolve(c.Request.Context(), claims.SessionID)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(util.ContextKeyClaims, claims)
		session.Attach(c, sess)
		c.Next()
	}
}

// RoleMiddleware 会话角色不匹配时返回 403，并给出对应角色的登录入口
func RoleMiddleware(role model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := session.Current(c)
		if sess == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		if sess.Role != role {
			util.ErrorWithData(c, 403, "Forbidden", gin.H{"loginPath": role.LoginPath()})
			c.Abort()
			return
		}
		c.Next()
	}
}
