package middleware

import (
	"concert_connect_backend/internal/config"
	"concert_connect_backend/internal/repository"
	"concert_connect_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

// ResolveCredential 归一化两条认证路径：优先按 HS256 令牌解析，
// 失败且载荷形如邮箱时走旧版 web 会话代理的邮箱直查兼容逻辑
func ResolveCredential(token string, userRepo *repository.UserRepository, secret string) (*util.Credential, error) {
	if claims, err := util.ParseJWT(token, secret); err == nil {
		return &util.Credential{
			Kind:   util.CredentialSigned,
			UserID: claims.UserID,
			Email:  claims.Email,
		}, nil
	}

	if strings.Contains(token, "@") {
		user, err := userRepo.FindByEmail(strings.ToLower(token))
		if err == nil && !user.Disabled {
			return &util.Credential{
				Kind:   util.CredentialLegacyEmail,
				UserID: user.ID,
				Email:  user.Email,
			}, nil
		}
	}

	return nil, util.ErrInvalidCredentials
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(header)
}

// Auth 强制认证，失败返回 401
func Auth(userRepo *repository.UserRepository, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		cred, err := ResolveCredential(token, userRepo, cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("credential", cred)
		c.Set("userID", cred.UserID)
		c.Next()
	}
}

// TryAuth 可选认证，无凭证或凭证无效时继续匿名处理
func TryAuth(userRepo *repository.UserRepository, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token != "" {
			if cred, err := ResolveCredential(token, userRepo, cfg.JWT.Secret); err == nil {
				c.Set("credential", cred)
				c.Set("userID", cred.UserID)
			}
		}
		c.Next()
	}
}

// Activity 认证请求顺带刷新用户的最后活跃时间
func Activity(userRepo *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := util.CurrentUserID(c); userID != 0 {
			go userRepo.UpdateLastSeen(userID)
		}
		c.Next()
	}
}
