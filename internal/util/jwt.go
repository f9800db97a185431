package util

import (
	"concert_connect_backend/internal/model"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

func GenerateJWT(user *model.User, secret string, expiration time.Duration) (string, error) {
	expirationTime := time.Now().Add(expiration)

	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseJWT(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrTokenInvalidClaims
}

type CredentialKind string

const (
	// CredentialSigned HS256 签名令牌（移动端）
	CredentialSigned CredentialKind = "signed"
	// CredentialLegacyEmail 旧版 web 会话代理直接透传邮箱作为凭证
	CredentialLegacyEmail CredentialKind = "legacy_email"
)

// Credential 认证后的标记凭证类型，两条认证路径归一到同一个结构
type Credential struct {
	Kind   CredentialKind `json:"kind"`
	UserID uint           `json:"userId"`
	Email  string         `json:"email"`
}

func GetCredential(c *gin.Context) *Credential {
	v, exists := c.Get("credential")
	if !exists {
		return nil
	}
	cred, ok := v.(*Credential)
	if !ok {
		return nil
	}
	return cred
}

// CurrentUserID 返回 0 表示未认证
func CurrentUserID(c *gin.Context) uint {
	cred := GetCredential(c)
	if cred == nil {
		return 0
	}
	return cred.UserID
}
