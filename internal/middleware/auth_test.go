package middleware

import (
	"concert_connect_backend/internal/config"
	"concert_connect_backend/internal/model"
	"concert_connect_backend/internal/repository"
	"concert_connect_backend/internal/util"
	"concert_connect_backend/pkg/database"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) *repository.UserRepository {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return repository.NewUserRepository(db)
}

func testCfg() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:     "test-secret-test-secret-test-secret",
			ExpireTime: time.Hour,
		},
	}
}

func whoAmI(c *gin.Context) {
	cred := util.GetCredential(c)
	if cred == nil {
		util.Success(c, gin.H{"anonymous": true})
		return
	}
	util.Success(c, gin.H{"userId": cred.UserID, "kind": cred.Kind})
}

func doRequest(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	return resp.Data
}

func TestAuthWithSignedToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newTestRepo(t)
	cfg := testCfg()

	user := &model.User{Email: "fan@example.com", Password: "x", FirstName: "Ada", LastName: "L"}
	require.NoError(t, repo.Create(user))

	token, err := util.GenerateJWT(user, cfg.JWT.Secret, cfg.JWT.ExpireTime)
	require.NoError(t, err)

	router := gin.New()
	router.GET("/whoami", Auth(repo, cfg), whoAmI)

	w := doRequest(router, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.EqualValues(t, user.ID, data["userId"])
	assert.Equal(t, string(util.CredentialSigned), data["kind"])
}

func TestAuthWithLegacyEmailToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newTestRepo(t)
	cfg := testCfg()

	user := &model.User{Email: "fan@example.com", Password: "x", FirstName: "Ada", LastName: "L"}
	require.NoError(t, repo.Create(user))

	router := gin.New()
	router.GET("/whoami", Auth(repo, cfg), whoAmI)

	// 旧版 web 会话代理直接透传邮箱，大小写不敏感
	w := doRequest(router, "Bearer Fan@Example.com")
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.EqualValues(t, user.ID, data["userId"])
	assert.Equal(t, string(util.CredentialLegacyEmail), data["kind"])

	// 禁用用户的邮箱凭证失效
	require.NoError(t, repo.DB.Model(user).Update("disabled", true).Error)
	w = doRequest(router, "Bearer fan@example.com")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsInvalidCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newTestRepo(t)
	cfg := testCfg()

	router := gin.New()
	router.GET("/whoami", Auth(repo, cfg), whoAmI)

	for _, authorization := range []string{
		"",
		"Bearer not-a-token",
		"Bearer unknown@example.com",
	} {
		w := doRequest(router, authorization)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "authorization %q", authorization)
	}
}

func TestTryAuthAllowsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newTestRepo(t)
	cfg := testCfg()

	user := &model.User{Email: "fan@example.com", Password: "x", FirstName: "Ada", LastName: "L"}
	require.NoError(t, repo.Create(user))

	router := gin.New()
	router.GET("/whoami", TryAuth(repo, cfg), whoAmI)

	// 无凭证和无效凭证都匿名放行
	for _, authorization := range []string{"", "Bearer bad-token"} {
		w := doRequest(router, authorization)
		require.Equal(t, http.StatusOK, w.Code)
		data := decodeData(t, w)
		assert.Equal(t, true, data["anonymous"])
	}

	token, err := util.GenerateJWT(user, cfg.JWT.Secret, cfg.JWT.ExpireTime)
	require.NoError(t, err)
	w := doRequest(router, "Bearer "+token)
	data := decodeData(t, w)
	assert.EqualValues(t, user.ID, data["userId"])
}
