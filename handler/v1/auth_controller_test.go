package v1_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	w := performJSON(http.MethodPost, "/v1/auth/register", "", map[string]string{
		"username": "auth_user1",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	// 响应里不能带密码散列
	assert.NotContains(t, w.Body.String(), "password")

	w = performJSON(http.MethodPost, "/v1/auth/login", "", map[string]string{
		"username": "auth_user1",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"user"`
	}
	decodeBody(t, w, &resp)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "auth_user1", resp.User.Username)
	assert.NotEmpty(t, resp.User.ID)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	payload := map[string]string{"username": "auth_dup", "password": "secret123"}

	w := performJSON(http.MethodPost, "/v1/auth/register", "", payload)
	require.Equal(t, http.StatusCreated, w.Code)

	w = performJSON(http.MethodPost, "/v1/auth/register", "", payload)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	// 密码太短
	w := performJSON(http.MethodPost, "/v1/auth/register", "", map[string]string{
		"username": "auth_shortpw",
		"password": "123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 缺字段由 binding 拦下
	w = performJSON(http.MethodPost, "/v1/auth/register", "", map[string]string{
		"username": "auth_nopw",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// 用户不存在和密码错误给同一个 401，不泄露哪个错了
func TestLoginInvalidCredentials(t *testing.T) {
	w := performJSON(http.MethodPost, "/v1/auth/register", "", map[string]string{
		"username": "auth_user2",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = performJSON(http.MethodPost, "/v1/auth/login", "", map[string]string{
		"username": "auth_user2",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	wrongPassword := w.Body.String()

	w = performJSON(http.MethodPost, "/v1/auth/login", "", map[string]string{
		"username": "auth_nobody",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, wrongPassword, w.Body.String())
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	w := performRequest(http.MethodGet, "/v1/datasets", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = performRequest(http.MethodGet, "/v1/datasets", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTokenViaQueryParam(t *testing.T) {
	token := registerAndLogin(t, "auth_query_user")

	w := performRequest(http.MethodGet, "/v1/datasets?token="+token, "", nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}
