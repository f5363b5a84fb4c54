package v1_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"automl_backend/config"
	"automl_backend/dao"
	"automl_backend/router"
	"automl_backend/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var testRouter *gin.Engine

// 顶替远端 ML 服务：/train 按算法名给分，"explode" 回 500；
// 其余路径原样回显，验证透传。
var trainScores = map[string]float64{
	"alpha": 0.7,
	"beta":  0.9,
	"gamma": 0.9,
}

func fakeMLHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/train" {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": r.URL.Path})
		return
	}

	var req service.TrainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Algorithm == "explode" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "training crashed"})
		return
	}

	score, ok := trainScores[req.Algorithm]
	if !ok {
		score = 0.5
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"algorithm":        req.Algorithm,
		"training_metrics": map[string]float64{"accuracy": score},
		"test_metrics":     map[string]float64{"accuracy": score},
	})
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	mlServer := httptest.NewServer(http.HandlerFunc(fakeMLHandler))

	config.AppConfig = &config.Config{
		Storage: config.StorageConfig{Backend: "memory"},
		Auth:    config.AuthConfig{JWTSecret: "unit-test-secret", TokenTTLHour: 1},
		ML:      config.MLConfig{BaseURL: mlServer.URL, TimeoutSeconds: 5},
	}
	if err := dao.Init(config.AppConfig); err != nil {
		panic(err)
	}

	testRouter = router.SetupRouter()

	code := m.Run()
	mlServer.Close()
	os.Exit(code)
}

func performRequest(method, path, token string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	testRouter.ServeHTTP(w, req)
	return w
}

func performJSON(method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(payload)
	return performRequest(method, path, token, strings.NewReader(string(data)))
}

// registerAndLogin 注册并登录一个用户，返回可用的 token。
// 各测试用不同用户名，互不串数据。
func registerAndLogin(t *testing.T, username string) string {
	t.Helper()

	w := performJSON(http.MethodPost, "/v1/auth/register", "", map[string]string{
		"username": username,
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = performJSON(http.MethodPost, "/v1/auth/login", "", map[string]string{
		"username": username,
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), "body: %s", w.Body.String())
}

// uploadCSVDataset 走上传接口造一个数据集，返回它的 id。
func uploadCSVDataset(t *testing.T, token, name, csvData string) string {
	t.Helper()

	w := performMultipartUpload(t, token, name, "", "", name+".csv", csvData)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		ID string `json:"id"`
	}
	decodeBody(t, w, &resp)
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

func performMultipartUpload(t *testing.T, token, name, description, targetColumn, filename, csvData string) *httptest.ResponseRecorder {
	t.Helper()

	var buf strings.Builder
	boundary := "unittestboundary"
	writeField := func(field, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&buf, "--%s\r\nContent-Disposition: form-data; name=%q\r\n\r\n%s\r\n", boundary, field, value)
	}
	writeField("name", name)
	writeField("description", description)
	writeField("target_column", targetColumn)
	fmt.Fprintf(&buf, "--%s\r\nContent-Disposition: form-data; name=\"file\"; filename=%q\r\nContent-Type: text/csv\r\n\r\n%s\r\n", boundary, filename, csvData)
	fmt.Fprintf(&buf, "--%s--\r\n", boundary)

	req := httptest.NewRequest(http.MethodPost, "/v1/datasets/upload", strings.NewReader(buf.String()))
	req.Header.Set("Content-Type", "multipart/form-data; boundary="+boundary)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	testRouter.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	w := performRequest(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
