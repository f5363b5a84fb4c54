package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"automl_backend/config"
	"automl_backend/entity"
)

var ErrMLBaseURLRequired = errors.New("ml service base url is required")

// MLClient 远端 ML 微服务的 HTTP 客户端。预处理/训练/调参/评估
// 全部转发给它，本服务不做任何模型计算。
type MLClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewMLClient 按配置构建客户端。
func NewMLClient() *MLClient {
	baseURL := ""
	timeout := 300 * time.Second
	if config.AppConfig != nil {
		baseURL = strings.TrimSpace(config.AppConfig.ML.BaseURL)
		if config.AppConfig.ML.TimeoutSeconds > 0 {
			timeout = time.Duration(config.AppConfig.ML.TimeoutSeconds) * time.Second
		}
	}
	return NewMLClientWithURL(baseURL, timeout)
}

func NewMLClientWithURL(baseURL string, timeout time.Duration) *MLClient {
	return &MLClient{
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// TrainRequest 训练调用的请求体，字段名与远端服务约定一致。
type TrainRequest struct {
	Algorithm       string                 `json:"algorithm"`
	ProblemType     entity.ProblemType     `json:"problem_type"`
	XTrain          [][]interface{}        `json:"X_train"`
	YTrain          []interface{}          `json:"y_train"`
	XTest           [][]interface{}        `json:"X_test"`
	YTest           []interface{}          `json:"y_test"`
	Hyperparameters map[string]interface{} `json:"hyperparameters"`
}

// Train 发起一次远端训练，返回该算法的结果记录。
// 非 2xx 响应转成带远端状态码和消息的错误。
func (c *MLClient) Train(ctx context.Context, req *TrainRequest) (*entity.ModelResult, error) {
	if req == nil {
		return nil, errors.New("train request is nil")
	}

	body, status, err := c.postJSON(ctx, "/train", req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("ml service returned %d: %s", status, remoteErrorMessage(body))
	}

	var result entity.ModelResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode train response failed: %w", err)
	}
	if result.Algorithm == "" {
		result.Algorithm = req.Algorithm
	}
	return &result, nil
}

// Forward 把原始 JSON 请求体透传到远端的某个路径（preprocess/tune/evaluate）。
// 返回远端的响应体和状态码，由调用方决定如何回给客户端。
func (c *MLClient) Forward(ctx context.Context, path string, payload json.RawMessage) (json.RawMessage, int, error) {
	body, status, err := c.postRaw(ctx, path, payload)
	if err != nil {
		return nil, 0, err
	}
	return body, status, nil
}

func (c *MLClient) postJSON(ctx context.Context, path string, payload interface{}) ([]byte, int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("encode request failed: %w", err)
	}
	return c.postRaw(ctx, path, data)
}

func (c *MLClient) postRaw(ctx context.Context, path string, data []byte) ([]byte, int, error) {
	if c.BaseURL == "" {
		return nil, 0, ErrMLBaseURLRequired
	}
	if ctx == nil {
		ctx = context.Background()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("build request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("call ml service failed (path=%s): %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read ml service response failed: %w", err)
	}
	return body, resp.StatusCode, nil
}

// remoteErrorMessage 尽量从远端响应体中取出人读的错误消息。
func remoteErrorMessage(body []byte) string {
	var payload struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Detail != "" {
			return payload.Detail
		}
	}
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "no error message"
	}
	return trimmed
}
