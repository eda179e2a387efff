package generate

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/anoixa/image-share/cache"
	"golang.org/x/sync/singleflight"
)

// ErrNotConfigured 未配置推理端点错误
var ErrNotConfigured = errors.New("generation endpoint not configured")

// 推理服务的请求与响应格式
type generateRequest struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Image string `json:"image"`
}

// Client calls a hosted text-to-image inference endpoint. Identical prompts
// in flight are collapsed with singleflight and results are cached by prompt
// digest, since diffusion calls are slow and expensive.
type Client struct {
	endpoint   string
	httpClient *http.Client
	cache      cache.Provider
	cacheTTL   time.Duration
	group      singleflight.Group
}

// NewClient 创建推理客户端，cacheProvider 可以为 nil
func NewClient(endpoint string, timeout time.Duration, cacheProvider cache.Provider, cacheTTL time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cache:    cacheProvider,
		cacheTTL: cacheTTL,
	}
}

// Generate 根据提示词生成图片，返回原始图片字节
func (c *Client) Generate(ctx context.Context, prompt string) ([]byte, error) {
	if c.endpoint == "" {
		return nil, ErrNotConfigured
	}

	key := cacheKey(prompt)
	if c.cache != nil {
		var data []byte
		if err := c.cache.Get(ctx, key, &data); err == nil {
			return data, nil
		} else if !cache.IsCacheMiss(err) {
			log.Printf("Failed to read generation cache: %v", err)
		}
	}

	result, err, _ := c.group.Do(key, func() (interface{}, error) {
		data, err := c.callEndpoint(ctx, prompt)
		if err != nil {
			return nil, err
		}

		if c.cache != nil {
			if err := c.cache.Set(ctx, key, data, c.cacheTTL); err != nil {
				log.Printf("Failed to write generation cache: %v", err)
			}
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}

func (c *Client) callEndpoint(ctx context.Context, prompt string) ([]byte, error) {
	body, err := json.Marshal(generateRequest{Text: prompt})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("generation endpoint returned %d: %s", resp.StatusCode, snippet)
	}

	var payload generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode generation response: %w", err)
	}
	if payload.Image == "" {
		return nil, errors.New("generation response contained no image")
	}

	data, err := base64.StdEncoding.DecodeString(payload.Image)
	if err != nil {
		return nil, fmt.Errorf("failed to decode generated image: %w", err)
	}

	return data, nil
}

func cacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return "generate:" + hex.EncodeToString(sum[:])
}
