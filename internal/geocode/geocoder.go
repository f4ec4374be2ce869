package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shareplaces/backend/internal/apperr"
)

// Result 地理编码结果
type Result struct {
	FormattedAddress string  `json:"formattedAddress"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
}

// Resolver 将自由文本地址解析为规范地址和坐标
type Resolver interface {
	Resolve(ctx context.Context, address string) (*Result, error)
}

// Client 地理编码服务客户端，单次尝试，不做重试
type Client struct {
	endpoint   string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient 创建地理编码客户端
func NewClient(endpoint, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

// geocodeResponse 上游响应结构
type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Resolve 解析地址。零结果返回 NotFound，网络或解析失败返回 Upstream。
func (c *Client) Resolve(ctx context.Context, address string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqURL := fmt.Sprintf("%s?address=%s&key=%s", c.endpoint, url.QueryEscape(address), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperr.Upstream("Failed to resolve address", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Upstream("Failed to resolve address", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.Upstream("Failed to resolve address",
			fmt.Errorf("geocoding provider returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Upstream("Failed to resolve address", err)
	}

	var decoded geocodeResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, apperr.Upstream("Failed to resolve address", err)
	}

	if decoded.Status == "ZERO_RESULTS" || len(decoded.Results) == 0 {
		return nil, apperr.NotFound("No coordinates found for address")
	}
	if decoded.Status != "OK" {
		return nil, apperr.Upstream("Failed to resolve address",
			fmt.Errorf("geocoding provider status: %s", decoded.Status))
	}

	first := decoded.Results[0]
	return &Result{
		FormattedAddress: first.FormattedAddress,
		Lat:              first.Geometry.Location.Lat,
		Lng:              first.Geometry.Location.Lng,
	}, nil
}
