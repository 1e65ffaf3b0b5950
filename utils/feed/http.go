package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPFeed 通过HTTP GET拉取JSON数组形式的读数
type HTTPFeed struct {
	url    string
	client *http.Client
}

// NewHTTP 创建HTTP数据源
// 参数：url-读数接口地址，timeout-单次请求超时
func NewHTTP(url string, timeout time.Duration) *HTTPFeed {
	return &HTTPFeed{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch 拉取一个批次
// 说明：数值保留为json.Number，null与缺失字段为nil
func (f *HTTPFeed) Fetch(ctx context.Context) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", f.url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", f.url, resp.Status)
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var records []Record
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode readings from %s: %w", f.url, err)
	}
	log.Debugf("fetched %d records from %s", len(records), f.url)
	return records, nil
}

func (f *HTTPFeed) Close(context.Context) error {
	f.client.CloseIdleConnections()
	return nil
}
