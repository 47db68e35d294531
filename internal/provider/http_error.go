package provider

import "fmt"

// HTTPStatusError 表示来源站点返回了非 2xx 状态码。
// 保留 URL 与状态码，便于上层日志定位（错误本身不会向扫描调用方传播）。
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("http %d：%s", e.StatusCode, e.URL)
}
