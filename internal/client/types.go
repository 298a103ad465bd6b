package client

import (
	"fmt"
	"strings"
)

// envelope 是所有 JSON 接口共用的响应外壳，code 为 0 表示成功。
type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type NavResp struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		WbiImg struct {
			ImgURL string `json:"img_url"`
			SubURL string `json:"sub_url"`
		} `json:"wbi_img"`
	} `json:"data"`
}

// APIError 是远端在 2xx 响应里报出的业务错误。
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("接口返回错误: code=%d message=%s", e.Code, e.Message)
}

// RateLimited 判断是否为“操作过于频繁”一类的限频拒绝。
func (e *APIError) RateLimited() bool {
	return strings.Contains(e.Message, "频繁")
}
