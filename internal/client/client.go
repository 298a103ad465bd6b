// Package client 封装对 Bilibili 接口的 HTTP 访问。
package client

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

type TraceEvent struct {
	Stage      string
	Method     string
	URL        string
	StatusCode int
	DurationMs int64
	Request    string
	Response   string
	Error      string
}

type API struct {
	baseURL string
	cookie  string
	http    *http.Client
	trace   func(TraceEvent)
}

const (
	connectTimeout        = 10 * time.Second
	tlsHandshakeTimeout   = 10 * time.Second
	responseHeaderTimeout = 30 * time.Second
	expectContinueTimeout = 1 * time.Second
	keepAliveTimeout      = 30 * time.Second
	idleConnTimeout       = 90 * time.Second
	maxIdleConns          = 100
	maxIdleConnsPerHost   = 10
)

func New(baseURL, cookie string) *API {
	dialer := &net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: keepAliveTimeout,
	}
	return &API{
		baseURL: strings.TrimRight(baseURL, "/"),
		cookie:  cookie,
		http: &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				DialContext:           dialer.DialContext,
				TLSHandshakeTimeout:   tlsHandshakeTimeout,
				ResponseHeaderTimeout: responseHeaderTimeout,
				ExpectContinueTimeout: expectContinueTimeout,
				IdleConnTimeout:       idleConnTimeout,
				MaxIdleConns:          maxIdleConns,
				MaxIdleConnsPerHost:   maxIdleConnsPerHost,
			},
			Timeout: 120 * time.Second,
		},
	}
}

func (a *API) SetTrace(fn func(TraceEvent)) {
	a.trace = fn
}

func (a *API) emitTrace(ev TraceEvent) {
	if a.trace != nil {
		a.trace(ev)
	}
}

func traceBody(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	if utf8.Valid(b) {
		return string(b)
	}
	sum := sha256.Sum256(b)
	return fmt.Sprintf("<binary bytes=%d sha256=%s>", len(b), hex.EncodeToString(sum[:]))
}

// Nav 拉取当前会话的 WBI 密钥 URL。code 非 0 时返回 *APIError。
func (a *API) Nav(ctx context.Context) (NavResp, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/x/web-interface/nav", nil)
	if err != nil {
		return NavResp{}, err
	}
	var out NavResp
	if err := a.doJSON(req, &out); err != nil {
		return NavResp{}, err
	}
	if out.Code != 0 {
		return NavResp{}, &APIError{Code: out.Code, Message: out.Message}
	}
	return out, nil
}

// Segment 拉取一段二进制弹幕流。非 2xx 状态不视为错误，由调用方决定去留。
func (a *API) Segment(ctx context.Context, query url.Values) ([]byte, int, error) {
	u := a.baseURL + "/x/v2/dm/wbi/web/seg.so?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Cookie", a.cookie)

	a.emitTrace(TraceEvent{Stage: "request", Method: req.Method, URL: u})
	start := time.Now()
	resp, err := a.http.Do(req)
	if err != nil {
		a.emitTrace(TraceEvent{
			Stage:      "error",
			Method:     req.Method,
			URL:        u,
			DurationMs: time.Since(start).Milliseconds(),
			Error:      err.Error(),
		})
		return nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("读取分段响应失败: %w", err)
	}
	a.emitTrace(TraceEvent{
		Stage:      "response",
		Method:     req.Method,
		URL:        u,
		StatusCode: resp.StatusCode,
		DurationMs: time.Since(start).Milliseconds(),
		Response:   traceBody(body),
	})
	return body, resp.StatusCode, nil
}

// Report 提交一条举报。远端 code 非 0 时返回 *APIError。
func (a *API) Report(ctx context.Context, cid int64, dmid string, reason int, csrf string) error {
	form := url.Values{}
	form.Set("cid", strconv.FormatInt(cid, 10))
	form.Set("dmid", dmid)
	form.Set("reason", strconv.Itoa(reason))
	form.Set("csrf", csrf)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.baseURL+"/x/dm/report/add", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out envelope
	if err := a.doJSON(req, &out); err != nil {
		return err
	}
	if out.Code != 0 {
		return &APIError{Code: out.Code, Message: out.Message}
	}
	return nil
}

func (a *API) doJSON(req *http.Request, out any) error {
	req.Header.Set("Cookie", a.cookie)
	a.emitTrace(TraceEvent{Stage: "request", Method: req.Method, URL: req.URL.String()})
	start := time.Now()
	resp, err := a.http.Do(req)
	if err != nil {
		a.emitTrace(TraceEvent{
			Stage:      "error",
			Method:     req.Method,
			URL:        req.URL.String(),
			DurationMs: time.Since(start).Milliseconds(),
			Error:      err.Error(),
		})
		return err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	a.emitTrace(TraceEvent{
		Stage:      "response",
		Method:     req.Method,
		URL:        req.URL.String(),
		StatusCode: resp.StatusCode,
		DurationMs: time.Since(start).Milliseconds(),
		Response:   traceBody(body),
	})
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("解析响应失败: %w", err)
	}
	return nil
}
