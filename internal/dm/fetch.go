package dm

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/MUKAPP/bilibili-danmaku-report/internal/report"
)

// 小于 10 字节的响应体视为空分段，弹幕流到此为止。
const minSegmentBytes = 10

// defaultMaxSegments 是分段数上限，防止远端永不给出流结束信号。
const defaultMaxSegments = 19

type SegmentClient interface {
	Segment(ctx context.Context, query url.Values) (body []byte, statusCode int, err error)
}

type Signer interface {
	Sign(ctx context.Context, params map[string]string) (url.Values, error)
}

// Fetcher 从 1 号分段起严格串行拉取，分段空了才知道该不该继续。
type Fetcher struct {
	client      SegmentClient
	signer      Signer
	notify      report.Notifier
	maxSegments int
}

func NewFetcher(client SegmentClient, signer Signer, notify report.Notifier, maxSegments int) *Fetcher {
	if maxSegments <= 0 {
		maxSegments = defaultMaxSegments
	}
	return &Fetcher{client: client, signer: signer, notify: notify, maxSegments: maxSegments}
}

// FetchAll 拉取并解码目标资源的全部弹幕。每次调用都从 1 号分段重新开始。
// 解码失败时返回已解码的记录和 *DecodeError，保留还是丢弃由调用方决定。
func (f *Fetcher) FetchAll(ctx context.Context, oid, pid int64) ([]Record, error) {
	var all []Record
	for i := 1; i <= f.maxSegments; i++ {
		f.notify.Log(report.LevelInfo, fmt.Sprintf("正在获取弹幕分段 (%d)...", i))
		signed, err := f.signer.Sign(ctx, map[string]string{
			"type":          "1",
			"oid":           strconv.FormatInt(oid, 10),
			"pid":           strconv.FormatInt(pid, 10),
			"segment_index": strconv.Itoa(i),
		})
		if err != nil {
			return all, err
		}
		body, status, err := f.client.Segment(ctx, signed)
		if err != nil {
			return all, fmt.Errorf("获取分段 %d 失败: %w", i, err)
		}
		if status/100 != 2 {
			f.notify.Log(report.LevelWarn, fmt.Sprintf("获取分段 %d 失败，状态码: %d", i, status))
			break
		}
		if len(body) < minSegmentBytes {
			f.notify.Log(report.LevelSuccess, fmt.Sprintf("分段 %d 为空，弹幕加载完毕。", i))
			break
		}
		recs, err := DecodeSegment(body)
		if err != nil {
			return all, &DecodeError{Segment: i, Err: err}
		}
		all = append(all, recs...)
	}
	return all, nil
}
