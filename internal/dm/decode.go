package dm

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// Record 是一条解码后的弹幕，解码后不再变更。
// IDStr 是对外的真实弹幕标识，举报接口以它定位弹幕。
type Record struct {
	ID       int64
	Progress int32
	Mode     int32
	FontSize int32
	Color    uint32
	MidHash  string
	Content  string
	CTime    int64
	Weight   int32
	Action   string
	Pool     int32
	IDStr    string
	Attr     int32
}

type DecodeError struct {
	Segment int
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("解析弹幕分段 %d 失败: %v", e.Segment, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DecodeSegment 按内置模式解码一段二进制弹幕流，保持流内顺序。
func DecodeSegment(buf []byte) ([]Record, error) {
	msg := dynamicpb.NewMessage(segDesc)
	if err := proto.Unmarshal(buf, msg); err != nil {
		return nil, err
	}
	elems := msg.Get(segDesc.Fields().ByNumber(1)).List()
	out := make([]Record, 0, elems.Len())
	for i := 0; i < elems.Len(); i++ {
		out = append(out, recordFrom(elems.Get(i).Message()))
	}
	return out, nil
}

func recordFrom(m protoreflect.Message) Record {
	fields := m.Descriptor().Fields()
	get := func(n protoreflect.FieldNumber) protoreflect.Value {
		return m.Get(fields.ByNumber(n))
	}
	return Record{
		ID:       get(1).Int(),
		Progress: int32(get(2).Int()),
		Mode:     int32(get(3).Int()),
		FontSize: int32(get(4).Int()),
		Color:    uint32(get(5).Uint()),
		MidHash:  get(6).String(),
		Content:  get(7).String(),
		CTime:    get(8).Int(),
		Weight:   int32(get(9).Int()),
		Action:   get(10).String(),
		Pool:     int32(get(11).Int()),
		IDStr:    get(12).String(),
		Attr:     int32(get(13).Int()),
	}
}
