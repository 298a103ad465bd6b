// Package dm 拉取并解码弹幕分段流。
package dm

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
)

// 分段报文的 proto3 模式是服务端协议常量，字段号与类型原样内置，
// 运行时经 protodesc 编译后由 dynamicpb 驱动解码。
var segDesc protoreflect.MessageDescriptor

func init() {
	d, err := buildSegDescriptor()
	if err != nil {
		panic("dm: 弹幕分段模式非法: " + err.Error())
	}
	segDesc = d
}

func buildSegDescriptor() (protoreflect.MessageDescriptor, error) {
	scalar := func(name string, num int32, t descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
		return &descriptorpb.FieldDescriptorProto{
			Name:   proto.String(name),
			Number: proto.Int32(num),
			Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
			Type:   t.Enum(),
		}
	}

	elem := &descriptorpb.DescriptorProto{
		Name: proto.String("DanmakuElem"),
		Field: []*descriptorpb.FieldDescriptorProto{
			scalar("id", 1, descriptorpb.FieldDescriptorProto_TYPE_INT64),
			scalar("progress", 2, descriptorpb.FieldDescriptorProto_TYPE_INT32),
			scalar("mode", 3, descriptorpb.FieldDescriptorProto_TYPE_INT32),
			scalar("fontsize", 4, descriptorpb.FieldDescriptorProto_TYPE_INT32),
			scalar("color", 5, descriptorpb.FieldDescriptorProto_TYPE_UINT32),
			scalar("midHash", 6, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			scalar("content", 7, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			scalar("ctime", 8, descriptorpb.FieldDescriptorProto_TYPE_INT64),
			scalar("weight", 9, descriptorpb.FieldDescriptorProto_TYPE_INT32),
			scalar("action", 10, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			scalar("pool", 11, descriptorpb.FieldDescriptorProto_TYPE_INT32),
			scalar("idStr", 12, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			scalar("attr", 13, descriptorpb.FieldDescriptorProto_TYPE_INT32),
		},
	}

	seg := &descriptorpb.DescriptorProto{
		Name: proto.String("DanmakuSeg"),
		Field: []*descriptorpb.FieldDescriptorProto{
			{
				Name:     proto.String("elems"),
				Number:   proto.Int32(1),
				Label:    descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum(),
				Type:     descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum(),
				TypeName: proto.String(".bili.dm.DanmakuElem"),
			},
		},
	}

	fd := &descriptorpb.FileDescriptorProto{
		Name:        proto.String("bili/dm/seg.proto"),
		Package:     proto.String("bili.dm"),
		Syntax:      proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{elem, seg},
	}

	file, err := protodesc.NewFile(fd, nil)
	if err != nil {
		return nil, err
	}
	return file.Messages().ByName("DanmakuSeg"), nil
}
