package core

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Tag 代表 DXF 中的一组标签对。
// 扫描阶段 Value 为原始字符串，经 Compiler 编译后变为按组码声明的类型：
// string、int64、float64、bool、[]byte、Point、Point2D。
type Tag struct {
	Code  int
	Value any
}

// Point 代表三维空间中的一个点
type Point struct {
	X, Y, Z float64
}

// Point2D 代表二维点（Z 分量缺省的点，回写时只输出两个坐标码）
type Point2D struct {
	X, Y float64
}

// BBox 代表包围盒
type BBox struct {
	Min, Max Point
}

// Kind 表示组码声明的值类型
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindBytes
	KindHandle // 十六进制句柄/指针，按字符串存储
)

// CodeKind 返回组码声明的标量类型，参照 DXF 参考手册的组码区间划分
func CodeKind(code int) Kind {
	switch {
	case code == 5 || code == 105:
		return KindHandle
	case code >= 320 && code <= 369, code >= 390 && code <= 399,
		code == 480, code == 481, code == 1005:
		return KindHandle
	case code >= 10 && code <= 59, code >= 110 && code <= 149,
		code >= 210 && code <= 239, code >= 460 && code <= 469,
		code >= 1010 && code <= 1059:
		return KindFloat
	case code >= 290 && code <= 299:
		return KindBool
	case code >= 60 && code <= 79, code >= 170 && code <= 179,
		code >= 270 && code <= 289, code >= 370 && code <= 389,
		code >= 400 && code <= 409, code >= 1060 && code <= 1070:
		return KindInt
	case code >= 90 && code <= 99, code >= 420 && code <= 459, code == 1071:
		return KindInt
	case code >= 160 && code <= 169:
		return KindInt
	case code >= 310 && code <= 319, code == 1004:
		return KindBytes
	}
	return KindString
}

// IsPointStart 判断组码是否为点坐标的 X 分量起始码（Y 为 code+10，Z 为 code+20）
func IsPointStart(code int) bool {
	switch {
	case code >= 10 && code <= 18:
		return true
	case code >= 110 && code <= 112:
		return true
	case code >= 210 && code <= 213:
		return true
	case code >= 1010 && code <= 1013:
		return true
	}
	return false
}

// AsString 返回字符串值
func (t Tag) AsString() string {
	switch v := t.Value.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// AsInt 将值转换为 int64
func (t Tag) AsInt() int64 {
	switch v := t.Value.(type) {
	case int64:
		return v
	case bool:
		if v {
			return 1
		}
		return 0
	case float64:
		return int64(v)
	case string:
		i, _ := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return i
	}
	return 0
}

// AsFloat 将值转换为 float64
func (t Tag) AsFloat() float64 {
	switch v := t.Value.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f
	}
	return 0
}

// AsBool 将值转换为布尔量（DXF 用 0/1 表示）
func (t Tag) AsBool() bool {
	return t.AsInt() != 0
}

// AsPoint 返回点值，Point2D 的 Z 分量补 0
func (t Tag) AsPoint() Point {
	switch v := t.Value.(type) {
	case Point:
		return v
	case Point2D:
		return Point{X: v.X, Y: v.Y}
	}
	return Point{}
}

// AsBytes 返回二进制块，字符串值按十六进制解码
func (t Tag) AsBytes() []byte {
	switch v := t.Value.(type) {
	case []byte:
		return v
	case string:
		b, _ := hex.DecodeString(strings.TrimSpace(v))
		return b
	}
	return nil
}

// AsHandle 返回规范化（大写）的句柄值
func (t Tag) AsHandle() string {
	return strings.ToUpper(strings.TrimSpace(t.AsString()))
}

// IsPoint 判断该标签是否为已编译的点
func (t Tag) IsPoint() bool {
	switch t.Value.(type) {
	case Point, Point2D:
		return true
	}
	return false
}

// Tags 是一条记录内的有序标签序列
type Tags []Tag

// Get 返回第一个指定组码的标签
func (ts Tags) Get(code int) (Tag, bool) {
	for _, t := range ts {
		if t.Code == code {
			return t, true
		}
	}
	return Tag{}, false
}

// GetAll 返回所有指定组码的标签
func (ts Tags) GetAll(code int) (out Tags) {
	for _, t := range ts {
		if t.Code == code {
			out = append(out, t)
		}
	}
	return
}

// Has 判断是否存在指定组码
func (ts Tags) Has(code int) bool {
	_, ok := ts.Get(code)
	return ok
}

// Clone 深拷贝标签序列
func (ts Tags) Clone() Tags {
	out := make(Tags, len(ts))
	copy(out, ts)
	return out
}
