package core

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
)

// TagWriter 按文本变体输出标签流。
// 组码右对齐占 3 位、值独占一行，与主流 CAD 程序的输出格式一致。
type TagWriter struct {
	w       *bufio.Writer
	version Version
	enc     encoding.Encoding
}

// NewTagWriter 创建目标版本的标签写出器。
// R2007 之前的版本默认按 ANSI_1252 编码字符串，可用 SetEncoding 覆盖。
func NewTagWriter(w io.Writer, version Version) *TagWriter {
	tw := &TagWriter{
		w:       bufio.NewWriter(w),
		version: version,
	}
	if !version.Unicode() {
		tw.enc = Codepage(DefaultCodepage)
	}
	return tw
}

// Version 返回写出目标版本
func (tw *TagWriter) Version() Version {
	return tw.version
}

// SetEncoding 覆盖字符串编码器（按 $DWGCODEPAGE 选定的代码页）
func (tw *TagWriter) SetEncoding(enc encoding.Encoding) {
	tw.enc = enc
}

// WriteTag 写出单个标签，点值展开为 2/3 个坐标标签
func (tw *TagWriter) WriteTag(t Tag) error {
	switch v := t.Value.(type) {
	case Point:
		if err := tw.writeRaw(t.Code, FormatFloat(v.X)); err != nil {
			return err
		}
		if err := tw.writeRaw(t.Code+10, FormatFloat(v.Y)); err != nil {
			return err
		}
		return tw.writeRaw(t.Code+20, FormatFloat(v.Z))
	case Point2D:
		if err := tw.writeRaw(t.Code, FormatFloat(v.X)); err != nil {
			return err
		}
		return tw.writeRaw(t.Code+10, FormatFloat(v.Y))
	case float64:
		return tw.writeRaw(t.Code, FormatFloat(v))
	case int64:
		return tw.writeRaw(t.Code, strconv.FormatInt(v, 10))
	case int:
		return tw.writeRaw(t.Code, strconv.Itoa(v))
	case bool:
		if v {
			return tw.writeRaw(t.Code, "1")
		}
		return tw.writeRaw(t.Code, "0")
	case []byte:
		return tw.writeRaw(t.Code, strings.ToUpper(hex.EncodeToString(v)))
	case string:
		return tw.writeRaw(t.Code, EncodeString(tw.enc, v))
	case nil:
		return tw.writeRaw(t.Code, "")
	default:
		return tw.writeRaw(t.Code, fmt.Sprint(v))
	}
}

func (tw *TagWriter) writeRaw(code int, value string) error {
	_, err := fmt.Fprintf(tw.w, "%3d\r\n%s\r\n", code, value)
	return err
}

// WriteTags 依序写出整段标签
func (tw *TagWriter) WriteTags(ts Tags) error {
	for _, t := range ts {
		if err := tw.WriteTag(t); err != nil {
			return err
		}
	}
	return nil
}

// WriteStr 写出字符串标签
func (tw *TagWriter) WriteStr(code int, value string) error {
	return tw.WriteTag(Tag{Code: code, Value: value})
}

// WriteInt 写出整数标签
func (tw *TagWriter) WriteInt(code int, value int64) error {
	return tw.writeRaw(code, strconv.FormatInt(value, 10))
}

// WriteFloat 写出浮点标签
func (tw *TagWriter) WriteFloat(code int, value float64) error {
	return tw.writeRaw(code, FormatFloat(value))
}

// Flush 刷出缓冲
func (tw *TagWriter) Flush() error {
	return tw.w.Flush()
}

// FormatFloat 输出最短可往返的十进制形式
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0" // 浮点组码恒带小数点，兼容严格的读取器
	}
	return s
}
