package core

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"golang.org/x/text/encoding"
)

// binarySentinel 二进制变体的魔数头，共 22 字节
var binarySentinel = []byte("AutoCAD Binary DXF\r\n\x1a\x00")

// BinaryScanner 解码二进制变体的标签流，产出与文本扫描器相同的逻辑序列。
// 值在解码时即按组码类型转换，无需再经 Compiler 做标量转换。
type BinaryScanner struct {
	data    []byte
	pos     int
	r12     bool
	enc     encoding.Encoding
	version Version
	LastTag Tag
	eof     bool
	err     error
}

// NewBinaryScanner 校验魔数并预扫描版本与代码页。
// 魔数不符时拒绝解析，返回 StructureError。
func NewBinaryScanner(data []byte) (*BinaryScanner, error) {
	if len(data) < len(binarySentinel) || !bytes.Equal(data[:len(binarySentinel)], binarySentinel) {
		return nil, structureErrorf(0, "not a binary DXF stream")
	}

	s := &BinaryScanner{
		data:    data,
		pos:     len(binarySentinel),
		version: AC1009,
	}
	s.scanParams()
	return s, nil
}

// scanParams 在前 1024 字节内探测 $ACADVER 和 $DWGCODEPAGE，
// 决定组码宽度（R12 为单字节）与字符串编码
func (s *BinaryScanner) scanParams() {
	limit := min(len(s.data), 1024)
	head := s.data[:limit]

	if i := bytes.Index(head, []byte("$ACADVER")); i >= 0 {
		start := i + 10
		if start < limit && s.data[start] != 'A' { // 双字节组码多占 1 字节
			start++
		}
		if start+6 <= limit {
			s.version = Version(s.data[start : start+6])
		}
	}
	s.r12 = s.version <= AC1009

	if s.version.Unicode() {
		s.enc = nil // UTF-8 直读
		return
	}

	codepage := DefaultCodepage
	if i := bytes.Index(head, []byte("$DWGCODEPAGE")); i >= 0 {
		start := i + 14
		if start < limit && s.data[start] != 'A' {
			start++
		}
		end := start
		for end < len(s.data) && s.data[end] != 0 {
			end++
		}
		codepage = string(s.data[start:end])
	}
	s.enc = Codepage(codepage)
}

// Version 返回预扫描得到的格式版本
func (s *BinaryScanner) Version() Version {
	return s.version
}

func (s *BinaryScanner) Next() bool {
	if s.err != nil || s.eof || s.pos >= len(s.data) {
		return false
	}

	// 1. 解码组码
	var code int
	if s.r12 {
		code = int(s.data[s.pos])
		if code == 255 { // 扩展数据组码转义
			if s.pos+3 > len(s.data) {
				s.err = structureErrorf(0, "truncated binary tag")
				return false
			}
			code = int(s.data[s.pos+2])<<8 | int(s.data[s.pos+1])
			s.pos += 3
		} else {
			s.pos++
		}
	} else {
		if s.pos+2 > len(s.data) {
			s.err = structureErrorf(0, "truncated binary tag")
			return false
		}
		code = int(s.data[s.pos+1])<<8 | int(s.data[s.pos])
		s.pos += 2
	}

	// 2. 按组码类型解码值
	var value any
	switch kind := CodeKind(code); {
	case kind == KindBytes:
		if s.pos >= len(s.data) {
			s.err = structureErrorf(0, "truncated binary chunk")
			return false
		}
		length := int(s.data[s.pos])
		s.pos++
		if s.pos+length > len(s.data) {
			s.err = structureErrorf(0, "truncated binary chunk")
			return false
		}
		value = append([]byte(nil), s.data[s.pos:s.pos+length]...)
		s.pos += length
	case kind == KindFloat:
		if s.pos+8 > len(s.data) {
			s.err = structureErrorf(0, "truncated binary tag")
			return false
		}
		value = math.Float64frombits(binary.LittleEndian.Uint64(s.data[s.pos:]))
		s.pos += 8
	case kind == KindBool:
		if s.pos >= len(s.data) {
			s.err = structureErrorf(0, "truncated binary tag")
			return false
		}
		value = s.data[s.pos] != 0
		s.pos++
	case kind == KindInt:
		n, ok := s.readInt(code)
		if !ok {
			return false
		}
		value = n
	default: // 字符串与句柄均为零结尾字符串
		end := bytes.IndexByte(s.data[s.pos:], 0)
		if end < 0 {
			s.err = structureErrorf(0, "unterminated string value")
			return false
		}
		str := string(s.data[s.pos : s.pos+end])
		s.pos += end + 1
		value = DecodeString(s.enc, str)
	}

	if code == 0 && value == "EOF" {
		s.eof = true
	}
	s.LastTag = Tag{Code: code, Value: value}
	return true
}

// readInt 按组码区间解码 16/32/64 位整数
func (s *BinaryScanner) readInt(code int) (int64, bool) {
	var width int
	switch {
	case code >= 160 && code <= 169:
		width = 8
	case code >= 90 && code <= 99, code >= 420 && code <= 459, code == 1071:
		width = 4
	default:
		width = 2
	}
	if s.pos+width > len(s.data) {
		s.err = structureErrorf(0, "truncated binary tag")
		return 0, false
	}
	var n int64
	switch width {
	case 2:
		n = int64(int16(binary.LittleEndian.Uint16(s.data[s.pos:])))
	case 4:
		n = int64(int32(binary.LittleEndian.Uint32(s.data[s.pos:])))
	case 8:
		n = int64(binary.LittleEndian.Uint64(s.data[s.pos:]))
	}
	s.pos += width
	return n, true
}

func (s *BinaryScanner) Tag() Tag {
	return s.LastTag
}

func (s *BinaryScanner) Err() error {
	return s.err
}

// NewTagReader 嗅探流头自动选择文本或二进制扫描器
func NewTagReader(r io.Reader) (Source, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(len(binarySentinel))
	if bytes.Equal(head, binarySentinel) {
		data, err := io.ReadAll(br)
		if err != nil {
			return nil, err
		}
		return NewBinaryScanner(data)
	}
	return NewScanner(br), nil
}
