package core

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Source 是标签流的统一读取接口，Scanner、BinaryScanner、Compiler 均实现它
type Source interface {
	Next() bool
	Tag() Tag
	Err() error
}

// Scanner 逐对读取文本变体的 DXF 标签流。
// 读到 0/EOF 标签后停止，其后的数据一律忽略。
type Scanner struct {
	reader   *bufio.Reader
	LastTag  Tag
	line     int
	eof      bool
	recover  bool
	err      error
	warnings []Warning
}

func NewScanner(r io.Reader) *Scanner {
	return &Scanner{
		reader: bufio.NewReader(r),
	}
}

// SetRecover 恢复模式：坏的组码行跳过并记警告，
// 在下一个能解析为组码的行重新同步；截断的流按正常结束处理
func (s *Scanner) SetRecover(on bool) {
	s.recover = on
}

// Warnings 返回恢复模式下跳过的内容
func (s *Scanner) Warnings() []Warning {
	return s.warnings
}

func (s *Scanner) warnf(format string, args ...any) {
	s.warnings = append(s.warnings, Warning{Line: s.line, Message: fmt.Sprintf(format, args...)})
}

func (s *Scanner) Next() bool {
	if s.err != nil || s.eof {
		return false
	}

	// 1. 读取 Code 行
	codeLine, err := s.reader.ReadString('\n')
	if err != nil && codeLine == "" {
		if err != io.EOF {
			s.err = err
		}
		return false
	}
	s.line++

	codeStr := strings.TrimSpace(codeLine)
	if codeStr == "" { // 跳过空行
		return s.Next()
	}

	code, err := strconv.Atoi(codeStr)
	if err != nil {
		if s.recover {
			s.warnf("invalid group code %q, line skipped", codeStr)
			return s.Next()
		}
		s.err = structureErrorf(s.line, "invalid group code %q", codeStr)
		return false
	}

	// 2. 读取 Value 行
	valueLine, err := s.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		s.err = err
		return false
	}
	if valueLine == "" && err == io.EOF {
		// Code 行后缺少 Value 行，流被截断
		if s.recover {
			s.warnf("premature end of file after group code %d", code)
			s.eof = true
			return false
		}
		s.err = structureErrorf(s.line, "premature end of file")
		return false
	}
	s.line++

	// 去掉行尾的换行符，但保留 Value 开头的空格（DXF 规范要求）
	value := strings.TrimRight(valueLine, "\r\n")

	if code == 999 { // 注释标签直接跳过
		return s.Next()
	}
	if code == 0 && value == "EOF" {
		s.eof = true
	}

	s.LastTag = Tag{Code: code, Value: value}
	return true
}

// Tag 返回最近一次读到的标签
func (s *Scanner) Tag() Tag {
	return s.LastTag
}

// Line 返回当前行号（用于错误定位）
func (s *Scanner) Line() int {
	return s.line
}

func (s *Scanner) Err() error {
	return s.err
}
