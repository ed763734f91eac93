package core

import (
	"errors"
	"fmt"
)

// ErrStructure 表示字节流无法切分为合法的标签序列（严格模式下致命）
var ErrStructure = errors.New("dxf: structure error")

// ErrVersion 表示不支持或不兼容的格式版本
var ErrVersion = errors.New("dxf: version error")

// StructureError 携带出错行号的结构错误
type StructureError struct {
	Line    int
	Message string
}

func (e *StructureError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("dxf: %s near line %d", e.Message, e.Line)
	}
	return "dxf: " + e.Message
}

func (e *StructureError) Unwrap() error {
	return ErrStructure
}

func structureErrorf(line int, format string, args ...any) error {
	return &StructureError{Line: line, Message: fmt.Sprintf(format, args...)}
}

// Warning 是恢复模式下收集的非致命问题
type Warning struct {
	Line    int
	Message string
}

func (w Warning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("%s near line %d", w.Message, w.Line)
	}
	return w.Message
}
