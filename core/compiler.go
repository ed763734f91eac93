package core

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/untillpro/goutils/logger"
	"golang.org/x/text/encoding"
)

// Compiler 将原始标签流编译为带类型的标签流：
// 标量按组码声明的类型转换，坐标分量（基码/基码+10/基码+20）折叠为点。
// 恢复模式下不中断整体解析，把局部问题收集为 Warning。
type Compiler struct {
	src      Source
	recover  bool
	enc      encoding.Encoding
	pending  []Tag
	last     Tag
	warnings []Warning
	err      error
}

// NewCompiler 包装一个标签源。recover 为真时进入恢复模式。
func NewCompiler(src Source, recover bool) *Compiler {
	return &Compiler{src: src, recover: recover}
}

// SetEncoding 设置文本源的字符串解码器（R2007 之前的代码页文件）。
// 二进制源解码时已转换编码，不要再设置。
func (c *Compiler) SetEncoding(enc encoding.Encoding) {
	c.enc = enc
}

// Warnings 返回恢复模式下收集的全部警告（含底层扫描器的）
func (c *Compiler) Warnings() []Warning {
	if s, ok := c.src.(*Scanner); ok && len(s.Warnings()) > 0 {
		return append(append([]Warning{}, s.Warnings()...), c.warnings...)
	}
	return c.warnings
}

// line 尽力返回底层扫描器的行号
func (c *Compiler) line() int {
	if l, ok := c.src.(interface{ Line() int }); ok {
		return l.Line()
	}
	return 0
}

func (c *Compiler) warnf(format string, args ...any) {
	w := Warning{Line: c.line(), Message: fmt.Sprintf(format, args...)}
	c.warnings = append(c.warnings, w)
	if logger.IsVerbose() {
		logger.Verbose("dxf recover:", w.String())
	}
}

// fetch 取下一个标签，优先消费回退栈
func (c *Compiler) fetch() (Tag, bool) {
	if n := len(c.pending); n > 0 {
		t := c.pending[n-1]
		c.pending = c.pending[:n-1]
		return t, true
	}
	if !c.src.Next() {
		return Tag{}, false
	}
	return c.src.Tag(), true
}

func (c *Compiler) unread(t Tag) {
	c.pending = append(c.pending, t)
}

func (c *Compiler) Next() bool {
	if c.err != nil {
		return false
	}
	for {
		t, ok := c.fetch()
		if !ok {
			return false
		}

		t, ok = c.coerce(t)
		if c.err != nil {
			return false
		}
		if !ok { // 恢复模式下丢弃的坏标签
			continue
		}

		if IsPointStart(t.Code) {
			t, ok = c.compilePoint(t)
			if c.err != nil {
				return false
			}
			if !ok {
				continue
			}
		}

		c.last = t
		return true
	}
}

// coerce 将原始字符串值转换为组码声明的类型
func (c *Compiler) coerce(t Tag) (Tag, bool) {
	raw, isRaw := t.Value.(string)
	if !isRaw {
		return t, true // 二进制源已经是类型化的值
	}

	switch CodeKind(t.Code) {
	case KindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return c.badValue(t, "invalid float value")
		}
		t.Value = f
	case KindInt:
		s := strings.TrimSpace(raw)
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			// 部分生成器会把整数写成 70.0 这种形式
			if f, ferr := strconv.ParseFloat(s, 64); ferr == nil {
				n = int64(f)
			} else {
				return c.badValue(t, "invalid integer value")
			}
		}
		t.Value = n
	case KindBool:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return c.badValue(t, "invalid bool value")
		}
		t.Value = n != 0
	case KindBytes:
		b, err := hex.DecodeString(strings.TrimSpace(raw))
		if err != nil {
			return c.badValue(t, "invalid binary chunk")
		}
		t.Value = b
	case KindHandle:
		t.Value = strings.ToUpper(strings.TrimSpace(raw))
	default:
		if c.enc != nil {
			t.Value = DecodeString(c.enc, raw)
		}
	}
	return t, true
}

// badValue 严格模式下报结构错误；恢复模式下保留原始值并记警告，绝不静默修正
func (c *Compiler) badValue(t Tag, msg string) (Tag, bool) {
	if !c.recover {
		c.err = structureErrorf(c.line(), "%s (code=%d, value=%q)", msg, t.Code, t.Value)
		return t, false
	}
	c.warnf("%s (code=%d, value=%q), kept as string", msg, t.Code, t.Value)
	return t, true
}

// compilePoint 折叠坐标分量。Y 分量必需，Z 分量可选；
// 恢复模式下容忍 Y/Z 乱序，Z 缺省为 0。
func (c *Compiler) compilePoint(x Tag) (Tag, bool) {
	base := x.Code

	first, ok := c.fetch()
	if !ok {
		return c.malformedPoint(x, Tag{}, false)
	}
	first, _ = c.coerce(first)
	if c.err != nil {
		return Tag{}, false
	}

	switch first.Code {
	case base + 10: // 正常顺序：Y 在 X 之后
		y := first.AsFloat()
		next, ok := c.fetch()
		if !ok {
			return Tag{Code: base, Value: Point2D{X: x.AsFloat(), Y: y}}, true
		}
		next, _ = c.coerce(next)
		if c.err != nil {
			return Tag{}, false
		}
		if next.Code == base+20 { // 三维点
			return Tag{Code: base, Value: Point{X: x.AsFloat(), Y: y, Z: next.AsFloat()}}, true
		}
		c.unread(next)
		return Tag{Code: base, Value: Point2D{X: x.AsFloat(), Y: y}}, true

	case base + 20: // 乱序：Z 先于 Y，仅恢复模式接受
		if !c.recover {
			c.err = structureErrorf(c.line(), "missing required y coordinate for code %d", base)
			return Tag{}, false
		}
		z := first.AsFloat()
		next, ok := c.fetch()
		if ok {
			next, _ = c.coerce(next)
			if next.Code == base+10 {
				c.warnf("out of order point coordinates for code %d", base)
				return Tag{Code: base, Value: Point{X: x.AsFloat(), Y: next.AsFloat(), Z: z}}, true
			}
			c.unread(next)
		}
		c.warnf("missing y coordinate for code %d, defaulted to 0", base)
		return Tag{Code: base, Value: Point{X: x.AsFloat(), Z: z}}, true
	}

	return c.malformedPoint(x, first, true)
}

// malformedPoint 只有 X 分量的残缺点：严格模式报错，恢复模式丢弃并记警告
func (c *Compiler) malformedPoint(x, next Tag, unread bool) (Tag, bool) {
	if !c.recover {
		c.err = structureErrorf(c.line(), "missing required y coordinate for code %d", x.Code)
		return Tag{}, false
	}
	if unread {
		c.unread(next)
	}
	c.warnf("malformed point for code %d, tag dropped", x.Code)
	return Tag{}, false
}

func (c *Compiler) Tag() Tag {
	return c.last
}

func (c *Compiler) Err() error {
	if c.err != nil {
		return c.err
	}
	return c.src.Err()
}
