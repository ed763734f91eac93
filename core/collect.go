package core

import (
	"fmt"
	"io"
	"strings"
)

// XDataBlock 扩展数据块：1001 起始，按应用名归组，内容不做解释
type XDataBlock struct {
	AppID string
	Tags  Tags
}

// AppDataBlock 应用数据块：102 "{NAME" 与 102 "}" 之间的标签，内容不做解释
type AppDataBlock struct {
	Name string
	Tags Tags
}

// TagCollection 一条逻辑记录（实体、表项、段控制记录）的全部标签。
// Tags 保持原始出现顺序，XData/AppData 剥离出来单独保存。
type TagCollection struct {
	TypeName string
	Tags     Tags
	XData    []XDataBlock
	AppData  []AppDataBlock
}

// Handle 返回记录的句柄（组码 5，DIMSTYLE 表项为 105）
func (tc *TagCollection) Handle() string {
	if t, ok := tc.Tags.Get(5); ok {
		return t.AsHandle()
	}
	if tc.TypeName == "DIMSTYLE" {
		if t, ok := tc.Tags.Get(105); ok {
			return t.AsHandle()
		}
	}
	return ""
}

// Owner 返回属主句柄（首个组码 330）
func (tc *TagCollection) Owner() string {
	if t, ok := tc.Tags.Get(330); ok {
		return t.AsHandle()
	}
	return ""
}

// Name 返回记录名（组码 2）
func (tc *TagCollection) Name() string {
	if t, ok := tc.Tags.Get(2); ok {
		return t.AsString()
	}
	return ""
}

// Collector 把编译后的标签流按 0 组码切分为逐条记录
type Collector struct {
	src      Source
	recover  bool
	started  bool
	head     Tag // 下一条记录的 0 标签
	done     bool
	err      error
	warnings []Warning
}

func NewCollector(src Source, recover bool) *Collector {
	return &Collector{src: src, recover: recover}
}

// Warnings 返回记录级的警告（含底层编译器的警告）
func (c *Collector) Warnings() []Warning {
	if cp, ok := c.src.(*Compiler); ok {
		return append(cp.Warnings(), c.warnings...)
	}
	return c.warnings
}

func (c *Collector) warnf(format string, args ...any) {
	c.warnings = append(c.warnings, Warning{Message: fmt.Sprintf(format, args...)})
}

// Read 返回下一条记录，流结束时返回 io.EOF
func (c *Collector) Read() (*TagCollection, error) {
	if c.err != nil {
		return nil, c.err
	}
	if !c.started {
		c.started = true
		// 首条 0 标签之前的标签没有归属，跳过
		for {
			if !c.src.Next() {
				c.done = true
				break
			}
			if t := c.src.Tag(); t.Code == 0 {
				c.head = t
				break
			}
		}
	}
	if c.done {
		if err := c.src.Err(); err != nil {
			c.err = err
			return nil, err
		}
		return nil, io.EOF
	}

	tc := &TagCollection{TypeName: strings.ToUpper(c.head.AsString())}

	var (
		xdata      *XDataBlock
		xdataDepth int
		appdata    *AppDataBlock
	)

	flushXData := func() {
		if xdata == nil {
			return
		}
		if xdataDepth != 0 {
			if !c.recover {
				c.err = structureErrorf(0, "unterminated xdata control block in %s", tc.TypeName)
				return
			}
			c.warnf("unterminated xdata control block in %s, kept as-is", tc.TypeName)
		}
		tc.XData = append(tc.XData, *xdata)
		xdata = nil
		xdataDepth = 0
	}

	for {
		if !c.src.Next() {
			c.done = true
			break
		}
		t := c.src.Tag()
		if t.Code == 0 {
			c.head = t
			break
		}

		switch {
		case appdata != nil:
			if t.Code == 102 && t.AsString() == "}" {
				tc.AppData = append(tc.AppData, *appdata)
				appdata = nil
				continue
			}
			appdata.Tags = append(appdata.Tags, t)

		case t.Code == 1001:
			flushXData()
			if c.err != nil {
				return nil, c.err
			}
			xdata = &XDataBlock{AppID: t.AsString()}

		case xdata != nil && t.Code >= 1000:
			if t.Code == 1002 {
				switch t.AsString() {
				case "{":
					xdataDepth++
				case "}":
					xdataDepth--
				}
			}
			xdata.Tags = append(xdata.Tags, t)

		case t.Code == 102 && strings.HasPrefix(t.AsString(), "{"):
			flushXData()
			if c.err != nil {
				return nil, c.err
			}
			appdata = &AppDataBlock{Name: strings.TrimPrefix(t.AsString(), "{")}

		default:
			flushXData()
			if c.err != nil {
				return nil, c.err
			}
			tc.Tags = append(tc.Tags, t)
		}
	}

	flushXData()
	if c.err != nil {
		return nil, c.err
	}
	if appdata != nil {
		if !c.recover {
			c.err = structureErrorf(0, "unterminated app data block %q in %s", appdata.Name, tc.TypeName)
			return nil, c.err
		}
		c.warnf("unterminated app data block %q in %s, kept as-is", appdata.Name, tc.TypeName)
		tc.AppData = append(tc.AppData, *appdata)
	}
	if c.done {
		if err := c.src.Err(); err != nil {
			c.err = err
			return nil, err
		}
	}
	if tc.TypeName == "" {
		// 类型名不可读的记录整条丢弃，绝不编造类型
		if !c.recover {
			c.err = structureErrorf(0, "record without type name")
			return nil, c.err
		}
		c.warnf("record without type name dropped (%d tags)", len(tc.Tags))
		return c.Read()
	}
	return tc, nil
}
