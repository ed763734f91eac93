package dxfdoc

import (
	"strconv"
	"strings"

	"github.com/zooyer/dxfdoc/core"
)

// HeaderVar HEADER 段的一个变量（9 $NAME 后跟若干值标签）
type HeaderVar struct {
	Name string
	Tags core.Tags
}

// Header 文件头变量集合，保持出现顺序往返
type Header struct {
	vars  []*HeaderVar
	index map[string]*HeaderVar
}

func NewHeader() *Header {
	return &Header{index: make(map[string]*HeaderVar)}
}

// defaultHeader 新建文档的最小文件头
func defaultHeader(version core.Version) *Header {
	h := NewHeader()
	h.SetVersion(version)
	if !version.Unicode() {
		h.Set("$DWGCODEPAGE", core.Tag{Code: 3, Value: core.DefaultCodepage})
	}
	h.Set("$HANDSEED", core.Tag{Code: 5, Value: "100"})
	h.Set("$INSUNITS", core.Tag{Code: 70, Value: int64(4)}) // 毫米
	h.Set("$CLAYER", core.Tag{Code: 8, Value: "0"})
	h.Set("$CELTYPE", core.Tag{Code: 6, Value: "ByLayer"})
	h.Set("$CECOLOR", core.Tag{Code: 62, Value: int64(256)})
	h.Set("$LTSCALE", core.Tag{Code: 40, Value: 1.0})
	return h
}

// parseHeader 从 HEADER 段的标签序列装配
func parseHeader(tags core.Tags) *Header {
	h := NewHeader()
	var current *HeaderVar
	for _, t := range tags {
		if t.Code == 2 && t.AsString() == "HEADER" {
			continue // 段名标签
		}
		if t.Code == 9 {
			current = &HeaderVar{Name: t.AsString()}
			h.vars = append(h.vars, current)
			h.index[current.Name] = current
			continue
		}
		if current != nil {
			current.Tags = append(current.Tags, t)
		}
	}
	return h
}

// Get 按变量名取值标签
func (h *Header) Get(name string) (core.Tags, bool) {
	v, ok := h.index[name]
	if !ok {
		return nil, false
	}
	return v.Tags, true
}

// Set 覆盖或追加变量
func (h *Header) Set(name string, tags ...core.Tag) {
	if v, ok := h.index[name]; ok {
		v.Tags = tags
		return
	}
	v := &HeaderVar{Name: name, Tags: tags}
	h.vars = append(h.vars, v)
	h.index[name] = v
}

// Has 判断变量是否存在
func (h *Header) Has(name string) bool {
	_, ok := h.index[name]
	return ok
}

// Vars 按出现顺序返回全部变量
func (h *Header) Vars() []*HeaderVar {
	return h.vars
}

// Version 返回 $ACADVER 声明的格式版本，缺省按 R12 处理
func (h *Header) Version() core.Version {
	if tags, ok := h.Get("$ACADVER"); ok {
		if t, ok := tags.Get(1); ok {
			return core.Version(strings.TrimSpace(t.AsString()))
		}
	}
	return core.AC1009
}

func (h *Header) SetVersion(version core.Version) {
	h.Set("$ACADVER", core.Tag{Code: 1, Value: string(version)})
}

// Codepage 返回 $DWGCODEPAGE，缺省 ANSI_1252
func (h *Header) Codepage() string {
	if tags, ok := h.Get("$DWGCODEPAGE"); ok {
		if t, ok := tags.Get(3); ok {
			return t.AsString()
		}
	}
	return core.DefaultCodepage
}

// HandSeed 返回 $HANDSEED 的数值，缺失返回 0
func (h *Header) HandSeed() uint64 {
	if tags, ok := h.Get("$HANDSEED"); ok {
		if t, ok := tags.Get(5); ok {
			if n, err := strconv.ParseUint(strings.TrimSpace(t.AsString()), 16, 64); err == nil {
				return n
			}
		}
	}
	return 0
}

func (h *Header) SetHandSeed(seed uint64) {
	h.Set("$HANDSEED", core.Tag{Code: 5, Value: strings.ToUpper(strconv.FormatUint(seed, 16))})
}
