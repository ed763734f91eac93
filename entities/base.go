package entities

import (
	"fmt"

	"github.com/zooyer/dxfdoc/core"
)

// 颜色与线型的继承哨兵值
const (
	ColorByBlock = 0
	ColorByLayer = 256

	LinetypeByLayer = "ByLayer"
	LinetypeByBlock = "ByBlock"

	LineweightDefault = -3 // 随全局缺省
	LineweightByBlock = -2
	LineweightByLayer = -1
)

// Entity 是所有 DXF 实体（图形实体、表项、对象、透传实体）的统一接口
type Entity interface {
	Type() string
	Handle() string
	SetHandle(handle string)
	Owner() string
	SetOwner(owner string)
	Graphical() bool
	Schema() *Schema // 透传实体返回 nil
	Base() *BaseEntity

	// ExportTags 按模式声明顺序导出标签。属性要求的版本高于目标版本时
	// 返回 core.ErrVersion；downgrade 为真则丢弃该属性继续导出。
	ExportTags(version core.Version, downgrade bool) (core.Tags, error)
}

// BaseEntity 存放所有实体通用的状态：句柄、属主、稀疏属性值、
// 未声明的透传标签以及 XDATA/应用数据块。
// 缺省值不存储，Get 访问缺失属性时代入模式声明的缺省值。
type BaseEntity struct {
	schema     *Schema
	handle     string
	owner      string
	attrs      map[int]any
	extra      core.Tags
	xdata      []core.XDataBlock
	appdata    []core.AppDataBlock
	mismatches []int // 声明版本高于文档版本的组码，审计用
}

func newBase(schema *Schema) BaseEntity {
	return BaseEntity{schema: schema, attrs: make(map[int]any)}
}

func (b *BaseEntity) Type() string {
	if b.schema != nil {
		return b.schema.Type
	}
	return ""
}

func (b *BaseEntity) Handle() string        { return b.handle }
func (b *BaseEntity) SetHandle(h string)    { b.handle = h }
func (b *BaseEntity) Owner() string         { return b.owner }
func (b *BaseEntity) SetOwner(owner string) { b.owner = owner }
func (b *BaseEntity) Schema() *Schema       { return b.schema }
func (b *BaseEntity) Base() *BaseEntity     { return b }

func (b *BaseEntity) Graphical() bool {
	return b.schema != nil && b.schema.Graphical
}

// Has 判断属性是否显式出现过（缺省值不算）
func (b *BaseEntity) Has(code int) bool {
	_, ok := b.attrs[code]
	return ok
}

// Get 返回属性值；未显式设置时返回模式声明的缺省值
func (b *BaseEntity) Get(code int) any {
	if v, ok := b.attrs[code]; ok {
		return v
	}
	if b.schema != nil {
		if attr, ok := b.schema.Attr(code); ok {
			return attr.Default
		}
	}
	return nil
}

// Set 显式设置属性值
func (b *BaseEntity) Set(code int, value any) {
	b.attrs[code] = value
}

// Unset 清除显式值，恢复为缺省
func (b *BaseEntity) Unset(code int) {
	delete(b.attrs, code)
}

func (b *BaseEntity) GetString(code int) string {
	return core.Tag{Code: code, Value: b.Get(code)}.AsString()
}

func (b *BaseEntity) GetInt(code int) int64 {
	return core.Tag{Code: code, Value: b.Get(code)}.AsInt()
}

func (b *BaseEntity) GetFloat(code int) float64 {
	return core.Tag{Code: code, Value: b.Get(code)}.AsFloat()
}

func (b *BaseEntity) GetBool(code int) bool {
	return core.Tag{Code: code, Value: b.Get(code)}.AsBool()
}

func (b *BaseEntity) GetPoint(code int) core.Point {
	return core.Tag{Code: code, Value: b.Get(code)}.AsPoint()
}

// 通用图形属性

func (b *BaseEntity) Layer() string          { return b.GetString(8) }
func (b *BaseEntity) SetLayer(name string)   { b.Set(8, name) }
func (b *BaseEntity) Linetype() string       { return b.GetString(6) }
func (b *BaseEntity) SetLinetype(name string) { b.Set(6, name) }
func (b *BaseEntity) Color() int64           { return b.GetInt(62) }
func (b *BaseEntity) SetColor(aci int64)     { b.Set(62, aci) }
func (b *BaseEntity) Lineweight() int64      { return b.GetInt(370) }
func (b *BaseEntity) SetLineweight(lw int64) { b.Set(370, lw) }
func (b *BaseEntity) InPaperspace() bool     { return b.GetInt(67) != 0 }

// ExtraTags 返回未声明但需原样回写的标签
func (b *BaseEntity) ExtraTags() core.Tags {
	return b.extra
}

// XData 返回扩展数据块
func (b *BaseEntity) XData() []core.XDataBlock {
	return b.xdata
}

// SetXData 替换指定应用的扩展数据块
func (b *BaseEntity) SetXData(block core.XDataBlock) {
	for i := range b.xdata {
		if b.xdata[i].AppID == block.AppID {
			b.xdata[i] = block
			return
		}
	}
	b.xdata = append(b.xdata, block)
}

// AppData 返回应用数据块（扩展字典等关联数据的载体）
func (b *BaseEntity) AppData() []core.AppDataBlock {
	return b.appdata
}

// VersionMismatches 返回声明版本高于文档版本的组码
func (b *BaseEntity) VersionMismatches() []int {
	return b.mismatches
}

// applyCollection 通用装配：模式声明的组码存为类型化值，
// 未声明的组码保留在 extra 中，绝不丢弃
func (b *BaseEntity) applyCollection(tc *core.TagCollection, version core.Version) {
	for _, t := range tc.Tags {
		b.applyTag(t, version)
	}
	b.xdata = tc.XData
	b.appdata = tc.AppData
}

// applyTag 装配单个标签，返回是否被消费
func (b *BaseEntity) applyTag(t core.Tag, version core.Version) bool {
	switch t.Code {
	case b.schema.HandleCode:
		b.handle = t.AsHandle()
		return true
	case 330:
		if b.owner == "" {
			b.owner = t.AsHandle()
			return true
		}
	case 100:
		// 子类标记由写出端按模式重建，不保留
		return true
	}

	attr, ok := b.schema.Attr(t.Code)
	if !ok {
		b.extra = append(b.extra, t)
		return false
	}
	if attr.Since != "" && version != "" && version.Before(attr.Since) {
		b.mismatches = append(b.mismatches, t.Code)
	}
	b.attrs[t.Code] = t.Value
	return true
}

// exportCommon 导出 0/句柄/属主 前导标签
func (b *BaseEntity) exportCommon(version core.Version) core.Tags {
	out := core.Tags{{Code: 0, Value: b.Type()}}
	if b.handle != "" {
		out = append(out, core.Tag{Code: b.schema.HandleCode, Value: b.handle})
	}
	for _, ad := range b.appdata {
		out = append(out, core.Tag{Code: 102, Value: "{" + ad.Name})
		out = append(out, ad.Tags...)
		out = append(out, core.Tag{Code: 102, Value: "}"})
	}
	if b.owner != "" && version >= core.AC1015 {
		out = append(out, core.Tag{Code: 330, Value: b.owner})
	}
	return out
}

// exportAttrs 按模式声明顺序导出属性：
// 显式值等于缺省值且非必填的属性省略；版本不足的属性报 ErrVersion
func (b *BaseEntity) exportAttrs(version core.Version, downgrade bool) (core.Tags, error) {
	var out core.Tags
	for _, attr := range b.schema.Attrs {
		v, explicit := b.attrs[attr.Code]
		if !explicit {
			if attr.Required && attr.Default != nil {
				out = append(out, core.Tag{Code: attr.Code, Value: attr.Default})
			}
			continue
		}
		if attr.Since != "" && version.Before(attr.Since) {
			if !downgrade {
				return nil, fmt.Errorf("%w: attribute %s(%d) of %s requires %s, target is %s",
					core.ErrVersion, attr.Name, attr.Code, b.Type(), attr.Since, version)
			}
			continue // 显式降级：丢弃该属性
		}
		if !attr.Required && valueEqual(v, attr.Default) {
			continue
		}
		out = append(out, core.Tag{Code: attr.Code, Value: v})
	}
	return out, nil
}

// exportTrailer 导出透传标签与扩展数据
func (b *BaseEntity) exportTrailer() core.Tags {
	var out core.Tags
	out = append(out, b.extra...)
	for _, xd := range b.xdata {
		out = append(out, core.Tag{Code: 1001, Value: xd.AppID})
		out = append(out, xd.Tags...)
	}
	return out
}

// ExportTags 通用导出路径；带重复组码等特殊结构的类型自行覆盖
func (b *BaseEntity) ExportTags(version core.Version, downgrade bool) (core.Tags, error) {
	attrs, err := b.exportAttrs(version, downgrade)
	if err != nil {
		return nil, err
	}
	out := b.exportCommon(version)
	out = append(out, attrs...)
	out = append(out, b.exportTrailer()...)
	return out, nil
}

// valueEqual 比较属性值与缺省值，数值跨类型按数值比较
func valueEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case int64:
		switch bv := b.(type) {
		case int64:
			return av == bv
		case int:
			return av == int64(bv)
		case float64:
			return float64(av) == bv
		}
	case int:
		return valueEqual(int64(av), b)
	case float64:
		switch bv := b.(type) {
		case float64:
			return av == bv
		case int64:
			return av == float64(bv)
		case int:
			return av == float64(bv)
		}
	case core.Point:
		if bv, ok := b.(core.Point); ok {
			return av == bv
		}
	case core.Point2D:
		if bv, ok := b.(core.Point2D); ok {
			return av == bv
		}
	case string:
		if bv, ok := b.(string); ok {
			return av == bv
		}
	case bool:
		if bv, ok := b.(bool); ok {
			return av == bv
		}
	}
	return false
}
