package entities

import (
	"github.com/zooyer/dxfdoc/core"
)

// Opaque 未注册类型的透传实体：原始标签一字不动地保存，
// 写出时按读入内容与顺序原样回放，保证无损往返。
type Opaque struct {
	typeName  string
	handle    string
	owner     string
	graphical bool
	tags      core.Tags
	xdata     []core.XDataBlock
	appdata   []core.AppDataBlock
}

// NewOpaque 从记录创建透传实体。
// 是否算图形实体按签名判定：带图层组码（8）的记录按图形实体归置。
func NewOpaque(tc *core.TagCollection) *Opaque {
	return &Opaque{
		typeName:  tc.TypeName,
		handle:    tc.Handle(),
		owner:     tc.Owner(),
		graphical: tc.Tags.Has(8),
		tags:      tc.Tags.Clone(),
		xdata:     tc.XData,
		appdata:   tc.AppData,
	}
}

func (o *Opaque) Type() string    { return o.typeName }
func (o *Opaque) Handle() string  { return o.handle }
func (o *Opaque) Owner() string   { return o.owner }
func (o *Opaque) Graphical() bool { return o.graphical }
func (o *Opaque) Schema() *Schema { return nil }
func (o *Opaque) Base() *BaseEntity { return nil }

// SetHandle 同步更新保存的原始标签，保持导出一致
func (o *Opaque) SetHandle(h string) {
	o.handle = h
	for i, t := range o.tags {
		if t.Code == 5 {
			o.tags[i].Value = h
			return
		}
	}
	o.tags = append(core.Tags{{Code: 5, Value: h}}, o.tags...)
}

// SetOwner 同步更新保存的原始标签；没有 330 时补在句柄之后，
// 重新归置的属主才能随导出往返
func (o *Opaque) SetOwner(owner string) {
	o.owner = owner
	for i, t := range o.tags {
		if t.Code == 330 {
			o.tags[i].Value = owner
			return
		}
	}
	for i, t := range o.tags {
		if t.Code == 5 {
			tags := append(core.Tags{}, o.tags[:i+1]...)
			tags = append(tags, core.Tag{Code: 330, Value: owner})
			o.tags = append(tags, o.tags[i+1:]...)
			return
		}
	}
	o.tags = append(core.Tags{{Code: 330, Value: owner}}, o.tags...)
}

// Tags 返回保存的原始标签
func (o *Opaque) Tags() core.Tags {
	return o.tags
}

// ExportTags 原样回放，透传实体不受版本门限约束
func (o *Opaque) ExportTags(version core.Version, downgrade bool) (core.Tags, error) {
	out := core.Tags{{Code: 0, Value: o.typeName}}
	out = append(out, o.tags...)
	for _, ad := range o.appdata {
		out = append(out, core.Tag{Code: 102, Value: "{" + ad.Name})
		out = append(out, ad.Tags...)
		out = append(out, core.Tag{Code: 102, Value: "}"})
	}
	for _, xd := range o.xdata {
		out = append(out, core.Tag{Code: 1001, Value: xd.AppID})
		out = append(out, xd.Tags...)
	}
	return out, nil
}
