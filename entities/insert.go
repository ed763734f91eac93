package entities

import (
	"github.com/zooyer/dxfdoc/core"
)

// Insert 块引用。引用图形成环（块内再引用自身）由审计器检测拒绝。
// 带属性时后随 ATTRIB 序列直至 SEQEND，由文档装载层挂接。
type Insert struct {
	BaseEntity
	Attribs []*Attrib
	SeqEnd  *SeqEnd
}

var insertSchema = &Schema{
	Type:      "INSERT",
	Graphical: true,
	Attrs: graphicalAttrs(
		Attr{Code: 66, Name: "attribs_follow", Default: int64(0)},
		Attr{Code: 2, Name: "name", Required: true},
		Attr{Code: 10, Name: "insert", Default: core.Point{}, Required: true},
		Attr{Code: 41, Name: "xscale", Default: 1.0},
		Attr{Code: 42, Name: "yscale", Default: 1.0},
		Attr{Code: 43, Name: "zscale", Default: 1.0},
		Attr{Code: 50, Name: "rotation", Default: 0.0},
		Attr{Code: 70, Name: "column_count", Default: int64(1)},
		Attr{Code: 71, Name: "row_count", Default: int64(1)},
		Attr{Code: 44, Name: "column_spacing", Default: 0.0},
		Attr{Code: 45, Name: "row_spacing", Default: 0.0},
		Attr{Code: 210, Name: "extrusion", Default: core.Point{Z: 1}},
	),
}

// Attrib 块引用属性（键值文字）
type Attrib struct {
	BaseEntity
}

var attribSchema = &Schema{
	Type:      "ATTRIB",
	Graphical: true,
	Attrs: graphicalAttrs(
		Attr{Code: 10, Name: "insert", Default: core.Point{}, Required: true},
		Attr{Code: 40, Name: "height", Default: 1.0, Required: true},
		Attr{Code: 1, Name: "text", Default: "", Required: true},
		Attr{Code: 2, Name: "tag", Default: "", Required: true},
		Attr{Code: 70, Name: "flags", Default: int64(0), Required: true},
		Attr{Code: 50, Name: "rotation", Default: 0.0},
		Attr{Code: 41, Name: "width_factor", Default: 1.0},
		Attr{Code: 7, Name: "style", Default: "Standard"},
		Attr{Code: 72, Name: "halign", Default: int64(0)},
		Attr{Code: 11, Name: "align_point", Default: core.Point{}},
		Attr{Code: 74, Name: "valign", Default: int64(0)},
		Attr{Code: 210, Name: "extrusion", Default: core.Point{Z: 1}},
	),
}

// AttDef 属性定义（块定义内的属性模板）
type AttDef struct {
	BaseEntity
}

var attdefSchema = &Schema{
	Type:      "ATTDEF",
	Graphical: true,
	Attrs: graphicalAttrs(
		Attr{Code: 10, Name: "insert", Default: core.Point{}, Required: true},
		Attr{Code: 40, Name: "height", Default: 1.0, Required: true},
		Attr{Code: 1, Name: "text", Default: "", Required: true},
		Attr{Code: 3, Name: "prompt", Default: ""},
		Attr{Code: 2, Name: "tag", Default: "", Required: true},
		Attr{Code: 70, Name: "flags", Default: int64(0), Required: true},
		Attr{Code: 50, Name: "rotation", Default: 0.0},
		Attr{Code: 7, Name: "style", Default: "Standard"},
		Attr{Code: 210, Name: "extrusion", Default: core.Point{Z: 1}},
	),
}

func init() {
	Register(insertSchema, func() Entity { return &Insert{BaseEntity: newBase(insertSchema)} })
	Register(attribSchema, func() Entity { return &Attrib{newBase(attribSchema)} })
	Register(attdefSchema, func() Entity { return &AttDef{newBase(attdefSchema)} })
}

// NewInsert 构造块引用
func NewInsert(blockName string, insert core.Point) *Insert {
	i := &Insert{BaseEntity: newBase(insertSchema)}
	i.Set(2, blockName)
	i.Set(10, insert)
	return i
}

func (i *Insert) BlockName() string      { return i.GetString(2) }
func (i *Insert) SetBlockName(n string)  { i.Set(2, n) }
func (i *Insert) InsertPoint() core.Point { return i.GetPoint(10) }
func (i *Insert) Rotation() float64      { return i.GetFloat(50) }

// Scale 返回三轴缩放，未设置的轴缺省为 1
func (i *Insert) Scale() core.Point {
	return core.Point{X: i.GetFloat(41), Y: i.GetFloat(42), Z: i.GetFloat(43)}
}

// HasAttribs 判断其后是否跟随 ATTRIB 序列
func (i *Insert) HasAttribs() bool {
	return i.GetInt(66) != 0 || len(i.Attribs) > 0
}

// GetAttr 按属性标签取值，不存在返回空串
func (i *Insert) GetAttr(tag string) string {
	for _, a := range i.Attribs {
		if a.Tag() == tag {
			return a.Text()
		}
	}
	return ""
}

func (a *Attrib) Tag() string  { return a.GetString(2) }
func (a *Attrib) Text() string { return a.GetString(1) }
