package entities

import (
	"github.com/zooyer/dxfdoc/core"
)

// TableEntry 表项实体的公共访问接口
type TableEntry interface {
	Entity
	Name() string
	SetName(name string)
}

// tableEntry 表项的通用实现，名称在组码 2
type tableEntry struct {
	BaseEntity
}

func (t *tableEntry) Name() string        { return t.GetString(2) }
func (t *tableEntry) SetName(name string) { t.Set(2, name) }

// Layer 图层表项
type Layer struct {
	tableEntry
}

var layerSchema = &Schema{
	Type: "LAYER",
	Attrs: tableAttrs(
		Attr{Code: 62, Name: "color", Default: int64(7), Required: true},
		Attr{Code: 6, Name: "linetype", Default: "Continuous", Required: true},
		Attr{Code: 290, Name: "plot", Default: true, Since: core.AC1015},
		Attr{Code: 370, Name: "lineweight", Default: int64(LineweightDefault), Since: core.AC1015},
		Attr{Code: 390, Name: "plotstyle_handle", Since: core.AC1015},
		Attr{Code: 420, Name: "true_color", Since: core.AC1018},
	),
}

// Frozen 图层是否冻结（70 组码第 1 位）
func (l *Layer) Frozen() bool { return l.GetInt(70)&1 != 0 }

// Locked 图层是否锁定（70 组码第 3 位）
func (l *Layer) Locked() bool { return l.GetInt(70)&4 != 0 }

// Off 图层是否关闭（颜色为负值表示关闭）
func (l *Layer) Off() bool { return l.GetInt(62) < 0 }

func (l *Layer) Color() int64       { return l.GetInt(62) }
func (l *Layer) Linetype() string   { return l.GetString(6) }
func (l *Layer) Lineweight() int64  { return l.GetInt(370) }

// NewLayer 按文档缺省属性创建图层
func NewLayer(name string) *Layer {
	l := &Layer{}
	l.BaseEntity = newBase(layerSchema)
	l.Set(2, name)
	return l
}

// Linetype 线型表项。虚线花样段（重复的 49 组码）不在模式内声明，
// 整段保留在透传标签里原样往返。
type Linetype struct {
	tableEntry
}

var linetypeSchema = &Schema{
	Type: "LTYPE",
	Attrs: tableAttrs(
		Attr{Code: 3, Name: "description", Default: "", Required: true},
		Attr{Code: 72, Name: "alignment", Default: int64(65), Required: true},
		Attr{Code: 73, Name: "pattern_count", Default: int64(0), Required: true},
		Attr{Code: 40, Name: "pattern_length", Default: 0.0, Required: true},
	),
}

// NewLinetype 创建线型表项
func NewLinetype(name, description string) *Linetype {
	lt := &Linetype{}
	lt.BaseEntity = newBase(linetypeSchema)
	lt.Set(2, name)
	lt.Set(3, description)
	return lt
}

// Textstyle 文字样式表项
type Textstyle struct {
	tableEntry
}

var textstyleSchema = &Schema{
	Type: "STYLE",
	Attrs: tableAttrs(
		Attr{Code: 40, Name: "height", Default: 0.0, Required: true},
		Attr{Code: 41, Name: "width", Default: 1.0, Required: true},
		Attr{Code: 50, Name: "oblique", Default: 0.0, Required: true},
		Attr{Code: 71, Name: "generation_flags", Default: int64(0), Required: true},
		Attr{Code: 42, Name: "last_height", Default: 2.5, Required: true},
		Attr{Code: 3, Name: "font", Default: "txt", Required: true},
		Attr{Code: 4, Name: "bigfont", Default: "", Required: true},
	),
}

// NewTextstyle 创建文字样式表项
func NewTextstyle(name, font string) *Textstyle {
	ts := &Textstyle{}
	ts.BaseEntity = newBase(textstyleSchema)
	ts.Set(2, name)
	ts.Set(3, font)
	return ts
}

// DimStyle 标注样式表项，句柄在组码 105。
// 大量 DIMxxx 覆盖项不逐一声明，保留在透传标签里。
type DimStyle struct {
	tableEntry
}

var dimstyleSchema = &Schema{
	Type:       "DIMSTYLE",
	HandleCode: 105,
	Attrs: tableAttrs(
		Attr{Code: 3, Name: "dimpost", Default: ""},
		Attr{Code: 40, Name: "dimscale", Default: 1.0},
		Attr{Code: 41, Name: "dimasz", Default: 2.5},
		Attr{Code: 44, Name: "dimexe", Default: 1.25},
		Attr{Code: 140, Name: "dimtxt", Default: 2.5},
		Attr{Code: 271, Name: "dimdec", Default: int64(2), Since: core.AC1015},
	),
}

func (d *DimStyle) Scale() float64  { return d.GetFloat(40) }
func (d *DimStyle) ExLimit() float64 { return d.GetFloat(44) }
func (d *DimStyle) Precision() int64 { return d.GetInt(271) }

// NewDimStyle 创建标注样式表项
func NewDimStyle(name string) *DimStyle {
	ds := &DimStyle{}
	ds.BaseEntity = newBase(dimstyleSchema)
	ds.Set(2, name)
	return ds
}

// AppID 注册应用表项
type AppID struct {
	tableEntry
}

var appidSchema = &Schema{
	Type:  "APPID",
	Attrs: tableAttrs(),
}

// NewAppID 创建注册应用表项
func NewAppID(name string) *AppID {
	a := &AppID{}
	a.BaseEntity = newBase(appidSchema)
	a.Set(2, name)
	return a
}

// View 命名视图表项
type View struct {
	tableEntry
}

var viewSchema = &Schema{
	Type: "VIEW",
	Attrs: tableAttrs(
		Attr{Code: 40, Name: "height", Default: 1.0, Required: true},
		Attr{Code: 10, Name: "center", Default: core.Point2D{}, Required: true},
		Attr{Code: 41, Name: "width", Default: 1.0, Required: true},
		Attr{Code: 11, Name: "direction", Default: core.Point{Z: 1}},
		Attr{Code: 12, Name: "target", Default: core.Point{}},
	),
}

// VPort 视口配置表项。同名多条记录组成一套多视口配置，
// 视口表因此允许重名（文档表层专门放开）。
type VPort struct {
	tableEntry
}

var vportSchema = &Schema{
	Type: "VPORT",
	Attrs: tableAttrs(
		Attr{Code: 10, Name: "lower_left", Default: core.Point2D{}, Required: true},
		Attr{Code: 11, Name: "upper_right", Default: core.Point2D{X: 1, Y: 1}, Required: true},
		Attr{Code: 12, Name: "center", Default: core.Point2D{}},
		Attr{Code: 13, Name: "snap_base", Default: core.Point2D{}},
		Attr{Code: 14, Name: "snap_spacing", Default: core.Point2D{X: 10, Y: 10}},
		Attr{Code: 15, Name: "grid_spacing", Default: core.Point2D{}},
		Attr{Code: 16, Name: "direction", Default: core.Point{Z: 1}},
		Attr{Code: 17, Name: "target", Default: core.Point{}},
		Attr{Code: 40, Name: "height", Default: 1.0},
		Attr{Code: 41, Name: "aspect_ratio", Default: 1.0},
	),
}

// UCS 用户坐标系表项
type UCS struct {
	tableEntry
}

var ucsSchema = &Schema{
	Type: "UCS",
	Attrs: tableAttrs(
		Attr{Code: 10, Name: "origin", Default: core.Point{}, Required: true},
		Attr{Code: 11, Name: "xaxis", Default: core.Point{X: 1}, Required: true},
		Attr{Code: 12, Name: "yaxis", Default: core.Point{Y: 1}, Required: true},
	),
}

// BlockRecord 块记录表项：所有图形空间（块定义与布局）的结构属主。
// 组码 340 指向关联的 LAYOUT 对象；无关联布局的是纯块定义。
type BlockRecord struct {
	tableEntry
}

var blockRecordSchema = &Schema{
	Type:  "BLOCK_RECORD",
	Since: core.AC1015,
	Attrs: tableAttrs(
		Attr{Code: 340, Name: "layout", Default: ""},
	),
}

// LayoutHandle 返回关联 LAYOUT 对象的句柄，空串表示纯块定义
func (b *BlockRecord) LayoutHandle() string { return b.GetString(340) }

func (b *BlockRecord) SetLayoutHandle(h string) { b.Set(340, h) }

// NewBlockRecord 创建块记录
func NewBlockRecord(name string) *BlockRecord {
	br := &BlockRecord{}
	br.BaseEntity = newBase(blockRecordSchema)
	br.Set(2, name)
	return br
}

func init() {
	Register(layerSchema, func() Entity { l := &Layer{}; l.BaseEntity = newBase(layerSchema); return l })
	Register(linetypeSchema, func() Entity { lt := &Linetype{}; lt.BaseEntity = newBase(linetypeSchema); return lt })
	Register(textstyleSchema, func() Entity { ts := &Textstyle{}; ts.BaseEntity = newBase(textstyleSchema); return ts })
	Register(dimstyleSchema, func() Entity { ds := &DimStyle{}; ds.BaseEntity = newBase(dimstyleSchema); return ds })
	Register(appidSchema, func() Entity { a := &AppID{}; a.BaseEntity = newBase(appidSchema); return a })
	Register(viewSchema, func() Entity { v := &View{}; v.BaseEntity = newBase(viewSchema); return v })
	Register(vportSchema, func() Entity { v := &VPort{}; v.BaseEntity = newBase(vportSchema); return v })
	Register(ucsSchema, func() Entity { u := &UCS{}; u.BaseEntity = newBase(ucsSchema); return u })
	Register(blockRecordSchema, func() Entity { b := &BlockRecord{}; b.BaseEntity = newBase(blockRecordSchema); return b })
}
