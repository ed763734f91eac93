package entities

import (
	"github.com/zooyer/dxfdoc/core"
)

// Polyline 传统多段线。顶点是独立的 VERTEX 实体，随后跟 SEQEND 收尾，
// 文档装载层负责把顶点序列挂到多段线上。
type Polyline struct {
	BaseEntity
	Vertices []*Vertex
	SeqEnd   *SeqEnd
}

var polylineSchema = &Schema{
	Type:      "POLYLINE",
	Graphical: true,
	Attrs: graphicalAttrs(
		Attr{Code: 66, Name: "vertices_follow", Default: int64(1)},
		Attr{Code: 10, Name: "elevation", Default: core.Point{}},
		Attr{Code: 70, Name: "flags", Default: int64(0), Required: true},
		Attr{Code: 40, Name: "start_width", Default: 0.0},
		Attr{Code: 41, Name: "end_width", Default: 0.0},
		Attr{Code: 71, Name: "m_count", Default: int64(0)},
		Attr{Code: 72, Name: "n_count", Default: int64(0)},
		Attr{Code: 210, Name: "extrusion", Default: core.Point{Z: 1}},
	),
}

// Vertex 传统多段线顶点
type Vertex struct {
	BaseEntity
}

var vertexSchema = &Schema{
	Type:      "VERTEX",
	Graphical: true,
	Attrs: graphicalAttrs(
		Attr{Code: 10, Name: "location", Default: core.Point{}, Required: true},
		Attr{Code: 40, Name: "start_width", Default: 0.0},
		Attr{Code: 41, Name: "end_width", Default: 0.0},
		Attr{Code: 42, Name: "bulge", Default: 0.0},
		Attr{Code: 70, Name: "flags", Default: int64(0)},
	),
}

// SeqEnd 序列结束标记
type SeqEnd struct {
	BaseEntity
}

var seqendSchema = &Schema{
	Type:      "SEQEND",
	Graphical: true,
	Attrs:     graphicalAttrs(),
}

func init() {
	Register(polylineSchema, func() Entity { return &Polyline{BaseEntity: newBase(polylineSchema)} })
	Register(vertexSchema, func() Entity { return &Vertex{newBase(vertexSchema)} })
	Register(seqendSchema, func() Entity { return &SeqEnd{newBase(seqendSchema)} })
}

// Closed 判断多段线是否闭合
func (p *Polyline) Closed() bool {
	return p.GetInt(70)&1 != 0
}

// AddVertex 追加一个顶点
func (p *Polyline) AddVertex(location core.Point) *Vertex {
	v := &Vertex{newBase(vertexSchema)}
	v.Set(10, location)
	v.SetLayer(p.Layer())
	p.Vertices = append(p.Vertices, v)
	return v
}

func (v *Vertex) Location() core.Point { return v.GetPoint(10) }
func (v *Vertex) Bulge() float64       { return v.GetFloat(42) }
