package entities

import (
	"github.com/zooyer/dxfdoc/core"
)

// LWVertex 轻量多段线的一个顶点（可带凸度与线宽）
type LWVertex struct {
	X, Y       float64
	StartWidth float64
	EndWidth   float64
	Bulge      float64
}

// LWPolyline 轻量多段线。顶点由重复的 10/20（及可选 40/41/42）组码构成，
// 不走通用稀疏属性装配，自行解析与导出。R2000 起才有该类型。
type LWPolyline struct {
	BaseEntity
	Vertices []LWVertex
}

var lwpolylineSchema = &Schema{
	Type:      "LWPOLYLINE",
	Graphical: true,
	Since:     core.AC1015,
	Attrs: graphicalAttrs(
		Attr{Code: 90, Name: "count", Default: int64(0), Required: true},
		Attr{Code: 70, Name: "flags", Default: int64(0), Required: true},
		Attr{Code: 43, Name: "const_width", Default: 0.0},
		Attr{Code: 38, Name: "elevation", Default: 0.0},
		Attr{Code: 39, Name: "thickness", Default: 0.0},
		Attr{Code: 210, Name: "extrusion", Default: core.Point{Z: 1}},
	),
}

func init() {
	Register(lwpolylineSchema, func() Entity { return &LWPolyline{BaseEntity: newBase(lwpolylineSchema)} })
}

// NewLWPolyline 构造轻量多段线
func NewLWPolyline(vertices ...LWVertex) *LWPolyline {
	l := &LWPolyline{BaseEntity: newBase(lwpolylineSchema)}
	l.Vertices = vertices
	l.Set(90, int64(len(vertices)))
	return l
}

// Closed 判断多段线是否闭合（70 组码第 1 位）
func (l *LWPolyline) Closed() bool {
	return l.GetInt(70)&1 != 0
}

func (l *LWPolyline) SetClosed(closed bool) {
	flags := l.GetInt(70)
	if closed {
		flags |= 1
	} else {
		flags &^= 1
	}
	l.Set(70, flags)
}

func (l *LWPolyline) apply(tc *core.TagCollection, version core.Version) {
	for _, t := range tc.Tags {
		switch t.Code {
		case 10:
			p := t.AsPoint()
			l.Vertices = append(l.Vertices, LWVertex{X: p.X, Y: p.Y})
		case 40, 41, 42:
			if n := len(l.Vertices); n > 0 {
				v := &l.Vertices[n-1]
				switch t.Code {
				case 40:
					v.StartWidth = t.AsFloat()
				case 41:
					v.EndWidth = t.AsFloat()
				case 42:
					v.Bulge = t.AsFloat()
				}
			}
		default:
			l.applyTag(t, version)
		}
	}
	l.Set(90, int64(len(l.Vertices)))
	l.xdata = tc.XData
	l.appdata = tc.AppData
}

func (l *LWPolyline) ExportTags(version core.Version, downgrade bool) (core.Tags, error) {
	l.Set(90, int64(len(l.Vertices)))
	attrs, err := l.exportAttrs(version, downgrade)
	if err != nil {
		return nil, err
	}
	out := l.exportCommon(version)
	out = append(out, attrs...)
	for _, v := range l.Vertices {
		out = append(out, core.Tag{Code: 10, Value: core.Point2D{X: v.X, Y: v.Y}})
		if v.StartWidth != 0 {
			out = append(out, core.Tag{Code: 40, Value: v.StartWidth})
		}
		if v.EndWidth != 0 {
			out = append(out, core.Tag{Code: 41, Value: v.EndWidth})
		}
		if v.Bulge != 0 {
			out = append(out, core.Tag{Code: 42, Value: v.Bulge})
		}
	}
	out = append(out, l.exportTrailer()...)
	return out, nil
}
