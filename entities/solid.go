package entities

import (
	"github.com/zooyer/dxfdoc/core"
)

// Solid 实心四边形（第 4 点缺省时按三角形处理，与第 3 点重合）
type Solid struct {
	BaseEntity
}

var solidSchema = &Schema{
	Type:      "SOLID",
	Graphical: true,
	Attrs: graphicalAttrs(
		Attr{Code: 10, Name: "vtx0", Default: core.Point{}, Required: true},
		Attr{Code: 11, Name: "vtx1", Default: core.Point{}, Required: true},
		Attr{Code: 12, Name: "vtx2", Default: core.Point{}, Required: true},
		Attr{Code: 13, Name: "vtx3", Default: core.Point{}},
		Attr{Code: 39, Name: "thickness", Default: 0.0},
		Attr{Code: 210, Name: "extrusion", Default: core.Point{Z: 1}},
	),
}

func init() {
	Register(solidSchema, func() Entity { return &Solid{newBase(solidSchema)} })
}

// NewSolid 按给定角点构造，三角形传三个点即可
func NewSolid(corners ...core.Point) *Solid {
	s := &Solid{newBase(solidSchema)}
	for i, p := range corners {
		if i > 3 {
			break
		}
		s.Set(10+i, p)
	}
	if len(corners) == 3 {
		s.Set(13, corners[2])
	}
	return s
}

// Corners 返回四个角点
func (s *Solid) Corners() []core.Point {
	return []core.Point{s.GetPoint(10), s.GetPoint(11), s.GetPoint(12), s.GetPoint(13)}
}
