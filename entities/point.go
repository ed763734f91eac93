package entities

import (
	"github.com/zooyer/dxfdoc/core"
)

// Point 点实体
type Point struct {
	BaseEntity
}

var pointSchema = &Schema{
	Type:      "POINT",
	Graphical: true,
	Attrs: graphicalAttrs(
		Attr{Code: 10, Name: "location", Default: core.Point{}, Required: true},
		Attr{Code: 39, Name: "thickness", Default: 0.0},
		Attr{Code: 50, Name: "angle", Default: 0.0},
		Attr{Code: 210, Name: "extrusion", Default: core.Point{Z: 1}},
	),
}

func init() {
	Register(pointSchema, func() Entity { return &Point{newBase(pointSchema)} })
}

// NewPoint 构造一个点实体
func NewPoint(location core.Point) *Point {
	p := &Point{newBase(pointSchema)}
	p.Set(10, location)
	return p
}

func (p *Point) Location() core.Point     { return p.GetPoint(10) }
func (p *Point) SetLocation(v core.Point) { p.Set(10, v) }
