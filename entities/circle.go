package entities

import (
	"github.com/zooyer/dxfdoc/core"
)

// Circle 圆
type Circle struct {
	BaseEntity
}

var circleSchema = &Schema{
	Type:      "CIRCLE",
	Graphical: true,
	Attrs: graphicalAttrs(
		Attr{Code: 39, Name: "thickness", Default: 0.0},
		Attr{Code: 10, Name: "center", Default: core.Point{}, Required: true},
		Attr{Code: 40, Name: "radius", Default: 1.0, Required: true},
		Attr{Code: 210, Name: "extrusion", Default: core.Point{Z: 1}},
	),
}

// Arc 圆弧，在圆的基础上增加起止角（度）
type Arc struct {
	BaseEntity
}

var arcSchema = &Schema{
	Type:      "ARC",
	Graphical: true,
	Attrs: graphicalAttrs(
		Attr{Code: 39, Name: "thickness", Default: 0.0},
		Attr{Code: 10, Name: "center", Default: core.Point{}, Required: true},
		Attr{Code: 40, Name: "radius", Default: 1.0, Required: true},
		Attr{Code: 50, Name: "start_angle", Default: 0.0, Required: true},
		Attr{Code: 51, Name: "end_angle", Default: 360.0, Required: true},
		Attr{Code: 210, Name: "extrusion", Default: core.Point{Z: 1}},
	),
}

func init() {
	Register(circleSchema, func() Entity { return &Circle{newBase(circleSchema)} })
	Register(arcSchema, func() Entity { return &Arc{newBase(arcSchema)} })
}

// NewCircle 构造一个圆
func NewCircle(center core.Point, radius float64) *Circle {
	c := &Circle{newBase(circleSchema)}
	c.Set(10, center)
	c.Set(40, radius)
	return c
}

func (c *Circle) Center() core.Point     { return c.GetPoint(10) }
func (c *Circle) SetCenter(p core.Point) { c.Set(10, p) }
func (c *Circle) Radius() float64        { return c.GetFloat(40) }
func (c *Circle) SetRadius(r float64)    { c.Set(40, r) }

// NewArc 构造一段圆弧，角度为度、逆时针
func NewArc(center core.Point, radius, start, end float64) *Arc {
	a := &Arc{newBase(arcSchema)}
	a.Set(10, center)
	a.Set(40, radius)
	a.Set(50, start)
	a.Set(51, end)
	return a
}

func (a *Arc) Center() core.Point  { return a.GetPoint(10) }
func (a *Arc) Radius() float64     { return a.GetFloat(40) }
func (a *Arc) StartAngle() float64 { return a.GetFloat(50) }
func (a *Arc) EndAngle() float64   { return a.GetFloat(51) }
