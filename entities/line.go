package entities

import (
	"github.com/zooyer/dxfdoc/core"
)

// Line 直线段
type Line struct {
	BaseEntity
}

var lineSchema = &Schema{
	Type:      "LINE",
	Graphical: true,
	Attrs: graphicalAttrs(
		Attr{Code: 39, Name: "thickness", Default: 0.0},
		Attr{Code: 10, Name: "start", Default: core.Point{}, Required: true},
		Attr{Code: 11, Name: "end", Default: core.Point{}, Required: true},
		Attr{Code: 210, Name: "extrusion", Default: core.Point{Z: 1}},
	),
}

func init() {
	Register(lineSchema, func() Entity { return &Line{newBase(lineSchema)} })
}

// NewLine 构造一条直线
func NewLine(start, end core.Point) *Line {
	l := &Line{newBase(lineSchema)}
	l.SetStart(start)
	l.SetEnd(end)
	return l
}

func (l *Line) Start() core.Point     { return l.GetPoint(10) }
func (l *Line) SetStart(p core.Point) { l.Set(10, p) }
func (l *Line) End() core.Point       { return l.GetPoint(11) }
func (l *Line) SetEnd(p core.Point)   { l.Set(11, p) }
