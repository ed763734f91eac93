package entities

import (
	"github.com/zooyer/dxfdoc/core"
)

// Text 单行文字
type Text struct {
	BaseEntity
}

var textSchema = &Schema{
	Type:      "TEXT",
	Graphical: true,
	Attrs: graphicalAttrs(
		Attr{Code: 10, Name: "insert", Default: core.Point{}, Required: true},
		Attr{Code: 40, Name: "height", Default: 1.0, Required: true},
		Attr{Code: 1, Name: "text", Default: "", Required: true},
		Attr{Code: 50, Name: "rotation", Default: 0.0},
		Attr{Code: 41, Name: "width_factor", Default: 1.0},
		Attr{Code: 51, Name: "oblique", Default: 0.0},
		Attr{Code: 7, Name: "style", Default: "Standard"},
		Attr{Code: 71, Name: "text_generation", Default: int64(0)},
		Attr{Code: 72, Name: "halign", Default: int64(0)},
		Attr{Code: 11, Name: "align_point", Default: core.Point{}},
		Attr{Code: 73, Name: "valign", Default: int64(0)},
		Attr{Code: 210, Name: "extrusion", Default: core.Point{Z: 1}},
	),
}

func init() {
	Register(textSchema, func() Entity { return &Text{newBase(textSchema)} })
}

// NewText 构造单行文字
func NewText(text string, insert core.Point, height float64) *Text {
	t := &Text{newBase(textSchema)}
	t.Set(1, text)
	t.Set(10, insert)
	t.Set(40, height)
	return t
}

func (t *Text) Text() string           { return t.GetString(1) }
func (t *Text) SetText(s string)       { t.Set(1, s) }
func (t *Text) Insert() core.Point     { return t.GetPoint(10) }
func (t *Text) Height() float64        { return t.GetFloat(40) }
func (t *Text) Rotation() float64      { return t.GetFloat(50) }
func (t *Text) Style() string          { return t.GetString(7) }
func (t *Text) SetStyle(name string)   { t.Set(7, name) }
