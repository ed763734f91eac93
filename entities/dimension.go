package entities

import (
	"regexp"
	"strconv"

	"github.com/zooyer/dxfdoc/core"
)

// Dimension 标注实体。组码 70 低 3 位区分标注类型
type Dimension struct {
	BaseEntity
}

var dimensionSchema = &Schema{
	Type:      "DIMENSION",
	Graphical: true,
	Attrs: graphicalAttrs(
		Attr{Code: 2, Name: "geometry", Default: ""}, // 关联的匿名块 *D 名称
		Attr{Code: 10, Name: "defpoint", Default: core.Point{}, Required: true},
		Attr{Code: 11, Name: "text_midpoint", Default: core.Point{}},
		Attr{Code: 70, Name: "dimtype", Default: int64(0), Required: true},
		Attr{Code: 1, Name: "text", Default: ""},
		Attr{Code: 3, Name: "dimstyle", Default: "Standard"},
		Attr{Code: 13, Name: "defpoint2", Default: core.Point{}},
		Attr{Code: 14, Name: "defpoint3", Default: core.Point{}},
		Attr{Code: 42, Name: "actual_measurement", Default: -1.0},
		Attr{Code: 50, Name: "angle", Default: 0.0},
		Attr{Code: 210, Name: "extrusion", Default: core.Point{Z: 1}},
	),
}

func init() {
	Register(dimensionSchema, func() Entity { return &Dimension{newBase(dimensionSchema)} })
}

func (d *Dimension) DimType() int64        { return d.GetInt(70) & 0x07 }
func (d *Dimension) DimStyle() string      { return d.GetString(3) }
func (d *Dimension) Text() string          { return d.GetString(1) }
func (d *Dimension) Angle() float64        { return d.GetFloat(50) }
func (d *Dimension) DefPoint() core.Point  { return d.GetPoint(10) }
func (d *Dimension) TextMid() core.Point   { return d.GetPoint(11) }
func (d *Dimension) Measurement() float64  { return d.GetFloat(42) }

var (
	dimFormatRE = regexp.MustCompile(`\\[A-Z].*?;`)
	dimNumberRE = regexp.MustCompile(`[0-9.]+`)
)

// MeasurementText 返回实测值；42 组码缺失时从标注文字中剥掉格式码提取数值
func (d *Dimension) MeasurementText() float64 {
	val := d.Measurement()
	if val > 0 {
		return val
	}
	if text := d.Text(); text != "" {
		clean := dimFormatRE.ReplaceAllString(text, "")
		if match := dimNumberRE.FindString(clean); match != "" {
			parsed, _ := strconv.ParseFloat(match, 64)
			return parsed
		}
	}
	return val
}
