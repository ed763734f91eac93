package entities

import (
	"github.com/zooyer/dxfdoc/core"
)

// graphicalAttrs 所有图形实体共有的属性声明，写出时排在类型专有属性之前
func graphicalAttrs(specific ...Attr) []Attr {
	common := []Attr{
		{Code: 67, Name: "paperspace", Default: int64(0)},
		{Code: 8, Name: "layer", Default: "0", Required: true},
		{Code: 6, Name: "linetype", Default: LinetypeByLayer},
		{Code: 62, Name: "color", Default: int64(ColorByLayer)},
		{Code: 370, Name: "lineweight", Default: int64(LineweightDefault), Since: core.AC1015},
		{Code: 48, Name: "ltscale", Default: 1.0, Since: core.AC1015},
		{Code: 60, Name: "invisible", Default: int64(0)},
		{Code: 420, Name: "true_color", Since: core.AC1018},
	}
	return append(common, specific...)
}

// tableAttrs 表项共有的属性声明
func tableAttrs(specific ...Attr) []Attr {
	common := []Attr{
		{Code: 2, Name: "name", Required: true},
		{Code: 70, Name: "flags", Default: int64(0), Required: true},
	}
	return append(common, specific...)
}
