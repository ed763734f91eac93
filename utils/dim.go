package utils

import (
	"math"
	"strings"

	"github.com/zooyer/dxfdoc"
	"github.com/zooyer/dxfdoc/entities"
)

// GetDimValue 取标注的显示值：
// 有手动文字覆盖时按文字提取数字，否则按样式精度对实测值取舍
func GetDimValue(doc *dxfdoc.Document, dim *entities.Dimension) float64 {
	// 1. 如果有手动文字覆盖，直接按文字提取数字
	if text := dim.Text(); text != "" && !strings.Contains(text, "<>") {
		return dim.MeasurementText()
	}

	// 2. 查找标注样式定义的精度
	var precision int64 // 默认取整
	if entry, ok := doc.Tables.DimStyles.Get(dim.DimStyle()); ok {
		if style, ok := entry.(*entities.DimStyle); ok {
			precision = style.Precision()
		}
	}

	// 3. 根据精度进行四舍五入
	p := math.Pow(10, float64(precision))

	return math.Round(dim.Measurement()*p) / p
}
