package utils

import (
	"math"

	"github.com/zooyer/dxfdoc/core"
	"github.com/zooyer/dxfdoc/entities"
)

// TransformPoint 将局部坐标点经过 Insert 变换转换到父级/世界坐标
func TransformPoint(p core.Point, ins *entities.Insert) core.Point {
	rad := ins.Rotation() * math.Pi / 180.0
	cos, sin := math.Cos(rad), math.Sin(rad)
	scale := ins.Scale()
	base := ins.InsertPoint()

	// 1. 缩放
	tx := p.X * scale.X
	ty := p.Y * scale.Y
	tz := p.Z * scale.Z

	// 2. 旋转
	rx := tx*cos - ty*sin
	ry := tx*sin + ty*cos

	// 3. 平移
	return core.Point{
		X: rx + base.X,
		Y: ry + base.Y,
		Z: tz + base.Z,
	}
}
