package utils

import (
	"github.com/zooyer/dxfdoc/entities"
)

// CombineInserts 合并嵌套块的变换矩阵逻辑
func CombineInserts(parent, child *entities.Insert) *entities.Insert {
	// 1. 旋转叠加
	rotation := parent.Rotation() + child.Rotation()

	// 2. 缩放叠加
	ps, cs := parent.Scale(), child.Scale()

	// 3. 插入点叠加：子块的插入点需要经过父块的 缩放 -> 旋转 -> 平移 变换
	combined := entities.NewInsert(child.BlockName(), TransformPoint(child.InsertPoint(), parent))
	combined.Set(50, rotation)
	combined.Set(41, ps.X*cs.X)
	combined.Set(42, ps.Y*cs.Y)
	combined.Set(43, ps.Z*cs.Z)
	return combined
}
