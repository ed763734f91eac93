package utils

import (
	"math"

	"github.com/zooyer/dxfdoc"
	"github.com/zooyer/dxfdoc/core"
	"github.com/zooyer/dxfdoc/entities"
)

// EntityBBox 计算实体在自身坐标系下的包围盒。
// 未知类型返回零盒；圆弧按整圆外包处理。
func EntityBBox(e entities.Entity) core.BBox {
	switch v := e.(type) {
	case *entities.Line:
		return boxOf(v.Start(), v.End())
	case *entities.Point:
		return boxOf(v.Location())
	case *entities.Circle:
		c, r := v.Center(), v.Radius()
		return boxOf(
			core.Point{X: c.X - r, Y: c.Y - r, Z: c.Z},
			core.Point{X: c.X + r, Y: c.Y + r, Z: c.Z},
		)
	case *entities.Arc:
		c, r := v.Center(), v.Radius()
		return boxOf(
			core.Point{X: c.X - r, Y: c.Y - r, Z: c.Z},
			core.Point{X: c.X + r, Y: c.Y + r, Z: c.Z},
		)
	case *entities.Text:
		p := v.Insert()
		return boxOf(p, core.Point{X: p.X + v.Height()*float64(len(v.Text())), Y: p.Y + v.Height(), Z: p.Z})
	case *entities.Solid:
		return boxOf(v.Corners()...)
	case *entities.LWPolyline:
		points := make([]core.Point, 0, len(v.Vertices))
		for _, vertex := range v.Vertices {
			points = append(points, core.Point{X: vertex.X, Y: vertex.Y})
		}
		return boxOf(points...)
	case *entities.Polyline:
		points := make([]core.Point, 0, len(v.Vertices))
		for _, vertex := range v.Vertices {
			points = append(points, vertex.Location())
		}
		return boxOf(points...)
	case *entities.Insert:
		p := v.InsertPoint()
		return boxOf(p)
	}
	return core.BBox{}
}

func boxOf(points ...core.Point) core.BBox {
	if len(points) == 0 {
		return core.BBox{}
	}
	box := core.BBox{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box.Min.X = math.Min(box.Min.X, p.X)
		box.Min.Y = math.Min(box.Min.Y, p.Y)
		box.Min.Z = math.Min(box.Min.Z, p.Z)
		box.Max.X = math.Max(box.Max.X, p.X)
		box.Max.Y = math.Max(box.Max.Y, p.Y)
		box.Max.Z = math.Max(box.Max.Z, p.Z)
	}
	return box
}

// TransformBBox 执行矩阵变换：将局部坐标变换到插入点所在的世界坐标
func TransformBBox(local core.BBox, ins *entities.Insert) core.BBox {
	corners := []core.Point{
		{X: local.Min.X, Y: local.Min.Y, Z: local.Min.Z},
		{X: local.Max.X, Y: local.Min.Y, Z: local.Min.Z},
		{X: local.Max.X, Y: local.Max.Y, Z: local.Min.Z},
		{X: local.Min.X, Y: local.Max.Y, Z: local.Min.Z},
		{X: local.Min.X, Y: local.Min.Y, Z: local.Max.Z},
		{X: local.Max.X, Y: local.Min.Y, Z: local.Max.Z},
		{X: local.Max.X, Y: local.Max.Y, Z: local.Max.Z},
		{X: local.Min.X, Y: local.Max.Y, Z: local.Max.Z},
	}
	world := make([]core.Point, 0, len(corners))
	for _, p := range corners {
		world = append(world, TransformPoint(p, ins))
	}
	return boxOf(world...)
}

// MergeBoxes 合并重叠的矩形
func MergeBoxes(boxes []core.BBox, gap float64) []core.BBox {
	if len(boxes) < 2 {
		return boxes
	}

	for {
		changed := false
		var merged []core.BBox
		visited := make([]bool, len(boxes))
		for i := 0; i < len(boxes); i++ {
			if visited[i] {
				continue
			}
			curr := boxes[i]
			visited[i] = true
			for j := i + 1; j < len(boxes); j++ {
				if !visited[j] && !IsSeparate(curr, boxes[j], gap) {
					curr.Min.X = math.Min(curr.Min.X, boxes[j].Min.X)
					curr.Min.Y = math.Min(curr.Min.Y, boxes[j].Min.Y)
					curr.Max.X = math.Max(curr.Max.X, boxes[j].Max.X)
					curr.Max.Y = math.Max(curr.Max.Y, boxes[j].Max.Y)
					visited[j], changed = true, true
				}
			}
			merged = append(merged, curr)
		}
		boxes = merged
		if !changed {
			break
		}
	}

	return boxes
}

// IsSeparate 判断两个 BBox 是否完全分离
func IsSeparate(a, b core.BBox, gap float64) bool {
	return a.Max.X+gap < b.Min.X || a.Min.X-gap > b.Max.X ||
		a.Max.Y+gap < b.Min.Y || a.Min.Y-gap > b.Max.Y
}

func InBox(box core.BBox, point core.Point) bool {
	if point.X >= box.Min.X && point.X <= box.Max.X && point.Y >= box.Min.Y && point.Y <= box.Max.Y {
		return true
	}

	return false
}

// GetEntityBBoxWCS 计算实体的世界坐标包围盒，块引用会展开块内实体
func GetEntityBBoxWCS(d *dxfdoc.Document, entity entities.Entity) core.BBox {
	ins, ok := entity.(*entities.Insert)
	if !ok {
		return EntityBBox(entity)
	}

	block, ok := d.Block(ins.BlockName())
	if !ok || block.Len() == 0 {
		p := ins.InsertPoint()
		return core.BBox{Min: p, Max: p}
	}

	miX, miY := math.MaxFloat64, math.MaxFloat64
	maX, maY := -math.MaxFloat64, -math.MaxFloat64
	for _, sub := range block.Entities() {
		sb := EntityBBox(sub)
		miX = math.Min(miX, sb.Min.X)
		miY = math.Min(miY, sb.Min.Y)
		maX = math.Max(maX, sb.Max.X)
		maY = math.Max(maY, sb.Max.Y)
	}

	local := core.BBox{
		Min: core.Point{X: miX, Y: miY, Z: 0},
		Max: core.Point{X: maX, Y: maY, Z: 0},
	}
	return TransformBBox(local, ins)
}
