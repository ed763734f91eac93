package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zooyer/dxfdoc"
	"github.com/zooyer/dxfdoc/core"
	"github.com/zooyer/dxfdoc/entities"
)

func TestTransformPoint(t *testing.T) {
	ins := entities.NewInsert("B", core.Point{X: 10, Y: 20})
	ins.Set(50, 90.0)
	ins.Set(41, 2.0)
	ins.Set(42, 2.0)

	// (1,0) 先缩放到 (2,0)，旋转 90° 到 (0,2)，再平移
	got := TransformPoint(core.Point{X: 1}, ins)
	require.InDelta(t, 10, got.X, 1e-9)
	require.InDelta(t, 22, got.Y, 1e-9)
}

func TestTransformPointIdentity(t *testing.T) {
	ins := entities.NewInsert("B", core.Point{})
	got := TransformPoint(core.Point{X: 3, Y: 4, Z: 5}, ins)
	require.Equal(t, core.Point{X: 3, Y: 4, Z: 5}, got)
}

func TestCombineInserts(t *testing.T) {
	parent := entities.NewInsert("A", core.Point{X: 10})
	parent.Set(50, 90.0)
	child := entities.NewInsert("B", core.Point{X: 1})
	child.Set(41, 3.0)

	combined := CombineInserts(parent, child)
	require.Equal(t, "B", combined.BlockName())
	require.InDelta(t, 90, combined.Rotation(), 1e-9)
	require.InDelta(t, 3, combined.Scale().X, 1e-9)
	// 子插入点 (1,0) 经父块旋转 90° 后落到 (10,1)
	require.InDelta(t, 10, combined.InsertPoint().X, 1e-9)
	require.InDelta(t, 1, combined.InsertPoint().Y, 1e-9)
}

func TestEntityBBox(t *testing.T) {
	line := entities.NewLine(core.Point{X: 1, Y: 2}, core.Point{X: -3, Y: 5})
	box := EntityBBox(line)
	require.Equal(t, core.Point{X: -3, Y: 2}, box.Min)
	require.Equal(t, core.Point{X: 1, Y: 5}, box.Max)

	circle := entities.NewCircle(core.Point{X: 1, Y: 1}, 2)
	box = EntityBBox(circle)
	require.Equal(t, core.Point{X: -1, Y: -1}, box.Min)
	require.Equal(t, core.Point{X: 3, Y: 3}, box.Max)
}

func TestMergeBoxes(t *testing.T) {
	boxes := []core.BBox{
		{Min: core.Point{}, Max: core.Point{X: 2, Y: 2}},
		{Min: core.Point{X: 1, Y: 1}, Max: core.Point{X: 3, Y: 3}},
		{Min: core.Point{X: 100, Y: 100}, Max: core.Point{X: 101, Y: 101}},
	}
	merged := MergeBoxes(boxes, 0)
	require.Len(t, merged, 2)
	require.Equal(t, core.Point{X: 3, Y: 3}, merged[0].Max)
}

func TestIsSeparateAndInBox(t *testing.T) {
	a := core.BBox{Min: core.Point{}, Max: core.Point{X: 1, Y: 1}}
	b := core.BBox{Min: core.Point{X: 5, Y: 5}, Max: core.Point{X: 6, Y: 6}}
	require.True(t, IsSeparate(a, b, 0))
	require.False(t, IsSeparate(a, b, 10))

	require.True(t, InBox(a, core.Point{X: 0.5, Y: 0.5}))
	require.False(t, InBox(a, core.Point{X: 2, Y: 0.5}))
}

func TestGetEntityBBoxWCS(t *testing.T) {
	doc := dxfdoc.New(core.AC1032)
	block, err := doc.NewBlock("DOOR", core.Point{})
	require.NoError(t, err)
	_, err = block.Add(entities.NewLine(core.Point{}, core.Point{X: 1, Y: 1}))
	require.NoError(t, err)

	ins := entities.NewInsert("DOOR", core.Point{X: 10, Y: 10})
	doc.Modelspace().Add(ins)

	box := GetEntityBBoxWCS(doc, ins)
	require.InDelta(t, 10, box.Min.X, 1e-9)
	require.InDelta(t, 10, box.Min.Y, 1e-9)
	require.InDelta(t, 11, box.Max.X, 1e-9)
	require.InDelta(t, 11, box.Max.Y, 1e-9)

	// 非 INSERT 实体直接取自身包围盒
	line := entities.NewLine(core.Point{}, core.Point{X: 2})
	require.Equal(t, EntityBBox(line), GetEntityBBoxWCS(doc, line))
}

func TestGetDimValue(t *testing.T) {
	doc := dxfdoc.New(core.AC1032)
	style := entities.NewDimStyle("ARCH")
	style.Set(271, int64(1))
	_, err := doc.Tables.DimStyles.Add(style)
	require.NoError(t, err)

	dim := entities.New("DIMENSION").(*entities.Dimension)
	dim.Set(3, "ARCH")
	dim.Set(42, 3.14159)
	require.InDelta(t, 3.1, GetDimValue(doc, dim), 1e-9)

	// 手动文字覆盖且没有实测值时，从文字里提取数字
	dim2 := entities.New("DIMENSION").(*entities.Dimension)
	dim2.Set(1, `\A1;250.5`)
	require.InDelta(t, 250.5, GetDimValue(doc, dim2), 1e-9)
}
