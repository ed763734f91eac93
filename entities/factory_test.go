package entities

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zooyer/dxfdoc/core"
)

func TestFromCollection_TypedEntity(t *testing.T) {
	tc := &core.TagCollection{
		TypeName: "LINE",
		Tags: core.Tags{
			{Code: 5, Value: "1A"},
			{Code: 330, Value: "1F"},
			{Code: 100, Value: "AcDbEntity"},
			{Code: 8, Value: "Walls"},
			{Code: 62, Value: int64(5)},
			{Code: 10, Value: core.Point{X: 1, Y: 2}},
			{Code: 11, Value: core.Point{X: 3, Y: 4}},
		},
	}

	e := FromCollection(tc, core.AC1032)
	line, ok := e.(*Line)
	require.True(t, ok)
	require.Equal(t, "1A", line.Handle())
	require.Equal(t, "1F", line.Owner())
	require.Equal(t, "Walls", line.Layer())
	require.Equal(t, int64(5), line.Color())
	require.Equal(t, core.Point{X: 1, Y: 2}, line.Start())
	require.Equal(t, core.Point{X: 3, Y: 4}, line.End())
	// 子类标记不保留
	require.False(t, line.ExtraTags().Has(100))
}

func TestLazyDefaults(t *testing.T) {
	line := NewLine(core.Point{}, core.Point{X: 1})
	// 缺省值不存储，访问时代入
	require.False(t, line.Has(370))
	require.Equal(t, int64(LineweightDefault), line.Lineweight())
	require.Equal(t, int64(ColorByLayer), line.Color())
	require.Equal(t, LinetypeByLayer, line.Linetype())

	line.SetLineweight(25)
	require.True(t, line.Has(370))
	require.Equal(t, int64(25), line.Lineweight())

	line.Unset(370)
	require.Equal(t, int64(LineweightDefault), line.Lineweight())
}

func TestExportOmitsDefaults(t *testing.T) {
	line := NewLine(core.Point{}, core.Point{X: 1})
	tags, err := line.ExportTags(core.AC1032, false)
	require.NoError(t, err)

	// 等于缺省值的非必填属性省略
	require.False(t, tags.Has(62))
	require.False(t, tags.Has(370))
	// 必填属性即使为缺省也写出
	layer, ok := tags.Get(8)
	require.True(t, ok)
	require.Equal(t, "0", layer.AsString())

	line.SetColor(1)
	tags, err = line.ExportTags(core.AC1032, false)
	require.NoError(t, err)
	color, ok := tags.Get(62)
	require.True(t, ok)
	require.Equal(t, int64(1), color.AsInt())
}

func TestExportVersionGate(t *testing.T) {
	line := NewLine(core.Point{}, core.Point{X: 1})
	line.SetLineweight(25) // 370 要求 AC1015

	_, err := line.ExportTags(core.AC1009, false)
	require.ErrorIs(t, err, core.ErrVersion)

	// 显式降级：丢弃该属性继续导出
	tags, err := line.ExportTags(core.AC1009, true)
	require.NoError(t, err)
	require.False(t, tags.Has(370))
}

func TestUndeclaredTagsRoundTrip(t *testing.T) {
	tc := &core.TagCollection{
		TypeName: "LINE",
		Tags: core.Tags{
			{Code: 5, Value: "1A"},
			{Code: 10, Value: core.Point{}},
			{Code: 11, Value: core.Point{X: 1}},
			{Code: 468, Value: 0.5}, // 未声明的组码
		},
	}
	line := FromCollection(tc, core.AC1032)
	tags, err := line.ExportTags(core.AC1032, false)
	require.NoError(t, err)
	extra, ok := tags.Get(468)
	require.True(t, ok)
	require.Equal(t, 0.5, extra.Value)
}

func TestOpaquePassthrough(t *testing.T) {
	tc := &core.TagCollection{
		TypeName: "WIPEOUT",
		Tags: core.Tags{
			{Code: 5, Value: "C0"},
			{Code: 8, Value: "masks"},
			{Code: 90, Value: int64(4)},
		},
		XData: []core.XDataBlock{{AppID: "ACAD", Tags: core.Tags{{Code: 1000, Value: "x"}}}},
	}

	e := FromCollection(tc, core.AC1032)
	opaque, ok := e.(*Opaque)
	require.True(t, ok)
	require.Equal(t, "WIPEOUT", opaque.Type())
	require.Equal(t, "C0", opaque.Handle())
	// 带图层组码的记录按图形实体归置
	require.True(t, opaque.Graphical())

	tags, err := opaque.ExportTags(core.AC1009, false)
	require.NoError(t, err)
	require.Equal(t, core.Tags{
		{Code: 0, Value: "WIPEOUT"},
		{Code: 5, Value: "C0"},
		{Code: 8, Value: "masks"},
		{Code: 90, Value: int64(4)},
		{Code: 1001, Value: "ACAD"},
		{Code: 1000, Value: "x"},
	}, tags)
}

func TestOpaqueSetOwnerAddsTag(t *testing.T) {
	tc := &core.TagCollection{
		TypeName: "WIPEOUT",
		Tags: core.Tags{
			{Code: 5, Value: "C0"},
			{Code: 8, Value: "masks"},
		},
	}

	opaque, ok := FromCollection(tc, core.AC1032).(*Opaque)
	require.True(t, ok)
	require.Empty(t, opaque.Owner())

	// 原始标签里没有 330：重新归置属主后必须补上，否则导出丢属主
	opaque.SetOwner("1F")
	require.Equal(t, "1F", opaque.Owner())

	tags, err := opaque.ExportTags(core.AC1032, false)
	require.NoError(t, err)
	require.Equal(t, core.Tags{
		{Code: 0, Value: "WIPEOUT"},
		{Code: 5, Value: "C0"},
		{Code: 330, Value: "1F"},
		{Code: 8, Value: "masks"},
	}, tags)

	// 已有 330 时原地改写，不重复追加
	opaque.SetOwner("2A")
	owner, ok := opaque.Tags().Get(330)
	require.True(t, ok)
	require.Equal(t, "2A", owner.Value)
}

func TestDictionaryPairs(t *testing.T) {
	tc := &core.TagCollection{
		TypeName: "DICTIONARY",
		Tags: core.Tags{
			{Code: 5, Value: "C"},
			{Code: 3, Value: "ACAD_GROUP"},
			{Code: 350, Value: "D"},
			{Code: 3, Value: "ACAD_LAYOUT"},
			{Code: 360, Value: "1A"},
		},
	}
	e := FromCollection(tc, core.AC1032)
	dict, ok := e.(*Dictionary)
	require.True(t, ok)

	h, ok := dict.Get("ACAD_LAYOUT")
	require.True(t, ok)
	require.Equal(t, "1A", h)

	dict.Put("ACAD_GROUP", "EE")
	h, _ = dict.Get("ACAD_GROUP")
	require.Equal(t, "EE", h)

	require.True(t, dict.Delete("ACAD_LAYOUT"))
	_, ok = dict.Get("ACAD_LAYOUT")
	require.False(t, ok)
}

func TestLWPolylineVertices(t *testing.T) {
	tc := &core.TagCollection{
		TypeName: "LWPOLYLINE",
		Tags: core.Tags{
			{Code: 5, Value: "B1"},
			{Code: 90, Value: int64(2)},
			{Code: 70, Value: int64(1)},
			{Code: 10, Value: core.Point2D{X: 0, Y: 0}},
			{Code: 42, Value: 0.5},
			{Code: 10, Value: core.Point2D{X: 10, Y: 0}},
		},
	}
	e := FromCollection(tc, core.AC1032)
	pl, ok := e.(*LWPolyline)
	require.True(t, ok)
	require.Len(t, pl.Vertices, 2)
	require.Equal(t, 0.5, pl.Vertices[0].Bulge)
	require.True(t, pl.Closed())

	tags, err := pl.ExportTags(core.AC1032, false)
	require.NoError(t, err)
	require.Len(t, tags.GetAll(10), 2)
	count, ok := tags.Get(90)
	require.True(t, ok)
	require.Equal(t, int64(2), count.AsInt())
}

func TestDimensionMeasurementText(t *testing.T) {
	dim := New("DIMENSION").(*Dimension)
	dim.Set(42, 1250.0)
	require.Equal(t, 1250.0, dim.MeasurementText())

	dim.Unset(42)
	dim.Set(1, `\A1;1250.5`)
	require.Equal(t, 1250.5, dim.MeasurementText())
}

func TestRegisteredTypes(t *testing.T) {
	types := RegisteredTypes()
	for _, want := range []string{"LINE", "CIRCLE", "ARC", "LWPOLYLINE", "INSERT", "LAYER", "DICTIONARY", "LAYOUT", "BLOCK_RECORD"} {
		require.Contains(t, types, want)
	}
}

func TestInsertAttribLookup(t *testing.T) {
	ins := NewInsert("DOOR", core.Point{})
	require.False(t, ins.HasAttribs())

	serial := New("ATTRIB").(*Attrib)
	serial.Set(2, "SERIAL")
	serial.Set(1, "A-102")
	ins.Attribs = append(ins.Attribs, serial)

	require.True(t, ins.HasAttribs())
	require.Equal(t, "A-102", ins.GetAttr("SERIAL"))
	require.Equal(t, "", ins.GetAttr("MISSING"))
}
