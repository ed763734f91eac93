package dxfdoc

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zooyer/dxfdoc/core"
	"github.com/zooyer/dxfdoc/entities"
)

func TestNewDocumentBootstrap(t *testing.T) {
	doc := New(core.AC1032)

	require.Equal(t, core.AC1032, doc.Version())
	require.True(t, doc.Tables.Layers.Has("0"))
	require.True(t, doc.Tables.Linetypes.Has("ByLayer"))
	require.True(t, doc.Tables.Linetypes.Has("ByBlock"))
	require.True(t, doc.Tables.Linetypes.Has("Continuous"))
	require.True(t, doc.Tables.Textstyles.Has("Standard"))
	require.True(t, doc.Tables.AppIDs.Has("ACAD"))

	// 模型空间与默认布局
	require.NotNil(t, doc.Modelspace())
	require.True(t, doc.Modelspace().IsLayout())
	require.Equal(t, int64(0), doc.Modelspace().Layout().TabOrder())
	require.True(t, doc.Paperspace().IsLayout())

	// 根字典挂着布局字典
	root := doc.RootDict()
	require.NotNil(t, root)
	_, ok := root.Get("ACAD_LAYOUT")
	require.True(t, ok)
}

func TestSpaceAddAssignsOwner(t *testing.T) {
	doc := New(core.AC1032)
	model := doc.Modelspace()

	line := entities.NewLine(core.Point{}, core.Point{X: 10})
	h, err := model.Add(line)
	require.NoError(t, err)
	require.NotEmpty(t, line.Handle())
	require.Equal(t, model.Record(), line.Owner())

	got, ok := doc.DB.Get(h)
	require.True(t, ok)
	require.Equal(t, line, got)
	require.Equal(t, 1, model.Len())
}

func TestSpaceRemoveKeepsHandleRetired(t *testing.T) {
	doc := New(core.AC1032)
	model := doc.Modelspace()

	h, err := model.Add(entities.NewCircle(core.Point{}, 2))
	require.NoError(t, err)
	require.True(t, model.Remove(h))
	require.Equal(t, 0, model.Len())
	_, ok := doc.DB.Get(h)
	require.False(t, ok)

	// 句柄不回收
	h2, err := model.Add(entities.NewCircle(core.Point{}, 3))
	require.NoError(t, err)
	require.NotEqual(t, h, h2)
}

func TestNewBlockRejectsDuplicate(t *testing.T) {
	doc := New(core.AC1032)

	block, err := doc.NewBlock("DOOR", core.Point{})
	require.NoError(t, err)
	require.False(t, block.IsLayout())
	require.True(t, doc.Tables.BlockRecords.Has("DOOR"))

	_, err = doc.NewBlock("DOOR", core.Point{})
	require.Error(t, err)
}

func TestLayoutsSortedByTabOrder(t *testing.T) {
	doc := New(core.AC1032)
	layouts := doc.Layouts()
	require.Len(t, layouts, 2)
	require.Equal(t, ModelSpaceName, layouts[0].Name())
	require.Equal(t, PaperSpaceName, layouts[1].Name())
}

func TestResolveColorInheritance(t *testing.T) {
	doc := New(core.AC1032)

	layer := entities.NewLayer("walls")
	layer.Set(62, int64(3))
	_, err := doc.Tables.Layers.Add(layer)
	require.NoError(t, err)

	line := entities.NewLine(core.Point{}, core.Point{X: 1})
	line.SetLayer("walls")
	doc.Modelspace().Add(line)

	// 256 随层
	require.Equal(t, int64(3), doc.ResolveColor(line, 7))

	// 0 随块
	line.SetColor(entities.ColorByBlock)
	require.Equal(t, int64(9), doc.ResolveColor(line, 9))

	// 显式颜色原样返回
	line.SetColor(5)
	require.Equal(t, int64(5), doc.ResolveColor(line, 9))
}

func TestResolveLineweightInheritance(t *testing.T) {
	doc := New(core.AC1032)

	layer := entities.NewLayer("beams")
	layer.Set(370, int64(50))
	doc.Tables.Layers.Add(layer)

	line := entities.NewLine(core.Point{}, core.Point{X: 1})
	line.SetLayer("beams")
	doc.Modelspace().Add(line)

	line.SetLineweight(entities.LineweightByLayer)
	require.Equal(t, int64(50), doc.ResolveLineweight(line, 0))

	line.SetLineweight(entities.LineweightByBlock)
	require.Equal(t, int64(35), doc.ResolveLineweight(line, 35))

	line.SetLineweight(60)
	require.Equal(t, int64(60), doc.ResolveLineweight(line, 35))
}

func TestTableNameLookupCaseInsensitive(t *testing.T) {
	doc := New(core.AC1032)
	_, err := doc.Tables.Layers.Add(entities.NewLayer("Walls"))
	require.NoError(t, err)

	entry, ok := doc.Tables.Layers.Get("WALLS")
	require.True(t, ok)
	require.Equal(t, "Walls", entry.Name())

	// 同名拒绝（大小写不敏感）
	_, err = doc.Tables.Layers.Add(entities.NewLayer("walls"))
	require.Error(t, err)
}

func TestViewportTableAllowsDuplicates(t *testing.T) {
	doc := New(core.AC1032)
	a := entities.New("VPORT").(entities.TableEntry)
	a.SetName("*Active")
	b := entities.New("VPORT").(entities.TableEntry)
	b.SetName("*Active")

	_, err := doc.Tables.Viewports.Add(a)
	require.NoError(t, err)
	_, err = doc.Tables.Viewports.Add(b)
	require.NoError(t, err)
	require.Len(t, doc.Tables.Viewports.GetAll("*Active"), 2)
}
