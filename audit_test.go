package dxfdoc

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zooyer/dxfdoc/core"
	"github.com/zooyer/dxfdoc/entities"
)

// hasFix 审计日志里是否有指定问题码的修复记录
func hasFix(log *AuditLog, code int) bool {
	for _, e := range log.Fixes() {
		if e.Code == code {
			return true
		}
	}
	return false
}

func TestAuditCreatesMissingLayer(t *testing.T) {
	doc := New(core.AC1032)
	line := entities.NewLine(core.Point{}, core.Point{X: 1})
	line.SetLayer("MISSING")
	doc.Modelspace().Add(line)

	log := doc.Audit()
	require.True(t, doc.Tables.Layers.Has("MISSING"))
	require.True(t, hasFix(log, MissingLayer))
	require.False(t, log.HasFatalErrors())
	// 实体本身不动
	require.Equal(t, 1, doc.Modelspace().Len())
}

func TestAuditCreatesMissingBlock(t *testing.T) {
	doc := New(core.AC1032)
	doc.Modelspace().Add(entities.NewInsert("GHOST", core.Point{}))

	log := doc.Audit()
	_, ok := doc.Block("GHOST")
	require.True(t, ok)
	require.True(t, hasFix(log, MissingBlock))
}

func TestAuditResetsInvalidColor(t *testing.T) {
	doc := New(core.AC1032)
	line := entities.NewLine(core.Point{}, core.Point{X: 1})
	line.SetColor(300)
	doc.Modelspace().Add(line)

	log := doc.Audit()
	require.Equal(t, int64(entities.ColorByLayer), line.Color())
	require.True(t, hasFix(log, InvalidColor))
}

func TestAuditResetsInvalidLineweight(t *testing.T) {
	doc := New(core.AC1032)
	line := entities.NewLine(core.Point{}, core.Point{X: 1})
	line.SetLineweight(17)
	doc.Modelspace().Add(line)

	log := doc.Audit()
	require.Equal(t, int64(entities.LineweightDefault), line.Lineweight())
	require.True(t, hasFix(log, InvalidLineweight))

	// 合法线宽不动
	line.SetLineweight(50)
	log = doc.Audit()
	require.Equal(t, int64(50), line.Lineweight())
	require.False(t, hasFix(log, InvalidLineweight))
}

func TestAuditKeepsDegenerateGeometry(t *testing.T) {
	doc := New(core.AC1032)
	model := doc.Modelspace()
	circle, _ := model.Add(entities.NewCircle(core.Point{X: 1}, 0))
	model.Add(entities.NewLine(core.Point{X: 2, Y: 3}, core.Point{X: 2, Y: 3}))
	model.Add(entities.NewLine(core.Point{}, core.Point{X: 5}))

	// 退化几何容忍并记录，绝不删除
	log := doc.Audit()
	require.Equal(t, 3, model.Len())
	_, ok := doc.DB.Get(circle)
	require.True(t, ok)
	require.True(t, hasFix(log, DegenerateGeometry))
	require.False(t, log.HasFatalErrors())

	// 零半径圆与零长线各记一条
	var n int
	for _, e := range log.Fixes() {
		if e.Code == DegenerateGeometry {
			n++
		}
	}
	require.Equal(t, 2, n)
}

func TestAuditAppendsMissingSeqEnd(t *testing.T) {
	doc := New(core.AC1032)
	p := entities.New("POLYLINE").(*entities.Polyline)
	p.Vertices = append(p.Vertices, entities.New("VERTEX").(*entities.Vertex))
	doc.Modelspace().Add(p)

	log := doc.Audit()
	require.NotNil(t, p.SeqEnd)
	require.Equal(t, p.Handle(), p.SeqEnd.Owner())
	require.True(t, hasFix(log, MissingSeqEnd))
}

func TestAuditMovesDanglingOwner(t *testing.T) {
	doc := New(core.AC1032)
	line := entities.NewLine(core.Point{}, core.Point{X: 1})
	doc.Modelspace().Add(line)
	line.SetOwner("DEAD")

	log := doc.Audit()
	require.Equal(t, doc.Modelspace().Record(), line.Owner())
	require.True(t, hasFix(log, DanglingOwner))
}

func TestAuditRemovesCyclicInsert(t *testing.T) {
	doc := New(core.AC1032)
	block, err := doc.NewBlock("A", core.Point{})
	require.NoError(t, err)
	block.Add(entities.NewInsert("A", core.Point{}))

	log := doc.Audit()
	require.Equal(t, 0, block.Len())
	require.True(t, hasFix(log, CyclicBlockInsert))
}

func TestAuditRemovesMutualCycle(t *testing.T) {
	doc := New(core.AC1032)
	a, err := doc.NewBlock("A", core.Point{})
	require.NoError(t, err)
	b, err := doc.NewBlock("B", core.Point{})
	require.NoError(t, err)
	a.Add(entities.NewInsert("B", core.Point{}))
	b.Add(entities.NewInsert("A", core.Point{}))

	log := doc.Audit()
	require.True(t, hasFix(log, CyclicBlockInsert))
	// 至少摘除一条引用即可破环
	require.Less(t, a.Len()+b.Len(), 2)

	// 复审后不再有环
	log = doc.Audit()
	require.False(t, hasFix(log, CyclicBlockInsert))
}

func TestAuditCleanDocumentNoFindings(t *testing.T) {
	doc := New(core.AC1032)
	doc.Modelspace().Add(entities.NewLine(core.Point{}, core.Point{X: 1}))

	log := doc.Audit()
	require.Empty(t, log.Entries())
	require.False(t, log.HasFatalErrors())
}
