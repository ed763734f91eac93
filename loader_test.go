package dxfdoc

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zooyer/dxfdoc/core"
	"github.com/zooyer/dxfdoc/entities"
)

// joinTags 按文本变体布局拼一段 DXF 流
func joinTags(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

var minimalDXF = joinTags(
	"0", "SECTION",
	"2", "HEADER",
	"9", "$ACADVER",
	"1", "AC1015",
	"9", "$HANDSEED",
	"5", "100",
	"0", "ENDSEC",
	"0", "SECTION",
	"2", "ENTITIES",
	"0", "LINE",
	"5", "1A",
	"8", "0",
	"10", "0.0",
	"20", "0.0",
	"30", "0.0",
	"11", "10.0",
	"21", "5.0",
	"31", "0.0",
	"0", "ENDSEC",
	"0", "EOF",
)

func TestLoadMinimalDocument(t *testing.T) {
	doc, err := Load(strings.NewReader(minimalDXF))
	require.NoError(t, err)
	require.Equal(t, core.AC1015, doc.Version())

	model := doc.Modelspace()
	require.Equal(t, 1, model.Len())

	line, ok := model.Entities()[0].(*entities.Line)
	require.True(t, ok)
	require.Equal(t, "1A", line.Handle())
	require.Equal(t, core.Point{X: 10, Y: 5}, line.End())
	// 实体属主指向模型空间块记录
	require.Equal(t, model.Record(), line.Owner())

	// $HANDSEED 之后分配（补建的块记录等也占用种子区），绝不冲突
	h, err := doc.DB.Add(entities.NewCircle(core.Point{}, 1))
	require.NoError(t, err)
	n, err := strconv.ParseUint(h, 16, 64)
	require.NoError(t, err)
	require.GreaterOrEqual(t, n, uint64(0x100))
}

func TestLoadPaperspaceFlag(t *testing.T) {
	input := joinTags(
		"0", "SECTION",
		"2", "ENTITIES",
		"0", "LINE",
		"5", "1A",
		"67", "1",
		"8", "0",
		"10", "0.0",
		"20", "0.0",
		"11", "1.0",
		"21", "1.0",
		"0", "LINE",
		"5", "1B",
		"8", "0",
		"10", "0.0",
		"20", "0.0",
		"11", "2.0",
		"21", "2.0",
		"0", "ENDSEC",
		"0", "EOF",
	)
	doc, err := Load(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 1, doc.Paperspace().Len())
	require.Equal(t, 1, doc.Modelspace().Len())
}

func TestLoadStrictRejectsBadValue(t *testing.T) {
	input := joinTags(
		"0", "SECTION",
		"2", "ENTITIES",
		"0", "CIRCLE",
		"40", "not-a-number",
		"0", "ENDSEC",
		"0", "EOF",
	)
	_, err := Load(strings.NewReader(input))
	require.ErrorIs(t, err, core.ErrStructure)
}

func TestRecoverKeepsGoing(t *testing.T) {
	input := joinTags(
		"0", "SECTION",
		"2", "ENTITIES",
		"0", "CIRCLE",
		"5", "20",
		"8", "0",
		"10", "0.0",
		"20", "0.0",
		"40", "not-a-number",
		"0", "LINE",
		"5", "21",
		"8", "0",
		"10", "0.0",
		"20", "0.0",
		"11", "1.0",
		"21", "1.0",
		"0", "ENDSEC",
		"0", "EOF",
	)
	doc, log, err := Recover(strings.NewReader(input))
	require.NoError(t, err)
	require.NotEmpty(t, doc.LoadIssues())
	// 坏半径按字符串保留并记警告；审计把退化圆记录在案但两个实体都留下
	require.Equal(t, 2, doc.Modelspace().Len())
	require.NotEmpty(t, log.Fixes())
}

func TestRecoverSkipsGarbageLine(t *testing.T) {
	// 两条实体记录之间混入一行垃圾：严格模式整体失败，恢复模式跳过续读
	input := joinTags(
		"0", "SECTION",
		"2", "ENTITIES",
		"0", "LINE",
		"5", "20",
		"8", "0",
		"10", "0.0",
		"20", "0.0",
		"11", "1.0",
		"21", "1.0",
		"garbage-not-a-code",
		"0", "LINE",
		"5", "21",
		"8", "0",
		"10", "2.0",
		"20", "2.0",
		"11", "3.0",
		"21", "3.0",
		"0", "ENDSEC",
		"0", "EOF",
	)
	_, err := Load(strings.NewReader(input))
	require.ErrorIs(t, err, core.ErrStructure)

	doc, _, err := Recover(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 2, doc.Modelspace().Len())
	require.NotEmpty(t, doc.LoadIssues())
}

func TestLoadDuplicateHandleDropsSecond(t *testing.T) {
	input := joinTags(
		"0", "SECTION",
		"2", "ENTITIES",
		"0", "LINE",
		"5", "1A",
		"8", "0",
		"10", "0.0",
		"20", "0.0",
		"11", "1.0",
		"21", "1.0",
		"0", "LINE",
		"5", "1A",
		"8", "0",
		"10", "2.0",
		"20", "2.0",
		"11", "3.0",
		"21", "3.0",
		"0", "ENDSEC",
		"0", "EOF",
	)
	doc, _, err := Recover(strings.NewReader(input))
	require.NoError(t, err)
	// 先到者保留，后到者整条排除
	require.Equal(t, 1, doc.Modelspace().Len())
	require.NotEmpty(t, doc.LoadIssues())
}

func TestLoadPolylineSequence(t *testing.T) {
	input := joinTags(
		"0", "SECTION",
		"2", "ENTITIES",
		"0", "POLYLINE",
		"5", "30",
		"8", "0",
		"66", "1",
		"0", "VERTEX",
		"5", "31",
		"8", "0",
		"10", "0.0",
		"20", "0.0",
		"0", "VERTEX",
		"5", "32",
		"8", "0",
		"10", "5.0",
		"20", "5.0",
		"0", "SEQEND",
		"5", "33",
		"8", "0",
		"0", "ENDSEC",
		"0", "EOF",
	)
	doc, err := Load(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 1, doc.Modelspace().Len())

	pl, ok := doc.Modelspace().Entities()[0].(*entities.Polyline)
	require.True(t, ok)
	require.Len(t, pl.Vertices, 2)
	require.Equal(t, core.Point{X: 5, Y: 5}, pl.Vertices[1].Location())
	require.NotNil(t, pl.SeqEnd)
	// 附属实体属主为宿主
	require.Equal(t, pl.Handle(), pl.Vertices[0].Owner())
}

func TestLoadForwardReference(t *testing.T) {
	// 实体的属主块记录在流的后面才出现：第二遍解析后仍须归位
	input := joinTags(
		"0", "SECTION",
		"2", "ENTITIES",
		"0", "LINE",
		"5", "1A",
		"8", "0",
		"330", "AF",
		"10", "0.0",
		"20", "0.0",
		"11", "1.0",
		"21", "1.0",
		"0", "ENDSEC",
		"0", "SECTION",
		"2", "TABLES",
		"0", "TABLE",
		"2", "BLOCK_RECORD",
		"70", "1",
		"0", "BLOCK_RECORD",
		"5", "AF",
		"2", "*Paper_Space",
		"0", "ENDTAB",
		"0", "ENDSEC",
		"0", "EOF",
	)
	doc, err := Load(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 0, doc.Modelspace().Len())
	require.Equal(t, 1, doc.Paperspace().Len())
	require.Equal(t, "AF", doc.Paperspace().Record())
	require.Equal(t, "AF", doc.Paperspace().Entities()[0].Owner())
}

func TestLoadUnknownSectionRoundTrips(t *testing.T) {
	input := joinTags(
		"0", "SECTION",
		"2", "THUMBNAILIMAGE",
		"0", "THUMB",
		"90", "4",
		"310", "DEADBEEF",
		"0", "ENDSEC",
		"0", "EOF",
	)
	doc, err := Load(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, doc.extra, 1)
	require.Equal(t, "THUMBNAILIMAGE", doc.extra[0].name)
	require.Len(t, doc.extra[0].records, 1)
}

func TestLoadBinaryVariant(t *testing.T) {
	var data []byte
	data = append(data, "AutoCAD Binary DXF\r\n\x1a\x00"...)
	put := func(code int, value string) {
		data = append(data, byte(code), byte(code>>8))
		data = append(data, value...)
		data = append(data, 0)
	}
	put(0, "SECTION")
	put(2, "HEADER")
	put(9, "$ACADVER")
	put(1, "AC1015")
	put(0, "ENDSEC")
	put(0, "SECTION")
	put(2, "ENTITIES")
	put(0, "LINE")
	put(5, "2F")
	put(8, "0")
	// 二进制变体的坐标为 8 字节小端浮点
	putFloat := func(code int, v float64) {
		data = append(data, byte(code), byte(code>>8))
		bits := math.Float64bits(v)
		for i := 0; i < 8; i++ {
			data = append(data, byte(bits>>(8*i)))
		}
	}
	putFloat(10, 0)
	putFloat(20, 0)
	putFloat(11, 4)
	putFloat(21, 3)
	put(0, "ENDSEC")
	put(0, "EOF")

	doc, err := Load(strings.NewReader(string(data)))
	require.NoError(t, err)
	require.Equal(t, core.AC1015, doc.Version())
	require.Equal(t, 1, doc.Modelspace().Len())
	line := doc.Modelspace().Entities()[0].(*entities.Line)
	require.Equal(t, core.Point{X: 4, Y: 3}, line.End())
}
