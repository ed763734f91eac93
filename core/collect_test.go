package core

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newCollector(input string, recoverMode bool) *Collector {
	compiler := NewCompiler(NewScanner(strings.NewReader(input)), recoverMode)
	return NewCollector(compiler, recoverMode)
}

func TestCollector_SplitRecords(t *testing.T) {
	input := "0\nLINE\n5\n1A\n8\n0\n0\nCIRCLE\n5\n1B\n40\n2.5\n0\nEOF\n"
	c := newCollector(input, false)

	line, err := c.Read()
	require.NoError(t, err)
	require.Equal(t, "LINE", line.TypeName)
	require.Equal(t, "1A", line.Handle())

	circle, err := c.Read()
	require.NoError(t, err)
	require.Equal(t, "CIRCLE", circle.TypeName)
	require.Equal(t, "1B", circle.Handle())

	eof, err := c.Read()
	require.NoError(t, err)
	require.Equal(t, "EOF", eof.TypeName)

	_, err = c.Read()
	require.ErrorIs(t, err, io.EOF)
}

func TestCollector_OwnerAndName(t *testing.T) {
	input := "0\nLAYER\n2\nWalls\n330\n1f\n330\n2f\n0\nEOF\n"
	c := newCollector(input, false)

	tc, err := c.Read()
	require.NoError(t, err)
	require.Equal(t, "Walls", tc.Name())
	// 首个 330 为属主
	require.Equal(t, "1F", tc.Owner())
}

func TestCollector_DimstyleHandle(t *testing.T) {
	input := "0\nDIMSTYLE\n105\n2e\n2\nStandard\n0\nEOF\n"
	c := newCollector(input, false)

	tc, err := c.Read()
	require.NoError(t, err)
	require.Equal(t, "2E", tc.Handle())
}

func TestCollector_XData(t *testing.T) {
	input := "0\nLINE\n5\n1A\n1001\nACAD\n1000\npayload\n1002\n{\n1040\n1.5\n1002\n}\n0\nEOF\n"
	c := newCollector(input, false)

	tc, err := c.Read()
	require.NoError(t, err)
	require.Len(t, tc.XData, 1)
	require.Equal(t, "ACAD", tc.XData[0].AppID)
	require.Len(t, tc.XData[0].Tags, 4)
	// 扩展数据不混入常规标签
	require.False(t, tc.Tags.Has(1000))
}

func TestCollector_AppData(t *testing.T) {
	input := "0\nLINE\n5\n1A\n102\n{ACAD_REACTORS\n330\nDEAD\n102\n}\n8\n0\n0\nEOF\n"
	c := newCollector(input, false)

	tc, err := c.Read()
	require.NoError(t, err)
	require.Len(t, tc.AppData, 1)
	require.Equal(t, "ACAD_REACTORS", tc.AppData[0].Name)
	require.Len(t, tc.AppData[0].Tags, 1)
	// 应用数据块内的 330 不算属主
	require.Equal(t, "", tc.Owner())
	require.True(t, tc.Tags.Has(8))
}

func TestCollector_UnterminatedAppData(t *testing.T) {
	input := "0\nLINE\n5\n1A\n102\n{ACAD_XDICTIONARY\n360\nFF\n0\nEOF\n"

	_, err := newCollector(input, false).Read()
	require.ErrorIs(t, err, ErrStructure)

	c := newCollector(input, true)
	tc, err := c.Read()
	require.NoError(t, err)
	require.Len(t, tc.AppData, 1)
	require.NotEmpty(t, c.Warnings())
}

func TestCollector_DropNamelessRecord(t *testing.T) {
	// 0 组码后值为空的记录整条丢弃，绝不编造类型
	input := "0\n\n8\n0\n0\nLINE\n5\n1A\n0\nEOF\n"

	c := newCollector(input, true)
	tc, err := c.Read()
	require.NoError(t, err)
	require.Equal(t, "LINE", tc.TypeName)
	require.NotEmpty(t, c.Warnings())
}
