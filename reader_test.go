package dxfdoc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zooyer/dxfdoc/core"
	"github.com/zooyer/dxfdoc/entities"
)

func TestEntityReaderStreamsEntities(t *testing.T) {
	r, err := NewEntityReader(strings.NewReader(minimalDXF))
	require.NoError(t, err)
	require.Equal(t, core.AC1015, r.Version())

	require.True(t, r.Next())
	line, ok := r.Entity().(*entities.Line)
	require.True(t, ok)
	require.Equal(t, "1A", line.Handle())
	require.Equal(t, core.Point{X: 10, Y: 5}, line.End())

	require.False(t, r.Next())
	require.NoError(t, r.Err())
	// 流结束后保持 false
	require.False(t, r.Next())
}

func TestEntityReaderAttachesSequences(t *testing.T) {
	input := joinTags(
		"0", "SECTION",
		"2", "ENTITIES",
		"0", "POLYLINE",
		"5", "30",
		"8", "0",
		"66", "1",
		"0", "VERTEX",
		"5", "31",
		"10", "0.0",
		"20", "0.0",
		"0", "VERTEX",
		"5", "32",
		"10", "5.0",
		"20", "5.0",
		"0", "SEQEND",
		"5", "33",
		"0", "ENDSEC",
		"0", "EOF",
	)
	r, err := NewEntityReader(strings.NewReader(input))
	require.NoError(t, err)

	require.True(t, r.Next())
	pl, ok := r.Entity().(*entities.Polyline)
	require.True(t, ok)
	require.Len(t, pl.Vertices, 2)
	require.NotNil(t, pl.SeqEnd)

	require.False(t, r.Next())
	require.NoError(t, r.Err())
}

func TestEntityReaderInterruptedSequence(t *testing.T) {
	input := joinTags(
		"0", "SECTION",
		"2", "ENTITIES",
		"0", "POLYLINE",
		"5", "30",
		"66", "1",
		"0", "LINE",
		"5", "31",
		"0", "ENDSEC",
		"0", "EOF",
	)
	r, err := NewEntityReader(strings.NewReader(input))
	require.NoError(t, err)
	require.False(t, r.Next())
	require.ErrorIs(t, r.Err(), core.ErrStructure)
}

func TestEntityReaderStopsAfterEntitiesSection(t *testing.T) {
	// ENTITIES 段之后的 OBJECTS 记录不会被当作实体产出
	input := joinTags(
		"0", "SECTION",
		"2", "ENTITIES",
		"0", "POINT",
		"5", "40",
		"10", "1.0",
		"20", "2.0",
		"0", "ENDSEC",
		"0", "SECTION",
		"2", "OBJECTS",
		"0", "DICTIONARY",
		"5", "41",
		"0", "ENDSEC",
		"0", "EOF",
	)
	r, err := NewEntityReader(strings.NewReader(input))
	require.NoError(t, err)

	require.True(t, r.Next())
	require.IsType(t, &entities.Point{}, r.Entity())
	require.False(t, r.Next())
	require.NoError(t, r.Err())
}

func TestEntityReaderSkipsNonEntitySections(t *testing.T) {
	input := joinTags(
		"0", "SECTION",
		"2", "TABLES",
		"0", "TABLE",
		"2", "LAYER",
		"0", "LAYER",
		"2", "walls",
		"0", "ENDTAB",
		"0", "ENDSEC",
		"0", "SECTION",
		"2", "ENTITIES",
		"0", "POINT",
		"5", "40",
		"10", "1.0",
		"20", "2.0",
		"0", "ENDSEC",
		"0", "EOF",
	)
	r, err := NewEntityReader(strings.NewReader(input))
	require.NoError(t, err)

	require.True(t, r.Next())
	require.IsType(t, &entities.Point{}, r.Entity())
	require.False(t, r.Next())
	require.NoError(t, r.Err())
}
