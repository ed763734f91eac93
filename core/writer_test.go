package core

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatFloat(t *testing.T) {
	// 浮点值恒带小数点，且保持最短可往返形式
	require.Equal(t, "1.0", FormatFloat(1))
	require.Equal(t, "0.5", FormatFloat(0.5))
	require.Equal(t, "-2.25", FormatFloat(-2.25))
	require.Equal(t, "1e+21", FormatFloat(1e21))
}

func TestTagWriter_Layout(t *testing.T) {
	var buf bytes.Buffer
	tw := NewTagWriter(&buf, AC1032)

	require.NoError(t, tw.WriteTag(Tag{Code: 0, Value: "LINE"}))
	require.NoError(t, tw.WriteTag(Tag{Code: 62, Value: int64(5)}))
	require.NoError(t, tw.Flush())

	require.Equal(t, "  0\r\nLINE\r\n 62\r\n5\r\n", buf.String())
}

func TestTagWriter_PointExpansion(t *testing.T) {
	var buf bytes.Buffer
	tw := NewTagWriter(&buf, AC1032)

	require.NoError(t, tw.WriteTag(Tag{Code: 10, Value: Point{X: 1, Y: 2, Z: 3}}))
	require.NoError(t, tw.WriteTag(Tag{Code: 11, Value: Point2D{X: 4, Y: 5}}))
	require.NoError(t, tw.Flush())

	out := buf.String()
	require.Contains(t, out, " 10\r\n1.0\r\n 20\r\n2.0\r\n 30\r\n3.0\r\n")
	require.Contains(t, out, " 11\r\n4.0\r\n 21\r\n5.0\r\n")
	// 二维点不输出 Z 分量
	require.NotContains(t, out, " 31\r\n")
}

func TestTagWriter_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	tw := NewTagWriter(&buf, AC1032)
	in := Tags{
		{Code: 0, Value: "LINE"},
		{Code: 5, Value: "1A"},
		{Code: 10, Value: Point{X: 1.5, Y: -2, Z: 0.125}},
		{Code: 290, Value: true},
		{Code: 310, Value: []byte{0xDE, 0xAD}},
		{Code: 0, Value: "EOF"},
	}
	require.NoError(t, tw.WriteTags(in))
	require.NoError(t, tw.Flush())

	c := NewCompiler(NewScanner(strings.NewReader(buf.String())), false)
	var out Tags
	for c.Next() {
		out = append(out, c.Tag())
	}
	require.NoError(t, c.Err())
	require.Equal(t, in, out)
}

func TestCodepage_Lookup(t *testing.T) {
	require.NotNil(t, Codepage("ansi_936"))
	// 未知代码页退回 ANSI_1252
	require.Equal(t, Codepage("ANSI_1252"), Codepage("NO_SUCH"))
}
