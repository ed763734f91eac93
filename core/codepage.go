package core

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

// DefaultCodepage R2007 之前文件未声明 $DWGCODEPAGE 时的默认代码页
const DefaultCodepage = "ANSI_1252"

// codepages $DWGCODEPAGE 值到解码器的映射
var codepages = map[string]encoding.Encoding{
	"ANSI_874":  charmap.Windows874,
	"ANSI_932":  japanese.ShiftJIS,
	"ANSI_936":  simplifiedchinese.GBK,
	"ANSI_949":  korean.EUCKR,
	"ANSI_950":  traditionalchinese.Big5,
	"ANSI_1250": charmap.Windows1250,
	"ANSI_1251": charmap.Windows1251,
	"ANSI_1252": charmap.Windows1252,
	"ANSI_1253": charmap.Windows1253,
	"ANSI_1254": charmap.Windows1254,
	"ANSI_1255": charmap.Windows1255,
	"ANSI_1256": charmap.Windows1256,
	"ANSI_1257": charmap.Windows1257,
	"ANSI_1258": charmap.Windows1258,
}

// Codepage 按代码页名查找编码，未知代码页退回 ANSI_1252
func Codepage(name string) encoding.Encoding {
	if enc, ok := codepages[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return enc
	}
	return charmap.Windows1252
}

// DecodeString 将代码页编码的字节串解码为 UTF-8 字符串，失败时原样返回
func DecodeString(enc encoding.Encoding, s string) string {
	if enc == nil {
		return s
	}
	out, err := enc.NewDecoder().String(s)
	if err != nil {
		return s
	}
	return out
}

// EncodeString 将 UTF-8 字符串编码到目标代码页，失败时原样返回
func EncodeString(enc encoding.Encoding, s string) string {
	if enc == nil {
		return s
	}
	out, err := enc.NewEncoder().String(s)
	if err != nil {
		return s
	}
	return out
}
