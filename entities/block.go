package entities

import (
	"github.com/zooyer/dxfdoc/core"
)

// Block 块定义头实体，块内实体在 BLOCK 与 ENDBLK 之间
type Block struct {
	BaseEntity
}

var blockSchema = &Schema{
	Type:      "BLOCK",
	Graphical: true,
	Attrs: []Attr{
		{Code: 8, Name: "layer", Default: "0", Required: true},
		{Code: 2, Name: "name", Required: true},
		{Code: 70, Name: "flags", Default: int64(0), Required: true},
		{Code: 10, Name: "base_point", Default: core.Point{}, Required: true},
		{Code: 3, Name: "name2", Default: ""},
		{Code: 1, Name: "xref_path", Default: ""},
	},
}

// EndBlk 块定义结束标记
type EndBlk struct {
	BaseEntity
}

var endblkSchema = &Schema{
	Type:      "ENDBLK",
	Graphical: true,
	Attrs: []Attr{
		{Code: 8, Name: "layer", Default: "0"},
	},
}

func init() {
	Register(blockSchema, func() Entity { return &Block{newBase(blockSchema)} })
	Register(endblkSchema, func() Entity { return &EndBlk{newBase(endblkSchema)} })
}

// NewBlock 创建块定义头
func NewBlock(name string, base core.Point) *Block {
	b := &Block{newBase(blockSchema)}
	b.Set(2, name)
	b.Set(3, name)
	b.Set(10, base)
	return b
}

func (b *Block) Name() string          { return b.GetString(2) }
func (b *Block) SetName(name string)   { b.Set(2, name); b.Set(3, name) }
func (b *Block) BasePoint() core.Point { return b.GetPoint(10) }

// Anonymous 判断是否匿名块（70 组码第 1 位）
func (b *Block) Anonymous() bool { return b.GetInt(70)&1 != 0 }

// Xref 判断是否外部引用（70 组码第 3 位）
func (b *Block) Xref() bool { return b.GetInt(70)&4 != 0 }
