// Package dxfdoc 实现 DXF 交换格式的文档模型：
// 解析标签流为实体图、装配文档结构、审计修复、再无损写回。
package dxfdoc

import (
	"os"
	"strings"

	"github.com/zooyer/dxfdoc/core"
	"github.com/zooyer/dxfdoc/entities"
)

// 模型空间与默认图纸空间的块名
const (
	ModelSpaceName = "*Model_Space"
	PaperSpaceName = "*Paper_Space"
)

// rawSection 原样往返的段（CLASSES 与不认识的段）
type rawSection struct {
	name    string
	records []*core.TagCollection
}

// Space 一个块记录拥有的实体空间：块定义，或带 LAYOUT 对象的布局。
// 只持句柄弱引用，实体本体在 EntityDB。
type Space struct {
	doc     *Document
	name    string
	record  string // BLOCK_RECORD 句柄
	layout  string // LAYOUT 对象句柄，空串表示纯块定义
	block   *entities.Block
	endblk  *entities.EndBlk
	handles []string
}

// Name 块名（模型空间为 *Model_Space）
func (s *Space) Name() string {
	return s.name
}

// Record 所属块记录句柄
func (s *Space) Record() string {
	return s.record
}

// IsLayout 是否为布局空间（模型空间或图纸空间）
func (s *Space) IsLayout() bool {
	return s.layout != ""
}

// Layout 返回关联的 LAYOUT 对象，纯块定义返回 nil
func (s *Space) Layout() *entities.Layout {
	if s.layout == "" {
		return nil
	}
	if e, ok := s.doc.DB.Get(s.layout); ok {
		if l, ok := e.(*entities.Layout); ok {
			return l
		}
	}
	return nil
}

// Add 新实体入库并挂入本空间。先入库取句柄，后挂链，顺序不可颠倒。
func (s *Space) Add(e entities.Entity) (string, error) {
	handle, err := s.doc.DB.Add(e)
	if err != nil {
		return "", err
	}
	e.SetOwner(s.record)
	s.handles = append(s.handles, handle)
	return handle, nil
}

// attach 装载期挂链（实体已入库）
func (s *Space) attach(handle string) {
	s.handles = append(s.handles, handle)
}

// Entities 按插入顺序返回空间内全部实体
func (s *Space) Entities() (out []entities.Entity) {
	for _, h := range s.handles {
		if e, ok := s.doc.DB.Get(h); ok {
			out = append(out, e)
		}
	}
	return
}

// Len 空间内实体数
func (s *Space) Len() int {
	return len(s.handles)
}

// Remove 从空间摘除并删除实体，返回是否存在。
// 句柄不回收，库内其他指向它的引用交由审计器发现。
func (s *Space) Remove(handle string) bool {
	handle = strings.ToUpper(handle)
	for i, h := range s.handles {
		if h == handle {
			s.handles = append(s.handles[:i], s.handles[i+1:]...)
			return s.doc.DB.Remove(handle)
		}
	}
	return false
}

// Document 一份 DXF 文档的完整实体图。
// 单线程模型，跨协程并发修改由调用方串行化。
type Document struct {
	Header *Header
	DB     *EntityDB
	Tables *Tables

	spaces     map[string]*Space // 大写块名 → 空间
	spaceOrder []string          // 块名，创建序
	objects    []string          // OBJECTS 段句柄，文件序
	rootDict   string            // 根字典句柄
	classes    core.Tags         // CLASSES 段原样往返
	extra      []rawSection      // 不认识的段原样往返
	issues     []core.Warning    // 装载期收集的问题
}

// New 按目标版本创建空文档，带最小必需结构：
// 缺省图层/线型/样式、模型空间与一个图纸空间布局、根字典。
func New(version core.Version) *Document {
	doc := &Document{
		Header: defaultHeader(version),
		DB:     NewEntityDB(),
		spaces: make(map[string]*Space),
	}
	doc.Tables = newTables(doc.DB)

	doc.Tables.Linetypes.Add(entities.NewLinetype("ByBlock", ""))
	doc.Tables.Linetypes.Add(entities.NewLinetype("ByLayer", ""))
	doc.Tables.Linetypes.Add(entities.NewLinetype("Continuous", "Solid line"))
	doc.Tables.Layers.Add(entities.NewLayer("0"))
	doc.Tables.Textstyles.Add(entities.NewTextstyle("Standard", "txt"))
	doc.Tables.AppIDs.Add(entities.NewAppID("ACAD"))
	doc.Tables.DimStyles.Add(entities.NewDimStyle("Standard"))

	root := entities.NewDictionary()
	doc.rootDict, _ = doc.DB.Add(root)
	doc.objects = append(doc.objects, doc.rootDict)
	layoutDict := entities.NewDictionary()
	layoutDictHandle, _ := doc.DB.Add(layoutDict)
	doc.objects = append(doc.objects, layoutDictHandle)
	root.Put("ACAD_LAYOUT", layoutDictHandle)

	doc.newLayoutSpace(ModelSpaceName, "Model", 0, layoutDict)
	doc.newLayoutSpace(PaperSpaceName, "Layout1", 1, layoutDict)
	return doc
}

// newLayoutSpace 创建块记录、块头与 LAYOUT 对象三件套
func (d *Document) newLayoutSpace(blockName, layoutName string, taborder int64, dict *entities.Dictionary) *Space {
	space := d.ensureSpace(blockName)

	record := entities.NewBlockRecord(blockName)
	recordHandle, _ := d.Tables.BlockRecords.Add(record)
	space.record = recordHandle

	space.block = entities.NewBlock(blockName, core.Point{})
	space.block.SetOwner(recordHandle)
	d.DB.Add(space.block)
	space.endblk = entities.New("ENDBLK").(*entities.EndBlk)
	space.endblk.SetOwner(recordHandle)
	d.DB.Add(space.endblk)

	layout := entities.NewLayout(layoutName, taborder)
	layout.SetBlockRecordHandle(recordHandle)
	layoutHandle, _ := d.DB.Add(layout)
	space.layout = layoutHandle
	record.SetLayoutHandle(layoutHandle)
	d.objects = append(d.objects, layoutHandle)
	if dict != nil {
		dict.Put(layoutName, layoutHandle)
	}
	return space
}

// ensureSpace 取或建命名空间（装载期先于块记录存在）
func (d *Document) ensureSpace(name string) *Space {
	k := strings.ToUpper(name)
	if s, ok := d.spaces[k]; ok {
		return s
	}
	s := &Space{doc: d, name: name}
	d.spaces[k] = s
	d.spaceOrder = append(d.spaceOrder, k)
	return s
}

// Version 文档格式版本
func (d *Document) Version() core.Version {
	return d.Header.Version()
}

// Modelspace 模型空间
func (d *Document) Modelspace() *Space {
	return d.ensureSpace(ModelSpaceName)
}

// Paperspace 默认图纸空间
func (d *Document) Paperspace() *Space {
	return d.ensureSpace(PaperSpaceName)
}

// Block 按名取块空间
func (d *Document) Block(name string) (*Space, bool) {
	s, ok := d.spaces[strings.ToUpper(name)]
	return s, ok
}

// Blocks 按创建顺序返回全部空间（含布局空间）
func (d *Document) Blocks() (out []*Space) {
	for _, k := range d.spaceOrder {
		out = append(out, d.spaces[k])
	}
	return
}

// Layouts 返回全部布局空间，按页签序
func (d *Document) Layouts() (out []*Space) {
	for _, k := range d.spaceOrder {
		if s := d.spaces[k]; s.IsLayout() {
			out = append(out, s)
		}
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			li, lj := out[i].Layout(), out[j].Layout()
			if li != nil && lj != nil && lj.TabOrder() < li.TabOrder() {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return
}

// NewBlock 创建纯块定义
func (d *Document) NewBlock(name string, base core.Point) (*Space, error) {
	if _, exists := d.Block(name); exists {
		return nil, &core.StructureError{Message: "block " + name + " already exists"}
	}
	space := d.ensureSpace(name)
	record := entities.NewBlockRecord(name)
	recordHandle, err := d.Tables.BlockRecords.Add(record)
	if err != nil {
		return nil, err
	}
	space.record = recordHandle
	space.block = entities.NewBlock(name, base)
	space.block.SetOwner(recordHandle)
	d.DB.Add(space.block)
	space.endblk = entities.New("ENDBLK").(*entities.EndBlk)
	space.endblk.SetOwner(recordHandle)
	d.DB.Add(space.endblk)
	return space, nil
}

// RootDict 根字典对象，不存在返回 nil
func (d *Document) RootDict() *entities.Dictionary {
	if d.rootDict == "" {
		return nil
	}
	if e, ok := d.DB.Get(d.rootDict); ok {
		if dict, ok := e.(*entities.Dictionary); ok {
			return dict
		}
	}
	return nil
}

// Objects 按文件顺序返回 OBJECTS 段的全部对象
func (d *Document) Objects() (out []entities.Entity) {
	for _, h := range d.objects {
		if e, ok := d.DB.Get(h); ok {
			out = append(out, e)
		}
	}
	return
}

// AddObject 新对象入库并挂入 OBJECTS 段
func (d *Document) AddObject(e entities.Entity) (string, error) {
	handle, err := d.DB.Add(e)
	if err != nil {
		return "", err
	}
	d.objects = append(d.objects, handle)
	return handle, nil
}

// LoadIssues 装载期收集的问题（恢复模式下的跳过与修正）
func (d *Document) LoadIssues() []core.Warning {
	return d.issues
}

// spaceByRecord 按块记录句柄找空间
func (d *Document) spaceByRecord(record string) (*Space, bool) {
	for _, k := range d.spaceOrder {
		if s := d.spaces[k]; s.record == record {
			return s, true
		}
	}
	return nil, false
}

// ResolveColor 解析带继承哨兵的颜色：256 随层、0 随块。
// 随块时返回调用方给定的块引用颜色。
func (d *Document) ResolveColor(e entities.Entity, blockColor int64) int64 {
	base := e.Base()
	if base == nil {
		return 7
	}
	color := base.Color()
	switch color {
	case entities.ColorByLayer:
		if layer, ok := d.Tables.Layers.Get(base.Layer()); ok {
			if l, ok := layer.(*entities.Layer); ok {
				if c := l.Color(); c > 0 {
					return c
				}
				return -l.Color() // 图层关闭时颜色为负
			}
		}
		return 7
	case entities.ColorByBlock:
		return blockColor
	}
	return color
}

// ResolveLineweight 解析带继承哨兵的线宽（-1 随层、-2 随块、-3 全局缺省）
func (d *Document) ResolveLineweight(e entities.Entity, blockLineweight int64) int64 {
	base := e.Base()
	if base == nil {
		return entities.LineweightDefault
	}
	lw := base.Lineweight()
	switch lw {
	case entities.LineweightByLayer:
		if layer, ok := d.Tables.Layers.Get(base.Layer()); ok {
			if l, ok := layer.(*entities.Layer); ok {
				return l.Lineweight()
			}
		}
		return entities.LineweightDefault
	case entities.LineweightByBlock:
		return blockLineweight
	}
	return lw
}

// SaveAs 按文档自身版本写到文件
func (d *Document) SaveAs(filename string) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return
	}
	defer func() {
		if e := file.Close(); e != nil && err == nil {
			err = e
		}
	}()
	return d.Write(file, SaveOptions{})
}
