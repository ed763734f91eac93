package entities

import (
	"github.com/zooyer/dxfdoc/core"
)

// DictEntry 字典中的一个键值对，值是对象句柄
type DictEntry struct {
	Key    string
	Handle string
}

// Dictionary 名称到对象句柄的有序映射。键值由重复的 3/350（或 360）
// 组码对构成，自行装配。对象树以命名根字典为入口。
type Dictionary struct {
	BaseEntity
	Entries []DictEntry
}

var dictionarySchema = &Schema{
	Type:  "DICTIONARY",
	Since: core.AC1015,
	Attrs: []Attr{
		{Code: 280, Name: "hard_owned", Default: int64(0)},
		{Code: 281, Name: "cloning", Default: int64(1)},
	},
}

func init() {
	Register(dictionarySchema, func() Entity { return &Dictionary{BaseEntity: newBase(dictionarySchema)} })
}

// NewDictionary 创建空字典
func NewDictionary() *Dictionary {
	return &Dictionary{BaseEntity: newBase(dictionarySchema)}
}

func (d *Dictionary) apply(tc *core.TagCollection, version core.Version) {
	var key string
	var hasKey bool
	for _, t := range tc.Tags {
		switch t.Code {
		case 3:
			key = t.AsString()
			hasKey = true
		case 350, 360, 340:
			if hasKey {
				d.Entries = append(d.Entries, DictEntry{Key: key, Handle: t.AsHandle()})
				hasKey = false
				continue
			}
			d.applyTag(t, version)
		default:
			d.applyTag(t, version)
		}
	}
	d.xdata = tc.XData
	d.appdata = tc.AppData
}

// Get 按键查句柄
func (d *Dictionary) Get(key string) (string, bool) {
	for _, e := range d.Entries {
		if e.Key == key {
			return e.Handle, true
		}
	}
	return "", false
}

// Put 写入或更新键值
func (d *Dictionary) Put(key, handle string) {
	for i := range d.Entries {
		if d.Entries[i].Key == key {
			d.Entries[i].Handle = handle
			return
		}
	}
	d.Entries = append(d.Entries, DictEntry{Key: key, Handle: handle})
}

// Delete 删除键值，返回是否存在
func (d *Dictionary) Delete(key string) bool {
	for i := range d.Entries {
		if d.Entries[i].Key == key {
			d.Entries = append(d.Entries[:i], d.Entries[i+1:]...)
			return true
		}
	}
	return false
}

func (d *Dictionary) ExportTags(version core.Version, downgrade bool) (core.Tags, error) {
	attrs, err := d.exportAttrs(version, downgrade)
	if err != nil {
		return nil, err
	}
	out := d.exportCommon(version)
	out = append(out, attrs...)
	for _, e := range d.Entries {
		out = append(out, core.Tag{Code: 3, Value: e.Key})
		out = append(out, core.Tag{Code: 350, Value: e.Handle})
	}
	out = append(out, d.exportTrailer()...)
	return out, nil
}

// Layout 布局对象。组码 330（子类内第二个）指向所属块记录：
// 模型空间与各图纸空间各有一个布局，纯块定义没有布局对象。
type Layout struct {
	BaseEntity
}

var layoutSchema = &Schema{
	Type:  "LAYOUT",
	Since: core.AC1015,
	Attrs: []Attr{
		{Code: 1, Name: "name", Required: true},
		{Code: 70, Name: "flags", Default: int64(1)},
		{Code: 71, Name: "taborder", Default: int64(0), Required: true},
		{Code: 10, Name: "limmin", Default: core.Point2D{}},
		{Code: 11, Name: "limmax", Default: core.Point2D{X: 420, Y: 297}},
		{Code: 12, Name: "insert_base", Default: core.Point{}},
		{Code: 14, Name: "extmin", Default: core.Point{}},
		{Code: 15, Name: "extmax", Default: core.Point{}},
		{Code: 330, Name: "block_record"},
	},
}

func init() {
	Register(layoutSchema, func() Entity { return &Layout{newBase(layoutSchema)} })
}

// NewLayout 创建布局对象
func NewLayout(name string, taborder int64) *Layout {
	l := &Layout{newBase(layoutSchema)}
	l.Set(1, name)
	l.Set(71, taborder)
	return l
}

func (l *Layout) Name() string      { return l.GetString(1) }
func (l *Layout) TabOrder() int64   { return l.GetInt(71) }

// BlockRecordHandle 返回所属块记录的句柄
func (l *Layout) BlockRecordHandle() string { return l.GetString(330) }

func (l *Layout) SetBlockRecordHandle(h string) { l.Set(330, h) }
