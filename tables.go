package dxfdoc

import (
	"fmt"
	"strings"

	"github.com/zooyer/dxfdoc/entities"
)

// Table 一张资源表：不区分大小写按名索引的表项集合。
// 只保存句柄，实体本体在 EntityDB。除视口表外名称唯一。
type Table struct {
	role     string // 表项类型名，如 LAYER
	db       *EntityDB
	allowDup bool // VPORT 同名多条组成一套配置
	order    []string
	index    map[string][]string
}

func newTable(role string, db *EntityDB, allowDup bool) *Table {
	return &Table{
		role:     role,
		db:       db,
		allowDup: allowDup,
		index:    make(map[string][]string),
	}
}

// Role 返回表项类型名
func (t *Table) Role() string {
	return t.role
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Add 新表项入库并挂入本表。名称冲突时拒绝（视口表除外）。
func (t *Table) Add(entry entities.TableEntry) (string, error) {
	name := entry.Name()
	if name == "" {
		return "", fmt.Errorf("dxf: %s table entry without name", t.role)
	}
	if !t.allowDup && t.Has(name) {
		return "", fmt.Errorf("dxf: %s %q already exists", t.role, name)
	}
	handle, err := t.db.Add(entry)
	if err != nil {
		return "", err
	}
	t.link(name, handle)
	return handle, nil
}

// link 只挂索引，不入库（装载期实体已在库中）
func (t *Table) link(name, handle string) {
	t.order = append(t.order, handle)
	k := key(name)
	t.index[k] = append(t.index[k], handle)
}

// Get 按名取表项（同名多条时取第一条）
func (t *Table) Get(name string) (entities.TableEntry, bool) {
	handles := t.index[key(name)]
	if len(handles) == 0 {
		return nil, false
	}
	e, ok := t.db.Get(handles[0])
	if !ok {
		return nil, false
	}
	entry, ok := e.(entities.TableEntry)
	return entry, ok
}

// GetAll 按名取全部同名表项（多视口配置）
func (t *Table) GetAll(name string) (out []entities.TableEntry) {
	for _, h := range t.index[key(name)] {
		if e, ok := t.db.Get(h); ok {
			if entry, ok := e.(entities.TableEntry); ok {
				out = append(out, entry)
			}
		}
	}
	return
}

// Has 判断表项是否存在
func (t *Table) Has(name string) bool {
	return len(t.index[key(name)]) > 0
}

// Remove 摘除并删除表项，返回是否存在。
// 先解除本表引用再从库中删除，与删除契约一致。
func (t *Table) Remove(name string) bool {
	k := key(name)
	handles := t.index[k]
	if len(handles) == 0 {
		return false
	}
	delete(t.index, k)
	for _, h := range handles {
		for i, o := range t.order {
			if o == h {
				t.order = append(t.order[:i], t.order[i+1:]...)
				break
			}
		}
		t.db.Remove(h)
	}
	return true
}

// Entries 按插入顺序返回全部表项
func (t *Table) Entries() (out []entities.TableEntry) {
	for _, h := range t.order {
		if e, ok := t.db.Get(h); ok {
			if entry, ok := e.(entities.TableEntry); ok {
				out = append(out, entry)
			}
		}
	}
	return
}

// Len 表项条数
func (t *Table) Len() int {
	return len(t.order)
}

// Tables 文档的全部资源表，创建后与文档同生命周期
type Tables struct {
	Viewports    *Table // VPORT，唯一允许重名的表
	Linetypes    *Table // LTYPE
	Layers       *Table // LAYER
	Textstyles   *Table // STYLE
	Views        *Table // VIEW
	UCS          *Table // UCS
	AppIDs       *Table // APPID
	DimStyles    *Table // DIMSTYLE
	BlockRecords *Table // BLOCK_RECORD
}

func newTables(db *EntityDB) *Tables {
	return &Tables{
		Viewports:    newTable("VPORT", db, true),
		Linetypes:    newTable("LTYPE", db, false),
		Layers:       newTable("LAYER", db, false),
		Textstyles:   newTable("STYLE", db, false),
		Views:        newTable("VIEW", db, false),
		UCS:          newTable("UCS", db, false),
		AppIDs:       newTable("APPID", db, false),
		DimStyles:    newTable("DIMSTYLE", db, false),
		BlockRecords: newTable("BLOCK_RECORD", db, false),
	}
}

// byRole 按表项类型名取表
func (t *Tables) byRole(role string) (*Table, bool) {
	switch strings.ToUpper(role) {
	case "VPORT":
		return t.Viewports, true
	case "LTYPE":
		return t.Linetypes, true
	case "LAYER":
		return t.Layers, true
	case "STYLE":
		return t.Textstyles, true
	case "VIEW":
		return t.Views, true
	case "UCS":
		return t.UCS, true
	case "APPID":
		return t.AppIDs, true
	case "DIMSTYLE":
		return t.DimStyles, true
	case "BLOCK_RECORD":
		return t.BlockRecords, true
	}
	return nil, false
}

// all 按规范写出顺序返回全部表
func (t *Tables) all() []*Table {
	return []*Table{
		t.Viewports, t.Linetypes, t.Layers, t.Textstyles,
		t.Views, t.UCS, t.AppIDs, t.DimStyles, t.BlockRecords,
	}
}
