package dxfdoc

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/zooyer/dxfdoc/entities"
)

// ErrNotFound 按句柄查不到实体
var ErrNotFound = errors.New("dxf: entity not found")

// ErrInvariant 结构不变量被破坏（句柄冲突、图形实体无属主等）
var ErrInvariant = errors.New("dxf: invariant violation")

// EntityDB 文档内所有实体的唯一属主，按句柄索引。
// 句柄单调分配、删除后永不复用；表和块空间只持句柄弱引用。
// 非并发安全，调用方自行串行化。
type EntityDB struct {
	entities map[string]entities.Entity
	next     uint64
}

func NewEntityDB() *EntityDB {
	return &EntityDB{
		entities: make(map[string]entities.Entity),
		next:     1,
	}
}

// NextHandle 返回下一个未用句柄（大写十六进制）并推进分配器
func (db *EntityDB) NextHandle() string {
	h := strconv.FormatUint(db.next, 16)
	db.next++
	return strings.ToUpper(h)
}

// Seed 把分配器推进到不小于 next 的位置（装载 $HANDSEED 用）
func (db *EntityDB) Seed(next uint64) {
	if next > db.next {
		db.next = next
	}
}

// seedValue 当前分配器位置，保存时写回 $HANDSEED
func (db *EntityDB) seedValue() uint64 {
	return db.next
}

// bump 保证分配器越过一个已占用句柄
func (db *EntityDB) bump(handle string) {
	if n, err := strconv.ParseUint(handle, 16, 64); err == nil && n >= db.next {
		db.next = n + 1
	}
}

// Add 入库。无句柄的实体分配新句柄；已有句柄冲突时拒绝入库，
// 绝不改写已占用的句柄。
func (db *EntityDB) Add(e entities.Entity) (string, error) {
	handle := e.Handle()
	if handle == "" {
		handle = db.NextHandle()
		e.SetHandle(handle)
	} else {
		handle = strings.ToUpper(handle)
		if _, exists := db.entities[handle]; exists {
			return "", fmt.Errorf("%w: duplicate handle %s (%s)", ErrInvariant, handle, e.Type())
		}
		db.bump(handle)
	}
	db.entities[handle] = e
	return handle, nil
}

// Get 按句柄查实体
func (db *EntityDB) Get(handle string) (entities.Entity, bool) {
	e, ok := db.entities[strings.ToUpper(handle)]
	return e, ok
}

// Remove 出库。不做级联：调用方先从属主的子列表摘除，
// 否则留下悬空引用由审计器处理。句柄不回收。
func (db *EntityDB) Remove(handle string) bool {
	handle = strings.ToUpper(handle)
	if _, ok := db.entities[handle]; !ok {
		return false
	}
	delete(db.entities, handle)
	return true
}

// Len 实体总数
func (db *EntityDB) Len() int {
	return len(db.entities)
}

// Handles 返回全部句柄，按数值排序（遍历结果可复现）
func (db *EntityDB) Handles() []string {
	out := make([]string, 0, len(db.entities))
	for h := range db.entities {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		a, _ := strconv.ParseUint(out[i], 16, 64)
		b, _ := strconv.ParseUint(out[j], 16, 64)
		return a < b
	})
	return out
}

// Range 按句柄数值序遍历
func (db *EntityDB) Range(fn func(handle string, e entities.Entity) bool) {
	for _, h := range db.Handles() {
		if !fn(h, db.entities[h]) {
			return
		}
	}
}
