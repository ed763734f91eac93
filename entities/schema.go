package entities

import (
	"sort"

	"github.com/zooyer/dxfdoc/core"
)

// Attr 声明一个实体属性：组码、属性名、缺省值与最低格式版本。
// 缺省值不落盘存储，读取方在访问时才代入（见 BaseEntity.Get）。
type Attr struct {
	Code     int
	Name     string
	Default  any
	Since    core.Version // 零值表示所有版本可用
	Required bool         // 即使等于缺省值也必须写出
}

// Schema 一个 DXF 类型的属性表。注册后不可变，写出顺序即 Attrs 顺序。
type Schema struct {
	Type       string
	Graphical  bool
	Since      core.Version // 实体类型本身要求的最低版本
	HandleCode int          // 句柄组码，默认 5（DIMSTYLE 为 105）
	Attrs      []Attr

	index map[int]int
}

// Attr 按组码查声明的属性
func (s *Schema) Attr(code int) (*Attr, bool) {
	i, ok := s.index[code]
	if !ok {
		return nil, false
	}
	return &s.Attrs[i], true
}

// AttrByName 按属性名查声明的属性
func (s *Schema) AttrByName(name string) (*Attr, bool) {
	for i := range s.Attrs {
		if s.Attrs[i].Name == name {
			return &s.Attrs[i], true
		}
	}
	return nil, false
}

type registration struct {
	schema  *Schema
	factory func() Entity
}

// registry 类型名到模式与构造器的映射，init 阶段注册完毕后只读
var registry = map[string]registration{}

// Register 注册一个实体类型，允许以后扩展新的实体类型。
// 同名重复注册视为编程错误。
func Register(schema *Schema, factory func() Entity) {
	if _, ok := registry[schema.Type]; ok {
		panic("dxf: duplicate schema registration: " + schema.Type)
	}
	if schema.HandleCode == 0 {
		schema.HandleCode = 5
	}
	schema.index = make(map[int]int, len(schema.Attrs))
	for i, a := range schema.Attrs {
		if _, dup := schema.index[a.Code]; !dup {
			schema.index[a.Code] = i
		}
	}
	registry[schema.Type] = registration{schema: schema, factory: factory}
}

// Lookup 按类型名查注册信息
func Lookup(typeName string) (*Schema, func() Entity, bool) {
	reg, ok := registry[typeName]
	if !ok {
		return nil, nil, false
	}
	return reg.schema, reg.factory, true
}

// RegisteredTypes 返回全部已注册类型名（字典序，便于测试与诊断）
func RegisteredTypes() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
