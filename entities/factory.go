package entities

import (
	"strings"

	"github.com/zooyer/dxfdoc/core"
)

// applier 带重复组码等特殊结构的类型自行装配（LWPOLYLINE、DICTIONARY 等）
type applier interface {
	apply(tc *core.TagCollection, version core.Version)
}

// FromCollection 根据记录的类型名生产对应的实体。
// 已注册类型走模式装配；未注册类型退化为透传实体，原始标签一律保留。
func FromCollection(tc *core.TagCollection, version core.Version) Entity {
	typeName := strings.ToUpper(tc.TypeName)
	_, factory, ok := Lookup(typeName)
	if !ok {
		return NewOpaque(tc)
	}

	e := factory()
	if a, ok := e.(applier); ok {
		a.apply(tc, version)
	} else {
		e.Base().applyCollection(tc, version)
	}
	return e
}

// New 按类型名构造一个空实体（建模 API 入口），未注册类型返回 nil
func New(typeName string) Entity {
	_, factory, ok := Lookup(strings.ToUpper(typeName))
	if !ok {
		return nil
	}
	return factory()
}
