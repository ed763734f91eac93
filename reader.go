package dxfdoc

import (
	"bytes"
	"io"
	"strings"

	"github.com/zooyer/dxfdoc/core"
	"github.com/zooyer/dxfdoc/entities"
)

// EntityReader 流式遍历 ENTITIES 段的图形实体，不构建文档图：
// 不分配句柄、不解析引用、不审计，适合只读扫描超大文件。
// 附属序列（顶点、块属性）仍会挂到宿主实体上。
type EntityReader struct {
	collector *core.Collector
	version   core.Version
	inside    bool // 当前位于 ENTITIES 段内
	cur       entities.Entity
	err       error
	done      bool
}

// NewEntityReader 自动识别文本或二进制变体。
// 文本变体按头部声明的代码页解码字符串。
func NewEntityReader(r io.Reader) (*EntityReader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var src core.Source
	var version core.Version
	if bs, berr := core.NewBinaryScanner(data); berr == nil {
		version = bs.Version()
		src = core.NewCompiler(bs, false)
	} else {
		var codepage string
		version, codepage = sniffText(data)
		compiler := core.NewCompiler(core.NewScanner(bytes.NewReader(data)), false)
		if !version.Unicode() {
			compiler.SetEncoding(core.Codepage(codepage))
		}
		src = compiler
	}
	return &EntityReader{
		collector: core.NewCollector(src, false),
		version:   version,
	}, nil
}

// Version 头部声明的格式版本
func (r *EntityReader) Version() core.Version {
	return r.version
}

// Next 推进到下一个实体，流结束或出错返回 false
func (r *EntityReader) Next() bool {
	if r.err != nil || r.done {
		return false
	}
	for {
		tc, err := r.collector.Read()
		if err == io.EOF {
			r.done = true
			return false
		}
		if err != nil {
			r.err = err
			return false
		}

		switch tc.TypeName {
		case "SECTION":
			r.inside = strings.EqualFold(tc.Name(), "ENTITIES")
			continue
		case "ENDSEC":
			if r.inside {
				// ENTITIES 段完结，余下的段不再读取
				r.done = true
				return false
			}
			continue
		case "EOF":
			r.done = true
			return false
		}
		if !r.inside {
			continue
		}

		e := entities.FromCollection(tc, r.version)
		switch v := e.(type) {
		case *entities.Polyline:
			if r.err = r.readVertices(v); r.err != nil {
				return false
			}
		case *entities.Insert:
			if v.HasAttribs() {
				if r.err = r.readAttribs(v); r.err != nil {
					return false
				}
			}
		}
		r.cur = e
		return true
	}
}

// readVertices 吃掉 POLYLINE 的顶点序列直至 SEQEND
func (r *EntityReader) readVertices(p *entities.Polyline) error {
	for {
		tc, err := r.collector.Read()
		if err != nil {
			return err
		}
		e := entities.FromCollection(tc, r.version)
		switch v := e.(type) {
		case *entities.Vertex:
			p.Vertices = append(p.Vertices, v)
		case *entities.SeqEnd:
			p.SeqEnd = v
			return nil
		default:
			return &core.StructureError{Message: "POLYLINE vertex sequence interrupted by " + tc.TypeName}
		}
	}
}

// readAttribs 吃掉 INSERT 的属性序列直至 SEQEND
func (r *EntityReader) readAttribs(i *entities.Insert) error {
	for {
		tc, err := r.collector.Read()
		if err != nil {
			return err
		}
		e := entities.FromCollection(tc, r.version)
		switch v := e.(type) {
		case *entities.Attrib:
			i.Attribs = append(i.Attribs, v)
		case *entities.SeqEnd:
			i.SeqEnd = v
			return nil
		default:
			return &core.StructureError{Message: "INSERT attribute sequence interrupted by " + tc.TypeName}
		}
	}
}

// Entity 当前实体，Next 返回 true 后有效
func (r *EntityReader) Entity() entities.Entity {
	return r.cur
}

func (r *EntityReader) Err() error {
	return r.err
}
