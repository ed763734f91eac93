package dxfdoc

import (
	"fmt"
	"io"
	"strings"

	"github.com/zooyer/dxfdoc/core"
	"github.com/zooyer/dxfdoc/entities"
)

// SaveOptions 写出选项
type SaveOptions struct {
	Version        core.Version // 目标版本，零值沿用文档自身版本
	AllowDowngrade bool         // 为真时丢弃目标版本不支持的属性与实体
}

// Write 把文档序列化为文本变体。
// 段次序固定：HEADER、CLASSES、TABLES、BLOCKS、ENTITIES、OBJECTS、
// 透传段，最后 EOF。目标版本不支持的属性：严格模式报 ErrVersion，
// 显式降级模式丢弃。
func (d *Document) Write(w io.Writer, opts SaveOptions) error {
	version := opts.Version
	if version == "" {
		version = d.Version()
	}
	if !version.Saveable() {
		return fmt.Errorf("%w: cannot save as %s", core.ErrVersion, version)
	}

	d.Header.SetVersion(version)
	d.Header.SetHandSeed(d.DB.seedValue())
	if !version.Unicode() && !d.Header.Has("$DWGCODEPAGE") {
		d.Header.Set("$DWGCODEPAGE", core.Tag{Code: 3, Value: core.DefaultCodepage})
	}

	tw := core.NewTagWriter(w, version)
	if !version.Unicode() {
		tw.SetEncoding(core.Codepage(d.Header.Codepage()))
	}

	dw := &docWriter{doc: d, tw: tw, version: version, downgrade: opts.AllowDowngrade}
	steps := []func() error{
		dw.writeHeader,
		dw.writeClasses,
		dw.writeTables,
		dw.writeBlocks,
		dw.writeEntities,
		dw.writeObjects,
		dw.writeExtra,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	if err := tw.WriteStr(0, "EOF"); err != nil {
		return err
	}
	return tw.Flush()
}

type docWriter struct {
	doc       *Document
	tw        *core.TagWriter
	version   core.Version
	downgrade bool
}

func (w *docWriter) section(name string, body func() error) error {
	if err := w.tw.WriteStr(0, "SECTION"); err != nil {
		return err
	}
	if err := w.tw.WriteStr(2, name); err != nil {
		return err
	}
	if err := body(); err != nil {
		return err
	}
	return w.tw.WriteStr(0, "ENDSEC")
}

func (w *docWriter) writeHeader() error {
	return w.section("HEADER", func() error {
		for _, v := range w.doc.Header.Vars() {
			if err := w.tw.WriteStr(9, v.Name); err != nil {
				return err
			}
			if err := w.tw.WriteTags(v.Tags); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeClasses CLASSES 段只透传装载时的内容，R12 没有这个段
func (w *docWriter) writeClasses() error {
	if w.version <= core.AC1009 || len(w.doc.classes) == 0 {
		return nil
	}
	return w.section("CLASSES", func() error {
		return w.tw.WriteTags(w.doc.classes)
	})
}

// exportable 判断实体在目标版本下是否可写出。
// 模式声明的版本高于目标版本时：严格模式报错，降级模式跳过。
func (w *docWriter) exportable(e entities.Entity) (bool, error) {
	schema := e.Schema()
	if schema == nil || schema.Since == "" || !w.version.Before(schema.Since) {
		return true, nil
	}
	if w.downgrade {
		return false, nil
	}
	return false, fmt.Errorf("%w: %s requires %s, target is %s",
		core.ErrVersion, e.Type(), schema.Since, w.version)
}

// writeRecord 导出单个实体的标签
func (w *docWriter) writeRecord(e entities.Entity) error {
	ok, err := w.exportable(e)
	if err != nil || !ok {
		return err
	}
	tags, err := e.ExportTags(w.version, w.downgrade)
	if err != nil {
		return err
	}
	return w.tw.WriteTags(tags)
}

// writeEntity 写出图形实体及其附属序列（顶点、块属性、SEQEND）
func (w *docWriter) writeEntity(e entities.Entity) error {
	if err := w.writeRecord(e); err != nil {
		return err
	}
	switch v := e.(type) {
	case *entities.Polyline:
		for _, vertex := range v.Vertices {
			if err := w.writeRecord(vertex); err != nil {
				return err
			}
		}
		return w.writeSeqEnd(v.SeqEnd, v.Handle())
	case *entities.Insert:
		if !v.HasAttribs() {
			return nil
		}
		v.Set(66, int64(1))
		for _, attrib := range v.Attribs {
			if err := w.writeRecord(attrib); err != nil {
				return err
			}
		}
		return w.writeSeqEnd(v.SeqEnd, v.Handle())
	}
	return nil
}

func (w *docWriter) writeSeqEnd(seqend *entities.SeqEnd, owner string) error {
	if seqend == nil {
		seqend = entities.New("SEQEND").(*entities.SeqEnd)
		seqend.SetOwner(owner)
		w.doc.DB.Add(seqend)
	}
	return w.writeRecord(seqend)
}

func (w *docWriter) writeTables() error {
	return w.section("TABLES", func() error {
		for _, table := range w.doc.Tables.all() {
			if table.Role() == "BLOCK_RECORD" && w.version <= core.AC1009 {
				continue // R12 没有块记录表
			}
			if err := w.tw.WriteStr(0, "TABLE"); err != nil {
				return err
			}
			if err := w.tw.WriteStr(2, table.Role()); err != nil {
				return err
			}
			if err := w.tw.WriteInt(70, int64(table.Len())); err != nil {
				return err
			}
			for _, entry := range table.Entries() {
				if err := w.writeRecord(entry); err != nil {
					return err
				}
			}
			if err := w.tw.WriteStr(0, "ENDTAB"); err != nil {
				return err
			}
		}
		// 不认识的表原样回放
		for _, raw := range w.doc.extra {
			role, ok := strings.CutPrefix(raw.name, "TABLES:")
			if !ok {
				continue
			}
			if err := w.tw.WriteStr(0, "TABLE"); err != nil {
				return err
			}
			if err := w.tw.WriteStr(2, role); err != nil {
				return err
			}
			if err := w.tw.WriteInt(70, int64(len(raw.records))); err != nil {
				return err
			}
			for _, tc := range raw.records {
				if err := w.writeCollection(tc); err != nil {
					return err
				}
			}
			if err := w.tw.WriteStr(0, "ENDTAB"); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeBlocks 布局空间只写空的块定义占位，内容归 ENTITIES 段
func (w *docWriter) writeBlocks() error {
	return w.section("BLOCKS", func() error {
		for _, space := range w.doc.Blocks() {
			if space.block == nil {
				continue
			}
			if err := w.writeRecord(space.block); err != nil {
				return err
			}
			if !space.IsLayout() {
				for _, e := range space.Entities() {
					if err := w.writeEntity(e); err != nil {
						return err
					}
				}
			}
			endblk := space.endblk
			if endblk == nil {
				endblk = entities.New("ENDBLK").(*entities.EndBlk)
				endblk.SetOwner(space.record)
				w.doc.DB.Add(endblk)
				space.endblk = endblk
			}
			if err := w.writeRecord(endblk); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeEntities 模型空间实体在前，图纸空间实体带 67 标志跟随其后
func (w *docWriter) writeEntities() error {
	return w.section("ENTITIES", func() error {
		for _, e := range w.doc.Modelspace().Entities() {
			if err := w.writeEntity(e); err != nil {
				return err
			}
		}
		for _, e := range w.doc.Paperspace().Entities() {
			if base := e.Base(); base != nil {
				base.Set(67, int64(1))
			}
			if err := w.writeEntity(e); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeObjects 对象段从 R2000 起才有
func (w *docWriter) writeObjects() error {
	if w.version.Before(core.AC1015) {
		return nil
	}
	return w.section("OBJECTS", func() error {
		for _, e := range w.doc.Objects() {
			if err := w.writeRecord(e); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeExtra 不认识的段原样回放，保持无损往返
func (w *docWriter) writeExtra() error {
	for _, raw := range w.doc.extra {
		if strings.HasPrefix(raw.name, "TABLES:") {
			continue // 已并入 TABLES 段
		}
		err := w.section(raw.name, func() error {
			for _, tc := range raw.records {
				if err := w.writeCollection(tc); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// writeCollection 回放一条透传记录
func (w *docWriter) writeCollection(tc *core.TagCollection) error {
	if err := w.tw.WriteStr(0, tc.TypeName); err != nil {
		return err
	}
	if err := w.tw.WriteTags(tc.Tags); err != nil {
		return err
	}
	for _, ad := range tc.AppData {
		if err := w.tw.WriteStr(102, "{"+ad.Name); err != nil {
			return err
		}
		if err := w.tw.WriteTags(ad.Tags); err != nil {
			return err
		}
		if err := w.tw.WriteStr(102, "}"); err != nil {
			return err
		}
	}
	for _, xd := range tc.XData {
		if err := w.tw.WriteStr(1001, xd.AppID); err != nil {
			return err
		}
		if err := w.tw.WriteTags(xd.Tags); err != nil {
			return err
		}
	}
	return nil
}
