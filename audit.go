package dxfdoc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zooyer/dxfdoc/core"
	"github.com/zooyer/dxfdoc/entities"
	"github.com/zooyer/golib/xmath"
)

// Severity 审计结果的级别
type Severity int

const (
	SeverityRepaired Severity = iota // 已自动修复
	SeverityFatal                    // 无法修复，文档不可安全保存
)

func (s Severity) String() string {
	if s == SeverityFatal {
		return "fatal"
	}
	return "repaired"
}

// 审计问题码
const (
	LoadIssue          = 1   // 装载期跳过或修正的内容
	InvalidHandle      = 10  // 句柄不是合法十六进制
	DanglingOwner      = 20  // 属主句柄解析不到
	DanglingReference  = 21  // 空间实体链中的悬空句柄
	MissingSeqEnd      = 22  // 附属实体序列缺收尾
	InvalidColor       = 30  // 颜色超出 0..256
	InvalidLineweight  = 31  // 线宽不在合法枚举集内
	MissingLayer       = 40  // 引用的图层不存在
	MissingLinetype    = 41  // 引用的线型不存在
	MissingTextstyle   = 42  // 引用的文字样式不存在
	MissingDimstyle    = 43  // 引用的标注样式不存在
	MissingBlock       = 44  // INSERT 引用的块不存在
	CyclicBlockInsert  = 50  // 块引用成环
	DegenerateGeometry = 60  // 退化几何（零半径、零长度）
)

// AuditEntry 一条审计结果
type AuditEntry struct {
	Handle   string
	Code     int
	Severity Severity
	Message  string
}

func (e AuditEntry) String() string {
	if e.Handle != "" {
		return fmt.Sprintf("[%s] #%s: %s", e.Severity, e.Handle, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
}

// AuditLog 一次审计的全部结果
type AuditLog struct {
	entries []AuditEntry
}

func (l *AuditLog) append(e AuditEntry) {
	l.entries = append(l.entries, e)
}

// Entries 按发现顺序返回全部结果
func (l *AuditLog) Entries() []AuditEntry {
	return l.entries
}

// Fixes 返回已修复的问题
func (l *AuditLog) Fixes() (out []AuditEntry) {
	for _, e := range l.entries {
		if e.Severity == SeverityRepaired {
			out = append(out, e)
		}
	}
	return
}

// Errors 返回致命问题
func (l *AuditLog) Errors() (out []AuditEntry) {
	for _, e := range l.entries {
		if e.Severity == SeverityFatal {
			out = append(out, e)
		}
	}
	return
}

// HasFatalErrors 存在致命问题时文档不应保存
func (l *AuditLog) HasFatalErrors() bool {
	for _, e := range l.entries {
		if e.Severity == SeverityFatal {
			return true
		}
	}
	return false
}

func (l *AuditLog) String() string {
	var sb strings.Builder
	for _, e := range l.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// validLineweights 合法线宽枚举（百分之一毫米），含三个继承哨兵
var validLineweights = map[int64]bool{
	-3: true, -2: true, -1: true,
	0: true, 5: true, 9: true, 13: true, 15: true, 18: true, 20: true,
	25: true, 30: true, 35: true, 40: true, 50: true, 53: true, 60: true,
	70: true, 80: true, 90: true, 100: true, 106: true, 120: true,
	140: true, 158: true, 200: true, 211: true,
}

const geomEpsilon = 1e-12

// Audit 检查并修复文档的结构与引用一致性。
// 可修复的问题就地修复并记录；无法修复的标记为致命。
// 检查顺序固定：句柄 → 引用 → 枚举 → 命名资源 → 块环 → 几何。
func (d *Document) Audit() *AuditLog {
	a := &auditor{doc: d, log: &AuditLog{}}
	a.checkHandles()
	a.checkReferences()
	a.checkEnums()
	a.checkNamedRefs()
	a.checkBlockCycles()
	a.checkGeometry()
	return a.log
}

type auditor struct {
	doc *Document
	log *AuditLog
}

func (a *auditor) repaired(handle string, code int, format string, args ...any) {
	a.log.append(AuditEntry{Handle: handle, Code: code, Severity: SeverityRepaired, Message: fmt.Sprintf(format, args...)})
}

func (a *auditor) fatal(handle string, code int, format string, args ...any) {
	a.log.append(AuditEntry{Handle: handle, Code: code, Severity: SeverityFatal, Message: fmt.Sprintf(format, args...)})
}

// checkHandles 句柄必须是合法十六进制。库本身保证唯一性，
// 这里只剩格式校验；坏句柄无法重写引用，按致命处理。
func (a *auditor) checkHandles() {
	a.doc.DB.Range(func(handle string, e entities.Entity) bool {
		if _, err := strconv.ParseUint(handle, 16, 64); err != nil {
			a.fatal(handle, InvalidHandle, "entity %s has malformed handle", e.Type())
		}
		return true
	})
}

// checkReferences 属主与空间链的句柄都必须解析得到
func (a *auditor) checkReferences() {
	doc := a.doc
	model := doc.Modelspace()
	for _, space := range doc.Blocks() {
		var kept []string
		for _, h := range space.handles {
			if _, ok := doc.DB.Get(h); !ok {
				a.repaired(h, DanglingReference, "dangling entity reference in block %s removed", space.name)
				continue
			}
			kept = append(kept, h)
		}
		space.handles = kept
	}
	doc.DB.Range(func(handle string, e entities.Entity) bool {
		owner := e.Owner()
		if owner == "" || !e.Graphical() {
			return true
		}
		if _, ok := doc.DB.Get(owner); !ok {
			e.SetOwner(model.record)
			if !contains(model.handles, handle) {
				model.attach(handle)
			}
			a.repaired(handle, DanglingOwner, "%s owner %s unresolved, moved to modelspace", e.Type(), owner)
		}
		return true
	})
	a.checkSequences()
}

// checkSequences POLYLINE/INSERT 的附属序列必须有收尾
func (a *auditor) checkSequences() {
	a.doc.DB.Range(func(handle string, e entities.Entity) bool {
		switch v := e.(type) {
		case *entities.Polyline:
			if len(v.Vertices) > 0 && v.SeqEnd == nil {
				v.SeqEnd = entities.New("SEQEND").(*entities.SeqEnd)
				v.SeqEnd.SetOwner(handle)
				a.doc.DB.Add(v.SeqEnd)
				a.repaired(handle, MissingSeqEnd, "POLYLINE vertex sequence without SEQEND, appended")
			}
		case *entities.Insert:
			if len(v.Attribs) > 0 && v.SeqEnd == nil {
				v.SeqEnd = entities.New("SEQEND").(*entities.SeqEnd)
				v.SeqEnd.SetOwner(handle)
				a.doc.DB.Add(v.SeqEnd)
				a.repaired(handle, MissingSeqEnd, "INSERT attribute sequence without SEQEND, appended")
			}
		}
		return true
	})
}

// checkEnums 颜色与线宽必须落在合法取值内，越界改回缺省
func (a *auditor) checkEnums() {
	a.doc.DB.Range(func(handle string, e entities.Entity) bool {
		base := e.Base()
		if base == nil || !e.Graphical() {
			return true
		}
		if base.Has(62) {
			if c := base.Color(); c < 0 || c > 256 {
				base.SetColor(entities.ColorByLayer)
				a.repaired(handle, InvalidColor, "%s color %d out of range, reset to ByLayer", e.Type(), c)
			}
		}
		if base.Has(370) {
			if lw := base.Lineweight(); !validLineweights[lw] {
				base.SetLineweight(entities.LineweightDefault)
				a.repaired(handle, InvalidLineweight, "%s lineweight %d invalid, reset to default", e.Type(), lw)
			}
		}
		return true
	})
}

// checkNamedRefs 图层、线型、文字样式、标注样式按名引用，
// 缺失的资源按缺省参数补建，绝不丢实体
func (a *auditor) checkNamedRefs() {
	doc := a.doc
	ensureLayer := func(handle, name string) {
		if name == "" || doc.Tables.Layers.Has(name) {
			return
		}
		doc.Tables.Layers.Add(entities.NewLayer(name))
		a.repaired(handle, MissingLayer, "layer %q not in table, created", name)
	}
	ensureLinetype := func(handle, name string) {
		switch strings.ToLower(name) {
		case "", "bylayer", "byblock":
			return
		}
		if doc.Tables.Linetypes.Has(name) {
			return
		}
		doc.Tables.Linetypes.Add(entities.NewLinetype(name, ""))
		a.repaired(handle, MissingLinetype, "linetype %q not in table, created", name)
	}

	doc.DB.Range(func(handle string, e entities.Entity) bool {
		base := e.Base()
		if base == nil {
			return true
		}
		if e.Graphical() {
			ensureLayer(handle, base.Layer())
			ensureLinetype(handle, base.Linetype())
		}
		switch v := e.(type) {
		case *entities.Text:
			if name := v.Style(); name != "" && !doc.Tables.Textstyles.Has(name) {
				doc.Tables.Textstyles.Add(entities.NewTextstyle(name, "txt"))
				a.repaired(handle, MissingTextstyle, "text style %q not in table, created", name)
			}
		case *entities.Dimension:
			if name := v.DimStyle(); name != "" && !doc.Tables.DimStyles.Has(name) {
				doc.Tables.DimStyles.Add(entities.NewDimStyle(name))
				a.repaired(handle, MissingDimstyle, "dimension style %q not in table, created", name)
			}
		case *entities.Layer:
			ensureLinetype(handle, v.GetString(6))
		case *entities.Insert:
			if name := v.BlockName(); name != "" {
				if _, ok := doc.Block(name); !ok {
					doc.NewBlock(name, core.Point{})
					a.repaired(handle, MissingBlock, "block %q not defined, created empty", name)
				}
			}
		}
		return true
	})
}

// checkBlockCycles 块定义经 INSERT 相互引用不得成环（含自引用）。
// 成环的 INSERT 从块里摘除，否则展开块时无限递归。
func (a *auditor) checkBlockCycles() {
	doc := a.doc

	// 块名 → 其定义内 INSERT 引用的块名
	refs := make(map[string][]string)
	inserts := make(map[string][]*entities.Insert)
	for _, space := range doc.Blocks() {
		k := strings.ToUpper(space.name)
		for _, e := range space.Entities() {
			if ins, ok := e.(*entities.Insert); ok && ins.BlockName() != "" {
				target := strings.ToUpper(ins.BlockName())
				refs[k] = append(refs[k], target)
				inserts[k] = append(inserts[k], ins)
			}
		}
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int)
	var visit func(name string) bool // 返回是否在环上
	visit = func(name string) bool {
		switch color[name] {
		case gray:
			return true
		case black:
			return false
		}
		color[name] = gray
		cyclic := false
		for _, next := range refs[name] {
			if visit(next) {
				cyclic = true
			}
		}
		color[name] = black
		if cyclic {
			// 摘除本块内指向环的 INSERT
			space, ok := doc.Block(name)
			if !ok {
				return false
			}
			for _, ins := range inserts[name] {
				if color[strings.ToUpper(ins.BlockName())] != black || refsCycle(refs, ins.BlockName(), name) {
					space.Remove(ins.Handle())
					a.repaired(ins.Handle(), CyclicBlockInsert,
						"INSERT of %q in block %q forms a cycle, removed", ins.BlockName(), space.name)
				}
			}
		}
		return false
	}
	for name := range refs {
		visit(name)
	}
}

// refsCycle 判断 from 块是否可达 to 块
func refsCycle(refs map[string][]string, from, to string) bool {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	seen := make(map[string]bool)
	var walk func(name string) bool
	walk = func(name string) bool {
		if name == to {
			return true
		}
		if seen[name] {
			return false
		}
		seen[name] = true
		for _, next := range refs[name] {
			if walk(next) {
				return true
			}
		}
		return false
	}
	return walk(from)
}

// checkGeometry 零半径圆弧、零长度线段等退化几何只记录不删除：
// 格式本身容忍它们，是否剔除由下游消费方决断
func (a *auditor) checkGeometry() {
	for _, space := range a.doc.Blocks() {
		for _, e := range space.Entities() {
			switch v := e.(type) {
			case *entities.Circle:
				if v.Radius() <= 0 || xmath.Equal(v.Radius(), 0, geomEpsilon) {
					a.repaired(v.Handle(), DegenerateGeometry, "CIRCLE with zero radius, kept")
				}
			case *entities.Arc:
				if v.Radius() <= 0 || xmath.Equal(v.Radius(), 0, geomEpsilon) {
					a.repaired(v.Handle(), DegenerateGeometry, "ARC with zero radius, kept")
				}
			case *entities.Line:
				s, t := v.Start(), v.End()
				if xmath.Equal(s.X, t.X, geomEpsilon) && xmath.Equal(s.Y, t.Y, geomEpsilon) && xmath.Equal(s.Z, t.Z, geomEpsilon) {
					a.repaired(v.Handle(), DegenerateGeometry, "LINE with zero length, kept")
				}
			}
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
