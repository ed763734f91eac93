package dxfdoc

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/untillpro/goutils/logger"
	"github.com/zooyer/dxfdoc/core"
	"github.com/zooyer/dxfdoc/entities"
)

// Open 严格模式打开文件
func Open(filename string) (doc *Document, err error) {
	file, err := os.Open(filename)
	if err != nil {
		return
	}
	defer func() {
		if e := file.Close(); e != nil && err == nil {
			err = e
		}
	}()
	return Load(file)
}

// Load 严格模式装载：任何结构错误立即失败，绝不返回半成品文档
func Load(r io.Reader) (*Document, error) {
	doc, err := load(r, false)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Recover 恢复模式装载：容忍结构损坏，跳过的内容记为警告；
// 装载完成后自动运行审计器，问题汇总在返回的审计日志里。
func Recover(r io.Reader) (*Document, *AuditLog, error) {
	doc, err := load(r, true)
	if err != nil {
		return nil, nil, err
	}
	log := doc.Audit()
	for _, w := range doc.issues {
		log.append(AuditEntry{Code: LoadIssue, Severity: SeverityRepaired, Message: w.String()})
	}
	return doc, log, nil
}

// RecoverFile 恢复模式打开文件
func RecoverFile(filename string) (doc *Document, log *AuditLog, err error) {
	file, err := os.Open(filename)
	if err != nil {
		return
	}
	defer func() {
		if e := file.Close(); e != nil && err == nil {
			err = e
		}
	}()
	return Recover(file)
}

// sniffText 在文本数据头部探测 $ACADVER 与 $DWGCODEPAGE（两行一对的布局）
func sniffText(data []byte) (version core.Version, codepage string) {
	version, codepage = core.AC1009, core.DefaultCodepage
	head := data
	if len(head) > 4096 {
		head = head[:4096]
	}
	lines := strings.Split(string(head), "\n")
	for i, line := range lines {
		switch strings.TrimSpace(line) {
		case "$ACADVER":
			if i+2 < len(lines) {
				version = core.Version(strings.TrimSpace(lines[i+2]))
			}
		case "$DWGCODEPAGE":
			if i+2 < len(lines) {
				codepage = strings.TrimSpace(lines[i+2])
			}
		}
	}
	return
}

// load 两遍装载：第一遍构造全部实体入库（跨记录引用只存原始句柄），
// 第二遍在库已齐备后解析句柄、织成文档图。
func load(r io.Reader, recoverMode bool) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	// 两种变体都过编译器：二进制源的值已类型化，但坐标仍需折叠为点
	var src core.Source
	var version core.Version
	if bs, berr := core.NewBinaryScanner(data); berr == nil {
		version = bs.Version()
		src = core.NewCompiler(bs, recoverMode)
	} else {
		var codepage string
		version, codepage = sniffText(data)
		scanner := core.NewScanner(bytes.NewReader(data))
		scanner.SetRecover(recoverMode)
		compiler := core.NewCompiler(scanner, recoverMode)
		if !version.Unicode() {
			compiler.SetEncoding(core.Codepage(codepage))
		}
		src = compiler
	}
	collector := core.NewCollector(src, recoverMode)

	doc := &Document{
		Header: NewHeader(),
		DB:     NewEntityDB(),
		spaces: make(map[string]*Space),
	}
	doc.Tables = newTables(doc.DB)

	ld := &loader{doc: doc, collector: collector, version: version, recover: recoverMode}
	if err := ld.run(); err != nil {
		return nil, err
	}
	doc.issues = append(doc.issues, collector.Warnings()...)

	ld.resolve()
	return doc, nil
}

type loader struct {
	doc       *Document
	collector *core.Collector
	version   core.Version
	recover   bool
	pending   []entities.Entity   // ENTITIES 段实体，属主第二遍解析
	head      *core.TagCollection // 段装载器回退的控制记录
}

func (l *loader) issuef(format string, args ...any) {
	w := core.Warning{Message: fmt.Sprintf(format, args...)}
	l.doc.issues = append(l.doc.issues, w)
	if logger.IsVerbose() {
		logger.Verbose("dxf load:", w.Message)
	}
}

// next 读下一条记录，段装载器可通过 head 回退一条
func (l *loader) next() (*core.TagCollection, error) {
	if l.head != nil {
		tc := l.head
		l.head = nil
		return tc, nil
	}
	return l.collector.Read()
}

func (l *loader) run() error {
	for {
		tc, err := l.next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch tc.TypeName {
		case "EOF":
			return nil
		case "SECTION":
			if err := l.loadSection(tc); err != nil {
				return err
			}
		case "ENDSEC":
			// 容忍多余的段尾
		default:
			l.issuef("tag record %s outside any section skipped", tc.TypeName)
		}
	}
}

func (l *loader) loadSection(tc *core.TagCollection) error {
	name := tc.Name()
	switch strings.ToUpper(name) {
	case "HEADER":
		return l.loadHeader(tc)
	case "TABLES":
		return l.loadTables()
	case "BLOCKS":
		return l.loadBlocks()
	case "ENTITIES":
		return l.loadEntities()
	case "OBJECTS":
		return l.loadObjects()
	case "CLASSES":
		return l.loadClasses()
	default:
		return l.loadRaw(name)
	}
}

// loadHeader HEADER 段内没有 0 组码，全部 9-变量标签都收在 SECTION 记录里
func (l *loader) loadHeader(tc *core.TagCollection) error {
	l.doc.Header = parseHeader(tc.Tags)
	return nil
}

func (l *loader) loadTables() error {
	for {
		tc, err := l.next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch tc.TypeName {
		case "ENDSEC":
			return nil
		case "EOF":
			l.head = tc
			return nil
		case "TABLE":
			if err := l.loadTable(tc.Name()); err != nil {
				return err
			}
		case "ENDTAB":
			// 容忍孤立的表尾
		default:
			l.issuef("record %s outside any table skipped", tc.TypeName)
		}
	}
}

func (l *loader) loadTable(role string) error {
	table, known := l.doc.Tables.byRole(role)
	var raw []*core.TagCollection // 不认识的表整表透传
	done := func() error {
		if len(raw) > 0 {
			l.doc.extra = append(l.doc.extra, rawSection{name: "TABLES:" + role, records: raw})
		}
		return nil
	}
	for {
		tc, err := l.next()
		if err == io.EOF {
			return done()
		}
		if err != nil {
			return err
		}
		switch tc.TypeName {
		case "ENDTAB":
			return done()
		case "ENDSEC", "EOF", "TABLE":
			// 表没有正常收尾，回退控制记录交上层处理
			l.head = tc
			l.issuef("table %s without ENDTAB", role)
			return done()
		}

		if !known {
			raw = append(raw, tc)
			continue
		}
		e := entities.FromCollection(tc, l.version)
		entry, ok := e.(entities.TableEntry)
		if !ok {
			// 类型与表角色不符（如 LAYER 表里混入别的记录）
			l.issuef("unexpected record %s in table %s skipped", tc.TypeName, role)
			continue
		}
		name := entry.Name()
		if name == "" {
			l.issuef("%s table entry without name dropped", role)
			continue
		}
		if _, err := l.doc.DB.Add(entry); err != nil {
			l.issuef("%s table entry %q dropped: duplicate handle %s", role, name, entry.Handle())
			continue
		}
		if !table.allowDup && table.Has(name) {
			l.issuef("duplicate %s table entry %q dropped, first wins", role, name)
			l.doc.DB.Remove(entry.Handle())
			continue
		}
		table.link(name, entry.Handle())
	}
}

func (l *loader) loadBlocks() error {
	var space *Space
	var seq *sequenceState
	for {
		tc, err := l.next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch tc.TypeName {
		case "ENDSEC":
			return nil
		case "EOF":
			l.head = tc
			return nil
		case "BLOCK":
			e := entities.FromCollection(tc, l.version)
			block, ok := e.(*entities.Block)
			if !ok || block.Name() == "" {
				l.issuef("block without name dropped")
				space = nil
				continue
			}
			space = l.doc.ensureSpace(block.Name())
			space.block = block
			if _, err := l.doc.DB.Add(block); err != nil {
				l.issuef("block %q header: %v", block.Name(), err)
			}
		case "ENDBLK":
			if space != nil {
				if endblk, ok := entities.FromCollection(tc, l.version).(*entities.EndBlk); ok {
					space.endblk = endblk
					l.doc.DB.Add(endblk)
				}
			}
			space = nil
			seq = nil
		default:
			if space == nil {
				l.issuef("entity %s outside block definition skipped", tc.TypeName)
				continue
			}
			l.addSpaceEntity(space, tc, &seq)
		}
	}
}

// sequenceState 跟踪 POLYLINE/INSERT 之后的附属实体序列
type sequenceState struct {
	polyline *entities.Polyline
	insert   *entities.Insert
}

// addSpaceEntity 第一遍装载一个图形实体：入库、挂链、处理附属序列
func (l *loader) addSpaceEntity(space *Space, tc *core.TagCollection, seq **sequenceState) {
	e := entities.FromCollection(tc, l.version)
	if !l.placeSequenced(e, seq) {
		return
	}
	if _, err := l.doc.DB.Add(e); err != nil {
		l.issuef("entity %s dropped: %v", tc.TypeName, err)
		return
	}
	space.attach(e.Handle())
	switch v := e.(type) {
	case *entities.Polyline:
		*seq = &sequenceState{polyline: v}
	case *entities.Insert:
		if v.HasAttribs() {
			*seq = &sequenceState{insert: v}
		}
	}
}

// placeSequenced 把 VERTEX/ATTRIB/SEQEND 挂到打开的序列上。
// 返回是否继续常规入链（附属实体只入库不入空间链）。
func (l *loader) placeSequenced(e entities.Entity, seq **sequenceState) bool {
	s := *seq
	if s == nil {
		return true
	}
	switch v := e.(type) {
	case *entities.Vertex:
		if s.polyline != nil {
			l.doc.DB.Add(v)
			v.SetOwner(s.polyline.Handle())
			s.polyline.Vertices = append(s.polyline.Vertices, v)
			return false
		}
	case *entities.Attrib:
		if s.insert != nil {
			l.doc.DB.Add(v)
			v.SetOwner(s.insert.Handle())
			s.insert.Attribs = append(s.insert.Attribs, v)
			return false
		}
	case *entities.SeqEnd:
		l.doc.DB.Add(v)
		if s.polyline != nil {
			v.SetOwner(s.polyline.Handle())
			s.polyline.SeqEnd = v
		} else if s.insert != nil {
			v.SetOwner(s.insert.Handle())
			s.insert.SeqEnd = v
		}
		*seq = nil
		return false
	}
	// 序列被其他实体打断：缺 SEQEND，交审计器报告
	*seq = nil
	return true
}

func (l *loader) loadEntities() error {
	var seq *sequenceState
	for {
		tc, err := l.next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch tc.TypeName {
		case "ENDSEC":
			return nil
		case "EOF":
			l.head = tc
			return nil
		}

		e := entities.FromCollection(tc, l.version)
		if !l.placeSequenced(e, &seq) {
			continue
		}
		if _, err := l.doc.DB.Add(e); err != nil {
			l.issuef("entity %s dropped: %v", tc.TypeName, err)
			continue
		}
		l.pending = append(l.pending, e)
		switch v := e.(type) {
		case *entities.Polyline:
			seq = &sequenceState{polyline: v}
		case *entities.Insert:
			if v.HasAttribs() {
				seq = &sequenceState{insert: v}
			}
		}
	}
}

func (l *loader) loadObjects() error {
	for {
		tc, err := l.next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch tc.TypeName {
		case "ENDSEC":
			return nil
		case "EOF":
			l.head = tc
			return nil
		}
		e := entities.FromCollection(tc, l.version)
		if _, err := l.doc.DB.Add(e); err != nil {
			l.issuef("object %s dropped: %v", tc.TypeName, err)
			continue
		}
		l.doc.objects = append(l.doc.objects, e.Handle())
		if l.doc.rootDict == "" {
			if _, ok := e.(*entities.Dictionary); ok {
				// 对象段的第一个字典即根字典
				l.doc.rootDict = e.Handle()
			}
		}
	}
}

func (l *loader) loadClasses() error {
	for {
		tc, err := l.next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch tc.TypeName {
		case "ENDSEC":
			return nil
		case "EOF":
			l.head = tc
			return nil
		}
		l.doc.classes = append(l.doc.classes, core.Tag{Code: 0, Value: tc.TypeName})
		l.doc.classes = append(l.doc.classes, tc.Tags...)
	}
}

// loadRaw 不认识的段整段透传
func (l *loader) loadRaw(name string) error {
	section := rawSection{name: name}
	for {
		tc, err := l.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if tc.TypeName == "ENDSEC" {
			break
		}
		if tc.TypeName == "EOF" {
			l.head = tc
			break
		}
		section.records = append(section.records, tc)
	}
	l.doc.extra = append(l.doc.extra, section)
	return nil
}

// resolve 第二遍：库已齐备，解析全部句柄引用织成文档图。
// 次序固定：表 → 块记录 → 布局 → 图形实体属主。
func (l *loader) resolve() {
	doc := l.doc
	if seed := doc.Header.HandSeed(); seed > 0 {
		doc.DB.Seed(seed)
	}

	// 1. 块空间对齐块记录：R2000+ 按名匹配，缺失则补建；
	// 块头缺失的空间补全 BLOCK/ENDBLK 占位
	doc.ensureSpace(ModelSpaceName)
	doc.ensureSpace(PaperSpaceName)
	for _, k := range doc.spaceOrder {
		space := doc.spaces[k]
		if entry, ok := doc.Tables.BlockRecords.Get(space.name); ok {
			space.record = entry.Handle()
		} else {
			record := entities.NewBlockRecord(space.name)
			handle, err := doc.Tables.BlockRecords.Add(record)
			if err != nil {
				l.issuef("block record for %q: %v", space.name, err)
				continue
			}
			space.record = handle
		}
		if space.block == nil {
			space.block = entities.NewBlock(space.name, core.Point{})
			doc.DB.Add(space.block)
		}
		if space.endblk == nil {
			space.endblk = entities.New("ENDBLK").(*entities.EndBlk)
			doc.DB.Add(space.endblk)
		}
	}

	// 2. 布局对象挂接块空间
	for _, h := range doc.objects {
		e, ok := doc.DB.Get(h)
		if !ok {
			continue
		}
		layout, ok := e.(*entities.Layout)
		if !ok {
			continue
		}
		record := layout.BlockRecordHandle()
		if record == "" {
			// 只带一个 330 的布局：块记录引用被当作属主消费了
			record = layout.Owner()
		}
		if space, ok := doc.spaceByRecord(record); ok {
			if space.layout == "" {
				space.layout = h
			}
			continue
		}
		l.issuef("layout %q references unknown block record %s", layout.Name(), record)
	}
	// 模型空间与图纸空间必有布局对象，缺失补建
	ensureLayout := func(space *Space, name string, taborder int64) {
		if space.layout != "" {
			return
		}
		layout := entities.NewLayout(name, taborder)
		layout.SetBlockRecordHandle(space.record)
		handle, err := doc.DB.Add(layout)
		if err != nil {
			return
		}
		space.layout = handle
		doc.objects = append(doc.objects, handle)
	}
	ensureLayout(doc.Modelspace(), "Model", 0)
	ensureLayout(doc.Paperspace(), "Layout1", 1)

	// 3. ENTITIES 段实体按属主（或 67 标志）归置空间
	model := doc.Modelspace()
	paper := doc.Paperspace()
	for _, e := range l.pending {
		target := model
		if owner := e.Owner(); owner != "" {
			if space, ok := doc.spaceByRecord(owner); ok {
				target = space
			} else if inPaperspace(e) {
				target = paper
			}
		} else if inPaperspace(e) {
			target = paper
		}
		e.SetOwner(target.record)
		target.attach(e.Handle())
	}

	// 4. 块内实体统一属主为所在块记录
	for _, k := range doc.spaceOrder {
		space := doc.spaces[k]
		if space.block != nil {
			space.block.SetOwner(space.record)
		}
		if space.endblk != nil {
			space.endblk.SetOwner(space.record)
		}
		for _, h := range space.handles {
			if e, ok := doc.DB.Get(h); ok {
				e.SetOwner(space.record)
			}
		}
	}
}

// inPaperspace 按 67 组码判断图纸空间标志
func inPaperspace(e entities.Entity) bool {
	if base := e.Base(); base != nil {
		return base.InPaperspace()
	}
	if o, ok := e.(*entities.Opaque); ok {
		if t, found := o.Tags().Get(67); found {
			return t.AsInt() != 0
		}
	}
	return false
}
