package dxfdoc

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/zooyer/dxfdoc/core"
	"github.com/zooyer/dxfdoc/entities"
)

// 实体查询语言：类型名列表加可选的属性过滤，
// 如 `LINE CIRCLE[layer=='0' & color!=256]`，`*` 匹配全部类型。
// 比较符 == != < <= > >=，=~ 为正则匹配，& | 组合，括号分组。

var queryLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `'[^']*'|"[^"]*"`},
	{Name: "Number", Pattern: `[-+]?(\d*\.)?\d+`},
	{Name: "Ident", Pattern: `[a-zA-Z_*][a-zA-Z0-9_]*`},
	{Name: "Op", Pattern: `==|!=|=~|<=|>=|<|>`},
	{Name: "Punct", Pattern: `[\[\]()&|]`},
	{Name: "Whitespace", Pattern: `[ \r\n\t]+`},
})

type queryAST struct {
	Names  []string   `parser:"@Ident+"`
	Filter *queryExpr `parser:"('[' @@ ']')?"`
}

type queryExpr struct {
	Left  *queryAnd   `parser:"@@"`
	Right []*queryAnd `parser:"('|' @@)*"`
}

type queryAnd struct {
	Left  *queryTerm   `parser:"@@"`
	Right []*queryTerm `parser:"('&' @@)*"`
}

type queryTerm struct {
	Paren *queryExpr `parser:"'(' @@ ')'"`
	Cmp   *queryCmp  `parser:"| @@"`
}

type queryCmp struct {
	Attr  string     `parser:"@Ident"`
	Op    string     `parser:"@Op"`
	Value queryValue `parser:"@@"`
}

type queryValue struct {
	Str *string  `parser:"@String"`
	Num *float64 `parser:"| @Number"`
}

var queryParser = participle.MustBuild[queryAST](
	participle.Lexer(queryLexer),
	participle.Elide("Whitespace"),
)

// Query 编译后的实体查询，可对任意实体序列复用
type Query struct {
	ast     *queryAST
	names   map[string]bool
	all     bool
	regexps map[string]*regexp.Regexp
}

// ParseQuery 编译查询表达式
func ParseQuery(s string) (*Query, error) {
	ast, err := queryParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("dxf: invalid query %q: %w", s, err)
	}
	q := &Query{
		ast:     ast,
		names:   make(map[string]bool),
		regexps: make(map[string]*regexp.Regexp),
	}
	for _, name := range ast.Names {
		if name == "*" {
			q.all = true
			continue
		}
		q.names[strings.ToUpper(name)] = true
	}
	if err := q.compileRegexps(ast.Filter); err != nil {
		return nil, err
	}
	return q, nil
}

// compileRegexps 预编译过滤器里的全部正则，坏模式在解析期报错
func (q *Query) compileRegexps(e *queryExpr) error {
	if e == nil {
		return nil
	}
	ands := append([]*queryAnd{e.Left}, e.Right...)
	for _, and := range ands {
		terms := append([]*queryTerm{and.Left}, and.Right...)
		for _, term := range terms {
			if term.Paren != nil {
				if err := q.compileRegexps(term.Paren); err != nil {
					return err
				}
				continue
			}
			if term.Cmp != nil && term.Cmp.Op == "=~" && term.Cmp.Value.Str != nil {
				pattern := unquote(*term.Cmp.Value.Str)
				re, err := regexp.Compile(pattern)
				if err != nil {
					return fmt.Errorf("dxf: invalid query regexp %q: %w", pattern, err)
				}
				q.regexps[pattern] = re
			}
		}
	}
	return nil
}

// Match 判断实体是否满足查询
func (q *Query) Match(e entities.Entity) bool {
	if !q.all && !q.names[e.Type()] {
		return false
	}
	if q.ast.Filter == nil {
		return true
	}
	return q.evalExpr(q.ast.Filter, e)
}

// Filter 过滤实体序列，保持输入顺序
func (q *Query) Filter(in []entities.Entity) (out []entities.Entity) {
	for _, e := range in {
		if q.Match(e) {
			out = append(out, e)
		}
	}
	return
}

func (q *Query) evalExpr(e *queryExpr, entity entities.Entity) bool {
	if q.evalAnd(e.Left, entity) {
		return true
	}
	for _, and := range e.Right {
		if q.evalAnd(and, entity) {
			return true
		}
	}
	return false
}

func (q *Query) evalAnd(a *queryAnd, entity entities.Entity) bool {
	if !q.evalTerm(a.Left, entity) {
		return false
	}
	for _, term := range a.Right {
		if !q.evalTerm(term, entity) {
			return false
		}
	}
	return true
}

func (q *Query) evalTerm(t *queryTerm, entity entities.Entity) bool {
	if t.Paren != nil {
		return q.evalExpr(t.Paren, entity)
	}
	return q.evalCmp(t.Cmp, entity)
}

func (q *Query) evalCmp(c *queryCmp, entity entities.Entity) bool {
	v, ok := queryAttr(entity, c.Attr)
	if !ok {
		return false
	}
	if c.Value.Str != nil {
		s := core.Tag{Value: v}.AsString()
		want := unquote(*c.Value.Str)
		switch c.Op {
		case "==":
			return s == want
		case "!=":
			return s != want
		case "=~":
			if re := q.regexps[want]; re != nil {
				return re.MatchString(s)
			}
			return false
		}
		return false
	}
	if c.Value.Num == nil {
		return false
	}
	n := core.Tag{Value: v}.AsFloat()
	want := *c.Value.Num
	switch c.Op {
	case "==":
		return n == want
	case "!=":
		return n != want
	case "<":
		return n < want
	case "<=":
		return n <= want
	case ">":
		return n > want
	case ">=":
		return n >= want
	}
	return false
}

// queryAttr 按名取实体属性值：句柄与属主是固有属性，
// 其余按模式声明的属性名查找
func queryAttr(e entities.Entity, name string) (any, bool) {
	switch strings.ToLower(name) {
	case "handle":
		return e.Handle(), true
	case "owner":
		return e.Owner(), true
	}
	schema := e.Schema()
	if schema == nil {
		return nil, false
	}
	for _, attr := range schema.Attrs {
		if attr.Name == strings.ToLower(name) {
			return e.Base().Get(attr.Code), true
		}
	}
	return nil, false
}

func unquote(s string) string {
	if len(s) >= 2 {
		if c := s[0]; (c == '\'' || c == '"') && s[len(s)-1] == c {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// Query 在空间内查询实体
func (s *Space) Query(query string) ([]entities.Entity, error) {
	q, err := ParseQuery(query)
	if err != nil {
		return nil, err
	}
	return q.Filter(s.Entities()), nil
}

// Query 在全部空间内查询图形实体，模型空间在前
func (d *Document) Query(query string) ([]entities.Entity, error) {
	q, err := ParseQuery(query)
	if err != nil {
		return nil, err
	}
	var out []entities.Entity
	for _, space := range d.Blocks() {
		out = append(out, q.Filter(space.Entities())...)
	}
	return out, nil
}
