package semantic

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/domainlens/domainlens/pkg/model"
)

// clean trims the quoting and whitespace tree-sitter leaves on identifier
// and string-literal text.
func clean(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`+"`")
	return s
}

func (w *walker) emitClass(n *sitter.Node, f *model.ParsedFile, sc scope) {
	name := classificationName(n, f)
	if name == "" {
		return
	}
	info := w.result.Classes[name]
	if info == nil {
		info = &ClassInfo{Name: name, File: f.Path, Span: span(n)}
		w.result.Classes[name] = info
	}

	w.addNode(model.SemanticNode{
		Kind:      model.KindClass,
		FilePath:  f.Path,
		Symbol:    name,
		Span:      span(n),
		Ref:       n,
		Enclosing: sc.enclosing(),
		Class:     name,
	})
}

func (w *walker) emitMethod(n *sitter.Node, f *model.ParsedFile, sc scope, nextScope *scope) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := clean(nameNode.Utf8Text(f.Source))

	nextScope.method = name
	// class stays as inherited from sc (the enclosing class_body walk already
	// set nextScope.class when descending from class_declaration)

	if sc.class != "" {
		if info := w.result.Classes[sc.class]; info != nil {
			info.Methods = append(info.Methods, name)
		}
	}

	isPublic := isPublicMethod(n, f)

	w.addNode(model.SemanticNode{
		Kind:      model.KindMethod,
		FilePath:  f.Path,
		Symbol:    name,
		Type:      boolToVisibility(isPublic),
		Span:      span(n),
		Ref:       n,
		Enclosing: sc.enclosing(),
		Class:     sc.class,
		Method:    name,
	})
}

func boolToVisibility(public bool) string {
	if public {
		return "public"
	}
	return "private"
}

// isPublicMethod treats a method as public unless it carries an explicit
// "private" or "protected" accessibility modifier token — an unscoped
// method (the common case in JS, and TS's default) is public.
func isPublicMethod(n *sitter.Node, f *model.ParsedFile) bool {
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		text := clean(child.Utf8Text(f.Source))
		if text == "private" || text == "protected" {
			return false
		}
	}
	return true
}

func (w *walker) emitProperty(n *sitter.Node, f *model.ParsedFile, sc scope) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		nameNode = n.ChildByFieldName("property")
	}
	if nameNode == nil {
		return
	}
	name := clean(nameNode.Utf8Text(f.Source))

	readonly := false
	typeText := ""
	if typeNode := n.ChildByFieldName("type"); typeNode != nil {
		typeText = clean(typeNode.Utf8Text(f.Source))
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		if clean(n.Child(i).Utf8Text(f.Source)) == "readonly" {
			readonly = true
		}
	}

	isEnum := false
	if typeText != "" {
		bare := strings.TrimSuffix(strings.TrimPrefix(typeText, ":"), "")
		bare = strings.TrimSpace(bare)
		if w.result.EnumNames[bare] {
			isEnum = true
		}
	}

	if sc.class != "" {
		if info := w.result.Classes[sc.class]; info != nil {
			info.Properties = append(info.Properties, PropertyInfo{
				Name:     name,
				Readonly: readonly,
				Type:     typeText,
				IsEnum:   isEnum,
			})
		}
	}

	w.addNode(model.SemanticNode{
		Kind:      model.KindProperty,
		FilePath:  f.Path,
		Symbol:    name,
		Type:      typeText,
		Span:      span(n),
		Ref:       n,
		Enclosing: sc.enclosing(),
		Class:     sc.class,
	})
}

func (w *walker) emitImport(n *sitter.Node, f *model.ParsedFile, sc scope) {
	srcNode := n.ChildByFieldName("source")
	spec := ""
	if srcNode != nil {
		spec = clean(srcNode.Utf8Text(f.Source))
	}
	w.addNode(model.SemanticNode{
		Kind:      model.KindImport,
		FilePath:  f.Path,
		Symbol:    spec,
		Span:      span(n),
		Ref:       n,
		Enclosing: sc.enclosing(),
		Class:     sc.class,
		Method:    sc.method,
	})
}

func (w *walker) emitCall(n *sitter.Node, f *model.ParsedFile, sc scope) {
	fnNode := n.ChildByFieldName("function")
	callee := ""
	if fnNode != nil {
		callee = clean(fnNode.Utf8Text(f.Source))
	}
	enclosing := sc.enclosing()

	w.addNode(model.SemanticNode{
		Kind:      model.KindCall,
		FilePath:  f.Path,
		Symbol:    callee,
		Span:      span(n),
		Ref:       n,
		Enclosing: enclosing,
		Class:     sc.class,
		Method:    sc.method,
	})

	if callee != "" {
		w.addEdge(enclosing, callee)
	}
}

// binaryOperator returns the operator token of a binary-shaped node: the
// grammar exposes left/right as named fields but the operator itself as the
// unnamed middle child, so this takes the conservative middle-child read
// rather than assuming a named "operator" field exists on every grammar
// version.
func binaryOperator(n *sitter.Node, source []byte) string {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	for i := uint(0); i < n.ChildCount(); i++ {
		c := n.Child(i)
		// Child and ChildByFieldName return a fresh *sitter.Node on every
		// call, so the operands are matched by byte range, not by pointer.
		if (left != nil && c.StartByte() == left.StartByte() && c.EndByte() == left.EndByte()) ||
			(right != nil && c.StartByte() == right.StartByte() && c.EndByte() == right.EndByte()) {
			continue
		}
		return clean(c.Utf8Text(source))
	}
	return ""
}

func (w *walker) emitBinary(n *sitter.Node, f *model.ParsedFile, sc scope) {
	w.addNode(model.SemanticNode{
		Kind:      model.KindBinary,
		FilePath:  f.Path,
		Symbol:    binaryOperator(n, f.Source),
		Span:      span(n),
		Ref:       n,
		Enclosing: sc.enclosing(),
		Class:     sc.class,
		Method:    sc.method,
	})
}

func (w *walker) emitIf(n *sitter.Node, f *model.ParsedFile, sc scope) {
	w.addNode(model.SemanticNode{
		Kind:      model.KindIf,
		FilePath:  f.Path,
		Span:      span(n),
		Ref:       n,
		Enclosing: sc.enclosing(),
		Class:     sc.class,
		Method:    sc.method,
	})
}

func (w *walker) emitThrow(n *sitter.Node, f *model.ParsedFile, sc scope) {
	w.addNode(model.SemanticNode{
		Kind:      model.KindThrow,
		FilePath:  f.Path,
		Span:      span(n),
		Ref:       n,
		Enclosing: sc.enclosing(),
		Class:     sc.class,
		Method:    sc.method,
	})
}

func (w *walker) emitReturn(n *sitter.Node, f *model.ParsedFile, sc scope) {
	w.addNode(model.SemanticNode{
		Kind:      model.KindReturn,
		FilePath:  f.Path,
		Span:      span(n),
		Ref:       n,
		Enclosing: sc.enclosing(),
		Class:     sc.class,
		Method:    sc.method,
	})
}

func (w *walker) emitNew(n *sitter.Node, f *model.ParsedFile, sc scope) {
	ctor := n.ChildByFieldName("constructor")
	name := ""
	if ctor != nil {
		name = clean(ctor.Utf8Text(f.Source))
	}
	w.addNode(model.SemanticNode{
		Kind:      model.KindNew,
		FilePath:  f.Path,
		Symbol:    name,
		Span:      span(n),
		Ref:       n,
		Enclosing: sc.enclosing(),
		Class:     sc.class,
		Method:    sc.method,
	})
}
