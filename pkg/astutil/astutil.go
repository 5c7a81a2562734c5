// Package astutil holds small tree-sitter node inspection helpers shared by
// the domain model builder and the business rule engine. Nothing here
// depends on model, semantic, or domain — it operates on raw *sitter.Node.
package astutil

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// CompoundAssignOps is the set of operator tokens that count as a state
// assignment: plain "=" plus every arithmetic compound form.
var CompoundAssignOps = map[string]bool{"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true}

// ArithmeticOps is the set of operator tokens that count as arithmetic.
var ArithmeticOps = map[string]bool{"+": true, "-": true, "*": true, "/": true, "%": true}

// Clean trims the quoting and whitespace tree-sitter leaves on identifier
// and string-literal text.
func Clean(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`+"`")
	return s
}

// ThisFieldAssignment recognizes `this.<field> <op>= <expr>` shapes for both
// assignment_expression (=) and augmented_assignment_expression (+=, -=, ...).
func ThisFieldAssignment(n *sitter.Node, source []byte) (field, op string, ok bool) {
	if n.Kind() != "assignment_expression" && n.Kind() != "augmented_assignment_expression" {
		return "", "", false
	}
	left := n.ChildByFieldName("left")
	if left == nil || left.Kind() != "member_expression" {
		return "", "", false
	}
	obj := left.ChildByFieldName("object")
	prop := left.ChildByFieldName("property")
	if obj == nil || prop == nil {
		return "", "", false
	}
	if obj.Kind() != "this" {
		return "", "", false
	}
	op = BinaryOperator(n, source)
	return Clean(prop.Utf8Text(source)), op, op != ""
}

// BinaryOperator resolves the operator token of a binary-shaped node: "="
// for a plain assignment_expression, otherwise the token exposed as the
// unnamed child between the left and right fields.
func BinaryOperator(n *sitter.Node, source []byte) string {
	if n.Kind() == "assignment_expression" {
		return "="
	}
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
		return Clean(c.Utf8Text(source))
	}
	return ""
}

// InsideConditional walks up from n looking for an enclosing if_statement
// before hitting the enclosing method or function body.
func InsideConditional(n *sitter.Node) bool {
	cur := n.Parent()
	for cur != nil {
		switch cur.Kind() {
		case "if_statement":
			return true
		case "method_definition", "function_declaration":
			return false
		}
		cur = cur.Parent()
	}
	return false
}

// ContainsKind reports whether n or any descendant has the given AST kind.
func ContainsKind(n *sitter.Node, kind string) bool {
	if n == nil {
		return false
	}
	if n.Kind() == kind {
		return true
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		if ContainsKind(n.Child(i), kind) {
			return true
		}
	}
	return false
}

// ContainsNumericLiteral reports whether n or any descendant is a numeric
// literal token.
func ContainsNumericLiteral(n *sitter.Node) bool {
	return ContainsKind(n, "number")
}

// ContainsThisProperty reports whether n or any descendant reads a
// `this.<name>` member access.
func ContainsThisProperty(n *sitter.Node) bool {
	if n == nil {
		return false
	}
	if n.Kind() == "member_expression" {
		if obj := n.ChildByFieldName("object"); obj != nil && obj.Kind() == "this" {
			return true
		}
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		if ContainsThisProperty(n.Child(i)) {
			return true
		}
	}
	return false
}

// Identifiers collects the text of every identifier/property_identifier
// token under n, in source order. Used only for the deliberately stringy
// signals (feature-flag and status-like naming conventions) that the AST
// shape alone cannot express.
func Identifiers(n *sitter.Node, source []byte) []string {
	var out []string
	var walk func(*sitter.Node)
	walk = func(cur *sitter.Node) {
		switch cur.Kind() {
		case "identifier", "property_identifier", "shorthand_property_identifier":
			out = append(out, Clean(cur.Utf8Text(source)))
		}
		for i := uint(0); i < cur.ChildCount(); i++ {
			walk(cur.Child(i))
		}
	}
	if n != nil {
		walk(n)
	}
	return out
}

// MentionsDateTime reports whether n contains `new Date(...)` or a
// `Date.now`/`Date.<anything>` member access.
func MentionsDateTime(n *sitter.Node, source []byte) bool {
	found := false
	var walk func(*sitter.Node)
	walk = func(cur *sitter.Node) {
		if found || cur == nil {
			return
		}
		switch cur.Kind() {
		case "new_expression":
			if ctor := cur.ChildByFieldName("constructor"); ctor != nil && Clean(ctor.Utf8Text(source)) == "Date" {
				found = true
				return
			}
		case "member_expression":
			if obj := cur.ChildByFieldName("object"); obj != nil && Clean(obj.Utf8Text(source)) == "Date" {
				found = true
				return
			}
		}
		for i := uint(0); i < cur.ChildCount(); i++ {
			walk(cur.Child(i))
		}
	}
	walk(n)
	return found
}

// MentionsProcessEnv reports whether n reads `process.env`.
func MentionsProcessEnv(n *sitter.Node, source []byte) bool {
	found := false
	var walk func(*sitter.Node)
	walk = func(cur *sitter.Node) {
		if found || cur == nil {
			return
		}
		if cur.Kind() == "member_expression" {
			if obj := cur.ChildByFieldName("object"); obj != nil && Clean(obj.Utf8Text(source)) == "process" {
				if prop := cur.ChildByFieldName("property"); prop != nil && Clean(prop.Utf8Text(source)) == "env" {
					found = true
					return
				}
			}
		}
		for i := uint(0); i < cur.ChildCount(); i++ {
			walk(cur.Child(i))
		}
	}
	walk(n)
	return found
}
