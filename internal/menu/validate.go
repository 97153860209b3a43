package menu

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Result holds validation findings in document order.
// Errors block rendering; warnings are advisory.
type Result struct {
	Errors   []string
	Warnings []string
	Findings []Finding // errors and warnings together, in document order
}

// Severity ranks a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Rule identifies the structural rule a finding comes from.
type Rule string

const (
	RuleEmptyDocument      Rule = "empty-document"
	RuleEmptyRoot          Rule = "empty-root"
	RuleRootElement        Rule = "root-element"
	RuleNestedRoot         Rule = "nested-root"
	RuleUnknownElement     Rule = "unknown-element"
	RuleDeprecated         Rule = "deprecated-element"
	RuleLeafChildren       Rule = "leaf-children"
	RuleMissingAttribute   Rule = "missing-attribute"
	RuleEmptyAttribute     Rule = "empty-attribute"
	RuleUnknownAttribute   Rule = "unknown-attribute"
	RuleDuplicateID        Rule = "duplicate-id"
	RuleRefresh            Rule = "invalid-refresh"
	RuleAction             Rule = "invalid-action"
	RuleUndefinedReference Rule = "undefined-reference"
	RuleReferenceNotGroup  Rule = "reference-not-group"
)

// Finding is one validation message with its location.
type Finding struct {
	Severity Severity
	Rule     Rule
	Line     int    // 0 when the finding has no source position
	Tag      string // element the finding is about
	Message  string // without the line prefix
}

// String renders the finding the way Errors and Warnings hold it.
func (f Finding) String() string {
	if f.Line == 0 {
		return f.Message
	}
	return fmt.Sprintf("line %d: %s", f.Line, f.Message)
}

// OK reports whether the document has no errors.
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

// validator accumulates findings during a single pass over the tree.
type validator struct {
	result Result
	ids    map[string]*Node
	refs   []reference
}

// reference is a goto action waiting for id resolution.
type reference struct {
	from   *Node
	target string
}

// Validate checks the structural rules of a parsed document.
func Validate(doc *Document) Result {
	v := &validator{ids: make(map[string]*Node)}

	if doc == nil || doc.Root == nil {
		v.errorf(nil, RuleEmptyDocument, "document is empty")
		return v.result
	}

	root := doc.Root
	if len(root.Children) == 0 {
		v.warnf(root, RuleEmptyRoot, "<%s> has no entries, nothing will be shown", root.Tag)
	}
	if strings.EqualFold(root.Tag, RootTag) {
		v.visit(root, true)
	} else {
		v.errorf(root, RuleRootElement, "root element must be <%s>, got <%s>", RootTag, root.Tag)
		for _, child := range root.Children {
			v.visit(child, false)
		}
	}
	v.resolveReferences()
	return v.result
}

// visit dispatches on the node tag and recurses into children.
func (v *validator) visit(n *Node, isRoot bool) {
	rule, known := elements[strings.ToLower(n.Tag)]
	if !known {
		v.errorf(n, RuleUnknownElement, "unknown element <%s>", n.Tag)
		return
	}

	if rule.kind == KindRoot && !isRoot {
		v.errorf(n, RuleNestedRoot, "<%s> may only appear as the document root", n.Tag)
		return
	}
	if rule.deprecated != "" {
		v.warnf(n, RuleDeprecated, "<%s> is deprecated, use <%s>", n.Tag, rule.deprecated)
	}

	v.checkAttributes(n, rule)

	switch rule.kind {
	case KindButton:
		v.checkAction(n, "action")
	case KindToggle:
		v.checkAction(n, "action_on")
		v.checkAction(n, "action_off")
	}

	if len(n.Children) > 0 && !rule.container {
		v.warnf(n, RuleLeafChildren, "<%s> cannot contain elements, %d child element(s) ignored", n.Tag, len(n.Children))
		return
	}
	for _, child := range n.Children {
		v.visit(child, false)
	}
}

// checkAttributes verifies required, optional and id attributes.
func (v *validator) checkAttributes(n *Node, rule elementRule) {
	for _, name := range rule.required {
		value, ok := n.Attr(name)
		if !ok {
			v.errorf(n, RuleMissingAttribute, "<%s> missing required attribute %q", n.Tag, name)
			continue
		}
		if strings.TrimSpace(value) == "" {
			v.errorf(n, RuleEmptyAttribute, "<%s> attribute %q must not be empty", n.Tag, name)
		}
	}

	for _, attr := range n.Attrs {
		if !slices.Contains(rule.required, attr.Name) && !slices.Contains(rule.optional, attr.Name) {
			v.warnf(n, RuleUnknownAttribute, "<%s> has unknown attribute %q", n.Tag, attr.Name)
		}
	}

	if id, ok := n.Attr("id"); ok {
		switch {
		case strings.TrimSpace(id) == "":
			v.errorf(n, RuleEmptyAttribute, "<%s> attribute \"id\" must not be empty", n.Tag)
		case v.ids[id] != nil:
			v.errorf(n, RuleDuplicateID, "duplicate id %q (first defined on line %d)", id, v.ids[id].Line)
		default:
			v.ids[id] = n
		}
	}

	if refresh, ok := n.Attr("refresh"); ok && slices.Contains(rule.optional, "refresh") {
		if secs, err := strconv.Atoi(strings.TrimSpace(refresh)); err != nil || secs <= 0 {
			v.errorf(n, RuleRefresh, "<%s> attribute \"refresh\" must be a positive number of seconds, got %q", n.Tag, refresh)
		}
	}
}

// checkAction parses an action attribute and records goto references.
func (v *validator) checkAction(n *Node, attr string) {
	value, ok := n.Attr(attr)
	if !ok || strings.TrimSpace(value) == "" {
		// Already reported as a missing required attribute.
		return
	}
	action, err := ParseAction(value)
	if err != nil {
		v.errorf(n, RuleAction, "<%s> attribute %q: %v", n.Tag, attr, err)
		return
	}
	if action.Kind == ActionGoto {
		v.refs = append(v.refs, reference{from: n, target: action.Target})
	}
}

// resolveReferences checks every goto target once all ids are known.
func (v *validator) resolveReferences() {
	for _, ref := range v.refs {
		target, ok := v.ids[ref.target]
		switch {
		case !ok:
			v.errorf(ref.from, RuleUndefinedReference, "<%s> references undefined id %q", ref.from.Tag, ref.target)
		case !target.IsGroup():
			v.errorf(ref.from, RuleReferenceNotGroup, "<%s> references %q which is a <%s>, not a group", ref.from.Tag, ref.target, target.Tag)
		}
	}
}

func (v *validator) errorf(n *Node, rule Rule, format string, args ...any) {
	f := v.finding(n, SeverityError, rule, fmt.Sprintf(format, args...))
	v.result.Errors = append(v.result.Errors, f.String())
}

func (v *validator) warnf(n *Node, rule Rule, format string, args ...any) {
	f := v.finding(n, SeverityWarning, rule, fmt.Sprintf(format, args...))
	v.result.Warnings = append(v.result.Warnings, f.String())
}

func (v *validator) finding(n *Node, severity Severity, rule Rule, msg string) Finding {
	f := Finding{Severity: severity, Rule: rule, Message: msg}
	if n != nil {
		f.Line = n.Line
		f.Tag = n.Tag
	}
	v.result.Findings = append(v.result.Findings, f)
	return f
}
