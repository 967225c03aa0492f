package ltl

import (
	"fmt"
	"slices"
	"strings"
)

// Kind identifies a formula variant.
type Kind int

const (
	KindTrue Kind = iota
	KindFalse
	KindPredicate
	KindComparison
	KindAnd
	KindOr
	KindImplies
	KindNot
	KindBind
	KindEventually
	KindAlways
	KindUntil
	KindRelease
	KindRequiredNext
	KindWeakNext
	KindStrongNext
)

var kindNames = [...]string{
	KindTrue:         "true",
	KindFalse:        "false",
	KindPredicate:    "pred",
	KindComparison:   "comparison",
	KindAnd:          "and",
	KindOr:           "or",
	KindImplies:      "implies",
	KindNot:          "not",
	KindBind:         "bind",
	KindEventually:   "eventually",
	KindAlways:       "always",
	KindUntil:        "until",
	KindRelease:      "release",
	KindRequiredNext: "required-next",
	KindWeakNext:     "weak-next",
	KindStrongNext:   "strong-next",
}

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// IsNext reports whether k is one of the three next operators.
func (k Kind) IsNext() bool {
	return k == KindRequiredNext || k == KindWeakNext || k == KindStrongNext
}

// IsTemporal reports whether k is Eventually, Always, Until or Release.
func (k Kind) IsTemporal() bool {
	return k == KindEventually || k == KindAlways || k == KindUntil || k == KindRelease
}

// Formula is a node of a temporal property over states of type S.
//
// Formula is a sealed interface: only the node types of this package
// implement it. Values are immutable.
type Formula[S any] interface {
	// Kind returns the variant of the node.
	Kind() Kind

	// Tags returns a copy of the node's own blame tags, sorted.
	Tags() []string

	// String renders the formula for diagnostics.
	String() string

	ownTags() []string
	withTags(tags []string) Formula[S]
}

// node holds the fields shared by every variant.
type node struct {
	tags []string
}

func (n node) Tags() []string    { return slices.Clone(n.tags) }
func (n node) ownTags() []string { return n.tags }

type trueNode[S any] struct{ node }

type falseNode[S any] struct{ node }

type predNode[S any] struct {
	node
	name string
	fn   func(S) (bool, error)
}

type comparisonNode[S any] struct {
	node
	name string
	fn   func(S, S) (bool, error)
}

type andNode[S any] struct {
	node
	left, right Formula[S]
}

type orNode[S any] struct {
	node
	left, right Formula[S]
}

type impliesNode[S any] struct {
	node
	antecedent, consequent Formula[S]
}

type notNode[S any] struct {
	node
	term Formula[S]
}

type bindNode[S any] struct {
	node
	fn func(S) Formula[S]
}

type eventuallyNode[S any] struct {
	node
	term   Formula[S]
	budget int
}

type alwaysNode[S any] struct {
	node
	term   Formula[S]
	budget int
}

type untilNode[S any] struct {
	node
	condition, term Formula[S]
	budget          int
}

type releaseNode[S any] struct {
	node
	condition, term Formula[S]
	budget          int
}

// nextNode covers RequiredNext, WeakNext and StrongNext; kind selects the
// verdict used when the trace ends before the obligation is consumed.
type nextNode[S any] struct {
	node
	kind Kind
	term Formula[S]
}

func (trueNode[S]) Kind() Kind       { return KindTrue }
func (falseNode[S]) Kind() Kind      { return KindFalse }
func (predNode[S]) Kind() Kind       { return KindPredicate }
func (comparisonNode[S]) Kind() Kind { return KindComparison }
func (andNode[S]) Kind() Kind        { return KindAnd }
func (orNode[S]) Kind() Kind         { return KindOr }
func (impliesNode[S]) Kind() Kind    { return KindImplies }
func (notNode[S]) Kind() Kind        { return KindNot }
func (bindNode[S]) Kind() Kind       { return KindBind }
func (eventuallyNode[S]) Kind() Kind { return KindEventually }
func (alwaysNode[S]) Kind() Kind     { return KindAlways }
func (untilNode[S]) Kind() Kind      { return KindUntil }
func (releaseNode[S]) Kind() Kind    { return KindRelease }
func (n nextNode[S]) Kind() Kind     { return n.kind }

// withTags implementations operate on value copies; mergeTags always
// allocates, so the receiver's tag slice is never shared with the result.

func (n trueNode[S]) withTags(t []string) Formula[S] {
	n.tags = mergeTags(n.tags, t)
	return n
}

func (n falseNode[S]) withTags(t []string) Formula[S] {
	n.tags = mergeTags(n.tags, t)
	return n
}

func (n predNode[S]) withTags(t []string) Formula[S] {
	n.tags = mergeTags(n.tags, t)
	return n
}

func (n comparisonNode[S]) withTags(t []string) Formula[S] {
	n.tags = mergeTags(n.tags, t)
	return n
}

func (n andNode[S]) withTags(t []string) Formula[S] {
	n.tags = mergeTags(n.tags, t)
	return n
}

func (n orNode[S]) withTags(t []string) Formula[S] {
	n.tags = mergeTags(n.tags, t)
	return n
}

func (n impliesNode[S]) withTags(t []string) Formula[S] {
	n.tags = mergeTags(n.tags, t)
	return n
}

func (n notNode[S]) withTags(t []string) Formula[S] {
	n.tags = mergeTags(n.tags, t)
	return n
}

func (n bindNode[S]) withTags(t []string) Formula[S] {
	n.tags = mergeTags(n.tags, t)
	return n
}

func (n eventuallyNode[S]) withTags(t []string) Formula[S] {
	n.tags = mergeTags(n.tags, t)
	return n
}

func (n alwaysNode[S]) withTags(t []string) Formula[S] {
	n.tags = mergeTags(n.tags, t)
	return n
}

func (n untilNode[S]) withTags(t []string) Formula[S] {
	n.tags = mergeTags(n.tags, t)
	return n
}

func (n releaseNode[S]) withTags(t []string) Formula[S] {
	n.tags = mergeTags(n.tags, t)
	return n
}

func (n nextNode[S]) withTags(t []string) Formula[S] {
	n.tags = mergeTags(n.tags, t)
	return n
}

func (n trueNode[S]) String() string  { return withTagSuffix("true", n.tags) }
func (n falseNode[S]) String() string { return withTagSuffix("false", n.tags) }

func (n predNode[S]) String() string {
	return withTagSuffix(n.name, n.tags)
}

func (n comparisonNode[S]) String() string {
	return withTagSuffix(n.name, n.tags)
}

func (n andNode[S]) String() string {
	return withTagSuffix(fmt.Sprintf("(%s && %s)", n.left, n.right), n.tags)
}

func (n orNode[S]) String() string {
	return withTagSuffix(fmt.Sprintf("(%s || %s)", n.left, n.right), n.tags)
}

func (n impliesNode[S]) String() string {
	return withTagSuffix(fmt.Sprintf("(%s -> %s)", n.antecedent, n.consequent), n.tags)
}

func (n notNode[S]) String() string {
	return withTagSuffix(fmt.Sprintf("!%s", n.term), n.tags)
}

func (n bindNode[S]) String() string {
	return withTagSuffix("bind(...)", n.tags)
}

func (n eventuallyNode[S]) String() string {
	return withTagSuffix(fmt.Sprintf("eventually[%d](%s)", n.budget, n.term), n.tags)
}

func (n alwaysNode[S]) String() string {
	return withTagSuffix(fmt.Sprintf("always[%d](%s)", n.budget, n.term), n.tags)
}

func (n untilNode[S]) String() string {
	return withTagSuffix(fmt.Sprintf("until[%d](%s, %s)", n.budget, n.condition, n.term), n.tags)
}

func (n releaseNode[S]) String() string {
	return withTagSuffix(fmt.Sprintf("release[%d](%s, %s)", n.budget, n.condition, n.term), n.tags)
}

func (n nextNode[S]) String() string {
	return withTagSuffix(fmt.Sprintf("%s(%s)", n.kind, n.term), n.tags)
}

func withTagSuffix(body string, tags []string) string {
	if len(tags) == 0 {
		return body
	}
	return body + "#" + strings.Join(tags, "#")
}
