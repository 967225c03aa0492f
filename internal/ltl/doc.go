// Package ltl implements runtime verification of linear-temporal
// properties over finite traces of application states.
//
// A property is a Formula built once from constructors (Pred, And,
// Always, Until, Comparison, ...). Evaluation is progression: Step rewrites
// a formula against one state into a residual formula describing the
// obligation on the remainder of the trace. Every residual is either
// determined (True or False) or guarded (an obligation wrapped in one of
// the three next operators, possibly combined through And/Or/Implies/Not).
// Guarded residuals consume later states through StepResidual.
//
// # Four-valued verdicts
//
// Test traces are finite prefixes of conceptually infinite executions, so
// a verdict distinguishes "proven so far" from "not yet disproven":
//
//	DefinitelyTrue   the residual reduced to True
//	ProbablyTrue     the trace ended on a weak or required next obligation
//	ProbablyFalse    the trace ended on a strong next obligation
//	DefinitelyFalse  the residual reduced to False
//
// # Budgets
//
// Eventually, Always, Until and Release carry an integer budget. The budget
// is a recursion-safety counter, NOT a temporal deadline: Eventually(p, 3)
// does not mean "p within 3 states". While the budget is positive the
// continuation is a RequiredNext obligation (RequiresNext reports true and
// RequiredSteps accounts for it); once it reaches zero the operator falls
// back to its unbounded strong (Eventually, Until) or weak (Always, Release)
// form.
//
// # Blame tags
//
// Tag attaches diagnostic labels to a node. Labels never affect truth
// values; they are propagated to the verdict only from the branches that
// are responsible for a false outcome. Tagging returns a new node, so a
// tagged sub-formula can be shared between parents.
//
// # Evaluators
//
// Evaluate and EvaluateTrace fold a complete trace. Monitor is the
// resumable form: Start seeds it with the initial state, Next supplies one
// further state at a time, and once the verdict is determined further
// states are accepted and ignored. A Monitor belongs to a single consumer.
//
// Formulas are immutable and safe to share between goroutines. States are
// opaque to this package except for the dotted-path comparisons
// (UnchangedPaths, ChangedPaths), which resolve paths by reflection or
// through the PathResolver interface.
package ltl
