// Package harness checks recorded traces against temporal properties
// described in YAML scenario files.
//
// # Scenario Format
//
//	name: cart_total_settles
//	description: the cart total is eventually recomputed after every change
//	props:
//	  settled: 'dirty: false'
//	relations:
//	  grows: 'next: total: >=prev.total'
//	formula:
//	  always:
//	    budget: 3
//	    term:
//	      and:
//	        - tag: {label: monotonic, term: {relation: grows}}
//	        - eventually: {budget: 1, term: {prop: settled}}
//	trace:
//	  - {total: 0, dirty: false}
//	  - {total: 5, dirty: true}
//	  - {total: 5, dirty: false}
//	expect:
//	  verdict: probably-true
//
// Props are CUE constraints over one state and relations are constraints
// over prev and next (see package cueprop). The formula is a tree of
// operator nodes that maps one-to-one onto the ltl constructors; see Node
// for the full list. States are JSON objects without floats, given inline
// or in a trace_file (.jsonl or .yaml).
//
// # Results
//
// Run streams the trace through an ltl.Monitor and records the partial
// verdict after every state, then re-evaluates the trace in one batch and
// fails if the two verdicts differ. Expectations compare the final
// verdict, its blame tags, the per-step verdicts, or the evaluation error
// a run must stop with.
//
// # Golden Files
//
// VerdictTrace renders a result as canonical JSON including each state's
// content hash; RunWithGolden and AssertGolden compare it against
// testdata/golden/{name}.golden with goldie. The check command uses
// CheckGoldenFile for the same comparison outside tests.
package harness
