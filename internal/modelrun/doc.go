// Package modelrun checks temporal properties over model-based tests.
//
// A test defines a model type M, a system under test R and a set of
// Commands. Run draws random command sequences with rapid, keeps the
// model in step with the system, and monitors the sequence of models
// against an ltl.Formula[M]:
//
//	modelrun.Run(t, setup, []modelrun.Command[Player, *Device]{play{}, pause{}, wait{}},
//		ltl.Always(ltl.Tag("paused-is-still", ltl.Implies(paused, ltl.Unchanged(...))), 1))
//
// Execute replays one fixed sequence, which is how a shrunk failure is
// turned into a regression test.
package modelrun
