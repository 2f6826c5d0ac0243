// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator drives duet programs to completion.
//
// A Duet runs two cores of the same program under a deterministic,
// cooperative, strictly alternating scheduler, connected by two crossed
// message queues, and terminates on halt or mutual deadlock. A Solo runs
// one core under the legacy recover semantics of 'rcv'.
package emulator

import (
	"iter"
	"log"

	"github.com/ezrec/duet/channel"
	"github.com/ezrec/duet/cpu"
	"github.com/ezrec/duet/internal"
)

// CORE_COUNT is the number of cooperating cores in a duet run.
const CORE_COUNT = 2

// State is the scheduler run state.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_RUNNING    = State(0) // running
	STATE_HALTED     = State(1) // halted
	STATE_DEADLOCKED = State(2) // deadlocked
)

// Duet owns two cores, the two queues between them, and the per-core sent
// counters. The cores never reference each other; each step call borrows
// only the two queues it may touch, and the serialized step calls within a
// tick are the whole concurrency-control discipline.
type Duet struct {
	Verbose bool // If set, enables verbose logging.

	Program *cpu.Program          // Shared program listing.
	Core    [CORE_COUNT]*cpu.Core // Execution units, pids 0 and 1.
	Sent    [CORE_COUNT]int       // Messages sent per core.

	Ticks int // Completed scheduling rounds.

	state State
	queue [CORE_COUNT]channel.Queue // queue[n] carries values sent by core n.
}

// NewDuet creates a dual-core runtime over a shared program. Both queues
// start empty; nothing outlives the Duet.
func NewDuet(prog *cpu.Program) (duet *Duet) {
	duet = &Duet{
		Program: prog,
	}
	for n := range CORE_COUNT {
		duet.Core[n] = cpu.NewCore(prog, int64(n))
	}

	return
}

// State returns the current run state.
func (duet *Duet) State() State {
	return duet.state
}

// Pending iterates all values sent but not yet received, core 0's outbound
// queue first.
func (duet *Duet) Pending() iter.Seq[int64] {
	return internal.IterSeqConcat(duet.queue[0].Values(), duet.queue[1].Values())
}

// Reset restores the freshly constructed state, so the same Duet can be
// re-run reproducibly.
func (duet *Duet) Reset() {
	for n := range CORE_COUNT {
		duet.Core[n] = cpu.NewCore(duet.Program, int64(n))
		duet.Core[n].Verbose = duet.Verbose
		duet.queue[n].Reset()
		duet.Sent[n] = 0
	}
	duet.Ticks = 0
	duet.state = STATE_RUNNING
}

// Tick gives each core exactly one opportunity to execute an instruction,
// core 0 first, then classifies the round: either core halting ends the run
// halted, both cores blocking in the same round ends the run deadlocked.
// An arithmetic fault in either core aborts the run with the error.
func (duet *Duet) Tick() (done bool, err error) {
	if duet.state != STATE_RUNNING {
		done = true
		return
	}

	var outcome [CORE_COUNT]cpu.StepOutcome
	for n := range CORE_COUNT {
		peer := (n + 1) % CORE_COUNT
		outcome[n], _, err = duet.Core[n].Step(&duet.queue[peer], &duet.queue[n])
		if err != nil {
			err = &ErrRuntime{
				Core:   n,
				LineNo: duet.Program.LineNo(duet.Core[n].Pc),
				Err:    err,
			}
			return
		}
		if outcome[n] == cpu.STEP_SENT {
			duet.Sent[n] += 1
		}
	}

	duet.Ticks += 1

	switch {
	case outcome[0] == cpu.STEP_HALTED || outcome[1] == cpu.STEP_HALTED:
		duet.state = STATE_HALTED
		done = true
	case outcome[0] == cpu.STEP_BLOCKED && outcome[1] == cpu.STEP_BLOCKED:
		// Neither core produced nor consumed; no later tick can change that.
		duet.state = STATE_DEADLOCKED
		done = true
	}

	if done && duet.Verbose {
		log.Printf("duet: %v after %v ticks, sent %v/%v", duet.state, duet.Ticks, duet.Sent[0], duet.Sent[1])
	}

	return
}

// Run ticks the scheduler to a terminal state. Both STATE_HALTED and
// STATE_DEADLOCKED are successful results; the per-core sent counters
// remain valid either way.
func (duet *Duet) Run() (err error) {
	if duet.state != STATE_RUNNING {
		duet.Reset()
	}

	for n := range CORE_COUNT {
		duet.Core[n].Verbose = duet.Verbose
	}

	for done, err := duet.Tick(); !done; done, err = duet.Tick() {
		if err != nil {
			return err
		}
	}

	return
}
