package emulator

import (
	"log"

	"github.com/ezrec/duet/cpu"
)

// Solo runs a single recover-mode core: 'snd' records a frequency, and
// 'rcv' with a nonzero register recovers the most recently sent one,
// ending the run. There are no queues in this mode.
type Solo struct {
	Verbose bool // If set, enables verbose logging.

	Core *cpu.Core // The single execution unit.

	Ticks int // Executed instruction count.
}

// NewSolo creates a single-core legacy runtime over a program.
func NewSolo(prog *cpu.Program) (solo *Solo) {
	solo = &Solo{
		Core: cpu.NewSoloCore(prog),
	}

	return
}

// Run steps the core until a frequency is recovered, returning it. A core
// that halts without recovering fails with ErrNoRecovery; an arithmetic
// fault aborts with the offending line.
func (solo *Solo) Run() (frequency int64, err error) {
	solo.Core.Verbose = solo.Verbose

	for {
		var outcome cpu.StepOutcome
		var value int64

		pc := solo.Core.Pc
		outcome, value, err = solo.Core.Step(nil, nil)
		if err != nil {
			err = &ErrRuntime{
				Core:   0,
				LineNo: solo.Core.Program.LineNo(pc),
				Err:    err,
			}
			return
		}

		switch outcome {
		case cpu.STEP_RECOVERED:
			frequency = value
			if solo.Verbose {
				log.Printf("solo: recovered %v after %v ticks", frequency, solo.Ticks)
			}
			return
		case cpu.STEP_HALTED:
			err = ErrNoRecovery
			return
		}

		solo.Ticks += 1
	}
}
