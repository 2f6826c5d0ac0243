package cpu

import (
	"fmt"
	"log"

	"github.com/ezrec/duet/channel"
)

// PID_REGISTER is the register pre-seeded with the core's process identity.
const PID_REGISTER = Register('p')

// RecvMode selects which of the two 'rcv' semantics a core executes.
// The two interpretations are distinct instruction sets sharing one
// mnemonic; a core's mode is fixed at construction.
type RecvMode int

//go:generate go tool stringer -linecomment -type=RecvMode
const (
	RECV_CHANNEL = RecvMode(0) // channel
	RECV_RECOVER = RecvMode(1) // recover
)

// StepOutcome classifies the result of a single core step.
type StepOutcome int

//go:generate go tool stringer -linecomment -type=StepOutcome
const (
	STEP_CONTINUED = StepOutcome(0) // continued
	STEP_HALTED    = StepOutcome(1) // halted
	STEP_SENT      = StepOutcome(2) // sent
	STEP_BLOCKED   = StepOutcome(3) // blocked
	STEP_RECOVERED = StepOutcome(4) // recovered
)

// Core is one execution unit of the duet machine: a program counter and a
// register file over a shared read-only program. Cores hold no reference to
// their peer or to the scheduler; the queues a step may touch are passed
// into each Step call.
type Core struct {
	Verbose bool // Set to enable verbose logging.

	Mode    RecvMode // Fixed 'rcv' interpretation.
	Program *Program // Shared program listing, never mutated.

	Pc   int       // Current program counter.
	Regs Registers // Register bank.

	Ticks int // Executed instruction counter.

	lastSent int64 // Most recently sent value.
	sent     bool  // True once any value has been sent.
}

// NewCore creates a channel-mode core with the given process identity
// seeded into the PID register.
func NewCore(prog *Program, pid int64) (core *Core) {
	core = &Core{
		Mode:    RECV_CHANNEL,
		Program: prog,
	}
	core.Regs.Set(PID_REGISTER, pid)

	return
}

// NewSoloCore creates a recover-mode core for single-core legacy runs.
func NewSoloCore(prog *Program) (core *Core) {
	core = &Core{
		Mode:    RECV_RECOVER,
		Program: prog,
	}

	return
}

// Halted returns true once the program counter has left the program.
// A halted core makes no further progress.
func (core *Core) Halted() bool {
	return core.Pc < 0 || core.Pc >= core.Program.Len()
}

// Blocked returns true if the next step would block: the current
// instruction is a channel-mode 'rcv' and the inbound queue is empty.
func (core *Core) Blocked(inbound *channel.Queue) bool {
	ins, ok := core.Program.Instruction(core.Pc)
	if !ok {
		return false
	}

	return core.Mode == RECV_CHANNEL && ins.Op == OP_RCV && inbound.Empty()
}

// String returns the current core state as a string.
func (core *Core) String() (text string) {
	text = fmt.Sprintf("   pc: %v\n mode: %v\n", core.Pc, core.Mode)
	for reg, value := range core.Regs.All() {
		text += fmt.Sprintf("% 5s: %v\n", reg, value)
	}

	return
}

// Step executes exactly one instruction and reports the outcome.
//
// A STEP_BLOCKED outcome is side-effect free: neither the register file nor
// the program counter move, and the instruction is retried whole on the
// next step once the peer may have produced data. The value result carries
// the sent value on STEP_SENT and the recovered value on STEP_RECOVERED.
//
// A 'mod' whose resolved divisor is 0 fails with ErrModuloZero before any
// state is mutated; the error is fatal to this core's run.
func (core *Core) Step(inbound *channel.Queue, outbound *channel.Queue) (outcome StepOutcome, value int64, err error) {
	ins, ok := core.Program.Instruction(core.Pc)
	if !ok {
		outcome = STEP_HALTED
		return
	}

	if core.Verbose {
		log.Printf("%03d: %v", core.Pc, ins)
	}

	next_pc := core.Pc + 1
	outcome = STEP_CONTINUED

	switch ins.Op {
	case OP_SND:
		value = ins.Val.Resolve(&core.Regs)
		if outbound != nil {
			outbound.Push(value)
		}
		core.lastSent = value
		core.sent = true
		outcome = STEP_SENT
	case OP_SET:
		core.Regs.Set(ins.Reg, ins.Val.Resolve(&core.Regs))
	case OP_ADD:
		core.Regs.Set(ins.Reg, core.Regs.Get(ins.Reg)+ins.Val.Resolve(&core.Regs))
	case OP_MUL:
		core.Regs.Set(ins.Reg, core.Regs.Get(ins.Reg)*ins.Val.Resolve(&core.Regs))
	case OP_MOD:
		divisor := ins.Val.Resolve(&core.Regs)
		if divisor == 0 {
			err = ErrModuloZero
			return
		}
		core.Regs.Set(ins.Reg, core.Regs.Get(ins.Reg)%divisor)
	case OP_RCV:
		switch core.Mode {
		case RECV_CHANNEL:
			var recv int64
			recv, ok = inbound.Pop()
			if !ok {
				// Retried, untouched, on the next step.
				outcome = STEP_BLOCKED
				return
			}
			core.Regs.Set(ins.Reg, recv)
		case RECV_RECOVER:
			// Recover only once something has been sent.
			if core.sent && core.Regs.Get(ins.Reg) != 0 {
				value = core.lastSent
				outcome = STEP_RECOVERED
			}
		}
	case OP_JGZ:
		if ins.Val.Resolve(&core.Regs) > 0 {
			next_pc = core.Pc + int(ins.Off.Resolve(&core.Regs))
		}
	default:
		err = ErrOpcodeInvalid
		return
	}

	core.Pc = next_pc
	core.Ticks += 1

	return
}
