package cpu

import (
	"fmt"
	"iter"
)

// Op is an instruction operation type.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_SND = Op(0) // snd
	OP_SET = Op(1) // set
	OP_ADD = Op(2) // add
	OP_MUL = Op(3) // mul
	OP_MOD = Op(4) // mod
	OP_RCV = Op(5) // rcv
	OP_JGZ = Op(6) // jgz
)

// Instruction is a single decoded instruction.
type Instruction struct {
	Op  Op
	Reg Register // Destination register (set, add, mul, mod, rcv).
	Val Value    // Source operand (snd, set, add, mul, mod); condition (jgz).
	Off Value    // Jump offset (jgz).
}

// MakeSnd creates a send instruction.
func MakeSnd(val Value) Instruction {
	return Instruction{Op: OP_SND, Val: val}
}

// MakeSet creates a register assignment instruction.
func MakeSet(reg Register, val Value) Instruction {
	return Instruction{Op: OP_SET, Reg: reg, Val: val}
}

// MakeAdd creates an addition instruction.
func MakeAdd(reg Register, val Value) Instruction {
	return Instruction{Op: OP_ADD, Reg: reg, Val: val}
}

// MakeMul creates a multiplication instruction.
func MakeMul(reg Register, val Value) Instruction {
	return Instruction{Op: OP_MUL, Reg: reg, Val: val}
}

// MakeMod creates a remainder instruction.
func MakeMod(reg Register, val Value) Instruction {
	return Instruction{Op: OP_MOD, Reg: reg, Val: val}
}

// MakeRcv creates a receive instruction.
func MakeRcv(reg Register) Instruction {
	return Instruction{Op: OP_RCV, Reg: reg}
}

// MakeJgz creates a jump-if-greater-than-zero instruction.
func MakeJgz(cond Value, off Value) Instruction {
	return Instruction{Op: OP_JGZ, Val: cond, Off: off}
}

// String returns the instruction in assembly syntax.
func (ins Instruction) String() string {
	switch ins.Op {
	case OP_SND:
		return fmt.Sprintf("%v %v", ins.Op, ins.Val)
	case OP_RCV:
		return fmt.Sprintf("%v %v", ins.Op, ins.Reg)
	case OP_JGZ:
		return fmt.Sprintf("%v %v %v", ins.Op, ins.Val, ins.Off)
	default:
		return fmt.Sprintf("%v %v %v", ins.Op, ins.Reg, ins.Val)
	}
}

// Opcode represents an assembled source line with its generated instruction.
type Opcode struct {
	LineNo      int
	Text        string
	Instruction Instruction
}

// Program is an immutable, 0-indexed instruction sequence, shared read-only
// by every core constructed from it.
type Program struct {
	Opcodes []Opcode
}

// Len returns the number of instructions in the program.
func (prog *Program) Len() int {
	return len(prog.Opcodes)
}

// Instruction returns the instruction at pc, or ok = false when pc is
// outside the program.
func (prog *Program) Instruction(pc int) (ins Instruction, ok bool) {
	if pc < 0 || pc >= len(prog.Opcodes) {
		return
	}

	return prog.Opcodes[pc].Instruction, true
}

// LineNo returns the source line number for the instruction at pc, 0 when
// pc is outside the program.
func (prog *Program) LineNo(pc int) int {
	if pc < 0 || pc >= len(prog.Opcodes) {
		return 0
	}

	return prog.Opcodes[pc].LineNo
}

// Instructions iterates the program in execution order.
func (prog *Program) Instructions() iter.Seq2[int, Instruction] {
	return func(yield func(pc int, ins Instruction) bool) {
		for pc, op := range prog.Opcodes {
			if !yield(pc, op.Instruction) {
				return
			}
		}
	}
}
