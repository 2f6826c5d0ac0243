package cpu

import (
	"fmt"
	"iter"
	"maps"
	"slices"
)

// Register is a register name, a single lowercase letter 'a'..'z'.
type Register byte

// ValidRegister returns true if reg is a usable register name.
func ValidRegister(reg Register) bool {
	return reg >= 'a' && reg <= 'z'
}

// String returns the register name.
func (reg Register) String() string {
	return string(byte(reg))
}

// Registers is a per-core register file. Registers never written read as 0.
type Registers struct {
	Data map[Register]int64
}

// Get returns the current value of a register, 0 if never written.
func (regs *Registers) Get(reg Register) int64 {
	return regs.Data[reg]
}

// Set overwrites or inserts a register value.
func (regs *Registers) Set(reg Register, value int64) {
	if regs.Data == nil {
		regs.Data = make(map[Register]int64, 8)
	}
	regs.Data[reg] = value
}

// Reset clears all registers back to 0.
func (regs *Registers) Reset() {
	clear(regs.Data)
}

// All iterates the written registers in name order.
func (regs *Registers) All() iter.Seq2[Register, int64] {
	return func(yield func(reg Register, value int64) bool) {
		for _, reg := range slices.Sorted(maps.Keys(regs.Data)) {
			if !yield(reg, regs.Data[reg]) {
				return
			}
		}
	}
}

// Value is an instruction operand: either a register reference or a signed
// 64-bit literal, resolved against a register file only when read.
type Value struct {
	Reg Register // Register reference; 0 for a literal.
	Num int64    // Literal value, when Reg is 0.
}

// MakeNumber creates a literal operand.
func MakeNumber(num int64) Value {
	return Value{Num: num}
}

// MakeRegister creates a register-reference operand.
func MakeRegister(reg Register) Value {
	return Value{Reg: reg}
}

// Resolve reads the operand's current value.
func (val Value) Resolve(regs *Registers) int64 {
	if val.Reg != 0 {
		return regs.Get(val.Reg)
	}

	return val.Num
}

// String returns the operand in assembly syntax.
func (val Value) String() string {
	if val.Reg != 0 {
		return val.Reg.String()
	}

	return fmt.Sprintf("%v", val.Num)
}
