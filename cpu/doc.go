// Package cpu implements the register machine and assembler for the duet system.
//
// A Core executes one instruction per step over a shared, read-only Program.
// It holds a program counter and a register file of signed 64-bit registers
// named by single lowercase letters; unset registers read as zero. The 'snd'
// and 'rcv' instructions exchange values over external queues supplied per
// step call, so a core never owns a reference to its peer.
//
// The assembler provides the duet assembly language, supporting comments,
// equates, and compile-time expression evaluation.
package cpu
