package cpu

import "github.com/halcyon-systems/dmgcore/internal/bus"

// hlStepBit is +1/-1 as applied to HL for the post-increment/post-decrement
// memory forms, indexed by opcode bit 4.
var hlStepBit = [2]uint16{1, 0xFFFF}

// execute decodes and runs one primary-table opcode, returning the number
// of master ticks it consumed. Opcodes with no uniform bit-field meaning
// (control flow, I/O-page addressing, stack-pointer arithmetic) are handled
// as literal cases; everything else falls through to a family decoded by
// its bit layout, the same structure the hardware's own instruction
// encoding was designed around.
func (c *CPU) execute(b *bus.Bus, instr uint8) uint8 {
	switch instr {
	case 0x00: // NOP
		return 4
	case 0x08: // LD (a16), SP
		addr := c.fetch16(b)
		b.Write(addr, uint8(c.SP))
		b.Write(addr+1, uint8(c.SP>>8))
		return 20
	case 0x10: // STOP
		c.fetch8(b) // STOP is followed by an ignored padding byte
		c.State = Stopped
		return 4
	case 0x76: // HALT
		c.State = Halted
		return 4
	case 0xC3: // JP a16
		c.PC = c.fetch16(b)
		return 16
	case 0xC9: // RET
		c.PC = c.pop16(b)
		return 16
	case 0xCB: // bit-prefix
		return 4 + c.executeCB(b, c.fetch8(b))
	case 0xCD: // CALL a16
		addr := c.fetch16(b)
		c.push16(b, c.PC)
		c.PC = addr
		return 24
	case 0xD9: // RETI
		c.PC = c.pop16(b)
		c.ime = true
		c.imeDelay = 0
		return 16
	case 0xE0: // LDH (a8), A
		b.Write(0xFF00+uint16(c.fetch8(b)), c.A)
		return 12
	case 0xE2: // LD (C), A
		b.Write(0xFF00+uint16(c.C), c.A)
		return 8
	case 0xE8: // ADD SP, r8
		c.SP = c.addSPSigned(b)
		return 16
	case 0xE9: // JP HL
		c.PC = c.hl()
		return 4
	case 0xEA: // LD (a16), A
		b.Write(c.fetch16(b), c.A)
		return 16
	case 0xF0: // LDH A, (a8)
		c.A = b.Read(0xFF00 + uint16(c.fetch8(b)))
		return 12
	case 0xF2: // LD A, (C)
		c.A = b.Read(0xFF00 + uint16(c.C))
		return 8
	case 0xF3: // DI
		c.ime = false
		c.imeDelay = 0
		return 4
	case 0xF8: // LD HL, SP+r8
		c.setHL(c.addSPSigned(b))
		return 12
	case 0xF9: // LD SP, HL
		c.SP = c.hl()
		return 8
	case 0xFA: // LD A, (a16)
		c.A = b.Read(c.fetch16(b))
		return 16
	case 0xFB: // EI
		c.imeDelay = 1
		return 4
	}

	switch instr >> 6 & 0x3 {
	case 0:
		return c.executeLow(b, instr)
	case 1: // 0x40-0x7F: LD r, r'  (0x76 already intercepted as HALT)
		get, _ := c.operand8(b, instr)
		_, set := c.operand8(b, instr>>3)
		set(get())
		if instr&0x7 == 6 || instr>>3&0x7 == 6 {
			return 8
		}
		return 4
	case 2: // 0x80-0xBF: ALU A, r
		get, _ := c.operand8(b, instr)
		c.aluOp(instr>>3, get())
		if instr&0x7 == 6 {
			return 8
		}
		return 4
	default: // 0xC0-0xFF
		return c.executeHigh(b, instr)
	}
}

func (c *CPU) executeLow(b *bus.Bus, instr uint8) uint8 {
	switch instr & 0x7 {
	case 0: // JR cc, s8
		offset := int8(c.fetch8(b))
		if instr == 0x18 || c.condition(instr) {
			c.PC = uint16(int32(c.PC) + int32(offset))
			return 12
		}
		return 8
	case 1:
		if instr&0x08 != 0 { // ADD HL, rr
			nn := c.pair16(instr)
			hl := c.hl()
			sum := uint32(hl) + uint32(nn)
			c.setFlag(flagN, false)
			c.setFlag(flagH, (hl&0xFFF)+(nn&0xFFF) > 0xFFF)
			c.setFlag(flagC, sum > 0xFFFF)
			c.setHL(uint16(sum))
			return 8
		}
		c.setPair16(instr, c.fetch16(b)) // LD rr, d16
		return 12
	case 2: // LD (rr), A / LD A, (rr), with HL+/HL- forms
		pair := instr >> 4 & 0x3
		var addr uint16
		switch pair {
		case 0:
			addr = c.bc()
		case 1:
			addr = c.de()
		case 2, 3:
			addr = c.hl()
		}
		toA := instr&0x08 != 0
		if toA {
			c.A = b.Read(addr)
		} else {
			b.Write(addr, c.A)
		}
		if pair == 2 || pair == 3 {
			c.setHL(addr + hlStepBit[pair-2])
		}
		return 8
	case 3: // INC/DEC rr
		dec := instr&0x08 != 0
		v := c.pair16(instr)
		if dec {
			v--
		} else {
			v++
		}
		c.setPair16(instr, v)
		return 8
	case 4, 5: // INC/DEC r8
		get, set := c.operand8(b, instr>>3)
		v := get()
		dec := instr&1 == 1
		var result uint8
		var half bool
		if dec {
			result = v - 1
			half = v&0xF == 0x0
		} else {
			result = v + 1
			half = v&0xF == 0xF
		}
		set(result)
		c.setFlag(flagZ, result == 0)
		c.setFlag(flagN, dec)
		c.setFlag(flagH, half)
		if instr&0x7 == 6 {
			return 12
		}
		return 4
	case 6: // LD r, d8
		_, set := c.operand8(b, instr>>3)
		set(c.fetch8(b))
		if instr>>3&0x7 == 6 {
			return 12
		}
		return 8
	case 7: // rotate-A shorthands, DAA, CPL, SCF, CCF
		switch instr >> 3 & 0x7 {
		case 0: // RLCA
			bit7 := c.A >> 7
			c.A = c.A<<1 | bit7
			c.setFlags(false, false, false, bit7 == 1)
		case 1: // RRCA
			bit0 := c.A & 1
			c.A = c.A>>1 | bit0<<7
			c.setFlags(false, false, false, bit0 == 1)
		case 2: // RLA
			oldCarry := uint8(0)
			if c.flag(flagC) {
				oldCarry = 1
			}
			bit7 := c.A >> 7
			c.A = c.A<<1 | oldCarry
			c.setFlags(false, false, false, bit7 == 1)
		case 3: // RRA
			oldCarry := uint8(0)
			if c.flag(flagC) {
				oldCarry = 1
			}
			bit0 := c.A & 1
			c.A = c.A>>1 | oldCarry<<7
			c.setFlags(false, false, false, bit0 == 1)
		case 4: // DAA
			c.daa()
		case 5: // CPL
			c.A = ^c.A
			c.setFlag(flagN, true)
			c.setFlag(flagH, true)
		case 6: // SCF
			c.setFlag(flagN, false)
			c.setFlag(flagH, false)
			c.setFlag(flagC, true)
		case 7: // CCF
			c.setFlag(flagN, false)
			c.setFlag(flagH, false)
			c.setFlag(flagC, !c.flag(flagC))
		}
		return 4
	}
	return 4
}

func (c *CPU) executeHigh(b *bus.Bus, instr uint8) uint8 {
	switch instr & 0x7 {
	case 0: // RET cc
		if instr >= 0xE0 {
			c.programFault("undefined opcode 0x%02X", instr)
			return 4
		}
		if c.condition(instr) {
			c.PC = c.pop16(b)
			return 20
		}
		return 8
	case 1: // POP rr
		v := c.pop16(b)
		c.setPair16rr(instr, v)
		return 12
	case 2: // JP cc, a16
		if instr >= 0xE0 {
			c.programFault("undefined opcode 0x%02X", instr)
			return 4
		}
		addr := c.fetch16(b)
		if c.condition(instr) {
			c.PC = addr
			return 16
		}
		return 12
	case 3: // D3, DB, E3, EB: undefined on this hardware
		c.programFault("undefined opcode 0x%02X", instr)
		return 4
	case 4: // CALL cc, a16
		if instr >= 0xE0 {
			c.programFault("undefined opcode 0x%02X", instr)
			return 4
		}
		addr := c.fetch16(b)
		if c.condition(instr) {
			c.push16(b, c.PC)
			c.PC = addr
			return 24
		}
		return 12
	case 5: // PUSH rr (bit 3 clear); DD/ED/FD with bit 3 set are undefined
		if instr&0x08 != 0 {
			c.programFault("undefined opcode 0x%02X", instr)
			return 4
		}
		c.push16(b, c.pair16rr(instr))
		return 16
	case 6: // ALU A, d8
		c.aluOp(instr>>3, c.fetch8(b))
		return 8
	case 7: // RST
		c.push16(b, c.PC)
		c.PC = uint16(instr>>3&0x7) * 8
		return 16
	}
	return 4
}

// condition evaluates the 2-bit branch condition shared by JR/RET/JP/CALL:
// bits 4 selects the Z/C flag family, bit 3 selects equality vs inversion.
func (c *CPU) condition(instr uint8) bool {
	var f bool
	if instr>>4&1 == 0 {
		f = c.flag(flagZ)
	} else {
		f = c.flag(flagC)
	}
	if instr>>3&1 == 0 {
		f = !f
	}
	return f
}

// pair16 resolves the register-pair field (bits 4-5) used by LD rr,d16,
// ADD HL,rr and INC/DEC rr, where pair 3 is SP.
func (c *CPU) pair16(instr uint8) uint16 {
	switch instr >> 4 & 0x3 {
	case 0:
		return c.bc()
	case 1:
		return c.de()
	case 2:
		return c.hl()
	default:
		return c.SP
	}
}

func (c *CPU) setPair16(instr uint8, v uint16) {
	switch instr >> 4 & 0x3 {
	case 0:
		c.setBC(v)
	case 1:
		c.setDE(v)
	case 2:
		c.setHL(v)
	default:
		c.SP = v
	}
}

// pair16rr/setPair16rr are the PUSH/POP variant where pair 3 is AF, not SP.
func (c *CPU) pair16rr(instr uint8) uint16 {
	switch instr >> 4 & 0x3 {
	case 0:
		return c.bc()
	case 1:
		return c.de()
	case 2:
		return c.hl()
	default:
		return c.af()
	}
}

func (c *CPU) setPair16rr(instr uint8, v uint16) {
	switch instr >> 4 & 0x3 {
	case 0:
		c.setBC(v)
	case 1:
		c.setDE(v)
	case 2:
		c.setHL(v)
	default:
		c.setAF(v)
	}
}

// addSPSigned computes SP + signed-immediate and sets flags as if the
// immediate were zero-extended and added as an 8-bit unsigned value to the
// low byte of SP — the documented real-hardware behavior for both ADD
// SP,r8 and LD HL,SP+r8.
func (c *CPU) addSPSigned(b *bus.Bus) uint16 {
	offset := int8(c.fetch8(b))
	sp := c.SP
	result := uint16(int32(sp) + int32(offset))
	tmp := sp ^ uint16(uint8(offset)) ^ result
	c.setFlags(false, false, tmp&0x10 != 0, tmp&0x100 != 0)
	return result
}
