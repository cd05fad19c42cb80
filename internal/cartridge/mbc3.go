package cartridge

// rtc holds the MBC3 real-time-clock register block: seconds, minutes,
// hours, and a 9-bit day counter split into a low byte and a high byte
// carrying the top bit plus halt and day-carry flags. It free-runs purely
// off the tick-driven clock the RTC is fed from an external cart
// battery-backed oscillator in real hardware, never a wall clock (spec §9).
type rtc struct {
	seconds, minutes, hours uint8
	dayLow                  uint8
	halt                    bool
	dayCarry                bool
	dayHigh                 uint8 // bit 0 of the 9-bit day counter

	tickAccum uint32 // master ticks accumulated toward the next second

	// latched copies exposed to reads until the next latch edge.
	latched [5]uint8

	selected   uint8 // which of the 5 registers (0x08-0x0C) is mapped
	latchInput uint8 // last byte written to 0x6000-0x7FFF, for edge detect
}

const masterTicksPerSecond = 4194304

// tick advances the free-running clock by n master ticks.
func (r *rtc) tick(n uint8) {
	if r.halt {
		return
	}
	r.tickAccum += uint32(n)
	for r.tickAccum >= masterTicksPerSecond {
		r.tickAccum -= masterTicksPerSecond
		r.advanceSecond()
	}
}

func (r *rtc) advanceSecond() {
	r.seconds++
	if r.seconds < 60 {
		return
	}
	r.seconds = 0
	r.minutes++
	if r.minutes < 60 {
		return
	}
	r.minutes = 0
	r.hours++
	if r.hours < 24 {
		return
	}
	r.hours = 0

	day := uint16(r.dayLow) | uint16(r.dayHigh&1)<<8
	day++
	if day > 0x1FF {
		day = 0
		r.dayCarry = true
	}
	r.dayLow = uint8(day)
	r.dayHigh = uint8(day >> 8)
}

func (r *rtc) registerValue(index uint8) uint8 {
	switch index {
	case 0:
		return r.seconds
	case 1:
		return r.minutes
	case 2:
		return r.hours
	case 3:
		return r.dayLow
	case 4:
		v := r.dayHigh & 1
		if r.halt {
			v |= 1 << 6
		}
		if r.dayCarry {
			v |= 1 << 7
		}
		return v
	}
	return 0xFF
}

func (r *rtc) setRegister(index, v uint8) {
	switch index {
	case 0:
		r.seconds = v
	case 1:
		r.minutes = v
	case 2:
		r.hours = v
	case 3:
		r.dayLow = v
	case 4:
		r.dayHigh = v & 1
		r.halt = v&(1<<6) != 0
		r.dayCarry = v&(1<<7) != 0
	}
}

// latch copies the live registers into the latched snapshot software reads.
func (r *rtc) latch() {
	for i := uint8(0); i < 5; i++ {
		r.latched[i] = r.registerValue(i)
	}
}

func (r *rtc) onWriteLatchControl(v uint8) {
	if r.latchInput == 0 && v == 1 {
		r.latch()
	}
	r.latchInput = v
}

// mbc3 supports up to 128 ROM banks (7-bit register) and 8 RAM banks, plus
// the RTC register block shared through the RAM-bank-select write.
type mbc3 struct {
	rom []byte
	ram []byte

	header *Header
	rtc    rtc

	ramRTCEnabled bool
	romBank       uint8
	ramBank       uint8 // 0-7 selects RAM; 0x08-0x0C (stored raw) selects RTC
	rtcSelected   bool
}

func newMBC3(rom []byte, h *Header) *mbc3 {
	return &mbc3{
		rom:     rom,
		ram:     make([]byte, h.RAMBanks*h.RAMBankSize),
		header:  h,
		romBank: 1,
	}
}

func (m *mbc3) Read(addr uint16) uint8 {
	switch {
	case addr < 0x4000:
		return readAt(m.rom, int(addr))
	case addr < 0x8000:
		return readAt(m.rom, romBankBase(int(m.romBank))+int(addr-0x4000))
	case addr >= 0xA000 && addr < 0xC000:
		if !m.ramRTCEnabled {
			return 0xFF
		}
		if m.rtcSelected {
			return m.rtc.latched[m.ramBank-0x08]
		}
		return readAt(m.ram, ramBankBase(int(m.ramBank), m.header.RAMBankSize)+int(addr-0xA000))
	}
	return 0xFF
}

func (m *mbc3) Write(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		m.ramRTCEnabled = value&0x0F == 0x0A
	case addr < 0x4000:
		v := value & 0x7F
		if v == 0 {
			v = 1
		}
		m.romBank = v
	case addr < 0x6000:
		if value <= 0x07 {
			m.ramBank = value
			m.rtcSelected = false
		} else if value >= 0x08 && value <= 0x0C {
			m.ramBank = value
			m.rtcSelected = true
		}
	case addr < 0x8000:
		m.rtc.onWriteLatchControl(value)
	case addr >= 0xA000 && addr < 0xC000:
		if !m.ramRTCEnabled {
			return
		}
		if m.rtcSelected {
			m.rtc.setRegister(m.ramBank-0x08, value)
			return
		}
		writeAt(m.ram, ramBankBase(int(m.ramBank), m.header.RAMBankSize)+int(addr-0xA000), value)
	}
}

// Tick advances the RTC's free-running clock; called by the driver at the
// same cadence as the rest of the cartridge-adjacent peripherals.
func (m *mbc3) Tick(n uint8) { m.rtc.tick(n) }

func (m *mbc3) RAM() []byte         { return m.ram }
func (m *mbc3) LoadRAM(data []byte) { copy(m.ram, data) }
