package apu

// envelope is the shared volume-envelope sub-state used by both square
// channels and the noise channel (the wave channel has no envelope; its
// volume is a fixed shift code instead).
type envelope struct {
	initialVolume uint8 // NRx2 bits 4-7, latched on trigger
	increase      bool  // NRx2 bit 3
	pace          uint8 // NRx2 bits 0-2; 0 disables the envelope

	volume   uint8 // current volume, 0-15
	subTicks uint8 // counts down sub-ticks until the next step
}

// setNRx2 records the envelope control register without disturbing the
// currently running volume; the new initial volume takes effect on the next
// trigger, while direction and pace apply from the next envelope step.
func (e *envelope) setNRx2(initialVolume uint8, increase bool, pace uint8) {
	e.initialVolume = initialVolume
	e.increase = increase
	e.pace = pace
}

// trigger reloads the running volume from the latched initial volume.
func (e *envelope) trigger() {
	e.volume = e.initialVolume
	e.subTicks = e.pace
}

// step is called once per 64Hz envelope sub-tick.
func (e *envelope) step() {
	if e.pace == 0 {
		return
	}
	if e.subTicks > 0 {
		e.subTicks--
	}
	if e.subTicks == 0 {
		e.subTicks = e.pace
		if e.increase {
			if e.volume < 0x0F {
				e.volume++
			}
		} else {
			if e.volume > 0x00 {
				e.volume--
			}
		}
	}
}
