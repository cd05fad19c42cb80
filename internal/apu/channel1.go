package apu

// sweep is channel 1's frequency-sweep unit.
type sweep struct {
	pace      uint8
	decrease  bool
	shift     uint8
	subTicks  uint8
	shadow    uint16
}

// channel1 is the square channel with sweep (NR10-NR14).
type channel1 struct {
	*square
	sw sweep
}

func newChannel1() *channel1 {
	return &channel1{square: newSquare()}
}

// sweepStep runs one 128Hz sweep sub-tick.
func (c *channel1) sweepStep() {
	if c.sw.pace == 0 {
		return
	}
	if c.sw.subTicks > 0 {
		c.sw.subTicks--
	}
	if c.sw.subTicks == 0 {
		c.sw.subTicks = c.sw.pace
		newPeriod := c.computeSweep()
		if newPeriod > 2047 {
			c.enabled = false
			return
		}
		if c.sw.shift != 0 {
			c.sw.shadow = newPeriod
			c.period = newPeriod
			// second, discarded computation solely for overflow detection.
			if c.computeSweep() > 2047 {
				c.enabled = false
			}
		}
	}
}

func (c *channel1) computeSweep() uint16 {
	delta := c.sw.shadow >> c.sw.shift
	if c.sw.decrease {
		return c.sw.shadow - delta
	}
	return c.sw.shadow + delta
}

// trigger re-arms the channel and its sweep unit.
func (c *channel1) trigger() {
	c.square.trigger()
	c.sw.shadow = c.period
	c.sw.subTicks = c.sw.pace
	if c.sw.shift != 0 {
		if c.computeSweep() > 2047 {
			c.enabled = false
		}
	}
}
