// Package audio drains the APU's bounded sample channel into an SDL2
// audio device. Unlike a C-callback-driven pull model, the core already
// produces discrete (left, right) pairs on its own schedule (see
// internal/apu), so this sink simply queues them as they arrive rather
// than synthesizing them on demand from a callback.
package audio

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/halcyon-systems/dmgcore/internal/apu"
)

// Sink owns one SDL2 audio device queued from a GameBoy's sample channel.
type Sink struct {
	deviceID sdl.AudioDeviceID
	samples  <-chan apu.Sample
	stop     chan struct{}
	muted    bool
}

// Open opens the default SDL2 audio output at the APU's fixed sample rate.
func Open(samples <-chan apu.Sample, muted bool) (*Sink, error) {
	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("audio: init SDL audio: %w", err)
	}

	deviceID, err := sdl.OpenAudioDevice("", false, &sdl.AudioSpec{
		Freq:     apu.SampleRate,
		Format:   sdl.AUDIO_U8,
		Channels: 2,
		Samples:  1024,
	}, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("audio: open device: %w", err)
	}

	s := &Sink{deviceID: deviceID, samples: samples, stop: make(chan struct{}), muted: muted}
	sdl.PauseAudioDevice(deviceID, false)
	return s, nil
}

// Run drains the sample channel onto the device until Close is called. It
// is meant to run on its own goroutine — it is the single consumer paired
// with the core's single producer.
func (s *Sink) Run() {
	buf := make([]byte, 0, 2048)
	for {
		select {
		case <-s.stop:
			return
		case sample := <-s.samples:
			if s.muted {
				continue
			}
			buf = append(buf, sample.Left, sample.Right)
			if len(buf) >= 512 {
				sdl.QueueAudio(s.deviceID, buf)
				buf = buf[:0]
			}
		}
	}
}

// Close stops draining and releases the device.
func (s *Sink) Close() {
	close(s.stop)
	sdl.CloseAudioDevice(s.deviceID)
}
