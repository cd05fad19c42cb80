// Package display presents the PPU's frame buffer in an SDL2 window and
// translates keyboard events into joypad button presses. It uses SDL2's
// own renderer/texture pipeline rather than an OpenGL/GLFW pairing, since
// one window showing one upscaled 160x144 texture has no need for a
// separate GL context.
package display

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/halcyon-systems/dmgcore/internal/joypad"
	"github.com/halcyon-systems/dmgcore/internal/ppu"
)

// shade maps a 2-bit DMG palette index to an RGB shade, lightest to
// darkest, approximating the original green-tinted LCD in muted greens.
var shade = [4][3]uint8{
	{0xE0, 0xF0, 0xE0},
	{0xA0, 0xB8, 0xA0},
	{0x60, 0x78, 0x60},
	{0x20, 0x30, 0x20},
}

// keymap binds keyboard scancodes to joypad buttons.
var keymap = map[sdl.Scancode]joypad.Button{
	sdl.SCANCODE_RIGHT:  joypad.Right,
	sdl.SCANCODE_LEFT:   joypad.Left,
	sdl.SCANCODE_UP:     joypad.Up,
	sdl.SCANCODE_DOWN:   joypad.Down,
	sdl.SCANCODE_Z:      joypad.A,
	sdl.SCANCODE_X:      joypad.B,
	sdl.SCANCODE_BACKSPACE: joypad.Select,
	sdl.SCANCODE_RETURN: joypad.Start,
}

// Window owns the SDL2 window, renderer, and frame texture.
type Window struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	closed   bool
}

// Open creates a window scaled by the given integer factor.
func Open(scale int32) (*Window, error) {
	if err := sdl.InitSubSystem(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("display: init SDL video: %w", err)
	}

	w, r, err := sdl.CreateWindowAndRenderer(
		ppu.ScreenWidth*scale, ppu.ScreenHeight*scale,
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		return nil, fmt.Errorf("display: create window: %w", err)
	}

	tex, err := r.CreateTexture(sdl.PIXELFORMAT_RGB24, sdl.TEXTUREACCESS_STREAMING, ppu.ScreenWidth, ppu.ScreenHeight)
	if err != nil {
		return nil, fmt.Errorf("display: create texture: %w", err)
	}

	return &Window{window: w, renderer: r, texture: tex}, nil
}

// Present uploads one frame buffer and draws it scaled to fill the window.
func (w *Window) Present(frame [ppu.ScreenHeight][ppu.ScreenWidth]uint8) error {
	pixels := make([]byte, ppu.ScreenWidth*ppu.ScreenHeight*3)
	for y := 0; y < ppu.ScreenHeight; y++ {
		for x := 0; x < ppu.ScreenWidth; x++ {
			rgb := shade[frame[y][x]&0x3]
			i := (y*ppu.ScreenWidth + x) * 3
			pixels[i], pixels[i+1], pixels[i+2] = rgb[0], rgb[1], rgb[2]
		}
	}

	if err := w.texture.Update(nil, pixels, ppu.ScreenWidth*3); err != nil {
		return fmt.Errorf("display: update texture: %w", err)
	}
	w.renderer.Clear()
	w.renderer.Copy(w.texture, nil, nil)
	w.renderer.Present()
	return nil
}

// PollInput drains pending SDL events, applies keyboard-to-joypad bindings
// via setPressed, and reports whether the window was asked to close.
func (w *Window) PollInput(setPressed func(joypad.Button, bool)) bool {
	for {
		event := sdl.PollEvent()
		if event == nil {
			break
		}
		switch e := event.(type) {
		case *sdl.QuitEvent:
			w.closed = true
		case *sdl.KeyboardEvent:
			btn, ok := keymap[e.Keysym.Scancode]
			if !ok {
				continue
			}
			setPressed(btn, e.State == sdl.PRESSED)
		}
	}
	return w.closed
}

// Close releases the window's SDL resources.
func (w *Window) Close() {
	w.texture.Destroy()
	w.renderer.Destroy()
	w.window.Destroy()
}
