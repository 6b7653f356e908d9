package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/polyrhythm/internal/audio"
	"github.com/iburimskiy/polyrhythm/internal/config"
	"github.com/iburimskiy/polyrhythm/internal/engine"
	"github.com/iburimskiy/polyrhythm/internal/logger"
)

// Game is the ebiten host shell around the engine. Update delivers scheduled
// rhythm triggers and pointer input, Draw delivers render frames. ebiten calls
// both from one goroutine.
type Game struct {
	eng    *engine.Engine
	bus    *audio.Bus
	output *Output
	log    *logger.Logger

	size int

	// pointer edge detection
	lastX, lastY int
	seenPointer  bool

	// button state
	buttonHovered bool
	buttonPressed bool

	lastErr error
	notify  func(error)
}

func New(eng *engine.Engine, bus *audio.Bus, output *Output, log *logger.Logger) *Game {
	return &Game{
		eng:    eng,
		bus:    bus,
		output: output,
		log:    log,
		size:   config.WindowWidth,
		notify: showError,
	}
}

// showError raises a native dialog without blocking the game loop.
func showError(err error) {
	go func() {
		_ = zenity.Error(err.Error(), zenity.Title("Audio output"), zenity.ErrorIcon)
	}()
}

func (g *Game) Update() error {
	if g.eng.Cancelled() {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		g.eng.Cancel()
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.toggle()
	}

	mouseX, mouseY := ebiten.CursorPosition()
	g.buttonHovered = mouseX >= config.ButtonX && mouseX <= config.ButtonX+config.ButtonWidth &&
		mouseY >= config.ButtonY && mouseY <= config.ButtonY+config.ButtonHeight

	if g.buttonHovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.buttonPressed = true
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		if g.buttonPressed && g.buttonHovered {
			g.toggle()
		}
		g.buttonPressed = false
	}

	if !g.buttonHovered && (!g.seenPointer || mouseX != g.lastX || mouseY != g.lastY) {
		s := float64(g.size)
		g.eng.Pointer(float64(mouseX), float64(mouseY), s, s)
	}
	g.lastX, g.lastY, g.seenPointer = mouseX, mouseY, true

	g.eng.Tick()
	return nil
}

// toggle starts or stops the transport. Audio output is enabled on the first
// start, which always comes from a click or key press.
func (g *Game) toggle() {
	if !g.eng.Running() {
		if err := g.output.Enable(); err != nil {
			g.lastErr = err
			g.log.Errorf("enable audio output: %v", err)
			if g.notify != nil {
				g.notify(err)
			}
			return
		}
		g.lastErr = nil
	}
	running := g.eng.Toggle()
	g.log.Infof("transport running=%v", running)
}

func (g *Game) Draw(screen *ebiten.Image) {
	s := float64(g.size)
	g.eng.Frame(screenCanvas{dst: screen}, s, s)

	g.drawButton(screen)
	ebitenutil.DebugPrintAt(screen, g.status(), 12, 8)
}

func (g *Game) status() string {
	st := g.eng.Stats()
	state := "Stopped - click Start or press Space"
	if st.Running {
		state = "Running - move the pointer, Space to stop"
	}
	line := fmt.Sprintf("%s | %.1f BPM | %s | pulses %d ripples %d particles %d | voices %d level %.2f",
		state, st.BPM, formatDuration(st.Elapsed), st.Pulses, st.Ripples, st.Particles, g.bus.Active(), g.bus.Level(2048))
	if !g.output.Enabled() {
		line += " | audio off"
	}
	if g.lastErr != nil {
		line += " | Error: " + g.lastErr.Error()
	}
	return line
}

func (g *Game) drawButton(screen *ebiten.Image) {
	var bgColor color.Color
	if g.buttonPressed {
		bgColor = color.RGBA{R: 60, G: 80, B: 120, A: 255}
	} else if g.buttonHovered {
		bgColor = color.RGBA{R: 80, G: 100, B: 140, A: 255}
	} else {
		bgColor = color.RGBA{R: 100, G: 120, B: 160, A: 255}
	}

	vector.DrawFilledRect(screen, config.ButtonX, config.ButtonY, config.ButtonWidth, config.ButtonHeight, bgColor, false)
	borderColor := color.RGBA{R: 150, G: 170, B: 200, A: 255}
	vector.StrokeRect(screen, config.ButtonX, config.ButtonY, config.ButtonWidth, config.ButtonHeight, 2, borderColor, false)

	text := "Start"
	if g.eng.Running() {
		text = "Stop"
	}
	textWidth := len(text) * 6 // debug font glyph width
	textX := config.ButtonX + (config.ButtonWidth-textWidth)/2
	textY := config.ButtonY + (config.ButtonHeight-16)/2
	ebitenutil.DebugPrintAt(screen, text, textX, textY)
}

// Layout keeps the drawable square and tracks window resizes.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	size := min(outsideWidth, outsideHeight)
	if size < 1 {
		size = 1
	}
	g.size = size
	return size, size
}
