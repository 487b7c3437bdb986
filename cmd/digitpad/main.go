// inkdigit-pad: a desktop drawing pad. Draw a digit with the mouse or a
// finger; the bars on the right show the network's probabilities after
// every stroke. Press C to clear, Escape to quit.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	"github.com/gomlx/exceptions"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"

	"inkdigit/classifier"
	"inkdigit/core/ckkswrapper"
	"inkdigit/display"
	"inkdigit/nn"
	"inkdigit/surface"
	"inkdigit/utils"
)

var (
	weightsFile   = flag.String("weights", "", "Weights file")
	weightsFormat = flag.String("format", utils.FormatJSON, "Weights format: json or raw")
	canvasSize    = flag.Int("size", 280, "Side of the drawing canvas in pixels")
	penWidth      = flag.Float64("pen", surface.DefaultPenWidth, "Pen diameter in pixels")
	encrypted     = flag.Bool("encrypted", false, "Evaluate the first layer under HE encryption (slow)")
	logN          = flag.Int("logN", ckkswrapper.DefaultLogN, "Ring dimension log2")
)

const panelWidth = 240

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	config := &utils.Config{
		WeightsFile:   *weightsFile,
		WeightsFormat: *weightsFormat,
		Encrypted:     *encrypted,
		LogN:          *logN,
		TopK:          1,
	}

	var game *pad
	err := exceptions.TryCatch[error](func() { game = newPad(config) })
	if err == nil {
		ebiten.SetWindowTitle("inkdigit")
		ebiten.SetWindowSize(*canvasSize+panelWidth, *canvasSize)
		ebiten.SetTPS(60)
		err = ebiten.RunGame(game)
	}
	if err != nil {
		klog.Errorf("digitpad: %+v", err)
		klog.Flush()
		os.Exit(1)
	}
	if game != nil {
		utils.PrintTimingStats(&game.session.Stats, game.session.Predictions)
	}
}

func newPad(config *utils.Config) *pad {
	must.M(utils.ValidateConfig(config))
	params := must.M1(utils.LoadParams(config.WeightsFile, config.WeightsFormat))
	net := must.M1(nn.NewNetwork(params))
	klog.Infof("loaded %s", net)

	predictor := classifier.Plain(net)
	if config.Encrypted {
		he := must.M1(ckkswrapper.NewHeContextWithLogN(config.LogN, nn.InputSize))
		predictor = must.M1(nn.NewPrivateNetwork(net, he))
	}

	canvas := surface.NewCanvas(*canvasSize, *canvasSize)
	canvas.SetPen(*penWidth, surface.DefaultInk)

	g := &pad{
		size: *canvasSize,
		rgba: image.NewRGBA(canvas.Bounds()),
	}
	g.session = classifier.NewSession(canvas, predictor, &g.bars)
	// initial prediction on the blank canvas
	must.M1(g.session.Refresh())
	g.dirty = true
	return g
}

// bars is the window's display: it keeps the probabilities for Draw.
type bars struct {
	probs nn.Probabilities
	valid bool
}

func (b *bars) Render(p nn.Probabilities) error {
	b.probs, b.valid = p, true
	return nil
}

type pad struct {
	session *classifier.Session
	bars    bars
	size    int

	rgba   *image.RGBA
	canvas *ebiten.Image
	dirty  bool

	touch    ebiten.TouchID
	touching bool
}

var background = color.RGBA{0x1e, 0x1e, 0x1e, 0xff}

func (g *pad) inCanvas(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.size && y < g.size
}

func (g *pad) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		if _, err := g.session.Clear(); err != nil {
			return err
		}
		g.dirty = true
		return nil
	}

	if err := g.updateTouch(); err != nil {
		return err
	}
	if g.touching {
		return nil
	}

	x, y := ebiten.CursorPosition()
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && g.inCanvas(x, y):
		g.session.PointerDown(float64(x), float64(y))
		g.dirty = true
	case g.session.Canvas.Drawing() && !g.inCanvas(x, y):
		_, err := g.session.PointerLeave()
		return err
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) && g.session.Canvas.Drawing():
		g.session.PointerMove(float64(x), float64(y))
		_, err := g.session.PointerUp()
		g.dirty = true
		return err
	case g.session.Canvas.Drawing():
		g.session.PointerMove(float64(x), float64(y))
		g.dirty = true
	}
	return nil
}

func (g *pad) updateTouch() error {
	if !g.touching {
		for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
			x, y := ebiten.TouchPosition(id)
			if g.inCanvas(x, y) {
				g.touch, g.touching = id, true
				g.session.PointerDown(float64(x), float64(y))
				g.dirty = true
				break
			}
		}
		return nil
	}
	if inpututil.IsTouchJustReleased(g.touch) {
		g.touching = false
		_, err := g.session.PointerUp()
		g.dirty = true
		return err
	}
	x, y := ebiten.TouchPosition(g.touch)
	g.session.PointerMove(float64(x), float64(y))
	g.dirty = true
	return nil
}

func (g *pad) Draw(screen *ebiten.Image) {
	screen.Fill(background)

	if g.canvas == nil {
		g.canvas = ebiten.NewImage(g.size, g.size)
	}
	if g.dirty {
		// composite the transparent stroke raster over the background
		draw.Draw(g.rgba, g.rgba.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
		draw.Draw(g.rgba, g.rgba.Bounds(), g.session.Canvas.Snapshot(), image.Point{}, draw.Over)
		g.canvas.WritePixels(g.rgba.Pix)
		g.dirty = false
	}
	screen.DrawImage(g.canvas, nil)

	g.drawBars(screen)
}

func (g *pad) drawBars(screen *ebiten.Image) {
	if !g.bars.valid {
		return
	}
	const margin, labelHeight = 12, 16
	left := float32(g.size + margin)
	slot := float32(panelWidth-2*margin) / nn.OutputSize
	maxHeight := float32(g.size - 3*labelHeight - 2*margin)
	bottom := float32(g.size - labelHeight - margin)

	best := g.bars.probs.Argmax()
	for digit, p := range g.bars.probs {
		h := float32(display.BarHeight(p)) / 100 * maxHeight
		x := left + float32(digit)*slot
		clr := color.Color(display.BarColor)
		if digit != best {
			clr = color.RGBA{0x3a, 0x7f, 0x55, 0xff}
		}
		vector.DrawFilledRect(screen, x+2, bottom-h, slot-4, h, clr, false)
		ebitenutil.DebugPrintAt(screen, fmt.Sprint(digit), int(x+slot/2)-3, int(bottom)+2)
	}
	ebitenutil.DebugPrintAt(screen,
		fmt.Sprintf("%d  %s", best, display.Title(g.bars.probs[best])),
		int(left), margin)
	ebitenutil.DebugPrintAt(screen, "C: clear  Esc: quit", int(left), margin+labelHeight)
}

func (g *pad) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.size + panelWidth, g.size
}
