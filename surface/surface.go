// Package surface is the desktop rendering surface: an ebiten game loop
// that feeds pointer events to the gesture controller, applies queued host
// writes at frame boundaries, and blits the software framebuffer.
package surface

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"grandtour/bridge"
	"grandtour/engine"
	"grandtour/render"
	"grandtour/tour"
)

// Config sets up the window.
type Config struct {
	Width  int
	Height int
	Title  string

	// Tour, when non-nil, can be toggled with the T key.
	Tour tour.Driver
}

const tps = 60

// Surface drives one session on one window.
type Surface struct {
	cfg Config

	sess  *engine.Session
	g     *engine.Gestures
	pub   *bridge.Publisher
	inbox *bridge.Inbox

	vp     engine.Viewport
	fb     *render.Framebuffer
	img    *ebiten.Image
	frame  render.Frame
	writes []bridge.PropWrite

	tourOn bool
}

// New creates a surface. pub and inbox may be nil for a standalone viewer.
func New(cfg Config, sess *engine.Session, pub *bridge.Publisher, inbox *bridge.Inbox) *Surface {
	if cfg.Width <= 0 {
		cfg.Width = 640
	}
	if cfg.Height <= 0 {
		cfg.Height = 640
	}
	return &Surface{
		cfg:   cfg,
		sess:  sess,
		g:     engine.NewGestures(sess),
		pub:   pub,
		inbox: inbox,
		vp:    engine.Viewport{W: cfg.Width, H: cfg.Height},
		fb:    render.NewFramebuffer(cfg.Width, cfg.Height),
	}
}

// Run opens the window and blocks until it closes. Any gesture in flight at
// detach is aborted without committing, and pending coalesced updates are
// dropped.
func Run(cfg Config, sess *engine.Session, pub *bridge.Publisher, inbox *bridge.Inbox) error {
	s := New(cfg, sess, pub, inbox)
	title := cfg.Title
	if title == "" {
		title = "grandtour"
	}
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetTPS(tps)

	err := ebiten.RunGame(s)
	s.detach()
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

func (s *Surface) detach() {
	s.g.Abort()
	if s.pub != nil {
		s.pub.Reset()
	}
}

func (s *Surface) modifiers() engine.Modifier {
	var m engine.Modifier
	if ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		m |= engine.ModSelect
	}
	if ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		m |= engine.ModFlip
	}
	return m
}

// Update runs once per tick: host writes first (atomically, at the frame
// boundary), then pointer input, then the coalesced publish flush.
func (s *Surface) Update() error {
	if s.inbox != nil {
		s.writes = s.inbox.Drain(s.writes, s.pub)
		bridge.Apply(s.sess, s.writes, s.pub)
	}

	cx, cy := ebiten.CursorPosition()
	pos := mgl64.Vec2{float64(cx), float64(cy)}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		s.g.PointerDown(s.vp, pos, s.modifiers())
	} else if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		s.g.PointerMove(s.vp, pos)
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		if s.g.PointerUp(s.vp, pos) && s.pub != nil {
			s.pub.PublishSelection(s.sess.Selection())
		}
	}

	if s.cfg.Tour != nil && inpututil.IsKeyJustPressed(ebiten.KeyT) {
		s.tourOn = !s.tourOn
	}
	if s.tourOn && s.g.Phase() == engine.GestureIdle {
		s.cfg.Tour.Step(s.sess.Axes(), 1.0/tps)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if s.pub != nil {
		s.pub.Flush()
	}
	return nil
}

// Draw rebuilds and blits the frame.
func (s *Surface) Draw(screen *ebiten.Image) {
	s.frame.Build(s.sess, s.g, s.vp)
	s.frame.Draw(s.fb)

	if s.img == nil {
		s.img = ebiten.NewImage(s.cfg.Width, s.cfg.Height)
	}
	s.img.WritePixels(s.fb.Pix())
	screen.DrawImage(s.img, nil)
}

// Layout reports the fixed canvas size.
func (s *Surface) Layout(outsideWidth, outsideHeight int) (int, int) {
	return s.cfg.Width, s.cfg.Height
}
