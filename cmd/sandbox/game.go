package main

import (
	"fmt"
	"image/color"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/powder/camera"
	"github.com/milk9111/powder/controller"
	"github.com/milk9111/powder/input"
	"github.com/milk9111/powder/prefabs"
	"github.com/milk9111/powder/scenario"
	"github.com/milk9111/powder/space"
	"golang.design/x/clipboard"
	"golang.org/x/image/colornames"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	// turnRate is the camera yaw speed in radians per second at full stick.
	turnRate = 2.0
)

type Game struct {
	frames int

	sceneName string
	spec      *prefabs.SceneSpec
	scene     scenario.Scene
	debug     bool

	world *space.World
	ctrl  *controller.Controller
	body  *space.Body
	input *input.Source
	orbit *camera.Orbit

	watcher   *prefabs.Watcher
	playerMod time.Time
	clipboard bool
	showHUD   bool
	status    string
}

func NewGame(sceneName string, debug, watch bool) (*Game, error) {
	g := &Game{
		sceneName: sceneName,
		debug:     debug,
		input:     input.NewSource(),
		orbit:     camera.NewOrbit(mgl64.Vec3{}, 8),
		showHUD:   true,
	}
	if err := g.load(); err != nil {
		return nil, err
	}
	g.orbit.SnapTo(g.body.Position())

	if err := clipboard.Init(); err != nil {
		log.Printf("Sandbox: clipboard unavailable: %v", err)
	} else {
		g.clipboard = true
	}

	if watch {
		w, err := prefabs.NewWatcher(prefabs.DiskDir, filepath.Join(prefabs.DiskDir, "scripts"))
		if err != nil {
			log.Printf("Sandbox: hot reload disabled: %v", err)
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

// load reads the scene file and rebuilds the world from scratch. The
// controller is driven by the keyboard and gamepad whatever script the scene
// names.
func (g *Game) load() error {
	spec, err := prefabs.LoadSceneSpec(g.sceneName)
	if err != nil {
		return err
	}
	spec.Script = ""
	scene, err := scenario.SceneFromSpec(*spec)
	if err != nil {
		return err
	}
	scene.Input = g.input
	scene.Debug = scene.Debug || g.debug

	world, ctrl, body, err := scenario.Build(scene)
	if err != nil {
		return err
	}
	ctrl.SetCamera(g.orbit)

	g.spec = spec
	g.scene = scene
	g.playerMod, _ = prefabs.ModTime(spec.Player)
	g.world = world
	g.ctrl = ctrl
	g.body = body
	return nil
}

// reloadPlayer swaps the tuning in place so the character keeps moving.
func (g *Game) reloadPlayer() error {
	player, err := prefabs.LoadPlayerSpec(g.spec.Player)
	if err != nil {
		return err
	}
	cfg, err := player.Config()
	if err != nil {
		return err
	}
	cfg.Gravity = g.scene.Gravity
	if err := g.ctrl.SetConfig(cfg); err != nil {
		return err
	}
	g.ctrl.Debug = player.Debug || g.debug
	g.scene.Config = cfg
	return nil
}

func (g *Game) handleReload(path string) {
	name := filepath.Base(path)
	var err error
	switch {
	case sameFile(name, g.spec.Player):
		err = g.reloadPlayer()
	case sameFile(name, g.sceneName):
		err = g.load()
	default:
		return
	}
	if err != nil {
		g.status = fmt.Sprintf("reload %s failed: %v", name, err)
		log.Printf("Sandbox: reload %s: %v", name, err)
		return
	}
	g.status = "reloaded " + name
	log.Printf("Sandbox: reloaded %s", name)
}

func sameFile(name, ref string) bool {
	ref = filepath.Base(ref)
	if filepath.Ext(ref) == "" {
		ref += ".yaml"
	}
	return strings.EqualFold(name, ref)
}

// pollWatcher drains hot reload events. Without a watcher the disk copy of
// the player tuning is checked once a second instead.
func (g *Game) pollWatcher() {
	if g.watcher == nil {
		if g.frames%60 != 0 {
			return
		}
		if mod, ok := prefabs.ModTime(g.spec.Player); ok && mod.After(g.playerMod) {
			g.playerMod = mod
			g.handleReload(g.spec.Player)
		}
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.handleReload(path)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("Sandbox: watcher: %v", err)
		default:
			return
		}
	}
}

func (g *Game) copyTuning() {
	if !g.clipboard {
		g.status = "clipboard unavailable"
		return
	}
	spec := prefabs.NewPlayerSpec(g.spec.Player, g.body.Radius(), g.ctrl.Config())
	b, err := spec.Marshal()
	if err != nil {
		g.status = fmt.Sprintf("copy failed: %v", err)
		return
	}
	clipboard.Write(clipboard.FmtText, b)
	g.status = "tuning copied to clipboard"
}

func (g *Game) cycleLookMode() {
	cfg := g.ctrl.Config()
	cfg.LookMode = (cfg.LookMode + 1) % (controller.LookNone + 1)
	if err := g.ctrl.SetConfig(cfg); err != nil {
		g.status = err.Error()
		return
	}
	g.status = "look mode " + cfg.LookMode.String()
}

func (g *Game) Update() error {
	g.frames++
	g.pollWatcher()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		if err := g.load(); err != nil {
			g.status = err.Error()
		} else {
			g.orbit.SnapTo(g.body.Position())
			g.status = "reset"
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.copyTuning()
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		g.cycleLookMode()
	case inpututil.IsKeyJustPressed(ebiten.KeyF1):
		g.showHUD = !g.showHUD
	}

	step := g.scene.Step
	g.ctrl.Tick(step)
	g.world.Step(step)

	look := g.input.Look()
	g.orbit.Rotate(look.X()*turnRate*step, look.Y()*turnRate*step)
	g.orbit.Update(g.body.Position())
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	var bg color.Color = colornames.Black
	if g.spec.Background != nil {
		bg = g.spec.Background.Color
	}
	screen.Fill(bg)

	v := g.view(screen)
	v.drawSpace(g.world)
	v.drawCharacter(g.ctrl.State(), g.ctrl.Config())
	if g.showHUD {
		drawHUD(screen, g)
	}
}

func (g *Game) view(screen *ebiten.Image) view {
	scale := g.spec.Scale
	if scale <= 0 {
		scale = 40
	}
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	return view{
		screen: screen,
		center: g.orbit.Target,
		halfW:  float64(w) / 2,
		halfH:  float64(h) / 2,
		scale:  scale,
		player: g.body.CP(),
	}
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
