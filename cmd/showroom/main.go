// Command showroom displays a row of identical product copies that can be panned and inspected.
package main

import (
	"log/slog"
	"os"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/cli"
	"github.com/Carmen-Shannon/oxy-showroom/common"
	"github.com/Carmen-Shannon/oxy-showroom/config"
	"github.com/Carmen-Shannon/oxy-showroom/engine"
	"github.com/Carmen-Shannon/oxy-showroom/engine/camera"
	"github.com/Carmen-Shannon/oxy-showroom/engine/loader"
	"github.com/Carmen-Shannon/oxy-showroom/engine/model"
	"github.com/Carmen-Shannon/oxy-showroom/engine/renderer"
	"github.com/Carmen-Shannon/oxy-showroom/engine/scene"
	"github.com/Carmen-Shannon/oxy-showroom/engine/window"
	"github.com/go-gl/mathgl/mgl32"
)

// Options is the command line of the showroom.
type Options struct {

	// Model is the glTF or GLB file to display. Overrides showroom.model from the config file.
	// A placeholder box is shown when neither is set.
	Model string `posarg:"0" required:"-"`

	// Config is an optional TOML configuration file.
	Config string `flag:"c,config"`

	// Profile logs frame rate and memory statistics once per second.
	Profile bool `flag:"p,profile"`

	// Debug enables debug level logging.
	Debug bool `flag:"d,debug"`
}

func main() {
	opts := cli.DefaultOptions("showroom", "Showroom displays a row of product copies that can be panned, clicked and inspected.")
	cli.Run(opts, &Options{}, Run)
}

// Run wires the configuration, window, renderer, loader and scene together and blocks until the window closes.
func Run(o *Options) error { //cli:cmd -root
	level := slog.LevelInfo
	if o.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := config.Default()
	if o.Config != "" {
		loaded, err := config.Load(o.Config)
		if err != nil {
			return errors.Log(err)
		}
		cfg = loaded
	}

	win, err := window.NewWindow(cfg.WindowOptions()...)
	if err != nil {
		return errors.Log(err)
	}
	defer func() { errors.Log(win.Close()) }()

	rend, err := renderer.NewRenderer(renderer.BackendTypeWGPU, win, append(cfg.RendererOptions(), renderer.WithLogger(logger))...)
	if err != nil {
		return errors.Log(err)
	}
	defer rend.Release()

	ld := loader.NewLoader(loader.WithWorkers(cfg.Showroom.Workers), loader.WithLogger(logger))

	cam := camera.NewCamera(cfg.CameraOptions()...)
	rig := camera.NewRig(append(cfg.RigOptions(), camera.WithLogger(logger))...)
	showroom := scene.NewScene("showroom", cam, rig, append(cfg.SceneOptions(),
		scene.WithLoader(ld),
		scene.WithInstanceSink(rend.InstanceSink()),
		scene.WithOverlay(&logOverlay{logger: logger}),
		scene.WithSurfaceBounds(win),
		scene.WithCapturer(win),
		scene.WithLogger(logger),
	)...)

	if path := common.Coalesce(o.Model, cfg.Showroom.Model); path != "" {
		if _, err := showroom.LoadModel(path); err != nil {
			return errors.Log(err)
		}
	} else {
		errors.Log(showroom.Populate(placeholder()))
	}

	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithRenderer(rend),
		engine.WithScene(0, showroom),
		engine.WithProfiling(o.Profile),
		engine.WithRenderFrameLimit(cfg.Window.FrameLimit),
		engine.WithLogger(logger),
	)
	return errors.Log(eng.Run())
}

// placeholder is a speaker-sized box shown when no model file is configured.
func placeholder() model.Model {
	return model.NewModel(
		model.WithName("placeholder"),
		model.WithMeshes(model.NewBoxMesh("cabinet", mgl32.Vec3{100, 200, 100})),
	)
}
