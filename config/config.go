// Package config holds the file configuration of the showroom and turns it into component options.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-showroom/common"
	"github.com/Carmen-Shannon/oxy-showroom/engine/camera"
	"github.com/Carmen-Shannon/oxy-showroom/engine/light"
	"github.com/Carmen-Shannon/oxy-showroom/engine/renderer"
	"github.com/Carmen-Shannon/oxy-showroom/engine/scene"
	"github.com/Carmen-Shannon/oxy-showroom/engine/selection"
	"github.com/Carmen-Shannon/oxy-showroom/engine/window"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the TOML-decoded showroom configuration.
type Config struct {
	Window    WindowConfig    `toml:"window"`
	Camera    CameraConfig    `toml:"camera"`
	Rig       RigConfig       `toml:"rig"`
	Selection SelectionConfig `toml:"selection"`
	Showroom  ShowroomConfig  `toml:"showroom"`
}

// WindowConfig configures the host window and presentation.
type WindowConfig struct {
	Title         string  `toml:"title"`
	Width         int     `toml:"width"`
	Height        int     `toml:"height"`
	VSync         bool    `toml:"vsync"`
	FrameLimit    float64 `toml:"frame_limit"`
	ForceSoftware bool    `toml:"force_software"`
}

// CameraConfig configures the projection. Fov is in degrees.
type CameraConfig struct {
	Fov  float32 `toml:"fov"`
	Near float32 `toml:"near"`
	Far  float32 `toml:"far"`
}

// RigConfig configures the camera rig and the light it carries. Pitch is in degrees.
type RigConfig struct {
	Position       [3]float32 `toml:"position"`
	Pitch          float32    `toml:"pitch"`
	PanSpeed       float32    `toml:"pan_speed"`
	Damping        float32    `toml:"damping"`
	DragThreshold  float32    `toml:"drag_threshold"`
	InvertPan      bool       `toml:"invert_pan"`
	PanButton      string     `toml:"pan_button"`
	LightOffset    [3]float32 `toml:"light_offset"`
	LightColor     [3]float32 `toml:"light_color"`
	LightIntensity float32    `toml:"light_intensity"`
	LightCone      [2]float32 `toml:"light_cone"`
	LightRange     float32    `toml:"light_range"`
}

// SelectionConfig configures the selector.
type SelectionConfig struct {
	Policy    string     `toml:"policy"`
	Offset    string     `toml:"offset"`
	Magnitude float32    `toml:"magnitude"`
	Axis      [3]float32 `toml:"axis"`
}

// ShowroomConfig configures the product row and asset loading.
type ShowroomConfig struct {
	Model      string  `toml:"model"`
	Instances  int     `toml:"instances"`
	Spacing    float32 `toml:"spacing"`
	LiftY      float32 `toml:"lift_y"`
	Background string  `toml:"background"`
	ModelColor string  `toml:"model_color"`
	Workers    int     `toml:"workers"`
}

// Default returns the configuration the showroom runs with when no file is given.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "Showroom",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Camera: CameraConfig{
			Fov:  45,
			Near: 1,
			Far:  10000,
		},
		Rig: RigConfig{
			Position:       [3]float32{0, 50, 1500},
			Pitch:          -20,
			PanSpeed:       0.5,
			Damping:        6,
			DragThreshold:  4,
			PanButton:      "left",
			LightOffset:    [3]float32{50, 50, 0},
			LightColor:     [3]float32{1, 1, 1},
			LightIntensity: 1,
			LightCone:      [2]float32{50, 60},
		},
		Selection: SelectionConfig{
			Policy:    "single",
			Offset:    "local",
			Magnitude: 80,
			Axis:      [3]float32{0, 0, 1},
		},
		Showroom: ShowroomConfig{
			Instances:  6,
			Spacing:    270,
			LiftY:      50,
			Background: "#8c8c8c",
			ModelColor: "#d9d9d9",
			Workers:    2,
		},
	}
}

// Load reads a TOML file over the defaults. Keys missing from the file keep their default value; unknown keys
// are an error. The result is validated.
//
// Parameters:
//   - path: the TOML file
//
// Returns:
//   - Config: the loaded configuration
//   - error: a read, decode or validation error
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	cfg := Default()
	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("failed to decode %s: %w\n%s", path, err, strict.String())
		}
		return Config{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes the configuration as TOML.
//
// Parameters:
//   - path: the destination file
//
// Returns:
//   - error: an encode or write error
func (c Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate reports every out-of-range or unparsable setting, each wrapped in ErrInvalidConfig.
//
// Returns:
//   - error: nil, or the joined problems
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...)))
		}
	}

	check(c.Window.Width > 0 && c.Window.Height > 0, "window size %dx%d", c.Window.Width, c.Window.Height)
	check(c.Window.FrameLimit >= 0, "window.frame_limit %v is negative", c.Window.FrameLimit)
	check(c.Camera.Fov > 0 && c.Camera.Fov < 180, "camera.fov %v outside (0, 180)", c.Camera.Fov)
	check(c.Camera.Near > 0 && c.Camera.Far > c.Camera.Near, "camera near %v / far %v", c.Camera.Near, c.Camera.Far)
	check(c.Rig.Pitch > -90 && c.Rig.Pitch < 90, "rig.pitch %v outside (-90, 90)", c.Rig.Pitch)
	check(c.Rig.Damping >= 0, "rig.damping %v is negative", c.Rig.Damping)
	check(c.Rig.DragThreshold >= 0, "rig.drag_threshold %v is negative", c.Rig.DragThreshold)
	check(c.Rig.LightCone[0] >= 0 && c.Rig.LightCone[0] <= c.Rig.LightCone[1] && c.Rig.LightCone[1] < 90,
		"rig.light_cone %v needs 0 <= inner <= outer < 90", c.Rig.LightCone)
	check(c.Rig.LightRange >= 0, "rig.light_range %v is negative", c.Rig.LightRange)
	check(c.Showroom.Instances > 0, "showroom.instances %d", c.Showroom.Instances)
	check(c.Showroom.Spacing > 0, "showroom.spacing %v", c.Showroom.Spacing)
	check(c.Showroom.Workers > 0, "showroom.workers %d", c.Showroom.Workers)

	if _, err := c.PanButton(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Background(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.ModelColor(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.SelectorOptions(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// PanButton parses rig.pan_button.
//
// Returns:
//   - common.PointerButton: the button that pans the rig
//   - error: ErrInvalidConfig for an unknown name
func (c Config) PanButton() (common.PointerButton, error) {
	switch strings.ToLower(c.Rig.PanButton) {
	case "left", "":
		return common.PointerButtonLeft, nil
	case "right":
		return common.PointerButtonRight, nil
	case "middle":
		return common.PointerButtonMiddle, nil
	}
	return 0, fmt.Errorf("%w: rig.pan_button %q", ErrInvalidConfig, c.Rig.PanButton)
}

// Background parses showroom.background, a hex RGB colour with an optional '#'.
//
// Returns:
//   - common.Color: the clear colour
//   - error: ErrInvalidConfig for a malformed value
func (c Config) Background() (common.Color, error) {
	return parseHexColor("showroom.background", c.Showroom.Background)
}

// ModelColor parses showroom.model_color, the colour every mesh is shaded with.
//
// Returns:
//   - common.Color: the model colour
//   - error: ErrInvalidConfig for a malformed value
func (c Config) ModelColor() (common.Color, error) {
	return parseHexColor("showroom.model_color", c.Showroom.ModelColor)
}

func parseHexColor(key, value string) (common.Color, error) {
	hex := strings.TrimPrefix(value, "#")
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || len(hex) != 6 {
		return common.Color{}, fmt.Errorf("%w: %s %q", ErrInvalidConfig, key, value)
	}
	return common.ColorFromHex(uint32(v)), nil
}

// SelectorOptions converts the selection section.
//
// Returns:
//   - []selection.SelectorBuilderOption: policy, offset strategy and magnitude
//   - error: ErrInvalidConfig for an unknown policy or offset name
func (c Config) SelectorOptions() ([]selection.SelectorBuilderOption, error) {
	policy, ok := selection.ParsePolicy(c.Selection.Policy)
	if !ok {
		return nil, fmt.Errorf("%w: selection.policy %q", ErrInvalidConfig, c.Selection.Policy)
	}
	strategy, ok := selection.ParseOffsetStrategy(c.Selection.Offset, mgl32.Vec3(c.Selection.Axis))
	if !ok {
		return nil, fmt.Errorf("%w: selection.offset %q", ErrInvalidConfig, c.Selection.Offset)
	}
	return []selection.SelectorBuilderOption{
		selection.WithPolicy(policy),
		selection.WithOffsetStrategy(strategy),
		selection.WithOffsetMagnitude(c.Selection.Magnitude),
	}, nil
}

// WindowOptions converts the window section.
func (c Config) WindowOptions() []window.WindowBuilderOption {
	return []window.WindowBuilderOption{
		window.WithTitle(c.Window.Title),
		window.WithWidth(c.Window.Width),
		window.WithHeight(c.Window.Height),
	}
}

// RendererOptions converts the presentation settings. Call after Validate.
func (c Config) RendererOptions() []renderer.RendererBuilderOption {
	mode := renderer.PresentModeUncapped
	if c.Window.VSync {
		mode = renderer.PresentModeVSync
	}
	bg, _ := c.Background()
	mc, _ := c.ModelColor()
	return []renderer.RendererBuilderOption{
		renderer.WithPresentMode(mode),
		renderer.WithClearColor(bg),
		renderer.WithModelColor(mc),
		renderer.WithForceSoftwareRenderer(c.Window.ForceSoftware),
	}
}

// CameraOptions converts the camera section using the window size for the aspect ratio.
func (c Config) CameraOptions() []camera.CameraBuilderOption {
	return []camera.CameraBuilderOption{
		camera.WithFov(common.DegToRad(c.Camera.Fov)),
		camera.WithNear(c.Camera.Near),
		camera.WithFar(c.Camera.Far),
		camera.WithAspect(float32(c.Window.Width) / float32(c.Window.Height)),
	}
}

// RigOptions converts the rig section, including a spot light that follows the eye. Call after Validate.
func (c Config) RigOptions() []camera.RigBuilderOption {
	button, _ := c.PanButton()
	spot := light.NewLight(light.LightTypeSpot,
		light.WithColor(mgl32.Vec3(c.Rig.LightColor)),
		light.WithIntensity(c.Rig.LightIntensity),
		light.WithSpotCone(c.Rig.LightCone[0], c.Rig.LightCone[1]),
		light.WithRange(c.Rig.LightRange),
	)
	return []camera.RigBuilderOption{
		camera.WithPosition(mgl32.Vec3(c.Rig.Position)),
		camera.WithPitch(common.DegToRad(c.Rig.Pitch)),
		camera.WithPanSpeed(c.Rig.PanSpeed),
		camera.WithDamping(c.Rig.Damping),
		camera.WithDragThreshold(c.Rig.DragThreshold),
		camera.WithInvertPan(c.Rig.InvertPan),
		camera.WithPanButton(button),
		camera.WithLightOffset(mgl32.Vec3(c.Rig.LightOffset)),
		camera.WithLight(spot),
	}
}

// SceneOptions converts the showroom layout and the selection section. Call after Validate.
func (c Config) SceneOptions() []scene.SceneBuilderOption {
	sel, _ := c.SelectorOptions()
	return []scene.SceneBuilderOption{
		scene.WithInstanceCount(c.Showroom.Instances),
		scene.WithSpacing(c.Showroom.Spacing),
		scene.WithLiftY(c.Showroom.LiftY),
		scene.WithSelectorOptions(sel...),
	}
}
