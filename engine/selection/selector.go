package selection

import (
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-showroom/common"
	"github.com/Carmen-Shannon/oxy-showroom/engine/instance"
	"github.com/Carmen-Shannon/oxy-showroom/engine/picking"
	"github.com/go-gl/mathgl/mgl32"
)

// Key addresses one instance of one registered renderable.
type Key struct {
	Renderable instance.ID
	Index      int
}

// Policy controls how clicks on instances combine.
type Policy int

const (
	// PolicySingle keeps at most one instance selected. Selecting another instance restores the previous one.
	PolicySingle Policy = iota
	// PolicyMulti toggles instances independently.
	PolicyMulti
)

// String returns the config name of the policy.
func (p Policy) String() string {
	switch p {
	case PolicySingle:
		return "single"
	case PolicyMulti:
		return "multi"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// selector is the implementation of the Selector interface.
type selector struct {
	registry   instance.Registry
	picker     picking.Picker
	policy     Policy
	strategy   OffsetStrategy
	magnitude  float32
	eye        func() mgl32.Vec3
	logger     *slog.Logger
	selected   []Key
	onSelect   []func(Key)
	onDeselect []func(Key)
}

// Selector is the click-driven selection state machine.
// A selected instance is displaced from its registered transform by a fixed offset; deselecting
// it writes the registered transform back unchanged.
//
// Under PolicySingle the transitions are:
//   - nothing selected, click on H: offset H, select H
//   - H selected, click on H: restore H, nothing selected
//   - S selected, click on H: restore S, offset H, select H (deselect fires before select)
//   - any state, click on nothing: no change
type Selector interface {
	// HandleClick picks the instance under a pointer position and applies the resulting transition.
	//
	// Parameters:
	//   - x, y: the pointer position in client coordinates
	//   - vp: the surface bounding rectangle
	//   - proj: the camera matrices
	//
	// Returns:
	//   - error: a registry error that aborted the transition
	HandleClick(x, y float32, vp picking.Viewport, proj picking.Projector) error

	// Click applies the transition for an already resolved pick.
	//
	// Parameters:
	//   - hit: the pick result
	//   - ok: false for a miss
	//
	// Returns:
	//   - error: a registry error that aborted the transition
	Click(hit picking.Hit, ok bool) error

	// Selected retrieves the current selection in selection order.
	//
	// Returns:
	//   - []Key: the selected instances, empty when nothing is selected
	Selected() []Key

	// IsSelected reports whether an instance is selected.
	//
	// Parameters:
	//   - k: the instance key
	//
	// Returns:
	//   - bool: true if selected
	IsSelected(k Key) bool

	// Clear restores every selected instance and empties the selection.
	//
	// Returns:
	//   - error: the first restore failure; instances that failed stay selected
	Clear() error

	// OnSelect subscribes fn to selection events.
	//
	// Parameters:
	//   - fn: called with the newly selected instance
	OnSelect(fn func(Key))

	// OnDeselect subscribes fn to deselection events.
	//
	// Parameters:
	//   - fn: called with the instance that was restored
	OnDeselect(fn func(Key))

	// Policy retrieves the active selection policy.
	//
	// Returns:
	//   - Policy: the policy
	Policy() Policy
}

var _ Selector = &selector{}

// NewSelector creates a new Selector over the given registry and picker with the provided options.
// Defaults: PolicySingle, LocalForward offsets of 80 units.
//
// Parameters:
//   - registry: the registry whose transforms are displaced
//   - picker: the picker used by HandleClick
//   - options: variadic list of SelectorBuilderOption functions to configure the Selector
//
// Returns:
//   - Selector: the newly created Selector instance
func NewSelector(registry instance.Registry, picker picking.Picker, options ...SelectorBuilderOption) Selector {
	if registry == nil || picker == nil {
		panic("selection: NewSelector requires a registry and a picker")
	}
	s := &selector{
		registry:  registry,
		picker:    picker,
		policy:    PolicySingle,
		strategy:  LocalForward{},
		magnitude: 80,
		eye:       func() mgl32.Vec3 { return mgl32.Vec3{} },
		logger:    slog.Default(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *selector) HandleClick(x, y float32, vp picking.Viewport, proj picking.Projector) error {
	hit, ok := s.picker.Pick(x, y, vp, proj)
	return s.Click(hit, ok)
}

func (s *selector) Click(hit picking.Hit, ok bool) error {
	if !ok {
		s.logger.Debug("click missed every instance")
		return nil
	}
	k := Key{Renderable: hit.Renderable, Index: hit.Index}

	var err error
	switch s.policy {
	case PolicyMulti:
		err = s.toggle(k)
	default:
		err = s.single(k)
	}
	if err != nil {
		s.logger.Error("selection transition aborted", "renderable", k.Renderable, "index", k.Index, "error", err)
	}
	return err
}

func (s *selector) single(k Key) error {
	if len(s.selected) > 0 {
		prev := s.selected[0]
		if err := s.restore(prev); err != nil {
			return err
		}
		s.selected = s.selected[:0]
		s.emitDeselect(prev)
		if prev == k {
			return nil
		}
	}
	if err := s.displace(k); err != nil {
		return err
	}
	s.selected = append(s.selected, k)
	s.emitSelect(k)
	return nil
}

func (s *selector) toggle(k Key) error {
	if i := s.indexOf(k); i >= 0 {
		if err := s.restore(k); err != nil {
			return err
		}
		s.selected = append(s.selected[:i], s.selected[i+1:]...)
		s.emitDeselect(k)
		return nil
	}
	if err := s.displace(k); err != nil {
		return err
	}
	s.selected = append(s.selected, k)
	s.emitSelect(k)
	return nil
}

func (s *selector) Selected() []Key {
	return append([]Key(nil), s.selected...)
}

func (s *selector) IsSelected(k Key) bool {
	return s.indexOf(k) >= 0
}

func (s *selector) Clear() error {
	for len(s.selected) > 0 {
		k := s.selected[0]
		if err := s.restore(k); err != nil {
			s.logger.Error("clear selection aborted", "renderable", k.Renderable, "index", k.Index, "error", err)
			return err
		}
		s.selected = s.selected[1:]
		s.emitDeselect(k)
	}
	s.selected = nil
	return nil
}

func (s *selector) OnSelect(fn func(Key)) {
	if fn != nil {
		s.onSelect = append(s.onSelect, fn)
	}
}

func (s *selector) OnDeselect(fn func(Key)) {
	if fn != nil {
		s.onDeselect = append(s.onDeselect, fn)
	}
}

func (s *selector) Policy() Policy {
	return s.policy
}

// displace writes original + offset into the registry. The offset is always taken from the
// registered transform so repeated selections never accumulate.
func (s *selector) displace(k Key) error {
	orig, err := s.registry.Original(k.Renderable, k.Index)
	if err != nil {
		return fmt.Errorf("select %v: %w", k, err)
	}
	dir := s.strategy.Direction(orig, s.eye())
	moved := common.WithTranslation(orig, common.Translation(orig).Add(dir.Mul(s.magnitude)))
	if err := s.registry.SetTransform(k.Renderable, k.Index, moved); err != nil {
		return fmt.Errorf("select %v: %w", k, err)
	}
	return nil
}

func (s *selector) restore(k Key) error {
	orig, err := s.registry.Original(k.Renderable, k.Index)
	if err != nil {
		return fmt.Errorf("deselect %v: %w", k, err)
	}
	if err := s.registry.SetTransform(k.Renderable, k.Index, orig); err != nil {
		return fmt.Errorf("deselect %v: %w", k, err)
	}
	return nil
}

func (s *selector) indexOf(k Key) int {
	for i, sel := range s.selected {
		if sel == k {
			return i
		}
	}
	return -1
}

func (s *selector) emitSelect(k Key) {
	s.logger.Info("instance selected", "renderable", k.Renderable, "index", k.Index)
	for _, fn := range s.onSelect {
		fn(k)
	}
}

func (s *selector) emitDeselect(k Key) {
	s.logger.Info("instance deselected", "renderable", k.Renderable, "index", k.Index)
	for _, fn := range s.onDeselect {
		fn(k)
	}
}
