package input

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/meshfall/ecs"
)

// Source reports the keys held right now.
type Source interface {
	Poll() KeySet
}

// EbitenSource reads the keyboard through ebiten. Each logical key may be
// bound to several physical keys.
type EbitenSource struct {
	Bindings map[Key][]ebiten.Key
}

// DefaultBindings maps arrows to movement and W/S to vertical steps.
func DefaultBindings() map[Key][]ebiten.Key {
	return map[Key][]ebiten.Key{
		KeyLeft:  {ebiten.KeyArrowLeft},
		KeyRight: {ebiten.KeyArrowRight},
		KeyUp:    {ebiten.KeyArrowUp},
		KeyDown:  {ebiten.KeyArrowDown},
		KeyW:     {ebiten.KeyW},
		KeyS:     {ebiten.KeyS},
	}
}

// NewEbitenSource returns a source using DefaultBindings.
func NewEbitenSource() *EbitenSource {
	return &EbitenSource{Bindings: DefaultBindings()}
}

// Poll implements Source.
func (s *EbitenSource) Poll() KeySet {
	var set KeySet
	for key, physical := range s.Bindings {
		for _, p := range physical {
			if ebiten.IsKeyPressed(p) {
				set = set.With(key)
				break
			}
		}
	}
	return set
}

// Script replays a fixed sequence of key sets, one per poll. After the last
// frame it keeps returning the empty set, or restarts when Loop is set.
type Script struct {
	Frames []KeySet
	Loop   bool
	next   int
}

// Poll implements Source.
func (s *Script) Poll() KeySet {
	if s.next >= len(s.Frames) {
		if !s.Loop || len(s.Frames) == 0 {
			return 0
		}
		s.next = 0
	}
	set := s.Frames[s.next]
	s.next++
	return set
}

// ParseScript parses comma-separated frames such as "right+w,right,,left".
func ParseScript(s string) (*Script, error) {
	script := &Script{}
	if s == "" {
		return script, nil
	}
	for frame := range strings.SplitSeq(s, ",") {
		set, err := ParseKeySet(frame)
		if err != nil {
			return nil, err
		}
		script.Frames = append(script.Frames, set)
	}
	return script, nil
}

// PollSystem advances the Keys resource from a Source once per frame.
type PollSystem struct {
	Keys ecs.Resource[Keys]

	source Source
}

// NewPollSystem creates a system polling source.
func NewPollSystem(source Source) *PollSystem {
	return &PollSystem{source: source}
}

// Execute implements ecs.System.
func (p *PollSystem) Execute(frame *ecs.UpdateFrame) {
	keys := p.Keys.Get()
	if keys == nil {
		keys = ecs.InsertResource(frame.Storage, Keys{})
	}
	keys.Advance(p.source.Poll())
}
