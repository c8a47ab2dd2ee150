package editor

import "time"

// Action is a named mutation applied by Store.Dispatch.
type Action interface {
	Name() string
}

type (
	AddScene      struct{ Label string }
	RemoveScene   struct{ ID string }
	ReorderScenes struct{ From, To int }
	MoveScene     struct {
		ID string
		To int
	}
	UpdateScene struct{ Scene Scene }

	AddSubtitle      struct{ Block SubtitleBlock }
	RemoveSubtitle   struct{ ID string }
	ReorderSubtitles struct{ From, To int }
	UpdateSubtitle   struct{ Block SubtitleBlock }

	AddAudioTrack struct {
		Track  string
		Source string
	}
	RemoveAudioTrack   struct{ ID string }
	ReorderAudioTracks struct{ From, To int }
	ToggleMute         struct{ ID string }

	SelectImage     struct{ Src string }
	SetOverlayStyle struct{ Style StyleUpdate }
	ResetOverlay    struct{}

	PointerDown struct {
		At      Point
		Surface Surface
	}
	PointerMove struct {
		At      Point
		Surface Surface
	}
	PointerUp struct{}

	Tick       struct{}
	Seek       struct{ Time float64 }
	TogglePlay struct{}
	LoadMedia  struct {
		Path     string
		Duration float64
	}
)

func (AddScene) Name() string           { return "add_scene" }
func (RemoveScene) Name() string        { return "remove_scene" }
func (ReorderScenes) Name() string      { return "reorder_scenes" }
func (MoveScene) Name() string          { return "move_scene" }
func (UpdateScene) Name() string        { return "update_scene" }
func (AddSubtitle) Name() string        { return "add_subtitle" }
func (RemoveSubtitle) Name() string     { return "remove_subtitle" }
func (ReorderSubtitles) Name() string   { return "reorder_subtitles" }
func (UpdateSubtitle) Name() string     { return "update_subtitle" }
func (AddAudioTrack) Name() string      { return "add_audio_track" }
func (RemoveAudioTrack) Name() string   { return "remove_audio_track" }
func (ReorderAudioTracks) Name() string { return "reorder_audio_tracks" }
func (ToggleMute) Name() string         { return "toggle_mute" }
func (SelectImage) Name() string        { return "select_image" }
func (SetOverlayStyle) Name() string    { return "set_overlay_style" }
func (ResetOverlay) Name() string       { return "reset_overlay" }
func (PointerDown) Name() string        { return "pointer_down" }
func (PointerMove) Name() string        { return "pointer_move" }
func (PointerUp) Name() string          { return "pointer_up" }
func (Tick) Name() string               { return "tick" }
func (Seek) Name() string               { return "seek" }
func (TogglePlay) Name() string         { return "toggle_play" }
func (LoadMedia) Name() string          { return "load_media" }

// Event is delivered to subscribers after every dispatch.
type Event struct {
	Action  string
	Changed bool
}

// Listener observes dispatched actions.
type Listener func(Event)

// Options configures a new Store.
type Options struct {
	SceneDuration      float64
	SeedDemo           bool
	Clock              ClockOptions
	SubtitleStyle      SubtitleStyle
	HandleSize         float64
	PreserveGrabOffset bool
}

// Media is the video currently driving the preview.
type Media struct {
	Path     string  `json:"path"`
	Duration float64 `json:"duration"`
}

// Store is the single state container for an editing session. It is not
// safe for concurrent use: one event loop owns it and other goroutines read
// Snapshots.
type Store struct {
	timeline  *SceneTimeline
	subtitles *SubtitleTrack
	audio     *AudioTracks
	gesture   *OverlayGesture
	clock     *Clock
	style     SubtitleStyle
	media     Media
	listeners []Listener
}

func NewStore(opts Options) *Store {
	style := opts.SubtitleStyle
	if style.Font == "" && style.Size == 0 {
		style = DefaultSubtitleStyle()
	}
	s := &Store{
		timeline:  NewSceneTimeline(opts.SceneDuration),
		subtitles: NewSubtitleTrack(),
		audio:     NewAudioTracks(),
		gesture:   NewOverlayGesture(DefaultOverlay()),
		clock:     NewClock(opts.Clock),
		style:     style,
	}
	if opts.HandleSize > 0 {
		s.gesture.HandleSize = opts.HandleSize
	}
	s.gesture.PreserveGrabOffset = opts.PreserveGrabOffset
	if opts.SeedDemo {
		s.timeline.Seed(DemoScenes()...)
		s.audio.Seed(DemoAudioTracks()...)
	}
	s.media.Duration = s.clock.Duration()
	return s
}

// Subscribe registers fn for every subsequent dispatch.
func (s *Store) Subscribe(fn Listener) {
	if fn != nil {
		s.listeners = append(s.listeners, fn)
	}
}

// Dispatch applies a to the state and reports whether anything changed.
// Invalid or unknown actions leave the state untouched.
func (s *Store) Dispatch(a Action) bool {
	if a == nil {
		return false
	}
	changed := s.apply(a)
	ev := Event{Action: a.Name(), Changed: changed}
	for _, fn := range s.listeners {
		fn(ev)
	}
	return changed
}

func (s *Store) apply(a Action) bool {
	switch act := a.(type) {
	case AddScene:
		s.timeline.Append(act.Label)
		return true
	case RemoveScene:
		return s.timeline.Remove(act.ID)
	case ReorderScenes:
		return s.timeline.Reorder(act.From, act.To)
	case MoveScene:
		return s.timeline.Move(act.ID, act.To)
	case UpdateScene:
		return s.timeline.Update(act.Scene)

	case AddSubtitle:
		_, ok := s.subtitles.Add(act.Block)
		return ok
	case RemoveSubtitle:
		return s.subtitles.Remove(act.ID)
	case ReorderSubtitles:
		return s.subtitles.Reorder(act.From, act.To)
	case UpdateSubtitle:
		return s.subtitles.Update(act.Block)

	case AddAudioTrack:
		s.audio.Add(act.Track, act.Source)
		return true
	case RemoveAudioTrack:
		return s.audio.Remove(act.ID)
	case ReorderAudioTracks:
		return s.audio.Reorder(act.From, act.To)
	case ToggleMute:
		return s.audio.ToggleMute(act.ID)

	case SelectImage:
		before := s.gesture.Overlay()
		s.gesture.SetOverlay(before.WithImage(act.Src))
		return s.gesture.Overlay() != before
	case SetOverlayStyle:
		before := s.gesture.Overlay()
		s.gesture.SetOverlay(before.WithStyle(act.Style))
		return s.gesture.Overlay() != before
	case ResetOverlay:
		before := s.gesture.Overlay()
		s.gesture.Reset()
		return s.gesture.Overlay() != before

	case PointerDown:
		return s.gesture.PointerDown(act.At, act.Surface) != HitNone
	case PointerMove:
		return s.gesture.PointerMove(act.At, act.Surface)
	case PointerUp:
		was := s.gesture.State()
		s.gesture.PointerUp()
		return was != Idle

	case Tick:
		return s.clock.Tick()
	case Seek:
		before := s.clock.Position()
		s.clock.Seek(act.Time)
		return s.clock.Position() != before
	case TogglePlay:
		s.clock.Toggle()
		return true
	case LoadMedia:
		if !s.clock.SetDuration(act.Duration) {
			return false
		}
		s.clock.Seek(0)
		s.media = Media{Path: act.Path, Duration: act.Duration}
		return true
	}
	return false
}

// AddSubtitleBlock is like Dispatch(AddSubtitle{...}) but returns the stored
// block so the caller can select it.
func (s *Store) AddSubtitleBlock(block SubtitleBlock) (SubtitleBlock, bool) {
	added, ok := s.subtitles.Add(block)
	ev := Event{Action: AddSubtitle{}.Name(), Changed: ok}
	for _, fn := range s.listeners {
		fn(ev)
	}
	return added, ok
}

func (s *Store) SubtitleStyle() SubtitleStyle { return s.style }
func (s *Store) Position() float64            { return s.clock.Position() }
func (s *Store) Duration() float64            { return s.clock.Duration() }
func (s *Store) Playing() bool                { return s.clock.Playing() }
func (s *Store) Period() time.Duration        { return s.clock.Period() }
func (s *Store) Gesture() GestureState        { return s.gesture.State() }
func (s *Store) Overlay() Overlay             { return s.gesture.Overlay() }
func (s *Store) Scenes() []Scene              { return s.timeline.Scenes() }
func (s *Store) Subtitles() []SubtitleBlock   { return s.subtitles.Blocks() }
func (s *Store) AudioTracks() []AudioTrack    { return s.audio.Tracks() }

// Snapshot is a deep copy of the editor state. It shares nothing with the
// store and may be handed to other goroutines.
type Snapshot struct {
	Scenes    []Scene         `json:"scenes"`
	Subtitles []SubtitleBlock `json:"subtitles"`
	Audio     []AudioTrack    `json:"audio"`
	Overlay   Overlay         `json:"overlay"`
	Media     Media           `json:"media"`
	Time      float64         `json:"-"`
	Playing   bool            `json:"-"`
	Gesture   GestureState    `json:"-"`
}

func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Scenes:    s.timeline.Scenes(),
		Subtitles: s.subtitles.Blocks(),
		Audio:     s.audio.Tracks(),
		Overlay:   s.gesture.Overlay(),
		Media:     Media{Path: s.media.Path, Duration: s.clock.Duration()},
		Time:      s.clock.Position(),
		Playing:   s.clock.Playing(),
		Gesture:   s.gesture.State(),
	}
}

// Frame is what the compositor paints at one instant.
type Frame struct {
	Time     float64
	Duration float64
	Active   []SubtitleBlock
	Overlay  Overlay
	Scene    *Scene
}

// Frame resolves the composition at the current clock position.
func (s *Store) Frame() Frame {
	t := s.clock.Position()
	f := Frame{
		Time:     t,
		Duration: s.clock.Duration(),
		Active:   s.subtitles.ActiveAt(t),
		Overlay:  s.gesture.Overlay(),
	}
	if scene, ok := s.timeline.SceneAt(t); ok {
		f.Scene = &scene
	}
	return f
}
