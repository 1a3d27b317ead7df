package game

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/sigmahq/sigma/internal/audio"
	"github.com/sigmahq/sigma/internal/catalog"
)

// Catalog supplies mission descriptors and records outcomes. Persistence
// failures from Report are non-fatal to the engine.
type Catalog interface {
	List() ([]catalog.Descriptor, error)
	Detail(id uint) (catalog.Detail, error)
	Report(id uint, outcome string, elapsed time.Duration) error
}

// AssetLoader resolves asset keys into ready-to-use handles. Load must be
// idempotent: the loading state may re-enter after a menu round trip.
type AssetLoader interface {
	Load(key string) error
}

// Sound is the cue coordination surface the engine drives on transitions.
// Every error is logged and swallowed; audio never blocks a transition.
type Sound interface {
	Play(name string, cat audio.Category, opts audio.Options) error
	Stop(cat audio.Category, fade time.Duration)
	Step(dt time.Duration)
	ToggleMute() bool
	Muted() bool
}

// Asset keys fetched during the boot warm-up and before a mission starts.
var (
	bootAssetKeys = []string{
		"fonts/terminal",
		"sounds/select",
		"sounds/confirm",
		"sounds/back",
		"sounds/menu_theme",
	}
	missionAssetKeys = []string{
		"sounds/hack_start",
		"sounds/download",
		"sounds/decrypt",
		"sounds/mission_theme",
		"sounds/failure",
		"sounds/abort",
		"sounds/loading_loop",
	}
)

type loadKind int

const (
	loadBoot loadKind = iota
	loadMission
)

// loadResult is delivered by a fetch goroutine when it finishes.
type loadResult struct {
	gen    int
	kind   loadKind
	menu   []catalog.Descriptor
	detail catalog.Detail
	err    error
}

// fetch is one outstanding asynchronous load. The goroutine bumps done as
// it resolves keys; the tick loop reads it to drive the progress fraction.
type fetch struct {
	gen       int
	kind      loadKind
	missionID uint
	keys      []string
	total     int
	done      atomic.Int32
}

// Deps are the collaborators injected into the Engine at construction.
type Deps struct {
	Catalog Catalog
	Assets  AssetLoader
	Sound   Sound
	Log     zerolog.Logger
}

// Engine is the game state machine and session owner. It is single
// threaded: all mutation happens inside Tick, and a transition's side
// effects are fully applied before Tick returns.
type Engine struct {
	catalog Catalog
	assets  AssetLoader
	sound   Sound
	log     zerolog.Logger

	state    State
	tick     int
	menu     []catalog.Descriptor
	selected int
	session  *Session
	record   *CompletionRecord
	feed     *TermFeed

	gen          int
	pending      *fetch
	results      chan loadResult
	loadErr      error
	progressFrac float64
	curKind      loadKind
	curMissionID uint

	// sessionFresh marks a session created this tick; it starts advancing
	// on the next tick so it is observed with elapsed zero first.
	sessionFresh bool
}

// New builds an Engine and kicks off the boot warm-up fetch. The engine
// starts in the loading state.
func New(deps Deps) *Engine {
	e := &Engine{
		catalog: deps.Catalog,
		assets:  deps.Assets,
		sound:   deps.Sound,
		log:     deps.Log,
		state:   StateLoading,
		feed:    NewTermFeed(),
		results: make(chan loadResult, 4),
	}
	e.feed.Add(0, "SIGMA PROTOCOL BOOT SEQUENCE")
	e.issueFetch(loadBoot, 0)
	return e
}

// State returns the current state tag.
func (e *Engine) State() State { return e.state }

// Tick consumes one frame's input events plus the elapsed frame time and
// returns a fresh render snapshot. Events are applied in order; transition
// side effects are applied atomically within the tick.
func (e *Engine) Tick(events []Event, dt time.Duration) ViewModel {
	e.tick++
	for _, ev := range events {
		e.advance(ev)
	}
	e.pollLoads()
	if e.state == StatePlaying && e.session != nil && !e.sessionFresh {
		if outcome, done := e.session.Tick(dt); done {
			e.finishMission(outcome)
		}
	}
	e.sessionFresh = false
	e.sound.Step(dt)
	return e.viewModel()
}

// advance applies a single trigger to the state machine and returns the
// (possibly unchanged) new state. It is deterministic in (state, session,
// event). Events invalid for the current state are defensive no-ops.
func (e *Engine) advance(ev Event) State {
	if ev == EventToggleMute {
		if e.sound.ToggleMute() {
			e.feed.Add(e.tick, "AUDIO CHANNEL MUTED")
		} else {
			e.feed.Add(e.tick, "AUDIO CHANNEL OPEN")
		}
		return e.state
	}

	switch e.state {
	case StateLoading:
		e.advanceLoading(ev)
	case StateMenu:
		e.advanceMenu(ev)
	case StatePlaying:
		e.advancePlaying(ev)
	case StateCompletion:
		e.advanceCompletion(ev)
	}
	return e.state
}

func (e *Engine) advanceLoading(ev Event) {
	switch ev {
	case EventConfirm:
		// Retry after a failed load.
		if e.loadErr != nil {
			e.feed.Add(e.tick, "RETRYING UPLINK")
			e.issueFetch(e.curKind, e.curMissionID)
		}
	case EventBack:
		// Cancel a mission load and return to the menu. The outstanding
		// fetch is not interrupted; its eventual result is stale and gets
		// discarded. During the boot warm-up there is no menu to return
		// to, so back is ignored.
		if e.menu == nil {
			return
		}
		e.gen++
		e.pending = nil
		e.loadErr = nil
		e.feed.Add(e.tick, "LINK TERMINATED BY OPERATOR")
		e.enterMenu()
	default:
		e.log.Debug().Stringer("event", ev).Stringer("state", e.state).Msg("event ignored")
	}
}

func (e *Engine) advanceMenu(ev Event) {
	switch ev {
	case EventUp:
		if len(e.menu) > 0 {
			e.selected = (e.selected - 1 + len(e.menu)) % len(e.menu)
			e.playSFX("select", audio.Options{})
		}
	case EventDown:
		if len(e.menu) > 0 {
			e.selected = (e.selected + 1) % len(e.menu)
			e.playSFX("select", audio.Options{})
		}
	case EventConfirm:
		if len(e.menu) == 0 {
			return
		}
		// Completed missions may be re-selected; no special case.
		target := e.menu[e.selected]
		e.playSFX("confirm", audio.Options{})
		e.playMusic("loading_loop")
		e.feed.Add(e.tick, "ACCESSING NODE %03d :: %s", target.ID, target.Title)
		e.state = StateLoading
		e.issueFetch(loadMission, target.ID)
	case EventBack:
		e.playSFX("back", audio.Options{})
	default:
		e.log.Debug().Stringer("event", ev).Stringer("state", e.state).Msg("event ignored")
	}
}

func (e *Engine) advancePlaying(ev Event) {
	switch ev {
	case EventConfirm:
		steps := e.session.Detail().Steps
		if i := e.session.StepIndex(); i < len(steps) {
			e.feed.Add(e.tick, "EXEC :: %s", steps[i])
		}
		if outcome, done := e.session.Advance(); done {
			e.finishMission(outcome)
		}
	case EventBack:
		e.feed.Add(e.tick, "ABORT SIGNAL RECEIVED")
		e.finishMission(OutcomeAborted)
	default:
		e.log.Debug().Stringer("event", ev).Stringer("state", e.state).Msg("event ignored")
	}
}

func (e *Engine) advanceCompletion(ev Event) {
	switch ev {
	case EventConfirm, EventBack:
		e.dismissCompletion()
	default:
		e.log.Debug().Stringer("event", ev).Stringer("state", e.state).Msg("event ignored")
	}
}

// issueFetch starts an asynchronous load. Subsequent ticks poll for its
// completion; the render loop never blocks on it.
func (e *Engine) issueFetch(kind loadKind, missionID uint) {
	e.gen++
	e.loadErr = nil
	e.progressFrac = 0
	e.curKind = kind
	e.curMissionID = missionID

	keys := bootAssetKeys
	if kind == loadMission {
		keys = missionAssetKeys
	}
	f := &fetch{
		gen:       e.gen,
		kind:      kind,
		missionID: missionID,
		keys:      keys,
		total:     len(keys) + 1, // +1 for the catalog fetch
	}
	e.pending = f
	go e.runFetch(f)
}

func (e *Engine) runFetch(f *fetch) {
	res := loadResult{gen: f.gen, kind: f.kind}
	for _, key := range f.keys {
		if err := e.assets.Load(key); err != nil {
			res.err = err
			e.results <- res
			return
		}
		f.done.Add(1)
	}
	switch f.kind {
	case loadBoot:
		res.menu, res.err = e.catalog.List()
	case loadMission:
		res.detail, res.err = e.catalog.Detail(f.missionID)
	}
	if res.err == nil {
		f.done.Add(1)
	}
	e.results <- res
}

// pollLoads advances the progress fraction and applies any finished fetch.
func (e *Engine) pollLoads() {
	if f := e.pending; f != nil {
		frac := float64(f.done.Load()) / float64(f.total)
		if frac > e.progressFrac {
			e.progressFrac = frac
		}
	}
	for {
		select {
		case res := <-e.results:
			e.applyLoadResult(res)
		default:
			return
		}
	}
}

func (e *Engine) applyLoadResult(res loadResult) {
	if res.gen != e.gen {
		// A cancelled fetch finishing late. Its result is stale.
		e.log.Debug().Int("gen", res.gen).Msg("stale fetch result discarded")
		return
	}
	e.pending = nil
	if res.err != nil {
		e.loadErr = res.err
		e.log.Error().Err(res.err).Msg("loading failed")
		e.feed.Add(e.tick, "UPLINK FAULT :: %v", res.err)
		return
	}
	e.progressFrac = 1

	switch res.kind {
	case loadBoot:
		e.menu = res.menu
		if e.selected >= len(e.menu) {
			e.selected = 0
		}
		e.feed.Add(e.tick, "CATALOG SYNCED :: %d MISSIONS", len(e.menu))
		e.enterMenu()
	case loadMission:
		e.session = StartSession(res.detail)
		e.sessionFresh = true
		e.state = StatePlaying
		e.feed.Add(e.tick, "LINK ESTABLISHED :: %s", res.detail.Title)
		e.playMusic("mission_theme")
		e.playSFX("hack_start", audio.Options{Volume: 0.3})
	}
}

func (e *Engine) enterMenu() {
	e.state = StateMenu
	e.record = nil
	e.playMusic("menu_theme")
}

// finishMission folds the session into a completion record and moves to
// the completion state. A double finish is a contract violation from the
// session's side; it is logged and ignored.
func (e *Engine) finishMission(outcome Outcome) {
	rec, err := e.session.Finish(outcome)
	if err != nil {
		e.log.Error().Err(err).Msg("finish on a finished session")
		return
	}
	e.session = nil
	e.record = &rec
	e.state = StateCompletion
	e.sound.Stop(audio.CategoryMusic, 0)
	e.playSFX(outcomeCue(outcome), audio.Options{})
	e.feed.Add(e.tick, "SESSION CLOSED :: %s IN %.1fs", rec.Outcome, rec.Elapsed.Seconds())
}

// dismissCompletion reports the outcome and returns to the menu. A failed
// report is logged and the transition proceeds regardless.
func (e *Engine) dismissCompletion() {
	rec := e.record
	if rec == nil {
		return
	}
	if err := e.catalog.Report(rec.MissionID, rec.Outcome.String(), rec.Elapsed); err != nil {
		e.log.Warn().Err(err).Uint("mission", rec.MissionID).Msg("outcome not saved")
		e.feed.Add(e.tick, "WARNING: OUTCOME NOT SAVED")
	} else if rec.Outcome == OutcomeSuccess {
		for i := range e.menu {
			if e.menu[i].ID == rec.MissionID {
				e.menu[i].Completed = true
			}
		}
	}
	e.sound.Stop(audio.CategorySFX, 0)
	e.enterMenu()
}

func outcomeCue(o Outcome) string {
	switch o {
	case OutcomeSuccess:
		return "decrypt"
	case OutcomeAborted:
		return "abort"
	default:
		return "failure"
	}
}

func (e *Engine) playMusic(name string) {
	err := e.sound.Play(name, audio.CategoryMusic, audio.Options{Loop: true})
	if err != nil {
		e.log.Warn().Err(err).Str("cue", name).Msg("music cue unavailable")
	}
}

func (e *Engine) playSFX(name string, opts audio.Options) {
	if err := e.sound.Play(name, audio.CategorySFX, opts); err != nil {
		e.log.Warn().Err(err).Str("cue", name).Msg("sfx cue unavailable")
	}
}
