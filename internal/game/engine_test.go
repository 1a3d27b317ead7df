package game

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sigmahq/sigma/internal/audio"
	"github.com/sigmahq/sigma/internal/catalog"
)

// --- test fakes ---

type reportCall struct {
	id      uint
	outcome string
	elapsed time.Duration
}

type fakeCatalog struct {
	mu        sync.Mutex
	missions  []catalog.Descriptor
	details   map[uint]catalog.Detail
	listErr   error
	detailErr error
	reportErr error
	reports   []reportCall

	// detailGate, when non-nil, blocks Detail until closed.
	detailGate chan struct{}
}

func (c *fakeCatalog) List() ([]catalog.Descriptor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listErr != nil {
		return nil, c.listErr
	}
	out := make([]catalog.Descriptor, len(c.missions))
	copy(out, c.missions)
	return out, nil
}

func (c *fakeCatalog) Detail(id uint) (catalog.Detail, error) {
	c.mu.Lock()
	gate := c.detailGate
	c.mu.Unlock()
	if gate != nil {
		<-gate
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.detailErr != nil {
		return catalog.Detail{}, c.detailErr
	}
	d, ok := c.details[id]
	if !ok {
		return catalog.Detail{}, catalog.ErrNotFound
	}
	return d, nil
}

func (c *fakeCatalog) Report(id uint, outcome string, elapsed time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports = append(c.reports, reportCall{id: id, outcome: outcome, elapsed: elapsed})
	return c.reportErr
}

type fakeAssets struct {
	mu      sync.Mutex
	loaded  []string
	failKey string
}

func (a *fakeAssets) Load(key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if key == a.failKey {
		return fmt.Errorf("asset %q: missing", key)
	}
	a.loaded = append(a.loaded, key)
	return nil
}

type cueCall struct {
	name string
	cat  audio.Category
}

type fakeSound struct {
	plays   []cueCall
	stops   []audio.Category
	playErr error
	muted   bool
}

func (s *fakeSound) Play(name string, cat audio.Category, opts audio.Options) error {
	if s.playErr != nil {
		return s.playErr
	}
	s.plays = append(s.plays, cueCall{name: name, cat: cat})
	return nil
}

func (s *fakeSound) Stop(cat audio.Category, fade time.Duration) {
	s.stops = append(s.stops, cat)
}

func (s *fakeSound) Step(dt time.Duration) {}
func (s *fakeSound) ToggleMute() bool      { s.muted = !s.muted; return s.muted }
func (s *fakeSound) Muted() bool           { return s.muted }

func (s *fakeSound) lastMusic() string {
	for i := len(s.plays) - 1; i >= 0; i-- {
		if s.plays[i].cat == audio.CategoryMusic {
			return s.plays[i].name
		}
	}
	return ""
}

func (s *fakeSound) lastSFX() string {
	for i := len(s.plays) - 1; i >= 0; i-- {
		if s.plays[i].cat == audio.CategorySFX {
			return s.plays[i].name
		}
	}
	return ""
}

// --- harness ---

func phishCatalog() *fakeCatalog {
	desc := catalog.Descriptor{ID: 1, Title: "Phish", Difficulty: catalog.DifficultyEasy}
	return &fakeCatalog{
		missions: []catalog.Descriptor{desc},
		details: map[uint]catalog.Detail{
			1: {
				Descriptor: desc,
				Brief:      "Spoof the payroll portal.",
				Steps:      []string{"Clone the login page"},
				Par:        5 * time.Second,
			},
		},
	}
}

func newTestEngine(cat *fakeCatalog) (*Engine, *fakeSound) {
	snd := &fakeSound{}
	e := New(Deps{
		Catalog: cat,
		Assets:  &fakeAssets{},
		Sound:   snd,
		Log:     zerolog.Nop(),
	})
	return e, snd
}

// tickUntil drives the engine until it reaches the wanted state. The load
// fetches run on goroutines, so ticks poll until the result lands.
func tickUntil(t *testing.T, e *Engine, want State) ViewModel {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		vm := e.Tick(nil, tickDuration)
		if vm.State == want {
			return vm
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for state %v (current %v)", want, e.State())
	return ViewModel{}
}

func tickUntilFailed(t *testing.T, e *Engine) ViewModel {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		vm := e.Tick(nil, tickDuration)
		if vm.LoadingFailed {
			return vm
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for a failed load")
	return ViewModel{}
}

// --- tests ---

func TestEngine_BootsIntoLoadingThenMenu(t *testing.T) {
	e, snd := newTestEngine(phishCatalog())

	if e.State() != StateLoading {
		t.Fatalf("initial state should be loading, got %v", e.State())
	}

	vm := tickUntil(t, e, StateMenu)
	if len(vm.Menu) != 1 || vm.Menu[0].Title != "Phish" {
		t.Fatalf("menu should list the catalog, got %+v", vm.Menu)
	}
	if snd.lastMusic() != "menu_theme" {
		t.Fatalf("menu entry should start the menu theme, got %q", snd.lastMusic())
	}
}

func TestEngine_FullScenario(t *testing.T) {
	cat := phishCatalog()
	e, snd := newTestEngine(cat)
	tickUntil(t, e, StateMenu)

	// Select mission 1. The detail fetch is gated so the loading state is
	// observable before the result lands.
	gate := make(chan struct{})
	cat.mu.Lock()
	cat.detailGate = gate
	cat.mu.Unlock()

	e.Tick([]Event{EventConfirm}, tickDuration)
	if e.State() != StateLoading {
		t.Fatalf("confirm in menu should enter loading, got %v", e.State())
	}
	if snd.lastMusic() != "loading_loop" {
		t.Fatalf("mission load should start the loading cue, got %q", snd.lastMusic())
	}
	close(gate)

	vm := tickUntil(t, e, StatePlaying)
	if vm.MissionTitle != "Phish" {
		t.Fatalf("playing view should carry the mission title, got %q", vm.MissionTitle)
	}
	if vm.Elapsed != 0 {
		t.Fatalf("fresh session should start with elapsed 0, got %v", vm.Elapsed)
	}
	if snd.lastMusic() != "mission_theme" {
		t.Fatalf("entering playing should start mission music, got %q", snd.lastMusic())
	}

	// 5.0s of ticks runs the single 5s objective to completion.
	e.Tick(nil, 2500*time.Millisecond)
	vm = e.Tick(nil, 2500*time.Millisecond)
	if vm.State != StateCompletion {
		t.Fatalf("finished script should enter completion, got %v", vm.State)
	}
	if vm.Record == nil {
		t.Fatal("completion view must carry the record")
	}
	if vm.Record.MissionID != 1 || vm.Record.Outcome != OutcomeSuccess {
		t.Fatalf("unexpected record %+v", vm.Record)
	}
	if vm.Record.Elapsed != 5*time.Second {
		t.Fatalf("record elapsed should be 5s, got %v", vm.Record.Elapsed)
	}
	if snd.lastSFX() != "decrypt" {
		t.Fatalf("success should play the decrypt cue, got %q", snd.lastSFX())
	}

	// Dismiss: report persisted, back in menu, descriptor marked complete.
	vm = e.Tick([]Event{EventConfirm}, tickDuration)
	if vm.State != StateMenu {
		t.Fatalf("dismiss should return to menu, got %v", vm.State)
	}
	if len(cat.reports) != 1 {
		t.Fatalf("exactly one report expected, got %d", len(cat.reports))
	}
	if cat.reports[0].id != 1 || cat.reports[0].outcome != "success" || cat.reports[0].elapsed != 5*time.Second {
		t.Fatalf("unexpected report %+v", cat.reports[0])
	}
	if !vm.Menu[0].Completed {
		t.Fatal("menu entry should show completed after a successful run")
	}
	if snd.lastMusic() != "menu_theme" {
		t.Fatalf("menu music should resume after dismiss, got %q", snd.lastMusic())
	}
}

func TestEngine_AbortIsDistinctFromFailure(t *testing.T) {
	e, snd := newTestEngine(phishCatalog())
	tickUntil(t, e, StateMenu)
	e.Tick([]Event{EventConfirm}, tickDuration)
	tickUntil(t, e, StatePlaying)

	vm := e.Tick([]Event{EventBack}, tickDuration)
	if vm.State != StateCompletion {
		t.Fatalf("abort should enter completion, got %v", vm.State)
	}
	if vm.Record.Outcome != OutcomeAborted {
		t.Fatalf("abort outcome should be aborted, got %v", vm.Record.Outcome)
	}
	if snd.lastSFX() != "abort" {
		t.Fatalf("abort should play the abort cue, got %q", snd.lastSFX())
	}

	vm = e.Tick([]Event{EventConfirm}, tickDuration)
	if vm.State != StateMenu {
		t.Fatalf("dismiss after abort should return to menu, got %v", vm.State)
	}
	if vm.Menu[0].Completed {
		t.Fatal("aborted run must not mark the mission completed")
	}
}

func TestEngine_ReportFailureStillReturnsToMenu(t *testing.T) {
	cat := phishCatalog()
	cat.reportErr = fmt.Errorf("insert play: %w", catalog.ErrPersistence)
	e, _ := newTestEngine(cat)
	tickUntil(t, e, StateMenu)
	e.Tick([]Event{EventConfirm}, tickDuration)
	tickUntil(t, e, StatePlaying)
	e.Tick(nil, 6*time.Second)

	vm := e.Tick([]Event{EventConfirm}, tickDuration)
	if vm.State != StateMenu {
		t.Fatalf("persistence failure must not block the menu transition, got %v", vm.State)
	}
	if vm.Menu[0].Completed {
		t.Fatal("unsaved outcome must not flip the completed flag")
	}
}

func TestEngine_ReselectCompletedMissionGetsFreshSession(t *testing.T) {
	cat := phishCatalog()
	cat.missions[0].Completed = true
	d := cat.details[1]
	d.Completed = true
	cat.details[1] = d

	e, _ := newTestEngine(cat)
	tickUntil(t, e, StateMenu)
	e.Tick([]Event{EventConfirm}, tickDuration)

	vm := tickUntil(t, e, StatePlaying)
	if vm.Elapsed != 0 {
		t.Fatalf("replay should get a fresh session with elapsed 0, got %v", vm.Elapsed)
	}
	if vm.Progress != 0 {
		t.Fatalf("replay should start at zero progress, got %v", vm.Progress)
	}
}

func TestEngine_MissionLoadFailure(t *testing.T) {
	cat := phishCatalog()
	e, _ := newTestEngine(cat)
	tickUntil(t, e, StateMenu)

	cat.mu.Lock()
	cat.detailErr = fmt.Errorf("mission 1: %w", catalog.ErrNotFound)
	cat.mu.Unlock()

	e.Tick([]Event{EventConfirm}, tickDuration)
	vm := tickUntilFailed(t, e)
	if vm.State != StateLoading {
		t.Fatalf("failed load stays in loading, got %v", vm.State)
	}
	if e.session != nil {
		t.Fatal("no session may exist after a failed mission load")
	}

	// Retry succeeds once the catalog recovers.
	cat.mu.Lock()
	cat.detailErr = nil
	cat.mu.Unlock()
	e.Tick([]Event{EventConfirm}, tickDuration)
	tickUntil(t, e, StatePlaying)
}

func TestEngine_AssetFailureDuringMissionLoad(t *testing.T) {
	cat := phishCatalog()
	snd := &fakeSound{}
	e := New(Deps{
		Catalog: cat,
		Assets:  &fakeAssets{failKey: "sounds/hack_start"},
		Sound:   snd,
		Log:     zerolog.Nop(),
	})
	tickUntil(t, e, StateMenu)

	e.Tick([]Event{EventConfirm}, tickDuration)
	vm := tickUntilFailed(t, e)
	if vm.State != StateLoading {
		t.Fatalf("a missing asset surfaces as a failed load, got %v", vm.State)
	}
	if e.session != nil {
		t.Fatal("no session may be created when an asset is missing")
	}
	if vm.LoadingMessage == "" {
		t.Fatal("the failure message should name the fault")
	}
}

func TestEngine_MissionLoadFailureCancelToMenu(t *testing.T) {
	cat := phishCatalog()
	e, _ := newTestEngine(cat)
	tickUntil(t, e, StateMenu)

	cat.mu.Lock()
	cat.detailErr = fmt.Errorf("mission 1: %w", catalog.ErrNotFound)
	cat.mu.Unlock()

	e.Tick([]Event{EventConfirm}, tickDuration)
	tickUntilFailed(t, e)

	vm := e.Tick([]Event{EventBack}, tickDuration)
	if vm.State != StateMenu {
		t.Fatalf("explicit cancel from a failed load returns to menu, got %v", vm.State)
	}
}

func TestEngine_StaleFetchResultIsDiscarded(t *testing.T) {
	cat := phishCatalog()
	e, _ := newTestEngine(cat)
	tickUntil(t, e, StateMenu)

	gate := make(chan struct{})
	cat.mu.Lock()
	cat.detailGate = gate
	cat.mu.Unlock()

	e.Tick([]Event{EventConfirm}, tickDuration)
	if e.State() != StateLoading {
		t.Fatalf("expected loading, got %v", e.State())
	}

	// Cancel while the fetch hangs, then let the fetch finish late.
	vm := e.Tick([]Event{EventBack}, tickDuration)
	if vm.State != StateMenu {
		t.Fatalf("back during loading returns to menu, got %v", vm.State)
	}
	close(gate)

	for i := 0; i < 30; i++ {
		vm = e.Tick(nil, tickDuration)
		time.Sleep(time.Millisecond)
	}
	if vm.State != StateMenu {
		t.Fatalf("stale result must not change state, got %v", vm.State)
	}
	if e.session != nil {
		t.Fatal("stale result must not create a session")
	}
}

func TestEngine_BackDuringBootIsIgnored(t *testing.T) {
	e, _ := newTestEngine(phishCatalog())
	vm := e.Tick([]Event{EventBack}, tickDuration)
	if vm.State != StateLoading && vm.State != StateMenu {
		t.Fatalf("back during boot must not leave the machine, got %v", vm.State)
	}
	tickUntil(t, e, StateMenu)
}

func TestEngine_LoadingFractionIsMonotonic(t *testing.T) {
	cat := phishCatalog()
	gate := make(chan struct{})
	cat.mu.Lock()
	cat.detailGate = gate
	cat.mu.Unlock()

	e, _ := newTestEngine(cat)
	tickUntil(t, e, StateMenu)
	e.Tick([]Event{EventConfirm}, tickDuration)

	prev := -1.0
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		vm := e.Tick(nil, tickDuration)
		if vm.LoadingFraction < prev {
			t.Fatalf("loading fraction went backwards: %v -> %v", prev, vm.LoadingFraction)
		}
		prev = vm.LoadingFraction
		if prev > 0 {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if prev <= 0 || prev >= 1 {
		t.Fatalf("asset keys resolved but catalog gated: fraction should sit in (0,1), got %v", prev)
	}
	close(gate)
	tickUntil(t, e, StatePlaying)
}

func TestEngine_ExactlyOneSessionWhilePlaying(t *testing.T) {
	e, _ := newTestEngine(phishCatalog())

	events := []Event{
		EventDown, EventConfirm, EventUp, EventBack, EventConfirm,
		EventConfirm, EventBack, EventDown, EventConfirm, EventBack,
	}
	deadline := time.Now().Add(2 * time.Second)
	i := 0
	for time.Now().Before(deadline) {
		vm := e.Tick([]Event{events[i%len(events)]}, tickDuration)
		switch vm.State {
		case StateLoading, StateMenu, StatePlaying, StateCompletion:
		default:
			t.Fatalf("undefined state %v", vm.State)
		}
		if (e.session != nil) != (vm.State == StatePlaying) {
			t.Fatalf("session/state invariant broken: session=%v state=%v", e.session != nil, vm.State)
		}
		i++
		time.Sleep(time.Millisecond / 4)
	}
}

func TestEngine_AudioFailureNeverBlocksTransitions(t *testing.T) {
	cat := phishCatalog()
	snd := &fakeSound{playErr: audio.ErrAudioUnavailable}
	e := New(Deps{Catalog: cat, Assets: &fakeAssets{}, Sound: snd, Log: zerolog.Nop()})

	tickUntil(t, e, StateMenu)
	e.Tick([]Event{EventConfirm}, tickDuration)
	tickUntil(t, e, StatePlaying)
	e.Tick(nil, 6*time.Second)
	if e.State() != StateCompletion {
		t.Fatalf("silent game should still complete, got %v", e.State())
	}
	vm := e.Tick([]Event{EventConfirm}, tickDuration)
	if vm.State != StateMenu {
		t.Fatalf("silent game should still reach the menu, got %v", vm.State)
	}
}

func TestEngine_BootLoadFailureIsRetryable(t *testing.T) {
	cat := phishCatalog()
	cat.listErr = errors.New("database offline")
	e, _ := newTestEngine(cat)

	vm := tickUntilFailed(t, e)
	if vm.State != StateLoading {
		t.Fatalf("boot failure stays in loading, got %v", vm.State)
	}

	cat.mu.Lock()
	cat.listErr = nil
	cat.mu.Unlock()
	e.Tick([]Event{EventConfirm}, tickDuration)
	tickUntil(t, e, StateMenu)
}

func TestEngine_ManualStepExecutionFinishesEarly(t *testing.T) {
	e, _ := newTestEngine(phishCatalog())
	tickUntil(t, e, StateMenu)
	e.Tick([]Event{EventConfirm}, tickDuration)
	tickUntil(t, e, StatePlaying)

	vm := e.Tick([]Event{EventConfirm}, tickDuration)
	if vm.State != StateCompletion {
		t.Fatalf("executing the only step by hand should finish the mission, got %v", vm.State)
	}
	if vm.Record.Outcome != OutcomeSuccess {
		t.Fatalf("manual completion is a success, got %v", vm.Record.Outcome)
	}
}

func TestEngine_MuteToggleReflectedInViewModel(t *testing.T) {
	e, _ := newTestEngine(phishCatalog())
	vm := e.Tick([]Event{EventToggleMute}, tickDuration)
	if !vm.Muted {
		t.Fatal("toggle should mute")
	}
	vm = e.Tick([]Event{EventToggleMute}, tickDuration)
	if vm.Muted {
		t.Fatal("second toggle should unmute")
	}
}

func TestEngine_MenuSelectionWraps(t *testing.T) {
	cat := phishCatalog()
	second := catalog.Descriptor{ID: 2, Title: "Backdoor", Difficulty: catalog.DifficultyHard}
	cat.missions = append(cat.missions, second)
	cat.details[2] = catalog.Detail{Descriptor: second, Steps: []string{"a", "b"}, Par: 10 * time.Second}

	e, _ := newTestEngine(cat)
	tickUntil(t, e, StateMenu)

	vm := e.Tick([]Event{EventUp}, tickDuration)
	if vm.Selected != 1 {
		t.Fatalf("up from the first entry wraps to the last, got %d", vm.Selected)
	}
	vm = e.Tick([]Event{EventDown}, tickDuration)
	if vm.Selected != 0 {
		t.Fatalf("down from the last entry wraps to the first, got %d", vm.Selected)
	}
}
