package game

import "time"

// MenuEntry is one selectable row in the mission menu.
type MenuEntry struct {
	ID         uint
	Title      string
	Difficulty string
	Completed  bool
}

// ViewModel is the read-only per-frame snapshot the render layer pulls
// from the engine. The core never draws; the presentation layer renders
// whatever the snapshot says.
type ViewModel struct {
	State State
	Muted bool
	Feed  []string

	// Menu.
	Menu     []MenuEntry
	Selected int

	// Loading.
	LoadingFraction float64
	LoadingFailed   bool
	LoadingMessage  string

	// Playing.
	MissionTitle string
	MissionBrief string
	Steps        []string
	StepIndex    int
	Progress     float64
	Elapsed      time.Duration

	// Completion.
	Record *CompletionRecord
}

func (e *Engine) viewModel() ViewModel {
	vm := ViewModel{
		State:    e.state,
		Muted:    e.sound.Muted(),
		Feed:     e.feed.Lines(),
		Selected: e.selected,
	}
	for _, d := range e.menu {
		vm.Menu = append(vm.Menu, MenuEntry{
			ID:         d.ID,
			Title:      d.Title,
			Difficulty: d.Difficulty.String(),
			Completed:  d.Completed,
		})
	}

	switch e.state {
	case StateLoading:
		vm.LoadingFraction = e.progressFrac
		if e.loadErr != nil {
			vm.LoadingFailed = true
			vm.LoadingMessage = e.loadErr.Error()
		}
	case StatePlaying:
		d := e.session.Detail()
		vm.MissionTitle = d.Title
		vm.MissionBrief = d.Brief
		vm.Steps = d.Steps
		vm.StepIndex = e.session.StepIndex()
		vm.Progress = e.session.Progress()
		vm.Elapsed = e.session.Elapsed()
	case StateCompletion:
		if e.record != nil {
			rec := *e.record
			vm.Record = &rec
		}
	}
	return vm
}
