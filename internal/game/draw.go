package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Terminal palette: phosphor green on black.
var (
	colBackground = color.RGBA{R: 4, G: 8, B: 4, A: 255}
	colText       = color.RGBA{R: 0, G: 220, B: 70, A: 255}
	colDim        = color.RGBA{R: 0, G: 110, B: 40, A: 255}
	colHighlight  = color.RGBA{R: 160, G: 255, B: 160, A: 255}
	colAlert      = color.RGBA{R: 255, G: 80, B: 60, A: 255}
	colBar        = color.RGBA{R: 0, G: 180, B: 60, A: 255}
)

const (
	marginX    = 32
	lineHeight = 18
	feedHeight = 130
)

func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(colBackground)

	switch a.vm.State {
	case StateLoading:
		a.drawLoading(screen)
	case StateMenu:
		a.drawMenu(screen)
	case StatePlaying:
		a.drawPlaying(screen)
	case StateCompletion:
		a.drawCompletion(screen)
	}

	a.drawFeed(screen)
	if a.vm.Muted {
		a.text(screen, float64(a.width)-110, 12, "[MUTED]", colDim)
	}
}

func (a *App) text(screen *ebiten.Image, x, y float64, s string, col color.Color) {
	if a.face == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(col)
	text.Draw(screen, s, a.face, op)
}

func (a *App) drawMenu(screen *ebiten.Image) {
	a.text(screen, marginX, 24, "SIGMA :: MISSION CATALOG", colHighlight)
	a.text(screen, marginX, 24+lineHeight, "uplink ready. select target.", colDim)

	y := 90.0
	for i, entry := range a.vm.Menu {
		col := colText
		prefix := "  "
		if i == a.vm.Selected {
			col = colHighlight
			prefix = "> "
		}
		status := "        "
		if entry.Completed {
			status = "[CLEAR] "
		}
		a.text(screen, marginX, y, fmt.Sprintf("%s%s%-24s %s", prefix, status, entry.Title, entry.Difficulty), col)
		y += lineHeight
	}
	if len(a.vm.Menu) == 0 {
		a.text(screen, marginX, y, "no missions on record", colDim)
	}

	a.text(screen, marginX, float64(a.height-feedHeight-40),
		"[UP/DN] select   [ENTER] engage   [M] mute", colDim)
}

func (a *App) drawLoading(screen *ebiten.Image) {
	a.drawRain(screen)

	barW := float32(a.width) - 2*marginX
	barY := float32(a.height)/2 - 10
	vector.StrokeRect(screen, marginX, barY, barW, 20, 1, colDim, false)
	vector.DrawFilledRect(screen, marginX+2, barY+2, (barW-4)*float32(a.anim.Progress()), 16, colBar, false)

	a.text(screen, marginX, float64(barY)-26, fmt.Sprintf("ESTABLISHING UPLINK .. %3.0f%%", a.anim.Progress()*100), colText)

	if a.vm.LoadingFailed {
		a.text(screen, marginX, float64(barY)+40, "UPLINK FAULT :: "+a.vm.LoadingMessage, colAlert)
		a.text(screen, marginX, float64(barY)+40+lineHeight, "[ENTER] retry   [ESC] disconnect", colDim)
	}
}

// drawRain renders the binary-rain overlay behind the progress bar.
func (a *App) drawRain(screen *ebiten.Image) {
	for _, s := range a.anim.streams {
		for i, ch := range s.chars {
			y := s.y + float64(i*rainCharHeight)
			if y < 0 || y > float64(a.height) {
				continue
			}
			b := s.brightness[i]
			a.text(screen, float64(s.x), y, string(ch), color.RGBA{G: b, A: 255})
		}
	}
}

func (a *App) drawPlaying(screen *ebiten.Image) {
	a.text(screen, marginX, 24, "ACTIVE LINK :: "+a.vm.MissionTitle, colHighlight)
	a.text(screen, marginX, 24+lineHeight, a.vm.MissionBrief, colDim)

	y := 90.0
	for i, step := range a.vm.Steps {
		switch {
		case i < a.vm.StepIndex:
			a.text(screen, marginX, y, "[done] "+step, colDim)
		case i == a.vm.StepIndex:
			a.text(screen, marginX, y, "[exec] "+step, colHighlight)
		default:
			a.text(screen, marginX, y, "[....] "+step, colText)
		}
		y += lineHeight
	}

	barW := float32(a.width) - 2*marginX
	barY := float32(y) + 20
	vector.StrokeRect(screen, marginX, barY, barW, 14, 1, colDim, false)
	vector.DrawFilledRect(screen, marginX+2, barY+2, (barW-4)*float32(a.vm.Progress), 10, colBar, false)
	a.text(screen, marginX, float64(barY)+30, fmt.Sprintf("t+%05.1fs", a.vm.Elapsed.Seconds()), colText)

	a.text(screen, marginX, float64(a.height-feedHeight-40),
		"[ENTER] execute step   [ESC] abort", colDim)
}

func (a *App) drawCompletion(screen *ebiten.Image) {
	rec := a.vm.Record
	if rec == nil {
		return
	}
	col := colHighlight
	verdict := "ACCESS GRANTED"
	switch rec.Outcome {
	case OutcomeFailure:
		col = colAlert
		verdict = "CONNECTION SEVERED"
	case OutcomeAborted:
		col = colAlert
		verdict = "RUN ABORTED"
	}

	cy := float64(a.height)/2 - 60
	a.text(screen, marginX, cy, verdict, col)
	a.text(screen, marginX, cy+2*lineHeight, fmt.Sprintf("mission  %s (#%d)", rec.Title, rec.MissionID), colText)
	a.text(screen, marginX, cy+3*lineHeight, fmt.Sprintf("outcome  %s", rec.Outcome), colText)
	a.text(screen, marginX, cy+4*lineHeight, fmt.Sprintf("elapsed  %.1fs", rec.Elapsed.Seconds()), colText)
	a.text(screen, marginX, cy+6*lineHeight, "[ENTER] return   [C] copy debrief", colDim)
}

// drawFeed renders the terminal feed strip along the bottom edge.
func (a *App) drawFeed(screen *ebiten.Image) {
	top := float32(a.height - feedHeight)
	vector.StrokeLine(screen, 0, top, float32(a.width), top, 1, colDim, false)

	y := float64(top) + 14
	lines := a.vm.Feed
	maxLines := (feedHeight - 20) / lineHeight
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	for _, line := range lines {
		a.text(screen, marginX, y, line, colDim)
		y += lineHeight
	}
}
