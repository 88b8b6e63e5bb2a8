package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/duelsim/internal/game"
)

const (
	panelWidth = 38
	barWidth   = 20
	logTop     = 9
)

// Frame is the state of a fight after a given number of turns.
type Frame struct {
	Step, Total int // Turns shown so far / turns in the fight
	Round       int

	Names    [2]string
	Tags     [2]string
	Colors   [2]tcell.Color
	HP       [2]int
	MaxHP    [2]int
	Armor    [2]int
	MaxArmor [2]int

	Message string
	Log     []string // Turn lines up to and including this step
}

// FramesFromOutcome returns one frame before the first turn plus one per turn.
func FramesFromOutcome(o *game.Outcome) []Frame {
	start := Frame{Total: len(o.Log), Message: "Fight begins!"}
	for i, f := range o.Fighters {
		start.Names[i] = f.GetName()
		start.Tags[i] = f.Tag()
		start.Colors[i] = f.Color()
		start.MaxHP[i] = f.GetMaxHP()
		start.HP[i] = f.GetMaxHP()
		start.MaxArmor[i] = o.InitialArmor[i]
		start.Armor[i] = o.InitialArmor[i]
	}

	frames := make([]Frame, 0, len(o.Log)+1)
	frames = append(frames, start)

	log := make([]string, 0, len(o.Log))
	for i, turn := range o.Log {
		log = append(log, TurnLine(turn))

		f := start
		f.Step = i + 1
		f.Round = turn.Round
		f.HP = turn.HP
		f.Armor = turn.Armor
		f.Log = log[:i+1]
		f.Message = log[i]
		if turn.Result.Killed {
			f.Message = fmt.Sprintf("%s wins in %d rounds", turn.Result.Attacker, turn.Round)
		}
		frames = append(frames, f)
	}
	return frames
}

// TurnLine is a one-line plain summary of a turn.
func TurnLine(turn game.Turn) string {
	r := turn.Result
	line := fmt.Sprintf("%d. %s attacks %s : %d dam", turn.Number, r.Attacker, r.Defender, int(math.Floor(r.Attack.Raw)))
	switch {
	case !r.Attack.Hit:
		line += " (MISSED)"
	case r.Defense.Dodged:
		line += " (DODGED)"
	case r.Attack.Crit:
		line += " (CRIT)"
	}
	return line
}

// Renderer handles drawing replay frames to the screen.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Render draws both fighter panels, the last message and the turn log.
func (r *Renderer) Render(f Frame) {
	r.screen.Clear()
	_, height := r.screen.Size()

	title := fmt.Sprintf("duelsim replay  turn %d/%d  round %d", f.Step, f.Total, f.Round)
	r.screen.DrawText(0, 0, title, tcell.StyleDefault.Foreground(HeaderColor).Bold(true))

	for i := range f.Names {
		r.renderPanel(i*(panelWidth+2), 2, f, i)
	}

	r.RenderMessage(f.Message, 7)

	// Newest turns at the bottom, leaving room for the help line.
	rows := height - logTop - 2
	lines := f.Log
	if rows < 0 {
		rows = 0
	}
	if len(lines) > rows {
		lines = lines[len(lines)-rows:]
	}
	for i, line := range lines {
		r.screen.DrawText(0, logTop+i, line, r.logStyle(line))
	}

	help := "←/→ step  home/end jump  q quit"
	r.screen.DrawText(0, height-1, help, tcell.StyleDefault.Foreground(tcell.ColorGray))

	r.screen.Show()
}

// renderPanel draws one fighter at (x, y).
func (r *Renderer) renderPanel(x, y int, f Frame, i int) {
	nameStyle := tcell.StyleDefault.Foreground(f.Colors[i]).Bold(true)
	next := r.screen.DrawText(x, y, f.Names[i], nameStyle)
	r.screen.DrawText(next+1, y, "("+f.Tags[i]+")", tcell.StyleDefault.Foreground(tcell.ColorGray))

	r.screen.DrawText(x, y+1, "HP    "+Bar(f.HP[i], f.MaxHP[i], barWidth), r.hpStyle(f.HP[i], f.MaxHP[i]))
	r.screen.DrawText(x, y+2, "Armor "+Bar(f.Armor[i], f.MaxArmor[i], barWidth), tcell.StyleDefault.Foreground(tcell.ColorSteelBlue))
}

// hpStyle goes from green to yellow to red as HP drops.
func (r *Renderer) hpStyle(hp, maxHP int) tcell.Style {
	switch {
	case hp <= 0:
		return tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	case hp*4 <= maxHP:
		return tcell.StyleDefault.Foreground(tcell.ColorRed)
	case hp*2 <= maxHP:
		return tcell.StyleDefault.Foreground(tcell.ColorYellow)
	default:
		return tcell.StyleDefault.Foreground(tcell.ColorGreen)
	}
}

// logStyle colours a log line by its turn event.
func (r *Renderer) logStyle(line string) tcell.Style {
	switch {
	case strings.HasSuffix(line, "(CRIT)"):
		return tcell.StyleDefault.Foreground(CritColor)
	case strings.HasSuffix(line, "(MISSED)"):
		return tcell.StyleDefault.Foreground(MissColor)
	case strings.HasSuffix(line, "(DODGED)"):
		return tcell.StyleDefault.Foreground(DodgeColor)
	default:
		return tcell.StyleDefault
	}
}

// RenderMessage displays a message on row y.
func (r *Renderer) RenderMessage(msg string, y int) {
	r.screen.DrawText(0, y, msg, tcell.StyleDefault.Foreground(tcell.ColorWhite))
}

// Bar draws a fixed-width gauge such as "[#####.....] 50/100".
func Bar(value, maxValue, width int) string {
	filled := 0
	if maxValue > 0 && value > 0 {
		filled = value * width / maxValue
		if filled == 0 {
			filled = 1
		}
		if filled > width {
			filled = width
		}
	}
	return fmt.Sprintf("[%s%s] %d/%d", strings.Repeat("#", filled), strings.Repeat(".", width-filled), value, maxValue)
}
