package ui

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/duelsim/internal/combat"
	"github.com/samdwyer/duelsim/internal/game"
)

// Separator is printed after every turn.
const Separator = "________________"

// Console colours for turn events.
var (
	CritColor   = tcell.ColorRed
	MissColor   = tcell.ColorYellow
	DodgeColor  = tcell.ColorGreen
	HeaderColor = tcell.ColorSilver
)

// ConsolePrinter writes a fight round by round as plain text, with tcell
// colours rendered as 24-bit ANSI escapes unless NoColor is set.
type ConsolePrinter struct {
	w       io.Writer
	NoColor bool
}

// NewConsolePrinter creates a printer writing to w.
func NewConsolePrinter(w io.Writer, noColor bool) *ConsolePrinter {
	return &ConsolePrinter{w: w, NoColor: noColor}
}

// Ensure ConsolePrinter implements game.Printer
var _ game.Printer = (*ConsolePrinter)(nil)

// FightStart prints both stat blocks.
func (p *ConsolePrinter) FightStart(a, b game.Fighter) {
	p.println(p.paint(a.GetName(), a.Color()) + " " + describe(a))
	p.println("  vs")
	p.println(p.paint(b.GetName(), b.Color()) + " " + describe(b))
	p.println(strings.Repeat("=", len(Separator)))
}

// RoundStart prints the round header.
func (p *ConsolePrinter) RoundStart(round int) {
	p.println(p.paint(fmt.Sprintf("Round %d", round), HeaderColor))
}

// Turn prints one attack: roll events, damage line and the defender's state.
func (p *ConsolePrinter) Turn(cs *game.CombatState, turn game.Turn) {
	r := turn.Result
	switch {
	case !r.Attack.Hit:
		p.println(p.paint(fmt.Sprintf("MISSED by %s !", r.Attacker), MissColor))
	case r.Attack.Crit:
		p.println(p.paint(fmt.Sprintf("CRIT by %s !", r.Attacker), CritColor))
	}

	p.println(fmt.Sprintf("%s attacks %s : %d dam", r.Attacker, r.Defender, int(math.Floor(r.Attack.Raw))))

	if r.Defense.Dodged {
		p.println(p.paint(fmt.Sprintf("DODGED by %s !", r.Defender), DodgeColor))
	}
	p.println(fmt.Sprintf("%s -> Armor : %d | HP : %d", r.Defender, r.DefenderArmor, r.DefenderHP))
	p.println(Separator)
}

// FightEnd prints the winner.
func (p *ConsolePrinter) FightEnd(outcome *game.Outcome) {
	winner := outcome.WinnerFighter()
	p.println(fmt.Sprintf("%s wins", p.paint(winner.GetName(), winner.Color())))
	p.println(fmt.Sprintf("%d rounds, %d turns, %d HP left (seed %d, %s armor)",
		outcome.Rounds, outcome.Turns, outcome.WinnerHP, outcome.Seed, outcome.ArmorModel))
}

func (p *ConsolePrinter) println(s string) {
	fmt.Fprintln(p.w, s)
}

// paint wraps s in a 24-bit foreground colour escape.
func (p *ConsolePrinter) paint(s string, color tcell.Color) string {
	if p.NoColor || color == tcell.ColorDefault {
		return s
	}
	r, g, b := color.RGB()
	if r < 0 {
		return s
	}
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm%s\x1b[0m", r, g, b, s)
}

// describe summarises a fighter's stat block on one line.
func describe(f game.Fighter) string {
	return fmt.Sprintf("(%s) HP %d  ATK %d  DEF %d  PREC %s  CRIT %s x%.1f  DODGE %s",
		f.Tag(), f.GetHP(), f.GetAttack(), f.GetDefense(),
		percent(f.GetPrecision()), percent(f.GetCritChance()), f.GetCritMultiplier(),
		percent(f.GetDodgeChance()))
}

func percent(p float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(p*100)))
}

// DescribeCombatant is describe for any combatant, used by catalog listings.
func DescribeCombatant(c combat.Combatant, tag string) string {
	return fmt.Sprintf("%-10s %-12s HP %3d  ATK %2d  DEF %2d  PREC %4s  CRIT %3s x%.1f  DODGE %3s",
		c.GetName(), tag, c.GetHP(), c.GetAttack(), c.GetDefense(),
		percent(c.GetPrecision()), percent(c.GetCritChance()), c.GetCritMultiplier(),
		percent(c.GetDodgeChance()))
}
