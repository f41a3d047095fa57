// Package render draws console summaries of a world: object maps, cost maps,
// robot and task tables and the end-of-run report.
//
// Maps are printed with y growing upward, one 3-character cell per column:
//
//	"   " empty, "WAL" wall, "UNK" unknown,
//	"RW2" robot 2 (a wheel), "RS3" three robots stacked,
//	"T05" task 5, "TC1" task with caterpillar 1 on it.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/elektrokombinacija/fleet-explore/internal/core"
	"github.com/elektrokombinacija/fleet-explore/internal/sim"
	"github.com/elektrokombinacija/fleet-explore/internal/world"
)

// Styles color the parts of the output.
type Styles struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Frame   lipgloss.Style
	Wall    lipgloss.Style
	Unknown lipgloss.Style
	Robot   lipgloss.Style
	Task    lipgloss.Style
	Busy    lipgloss.Style // Cells holding a robot and a task
	Bad     lipgloss.Style // Exhausted robots and failures
}

// DefaultStyles is the colored palette.
func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF")),
		Header:  lipgloss.NewStyle().Bold(true),
		Frame:   lipgloss.NewStyle().Foreground(lipgloss.Color("#444444")),
		Wall:    lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
		Unknown: lipgloss.NewStyle().Foreground(lipgloss.Color("#555555")),
		Robot:   lipgloss.NewStyle().Foreground(lipgloss.Color("#4FC1FF")),
		Task:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB347")),
		Busy:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7CFC00")),
		Bad:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
	}
}

// PlainStyles leaves every string untouched.
func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{Title: s, Header: s, Frame: s, Wall: s, Unknown: s, Robot: s, Task: s, Busy: s, Bad: s}
}

// Renderer formats world state with a fixed palette.
type Renderer struct {
	Styles Styles
}

// New returns a renderer using s.
func New(s Styles) *Renderer {
	return &Renderer{Styles: s}
}

// ObjectMap draws the true contents of every cell.
func (r *Renderer) ObjectMap(w *world.World) string {
	return r.titled("Object map", r.grid(w.Size(), func(c core.Coord) string {
		return r.object(w, c, w.Object(c))
	}))
}

// KnownMap draws what the fleet believes each cell holds. Robot labels come
// from the robots' actual positions.
func (r *Renderer) KnownMap(w *world.World) string {
	k := w.Knowledge()
	return r.titled("Known object map", r.grid(w.Size(), func(c core.Coord) string {
		return r.object(w, c, k.Object(c))
	}))
}

// CostMap draws the true terrain cost of every cell for robot type t.
func (r *Renderer) CostMap(w *world.World, t core.RobotType) string {
	return r.titled("Cost map for "+t.String(), r.grid(w.Size(), func(c core.Coord) string {
		if w.Object(c).Has(core.Wall) {
			return r.Styles.Wall.Render("WAL")
		}
		return fmt.Sprintf("%3d", w.Cost(c, t))
	}))
}

func (r *Renderer) titled(title, body string) string {
	return r.Styles.Title.Render(title) + "\n" + body
}

// grid lays out size x size cells, top row first.
func (r *Renderer) grid(size int, cell func(core.Coord) string) string {
	var b strings.Builder
	rule := "  " + r.Styles.Frame.Render(strings.Repeat("-", size*4+1)) + "\n"
	bar := r.Styles.Frame.Render("|")

	b.WriteString(rule)
	for y := size - 1; y >= 0; y-- {
		fmt.Fprintf(&b, "%2d%s", y, bar)
		for x := 0; x < size; x++ {
			b.WriteString(cell(core.Coord{X: x, Y: y}))
			b.WriteString(bar)
		}
		b.WriteString("\n")
		b.WriteString(rule)
	}
	b.WriteString("  ")
	for x := 0; x < size; x++ {
		fmt.Fprintf(&b, "%4d", x)
	}
	b.WriteString("\n")
	return b.String()
}

func (r *Renderer) object(w *world.World, c core.Coord, obj core.Object) string {
	switch {
	case obj == core.Empty:
		return "   "
	case obj == core.ObjRobot:
		return r.Styles.Robot.Render("R" + robotLabel(w, c))
	case obj == core.ObjTask:
		if t := w.TaskAt(c); t != nil {
			return r.Styles.Task.Render(fmt.Sprintf("T%02d", t.ID))
		}
		return r.Styles.Task.Render("T  ")
	case obj == core.RobotAndTask:
		return r.Styles.Busy.Render("T" + robotLabel(w, c))
	case obj.Has(core.Wall):
		return r.Styles.Wall.Render("WAL")
	case obj.Has(core.Unknown):
		return r.Styles.Unknown.Render("UNK")
	}
	return fmt.Sprintf("%-3.3s", obj.String())
}

// robotLabel is "S<n>" for a stack of robots, otherwise the type initial and ID.
func robotLabel(w *world.World, c core.Coord) string {
	if n := w.Occupancy(c); n > 1 {
		return fmt.Sprintf("S%d", n)
	}
	for _, rb := range w.Robots() {
		if rb.Active() && rb.Coord == c {
			return fmt.Sprintf("%c%d", rb.Type.String()[0], rb.ID)
		}
	}
	return "  "
}

// RobotSummary lists every robot's state.
func (r *Renderer) RobotSummary(w *world.World) string {
	var b strings.Builder
	b.WriteString(r.Styles.Title.Render("- Robot summary") + "\n")
	b.WriteString(r.Styles.Header.Render(fmt.Sprintf("%2s  %-11s  %-8s  %6s  %-9s  %-11s  %4s",
		"ID", "Type", "Coord", "Energy", "Status", "TargetCoord", "Task")) + "\n")
	for _, rb := range w.Robots() {
		target := "-"
		if rb.Target != core.NoCoord {
			target = rb.Target.String()
		}
		task := "No"
		if rb.HasTask() {
			task = fmt.Sprint(rb.Task)
		}
		status := fmt.Sprintf("%-9s", rb.Status)
		if rb.Status == core.Exhausted {
			status = r.Styles.Bad.Render(status)
		}
		fmt.Fprintf(&b, "%2d  %-11s  %-8s  %6d  %s  %-11s  %4s\n",
			rb.ID, rb.Type, rb.Coord, rb.Energy, status, target, task)
	}
	return b.String()
}

// TaskSummary lists the budget counters and every created task.
func (r *Renderer) TaskSummary(w *world.World, maxTasks int) string {
	var b strings.Builder
	b.WriteString(r.Styles.Title.Render("- Task summary") + "\n")
	fmt.Fprintf(&b, "Max task: %d, Task created: %d, Active task: %d, Completed task: %d\n",
		maxTasks, len(w.Tasks()), len(w.ActiveTasks()), w.CompletedTasks())

	ground := []core.RobotType{core.Caterpillar, core.Wheel}
	header := fmt.Sprintf("%-4s%-10s%-7s%-7s%-10s", "ID", "Location", "Found", "Done", "Assigned")
	for _, t := range ground {
		header += fmt.Sprintf("%*s", len(t.String())+2, t)
	}
	b.WriteString(r.Styles.Header.Render(header) + "\n")

	k := w.Knowledge()
	for _, t := range w.Tasks() {
		found := t.Done || k.Object(t.Coord).Has(core.ObjTask)
		assigned := "No"
		if t.Assigned() {
			assigned = fmt.Sprint(t.Robot)
		}
		fmt.Fprintf(&b, "%2d  %-10s%-7s%-7s%8s  ", t.ID, t.Coord, yesNo(found), yesNo(t.Done), assigned)
		for _, rt := range ground {
			fmt.Fprintf(&b, "%*d", len(rt.String())+2, t.CostFor(rt))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// Report summarizes a finished run.
func (r *Renderer) Report(m sim.SimulationMetrics) string {
	rows := [][2]string{
		{"Run", m.RunID},
		{"Strategy", m.Strategy},
		{"Seed", fmt.Sprint(m.Seed)},
		{"Ticks", fmt.Sprintf("%d / %d", m.Ticks, m.TimeMax)},
		{"End", m.EndReason},
		{"Tasks", fmt.Sprintf("%d completed, %d discovered, %d created, budget %d",
			m.TasksCompleted, m.TasksDiscovered, m.TasksCreated, m.MaxTasks)},
		{"Robots", fmt.Sprintf("%d exhausted of %d, %d energy left", m.RobotsExhausted, m.Robots, m.EnergyRemaining)},
		{"Explored", fmt.Sprintf("%d / %d cells", m.CellsKnown, m.Cells)},
		{"Rejected", fmt.Sprintf("%d invalid, %d conflicts", m.InvalidActions, m.Conflicts)},
		{"Algorithm time", m.StrategyTime.Round(time.Microsecond).String()},
	}
	var b strings.Builder
	b.WriteString(r.Styles.Title.Render("- Run report") + "\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "%s %s\n", r.Styles.Header.Render(fmt.Sprintf("%-15s", row[0])), row[1])
	}
	if m.InvariantViolations > 0 {
		b.WriteString(r.Styles.Bad.Render(fmt.Sprintf("%d invariant violations", m.InvariantViolations)) + "\n")
	}
	return b.String()
}

// Box frames content with a rounded border.
func (r *Renderer) Box(content string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(r.Styles.Frame.GetForeground()).
		Padding(0, 1).
		Render(content)
}
