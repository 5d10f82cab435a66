package shell

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/apelahishokr/tracker/internal/services"
	"github.com/apelahishokr/tracker/types"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
)

// renderer writes styled output. Colors are only emitted when out is a
// terminal.
type renderer struct {
	out io.Writer

	title   lipgloss.Style
	header  lipgloss.Style
	cell    lipgloss.Style
	border  lipgloss.Style
	label   lipgloss.Style
	ok      lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	dim     lipgloss.Style
}

func newRenderer(out io.Writer) *renderer {
	r := lipgloss.NewRenderer(out)
	return &renderer{
		out:     out,
		title:   r.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		header:  r.NewStyle().Foreground(lipgloss.Color("201")).Bold(true).Padding(0, 1),
		cell:    r.NewStyle().Padding(0, 1),
		border:  r.NewStyle().Foreground(lipgloss.Color("238")),
		label:   r.NewStyle().Foreground(lipgloss.Color("45")),
		ok:      r.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),
		warning: r.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		failure: r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		dim:     r.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

func (r *renderer) println(s string) {
	fmt.Fprintln(r.out, s)
}

func (r *renderer) newline() {
	fmt.Fprintln(r.out)
}

func (r *renderer) prompt(label string) {
	fmt.Fprint(r.out, label)
}

func (r *renderer) info(msg string) {
	r.println(r.dim.Render(msg))
}

func (r *renderer) success(msg string) {
	r.println(r.ok.Render(msg))
}

func (r *renderer) warn(msg string) {
	r.println(r.warning.Render("Warning:") + " " + msg)
}

func (r *renderer) fail(msg string) {
	r.println(r.failure.Render("Error:") + " " + msg)
}

func (r *renderer) menu(title string, options ...string) {
	r.newline()
	r.println(r.title.Render("=== " + title + " ==="))
	for i, opt := range options {
		r.println(fmt.Sprintf("%d. %s", i+1, opt))
	}
}

func (r *renderer) table(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.header
			}
			return r.cell
		})
	r.println(t.String())
}

func (r *renderer) projectHeader(p *types.Project) {
	r.newline()
	r.println(r.title.Render(p.Title) + " " + r.dim.Render("("+p.ID+")"))
	r.println(r.label.Render("Leader: ") + p.Leader)
	r.println(r.label.Render("Members: ") + strings.Join(p.Users, ", "))
}

func (r *renderer) projectTable(title string, projects []*types.Project) {
	r.println(r.title.Render(title))
	rows := make([][]string, 0, len(projects))
	for i, p := range projects {
		rows = append(rows, []string{itoa(i), p.ID, p.Title, p.Leader, itoa(len(p.Tasks))})
	}
	r.table([]string{"Index", "Project ID", "Title", "Leader", "Tasks"}, rows)
}

func (r *renderer) taskTable(p *types.Project, ids []int) {
	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		t := p.Tasks[id]
		rows = append(rows, []string{
			itoa(id),
			t.Title,
			t.Priority.String(),
			t.Status.String(),
			strings.Join(t.AssignedTo, ", "),
			t.StartDate,
			t.EndDate,
		})
	}
	r.table([]string{"ID", "Title", "Priority", "Status", "Assigned", "Start", "End"}, rows)
}

func (r *renderer) assignedTable(assigned []services.AssignedTask) {
	rows := make([][]string, 0, len(assigned))
	for _, a := range assigned {
		rows = append(rows, []string{
			a.Project.Title,
			itoa(a.TaskID),
			a.Task.Title,
			a.Task.Priority.String(),
			a.Task.Status.String(),
			a.Task.EndDate,
		})
	}
	r.table([]string{"Project", "Task ID", "Title", "Priority", "Status", "Due"}, rows)
}

func (r *renderer) taskDetail(id int, t *types.Task) {
	r.newline()
	r.println(r.title.Render(fmt.Sprintf("Task %d: %s", id, t.Title)))
	fields := [][2]string{
		{"Description", t.Description},
		{"Start", t.StartDate},
		{"End", t.EndDate},
		{"Assigned", strings.Join(t.AssignedTo, ", ")},
		{"Priority", t.Priority.String()},
		{"Status", t.Status.String()},
	}
	for _, f := range fields {
		r.println(r.label.Render(f[0]+": ") + f[1])
	}
	if t.Comments != "" {
		r.println(r.label.Render("Comments:"))
		for _, line := range strings.Split(t.Comments, "\n") {
			r.println("  " + line)
		}
	}
	if len(t.History) == 0 {
		r.info("No history.")
		return
	}
	rows := make([][]string, 0, len(t.History))
	for _, h := range t.History {
		rows = append(rows, []string{
			h.Date.Format("2006-01-02 15:04:05"),
			humanize.Time(h.Date),
			h.UpdatedBy,
			h.Field,
			h.Old,
			h.New,
		})
	}
	r.table([]string{"Date", "When", "By", "Field", "Old", "New"}, rows)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
