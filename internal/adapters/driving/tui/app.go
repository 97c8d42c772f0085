package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/custodia-labs/missedcalls/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/missedcalls/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/missedcalls/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/missedcalls/internal/core/domain"
)

// maxRuns bounds the history kept on screen.
const maxRuns = 50

// visibleRuns is the number of history rows shown at once.
const visibleRuns = 10

// run is one entry in the history.
type run struct {
	report *domain.RunReport
	err    error
	at     time.Time
}

// App is the watch monitor following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keys   *keymap.KeyMap

	help    help.Model
	spinner spinner.Model
	now     func() time.Time

	// runs holds finished runs, newest first.
	runs   []run
	offset int

	running bool
	nextRun time.Time

	// err holds the scheduler's exit error.
	err error

	width  int
	height int
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the monitor with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	return &App{
		ports:   ports,
		ctx:     context.Background(),
		styles:  s,
		keys:    keymap.DefaultKeyMap(),
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(s.Subtitle)),
		now:     time.Now,
		running: true,
	}, nil
}

// WithContext sets the context the scheduler runs under.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Err returns the scheduler's error after the program exits, if any.
func (a *App) Err() error {
	return a.err
}

// Init implements tea.Model. It starts the scheduler and the countdown.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("missedcalls - watch"),
		a.spinner.Tick,
		a.startScheduler(),
		a.waitForResult(),
		tick(),
	)
}

func (a *App) startScheduler() tea.Cmd {
	return func() tea.Msg {
		return messages.SchedulerStopped{Err: a.ports.Scheduler.Start(a.ctx)}
	}
}

// waitForResult delivers the next run outcome. It is re-armed after each one.
func (a *App) waitForResult() tea.Cmd {
	return func() tea.Msg {
		select {
		case r, ok := <-a.ports.Results:
			if !ok {
				return nil
			}
			return r
		case <-a.ctx.Done():
			return nil
		}
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return messages.Tick{Time: t}
	})
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		return a, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, a.keys.Help):
			a.help.ShowAll = !a.help.ShowAll
		case key.Matches(msg, a.keys.Up):
			if a.offset > 0 {
				a.offset--
			}
		case key.Matches(msg, a.keys.Down):
			if a.offset+visibleRuns < len(a.runs) {
				a.offset++
			}
		}
		return a, nil

	case messages.RunFinished:
		a.record(msg)
		return a, a.waitForResult()

	case messages.Tick:
		if !a.running && !a.nextRun.IsZero() && !msg.Time.Before(a.nextRun) {
			a.running = true
		}
		return a, tick()

	case messages.SchedulerStopped:
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			a.err = msg.Err
		}
		return a, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a *App) record(msg messages.RunFinished) {
	now := a.now()
	a.runs = append([]run{{report: msg.Report, err: msg.Err, at: now}}, a.runs...)
	if len(a.runs) > maxRuns {
		a.runs = a.runs[:maxRuns]
	}
	a.offset = 0
	a.running = false
	a.nextRun = now.Add(a.ports.Interval)
}

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("missedcalls"))
	if a.ports.Target != "" {
		b.WriteString(a.styles.Muted.Render(" → " + a.ports.Target))
	}
	b.WriteString("\n")
	b.WriteString(a.styles.Subtitle.Render("Publishing every " + a.ports.Interval.String()))
	b.WriteString("\n\n")

	b.WriteString(a.statusLine())
	b.WriteString("\n\n")

	if len(a.runs) == 0 {
		b.WriteString(a.styles.Muted.Render("No runs yet."))
	} else {
		b.WriteString(a.historyTable())
	}
	b.WriteString("\n")

	if last := a.runs; len(last) > 0 && last[0].err != nil {
		b.WriteString("\n")
		b.WriteString(a.styles.Failed.Render("Last run failed: " + last[0].err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render(a.help.View(a.keys)))
	return b.String()
}

func (a *App) statusLine() string {
	if a.running {
		return a.spinner.View() + " Running..."
	}
	remaining := a.nextRun.Sub(a.now()).Round(time.Second)
	if remaining < 0 {
		remaining = 0
	}
	return a.styles.Normal.Render("Next run in " + remaining.String())
}

func (a *App) historyTable() string {
	end := a.offset + visibleRuns
	if end > len(a.runs) {
		end = len(a.runs)
	}

	rows := make([][]string, 0, end-a.offset)
	for _, r := range a.runs[a.offset:end] {
		rows = append(rows, a.historyRow(r))
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(a.styles.Border).
		Headers("FINISHED", "RUN", "FETCHED", "MISSED", "SHEETS").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return a.styles.TableHeader
			}
			return a.styles.TableCell
		})
	if a.width > 0 {
		t.Width(a.width)
	}
	return t.Render()
}

func (a *App) historyRow(r run) []string {
	finished := r.at.Format("15:04:05")
	if r.report == nil {
		return []string{finished, "-", "-", "-", a.styles.Failed.Render("failed")}
	}
	return []string{
		finished,
		shortID(r.report.RunID),
		humanize.Comma(int64(r.report.Fetched)),
		strconv.Itoa(r.report.Missed),
		a.sheetSummary(r.report),
	}
}

// sheetSummary condenses the per-tab results, e.g. "2 published, 1 failed".
func (a *App) sheetSummary(report *domain.RunReport) string {
	var published, skipped, failed int
	for _, s := range report.Sheets {
		switch {
		case s.Skipped:
			skipped++
		case s.Err != nil:
			failed++
		default:
			published++
		}
	}

	parts := []string{a.styles.Published.Render(fmt.Sprintf("%d published", published))}
	if skipped > 0 {
		parts = append(parts, a.styles.Skipped.Render(fmt.Sprintf("%d skipped", skipped)))
	}
	if failed > 0 {
		parts = append(parts, a.styles.Failed.Render(fmt.Sprintf("%d failed", failed)))
	}
	return strings.Join(parts, ", ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Run shows the monitor until the user quits or ctx ends.
func Run(ctx context.Context, app *App, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	if _, err := tea.NewProgram(app.WithContext(ctx), opts...).Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return app.Err()
}
