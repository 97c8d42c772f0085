package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/missedcalls/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/missedcalls/internal/core/domain"
)

// mockScheduler implements driving.Scheduler for testing.
type mockScheduler struct {
	err error
}

func (m *mockScheduler) Start(ctx context.Context) error {
	if m.err != nil {
		return m.err
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockScheduler) Stop() error {
	return nil
}

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T) (*App, chan messages.RunFinished) {
	t.Helper()
	results := make(chan messages.RunFinished, 1)
	app, err := NewApp(&Ports{
		Scheduler: &mockScheduler{},
		Results:   results,
		Interval:  15 * time.Minute,
		Target:    "Call Monitoring Dashboard",
	})
	require.NoError(t, err)
	app.now = func() time.Time { return testNow }
	return app, results
}

func report(id string, sheets ...domain.SheetResult) *domain.RunReport {
	return &domain.RunReport{RunID: id, Fetched: 1200, Missed: 3, Sheets: sheets}
}

func TestPorts_Validate(t *testing.T) {
	results := make(chan messages.RunFinished)

	tests := []struct {
		name  string
		ports Ports
		want  error
	}{
		{"missing scheduler", Ports{Results: results, Interval: time.Minute}, ErrMissingScheduler},
		{"missing results", Ports{Scheduler: &mockScheduler{}, Interval: time.Minute}, ErrMissingResults},
		{"zero interval", Ports{Scheduler: &mockScheduler{}, Results: results}, ErrInvalidInterval},
		{"valid", Ports{Scheduler: &mockScheduler{}, Results: results, Interval: time.Minute}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{})

	assert.Nil(t, app)
	assert.ErrorIs(t, err, ErrMissingScheduler)
}

func TestApp_InitialView(t *testing.T) {
	app, _ := newTestApp(t)

	view := app.View()

	assert.Contains(t, view, "missedcalls")
	assert.Contains(t, view, "Call Monitoring Dashboard")
	assert.Contains(t, view, "Publishing every 15m0s")
	assert.Contains(t, view, "Running...")
	assert.Contains(t, view, "No runs yet.")
	assert.Contains(t, view, "quit")
}

func TestApp_RunFinished(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(messages.RunFinished{Report: report("0f8c2a6e-1111",
		domain.SheetResult{Sheet: "missed_all", Rows: 3},
		domain.SheetResult{Sheet: "missed_sales", Err: domain.ErrSheetNotFound},
	)})

	assert.NotNil(t, cmd, "waits for the next result")
	view := app.View()
	assert.Contains(t, view, "Next run in 15m0s")
	assert.Contains(t, view, "12:00:00")
	assert.Contains(t, view, "0f8c2a6e")
	assert.NotContains(t, view, "0f8c2a6e-1111")
	assert.Contains(t, view, "1,200")
	assert.Contains(t, view, "1 published, 1 failed")
	assert.NotContains(t, view, "Running...")
}

func TestApp_RunFailedWithoutReport(t *testing.T) {
	app, _ := newTestApp(t)

	app.Update(messages.RunFinished{Err: errors.New("fetch calls: unauthorized")})

	view := app.View()
	assert.Contains(t, view, "failed")
	assert.Contains(t, view, "Last run failed: fetch calls: unauthorized")
}

func TestApp_TickStartsNextRun(t *testing.T) {
	app, _ := newTestApp(t)
	app.Update(messages.RunFinished{Report: report("run-1")})

	app.Update(messages.Tick{Time: testNow.Add(time.Minute)})
	assert.False(t, app.running)

	_, cmd := app.Update(messages.Tick{Time: testNow.Add(15 * time.Minute)})
	assert.True(t, app.running)
	assert.NotNil(t, cmd, "ticking continues")
	assert.Contains(t, app.View(), "Running...")
}

func TestApp_HistoryIsBounded(t *testing.T) {
	app, _ := newTestApp(t)

	for i := range maxRuns + 5 {
		app.Update(messages.RunFinished{Report: report("run-" + string(rune('a'+i%26)))})
	}

	assert.Len(t, app.runs, maxRuns)
}

func TestApp_Scroll(t *testing.T) {
	app, _ := newTestApp(t)
	for range visibleRuns + 2 {
		app.Update(messages.RunFinished{Report: report("run-1")})
	}

	app.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, app.offset, "already at newest")

	app.Update(tea.KeyMsg{Type: tea.KeyDown})
	app.Update(tea.KeyMsg{Type: tea.KeyDown})
	app.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, app.offset, "stops at oldest page")

	app.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, app.offset)
}

func TestApp_HelpToggle(t *testing.T) {
	app, _ := newTestApp(t)

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})

	assert.True(t, app.help.ShowAll)
	assert.Contains(t, app.View(), "older runs")
}

func TestApp_Quit(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestApp_SchedulerStopped(t *testing.T) {
	t.Run("cancelled is not an error", func(t *testing.T) {
		app, _ := newTestApp(t)

		_, cmd := app.Update(messages.SchedulerStopped{Err: context.Canceled})

		require.NotNil(t, cmd)
		assert.Equal(t, tea.QuitMsg{}, cmd())
		assert.NoError(t, app.Err())
	})

	t.Run("failure is kept", func(t *testing.T) {
		app, _ := newTestApp(t)

		app.Update(messages.SchedulerStopped{Err: errors.New("store unavailable")})

		assert.EqualError(t, app.Err(), "store unavailable")
	})
}

func TestApp_WaitForResult(t *testing.T) {
	app, results := newTestApp(t)

	results <- messages.RunFinished{Report: report("run-1")}
	msg := app.waitForResult()()

	finished, ok := msg.(messages.RunFinished)
	require.True(t, ok)
	assert.Equal(t, "run-1", finished.Report.RunID)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	app.WithContext(ctx)
	assert.Nil(t, app.waitForResult()(), "returns once the context ends")
}

func TestApp_StartScheduler(t *testing.T) {
	results := make(chan messages.RunFinished)
	app, err := NewApp(&Ports{
		Scheduler: &mockScheduler{err: errors.New("boom")},
		Results:   results,
		Interval:  time.Minute,
	})
	require.NoError(t, err)

	msg := app.startScheduler()()

	assert.Equal(t, messages.SchedulerStopped{Err: errors.New("boom")}, msg)
}

func TestApp_WindowSize(t *testing.T) {
	app, _ := newTestApp(t)

	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Equal(t, 120, app.width)
	assert.Equal(t, 40, app.height)
	assert.Equal(t, 120, app.help.Width)
}
