package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zapponejosh/tehillim-tracker/internal/calendar"
	"github.com/zapponejosh/tehillim-tracker/internal/content"
	"github.com/zapponejosh/tehillim-tracker/internal/schedule"
	"github.com/zapponejosh/tehillim-tracker/internal/tracker"
)

// testApp wires an App over a memory store and the local calendar, pinned
// to 2024-11-11 (10 Cheshvan 5785, a Monday).
func testApp(t *testing.T) (*App, *tracker.MemoryStore) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := tracker.NewMemoryStore()
	oracle := calendar.Local{}
	static, err := content.NewStatic()
	require.NoError(t, err)

	today := calendar.NewDay(2024, time.November, 11)
	engine := tracker.NewEngine(store, oracle, log)
	require.NoError(t, engine.Start(context.Background(), today))

	return &App{
		Engine:  engine,
		Store:   store,
		Oracle:  oracle,
		Content: static,
		Today:   func() calendar.Day { return today },
	}, store
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestRootCmd_NoArgs_ShowsHelp(t *testing.T) {
	app, _ := testApp(t)

	output, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, output, "tehillim")
	assert.Contains(t, output, "verify")
}

// --- today ---

func TestTodayCmd(t *testing.T) {
	app, _ := testApp(t)

	output, err := executeCmd(t, app, "today")
	require.NoError(t, err)
	assert.Contains(t, output, "55-59")
	assert.Contains(t, output, "חשון")
	assert.Contains(t, output, "not yet read")
}

func TestTodayCmd_WithText(t *testing.T) {
	app, _ := testApp(t)

	output, err := executeCmd(t, app, "today", "--text")
	require.NoError(t, err)
	assert.Contains(t, output, "תהילים 55")
	assert.Contains(t, output, "תהילים 59")
	assert.Contains(t, output, content.SourcePlaceholder)
}

// --- read ---

func TestReadCmd_Daily(t *testing.T) {
	app, store := testApp(t)

	output, err := executeCmd(t, app, "read")
	require.NoError(t, err)
	assert.Contains(t, output, "daily reading recorded")
	assert.Contains(t, output, "5/150")

	l := app.Engine.Snapshot()
	assert.Equal(t, 1, l.CurrentStreak)
	assert.True(t, l.CompletedUnits.HasAll(schedule.Range{Start: 55, End: 59}))
	assert.NotEmpty(t, store.Raw())

	output, err = executeCmd(t, app, "today")
	require.NoError(t, err)
	assert.Contains(t, output, "completed")
}

func TestReadCmd_SingleDefaultsEndToStart(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "read", "--mode", "single", "--start", "23")
	require.NoError(t, err)

	l := app.Engine.Snapshot()
	assert.Equal(t, 1, l.TotalUnitsCompleted)
	assert.True(t, l.CompletedUnits.Has(23))
}

func TestReadCmd_Book(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "read", "--mode", "book", "--book", "3")
	require.NoError(t, err)
	assert.Equal(t, 17, app.Engine.Snapshot().TotalUnitsCompleted)
}

func TestReadCmd_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"unknown mode", []string{"read", "--mode", "weekly"}, tracker.ErrInvalidMode},
		{"unknown book", []string{"read", "--mode", "book", "--book", "9"}, tracker.ErrInvalidRange},
		{"range past end", []string{"read", "--mode", "single", "--start", "140", "--end", "151"}, tracker.ErrInvalidRange},
		{"catchup of future day", []string{"read", "--mode", "catchup", "--ordinal", "12"}, tracker.ErrNotMissed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := testApp(t)

			_, err := executeCmd(t, app, tt.args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, app.Engine.Snapshot().TotalUnitsCompleted)
		})
	}
}

func TestReadCmd_CatchUp(t *testing.T) {
	app, _ := testApp(t)

	output, err := executeCmd(t, app, "read", "--mode", "catchup", "--ordinal", "8")
	require.NoError(t, err)
	assert.Contains(t, output, "catchup reading recorded")

	l := app.Engine.Snapshot()
	for u := 44; u <= 48; u++ {
		assert.True(t, l.CompletedUnits.Has(u), "chapter %d", u)
	}
}

// --- status ---

func TestStatusCmd(t *testing.T) {
	app, _ := testApp(t)

	output, err := executeCmd(t, app, "status")
	require.NoError(t, err)
	assert.Contains(t, output, "never")
	assert.Contains(t, output, "0/150")

	_, err = executeCmd(t, app, "read")
	require.NoError(t, err)

	output, err = executeCmd(t, app, "status")
	require.NoError(t, err)
	assert.Contains(t, output, "2024-11-11")
	assert.Contains(t, output, "yes")
}

// --- schedule ---

func TestScheduleCmd(t *testing.T) {
	app, _ := testApp(t)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"schedule"}, "פסוקים א-צו"},
		{[]string{"schedule", "monthly"}, "145-150"},
		{[]string{"schedule", "weekly"}, "WEEKDAY"},
		{[]string{"schedule", "books"}, "ספר ראשון"},
	}

	for _, tt := range tests {
		output, err := executeCmd(t, app, tt.args...)
		require.NoError(t, err, tt.args)
		assert.Contains(t, output, tt.want, tt.args)
	}
}

func TestScheduleCmd_Unknown(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "schedule", "yearly")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown schedule")
}

// --- month ---

func TestMonthCmd(t *testing.T) {
	app, _ := testApp(t)

	output, err := executeCmd(t, app, "month")
	require.NoError(t, err)
	assert.Contains(t, output, "חשון")
	assert.Contains(t, output, "missed")

	output, err = executeCmd(t, app, "month", "--offset", "1")
	require.NoError(t, err)
	assert.Contains(t, output, "כסלו")

	output, err = executeCmd(t, app, "month", "--offset=-2")
	require.NoError(t, err)
	assert.Contains(t, output, "אלול")
}

// --- verify ---

func TestVerifyCmd(t *testing.T) {
	app, _ := testApp(t)

	output, err := executeCmd(t, app, "verify")
	require.NoError(t, err)
	assert.Contains(t, output, "monthly table")
	assert.Contains(t, output, "calendar round trip")
	assert.NotContains(t, output, "FAIL")
	assert.NotContains(t, output, "database")
}

// --- serve ---

func TestServeCmd(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "serve")
	require.Error(t, err)

	served := false
	app.Serve = func(ctx context.Context) error {
		served = true
		return nil
	}
	_, err = executeCmd(t, app, "serve")
	require.NoError(t, err)
	assert.True(t, served)
}

// --- export / import ---

func TestExportImport_RoundTrip(t *testing.T) {
	app, _ := testApp(t)
	_, err := executeCmd(t, app, "read")
	require.NoError(t, err)

	exported, err := executeCmd(t, app, "export")
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(exported), &raw))
	assert.Contains(t, raw, "readChaptersStatus")

	path := filepath.Join(t.TempDir(), "ledger.json")
	require.NoError(t, os.WriteFile(path, []byte(exported), 0o600))

	other, _ := testApp(t)
	output, err := executeCmd(t, other, "import", path)
	require.NoError(t, err)
	assert.Contains(t, output, "2024-11-11")
	assert.NotContains(t, output, "warning")

	assert.Equal(t, app.Engine.Snapshot().CompletedUnits.Sorted(), other.Engine.Snapshot().CompletedUnits.Sorted())
	assert.True(t, other.Engine.CompletedToday(other.Today()))
}

func TestImport_PartialState(t *testing.T) {
	app, _ := testApp(t)

	path := filepath.Join(t.TempDir(), "ledger.json")
	data := `{"currentStreak": "three", "maxStreak": 4, "readChaptersStatus": [1, 2, 3], "cycleType": "week"}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	output, err := executeCmd(t, app, "import", path)
	require.NoError(t, err)
	assert.Contains(t, output, "warning")

	l := app.Engine.Snapshot()
	assert.Zero(t, l.CurrentStreak)
	assert.Equal(t, 4, l.MaxStreak)
	assert.Equal(t, []int{1, 2, 3}, l.CompletedUnits.Sorted())
}

func TestImport_RejectsNonJSON(t *testing.T) {
	app, store := testApp(t)
	_, err := executeCmd(t, app, "read")
	require.NoError(t, err)
	before := store.Raw()

	path := filepath.Join(t.TempDir(), "ledger.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	_, err = executeCmd(t, app, "import", path)
	require.Error(t, err)
	assert.Equal(t, before, store.Raw())
	assert.Equal(t, 1, app.Engine.Snapshot().CurrentStreak)
}

func TestImport_MissingFile(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "import", filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
