package replay

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"robo-advisor/internal/common/errors"
	"robo-advisor/internal/common/logger"
	"robo-advisor/internal/common/metrics"
	"robo-advisor/internal/common/observability"
	"robo-advisor/internal/dialog"
	recommendportfolio "robo-advisor/internal/intents/recommend-portfolio"
	"robo-advisor/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helpers
// ==========================

func newTestDispatcher(t *testing.T) *dialog.Dispatcher {
	cfg := recommendportfolio.DefaultConfig()
	cfg.Now = func() time.Time { return time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC) }
	log := logger.NewTestLogger(t)
	return dialog.NewDispatcher(recommendportfolio.NewHandler(cfg, log), log)
}

// sessionWriter stamps a session attribute on every response so tests can
// see what the runner threads into the next request.
type sessionWriter struct {
	inner dialog.TurnHandler
	seen  []map[string]string
}

func (s *sessionWriter) HandleTurn(ctx context.Context, req *models.IntentRequest) (*models.DialogResponse, error) {
	s.seen = append(s.seen, req.SessionAttributes)
	resp, err := s.inner.HandleTurn(ctx, req)
	if resp != nil {
		if resp.SessionAttributes == nil {
			resp.SessionAttributes = map[string]string{}
		}
		resp.SessionAttributes["turns"] += "x"
	}
	return resp, err
}

// ==========================
// Script loading
// ==========================

func TestLoadScript(t *testing.T) {
	script, err := LoadScript(filepath.Join("testdata", "happy_path.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "happy path", script.Name)
	assert.Equal(t, "RecommendPortfolio", script.IntentName)
	assert.Equal(t, map[string]string{"channel": "web"}, script.SessionAttributes)
	require.Len(t, script.Turns, 5)
	assert.Equal(t, models.InvocationSourceDialogCodeHook, script.Turns[1].InvocationSource)
	assert.Equal(t, "70", models.Value(script.Turns[1].Slots["age"]))
	assert.Equal(t, []string{"age"}, script.Turns[1].Expect.NullSlots)
	assert.Equal(t, models.FulfillmentStateFulfilled, script.Turns[4].Expect.FulfillmentState)
}

func TestLoadScript_Errors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	tests := []struct {
		name string
		path string
	}{
		{name: "missing file", path: filepath.Join(dir, "absent.yaml")},
		{name: "not yaml", path: write("bad.yaml", "name: [unterminated")},
		{name: "unknown field", path: write("unknown.yaml", "name: x\nintentName: RecommendPortfolio\nturns:\n  - invocationSource: DialogCodeHook\n    slotz: {}\n")},
		{name: "no name", path: write("noname.yaml", "intentName: RecommendPortfolio\nturns:\n  - invocationSource: DialogCodeHook\n")},
		{name: "no turns", path: write("noturns.yaml", "name: empty\nintentName: RecommendPortfolio\n")},
		{name: "turn without source", path: write("nosource.yaml", "name: x\nintentName: RecommendPortfolio\nturns:\n  - slots: {}\n")},
		{name: "no intent anywhere", path: write("nointent.yaml", "name: x\nturns:\n  - invocationSource: DialogCodeHook\n")},
		{name: "action and error", path: write("both.yaml", "name: x\nintentName: RecommendPortfolio\nturns:\n  - invocationSource: DialogCodeHook\n    expect:\n      action: Delegate\n      error: UNSUPPORTED_INTENT\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script, err := LoadScript(tt.path)
			require.Error(t, err)
			assert.Nil(t, script)
			assert.True(t, errors.HasCode(err, errors.ErrCodeScriptLoadFailed))
		})
	}
}

// ==========================
// Replay
// ==========================

func TestRunner_HappyPath(t *testing.T) {
	script, err := LoadScript(filepath.Join("testdata", "happy_path.yaml"))
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	recorder := metrics.New(reg)
	obs, err := observability.New("robo-advisor-test", reg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = obs.Shutdown(context.Background()) })

	runner := NewRunner(newTestDispatcher(t), logger.NewTestLogger(t), Options{
		Recorder:      recorder,
		Observability: obs,
	})

	report, err := runner.Run(context.Background(), script)
	require.NoError(t, err)

	for _, turn := range report.Turns {
		assert.Empty(t, turn.Failures, "turn %d", turn.Index)
		assert.NotEmpty(t, turn.TurnID)
	}
	assert.True(t, report.Passed())
	assert.NoError(t, report.Err())
	require.Len(t, report.Turns, 5)

	final := report.Turns[4].Request.Slots
	assert.Equal(t, "Sam", models.Value(final.FirstName))
	assert.Equal(t, "30", models.Value(final.Age))
	assert.Equal(t, "10000", models.Value(final.InvestmentAmount))
	assert.Equal(t, "Low", models.Value(final.RiskLevel))
	assert.Equal(t, map[string]string{"channel": "web"}, report.Turns[4].Request.SessionAttributes)

	assert.Equal(t, 2.0, testutil.ToFloat64(recorder.TurnsHandled.WithLabelValues("RecommendPortfolio", "DialogCodeHook", "Delegate")))
	assert.Equal(t, 2.0, testutil.ToFloat64(recorder.TurnsHandled.WithLabelValues("RecommendPortfolio", "DialogCodeHook", "ElicitSlot")))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.TurnsHandled.WithLabelValues("RecommendPortfolio", "FulfillmentCodeHook", "Close")))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.SlotViolations.WithLabelValues("birthday")))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.SlotViolations.WithLabelValues("usdAmount")))
}

func TestRunner_ExpectedError(t *testing.T) {
	script, err := LoadScript(filepath.Join("testdata", "unknown_intent.yaml"))
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	recorder := metrics.New(reg)
	runner := NewRunner(newTestDispatcher(t), logger.NewNoOpLogger(), Options{Recorder: recorder})

	report, err := runner.Run(context.Background(), script)
	require.NoError(t, err)

	assert.True(t, report.Passed())
	require.Len(t, report.Turns, 1)
	assert.Nil(t, report.Turns[0].Response)
	assert.True(t, errors.HasCode(report.Turns[0].Err, errors.ErrCodeUnsupportedIntent))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.TurnsFailed.WithLabelValues("UNSUPPORTED_INTENT")))
}

func TestRunner_ThreadsSessionAttributes(t *testing.T) {
	script := &Script{
		Name:              "session",
		IntentName:        "RecommendPortfolio",
		SessionAttributes: map[string]string{"channel": "web"},
		Turns: []Turn{
			{InvocationSource: models.InvocationSourceDialogCodeHook},
			{InvocationSource: models.InvocationSourceDialogCodeHook},
			{InvocationSource: models.InvocationSourceFulfillmentCodeHook, Slots: map[string]*string{
				"investmentAmount": models.StringPtr("5000"),
			}},
		},
	}

	writer := &sessionWriter{inner: newTestDispatcher(t)}
	report, err := NewRunner(writer, logger.NewNoOpLogger(), Options{}).Run(context.Background(), script)
	require.NoError(t, err)
	assert.True(t, report.Passed())

	require.Len(t, writer.seen, 3)
	assert.Equal(t, map[string]string{"channel": "web"}, writer.seen[0])
	assert.Equal(t, map[string]string{"channel": "web", "turns": "x"}, writer.seen[1])
	assert.Equal(t, map[string]string{"channel": "web", "turns": "xx"}, writer.seen[2])
	assert.Equal(t, map[string]string{"channel": "web"}, script.SessionAttributes)
}

func TestRunner_ReportsMismatches(t *testing.T) {
	script := &Script{
		Name:       "mismatch",
		IntentName: "RecommendPortfolio",
		Turns: []Turn{
			{
				InvocationSource: models.InvocationSourceDialogCodeHook,
				Slots:            map[string]*string{"age": models.StringPtr("70")},
				Expect:           Expectation{Action: models.DialogActionDelegate},
			},
			{
				InvocationSource: models.InvocationSourceDialogCodeHook,
				Slots:            map[string]*string{"age": models.StringPtr("30")},
				Expect: Expectation{
					Action:          models.DialogActionDelegate,
					MessageContains: []string{"hello"},
				},
			},
			{
				InvocationSource: models.InvocationSourceFulfillmentCodeHook,
				Slots:            map[string]*string{"investmentAmount": models.StringPtr("9000")},
				Expect:           Expectation{Error: errors.ErrCodeUnsupportedIntent},
			},
		},
	}

	report, err := NewRunner(newTestDispatcher(t), logger.NewNoOpLogger(), Options{}).Run(context.Background(), script)
	require.NoError(t, err)

	require.Len(t, report.Turns, 3)
	assert.Equal(t, []string{"expected Delegate action, got ElicitSlot"}, report.Turns[0].Failures)
	assert.Equal(t, []string{`expected message to contain "hello"`}, report.Turns[1].Failures)
	assert.Equal(t, []string{"expected error UNSUPPORTED_INTENT, got Close response"}, report.Turns[2].Failures)
	assert.Equal(t, 3, report.FailedTurns())
	assert.True(t, errors.HasCode(report.Err(), errors.ErrCodeExpectationMismatch))
}

func TestRunner_StopOnFailure(t *testing.T) {
	script := &Script{
		Name:       "stop",
		IntentName: "RecommendPortfolio",
		Turns: []Turn{
			{
				InvocationSource: models.InvocationSourceDialogCodeHook,
				Expect:           Expectation{Action: models.DialogActionClose},
			},
			{InvocationSource: models.InvocationSourceDialogCodeHook},
		},
	}

	runner := NewRunner(newTestDispatcher(t), logger.NewNoOpLogger(), Options{StopOnFailure: true})
	report, err := runner.Run(context.Background(), script)
	require.NoError(t, err)

	assert.Len(t, report.Turns, 1)
	assert.False(t, report.Passed())
}

func TestRunner_CancelledContext(t *testing.T) {
	script, err := LoadScript(filepath.Join("testdata", "happy_path.yaml"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := NewRunner(newTestDispatcher(t), logger.NewNoOpLogger(), Options{}).Run(ctx, script)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, report.Turns)
}

func TestOverlaySlots(t *testing.T) {
	base := models.Slots{FirstName: models.StringPtr("Sam"), Age: models.StringPtr("30")}

	merged := overlaySlots(base, map[string]*string{
		"age":      nil,
		"campaign": models.StringPtr("spring"),
	})

	assert.Equal(t, "Sam", models.Value(merged.FirstName))
	assert.Nil(t, merged.Age)
	assert.Equal(t, "spring", models.Value(merged.Extra["campaign"]))
	assert.Equal(t, "30", models.Value(base.Age))
}
