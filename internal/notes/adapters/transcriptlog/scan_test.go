package transcriptlog_test

import (
	"context"
	"strings"
	"testing"

	"github.com/izzddalfk/fabnotes/internal/notes/adapters/transcriptlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sep = strings.Repeat("=", 50)

const handWrittenLog = `
==================================================
Timestamp: 2024-11-02 10:15:00
ORIG : riunione di progetto
SUMM : decisioni sul rilascio

==================================================
Timestamp: 2024-11-03 08:00:00
ORIG : stray line without summary
this line is not part of the format
==================================================
Timestamp: 2024-11-02 17:45:10
ORIG : seconda riunione
SUMM :    spazi intorno
`

func TestScanDates(t *testing.T) {
	dates, err := transcriptlog.ScanDates(context.Background(), strings.NewReader(handWrittenLog))
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-11-02", "2024-11-03"}, dates)
}

func TestScanDates_SkipsMalformedTimestamps(t *testing.T) {
	log := "Timestamp: 24-11-02 10:00:00\nTimestamp: yesterday\nTimestamp: 2024-11-05 00:00:00"
	dates, err := transcriptlog.ScanDates(context.Background(), strings.NewReader(log))
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-11-05"}, dates)
}

func TestScanDates_Empty(t *testing.T) {
	dates, err := transcriptlog.ScanDates(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.NotNil(t, dates)
	assert.Empty(t, dates)
}

func TestScanSummaries(t *testing.T) {
	summaries, err := transcriptlog.ScanSummaries(context.Background(), strings.NewReader(handWrittenLog), "2024-11-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"decisioni sul rilascio", "spazi intorno"}, summaries)

	summaries, err = transcriptlog.ScanSummaries(context.Background(), strings.NewReader(handWrittenLog), "2024-11-03")
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestScanSummaries_CRLFLineEndings(t *testing.T) {
	log := strings.ReplaceAll(handWrittenLog, "\n", "\r\n")
	summaries, err := transcriptlog.ScanSummaries(context.Background(), strings.NewReader(log), "2024-11-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"decisioni sul rilascio", "spazi intorno"}, summaries)
}

func TestScanSummaries_CaptureStateMachine(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		expected []string
	}{
		{
			name:     "summary before any timestamp is ignored",
			lines:    []string{"SUMM : orphan", sep, "Timestamp: 2025-01-01 00:00:00", "SUMM : kept"},
			expected: []string{"kept"},
		},
		{
			name:     "separator stops capture",
			lines:    []string{"Timestamp: 2025-01-01 00:00:00", sep, "SUMM : dropped"},
			expected: []string{},
		},
		{
			name:     "several summary lines in one record are all captured",
			lines:    []string{"Timestamp: 2025-01-01 00:00:00", "SUMM : one", "SUMM : two"},
			expected: []string{"one", "two"},
		},
		{
			name:     "longer run of equals is not a separator",
			lines:    []string{"Timestamp: 2025-01-01 00:00:00", sep + "=", "SUMM : still captured"},
			expected: []string{"still captured"},
		},
		{
			name:     "a later matching timestamp re-arms capture",
			lines:    []string{"Timestamp: 2025-01-01 00:00:00", "SUMM : a", sep, "Timestamp: 2025-01-02 00:00:00", "SUMM : b", sep, "Timestamp: 2025-01-01 12:00:00", "SUMM : c"},
			expected: []string{"a", "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := strings.Join(tt.lines, "\n")
			summaries, err := transcriptlog.ScanSummaries(context.Background(), strings.NewReader(input), "2025-01-01")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, summaries)
		})
	}
}

func TestScanSummaries_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summaries, err := transcriptlog.ScanSummaries(ctx, strings.NewReader(handWrittenLog), "2024-11-02")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, summaries)
}

func TestFormatRecord_RoundTripsThroughScanner(t *testing.T) {
	record := transcriptlog.FormatRecord(recordAt("2025-06-30 23:59:59", "orig", "summary text"))
	assert.True(t, strings.HasPrefix(record, "\n"+sep+"\nTimestamp: 2025-06-30 23:59:59\n"))

	summaries, err := transcriptlog.ScanSummaries(context.Background(), strings.NewReader(record), "2025-06-30")
	require.NoError(t, err)
	assert.Equal(t, []string{"summary text"}, summaries)
}
