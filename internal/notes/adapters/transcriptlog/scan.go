package transcriptlog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/izzddalfk/fabnotes/internal/notes/core"
)

// check for cancellation every this many lines
const cancelCheckInterval = 1024

var timestampDatePattern = regexp.MustCompile(`Timestamp: (\d{4}-\d{2}-\d{2})`)

// ScanDates extracts the distinct YYYY-MM-DD dates of all timestamp lines in file order.
// Lines that do not carry a timestamp are skipped.
func ScanDates(ctx context.Context, r io.Reader) ([]string, error) {
	seen := make(map[string]struct{})
	dates := []string{}

	err := eachLine(ctx, r, func(line string) {
		match := timestampDatePattern.FindStringSubmatch(line)
		if match == nil {
			return
		}
		if _, ok := seen[match[1]]; ok {
			return
		}
		seen[match[1]] = struct{}{}
		dates = append(dates, match[1])
	})
	if err != nil {
		return nil, err
	}

	return dates, nil
}

// ScanSummaries collects the summary lines of every record whose timestamp line
// contains "Timestamp: <date>". The match is a plain substring test, so a date
// prefix such as "2025-01" selects the whole month.
func ScanSummaries(ctx context.Context, r io.Reader, date string) ([]string, error) {
	capture := newSummaryCapture(date)
	if err := eachLine(ctx, r, capture.feed); err != nil {
		return nil, err
	}
	return capture.summaries, nil
}

// summaryCapture is the per-line state machine used by ScanSummaries
type summaryCapture struct {
	marker    string
	capturing bool
	summaries []string
}

func newSummaryCapture(date string) *summaryCapture {
	return &summaryCapture{
		marker:    core.TimestampLabel + date,
		summaries: []string{},
	}
}

func (c *summaryCapture) feed(raw string) {
	line := strings.TrimSpace(raw)

	switch {
	case strings.Contains(line, c.marker):
		c.capturing = true
	case c.capturing && strings.HasPrefix(line, core.SummaryLabel):
		c.summaries = append(c.summaries, strings.TrimSpace(strings.TrimPrefix(line, core.SummaryLabel)))
	case c.capturing && isSeparator(line):
		c.capturing = false
	}
}

// isSeparator reports whether a trimmed line is exactly the record separator.
// Text that merely contains a run of '=' is not a separator.
func isSeparator(line string) bool {
	return line == core.Separator
}

// eachLine calls fn for every line of r, without the trailing newline.
// Lines have no length limit.
func eachLine(ctx context.Context, r io.Reader, fn func(line string)) error {
	reader := bufio.NewReader(r)
	for n := 0; ; n++ {
		if n%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			fn(strings.TrimRight(line, "\r\n"))
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read transcript log: %w", err)
		}
	}
}
