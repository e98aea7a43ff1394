package framework

import (
	"fmt"
	"io"
	"sync"
	"time"
)

const timestampFormat = "15:04:05.000"

// Logger is the Printf-style interface that the harness writes debug output to.
type Logger interface {
	Printf(message string, args ...interface{})
}

type nullLogger struct{}

func (n nullLogger) Printf(message string, args ...interface{}) {}

func NullLogger() Logger { return nullLogger{} }

// TestLogger receives events for each test as the suite runs.
type TestLogger interface {
	TestStarted(id TestID)
	TestError(id TestID, err error)
	TestFinished(id TestID, failed bool, debugOutput CapturedOutput)
	TestSkipped(id TestID, reason string)
}

type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(TestID)                        {}
func (n nullTestLogger) TestError(TestID, error)                   {}
func (n nullTestLogger) TestFinished(TestID, bool, CapturedOutput) {}
func (n nullTestLogger) TestSkipped(TestID, string)                {}

type CapturedMessage struct {
	Time    time.Time
	Message string
}

// CapturedOutput is the debug output of one test, in the order it was written.
type CapturedOutput []CapturedMessage

// CapturingLogger keeps everything written to it so that it can be shown after the test ends.
// It is safe for concurrent use.
type CapturingLogger struct {
	output []CapturedMessage
	lock   sync.Mutex
}

func (l *CapturingLogger) Printf(message string, args ...interface{}) {
	l.lock.Lock()
	l.output = append(l.output, CapturedMessage{Time: time.Now(), Message: fmt.Sprintf(message, args...)})
	l.lock.Unlock()
}

func (l *CapturingLogger) Output() CapturedOutput {
	l.lock.Lock()
	ret := append([]CapturedMessage(nil), l.output...)
	l.lock.Unlock()
	return ret
}

// Dump writes one line per message. Each line shows the time of the message and how long
// after the first message it was written, which makes slow requests easy to spot.
func (output CapturedOutput) Dump(dest io.Writer, prefix string) {
	if len(output) == 0 {
		return
	}
	start := output[0].Time
	for _, m := range output {
		fmt.Fprintf(dest, "%s[%s +%.3fs] %s\n",
			prefix,
			m.Time.Format(timestampFormat),
			m.Time.Sub(start).Seconds(),
			m.Message,
		)
	}
}
