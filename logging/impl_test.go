package logging

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"go.viam.com/test"
)

type BasicStruct struct {
	X int
	y string
}

// assertLogMatches will fuzzy match log lines. Notably, this checks the time format, but ignores
// the exact time. And it expects a match on the filename, but the exact line number can be wrong.
func assertLogMatches(t *testing.T, actual *bytes.Buffer, expected string) {
	t.Helper()

	output, err := actual.ReadString('\n')
	test.That(t, err, test.ShouldBeNil)

	actualParts := strings.Split(strings.TrimSuffix(output, "\n"), "\t")
	expectedParts := strings.Split(expected, "\t")
	test.That(t, len(actualParts), test.ShouldEqual, len(expectedParts))

	// Use the length of the first string as a weak verification of checking that the result looks like a date.
	test.That(t, len(actualParts[0]), test.ShouldEqual, len(expectedParts[0]))
	// Log level and logger name.
	test.That(t, actualParts[1], test.ShouldEqual, expectedParts[1])
	test.That(t, actualParts[2], test.ShouldEqual, expectedParts[2])

	// Filename:line_number.
	actualFilename, actualLineNumber, found := strings.Cut(actualParts[3], ":")
	test.That(t, found, test.ShouldBeTrue)
	expectedFilename, _, found := strings.Cut(expectedParts[3], ":")
	test.That(t, found, test.ShouldBeTrue)
	test.That(t, actualFilename, test.ShouldEqual, expectedFilename)
	_, err = strconv.Atoi(actualLineNumber)
	test.That(t, err, test.ShouldBeNil)

	// Log message.
	test.That(t, actualParts[4], test.ShouldEqual, expectedParts[4])
	if len(actualParts) == 5 {
		return
	}

	expectedMap := make(map[string]any)
	test.That(t, json.Unmarshal([]byte(expectedParts[5]), &expectedMap), test.ShouldBeNil)
	actualMap := make(map[string]any)
	test.That(t, json.Unmarshal([]byte(actualParts[5]), &actualMap), test.ShouldBeNil)
	test.That(t, actualMap, test.ShouldResemble, expectedMap)
}

func TestConsoleOutputFormat(t *testing.T) {
	notStdout := &bytes.Buffer{}
	logger := NewWriterLogger("impl", notStdout)

	logger.Info("impl Info log")
	assertLogMatches(t, notStdout,
		`2023-10-30T09:12:09.459Z	INFO	impl	logging/impl_test.go:67	impl Info log`)

	logger.Infof("impl %s log", "infof")
	assertLogMatches(t, notStdout,
		`2023-10-30T09:45:20.764Z	INFO	impl	logging/impl_test.go:71	impl infof log`)

	logger.Infow("impl logw", "key", "value")
	assertLogMatches(t, notStdout,
		`2023-10-30T13:19:45.806Z	INFO	impl	logging/impl_test.go:75	impl logw	{"key":"value"}`)

	// Only public fields of structs are serialized.
	logger.Warnw("BasicStruct", "oneKey", "1val", "BasicStruct", BasicStruct{1, "alice"})
	assertLogMatches(t, notStdout,
		`2023-10-30T13:20:47.129Z	WARN	impl	logging/impl_test.go:80	BasicStruct	{"BasicStruct":{"X":1},"oneKey":"1val"}`)

	// An unpaired key is logged with an error value rather than dropped.
	logger.Errorw("unpaired", "lonely")
	assertLogMatches(t, notStdout,
		`2023-10-30T13:20:47.129Z	ERROR	impl	logging/impl_test.go:85	unpaired	{"lonely":"unpaired log key"}`)
}

func TestLevels(t *testing.T) {
	notStdout := &bytes.Buffer{}
	logger := NewWriterLogger("levels", notStdout)

	logger.Debug("hidden")
	test.That(t, notStdout.Len(), test.ShouldEqual, 0)

	logger.SetLevel(DEBUG)
	test.That(t, logger.GetLevel(), test.ShouldEqual, DEBUG)
	test.That(t, logger.Level(), test.ShouldEqual, zapcore.DebugLevel)
	logger.Debugf("shown %d", 1)
	assertLogMatches(t, notStdout,
		`2023-10-30T13:20:47.129Z	DEBUG	levels	logging/impl_test.go:99	shown 1`)

	logger.SetLevel(ERROR)
	logger.Warn("hidden")
	logger.Info("hidden")
	test.That(t, notStdout.Len(), test.ShouldEqual, 0)
}

func TestSublogger(t *testing.T) {
	notStdout := &bytes.Buffer{}
	logger := NewWriterLogger("parent", notStdout)
	sub := logger.Sublogger("child")

	sub.Info("from child")
	assertLogMatches(t, notStdout,
		`2023-10-30T13:20:47.129Z	INFO	parent.child	logging/impl_test.go:115	from child`)

	// Changing the sublogger level leaves the parent untouched.
	sub.SetLevel(ERROR)
	test.That(t, logger.GetLevel(), test.ShouldEqual, INFO)
	test.That(t, logger.Sync(), test.ShouldBeNil)
}

func TestObservedTestLogger(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	logger.Infow("determined layout", "time_index", 1)
	logger.Warn("careful")

	test.That(t, logs.Len(), test.ShouldEqual, 2)
	test.That(t, logs.FilterMessage("careful").Len(), test.ShouldEqual, 1)
	entries := logs.FilterField(zapcore.Field{Key: "time_index", Type: zapcore.Int64Type, Integer: 1}).All()
	test.That(t, entries, test.ShouldHaveLength, 1)
	test.That(t, entries[0].Level, test.ShouldEqual, zapcore.InfoLevel)
}

func TestLevelFromString(t *testing.T) {
	for _, tc := range []struct {
		input    string
		expected Level
	}{
		{"debug", DEBUG},
		{"INFO", INFO},
		{"Warn", WARN},
		{"warning", WARN},
		{"error", ERROR},
	} {
		level, err := LevelFromString(tc.input)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, level, test.ShouldEqual, tc.expected)
		test.That(t, level.AsZap().String(), test.ShouldEqual, strings.ToLower(level.String()))
	}

	_, err := LevelFromString("loud")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "loud")
}

func TestConstructorLevels(t *testing.T) {
	test.That(t, NewLogger("info").GetLevel(), test.ShouldEqual, INFO)
	test.That(t, NewDebugLogger("debug").GetLevel(), test.ShouldEqual, DEBUG)
	test.That(t, NewWriterLogger("writer", &bytes.Buffer{}).GetLevel(), test.ShouldEqual, INFO)
}

func TestAsZapKeepsObservedLogs(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	logger.AsZap().Infow("through zap", "key", "value")
	test.That(t, logs.FilterMessage("through zap").Len(), test.ShouldEqual, 1)
}

func TestEveryLevelMethodLogs(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	logger.Debug("debug")
	logger.Debugf("%s", "debugf")
	logger.Debugw("debugw")
	logger.Info("info")
	logger.Infof("%s", "infof")
	logger.Infow("infow")
	logger.Warn("warn")
	logger.Warnf("%s", "warnf")
	logger.Warnw("warnw")
	logger.Error("error")
	logger.Errorf("%s", "errorf")
	logger.Errorw("errorw")

	test.That(t, logs.Len(), test.ShouldEqual, 12)
	for _, level := range []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel} {
		entries := logs.Filter(func(entry observer.LoggedEntry) bool { return entry.Level == level }).All()
		test.That(t, entries, test.ShouldHaveLength, 3)
		prefix := strings.ToLower(level.String())
		for _, entry := range entries {
			test.That(t, entry.Message, test.ShouldStartWith, prefix)
		}
	}
}
