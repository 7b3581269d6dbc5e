package main

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"tracefiled.dev/tracefiled/linux"
)

func TestRunDrivesSimpleCleanFile(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	feed := strings.Join([]string{
		`{"op":"create","pid":1,"tid":1,"ppid":0}`,
		`{"op":"syscall","tid":1,"syscall":"STAT","filename":"foo","path":"/","stat":{"inode":0}}`,
		`{"op":"syscall","tid":1,"syscall":"OPEN","filename":"foo","path":"/","stat":{"inode":0}}`,
		`{"op":"syscall","tid":1,"syscall":"CLOSE","filename":"foo","path":"/","stat":{"inode":0}}`,
		`{"op":"destroy","tid":1}`,
	}, "\n")

	require.NoError(t, run(strings.NewReader(feed), logger, fromFeed))

	var results []string
	for _, entry := range hook.AllEntries() {
		if r, ok := entry.Data["result"]; ok {
			results = append(results, r.(interface{ String() string }).String())
		}
	}
	require.Equal(t, []string{"PASS", "PASS", "PASS"}, results)
}

func TestRunReportsRace(t *testing.T) {
	logger, hook := test.NewNullLogger()

	feed := strings.Join([]string{
		`{"op":"create","pid":1,"tid":1,"ppid":0}`,
		`{"op":"syscall","tid":1,"syscall":"STAT","filename":"foo","path":"/","stat":{"inode":0}}`,
		`{"op":"syscall","tid":1,"syscall":"OPEN","filename":"foo","path":"/","stat":{"inode":5}}`,
	}, "\n")

	require.NoError(t, run(strings.NewReader(feed), logger, fromFeed))

	lastLevel := hook.LastEntry().Level
	require.Equal(t, logrus.ErrorLevel, lastLevel)
}

func TestRunRejectsUnknownOp(t *testing.T) {
	logger, _ := test.NewNullLogger()
	err := run(strings.NewReader(`{"op":"bogus"}`), logger, fromFeed)
	require.Error(t, err)
}

func TestLiveStatFallsBackToFeedOnError(t *testing.T) {
	logger, hook := test.NewNullLogger()

	boom := func(e event) (linux.FileHeader, error) {
		return linux.FileHeader{}, require.AnError
	}

	feed := strings.Join([]string{
		`{"op":"create","pid":1,"tid":1,"ppid":0}`,
		`{"op":"syscall","tid":1,"syscall":"STAT","filename":"foo","path":"/","stat":{"inode":7}}`,
	}, "\n")

	require.NoError(t, run(strings.NewReader(feed), logger, boom))

	var sawWarning bool
	for _, entry := range hook.AllEntries() {
		if entry.Message == "live stat failed, falling back to feed snapshot" {
			sawWarning = true
		}
	}
	require.True(t, sawWarning)
}
