package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cleanEnv(t *testing.T) {
	for _, k := range []string{"PROFILER_CONFIG", "STATE_LOG_FILE", "DEBUG", "VIEW", "DATABASE_URL"} {
		t.Setenv(k, "")
	}
}

func writeLog(t *testing.T, path string, lines ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
}

func fixture(t *testing.T) string {
	root := t.TempDir()
	writeLog(t, filepath.Join(root, "node-01", "state-00001-log.txt"),
		"[STATE] [00:00:01:000] [DSCON][127.0.0.1      ][5] BGIN",
		"[STATE] [00:00:02:000] [DSCON][127.0.0.1      ][5] DONE",
		"[STATE] [00:00:05:000] [FBCON][127.0.0.1      ][5] BGIN",
		"[STATE] [00:00:06:000] [FBCON][127.0.0.1      ][5] DONE",
		"[STATE] [00:00:07:000] [FBCON][127.0.0.1      ][6] BGIN",
		"[STATE] [00:00:07:900] [FBCON][127.0.0.1      ][6] DONE",
	)
	writeLog(t, filepath.Join(root, "node-02", "state-00001-log.txt"),
		"[STATE] [00:00:03:000] [MICON][127.0.0.2      ][5] BGIN",
		"[STATE] [00:00:03:400] [MICON][127.0.0.2      ][5] DONE",
		"[STATE] [00:00:04:000] [MICON][127.0.0.2      ][5] BGIN",
		"[STATE] [00:00:04:100] [MICON][127.0.0.2      ][5] DONE",
	)
	writeLog(t, filepath.Join(root, "node-02", "other-log.txt"),
		"[STATE] [00:00:03:000] [FBCON][127.0.0.2      ][9] BGIN",
	)
	return root
}

func TestRun_Usage(t *testing.T) {
	cleanEnv(t)
	var out bytes.Buffer
	assert.Equal(t, 0, run([]string{"only-one"}, &out))
	assert.Contains(t, out.String(), "Usage:")
}

func TestRun_MissingLogPath(t *testing.T) {
	cleanEnv(t)
	var out bytes.Buffer
	missing := filepath.Join(t.TempDir(), "nope")
	assert.Equal(t, 1, run([]string{missing, filepath.Join(t.TempDir(), "out.txt")}, &out))
	assert.Contains(t, out.String(), "not exist")
	assert.Contains(t, out.String(), "Usage:")
}

func TestRun_UnwritableOutput(t *testing.T) {
	cleanEnv(t)
	var out bytes.Buffer
	output := filepath.Join(t.TempDir(), "missing-dir", "out.txt")
	assert.Equal(t, 1, run([]string{fixture(t), output}, &out))
	assert.Contains(t, out.String(), "Failed to open file")
}

func TestRun_Report(t *testing.T) {
	cleanEnv(t)
	root := fixture(t)
	output := filepath.Join(t.TempDir(), "report.txt")

	var out bytes.Buffer
	require.Equal(t, 0, run([]string{root, output}, &out))

	got, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "DS Block\t5\t00:00:01:000\t00:00:02:000\t1000\n"+
		"MB Block\t5\t00:00:03:000\t00:00:03:400\t400\n"+
		"MB Block\t5\t00:00:04:000\t00:00:04:100\t100\n"+
		"FB Block\t5\t00:00:05:000\t00:00:06:000\t1000\n"+
		"FB Block\t6\t00:00:07:000\t00:00:07:900\t900\n", string(got))

	// same input, same bytes
	second := filepath.Join(t.TempDir(), "report.txt")
	require.Equal(t, 0, run([]string{root, second}, &out))
	again, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}
