package main

import (
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidyamurthy/SimpleMusicPlayer/resume"
)

// runMain calls main with args, capturing the exit code instead of exiting.
func runMain(t *testing.T, args ...string) (code int, called bool) {
	t.Helper()

	osExit = func(c int) {
		if called {
			return
		}
		called = true
		code = c
	}
	headlessMode = true
	testMode = true

	savedArgs := os.Args
	defer func() {
		osExit = os.Exit
		headlessMode = false
		testMode = false
		os.Args = savedArgs
	}()

	flag.CommandLine = flag.NewFlagSet("smp", flag.ContinueOnError)
	viper.Reset()

	os.Args = append([]string{"smp"}, args...)
	main()
	return
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "smp.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestMainHelp(t *testing.T) {
	code, called := runMain(t, "--help")
	require.True(t, called, "osExit was not called")
	assert.Equal(t, 0, code)
}

func TestMainVersion(t *testing.T) {
	code, called := runMain(t, "--version")
	require.True(t, called)
	assert.Equal(t, 0, code)
}

func TestMainMissingConfig(t *testing.T) {
	code, called := runMain(t, "--config="+filepath.Join(t.TempDir(), "nope.toml"))
	require.True(t, called)
	assert.Equal(t, 2, code)
}

func TestMainEmptyLibrary(t *testing.T) {
	dir := t.TempDir()
	config := writeConfig(t, dir, `
[library]
dir = "`+filepath.ToSlash(dir)+`"
`)

	code, called := runMain(t, "--config="+config)
	require.True(t, called)
	assert.Equal(t, 2, code)
}

func TestMainBadPlaybackOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Cold.mp3"), []byte("audio"), 0644))
	config := writeConfig(t, dir, `
[library]
dir = "`+filepath.ToSlash(dir)+`"

[playback]
order = "backwards"
`)

	code, called := runMain(t, "--config="+config)
	require.True(t, called)
	assert.Equal(t, 2, code)
}

func TestMainList(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Cold.mp3"), []byte("audio"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Sahiba.flac"), []byte("audio"), 0644))
	config := writeConfig(t, dir, `
[library]
dir = "`+filepath.ToSlash(dir)+`"

[history]
db = "`+filepath.ToSlash(filepath.Join(dir, "history.db"))+`"
`)

	code, called := runMain(t, "--config="+config, "--list")
	require.True(t, called)
	assert.Equal(t, 0, code)
}

// Needs libmpv; the mpv engine comes up and main stops before the gui.
func TestMainWithoutTUI(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Cold.mp3"), []byte("audio"), 0644))
	config := writeConfig(t, dir, `
[library]
dir = "`+filepath.ToSlash(dir)+`"

[playback]
resume = false
`)

	code, called := runMain(t, "--config="+config)
	require.True(t, called)
	if code != 0x23420001 {
		stackBuf := make([]byte, 1024)
		stackSize := runtime.Stack(stackBuf, false)
		t.Fatalf("Unexpected exit with code: %d\nStack trace:\n%s\n", code, stackBuf[:stackSize])
	}
}

func TestStartVolume(t *testing.T) {
	muted, half := 0, 50
	assert.Equal(t, 0, startVolume(80, resume.Session{Path: "/m/Cold.mp3", Volume: &muted}))
	assert.Equal(t, 50, startVolume(80, resume.Session{Path: "/m/Cold.mp3", Volume: &half}))
	assert.Equal(t, 80, startVolume(80, resume.Session{Path: "/m/Cold.mp3"}))
}
