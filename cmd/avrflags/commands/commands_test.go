package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/avrflags/am"
	"github.com/teranos/avrflags/errors"
	"github.com/teranos/avrflags/flags"
)

var testRoot *cobra.Command

func TestMain(m *testing.M) {
	testRoot = &cobra.Command{Use: "avrflags", SilenceUsage: true, SilenceErrors: true}
	testRoot.AddCommand(FlagsCmd, WriteCmd, ServeCmd, AmCmd, VersionCmd)
	os.Exit(m.Run())
}

// setup isolates configuration to a temp dir holding a single explicit config file
func setup(t *testing.T, configTOML string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", filepath.Join(dir, "home"))
	t.Chdir(dir)

	oldSystem := am.SystemConfigPath
	am.SystemConfigPath = filepath.Join(dir, "etc", "am.toml")

	configPath := filepath.Join(dir, "test.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(configTOML), 0o644))
	am.SetConfigFile(configPath)

	oldOptions := providerOptions
	providerOptions = []flags.Option{flags.WithLister(flags.StaticLister{
		"./libs/*/src": {"libs/Servo/src"},
	})}

	flagsFormat, writeOutput, configFormat = "", "", "toml"

	t.Cleanup(func() {
		am.SystemConfigPath = oldSystem
		am.SetConfigFile("")
		providerOptions = oldOptions
	})
	return dir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	testRoot.SetOut(&out)
	testRoot.SetErr(&out)
	testRoot.SetIn(strings.NewReader(stdin))
	testRoot.SetArgs(args)
	err := testRoot.ExecuteContext(context.Background())
	return out.String(), err
}

const unoConfig = `
[board]
variant = "eightanaloginputs"
cpu = "ATmega328P"
clock_mhz = 16

[libraries]
search_roots = ["./libs/*/src", "./none/*"]
`

func TestFlagsCommand_JSON(t *testing.T) {
	setup(t, unoConfig)

	out, err := execute(t, "", "flags", "programmer.ino")
	require.NoError(t, err)

	var res map[string][]string
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	got := res["flags"]
	require.NotEmpty(t, got)
	assert.Equal(t, "-Wall", got[0])
	assert.Contains(t, got, "-mmcu=ATmega328P")
	assert.Contains(t, got, "-D__AVR_ATmega328P__")
	assert.Contains(t, got, "-DF_CPU=16000000")
	assert.Equal(t, "-Ilibs/Servo/src", got[len(got)-1])
}

func TestFlagsCommand_Formats(t *testing.T) {
	setup(t, unoConfig)

	out, err := execute(t, "", "flags", "--format", "lines")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "-Wall\n-Wextra\n"))

	out, err = execute(t, "", "flags", "--format", "shell")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, "-DF_CPU=16000000")

	_, err = execute(t, "", "flags", "--format", "xml")
	assert.Error(t, err)
}

func TestFlagsCommand_InvalidBoardFailsBeforeOutput(t *testing.T) {
	setup(t, `
[board]
cpu = ""
`)

	out, err := execute(t, "", "flags", "main.cpp")
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
	assert.Contains(t, errors.FlattenHints(err), "Customize your flags!")
	assert.Empty(t, out)
}

func TestWriteCommand(t *testing.T) {
	dir := setup(t, unoConfig)

	_, err := execute(t, "", "write", "--output", "cf.txt")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "cf.txt"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "-Wall", lines[0])
	assert.Equal(t, "-Ilibs/Servo/src", lines[len(lines)-1])
}

func TestServeCommand(t *testing.T) {
	setup(t, unoConfig)

	out, err := execute(t, "{\"filename\": \"a.cpp\"}\n{\"filename\": \"b.hpp\"}\n", "serve")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, lines[0], lines[1], "flags do not depend on the filename")
	assert.Contains(t, lines[0], `"-DF_CPU=16000000"`)
}

func TestAmShow(t *testing.T) {
	setup(t, unoConfig)

	out, err := execute(t, "", "am", "show", "--format", "json")
	require.NoError(t, err)

	var cfg am.Config
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, "ATmega328P", cfg.Board.CPU)
	assert.Equal(t, []string{"./libs/*/src", "./none/*"}, cfg.Libraries.SearchRoots)

	out, err = execute(t, "", "am", "show", "--format", "toml")
	require.NoError(t, err)
	assert.Contains(t, out, "cpu = 'ATmega328P'")

	out, err = execute(t, "", "am", "show", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "cpu: ATmega328P")
}

func TestAmGetAndValidate(t *testing.T) {
	setup(t, unoConfig)

	out, err := execute(t, "", "am", "get", "board.clock_mhz")
	require.NoError(t, err)
	assert.Equal(t, "16\n", out)

	_, err = execute(t, "", "am", "validate")
	assert.NoError(t, err)
}

func TestAmValidate_Rejects(t *testing.T) {
	setup(t, `
[toolchain]
gcc_version = "newest"
`)

	_, err := execute(t, "", "am", "validate")
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"go_version"`)
}
