package flags

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/avrflags/errors"
)

var unoBoard = Board{Variant: "eightanaloginputs", CPU: "ATmega328P", ClockMHz: 16}

// expectedFixed is the full deterministic prefix for unoBoard on the default toolchain.
var expectedFixed = []string{
	"-Wall",
	"-Wextra",
	"-Wno-attributes",
	"-std=c++17",
	"-x",
	"c++",
	"-fno-exceptions",
	"-fpermissive",
	"-fno-threadsafe-statics",
	"-include/usr/share/arduino/hardware/archlinux-arduino/avr/cores/arduino/Arduino.h",
	"-isystem/usr/share/arduino/hardware/archlinux-arduino/avr/variants/eightanaloginputs",
	"-isystem/usr/share/arduino/hardware/archlinux-arduino/avr/cores/arduino",
	"-isystem/usr/lib/gcc/avr/8.2.0/include",
	"-I/usr/lib/gcc/avr/8.2.0/plugin/include",
	"-isystem/usr/avr/include",
	"-isystem/usr/local/include",
	"-isystem/usr/include",
	"-mmcu=ATmega328P",
	"-D__AVR_ATmega328P__",
	"-D__OPTIMIZE__",
	"-DF_CPU=16000000",
}

func countWithPrefix(flags []string, prefix string) int {
	n := 0
	for _, f := range flags {
		if strings.HasPrefix(f, prefix) {
			n++
		}
	}
	return n
}

func TestFlagsForFile_NoLibraries(t *testing.T) {
	p, err := New(unoBoard, WithLister(StaticLister{}))
	require.NoError(t, err)

	res := p.FlagsForFile("sketch.ino")
	assert.Equal(t, expectedFixed, res.Flags)
	assert.Contains(t, res.Flags, "-mmcu=ATmega328P")
	assert.Contains(t, res.Flags, "-D__AVR_ATmega328P__")
	assert.Contains(t, res.Flags, "-DF_CPU=16000000")
}

func TestFlagsForFile_OneIncludePerFlag(t *testing.T) {
	p, err := New(unoBoard, WithLister(StaticLister{}))
	require.NoError(t, err)

	for _, f := range p.FlagsForFile("sketch.ino").Flags {
		assert.LessOrEqual(t, strings.Count(f, "-isystem"), 1, f)
	}
}

func TestFlagsForFile_FilenameIndependent(t *testing.T) {
	lister := StaticLister{".": {"."}}
	p, err := New(unoBoard, WithLister(lister))
	require.NoError(t, err)

	want := p.FlagsForFile("main.cpp").Flags
	for _, name := range []string{"", "programmer.ino", "/abs/path/serial.hpp", "../crc.hpp", "no extension"} {
		assert.Equal(t, want, p.FlagsForFile(name).Flags, "file %q", name)
	}
}

func TestFlagsForFile_ArchFlagsExactlyOnce(t *testing.T) {
	p, err := New(Board{Variant: "standard", CPU: "ATmega2560", ClockMHz: 8}, WithLister(StaticLister{}))
	require.NoError(t, err)

	flags := p.FlagsForFile("x.cpp").Flags
	assert.Equal(t, 1, countWithPrefix(flags, "-mmcu="))
	assert.Equal(t, 1, countWithPrefix(flags, "-D__AVR_"))
	assert.Equal(t, 1, countWithPrefix(flags, "-DF_CPU="))
	assert.Contains(t, flags, "-mmcu=ATmega2560")
	assert.Contains(t, flags, "-D__AVR_ATmega2560__")
	assert.Contains(t, flags, "-DF_CPU=8000000")
	assert.Contains(t, flags, "-isystem/usr/share/arduino/hardware/archlinux-arduino/avr/variants/standard")
}

func TestFlagsForFile_LibraryOrder(t *testing.T) {
	lister := StaticLister{
		"/libs/*/src": {"/libs/A/src", "/libs/B/src"},
		"~/more":      {"/home/u/more"},
		".":           {"."},
	}
	p, err := New(unoBoard,
		WithLister(lister),
		WithSearchRoots([]string{"/libs/*/src", "/nothing/*", "~/more", "."}),
	)
	require.NoError(t, err)

	flags := p.FlagsForFile("a.cpp").Flags
	require.Len(t, flags, len(expectedFixed)+4)
	assert.Equal(t, expectedFixed, flags[:len(expectedFixed)])
	assert.Equal(t, []string{"-I/libs/A/src", "-I/libs/B/src", "-I/home/u/more", "-I."}, flags[len(expectedFixed):])
}

func TestFlagsForFile_DuplicatesKept(t *testing.T) {
	lister := StaticLister{"x": {"/same"}, "y": {"/same"}}
	p, err := New(unoBoard, WithLister(lister), WithSearchRoots([]string{"x", "y"}))
	require.NoError(t, err)

	flags := p.FlagsForFile("a.cpp").Flags
	assert.Equal(t, []string{"-I/same", "-I/same"}, flags[len(expectedFixed):])
}

type failingLister struct{}

func (failingLister) Glob(pattern string) ([]string, error) {
	return nil, filepath.ErrBadPattern
}

func TestFlagsForFile_BadPatternYieldsNothing(t *testing.T) {
	p, err := New(unoBoard, WithLister(failingLister{}))
	require.NoError(t, err)

	assert.Equal(t, expectedFixed, p.FlagsForFile("a.cpp").Flags)
}

func TestFlagsForFile_RealFilesystem(t *testing.T) {
	root := t.TempDir()
	for _, lib := range []string{"Servo", "Wire"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, lib, "src"), 0o755))
	}
	// A library without src/ is not matched
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Legacy"), 0o755))

	p, err := New(unoBoard, WithSearchRoots([]string{filepath.Join(root, "*", "src"), "[bad"}))
	require.NoError(t, err)

	flags := p.FlagsForFile("a.cpp").Flags
	assert.Equal(t, []string{
		"-I" + filepath.Join(root, "Servo", "src"),
		"-I" + filepath.Join(root, "Wire", "src"),
	}, flags[len(expectedFixed):])
}

func TestFlagsForFile_FreshSlicePerCall(t *testing.T) {
	p, err := New(unoBoard, WithLister(StaticLister{}))
	require.NoError(t, err)

	first := p.FlagsForFile("a.cpp")
	first.Flags[0] = "-Wmutated"
	assert.Equal(t, "-Wall", p.FlagsForFile("a.cpp").Flags[0])
}

func TestFlagsForFile_CustomToolchain(t *testing.T) {
	tc := Toolchain{
		ArduinoRoot:    "/opt/arduino/avr",
		GCCRoot:        "/opt/avr-gcc/lib/gcc/avr",
		GCCVersion:     "12.1.0",
		SystemIncludes: []string{"/opt/avr-gcc/avr/include"},
	}
	p, err := New(unoBoard, WithToolchain(tc), WithLister(StaticLister{}))
	require.NoError(t, err)

	flags := p.FlagsForFile("a.cpp").Flags
	assert.Contains(t, flags, "-include/opt/arduino/avr/cores/arduino/Arduino.h")
	assert.Contains(t, flags, "-isystem/opt/avr-gcc/lib/gcc/avr/12.1.0/include")
	assert.Contains(t, flags, "-I/opt/avr-gcc/lib/gcc/avr/12.1.0/plugin/include")
	assert.Contains(t, flags, "-isystem/opt/avr-gcc/avr/include")
	assert.NotContains(t, flags, "-isystem/usr/include")
	assert.Equal(t, []string{"/opt/arduino/avr/libraries/*/src", "~/Arduino/libraries/*/src", "."}, p.SearchRoots())
}

func TestFlagsForFile_Concurrent(t *testing.T) {
	p, err := New(unoBoard, WithLister(StaticLister{".": {"."}}))
	require.NoError(t, err)
	want := p.FlagsForFile("a.cpp").Flags

	var wg sync.WaitGroup
	results := make([][]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = p.FlagsForFile("b.cpp").Flags
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestNew_InvalidBoard(t *testing.T) {
	tests := []struct {
		name  string
		board Board
		want  string
	}{
		{"empty variant", Board{CPU: "ATmega328P", ClockMHz: 16}, "board.variant is empty"},
		{"empty cpu", Board{Variant: "standard", ClockMHz: 16}, "board.cpu is empty"},
		{"zero clock", Board{Variant: "standard", CPU: "ATmega328P"}, "board.clock_mhz is zero"},
		{"negative clock", Board{Variant: "standard", CPU: "ATmega328P", ClockMHz: -8}, "board.clock_mhz must be positive, got -8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.board)
			require.Error(t, err)
			assert.Nil(t, p)
			assert.Equal(t, tt.want, err.Error())
			assert.True(t, errors.IsConfigError(err))
			assert.Contains(t, errors.FlattenHints(err), "Customize your flags!")
		})
	}
}

func TestBoardFCPU(t *testing.T) {
	assert.Equal(t, "16000000", Board{ClockMHz: 16}.FCPU())
	assert.Equal(t, "8000000", Board{ClockMHz: 8}.FCPU())
	assert.Equal(t, "20000000", Board{ClockMHz: 20}.FCPU())
	// Textual suffix: large values are not normalised
	assert.Equal(t, "16000000000000", Board{ClockMHz: 16000000}.FCPU())
}
