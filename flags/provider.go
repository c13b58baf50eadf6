// Package flags builds the compiler flag list an editor completion engine
// needs to parse Arduino/AVR C++ sources.
//
// A Provider is constructed once from a Board (validated up front) and then
// answers FlagsForFile for any number of files. The answer does not depend on
// the file name: every file in the project is parsed with the same flags.
// Only the library include directories are discovered per call, by expanding
// the configured search roots through a DirLister.
package flags

import (
	"go.uber.org/zap"
)

// Result is the payload handed back to the editor host.
type Result struct {
	Flags []string `json:"flags" yaml:"flags"`
}

// generalFlags precede everything else. The dialect is pinned and -x forces
// C++ even for .ino and .h files.
var generalFlags = []string{
	"-Wall",
	"-Wextra",
	"-Wno-attributes",
	"-std=c++17",
	"-x",
	"c++",
	"-fno-exceptions",
	"-fpermissive",
	"-fno-threadsafe-statics",
}

// Provider computes flag lists. It is immutable after New and safe for
// concurrent use.
type Provider struct {
	board       Board
	toolchain   Toolchain
	searchRoots []string
	lister      DirLister
	logger      *zap.SugaredLogger
}

// Option configures a Provider.
type Option func(*Provider)

// WithToolchain overrides the default toolchain layout.
func WithToolchain(tc Toolchain) Option {
	return func(p *Provider) {
		p.toolchain = tc
		p.toolchain.SystemIncludes = append([]string(nil), tc.SystemIncludes...)
	}
}

// WithSearchRoots sets the library search root glob patterns, in order.
// An empty slice disables library discovery.
func WithSearchRoots(roots []string) Option {
	return func(p *Provider) {
		p.searchRoots = append([]string{}, roots...)
	}
}

// WithLister replaces the filesystem glob used for library discovery.
func WithLister(l DirLister) Option {
	return func(p *Provider) {
		p.lister = l
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(p *Provider) {
		p.logger = l
	}
}

// New validates the board and returns a Provider. A board with an empty
// variant, empty cpu or zero clock yields an error marked errors.ErrConfig.
func New(board Board, opts ...Option) (*Provider, error) {
	if err := board.Validate(); err != nil {
		return nil, err
	}

	p := &Provider{
		board:     board,
		toolchain: DefaultToolchain(),
		lister:    GlobLister{},
		logger:    zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.searchRoots == nil {
		p.searchRoots = DefaultSearchRoots(p.toolchain)
	}
	return p, nil
}

// Board returns the board the provider was built for.
func (p *Provider) Board() Board {
	return p.board
}

// SearchRoots returns a copy of the configured library search roots.
func (p *Provider) SearchRoots() []string {
	return append([]string(nil), p.searchRoots...)
}

// FlagsForFile returns the flags for filename. The list is rebuilt on every
// call: fixed flags, then architecture flags, then one -I per library
// directory found under the search roots.
func (p *Provider) FlagsForFile(filename string) Result {
	flags := p.fixedFlags()
	flags = append(flags, p.archFlags()...)

	libDirs := p.libraryDirs()
	for _, dir := range libDirs {
		flags = append(flags, "-I"+dir)
	}

	p.logger.Debugw("Computed flags",
		"file", filename,
		"count", len(flags),
		"library_dirs", len(libDirs))

	return Result{Flags: flags}
}

// fixedFlags returns the general flags followed by the toolchain includes.
// The variant and core directories are two separate -isystem flags; older
// hand-written configs glued them into a single argument.
func (p *Provider) fixedFlags() []string {
	tc := p.toolchain
	flags := make([]string, 0, len(generalFlags)+5+len(tc.SystemIncludes)+4)
	flags = append(flags, generalFlags...)
	flags = append(flags,
		"-include"+tc.coreHeader(),
		"-isystem"+tc.variantDir(p.board.Variant),
		"-isystem"+tc.coreDir(),
		"-isystem"+tc.gccDir("include"),
		"-I"+tc.gccDir("plugin/include"),
	)
	for _, dir := range tc.SystemIncludes {
		flags = append(flags, "-isystem"+dir)
	}
	return flags
}

func (p *Provider) archFlags() []string {
	return []string{
		"-mmcu=" + p.board.CPU,
		"-D__AVR_" + p.board.CPU + "__",
		"-D__OPTIMIZE__",
		"-DF_CPU=" + p.board.FCPU(),
	}
}

// libraryDirs expands every search root. A bad pattern contributes nothing.
func (p *Provider) libraryDirs() []string {
	var dirs []string
	for _, pattern := range p.searchRoots {
		matches, err := p.lister.Glob(pattern)
		if err != nil {
			p.logger.Debugw("Library search root yielded no matches",
				"pattern", pattern,
				"error", err)
			continue
		}
		dirs = append(dirs, matches...)
	}
	return dirs
}
