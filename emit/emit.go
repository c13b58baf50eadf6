// Package emit renders flag results for editor hosts and shells.
package emit

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"
	"gopkg.in/yaml.v3"

	"github.com/teranos/avrflags/errors"
	"github.com/teranos/avrflags/flags"
)

// Output formats
const (
	FormatJSON  = "json"  // {"flags": [...]}, the editor host contract
	FormatYAML  = "yaml"  // flags: [...]
	FormatLines = "lines" // one flag per line, the clangd compile_flags.txt layout
	FormatShell = "shell" // single shell-quoted line for pasting after avr-g++
)

// Formats lists every supported format
var Formats = []string{FormatJSON, FormatYAML, FormatLines, FormatShell}

// Render writes res to w in the given format
func Render(w io.Writer, res flags.Result, format string) error {
	data, err := Marshal(res, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Marshal renders res in the given format. Every format ends with a newline.
func Marshal(res flags.Result, format string) ([]byte, error) {
	if res.Flags == nil {
		res.Flags = []string{}
	}

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal flags to JSON")
		}
		return append(data, '\n'), nil

	case FormatYAML:
		data, err := yaml.Marshal(res)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal flags to YAML")
		}
		return data, nil

	case FormatLines:
		var b strings.Builder
		for _, f := range res.Flags {
			b.WriteString(f)
			b.WriteByte('\n')
		}
		return []byte(b.String()), nil

	case FormatShell:
		return []byte(shellquote.Join(res.Flags...) + "\n"), nil

	default:
		return nil, errors.Newf("unsupported format: %s (supported: %s)", format, strings.Join(Formats, ", "))
	}
}

// ParseShell splits a shell-quoted flag line back into flags
func ParseShell(line string) ([]string, error) {
	words, err := shellquote.Split(line)
	if err != nil {
		return nil, errors.Wrap(err, "failed to split flag line")
	}
	return words, nil
}

// WriteCompileFlags writes res to path in the lines format. The file is
// replaced atomically so an editor never reads a half-written list.
func WriteCompileFlags(path string, res flags.Result) error {
	data, err := Marshal(res, FormatLines)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrapf(err, "failed to create temp file in %s", dir)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to write %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %s", tmpName)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return errors.Wrapf(err, "failed to chmod %s", tmpName)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrapf(err, "failed to replace %s", path)
	}
	return nil
}
