// Package host answers flag requests from a long-running editor process over
// a line-oriented JSON stream (usually the stdin/stdout of `avrflags serve`).
//
// Each request line is {"filename": "..."}; each response line is
// {"flags": [...]} or, for a line that cannot be decoded, {"error": "..."}.
// Responses are written in request order.
package host

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/avrflags/errors"
	"github.com/teranos/avrflags/flags"
)

// maxLineBytes bounds a single request line
const maxLineBytes = 1 << 20

// FlagSource is satisfied by *flags.Provider
type FlagSource interface {
	FlagsForFile(filename string) flags.Result
}

// Request asks for the flags of one file
type Request struct {
	Filename string `json:"filename"`
}

// Response carries either flags or an error message
type Response struct {
	Flags []string `json:"flags,omitempty"`
	Error string   `json:"error,omitempty"`
}

// Server answers requests from a FlagSource
type Server struct {
	source FlagSource
	logger *zap.SugaredLogger
}

// NewServer creates a server over source
func NewServer(source FlagSource, logger *zap.SugaredLogger) *Server {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Server{source: source, logger: logger}
}

// Serve reads requests from r until EOF or ctx is done. Blank lines are
// ignored. It returns nil on EOF and ctx.Err() on cancellation.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				scanErr <- ctx.Err()
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	enc := json.NewEncoder(w)
	served := 0
	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("Host stopped", "served", served)
			return ctx.Err()

		case line, ok := <-lines:
			if !ok {
				s.logger.Infow("Host input closed", "served", served)
				if err := <-scanErr; err != nil {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					return errors.Wrap(err, "failed to read request")
				}
				return nil
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			if err := enc.Encode(s.handle(line)); err != nil {
				return errors.Wrap(err, "failed to write response")
			}
			served++
		}
	}
}

func (s *Server) handle(line string) Response {
	var req Request
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		s.logger.Warnw("Malformed request", "error", err)
		return Response{Error: "malformed request: " + err.Error()}
	}

	res := s.source.FlagsForFile(req.Filename)
	s.logger.Debugw("Served flags", "file", req.Filename, "count", len(res.Flags))
	return Response{Flags: res.Flags}
}
