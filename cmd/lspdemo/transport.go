package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/spf13/cobra"

	"github.com/firi/sansio-lsp/internal/logger"
	"github.com/firi/sansio-lsp/lsp"
)

func newRunCommand() *cobra.Command {
	var rootURI string
	var serverArgv []string
	var watch bool

	cmd := &cobra.Command{
		Use:   "run -- <server> [args...]",
		Short: "Spawn a language server and run it through the client until it exits",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			serverArgv = args
			return runServer(serverArgv, rootURI, watch)
		},
	}

	cmd.Flags().StringVar(&rootURI, "root-uri", "", "workspace root URI advertised to the server")
	cmd.Flags().BoolVar(&watch, "watch", false, "watch the workspace and send didChange on disk edits")
	return cmd
}

// session owns the subprocess pipes and the client they drive. Every
// field here is I/O the library itself refuses to hold (§5). mu
// serializes every access to client and stdin, since the watcher's
// debounce-timer goroutine and pump's read loop both drive them.
type session struct {
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stdout  io.ReadCloser
	client  *lsp.Client
	log     logger.Logger
	watcher *workspaceWatcher

	mu sync.Mutex
}

func runServer(argv []string, rootURI string, watch bool) error {
	zlog, err := logger.NewDevelopment()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer zlog.Sync()

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	opts := []lsp.Option{lsp.WithLogger(zlog)}
	if rootURI != "" {
		opts = append(opts, lsp.WithRootURI(rootURI))
	}

	s := &session{
		cmd:    cmd,
		stdin:  stdin,
		stdout: stdout,
		client: lsp.NewClient(opts...),
		log:    zlog,
	}

	if err := s.flush(); err != nil {
		return err
	}

	if watch && rootURI != "" {
		watcher, err := newWorkspaceWatcher(rootURI, s, zlog)
		if err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
		defer watcher.Stop()
		s.watcher = watcher
	}

	return s.pump()
}

// flush writes everything currently sitting in the client's outbound
// buffer to the server's stdin. Callers that already hold s.mu (pump,
// sendDiff) must use flushLocked instead.
func (s *session) flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

func (s *session) flushLocked() error {
	out := s.client.Drain()
	if len(out) == 0 {
		return nil
	}
	_, err := s.stdin.Write(out)
	return err
}

// pump is the minimal read loop a host must supply: read whatever bytes
// are available, feed them to the client, log events, flush replies.
func (s *session) pump() error {
	buf := make([]byte, 4096)
	for {
		n, err := s.stdout.Read(buf)
		if n > 0 {
			s.mu.Lock()
			events, feedErr := s.client.Feed(buf[:n])
			for _, ev := range events {
				s.handleEvent(ev)
			}
			flushErr := s.flushLocked()
			s.mu.Unlock()
			if flushErr != nil {
				return flushErr
			}
			if feedErr != nil {
				return fmt.Errorf("protocol error: %w", feedErr)
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

func (s *session) handleEvent(ev lsp.Event) {
	switch e := ev.(type) {
	case lsp.Initialized:
		s.log.Info("server initialized")
		if s.watcher != nil {
			if err := s.watcher.openAll(); err != nil {
				s.log.Error("open workspace documents: %v", err)
			}
		}
	case lsp.PublishDiagnostics:
		s.log.Info("diagnostics for %s: %d", e.URI, len(e.Diagnostics))
	case lsp.ShowMessage:
		s.log.Info("server message: %s", e.Message)
	case lsp.LogMessage:
		s.log.Debug("server log: %s", e.Message)
	case lsp.ResponseError:
		s.log.Error("request %s failed: %d %s", e.ID, e.Code, e.Message)
	case lsp.ShowMessageRequest:
		e.Reply(nil)
	case lsp.WorkDoneProgressCreate:
		e.Reply()
	case lsp.WorkspaceFolders:
		e.Reply(nil)
	case lsp.ConfigurationRequest:
		e.Reply(nil)
	case lsp.RegisterCapabilityRequest:
		e.Reply()
	case lsp.UnhandledRequest:
		s.log.Info("unhandled request: %s (auto-replied=%v)", e.Method, e.AutoReplied)
	case lsp.UnhandledNotification:
		s.log.Debug("unhandled notification: %s", e.Method)
	}
}
