package lsp

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/firi/sansio-lsp/internal/logger"
)

// State is one of the six lifecycle states (§3, §4.3). Transitions are
// one-way within a session.
type State int

const (
	NotInitialized State = iota
	WaitingForInitialized
	Normal
	WaitingForShutdown
	Shutdown
	Exited
)

func (s State) String() string {
	switch s {
	case NotInitialized:
		return "NotInitialized"
	case WaitingForInitialized:
		return "WaitingForInitialized"
	case Normal:
		return "Normal"
	case WaitingForShutdown:
		return "WaitingForShutdown"
	case Shutdown:
		return "Shutdown"
	case Exited:
		return "Exited"
	default:
		return "Unknown"
	}
}

type pendingEntry struct {
	method string
	params json.RawMessage
}

// Client is a sans-I/O LSP client: it owns no socket, thread, or timer.
// The host feeds it bytes from the wire and drains bytes to write; every
// other interaction is a plain method call.
type Client struct {
	state State

	inbound  bytes.Buffer
	outbound bytes.Buffer

	idCounter int64
	pending   map[int64]pendingEntry

	progressTokens map[string]bool

	autoReplyUnknown bool
	log              logger.Logger

	protoErr error
}

// Option configures a Client at construction time.
type Option func(*clientConfig)

type clientConfig struct {
	processID        *int
	rootURI          *string
	workspaceFolders []WorkspaceFolder
	trace            string
	logger           logger.Logger
	autoReplyUnknown bool
}

// WithProcessID sets the processId advertised in the initialize request.
func WithProcessID(pid int) Option {
	return func(c *clientConfig) { c.processID = &pid }
}

// WithRootURI sets the rootUri advertised in the initialize request.
func WithRootURI(uri string) Option {
	return func(c *clientConfig) { c.rootURI = &uri }
}

// WithWorkspaceFolders sets the workspaceFolders advertised in the
// initialize request.
func WithWorkspaceFolders(folders []WorkspaceFolder) Option {
	return func(c *clientConfig) { c.workspaceFolders = folders }
}

// WithTrace sets the trace level: "off", "messages", or "verbose".
func WithTrace(level string) Option {
	return func(c *clientConfig) { c.trace = level }
}

// WithLogger attaches a Logger; defaults to logger.NullLogger{}.
func WithLogger(l logger.Logger) Option {
	return func(c *clientConfig) { c.logger = l }
}

// WithAutoReplyUnknown controls whether an unhandled inbound request is
// automatically answered with a MethodNotFound error (default true, §7
// taxonomy item 5).
func WithAutoReplyUnknown(enabled bool) Option {
	return func(c *clientConfig) { c.autoReplyUnknown = enabled }
}

// NewClient constructs a Client and immediately queues the initialize
// request, transitioning from NotInitialized to WaitingForInitialized
// (§3, §4.3). Call Drain to retrieve the queued bytes.
func NewClient(opts ...Option) *Client {
	cfg := clientConfig{
		trace:            "off",
		logger:           logger.NullLogger{},
		autoReplyUnknown: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Client{
		state:            NotInitialized,
		pending:          make(map[int64]pendingEntry),
		progressTokens:   make(map[string]bool),
		autoReplyUnknown: cfg.autoReplyUnknown,
		log:              cfg.logger,
	}

	params := initializeParams{
		ProcessID:             cfg.processID,
		RootURI:               cfg.rootURI,
		WorkspaceFolders:      cfg.workspaceFolders,
		Trace:                 cfg.trace,
		Capabilities:          defaultClientCapabilities(),
	}
	c.sendRequest("initialize", params)
	c.state = WaitingForInitialized
	return c
}

// State returns the client's current lifecycle state.
func (c *Client) State() State { return c.state }

// IsInitialized reports whether the client has completed the
// initialize/initialized handshake (state is Normal or later, short of
// Exited — matching is_initialized()'s intent in §6).
func (c *Client) IsInitialized() bool {
	return c.state == Normal || c.state == WaitingForShutdown || c.state == Shutdown
}

// Drain returns and clears the outbound byte buffer (§6).
func (c *Client) Drain() []byte {
	if c.outbound.Len() == 0 {
		return nil
	}
	out := make([]byte, c.outbound.Len())
	copy(out, c.outbound.Bytes())
	c.outbound.Reset()
	return out
}

// Feed appends data to the inbound buffer and parses as many complete
// frames as are available, returning one Event per frame in arrival
// order (§4.2 "Ordering"). A protocol error latches the client: once
// returned, every subsequent Feed call returns the same error without
// attempting to parse further bytes (DESIGN.md Open Question 3), though
// frames successfully parsed before the failing one are still returned
// alongside it (§8 property 3).
func (c *Client) Feed(data []byte) ([]Event, error) {
	if c.protoErr != nil {
		return nil, c.protoErr
	}

	c.inbound.Write(data)
	frames, err := decodeFrames(&c.inbound)

	events := make([]Event, 0, len(frames))
	for _, f := range frames {
		ev, handleErr := c.handleFrame(f)
		if handleErr != nil {
			c.protoErr = handleErr
			return events, handleErr
		}
		if ev != nil {
			events = append(events, ev)
		}
	}

	if err != nil {
		c.protoErr = err
		return events, err
	}
	return events, nil
}

func (c *Client) handleFrame(f frame) (Event, error) {
	switch f.kind {
	case frameResponse:
		return c.handleResponse(f)
	case frameRequest:
		return c.handleInboundRequest(f)
	case frameNotification:
		return c.handleInboundNotification(f)
	default:
		return nil, newProtocolError("unknown frame kind", nil)
	}
}

// reserveID allocates the next outbound id: a monotonically increasing
// counter starting at zero, per §3.
func (c *Client) reserveID() int64 {
	id := c.idCounter
	c.idCounter++
	return id
}

func (c *Client) sendRequest(method string, params interface{}) int64 {
	id := c.reserveID()
	raw, err := json.Marshal(params)
	if err != nil {
		panic(fmt.Sprintf("lsp: marshal params for %s: %v", method, err))
	}
	c.pending[id] = pendingEntry{method: method, params: raw}

	framed, err := encodeMessage(wireRequest{
		Jsonrpc: "2.0",
		ID:      idPtr(IntID(id)),
		Method:  method,
		Params:  raw,
	})
	if err != nil {
		panic(fmt.Sprintf("lsp: encode request %s: %v", method, err))
	}
	c.outbound.Write(framed)
	return id
}

func (c *Client) sendNotification(method string, params interface{}) {
	raw, err := json.Marshal(params)
	if err != nil {
		panic(fmt.Sprintf("lsp: marshal params for %s: %v", method, err))
	}
	framed, err := encodeMessage(wireRequest{
		Jsonrpc: "2.0",
		Method:  method,
		Params:  raw,
	})
	if err != nil {
		panic(fmt.Sprintf("lsp: encode notification %s: %v", method, err))
	}
	c.outbound.Write(framed)
}

func (c *Client) sendResponse(id ID, result interface{}, respErr *wireError) {
	resp := wireResponse{Jsonrpc: "2.0", ID: id}
	if respErr != nil {
		resp.Error = respErr
	} else {
		raw, err := json.Marshal(result)
		if err != nil {
			panic(fmt.Sprintf("lsp: marshal response result: %v", err))
		}
		resp.Result = raw
	}
	framed, err := encodeMessage(resp)
	if err != nil {
		panic(fmt.Sprintf("lsp: encode response: %v", err))
	}
	c.outbound.Write(framed)
}

func idPtr(id ID) *ID { return &id }

// requireNormal panics with a MisuseError if the client is not in state
// Normal (§4.3 "All other outbound operations ... are legal only in
// state Normal"). Panicking, not returning an error, matches §7 taxonomy
// item 4: "surfaced at call time, synchronously, as a programming error."
func (c *Client) requireNormal(method string) {
	if c.state != Normal {
		panic(&MisuseError{Method: method, State: c.state})
	}
}

// Shutdown sends the shutdown request, transitioning Normal to
// WaitingForShutdown (§4.3).
func (c *Client) Shutdown() int64 {
	c.requireNormal("shutdown")
	id := c.sendRequest("shutdown", nil)
	c.state = WaitingForShutdown
	return id
}

// Exit sends the exit notification, transitioning Shutdown to Exited
// (§4.3).
func (c *Client) Exit() {
	if c.state != Shutdown {
		panic(&MisuseError{Method: "exit", State: c.state})
	}
	c.sendNotification("exit", nil)
	c.state = Exited
}

// CancelLastRequest emits $/cancelRequest for the most recently issued
// id. It does not remove the entry from the pending table; the server
// is expected to respond and the normal correlation path runs (§4.4).
func (c *Client) CancelLastRequest() {
	lastID := c.idCounter - 1
	c.sendNotification("$/cancelRequest", struct {
		ID int64 `json:"id"`
	}{ID: lastID})
}
