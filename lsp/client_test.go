package lsp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func newReadyClient(t *testing.T) *Client {
	t.Helper()
	c := NewClient()
	c.Drain() // discard the queued initialize request

	resp, err := encodeMessage(wireResponse{
		Jsonrpc: "2.0",
		ID:      IntID(0),
		Result:  json.RawMessage(`{"capabilities":{}}`),
	})
	require.NoError(t, err)

	events, err := c.Feed(resp)
	require.NoError(t, err, "feed initialize response")
	require.Len(t, events, 1)
	require.IsType(t, Initialized{}, events[0])
	require.Equal(t, Normal, c.State())

	c.Drain() // discard the queued "initialized" notification
	return c
}

// TestConstructorQueuesInitialize is S1 (frame), the initialize half.
func TestConstructorQueuesInitialize(t *testing.T) {
	c := NewClient()
	if c.State() != WaitingForInitialized {
		t.Fatalf("state = %s, want WaitingForInitialized", c.State())
	}
	out := c.Drain()
	if len(out) == 0 {
		t.Fatal("expected the initialize request to already be queued")
	}
}

func TestLifecycleTransitions(t *testing.T) {
	c := newReadyClient(t)

	id := c.Shutdown()
	if c.State() != WaitingForShutdown {
		t.Fatalf("state = %s, want WaitingForShutdown", c.State())
	}

	resp, _ := encodeMessage(wireResponse{Jsonrpc: "2.0", ID: IntID(id)})
	events, err := c.Feed(resp)
	if err != nil {
		t.Fatalf("feed shutdown response: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if _, ok := events[0].(Shutdown); !ok {
		t.Fatalf("event = %T, want Shutdown", events[0])
	}
	if c.State() != Shutdown {
		t.Fatalf("state = %s, want Shutdown", c.State())
	}

	c.Exit()
	if c.State() != Exited {
		t.Fatalf("state = %s, want Exited", c.State())
	}
}

// TestStateGating is §8 property 7.
func TestStateGating(t *testing.T) {
	c := NewClient() // still NotInitialized/WaitingForInitialized, never Normal

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected Hover to panic outside Normal")
		}
		if _, ok := r.(*MisuseError); !ok {
			t.Fatalf("panic value = %T, want *MisuseError", r)
		}
	}()
	c.Hover(TextDocumentPosition{})
}

// TestIDUniqueness is §8 property 5.
func TestIDUniqueness(t *testing.T) {
	c := newReadyClient(t)
	seen := make(map[int64]bool)
	prev := int64(-1)
	for i := 0; i < 20; i++ {
		id := c.Hover(TextDocumentPosition{})
		if seen[id] {
			t.Fatalf("id %d reused", id)
		}
		if id <= prev {
			t.Fatalf("id %d not monotonically increasing after %d", id, prev)
		}
		seen[id] = true
		prev = id
	}
}

// TestCorrelation is §8 property 6 / scenario S4.
func TestCorrelation(t *testing.T) {
	c := newReadyClient(t)
	id := c.Hover(TextDocumentPosition{})
	c.Drain()

	if _, stillPending := c.pending[id]; !stillPending {
		t.Fatal("pending entry should exist before a response arrives")
	}

	resp, _ := encodeMessage(wireResponse{
		Jsonrpc: "2.0",
		ID:      IntID(id),
		Error:   &wireError{Code: MethodNotFound, Message: "no hover provider"},
	})
	events, err := c.Feed(resp)
	if err != nil {
		t.Fatalf("feed error response: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	re, ok := events[0].(ResponseError)
	if !ok {
		t.Fatalf("event = %T, want ResponseError", events[0])
	}
	assertEqual(t, re.Code, MethodNotFound, "ResponseError.Code")

	if _, stillPending := c.pending[id]; stillPending {
		t.Fatal("pending entry should be removed once the response arrives")
	}
}

// TestUnknownResponseIDIsProtocolError covers §4.2's "Look up the
// pending entry by id. If absent, this is a protocol violation."
func TestUnknownResponseIDIsProtocolError(t *testing.T) {
	c := newReadyClient(t)
	resp, _ := encodeMessage(wireResponse{Jsonrpc: "2.0", ID: IntID(999)})
	_, err := c.Feed(resp)
	if err == nil {
		t.Fatal("expected a protocol error for an unknown response id")
	}
	if _, ok := err.(*ProtocolError); !ok {
		t.Fatalf("err = %T, want *ProtocolError", err)
	}
}

// TestShowMessageRequestReply is scenario S5.
func TestShowMessageRequestReply(t *testing.T) {
	c := newReadyClient(t)

	req, _ := encodeMessage(wireRequest{
		Jsonrpc: "2.0",
		ID:      idPtr(IntID(100)),
		Method:  "window/showMessageRequest",
		Params:  json.RawMessage(`{"type":1,"message":"hi","actions":[{"title":"OK"}]}`),
	})
	events, err := c.Feed(req)
	if err != nil {
		t.Fatalf("feed showMessageRequest: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	smr, ok := events[0].(ShowMessageRequest)
	if !ok {
		t.Fatalf("event = %T, want ShowMessageRequest", events[0])
	}
	if len(smr.Actions) != 1 || smr.Actions[0].Title != "OK" {
		t.Fatalf("actions = %+v", smr.Actions)
	}

	smr.Reply(&smr.Actions[0])
	out := c.Drain()
	if len(out) == 0 {
		t.Fatal("Reply should have enqueued a response")
	}
}

// TestUnhandledRequestAutoReplies covers §7 taxonomy item 5's default.
func TestUnhandledRequestAutoReplies(t *testing.T) {
	c := newReadyClient(t)
	req, _ := encodeMessage(wireRequest{
		Jsonrpc: "2.0",
		ID:      idPtr(IntID(7)),
		Method:  "textDocument/codeAction",
	})
	events, err := c.Feed(req)
	if err != nil {
		t.Fatalf("feed unknown request: %v", err)
	}
	ur, ok := events[0].(UnhandledRequest)
	if !ok {
		t.Fatalf("event = %T, want UnhandledRequest", events[0])
	}
	if !ur.AutoReplied {
		t.Fatal("expected AutoReplied to be true by default")
	}
	if len(c.Drain()) == 0 {
		t.Fatal("expected an auto-reply to have been enqueued")
	}
}

// TestProtocolErrorLatches covers DESIGN.md Open Question 3.
func TestProtocolErrorLatches(t *testing.T) {
	c := newReadyClient(t)
	bad := []byte("Content-Length: 2\r\n\r\n{}")
	_, err1 := c.Feed(bad)
	if err1 == nil {
		t.Fatal("expected a protocol error")
	}
	_, err2 := c.Feed([]byte("more bytes that would otherwise parse fine"))
	if err2 != err1 {
		t.Fatalf("expected the latched error to repeat, got %v", err2)
	}
}
