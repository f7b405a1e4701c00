package lsp

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// assertEqual compares got and want structurally. ID values are compared
// with == (cmpopts.EquateComparable), which takes in all of ID's
// unexported fields (str/num/isStr/isNull) that cmp could not otherwise
// inspect.
func assertEqual(t *testing.T, got, want interface{}, field string) {
	t.Helper()
	if diff := cmp.Diff(want, got, cmpopts.EquateComparable(ID{})); diff != "" {
		t.Errorf("%s mismatch (-want +got):\n%s", field, diff)
	}
}

func TestDecodeFrameUnderflow(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("Content-Length: 10\r\n\r\n{\"a\":1")
	before := buf.Bytes()
	beforeCopy := make([]byte, len(before))
	copy(beforeCopy, before)

	_, ok, err := decodeFrame(&buf)
	if ok || err != nil {
		t.Fatalf("expected underflow (ok=false, err=nil), got ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(buf.Bytes(), beforeCopy) {
		t.Errorf("buffer must be unchanged on underflow: before=%q after=%q", beforeCopy, buf.Bytes())
	}
}

func TestDecodeFrameCompletesAfterMoreBytes(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("Content-Length: 7\r\n\r\n")
	_, ok, err := decodeFrame(&buf)
	if ok || err != nil {
		t.Fatalf("expected underflow, got ok=%v err=%v", ok, err)
	}

	buf.WriteString(`{"a":1}`)
	body, ok, err := decodeFrame(&buf)
	if !ok || err != nil {
		t.Fatalf("expected a complete frame, got ok=%v err=%v", ok, err)
	}
	if string(body) != `{"a":1}` {
		t.Errorf("body = %q, want %q", body, `{"a":1}`)
	}
	if buf.Len() != 0 {
		t.Errorf("buffer should be drained, has %d bytes left", buf.Len())
	}
}

func TestDecodeFramePreservesLeftoverBytes(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("Content-Length: 7\r\n\r\n")
	buf.WriteString(`{"a":1}`)
	buf.WriteString("extra-leftover")

	_, ok, err := decodeFrame(&buf)
	if !ok || err != nil {
		t.Fatalf("expected a complete frame, got ok=%v err=%v", ok, err)
	}
	if buf.String() != "extra-leftover" {
		t.Errorf("leftover bytes = %q, want %q", buf.String(), "extra-leftover")
	}
}

func TestDecodeFrameMissingContentLength(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("Content-Type: application/vscode-jsonrpc\r\n\r\n")
	_, ok, err := decodeFrame(&buf)
	if ok || err == nil {
		t.Fatalf("expected a protocol error, got ok=%v err=%v", ok, err)
	}
	if _, isProto := err.(*ProtocolError); !isProto {
		t.Errorf("err = %T, want *ProtocolError", err)
	}
}

func TestDecodeFrameHeaderCaseInsensitive(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("content-LENGTH: 2\r\n\r\n{}")
	body, ok, err := decodeFrame(&buf)
	if !ok || err != nil {
		t.Fatalf("expected a complete frame, got ok=%v err=%v", ok, err)
	}
	if string(body) != "{}" {
		t.Errorf("body = %q, want {}", body)
	}
}

func TestDecodeFrameDefaultsContentType(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("Content-Length: 2\r\n\r\n{}")
	_, ok, err := decodeFrame(&buf)
	if !ok || err != nil {
		t.Fatalf("expected a complete frame with no Content-Type header, got ok=%v err=%v", ok, err)
	}
}

// TestIncrementalParsing is §8 property 2: splitting an encoded stream at
// every byte boundary and feeding the pieces in order yields the same
// event sequence as feeding it whole.
func TestIncrementalParsing(t *testing.T) {
	msg, err := encodeMessage(wireResponse{Jsonrpc: "2.0", ID: IntID(0), Result: json.RawMessage(`{"capabilities":{}}`)})
	if err != nil {
		t.Fatal(err)
	}

	c := NewClient()
	c.Drain()

	var total []Event
	for i := range msg {
		evs, feedErr := c.Feed(msg[i : i+1])
		if feedErr != nil {
			t.Fatalf("feed byte %d: %v", i, feedErr)
		}
		total = append(total, evs...)
	}
	if len(total) != 1 {
		t.Fatalf("expected exactly one event across the whole split feed, got %d", len(total))
	}
	if _, ok := total[0].(Initialized); !ok {
		t.Errorf("event = %T, want Initialized", total[0])
	}
}

// TestBatchEquivalence is §8 property 4 / scenario S3.
func TestBatchEquivalence(t *testing.T) {
	c := NewClient()
	c.Drain()

	completionID := c.reserveID()
	c.pending[completionID] = pendingEntry{method: "textDocument/completion"}

	batch := []wireResponse{
		{Jsonrpc: "2.0", ID: IntID(0), Result: json.RawMessage(`{"capabilities":{}}`)},
		{Jsonrpc: "2.0", ID: IntID(completionID), Result: json.RawMessage(`[{"label":"x"}]`)},
	}
	framed, err := encodeMessage(batch)
	if err != nil {
		t.Fatal(err)
	}

	events, err := c.Feed(framed)
	if err != nil {
		t.Fatalf("feed batch: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if _, ok := events[0].(Initialized); !ok {
		t.Errorf("events[0] = %T, want Initialized", events[0])
	}
	comp, ok := events[1].(Completion)
	if !ok {
		t.Fatalf("events[1] = %T, want Completion", events[1])
	}
	if len(comp.Result.Items) != 1 || comp.Result.Items[0].Label != "x" {
		t.Errorf("completion items = %+v", comp.Result.Items)
	}
}
