package lsp

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

const (
	defaultContentType = "application/vscode-jsonrpc; charset=utf-8"
	maxContentLength    = 10 * 1024 * 1024 // sanity cap, matches jsonrpc.go's readMessage
)

// encodeMessage frames v as one outbound JSON-RPC message: HTTP-style
// headers, a blank separator, then the UTF-8 JSON body (§4.1).
func encodeMessage(v interface{}) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString("Content-Length: ")
	buf.WriteString(strconv.Itoa(len(body)))
	buf.WriteString("\r\n")
	buf.WriteString("Content-Type: ")
	buf.WriteString(defaultContentType)
	buf.WriteString("\r\n\r\n")
	buf.Write(body)
	return buf.Bytes(), nil
}

// decodeFrame attempts to extract exactly one framed JSON body from buf.
//
// It never mutates buf unless a complete frame is available, and never
// returns a protocol error for mere underflow: "need more bytes" is
// reported via ok=false, err=nil, leaving buf untouched so a subsequent
// call with more appended bytes can resume (§4.1 steps 1 and 6, grounded
// on the non-destructive _parse_one_message contract).
func decodeFrame(buf *bytes.Buffer) (body []byte, ok bool, err error) {
	data := buf.Bytes()

	sep := bytes.Index(data, []byte("\r\n\r\n"))
	if sep < 0 {
		return nil, false, nil
	}

	header := data[:sep]
	contentLength := -1
	for _, line := range strings.Split(string(header), "\r\n") {
		if line == "" {
			continue
		}
		colon := strings.IndexByte(line, ':')
		if colon < 0 {
			return nil, false, newProtocolError("malformed header line: "+line, nil)
		}
		key := strings.ToLower(strings.TrimSpace(line[:colon]))
		value := strings.TrimSpace(line[colon+1:])
		switch key {
		case "content-length":
			n, convErr := strconv.Atoi(value)
			if convErr != nil {
				return nil, false, newProtocolError("invalid Content-Length", convErr)
			}
			contentLength = n
		case "content-type":
			if !strings.HasPrefix(value, "application/vscode-jsonrpc") {
				return nil, false, newProtocolError("unsupported Content-Type: "+value, nil)
			}
		}
	}
	if contentLength < 0 {
		return nil, false, newProtocolError("missing Content-Length header", nil)
	}
	if contentLength > maxContentLength {
		return nil, false, newProtocolError("Content-Length exceeds sanity limit", nil)
	}

	frameEnd := sep + 4 + contentLength
	if len(data) < frameEnd {
		return nil, false, nil
	}

	body = make([]byte, contentLength)
	copy(body, data[sep+4:frameEnd])
	buf.Next(frameEnd)
	return body, true, nil
}

// decodeFrames drains every complete frame currently sitting in buf,
// decoding batch arrays into one classified frame per element in order
// (§4.1 step 8). A malformed frame stops the loop and returns the frames
// successfully classified so far alongside the error, so that previously
// parsed messages are never lost (§4.1's key contract, §8 property 3).
func decodeFrames(buf *bytes.Buffer) ([]frame, error) {
	var out []frame
	for {
		body, ok, err := decodeFrame(buf)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}

		var single map[string]json.RawMessage
		if err := json.Unmarshal(body, &single); err == nil {
			f, classifyErr := classify(single)
			if classifyErr != nil {
				return out, classifyErr
			}
			out = append(out, f)
			continue
		}

		var batch []map[string]json.RawMessage
		if err := json.Unmarshal(body, &batch); err != nil {
			return out, newProtocolError("body is not a JSON object or array", err)
		}
		for _, raw := range batch {
			f, classifyErr := classify(raw)
			if classifyErr != nil {
				return out, classifyErr
			}
			out = append(out, f)
		}
	}
}
