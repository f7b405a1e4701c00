package lsp

import "encoding/json"

// ID is a JSON-RPC message identifier. The client only ever issues
// integers (a monotonic counter starting at zero) but must accept either
// an integer or a string when decoding inbound messages, since the peer
// is not required to be a well-behaved client itself.
type ID struct {
	str    string
	num    int64
	isStr  bool
	isNull bool
}

// IntID builds an integer ID, the only kind this client ever issues.
func IntID(n int64) ID { return ID{num: n} }

// StrID builds a string ID, used only when decoding a peer-assigned id.
func StrID(s string) ID { return ID{str: s, isStr: true} }

func (id ID) String() string {
	if id.isNull {
		return "<null>"
	}
	if id.isStr {
		return id.str
	}
	return jsonNumberString(id.num)
}

// AsInt reports the integer value of id and whether it actually is one;
// false for string or null ids. The client only ever issues integer ids,
// so this is how response correlation recognizes a well-formed reply.
func (id ID) AsInt() (int64, bool) {
	return id.num, !id.isStr && !id.isNull
}

// Equal reports whether two ids refer to the same wire value.
func (id ID) Equal(other ID) bool {
	return id.isStr == other.isStr && id.isNull == other.isNull &&
		id.str == other.str && id.num == other.num
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.isNull {
		return []byte("null"), nil
	}
	if id.isStr {
		return json.Marshal(id.str)
	}
	return json.Marshal(id.num)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*id = ID{isNull: true}
	case string:
		*id = ID{str: v, isStr: true}
	case float64:
		*id = ID{num: int64(v)}
	default:
		return newProtocolError("id must be a string, number, or null", nil)
	}
	return nil
}

func jsonNumberString(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}

// wireRequest is the on-the-wire shape of a Request or Notification; the
// two are distinguished solely by the presence of id, per §3.
type wireRequest struct {
	Jsonrpc string          `json:"jsonrpc"`
	ID      *ID             `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// wireResponse is the on-the-wire shape of a Response: has an id but no
// method, and exactly one of result/error populated.
type wireResponse struct {
	Jsonrpc string          `json:"jsonrpc"`
	ID      ID              `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *wireError      `json:"error,omitempty"`
}

type wireError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// frame is the decoded, tagged shape of one JSON-RPC message, after the
// codec has stripped jsonrpc and classified it by the presence of id and
// method (§3).
type frame struct {
	kind frameKind

	// Request / Notification
	id     ID // valid only when kind == frameRequest
	method string
	params json.RawMessage

	// Response
	respID ID
	result json.RawMessage
	err    *wireError
}

type frameKind int

const (
	frameRequest frameKind = iota
	frameNotification
	frameResponse
)

func classify(raw map[string]json.RawMessage) (frame, error) {
	if jsonrpcRaw, hasJSONRPC := raw["jsonrpc"]; hasJSONRPC {
		var version string
		if err := json.Unmarshal(jsonrpcRaw, &version); err != nil || version != "2.0" {
			return frame{}, newProtocolError("jsonrpc mismatch", nil)
		}
	}

	methodRaw, hasMethod := raw["method"]
	idRaw, hasID := raw["id"]

	if hasMethod {
		var method string
		if err := json.Unmarshal(methodRaw, &method); err != nil {
			return frame{}, newProtocolError("method must be a string", err)
		}
		params := raw["params"]
		if hasID {
			var id ID
			if err := json.Unmarshal(idRaw, &id); err != nil {
				return frame{}, newProtocolError("invalid request id", err)
			}
			return frame{kind: frameRequest, id: id, method: method, params: params}, nil
		}
		return frame{kind: frameNotification, method: method, params: params}, nil
	}

	if !hasID {
		return frame{}, newProtocolError("message has neither method nor id", nil)
	}
	var id ID
	if err := json.Unmarshal(idRaw, &id); err != nil {
		return frame{}, newProtocolError("invalid response id", err)
	}
	var werr *wireError
	if errRaw, ok := raw["error"]; ok && string(errRaw) != "null" {
		werr = &wireError{}
		if err := json.Unmarshal(errRaw, werr); err != nil {
			return frame{}, newProtocolError("invalid error object", err)
		}
	}
	return frame{kind: frameResponse, respID: id, result: raw["result"], err: werr}, nil
}
