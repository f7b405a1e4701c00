package lsp

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// decodeParams unmarshals raw into v, tolerating an absent (nil/empty)
// params field by leaving v at its zero value.
func decodeParams(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func isJSONNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || string(trimmed) == "null"
}

// handleResponse correlates an inbound response against the pending
// table and decodes it into the event named by the originating method
// (§4.2).
func (c *Client) handleResponse(f frame) (Event, error) {
	idVal, ok := f.respID.AsInt()
	if !ok {
		return nil, newProtocolError(fmt.Sprintf("response id %s is not an integer this client issued", f.respID), nil)
	}
	entry, exists := c.pending[idVal]
	if !exists {
		return nil, newProtocolError(fmt.Sprintf("response id %d has no pending request", idVal), nil)
	}
	delete(c.pending, idVal)

	if f.err != nil {
		return ResponseError{ID: f.respID, Code: f.err.Code, Message: f.err.Message, Data: f.err.Data}, nil
	}

	return c.decodeResult(f.respID, entry, f.result)
}

func (c *Client) decodeResult(id ID, entry pendingEntry, raw json.RawMessage) (Event, error) {
	switch entry.method {
	case "initialize":
		if c.state != WaitingForInitialized {
			return nil, newProtocolError("initialize response received out of phase", nil)
		}
		c.state = Normal
		c.sendNotification("initialized", struct{}{})
		return Initialized{Capabilities: raw}, nil

	case "shutdown":
		if c.state != WaitingForShutdown {
			return nil, newProtocolError("shutdown response received out of phase", nil)
		}
		c.state = Shutdown
		return Shutdown{}, nil

	case "textDocument/completion":
		result, err := decodeCompletionResult(raw)
		if err != nil {
			return nil, newProtocolError("decode completion result", err)
		}
		return Completion{ID: id, Result: result}, nil

	case "textDocument/hover":
		contents, hoverRange, err := decodeHoverResult(raw)
		if err != nil {
			return nil, newProtocolError("decode hover result", err)
		}
		return Hover{ID: id, Contents: contents, Range: hoverRange}, nil

	case "textDocument/signatureHelp":
		sh, err := decodeSignatureHelpResult(raw)
		if err != nil {
			return nil, newProtocolError("decode signatureHelp result", err)
		}
		sh.ID = id
		return sh, nil

	case "textDocument/definition":
		return decodeGoto(id, GotoDefinition, raw)
	case "textDocument/declaration":
		return decodeGoto(id, GotoDeclaration, raw)
	case "textDocument/typeDefinition":
		return decodeGoto(id, GotoTypeDefinition, raw)
	case "textDocument/implementation":
		return decodeGoto(id, GotoImplementation, raw)

	case "textDocument/references":
		var locs []Location
		if !isJSONNull(raw) {
			if err := json.Unmarshal(raw, &locs); err != nil {
				return nil, newProtocolError("decode references result", err)
			}
		}
		return References{ID: id, Result: locs}, nil

	case "textDocument/documentSymbol":
		return decodeDocumentSymbols(id, raw)

	case "textDocument/foldingRange":
		var ranges []FoldingRange
		if !isJSONNull(raw) {
			if err := json.Unmarshal(raw, &ranges); err != nil {
				return nil, newProtocolError("decode foldingRange result", err)
			}
		}
		return MFoldingRanges{ID: id, Result: ranges}, nil

	case "textDocument/inlayHint":
		var hints []InlayHint
		if !isJSONNull(raw) {
			if err := json.Unmarshal(raw, &hints); err != nil {
				return nil, newProtocolError("decode inlayHint result", err)
			}
		}
		return InlayHints{ID: id, Result: hints}, nil

	case "textDocument/prepareCallHierarchy":
		var items []CallHierarchyItem
		if !isJSONNull(raw) {
			if err := json.Unmarshal(raw, &items); err != nil {
				return nil, newProtocolError("decode prepareCallHierarchy result", err)
			}
		}
		return MCallHierarchyItems{ID: id, Result: items}, nil

	case "textDocument/formatting", "textDocument/rangeFormatting":
		var edits []TextEdit
		if !isJSONNull(raw) {
			if err := json.Unmarshal(raw, &edits); err != nil {
				return nil, newProtocolError("decode formatting result", err)
			}
		}
		return DocumentFormatting{ID: id, Result: edits}, nil

	case "textDocument/rename":
		var we WorkspaceEditResult
		if !isJSONNull(raw) {
			if err := json.Unmarshal(raw, &we); err != nil {
				return nil, newProtocolError("decode rename result", err)
			}
		}
		return WorkspaceEdit{ID: id, Changes: we.Changes, DocumentChanges: we.DocumentChanges}, nil

	case "textDocument/willSaveWaitUntil":
		var edits []TextEdit
		if !isJSONNull(raw) {
			if err := json.Unmarshal(raw, &edits); err != nil {
				return nil, newProtocolError("decode willSaveWaitUntil result", err)
			}
		}
		return WillSaveWaitUntilEdits{ID: id, Edits: edits}, nil

	case "workspace/symbol":
		var syms []SymbolInformation
		if !isJSONNull(raw) {
			if err := json.Unmarshal(raw, &syms); err != nil {
				return nil, newProtocolError("decode workspace/symbol result", err)
			}
		}
		return MWorkspaceSymbols{ID: id, Result: syms}, nil

	default:
		return nil, newProtocolError("response to unrecognized originating method: "+entry.method, nil)
	}
}

func decodeCompletionResult(raw json.RawMessage) (CompletionList, error) {
	if isJSONNull(raw) {
		return CompletionList{}, nil
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []CompletionItem
		if err := json.Unmarshal(raw, &items); err != nil {
			return CompletionList{}, err
		}
		return CompletionList{Items: items}, nil
	}
	var list CompletionList
	if err := json.Unmarshal(raw, &list); err != nil {
		return CompletionList{}, err
	}
	return list, nil
}

func decodeHoverResult(raw json.RawMessage) ([]MarkedStringOrMarkup, *Range, error) {
	if isJSONNull(raw) {
		return nil, nil, nil
	}
	var wrapper struct {
		Contents json.RawMessage `json:"contents"`
		Range    *Range          `json:"range,omitempty"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, nil, err
	}
	contents, err := decodeHoverContents(wrapper.Contents)
	if err != nil {
		return nil, nil, err
	}
	return contents, wrapper.Range, nil
}

func decodeHoverContents(raw json.RawMessage) ([]MarkedStringOrMarkup, error) {
	if isJSONNull(raw) {
		return nil, nil
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return nil, err
		}
		out := make([]MarkedStringOrMarkup, 0, len(elems))
		for _, e := range elems {
			item, err := decodeOneHoverContent(e)
			if err != nil {
				return nil, err
			}
			out = append(out, item)
		}
		return out, nil
	}
	item, err := decodeOneHoverContent(raw)
	if err != nil {
		return nil, err
	}
	return []MarkedStringOrMarkup{item}, nil
}

func decodeOneHoverContent(raw json.RawMessage) (MarkedStringOrMarkup, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return MarkedStringOrMarkup{Plain: s}, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return MarkedStringOrMarkup{}, err
	}
	if _, hasKind := obj["kind"]; hasKind {
		var mc MarkupContent
		if err := json.Unmarshal(raw, &mc); err != nil {
			return MarkedStringOrMarkup{}, err
		}
		return MarkedStringOrMarkup{Markup: &mc}, nil
	}
	var ms MarkedString
	if err := json.Unmarshal(raw, &ms); err != nil {
		return MarkedStringOrMarkup{}, err
	}
	return MarkedStringOrMarkup{Marked: &ms}, nil
}

func decodeSignatureHelpResult(raw json.RawMessage) (SignatureHelp, error) {
	if isJSONNull(raw) {
		return SignatureHelp{}, nil
	}
	var wire struct {
		Signatures      []SignatureInformation `json:"signatures"`
		ActiveSignature *int                   `json:"activeSignature,omitempty"`
		ActiveParameter *int                   `json:"activeParameter,omitempty"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return SignatureHelp{}, err
	}
	return SignatureHelp{
		Signatures:      wire.Signatures,
		ActiveSignature: wire.ActiveSignature,
		ActiveParameter: wire.ActiveParameter,
	}, nil
}

// decodeGoto normalizes the three result shapes every goto-family method
// shares: a single Location, a list of Location|LocationLink, or null
// (§4.5, §9 "Result shape tolerance").
func decodeGoto(id ID, kind GotoKind, raw json.RawMessage) (Event, error) {
	if isJSONNull(raw) {
		return GotoResult{ID: id, Kind: kind}, nil
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return nil, newProtocolError("decode goto result", err)
		}
		var locs []Location
		var links []LocationLink
		for _, e := range elems {
			loc, link, isLink, err := decodeLocationOrLink(e)
			if err != nil {
				return nil, newProtocolError("decode goto result", err)
			}
			if isLink {
				links = append(links, link)
			} else {
				locs = append(locs, loc)
			}
		}
		return GotoResult{ID: id, Kind: kind, Locations: locs, Links: links}, nil
	}
	loc, link, isLink, err := decodeLocationOrLink(raw)
	if err != nil {
		return nil, newProtocolError("decode goto result", err)
	}
	if isLink {
		return GotoResult{ID: id, Kind: kind, Links: []LocationLink{link}}, nil
	}
	return GotoResult{ID: id, Kind: kind, Locations: []Location{loc}}, nil
}

func decodeLocationOrLink(raw json.RawMessage) (Location, LocationLink, bool, error) {
	var probe struct {
		TargetURI json.RawMessage `json:"targetUri"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return Location{}, LocationLink{}, false, err
	}
	if probe.TargetURI != nil {
		var link LocationLink
		if err := json.Unmarshal(raw, &link); err != nil {
			return Location{}, LocationLink{}, false, err
		}
		return Location{}, link, true, nil
	}
	var loc Location
	if err := json.Unmarshal(raw, &loc); err != nil {
		return Location{}, LocationLink{}, false, err
	}
	return loc, LocationLink{}, false, nil
}

func decodeDocumentSymbols(id ID, raw json.RawMessage) (Event, error) {
	if isJSONNull(raw) {
		return MDocumentSymbols{ID: id}, nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, newProtocolError("decode documentSymbol result", err)
	}
	if len(elems) == 0 {
		return MDocumentSymbols{ID: id}, nil
	}
	var probe struct {
		Location json.RawMessage `json:"location"`
	}
	if err := json.Unmarshal(elems[0], &probe); err != nil {
		return nil, newProtocolError("decode documentSymbol result", err)
	}
	if probe.Location != nil {
		var flat []SymbolInformation
		if err := json.Unmarshal(raw, &flat); err != nil {
			return nil, newProtocolError("decode documentSymbol (flat) result", err)
		}
		return MDocumentSymbols{ID: id, Flat: flat}, nil
	}
	var nested []DocumentSymbol
	if err := json.Unmarshal(raw, &nested); err != nil {
		return nil, newProtocolError("decode documentSymbol (nested) result", err)
	}
	return MDocumentSymbols{ID: id, Nested: nested, IsNested: true}, nil
}

// handleInboundRequest dispatches a peer-assigned request to a typed
// event carrying a reply capability bound to this client (§4.2, §4.5).
func (c *Client) handleInboundRequest(f frame) (Event, error) {
	reply := func(result interface{}, respErr *wireError) {
		c.sendResponse(f.id, result, respErr)
	}

	switch f.method {
	case "window/showMessageRequest":
		var params struct {
			Type    MessageType         `json:"type"`
			Message string              `json:"message"`
			Actions []MessageActionItem `json:"actions,omitempty"`
		}
		if err := decodeParams(f.params, &params); err != nil {
			return nil, newProtocolError("decode showMessageRequest params", err)
		}
		return ShowMessageRequest{Type: params.Type, Message: params.Message, Actions: params.Actions, reply: reply}, nil

	case "window/workDoneProgress/create":
		var params struct {
			Token interface{} `json:"token"`
		}
		if err := decodeParams(f.params, &params); err != nil {
			return nil, newProtocolError("decode workDoneProgress/create params", err)
		}
		c.progressTokens[fmt.Sprint(params.Token)] = true
		return WorkDoneProgressCreate{Token: params.Token, reply: reply}, nil

	case "workspace/workspaceFolders":
		return WorkspaceFolders{reply: reply}, nil

	case "workspace/configuration":
		var params struct {
			Items []ConfigurationItem `json:"items"`
		}
		if err := decodeParams(f.params, &params); err != nil {
			return nil, newProtocolError("decode configuration params", err)
		}
		return ConfigurationRequest{Items: params.Items, reply: reply}, nil

	case "client/registerCapability":
		var params struct {
			Registrations []Registration `json:"registrations"`
		}
		if err := decodeParams(f.params, &params); err != nil {
			return nil, newProtocolError("decode registerCapability params", err)
		}
		return RegisterCapabilityRequest{Registrations: params.Registrations, reply: reply}, nil

	default:
		autoReplied := false
		if c.autoReplyUnknown {
			c.sendResponse(f.id, nil, &wireError{Code: MethodNotFound, Message: fmt.Sprintf("method not found: %s", f.method)})
			autoReplied = true
		}
		c.log.Info("unhandled inbound request: %s", f.method)
		return UnhandledRequest{Method: f.method, Params: f.params, AutoReplied: autoReplied}, nil
	}
}

// handleInboundNotification dispatches a peer-originated notification
// to a typed event. Unknown notifications are silently droppable by the
// caller (no reply slot exists for them) but are still surfaced as
// UnhandledNotification so the caller can log them (§4.5, §7 item 5).
func (c *Client) handleInboundNotification(f frame) (Event, error) {
	switch f.method {
	case "window/showMessage":
		var params struct {
			Type    MessageType `json:"type"`
			Message string      `json:"message"`
		}
		if err := decodeParams(f.params, &params); err != nil {
			return nil, newProtocolError("decode showMessage params", err)
		}
		return ShowMessage{Type: params.Type, Message: params.Message}, nil

	case "window/logMessage":
		var params struct {
			Type    MessageType `json:"type"`
			Message string      `json:"message"`
		}
		if err := decodeParams(f.params, &params); err != nil {
			return nil, newProtocolError("decode logMessage params", err)
		}
		return LogMessage{Type: params.Type, Message: params.Message}, nil

	case "$/progress":
		return c.decodeProgress(f.params)

	case "textDocument/publishDiagnostics":
		var params struct {
			URI         string       `json:"uri"`
			Version     *int         `json:"version,omitempty"`
			Diagnostics []Diagnostic `json:"diagnostics"`
		}
		if err := decodeParams(f.params, &params); err != nil {
			return nil, newProtocolError("decode publishDiagnostics params", err)
		}
		return PublishDiagnostics{URI: params.URI, Version: params.Version, Diagnostics: params.Diagnostics}, nil

	default:
		c.log.Info("unhandled inbound notification: %s", f.method)
		return UnhandledNotification{Method: f.method, Params: f.params}, nil
	}
}

func (c *Client) decodeProgress(raw json.RawMessage) (Event, error) {
	var params struct {
		Token interface{}     `json:"token"`
		Value json.RawMessage `json:"value"`
	}
	if err := decodeParams(raw, &params); err != nil {
		return nil, newProtocolError("decode $/progress params", err)
	}
	var kindProbe struct {
		Kind ProgressKind `json:"kind"`
	}
	if err := json.Unmarshal(params.Value, &kindProbe); err != nil {
		return nil, newProtocolError("decode $/progress value kind", err)
	}

	ev := Progress{Token: params.Token, Kind: kindProbe.Kind}
	switch kindProbe.Kind {
	case ProgressBegin:
		var v WorkDoneProgressBeginValue
		if err := json.Unmarshal(params.Value, &v); err != nil {
			return nil, newProtocolError("decode progress begin value", err)
		}
		ev.Begin = &v
	case ProgressReport:
		var v WorkDoneProgressReportValue
		if err := json.Unmarshal(params.Value, &v); err != nil {
			return nil, newProtocolError("decode progress report value", err)
		}
		ev.Report = &v
	case ProgressEnd:
		var v WorkDoneProgressEndValue
		if err := json.Unmarshal(params.Value, &v); err != nil {
			return nil, newProtocolError("decode progress end value", err)
		}
		ev.End = &v
		delete(c.progressTokens, fmt.Sprint(params.Token))
	default:
		return nil, newProtocolError("unknown $/progress value kind: "+string(kindProbe.Kind), nil)
	}
	return ev, nil
}
