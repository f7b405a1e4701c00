package lsp

import "encoding/json"

// Event is the discriminated union yielded by Feed. Every concrete event
// type in this file implements it as a marker; callers type-switch on the
// concrete type, the same shape tarts/events.py uses (one dataclass per
// method/notification).
type Event interface {
	isEvent()
}

type baseEvent struct{}

func (baseEvent) isEvent() {}

// Initialized is emitted once, when the server answers the initialize
// request; the client has already queued the `initialized` notification
// by the time this event is produced.
type Initialized struct {
	baseEvent
	Capabilities json.RawMessage
}

// Shutdown is emitted once the server answers the shutdown request.
type Shutdown struct{ baseEvent }

// ResponseError wraps any response whose error field was populated (§4.2,
// §7 taxonomy item 3). Never raised as a Go error; the caller decides.
type ResponseError struct {
	baseEvent
	ID      ID
	Code    int
	Message string
	Data    json.RawMessage
}

// Completion answers textDocument/completion. Result normalizes both the
// {isIncomplete,items} and bare-array response shapes.
type Completion struct {
	baseEvent
	ID     ID
	Result CompletionList
}

// Hover answers textDocument/hover. A null result normalizes to an empty
// Contents slice.
type Hover struct {
	baseEvent
	ID       ID
	Contents []MarkedStringOrMarkup
	Range    *Range
}

// MarkedStringOrMarkup decodes one element of Hover's contents, which may
// arrive as a bare string, a MarkedString, or MarkupContent.
type MarkedStringOrMarkup struct {
	Plain  string
	Marked *MarkedString
	Markup *MarkupContent
}

// SignatureHelp answers textDocument/signatureHelp; a null result
// normalizes to an empty Signatures slice.
type SignatureHelp struct {
	baseEvent
	ID              ID
	Signatures      []SignatureInformation
	ActiveSignature *int
	ActiveParameter *int
}

// HintStr mirrors tarts/events.py's get_hint_str: the label of the
// currently active parameter, if any is selected.
func (s SignatureHelp) HintStr() string {
	if s.ActiveSignature == nil || *s.ActiveSignature >= len(s.Signatures) {
		return ""
	}
	sig := s.Signatures[*s.ActiveSignature]
	if s.ActiveParameter == nil || *s.ActiveParameter >= len(sig.Parameters) {
		return ""
	}
	return sig.Parameters[*s.ActiveParameter].Label
}

// GotoKind distinguishes which of the four goto-family methods produced a
// GotoResult event, since they share one normalized result shape.
type GotoKind int

const (
	GotoDefinition GotoKind = iota
	GotoDeclaration
	GotoTypeDefinition
	GotoImplementation
)

// GotoResult answers any of definition/declaration/typeDefinition/
// implementation. Plain Location values, whether the server sent one or a
// list, go to Locations; LocationLink values go to Links. A null result
// leaves both nil.
type GotoResult struct {
	baseEvent
	ID        ID
	Kind      GotoKind
	Locations []Location
	Links     []LocationLink
}

// References answers textDocument/references.
type References struct {
	baseEvent
	ID     ID
	Result []Location
}

// MDocumentSymbols answers textDocument/documentSymbol. The server may
// reply with the flat SymbolInformation[] shape or the nested
// DocumentSymbol[] shape; both are preserved, whichever was present.
type MDocumentSymbols struct {
	baseEvent
	ID        ID
	Flat      []SymbolInformation
	Nested    []DocumentSymbol
	IsNested  bool
}

// MWorkspaceSymbols answers workspace/symbol.
type MWorkspaceSymbols struct {
	baseEvent
	ID     ID
	Result []SymbolInformation
}

// MFoldingRanges answers textDocument/foldingRange.
type MFoldingRanges struct {
	baseEvent
	ID     ID
	Result []FoldingRange
}

// InlayHints answers textDocument/inlayHint.
type InlayHints struct {
	baseEvent
	ID     ID
	Result []InlayHint
}

// MCallHierarchyItems answers textDocument/prepareCallHierarchy.
type MCallHierarchyItems struct {
	baseEvent
	ID     ID
	Result []CallHierarchyItem
}

// DocumentFormatting answers textDocument/formatting or rangeFormatting.
type DocumentFormatting struct {
	baseEvent
	ID     ID
	Result []TextEdit
}

// WorkspaceEdit answers textDocument/rename.
type WorkspaceEdit struct {
	baseEvent
	ID      ID
	Changes map[string][]TextEdit
	DocumentChanges []TextDocumentEdit
}

// WillSaveWaitUntilEdits answers textDocument/willSaveWaitUntil.
type WillSaveWaitUntilEdits struct {
	baseEvent
	ID    ID
	Edits []TextEdit
}

// ShowMessage is window/showMessage: fire-and-forget, no reply.
type ShowMessage struct {
	baseEvent
	Type    MessageType
	Message string
}

// LogMessage is window/logMessage.
type LogMessage struct {
	baseEvent
	Type    MessageType
	Message string
}

// replyFunc is the handle a server-request event uses to enqueue its
// response; bound to the client instance that produced the event (§9
// "Server-request back-references").
type replyFunc func(result interface{}, respErr *wireError)

// ShowMessageRequest is window/showMessageRequest: a server request
// carrying candidate actions; Reply sends the chosen action (or nil) back.
type ShowMessageRequest struct {
	baseEvent
	Type    MessageType
	Message string
	Actions []MessageActionItem
	reply   replyFunc
}

func (e ShowMessageRequest) Reply(action *MessageActionItem) {
	e.reply(action, nil)
}

// WorkDoneProgressCreate is window/workDoneProgress/create.
type WorkDoneProgressCreate struct {
	baseEvent
	Token   interface{}
	reply   replyFunc
}

func (e WorkDoneProgressCreate) Reply() { e.reply(struct{}{}, nil) }

// Progress carries the decoded payload of a $/progress notification,
// dispatched by value.kind (§4.5).
type Progress struct {
	baseEvent
	Token   interface{}
	Kind    ProgressKind
	Begin   *WorkDoneProgressBeginValue
	Report  *WorkDoneProgressReportValue
	End     *WorkDoneProgressEndValue
}

// WorkspaceFolders is workspace/workspaceFolders: the server asks the
// client to report its current folders.
type WorkspaceFolders struct {
	baseEvent
	reply replyFunc
}

func (e WorkspaceFolders) Reply(folders []WorkspaceFolder) {
	e.reply(folders, nil)
}

// ConfigurationRequest is workspace/configuration.
type ConfigurationRequest struct {
	baseEvent
	Items []ConfigurationItem
	reply replyFunc
}

// Reply answers with one result per requested item, in order; pass an
// empty slice if there is nothing configured (mirrors tarts' reply(
// result=[]) default).
func (e ConfigurationRequest) Reply(results []interface{}) {
	if results == nil {
		results = []interface{}{}
	}
	e.reply(results, nil)
}

// RegisterCapabilityRequest is client/registerCapability.
type RegisterCapabilityRequest struct {
	baseEvent
	Registrations []Registration
	reply         replyFunc
}

func (e RegisterCapabilityRequest) Reply() { e.reply(struct{}{}, nil) }

// PublishDiagnostics is textDocument/publishDiagnostics.
type PublishDiagnostics struct {
	baseEvent
	URI         string
	Version     *int
	Diagnostics []Diagnostic
}

// UnhandledRequest is emitted for an inbound request whose method the
// dispatcher has no decoder for. Unless auto-reply is disabled
// (WithAutoReplyUnknown(false)), the client has already enqueued a
// MethodNotFound response by the time this event is produced.
type UnhandledRequest struct {
	baseEvent
	Method       string
	Params       json.RawMessage
	AutoReplied  bool
}

// UnhandledNotification is emitted for an inbound notification with no
// registered decoder. Notifications are never auto-replied to (the
// protocol has no response slot for them).
type UnhandledNotification struct {
	baseEvent
	Method string
	Params json.RawMessage
}
