package lsp

// This file is the outbound method surface (§4.4): one method per
// protocol operation the client exposes while in state Normal. Every
// method panics with a *MisuseError if called outside Normal (§7 item 4);
// nothing is enqueued in that case. Request-style methods return the id
// they reserved so the caller can correlate the eventual event.

// --- Notifications: textDocument/* document lifecycle ---

func (c *Client) DidOpen(doc TextDocumentItem) {
	c.requireNormal("textDocument/didOpen")
	c.sendNotification("textDocument/didOpen", struct {
		TextDocument TextDocumentItem `json:"textDocument"`
	}{doc})
}

// DidChange sends one or more content-change events for the given
// document. Pass CalculateChangeEvents's output, or a single
// WholeDocumentChange, as changes.
func (c *Client) DidChange(doc VersionedTextDocumentIdentifier, changes []TextDocumentContentChangeEvent) {
	c.requireNormal("textDocument/didChange")
	c.sendNotification("textDocument/didChange", struct {
		TextDocument   VersionedTextDocumentIdentifier  `json:"textDocument"`
		ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
	}{doc, changes})
}

func (c *Client) DidClose(doc TextDocumentIdentifier) {
	c.requireNormal("textDocument/didClose")
	c.sendNotification("textDocument/didClose", struct {
		TextDocument TextDocumentIdentifier `json:"textDocument"`
	}{doc})
}

func (c *Client) DidSave(doc TextDocumentIdentifier, text *string) {
	c.requireNormal("textDocument/didSave")
	c.sendNotification("textDocument/didSave", struct {
		TextDocument TextDocumentIdentifier `json:"textDocument"`
		Text         *string                `json:"text,omitempty"`
	}{doc, text})
}

type WillSaveReason int

const (
	WillSaveManual    WillSaveReason = 1
	WillSaveAfterDelay WillSaveReason = 2
	WillSaveFocusOut   WillSaveReason = 3
)

func (c *Client) WillSave(doc TextDocumentIdentifier, reason WillSaveReason) {
	c.requireNormal("textDocument/willSave")
	c.sendNotification("textDocument/willSave", struct {
		TextDocument TextDocumentIdentifier `json:"textDocument"`
		Reason       WillSaveReason         `json:"reason"`
	}{doc, reason})
}

func (c *Client) DidChangeConfiguration(settings interface{}) {
	c.requireNormal("workspace/didChangeConfiguration")
	c.sendNotification("workspace/didChangeConfiguration", struct {
		Settings interface{} `json:"settings"`
	}{settings})
}

type WorkspaceFoldersChangeEvent struct {
	Added   []WorkspaceFolder `json:"added"`
	Removed []WorkspaceFolder `json:"removed"`
}

func (c *Client) DidChangeWorkspaceFolders(event WorkspaceFoldersChangeEvent) {
	c.requireNormal("workspace/didChangeWorkspaceFolders")
	c.sendNotification("workspace/didChangeWorkspaceFolders", struct {
		Event WorkspaceFoldersChangeEvent `json:"event"`
	}{event})
}

// --- Requests ---

func (c *Client) Completion(pos TextDocumentPosition, context *CompletionContext) int64 {
	c.requireNormal("textDocument/completion")
	return c.sendRequest("textDocument/completion", struct {
		TextDocumentPosition
		Context *CompletionContext `json:"context,omitempty"`
	}{pos, context})
}

// CompletionContext mirrors structs.py's CompletionContext.
type CompletionContext struct {
	TriggerKind      int     `json:"triggerKind"`
	TriggerCharacter *string `json:"triggerCharacter,omitempty"`
}

func (c *Client) Hover(pos TextDocumentPosition) int64 {
	c.requireNormal("textDocument/hover")
	return c.sendRequest("textDocument/hover", pos)
}

func (c *Client) SignatureHelp(pos TextDocumentPosition) int64 {
	c.requireNormal("textDocument/signatureHelp")
	return c.sendRequest("textDocument/signatureHelp", pos)
}

func (c *Client) Definition(pos TextDocumentPosition) int64 {
	c.requireNormal("textDocument/definition")
	return c.sendRequest("textDocument/definition", pos)
}

func (c *Client) Declaration(pos TextDocumentPosition) int64 {
	c.requireNormal("textDocument/declaration")
	return c.sendRequest("textDocument/declaration", pos)
}

func (c *Client) TypeDefinition(pos TextDocumentPosition) int64 {
	c.requireNormal("textDocument/typeDefinition")
	return c.sendRequest("textDocument/typeDefinition", pos)
}

func (c *Client) Implementation(pos TextDocumentPosition) int64 {
	c.requireNormal("textDocument/implementation")
	return c.sendRequest("textDocument/implementation", pos)
}

// References always requests the declaration alongside usages, mirroring
// tarts/client.py's references(), which hardcodes includeDeclaration=True.
func (c *Client) References(pos TextDocumentPosition) int64 {
	c.requireNormal("textDocument/references")
	return c.sendRequest("textDocument/references", struct {
		TextDocumentPosition
		Context struct {
			IncludeDeclaration bool `json:"includeDeclaration"`
		} `json:"context"`
	}{pos, struct {
		IncludeDeclaration bool `json:"includeDeclaration"`
	}{true}})
}

func (c *Client) DocumentSymbol(doc TextDocumentIdentifier) int64 {
	c.requireNormal("textDocument/documentSymbol")
	return c.sendRequest("textDocument/documentSymbol", struct {
		TextDocument TextDocumentIdentifier `json:"textDocument"`
	}{doc})
}

func (c *Client) PrepareCallHierarchy(pos TextDocumentPosition) int64 {
	c.requireNormal("textDocument/prepareCallHierarchy")
	return c.sendRequest("textDocument/prepareCallHierarchy", pos)
}

func (c *Client) FoldingRange(doc TextDocumentIdentifier) int64 {
	c.requireNormal("textDocument/foldingRange")
	return c.sendRequest("textDocument/foldingRange", struct {
		TextDocument TextDocumentIdentifier `json:"textDocument"`
	}{doc})
}

func (c *Client) InlayHint(doc TextDocumentIdentifier, viewport Range) int64 {
	c.requireNormal("textDocument/inlayHint")
	return c.sendRequest("textDocument/inlayHint", struct {
		TextDocument TextDocumentIdentifier `json:"textDocument"`
		Range        Range                  `json:"range"`
	}{doc, viewport})
}

func (c *Client) Formatting(doc TextDocumentIdentifier, options FormattingOptions) int64 {
	c.requireNormal("textDocument/formatting")
	return c.sendRequest("textDocument/formatting", struct {
		TextDocument TextDocumentIdentifier `json:"textDocument"`
		Options      FormattingOptions      `json:"options"`
	}{doc, options})
}

func (c *Client) RangeFormatting(doc TextDocumentIdentifier, r Range, options FormattingOptions) int64 {
	c.requireNormal("textDocument/rangeFormatting")
	return c.sendRequest("textDocument/rangeFormatting", struct {
		TextDocument TextDocumentIdentifier `json:"textDocument"`
		Range        Range                  `json:"range"`
		Options      FormattingOptions      `json:"options"`
	}{doc, r, options})
}

func (c *Client) Rename(pos TextDocumentPosition, newName string) int64 {
	c.requireNormal("textDocument/rename")
	return c.sendRequest("textDocument/rename", struct {
		TextDocumentPosition
		NewName string `json:"newName"`
	}{pos, newName})
}

func (c *Client) WillSaveWaitUntil(doc TextDocumentIdentifier, reason WillSaveReason) int64 {
	c.requireNormal("textDocument/willSaveWaitUntil")
	return c.sendRequest("textDocument/willSaveWaitUntil", struct {
		TextDocument TextDocumentIdentifier `json:"textDocument"`
		Reason       WillSaveReason         `json:"reason"`
	}{doc, reason})
}

func (c *Client) WorkspaceSymbol(query string) int64 {
	c.requireNormal("workspace/symbol")
	return c.sendRequest("workspace/symbol", struct {
		Query string `json:"query"`
	}{query})
}
