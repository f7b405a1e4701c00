package lsp

// initializeParams is the body of the eagerly-sent initialize request
// (§4.3). Field names mirror the teacher's InitializeParams
// (internal/lsp/types.go), generalized to carry the full capability
// surface SPEC_FULL requires rather than just what clangd needs.
type initializeParams struct {
	ProcessID        *int              `json:"processId"`
	RootURI          *string           `json:"rootUri"`
	WorkspaceFolders []WorkspaceFolder `json:"workspaceFolders,omitempty"`
	Trace            string            `json:"trace,omitempty"`
	Capabilities     clientCapabilities `json:"capabilities"`
}

// clientCapabilities is the fixed capabilities object the constructor
// advertises (§4.3's enumerated list). It is not configurable: the
// spec defines it as "a fixed client capabilities object."
type clientCapabilities struct {
	TextDocument textDocumentClientCapabilities `json:"textDocument"`
	Workspace    workspaceClientCapabilities    `json:"workspace"`
	Window       windowClientCapabilities       `json:"window"`
}

type textDocumentClientCapabilities struct {
	Synchronization    syncCapabilities          `json:"synchronization"`
	PublishDiagnostics publishDiagnosticsCaps    `json:"publishDiagnostics"`
	Completion         completionCapabilities    `json:"completion"`
	Hover              hoverCapabilities         `json:"hover"`
	Definition         linkSupportCaps           `json:"definition"`
	Declaration        linkSupportCaps           `json:"declaration"`
	TypeDefinition     linkSupportCaps           `json:"typeDefinition"`
	Implementation     linkSupportCaps           `json:"implementation"`
	References         struct{}                  `json:"references"`
	CallHierarchy      struct{}                  `json:"callHierarchy"`
	SignatureHelp      struct{}                  `json:"signatureHelp"`
	FoldingRange       struct{}                  `json:"foldingRange"`
	InlayHint          struct{}                  `json:"inlayHint"`
	Formatting         struct{}                  `json:"formatting"`
	RangeFormatting    struct{}                  `json:"rangeFormatting"`
	Rename             struct{}                  `json:"rename"`
	DocumentSymbol     documentSymbolCapabilities `json:"documentSymbol"`
}

type syncCapabilities struct {
	DidSave             bool `json:"didSave"`
	DynamicRegistration bool `json:"dynamicRegistration"`
}

type publishDiagnosticsCaps struct {
	RelatedInformation bool `json:"relatedInformation"`
}

type completionCapabilities struct {
	CompletionItemKind completionItemKindCaps `json:"completionItemKind"`
}

type completionItemKindCaps struct {
	ValueSet []CompletionItemKind `json:"valueSet"`
}

type hoverCapabilities struct {
	ContentFormat []MarkupKind `json:"contentFormat"`
}

type linkSupportCaps struct {
	LinkSupport bool `json:"linkSupport"`
}

type documentSymbolCapabilities struct {
	SymbolKind symbolKindCaps `json:"symbolKind"`
}

type symbolKindCaps struct {
	ValueSet []SymbolKind `json:"valueSet"`
}

type workspaceClientCapabilities struct {
	Symbol                   workspaceSymbolCaps `json:"symbol"`
	WorkspaceFolders         bool                `json:"workspaceFolders"`
	Configuration            bool                `json:"configuration"`
	DidChangeConfiguration   struct{}            `json:"didChangeConfiguration"`
}

type workspaceSymbolCaps struct {
	SymbolKind symbolKindCaps `json:"symbolKind"`
}

type windowClientCapabilities struct {
	WorkDoneProgress bool `json:"workDoneProgress"`
	ShowMessage      struct{} `json:"showMessage"`
}

func allCompletionItemKinds() []CompletionItemKind {
	return []CompletionItemKind{
		CompletionItemKindText, CompletionItemKindMethod, CompletionItemKindFunction,
		CompletionItemKindConstructor, CompletionItemKindField, CompletionItemKindVariable,
		CompletionItemKindClass, CompletionItemKindInterface, CompletionItemKindModule,
		CompletionItemKindProperty, CompletionItemKindUnit, CompletionItemKindValue,
		CompletionItemKindEnum, CompletionItemKindKeyword, CompletionItemKindSnippet,
		CompletionItemKindColor, CompletionItemKindFile, CompletionItemKindReference,
		CompletionItemKindFolder, CompletionItemKindEnumMember, CompletionItemKindConstant,
		CompletionItemKindStruct, CompletionItemKindEvent, CompletionItemKindOperator,
		CompletionItemKindTypeParameter,
	}
}

func allSymbolKinds() []SymbolKind {
	return []SymbolKind{
		SymbolKindFile, SymbolKindModule, SymbolKindNamespace, SymbolKindPackage,
		SymbolKindClass, SymbolKindMethod, SymbolKindProperty, SymbolKindField,
		SymbolKindConstructor, SymbolKindEnum, SymbolKindInterface, SymbolKindFunction,
		SymbolKindVariable, SymbolKindConstant, SymbolKindString, SymbolKindNumber,
		SymbolKindBoolean, SymbolKindArray, SymbolKindObject, SymbolKindKey,
		SymbolKindNull, SymbolKindEnumMember, SymbolKindStruct, SymbolKindEvent,
		SymbolKindOperator, SymbolKindTypeParameter,
	}
}

// defaultClientCapabilities builds the fixed capabilities object
// described in §4.3: sync with didSave/dynamic registration,
// publish-diagnostics with related info, completion with the static
// kind list, hover (markdown/plaintext), goto-family with link support,
// references, call hierarchy, signature help, folding range, inlay
// hints, formatting, range formatting, rename, document/workspace
// symbols with the static kind list, show-message, work-done progress,
// workspace symbol search, workspace folders, configuration, and
// did-change-configuration.
func defaultClientCapabilities() clientCapabilities {
	symKinds := symbolKindCaps{ValueSet: allSymbolKinds()}
	return clientCapabilities{
		TextDocument: textDocumentClientCapabilities{
			Synchronization:    syncCapabilities{DidSave: true, DynamicRegistration: true},
			PublishDiagnostics: publishDiagnosticsCaps{RelatedInformation: true},
			Completion:         completionCapabilities{CompletionItemKind: completionItemKindCaps{ValueSet: allCompletionItemKinds()}},
			Hover:              hoverCapabilities{ContentFormat: []MarkupKind{MarkupMarkdown, MarkupPlainText}},
			Definition:         linkSupportCaps{LinkSupport: true},
			Declaration:        linkSupportCaps{LinkSupport: true},
			TypeDefinition:     linkSupportCaps{LinkSupport: true},
			Implementation:     linkSupportCaps{LinkSupport: true},
			DocumentSymbol:     documentSymbolCapabilities{SymbolKind: symKinds},
		},
		Workspace: workspaceClientCapabilities{
			Symbol:           workspaceSymbolCaps{SymbolKind: symKinds},
			WorkspaceFolders: true,
			Configuration:    true,
		},
		Window: windowClientCapabilities{
			WorkDoneProgress: true,
		},
	}
}
