package vsx

import "maps"

// DeprecationTable maps a deprecated extension to its replacement. An empty
// replacement means the extension was retired without a successor.
type DeprecationTable struct {
	m map[ID]ID
}

// NewDeprecationTable copies entries into an immutable table. Keys and
// values are canonicalized.
func NewDeprecationTable(entries map[string]string) DeprecationTable {
	m := make(map[ID]ID, len(entries))
	for old, repl := range entries {
		m[Canon(old)] = Canon(repl)
	}
	return DeprecationTable{m: m}
}

// Lookup returns the replacement for id and whether id is deprecated.
func (t DeprecationTable) Lookup(id ID) (ID, bool) {
	r, ok := t.m[id]
	return r, ok
}

// Len returns the number of deprecated extensions.
func (t DeprecationTable) Len() int { return len(t.m) }

// Merge returns a new table with extra layered over t.
func (t DeprecationTable) Merge(extra map[string]string) DeprecationTable {
	m := maps.Clone(t.m)
	if m == nil {
		m = make(map[ID]ID, len(extra))
	}
	for old, repl := range extra {
		m[Canon(old)] = Canon(repl)
	}
	return DeprecationTable{m: m}
}

// IneligibleSet holds extensions that cannot be published to Open VSX,
// usually because their license forbids use outside Microsoft products.
type IneligibleSet struct {
	m map[ID]struct{}
}

// NewIneligibleSet builds an immutable set from ids.
func NewIneligibleSet(ids ...string) IneligibleSet {
	m := make(map[ID]struct{}, len(ids))
	for _, id := range ids {
		m[Canon(id)] = struct{}{}
	}
	return IneligibleSet{m: m}
}

// Contains reports whether id is ineligible.
func (s IneligibleSet) Contains(id ID) bool {
	_, ok := s.m[id]
	return ok
}

// Len returns the size of the set.
func (s IneligibleSet) Len() int { return len(s.m) }

// Merge returns a new set containing s and ids.
func (s IneligibleSet) Merge(ids ...string) IneligibleSet {
	m := maps.Clone(s.m)
	if m == nil {
		m = make(map[ID]struct{}, len(ids))
	}
	for _, id := range ids {
		m[Canon(id)] = struct{}{}
	}
	return IneligibleSet{m: m}
}

// DefaultDeprecations lists well-known deprecated extensions.
func DefaultDeprecations() DeprecationTable {
	return NewDeprecationTable(map[string]string{
		"msjsdiag.debugger-for-chrome":              "ms-vscode.js-debug",
		"msjsdiag.debugger-for-edge":                "ms-vscode.js-debug",
		"coenraads.bracket-pair-colorizer":          "",
		"coenraads.bracket-pair-colorizer-2":        "",
		"ms-vscode.vscode-typescript-tslint-plugin": "dbaeumer.vscode-eslint",
		"eg2.tslint":                                "dbaeumer.vscode-eslint",
		"ms-python.anaconda-extension-pack":         "",
		"hookyqr.beautify":                          "esbenp.prettier-vscode",
		"ms-vscode.go":                              "golang.go",
		"auchenberg.vscode-browser-preview":         "",
	})
}

// DefaultIneligible lists Microsoft extensions whose license restricts them
// to Microsoft products.
func DefaultIneligible() IneligibleSet {
	return NewIneligibleSet(
		"ms-vscode-remote.remote-ssh",
		"ms-vscode-remote.remote-ssh-edit",
		"ms-vscode-remote.remote-containers",
		"ms-vscode-remote.remote-wsl",
		"ms-vscode.remote-explorer",
		"ms-vscode.remote-server",
		"ms-vscode.cpptools",
		"ms-vscode.cpptools-extension-pack",
		"ms-python.vscode-pylance",
		"ms-dotnettools.csdevkit",
		"ms-dotnettools.vscodeintellicode-csharp",
		"ms-vsliveshare.vsliveshare",
		"github.copilot",
		"github.copilot-chat",
	)
}
