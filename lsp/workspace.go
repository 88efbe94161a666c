package lsp

import (
	"net/url"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/chomp/ebnf/parse"
)

// Workspace holds the open documents and the result of checking each one
// against the current grammar.
type Workspace struct {
	mu     sync.RWMutex
	parser *parse.Parser
	files  map[protocol.DocumentUri]*FileInfo
}

type FileInfo struct {
	URI      protocol.DocumentUri
	Path     string
	Content  string
	CheckErr error
}

func NewWorkspace(p *parse.Parser) *Workspace {
	return &Workspace{
		parser: p,
		files:  make(map[protocol.DocumentUri]*FileInfo),
	}
}

// SetParser replaces the grammar and re-checks every open document.
func (w *Workspace) SetParser(p *parse.Parser) []*FileInfo {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.parser = p
	for uri, f := range w.files {
		w.files[uri] = w.checkLocked(uri, f.Content)
	}
	return w.sortedLocked()
}

func (w *Workspace) UpdateFile(uri protocol.DocumentUri, content string) *FileInfo {
	w.mu.Lock()
	defer w.mu.Unlock()

	f := w.checkLocked(uri, content)
	w.files[uri] = f
	return f
}

func (w *Workspace) checkLocked(uri protocol.DocumentUri, content string) *FileInfo {
	path := uriToPath(uri)
	return &FileInfo{
		URI:      uri,
		Path:     path,
		Content:  content,
		CheckErr: w.parser.Check(path, content),
	}
}

func (w *Workspace) RemoveFile(uri protocol.DocumentUri) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.files, uri)
}

func (w *Workspace) GetFile(uri protocol.DocumentUri) *FileInfo {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[uri]
}

// Files returns the open documents ordered by URI.
func (w *Workspace) Files() []*FileInfo {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.sortedLocked()
}

func (w *Workspace) sortedLocked() []*FileInfo {
	all := make([]*FileInfo, 0, len(w.files))
	for _, f := range w.files {
		all = append(all, f)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].URI < all[j].URI })
	return all
}

func uriToPath(uri protocol.DocumentUri) string {
	s := string(uri)
	if strings.HasPrefix(s, "file://") {
		parsed, err := url.Parse(s)
		if err != nil {
			return s
		}
		return filepath.Clean(parsed.Path)
	}
	return s
}
