package tui

import (
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// KeyHandler reacts to a key press. handled=false lets lower priority
// bindings for the same key run.
type KeyHandler func(m MainModel, key string) (MainModel, tea.Cmd, bool)

type KeyBinding struct {
	Keys        []string
	Handler     KeyHandler
	Description string
	Priority    int
}

func (b KeyBinding) matches(key string) bool {
	for _, k := range b.Keys {
		if k == key {
			return true
		}
	}
	return false
}

type HandlerRegistry struct {
	bindings []KeyBinding
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{}
}

func (r *HandlerRegistry) Register(b KeyBinding) {
	r.bindings = append(r.bindings, b)
	sort.SliceStable(r.bindings, func(i, j int) bool {
		return r.bindings[i].Priority > r.bindings[j].Priority
	})
}

func (r *HandlerRegistry) Handle(m MainModel, key string) (MainModel, tea.Cmd, bool) {
	for _, b := range r.bindings {
		if b.matches(key) {
			next, cmd, handled := b.Handler(m, key)
			if handled {
				return next, cmd, true
			}
		}
	}
	return m, nil, false
}

// Help lists each described binding once, by its first key.
func (r *HandlerRegistry) Help() string {
	seen := make(map[string]bool)
	var parts []string
	for _, b := range r.bindings {
		if b.Description == "" || len(b.Keys) == 0 || seen[b.Keys[0]] {
			continue
		}
		seen[b.Keys[0]] = true
		parts = append(parts, "["+b.Keys[0]+"] "+b.Description)
	}
	return strings.Join(parts, "  ")
}

func defaultRegistry() *HandlerRegistry {
	r := NewHandlerRegistry()
	r.Register(KeyBinding{Keys: []string{"q", "esc", "ctrl+c"}, Handler: handleQuit, Description: "quit", Priority: 100})
	r.Register(KeyBinding{Keys: []string{"r"}, Handler: handleRefresh, Description: "refresh", Priority: 50})
	r.Register(KeyBinding{Keys: []string{"n"}, Handler: handleNextQuote, Description: "next quote", Priority: 40})
	r.Register(KeyBinding{Keys: []string{"e"}, Handler: handleExport, Description: "export pdf", Priority: 30})
	r.Register(KeyBinding{Keys: []string{"t"}, Handler: handleCycleTheme, Description: "theme", Priority: 20})
	return r
}
