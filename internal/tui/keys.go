package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/jask/innkeeper/internal/config"
)

type Action string

type Binding struct {
	Action Action
	Keys   []string
	Help   string
	Scopes []string
}

// KeyRegistry maps key names to actions per scope. Lookups fall back to the
// global scope.
type KeyRegistry struct {
	bindingsByScope map[string][]*Binding
	indexByScope    map[string]map[string]*Binding
}

const (
	scopeGlobal  = "global"
	scopeLogin   = "login"
	scopeTable   = "table"
	scopeSearch  = "search"
	scopeMenu    = "menu"
	scopeConfirm = "confirm"
	scopeEdit    = "edit"
	scopeDetail  = "detail"
)

const (
	actionQuit        Action = "quit"
	actionLogout      Action = "logout"
	actionRefresh     Action = "refresh"
	actionUp          Action = "up"
	actionDown        Action = "down"
	actionLeft        Action = "left"
	actionRight       Action = "right"
	actionPageUp      Action = "page_up"
	actionPageDown    Action = "page_down"
	actionJumpTop     Action = "jump_top"
	actionJumpBottom  Action = "jump_bottom"
	actionSearch      Action = "search"
	actionClearSearch Action = "clear_search"
	actionSort        Action = "sort"
	actionResetSort   Action = "reset_sort"
	actionToggle      Action = "toggle_select"
	actionSelectAll   Action = "select_all"
	actionDeselectAll Action = "deselect_all"
	actionActivate    Action = "activate"
	actionMenu        Action = "menu"
	actionDelete      Action = "delete"
	actionExport      Action = "export"
	actionPreset      Action = "preset"
	actionFilter      Action = "filter_column"
	actionSelect      Action = "select"
	actionClose       Action = "close"
	actionConfirm     Action = "confirm"
	actionCancel      Action = "cancel"
	actionNextField   Action = "next_field"
	actionBack        Action = "back"
	actionEdit        Action = "edit"
)

func NewKeyRegistry() *KeyRegistry {
	r := &KeyRegistry{
		bindingsByScope: make(map[string][]*Binding),
		indexByScope:    make(map[string]map[string]*Binding),
	}

	reg := func(scope string, action Action, keys []string, help string) {
		r.Register(Binding{Action: action, Keys: keys, Help: help, Scopes: []string{scope}})
	}

	reg(scopeGlobal, actionQuit, []string{"q", "ctrl+c"}, "quit")
	reg(scopeGlobal, actionLogout, []string{"L"}, "log out")
	reg(scopeGlobal, actionRefresh, []string{"r"}, "refresh")

	reg(scopeLogin, actionNextField, []string{"tab", "shift+tab", "up", "down"}, "next field")
	reg(scopeLogin, actionConfirm, []string{"enter"}, "sign in")
	reg(scopeLogin, actionQuit, []string{"ctrl+c", "esc"}, "quit")

	reg(scopeTable, actionUp, []string{"k", "up"}, "up")
	reg(scopeTable, actionDown, []string{"j", "down"}, "down")
	reg(scopeTable, actionLeft, []string{"h", "left"}, "prev column")
	reg(scopeTable, actionRight, []string{"l", "right"}, "next column")
	reg(scopeTable, actionPageUp, []string{"pgup", "ctrl+u"}, "page up")
	reg(scopeTable, actionPageDown, []string{"pgdown", "ctrl+d"}, "page down")
	reg(scopeTable, actionJumpTop, []string{"g", "home"}, "top")
	reg(scopeTable, actionJumpBottom, []string{"G", "end"}, "bottom")
	reg(scopeTable, actionSearch, []string{"/"}, "search")
	reg(scopeTable, actionClearSearch, []string{"esc"}, "clear search")
	reg(scopeTable, actionSort, []string{"s"}, "sort")
	reg(scopeTable, actionResetSort, []string{"0"}, "unsort")
	reg(scopeTable, actionToggle, []string{"space"}, "select")
	reg(scopeTable, actionSelectAll, []string{"a"}, "select all")
	reg(scopeTable, actionDeselectAll, []string{"A"}, "clear selection")
	reg(scopeTable, actionActivate, []string{"enter"}, "open")
	reg(scopeTable, actionMenu, []string{"m"}, "actions")
	reg(scopeTable, actionDelete, []string{"D"}, "delete selected")
	reg(scopeTable, actionExport, []string{"x"}, "export")
	reg(scopeTable, actionPreset, []string{"f"}, "filter preset")
	reg(scopeTable, actionFilter, []string{"c"}, "search column")

	reg(scopeSearch, actionConfirm, []string{"enter"}, "done")
	reg(scopeSearch, actionClose, []string{"esc"}, "done")

	reg(scopeMenu, actionUp, []string{"k", "up"}, "up")
	reg(scopeMenu, actionDown, []string{"j", "down"}, "down")
	reg(scopeMenu, actionSelect, []string{"enter"}, "choose")
	reg(scopeMenu, actionClose, []string{"esc", "q"}, "close")

	reg(scopeConfirm, actionConfirm, []string{"y", "enter"}, "yes")
	reg(scopeConfirm, actionCancel, []string{"n", "esc"}, "no")

	reg(scopeEdit, actionConfirm, []string{"enter"}, "save")
	reg(scopeEdit, actionCancel, []string{"esc"}, "cancel")

	reg(scopeDetail, actionBack, []string{"esc", "backspace"}, "back")
	reg(scopeDetail, actionEdit, []string{"e"}, "rename")
	reg(scopeDetail, actionDelete, []string{"D"}, "delete")

	return r
}

func (r *KeyRegistry) Register(b Binding) {
	if r == nil {
		return
	}
	for _, scope := range b.Scopes {
		scope = strings.TrimSpace(scope)
		if scope == "" || len(b.Keys) == 0 {
			continue
		}
		if _, ok := r.indexByScope[scope]; !ok {
			r.indexByScope[scope] = make(map[string]*Binding)
		}
		normKeys := normalizeKeyList(b.Keys)
		if len(normKeys) == 0 || r.scopeHasAnyKey(scope, normKeys) {
			continue
		}

		copyBinding := b
		copyBinding.Keys = normKeys
		copyBinding.Scopes = []string{scope}
		r.bindingsByScope[scope] = append(r.bindingsByScope[scope], &copyBinding)
		for _, k := range copyBinding.Keys {
			r.indexByScope[scope][k] = &copyBinding
		}
	}
}

func (r *KeyRegistry) BindingsForScope(scope string) []Binding {
	if r == nil {
		return nil
	}
	items := r.bindingsByScope[scope]
	out := make([]Binding, 0, len(items))
	for _, b := range items {
		out = append(out, *b)
	}
	return out
}

// Lookup resolves a key name in scope, then in the global scope.
func (r *KeyRegistry) Lookup(keyName, scope string) *Binding {
	if r == nil || keyName == "" {
		return nil
	}
	keyName = normalizeKeyName(keyName)
	if b := r.lookupInScope(keyName, scope); b != nil {
		return b
	}
	if scope != scopeGlobal {
		return r.lookupInScope(keyName, scopeGlobal)
	}
	return nil
}

// Is reports whether keyName triggers action in scope.
func (r *KeyRegistry) Is(keyName, scope string, action Action) bool {
	b := r.Lookup(keyName, scope)
	return b != nil && b.Action == action
}

// IsLocal is Is without the global fallback, for modes that own text input.
func (r *KeyRegistry) IsLocal(keyName, scope string, action Action) bool {
	if r == nil {
		return false
	}
	b := r.lookupInScope(normalizeKeyName(keyName), scope)
	return b != nil && b.Action == action
}

// HelpBindings adapts a scope for bubbles/help. The first key of each
// binding is its label.
func (r *KeyRegistry) HelpBindings(scope string) []key.Binding {
	items := r.BindingsForScope(scope)
	out := make([]key.Binding, 0, len(items))
	for _, b := range items {
		out = append(out, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(b.Keys[0], b.Help)))
	}
	return out
}

func (r *KeyRegistry) lookupInScope(keyName, scope string) *Binding {
	lookup, ok := r.indexByScope[scope]
	if !ok {
		return nil
	}
	return lookup[keyName]
}

func (r *KeyRegistry) scopeHasAnyKey(scope string, keys []string) bool {
	lookup := r.indexByScope[scope]
	for _, k := range keys {
		if _, exists := lookup[k]; exists {
			return true
		}
	}
	return false
}

// ApplyOverrides replaces the keys of existing bindings. Unknown scopes or
// actions and keys claimed twice within a scope are rejected.
func (r *KeyRegistry) ApplyOverrides(items []config.KeyOverride) error {
	if r == nil || len(items) == 0 {
		return nil
	}
	for _, o := range items {
		scope := strings.TrimSpace(o.Scope)
		if scope == "" {
			return fmt.Errorf("key override: scope is required")
		}
		action := Action(strings.TrimSpace(o.Action))
		keys := normalizeKeyList(o.Keys)
		if len(keys) == 0 {
			return fmt.Errorf("key override scope=%q action=%q: keys are required", scope, action)
		}
		var target *Binding
		for _, b := range r.bindingsByScope[scope] {
			if b.Action == action {
				target = b
				break
			}
		}
		if target == nil {
			return fmt.Errorf("key override scope=%q action=%q: unknown action in scope", scope, action)
		}
		target.Keys = keys
	}

	r.rebuildIndex()
	for scope, bindings := range r.bindingsByScope {
		seen := make(map[string]Action)
		for _, b := range bindings {
			for _, k := range b.Keys {
				if prev, ok := seen[k]; ok {
					return fmt.Errorf("key override conflict in scope=%q: key %q used by both %q and %q", scope, k, prev, b.Action)
				}
				seen[k] = b.Action
			}
		}
	}
	return nil
}

func (r *KeyRegistry) rebuildIndex() {
	r.indexByScope = make(map[string]map[string]*Binding, len(r.bindingsByScope))
	for scope, bindings := range r.bindingsByScope {
		r.indexByScope[scope] = make(map[string]*Binding)
		for _, b := range bindings {
			for _, k := range b.Keys {
				r.indexByScope[scope][k] = b
			}
		}
	}
}

func normalizeKeyList(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool)
	for _, k := range keys {
		n := normalizeKeyName(k)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func normalizeKeyName(k string) string {
	if k == " " {
		return "space"
	}
	trimmed := strings.TrimSpace(k)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) == 1 {
		ch := trimmed[0]
		if ch >= 'A' && ch <= 'Z' {
			// Single uppercase runes stay distinct from their lowercase
			// bindings ("a" select all, "A" clear selection).
			return trimmed
		}
	}
	s := strings.ToLower(trimmed)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "control+", "ctrl+")
	s = strings.ReplaceAll(s, "return", "enter")
	s = strings.ReplaceAll(s, "spacebar", "space")
	return s
}
