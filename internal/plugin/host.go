package plugin

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// Errors returned by the plugin host.
var (
	ErrHostClosed       = errors.New("plugin host is closed")
	ErrUnknownTransform = errors.New("unknown transform")
)

// TransformFunc is a Go-native text transform.
type TransformFunc func(text string) (string, error)

// Host owns the Lua state and the transform registry.
// All methods are safe for concurrent use.
type Host struct {
	mu     sync.Mutex
	state  *lua.LState
	goFns  map[string]TransformFunc
	luaFns map[string]*lua.LFunction
	closed bool
}

// NewHost creates a host with the built-in transforms registered.
func NewHost() *Host {
	h := &Host{
		state:  newSandboxedState(),
		goFns:  make(map[string]TransformFunc),
		luaFns: make(map[string]*lua.LFunction),
	}

	h.state.SetGlobal("register_transform", h.state.NewFunction(h.luaRegister))

	h.Register("upper", func(text string) (string, error) {
		return strings.ToUpper(text), nil
	})
	h.Register("lower", func(text string) (string, error) {
		return strings.ToLower(text), nil
	})

	return h
}

// newSandboxedState opens only the safe standard libraries and removes
// the load family so scripts cannot escape the sandbox.
func newSandboxedState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	for _, pair := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.StringLibName, lua.OpenString},
		{lua.TabLibName, lua.OpenTable},
	} {
		L.Push(L.NewFunction(pair.fn))
		L.Push(lua.LString(pair.name))
		L.Call(1, 0)
	}

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}

	return L
}

// luaRegister implements the register_transform global.
func (h *Host) luaRegister(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	h.luaFns[name] = fn
	return 0
}

// Register adds a Go-native transform, replacing any previous transform
// of the same name.
func (h *Host) Register(name string, fn TransformFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.goFns[name] = fn
}

// LoadScript executes a Lua script file; the script registers its
// transforms via register_transform.
func (h *Host) LoadScript(path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHostClosed
	}
	if err := h.state.DoFile(path); err != nil {
		return fmt.Errorf("plugin script %s: %w", path, err)
	}
	return nil
}

// LoadString executes Lua source directly. Intended for tests and
// inline configuration.
func (h *Host) LoadString(src string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHostClosed
	}
	if err := h.state.DoString(src); err != nil {
		return fmt.Errorf("plugin source: %w", err)
	}
	return nil
}

// LoadDir loads every .lua file in dir, in lexical order.
// A missing directory is not an error.
func (h *Host) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("plugin dir %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	for _, p := range paths {
		if err := h.LoadScript(p); err != nil {
			return err
		}
	}
	return nil
}

// Apply runs the named transform over text. Go-native transforms take
// precedence over Lua ones.
func (h *Host) Apply(name, text string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return "", ErrHostClosed
	}

	if fn, ok := h.goFns[name]; ok {
		return fn(text)
	}

	fn, ok := h.luaFns[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTransform, name)
	}

	h.state.Push(fn)
	h.state.Push(lua.LString(text))
	if err := h.state.PCall(1, 1, nil); err != nil {
		return "", fmt.Errorf("transform %s: %w", name, err)
	}

	ret := h.state.Get(-1)
	h.state.Pop(1)

	result, ok := ret.(lua.LString)
	if !ok {
		return "", fmt.Errorf("transform %s: returned %s, want string", name, ret.Type())
	}
	return string(result), nil
}

// Names returns all registered transform names, sorted.
func (h *Host) Names() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	seen := make(map[string]bool, len(h.goFns)+len(h.luaFns))
	var names []string
	for name := range h.goFns {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for name := range h.luaFns {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Close shuts the Lua state down. Further calls fail with ErrHostClosed.
func (h *Host) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	h.state.Close()
}
