// Package plugin hosts user-defined text transforms.
//
// Transforms take the selected text and return a replacement. Built-in
// transforms are plain Go functions; additional ones are loaded from
// Lua scripts that call register_transform:
//
//	register_transform("shout", function(text)
//	    return string.upper(text) .. "!"
//	end)
//
// The Lua state is sandboxed: only the base, string, and table
// libraries are opened, and the load family of functions is removed, so
// scripts cannot touch the filesystem, network, or process.
//
// gopher-lua's LState is not goroutine-safe; the Host serializes all
// state access behind a mutex.
package plugin
