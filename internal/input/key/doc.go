// Package key provides key event types, key specification parsing and the
// shortcut keymap used for manual delimiter wrapping.
//
// Key specifications can be written as:
//
//   - Simple keys: "a", "Enter", "Tab", "Backspace"
//   - With modifiers: "Ctrl+B", "Alt+Shift+K"
//   - Vim-style: "<C-b>", "<CR>", "<BS>"
package key
