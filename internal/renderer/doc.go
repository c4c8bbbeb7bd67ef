// Package renderer draws laid out scrollback lines onto a terminal backend.
//
// The renderer is responsible for:
//   - Selecting the lines that fit the screen, newest at the bottom
//   - Translating colour chunks into cell styles
//   - Placing runes by display width, including wide characters
//
// Layout happens before drawing, in the layout package; the renderer only
// paints what it is given. Subpackages:
//
//   - core: colors, styles and cells shared with backends
//   - backend: the Backend interface, a tcell terminal and an in-memory
//     backend for tests
//   - layout: truncation, hard wrap and word wrap
//
// Usage:
//
//	term, _ := backend.NewTerminal()
//	r := renderer.New(term)
//	r.Draw(buf.Lines(), width, height)
//	r.Show()
package renderer
