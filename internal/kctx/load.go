package kctx

import (
	"fmt"

	"github.com/standardbeagle/kconfig-lsp/internal/kconfig"
	"github.com/standardbeagle/kconfig-lsp/internal/lsp"
)

// LoadConfig replays the board defconfig (if any, clearing any prior
// assignments first) and then every user .conf file (merged on top,
// overriding only the names each one mentions) through the symbol graph,
// then runs the linter against the resulting state.
func (c *Context) LoadConfig() {
	for _, f := range c.AllConfFiles() {
		f.Diags = nil
	}

	if c.boardConfFile != nil {
		c.loadFile(c.boardConfFile, true)
	}
	for _, f := range c.ConfFiles {
		c.loadFile(f, false)
	}
	c.lint()
}

// loadFile reads file's raw .conf contents through the config-loader
// grammar (kconfig.ParseDotConfigData) and applies its assignments to
// this context's value map: replace clears every prior value first
// (board defconfig semantics), merge only overwrites the names present
// in this file (user overlay semantics). A missing file contributes no
// assignments and is not an error; a malformed line produces a warning
// diagnostic anchored at that file.
func (c *Context) loadFile(file *ConfFile, replace bool) {
	data, err := c.loader.Read(file.URI.Filename())
	if err != nil {
		return
	}

	dc, err := kconfig.ParseDotConfigData(data, file.URI.Filename())
	if err != nil {
		c.cmdDiags = append(c.cmdDiags, lsp.ErrDiagnostic(err.Error(), lsp.Range{}))
		return
	}

	if replace {
		c.values = map[string]string{}
	}
	for _, a := range dc.Assignments {
		if a.Value == kconfig.ValNotSet {
			delete(c.values, a.Name)
			continue
		}
		c.values[a.Name] = a.Value
	}

	for _, m := range dc.Malformed {
		diag := lsp.WarnDiagnostic(fmt.Sprintf("ignoring malformed line '%s'", m.Text), lineRange(m.Line))
		file.Diags = append(file.Diags, diag)
	}
}
