package server

import (
	"encoding/json"

	"github.com/standardbeagle/kconfig-lsp/internal/kctx"
	"github.com/standardbeagle/kconfig-lsp/internal/uri"
)

type addBuildParams struct {
	URI  string            `json:"uri"`
	Root string            `json:"root"`
	Conf []string          `json:"conf"`
	Env  map[string]string `json:"env"`
}

// handleAddBuild registers a new managed build. If it's already the main
// build, it's parsed and its diagnostics published immediately rather
// than waiting for the first request that touches it.
func (s *Server) handleAddBuild(params json.RawMessage) (interface{}, error) {
	var p addBuildParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	buildURI, err := uri.Parse(p.URI)
	if err != nil {
		return nil, nil
	}

	var confFiles []*kctx.ConfFile
	for _, f := range p.Conf {
		confFiles = append(confFiles, kctx.NewConfFile(uri.File(f)))
	}
	ctx := s.createCtx(buildURI, p.Root, confFiles, p.Env)

	if buildURI.String() == s.mainURI {
		s.refreshCtx(ctx)
	}
	return map[string]interface{}{"id": buildURI.String()}, nil
}

type removeBuildParams struct {
	URI string `json:"uri"`
}

func (s *Server) handleRemoveBuild(params json.RawMessage) (interface{}, error) {
	var p removeBuildParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	buildURI, err := uri.Parse(p.URI)
	if err != nil {
		return nil, nil
	}
	if _, ok := s.ctx[buildURI.String()]; ok {
		delete(s.ctx, buildURI.String())
		s.dbg("deleted build %s", buildURI)
	}
	return nil, nil
}

type setMainBuildParams struct {
	URI string `json:"uri"`
}

func (s *Server) handleSetMainBuild(params json.RawMessage) (interface{}, error) {
	var p setMainBuildParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	buildURI, err := uri.Parse(p.URI)
	if err != nil {
		return nil, nil
	}
	s.mainURI = buildURI.String()
	if ctx, ok := s.ctx[s.mainURI]; ok {
		s.dbg("main build: %s", buildURI)
		s.refreshCtx(ctx)
	}
	return nil, nil
}

type getMenuOptions struct {
	ShowAll bool `json:"showAll"`
}

type getMenuParams struct {
	Ctx     string          `json:"ctx"`
	ID      string          `json:"id"`
	Options *getMenuOptions `json:"options"`
}

func (s *Server) handleGetMenu(params json.RawMessage) (interface{}, error) {
	var p getMenuParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	ctx := s.getCtx(p.Ctx)
	if ctx == nil {
		return nil, nil
	}
	if !ctx.Valid() {
		s.refreshCtx(ctx)
	}

	showAll := p.Options != nil && p.Options.ShowAll
	menu, ok := ctx.GetMenu(p.ID, showAll)
	if !ok {
		return nil, nil
	}
	return menu, nil
}

type setValParams struct {
	Ctx  string  `json:"ctx"`
	Name string  `json:"name"`
	Val  *string `json:"val"`
}

func (s *Server) handleSetVal(params json.RawMessage) (interface{}, error) {
	var p setValParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	ctx := s.getCtx(p.Ctx)
	if ctx == nil {
		return nil, nil
	}
	if p.Val != nil {
		if err := ctx.Set(p.Name, *p.Val); err != nil {
			return nil, toRPCError(err)
		}
	} else {
		ctx.Unset(p.Name)
	}
	return nil, nil
}

type searchParams struct {
	Ctx   string `json:"ctx"`
	Query string `json:"query"`
}

func (s *Server) handleSearch(params json.RawMessage) (interface{}, error) {
	var p searchParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	ctx := s.getCtx(p.Ctx)
	if ctx == nil {
		return nil, nil
	}
	return map[string]interface{}{
		"ctx":     ctx.URI.String(),
		"query":   p.Query,
		"symbols": ctx.SymbolSearch(p.Query),
	}, nil
}
