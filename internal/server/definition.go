package server

import "encoding/json"

// handleDefinition resolves the symbol under the cursor to its
// definition locations, one per `config`/`menuconfig` node declaring it.
func (s *Server) handleDefinition(params json.RawMessage) (interface{}, error) {
	sym, err := s.getSym(params)
	if err != nil || sym == nil {
		return nil, err
	}
	return sym.Locations, nil
}
