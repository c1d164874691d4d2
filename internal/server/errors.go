package server

import (
	"errors"

	"github.com/standardbeagle/kconfig-lsp/internal/kerrors"
	"github.com/standardbeagle/kconfig-lsp/internal/rpc"
)

// toRPCError is the one place internal/kerrors' domain taxonomy becomes
// a wire-facing rpc.Error: every handler in this package routes a
// non-nil kctx/kconfig error through here before returning it.
func toRPCError(err error) *rpc.Error {
	if err == nil {
		return nil
	}

	var parseErr *kerrors.ParseError
	var lintErr *kerrors.LintError
	var configErr *kerrors.ConfigError
	var transportErr *kerrors.TransportError

	switch {
	case errors.As(err, &parseErr):
		return rpc.NewError(rpc.InternalError, parseErr.Error())
	case errors.As(err, &lintErr):
		return rpc.NewError(rpc.InternalError, lintErr.Error())
	case errors.As(err, &configErr):
		return rpc.NewError(rpc.InvalidParams, configErr.Error())
	case errors.As(err, &transportErr):
		return rpc.NewError(rpc.InternalError, transportErr.Error())
	default:
		return rpc.NewError(rpc.UnknownErrorCode, err.Error())
	}
}
