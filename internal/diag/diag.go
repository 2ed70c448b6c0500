// Package diag formats the non-fatal, non-source errors the module loader
// returns as plain Go errors (module source reads, cache reads, module
// parsing) — as opposed to the fatal, source-anchored diagnostics produced
// by position.ComptimeError. Modeled directly on the teacher's
// internal/core.CLIError/Wrap.
package diag

import "encoding/json"

// Code is a machine-readable error identifier, useful for callers that want
// to branch on error kind without string-matching Error().
type Code string

const (
	CodeModuleNotFound Code = "ERR_MODULE_NOT_FOUND"
	CodeModuleCycle    Code = "ERR_MODULE_CYCLE"
	CodeCacheIO        Code = "ERR_CACHE_IO"
	CodeConfig         Code = "ERR_CONFIG"
	CodeFrontend       Code = "ERR_FRONTEND"
)

// Error is a uniform error payload. Printed with %s it returns Message,
// followed by ": " and Detail when Detail is set; its JSON method renders the
// full payload for tooling that wants structure.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func (e Error) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

// JSON renders the error as a JSON object.
func (e Error) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// Wrap builds an Error with the given code and message, carrying inner's
// message as Detail.
func Wrap(code Code, msg string, inner error) error {
	detail := ""
	if inner != nil {
		detail = inner.Error()
	}
	return Error{Code: code, Message: msg, Detail: detail}
}
