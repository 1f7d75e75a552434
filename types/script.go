package types

import "strings"

// ScriptErrorPrefix marks a script whose code payload is an error comment
// rather than executable code. The orchestrator treats script code as opaque
// text; this prefix is the only recognized convention and is informational.
const ScriptErrorPrefix = "# Error"

// Script is one generated automation script, keyed by the test case that
// produced it. Code may be an error comment instead of runnable code.
type Script struct {
	CaseID string `json:"Test Case ID" msgpack:"case_id"`
	Code   string `json:"Code" msgpack:"code"`
}

// IsError reports whether the code payload is an error comment.
func (s Script) IsError() bool {
	return strings.HasPrefix(s.Code, ScriptErrorPrefix)
}
