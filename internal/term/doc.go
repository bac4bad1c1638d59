// Package term is the terminal front end for markflow.
//
// It converts tcell key events into key.Event values for the edit
// pipeline and draws committed documents. Each block type has a fixed
// renderer; inline styles are drawn from the registry's presentation
// hints.
package term

import "github.com/tliron/commonlog"

var log = commonlog.GetLogger("markflow.term")
