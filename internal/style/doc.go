// Package style holds the pattern registry: the ordered inline and block
// style descriptors that drive markdown-tag detection.
//
// An inline descriptor's pattern must contain an unnamed capturing group 1
// holding the opening delimiter, which recurs as the closing delimiter via
// the backreference \1, and a named group "text" holding the content:
//
//	((\*{2})|(_{2}))(?<text>.+?)\1
//
// A block descriptor's pattern is matched against the start of a block;
// on a match ConsumedLength leading runes are stripped.
//
// Registries are built once with a Builder and are immutable afterwards.
// Descriptor order is priority order.
package style

import "github.com/tliron/commonlog"

var log = commonlog.GetLogger("markflow.style")
