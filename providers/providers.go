// Package providers registers every backend that ships with llmcore.
// Import this package to make them all available via provider.New():
//
//	import _ "github.com/randalmurphal/llmcore/providers"
package providers

import (
	_ "github.com/randalmurphal/llmcore/mock"
)
