// Package wasmbuf re-exports the WebAssembly linear-memory buffer source.
// It lives in its own package so clients that never touch it do not pull the
// wazero runtime into their builds.
package wasmbuf

import (
	"github.com/naxaes/allocators-go/internal/wasmbuf"
)

// PageSize is the WebAssembly linear-memory page size.
const PageSize = wasmbuf.PageSize

type (
	Config = wasmbuf.Config
	Source = wasmbuf.Source
)

var (
	New           = wasmbuf.New
	DefaultConfig = wasmbuf.DefaultConfig
)
