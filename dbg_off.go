//go:build !bertlv_debug

package bertlv

type DefaultTracer struct{}
type labeledItem struct{}

func debugEnter(_ ...any)                  {}
func debugExit(_ ...any)                   {}
func debugEvent(_ EventType, _ ...any)     {}
func debugInfo(_ ...any)                   {}
func debugIO(_ ...any)                     {}
func debugTLV(_ ...any)                    {}
func debugComp(_ ...any)                   {}
func debugPrim(_ ...any)                   {}
func debugTrace(_ ...any)                  {}
func makeBufferID() string                 { return "" }
func newLItem(_ any, _ ...any) labeledItem { return labeledItem{} }
func (_ labeledItem) String() string       { return `` }
