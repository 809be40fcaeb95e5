package bertlv

/*
evt.go contains EventType constants which are (only) used
for debugging when this package was built or run with the
"-tags bertlv_debug" flag.
*/

/*
EventType describes a specific kind of [Tracer] event. See the
[EventType] constants for a full list and descriptions.

Note that this type and all of its constants are only meaningful
if/when this package was run or built with the "-tags bertlv_debug"
flag. Otherwise, they can be ignored entirely.
*/
type EventType int

const (
	EventNone EventType = 0     // NO events
	EventAll  EventType = 65535 // ALL events (use with extreme caution)
)

const (
	EventEnter     EventType = 1 << iota //   1: Called-function begin
	EventInfo                            //   2: Interim function event
	EventExit                            //   4: Called function exit
	EventIO                              //   8: Called function inputs/outputs
	EventTLV                             //  16: TLV ops
	EventComposite                       //  32: SEQUENCE/SET OF recursion
	EventPrim                            //  64: primitive value codec ops
	EventTrace                           // 128: low-level ops; allocs, pools, appends
)
