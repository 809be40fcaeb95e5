//go:build bertlv_debug

package bertlv

import (
	"io"
	"math/rand"
	"os"
	"runtime"
	"sync"
	"time"
)

/*
EnvDebugVar defines the environment variable name which can
be leveraged to invoke or disable use of the [DefaultTracer]
[Tracer] qualifier.

Use sparingly in high-volume/performance-sensitive scenarios.
*/
const EnvDebugVar = "BERTLV_DEBUG"

const coreTracerMask = EventEnter | EventInfo | EventExit

/*
DefaultTracer is the package-level [Tracer] implementation.
*/
type DefaultTracer struct {
	mu   sync.Mutex
	w    io.Writer
	mask EventType
}

/*
NewDefaultTracer returns an instance of *[DefaultTracer]. The
input [io.Writer] value represents the writer interface type
to which debug data shall be written.
*/
func NewDefaultTracer(writer io.Writer) *DefaultTracer {
	return &DefaultTracer{w: writer}
}

/*
EnableLevel adds [EventType] ev to the collection of levels to
be traced.

Note that this method can be used to override any such levels
activated via the [EnvDebugVar] environment variable at runtime.
*/
func (r *DefaultTracer) EnableLevel(ev EventType) { r.mask |= ev }

/*
DisableLevel removes [EventType] ev from the collection of levels
to be traced.
*/
func (r *DefaultTracer) DisableLevel(ev EventType) { r.mask &^= ev }

/*
Enabled returns a Boolean value indicative of the specified
[EventType] being enabled within the receiver instance.
*/
func (r *DefaultTracer) Enabled(e EventType) bool { return r.mask&e != 0 }

/*
Trace writes [TraceRecord] rec to the [io.Writer] handled by the
receiver instance. This method need not be executed by the end
user directly.
*/
func (r *DefaultTracer) Trace(rec TraceRecord) {
	// drop if no bit in rec.Type is enabled
	if r.mask&rec.Type == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ts := rec.Time.Format("15:04:05.000")
	fn := trimFuncName(rec.Func)

	switch rec.Type & coreTracerMask {
	case EventEnter:
		r.writeEnter(ts, fn, rec.Args)
	case EventExit:
		r.writeExit(ts, fn, rec.Ret)
	default:
		r.writeInfo(ts, fn, rec.Args)
	}
}

func trimFuncName(full string) string {
	if i := lidx(full, "/"); i >= 0 {
		return full[i+1:]
	}
	return full
}

func (r *DefaultTracer) writeEnter(ts, fn string, args []any) {
	r.w.Write([]byte(ts + " → " + fn + "("))
	for i, a := range args {
		if i > 0 {
			r.w.Write([]byte(", "))
		}
		if s := fmtArg(a); s != "" {
			r.w.Write([]byte(s))
		}
	}
	r.w.Write([]byte(")\n"))
}

func (r *DefaultTracer) writeInfo(ts, fn string, args []any) {
	r.w.Write([]byte(ts + "     • " + fn + ": "))
	for i, a := range args {
		if i > 0 {
			r.w.Write([]byte(", "))
		}
		if s := fmtArg(a); s != "" {
			r.w.Write([]byte(s))
		}
	}
	r.w.Write([]byte("\n"))
}

func (r *DefaultTracer) writeExit(ts, fn string, rets []any) {
	r.w.Write([]byte(ts + " ← " + fn + " => "))
	for i, a := range rets {
		if i > 0 {
			r.w.Write([]byte(", "))
		}
		if s := fmtArg(a); s != "" {
			r.w.Write([]byte(s))
		}
	}
	r.w.Write([]byte("\n"))
}

/*
TraceRecord encapsulates metadata pertaining to a particular event
observed by a [Tracer]. This includes a [time.Time] timestamp, an
[EventType] as well as in/out arguments.
*/
type TraceRecord struct {
	Time time.Time // timestamp, i.e.: time.Now()
	Type EventType // Enter, Info or Exit
	Func string    // FuncName -or- TypeName.MethodName
	Args []any     // On Enter: parameters
	Ret  []any     // On Exit: return values (last entry may be error)
}

/*
Tracer implements an interface tracer type, which is implemented
by [DefaultTracer].
*/
type Tracer interface {
	Trace(TraceRecord)
}

type levelTracer interface {
	Tracer
	Enabled(EventType) bool
}

/*
EnableDebug registers and activates [Tracer] for debugging.

This function need not be called if an environment variable of
[EnvDebugVar] was read and successfully parsed at runtime.
*/
func EnableDebug(t Tracer) {
	tmu.Lock()
	defer tmu.Unlock()
	tracer = t
}

/*
DisableDebug disables [Tracer] debugging.
*/
func DisableDebug() {
	tmu.Lock()
	defer tmu.Unlock()
	tracer = &discardTracer{}
}

var (
	tmu    sync.RWMutex
	tracer Tracer = &discardTracer{} // default
)

type discardTracer struct{}

func (*discardTracer) Trace(_ TraceRecord)      {}
func (*discardTracer) Enabled(_ EventType) bool { return false }

var (
	rndMu       sync.Mutex
	rnd         = rand.New(rand.NewSource(tnow().UnixNano()))
	bufferIDLen = 16
)

func makeBufferID() string {
	buf := make([]byte, bufferIDLen)
	rndMu.Lock()
	for i := range buf {
		buf[i] = hexDigits[rnd.Intn(16)]
	}
	rndMu.Unlock()
	return string(buf)
}

func debugEvent(level EventType, args ...any) {
	tmu.RLock()
	t := tracer
	tmu.RUnlock()

	lt, ok := t.(levelTracer)
	if ok {
		if !(lt.Enabled(level) || lt.Enabled(EventAll)) {
			return
		}
	}

	// now fire the record
	pc, _, _, found := runtime.Caller(2)
	fn := callerName()

	if found {
		fn = runtime.FuncForPC(pc).Name()
	}
	fn = replaceAll(fn, "go-bertlv.", "")
	if cntns(fn, ".func") {
		fn = fn[:lidx(fn, ".")]
	}
	rec := TraceRecord{
		Time: tnow(),
		Type: level,
		Func: fn,
	}
	if ok && lt.Enabled(EventIO) {
		if len(args) == 0 {
			args = []any{"no values"}
		}
		if level == EventExit {
			rec.Ret = args
		} else {
			rec.Args = args
		}
	}
	t.Trace(rec)
}

func callerName() string {
	// skip: runtime.Callers(0), callerName(1), debugEvent(2)
	pcs := make([]uintptr, 10)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	for {
		fr, more := frames.Next()
		name := fr.Function
		if !hasPfx(name, "debug") {
			return name
		}
		if !more {
			break
		}
	}
	return "unknown"
}

func debugInfo(input ...any)   { debugEvent(EventInfo, input...) }
func debugIO(args ...any)      { debugEvent(EventIO, args...) }
func debugTLV(args ...any)     { debugEvent(EventTLV, args...) }
func debugComp(args ...any)    { debugEvent(EventComposite, args...) }
func debugPrim(args ...any)    { debugEvent(EventPrim, args...) }
func debugTrace(args ...any)   { debugEvent(EventTrace, args...) }
func debugEnter(args ...any)   { debugEvent(EventEnter, args...) }
func debugExit(args ...any)    { debugEvent(EventExit, args...) }

// strictly for debugging.
type labeledItem struct {
	L string
	V any
}

func newLItem(value any, labels ...any) (li labeledItem) {
	li = labeledItem{V: value}
	var l []string
	for i := 0; i < len(labels); i++ {
		switch tv := labels[i].(type) {
		case EncodingRule:
			l = append(l, tv.String())
		case string:
			l = append(l, tv)
		}
	}

	li.L = join(l, ` `)

	return
}

func (r labeledItem) String() string {
	var l = "<No label>:"
	var v = "<Nil value>"
	if err, is := r.V.(error); is {
		if r.L == "" {
			l = "Error:"
		} else {
			l = r.L + ":"
		}
		if err != nil {
			v = l + err.Error()
		} else {
			v = l + "<Nil error>"
		}
	} else {
		if r.L != "" {
			l = r.L + ":"
		}
		_v := fmtArg(r.V)
		if _v != "" {
			v = _v
		}
		v = l + v
	}

	return v
}

func fmtArg(x any) (s string) {
	switch v := x.(type) {
	case int, []int:
		s = fmtIntArg(v)
	case string:
		s = v
	case bool:
		s = bool2str(v)
	case byte, []byte:
		s = fmtByteSliceArg(v)
	case labeledItem:
		s = v.String()
	case Tag:
		s = v.String()
	case TLV:
		s = "TLV: " + v.String()
	case EncodingRule:
		s = v.String()
	case error:
		s = v.Error()
	default:
		s = "<Unidentified>"
	}

	return
}

func fmtIntArg(x any) string {
	var v []int
	switch tv := x.(type) {
	case int:
		v = append(v, tv)
	case []int:
		v = tv
	}

	var strs []string
	for i := 0; i < len(v); i++ {
		strs = append(strs, itoa(v[i]))
	}
	return join(strs, ` `)
}

func fmtByteSliceArg(x any) (s string) {
	var v []byte
	switch tv := x.(type) {
	case byte:
		v = append(v, tv)
	case []byte:
		v = tv
	}

	var strs []string
	for i := 0; i < len(v); i++ {
		strs = append(strs, fuint(uint64(v[i]), 8))
	}
	s = join(strs, ` `)
	return
}

func init() {
	if evar := os.Getenv(EnvDebugVar); evar != "" {
		names := map[string]EventType{
			"all":       EventAll,
			"none":      EventNone,
			"enter":     EventEnter,
			"info":      EventInfo,
			"exit":      EventExit,
			"io":        EventIO,
			"tlv":       EventTLV,
			"composite": EventComposite,
			"primitive": EventPrim,
			"trace":     EventTrace,
		}

		var mask EventType
		sp := splitS(evar, ",")
		for i := 0; i < len(sp); i++ {
			if n, err := atoi(sp[i]); err == nil {
				if n < 0 {
					mask = EventAll
					break
				}
				if n <= int(EventAll) {
					mask |= EventType(n)
				}
			} else if ev, found := names[lc(trimS(sp[i]))]; found {
				mask |= ev
			}
		}

		dt := NewDefaultTracer(os.Stderr)
		dt.mask = mask
		EnableDebug(dt)
	}
}
