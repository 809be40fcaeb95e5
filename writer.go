package bertlv

/*
writer.go implements the streaming encoder: a scratch buffer, a
stack of open constructed levels and the sealing logic which fixes
length octets once a level closes.
*/

import "slices"

type levelKind int

const (
	levelSequence levelKind = iota
	levelSetOf
	levelOctetString
)

func kindName(k levelKind) (name string) {
	switch k {
	case levelSequence:
		name = "SEQUENCE"
	case levelSetOf:
		name = "SET OF"
	case levelOctetString:
		name = "OCTET STRING"
	}

	return
}

/*
writerNode records one open constructed level: the kind requested
at push time, the resolved tag, the absolute offset of the element
and of its reserved length octet, and the start offsets of every
completed child element.
*/
type writerNode struct {
	kind   levelKind
	tag    Tag
	start  int
	lenPos int
	elems  []int
}

/*
Writer is the streaming encoder. Values are appended through the
Write methods; constructed levels open and close through matching
Push and Pop calls. The zero value is not usable; see [NewWriter]
and [NewWriterPool].

Writer instances are not safe for concurrent use.
*/
type Writer struct {
	rule  EncodingRule
	buf   []byte
	bp    *[]byte
	pool  BufferPool
	stack []writerNode
	id    string
	freed bool
}

/*
NewWriter returns a pooled *[Writer] bound to the given rule and
backed by the package-level [BufferPool].
*/
func NewWriter(rule EncodingRule) *Writer { return NewWriterPool(rule, nil) }

/*
NewWriterPool returns a pooled *[Writer] bound to the given rule
and drawing scratch space from pool. A nil pool selects the package
default.
*/
func NewWriterPool(rule EncodingRule, pool BufferPool) *Writer {
	if pool == nil {
		pool = bufPool
	}
	bp := pool.Get()
	w := &Writer{
		rule: rule,
		bp:   bp,
		buf:  (*bp)[:0],
		pool: pool,
		id:   makeBufferID(),
	}
	debugTrace(newLItem(w.id, rule, "new Writer"))
	return w
}

/*
Rule returns the [EncodingRule] the receiver encodes under.
*/
func (r *Writer) Rule() EncodingRule { return r.rule }

/*
ID returns the debug identifier assigned to the receiver instance,
or a zero string outside of debug builds.
*/
func (r *Writer) ID() string { return r.id }

func (r *Writer) check() (err error) {
	if r.freed {
		err = errorFreedWriter
	} else if !r.rule.In(BER, CER, DER) {
		err = usageErrorf("invalid encoding rule (", itoa(int(r.rule)), ")")
	}

	return
}

/*
effectiveTag resolves the tag an operation will emit through
[resolveTag], then forces the constructed flag the operation
demands. Substitutes reclass the element for implicit tagging; the
form always follows the operation itself.
*/
func (r *Writer) effectiveTag(uni int, constructed bool, tag []Tag) (t Tag, err error) {
	if t, err = resolveTag(uni, tag); err == nil {
		t.Constructed = constructed
	}
	return
}

/*
ensure grows the scratch buffer ahead of n additional octets,
keeping capacities power-of-two aligned to curb pool churn.
*/
func (r *Writer) ensure(n int) {
	if need := len(r.buf) + n; need > cap(r.buf) {
		debugTrace(newLItem([]int{need, cap(r.buf)}, "need/cap"))
		nb := make([]byte, len(r.buf), roundup(need))
		copy(nb, r.buf)
		r.buf = nb
	}
}

/*
markElem records the absolute start offset of a completed child
element within the innermost open level, if any.
*/
func (r *Writer) markElem(start int) {
	if n := len(r.stack); n > 0 {
		r.stack[n-1].elems = append(r.stack[n-1].elems, start)
	}
}

/*
appendPrimitive emits one definite primitive element.
*/
func (r *Writer) appendPrimitive(t Tag, content []byte) {
	r.ensure(t.EncodedLen() + lengthSize(len(content)) + len(content))
	start := len(r.buf)
	r.buf = appendTag(r.buf, t)
	r.buf = appendLength(r.buf, len(content))
	r.buf = append(r.buf, content...)
	r.markElem(start)
	debugIO(newLItem(t, "emit"), newLItem(len(content), "content len"))
}

/*
writeSegmented emits content as a CER constructed, indefinite form
string: primitive segments of exactly one thousand (1000) content
octets apiece, save for the final segment. BIT STRING segments are
tagged as BIT STRING and carry an unused bit count octet, zero (0)
on every non-final segment; all other string kinds segment as
OCTET STRING per § 8.23.6 of ITU-T rec. X.690.
*/
func (r *Writer) writeSegmented(t Tag, kind int, unused byte, content []byte) {
	r.ensure(len(content) + (len(content)/maxSegmentOctets+2)*6 + 4)

	start := len(r.buf)
	outer := t
	outer.Constructed = true
	r.buf = appendTag(r.buf, outer)
	r.buf = append(r.buf, indefByte)

	if kind == TagBitString {
		seg := Tag{Class: ClassUniversal, Number: TagBitString}
		for len(content) > maxSegmentBitOctets {
			chunk := content[:maxSegmentBitOctets]
			content = content[maxSegmentBitOctets:]
			r.buf = appendTag(r.buf, seg)
			r.buf = appendLength(r.buf, len(chunk)+1)
			r.buf = append(r.buf, zeroByte)
			r.buf = append(r.buf, chunk...)
		}
		r.buf = appendTag(r.buf, seg)
		r.buf = appendLength(r.buf, len(content)+1)
		r.buf = append(r.buf, unused)
		r.buf = append(r.buf, content...)
	} else {
		seg := Tag{Class: ClassUniversal, Number: TagOctetString}
		for len(content) > maxSegmentOctets {
			chunk := content[:maxSegmentOctets]
			content = content[maxSegmentOctets:]
			r.buf = appendTag(r.buf, seg)
			r.buf = appendLength(r.buf, len(chunk))
			r.buf = append(r.buf, chunk...)
		}
		r.buf = appendTag(r.buf, seg)
		r.buf = appendLength(r.buf, len(content))
		r.buf = append(r.buf, content...)
	}

	r.buf = append(r.buf, indefEoC...)
	r.markElem(start)
	debugIO(newLItem(outer, "emit segmented"))
}

func (r *Writer) push(kind levelKind, uni int, tag []Tag) (err error) {
	if err = r.check(); err != nil {
		return
	}

	var t Tag
	if t, err = r.effectiveTag(uni, true, tag); err != nil {
		return
	}

	debugEnter(newLItem(t, "push "+kindName(kind)))
	r.ensure(t.EncodedLen() + 1)
	node := writerNode{kind: kind, tag: t, start: len(r.buf)}
	r.buf = appendTag(r.buf, t)
	node.lenPos = len(r.buf)
	r.buf = append(r.buf, zeroByte) // reserved length octet
	r.stack = append(r.stack, node)
	return
}

func (r *Writer) pop(kind levelKind) (err error) {
	if err = r.check(); err != nil {
		return
	}

	n := len(r.stack)
	if n == 0 {
		return usageErrorf("pop of ", kindName(kind), " without a matching push")
	}
	node := r.stack[n-1]
	if node.kind != kind {
		return usageErrorf("pop of ", kindName(kind),
			" does not match open ", kindName(node.kind), " level")
	}

	// validations precede any mutation; a failed pop leaves the
	// level open and the buffer untouched
	if node.kind == levelOctetString && r.rule == CER {
		if err = r.checkSegments(node); err != nil {
			return
		}
	}

	r.stack = r.stack[:n-1]

	if node.kind == levelSetOf && r.rule.canonicalOrdering() {
		r.sortSetElements(node)
	}

	if node.kind == levelOctetString && r.rule == CER {
		// CER chunked form: indefinite length, EOC terminated
		r.buf[node.lenPos] = indefByte
		r.buf = append(r.buf, indefEoC...)
	} else {
		r.seal(node)
	}

	r.markElem(node.start)
	debugExit(newLItem(node.tag, "pop "+kindName(kind)))
	return
}

/*
seal fixes the reserved length octet of a closed level. Content
longer than 127 octets demands the long form, in which case the
content shifts right to admit the extra length octets.
*/
func (r *Writer) seal(node writerNode) {
	content := len(r.buf) - node.lenPos - 1
	if content < 0x80 {
		r.buf[node.lenPos] = byte(content)
		return
	}

	extra := lengthSize(content) - 1 // length octets beyond the reserved one
	for i := 0; i < extra; i++ {
		r.buf = append(r.buf, zeroByte)
	}
	copy(r.buf[node.lenPos+1+extra:], r.buf[node.lenPos+1:len(r.buf)-extra])

	r.buf[node.lenPos] = 0x80 | byte(extra)
	for i := 0; i < extra; i++ {
		r.buf[node.lenPos+1+i] = byte(content >> uint(8*(extra-1-i)))
	}
}

/*
sortSetElements rewrites the completed child elements of a closed
SET OF level into ascending byte order of their complete encodings.
Already ordered content is left in place.
*/
func (r *Writer) sortSetElements(node writerNode) {
	if len(node.elems) < 2 {
		return
	}

	els := make([][]byte, len(node.elems))
	for i := range node.elems {
		end := len(r.buf)
		if i+1 < len(node.elems) {
			end = node.elems[i+1]
		}
		els[i] = r.buf[node.elems[i]:end]
	}

	ordered := true
	for i := 1; i < len(els) && ordered; i++ {
		ordered = bcmp(els[i-1], els[i]) <= 0
	}
	if ordered {
		return
	}

	debugComp(newLItem(len(els), "sort SET OF elements"))
	slices.SortFunc(els, func(a, b []byte) int { return bcmp(a, b) })

	scratch := getBuf()
	tmp := *scratch
	for i := 0; i < len(els); i++ {
		tmp = append(tmp, els[i]...)
	}
	copy(r.buf[node.elems[0]:], tmp)
	*scratch = tmp
	putBuf(scratch)
}

/*
checkSegments confirms every child of a manually pushed CER string
level is a primitive OCTET STRING, and that every non-final child
spans exactly one thousand (1000) content octets.
*/
func (r *Writer) checkSegments(node writerNode) (err error) {
	for i := 0; i < len(node.elems) && err == nil; i++ {
		end := len(r.buf)
		if i+1 < len(node.elems) {
			end = node.elems[i+1]
		}
		seg, _, _, perr := parseTLV(r.buf[node.elems[i]:end], 0, r.rule)
		if perr != nil {
			return perr
		}
		if seg.Tag.Constructed || seg.Tag.Class != ClassUniversal || seg.Tag.Number != TagOctetString {
			err = decodeErrorf("CER segment must be a primitive OCTET STRING, got ", seg.Tag)
		} else if i+1 < len(node.elems) && len(seg.Value) != maxSegmentOctets {
			err = errorBadSegment
		}
	}

	return
}

/*
PushSequence opens a SEQUENCE level. Every element written before
the matching [Writer.PopSequence] call becomes a child of this
level. The variadic tag value overrides the universal SEQUENCE tag
for implicit tagging.
*/
func (r *Writer) PushSequence(tag ...Tag) error { return r.push(levelSequence, TagSequence, tag) }

/*
PopSequence closes the innermost open level, which must have been
opened by [Writer.PushSequence].
*/
func (r *Writer) PopSequence() error { return r.pop(levelSequence) }

/*
PushSetOf opens a SET OF level. Under CER and DER the elements are
rewritten into ascending byte order when the level closes; under
BER insertion order persists.
*/
func (r *Writer) PushSetOf(tag ...Tag) error { return r.push(levelSetOf, TagSet, tag) }

/*
PopSetOf closes the innermost open level, which must have been
opened by [Writer.PushSetOf].
*/
func (r *Writer) PopSetOf() error { return r.pop(levelSetOf) }

/*
PushOctetString opens a manually segmented string level for callers
performing their own chunking. Prohibited under DER, which admits
no constructed string forms. Under CER the level closes into the
indefinite chunked form and every child is validated as a segment;
under BER the level closes into the definite constructed form.
*/
func (r *Writer) PushOctetString(tag ...Tag) error {
	if r.rule == DER {
		if err := r.check(); err != nil {
			return err
		}
		return usageErrorf("constructed string form prohibited under ", r.rule)
	}
	return r.push(levelOctetString, TagOctetString, tag)
}

/*
PopOctetString closes the innermost open level, which must have
been opened by [Writer.PushOctetString].
*/
func (r *Writer) PopOctetString() error { return r.pop(levelOctetString) }

/*
WriteEncodedValue injects pre-encoded bytes as one complete child
element. The bytes are validated against the receiver's rule before
admission; structural violations and rule violations alike reject
the injection wholesale.
*/
func (r *Writer) WriteEncodedValue(b []byte) (err error) {
	if err = r.check(); err != nil {
		return
	}
	debugEnter(newLItem(len(b), "inject len"))
	if err = validateEncoded(b, r.rule); err != nil {
		debugExit(newLItem(err))
		return
	}

	r.ensure(len(b))
	start := len(r.buf)
	r.buf = append(r.buf, b...)
	r.markElem(start)
	debugExit()
	return
}

/*
EncodedLength returns the count of octets [Writer.Encode] would
emit. An open level renders the length unterminated, yielding a
usage error naming the offending tag.
*/
func (r *Writer) EncodedLength() (n int, err error) {
	if err = r.check(); err != nil {
		return
	}
	if sn := len(r.stack); sn > 0 {
		err = usageErrorf("unterminated level: ", r.stack[sn-1].tag)
		return
	}
	n = len(r.buf)
	return
}

/*
Encode returns a copy of the accumulated encoding. Open levels
yield a usage error.
*/
func (r *Writer) Encode() (out []byte, err error) {
	var n int
	if n, err = r.EncodedLength(); err != nil {
		return
	}
	out = make([]byte, n)
	copy(out, r.buf)
	debugIO(newLItem(n, "encoded len"))
	return
}

/*
TryEncode writes the accumulated encoding into dst and returns the
octet count alongside a success-indicative Boolean value. When dst
is too small, or a level remains open, or the receiver was freed,
the Boolean is false and the count reports the required size, zero
(0) when unterminated.
*/
func (r *Writer) TryEncode(dst []byte) (int, bool) {
	if r.freed || len(r.stack) > 0 {
		return 0, false
	}
	if len(dst) < len(r.buf) {
		return len(r.buf), false
	}
	return copy(dst, r.buf), true
}

/*
ValueEquals returns a Boolean value indicative of the accumulated
encoding matching b octet for octet. Open levels and freed writers
never match.
*/
func (r *Writer) ValueEquals(b []byte) bool {
	return !r.freed && len(r.stack) == 0 && beq(r.buf, b)
}

/*
Hex returns the hexadecimal string representation of the bytes
accumulated so far.
*/
func (r *Writer) Hex() string { return formatHex(r.buf) }

/*
Reset discards accumulated content and open levels while retaining
allocated scratch space for reuse. Reset of a freed writer is a
no-op.
*/
func (r *Writer) Reset() {
	if r.freed {
		return
	}
	r.buf = r.buf[:0]
	r.stack = r.stack[:0]
	debugTrace(newLItem(r.id, "reset"))
}

/*
Free releases the scratch buffer back to the originating pool. The
release happens at most once; repeated calls are no-ops. All other
operations on a freed writer fail with a usage error.
*/
func (r *Writer) Free() {
	if r.freed || r.bp == nil {
		return
	}
	debugTrace(newLItem(r.id, "free"), newLItem(cap(r.buf), "release cap"))
	*r.bp = r.buf[:0]
	r.pool.Put(r.bp)
	r.buf, r.bp, r.stack = nil, nil, nil
	r.freed = true
}
