package bertlv

/*
reader.go implements the streaming decoder: a cursor over a byte
view, scope-limited sub-readers for constructed types, and the
pooled owned-buffer variant.
*/

/*
Reader is the streaming decoder. It walks a borrowed byte view one
element at a time; constructed types open scope-limited sub-readers
over their content. The borrowed view must outlive the Reader and
every value view or sub-reader it produced.

Reader instances are not safe for concurrent use.
*/
type Reader struct {
	rule  EncodingRule
	data  []byte
	off   int
	freed bool
}

/*
NewReader returns a *[Reader] walking data under the given rule.
The bytes are borrowed, not copied; the caller keeps ownership and
must keep them immutable for the life of the reader.
*/
func NewReader(rule EncodingRule, data []byte) *Reader {
	return &Reader{rule: rule, data: data}
}

/*
BufferReader is a [Reader] owning a pooled private copy of its
input, decoupling decoding from the lifetime of the source bytes.
Instances are obtained through [NewBufferReader] or the rule-keyed
[EncodingRule.NewReader] constructors, and must be released through
[BufferReader.Free] once decoding concludes.
*/
type BufferReader struct {
	Reader
	bp *[]byte
	id string
}

/*
NewBufferReader returns a pooled *[BufferReader] holding a private
copy of src, positioned at offset zero (0) and bound to the given
rule.
*/
func NewBufferReader(rule EncodingRule, src ...byte) *BufferReader {
	bp := getBuf()
	buf := *bp
	if cap(buf) < len(src) {
		buf = make([]byte, 0, roundup(len(src)))
	}
	buf = append(buf[:0], src...)
	*bp = buf

	r := &BufferReader{
		Reader: Reader{rule: rule, data: buf},
		bp:     bp,
		id:     makeBufferID(),
	}
	debugTrace(newLItem(r.id, rule, "new BufferReader"), newLItem(len(src), "len"))
	return r
}

/*
ID returns the debug identifier assigned to the receiver instance,
or a zero string outside of debug builds.
*/
func (r *BufferReader) ID() string { return r.id }

/*
Free releases the private buffer back to the pool. The release
happens at most once; repeated calls are no-ops. All subsequent
operations on the receiver fail with a usage error.
*/
func (r *BufferReader) Free() {
	if r.bp == nil {
		return
	}
	debugTrace(newLItem(r.id, "free"), newLItem(cap(r.data), "release cap"))
	putBuf(r.bp)
	r.bp = nil
	r.data = nil
	r.off = 0
	r.freed = true
}

/*
Rule returns the [EncodingRule] the receiver decodes under.
*/
func (r *Reader) Rule() EncodingRule { return r.rule }

/*
Offset returns the cursor position relative to the start of the
receiver's scope.
*/
func (r *Reader) Offset() int { return r.off }

/*
HasData returns a Boolean value indicative of unread octets
remaining within the receiver's scope.
*/
func (r *Reader) HasData() bool { return !r.freed && r.off < len(r.data) }

/*
Done confirms the receiver's scope was fully consumed, returning a
decode error naming the residue otherwise. Callers should invoke
this upon finishing any sub-reader obtained from [Reader.ReadSequence]
or [Reader.ReadSetOf].
*/
func (r *Reader) Done() (err error) {
	if r.freed {
		return errorFreedReader
	}
	if rem := len(r.data) - r.off; rem > 0 {
		err = decodeErrorf("scope not exhausted: ", rem, " octet(s) remain at offset ", r.off)
	}
	return
}

func (r *Reader) peek() (tlv TLV, fullLen int, err error) {
	if r.freed {
		err = errorFreedReader
		return
	}
	tlv, _, fullLen, err = parseTLV(r.data, r.off, r.rule)
	return
}

func (r *Reader) advance(n int) { r.off += n }

/*
PeekTag decodes and returns the [Tag] at the cursor without
advancing. Only the identifier octets need be intact.
*/
func (r *Reader) PeekTag() (t Tag, err error) {
	if r.freed {
		err = errorFreedReader
		return
	}
	if r.off >= len(r.data) {
		err = errorNoDataAtOffset
		return
	}
	t, _, err = ParseTag(r.data[r.off:])
	return
}

/*
PeekTLV decodes and returns the complete [TLV] at the cursor
without advancing.
*/
func (r *Reader) PeekTLV() (tlv TLV, err error) {
	tlv, _, err = r.peek()
	return
}

/*
PeekEncodedValue returns a view spanning the complete element at
the cursor, identifier octets through content and any terminating
end-of-contents octets, without advancing.
*/
func (r *Reader) PeekEncodedValue() (b []byte, err error) {
	var fullLen int
	if _, fullLen, err = r.peek(); err == nil {
		b = r.data[r.off : r.off+fullLen]
	}
	return
}

/*
PeekContentBytes returns a view spanning only the content octets of
the element at the cursor, without advancing.
*/
func (r *Reader) PeekContentBytes() (b []byte, err error) {
	var tlv TLV
	if tlv, _, err = r.peek(); err == nil {
		b = tlv.Value
	}
	return
}

/*
ReadEncodedValue returns a view spanning the complete element at
the cursor and advances past it. The view aliases the reader's
backing bytes and suits re-injection through
[Writer.WriteEncodedValue].
*/
func (r *Reader) ReadEncodedValue() (b []byte, err error) {
	var fullLen int
	if _, fullLen, err = r.peek(); err == nil {
		b = r.data[r.off : r.off+fullLen]
		r.advance(fullLen)
		debugIO(newLItem(len(b), "read encoded value"))
	}
	return
}

/*
expectPrimitive matches the element at the cursor against the
operation's universal number, or the caller's substitute tag, and
demands the primitive form. The cursor does not advance; the
successful caller advances by fullLen.
*/
func (r *Reader) expectPrimitive(uni int, tag []Tag) (tlv TLV, fullLen int, err error) {
	var want Tag
	if want, err = resolveTag(uni, tag); err != nil {
		return
	}
	if tlv, fullLen, err = r.peek(); err != nil {
		return
	}
	if !tlv.Tag.EqualClassNumber(want) {
		err = decodeErrorf("unexpected tag: want ", want, ", got ", tlv.Tag)
		return
	}
	if tlv.Tag.Constructed {
		err = decodeErrorf(typeLabel(uni), " must use the primitive form")
		return
	}
	return
}

/*
expectString matches like expectPrimitive but admits the
constructed string forms BER and CER permit, surfacing those as a
*[Fragments] for the caller to hand out. Exactly one of frag and a
usable tlv results on success.
*/
func (r *Reader) expectString(uni int, tag []Tag) (tlv TLV, fullLen int, frag *Fragments, err error) {
	var want Tag
	if want, err = resolveTag(uni, tag); err != nil {
		return
	}
	if tlv, fullLen, err = r.peek(); err != nil {
		return
	}
	if !tlv.Tag.EqualClassNumber(want) {
		err = decodeErrorf("unexpected tag: want ", want, ", got ", tlv.Tag)
		return
	}

	if !tlv.Tag.Constructed {
		if r.rule == CER && len(tlv.Value) > maxSegmentOctets {
			err = decodeErrorf("primitive string exceeding 1000 octets must be segmented under CER: ", tlv.Tag)
		}
		return
	}

	if r.rule == DER {
		err = decodeErrorf("constructed string form prohibited under DER: ", tlv.Tag)
		return
	}
	if r.rule == CER && tlv.Length != indefiniteLength {
		err = decodeErrorf("CER chunked string must use the indefinite form: ", tlv.Tag)
		return
	}

	frag = &Fragments{rule: r.rule, kind: uni, data: tlv.Value}
	return
}

/*
ReadSequence opens the SEQUENCE at the cursor and returns a
sub-reader scoped to its content octets. The parent cursor advances
past the entire element immediately; the sub-reader then walks the
children independently. The variadic tag value overrides the
universal SEQUENCE tag for implicitly tagged input.
*/
func (r *Reader) ReadSequence(tag ...Tag) (sub *Reader, err error) {
	var want Tag
	if want, err = resolveTag(TagSequence, tag); err != nil {
		return
	}

	var tlv TLV
	var fullLen int
	if tlv, fullLen, err = r.peek(); err != nil {
		return
	}
	if !tlv.Tag.EqualClassNumber(want) {
		err = decodeErrorf("unexpected tag: want ", want, ", got ", tlv.Tag)
		return
	}
	if !tlv.Tag.Constructed {
		err = decodeErrorf("SEQUENCE must use the constructed form")
		return
	}

	debugComp(newLItem(tlv.Tag, "descend"), newLItem(len(tlv.Value), "content len"))
	sub = &Reader{rule: r.rule, data: tlv.Value}
	r.advance(fullLen)
	return
}

/*
ReadSetOf opens the SET OF at the cursor and returns a sub-reader
scoped to its content octets. Under CER and DER the elements must
appear in ascending byte order of their complete encodings unless
skipOrderCheck is true; BER input is never order checked.
*/
func (r *Reader) ReadSetOf(skipOrderCheck bool, tag ...Tag) (sub *Reader, err error) {
	var want Tag
	if want, err = resolveTag(TagSet, tag); err != nil {
		return
	}

	var tlv TLV
	var fullLen int
	if tlv, fullLen, err = r.peek(); err != nil {
		return
	}
	if !tlv.Tag.EqualClassNumber(want) {
		err = decodeErrorf("unexpected tag: want ", want, ", got ", tlv.Tag)
		return
	}
	if !tlv.Tag.Constructed {
		err = decodeErrorf("SET OF must use the constructed form")
		return
	}
	if r.rule.canonicalOrdering() && !skipOrderCheck {
		if err = checkSetOrder(tlv.Value, r.rule); err != nil {
			return
		}
	}

	debugComp(newLItem(tlv.Tag, "descend"), newLItem(len(tlv.Value), "content len"))
	sub = &Reader{rule: r.rule, data: tlv.Value}
	r.advance(fullLen)
	return
}

func typeLabel(uni int) (name string) {
	var found bool
	if name, found = TagNames[uni]; !found {
		name = "UNIVERSAL " + itoa(uni)
	}
	return
}
