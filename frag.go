package bertlv

/*
frag.go surfaces the constructed (fragmented) string forms BER and
CER permit: a parsed handle over the segments, plus reassembly into
caller-provided storage.
*/

/*
Fragments describes a string value which arrived in the constructed
form: a series of primitive segments, possibly nested under BER,
rather than one primitive run of octets. String reads surface such
input as a *Fragments rather than flattening it eagerly; reassembly
is an explicit, separately priced step via [Fragments.CopyTo].

A Fragments instance aliases the originating reader's backing bytes
and shares their lifetime.
*/
type Fragments struct {
	rule EncodingRule
	kind int
	data []byte
}

/*
Kind returns the constructed [Tag] describing the universal type of
the fragmented value.
*/
func (r *Fragments) Kind() Tag {
	return Tag{Class: ClassUniversal, Number: r.kind, Constructed: true}
}

/*
segTagNumber returns the universal number segments must bear: BIT
STRING fragments segment as BIT STRING, while octet and character
string fragments segment as OCTET STRING per § 8.23.6 of ITU-T
rec. X.690.
*/
func (r *Fragments) segTagNumber() (n int) {
	n = TagOctetString
	if r.kind == TagBitString {
		n = TagBitString
	}
	return
}

/*
segments walks the constructed content and returns the primitive
segment payload views in order. BER may nest constructed segments;
CER may not.
*/
func (r *Fragments) segments() (segs [][]byte, err error) {
	type frame struct {
		data []byte
		off  int
	}

	want := r.segTagNumber()
	stack := []frame{{data: r.data}}

	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		if f.off >= len(f.data) {
			stack = stack[:len(stack)-1]
			continue
		}

		tlv, _, fullLen, perr := parseTLV(f.data, f.off, r.rule)
		if perr != nil {
			return nil, perr
		}
		f.off += fullLen

		if tlv.Tag.Class != ClassUniversal || tlv.Tag.Number != want {
			return nil, decodeErrorf("fragmented ", typeLabel(r.kind),
				" segment bears foreign tag ", tlv.Tag)
		}
		if tlv.Tag.Constructed {
			if r.rule == CER {
				return nil, decodeErrorf("CER segments must use the primitive form")
			}
			if len(stack) > maxNestingDepth {
				return nil, errorNestingTooDeep
			}
			stack = append(stack, frame{data: tlv.Value})
			continue
		}
		segs = append(segs, tlv.Value)
	}

	return
}

/*
walk validates segment shape under the rule and invokes fn with the
payload portion of each segment in order. For BIT STRING fragments
the per-segment unused bit octet is peeled, with zero (0) demanded
of every non-final segment; the final segment's count is returned.
*/
func (r *Fragments) walk(fn func([]byte)) (unused int, err error) {
	var segs [][]byte
	if segs, err = r.segments(); err != nil {
		return
	}

	bits := r.kind == TagBitString
	for i := 0; i < len(segs); i++ {
		seg := segs[i]
		final := i == len(segs)-1

		if r.rule == CER {
			if !final && len(seg) != maxSegmentOctets {
				err = errorBadSegment
				return
			}
			if len(seg) > maxSegmentOctets {
				err = errorOverlongSegment
				return
			}
		}

		if !bits {
			if fn != nil {
				fn(seg)
			}
			continue
		}

		if len(seg) == 0 {
			err = decodeErrorf("BIT STRING segment lacks the unused bit octet")
			return
		}
		u := int(seg[0])
		if u > 7 {
			err = decodeErrorf("unused bit count must not exceed 7, got ", u)
			return
		}
		if !final && u != 0 {
			err = decodeErrorf("only the final BIT STRING segment may carry unused bits")
			return
		}

		payload := seg[1:]
		if final {
			if u > 0 {
				if len(payload) == 0 {
					err = decodeErrorf("empty BIT STRING segment cannot carry unused bits")
					return
				}
				mask := byte(1)<<uint(u) - 1
				if r.rule.canonical() && payload[len(payload)-1]&mask != 0 {
					err = decodeErrorf("padding bits must be zero under ", r.rule)
					return
				}
			}
			unused = u
		}
		if fn != nil {
			fn(payload)
		}
	}

	return
}

/*
Len returns the reassembled payload size in octets, validating the
segments along the way. For BIT STRING fragments the count excludes
the per-segment unused bit octets.
*/
func (r *Fragments) Len() (n int, err error) {
	_, err = r.walk(func(b []byte) { n += len(b) })
	return
}

/*
Unused returns the unused bit count carried by the final segment of
a fragmented BIT STRING. Fragments of any other kind yield a usage
error.
*/
func (r *Fragments) Unused() (unused int, err error) {
	if r.kind != TagBitString {
		err = usageErrorf("unused bit count applies to BIT STRING fragments only")
		return
	}
	unused, err = r.walk(nil)
	return
}

/*
CopyTo reassembles the fragmented payload into dst and returns the
octet count alongside a success-indicative Boolean value. When dst
is too small the Boolean is false and the count reports the size
required, with a nil error distinguishing exhausted capacity from
malformed input.
*/
func (r *Fragments) CopyTo(dst []byte) (n int, ok bool, err error) {
	var need int
	if need, err = r.Len(); err != nil {
		return
	}
	if len(dst) < need {
		n = need
		return
	}

	_, _ = r.walk(func(b []byte) { n += copy(dst[n:], b) })
	ok = true
	debugIO(newLItem(n, "fragments reassembled"))
	return
}
