package bertlv

/*
text.go contains the writer and reader operations pertaining to the
ASN.1 character string types and the OCTET STRING type.
*/

// Permitted PrintableString characters per § 41.4 of
// ITU-T rec. X.680, one bit per ASCII code point.
var printableBitmap [2]uint64

func init() {
	set := func(lo, hi byte) {
		for ch := lo; ch <= hi; ch++ {
			printableBitmap[ch>>6] |= 1 << (ch & 63)
		}
	}
	set(0x20, 0x20)
	set(0x27, 0x29)
	set(0x2B, 0x2F)
	set(0x30, 0x39)
	set(0x3A, 0x3A)
	set(0x3F, 0x3F)
	set(0x41, 0x5A)
	set(0x61, 0x7A)
}

/*
WriteText appends a character string element of the given kind to
the receiver's current level, validating s against the kind's
character repertoire first. Supported kinds are [UTF8StringTag],
[NumericStringTag], [PrintableStringTag], [T61StringTag],
[IA5StringTag], [VisibleStringTag] and [BMPStringTag]. CER segments
content running past 1000 octets.

The variadic tag value overrides the kind's universal tag on the
wire; the repertoire check still follows kind.
*/
func (r *Writer) WriteText(kind Tag, s string, tag ...Tag) (err error) {
	if err = r.check(); err != nil {
		return
	}

	var uni int
	if uni, err = textUniversal(kind); err != nil {
		return
	}

	var t Tag
	if t, err = r.effectiveTag(uni, false, tag); err != nil {
		return
	}

	scratch := getBuf()
	var content []byte
	if content, err = appendTextContent((*scratch)[:0], uni, s); err != nil {
		putBuf(scratch)
		return
	}

	if r.rule == CER && len(content) > maxSegmentOctets {
		r.writeSegmented(t, uni, zeroByte, content)
	} else {
		r.appendPrimitive(t, content)
	}
	*scratch = content
	putBuf(scratch)
	debugPrim(newLItem(len(content), typeLabel(uni)+" octets"))

	return
}

/*
ReadText decodes the character string element of the given kind at
the cursor and advances past it. Constructed input under BER and
CER returns a *[Fragments] carrying the raw segments for explicit
reassembly; the string return is then empty, and repertoire
validation of the reassembled whole falls to the caller, as a
multi-octet character may straddle a segment boundary.
*/
func (r *Reader) ReadText(kind Tag, tag ...Tag) (s string, frag *Fragments, err error) {
	var uni int
	if uni, err = textUniversal(kind); err != nil {
		return
	}

	var tlv TLV
	var fullLen int
	if tlv, fullLen, frag, err = r.expectString(uni, tag); err != nil {
		return
	}
	if frag != nil {
		r.advance(fullLen)
		return
	}

	if s, err = decodeTextContent(uni, tlv.Value); err != nil {
		return
	}
	r.advance(fullLen)
	debugPrim(newLItem(len(s), typeLabel(uni)+" octets"))

	return
}

/*
WriteOctetString appends an OCTET STRING element carrying v to the
receiver's current level. CER segments content running past 1000
octets.
*/
func (r *Writer) WriteOctetString(v []byte, tag ...Tag) (err error) {
	if err = r.check(); err != nil {
		return
	}

	var t Tag
	if t, err = r.effectiveTag(TagOctetString, false, tag); err != nil {
		return
	}

	if r.rule == CER && len(v) > maxSegmentOctets {
		r.writeSegmented(t, TagOctetString, zeroByte, v)
		return
	}
	r.appendPrimitive(t, v)

	return
}

/*
ReadOctetString decodes the OCTET STRING element at the cursor and
advances past it. The returned slice is a view into the reader's
data, valid for the reader's lifetime. Constructed input under BER
and CER returns a *[Fragments] instead, leaving the slice nil.
*/
func (r *Reader) ReadOctetString(tag ...Tag) (v []byte, frag *Fragments, err error) {
	var tlv TLV
	var fullLen int
	if tlv, fullLen, frag, err = r.expectString(TagOctetString, tag); err != nil {
		return
	}
	if frag == nil {
		v = tlv.Value
	}
	r.advance(fullLen)
	debugIO(newLItem(fullLen, "OCTET STRING read"))

	return
}

/*
textUniversal verifies kind denotes a supported character string
type and returns its universal tag number.
*/
func textUniversal(kind Tag) (int, error) {
	if kind.Class != ClassUniversal {
		return 0, usageErrorf("string kind must be a universal tag, got class ",
			kind.Class)
	}

	switch kind.Number {
	case TagUTF8String, TagNumericString, TagPrintableString,
		TagT61String, TagIA5String, TagVisibleString, TagBMPString:
		return kind.Number, nil
	}

	return 0, usageErrorf("unsupported string kind: ", kind)
}

/*
textByteOK reports whether ch belongs to the repertoire of the
single octet string kinds.
*/
func textByteOK(kind int, ch byte) bool {
	switch kind {
	case TagNumericString:
		return ch == 0x20 || ('0' <= ch && ch <= '9')
	case TagPrintableString:
		return ch < 0x80 && printableBitmap[ch>>6]>>(ch&63)&1 != 0
	case TagIA5String:
		return ch <= 0x7F
	}

	// VisibleString
	return 0x20 <= ch && ch <= 0x7E
}

func appendTextContent(dst []byte, kind int, s string) ([]byte, error) {
	switch kind {
	case TagUTF8String:
		if !utf8OK(s) {
			return nil, usageErrorf("UTF8String input is not valid UTF-8")
		}
		dst = append(dst, s...)
	case TagBMPString:
		for _, u := range utf16Enc([]rune(s)) {
			if 0xD800 <= u && u < 0xE000 {
				return nil, usageErrorf("BMPString input exceeds the basic multilingual plane")
			}
			dst = append(dst, byte(u>>8), byte(u))
		}
	case TagT61String:
		for _, ch := range s {
			if ch > 0xFF {
				return nil, usageErrorf("T61String input exceeds the 8-bit range: ",
					string(ch))
			}
			dst = append(dst, byte(ch))
		}
	default:
		for i := 0; i < len(s); i++ {
			if !textByteOK(kind, s[i]) {
				return nil, usageErrorf(typeLabel(kind),
					" input contains an invalid character at index ", i)
			}
		}
		dst = append(dst, s...)
	}

	return dst, nil
}

func decodeTextContent(kind int, b []byte) (string, error) {
	switch kind {
	case TagUTF8String:
		if !utf8OKB(b) {
			return ``, decodeErrorf("UTF8String content is not valid UTF-8")
		}
		return string(b), nil
	case TagBMPString:
		if len(b)%2 != 0 {
			return ``, decodeErrorf("BMPString content length must be even, got ",
				len(b))
		}
		runes := make([]rune, 0, len(b)/2)
		for i := 0; i < len(b); i += 2 {
			u := rune(b[i])<<8 | rune(b[i+1])
			if 0xD800 <= u && u < 0xE000 {
				return ``, decodeErrorf("BMPString content carries a surrogate code unit")
			}
			runes = append(runes, u)
		}
		return string(runes), nil
	case TagT61String:
		// Valid UTF-8 passes through; anything else is taken
		// as Latin-1, the common PKI treatment of Teletex.
		if utf8OKB(b) {
			return string(b), nil
		}
		runes := make([]rune, len(b))
		for i, ch := range b {
			runes[i] = rune(ch)
		}
		return string(runes), nil
	}

	for i := 0; i < len(b); i++ {
		if !textByteOK(kind, b[i]) {
			return ``, decodeErrorf(typeLabel(kind),
				" content contains an invalid octet at index ", i)
		}
	}

	return string(b), nil
}
