package bertlv

/*
bool.go contains the writer and reader operations pertaining to the
ASN.1 BOOLEAN type.
*/

/*
WriteBoolean appends a BOOLEAN element to the receiver's current
level. Truth is encoded as 0xFF and falsity as 0x00 under every
rule.

The variadic tag value overrides the universal BOOLEAN tag, e.g.
for implicit context tagging.
*/
func (r *Writer) WriteBoolean(v bool, tag ...Tag) (err error) {
	if err = r.check(); err != nil {
		return
	}

	var t Tag
	if t, err = r.effectiveTag(TagBoolean, false, tag); err != nil {
		return
	}

	content := zeroByte
	if v {
		content = 0xFF
	}
	r.appendPrimitive(t, []byte{content})
	debugPrim(newLItem(v, "BOOLEAN"))

	return
}

/*
ReadBoolean decodes the BOOLEAN element at the cursor and advances
past it. Any nonzero content octet decodes as truth under BER, while
CER and DER demand exactly 0xFF per § 11.1 of ITU-T rec. X.690.
*/
func (r *Reader) ReadBoolean(tag ...Tag) (v bool, err error) {
	var tlv TLV
	var fullLen int
	if tlv, fullLen, err = r.expectPrimitive(TagBoolean, tag); err != nil {
		return
	}

	if len(tlv.Value) != 1 {
		err = decodeErrorf("BOOLEAN content must be a single octet, got ",
			len(tlv.Value))
		return
	}

	b := tlv.Value[0]
	if r.rule.canonical() && b != 0x00 && b != 0xFF {
		err = decodeErrorf("BOOLEAN truth must be 0xFF under ", r.rule)
		return
	}

	v = b != 0x00
	r.advance(fullLen)
	debugPrim(newLItem(v, "BOOLEAN"))

	return
}
