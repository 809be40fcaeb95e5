package bertlv

/*
null.go contains the writer and reader operations pertaining to the
ASN.1 NULL type.
*/

/*
WriteNull appends a NULL element to the receiver's current level.
NULL carries no content octets under any rule.
*/
func (r *Writer) WriteNull(tag ...Tag) (err error) {
	if err = r.check(); err != nil {
		return
	}

	var t Tag
	if t, err = r.effectiveTag(TagNull, false, tag); err != nil {
		return
	}

	r.appendPrimitive(t, nil)

	return
}

/*
ReadNull decodes the NULL element at the cursor and advances past
it, failing if any content octets are present.
*/
func (r *Reader) ReadNull(tag ...Tag) (err error) {
	var tlv TLV
	var fullLen int
	if tlv, fullLen, err = r.expectPrimitive(TagNull, tag); err != nil {
		return
	}

	if len(tlv.Value) != 0 {
		err = decodeErrorf("NULL content length must be zero, got ",
			len(tlv.Value))
		return
	}

	r.advance(fullLen)

	return
}
