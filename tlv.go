package bertlv

/*
tlv.go contains the Type-Length-Value abstraction along with the
element parser and the structural validators shared by reader and
writer alike.
*/

func tlvString(tlv TLV) (str string) {
	var value []string
	data := tlv.Value
	for i := 0; i < len(data); i++ {
		value = append(value, itoa(int(data[i])))
	}

	str = "{Class:" + itoa(tlv.Tag.Class) +
		", Tag:" + itoa(tlv.Tag.Number) +
		", Compound:" + bool2str(tlv.Tag.Constructed) +
		", Length:" + itoa(tlv.Length) +
		", Value:[" + join(value, ` `) + "]}"

	return
}

func tlvEqual(a, b TLV, length ...bool) (match bool) {
	var lenOK bool = true // assume true by default

	if len(length) > 0 && length[0] {
		lenOK = a.Length == b.Length
	}

	match = a.Tag == b.Tag && lenOK

	return
}

/*
TLV stores discrete Type-Length-Value components. Instances of this
type are produced through any [Reader] instance's "PeekTLV()" style
methods and describe a single element in place.

A Length of negative one (-1) indicates the indefinite form; Value
then spans the content up to, and excluding, the end-of-contents
octets.
*/
type TLV struct {
	Tag    Tag
	Length int
	Value  []byte
}

func (r TLV) String() string { return tlvString(r) }

/*
Eq returns a Boolean value indicative of a match between the receiver and
input [TLV] instances. The respective lengths of the [TLV] instances will
only be evaluated if the variadic input "length" value is true.
*/
func (r TLV) Eq(tlv TLV, length ...bool) bool {
	return tlvEqual(r, tlv, length...)
}

/*
cerSegmentedType returns a Boolean value indicative of universal tag
number n naming a string type eligible for segmentation, and hence
the indefinite form, under CER.
*/
func cerSegmentedType(n int) (is bool) {
	switch n {
	case TagBitString, TagOctetString, TagUTF8String, TagNumericString,
		TagPrintableString, TagT61String, TagVideotexString, TagIA5String,
		TagGraphicString, TagVisibleString, TagGeneralString,
		TagUniversalString, TagBMPString:
		is = true
	}

	return
}

/*
parseTLV decodes the complete element found at b[off:] against the
given rule. hdrLen spans the identifier and length octets; fullLen
spans the entire element including content and, for the indefinite
form, the end-of-contents octets.
*/
func parseTLV(b []byte, off int, rule EncodingRule) (tlv TLV, hdrLen, fullLen int, err error) {
	if !rule.In(BER, CER, DER) {
		err = usageErrorf("invalid encoding rule (", itoa(int(rule)), ")")
		return
	}
	if off < 0 || off >= len(b) {
		err = errorNoDataAtOffset
		return
	}

	var (
		t             Tag
		idLen, lenLen int
		length        int
	)

	if t, idLen, err = ParseTag(b[off:]); err != nil {
		return
	}
	if length, lenLen, err = parseLength(b[off+idLen:]); err != nil {
		return
	}
	if rule.canonical() {
		if err = verifyLengthMinimal(b[off+idLen:], length, lenLen); err != nil {
			return
		}
	}

	hdrLen = idLen + lenLen
	start := off + hdrLen

	if length == indefiniteLength {
		if !rule.allowsIndefinite() {
			err = errorIndefiniteProhibited
			return
		}
		if !t.Constructed {
			err = errorIndefinitePrimitive
			return
		}
		if rule == CER && t.Class == ClassUniversal && !cerSegmentedType(t.Number) {
			err = errorIndefiniteProhibited
			return
		}

		var rel int
		if rel, err = findEOC(b[start:]); err != nil {
			return
		}
		tlv = TLV{Tag: t, Length: indefiniteLength, Value: b[start : start+rel]}
		fullLen = hdrLen + rel + 2
		return
	}

	if length > len(b)-start {
		err = errorTruncatedContent
		return
	}
	tlv = TLV{Tag: t, Length: length, Value: b[start : start+length]}
	fullLen = hdrLen + length
	return
}

/*
validateEncoded walks one complete encoded value and confirms it is
structurally sound under the given rule: one element, no trailing
octets, children aligned, nesting bounded, and universal primitive
content conformant where the type is knowable.
*/
func validateEncoded(b []byte, rule EncodingRule) (err error) {
	tlv, _, fullLen, err := parseTLV(b, 0, rule)
	if err != nil {
		return
	}
	if fullLen != len(b) {
		return errorTrailingBytes
	}

	type node struct {
		tlv   TLV
		depth int
	}
	stack := []node{{tlv: tlv}}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !cur.tlv.Tag.Constructed {
			if err = checkPrimitiveValue(cur.tlv, rule); err != nil {
				return
			}
			continue
		}

		if cur.depth >= maxNestingDepth {
			return errorNestingTooDeep
		}

		t := cur.tlv.Tag
		if t.Class == ClassUniversal && cerSegmentedType(t.Number) {
			if rule == DER {
				return decodeErrorf("constructed string form prohibited under DER: ", t)
			}
			if rule == CER {
				// segment shape is governed by § 9.2; reuse the
				// fragment walker for the authoritative checks
				frags := Fragments{rule: rule, kind: t.Number, data: cur.tlv.Value}
				if _, err = frags.Len(); err != nil {
					return
				}
				continue
			}
		}

		var off int
		for off < len(cur.tlv.Value) {
			child, _, flen, cerr := parseTLV(cur.tlv.Value, off, rule)
			if cerr != nil {
				return cerr
			}
			stack = append(stack, node{tlv: child, depth: cur.depth + 1})
			off += flen
		}
	}

	return
}

/*
checkPrimitiveValue applies the content octet rules for universal
primitive types the walker can identify without a schema. Values of
non-universal classes pass untouched.
*/
func checkPrimitiveValue(tlv TLV, rule EncodingRule) (err error) {
	if tlv.Tag.Class != ClassUniversal {
		return
	}

	if rule == CER && cerSegmentedType(tlv.Tag.Number) && len(tlv.Value) > maxSegmentOctets {
		return decodeErrorf("primitive string exceeding 1000 octets must be segmented under CER: ", tlv.Tag)
	}

	switch tlv.Tag.Number {
	case TagBoolean:
		if len(tlv.Value) != 1 {
			err = decodeErrorf("BOOLEAN content must be a single octet, got ", len(tlv.Value))
		} else if rule.canonical() && tlv.Value[0] != 0x00 && tlv.Value[0] != 0xFF {
			err = decodeErrorf("BOOLEAN truth must be 0xFF under ", rule)
		}
	case TagInteger, TagEnum:
		err = checkIntegerContent(tlv.Value, rule)
	case TagNull:
		if len(tlv.Value) != 0 {
			err = decodeErrorf("NULL: content length must be 0, got ", len(tlv.Value))
		}
	case TagBitString:
		err = checkBitStringContent(tlv.Value, rule)
	case TagOID:
		if len(tlv.Value) == 0 {
			err = decodeErrorf("OBJECT IDENTIFIER: empty content")
		} else if tlv.Value[len(tlv.Value)-1]&0x80 != 0 {
			err = decodeErrorf("OBJECT IDENTIFIER: truncated arc")
		}
	}

	return
}

/*
checkSetOrder walks the elements within a SET OF content region and
confirms ascending byte order of their complete encodings.
*/
func checkSetOrder(content []byte, rule EncodingRule) (err error) {
	var prev []byte
	var off int
	for off < len(content) {
		_, _, fullLen, perr := parseTLV(content, off, rule)
		if perr != nil {
			return perr
		}
		cur := content[off : off+fullLen]
		if prev != nil && bcmp(prev, cur) > 0 {
			return errorSetOrder
		}
		prev = cur
		off += fullLen
	}

	return
}
