package bertlv

/*
enum.go contains the writer and reader operations pertaining to the
ASN.1 ENUMERATED type.
*/

import (
	"unsafe"

	"golang.org/x/exp/constraints"
)

/*
WriteEnumerated appends an ENUMERATED element carrying v to the
current level of w. Content octets follow the INTEGER form per
§ 8.4 of ITU-T rec. X.690, so unsigned enumerations beyond the
int64 range remain expressible.
*/
func WriteEnumerated[E constraints.Integer](w *Writer, v E, tag ...Tag) (err error) {
	if err = w.check(); err != nil {
		return
	}

	var t Tag
	if t, err = w.effectiveTag(TagEnum, false, tag); err != nil {
		return
	}

	var scratch [9]byte
	var content []byte
	if v < 0 {
		content = appendIntContent(scratch[:0], int64(v))
	} else {
		content = appendUintContent(scratch[:0], uint64(v))
	}
	w.appendPrimitive(t, content)

	return
}

/*
ReadEnumerated decodes the ENUMERATED element at the cursor of r
into any native integer type, advancing past it only on success.
Negative wire values never match an unsigned destination.
*/
func ReadEnumerated[E constraints.Integer](r *Reader, tag ...Tag) (v E, err error) {
	var tlv TLV
	var fullLen int
	if tlv, fullLen, err = r.expectPrimitive(TagEnum, tag); err != nil {
		return
	}
	if err = checkIntegerContent(tlv.Value, r.rule); err != nil {
		return
	}

	bits := int(unsafe.Sizeof(v)) * 8
	signed := ^E(0) < 0
	norm := normInt(tlv.Value)

	switch {
	case len(norm) > 9 || (len(norm) == 9 && norm[0] != 0x00):
		err = decodeErrorf("ENUMERATED overflows ", bits, "-bit destination")
		return
	case len(norm) == 9:
		// Positive value beyond the int64 range.
		if signed || bits < 64 {
			err = decodeErrorf("ENUMERATED overflows ", bits, "-bit destination")
			return
		}
		var u uint64
		for i := 1; i < len(norm); i++ {
			u = u<<8 | uint64(norm[i])
		}
		v = E(u)
	default:
		wide := signExtend(norm)
		if signed {
			if !fitsSigned(wide, bits) {
				err = decodeErrorf("ENUMERATED overflows ", bits, "-bit destination")
				return
			}
		} else if wide < 0 || !fitsUnsigned(uint64(wide), bits) {
			err = decodeErrorf("ENUMERATED overflows ", bits, "-bit destination")
			return
		}
		v = E(wide)
	}

	r.advance(fullLen)

	return
}
