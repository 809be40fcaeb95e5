package bertlv

/*
bits.go contains the writer and reader operations pertaining to the
ASN.1 BIT STRING type, including the named bit convenience forms.
*/

import (
	"math/bits"
	"unsafe"

	"golang.org/x/exp/constraints"
)

/*
BitString is the decoded form of an ASN.1 BIT STRING: the packed
payload octets and the exact length of the value in bits.
*/
type BitString struct {
	Bytes     []byte
	BitLength int
}

/*
At returns the value of bit i within the receiver, zero (0) or one
(1). Out of range indices yield zero. Bit zero resides in the most
significant position of the first octet per § 8.6.2 of ITU-T rec.
X.690.
*/
func (r BitString) At(i int) int {
	if i < 0 || i >= r.BitLength {
		return 0
	}
	x := i / 8
	y := 7 - uint(i%8)

	return int(r.Bytes[x]>>y) & 1
}

/*
WriteBitString appends a BIT STRING element carrying payload with
the given count of unused trailing bits, zero (0) through seven (7),
in the final octet. The padding bits must already be zero. CER
segments payloads running past 999 octets.
*/
func (r *Writer) WriteBitString(payload []byte, unusedBits int, tag ...Tag) (err error) {
	if err = r.check(); err != nil {
		return
	}
	if unusedBits < 0 || unusedBits > 7 {
		err = usageErrorf("unused bit count must be 0 through 7, got ", unusedBits)
		return
	}
	if len(payload) == 0 && unusedBits != 0 {
		err = usageErrorf("empty BIT STRING cannot carry unused bits")
		return
	}
	if unusedBits > 0 {
		mask := byte(1)<<uint(unusedBits) - 1
		if payload[len(payload)-1]&mask != 0 {
			err = usageErrorf("BIT STRING padding bits must be zero")
			return
		}
	}

	var t Tag
	if t, err = r.effectiveTag(TagBitString, false, tag); err != nil {
		return
	}

	if r.rule == CER && len(payload) > maxSegmentBitOctets {
		r.writeSegmented(t, TagBitString, byte(unusedBits), payload)
		return
	}

	scratch := getBuf()
	content := append((*scratch)[:0], byte(unusedBits))
	content = append(content, payload...)
	r.appendPrimitive(t, content)
	*scratch = content
	putBuf(scratch)

	return
}

/*
ReadBitString decodes the BIT STRING element at the cursor and
advances past it. Constructed input under BER and CER returns a
*[Fragments] for explicit reassembly, leaving the BitString return
zero.
*/
func (r *Reader) ReadBitString(tag ...Tag) (bs BitString, frag *Fragments, err error) {
	var tlv TLV
	var fullLen int
	if tlv, fullLen, frag, err = r.expectString(TagBitString, tag); err != nil {
		return
	}
	if frag != nil {
		r.advance(fullLen)
		return
	}
	if err = checkBitStringContent(tlv.Value, r.rule); err != nil {
		return
	}

	content := tlv.Value
	bs = BitString{
		Bytes:     content[1:],
		BitLength: (len(content)-1)*8 - int(content[0]),
	}
	r.advance(fullLen)
	debugPrim(newLItem(bs.BitLength, "BIT STRING bits"))

	return
}

/*
WriteNamedBits appends a BIT STRING element carrying a named bit
set, mapping bit zero (0) from the least significant bit of the
flag word. Trailing zero bits are omitted per § 11.2.2 of ITU-T
rec. X.690, so the zero flag word encodes as an empty BIT STRING.
*/
func WriteNamedBits[F constraints.Unsigned](w *Writer, flags F, tag ...Tag) (err error) {
	if err = w.check(); err != nil {
		return
	}

	var t Tag
	if t, err = w.effectiveTag(TagBitString, false, tag); err != nil {
		return
	}

	u := uint64(flags)
	n := bits.Len64(u)
	nbytes := (n + 7) / 8

	var scratch [9]byte
	scratch[0] = byte(nbytes*8 - n)
	for i := 0; i < n; i++ {
		if u>>uint(i)&1 != 0 {
			scratch[1+i/8] |= 1 << uint(7-i%8)
		}
	}
	w.appendPrimitive(t, scratch[:1+nbytes])

	return
}

/*
ReadNamedBits decodes the BIT STRING element at the cursor into a
flag word, mapping wire bit zero (0) onto the least significant
bit. Set bits beyond the destination width are rejected; excess
zero bits are tolerated. Constructed input is rejected here; use
[Reader.ReadBitString] to reassemble it first.
*/
func ReadNamedBits[F constraints.Unsigned](r *Reader, tag ...Tag) (flags F, err error) {
	var tlv TLV
	var fullLen int
	if tlv, fullLen, err = r.expectPrimitive(TagBitString, tag); err != nil {
		return
	}
	if err = checkBitStringContent(tlv.Value, r.rule); err != nil {
		return
	}

	content := tlv.Value
	payload := content[1:]
	bitLen := len(payload)*8 - int(content[0])
	width := int(unsafe.Sizeof(flags)) * 8

	var u uint64
	for i := 0; i < bitLen; i++ {
		if payload[i/8]>>uint(7-i%8)&1 == 0 {
			continue
		}
		if i >= width {
			err = decodeErrorf("named bit ", i, " exceeds ", width,
				"-bit destination")
			return
		}
		u |= 1 << uint(i)
	}

	flags = F(u)
	r.advance(fullLen)

	return
}

/*
checkBitStringContent enforces § 8.6.2 of ITU-T rec. X.690 on the
primitive content octets: the leading unused bit count octet must
be present and must not exceed seven (7), an empty value carries
no unused bits, and under the canonical rules the padding bits of
the final octet must be zero.
*/
func checkBitStringContent(b []byte, rule EncodingRule) (err error) {
	if len(b) == 0 {
		err = decodeErrorf("BIT STRING content requires the unused bit octet")
		return
	}

	u := int(b[0])
	if u > 7 {
		err = decodeErrorf("BIT STRING unused bit count must not exceed 7, got ", u)
		return
	}
	if len(b) == 1 && u != 0 {
		err = decodeErrorf("empty BIT STRING cannot carry unused bits")
		return
	}
	if u > 0 && rule.canonical() {
		mask := byte(1)<<uint(u) - 1
		if b[len(b)-1]&mask != 0 {
			err = decodeErrorf("BIT STRING padding bits must be zero under ", rule)
		}
	}

	return
}
