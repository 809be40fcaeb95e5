package bertlv

/*
int.go contains the writer and reader operations pertaining to the
ASN.1 INTEGER type, in both native and arbitrary precision forms.
*/

import (
	"math/big"
	"unsafe"

	"golang.org/x/exp/constraints"
)

var bigOne = newBigInt(1)

/*
WriteInteger appends an INTEGER element carrying any native signed
value to the current level of w, using minimal two's complement
content octets per § 8.3 of ITU-T rec. X.690.
*/
func WriteInteger[T constraints.Signed](w *Writer, v T, tag ...Tag) (err error) {
	if err = w.check(); err != nil {
		return
	}

	var t Tag
	if t, err = w.effectiveTag(TagInteger, false, tag); err != nil {
		return
	}

	var scratch [8]byte
	content := appendIntContent(scratch[:0], int64(v))
	w.appendPrimitive(t, content)
	debugPrim(newLItem(int(v), "INTEGER"))

	return
}

/*
ReadInteger decodes the INTEGER element at the cursor of r into any
native signed type, advancing past it only on success. A value which
cannot fit the destination leaves the cursor in place, permitting a
retry against a wider type or [Reader.ReadBigInt].
*/
func ReadInteger[T constraints.Signed](r *Reader, tag ...Tag) (v T, err error) {
	var tlv TLV
	var fullLen int
	if tlv, fullLen, err = r.expectPrimitive(TagInteger, tag); err != nil {
		return
	}
	if err = checkIntegerContent(tlv.Value, r.rule); err != nil {
		return
	}

	bits := int(unsafe.Sizeof(v)) * 8
	norm := normInt(tlv.Value)
	if len(norm) > 8 {
		err = decodeErrorf("INTEGER overflows ", bits, "-bit destination")
		return
	}

	wide := signExtend(norm)
	if !fitsSigned(wide, bits) {
		err = decodeErrorf("INTEGER overflows ", bits, "-bit destination")
		return
	}

	v = T(wide)
	r.advance(fullLen)
	debugPrim(newLItem(int(v), "INTEGER"))

	return
}

/*
WriteBigInt appends an INTEGER element carrying v, which may exceed
the native 64-bit range, to the receiver's current level. A nil v is
a usage error.
*/
func (r *Writer) WriteBigInt(v *big.Int, tag ...Tag) (err error) {
	if err = r.check(); err != nil {
		return
	}
	if v == nil {
		err = usageErrorf("nil *big.Int INTEGER value")
		return
	}

	var t Tag
	if t, err = r.effectiveTag(TagInteger, false, tag); err != nil {
		return
	}

	scratch := getBuf()
	content := appendBigIntContent((*scratch)[:0], v)
	r.appendPrimitive(t, content)
	*scratch = content
	putBuf(scratch)
	debugPrim(newLItem(v.String(), "INTEGER"))

	return
}

/*
ReadBigInt decodes the INTEGER element at the cursor into a newly
allocated [big.Int] of any magnitude and advances past it.
*/
func (r *Reader) ReadBigInt(tag ...Tag) (v *big.Int, err error) {
	var tlv TLV
	var fullLen int
	if tlv, fullLen, err = r.expectPrimitive(TagInteger, tag); err != nil {
		return
	}
	if err = checkIntegerContent(tlv.Value, r.rule); err != nil {
		return
	}

	v = bigFromContent(tlv.Value)
	r.advance(fullLen)
	debugPrim(newLItem(v.String(), "INTEGER"))

	return
}

/*
checkIntegerContent enforces § 8.3.2 of ITU-T rec. X.690: content
octets must be present, and under the canonical rules the leading
nine (9) bits must not be uniform.
*/
func checkIntegerContent(b []byte, rule EncodingRule) (err error) {
	if len(b) == 0 {
		err = decodeErrorf("INTEGER content must not be empty")
	} else if rule.canonical() && len(b) > 1 {
		if (b[0] == 0x00 && b[1]&0x80 == 0) ||
			(b[0] == 0xFF && b[1]&0x80 != 0) {
			err = decodeErrorf("non-minimal INTEGER content under ", rule)
		}
	}

	return
}

/*
normInt strips the redundant sign padding BER tolerates, leaving
minimal two's complement content.
*/
func normInt(b []byte) []byte {
	for len(b) > 1 && ((b[0] == 0x00 && b[1]&0x80 == 0) ||
		(b[0] == 0xFF && b[1]&0x80 != 0)) {
		b = b[1:]
	}

	return b
}

/*
signExtend widens up to eight (8) octets of two's complement content
into an int64.
*/
func signExtend(b []byte) (v int64) {
	if b[0]&0x80 != 0 {
		v = -1
	}
	for i := 0; i < len(b); i++ {
		v = v<<8 | int64(b[i])
	}

	return
}

func fitsSigned(v int64, bits int) bool {
	if bits >= 64 {
		return true
	}
	min := int64(-1) << uint(bits-1)
	max := int64(1)<<uint(bits-1) - 1

	return v >= min && v <= max
}

func fitsUnsigned(u uint64, bits int) bool {
	return bits >= 64 || u>>uint(bits) == 0
}

/*
appendIntContent appends the minimal two's complement form of v,
always at least one (1) octet.
*/
func appendIntContent(dst []byte, v int64) []byte {
	n := 1
	for x := v; x > 127 || x < -128; x >>= 8 {
		n++
	}
	for i := n - 1; i >= 0; i-- {
		dst = append(dst, byte(v>>uint(8*i)))
	}

	return dst
}

/*
appendUintContent appends the minimal two's complement form of u,
prefixing a zero octet when the leading magnitude bit would read as
a sign.
*/
func appendUintContent(dst []byte, u uint64) []byte {
	n := 1
	for x := u; x > 255; x >>= 8 {
		n++
	}
	if u>>uint(8*(n-1))&0x80 != 0 {
		dst = append(dst, zeroByte)
	}
	for i := n - 1; i >= 0; i-- {
		dst = append(dst, byte(u>>uint(8*i)))
	}

	return dst
}

func appendBigIntContent(dst []byte, v *big.Int) []byte {
	switch v.Sign() {
	case 0:
		return append(dst, zeroByte)
	case 1:
		b := v.Bytes()
		if b[0]&0x80 != 0 {
			dst = append(dst, zeroByte)
		}
		return append(dst, b...)
	}

	// Negative: compute 2^(8n) + v for the smallest n
	// which holds v in two's complement.
	n := (v.BitLen() + 7) / 8
	if n == 0 {
		n = 1
	}
	limit := new(big.Int).Lsh(bigOne, uint(8*n-1))
	if limit.Neg(limit).Cmp(v) > 0 {
		n++
	}

	tc := new(big.Int).Lsh(bigOne, uint(8*n))
	tc.Add(tc, v)
	b := tc.Bytes()
	for pad := n - len(b); pad > 0; pad-- {
		dst = append(dst, 0xFF)
	}

	return append(dst, b...)
}

func bigFromContent(b []byte) (v *big.Int) {
	v = new(big.Int).SetBytes(b)
	if b[0]&0x80 != 0 {
		shift := new(big.Int).Lsh(bigOne, uint(8*len(b)))
		v.Sub(v, shift)
	}

	return
}
