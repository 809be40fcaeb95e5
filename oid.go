package bertlv

/*
oid.go contains the writer and reader operations pertaining to the
ASN.1 OBJECT IDENTIFIER type, expressed in dotted decimal form.
*/

import (
	"math/big"
	"strings"
)

var big128 = newBigInt(128)

// Largest arc accumulator which may absorb another septet
// without overflowing a uint64.
const maxSafeArc = uint64(1)<<57 - 1

/*
WriteObjectIdentifier appends an OBJECT IDENTIFIER element parsed
from dotted decimal form, e.g. "1.3.6.1.4.1.56521", to the
receiver's current level. At least two (2) arcs are required. The
root arc must be 0, 1 or 2, and the second arc must not exceed 39
beneath roots 0 and 1. Arcs of any magnitude are supported.
*/
func (r *Writer) WriteObjectIdentifier(oid string, tag ...Tag) (err error) {
	if err = r.check(); err != nil {
		return
	}

	var t Tag
	if t, err = r.effectiveTag(TagOID, false, tag); err != nil {
		return
	}

	scratch := getBuf()
	var content []byte
	if content, err = appendOIDContent((*scratch)[:0], oid); err != nil {
		putBuf(scratch)
		return
	}
	r.appendPrimitive(t, content)
	*scratch = content
	putBuf(scratch)
	debugPrim(newLItem(oid, "OBJECT IDENTIFIER"))

	return
}

/*
ReadObjectIdentifier decodes the OBJECT IDENTIFIER element at the
cursor into dotted decimal form and advances past it.
*/
func (r *Reader) ReadObjectIdentifier(tag ...Tag) (oid string, err error) {
	var tlv TLV
	var fullLen int
	if tlv, fullLen, err = r.expectPrimitive(TagOID, tag); err != nil {
		return
	}
	if oid, err = decodeOIDContent(tlv.Value); err != nil {
		return
	}

	r.advance(fullLen)
	debugPrim(newLItem(oid, "OBJECT IDENTIFIER"))

	return
}

func appendOIDContent(dst []byte, oid string) ([]byte, error) {
	arcs := splitS(trimS(oid), `.`)
	if len(arcs) < 2 {
		return nil, usageErrorf("OBJECT IDENTIFIER requires two or more arcs: ",
			oid)
	}

	root, perr := puint(arcs[0], 10, 64)
	if perr != nil {
		return nil, usageErrorf("OBJECT IDENTIFIER arc 0 is not a number: ", arcs[0])
	}
	if root > 2 {
		return nil, usageErrorf("OBJECT IDENTIFIER root arc must be 0, 1 or 2")
	}

	second, serr := puint(arcs[1], 10, 64)
	if serr == nil && second <= ^uint64(0)-root*40 {
		if root < 2 && second > 39 {
			return nil, usageErrorf("OBJECT IDENTIFIER second arc must not exceed 39 beneath roots 0 and 1")
		}
		dst = appendBase128(dst, root*40+second)
	} else {
		// Second arcs beyond the uint64 range occur beneath
		// root 2 alone.
		bn, ok := new(big.Int).SetString(arcs[1], 10)
		if !ok || bn.Sign() < 0 {
			return nil, usageErrorf("OBJECT IDENTIFIER arc 1 is not a number: ", arcs[1])
		}
		if root < 2 {
			return nil, usageErrorf("OBJECT IDENTIFIER second arc must not exceed 39 beneath roots 0 and 1")
		}
		dst = appendBase128Big(dst, bn.Add(bn, newBigInt(80)))
	}

	for i := 2; i < len(arcs); i++ {
		n, perr := puint(arcs[i], 10, 64)
		if perr == nil {
			dst = appendBase128(dst, n)
			continue
		}

		// Arcs beyond uint64 take the arbitrary precision path.
		bn, ok := new(big.Int).SetString(arcs[i], 10)
		if !ok || bn.Sign() < 0 {
			return nil, usageErrorf("OBJECT IDENTIFIER arc ", i,
				" is not a number: ", arcs[i])
		}
		dst = appendBase128Big(dst, bn)
	}

	return dst, nil
}

func appendBase128(dst []byte, n uint64) []byte {
	var tmp [10]byte
	i := len(tmp) - 1
	tmp[i] = byte(n & 0x7f)
	for n >>= 7; n > 0; n >>= 7 {
		i--
		tmp[i] = byte(n&0x7f) | 0x80
	}

	return append(dst, tmp[i:]...)
}

func appendBase128Big(dst []byte, n *big.Int) []byte {
	if n.IsUint64() {
		return appendBase128(dst, n.Uint64())
	}

	var septets []byte
	v := new(big.Int).Set(n)
	m := new(big.Int)
	for v.Sign() > 0 {
		v.DivMod(v, big128, m)
		septets = append(septets, byte(m.Uint64()))
	}
	for i := len(septets) - 1; i >= 0; i-- {
		b := septets[i]
		if i != 0 {
			b |= 0x80
		}
		dst = append(dst, b)
	}

	return dst
}

func decodeOIDContent(b []byte) (oid string, err error) {
	if len(b) == 0 {
		err = decodeErrorf("OBJECT IDENTIFIER content must not be empty")
		return
	}

	bld := newStrBuilder()
	var arc uint64
	var arcBig *big.Int
	first := true
	start := true

	for i := 0; i < len(b); i++ {
		ch := b[i]
		if start && ch == 0x80 {
			err = decodeErrorf("OBJECT IDENTIFIER arc begins with 0x80")
			return
		}
		start = false

		if arcBig == nil && arc > maxSafeArc {
			arcBig = new(big.Int).SetUint64(arc)
		}
		if arcBig != nil {
			arcBig.Lsh(arcBig, 7)
			arcBig.Or(arcBig, newBigInt(int64(ch&0x7f)))
		} else {
			arc = arc<<7 | uint64(ch&0x7f)
		}

		if ch&0x80 != 0 {
			continue
		}

		if first {
			first = false
			writeRootArcs(&bld, arc, arcBig)
		} else {
			bld.WriteString(`.`)
			if arcBig != nil {
				bld.WriteString(arcBig.String())
			} else {
				bld.WriteString(fuint(arc, 10))
			}
		}
		arc, arcBig, start = 0, nil, true
	}

	if !start {
		err = decodeErrorf("OBJECT IDENTIFIER ends mid-arc")
		return
	}
	oid = bld.String()

	return
}

/*
writeRootArcs splits the combined leading subidentifier back into
its two arcs per § 8.19.4 of ITU-T rec. X.690.
*/
func writeRootArcs(bld *strings.Builder, arc uint64, arcBig *big.Int) {
	if arcBig != nil {
		// Only root 2 can produce a combined arc this large.
		arcBig.Sub(arcBig, newBigInt(80))
		bld.WriteString(`2.`)
		bld.WriteString(arcBig.String())
		return
	}

	switch {
	case arc < 40:
		bld.WriteString(`0.`)
		bld.WriteString(fuint(arc, 10))
	case arc < 80:
		bld.WriteString(`1.`)
		bld.WriteString(fuint(arc-40, 10))
	default:
		bld.WriteString(`2.`)
		bld.WriteString(fuint(arc-80, 10))
	}
}
