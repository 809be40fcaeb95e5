package bertlv

/*
length.go implements the length octets of ITU-T rec. X.690: the
definite short and long forms, the indefinite form, and the scan
which locates end-of-contents octets.
*/

/*
indefiniteLength is the sentinel length value describing the
indefinite form, in which content runs until end-of-contents
octets appear at the same nesting depth.
*/
const indefiniteLength = -1

/*
maxNestingDepth caps constructed and indefinite recursion during
scans. Hostile input nested any deeper is rejected rather than
chased.
*/
const maxNestingDepth = 255

func parseLength(b []byte) (length int, lenLen int, err error) {
	if len(b) == 0 {
		return 0, 0, errorEmptyLength
	}

	first := b[0]
	lenLen = 1

	// Short-form  (bit 8 = 0)
	if first&0x80 == 0 {
		length = int(first)
		return
	}

	// Long- or indefinite-form  (bit 8 = 1)
	n := int(first & 0x7F) // lower 7 bits = # of subsequent octets

	if n == 0 {
		length = indefiniteLength
		return
	}

	// Reject pathological encodings early
	if n > 4 { // 32-bit length cap keeps arithmetic safe
		return 0, 0, errorLengthTooLarge
	}
	if n > len(b)-1 {
		return 0, 0, errorTruncatedLength
	}

	// Assemble big-endian integer
	length = 0
	for i := 1; i <= n; i++ {
		length = (length << 8) | int(b[i])
	}
	lenLen += n
	return
}

/*
verifyLengthMinimal enforces canonical length forms: a long form
which would have fit the short form, or a long form bearing a
leading zero octet, is rejected. b must begin at the first length
octet.
*/
func verifyLengthMinimal(b []byte, length, lenLen int) (err error) {
	if lenLen > 1 && length < 0x80 {
		err = errorNonMinimalLen
	} else if lenLen > 2 && b[1] == zeroByte {
		err = errorLeadingZeroLen
	}
	return
}

func appendLength(dst []byte, n int) []byte {
	if n == indefiniteLength {
		return append(dst, indefByte)
	}
	if n < 128 { // short form
		return append(dst, byte(n))
	}

	// long form – emit the minimal number of octets
	var tmp [8]byte // handles 64-bit length
	i := len(tmp)
	for v := n; v > 0; v >>= 8 {
		i--
		tmp[i] = byte(v)
	}
	dst = append(dst, 0x80|byte(len(tmp)-i))
	return append(dst, tmp[i:]...)
}

/*
lengthSize returns the number of octets the definite form of n
occupies on the wire.
*/
func lengthSize(n int) (size int) {
	size = 1
	if n >= 128 {
		size++
		for n > 255 {
			size++
			n >>= 8
		}
	}
	return
}

/*
findEOC scans b for the end-of-contents octets terminating the
indefinite value whose content begins at b[0], skipping nested
definite children wholesale and tracking the depth of nested
indefinite children. The returned index is relative to b and
excludes the EOC pair itself.
*/
func findEOC(b []byte) (idx int, err error) {
	var depth int
	for idx < len(b) {
		if idx+1 < len(b) && b[idx] == zeroByte && b[idx+1] == zeroByte {
			if depth == 0 {
				return
			}
			depth--
			idx += 2
			continue
		}

		_, idLen, terr := ParseTag(b[idx:])
		if terr != nil {
			return 0, terr
		}
		length, lenLen, lerr := parseLength(b[idx+idLen:])
		if lerr != nil {
			return 0, lerr
		}
		idx += idLen + lenLen

		if length == indefiniteLength {
			if depth++; depth > maxNestingDepth {
				return 0, errorNestingTooDeep
			}
			continue
		}
		if length > len(b)-idx {
			return 0, errorTruncatedContent
		}
		idx += length
	}
	return 0, errorNoEOC
}
