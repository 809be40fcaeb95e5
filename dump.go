package bertlv

/*
dump.go contains the structured hex dump and hex rendering
facilities, which serve diagnostic use only.
*/

import "io"

const hexDigits = "0123456789ABCDEF"

/*
Dump writes a structured, indented rendering of every element in
data to w under the given rule: one header line per element with
its resolved tag name and length, followed by the content octets
in hex lines. The variadic wrapAt value overrides the default
width of 24 content octets per line; values below 16 are ignored.
*/
func Dump(w io.Writer, rule EncodingRule, data []byte, wrapAt ...int) error {
	width := 24
	if len(wrapAt) > 0 && wrapAt[0] > 15 {
		width = wrapAt[0]
	}

	return dumpLevel(w, rule, data, 0, width)
}

/*
Hex returns the sectioned hexadecimal rendering of the receiver's
underlying buffer: tag octets, length octets and content octets
separated by single spaces.
*/
func (r *BufferReader) Hex() string { return formatHex(r.data) }

/*
Dump writes a structured, indented rendering of the receiver's
entire underlying buffer to w, independent of the cursor. See the
package-level [Dump] for the wrapAt semantics.
*/
func (r *BufferReader) Dump(w io.Writer, wrapAt ...int) error {
	if r.freed {
		return errorFreedReader
	}

	return Dump(w, r.rule, r.data, wrapAt...)
}

func dumpLevel(w io.Writer, rule EncodingRule, data []byte, depth, width int) error {
	if depth > maxNestingDepth {
		return errorNestingTooDeep
	}

	indent := strrpt("  ", depth)
	off := 0

	for off < len(data) {
		tlv, _, fullLen, err := parseTLV(data, off, rule)
		if err != nil {
			return err
		}

		line := newStrBuilder()
		line.WriteString(indent)
		if tlv.Tag.Number < 0x100 {
			line.WriteByte(hexDigits[tlv.Tag.Number>>4])
			line.WriteByte(hexDigits[tlv.Tag.Number&0xF])
		} else {
			line.WriteString(itoa(tlv.Tag.Number))
		}
		line.WriteByte(' ')
		if tlv.Length >= 0 && tlv.Length < 0x100 {
			line.WriteByte(hexDigits[tlv.Length>>4])
			line.WriteByte(hexDigits[tlv.Length&0xF])
		} else {
			line.WriteString(itoa(tlv.Length))
		}
		line.WriteString("    # ")
		line.WriteString(dumpTagName(tlv.Tag))
		line.WriteString(", len=")
		line.WriteString(itoa(tlv.Length))
		line.WriteByte('\n')

		if _, err = w.Write([]byte(line.String())); err != nil {
			return err
		}

		if tlv.Tag.Constructed {
			if err = dumpLevel(w, rule, tlv.Value, depth+1, width); err != nil {
				return err
			}
		} else {
			if err = dumpHexLines(w, tlv.Value, depth, width); err != nil {
				return err
			}
		}

		off += fullLen
	}

	return nil
}

func dumpTagName(t Tag) string {
	if t.Class == ClassUniversal {
		if name, ok := TagNames[t.Number]; ok {
			return name
		}
	}

	return "[" + ClassNames[t.Class] + " " + itoa(t.Number) + "]"
}

/*
dumpHexLines prints raw octets in width-sized hex lines beneath the
given indent.
*/
func dumpHexLines(w io.Writer, b []byte, depth, width int) error {
	indent := strrpt("  ", depth)

	for i := 0; i < len(b); i += width {
		end := i + width
		if end > len(b) {
			end = len(b)
		}
		chunk := b[i:end]

		line := newStrBuilder()
		line.WriteString(indent)
		line.WriteString("  ")
		for j, x := range chunk {
			if j > 0 {
				line.WriteByte(' ')
			}
			line.WriteByte(hexDigits[x>>4])
			line.WriteByte(hexDigits[x&0xF])
		}
		line.WriteByte('\n')

		if _, err := w.Write([]byte(line.String())); err != nil {
			return err
		}
	}

	return nil
}

/*
formatHex renders a complete element as sectioned uppercase hex:
the tag octets, the length octets and the content octets separated
by single spaces. Trailing elements beyond the first are folded
into the content section.
*/
func formatHex(data []byte) string {
	if len(data) == 0 {
		return ``
	}

	// Tags below 31 occupy one octet; the multi octet form
	// continues until an octet with the continuation bit off.
	tagEnd := 1
	if data[0]&longByte == longByte {
		for tagEnd < len(data) && data[tagEnd]&0x80 != 0 {
			tagEnd++
		}
		if tagEnd < len(data) {
			tagEnd++
		}
	}

	if tagEnd >= len(data) {
		return trimS(uc(hexstr(data)))
	}

	var lengthEnd int
	if first := data[tagEnd]; first <= indefByte {
		lengthEnd = tagEnd + 1
	} else {
		lengthEnd = tagEnd + 1 + int(first&0x7F)
		if lengthEnd > len(data) {
			lengthEnd = len(data)
		}
	}

	tagStr := hexstr(data[:tagEnd])
	lengthStr := hexstr(data[tagEnd:lengthEnd])
	contentStr := hexstr(data[lengthEnd:])

	return trimS(uc(tagStr + " " + lengthStr + " " + contentStr))
}
