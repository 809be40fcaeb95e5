package bertlv

/*
tag.go implements the identifier octets of ITU-T rec. X.690: the
[Tag] triplet, its codec and its equality relations.
*/

/*
ASN.1 universal tag number constants. These are defined largely for
convenience so that [encoding/asn1] need not be imported by the
caller.
*/
const (
	invalidTag          = 0
	TagBoolean          = 1
	TagInteger          = 2
	TagBitString        = 3
	TagOctetString      = 4
	TagNull             = 5
	TagOID              = 6
	TagObjectDescriptor = 7
	TagExternal         = 8
	TagReal             = 9
	TagEnum             = 10
	TagEmbeddedPDV      = 11
	TagUTF8String       = 12
	TagRelativeOID      = 13
	TagTime             = 14
	TagSequence         = 16
	TagSet              = 17
	TagNumericString    = 18
	TagPrintableString  = 19
	TagT61String        = 20
	TagVideotexString   = 21
	TagIA5String        = 22
	TagUTCTime          = 23
	TagGeneralizedTime  = 24
	TagGraphicString    = 25
	TagVisibleString    = 26
	TagGeneralString    = 27
	TagUniversalString  = 28
	TagCharacterString  = 29
	TagBMPString        = 30
	TagDate             = 31
	TagTimeOfDay        = 32
	TagDateTime         = 33
	TagDuration         = 34
)

/*
ASN.1 class constants. These are defined largely for convenience so
that [encoding/asn1] need not be imported by the caller.
*/
const (
	invalidClass int = iota - 1
	ClassUniversal
	ClassApplication
	ClassContextSpecific
	ClassPrivate
)

/*
ClassNames facilitates access to string ASN.1 class names.
*/
var ClassNames = map[int]string{
	invalidClass:         "INVALID CLASS",
	ClassUniversal:       "UNIVERSAL",
	ClassApplication:     "APPLICATION",
	ClassContextSpecific: "CONTEXT SPECIFIC",
	ClassPrivate:         "PRIVATE",
}

/*
TagNames facilitates access to string ASN.1 tag names.
*/
var TagNames = map[int]string{
	invalidTag:          "INVALID TAG",       //  0
	TagBoolean:          "BOOLEAN",           //  1
	TagInteger:          "INTEGER",           //  2
	TagBitString:        "BIT STRING",        //  3
	TagOctetString:      "OCTET STRING",      //  4
	TagNull:             "NULL",              //  5
	TagOID:              "OBJECT IDENTIFIER", //  6
	TagObjectDescriptor: "OBJECT DESCRIPTOR", //  7
	TagExternal:         "EXTERNAL",          //  8
	TagReal:             "REAL",              //  9
	TagEnum:             "ENUM",              // 10
	TagEmbeddedPDV:      "EMBEDDED PDV",      // 11
	TagUTF8String:       "UTF8 STRING",       // 12
	TagRelativeOID:      "RELATIVE OID",      // 13
	TagTime:             "TIME",              // 14
	TagSequence:         "SEQUENCE",          // 16
	TagSet:              "SET",               // 17
	TagNumericString:    "NUMERIC STRING",    // 18
	TagPrintableString:  "PRINTABLE STRING",  // 19
	TagT61String:        "T61 STRING",        // 20
	TagVideotexString:   "VIDEOTEX STRING",   // 21
	TagIA5String:        "IA5 STRING",        // 22
	TagUTCTime:          "UTC TIME",          // 23
	TagGeneralizedTime:  "GENERALIZED TIME",  // 24
	TagGraphicString:    "GRAPHIC STRING",    // 25
	TagVisibleString:    "VISIBLE STRING",    // 26
	TagGeneralString:    "GENERAL STRING",    // 27
	TagUniversalString:  "UNIVERSAL STRING",  // 28
	TagCharacterString:  "CHARACTER STRING",  // 29
	TagBMPString:        "BMP STRING",        // 30
	TagDate:             "DATE",              // 31
	TagTimeOfDay:        "TIME-OF-DAY",       // 32
	TagDateTime:         "DATE-TIME",         // 33
	TagDuration:         "DURATION",          // 34
}

const (
	cmpndByte   = byte(0x20) // constructed marker within identifier octet
	longByte    = byte(0x1f) // low-tag-number ceiling; invokes high form
	indefByte   = byte(0x80) // indefinite length marker
	zeroByte    = byte(0x00)
	maxTagBytes = 5               // max identifier octets: 28 bits of tag number per § 8.1 of ITU-T rec. X.690
	maxTagNum   = 1<<28 - 1       // largest tag number expressible in maxTagBytes octets
)

var indefEoC = []byte{0x00, 0x00}

/*
Tag is the decoded form of the identifier octets which prefix every
TLV: a class, a tag number and the constructed flag.
*/
type Tag struct {
	Class       int
	Number      int
	Constructed bool
}

/*
Well-known [Tag] instances for the universal types handled by this
package. The "Constructed" suffixed forms exist only for types which
legitimately occur in both forms.
*/
var (
	BooleanTag                = Tag{ClassUniversal, TagBoolean, false}
	IntegerTag                = Tag{ClassUniversal, TagInteger, false}
	BitStringTag              = Tag{ClassUniversal, TagBitString, false}
	BitStringConstructedTag   = Tag{ClassUniversal, TagBitString, true}
	OctetStringTag            = Tag{ClassUniversal, TagOctetString, false}
	OctetStringConstructedTag = Tag{ClassUniversal, TagOctetString, true}
	NullTag                   = Tag{ClassUniversal, TagNull, false}
	ObjectIdentifierTag       = Tag{ClassUniversal, TagOID, false}
	EnumeratedTag             = Tag{ClassUniversal, TagEnum, false}
	UTF8StringTag             = Tag{ClassUniversal, TagUTF8String, false}
	SequenceTag               = Tag{ClassUniversal, TagSequence, true}
	SetTag                    = Tag{ClassUniversal, TagSet, true}
	NumericStringTag          = Tag{ClassUniversal, TagNumericString, false}
	PrintableStringTag        = Tag{ClassUniversal, TagPrintableString, false}
	T61StringTag              = Tag{ClassUniversal, TagT61String, false}
	IA5StringTag              = Tag{ClassUniversal, TagIA5String, false}
	UTCTimeTag                = Tag{ClassUniversal, TagUTCTime, false}
	GeneralizedTimeTag        = Tag{ClassUniversal, TagGeneralizedTime, false}
	VisibleStringTag          = Tag{ClassUniversal, TagVisibleString, false}
	BMPStringTag              = Tag{ClassUniversal, TagBMPString, false}
)

/*
ContextTag returns a context-specific [Tag] bearing number n. The
constructed flag is left false; writer and reader operations force
the flag appropriate to the operation at hand.
*/
func ContextTag(n int) Tag { return Tag{Class: ClassContextSpecific, Number: n} }

/*
Equal returns a Boolean value indicative of r and other matching in
class, number and constructed flag.
*/
func (r Tag) Equal(other Tag) (is bool) {
	return r == other
}

/*
EqualClassNumber returns a Boolean value indicative of r and other
matching in class and number alone, disregarding the constructed
flag. This is the comparison used when a primitive and constructed
rendition of the same type must be treated as one.
*/
func (r Tag) EqualClassNumber(other Tag) (is bool) {
	return r.Class == other.Class && r.Number == other.Number
}

/*
String returns the string representation of the receiver instance,
e.g. "UNIVERSAL 16 (SEQUENCE), constructed".
*/
func (r Tag) String() string {
	b := newStrBuilder()
	cls, found := ClassNames[r.Class]
	if !found {
		cls = "INVALID CLASS"
	}
	b.WriteString(cls)
	b.WriteString(" ")
	b.WriteString(itoa(r.Number))
	if r.Class == ClassUniversal {
		if name, ok := TagNames[r.Number]; ok {
			b.WriteString(" (" + name + ")")
		}
	}
	if r.Constructed {
		b.WriteString(", constructed")
	} else {
		b.WriteString(", primitive")
	}
	return b.String()
}

/*
EncodedLen returns the number of identifier octets the receiver
occupies on the wire: one (1) for tag numbers below thirty one (31),
otherwise one plus the base-128 octets of the number.
*/
func (r Tag) EncodedLen() (n int) {
	n = 1
	if r.Number >= int(longByte) {
		for v := r.Number; v > 0; v >>= 7 {
			n++
		}
	}
	return
}

/*
Encode writes the identifier octets of the receiver into dst and
returns the octet count alongside a success-indicative Boolean
value. A false return leaves dst untouched and reports the required
size, allowing the caller to grow and retry. A tag number outside
of the encodable range returns zero (0) and false.
*/
func (r Tag) Encode(dst []byte) (int, bool) {
	if r.Number < 0 || r.Number > maxTagNum {
		return 0, false
	}
	need := r.EncodedLen()
	if len(dst) < need {
		return need, false
	}

	lead := byte(r.Class&0x3) << 6
	if r.Constructed {
		lead |= cmpndByte
	}

	if r.Number < int(longByte) {
		dst[0] = lead | byte(r.Number)
		return 1, true
	}

	dst[0] = lead | longByte
	for i, shift := 1, 7*(need-2); i < need; i, shift = i+1, shift-7 {
		b := byte(r.Number>>uint(shift)) & 0x7f
		if i != need-1 {
			b |= 0x80
		}
		dst[i] = b
	}
	return need, true
}

/*
ParseTag decodes the identifier octets at the head of b and returns
the [Tag] read along with the number of octets consumed.

High-tag-number forms are capped at five (5) identifier octets, or
twenty eight (28) bits of tag number, per § 8.1 of ITU-T rec. X.690.
A leading 0x80 continuation octet and a continuation chain running
past the end of b are each rejected.
*/
func ParseTag(b []byte) (t Tag, n int, err error) {
	if len(b) == 0 {
		err = errorEmptyIdentifier
		return
	}

	t.Class = int(b[0] >> 6)
	t.Constructed = b[0]&cmpndByte != 0
	t.Number = int(b[0] & longByte)
	n = 1

	if t.Number != int(longByte) {
		return
	}

	t.Number = 0
	for i := 1; i < len(b); i++ {
		n++
		ch := b[i]
		if i == 1 && ch == 0x80 {
			t, n = Tag{}, 0
			err = errorLeadingTagPad
			return
		}
		t.Number = (t.Number << 7) | int(ch&0x7f)

		if ch&0x80 == 0 { // MSB 0 ⇒ last octet
			return
		}
		if i == maxTagBytes-1 { // max 5 octets = 28 bits per § 8.1 of ITU-T rec. X.690
			t, n = Tag{}, 0
			err = errorTagTooLarge
			return
		}
	}

	t, n = Tag{}, 0
	err = errorTruncatedTag
	return
}

/*
resolveTag returns the tag an operation will match or emit: the
universal default bearing number uni, or the caller's substitute
with its class and number adopted. A universal substitute which
disagrees with uni is rejected, as are out-of-range numbers and
classes.
*/
func resolveTag(uni int, tag []Tag) (t Tag, err error) {
	t = Tag{Class: ClassUniversal, Number: uni}
	if len(tag) == 0 {
		return
	}

	sub := tag[0]
	if sub.Number < 0 || sub.Number > maxTagNum {
		err = usageErrorf("substitute tag number out of range: ", itoa(sub.Number))
		return
	}
	if sub.Class < ClassUniversal || sub.Class > ClassPrivate {
		err = usageErrorf("substitute tag class out of range: ", itoa(sub.Class))
		return
	}
	if sub.Class == ClassUniversal && sub.Number != uni {
		err = usageErrorf("substitute universal tag ", sub, " conflicts with ", t)
		return
	}

	t.Class, t.Number = sub.Class, sub.Number
	return
}

func appendTag(dst []byte, t Tag) []byte {
	lead := byte(t.Class&0x3) << 6
	if t.Constructed {
		lead |= cmpndByte
	}

	if t.Number < int(longByte) {
		return append(dst, lead|byte(t.Number))
	}

	dst = append(dst, lead|longByte)
	var tmp [maxTagBytes - 1]byte
	i := len(tmp) - 1
	tmp[i] = byte(t.Number & 0x7f)
	for v := t.Number >> 7; v > 0; v >>= 7 {
		i--
		tmp[i] = byte(v&0x7f) | 0x80
	}
	return append(dst, tmp[i:]...)
}
