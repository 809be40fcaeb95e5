package bertlv

/*
rule.go contains the EncodingRule abstraction: rule identities,
their structural allowances and the rule-keyed reader constructor
registry.
*/

/*
EncodingRule describes one of the particular ASN.1 encoding rules
implemented by this package.
*/
type EncodingRule int

const (
	invalidEncodingRule EncodingRule = iota
	BER
	CER
	DER
)

// for unit tests
var encodingRules []EncodingRule = []EncodingRule{BER, CER, DER}

/*
X.690 § 9.2 mandates that every non-final segment of a CER string
encoding span exactly one thousand (1000) content octets. For BIT
STRING segments the first content octet carries the unused bit
count, leaving 999 octets (7992 bits) of payload per segment.
*/
const (
	maxSegmentOctets    = 1000
	maxSegmentBits      = 7992
	maxSegmentBitOctets = maxSegmentBits / 8
)

func (r EncodingRule) String() string {
	var s string = `invalid`
	switch r {
	case BER:
		s = `BER`
	case CER:
		s = `CER`
	case DER:
		s = `DER`
	}

	return s
}

/*
OID returns the dotted object identifier assigned to the receiver
rule per Annex A of ITU-T rec. X.690, or a zero string if the
receiver is not a known rule.
*/
func (r EncodingRule) OID() (oid string) {
	switch r {
	case BER:
		oid = `2.1.1`
	case CER:
		oid = `2.1.2.0`
	case DER:
		oid = `2.1.2.1`
	}

	return
}

/*
In returns a Boolean instance indicative of r being present within e.
*/
func (r EncodingRule) In(e ...EncodingRule) (is bool) {
	for i := 0; i < len(e) && !is; i++ {
		is = r == e[i]
	}

	return
}

/*
allowsIndefinite returns a Boolean value indicative of whether the
receiver instance allows indefinite lengths.
*/
func (r EncodingRule) allowsIndefinite() (ok bool) {
	switch r {
	case BER, CER:
		ok = true
	}

	return
}

/*
canonical returns a Boolean value indicative of whether the receiver
instance demands canonical value forms: minimal lengths, minimal
INTEGER content, 0xFF BOOLEAN truth and zeroed trailing padding
bits.
*/
func (r EncodingRule) canonical() bool { return r.In(CER, DER) }

/*
canonicalOrdering returns a Boolean value indicative of whether the
receiver instance demands SET OF elements appear in ascending byte
order of their complete encodings.
*/
func (r EncodingRule) canonicalOrdering() bool { return r.In(CER, DER) }

/*
NewReader returns a pooled [BufferReader] holding a private copy of
src, positioned at offset zero (0) and bound to the receiver rule.
*/
func (r EncodingRule) NewReader(src ...byte) *BufferReader {
	if fn, found := readerConstructors[r]; found {
		return fn(src...)
	}

	// Unknown rules still construct; every subsequent operation
	// on the result fails with a usage error.
	return NewBufferReader(r, src...)
}

var readerConstructors map[EncodingRule]func(...byte) *BufferReader = make(map[EncodingRule]func(...byte) *BufferReader)

func panicOnMissingEncodingRuleConstructor(table map[EncodingRule]func(...byte) *BufferReader) {
	for i := 0; i < len(encodingRules); i++ {
		rule := encodingRules[i]
		if _, found := table[rule]; !found {
			panic(usageErrorf("EncodingRule ", rule, " has no registered constructor"))
		}
	}
}

func init() {
	for i := 0; i < len(encodingRules); i++ {
		rule := encodingRules[i]
		readerConstructors[rule] = func(src ...byte) *BufferReader {
			return NewBufferReader(rule, src...)
		}
	}
	panicOnMissingEncodingRuleConstructor(readerConstructors)
}
