package bertlv

import "testing"

func TestFragmentsNestedBER(t *testing.T) {
	// BER permits constructed segments nested within constructed
	// segments; the payload order is depth first
	wire := []byte{
		0x24, 0x0E,
		0x04, 0x02, 0x48, 0x65,
		0x24, 0x05,
		0x04, 0x03, 0x6C, 0x6C, 0x6F,
		0x04, 0x01, 0x21,
	}

	v, frag, err := NewReader(BER, wire).ReadOctetString()
	if err != nil || frag == nil || v != nil {
		t.Fatalf("%s failed [BER decoding]: %v", t.Name(), err)
	}
	if k := frag.Kind(); !k.Equal(OctetStringConstructedTag) {
		t.Fatalf("%s failed [kind cmp.]: got %s", t.Name(), k)
	}

	n, err := frag.Len()
	if err != nil || n != 6 {
		t.Fatalf("%s failed [length cmp.]: %d, %v", t.Name(), n, err)
	}

	dst := make([]byte, n)
	if _, ok, cerr := frag.CopyTo(dst); !ok || cerr != nil || string(dst) != "Hello!" {
		t.Fatalf("%s failed [reassembly]: %q, %t, %v", t.Name(), dst, ok, cerr)
	}
}

func TestFragments_depth(t *testing.T) {
	wire := []byte{0x04, 0x01, 0x61}
	for i := 0; i <= maxNestingDepth; i++ {
		hdr := append([]byte{0x24}, appendLength(nil, len(wire))...)
		wire = append(hdr, wire...)
	}
	outer := append([]byte{0x24}, appendLength(nil, len(wire))...)
	outer = append(outer, wire...)

	_, frag, err := NewReader(BER, outer).ReadOctetString()
	if err != nil || frag == nil {
		t.Fatalf("%s failed [BER decoding]: %v", t.Name(), err)
	}
	if _, err = frag.Len(); err != errorNestingTooDeep {
		t.Fatalf("%s failed [depth cmp.]: got %v", t.Name(), err)
	}
}

func TestFragments_foreignTag(t *testing.T) {
	wire := []byte{0x24, 0x04, 0x0C, 0x02, 0x68, 0x69}

	_, frag, err := NewReader(BER, wire).ReadOctetString()
	if err != nil || frag == nil {
		t.Fatalf("%s failed [BER decoding]: %v", t.Name(), err)
	}

	_, err = frag.Len()
	if !testIsDecode(err) {
		t.Fatalf("%s failed [classification]: got %v", t.Name(), err)
	}
	testWantSub(t, err, "segment bears foreign tag")
}

func TestFragmentsCER_segmentShape(t *testing.T) {
	// constructed segments are a BER liberty
	nested := []byte{0x24, 0x80, 0x24, 0x80, 0x04, 0x01, 0x61, 0x00, 0x00, 0x00, 0x00}
	_, frag, err := NewReader(CER, nested).ReadOctetString()
	if err != nil || frag == nil {
		t.Fatalf("%s failed [CER decoding]: %v", t.Name(), err)
	}
	if _, err = frag.Len(); err == nil ||
		!cntns(err.Error(), "CER segments must use the primitive form") {
		t.Fatalf("%s failed [form cmp.]: got %v", t.Name(), err)
	}

	// every non-final segment spans exactly 1000 octets
	short := []byte{0x24, 0x80, 0x04, 0x01, 0x61, 0x04, 0x01, 0x62, 0x00, 0x00}
	_, frag, err = NewReader(CER, short).ReadOctetString()
	if err != nil || frag == nil {
		t.Fatalf("%s failed [CER decoding]: %v", t.Name(), err)
	}
	if _, err = frag.Len(); err != errorBadSegment {
		t.Fatalf("%s failed [segment cmp.]: got %v", t.Name(), err)
	}

	// no segment may span more than 1000 octets, the final included
	seg := make([]byte, maxSegmentOctets+1)
	long := append([]byte{0x24, 0x80, 0x04}, appendLength(nil, len(seg))...)
	long = append(long, seg...)
	long = append(long, 0x00, 0x00)
	_, frag, err = NewReader(CER, long).ReadOctetString()
	if err != nil || frag == nil {
		t.Fatalf("%s failed [CER decoding]: %v", t.Name(), err)
	}
	if _, err = frag.Len(); err != errorOverlongSegment {
		t.Fatalf("%s failed [overlong cmp.]: got %v", t.Name(), err)
	}
}

func TestFragmentsCopyTo_short(t *testing.T) {
	wire := []byte{0x24, 0x08, 0x04, 0x02, 0x48, 0x65, 0x04, 0x02, 0x79, 0x21}

	_, frag, err := NewReader(BER, wire).ReadOctetString()
	if err != nil || frag == nil {
		t.Fatalf("%s failed [BER decoding]: %v", t.Name(), err)
	}

	n, ok, err := frag.CopyTo(make([]byte, 3))
	if n != 4 || ok || err != nil {
		t.Fatalf("%s failed [capacity cmp.]: %d, %t, %v", t.Name(), n, ok, err)
	}

	dst := make([]byte, 4)
	if n, ok, err = frag.CopyTo(dst); n != 4 || !ok || err != nil || string(dst) != "Hey!" {
		t.Fatalf("%s failed [reassembly]: %q, %t, %v", t.Name(), dst, ok, err)
	}
}

func TestFragmentsUnused_usage(t *testing.T) {
	wire := []byte{0x24, 0x04, 0x04, 0x02, 0x68, 0x69}

	_, frag, err := NewReader(BER, wire).ReadOctetString()
	if err != nil || frag == nil {
		t.Fatalf("%s failed [BER decoding]: %v", t.Name(), err)
	}
	if _, err = frag.Unused(); !testIsUsage(err) {
		t.Fatalf("%s failed [classification]: got %v", t.Name(), err)
	}
	testWantSub(t, err, "applies to BIT STRING fragments only")
}

func TestFragmentsBitString(t *testing.T) {
	wire := []byte{
		0x23, 0x08,
		0x03, 0x02, 0x00, 0xAA,
		0x03, 0x02, 0x04, 0xB0,
	}

	bs, frag, err := NewReader(BER, wire).ReadBitString()
	if err != nil || frag == nil || bs.Bytes != nil {
		t.Fatalf("%s failed [BER decoding]: %v", t.Name(), err)
	}
	if k := frag.Kind(); !k.Equal(BitStringConstructedTag) {
		t.Fatalf("%s failed [kind cmp.]: got %s", t.Name(), k)
	}

	n, err := frag.Len()
	if err != nil || n != 2 {
		t.Fatalf("%s failed [length cmp.]: %d, %v", t.Name(), n, err)
	}
	unused, err := frag.Unused()
	if err != nil || unused != 4 {
		t.Fatalf("%s failed [unused cmp.]: %d, %v", t.Name(), unused, err)
	}

	dst := make([]byte, n)
	if _, ok, cerr := frag.CopyTo(dst); !ok || cerr != nil || !beq(dst, []byte{0xAA, 0xB0}) {
		t.Fatalf("%s failed [reassembly]: %v, %t, %v", t.Name(), dst, ok, cerr)
	}
}

func TestFragmentsBitString_violations(t *testing.T) {
	for idx, tc := range []struct {
		wire []byte
		rule EncodingRule
		sub  string
	}{
		{[]byte{0x23, 0x08, 0x03, 0x02, 0x01, 0xAA, 0x03, 0x02, 0x00, 0xB0}, BER,
			"only the final BIT STRING segment may carry unused bits"},
		{[]byte{0x23, 0x08, 0x03, 0x00, 0x03, 0x04, 0x00, 0xAA, 0xBB, 0xCC}, BER,
			"segment lacks the unused bit octet"},
		{[]byte{0x23, 0x04, 0x03, 0x02, 0x08, 0xAA}, BER,
			"unused bit count must not exceed 7, got 8"},
		{[]byte{0x23, 0x80, 0x03, 0x02, 0x03, 0xFF, 0x00, 0x00}, CER,
			"padding bits must be zero under CER"},
		{[]byte{0x23, 0x80, 0x03, 0x01, 0x05, 0x00, 0x00}, CER,
			"empty BIT STRING segment cannot carry unused bits"},
	} {
		_, frag, err := NewReader(tc.rule, tc.wire).ReadBitString()
		if err != nil || frag == nil {
			t.Errorf("%s[%d] failed [%s decoding]: %v", t.Name(), idx, tc.rule, err)
			continue
		}
		if _, err = frag.Len(); !testIsDecode(err) {
			t.Errorf("%s[%d] failed [classification]: got %v", t.Name(), idx, err)
			continue
		}
		testWantSub(t, err, tc.sub)
	}

	// the same padding passes unexamined under plain BER
	loose := []byte{0x23, 0x04, 0x03, 0x02, 0x03, 0xFF}
	_, frag, err := NewReader(BER, loose).ReadBitString()
	if err != nil || frag == nil {
		t.Fatalf("%s failed [BER decoding]: %v", t.Name(), err)
	}
	if unused, uerr := frag.Unused(); uerr != nil || unused != 3 {
		t.Fatalf("%s failed [unused cmp.]: %d, %v", t.Name(), unused, uerr)
	}
}
