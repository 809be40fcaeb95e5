package bertlv

import "testing"

func TestObjectIdentifierGoldens(t *testing.T) {
	for idx, tc := range []struct {
		oid  string
		want []byte
	}{
		{"1.3.6.1.4.1.56521", []byte{0x06, 0x08, 0x2B, 0x06, 0x01, 0x04, 0x01, 0x83, 0xB9, 0x49}},
		{"2.999.3", []byte{0x06, 0x03, 0x88, 0x37, 0x03}},
		{"2.5.4.3", []byte{0x06, 0x03, 0x55, 0x04, 0x03}},
		{"0.0", []byte{0x06, 0x01, 0x00}},
	} {
		w := NewWriter(DER)
		if err := w.WriteObjectIdentifier(tc.oid); err != nil {
			t.Errorf("%s[%d] failed [DER encoding]: %v", t.Name(), idx, err)
			w.Free()
			continue
		}
		if !w.ValueEquals(tc.want) {
			t.Errorf("%s[%d] failed [byte cmp. %s]:\n\twant: %v\n\tgot:  %s",
				t.Name(), idx, tc.oid, tc.want, w.Hex())
		}
		w.Free()
	}
}

func TestObjectIdentifierRoundTrip(t *testing.T) {
	oids := []string{
		"0.0",
		"0.39",
		"1.0",
		"1.39",
		"2.0",
		"2.39",
		"2.40", // root 2 admits second arcs beyond 39
		"2.999.3",
		"2.5.4.3",
		"0.9.2342.19200300.100.1.1",
		"1.2.840.113549.1.1.11",
		"1.3.6.1.4.1.56521",
	}

	for idx, rule := range encodingRules {
		for _, oid := range oids {
			w := NewWriter(rule)
			if err := w.WriteObjectIdentifier(oid); err != nil {
				t.Fatalf("%s[%d] failed [%s encoding %s]: %v", t.Name(), idx, rule, oid, err)
			}
			out, err := w.Encode()
			w.Free()
			if err != nil {
				t.Fatalf("%s[%d] failed [%s encoding]: %v", t.Name(), idx, rule, err)
			}

			got, err := NewReader(rule, out).ReadObjectIdentifier()
			if err != nil {
				t.Fatalf("%s[%d] failed [%s decoding %s]: %v", t.Name(), idx, rule, oid, err)
			}
			if got != oid {
				t.Fatalf("%s[%d] failed [%s round trip]: want %s, got %s",
					t.Name(), idx, rule, oid, got)
			}
		}
	}
}

func TestObjectIdentifierHugeArcs(t *testing.T) {
	for idx, oid := range []string{
		// 2.25 carries UUID arcs per ITU-T rec. X.667
		"2.25.340282366920938463463374607431768211455",
		// a second arc beyond the uint64 range
		"2.18446744073709551616",
		"2.18446744073709551616.7",
	} {
		w := NewWriter(DER)
		if err := w.WriteObjectIdentifier(oid); err != nil {
			t.Fatalf("%s[%d] failed [DER encoding %s]: %v", t.Name(), idx, oid, err)
		}
		out, err := w.Encode()
		w.Free()
		if err != nil {
			t.Fatalf("%s[%d] failed [DER encoding]: %v", t.Name(), idx, err)
		}

		got, err := NewReader(DER, out).ReadObjectIdentifier()
		if err != nil || got != oid {
			t.Fatalf("%s[%d] failed [round trip %s]: %q, %v", t.Name(), idx, oid, got, err)
		}
	}
}

func TestWriteObjectIdentifier_violations(t *testing.T) {
	w := NewWriter(DER)
	defer w.Free()

	for idx, tc := range []struct {
		oid string
		sub string
	}{
		{"", "two or more arcs"},
		{"1", "two or more arcs"},
		{"3.1", "root arc must be 0, 1 or 2"},
		{"0.40", "second arc must not exceed 39"},
		{"1.40", "second arc must not exceed 39"},
		{"1.18446744073709551616", "second arc must not exceed 39"},
		{"x.1", "not a number"},
		{"1.x", "not a number"},
		{"1.2.x", "not a number"},
		{"1.-2", "not a number"},
	} {
		err := w.WriteObjectIdentifier(tc.oid)
		if !testIsUsage(err) {
			t.Errorf("%s[%d] failed [classification %q]: got %v", t.Name(), idx, tc.oid, err)
			continue
		}
		testWantSub(t, err, tc.sub)
	}

	// nothing was emitted along the way
	if n, err := w.EncodedLength(); err != nil || n != 0 {
		t.Fatalf("%s failed [spill check]: %d, %v", t.Name(), n, err)
	}
}

func TestReadObjectIdentifier_malformed(t *testing.T) {
	for idx, tc := range []struct {
		in  []byte
		sub string
	}{
		{[]byte{0x06, 0x00}, "must not be empty"},
		{[]byte{0x06, 0x02, 0x80, 0x01}, "begins with 0x80"},
		{[]byte{0x06, 0x01, 0x83}, "ends mid-arc"},
		{[]byte{0x06, 0x02, 0x2B, 0x83}, "ends mid-arc"},
	} {
		r := NewReader(BER, tc.in)
		_, err := r.ReadObjectIdentifier()
		if !testIsDecode(err) {
			t.Errorf("%s[%d] failed [classification]: got %v", t.Name(), idx, err)
			continue
		}
		testWantSub(t, err, tc.sub)
		if r.Offset() != 0 {
			t.Errorf("%s[%d] failed: failed read advanced the cursor", t.Name(), idx)
		}
	}
}

func BenchmarkWriteObjectIdentifier(b *testing.B) {
	w := NewWriter(DER)
	defer w.Free()

	for i := 0; i < b.N; i++ {
		w.Reset()
		if err := w.WriteObjectIdentifier("1.3.6.1.4.1.56521"); err != nil {
			b.Fatal(err)
		}
	}
}
