package bertlv

import (
	"testing"
	"time"
)

func TestUTCTimeRoundTrip(t *testing.T) {
	for idx, rule := range encodingRules {
		for _, when := range []time.Time{
			time.Date(2019, time.March, 15, 10, 30, 45, 0, time.UTC),
			time.Date(1956, time.July, 4, 0, 0, 0, 0, time.UTC),
			time.Date(2049, time.December, 31, 23, 59, 59, 0, time.UTC),
			time.Date(1950, time.January, 1, 0, 0, 0, 0, time.UTC),
			time.Date(1996, time.February, 29, 8, 0, 0, 0, time.UTC),
			time.Date(2020, time.June, 1, 14, 0, 0, 0, time.FixedZone(``, 7200)),
		} {
			w := NewWriter(rule)
			if err := w.WriteUTCTime(when); err != nil {
				t.Fatalf("%s[%d] failed [%s encoding]: %v", t.Name(), idx, rule, err)
			}
			out, err := w.Encode()
			w.Free()
			if err != nil {
				t.Fatalf("%s[%d] failed [%s encoding]: %v", t.Name(), idx, rule, err)
			}

			got, err := NewReader(rule, out).ReadUTCTime(2049)
			if err != nil || !got.Equal(when) {
				t.Fatalf("%s[%d] failed [%s round trip %s]: %s, %v",
					t.Name(), idx, rule, when, got, err)
			}
		}
	}
}

func TestUTCTimeGolden(t *testing.T) {
	w := NewWriter(DER)
	defer w.Free()

	when := time.Date(2019, time.March, 15, 10, 30, 45, 0, time.UTC)
	if err := w.WriteUTCTime(when); err != nil {
		t.Fatalf("%s failed [DER encoding]: %v", t.Name(), err)
	}
	if !w.ValueEquals(append([]byte{0x17, 0x0D}, "190315103045Z"...)) {
		t.Fatalf("%s failed [byte cmp.]: got %s", t.Name(), w.Hex())
	}
}

func TestUTCTimePivot(t *testing.T) {
	for idx, tc := range []struct {
		yy    string
		pivot int
		year  int
	}{
		{"49", 2049, 2049},
		{"50", 2049, 1950},
		{"99", 2049, 1999},
		{"76", 2076, 2076},
		{"99", 2076, 1999},
		{"50", 2076, 2050},
	} {
		content := tc.yy + "0101120000Z"
		wire := append([]byte{0x17, byte(len(content))}, content...)

		got, err := NewReader(DER, wire).ReadUTCTime(tc.pivot)
		if err != nil {
			t.Errorf("%s[%d] failed [DER decoding]: %v", t.Name(), idx, err)
			continue
		}
		if got.Year() != tc.year {
			t.Errorf("%s[%d] failed [pivot %d cmp.]: want %d, got %d",
				t.Name(), idx, tc.pivot, tc.year, got.Year())
		}
	}
}

func TestUTCTimeLooseForms(t *testing.T) {
	for idx, tc := range []struct {
		content string
		want    time.Time
	}{
		{"9912312359Z", time.Date(1999, time.December, 31, 23, 59, 0, 0, time.UTC)},
		{"990630120000+0230", time.Date(1999, time.June, 30, 9, 30, 0, 0, time.UTC)},
		{"9906301200-0800", time.Date(1999, time.June, 30, 20, 0, 0, 0, time.UTC)},
	} {
		wire := append([]byte{0x17, byte(len(tc.content))}, tc.content...)

		got, err := NewReader(BER, wire).ReadUTCTime(2049)
		if err != nil || !got.Equal(tc.want) {
			t.Errorf("%s[%d] failed [BER decoding %q]: %s, %v",
				t.Name(), idx, tc.content, got, err)
		}

		// canonical rules demand the full thirteen octet form
		if _, err = NewReader(DER, wire).ReadUTCTime(2049); err == nil ||
			!cntns(err.Error(), "YYMMDDHHMMSSZ") {
			t.Errorf("%s[%d] failed [DER cmp.]: got %v", t.Name(), idx, err)
		}
	}
}

func TestReadUTCTime_malformed(t *testing.T) {
	for idx, tc := range []struct {
		content string
		sub     string
	}{
		{"12345", "UTCTime content truncated"},
		{"190a15103045Z", "UTCTime content malformed"},
		{"191315103045Z", "month out of range: 13"},
		{"190332103045Z", "day out of range: 32"},
		{"000231120000Z", "day out of range: 31"},
		{"990229120000Z", "day out of range: 29"},
		{"190315243045Z", "hour out of range: 24"},
		{"190315106045Z", "minute out of range: 60"},
		{"190315103060Z", "second out of range: 60"},
		{"190315103045ZZ", "content continues past Z"},
		{"190315103045+2500", "offset out of range"},
		{"190315103045+013", "offset must be four digits"},
		{"1903151030", "content lacks a time zone"},
		{"1903151030X", "carries an invalid time zone"},
	} {
		wire := append([]byte{0x17, byte(len(tc.content))}, tc.content...)

		r := NewReader(BER, wire)
		_, err := r.ReadUTCTime(2049)
		if !testIsDecode(err) {
			t.Errorf("%s[%d] failed [classification %q]: got %v",
				t.Name(), idx, tc.content, err)
			continue
		}
		testWantSub(t, err, tc.sub)
		if r.Offset() != 0 {
			t.Errorf("%s[%d] failed [cursor moved]: offset %d", t.Name(), idx, r.Offset())
		}
	}
}

func TestUTCTimeLeapDay(t *testing.T) {
	wire := append([]byte{0x17, 0x0D}, "000229120000Z"...)

	got, err := NewReader(DER, wire).ReadUTCTime(2049)
	if err != nil || got.Month() != time.February || got.Day() != 29 {
		t.Fatalf("%s failed [DER decoding]: %s, %v", t.Name(), got, err)
	}

	// the same content resolves to 1900 under a 1999 pivot, which is
	// not a leap year
	if _, err = NewReader(DER, wire).ReadUTCTime(1999); err == nil ||
		!cntns(err.Error(), "day out of range: 29") {
		t.Fatalf("%s failed [pivot cmp.]: got %v", t.Name(), err)
	}
}

func TestWriteUTCTime_yearRange(t *testing.T) {
	w := NewWriter(BER)
	defer w.Free()

	for idx, when := range []time.Time{
		time.Date(10000, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(0, time.January, 1, 0, 0, 0, 0, time.UTC),
	} {
		if err := w.WriteUTCTime(when); !testIsUsage(err) ||
			!cntns(err.Error(), "year out of range") {
			t.Errorf("%s[%d] failed [range cmp.]: got %v", t.Name(), idx, err)
		}
	}
	if out, err := w.Encode(); err != nil || len(out) != 0 {
		t.Fatalf("%s failed [spill check]: %d octet(s), %v", t.Name(), len(out), err)
	}
}

func TestGeneralizedTimeRoundTrip(t *testing.T) {
	for idx, rule := range encodingRules {
		for _, when := range []time.Time{
			time.Date(2023, time.August, 5, 14, 3, 9, 0, time.UTC),
			time.Date(1888, time.November, 30, 6, 15, 0, 0, time.UTC),
			time.Date(2023, time.August, 5, 14, 3, 9, 500_000_000, time.UTC),
			time.Date(2023, time.August, 5, 14, 3, 9, 120_000_000, time.UTC),
			time.Date(2023, time.August, 5, 14, 3, 9, 123_456_000, time.UTC),
			time.Date(2024, time.February, 29, 10, 0, 0, 0, time.UTC),
			time.Date(50, time.January, 2, 3, 4, 5, 0, time.UTC),
		} {
			w := NewWriter(rule)
			if err := w.WriteGeneralizedTime(when); err != nil {
				t.Fatalf("%s[%d] failed [%s encoding]: %v", t.Name(), idx, rule, err)
			}
			out, err := w.Encode()
			w.Free()
			if err != nil {
				t.Fatalf("%s[%d] failed [%s encoding]: %v", t.Name(), idx, rule, err)
			}

			got, err := NewReader(rule, out).ReadGeneralizedTime(false)
			if err != nil || !got.Equal(when) {
				t.Fatalf("%s[%d] failed [%s round trip %s]: %s, %v",
					t.Name(), idx, rule, when, got, err)
			}
		}
	}
}

func TestGeneralizedTimeGolden(t *testing.T) {
	for idx, tc := range []struct {
		when    time.Time
		content string
	}{
		{time.Date(2023, time.August, 5, 14, 3, 9, 0, time.UTC), "20230805140309Z"},
		{time.Date(1999, time.December, 31, 23, 59, 59, 500_000_000, time.UTC), "19991231235959.5Z"},
		{time.Date(2001, time.February, 3, 4, 5, 6, 123_456_000, time.UTC), "20010203040506.123456Z"},
		{time.Date(50, time.January, 2, 3, 4, 5, 0, time.UTC), "00500102030405Z"},
	} {
		w := NewWriter(DER)
		if err := w.WriteGeneralizedTime(tc.when); err != nil {
			t.Errorf("%s[%d] failed [DER encoding]: %v", t.Name(), idx, err)
			w.Free()
			continue
		}
		want := append([]byte{0x18, byte(len(tc.content))}, tc.content...)
		if !w.ValueEquals(want) {
			t.Errorf("%s[%d] failed [byte cmp.]:\n\twant: %q\n\tgot:  %s",
				t.Name(), idx, tc.content, w.Hex())
		}
		w.Free()
	}
}

func TestReadGeneralizedTime_forms(t *testing.T) {
	comma := append([]byte{0x18, 0x11}, "20230805140309,5Z"...)
	if got, err := NewReader(BER, comma).ReadGeneralizedTime(false); err != nil ||
		got.Nanosecond() != 500_000_000 {
		t.Fatalf("%s failed [BER comma]: %s, %v", t.Name(), got, err)
	}
	if _, err := NewReader(DER, comma).ReadGeneralizedTime(false); err == nil ||
		!cntns(err.Error(), "must use '.'") {
		t.Fatalf("%s failed [DER comma cmp.]: got %v", t.Name(), err)
	}

	padded := append([]byte{0x18, 0x12}, "20230805140309.50Z"...)
	if got, err := NewReader(BER, padded).ReadGeneralizedTime(false); err != nil ||
		got.Nanosecond() != 500_000_000 {
		t.Fatalf("%s failed [BER padded]: %s, %v", t.Name(), got, err)
	}
	if _, err := NewReader(DER, padded).ReadGeneralizedTime(false); err == nil ||
		!cntns(err.Error(), "omit trailing zeros") {
		t.Fatalf("%s failed [DER padded cmp.]: got %v", t.Name(), err)
	}

	offset := append([]byte{0x18, 0x13}, "20230805140309+0130"...)
	want := time.Date(2023, time.August, 5, 12, 33, 9, 0, time.UTC)
	if got, err := NewReader(BER, offset).ReadGeneralizedTime(false); err != nil ||
		!got.Equal(want) {
		t.Fatalf("%s failed [BER offset]: %s, %v", t.Name(), got, err)
	}
	if _, err := NewReader(DER, offset).ReadGeneralizedTime(false); err == nil ||
		!cntns(err.Error(), "must end in Z") {
		t.Fatalf("%s failed [DER offset cmp.]: got %v", t.Name(), err)
	}

	frac := append([]byte{0x18, 0x11}, "20230805140309.5Z"...)
	if _, err := NewReader(BER, frac).ReadGeneralizedTime(true); err == nil ||
		!cntns(err.Error(), "fraction prohibited here") {
		t.Fatalf("%s failed [rejectFrac cmp.]: got %v", t.Name(), err)
	}
}

func TestReadGeneralizedTime_malformed(t *testing.T) {
	for idx, tc := range []struct {
		content string
		sub     string
	}{
		{"2023080514", "GeneralizedTime content truncated"},
		{"2023080514030AZ", "GeneralizedTime content malformed"},
		{"20231305140309Z", "month out of range: 13"},
		{"20230229120000Z", "day out of range: 29"},
		{"20230431120000Z", "day out of range: 31"},
		{"20230805140309", "content lacks a time zone"},
		{"20230805140309.5", "content lacks a time zone"},
		{"20230805140309.Z", "fraction must be 1 through 6 digits"},
		{"20230805140309.1234567Z", "fraction must be 1 through 6 digits"},
		{"20230805140309+01a0", "offset must be four digits"},
		{"20230805140309-2400", "offset out of range"},
		{"20230805140309ZZ", "content continues past Z"},
	} {
		wire := append([]byte{0x18, byte(len(tc.content))}, tc.content...)

		r := NewReader(BER, wire)
		_, err := r.ReadGeneralizedTime(false)
		if !testIsDecode(err) {
			t.Errorf("%s[%d] failed [classification %q]: got %v",
				t.Name(), idx, tc.content, err)
			continue
		}
		testWantSub(t, err, tc.sub)
		if r.Offset() != 0 {
			t.Errorf("%s[%d] failed [cursor moved]: offset %d", t.Name(), idx, r.Offset())
		}
	}
}

func TestWriteGeneralizedTime_yearRange(t *testing.T) {
	w := NewWriter(BER)
	defer w.Free()

	when := time.Date(10000, time.January, 1, 0, 0, 0, 0, time.UTC)
	if err := w.WriteGeneralizedTime(when); !testIsUsage(err) ||
		!cntns(err.Error(), "year out of range") {
		t.Fatalf("%s failed [range cmp.]: got %v", t.Name(), err)
	}
}

func TestTimeSubstituteTag(t *testing.T) {
	w := NewWriter(DER)
	defer w.Free()

	when := time.Date(2019, time.March, 15, 10, 30, 45, 0, time.UTC)
	if err := w.WriteUTCTime(when, ContextTag(0)); err != nil {
		t.Fatalf("%s failed [DER encoding]: %v", t.Name(), err)
	}
	if !w.ValueEquals(append([]byte{0x80, 0x0D}, "190315103045Z"...)) {
		t.Fatalf("%s failed [byte cmp.]: got %s", t.Name(), w.Hex())
	}

	out, _ := w.Encode()
	got, err := NewReader(DER, out).ReadUTCTime(2049, ContextTag(0))
	if err != nil || !got.Equal(when) {
		t.Fatalf("%s failed [DER decoding]: %s, %v", t.Name(), got, err)
	}

	// a GeneralizedTime read must refuse the UTCTime element
	if _, err = NewReader(DER, append([]byte{0x17, 0x0D}, "190315103045Z"...)).
		ReadGeneralizedTime(false); err == nil || !cntns(err.Error(), "unexpected tag") {
		t.Fatalf("%s failed [tag cmp.]: got %v", t.Name(), err)
	}
}
