package bertlv

/*
time.go contains the writer and reader operations pertaining to the
ASN.1 UTCTime and GeneralizedTime types.
*/

import "time"

func timeDigit(b byte) bool { return '0' <= b && b <= '9' }

func timePair(s string, i int) int {
	return int(s[i]-'0')*10 + int(s[i+1]-'0')
}

/*
WriteUTCTime appends a UTCTime element carrying t, converted to
UTC, in the canonical thirteen (13) octet YYMMDDHHMMSSZ form
mandated by § 11.8 of ITU-T rec. X.690. The same form is written
under every rule. Years outside 1 through 9999 are a usage error.
*/
func (r *Writer) WriteUTCTime(t time.Time, tag ...Tag) (err error) {
	if err = r.check(); err != nil {
		return
	}

	var tg Tag
	if tg, err = r.effectiveTag(TagUTCTime, false, tag); err != nil {
		return
	}

	u := t.UTC()
	if y := u.Year(); y < 1 || y > 9999 {
		err = usageErrorf("UTCTime year out of range: ", y)
		return
	}

	var b [13]byte
	i := 0
	put2 := func(v int) {
		b[i] = byte('0' + v/10)
		b[i+1] = byte('0' + v%10)
		i += 2
	}
	put2(u.Year() % 100)
	put2(int(u.Month()))
	put2(u.Day())
	put2(u.Hour())
	put2(u.Minute())
	put2(u.Second())
	b[12] = 'Z'

	r.appendPrimitive(tg, b[:])
	debugPrim(newLItem(string(b[:]), "UTCTime"))

	return
}

/*
ReadUTCTime decodes the UTCTime element at the cursor and advances
past it. The two (2) digit year is resolved against pivot, the
latest full year the caller deems expressible: 2049 reproduces the
fixed 1950 through 2049 window of RFC 5280.

BER accepts the loose YYMMDDHHMM[SS](Z|±HHMM) forms; CER and DER
demand the canonical YYMMDDHHMMSSZ form.
*/
func (r *Reader) ReadUTCTime(pivot int, tag ...Tag) (t time.Time, err error) {
	var tlv TLV
	var fullLen int
	if tlv, fullLen, err = r.expectPrimitive(TagUTCTime, tag); err != nil {
		return
	}
	if t, err = parseUTCTimeContent(string(tlv.Value), pivot, r.rule.canonical()); err != nil {
		return
	}

	r.advance(fullLen)
	debugPrim(newLItem(string(tlv.Value), "UTCTime"))

	return
}

/*
WriteGeneralizedTime appends a GeneralizedTime element carrying t,
converted to UTC, in the canonical form of § 11.7 of ITU-T rec.
X.690: fourteen (14) digits, a fractional second part only when
nonzero with trailing zeros trimmed at microsecond precision, and
the terminating Z. The same form is written under every rule.
*/
func (r *Writer) WriteGeneralizedTime(t time.Time, tag ...Tag) (err error) {
	if err = r.check(); err != nil {
		return
	}

	var tg Tag
	if tg, err = r.effectiveTag(TagGeneralizedTime, false, tag); err != nil {
		return
	}

	u := t.UTC()
	year := u.Year()
	if year < 1 || year > 9999 {
		err = usageErrorf("GeneralizedTime year out of range: ", year)
		return
	}

	var buf [22]byte // 14 base + '.' + 6 frac + 'Z'
	i := 0
	put2 := func(v int) {
		buf[i] = byte('0' + v/10)
		buf[i+1] = byte('0' + v%10)
		i += 2
	}
	put2(year / 100)
	put2(year % 100)
	put2(int(u.Month()))
	put2(u.Day())
	put2(u.Hour())
	put2(u.Minute())
	put2(u.Second())

	if nsec := u.Nanosecond(); nsec != 0 {
		frac := nsec / 1_000
		buf[i] = '.'
		i++
		start := i
		for p := 100_000; p >= 1; p /= 10 {
			buf[i] = byte('0' + (frac/p)%10)
			i++
		}
		for i > start && buf[i-1] == '0' {
			i--
		}
	}
	buf[i] = 'Z'
	i++

	r.appendPrimitive(tg, buf[:i])
	debugPrim(newLItem(string(buf[:i]), "GeneralizedTime"))

	return
}

/*
ReadGeneralizedTime decodes the GeneralizedTime element at the
cursor and advances past it. rejectFrac refuses any fractional
second part, as profiles such as RFC 5280 require.

BER accepts comma fractions and ±HHMM offsets; CER and DER demand
the canonical form: a dot fraction without trailing zeros, and the
terminating Z.
*/
func (r *Reader) ReadGeneralizedTime(rejectFrac bool, tag ...Tag) (t time.Time, err error) {
	var tlv TLV
	var fullLen int
	if tlv, fullLen, err = r.expectPrimitive(TagGeneralizedTime, tag); err != nil {
		return
	}
	if t, err = parseGeneralizedTimeContent(string(tlv.Value),
		r.rule.canonical(), rejectFrac); err != nil {
		return
	}

	r.advance(fullLen)
	debugPrim(newLItem(string(tlv.Value), "GeneralizedTime"))

	return
}

func parseUTCTimeContent(s string, pivot int, canonical bool) (t time.Time, err error) {
	if canonical && (len(s) != 13 || s[12] != 'Z') {
		err = decodeErrorf("UTCTime must use the YYMMDDHHMMSSZ form under canonical rules")
		return
	}
	if len(s) < 10 {
		err = decodeErrorf("UTCTime content truncated")
		return
	}
	for k := 0; k < 10; k++ {
		if !timeDigit(s[k]) {
			err = decodeErrorf("UTCTime content malformed")
			return
		}
	}

	yy := timePair(s, 0)
	mo := timePair(s, 2)
	dd := timePair(s, 4)
	hr := timePair(s, 6)
	mn := timePair(s, 8)

	i, sc := 10, 0
	if len(s) >= 12 && timeDigit(s[10]) && timeDigit(s[11]) {
		sc = timePair(s, 10)
		i = 12
	}

	var loc *time.Location
	if loc, err = parseZone(s, i, "UTCTime"); err != nil {
		return
	}

	century := pivot - pivot%100
	year := century + yy
	if year > pivot {
		year -= 100
	}
	if err = checkClock("UTCTime", year, mo, dd, hr, mn, sc); err != nil {
		return
	}

	t = time.Date(year, time.Month(mo), dd, hr, mn, sc, 0, loc)

	return
}

func parseGeneralizedTimeContent(s string, canonical, rejectFrac bool) (t time.Time, err error) {
	if len(s) < 14 {
		err = decodeErrorf("GeneralizedTime content truncated")
		return
	}
	for k := 0; k < 14; k++ {
		if !timeDigit(s[k]) {
			err = decodeErrorf("GeneralizedTime content malformed")
			return
		}
	}

	year := timePair(s, 0)*100 + timePair(s, 2)
	mo := timePair(s, 4)
	dd := timePair(s, 6)
	hr := timePair(s, 8)
	mn := timePair(s, 10)
	sc := timePair(s, 12)

	i, nsec := 14, 0
	if i < len(s) && (s[i] == '.' || s[i] == ',') {
		if rejectFrac {
			err = decodeErrorf("GeneralizedTime fraction prohibited here")
			return
		}
		if canonical && s[i] == ',' {
			err = decodeErrorf("GeneralizedTime fraction must use '.' under canonical rules")
			return
		}
		i++
		start := i
		for i < len(s) && timeDigit(s[i]) {
			i++
		}
		fd := i - start
		if fd == 0 || fd > 6 {
			err = decodeErrorf("GeneralizedTime fraction must be 1 through 6 digits")
			return
		}
		if canonical && s[i-1] == '0' {
			err = decodeErrorf("GeneralizedTime fraction must omit trailing zeros under canonical rules")
			return
		}
		frac := 0
		for j := start; j < i; j++ {
			frac = frac*10 + int(s[j]-'0')
		}
		for ; fd < 6; fd++ {
			frac *= 10
		}
		nsec = frac * 1_000
	}

	if canonical && (i >= len(s) || s[i] != 'Z') {
		err = decodeErrorf("GeneralizedTime must end in Z under canonical rules")
		return
	}

	var loc *time.Location
	if loc, err = parseZone(s, i, "GeneralizedTime"); err != nil {
		return
	}
	if err = checkClock("GeneralizedTime", year, mo, dd, hr, mn, sc); err != nil {
		return
	}

	t = time.Date(year, time.Month(mo), dd, hr, mn, sc, nsec, loc)

	return
}

func parseZone(s string, i int, label string) (*time.Location, error) {
	if i >= len(s) {
		return nil, decodeErrorf(label, " content lacks a time zone")
	}

	switch s[i] {
	case 'Z':
		if i != len(s)-1 {
			return nil, decodeErrorf(label, " content continues past Z")
		}
		return time.UTC, nil
	case '+', '-':
		if i+5 != len(s) {
			return nil, decodeErrorf(label, " offset must be four digits")
		}
		for k := 1; k <= 4; k++ {
			if !timeDigit(s[i+k]) {
				return nil, decodeErrorf(label, " offset must be four digits")
			}
		}
		hh, mm := timePair(s, i+1), timePair(s, i+3)
		if hh > 23 || mm > 59 {
			return nil, decodeErrorf(label, " offset out of range")
		}
		off := (hh*60 + mm) * 60
		if s[i] == '-' {
			off = -off
		}
		return time.FixedZone(``, off), nil
	}

	return nil, decodeErrorf(label, " content carries an invalid time zone")
}

var monthDays = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func daysInMonth(year, mo int) (n int) {
	n = monthDays[mo]
	if mo == 2 && year%4 == 0 && (year%100 != 0 || year%400 == 0) {
		n = 29
	}
	return
}

func checkClock(label string, year, mo, dd, hr, mn, sc int) (err error) {
	switch {
	case mo < 1 || mo > 12:
		err = decodeErrorf(label, " month out of range: ", mo)
	case dd < 1 || dd > daysInMonth(year, mo):
		err = decodeErrorf(label, " day out of range: ", dd)
	case hr > 23:
		err = decodeErrorf(label, " hour out of range: ", hr)
	case mn > 59:
		err = decodeErrorf(label, " minute out of range: ", mn)
	case sc > 59:
		err = decodeErrorf(label, " second out of range: ", sc)
	}

	return
}
