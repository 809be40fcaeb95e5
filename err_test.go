package bertlv

import (
	"errors"
	"testing"
)

/*
testIsUsage returns a Boolean value indicative of err wrapping a
[UsageError].
*/
func testIsUsage(err error) bool {
	var ue UsageError
	return errors.As(err, &ue)
}

/*
testIsDecode returns a Boolean value indicative of err wrapping a
[DecodeError].
*/
func testIsDecode(err error) bool {
	var de DecodeError
	return errors.As(err, &de)
}

/*
testWantSub fails the test unless err is non-nil and its message
contains sub.
*/
func testWantSub(t *testing.T, err error, sub string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s failed: want an error containing %q, got nil", t.Name(), sub)
	}
	if !cntns(err.Error(), sub) {
		t.Fatalf("%s failed [message cmp.]:\n\twant substring: %s\n\tgot:            %v",
			t.Name(), sub, err)
	}
}

func TestErrorPrefixes(t *testing.T) {
	if got := usageErr("boom").Error(); got != "USAGE ERROR: boom" {
		t.Fatalf("%s failed [usage prefix]: got %q", t.Name(), got)
	}
	if got := decodeErr("boom").Error(); got != "DECODE ERROR: boom" {
		t.Fatalf("%s failed [decode prefix]: got %q", t.Name(), got)
	}
}

func TestErrorClassification(t *testing.T) {
	if !testIsDecode(errorNoEOC) || testIsUsage(errorNoEOC) {
		t.Fatalf("%s failed: errorNoEOC misclassified", t.Name())
	}
	if !testIsUsage(errorFreedReader) || testIsDecode(errorFreedReader) {
		t.Fatalf("%s failed: errorFreedReader misclassified", t.Name())
	}

	// decode paths return the sentinels themselves, so errors.Is
	// works without unwrapping gymnastics.
	if _, _, err := parseLength(nil); !errors.Is(err, errorEmptyLength) {
		t.Fatalf("%s failed [errors.Is]: got %v", t.Name(), err)
	}

	var de DecodeError
	if !errors.As(errorTagTooLarge, &de) {
		t.Fatalf("%s failed [errors.As]", t.Name())
	}
	if de.Unwrap() == nil || de.Unwrap().Error() != "tag too large (≥ 2^28)" {
		t.Fatalf("%s failed [unwrap cmp.]: got %v", t.Name(), de.Unwrap())
	}
}

func TestMkerrf(t *testing.T) {
	err := mkerrf("tag ", BooleanTag, " rejected under ", DER, " at offset ", 5)
	want := "tag UNIVERSAL 1 (BOOLEAN), primitive rejected under DER at offset 5"
	if err == nil || err.Error() != want {
		t.Fatalf("%s failed [message cmp.]:\n\twant: %s\n\tgot:  %v",
			t.Name(), want, err)
	}

	if err = mkerrf("wrapped: ", errorNoEOC); err == nil ||
		!cntns(err.Error(), "missing end-of-contents") {
		t.Fatalf("%s failed [error arg]: got %v", t.Name(), err)
	}

	if err = mkerrf(3.14); err == nil || err.Error() != "<not supported>" {
		t.Fatalf("%s failed [unsupported arg]: got %v", t.Name(), err)
	}

	if mkerrf() != nil || mkerrf(nil) != nil {
		t.Fatalf("%s failed: empty input produced an error", t.Name())
	}
}

func TestMkerrf_cache(t *testing.T) {
	a := mkerrf("recurring condition")
	b := mkerrf("recurring condition")
	if a != b {
		t.Fatalf("%s failed: identical messages yielded distinct errors", t.Name())
	}
}
