package bertlv

/*
err.go contains error constructors and literals used frequently
throughout this package.
*/

import (
	"errors"
	"sync"
)

var mkerr func(string) error = errors.New

/*
UsageError identifies misuse of the package API, such as popping a
level which was never pushed, or encoding while a level remains
open. Instances of this kind surface immediately and never depend
upon the encoded input.
*/
type UsageError struct{ e error }

/*
DecodeError identifies a violation found within encoded input, such
as a truncated element or a form prohibited under the prevailing
[EncodingRule].
*/
type DecodeError struct{ e error }

func (r UsageError) Error() string  { return `USAGE ERROR: ` + r.e.Error() }
func (r DecodeError) Error() string { return `DECODE ERROR: ` + r.e.Error() }

func (r UsageError) Unwrap() error  { return r.e }
func (r DecodeError) Unwrap() error { return r.e }

func usageErrorf(m ...any) error  { return UsageError{mkerrf(m...)} }
func decodeErrorf(m ...any) error { return DecodeError{mkerrf(m...)} }

func usageErr(s string) error  { return UsageError{mkerr(s)} }
func decodeErr(s string) error { return DecodeError{mkerr(s)} }

/*
identifier and length errors.
*/
var (
	errorEmptyIdentifier = decodeErr("empty identifier")
	errorTruncatedTag    = decodeErr("truncated high-tag-number form")
	errorLeadingTagPad   = decodeErr("high-tag-number form begins with 0x80")
	errorTagTooLarge     = decodeErr("tag too large (≥ 2^28)")
	errorEmptyLength     = decodeErr("length bytes not found")
	errorLengthTooLarge  = decodeErr("length bytes too large (>4 octets)")
	errorTruncatedLength = decodeErr("truncated long-form length")
	errorNonMinimalLen   = decodeErr("non-minimal length encoding")
	errorLeadingZeroLen  = decodeErr("leading zero in length")
)

/*
structural errors.
*/
var (
	errorTruncatedContent     = decodeErr("content octets truncated")
	errorIndefiniteProhibited = decodeErr("indefinite length not supported by encoding rule")
	errorIndefinitePrimitive  = decodeErr("indefinite length on primitive encoding")
	errorNoEOC                = decodeErr("missing end-of-contents for indefinite value")
	errorNestingTooDeep       = decodeErr("nesting depth exceeds limit")
	errorTrailingBytes        = decodeErr("trailing bytes beyond complete value")
	errorSetOrder             = decodeErr("SET OF elements not in canonical order")
	errorBadSegment           = decodeErr("non-final segment does not span 1000 octets")
	errorOverlongSegment      = decodeErr("segment spans more than 1000 octets")
	errorNoDataAtOffset       = decodeErr("no data available at offset")
)

/*
usage errors.
*/
var (
	errorFreedWriter = usageErr("operation on freed Writer")
	errorFreedReader = usageErr("operation on freed BufferReader")
)

var errCache sync.Map

func mkerrf(parts ...any) error {
	if len(parts) == 0 {
		return nil
	}

	if len(parts) == 1 {
		if s, ok := parts[0].(string); ok {
			if v, hit := errCache.Load(s); hit {
				return v.(error)
			}
		} else if parts[0] == nil {
			return nil
		}
	}

	b := newStrBuilder()
	for _, p := range parts {
		switch v := p.(type) {
		case Tag:
			b.WriteString(v.String())
		case TLV:
			b.WriteString(v.String())
		case EncodingRule:
			b.WriteString(v.String())
		case error:
			b.WriteString(v.Error())
		case string:
			b.WriteString(v)
		case int:
			b.WriteString(itoa(v))
		default:
			b.WriteString("<not supported>")
		}
	}
	msg := b.String()

	if v, hit := errCache.Load(msg); hit {
		return v.(error)
	}
	e := mkerr(msg)
	errCache.Store(msg, e)
	return e
}
