/*
Package bertlv implements streaming encoders and decoders for the
ASN.1 Basic, Canonical and Distinguished Encoding Rules (BER, CER
and DER) per ITU-T rec. X.690, operating at the tag-length-value
level without schema compilation or reflection.

# Model

A [Writer] appends elements to a growing buffer: primitive values
through operations such as [Writer.WriteBoolean] and
[WriteInteger], and constructed values by bracketing element runs
with [Writer.PushSequence]/[Writer.PopSequence] and friends. The
rule chosen at construction governs length forms, SET OF ordering
and string segmentation, so the same call sequence yields BER, CER
or DER without further ceremony.

A [Reader] walks an encoded buffer with a cursor that only ever
advances past an element once that element has decoded cleanly
under the reader's rule. [NewReader] borrows the caller's slice;
[NewBufferReader] and the rule constructors such as
[EncodingRule.NewReader] copy into a pooled buffer released by
Free. Constructed string content under BER and CER surfaces as a
*[Fragments] for explicit reassembly.

Operational misuse (unbalanced Push/Pop, freed handles, foreign
substitute tags) reports a [UsageError]; malformed or
rule-violating input reports a [DecodeError]. Capacity shortfalls
on the copying operations report a false ok alongside the needed
octet count rather than an error.

# Diagnostics

Building with the tag "bertlv_debug" compiles in an event tracer
controlled by [EnableDebug] and the BERTLV_DEBUG environment
variable; without the tag every hook is a no-op. [Dump] and the
Hex methods render encoded buffers for inspection under any build.
*/
package bertlv
