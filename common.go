package bertlv

/*
common.go contains private closure aliases and buffer pooling
internals used throughout this package.
*/

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf16"
	"unicode/utf8"
)

var (
	itoa       func(int) string                       = strconv.Itoa
	atoi       func(string) (int, error)              = strconv.Atoi
	fuint      func(uint64, int) string               = strconv.FormatUint
	puint      func(string, int, int) (uint64, error) = strconv.ParseUint
	hexstr     func([]byte) string                    = hex.EncodeToString
	uc         func(string) string                    = strings.ToUpper
	lc         func(string) string                    = strings.ToLower
	trimS      func(string) string                    = strings.TrimSpace
	cntns      func(string, string) bool              = strings.Contains
	hasPfx     func(string, string) bool              = strings.HasPrefix
	lidx       func(string, string) int               = strings.LastIndex
	replaceAll func(string, string, string) string    = strings.ReplaceAll
	splitS     func(string, string) []string          = strings.Split
	join       func([]string, string) string          = strings.Join
	strrpt     func(string, int) string               = strings.Repeat
	bcmp       func([]byte, []byte) int               = bytes.Compare
	beq        func([]byte, []byte) bool              = bytes.Equal
	utf8OK     func(string) bool                      = utf8.ValidString
	utf8OKB    func([]byte) bool                      = utf8.Valid
	utf16Enc   func([]rune) []uint16                  = utf16.Encode
	tnow       func() time.Time                       = time.Now
	newBigInt  func(int64) *big.Int                   = big.NewInt
)

func newStrBuilder() strings.Builder { return strings.Builder{} }

func bool2str(b bool) (s string) {
	if s = `false`; b {
		s = `true`
	}
	return
}

/*
BufferPool abstracts the reusable scratch buffer source drawn upon
by [Writer] and [BufferReader] instances. The package-level default
is backed by a [sync.Pool].

Get returns a pointer to a zero (0) length buffer which may carry
retained capacity from earlier use. Put surrenders a buffer back to
the pool; the caller must not touch the slice afterward.
*/
type BufferPool interface {
	Get() *[]byte
	Put(*[]byte)
}

type syncBufferPool struct{ pool *sync.Pool }

func (r syncBufferPool) Get() *[]byte { return r.pool.Get().(*[]byte) }

func (r syncBufferPool) Put(p *[]byte) {
	*p = (*p)[:0]
	r.pool.Put(p)
}

var bufPool BufferPool = syncBufferPool{pool: &sync.Pool{
	New: func() any { return new([]byte) },
}}

func getBuf() *[]byte  { return bufPool.Get() }
func putBuf(p *[]byte) { bufPool.Put(p) }

func roundup(n int) int { // tiny power-of-two grow helper
	for n&(n-1) != 0 {
		n &= n - 1
	}
	return n << 1
}
