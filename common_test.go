package bertlv

import "testing"

func TestBool2str(t *testing.T) {
	if bool2str(true) != `true` || bool2str(false) != `false` {
		t.Fatalf("%s failed [string cmp.]", t.Name())
	}
}

func TestRoundup(t *testing.T) {
	for idx, tc := range []struct {
		in, want int
	}{
		{1, 2},
		{2, 4},
		{3, 4},
		{5, 8},
		{1000, 1024},
		{1024, 2048},
	} {
		if got := roundup(tc.in); got != tc.want {
			t.Errorf("%s[%d] failed [cmp. %d]: want %d, got %d",
				t.Name(), idx, tc.in, tc.want, got)
		}
	}
}

func TestBufferPoolReuse(t *testing.T) {
	p := getBuf()
	*p = append(*p, 0xAA, 0xBB)
	putBuf(p)

	q := getBuf()
	defer putBuf(q)
	if len(*q) != 0 {
		t.Fatalf("%s failed [reset cmp.]: %d octet(s) retained", t.Name(), len(*q))
	}
}

type countingPool struct {
	gets, puts int
}

func (r *countingPool) Get() *[]byte  { r.gets++; return new([]byte) }
func (r *countingPool) Put(p *[]byte) { r.puts++ }

func TestWriterCustomPool(t *testing.T) {
	pool := &countingPool{}

	w := NewWriterPool(DER, pool)
	if err := w.WriteBoolean(true); err != nil {
		t.Fatalf("%s failed [DER encoding]: %v", t.Name(), err)
	}
	if !w.ValueEquals([]byte{0x01, 0x01, 0xFF}) {
		t.Fatalf("%s failed [byte cmp.]: got %s", t.Name(), w.Hex())
	}

	w.Free()
	w.Free() // second release must not reach the pool
	if pool.gets != 1 || pool.puts != 1 {
		t.Fatalf("%s failed [pool cmp.]: %d get(s), %d put(s)",
			t.Name(), pool.gets, pool.puts)
	}
}
