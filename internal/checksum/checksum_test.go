package checksum

import "testing"

func TestSum_Stable(t *testing.T) {
	a := Sum([]byte("png bytes"))
	if a != Sum([]byte("png bytes")) {
		t.Error("same input produced different sums")
	}
	if a == Sum([]byte("other bytes")) {
		t.Error("different input produced the same sum")
	}
	if len(a) != 64 {
		t.Errorf("len = %d, want 64", len(a))
	}
}

func TestETag(t *testing.T) {
	sum := Sum([]byte("x"))
	tag := ETag(sum)
	if tag != `"`+sum[:16]+`"` {
		t.Errorf("ETag = %s", tag)
	}
	if ETag("abc") != `"abc"` {
		t.Errorf("short sum should be kept whole")
	}
}
