package ingest

import (
	"strings"
	"testing"
)

// mustChunker builds a chunker or fails the test.
func mustChunker(t *testing.T, size, overlap int) *Chunker {
	t.Helper()
	c, err := NewChunker(size, overlap)
	if err != nil {
		t.Fatalf("NewChunker(%d, %d): %v", size, overlap, err)
	}
	return c
}

// letters returns a deterministic letter sequence of n runes, so window
// boundaries can be compared by content.
func letters(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(byte('a' + i%26))
	}
	return b.String()
}

func TestNewChunkerRejectsBadConfig(t *testing.T) {
	if _, err := NewChunker(0, 0); err == nil {
		t.Error("size 0 accepted")
	}
	if _, err := NewChunker(500, 500); err == nil {
		t.Error("overlap == size accepted; the window would never terminate")
	}
	if _, err := NewChunker(500, 600); err == nil {
		t.Error("overlap > size accepted")
	}
	if _, err := NewChunker(500, -1); err == nil {
		t.Error("negative overlap accepted")
	}
}

func TestChunkShortTexts(t *testing.T) {
	c := mustChunker(t, DefaultChunkSize, DefaultChunkOverlap)

	if got := c.Chunk(""); got != nil {
		t.Errorf("Chunk(\"\") = %v, want nil", got)
	}
	if got := c.Chunk("   \n\t  "); got != nil {
		t.Errorf("Chunk(whitespace) = %v, want nil", got)
	}

	// Exactly the minimum length yields nothing; one more rune yields the text.
	if got := c.Chunk(letters(MinChunkLen)); got != nil {
		t.Errorf("Chunk(50 runes) = %v, want nil", got)
	}
	got := c.Chunk(letters(MinChunkLen + 1))
	if len(got) != 1 || got[0] != letters(MinChunkLen+1) {
		t.Errorf("Chunk(51 runes) = %v, want the text itself", got)
	}
}

func TestChunkSingleWindowAtBoundary(t *testing.T) {
	c := mustChunker(t, DefaultChunkSize, DefaultChunkOverlap)

	text := letters(DefaultChunkSize)
	got := c.Chunk(text)
	if len(got) != 1 || got[0] != text {
		t.Fatalf("Chunk(500 runes) = %d chunks, want exactly [text]", len(got))
	}
}

func TestChunkNormalizesWhitespace(t *testing.T) {
	c := mustChunker(t, DefaultChunkSize, DefaultChunkOverlap)

	raw := "  civil \n\n registration \t\t procedure   guide for the archive desk staff  "
	got := c.Chunk(raw)
	if len(got) != 1 {
		t.Fatalf("Chunk = %d chunks, want 1", len(got))
	}
	want := "civil registration procedure guide for the archive desk staff"
	if got[0] != want {
		t.Errorf("Chunk normalized to %q, want %q", got[0], want)
	}
}

func TestChunkSlidingWindows(t *testing.T) {
	c := mustChunker(t, DefaultChunkSize, DefaultChunkOverlap)

	text := letters(1200)
	got := c.Chunk(text)
	if len(got) != 3 {
		t.Fatalf("Chunk(1200 runes) = %d chunks, want 3", len(got))
	}
	if len(got[0]) != 500 || len(got[1]) != 500 {
		t.Errorf("full windows have lengths %d, %d, want 500 each", len(got[0]), len(got[1]))
	}

	// Consecutive full windows share exactly the overlap region.
	if got[0][400:] != got[1][:100] {
		t.Error("second window does not start with the last 100 runes of the first")
	}
	if got[1][400:] != got[2][:100] {
		t.Error("third window does not start with the last 100 runes of the second")
	}

	// The final window runs to the end of the text.
	if !strings.HasSuffix(text, got[2]) {
		t.Error("last chunk is not a suffix of the input")
	}
}

func TestChunkEveryChunkAboveMinimum(t *testing.T) {
	c := mustChunker(t, DefaultChunkSize, DefaultChunkOverlap)

	for _, n := range []int{501, 777, 1200, 2048, 5000} {
		for i, chunk := range c.Chunk(letters(n)) {
			if len([]rune(chunk)) <= MinChunkLen {
				t.Errorf("len=%d: chunk %d has %d runes, want > %d", n, i, len(chunk), MinChunkLen)
			}
		}
	}
}

func TestChunkDropsShortTail(t *testing.T) {
	// A narrow window configuration where the tail lands under the
	// minimum: windows [0:60), [50:110), [100:120) — the 20-rune tail
	// is dropped, not padded.
	c := mustChunker(t, 60, 10)

	got := c.Chunk(letters(120))
	if len(got) != 2 {
		t.Fatalf("Chunk = %d chunks, want 2 (short tail dropped)", len(got))
	}
	for i, chunk := range got {
		if len(chunk) != 60 {
			t.Errorf("chunk %d has length %d, want 60", i, len(chunk))
		}
	}
}

func TestChunkDeterministic(t *testing.T) {
	c := mustChunker(t, DefaultChunkSize, DefaultChunkOverlap)

	text := letters(3000)
	a, b := c.Chunk(text), c.Chunk(text)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}
