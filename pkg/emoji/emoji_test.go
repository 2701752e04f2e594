package emoji

import "testing"

func TestClean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"1\uFE0F\u20E3", One},
		{One, One},
		{"\U0001F5D1\uFE0F", Wastebasket},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Clean(tt.in); got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNumberIndex(t *testing.T) {
	t.Parallel()

	if got := NumberIndex("3\uFE0F\u20E3"); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
	if got := NumberIndex(KeycapTen); got != 10 {
		t.Errorf("expected 10, got %d", got)
	}
	if got := NumberIndex(Couch); got != 0 {
		t.Errorf("expected 0 for a non numbered marker, got %d", got)
	}
}

func TestNumber(t *testing.T) {
	t.Parallel()

	if got, ok := Number(1); !ok || got != One {
		t.Errorf("Number(1) = %q, %v", got, ok)
	}
	if _, ok := Number(0); ok {
		t.Error("Number(0) should not be ok")
	}
	if _, ok := Number(11); ok {
		t.Error("Number(11) should not be ok")
	}
}
