package utils

import "testing"

func TestParsePositive(t *testing.T) {
	cases := []struct {
		in   string
		def  int
		want int
	}{
		{"", 20, 20},
		{"3", 20, 3},
		{"0", 20, 20},
		{"-5", 20, 20},
		{"abc", 20, 20},
	}
	for _, tc := range cases {
		if got := ParsePositive(tc.in, tc.def); got != tc.want {
			t.Errorf("ParsePositive(%q, %d) = %d, want %d", tc.in, tc.def, got, tc.want)
		}
	}
}

func TestClampPageSize(t *testing.T) {
	if got := ClampPageSize(0); got != DefaultPageSize {
		t.Errorf("zero size should fall back to default, got %d", got)
	}
	if got := ClampPageSize(1000); got != MaxPageSize {
		t.Errorf("oversized page should clamp, got %d", got)
	}
	if got := ClampPageSize(25); got != 25 {
		t.Errorf("in-range size should pass through, got %d", got)
	}
}

func TestNewPageMeta(t *testing.T) {
	meta := NewPageMeta(2, 10, 25)
	if meta.Pages != 3 {
		t.Errorf("expected 3 pages for 25 rows of 10, got %d", meta.Pages)
	}
	if meta.Offset() != 10 {
		t.Errorf("expected offset 10 for page 2, got %d", meta.Offset())
	}

	empty := NewPageMeta(1, 10, 0)
	if empty.Pages != 0 {
		t.Errorf("expected 0 pages for empty list, got %d", empty.Pages)
	}

	clamped := NewPageMeta(0, 0, 5)
	if clamped.Page != 1 || clamped.PageSize != DefaultPageSize {
		t.Errorf("expected defaults for invalid inputs, got %+v", clamped)
	}
}
