package utils

import "testing"

func TestNewPaginationClampsInputs(t *testing.T) {
	cases := []struct {
		name           string
		page, perPage  int
		defaultPerPage int
		totalCount     int64
		wantPage       int
		wantPerPage    int
		wantPages      int
		wantOffset     int
	}{
		{"defaults", 0, 0, 25, 60, 1, 25, 3, 0},
		{"negative page floors at one", -3, 10, 25, 60, 1, 10, 6, 0},
		{"second page offset", 2, 25, 25, 60, 2, 25, 3, 25},
		{"per page capped", 1, 500, 25, 60, 1, 100, 1, 0},
		{"empty list still one page", 1, 10, 10, 0, 1, 10, 1, 0},
		{"exact multiple", 3, 20, 20, 60, 3, 20, 3, 40},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPagination(tc.page, tc.perPage, tc.defaultPerPage, tc.totalCount)
			if p.Page != tc.wantPage || p.PerPage != tc.wantPerPage || p.TotalPages != tc.wantPages {
				t.Errorf("got %+v, want page=%d per_page=%d total_pages=%d",
					p, tc.wantPage, tc.wantPerPage, tc.wantPages)
			}
			if p.Offset() != tc.wantOffset {
				t.Errorf("offset = %d, want %d", p.Offset(), tc.wantOffset)
			}
			if p.TotalCount != tc.totalCount {
				t.Errorf("total_count = %d, want %d", p.TotalCount, tc.totalCount)
			}
		})
	}
}

func TestGenerateRateLimitKey(t *testing.T) {
	if got := GenerateRateLimitKey(7, "/api/v1/sender/test"); got != "rl:7:/api/v1/sender/test" {
		t.Errorf("unexpected key %q", got)
	}
}

func TestParseUint(t *testing.T) {
	if got := ParseUint("42"); got != 42 {
		t.Errorf("got %d, want 42", got)
	}
	if got := ParseUint("not-a-number"); got != 0 {
		t.Errorf("invalid input should parse to 0, got %d", got)
	}
}
