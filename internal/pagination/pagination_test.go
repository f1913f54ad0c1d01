package pagination

import (
	"net/url"
	"testing"
)

func TestFromQuery(t *testing.T) {
	tests := []struct {
		query     string
		wantPage  int
		wantLimit int
	}{
		{"", 1, 10},
		{"page=2&limit=25", 2, 25},
		{"page=0&limit=0", 1, 10},
		{"page=-3", 1, 10},
		{"page=abc&limit=xyz", 1, 10},
	}

	for _, tt := range tests {
		q, _ := url.ParseQuery(tt.query)
		p := FromQuery(q)
		if p.Page != tt.wantPage || p.Limit != tt.wantLimit {
			t.Errorf("FromQuery(%q) = {%d %d}, want {%d %d}", tt.query, p.Page, p.Limit, tt.wantPage, tt.wantLimit)
		}
	}
}

func TestOffset(t *testing.T) {
	if got := (Params{Page: 1, Limit: 10}).Offset(); got != 0 {
		t.Errorf("Offset page 1 = %d, want 0", got)
	}
	if got := (Params{Page: 3, Limit: 25}).Offset(); got != 50 {
		t.Errorf("Offset page 3 limit 25 = %d, want 50", got)
	}
}

func TestCompose(t *testing.T) {
	docs := make([]int, 10)

	// 25 docs, page 2 of 3
	r := Compose(docs, 25, Params{Page: 2, Limit: 10})
	if r.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", r.TotalPages)
	}
	if !r.NextPage || !r.PrevPage {
		t.Errorf("page 2/3: nextPage=%v prevPage=%v, want true/true", r.NextPage, r.PrevPage)
	}

	// last page
	r = Compose(make([]int, 5), 25, Params{Page: 3, Limit: 10})
	if r.NextPage {
		t.Error("page 3/3: nextPage = true, want false")
	}
	if !r.PrevPage {
		t.Error("page 3/3: prevPage = false, want true")
	}

	// first and only page
	r = Compose(docs, 10, Params{Page: 1, Limit: 10})
	if r.NextPage || r.PrevPage {
		t.Errorf("single page: nextPage=%v prevPage=%v, want false/false", r.NextPage, r.PrevPage)
	}

	// empty result keeps docs non-nil
	r = Compose[int](nil, 0, Params{Page: 1, Limit: 10})
	if r.Docs == nil {
		t.Error("Docs = nil, want empty slice")
	}
	if r.TotalPages != 0 {
		t.Errorf("TotalPages = %d, want 0", r.TotalPages)
	}
}
