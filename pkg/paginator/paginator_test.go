package paginator

import "testing"

func TestAdjust(t *testing.T) {
	tests := []struct {
		name      string
		in        PaginateQuery
		wantPage  int
		wantLimit int64
		wantOff   int64
	}{
		{"defaults", PaginateQuery{}, 1, DefaultLimit, 0},
		{"capped", PaginateQuery{Page: 3, Limit: 500}, 3, MaxLimit, 200},
		{"kept", PaginateQuery{Page: 2, Limit: 10}, 2, 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.in
			q.Adjust()
			if q.Page != tt.wantPage || q.Limit != tt.wantLimit || q.Offset() != tt.wantOff {
				t.Errorf("Adjust() = %+v offset %d", q, q.Offset())
			}
		})
	}
}

func TestToResponse(t *testing.T) {
	r := Paginator{Total: 101, Count: 50, PerPage: 50, CurrentPage: 2}.ToResponse()
	if r.TotalPages != 3 || !r.HasNext {
		t.Errorf("ToResponse() = %+v", r)
	}
	r = Paginator{Total: 0, PerPage: 50, CurrentPage: 1}.ToResponse()
	if r.TotalPages != 0 || r.HasNext {
		t.Errorf("ToResponse() empty = %+v", r)
	}
}
