package pagination_test

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/JaimeStill/scout/pkg/pagination"
	"github.com/JaimeStill/scout/pkg/query"
)

func defaultConfig() pagination.Config {
	return pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
}

func TestConfigFinalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := pagination.Config{}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("finalize failed: %v", err)
		}
		if cfg != defaultConfig() {
			t.Errorf("config = %+v, want %+v", cfg, defaultConfig())
		}
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("TEST_PAGE_SIZE", "50")
		t.Setenv("TEST_MAX_PAGE", "200")

		cfg := pagination.Config{}
		err := cfg.Finalize(&pagination.Env{DefaultPageSize: "TEST_PAGE_SIZE", MaxPageSize: "TEST_MAX_PAGE"})
		if err != nil {
			t.Fatalf("finalize failed: %v", err)
		}
		if cfg.DefaultPageSize != 50 || cfg.MaxPageSize != 200 {
			t.Errorf("config = %+v, want 50/200", cfg)
		}
	})

	t.Run("default exceeds max", func(t *testing.T) {
		cfg := pagination.Config{DefaultPageSize: 200, MaxPageSize: 100}
		err := cfg.Finalize(nil)
		if err == nil || !strings.Contains(err.Error(), "cannot exceed") {
			t.Errorf("error = %v, want default/max violation", err)
		}
	})

	t.Run("merge", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Merge(&pagination.Config{MaxPageSize: 500})
		if cfg.DefaultPageSize != 20 || cfg.MaxPageSize != 500 {
			t.Errorf("config = %+v, want 20/500", cfg)
		}
	})
}

func TestPageRequestNormalize(t *testing.T) {
	tests := []struct {
		name         string
		req          pagination.PageRequest
		wantPage     int
		wantPageSize int
		wantOffset   int
	}{
		{"zero values", pagination.PageRequest{}, 1, 20, 0},
		{"negative page", pagination.PageRequest{Page: -3, PageSize: 10}, 1, 10, 0},
		{"size capped", pagination.PageRequest{Page: 3, PageSize: 1000}, 3, 100, 200},
		{"valid", pagination.PageRequest{Page: 2, PageSize: 15}, 2, 15, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Normalize(defaultConfig())
			if tt.req.Page != tt.wantPage || tt.req.PageSize != tt.wantPageSize {
				t.Errorf("got page=%d size=%d, want page=%d size=%d", tt.req.Page, tt.req.PageSize, tt.wantPage, tt.wantPageSize)
			}
			if got := tt.req.Offset(); got != tt.wantOffset {
				t.Errorf("Offset() = %d, want %d", got, tt.wantOffset)
			}
		})
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	values := url.Values{
		"page":      {"2"},
		"page_size": {"15"},
		"search":    {"golang"},
		"sort":      {"fullName,-createdAt"},
	}

	req := pagination.PageRequestFromQuery(values, defaultConfig())

	if req.Page != 2 || req.PageSize != 15 {
		t.Errorf("page=%d size=%d, want 2/15", req.Page, req.PageSize)
	}
	if req.Search == nil || *req.Search != "golang" {
		t.Errorf("Search = %v, want golang", req.Search)
	}
	want := pagination.SortFields{{Field: "fullName"}, {Field: "createdAt", Descending: true}}
	if len(req.Sort) != 2 || req.Sort[0] != want[0] || req.Sort[1] != want[1] {
		t.Errorf("Sort = %v, want %v", req.Sort, want)
	}

	empty := pagination.PageRequestFromQuery(url.Values{}, defaultConfig())
	if empty.Page != 1 || empty.PageSize != 20 || empty.Search != nil {
		t.Errorf("empty query = %+v, want defaults", empty)
	}
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name           string
		total          int
		wantTotalPages int
	}{
		{"exact division", 100, 5},
		{"remainder", 101, 6},
		{"single page", 5, 1},
		{"empty result", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := pagination.NewPageResult([]string{"a"}, tt.total, 1, 20)
			if result.TotalPages != tt.wantTotalPages {
				t.Errorf("TotalPages = %d, want %d", result.TotalPages, tt.wantTotalPages)
			}
		})
	}

	if result := pagination.NewPageResult[string](nil, 0, 1, 20); result.Data == nil {
		t.Error("Data should be empty slice, not nil")
	}
}

func TestSortFieldsUnmarshal(t *testing.T) {
	want := []query.SortField{{Field: "fullName"}, {Field: "createdAt", Descending: true}}

	for _, input := range []string{
		`"fullName,-createdAt"`,
		`[{"Field":"fullName","Descending":false},{"Field":"createdAt","Descending":true}]`,
	} {
		var sf pagination.SortFields
		if err := json.Unmarshal([]byte(input), &sf); err != nil {
			t.Fatalf("unmarshal %s failed: %v", input, err)
		}
		if len(sf) != 2 || sf[0] != want[0] || sf[1] != want[1] {
			t.Errorf("unmarshal %s = %v, want %v", input, sf, want)
		}
	}
}
