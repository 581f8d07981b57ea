package triage

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"recon-triage/internal/core/probe"
)

func TestTagDefaults(t *testing.T) {
	patterns := DefaultPatterns()

	tests := []struct {
		name string
		rec  *probe.HostRecord
		want []InterestTag
	}{
		{
			name: "admin path",
			rec:  &probe.HostRecord{Host: "a.example.com", FinalURL: "https://a.example.com/admin"},
			want: []InterestTag{TagAdminPanel},
		},
		{
			name: "login path case insensitive",
			rec:  &probe.HostRecord{Host: "a.example.com", FinalURL: "https://a.example.com/LOGIN"},
			want: []InterestTag{TagAdminPanel},
		},
		{
			name: "admin title",
			rec:  &probe.HostRecord{Host: "a.example.com", FinalURL: "https://a.example.com/", Title: "Admin Console"},
			want: []InterestTag{TagAdminPanel},
		},
		{
			name: "api path",
			rec:  &probe.HostRecord{Host: "b.example.com", FinalURL: "https://b.example.com/api/users"},
			want: []InterestTag{TagAPIEndpoint},
		},
		{
			name: "graphql path",
			rec:  &probe.HostRecord{Host: "b.example.com", FinalURL: "https://b.example.com/graphql"},
			want: []InterestTag{TagAPIEndpoint},
		},
		{
			name: "api host prefix",
			rec:  &probe.HostRecord{Host: "api.example.com", FinalURL: "https://api.example.com/"},
			want: []InterestTag{TagAPIEndpoint},
		},
		{
			name: "dev port in final url",
			rec:  &probe.HostRecord{Host: "c.example.com", FinalURL: "http://c.example.com:3000/"},
			want: []InterestTag{TagDevServer},
		},
		{
			name: "dev port in host",
			rec:  &probe.HostRecord{Host: "c.example.com:8080"},
			want: []InterestTag{TagDevServer},
		},
		{
			name: "standard port is not dev",
			rec:  &probe.HostRecord{Host: "c.example.com", FinalURL: "https://c.example.com:443/"},
			want: nil,
		},
		{
			name: "all three tags in fixed order",
			rec:  &probe.HostRecord{Host: "api.example.com", FinalURL: "http://api.example.com:8080/admin"},
			want: []InterestTag{TagAdminPanel, TagAPIEndpoint, TagDevServer},
		},
		{
			name: "plain host has no tags",
			rec:  &probe.HostRecord{Host: "www.example.com", FinalURL: "https://www.example.com/"},
			want: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := patterns.Tag(tc.rec)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("unexpected tags (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTagNeverInspectsStatus(t *testing.T) {
	patterns := DefaultPatterns()
	base := probe.HostRecord{Host: "a.example.com", FinalURL: "https://a.example.com/admin"}

	variants := []probe.HostRecord{base, base, base, base}
	variants[1].StatusCode, variants[1].HasStatus = 200, true
	variants[2].StatusCode, variants[2].HasStatus = 500, true
	variants[3].Err = "connection refused"

	want := patterns.Tag(&variants[0])
	for i := range variants {
		if diff := cmp.Diff(want, patterns.Tag(&variants[i])); diff != "" {
			t.Fatalf("tags changed with probe outcome (variant %d):\n%s", i, diff)
		}
	}
}

func TestTagWithOverrides(t *testing.T) {
	patterns := DefaultPatterns().WithOverrides(
		[]string{"/backoffice"},
		[]string{"/internal-api"},
		[]string{"9999"},
	)

	rec := &probe.HostRecord{Host: "a.example.com", FinalURL: "https://a.example.com/admin"}
	if got := patterns.Tag(rec); len(got) != 0 {
		t.Fatalf("default admin path should not match after override, got %v", got)
	}

	rec = &probe.HostRecord{Host: "a.example.com", FinalURL: "https://a.example.com/backoffice"}
	if diff := cmp.Diff([]InterestTag{TagAdminPanel}, patterns.Tag(rec)); diff != "" {
		t.Fatalf("override admin path (-want +got):\n%s", diff)
	}

	rec = &probe.HostRecord{Host: "a.example.com:9999"}
	if diff := cmp.Diff([]InterestTag{TagDevServer}, patterns.Tag(rec)); diff != "" {
		t.Fatalf("override dev port (-want +got):\n%s", diff)
	}
}

func TestWithOverridesKeepsDefaultsWhenEmpty(t *testing.T) {
	patterns := DefaultPatterns().WithOverrides(nil, nil, nil)
	if diff := cmp.Diff(DefaultPatterns(), patterns); diff != "" {
		t.Fatalf("empty overrides must keep defaults (-want +got):\n%s", diff)
	}
}
