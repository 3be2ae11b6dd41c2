package buildinfo

import "testing"

func TestShort(t *testing.T) {
	prevV, prevC := Version, Commit
	defer func() { Version, Commit = prevV, prevC }()

	cases := []struct {
		version, commit, want string
	}{
		{"dev", "unknown", "dev"},
		{"v1.2.0", "abc123", "v1.2.0"},
		{"dev", "abc123", "abc123"},
		{"", "", "dev"},
	}
	for _, tc := range cases {
		Version, Commit = tc.version, tc.commit
		if got := Short(); got != tc.want {
			t.Fatalf("Short(%q, %q) = %q, want %q", tc.version, tc.commit, got, tc.want)
		}
	}
}
