package normalize

import "testing"

func TestName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Alice Kouassi", "Alice Kouassi"},
		{"  Alice Kouassi  ", "Alice Kouassi"},
		{"Alice   Kouassi", "Alice Kouassi"},
		{"", ""},
		{"   ", ""},
		{"UPPERCASE NAME", "UPPERCASE NAME"}, // Name preserves case
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Name(tt.input)
			if got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNameKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Alice", "alice"},
		{"  ALICE  ", "alice"},
		{"alice", "alice"},
		{"Jean  Marc", "jean marc"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := NameKey(tt.input)
			if got != tt.want {
				t.Errorf("NameKey(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNameKeyMatchesAcrossVariants(t *testing.T) {
	variants := []string{"Alice", "alice", " ALICE ", "aLiCe  "}
	want := NameKey(variants[0])
	for _, v := range variants {
		if got := NameKey(v); got != want {
			t.Errorf("NameKey(%q) = %q, want %q", v, got, want)
		}
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"07 01 02 03 04", "0701020304"},
		{"0701020304", "0701020304"},
		{" +225 07 01 ", "+2250701"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Phone(tt.input)
			if got != tt.want {
				t.Errorf("Phone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"user@example.com", "user@example.com"},
		{"USER@EXAMPLE.COM", "user@example.com"},
		{"  User@Example.Com  ", "user@example.com"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Email(tt.input)
			if got != tt.want {
				t.Errorf("Email(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
