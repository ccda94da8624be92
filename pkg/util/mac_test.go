package util

import "testing"

func TestCanonicalMAC(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "cisco dotted",
			raw:  "aabb.ccdd.eeff",
			want: "AA:BB:CC:DD:EE:FF",
		},
		{
			name: "lowercase colons",
			raw:  "aa:bb:cc:dd:ee:ff",
			want: "AA:BB:CC:DD:EE:FF",
		},
		{
			name: "dashes",
			raw:  "AA-BB-CC-DD-EE-FF",
			want: "AA:BB:CC:DD:EE:FF",
		},
		{
			name: "bare hex",
			raw:  "aabbccddeeff",
			want: "AA:BB:CC:DD:EE:FF",
		},
		{
			name: "already canonical",
			raw:  "AA:BB:CC:DD:EE:FF",
			want: "AA:BB:CC:DD:EE:FF",
		},
		{
			name:    "too short",
			raw:     "aabb.ccdd",
			wantErr: true,
		},
		{
			name:    "too long",
			raw:     "aabb.ccdd.eeff.0011",
			wantErr: true,
		},
		{
			name:    "non-hex character",
			raw:     "aabb.ccdd.eegg",
			wantErr: true,
		},
		{
			name:    "empty",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanonicalMAC(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Errorf("CanonicalMAC(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("CanonicalMAC(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCanonicalMACIdempotent(t *testing.T) {
	inputs := []string{"aabb.ccdd.eeff", "00:1a:2b:3c:4d:5e", "FFFFFFFFFFFF"}
	for _, in := range inputs {
		first, err := CanonicalMAC(in)
		if err != nil {
			t.Fatalf("CanonicalMAC(%q) failed: %v", in, err)
		}
		second, err := CanonicalMAC(first)
		if err != nil {
			t.Fatalf("CanonicalMAC(%q) failed on second pass: %v", first, err)
		}
		if first != second {
			t.Errorf("canonicalization not idempotent: %q -> %q -> %q", in, first, second)
		}
	}
}

func TestIsMAC(t *testing.T) {
	if !IsMAC("aabb.ccdd.eeff") {
		t.Error("expected dotted MAC to be valid")
	}
	if IsMAC("not-a-mac") {
		t.Error("expected garbage to be invalid")
	}
}
