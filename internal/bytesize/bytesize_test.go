package bytesize

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    ByteSize
		wantErr bool
	}{
		{"1024", 1024, false},
		{"100Mi", 100 * MiB, false},
		{"100MiB", 100 * MiB, false},
		{"1Gi", GiB, false},
		{"2GB", 2 * GB, false},
		{"500Ki", 500 * KiB, false},
		{"1.5Gi", ByteSize(1.5 * float64(GiB)), false},
		{"0", 0, false},
		{"10 Mi", 10 * MiB, false},
		{"", 0, true},
		{"abc", 0, true},
		{"10xb", 0, true},
		{"-5Mi", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Parse(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestUnmarshalText(t *testing.T) {
	var b ByteSize
	if err := b.UnmarshalText([]byte("100Mi")); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	if b != 100*MiB {
		t.Errorf("got %d, want %d", b, 100*MiB)
	}

	if err := b.UnmarshalText([]byte("nonsense")); err == nil {
		t.Error("expected error for invalid input")
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		size ByteSize
		want string
	}{
		{100 * MiB, "100.00MiB"},
		{GiB, "1.00GiB"},
		{512, "512B"},
		{2 * KiB, "2.00KiB"},
	}

	for _, tt := range tests {
		if got := tt.size.String(); got != tt.want {
			t.Errorf("String(%d) = %q, want %q", uint64(tt.size), got, tt.want)
		}
	}
}
