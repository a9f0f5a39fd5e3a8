package normalize

import "testing"

func TestKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain ascii", "Ben Thanh", "ben thanh"},
		{"vietnamese diacritics", "Bến Thành", "ben thanh"},
		{"d with stroke", "Thảo Điền", "thao dien"},
		{"station prefix stripped", "Ga Bến Thành", "ben thanh"},
		{"underground station stripped", "Ga ngầm Bến Thành", "ben thanh"},
		{"nha ga stripped", "Nhà ga Suối Tiên", "suoi tien"},
		{"english station stripped", "Ben Thanh Station", "ben thanh"},
		{"punctuation dropped", "Bến Thành (Tuyến 1)", "ben thanh tuyen 1"},
		{"whitespace collapsed", "  Suối   Tiên  ", "suoi tien"},
		{"stopword only", "Ga", ""},
		{"embedded ga kept", "Saigon Gardens", "saigon gardens"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Key(tt.input); got != tt.want {
				t.Errorf("Key(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestKeyIdempotent(t *testing.T) {
	inputs := []string{
		"Ga Bến Thành",
		"Nhà ga ngầm Nhà hát Thành phố",
		"Suối Tiên Station",
		"  Phạm Văn Bạch  ",
		"123 Đường Lê Lợi, Quận 1",
	}
	for _, in := range inputs {
		once := Key(in)
		twice := Key(once)
		if once != twice {
			t.Errorf("Key not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestKeyDiacriticInsensitive(t *testing.T) {
	if Key("Bến Thành") != Key("Ben Thanh") {
		t.Errorf("expected %q and %q to normalize equally", "Bến Thành", "Ben Thanh")
	}
	if Key("Thủ Đức") != Key("thu duc") {
		t.Errorf("expected %q and %q to normalize equally", "Thủ Đức", "thu duc")
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Ga Bến Thành", "Bến Thành"},
		{"Nhà ga Suối Tiên", "Suối Tiên"},
		{"Ga ngầm Ba Son", "Ba Son"},
		{"Bến Thành", "Bến Thành"},
		{"  Ga Tân Bình  ", "Tân Bình"},
	}
	for _, tt := range tests {
		if got := DisplayName(tt.input); got != tt.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
