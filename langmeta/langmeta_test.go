package langmeta

import "testing"

func TestCanonicalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "pt_br", want: "pt-BR"},
		{in: " KO-kr ", want: "ko-KR"},
		{in: "ru", want: "ru"},
		{in: "", want: ""},
	}

	for _, tc := range cases {
		got := canonicalize(tc.in)
		if got != tc.want {
			t.Fatalf("canonicalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolve(t *testing.T) {
	t.Run("exact match", func(t *testing.T) {
		got := Resolve("ko")
		if got.Name != "한국어" || got.Flag == "" {
			t.Fatalf("unexpected result: %#v", got)
		}
	})

	t.Run("variant fallback", func(t *testing.T) {
		got := Resolve("pt_BR")
		if got.Name != "Português" {
			t.Fatalf("unexpected fallback result: %#v", got)
		}
	})

	t.Run("unknown passthrough", func(t *testing.T) {
		got := Resolve("zz-ZZ")
		if got.Name != "zz-ZZ" || got.Flag != "" {
			t.Fatalf("unexpected unknown result: %#v", got)
		}
	})
}

func TestSupported(t *testing.T) {
	codes := Supported()
	if len(codes) != len(Registry) {
		t.Fatalf("Supported() returned %d codes, registry has %d", len(codes), len(Registry))
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Fatalf("Supported() not sorted: %v", codes)
		}
	}

	if !IsSupported("zh-TW") {
		t.Fatal("zh-TW should resolve to supported base zh")
	}
	if IsSupported("xx") {
		t.Fatal("xx should not be supported")
	}
}
