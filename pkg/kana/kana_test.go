package kana

import "testing"

func TestToHiragana(t *testing.T) {
	cases := map[string]string{
		"イヌ":   "いぬ",
		"ハシル":  "はしる",
		"テスト":  "てすと",
		"ヴァ":   "ゔぁ",
		"コーヒー": "こーひー",
		"漢字カナ": "漢字かな",
		"":     "",
	}
	for in, want := range cases {
		if got := ToHiragana(in); got != want {
			t.Errorf("ToHiragana(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsKana(t *testing.T) {
	if !IsKana("ひょうじ") || !IsKana("コーヒー") {
		t.Fatalf("expected kana")
	}
	if IsKana("表示") || IsKana("") || IsKana("abc") {
		t.Fatalf("expected non-kana")
	}
}
