package textmatch

import "testing"

func TestContains(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		keyword string
		want    bool
	}{
		{"plain substring", "the key was in the drawer", "key", true},
		{"no match", "nothing of interest", "key", false},
		{"japanese keyword", "あの夜、鍵は机の上にありました", "鍵", true},
		{"full-width ascii folds", "犯人はＲＥＮＺＯだ", "RENZO", true},
		{"half-width katakana folds", "ﾀﾊﾞｺの臭いがした", "タバコ", true},
		{"empty keyword never matches", "anything", "", false},
		{"case sensitive", "the Key was missing", "key", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Contains(tt.text, tt.keyword); got != tt.want {
				t.Errorf("Contains(%q, %q) = %v, want %v", tt.text, tt.keyword, got, tt.want)
			}
		})
	}
}

func TestContainsAny(t *testing.T) {
	text := "壊れた窓から誰かが入ったようだ"
	if !ContainsAny(text, []string{"鍵", "窓"}) {
		t.Error("expected match on second alternative")
	}
	if ContainsAny(text, []string{"鍵", "コーヒー"}) {
		t.Error("expected no match")
	}
	if ContainsAny(text, nil) {
		t.Error("empty keyword list must not match")
	}
}
