package script

import "strings"

// Text is statically authored bilingual copy.
type Text struct {
	Arabic  string `json:"ar"`
	English string `json:"en"`
}

func Bilingual(arabic, english string) Text {
	return Text{Arabic: arabic, English: english}
}

func (t Text) IsZero() bool { return t.Arabic == "" && t.English == "" }

// String joins both languages the way status lines show them.
func (t Text) String() string {
	parts := make([]string, 0, 2)
	if t.Arabic != "" {
		parts = append(parts, t.Arabic)
	}
	if t.English != "" {
		parts = append(parts, t.English)
	}
	return strings.Join(parts, " - ")
}
