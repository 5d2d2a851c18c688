package callbacks

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestParseData(t *testing.T) {
	cases := []struct {
		in, key, payload string
	}{
		{"buy_12", "buy_12", ""},
		{" catalog ", "catalog", ""},
		{"\fadmin|42", "admin", "42"},
		{"\fadmin", "admin", ""},
		{"\fpair|1|2", "pair", "1|2"},
		{"", "", ""},
		// A literal backslash-f is plain data, not the telebot prefix.
		{`\fbuy|1`, `\fbuy|1`, ""},
	}
	for _, tc := range cases {
		key, payload := ParseData(tc.in)
		if key != tc.key || payload != tc.payload {
			t.Fatalf("ParseData(%q) = %q, %q; want %q, %q", tc.in, key, payload, tc.key, tc.payload)
		}
	}
}

func TestParsePrefersUnique(t *testing.T) {
	key, payload := Parse(&tele.Callback{Unique: "pay", Data: "7"})
	if key != "pay" || payload != "7" {
		t.Fatalf("got %q, %q", key, payload)
	}
	if key, _ := Parse(nil); key != "" {
		t.Fatal("nil callback must yield empty key")
	}
}
