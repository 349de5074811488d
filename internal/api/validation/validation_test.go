package validation

import "testing"

func TestIsValidEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"first.last@sub.example.co",
		"name+tag@example.io",
	}
	for _, e := range valid {
		if !IsValidEmail(e) {
			t.Errorf("expected %q to be valid", e)
		}
	}

	invalid := []string{
		"",
		"not-an-email",
		"@example.com",
		"user@",
		"user@example",
	}
	for _, e := range invalid {
		if IsValidEmail(e) {
			t.Errorf("expected %q to be invalid", e)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	if !IsValidUUID("6ba7b810-9dad-11d1-80b4-00c04fd430c8") {
		t.Error("expected canonical uuid to be valid")
	}
	if IsValidUUID("6ba7b810-9dad-11d1-80b4") {
		t.Error("expected truncated uuid to be invalid")
	}
	if IsValidUUID("not-a-uuid") {
		t.Error("expected junk to be invalid")
	}
}

func TestIsValidHexColor(t *testing.T) {
	valid := []string{"#6366f1", "#fff", "#ABCDEF"}
	for _, c := range valid {
		if !IsValidHexColor(c) {
			t.Errorf("expected %q to be valid", c)
		}
	}

	invalid := []string{"", "6366f1", "#66f1", "#gggggg", "blue"}
	for _, c := range invalid {
		if IsValidHexColor(c) {
			t.Errorf("expected %q to be invalid", c)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	in := "hello\x00world\x01\n\tok"
	out := SanitizeString(in)
	expected := "helloworld\n\tok"
	if out != expected {
		t.Errorf("expected %q, got %q", expected, out)
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("abcdef", 4); got != "abcd" {
		t.Errorf("expected abcd, got %q", got)
	}
	if got := TruncateString("abc", 10); got != "abc" {
		t.Errorf("expected abc, got %q", got)
	}
	// cuts on rune boundaries, never mid-character
	if got := TruncateString("héllo", 2); got != "hé" {
		t.Errorf("expected hé, got %q", got)
	}
	if got := TruncateString("日本語テキスト", 3); got != "日本語" {
		t.Errorf("expected 日本語, got %q", got)
	}
}
