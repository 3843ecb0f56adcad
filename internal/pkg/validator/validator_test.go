package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestHasMinLength(t *testing.T) {
	cases := []struct {
		input string
		n     int
		want  bool
	}{
		{"", 1, false},
		{"short", 10, false},
		{"   padded   ", 7, false},
		{"exactly 10", 10, true},
		{"ünïcödé chars", 13, true},
	}
	for _, c := range cases {
		got := HasMinLength(c.input, c.n)
		if got != c.want {
			t.Errorf("HasMinLength(%q, %d) = %v, want %v", c.input, c.n, got, c.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"0188D0F2-7B8C-7B4A-8A2B-6B8B8B8B8B8B",
		"123e4567-e89b-42d3-a456-426614174000",
	}
	invalid := []string{
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"123e4567-e89b-02d3-a456-426614174000",
		"",
	}
	for _, uuid := range valid {
		if !IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = false, want true", uuid)
		}
	}
	for _, uuid := range invalid {
		if IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = true, want false", uuid)
		}
	}
}

func TestIsValidCountryCode(t *testing.T) {
	for _, code := range []string{"US", "GB", "DE"} {
		if !IsValidCountryCode(code) {
			t.Errorf("IsValidCountryCode(%q) = false, want true", code)
		}
	}
	for _, code := range []string{"", "us", "USA", "U1"} {
		if IsValidCountryCode(code) {
			t.Errorf("IsValidCountryCode(%q) = true, want false", code)
		}
	}
}

func TestIsValidColor(t *testing.T) {
	for _, c := range []string{"#10b981", "#FFFFFF"} {
		if !IsValidColor(c) {
			t.Errorf("IsValidColor(%q) = false, want true", c)
		}
	}
	for _, c := range []string{"10b981", "#fff", "#zzzzzz", ""} {
		if IsValidColor(c) {
			t.Errorf("IsValidColor(%q) = true, want false", c)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	if _, ok := IsValidDate("2025-02-28"); !ok {
		t.Error("IsValidDate(2025-02-28) = false, want true")
	}
	for _, s := range []string{"2025-02-30", "28-02-2025", ""} {
		if _, ok := IsValidDate(s); ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestValidationErrors_ToMap(t *testing.T) {
	var errs ValidationErrors
	errs.Add("end_date", "end_date must not be before start_date")
	errs.Add("end_date", "end_date must equal start_date for half-day requests")
	errs.Add("reason", "reason is required")

	m := errs.ToMap()
	if len(m["end_date"]) != 2 {
		t.Errorf("ToMap()[end_date] has %d messages, want 2", len(m["end_date"]))
	}
	if len(m["reason"]) != 1 {
		t.Errorf("ToMap()[reason] has %d messages, want 1", len(m["reason"]))
	}
	if errs.Err() == nil {
		t.Error("Err() = nil, want error")
	}

	var none ValidationErrors
	if none.Err() != nil {
		t.Error("empty Err() != nil")
	}
}
