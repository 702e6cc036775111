package utils

import "testing"

func TestValidatePhone(t *testing.T) {
	valid := []string{
		"1234567890",
		"(123) 456-7890",
		"123-456-7890",
		"+1 123-456-7890",
		"123.456.7890",
	}
	for _, phone := range valid {
		if !ValidatePhone(phone) {
			t.Errorf("ValidatePhone(%q) = false, want true", phone)
		}
	}

	invalid := []string{"", "abc", "0123", "+", "12345678901234567890"}
	for _, phone := range invalid {
		if ValidatePhone(phone) {
			t.Errorf("ValidatePhone(%q) = true, want false", phone)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-09-14")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.Year() != 2026 || d.Month() != 9 || d.Day() != 14 {
		t.Errorf("parsed %v", d)
	}
	if _, err := ParseDate("14/09/2026"); err == nil {
		t.Errorf("expected error for non-ISO date")
	}
}

func TestValidateTimeOfDay(t *testing.T) {
	if !ValidateTimeOfDay("09:30") {
		t.Errorf("09:30 should be valid")
	}
	if ValidateTimeOfDay("25:00") {
		t.Errorf("25:00 should be invalid")
	}
	if ValidateTimeOfDay("9am") {
		t.Errorf("9am should be invalid")
	}
}
