package domain

import "testing"

func TestNormalizeTimeInput(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "whitespace", input: "   ", expected: ""},
		{name: "letters only", input: "ab", expected: ""},
		{name: "single digit hour", input: "9", expected: "9"},
		{name: "two digit hour", input: "13", expected: "13"},
		{name: "hour clamped", input: "25", expected: "23"},
		{name: "hour clamped high", input: "99", expected: "23"},
		{name: "three digits split", input: "137", expected: "13:07"},
		{name: "three digits hour clamped", input: "257", expected: "23"},
		{name: "four digits", input: "1230", expected: "12:30"},
		{name: "four digits minute clamped", input: "1370", expected: "13:59"},
		{name: "four digits both clamped", input: "2999", expected: "23:59"},
		{name: "extra digits truncated", input: "123045", expected: "12:30"},
		{name: "hour and colon", input: "14:", expected: "14:"},
		{name: "partial minute", input: "14:5", expected: "14:5"},
		{name: "complete", input: "14:05", expected: "14:05"},
		{name: "minute clamped", input: "12:75", expected: "12:59"},
		{name: "colon hour clamped", input: "25:10", expected: "23"},
		{name: "colon single digit hour", input: "1:30", expected: "1"},
		{name: "foreign separators stripped", input: "12h30", expected: "12:30"},
		{name: "minute truncated", input: "12:345", expected: "12:34"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeTimeInput(tc.input); got != tc.expected {
				t.Fatalf("NormalizeTimeInput(%q) expected %q got %q", tc.input, tc.expected, got)
			}
		})
	}
}

func TestNormalizeTimeInputIsStableOnCompleteValues(t *testing.T) {
	for _, value := range []string{"00:00", "09:05", "11:30", "13:45", "21:00", "23:59"} {
		once := NormalizeTimeInput(value)
		if once != value {
			t.Fatalf("NormalizeTimeInput(%q) changed a complete value to %q", value, once)
		}
		if twice := NormalizeTimeInput(once); twice != once {
			t.Fatalf("NormalizeTimeInput not idempotent for %q: %q then %q", value, once, twice)
		}
	}
}

func TestFinalizeTimeOnBlur(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{input: "", expected: ""},
		{input: "13", expected: "13:00"},
		{input: "9", expected: "09:00"},
		{input: "14:", expected: "14:00"},
		{input: "14:5", expected: "14:05"},
		{input: "9:30", expected: "9:30"},
		{input: "12:30", expected: "12:30"},
		{input: "1230", expected: "12:30"},
		{input: "137", expected: "13:07"},
		{input: "99", expected: "23:00"},
	}

	for _, tc := range cases {
		if got := FinalizeTimeOnBlur(tc.input); got != tc.expected {
			t.Fatalf("FinalizeTimeOnBlur(%q) expected %q got %q", tc.input, tc.expected, got)
		}
	}
}

func TestTimeToMinutes(t *testing.T) {
	cases := []struct {
		input   string
		minutes int
		ok      bool
	}{
		{input: "00:00", minutes: 0, ok: true},
		{input: "9:30", minutes: 570, ok: true},
		{input: " 13:00 ", minutes: 780, ok: true},
		{input: "23:59", minutes: 1439, ok: true},
		{input: "24:00", ok: false},
		{input: "12:60", ok: false},
		{input: "12", ok: false},
		{input: "12:5", ok: false},
		{input: "", ok: false},
	}

	for _, tc := range cases {
		minutes, ok := TimeToMinutes(tc.input)
		if ok != tc.ok {
			t.Fatalf("TimeToMinutes(%q) ok expected %v got %v", tc.input, tc.ok, ok)
		}
		if ok && minutes != tc.minutes {
			t.Fatalf("TimeToMinutes(%q) expected %d got %d", tc.input, tc.minutes, minutes)
		}
	}
}

func TestIsWithinBusinessHours(t *testing.T) {
	cases := map[string]bool{
		"11:29": false,
		"11:30": true,
		"13:00": true,
		"14:00": true,
		"14:01": false,
		"15:00": false,
		"18:14": false,
		"18:15": true,
		"21:00": true,
		"21:01": false,
		"9:30":  false,
		"abc":   false,
		"":      false,
	}

	for input, expected := range cases {
		if got := IsWithinBusinessHours(input); got != expected {
			t.Fatalf("IsWithinBusinessHours(%q) expected %v got %v", input, expected, got)
		}
	}
}

func TestBusinessHoursString(t *testing.T) {
	if got := DefaultBusinessHours.String(); got != "11:30-14:00 | 18:15-21:00" {
		t.Fatalf("unexpected business hours label %q", got)
	}
}
