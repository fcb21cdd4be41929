package utils

import "testing"

func TestZeroPad(t *testing.T) {
	cases := []struct {
		n, width int
		expected string
	}{
		{7, 4, "0007"},
		{31, 5, "00031"},
		{12345, 4, "12345"},
		{1, 1, "1"},
	}
	for _, tc := range cases {
		if got := ZeroPad(tc.n, tc.width); got != tc.expected {
			t.Fatalf("ZeroPad(%d, %d) expected %s, got %s", tc.n, tc.width, tc.expected, got)
		}
	}
}

func TestParseSequenceSuffix(t *testing.T) {
	cases := []struct {
		in       string
		expected int
		wantErr  bool
	}{
		{"OFC-0007", 7, false},
		{"RLS-00031", 31, false},
		{"DLV-10000", 10000, false},
		{"OFC-LEGACY", 0, true},
		{"plain", 0, true},
		{"OFC-", 0, true},
	}
	for _, tc := range cases {
		n, err := ParseSequenceSuffix(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseSequenceSuffix(%q) expected error, got %d", tc.in, n)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseSequenceSuffix(%q) error: %v", tc.in, err)
		}
		if n != tc.expected {
			t.Fatalf("ParseSequenceSuffix(%q) expected %d, got %d", tc.in, tc.expected, n)
		}
	}
}

func TestJwtRoundTrip(t *testing.T) {
	token, err := JwtGenerate(7, "Supply Officer", "admin")
	if err != nil {
		t.Fatalf("JwtGenerate: %v", err)
	}

	parsed, err := JwtValidate(token)
	if err != nil {
		t.Fatalf("JwtValidate: %v", err)
	}
	claims, ok := parsed.Claims.(*JwtCustomClaim)
	if !ok {
		t.Fatalf("unexpected claims type %T", parsed.Claims)
	}
	if claims.ID != 7 || claims.Name != "Supply Officer" || claims.Role != "admin" {
		t.Fatalf("claims mismatch: %+v", claims)
	}

	if _, err := JwtValidate(token + "x"); err == nil {
		t.Fatalf("tampered token should not validate")
	}
}
