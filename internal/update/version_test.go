package update

import "testing"

func TestParseVersion(t *testing.T) {
	tests := []struct {
		input    string
		expected Version
		ok       bool
	}{
		{"1.0.0", Version{1, 0, 0}, true},
		{"v1.10.2", Version{1, 10, 2}, true},
		{"v2.0.1-universal", Version{2, 0, 1}, true},
		{"3", Version{3, 0, 0}, true},
		{"1.2", Version{1, 2, 0}, true},
		{"latest", Version{}, false},
		{"", Version{}, false},
		{"1..2", Version{}, false},
		{"1.2.3.4", Version{}, false},
		{"1.-2.0", Version{}, false},
		{"1.+2.0", Version{}, false},
	}

	for _, test := range tests {
		v, err := ParseVersion(test.input)
		if (err == nil) != test.ok {
			t.Errorf("ParseVersion(%q) error = %v, expected ok=%v", test.input, err, test.ok)
			continue
		}
		if test.ok && v != test.expected {
			t.Errorf("ParseVersion(%q) = %v, expected %v", test.input, v, test.expected)
		}
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"1.10.2", "1.9.9", 1},
		{"1.9.9", "1.10.2", -1},
		{"1.0.0", "v1.0.0", 0},
		{"2.0.0", "1.99.99", 1},
		{"latest", "0.0.1", -1},
		{"0.0.0", "latest", 1},
		{"latest", "nightly", 0},
		{"1.2", "1.2.0", 0},
	}

	for _, test := range tests {
		if got := Compare(test.a, test.b); got != test.expected {
			t.Errorf("Compare(%q, %q) = %d, expected %d", test.a, test.b, got, test.expected)
		}
	}
}
