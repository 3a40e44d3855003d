package utils

import (
	"strings"
	"testing"
)

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		name     string
		secret   string
		expected string
	}{
		{
			name:     "Empty secret",
			secret:   "",
			expected: "(empty)",
		},
		{
			name:     "Single char",
			secret:   "a",
			expected: "a***a",
		},
		{
			name:     "Six chars",
			secret:   "abcdef",
			expected: "a***f",
		},
		{
			name:     "Seven chars",
			secret:   "abcdefg",
			expected: "abc***efg",
		},
		{
			name:     "Anthropic style key",
			secret:   "sk-ant-REDACTED",
			expected: "sk-***nop",
		},
		{
			name:     "Multibyte",
			secret:   "密钥密钥密钥密钥",
			expected: "密钥密***钥密钥",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MaskSecret(tt.secret)
			if got != tt.expected {
				t.Errorf("MaskSecret(%q) = %q, want %q", tt.secret, got, tt.expected)
			}
		})
	}
}

func TestMaskSecretHidesMiddle(t *testing.T) {
	secret := "sk-ant-REDACTED"
	masked := MaskSecret(secret)
	if strings.Contains(masked, "supersecret") {
		t.Errorf("MaskSecret() = %q exposes the middle of the secret", masked)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		want  string
	}{
		{"fits", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"cut", "hello world", 6, "hello…"},
		{"zero width", "hello", 0, ""},
		{"wide runes", "配置文件", 5, "配置…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.width); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.want)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("ab", 4); got != "ab  " {
		t.Errorf("PadRight() = %q, want %q", got, "ab  ")
	}
	if got := PadRight("abcdef", 4); got != "abcdef" {
		t.Errorf("PadRight() = %q, want unchanged", got)
	}
}
