package text

import (
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"Fed Raises Interest Rates", []string{"fed", "raises", "interest", "rates"}},
		{"The cat and the dog", []string{"cat", "dog"}}, // Stop words removed
		{"US-China trade talks!", []string{"china", "trade", "talks"}},
		{"", nil},
		{"a an to of", nil},
		{"AI is up 5%", nil}, // All too short or stop words
	}

	for _, tt := range tests {
		result := Tokenize(tt.input)
		if len(result) != len(tt.expected) {
			t.Errorf("Tokenize(%q) = %v, want tokens %v", tt.input, result, tt.expected)
			continue
		}
		for _, tok := range tt.expected {
			if !result[tok] {
				t.Errorf("Tokenize(%q) missing token %q", tt.input, tok)
			}
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Taiwan  Strait   Tensions", "taiwan strait tensions"},
		{"臺灣海峽", "台湾海峡"}, // Traditional mapped to simplified
		{"戰備警巡 實彈", "战备警巡 实弹"},
		{"", ""},
		{"  MIXED Case  ", "mixed case"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.expected {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestContainsAny(t *testing.T) {
	tests := []struct {
		text     string
		keywords []string
		expected bool
	}{
		{"军舰穿越台湾海峡", []string{"台海", "台湾海峡"}, true},
		{"軍艦穿越臺灣海峽", []string{"台湾海峡"}, true}, // Traditional text, simplified keyword
		{"经济数据发布", []string{"台海", "导弹"}, false},
		{"Export controls are effective immediately", []string{"effective"}, true},
		{"Export controls take effect", []string{"effective"}, false}, // Substring match, not stemming
		{"", []string{"台海"}, false},
		{"some text", nil, false},
	}

	for _, tt := range tests {
		if got := ContainsAny(tt.text, tt.keywords); got != tt.expected {
			t.Errorf("ContainsAny(%q, %v) = %v, want %v", tt.text, tt.keywords, got, tt.expected)
		}
	}
}
