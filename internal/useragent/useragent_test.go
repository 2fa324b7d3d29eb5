package useragent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMobile(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want bool
	}{
		{"empty", "", false},
		{"iphone", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Mobile/15E148", true},
		{"android phone", "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 Chrome/120.0 Mobile Safari/537.36", true},
		{"android tablet", "Mozilla/5.0 (Linux; Android 14; SM-X710) AppleWebKit/537.36 Chrome/120.0 Safari/537.36", false},
		{"desktop chrome", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0 Safari/537.36", false},
		{"desktop mac", "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_0) AppleWebKit/605.1.15 Safari/605.1.15", false},
		{"opera mini", "Opera/9.80 (J2ME/MIDP; Opera Mini/9.80) Presto/2.5.25", true},
		{"vendor prefix", "SAMSUNG-SGH-E250/1.0", true},
		{"nokia prefix", "Nokia6300/2.0", true},
		{"short unknown agent", "abcd", false},
		{"case insensitive", "SOMETHING IPHONE", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMobile(tt.ua))
		})
	}
}
