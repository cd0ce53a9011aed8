package tui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitPaths(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "   ", nil},
		{"plain", "/a/b.srt /c/d.srt", []string{"/a/b.srt", "/c/d.srt"}},
		{"single quoted", "'/a/my file.srt'", []string{"/a/my file.srt"}},
		{"double quoted", `"/a/my file.srt" /b.srt`, []string{"/a/my file.srt", "/b.srt"}},
		{"escaped spaces", `/a/my\ file.srt`, []string{"/a/my file.srt"}},
		{"file uri", "file:///a/my%20file.srt", []string{"/a/my file.srt"}},
		{"home", "~/subs", []string{filepath.Join(home, "subs")}},
		{"newlines", "/a.srt\n/b.srt\n", []string{"/a.srt", "/b.srt"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitPaths(tt.input))
		})
	}
}
