package window

import (
	"testing"

	"github.com/Carmen-Shannon/coverflow/common"
)

func TestIsCloseKey(t *testing.T) {
	tests := []struct {
		key  int
		want bool
	}{
		{common.KeyEsc, true},
		{common.KeyLeft, false},
		{common.KeyEnd, false},
		{common.KeySpace, false},
	}
	for _, tt := range tests {
		if got := isCloseKey(tt.key); got != tt.want {
			t.Errorf("isCloseKey(%d) = %v, want %v", tt.key, got, tt.want)
		}
	}
}
