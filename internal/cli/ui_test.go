package cli

import (
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/drainline/pkg/drainage"
)

func TestStatusStyle(t *testing.T) {
	tests := []struct {
		status drainage.Status
		want   lipgloss.TerminalColor
	}{
		{drainage.StatusOK, colorGreen},
		{drainage.StatusWarning, colorYellow},
		{drainage.StatusError, colorRed},
		{"", colorDim},
	}
	for _, tt := range tests {
		if got := statusStyle(tt.status).GetForeground(); got != tt.want {
			t.Errorf("statusStyle(%q) foreground = %v, want %v", tt.status, got, tt.want)
		}
	}
}
