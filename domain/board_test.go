package domain

import (
	"strings"
	"testing"
)

func TestBoardValidate(t *testing.T) {
	cases := []struct {
		name    string
		board   Board
		wantErr bool
	}{
		{"valid", Board{Title: "Work"}, false},
		{"blank title", Board{Title: "  "}, true},
		{"title at limit", Board{Title: strings.Repeat("x", MaxBoardTitleLen)}, false},
		{"title over limit", Board{Title: strings.Repeat("x", MaxBoardTitleLen+1)}, true},
		{"multibyte title at limit", Board{Title: strings.Repeat("é", MaxBoardTitleLen)}, false},
		{"multibyte title over limit", Board{Title: strings.Repeat("é", MaxBoardTitleLen+1)}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.board.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
