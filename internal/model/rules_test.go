package model

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPieceMoves(t *testing.T) {
	tests := []struct {
		name  string
		board []string
		from  Square
		side  Side
		want  []Move
	}{
		{
			name: "opening move from the edge",
			board: []string{
				".b.b.b.b",
				"b.b.b.b.",
				".b.b.b.b",
				"........",
				"........",
				"w.w.w.w.",
				".w.w.w.w",
				"w.w.w.w.",
			},
			from: sq(5, 0),
			side: First,
			want: []Move{simple(5, 0, 4, 1)},
		},
		{
			name: "empty square",
			board: []string{
				"........",
				"........",
				"........",
				"........",
				"........",
				"........",
				"........",
				"........",
			},
			from: sq(4, 3),
			side: First,
			want: []Move{},
		},
		{
			name: "piece of the other side",
			board: []string{
				"........",
				"........",
				"........",
				"....b...",
				"........",
				"........",
				"........",
				"........",
			},
			from: sq(3, 4),
			side: First,
			want: []Move{},
		},
		{
			name: "regular first moves toward row 0 only",
			board: []string{
				"........",
				"........",
				"........",
				"........",
				"...w....",
				"........",
				"........",
				"........",
			},
			from: sq(4, 3),
			side: First,
			want: []Move{simple(4, 3, 3, 2), simple(4, 3, 3, 4)},
		},
		{
			name: "regular second moves toward row 7 only",
			board: []string{
				"........",
				"........",
				"........",
				"........",
				"...b....",
				"........",
				"........",
				"........",
			},
			from: sq(4, 3),
			side: Second,
			want: []Move{simple(4, 3, 5, 2), simple(4, 3, 5, 4)},
		},
		{
			name: "first captures backward",
			board: []string{
				"........",
				"........",
				"........",
				"..w.....",
				"...b....",
				"........",
				"........",
				"........",
			},
			from: sq(3, 2),
			side: First,
			want: []Move{simple(3, 2, 2, 1), simple(3, 2, 2, 3), capture(3, 2, 5, 4)},
		},
		{
			name: "second captures backward",
			board: []string{
				"........",
				"........",
				"........",
				"..w.....",
				"...b....",
				"........",
				"........",
				"........",
			},
			from: sq(4, 3),
			side: Second,
			want: []Move{simple(4, 3, 5, 2), simple(4, 3, 5, 4), capture(4, 3, 2, 1)},
		},
		{
			name: "regular cannot jump a friendly piece",
			board: []string{
				"........",
				"........",
				"........",
				"..w.....",
				"...w....",
				"........",
				"........",
				"........",
			},
			from: sq(4, 3),
			side: First,
			want: []Move{simple(4, 3, 3, 4)},
		},
		{
			name: "regular capture needs an empty landing square",
			board: []string{
				"........",
				"........",
				".w......",
				"..b.....",
				"...w....",
				"........",
				"........",
				"........",
			},
			from: sq(4, 3),
			side: First,
			want: []Move{simple(4, 3, 3, 4)},
		},
		{
			name: "regular capture stays on the board",
			board: []string{
				"........",
				"........",
				"........",
				"........",
				"........",
				"........",
				"b.......",
				".w......",
			},
			from: sq(7, 1),
			side: First,
			want: []Move{simple(7, 1, 6, 2)},
		},
		{
			name: "king captures on every empty square beyond the enemy",
			board: []string{
				"........",
				"......b.",
				"........",
				"........",
				"...b....",
				"........",
				"........",
				"W.......",
			},
			from: sq(7, 0),
			side: First,
			want: []Move{
				simple(7, 0, 6, 1),
				simple(7, 0, 5, 2),
				capture(7, 0, 3, 4),
				capture(7, 0, 2, 5),
			},
		},
		{
			name: "king blocked by a friendly piece",
			board: []string{
				"........",
				"........",
				"........",
				"........",
				"...w....",
				"........",
				"........",
				"W.......",
			},
			from: sq(7, 0),
			side: First,
			want: []Move{simple(7, 0, 6, 1), simple(7, 0, 5, 2)},
		},
		{
			name: "king cannot jump two enemies in a row",
			board: []string{
				"........",
				"........",
				"........",
				"....b...",
				"...b....",
				"........",
				"........",
				"W.......",
			},
			from: sq(7, 0),
			side: First,
			want: []Move{simple(7, 0, 6, 1), simple(7, 0, 5, 2)},
		},
		{
			name: "king slides in all four directions",
			board: []string{
				"........",
				"........",
				"........",
				"........",
				"........",
				"..B.....",
				"........",
				"........",
			},
			from: sq(5, 2),
			side: Second,
			want: []Move{
				simple(5, 2, 4, 1), simple(5, 2, 3, 0),
				simple(5, 2, 4, 3), simple(5, 2, 3, 4), simple(5, 2, 2, 5), simple(5, 2, 1, 6), simple(5, 2, 0, 7),
				simple(5, 2, 6, 1), simple(5, 2, 7, 0),
				simple(5, 2, 6, 3), simple(5, 2, 7, 4),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := parseBoard(t, tt.board...)
			got := PieceMoves(b, tt.from, tt.side)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("PieceMoves(%v, %v) mismatch (-want +got):\n%s", tt.from, tt.side, diff)
			}
		})
	}
}

func TestSideMovesInitial(t *testing.T) {
	b := NewBoard()

	want := []Move{
		simple(5, 0, 4, 1),
		simple(5, 2, 4, 1), simple(5, 2, 4, 3),
		simple(5, 4, 4, 3), simple(5, 4, 4, 5),
		simple(5, 6, 4, 5), simple(5, 6, 4, 7),
	}
	if diff := cmp.Diff(want, SideMoves(b, First)); diff != "" {
		t.Errorf("SideMoves(First) mismatch (-want +got):\n%s", diff)
	}
	if got := len(SideMoves(b, Second)); got != 7 {
		t.Errorf("len(SideMoves(Second)) = %d, want 7", got)
	}
}

func TestFilterMandatory(t *testing.T) {
	mixed := []Move{simple(5, 0, 4, 1), capture(4, 1, 2, 3), simple(6, 5, 5, 4)}
	if diff := cmp.Diff([]Move{capture(4, 1, 2, 3)}, FilterMandatory(mixed)); diff != "" {
		t.Errorf("FilterMandatory(mixed) mismatch (-want +got):\n%s", diff)
	}

	quiet := []Move{simple(5, 0, 4, 1), simple(6, 5, 5, 4)}
	if diff := cmp.Diff(quiet, FilterMandatory(quiet)); diff != "" {
		t.Errorf("FilterMandatory(quiet) mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyRegularCapture(t *testing.T) {
	b := parseBoard(t,
		"........",
		"........",
		"........",
		"..w.....",
		"...b....",
		"........",
		"........",
		"........",
	)

	next, ply, err := b.Apply(capture(3, 2, 5, 4))
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	want := parseBoard(t,
		"........",
		"........",
		"........",
		"........",
		"........",
		"....w...",
		"........",
		"........",
	)
	if next != want {
		t.Errorf("board after capture =\n%s\nwant\n%s", next, want)
	}
	if ply.Captured == nil || *ply.Captured != sq(4, 3) {
		t.Errorf("ply.Captured = %v, want (4,3)", ply.Captured)
	}
	if ply.CapturedPiece != (Piece{Side: Second, Rank: Regular}) {
		t.Errorf("ply.CapturedPiece = %+v, want Second regular", ply.CapturedPiece)
	}
	if _, ok := b.Get(sq(4, 3)); !ok {
		t.Error("Apply mutated the receiver")
	}
}

func TestApplyKingCaptureRemovesOnlyTheFirstEnemy(t *testing.T) {
	b := parseBoard(t,
		"........",
		"......b.",
		"........",
		"........",
		"...b....",
		"........",
		"........",
		"W.......",
	)

	next, ply, err := b.Apply(capture(7, 0, 2, 5))
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	want := parseBoard(t,
		"........",
		"......b.",
		".....W..",
		"........",
		"........",
		"........",
		"........",
		"........",
	)
	if next != want {
		t.Errorf("board after king capture =\n%s\nwant\n%s", next, want)
	}
	if ply.Captured == nil || *ply.Captured != sq(4, 3) {
		t.Errorf("ply.Captured = %v, want (4,3)", ply.Captured)
	}
	if ply.Promoted {
		t.Error("king capture reported a promotion")
	}
}

func TestApplyIgnoresCallerCaptureFlag(t *testing.T) {
	tests := []struct {
		name        string
		move        Move
		wantCapture bool
	}{
		{"simple move claimed as capture", capture(3, 2, 2, 1), false},
		{"capture claimed as simple move", simple(3, 2, 5, 4), true},
	}

	b := parseBoard(t,
		"........",
		"........",
		"........",
		"..w.....",
		"...b....",
		"........",
		"........",
		"........",
	)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ply, err := b.Apply(tt.move)
			if err != nil {
				t.Fatalf("Apply() error: %v", err)
			}
			if ply.Move.Capture != tt.wantCapture {
				t.Errorf("ply.Move.Capture = %v, want %v", ply.Move.Capture, tt.wantCapture)
			}
			wantSecond := 1
			if tt.wantCapture {
				wantSecond = 0
			}
			if got := next.Count(Second); got != wantSecond {
				t.Errorf("Count(Second) = %d, want %d", got, wantSecond)
			}
		})
	}
}

func TestApplyPromotes(t *testing.T) {
	tests := []struct {
		name  string
		board []string
		move  Move
		at    Square
		side  Side
	}{
		{
			name: "first reaches row 0",
			board: []string{
				"........",
				"..w.....",
				"........",
				"........",
				"........",
				"........",
				"........",
				"........",
			},
			move: simple(1, 2, 0, 1),
			at:   sq(0, 1),
			side: First,
		},
		{
			name: "second reaches row 7",
			board: []string{
				"........",
				"........",
				"........",
				"........",
				"........",
				"........",
				".b......",
				"........",
			},
			move: simple(6, 1, 7, 2),
			at:   sq(7, 2),
			side: Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := parseBoard(t, tt.board...)
			next, ply, err := b.Apply(tt.move)
			if err != nil {
				t.Fatalf("Apply() error: %v", err)
			}
			if !ply.Promoted {
				t.Error("ply.Promoted = false, want true")
			}
			p, _ := next.Get(tt.at)
			if p != (Piece{Side: tt.side, Rank: King}) {
				t.Errorf("piece at %v = %+v, want %v king", tt.at, p, tt.side)
			}
		})
	}
}

func TestApplyRejects(t *testing.T) {
	b := NewBoard()
	tests := []struct {
		name string
		move Move
		want error
	}{
		{"from off the board", simple(8, 0, 4, 1), ErrInvalidSquare},
		{"to off the board", simple(5, 0, 4, -1), ErrInvalidSquare},
		{"empty from square", simple(4, 1, 3, 2), ErrEmptySquare},
		{"backward simple move", simple(2, 1, 1, 0), ErrIllegalMove},
		{"two squares without capture", simple(5, 0, 3, 2), ErrIllegalMove},
		{"same square", simple(5, 0, 5, 0), ErrIllegalMove},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, _, err := b.Apply(tt.move)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Apply(%v) error = %v, want %v", tt.move, err, tt.want)
			}
			if next != b {
				t.Error("rejected move changed the board")
			}
		})
	}
}

func TestCanContinue(t *testing.T) {
	b := parseBoard(t,
		"........",
		"........",
		"........",
		"..w.....",
		"...b....",
		"........",
		".......w",
		"........",
	)
	if !CanContinue(b, sq(3, 2), First) {
		t.Error("CanContinue(3,2) = false, want true")
	}
	if CanContinue(b, sq(6, 7), First) {
		t.Error("CanContinue(6,7) = true, want false")
	}
}
