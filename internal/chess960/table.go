package chess960

import "strings"

// Count is the number of Chess960 starting arrangements.
const Count = 960

// Table maps a position index to its white back-rank arrangement (uppercase, files a..h).
type Table interface {
	Len() int
	At(id int) string
}

type staticTable [Count]string

func (t *staticTable) Len() int { return len(t) }

func (t *staticTable) At(id int) string { return t[id] }

// SliceTable adapts a caller-supplied list of arrangements. Entries are trusted.
type SliceTable []string

func (t SliceTable) Len() int { return len(t) }

func (t SliceTable) At(id int) string { return t[id] }

var scharnagl = buildScharnagl()

// DefaultTable returns the Scharnagl-numbered table (518 is the classical setup).
func DefaultTable() Table { return scharnagl }

// knight placements over the five squares left after bishops and queen.
var knightPatterns = [10][2]int{
	{0, 1}, {0, 2}, {0, 3}, {0, 4},
	{1, 2}, {1, 3}, {1, 4},
	{2, 3}, {2, 4},
	{3, 4},
}

func buildScharnagl() *staticTable {
	var t staticTable
	for id := 0; id < Count; id++ {
		t[id] = decodeScharnagl(id)
	}
	return &t
}

func decodeScharnagl(id int) string {
	var rank [8]byte
	n := id

	rank[2*(n%4)+1] = 'B' // light square: b, d, f, h
	n /= 4
	rank[2*(n%4)] = 'B' // dark square: a, c, e, g
	n /= 4

	place(&rank, n%6, 'Q')
	n /= 6

	pattern := knightPatterns[n]
	// second knight first so the first index still points at the same empty square
	place(&rank, pattern[1], 'N')
	place(&rank, pattern[0], 'N')

	place(&rank, 0, 'R')
	place(&rank, 0, 'K')
	place(&rank, 0, 'R')

	return string(rank[:])
}

// place puts piece on the nth empty square of rank.
func place(rank *[8]byte, nth int, piece byte) {
	for i := range rank {
		if rank[i] != 0 {
			continue
		}
		if nth == 0 {
			rank[i] = piece
			return
		}
		nth--
	}
}

// ValidArrangement reports whether s is a legal Chess960 back rank:
// two rooks, knights and bishops, one queen and king, bishops on opposite colours,
// king strictly between the rooks.
func ValidArrangement(s string) bool {
	if len(s) != 8 {
		return false
	}
	counts := map[byte]int{}
	bishops := []int{}
	rooks := []int{}
	king := -1
	for i := 0; i < len(s); i++ {
		c := s[i]
		counts[c]++
		switch c {
		case 'B':
			bishops = append(bishops, i)
		case 'R':
			rooks = append(rooks, i)
		case 'K':
			king = i
		case 'N', 'Q':
		default:
			return false
		}
	}
	if counts['R'] != 2 || counts['N'] != 2 || counts['B'] != 2 || counts['Q'] != 1 || counts['K'] != 1 {
		return false
	}
	if bishops[0]%2 == bishops[1]%2 {
		return false
	}
	return rooks[0] < king && king < rooks[1]
}

// IndexOf returns the id of arrangement in t, or -1.
func IndexOf(t Table, arrangement string) int {
	arrangement = strings.ToUpper(strings.TrimSpace(arrangement))
	for id := 0; id < t.Len(); id++ {
		if t.At(id) == arrangement {
			return id
		}
	}
	return -1
}
