package poker

import (
	rand "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDeckHasAllCards(t *testing.T) {
	t.Parallel()

	d := NewDeck(rand.New(rand.NewPCG(1, 2)))
	require.Equal(t, DeckSize, d.Remaining())

	seen := make(map[Card]bool)
	for _, c := range d.Deal(DeckSize) {
		require.True(t, c.Valid(), "invalid card %v", c)
		require.False(t, seen[c], "duplicate card %v", c)
		seen[c] = true
	}
	require.Len(t, seen, DeckSize)
	require.Equal(t, 0, d.Remaining())
}

func TestDeckDeterministicWithSeed(t *testing.T) {
	t.Parallel()

	a := NewDeck(rand.New(rand.NewPCG(42, 7))).Deal(10)
	b := NewDeck(rand.New(rand.NewPCG(42, 7))).Deal(10)
	c := NewDeck(rand.New(rand.NewPCG(43, 7))).Deal(10)

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
}

func TestDeckExhaustionPanics(t *testing.T) {
	t.Parallel()

	d := NewDeck(rand.New(rand.NewPCG(1, 1)))
	d.Deal(50)
	require.Panics(t, func() { d.Deal(3) })
}

func TestNilRNGPanics(t *testing.T) {
	t.Parallel()
	require.Panics(t, func() { NewDeck(nil) })
}

func TestStackedDeck(t *testing.T) {
	t.Parallel()

	top := MustParseCards("As Kd 7h")
	d := NewStackedDeck(top...)
	require.Equal(t, top, d.Deal(3))
	require.Equal(t, DeckSize-3, d.Remaining())

	rest := d.Deal(DeckSize - 3)
	for _, c := range rest {
		require.NotContains(t, top, c)
	}

	require.Panics(t, func() { NewStackedDeck(top[0], top[0]) })
}

// TestShuffleFairness checks that every card lands in every position with
// roughly uniform frequency using a chi-squared statistic per position.
func TestShuffleFairness(t *testing.T) {
	t.Parallel()

	const trials = 52 * 400
	rng := rand.New(rand.NewPCG(2024, 10))

	var counts [DeckSize][DeckSize]int // position -> card index
	index := make(map[Card]int, DeckSize)
	for i, c := range NewStackedDeck().Deal(DeckSize) {
		index[c] = i
	}

	for range trials {
		d := NewDeck(rng)
		for pos, c := range d.Deal(DeckSize) {
			counts[pos][index[c]]++
		}
	}

	expected := float64(trials) / DeckSize
	// 51 degrees of freedom; p=0.0001 critical value is about 102.
	// Allow some headroom since 52 positions are tested.
	const critical = 110.0
	for pos := range DeckSize {
		chi2 := 0.0
		for card := range DeckSize {
			diff := float64(counts[pos][card]) - expected
			chi2 += diff * diff / expected
		}
		if chi2 > critical {
			t.Errorf("position %d: chi-squared %.1f exceeds %.1f", pos, chi2, critical)
		}
	}
}
