package symbols

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestAll(t *testing.T) {
	all, err := All()
	require.NoError(t, err)

	assert.Len(t, all, 20)
	assert.Equal(t, Symbol{ID: "bus_stop", Icon: "🚏", Label: "Bus Stop", Category: "transport"}, all[0])

	ids := map[string]bool{}
	for _, symbol := range all {
		assert.False(t, ids[symbol.ID], "duplicate symbol %s", symbol.ID)
		ids[symbol.ID] = true
	}
}

func TestByCategory(t *testing.T) {
	tests := []struct {
		category string
		count    int
	}{
		{"transport", 6},
		{"amenity", 6},
		{"warning", 4},
		{"landmark", 4},
		{"", 20},
		{"unknown", 0},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			symbols, err := ByCategory(tt.category)
			require.NoError(t, err)
			assert.Len(t, symbols, tt.count)

			for _, symbol := range symbols {
				if tt.category != "" {
					assert.Equal(t, tt.category, symbol.Category)
				}
			}
		})
	}
}

func TestHumpIsSpeedBreaker(t *testing.T) {
	symbols, err := ByCategory("warning")
	require.NoError(t, err)

	found := false
	for _, symbol := range symbols {
		if symbol.ID == "hump" {
			found = true
			assert.Equal(t, "Speed Breaker", symbol.Label)
		}
	}
	assert.True(t, found)
}

func TestListCommand(t *testing.T) {
	var output bytes.Buffer
	app := &cli.App{
		Writer:   &output,
		Commands: []*cli.Command{RegisterCLI()},
	}

	require.NoError(t, app.Run([]string{"busmitra", "symbols", "list", "--category", "landmark"}))

	lines := strings.Split(strings.TrimSpace(output.String()), "\n")
	assert.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "landmark\ttemple\t"))
}
