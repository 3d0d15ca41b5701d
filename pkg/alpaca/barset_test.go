package alpaca

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// go test -v --run TestBarSetKeepsServerOrder
func TestBarSetKeepsServerOrder(t *testing.T) {
	raw := []byte(`{"TSLA":[{"t":1,"o":1,"h":2,"l":0.5,"c":1.5,"v":10}],"AAPL":[],"MSFT":null,"BRK\/B":[{"t":2,"c":3}]}`)

	var set BarSet
	require.NoError(t, json.Unmarshal(raw, &set))

	assert.Equal(t, []string{"TSLA", "AAPL", "MSFT", "BRK/B"}, set.Symbols())
	assert.Equal(t, 4, set.Len())
	assert.Len(t, set.Get("TSLA"), 1)
	assert.Empty(t, set.Get("AAPL"))
	assert.Nil(t, set.Get("MSFT"))
	assert.Nil(t, set.Get("GOOG"))
	assert.Equal(t, 3.0, set.Get("BRK/B")[0].Close)

	m := set.Map()
	assert.Len(t, m, 4)
	assert.Contains(t, m, "MSFT")
}

// go test -v --run TestBarSetMarshalOrder
func TestBarSetMarshalOrder(t *testing.T) {
	var set BarSet
	require.NoError(t, json.Unmarshal([]byte(`{"Z":[{"t":1,"o":1,"h":1,"l":1,"c":1,"v":1}],"A":[]}`), &set))

	out, err := json.Marshal(set)
	require.NoError(t, err)
	assert.Equal(t, `{"Z":[{"t":1,"o":1,"h":1,"l":1,"c":1,"v":1}],"A":[]}`, string(out))
}

// go test -v --run TestBarSetEmptyAndNull
func TestBarSetEmptyAndNull(t *testing.T) {
	for _, raw := range []string{`{}`, `null`, ` { } `} {
		var set BarSet
		require.NoError(t, json.Unmarshal([]byte(raw), &set), raw)
		assert.Equal(t, 0, set.Len())
		assert.Empty(t, set.Symbols())
	}
}

// go test -v --run TestBarSetRejectsNonArrays
func TestBarSetRejectsNonArrays(t *testing.T) {
	for _, raw := range []string{`{"AAPL":{"t":1}}`, `{"AAPL":"x"}`, `[1,2]`, `{"AAPL":[{"t":"soon"}]}`} {
		var set BarSet
		assert.Error(t, json.Unmarshal([]byte(raw), &set), raw)
	}
}

// go test -v --run TestTimeFrame
func TestTimeFrame(t *testing.T) {
	for _, s := range []string{"minute", "1Min", "5Min", "15Min", "day", "1D"} {
		tf, err := ParseTimeFrame(s)
		require.NoError(t, err)
		assert.True(t, tf.IsValid())
		assert.Equal(t, s, string(tf))
	}

	_, err := ParseTimeFrame("1Hour")
	assert.Error(t, err)
	assert.False(t, TimeFrame("").IsValid())
}
