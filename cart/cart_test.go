package cart

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-restaurant/api"
)

func item(id int, name string, price float64) api.MenuItem {
	return api.MenuItem{ItemID: id, Name: name, Price: price}
}

func TestAddIncrementsExistingLine(t *testing.T) {
	c := New()
	c.Add(item(5, "Biryani", 450))
	c.Add(item(5, "Biryani", 450))

	require.Equal(t, 1, c.Len())
	assert.Equal(t, 2, c.Lines()[0].Quantity)
	assert.Equal(t, 900.0, c.Total())
}

func TestRemoveDecrementsThenDeletes(t *testing.T) {
	c := New()
	c.Add(item(5, "Biryani", 450))
	c.Add(item(5, "Biryani", 450))
	c.Add(item(7, "Naan", 60))

	c.Remove(5)
	require.Equal(t, 2, c.Len())
	assert.Equal(t, 1, c.Lines()[0].Quantity)

	// Removing the sole remaining unit deletes the line entirely
	c.Remove(5)
	require.Equal(t, 1, c.Len())
	assert.Equal(t, 7, c.Lines()[0].ItemID)
}

func TestRemoveUnknownItemIsNoOp(t *testing.T) {
	c := New()
	c.Add(item(5, "Biryani", 450))
	c.Remove(99)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 450.0, c.Total())
}

func TestClear(t *testing.T) {
	c := New()
	c.Add(item(5, "Biryani", 450))
	c.Clear()
	assert.True(t, c.Empty())
	assert.Equal(t, 0.0, c.Total())
}

func TestPayloadOmitsPrice(t *testing.T) {
	c := New()
	c.Add(item(5, "Biryani", 450))
	c.Add(item(5, "Biryani", 450))

	payload := c.Payload()
	require.Len(t, payload.Items, 1)
	assert.Equal(t, api.CreateOrderItem{ItemID: 5, Quantity: 2}, payload.Items[0])
}

// Total must equal the running sum of price × quantity no matter what
// sequence of adds and removes produced the cart.
func TestTotalInvariantUnderRandomOps(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	menu := []api.MenuItem{
		item(1, "Biryani", 450),
		item(2, "Naan", 60),
		item(3, "Lassi", 120.50),
		item(4, "Karahi", 899.99),
	}

	c := New()
	for i := 0; i < 500; i++ {
		pick := menu[rng.Intn(len(menu))]
		if rng.Intn(3) == 0 {
			c.Remove(pick.ItemID)
		} else {
			c.Add(pick)
		}

		var want float64
		for _, l := range c.Lines() {
			want += l.Price * float64(l.Quantity)
		}
		require.InDelta(t, want, c.Total(), 1e-9)
	}
}
