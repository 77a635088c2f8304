package tui

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"smart-restaurant/api"
	"smart-restaurant/lifecycle"
	"smart-restaurant/poll"
)

// Simulated GPS: the rider starts in a random city and drifts a little
// every second.
var simCities = []struct {
	name     string
	lat, lng float64
}{
	{"New York", 40.7128, -74.0060},
	{"London", 51.5074, -0.1278},
	{"Tokyo", 35.6762, 139.6503},
	{"Sydney", -33.8688, 151.2093},
	{"Paris", 48.8566, 2.3522},
}

type locationTickMsg time.Time

type locationPostedMsg struct{ err error }

// RiderModel is the rider's order-detail screen: the assigned order,
// pickup and drop-off coordinates, the simulated position, and the one
// action the state machine currently allows.
type RiderModel struct {
	client *api.Client

	order   api.Order
	loaded  bool
	busy    bool
	status  string
	lastErr error

	city    string
	lat     float64
	lng     float64
	locErr  error

	updates <-chan poll.Update[api.Order]
	unsub   func()
	cancel  context.CancelFunc
	run     func()
}

func NewRider(client *api.Client, feed *poll.Feed[api.Order]) RiderModel {
	ctx, cancel := context.WithCancel(context.Background())
	updates, unsub := feed.Subscribe()

	start := simCities[rand.Intn(len(simCities))]
	return RiderModel{
		client:  client,
		status:  "Loading order...",
		city:    start.name,
		lat:     start.lat,
		lng:     start.lng,
		updates: updates,
		unsub:   unsub,
		cancel:  cancel,
		run:     func() { feed.Run(ctx) },
	}
}

func locationTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return locationTickMsg(t)
	})
}

func (m RiderModel) Init() tea.Cmd {
	go m.run()
	return tea.Batch(waitForOrder(m.updates), locationTick())
}

func (m RiderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.unsub()
			m.cancel()
			return m, tea.Quit
		case "enter", "n":
			return m.advance()
		}
	case orderMsg:
		if msg.Err != nil {
			m.lastErr = msg.Err
		} else {
			m.lastErr = nil
			m.order = msg.Value
			m.loaded = true
		}
		return m, waitForOrder(m.updates)
	case locationTickMsg:
		// Roughly 0.0005 degrees is ~50 meters of drift
		m.lat += (rand.Float64() - 0.5) * 0.0005
		m.lng += (rand.Float64() - 0.5) * 0.0005
		return m, tea.Batch(m.postLocation(), locationTick())
	case locationPostedMsg:
		m.locErr = msg.err
	case statusChangedMsg:
		m.busy = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Update failed: %v", msg.err)
			return m, nil
		}
		m.order = msg.order
		m.status = fmt.Sprintf("Order is now %s", lifecycle.Label(m.order.Status))
		if lifecycle.Terminal(m.order.Status) {
			m.unsub()
			m.cancel()
		}
	}
	return m, nil
}

func (m RiderModel) advance() (tea.Model, tea.Cmd) {
	if !m.loaded || m.busy {
		return m, nil
	}
	nexts := lifecycle.NextFor(lifecycle.ActorRider, m.order.Status)
	if len(nexts) == 0 {
		return m, nil
	}
	target := nexts[0]
	m.busy = true
	m.status = fmt.Sprintf("Marking order %s...", target)
	orderID := m.order.OrderID
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		order, err := m.client.UpdateOrderStatus(ctx, orderID, target)
		return statusChangedMsg{order: order, err: err}
	}
}

func (m RiderModel) postLocation() tea.Cmd {
	lat, lng := m.lat, m.lng
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := m.client.UpdateRiderLocation(ctx, api.Location{Lat: lat, Lng: lng})
		return locationPostedMsg{err: err}
	}
}

func (m RiderModel) View() string {
	b := &strings.Builder{}
	fmt.Fprintln(b, "Rider Delivery")
	fmt.Fprintln(b, "")

	if !m.loaded {
		fmt.Fprintln(b, "Loading order...")
	} else {
		o := m.order
		fmt.Fprintf(b, "Order %s (#%d)  Rs %.0f\n", o.OrderNumber, o.OrderID, o.TotalAmount)
		fmt.Fprintf(b, "Status: %s\n\n", lifecycle.Label(o.Status))

		fmt.Fprintf(b, "Pickup:   %s", o.RestaurantName)
		if o.RestaurantLat != nil && o.RestaurantLng != nil {
			fmt.Fprintf(b, "  (%.4f, %.4f)", *o.RestaurantLat, *o.RestaurantLng)
		}
		fmt.Fprintln(b, "")
		fmt.Fprintf(b, "Drop-off: %s", o.CustomerName)
		if o.CustomerLat != nil && o.CustomerLng != nil {
			fmt.Fprintf(b, "  (%.4f, %.4f)", *o.CustomerLat, *o.CustomerLng)
		}
		fmt.Fprintln(b, "")

		if nexts := lifecycle.NextFor(lifecycle.ActorRider, m.order.Status); len(nexts) > 0 {
			fmt.Fprintf(b, "\nAction: press enter to mark %s\n", nexts[0])
		} else {
			fmt.Fprintln(b, "\nNo actions available for this order.")
		}
	}

	fmt.Fprintf(b, "\nYou (simulated, started in %s): %.4f, %.4f\n", m.city, m.lat, m.lng)
	if m.locErr != nil {
		fmt.Fprintf(b, "(location update failed: %v)\n", m.locErr)
	}
	fmt.Fprintf(b, "\nStatus: %s\n", m.status)
	if m.lastErr != nil {
		fmt.Fprintf(b, "(warning: last refresh failed: %v)\n", m.lastErr)
	}
	fmt.Fprintln(b, "\nControls: enter advance status, q quit")
	return b.String()
}
