// Package tui holds the terminal front ends for the three user
// surfaces: customer order tracking, the admin order board and the
// rider delivery screen. Views render from server-confirmed state only;
// a status mutation takes effect locally when the response comes back,
// never optimistically.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"smart-restaurant/api"
	"smart-restaurant/lifecycle"
	"smart-restaurant/poll"
)

type orderMsg poll.Update[api.Order]

func waitForOrder(ch <-chan poll.Update[api.Order]) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return nil
		}
		return orderMsg(u)
	}
}

// TrackingModel follows one order until it reaches a terminal state.
type TrackingModel struct {
	orderID int
	order   api.Order
	loaded  bool
	lastErr error

	updates <-chan poll.Update[api.Order]
	unsub   func()
	cancel  context.CancelFunc
	run     func()
}

// NewTracking wires the view to an order feed. The feed starts on Init
// and stops when the view quits.
func NewTracking(feed *poll.Feed[api.Order], orderID int) TrackingModel {
	ctx, cancel := context.WithCancel(context.Background())
	updates, unsub := feed.Subscribe()
	return TrackingModel{
		orderID: orderID,
		updates: updates,
		unsub:   unsub,
		cancel:  cancel,
		run:     func() { feed.Run(ctx) },
	}
}

func (m TrackingModel) Init() tea.Cmd {
	go m.run()
	return waitForOrder(m.updates)
}

func (m TrackingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.teardown()
			return m, tea.Quit
		}
	case orderMsg:
		if msg.Err != nil {
			m.lastErr = msg.Err
			return m, waitForOrder(m.updates)
		}
		m.lastErr = nil
		m.order = msg.Value
		m.loaded = true
		if lifecycle.Terminal(m.order.Status) {
			m.teardown()
			return m, tea.Quit
		}
		return m, waitForOrder(m.updates)
	}
	return m, nil
}

func (m TrackingModel) teardown() {
	m.unsub()
	m.cancel()
}

var trackSteps = []lifecycle.Status{
	lifecycle.StatusPending,
	lifecycle.StatusAssigned,
	lifecycle.StatusReady,
	lifecycle.StatusPickedUp,
	lifecycle.StatusDelivered,
}

func (m TrackingModel) View() string {
	b := &strings.Builder{}
	fmt.Fprintln(b, "Order Tracking")
	fmt.Fprintln(b, "")

	if !m.loaded {
		fmt.Fprintf(b, "Order #%d: Loading...\n", m.orderID)
	} else {
		fmt.Fprintf(b, "Order %s (#%d)\n", m.order.OrderNumber, m.order.OrderID)
		fmt.Fprintf(b, "Current Status: %s\n\n", lifecycle.Label(m.order.Status))
		for _, step := range trackSteps {
			marker := " "
			if step == m.order.Status {
				marker = ">"
			} else if reached(m.order.Status, step) {
				marker = "x"
			}
			fmt.Fprintf(b, " [%s] %s\n", marker, lifecycle.Label(step))
		}
		if m.order.Status == lifecycle.StatusCancelled {
			fmt.Fprintln(b, "\n Order was cancelled.")
		}
	}

	if m.lastErr != nil {
		fmt.Fprintf(b, "\n(warning: last refresh failed: %v)\n", m.lastErr)
	}
	fmt.Fprintln(b, "\nControls: q to quit")
	return b.String()
}

// reached reports whether the order has already passed the given step.
func reached(current, step lifecycle.Status) bool {
	pos := func(s lifecycle.Status) int {
		for i, st := range trackSteps {
			if st == s {
				return i
			}
		}
		return -1
	}
	cur, st := pos(current), pos(step)
	return cur >= 0 && st >= 0 && st < cur
}
