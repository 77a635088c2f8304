package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"smart-restaurant/api"
	"smart-restaurant/lifecycle"
	"smart-restaurant/poll"
)

type ordersMsg poll.Update[[]api.Order]

func waitForOrders(ch <-chan poll.Update[[]api.Order]) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return nil
		}
		return ordersMsg(u)
	}
}

type statusChangedMsg struct {
	order api.Order
	err   error
}

var boardFilters = []string{
	"all", "pending", "assigned", "ready", "picked_up", "delivered", "cancelled",
}

// BoardModel is the admin order board: a live list of every order with
// keyboard-driven status transitions.
type BoardModel struct {
	client *api.Client

	orders  []api.Order
	cursor  int
	filter  int
	loaded  bool
	busy    bool
	status  string
	lastErr error

	updates <-chan poll.Update[[]api.Order]
	unsub   func()
	cancel  context.CancelFunc
	run     func()
}

func NewBoard(client *api.Client, feed *poll.Feed[[]api.Order]) BoardModel {
	ctx, cancel := context.WithCancel(context.Background())
	updates, unsub := feed.Subscribe()
	return BoardModel{
		client:  client,
		status:  "Loading orders...",
		updates: updates,
		unsub:   unsub,
		cancel:  cancel,
		run:     func() { feed.Run(ctx) },
	}
}

func (m BoardModel) Init() tea.Cmd {
	go m.run()
	return waitForOrders(m.updates)
}

func (m BoardModel) visible() []api.Order {
	f := boardFilters[m.filter]
	if f == "all" {
		return m.orders
	}
	var out []api.Order
	for _, o := range m.orders {
		if string(o.Status) == f {
			out = append(out, o)
		}
	}
	return out
}

func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.unsub()
			m.cancel()
			return m, tea.Quit
		case "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down":
			if m.cursor < len(m.visible())-1 {
				m.cursor++
			}
		case "f":
			m.filter = (m.filter + 1) % len(boardFilters)
			m.cursor = 0
		case "enter":
			return m.advanceSelected()
		case "c":
			return m.cancelSelected()
		}
	case ordersMsg:
		if msg.Err != nil {
			m.lastErr = msg.Err
		} else {
			m.lastErr = nil
			m.orders = msg.Value
			m.loaded = true
			m.status = fmt.Sprintf("%d orders (refreshed %s)", len(m.orders), msg.At.Format("15:04:05"))
			if m.cursor >= len(m.visible()) {
				m.cursor = 0
			}
		}
		return m, waitForOrders(m.updates)
	case statusChangedMsg:
		m.busy = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Update failed: %v", msg.err)
			return m, nil
		}
		// Reconciliation point: the server's confirmed order replaces
		// the local row, nothing was changed beforehand.
		for i := range m.orders {
			if m.orders[i].OrderID == msg.order.OrderID {
				m.orders[i] = msg.order
			}
		}
		m.status = fmt.Sprintf("Order %s → %s", msg.order.OrderNumber, msg.order.Status)
	}
	return m, nil
}

func (m BoardModel) advanceSelected() (tea.Model, tea.Cmd) {
	sel, ok := m.selected()
	if !ok || m.busy {
		return m, nil
	}
	nexts := lifecycle.NextFor(lifecycle.ActorAdmin, sel.Status)
	// Terminal or no forward move: no action is offered
	var target lifecycle.Status
	for _, n := range nexts {
		if n != lifecycle.StatusCancelled {
			target = n
			break
		}
	}
	if target == "" {
		return m, nil
	}
	m.busy = true
	m.status = fmt.Sprintf("Moving %s to %s...", sel.OrderNumber, target)
	return m, m.mutate(sel.OrderID, target)
}

func (m BoardModel) cancelSelected() (tea.Model, tea.Cmd) {
	sel, ok := m.selected()
	if !ok || m.busy || lifecycle.Terminal(sel.Status) {
		return m, nil
	}
	m.busy = true
	m.status = fmt.Sprintf("Cancelling %s...", sel.OrderNumber)
	return m, m.mutate(sel.OrderID, lifecycle.StatusCancelled)
}

func (m BoardModel) selected() (api.Order, bool) {
	visible := m.visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return api.Order{}, false
	}
	return visible[m.cursor], true
}

func (m BoardModel) mutate(orderID int, target lifecycle.Status) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		order, err := m.client.UpdateOrderStatus(ctx, orderID, target)
		return statusChangedMsg{order: order, err: err}
	}
}

func (m BoardModel) View() string {
	b := &strings.Builder{}
	fmt.Fprintln(b, "Order Management")
	fmt.Fprintf(b, "Filter: %s\n\n", boardFilters[m.filter])

	if !m.loaded {
		fmt.Fprintln(b, "Loading Orders...")
	} else {
		visible := m.visible()
		if len(visible) == 0 {
			fmt.Fprintln(b, "No orders match this filter.")
		}
		for i, o := range visible {
			marker := " "
			if i == m.cursor {
				marker = ">"
			}
			action := ""
			if nexts := lifecycle.NextFor(lifecycle.ActorAdmin, o.Status); len(nexts) > 0 {
				action = fmt.Sprintf("  [enter → %s]", nexts[0])
			}
			fmt.Fprintf(b, " %s %-12s %-10s Rs %-8.0f %s%s\n",
				marker, o.OrderNumber, o.Status, o.TotalAmount, o.CustomerName, action)
		}
	}

	fmt.Fprintf(b, "\nStatus: %s\n", m.status)
	if m.lastErr != nil {
		fmt.Fprintf(b, "(warning: last refresh failed: %v)\n", m.lastErr)
	}
	fmt.Fprintln(b, "\nControls: up/down select, enter advance, c cancel, f filter, q quit")
	return b.String()
}
