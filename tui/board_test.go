package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-restaurant/api"
	"smart-restaurant/lifecycle"
)

func newBoard(orders []api.Order) BoardModel {
	return BoardModel{
		orders: orders,
		loaded: true,
		unsub:  func() {},
		cancel: func() {},
	}
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBoardOffersNoActionForTerminalOrders(t *testing.T) {
	m := newBoard([]api.Order{
		{OrderID: 1, OrderNumber: "ORD-1", Status: lifecycle.StatusDelivered},
		{OrderID: 2, OrderNumber: "ORD-2", Status: lifecycle.StatusCancelled},
	})

	// Advancing or cancelling a terminal order issues no request
	_, cmd := m.advanceSelected()
	assert.Nil(t, cmd)
	_, cmd = m.cancelSelected()
	assert.Nil(t, cmd)

	m.cursor = 1
	_, cmd = m.advanceSelected()
	assert.Nil(t, cmd)

	view := m.View()
	assert.NotContains(t, view, "[enter →", "terminal orders must not render an action")
}

func TestBoardOffersForwardActionForActiveOrders(t *testing.T) {
	m := newBoard([]api.Order{
		{OrderID: 1, OrderNumber: "ORD-1", Status: lifecycle.StatusPending},
	})

	assert.Contains(t, m.View(), "[enter → assigned]")

	updated, cmd := m.advanceSelected()
	require.NotNil(t, cmd, "an active order gets a transition request")
	assert.True(t, updated.(BoardModel).busy)
}

func TestBoardReconcilesFromServerResponse(t *testing.T) {
	m := newBoard([]api.Order{
		{OrderID: 1, OrderNumber: "ORD-1", Status: lifecycle.StatusPending},
	})

	next, _ := m.Update(statusChangedMsg{
		order: api.Order{OrderID: 1, OrderNumber: "ORD-1", Status: lifecycle.StatusAssigned},
	})
	board := next.(BoardModel)
	assert.Equal(t, lifecycle.StatusAssigned, board.orders[0].Status)
	assert.False(t, board.busy)
}

func TestBoardFilterCycles(t *testing.T) {
	m := newBoard([]api.Order{
		{OrderID: 1, Status: lifecycle.StatusPending},
		{OrderID: 2, Status: lifecycle.StatusDelivered},
	})

	assert.Len(t, m.visible(), 2)

	next, _ := m.Update(keyMsg("f")) // all → pending
	board := next.(BoardModel)
	require.Len(t, board.visible(), 1)
	assert.Equal(t, 1, board.visible()[0].OrderID)
}
