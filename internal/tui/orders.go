package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/justcom/justcom-admin/pkg/client"
	"github.com/justcom/justcom-admin/pkg/domain"
)

// -- messages --

type ordersLoadedMsg struct {
	orders []domain.Order
	err    error
}

type orderUpdatedMsg struct {
	order *domain.Order
	err   error
}

type orderLoadedMsg struct {
	order *domain.Order
	err   error
}

type copyResultMsg struct {
	what string
	err  error
}

// -- model --

type ordersModel struct {
	client    *client.Client
	orders    []domain.Order
	cursor    int // index into visible()
	statusIdx int // index into orderFilterOrder
	query     string
	searching bool
	detail    bool
	frame     int
	status    string
	err       string
	loading   bool
	width     int
	height    int
}

// orderFilterOrder is the status filter cycle; "" means all orders.
var orderFilterOrder = append([]string{""}, domain.OrderStatuses...)

func newOrdersModel(c *client.Client) ordersModel {
	return ordersModel{client: c, loading: true}
}

func (m ordersModel) Init() tea.Cmd {
	return m.loadOrders()
}

func (m ordersModel) loadOrders() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		orders, err := c.ListOrders(context.Background())
		return ordersLoadedMsg{orders: orders, err: err}
	}
}

// visible returns the orders matching the status filter and search query.
func (m ordersModel) visible() []domain.Order {
	filter := orderFilterOrder[m.statusIdx]
	if filter == "" && m.query == "" {
		return m.orders
	}
	var out []domain.Order
	for _, o := range m.orders {
		if filter != "" && o.Status != filter {
			continue
		}
		if !matchesQuery(m.query, o.OrderNumber, o.ID, o.CustomerName, o.CustomerEmail, o.ShippingAddress.Name) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func (m ordersModel) selected() (domain.Order, bool) {
	v := m.visible()
	if m.cursor < 0 || m.cursor >= len(v) {
		return domain.Order{}, false
	}
	return v[m.cursor], true
}

func (m ordersModel) Update(msg tea.Msg) (ordersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case shimmerTickMsg:
		m.frame++

	case ordersLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, checkExpired(msg.err)
		}
		m.orders = msg.orders
		m.err = ""
		if m.cursor >= len(m.visible()) {
			m.cursor = 0
		}

	case orderLoadedMsg:
		if msg.err != nil {
			m.status = "could not load order: " + msg.err.Error()
			return m, checkExpired(msg.err)
		}
		for i := range m.orders {
			if m.orders[i].ID == msg.order.ID {
				m.orders[i] = *msg.order
			}
		}

	case orderUpdatedMsg:
		if msg.err != nil {
			m.status = "status update failed: " + msg.err.Error()
			return m, checkExpired(msg.err)
		}
		for i := range m.orders {
			if m.orders[i].ID == msg.order.ID {
				m.orders[i].Status = msg.order.Status
				m.orders[i].UpdatedAt = msg.order.UpdatedAt
			}
		}
		m.status = fmt.Sprintf("%s is now %s", msg.order.OrderNumber, statusLabel(msg.order.Status))
		if m.cursor >= len(m.visible()) && m.cursor > 0 {
			m.cursor--
		}

	case copyResultMsg:
		if msg.err != nil {
			m.status = "copy failed: " + msg.err.Error()
		} else {
			m.status = "copied " + msg.what
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m ordersModel) handleKey(msg tea.KeyMsg) (ordersModel, tea.Cmd) {
	if m.searching {
		var done bool
		m.query, done = editQuery(m.query, msg.String())
		m.searching = !done
		m.cursor = 0
		return m, nil
	}

	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		o, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.detail = !m.detail
		if m.detail {
			c := m.client
			return m, func() tea.Msg {
				full, err := c.GetOrder(context.Background(), o.ID)
				return orderLoadedMsg{order: full, err: err}
			}
		}
	case "/":
		m.searching = true
		m.detail = false
	case "esc":
		m.detail = false
	case "f":
		m.statusIdx = (m.statusIdx + 1) % len(orderFilterOrder)
		m.cursor = 0
		m.detail = false
	case "s":
		o, ok := m.selected()
		if !ok {
			return m, nil
		}
		next := domain.NextOrderStatus(o.Status)
		if next == "" {
			m.status = fmt.Sprintf("%s is %s, nothing to advance", o.OrderNumber, statusLabel(o.Status))
			return m, nil
		}
		c := m.client
		m.status = fmt.Sprintf("moving %s to %s...", o.OrderNumber, statusLabel(next))
		return m, func() tea.Msg {
			updated, err := c.UpdateOrderStatus(context.Background(), o.ID, next)
			return orderUpdatedMsg{order: updated, err: err}
		}
	case "c":
		if o, ok := m.selected(); ok {
			number := o.OrderNumber
			return m, func() tea.Msg {
				return copyResultMsg{what: number, err: clipboard.WriteAll(number)}
			}
		}
	case "r":
		m.loading = true
		return m, m.loadOrders()
	}
	return m, nil
}

func (m ordersModel) View() string {
	var b strings.Builder

	filter := "all"
	if f := orderFilterOrder[m.statusIdx]; f != "" {
		filter = statusLabel(f)
	}
	b.WriteString(" " + dimStyle.Render("status: ") + accentStyle.Render(filter) + "\n")
	b.WriteString(searchBar(m.query, m.searching, m.frame))
	b.WriteString("\n")

	if m.loading && len(m.orders) == 0 {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + errorStyle.Render("error: "+m.err) + "\n")
		return b.String()
	}

	orders := m.visible()
	if len(orders) == 0 {
		b.WriteString(" " + dimStyle.Render("no orders") + "\n")
		return b.String()
	}

	if m.detail {
		if o, ok := m.selected(); ok {
			b.WriteString(orderDetail(o))
		}
	} else {
		for i, o := range orders {
			cursor := " "
			number := normalStyle.Render(padRight(o.OrderNumber, 14))
			if i == m.cursor {
				cursor = accentStyle.Render("▸")
				number = selectedStyle.Render(padRight(o.OrderNumber, 14))
			}
			customer := o.CustomerName
			if customer == "" {
				customer = o.ShippingAddress.Name
			}
			fmt.Fprintf(&b, " %s %s  %s  %s  %s  %s\n",
				cursor, number,
				normalStyle.Render(padRight(truncStr(customer, 20), 20)),
				normalStyle.Render(padRight(formatMoney(o.TotalAmount, o.Currency), 11)),
				orderBadge(o.Status),
				metaStyle.Render(formatTime(o.CreatedAt)))
		}
	}

	if m.status != "" {
		b.WriteString("\n " + warnStyle.Render(m.status) + "\n")
	}
	return b.String()
}

func orderDetail(o domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, " %s  %s\n", selectedStyle.Render(o.OrderNumber), orderBadge(o.Status))
	if o.CustomerName != "" || o.CustomerEmail != "" {
		fmt.Fprintf(&b, " %s %s\n", normalStyle.Render(o.CustomerName), dimStyle.Render(o.CustomerEmail))
	}
	addr := o.ShippingAddress
	if addr.Street != "" {
		fmt.Fprintf(&b, " %s\n", dimStyle.Render(fmt.Sprintf("%s, %s %s, %s", addr.Street, addr.PostalCode, addr.City, addr.Country)))
	}
	b.WriteString("\n")
	for _, it := range o.Items {
		fmt.Fprintf(&b, "   %s  %s  %s\n",
			normalStyle.Render(padRight(truncStr(it.ProductName, 30), 30)),
			dimStyle.Render(fmt.Sprintf("x%d", it.Quantity)),
			normalStyle.Render(formatMoney(it.TotalPrice, o.Currency)))
	}
	fmt.Fprintf(&b, "\n   %s %s\n", dimStyle.Render("total"), selectedStyle.Render(formatMoney(o.TotalAmount, o.Currency)))
	return b.String()
}

func (m ordersModel) helpKeys() string {
	if m.searching {
		return helpEntry("enter", "apply") + "  " + helpEntry("esc", "clear")
	}
	if m.detail {
		return helpEntry("s", "advance") + "  " + helpEntry("c", "copy #") + "  " + helpEntry("esc", "back")
	}
	return helpEntry("j/k", "nav") + "  " + helpEntry("enter", "detail") + "  " + helpEntry("/", "search") + "  " + helpEntry("f", "filter") + "  " + helpEntry("s", "advance") + "  " + helpEntry("c", "copy #") + "  " + helpEntry("r", "refresh") + "  " + helpEntry("q", "quit")
}
