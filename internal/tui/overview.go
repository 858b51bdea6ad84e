package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justcom/justcom-admin/pkg/client"
	"github.com/justcom/justcom-admin/pkg/domain"
)

// -- messages --

type statsLoadedMsg struct {
	stats *domain.DashboardStats
	err   error
}

type salesLoadedMsg struct {
	period string
	data   []domain.SalesData
	err    error
}

// -- model --

type overviewModel struct {
	client    *client.Client
	stats     *domain.DashboardStats
	sales     []domain.SalesData
	periodIdx int // index into domain.SalesPeriods
	err       string
	loading   bool
	width     int
	height    int
}

func newOverviewModel(c *client.Client) overviewModel {
	m := overviewModel{client: c, loading: true}
	for i, p := range domain.SalesPeriods {
		if p == client.DefaultSalesPeriod {
			m.periodIdx = i
		}
	}
	return m
}

func (m overviewModel) period() string {
	return domain.SalesPeriods[m.periodIdx]
}

func (m overviewModel) Init() tea.Cmd {
	return tea.Batch(m.loadStats(), m.loadSales())
}

func (m overviewModel) loadStats() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		stats, err := c.GetDashboardStats(context.Background())
		return statsLoadedMsg{stats: stats, err: err}
	}
}

func (m overviewModel) loadSales() tea.Cmd {
	c := m.client
	period := m.period()
	return func() tea.Msg {
		data, err := c.GetSalesData(context.Background(), period)
		return salesLoadedMsg{period: period, data: data, err: err}
	}
}

func (m overviewModel) Update(msg tea.Msg) (overviewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case statsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, checkExpired(msg.err)
		}
		m.stats = msg.stats
		m.err = ""

	case salesLoadedMsg:
		// Drop answers for a period the user already cycled away from.
		if msg.period != m.period() {
			return m, nil
		}
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, checkExpired(msg.err)
		}
		m.sales = msg.data

	case tea.KeyMsg:
		switch msg.String() {
		case "p":
			m.periodIdx = (m.periodIdx + 1) % len(domain.SalesPeriods)
			m.sales = nil
			return m, m.loadSales()
		case "r":
			m.loading = true
			return m, m.Init()
		}
	}
	return m, nil
}

func (m overviewModel) View() string {
	var b strings.Builder

	if m.err != "" {
		b.WriteString(" " + errorStyle.Render("error: "+m.err) + "\n")
	}
	if m.loading && m.stats == nil {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}

	if s := m.stats; s != nil {
		cards := []string{
			statCard("Revenue", formatMoney(s.TotalRevenue, ""), changeLine(s.RevenueChange)),
			statCard("Orders", fmt.Sprintf("%d", s.TotalOrders), changeLine(s.OrdersChange)),
			statCard("Products", fmt.Sprintf("%d", s.TotalProducts), lowStockLine(s.LowStockProducts)),
			statCard("Open chats", fmt.Sprintf("%d", s.OpenConversations), dimStyle.Render(fmt.Sprintf("avg reply %.1fh", s.AvgResponseTime))),
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...) + "\n")
	}

	b.WriteString("\n " + selectedStyle.Render("Sales") + "  ")
	for i, p := range domain.SalesPeriods {
		if i == m.periodIdx {
			b.WriteString(accentStyle.Render("["+p+"]") + " ")
		} else {
			b.WriteString(dimStyle.Render(p) + " ")
		}
	}
	b.WriteString("\n\n")
	b.WriteString(m.salesBars())
	return b.String()
}

// salesBars renders one horizontal bar per data point, scaled to the best day.
func (m overviewModel) salesBars() string {
	if len(m.sales) == 0 {
		return " " + dimStyle.Render("no sales in this period") + "\n"
	}

	var maxRevenue float64
	labelWidth := 0
	for _, d := range m.sales {
		if d.Revenue > maxRevenue {
			maxRevenue = d.Revenue
		}
		if l := len(salesLabel(d)); l > labelWidth {
			labelWidth = l
		}
	}

	barWidth := m.width - labelWidth - 28
	if barWidth < 10 {
		barWidth = 10
	}

	var b strings.Builder
	for _, d := range m.sales {
		n := 0
		if maxRevenue > 0 {
			n = int(d.Revenue / maxRevenue * float64(barWidth))
		}
		bar := barStyle.Render(strings.Repeat("█", n))
		fmt.Fprintf(&b, " %s %s %s %s\n",
			dimStyle.Render(padRight(salesLabel(d), labelWidth)),
			bar,
			normalStyle.Render(formatMoney(d.Revenue, "")),
			metaStyle.Render(fmt.Sprintf("%d orders", d.Orders)))
	}
	return b.String()
}

func salesLabel(d domain.SalesData) string {
	if d.Date != "" {
		return d.Date
	}
	return d.Period
}

func statCard(label, value, detail string) string {
	return cardStyle.Width(22).Render(cardLabelStyle.Render(label) + "\n" + cardValueStyle.Render(value) + "\n" + detail)
}

func changeLine(pct float64) string {
	return changeStyle(pct).Render(fmt.Sprintf("%+.1f%%", pct)) + dimStyle.Render(" vs prev")
}

func lowStockLine(n int) string {
	if n == 0 {
		return dimStyle.Render("stock healthy")
	}
	return warnStyle.Render(fmt.Sprintf("%d low stock", n))
}

func (m overviewModel) helpKeys() string {
	return helpEntry("p", "period") + "  " + helpEntry("r", "refresh") + "  " + helpEntry("q", "quit")
}
