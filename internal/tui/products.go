package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/justcom/justcom-admin/internal/browser"
	"github.com/justcom/justcom-admin/pkg/client"
	"github.com/justcom/justcom-admin/pkg/domain"
)

// -- messages --

type productsLoadedMsg struct {
	category string
	products []domain.Product
	err      error
}

type productUpdatedMsg struct {
	product *domain.Product
	err     error
}

type productDeletedMsg struct {
	id  string
	err error
}

type productLoadedMsg struct {
	product *domain.Product
	err     error
}

type productCreatedMsg struct {
	product *domain.Product
	err     error
}

// -- model --

type productsModel struct {
	client        *client.Client
	products      []domain.Product
	cursor        int // index into visible()
	categoryIdx   int // index into productCategoryOrder
	query         string
	searching     bool
	detail        *domain.Product
	form          *productForm
	confirmDelete bool
	frame         int
	status        string
	err           string
	loading       bool
	width         int
	height        int
}

// productCategoryOrder is the filter cycle; "" means all categories.
var productCategoryOrder = append([]string{""}, domain.ProductCategories...)

func newProductsModel(c *client.Client) productsModel {
	return productsModel{client: c, loading: true}
}

func (m productsModel) category() string {
	return productCategoryOrder[m.categoryIdx]
}

func (m productsModel) Init() tea.Cmd {
	return m.loadProducts()
}

func (m productsModel) loadProducts() tea.Cmd {
	c := m.client
	category := m.category()
	return func() tea.Msg {
		products, err := c.ListProducts(context.Background(), client.ProductFilter{Category: category})
		return productsLoadedMsg{category: category, products: products, err: err}
	}
}

// visible returns the loaded products whose name matches the search query.
func (m productsModel) visible() []domain.Product {
	if m.query == "" {
		return m.products
	}
	var out []domain.Product
	for _, p := range m.products {
		if matchesQuery(m.query, p.Name) {
			out = append(out, p)
		}
	}
	return out
}

func (m productsModel) selected() (domain.Product, bool) {
	v := m.visible()
	if m.cursor < 0 || m.cursor >= len(v) {
		return domain.Product{}, false
	}
	return v[m.cursor], true
}

func (m productsModel) Update(msg tea.Msg) (productsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case shimmerTickMsg:
		m.frame++

	case productsLoadedMsg:
		if msg.category != m.category() {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, checkExpired(msg.err)
		}
		m.products = msg.products
		m.err = ""
		if m.cursor >= len(m.visible()) {
			m.cursor = 0
		}

	case productLoadedMsg:
		if msg.err != nil {
			m.status = "could not load product: " + msg.err.Error()
			return m, checkExpired(msg.err)
		}
		m.detail = msg.product
		m.replace(*msg.product)

	case productCreatedMsg:
		if m.form != nil {
			m.form.submitted = false
		}
		if msg.err != nil {
			if m.form != nil {
				m.form.status = "create failed: " + msg.err.Error()
			} else {
				m.status = "create failed: " + msg.err.Error()
			}
			return m, checkExpired(msg.err)
		}
		m.form = nil
		if cat := m.category(); cat == "" || cat == msg.product.Category {
			m.products = append(m.products, *msg.product)
		}
		m.status = "created " + msg.product.Name

	case productUpdatedMsg:
		if msg.err != nil {
			m.status = "update failed: " + msg.err.Error()
			return m, checkExpired(msg.err)
		}
		m.replace(*msg.product)
		if m.detail != nil && m.detail.ID == msg.product.ID {
			m.detail = msg.product
		}
		m.status = "saved " + msg.product.Name

	case productDeletedMsg:
		if msg.err != nil {
			m.status = "delete failed: " + msg.err.Error()
			return m, checkExpired(msg.err)
		}
		for i := range m.products {
			if m.products[i].ID == msg.id {
				m.products = append(m.products[:i], m.products[i+1:]...)
				break
			}
		}
		if m.cursor >= len(m.visible()) && m.cursor > 0 {
			m.cursor--
		}
		if m.detail != nil && m.detail.ID == msg.id {
			m.detail = nil
		}
		m.status = "deleted"

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *productsModel) replace(p domain.Product) {
	for i := range m.products {
		if m.products[i].ID == p.ID {
			m.products[i] = p
		}
	}
}

func (m productsModel) handleKey(msg tea.KeyMsg) (productsModel, tea.Cmd) {
	if m.form != nil {
		return m.updateForm(msg)
	}
	if m.searching {
		var done bool
		m.query, done = editQuery(m.query, msg.String())
		m.searching = !done
		m.cursor = 0
		return m, nil
	}
	if m.confirmDelete {
		m.confirmDelete = false
		p, ok := m.selected()
		if msg.String() != "y" || !ok {
			m.status = ""
			return m, nil
		}
		c := m.client
		m.status = "deleting " + p.Name + "..."
		return m, func() tea.Msg {
			return productDeletedMsg{id: p.ID, err: c.DeleteProduct(context.Background(), p.ID)}
		}
	}

	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.visible())-1 {
			m.cursor++
			m.detail = nil
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
			m.detail = nil
		}
	case "/":
		m.searching = true
		m.detail = nil
	case "esc":
		m.detail = nil
	case "enter":
		if m.detail != nil {
			m.detail = nil
			return m, nil
		}
		p, ok := m.selected()
		if !ok {
			return m, nil
		}
		c := m.client
		m.status = ""
		return m, func() tea.Msg {
			full, err := c.GetProduct(context.Background(), p.ID)
			return productLoadedMsg{product: full, err: err}
		}
	case "n":
		f := newProductForm(m.category())
		m.form = &f
		m.detail = nil
		m.status = ""
	case "c":
		m.categoryIdx = (m.categoryIdx + 1) % len(productCategoryOrder)
		m.cursor = 0
		m.detail = nil
		m.loading = true
		return m, m.loadProducts()
	case "a":
		p, ok := m.selected()
		if !ok {
			return m, nil
		}
		active := !p.IsActive
		c := m.client
		return m, func() tea.Msg {
			updated, err := c.UpdateProduct(context.Background(), p.ID, domain.ProductInput{IsActive: &active})
			return productUpdatedMsg{product: updated, err: err}
		}
	case "d":
		if p, ok := m.selected(); ok {
			m.confirmDelete = true
			m.status = fmt.Sprintf("delete %s? y to confirm", p.Name)
		}
	case "o":
		p, ok := m.selected()
		if !ok || p.ImageURL == "" {
			m.status = "no image"
			return m, nil
		}
		if err := browser.Open(p.ImageURL); err != nil {
			m.status = err.Error()
		}
	case "r":
		m.loading = true
		return m, m.loadProducts()
	}
	return m, nil
}

func (m productsModel) updateForm(msg tea.KeyMsg) (productsModel, tea.Cmd) {
	if msg.String() == "esc" {
		m.form = nil
		m.status = ""
		return m, nil
	}
	if m.form.submitted {
		return m, nil
	}
	f, in := m.form.update(msg)
	m.form = &f
	if in == nil {
		return m, nil
	}
	m.form.submitted = true
	c := m.client
	input := *in
	return m, func() tea.Msg {
		created, err := c.CreateProduct(context.Background(), input)
		return productCreatedMsg{product: created, err: err}
	}
}

func (m productsModel) View() string {
	if m.form != nil {
		return m.form.View()
	}

	var b strings.Builder

	filter := "all categories"
	if cat := m.category(); cat != "" {
		filter = cat
	}
	b.WriteString(" " + dimStyle.Render("category: ") + accentStyle.Render(filter) + "\n")
	b.WriteString(searchBar(m.query, m.searching, m.frame))
	b.WriteString("\n")

	if m.loading && len(m.products) == 0 {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + errorStyle.Render("error: "+m.err) + "\n")
		return b.String()
	}
	if len(m.products) == 0 {
		b.WriteString(" " + dimStyle.Render("no products in this category") + "\n")
		return b.String()
	}
	if m.detail != nil {
		b.WriteString(productDetail(*m.detail))
		if m.status != "" {
			b.WriteString("\n " + warnStyle.Render(m.status) + "\n")
		}
		return b.String()
	}

	products := m.visible()
	if len(products) == 0 {
		b.WriteString(" " + dimStyle.Render("no products match "+strconv.Quote(m.query)) + "\n")
	}
	for i, p := range products {
		cursor := " "
		name := normalStyle.Render(padRight(truncStr(p.Name, 28), 28))
		if i == m.cursor {
			cursor = accentStyle.Render("▸")
			name = selectedStyle.Render(padRight(truncStr(p.Name, 28), 28))
		}

		stock := dimStyle.Render(fmt.Sprintf("%3d in stock", p.StockCount))
		if p.LowStock() {
			stock = warnStyle.Render(fmt.Sprintf("%3d in stock", p.StockCount))
		}
		state := positiveStyle.Render("active")
		if !p.IsActive {
			state = metaStyle.Render("inactive")
		}
		featured := ""
		if p.IsFeatured {
			featured = "  " + accentStyle.Render("★")
		}

		fmt.Fprintf(&b, " %s %s  %s  %s  %s  %s%s\n",
			cursor, name,
			dimStyle.Render(padRight(p.Category, 11)),
			normalStyle.Render(padRight(formatMoney(p.Price, ""), 10)),
			stock, state, featured)
	}

	if m.status != "" {
		b.WriteString("\n " + warnStyle.Render(m.status) + "\n")
	}
	return b.String()
}

func productDetail(p domain.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, " %s  %s\n", selectedStyle.Render(p.Name), dimStyle.Render(p.Category))

	price := normalStyle.Render(formatMoney(p.Price, ""))
	if p.OriginalPrice != nil && *p.OriginalPrice > p.Price {
		price += " " + metaStyle.Render("was "+formatMoney(*p.OriginalPrice, ""))
	}
	fmt.Fprintf(&b, " %s\n", price)

	stock := fmt.Sprintf("%d in stock", p.StockCount)
	if p.LowStock() {
		fmt.Fprintf(&b, " %s\n", warnStyle.Render(stock+" (low)"))
	} else {
		fmt.Fprintf(&b, " %s\n", dimStyle.Render(stock))
	}
	if p.HealthRating > 0 {
		fmt.Fprintf(&b, " %s %s\n", dimStyle.Render("condition"), accentStyle.Render(strings.Repeat("★", p.HealthRating)))
	}
	if p.UrgencyBadge != "" {
		fmt.Fprintf(&b, " %s\n", warnStyle.Render(p.UrgencyBadge))
	}
	if p.Description != "" {
		b.WriteString("\n")
		for _, line := range strings.Split(p.Description, "\n") {
			b.WriteString("   " + normalStyle.Render(line) + "\n")
		}
	}
	if p.ImageURL != "" {
		fmt.Fprintf(&b, "\n %s\n", metaStyle.Render(p.ImageURL))
	}
	return b.String()
}

func (m productsModel) helpKeys() string {
	switch {
	case m.form != nil:
		return helpEntry("tab", "next") + "  " + helpEntry("enter", "next/save") + "  " + helpEntry("ctrl+s", "save") + "  " + helpEntry("esc", "cancel")
	case m.searching:
		return helpEntry("enter", "apply") + "  " + helpEntry("esc", "clear")
	case m.confirmDelete:
		return helpEntry("y", "delete") + "  " + helpEntry("any", "cancel")
	case m.detail != nil:
		return helpEntry("a", "active") + "  " + helpEntry("d", "delete") + "  " + helpEntry("o", "image") + "  " + helpEntry("esc", "back")
	}
	return helpEntry("j/k", "nav") + "  " + helpEntry("enter", "detail") + "  " + helpEntry("/", "search") + "  " + helpEntry("n", "new") + "  " + helpEntry("c", "category") + "  " + helpEntry("a", "active") + "  " + helpEntry("d", "delete") + "  " + helpEntry("o", "image") + "  " + helpEntry("r", "refresh") + "  " + helpEntry("q", "quit")
}
