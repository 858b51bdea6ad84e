package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/justcom/justcom-admin/pkg/domain"
)

type productField int

const (
	fieldName productField = iota
	fieldCategory
	fieldPrice
	fieldStock
	fieldImage
	numProductFields
)

var productFieldLabels = [numProductFields]string{"name", "category", "price", "stock", "image url"}

// productForm collects a new catalog product.
type productForm struct {
	fields    [numProductFields]string
	focus     productField
	status    string
	submitted bool
}

func newProductForm(category string) productForm {
	if category == "" {
		category = domain.ProductCategories[0]
	}
	var f productForm
	f.fields[fieldCategory] = category
	f.fields[fieldStock] = "1"
	return f
}

// update applies a key. It returns a non-nil input once the form is submitted
// and valid.
func (f productForm) update(msg tea.KeyMsg) (productForm, *domain.ProductInput) {
	f.status = ""
	key := msg.String()

	switch key {
	case "ctrl+s":
		return f.submit()
	case "tab", "down":
		f.focus = (f.focus + 1) % numProductFields
	case "shift+tab", "up":
		f.focus = (f.focus - 1 + numProductFields) % numProductFields
	case "enter":
		if f.focus == numProductFields-1 {
			return f.submit()
		}
		f.focus++
	default:
		if f.focus == fieldCategory {
			// Category is picked from the catalog list, not typed.
			if key == "h" || key == "l" {
				f.fields[fieldCategory] = cycleCategory(f.fields[fieldCategory], key == "l")
			}
			return f, nil
		}
		f.fields[f.focus] = editRune(f.fields[f.focus], key)
	}
	return f, nil
}

func cycleCategory(current string, forward bool) string {
	cats := domain.ProductCategories
	idx := 0
	for i, c := range cats {
		if c == current {
			idx = i
			break
		}
	}
	if forward {
		idx = (idx + 1) % len(cats)
	} else {
		idx = (idx - 1 + len(cats)) % len(cats)
	}
	return cats[idx]
}

func (f productForm) submit() (productForm, *domain.ProductInput) {
	name := strings.TrimSpace(f.fields[fieldName])
	if name == "" {
		f.status = "name is required"
		return f, nil
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(f.fields[fieldPrice]), 64)
	if err != nil || price <= 0 {
		f.status = "price must be a positive number"
		return f, nil
	}
	stock, err := strconv.Atoi(strings.TrimSpace(f.fields[fieldStock]))
	if err != nil || stock < 0 {
		f.status = "stock must be a whole number"
		return f, nil
	}

	category := f.fields[fieldCategory]
	active := true
	in := &domain.ProductInput{
		Name:       &name,
		Category:   &category,
		Price:      &price,
		StockCount: &stock,
		IsActive:   &active,
	}
	if img := strings.TrimSpace(f.fields[fieldImage]); img != "" {
		in.ImageURL = &img
	}
	return f, in
}

func (f productForm) View() string {
	var b strings.Builder
	b.WriteString(" " + selectedStyle.Render("new product") + "\n\n")

	for i := productField(0); i < numProductFields; i++ {
		cursor := " "
		style := metaStyle
		if i == f.focus {
			cursor = accentStyle.Render("▸")
			style = selectedStyle
		}
		label := style.Render(padRight(productFieldLabels[i], 10))
		if i == fieldCategory {
			fmt.Fprintf(&b, " %s %s %s  %s\n", cursor, label, accentStyle.Render(f.fields[i]), dimStyle.Render("(h/l to cycle)"))
			continue
		}
		value := f.fields[i]
		if i == f.focus {
			value += "█"
		}
		fmt.Fprintf(&b, " %s %s %s\n", cursor, label, normalStyle.Render(value))
	}

	b.WriteString("\n")
	if f.submitted {
		b.WriteString(" " + dimStyle.Render("creating...") + "\n")
	} else if f.status != "" {
		b.WriteString(" " + warnStyle.Render(f.status) + "\n")
	}
	return b.String()
}
