package web

import (
	"net/url"
	"strings"
	"time"

	"sitesafety/internal/domain/safety"
)

// table is the view model of list.html and the "table" partial
type table struct {
	Title      string
	CreatePath string
	Columns    []string
	Rows       []row
	Empty      string
}

type row struct {
	Cells      []string
	ViewPath   string
	EditPath   string
	DeletePath string
}

// form is the view model of form.html
type form struct {
	Title      string
	Action     string
	CancelPath string
	Submit     string
	Fields     []formField
	Error      string
}

type formField struct {
	Name     string
	Label    string
	Kind     string // text, textarea, date, datetime-local, email, password, select, multiselect
	Required bool
	Value    string
	Options  []option
	Error    string
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

// detail is the view model of detail.html
type detail struct {
	Title    string
	Items    []item
	EditPath string
	BackPath string
}

type item struct {
	Label string
	Value string
}

func choices(values []string) []option {
	out := make([]option, 0, len(values))
	for _, v := range values {
		out = append(out, option{Value: v, Label: v})
	}
	return out
}

func refChoices[T any](items []T, id, label func(T) string) []option {
	out := make([]option, 0, len(items))
	for _, it := range items {
		out = append(out, option{Value: id(it), Label: label(it)})
	}
	return out
}

// fill returns a copy of fields carrying values and per field errors
func fill(fields []formField, values url.Values, errs map[string]string) []formField {
	out := make([]formField, len(fields))
	for i, f := range fields {
		f.Value = values.Get(f.Name)
		f.Error = errs[f.Name]
		if len(f.Options) > 0 {
			selected := make(map[string]bool, len(values[f.Name]))
			for _, v := range values[f.Name] {
				selected[v] = true
			}
			opts := make([]option, len(f.Options))
			for j, o := range f.Options {
				o.Selected = selected[o.Value]
				opts[j] = o
			}
			f.Options = opts
		}
		out[i] = f
	}
	return out
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func displayDate(value string) string {
	return orDash(safety.FormatDate(value))
}

func displayTime(value string) string {
	t, ok := safety.ParseDate(value)
	if !ok {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func inputDateTime(value string) string {
	t, ok := safety.ParseDate(value)
	if !ok {
		return ""
	}
	return t.Local().Format("2006-01-02T15:04")
}

func listOrDash(values []string) string {
	return orDash(strings.Join(values, ", "))
}

func joinList(values []string) string {
	return strings.Join(values, ", ")
}

func today(now time.Time) string {
	return now.Format("2006-01-02")
}
