package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/rowmap"
)

type column struct {
	title string
	value func(domain.View) string
}

var pendingColumns = []column{
	{"ORDER", func(v domain.View) string { return v.OrderID }},
	{"TYPE", func(v domain.View) string { return string(v.Type) }},
	{"QTY", func(v domain.View) string { return strconv.Itoa(v.Quantity) }},
	{"CREATED", func(v domain.View) string { return rowmap.FormatDate(v.CreatedAt) }},
	{"AGE", func(v domain.View) string { return strconv.Itoa(v.AgeDays) + "d" }},
	{"PRIORITY", func(v domain.View) string { return string(v.Priority) }},
	{"BUSINESS", func(v domain.View) string { return v.BusinessName }},
}

var historyColumns = []column{
	{"ORDER", func(v domain.View) string { return v.OrderID }},
	{"STATUS", func(v domain.View) string { return string(v.Status) }},
	{"PROBLEM", func(v domain.View) string { return string(v.Problem) }},
	{"UPDATED", func(v domain.View) string { return rowmap.FormatTime(v.UpdatedAt) }},
	{"COMMENT", func(v domain.View) string { return v.Comment }},
}

func (o *rootOptions) printJSON(v any) error {
	enc := json.NewEncoder(o.deps.Out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

type viewJSON struct {
	domain.Delivery
	AgeDays  int
	Priority domain.Priority
}

func (o *rootOptions) printViews(views []domain.View, cols []column) error {
	if o.output == FormatJSON {
		out := make([]viewJSON, 0, len(views))
		for _, v := range views {
			out = append(out, viewJSON{Delivery: v.Delivery, AgeDays: v.AgeDays, Priority: v.Priority})
		}
		return o.printJSON(out)
	}

	tw := tabwriter.NewWriter(o.deps.Out, 0, 0, 2, ' ', 0)
	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.title
	}
	fmt.Fprintln(tw, strings.Join(titles, "\t"))
	for _, v := range views {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = c.value(v)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(o.deps.Out, "%d deliveries\n", len(views))
	return nil
}

func (o *rootOptions) printDetail(v domain.View) error {
	if o.output == FormatJSON {
		return o.printJSON(viewJSON{Delivery: v.Delivery, AgeDays: v.AgeDays, Priority: v.Priority})
	}
	tw := tabwriter.NewWriter(o.deps.Out, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"id", v.ID},
		{"order", v.OrderID},
		{"type", string(v.Type)},
		{"quantity", strconv.Itoa(v.Quantity)},
		{"serial", v.SerialNumber},
		{"status", string(v.Status)},
		{"problem", string(v.Problem)},
		{"comment", v.Comment},
		{"created", rowmap.FormatTime(v.CreatedAt)},
		{"updated", rowmap.FormatTime(v.UpdatedAt)},
		{"age", strconv.Itoa(v.AgeDays) + "d"},
		{"priority", string(v.Priority)},
		{"courier", v.DeliveryPersonID},
		{"business", v.BusinessName},
		{"address", v.Address},
		{"phone", v.Phone},
		{"schedule", v.Schedule},
		{"email", v.CustomerEmail},
	}
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		fmt.Fprintf(tw, "%s:\t%s\n", r[0], r[1])
	}
	return tw.Flush()
}
