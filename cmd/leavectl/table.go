package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"

	"github.com/aidar/leave-tracker/internal/domain"
)

type TableCmd struct {
	Months []int `short:"m" help:"Only show these months (1-12)."`
}

func (c *TableCmd) Run(ctx *cmdContext) error {
	months, err := c.columns()
	if err != nil {
		return err
	}

	return printTable(os.Stdout, ctx.service.Calendar(ctx.ctx), months)
}

func (c *TableCmd) columns() ([]int, error) {
	if len(c.Months) == 0 {
		return lo.Range(12), nil
	}

	cols := make([]int, 0, len(c.Months))
	for _, m := range lo.Uniq(c.Months) {
		if _, err := domain.ParseMonth(m); err != nil {
			return nil, err
		}
		cols = append(cols, m-1)
	}
	return cols, nil
}

// printTable writes one row per member with a cell per selected month index (0..11)
func printTable(w io.Writer, cal domain.Calendar, months []int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := append([]string{fmt.Sprint(cal.Year)}, lo.Map(months, func(m int, _ int) string { return cal.Months[m] })...)
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, row := range cal.Rows {
		cells := lo.Map(months, func(m int, _ int) string { return row.Cells[m].Display() })
		fmt.Fprintln(tw, strings.Join(append([]string{row.Name}, cells...), "\t"))
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintln(w, cal.Summary)
	return err
}
