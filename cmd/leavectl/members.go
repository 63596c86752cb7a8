package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aidar/leave-tracker/internal/domain"
	"github.com/aidar/leave-tracker/internal/service"
)

type ListCmd struct {
	Editing bool `help:"Also show draft values of a member being edited."`
}

func (c *ListCmd) Run(ctx *cmdContext) error {
	members := ctx.service.ListMembers(ctx.ctx)

	for _, m := range members {
		fmt.Printf("%v  %v  %v\n", m.ID, m.Name, strings.Join(domain.FormatDates(m.LeaveDates), ", "))

		if c.Editing && m.IsEditing && m.EditName != nil {
			fmt.Printf("   editing: %v  %v\n", *m.EditName, strings.Join(domain.FormatDates(m.EditLeaveDates), ", "))
		}
	}

	fmt.Println(domain.MemberSummary(len(members)))

	return nil
}

type AddCmd struct {
	Name  string   `short:"n" required:"" help:"Team member name."`
	Dates []string `name:"date" short:"d" help:"Leave date (YYYY-MM-DD). May be repeated."`
	From  string   `help:"First day of a leave interval (YYYY-MM-DD)."`
	To    string   `help:"Last day of a leave interval (YYYY-MM-DD)."`
}

func (c *AddCmd) Run(ctx *cmdContext) error {
	input, err := c.input()
	if err != nil {
		return err
	}

	member, err := ctx.service.AddMember(ctx.ctx, input)
	if err != nil {
		return err
	}

	fmt.Printf("Added %v (%v) with %d leave days\n", member.Name, member.ID, len(member.LeaveDates))

	return nil
}

func (c *AddCmd) input() (service.AddMemberInput, error) {
	input := service.AddMemberInput{Name: c.Name}

	if c.From != "" || c.To != "" {
		if c.From == "" || c.To == "" {
			return input, errors.New("--from and --to must be used together")
		}

		from, err := domain.ParseDate(c.From)
		if err != nil {
			return input, err
		}
		to, err := domain.ParseDate(c.To)
		if err != nil {
			return input, err
		}

		input.Start, input.End = &from, &to
		return input, nil
	}

	dates, err := domain.ParseDates(c.Dates)
	if err != nil {
		return input, err
	}
	input.Dates = dates

	return input, nil
}

type RemoveCmd struct {
	ID string `arg:"" help:"ID of the team member to remove."`
}

func (c *RemoveCmd) Run(ctx *cmdContext) error {
	if err := ctx.service.RemoveMember(ctx.ctx, c.ID); err != nil {
		return err
	}

	fmt.Printf("Removed %v\n", c.ID)

	return nil
}

type EditCmd struct {
	ID    string   `arg:"" help:"ID of the team member to edit."`
	Name  string   `short:"n" help:"New name."`
	Dates []string `name:"date" short:"d" help:"New leave date (YYYY-MM-DD). May be repeated."`
	Month int      `short:"m" help:"Only replace the dates of this month (1-12) of the current year."`
}

func (c *EditCmd) Run(ctx *cmdContext) error {
	dates, err := domain.ParseDates(c.Dates)
	if err != nil {
		return err
	}

	_, lease, err := ctx.service.BeginEdit(ctx.ctx, c.ID)
	if err != nil {
		return err
	}

	member, err := c.apply(ctx, lease.ID, dates)
	if err != nil {
		if _, cancelErr := ctx.service.CancelEdit(ctx.ctx, c.ID, lease.ID); cancelErr != nil {
			return errors.Join(err, cancelErr)
		}
		return err
	}

	fmt.Printf("Saved %v (%v) with %d leave days\n", member.Name, member.ID, len(member.LeaveDates))

	return nil
}

func (c *EditCmd) apply(ctx *cmdContext, leaseID string, dates []time.Time) (*domain.TeamMember, error) {
	if c.Month != 0 {
		month, err := domain.ParseMonth(c.Month)
		if err != nil {
			return nil, err
		}
		if _, err := ctx.service.UpdateDraftMonth(ctx.ctx, c.ID, leaseID, month, dates); err != nil {
			return nil, err
		}
		dates = nil
	} else if len(c.Dates) == 0 {
		// Without --date the draft keeps the current dates
		dates = nil
	}

	input := service.DraftInput{Dates: dates}
	if c.Name != "" {
		input.Name = &c.Name
	}
	if _, err := ctx.service.UpdateDraft(ctx.ctx, c.ID, leaseID, input); err != nil {
		return nil, err
	}

	return ctx.service.SaveEdit(ctx.ctx, c.ID, leaseID)
}
