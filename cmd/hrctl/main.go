package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	log "github.com/sirupsen/logrus"
	"hr-agent-backend/initializers"
	"hr-agent-backend/lib/analytics"
	"hr-agent-backend/lib/chatbot"
	"hr-agent-backend/lib/interview"
	"hr-agent-backend/lib/job"
)

type runContext struct {
	ctx context.Context
}

type askCmd struct {
	Query []string `arg:"" help:"Question or instruction in plain language."`
}

func (c *askCmd) Run(rc *runContext) error {
	reply := chatbot.Instance.Ask(rc.ctx, strings.Join(c.Query, " "))
	fmt.Printf("[%s]\n%s\n", reply.QueryType, reply.Answer)
	if !reply.Success {
		return fmt.Errorf("query failed: %s", reply.Kind)
	}
	return nil
}

type seedJobsCmd struct{}

func (c *seedJobsCmd) Run(rc *runContext) error {
	seeded, count, err := job.Instance.SeedBasic(rc.ctx)
	if err != nil {
		return err
	}
	if seeded {
		fmt.Printf("sample jobs created, %d jobs in total\n", count)
	} else {
		fmt.Printf("jobs collection already has %d jobs\n", count)
	}
	return nil
}

type exportAttritionCmd struct {
	TopN int    `help:"Number of employees to rank." default:"20"`
	Out  string `help:"Output workbook path." default:"attrition-risk.xlsx" type:"path"`
}

func (c *exportAttritionCmd) Run(rc *runContext) error {
	data, err := analytics.Instance.AttritionExport(rc.ctx, c.TopN)
	if err != nil {
		return err
	}
	if err = os.WriteFile(c.Out, data.Bytes(), 0o644); err != nil {
		return err
	}
	fmt.Printf("attrition ranking written to %s\n", c.Out)
	return nil
}

type sendRemindersCmd struct{}

func (c *sendRemindersCmd) Run(rc *runContext) error {
	sent, err := interview.Instance.SendDueReminders(rc.ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%d interview reminders sent\n", sent)
	return nil
}

var cli struct {
	Ask             askCmd             `cmd:"" help:"Ask the HR assistant."`
	SeedJobs        seedJobsCmd        `cmd:"" help:"Insert sample jobs into an empty Jobs collection."`
	ExportAttrition exportAttritionCmd `cmd:"" help:"Write the attrition ranking to an Excel workbook."`
	SendReminders   sendRemindersCmd   `cmd:"" help:"Send reminders for interviews inside the reminder window."`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("hrctl"),
		kong.Description("Operator commands for the HR agent backend."),
		kong.UsageOnError(),
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	initializers.InitAllServices(ctx, false)
	if err := kctx.Run(&runContext{ctx: ctx}); err != nil {
		log.WithError(err).Error("command failed")
		cancel()
		os.Exit(1)
	}
}
