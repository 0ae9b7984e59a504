package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/trezcool/proctor/core"
	"github.com/trezcool/proctor/core/alert"
	"github.com/trezcool/proctor/core/audit"
)

func (cli *commandLine) listAudit(ctx context.Context, fs *flag.FlagSet, args []string) error {
	var qf audit.QueryFilter
	fs.StringVar(&qf.Search, "search", "", "search actor, action, target and details")
	fs.StringVar(&qf.Action, "action", "", "action name")
	fs.StringVar(&qf.Actor, "actor", "", "actor")
	every := fs.Duration("watch", 0, "refresh every DURATION")
	if err := fs.Parse(args); err != nil {
		return err
	}
	qf.Clean()
	return show(ctx, cli, *every, listing[audit.Events]{
		fetch: func(ctx context.Context) core.Result[audit.Events] {
			return cli.svcs.Audit.List(ctx, audit.QueryFilter{})
		},
		filter: func(es audit.Events) audit.Events { return audit.Events{Events: audit.Filter(es.Events, qf)} },
		render: renderEvents,
	})
}

func (cli *commandLine) alertsListing(qf alert.QueryFilter) listing[alert.Alerts] {
	qf.Clean()
	return listing[alert.Alerts]{
		fetch: func(ctx context.Context) core.Result[alert.Alerts] {
			return cli.svcs.Alerts.List(ctx, alert.QueryFilter{})
		},
		filter: func(as alert.Alerts) alert.Alerts { return alert.Alerts{Alerts: alert.Filter(as.Alerts, qf)} },
		render: renderAlerts,
	}
}

func (cli *commandLine) listAlerts(ctx context.Context, fs *flag.FlagSet, args []string) error {
	var qf alert.QueryFilter
	fs.StringVar(&qf.Search, "search", "", "search title and message")
	fs.StringVar(&qf.Severity, "severity", "", "low, medium, high or critical")
	fs.StringVar(&qf.Status, "status", "", "open or resolved")
	every := fs.Duration("watch", 0, "refresh every DURATION")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return show(ctx, cli, *every, cli.alertsListing(qf))
}

func (cli *commandLine) resolveAlert(ctx context.Context, fs *flag.FlagSet, args []string) error {
	id := fs.String("id", "", "alert id")
	note := fs.String("note", "", "resolution note")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := require(fs, *id); err != nil {
		return err
	}
	return mutate(ctx, cli, func(ctx context.Context) *core.ErrorDetail {
		return cli.svcs.Alerts.Resolve(ctx, core.ID(*id), *note).Detail
	}, "Alert resolved.", cli.alertsListing(alert.QueryFilter{Status: alert.StatusOpen}))
}

func (cli *commandLine) chat(ctx context.Context, fs *flag.FlagSet, args []string) error {
	message := fs.String("message", "", "question for the assistant")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := require(fs, *message); err != nil {
		return err
	}
	res := cli.svcs.Bot.Chat(ctx, *message)
	if !res.OK {
		return cli.check(res.Detail)
	}
	fmt.Fprintln(cli.out, res.Data.Reply)
	return nil
}

func (cli *commandLine) botStatus(ctx context.Context, fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	res := cli.svcs.Bot.Status(ctx)
	if !res.OK {
		return cli.check(res.Detail)
	}
	state := "offline"
	if res.Data.Online {
		state = "online"
	}
	fmt.Fprintf(cli.out, "Assistant is %s", state)
	if res.Data.Model != "" {
		fmt.Fprintf(cli.out, " (%s)", res.Data.Model)
	}
	fmt.Fprintln(cli.out, ".")
	return nil
}
