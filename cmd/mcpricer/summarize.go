package main

import (
	"github.com/urfave/cli/v2"
	"github.com/yanun0323/logs"

	"mcpricer/internal/report"
	"mcpricer/internal/sink"
)

func summarizeAction(c *cli.Context) error {
	path := c.String("input")
	records, err := sink.ReadCSVFile(path)
	if err != nil {
		return err
	}

	boxes, err := report.Summarize(records)
	if err != nil {
		return err
	}

	logs.Infof("summarized %d paths from %s", len(records), path)
	return report.WriteTable(c.App.Writer, boxes)
}
