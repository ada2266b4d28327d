package report

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"mdeval/internal/evaluation"
	"mdeval/internal/scoring"
)

var fileColumns = []string{
	"file",
	"channel",
	"mask",
	"scored speaker",
	"missed",
	"false alarm",
	"speaker error",
	"der %",
}

// RenderFileTable renders one row per scored file/channel followed by a total
// row. Times are in seconds.
func RenderFileTable(outcome *evaluation.Outcome) string {
	title := cases.Title(language.Und)

	tw := table.NewWriter()
	style := table.StyleRounded
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault
	tw.SetStyle(style)

	header := make(table.Row, len(fileColumns))
	configs := make([]table.ColumnConfig, len(fileColumns))
	for i, label := range fileColumns {
		header[i] = title.String(label)
		align := text.AlignRight
		if i < 3 {
			align = text.AlignLeft
		}
		configs[i] = table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft, AlignFooter: align}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, unit := range outcome.Units {
		tw.AppendRow(statsRow(unit.File, unit.Channel, unit.MaskSource, unit.Result.Stats))
	}
	tw.AppendFooter(statsRow("Total", "", "", outcome.Total))

	return tw.Render()
}

func statsRow(file, channel, mask string, s scoring.Stats) table.Row {
	return table.Row{
		file,
		channel,
		mask,
		seconds(s.ScoredSpeaker),
		seconds(s.MissedSpeaker),
		seconds(s.FalarmSpeaker),
		seconds(s.SpeakerError),
		fmt.Sprintf("%.2f", 100*s.DER()),
	}
}

func seconds(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
